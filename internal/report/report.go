// =============================================================================
// BOM Structure Converter - Exclusions Report
// =============================================================================
//
// Every conversion run writes a companion report listing the rows that did
// not make it into the output file, so the engineering team can audit what
// was dropped and why. The report is a semicolon CSV next to the output:
//
//   RELATORIO_REMOVIDOS_<assembly>.csv
//
//   MOTIVO;LINHA_XLSX;ITEM;QTD;N° DESENHO;CODIGO MP20
//   Marcado para remocao (^);14;1.3;1;^OL-G12-06-0042;
//   Codigo Z (verificar);22;1.7;2;Z03G12060099;
//
// A summary block at the bottom gives per-reason totals.
//
// =============================================================================

package report

import (
	"fmt"

	"github.com/olsenbrasil/bom-csv-conversion/internal/csvwriter"
)

// Removal reasons, in the wording the engineering team audits against.
const (
	ReasonIgnoreMarker   = "Marcado para remocao (^)"
	ReasonEmptyCode      = "Codigo vazio apos normalizacao"
	ReasonInvalidItem    = "ITEM invalido (nivel nao identificavel)"
	ReasonSpecialCode    = "Codigo Z (verificar)"
	ReasonDuplicate      = "Relacao duplicada"
	ReasonOversizedDescr = "Descricao acima do limite de largura"
)

// Header is the report column set.
var Header = []string{"MOTIVO", "LINHA_XLSX", "ITEM", "QTD", "N° DESENHO", "CODIGO MP20"}

// Entry is one reported row.
type Entry struct {
	Reason       string
	Line         int
	Item         string
	Quantity     string
	RawCode      string
	MaterialCode string
}

// Report accumulates entries for one conversion run.
type Report struct {
	entries []Entry
}

// New returns an empty report.
func New() *Report {
	return &Report{}
}

// Add appends an entry.
func (r *Report) Add(e Entry) {
	r.entries = append(r.entries, e)
}

// Entries returns the accumulated entries in insertion order.
func (r *Report) Entries() []Entry {
	return r.entries
}

// Empty reports whether nothing was removed or flagged.
func (r *Report) Empty() bool {
	return len(r.entries) == 0
}

// FileName builds the report file name for an assembly code.
func FileName(assembly string) string {
	return fmt.Sprintf("RELATORIO_REMOVIDOS_%s.csv", assembly)
}

// WriteFile writes the report, entries first, then a per-reason summary.
func (r *Report) WriteFile(path string) error {
	records := make([][]string, 0, len(r.entries)+8)
	for _, e := range r.entries {
		line := ""
		if e.Line > 0 {
			line = fmt.Sprintf("%d", e.Line)
		}
		records = append(records, []string{
			e.Reason, line, e.Item, e.Quantity, e.RawCode, e.MaterialCode,
		})
	}

	// Summary block: blank spacer, then one total per reason, preserving
	// first-seen order, then the grand total.
	if len(r.entries) > 0 {
		records = append(records, []string{"", "", "", "", "", ""})

		counts := map[string]int{}
		var order []string
		for _, e := range r.entries {
			if _, ok := counts[e.Reason]; !ok {
				order = append(order, e.Reason)
			}
			counts[e.Reason]++
		}
		for _, reason := range order {
			records = append(records, []string{
				fmt.Sprintf("TOTAL - %s", reason),
				fmt.Sprintf("%d", counts[reason]), "", "", "", "",
			})
		}
		records = append(records, []string{
			"TOTAL GERAL", fmt.Sprintf("%d", len(r.entries)), "", "", "", "",
		})
	}

	return csvwriter.WriteFile(path, Header, records, csvwriter.DefaultGenerateOptions())
}
