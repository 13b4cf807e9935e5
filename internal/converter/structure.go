// =============================================================================
// BOM Structure Converter - Structure Conversion
// =============================================================================
//
// The structure conversion turns the export into the parent/child import
// file. It is all-or-nothing: any component with a blank description aborts
// the run and reports every offending code at once, because a partially
// imported BOM is worse than none.
//
// A successful run produces a folder named "ESTRUTURA <assembly>" holding:
//   - ESTRUTURA_<assembly>.csv        the import file
//   - RELATORIO_REMOVIDOS_<...>.csv   the exclusions report
//   - a copy of the input export
//
// =============================================================================

package converter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olsenbrasil/bom-csv-conversion/internal/bom"
	"github.com/olsenbrasil/bom-csv-conversion/internal/csvwriter"
	"github.com/olsenbrasil/bom-csv-conversion/internal/report"
	"github.com/olsenbrasil/bom-csv-conversion/internal/xlsxreader"
	"github.com/olsenbrasil/bom-csv-conversion/pkg/utils"
)

func (c *Converter) runStructure(doc *xlsxreader.Document, result *Result) error {
	engine := bom.NewEngine(c.engineOptions())

	rows := make([]bom.RawRow, 0, len(doc.Rows))
	for _, row := range doc.Rows {
		rows = append(rows, bom.RawRow{
			Level:       row.Level,
			RawCode:     row.RawCode,
			Description: row.Description,
			Quantity:    row.Quantity,
			LossPercent: row.LossPercent,
		})
	}

	conv := engine.Convert(rows)
	if conv.Failed() {
		return fmt.Errorf("descriptions missing for %d component(s): %s",
			len(conv.MissingDescriptions), strings.Join(conv.MissingDescriptions, ", "))
	}

	outDir, err := utils.EnsureOutputFolder(c.cfg.OutputDir, c.req.InputFile, c.displayAssembly())
	if err != nil {
		return err
	}

	outputFile := filepath.Join(outDir, fmt.Sprintf("ESTRUTURA_%s.csv", c.req.Assembly))
	if err := csvwriter.WriteStructureFile(outputFile, c.cfg.CompanyCode, conv.Relationships); err != nil {
		return err
	}
	result.OutputFile = outputFile
	result.Stats.Records = len(conv.Relationships)
	result.Stats.Duplicates = conv.DuplicateCount

	c.collectStructureWarnings(conv, result)

	rep := c.buildExclusionsReport(doc, engine.Normalizer(), conv)
	reportFile := filepath.Join(outDir, report.FileName(c.req.Assembly))
	if err := rep.WriteFile(reportFile); err != nil {
		return err
	}
	result.ReportFile = reportFile
	result.Stats.RowsExcluded = len(doc.Exclusions) + len(rowsExcludedByMarker(doc, engine.Normalizer()))

	if _, err := utils.CopyIntoFolder(c.req.InputFile, outDir); err != nil {
		return err
	}
	return nil
}

// collectStructureWarnings surfaces the non-fatal findings.
func (c *Converter) collectStructureWarnings(conv *bom.ConversionResult, result *Result) {
	for _, code := range conv.OversizedDescriptions {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("description of %s exceeds the width limit, check how it renders in the ERP", code))
	}

	// Z codes in the parent column usually mean a raw material was
	// modeled as an assembly. The import goes through, someone has to
	// look at it.
	seenParents := make(map[string]bool)
	for _, rel := range conv.Relationships {
		if strings.HasPrefix(rel.Parent, "Z") && !seenParents[rel.Parent] {
			seenParents[rel.Parent] = true
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Z code %s appears as a parent (MTG column), verify it is really an assembly", rel.Parent))
		}
	}

	if conv.DuplicateCount > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d duplicated relationship(s) collapsed into their first occurrence", conv.DuplicateCount))
	}
}

// buildExclusionsReport assembles the audit trail of everything that was
// removed or flagged before the output was written.
func (c *Converter) buildExclusionsReport(doc *xlsxreader.Document, normalizer *bom.CodeNormalizer, conv *bom.ConversionResult) *report.Report {
	rep := report.New()

	for _, ex := range doc.Exclusions {
		rep.Add(report.Entry{
			Reason:       report.ReasonInvalidItem,
			Line:         ex.Line,
			Item:         ex.Item,
			Quantity:     ex.Quantity,
			RawCode:      ex.RawCode,
			MaterialCode: ex.MaterialCode,
		})
	}

	for _, row := range rowsExcludedByMarker(doc, normalizer) {
		reason := report.ReasonIgnoreMarker
		if !normalizer.IsExcluded(row.RawCode) {
			reason = report.ReasonEmptyCode
		}
		rep.Add(report.Entry{
			Reason:       reason,
			Line:         row.Line,
			Item:         row.Item,
			Quantity:     csvwriter.FormatDecimal(row.Quantity),
			RawCode:      row.RawCode,
			MaterialCode: row.MaterialCode,
		})
	}

	lineByCode := make(map[string]xlsxreader.Row)
	for _, row := range doc.Rows {
		code := normalizer.Normalize(row.RawCode)
		if code == "" {
			continue
		}
		if _, ok := lineByCode[code]; !ok {
			lineByCode[code] = row
		}
	}

	for _, code := range conv.SpecialCodes {
		row := lineByCode[code]
		rep.Add(report.Entry{
			Reason:       report.ReasonSpecialCode,
			Line:         row.Line,
			Item:         row.Item,
			Quantity:     csvwriter.FormatDecimal(row.Quantity),
			RawCode:      row.RawCode,
			MaterialCode: row.MaterialCode,
		})
	}

	for _, code := range conv.OversizedDescriptions {
		row := lineByCode[code]
		rep.Add(report.Entry{
			Reason:       report.ReasonOversizedDescr,
			Line:         row.Line,
			Item:         row.Item,
			Quantity:     csvwriter.FormatDecimal(row.Quantity),
			RawCode:      row.RawCode,
			MaterialCode: row.MaterialCode,
		})
	}

	for _, rel := range conv.DuplicateSamples {
		rep.Add(report.Entry{
			Reason:  report.ReasonDuplicate,
			RawCode: fmt.Sprintf("%s -> %s", rel.Parent, rel.Child),
		})
	}

	return rep
}
