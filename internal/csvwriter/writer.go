// =============================================================================
// BOM Structure Converter - CSV Writer
// =============================================================================
//
// This module generates the semicolon-delimited CSV files consumed by the ERP
// import jobs. All conversions share the same physical format:
//
//   - semicolon (;) field delimiter
//   - UTF-8 with a byte order mark, so Excel opens accented descriptions
//     correctly without an import wizard
//   - comma as the decimal separator (Brazilian locale)
//
// The structure conversion produces one line per parent/child relationship:
//
//   EMP;MTG;COD;QTD;PER
//   001;G12061001;G12060010;2;0
//   001;G12060010;G12060011;4;5
//
// Other conversions (parts registration, description update, material update)
// supply their own headers and records and reuse WriteFile.
//
// =============================================================================

package csvwriter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olsenbrasil/bom-csv-conversion/internal/bom"
)

// utf8BOM is prepended to every file so Excel detects the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StructureHeader is the column set of the structure import file.
var StructureHeader = []string{"EMP", "MTG", "COD", "QTD", "PER"}

// GenerateOptions controls the physical CSV format.
type GenerateOptions struct {
	// Delimiter is the field separator. Default: ';'
	Delimiter rune

	// IncludeBOM determines whether the UTF-8 byte order mark is written.
	// Default: true
	IncludeBOM bool
}

// DefaultGenerateOptions returns the format the ERP import expects.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Delimiter:  ';',
		IncludeBOM: true,
	}
}

// WriteFile writes a header plus records to the given path.
func WriteFile(path string, header []string, records [][]string, opts GenerateOptions) error {
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if opts.IncludeBOM {
		if _, err := f.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	w := csv.NewWriter(f)
	w.Comma = opts.Delimiter

	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// StructureRecords converts relationships into structure import lines.
// The company code is constant per file and comes from configuration.
func StructureRecords(companyCode string, rels []bom.Relationship) [][]string {
	records := make([][]string, 0, len(rels))
	for _, rel := range rels {
		records = append(records, []string{
			companyCode,
			rel.Parent,
			rel.Child,
			FormatDecimal(rel.Quantity),
			FormatDecimal(rel.LossPercent),
		})
	}
	return records
}

// WriteStructureFile writes the structure import CSV for a conversion run.
func WriteStructureFile(path, companyCode string, rels []bom.Relationship) error {
	records := StructureRecords(companyCode, rels)
	return WriteFile(path, StructureHeader, records, DefaultGenerateOptions())
}

// FormatDecimal renders a number with a comma decimal separator and no
// trailing zeros: 2 -> "2", 2.5 -> "2,5", 0.125 -> "0,125".
func FormatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return strings.Replace(s, ".", ",", 1)
}
