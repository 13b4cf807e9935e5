// =============================================================================
// BOM Structure Converter - XLSX Reader
// =============================================================================
//
// This module reads the fixed-layout BOM export produced by the CAD tool and
// decodes it into rows for the conversion engine. The expected sheet layout:
//
//   | ITEM  | QTD | DESCRIÇÃO        | N° DESENHO    | CODIGO MP20 | ... | PESO | PERDA |
//   | 1.0   | 1   | MAIN ASSEMBLY    | OLG12-06-1001 |             |     | 12,5 | 0     |
//   | 1.1   | 2   | BRACKET          | OL-G12-06-10  | 123456      |     | 0,80 | 5     |
//
// Columns are located by header name with positional fallbacks for the
// description (column C) and weight (column H), matching the source files
// that ship with slightly different header spellings. The ITEM column
// encodes the indentation level: "1" and "1.0" are level 0, "1.1" level 1,
// "1.1.1" level 2, and so on.
//
// =============================================================================

package xlsxreader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one decoded data row of the export.
type Row struct {
	// Line is the 1-based spreadsheet line, header included, for
	// diagnostics that point back at the source file.
	Line int

	// Item is the raw hierarchy position string, e.g. "1.2.3".
	Item string

	// Level is the indentation depth decoded from Item.
	Level int

	// RawCode is the drawing number exactly as exported.
	RawCode string

	Description string
	Quantity    float64
	LossPercent float64

	// MaterialCode is the raw-material reference, used by the material
	// update conversion.
	MaterialCode string

	// Weight in kg, used by the parts registration conversion.
	Weight float64
}

// ExclusionRecord documents a row the reader had to drop before the engine
// ever saw it.
type ExclusionRecord struct {
	Reason       string
	Line         int
	Item         string
	Quantity     string
	RawCode      string
	MaterialCode string
}

// Document is the decoded export.
type Document struct {
	Sheet         string
	Rows          []Row
	Exclusions    []ExclusionRecord
	TotalDataRows int
}

// columnMap holds resolved column indexes, -1 when absent.
type columnMap struct {
	item        int
	quantity    int
	description int
	drawing     int
	material    int
	weight      int
	loss        int
}

const (
	// Positional fallbacks from the reference export layout.
	fallbackDescriptionCol = 2 // column C
	fallbackWeightCol      = 7 // column H

	// ReasonInvalidLevel marks rows whose ITEM value does not encode a
	// hierarchy level.
	ReasonInvalidLevel = "ITEM invalido (nivel nao identificavel)"
)

// ReadFile opens the export and decodes its BOM sheet.
func ReadFile(filePath string) (*Document, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	// Find the sheet carrying the BOM columns. Exports usually have a
	// single sheet, but templates occasionally carry extra tabs.
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		cols, headerRow := locateHeader(rows)
		if headerRow < 0 {
			continue
		}
		doc := decodeSheet(sheet, rows, cols, headerRow)
		return doc, nil
	}

	return nil, fmt.Errorf("no sheet with BOM columns (ITEM, QTD, N° DESENHO) found in %s", filePath)
}

// locateHeader scans the first rows of a sheet for the header and maps the
// column positions. Returns -1 when the sheet does not look like a BOM.
func locateHeader(rows [][]string) (columnMap, int) {
	const scanLimit = 5

	for i := 0; i < len(rows) && i < scanLimit; i++ {
		cols := mapColumns(rows[i])
		if cols.item >= 0 && cols.drawing >= 0 && cols.quantity >= 0 {
			return cols, i
		}
	}
	return columnMap{}, -1
}

// mapColumns resolves column indexes from header names. Matching is by
// lowercase substring so accented and unaccented spellings both work.
func mapColumns(header []string) columnMap {
	cols := columnMap{
		item:        -1,
		quantity:    -1,
		description: -1,
		drawing:     -1,
		material:    -1,
		weight:      -1,
		loss:        -1,
	}

	for j, name := range header {
		h := strings.ToLower(strings.TrimSpace(name))
		switch {
		case h == "item":
			cols.item = j
		case h == "qtd" || strings.Contains(h, "quant"):
			cols.quantity = j
		case strings.Contains(h, "descri"):
			cols.description = j
		case strings.Contains(h, "desenho") || strings.Contains(h, "drawing"):
			cols.drawing = j
		case strings.Contains(h, "mp20") || strings.Contains(h, "material"):
			cols.material = j
		case strings.Contains(h, "peso") || strings.Contains(h, "weight"):
			cols.weight = j
		case strings.Contains(h, "perda") || strings.Contains(h, "loss"):
			cols.loss = j
		}
	}

	// Fallbacks by position for columns the header did not announce.
	if cols.description < 0 {
		cols.description = fallbackDescriptionCol
	}
	if cols.weight < 0 {
		cols.weight = fallbackWeightCol
	}

	return cols
}

// decodeSheet converts the data rows below the header.
func decodeSheet(sheet string, rows [][]string, cols columnMap, headerRow int) *Document {
	doc := &Document{Sheet: sheet}

	for i := headerRow + 1; i < len(rows); i++ {
		cells := rows[i]
		if isRowEmpty(cells) {
			continue
		}
		doc.TotalDataRows++

		line := i + 1 // spreadsheet lines are 1-based
		item := cell(cells, cols.item)
		rawCode := cell(cells, cols.drawing)

		level, err := ParseItemLevel(item)
		if err != nil {
			doc.Exclusions = append(doc.Exclusions, ExclusionRecord{
				Reason:       ReasonInvalidLevel,
				Line:         line,
				Item:         item,
				Quantity:     cell(cells, cols.quantity),
				RawCode:      rawCode,
				MaterialCode: cell(cells, cols.material),
			})
			continue
		}

		doc.Rows = append(doc.Rows, Row{
			Line:         line,
			Item:         item,
			Level:        level,
			RawCode:      rawCode,
			Description:  cell(cells, cols.description),
			Quantity:     parseDecimal(cell(cells, cols.quantity)),
			LossPercent:  parseDecimal(cell(cells, cols.loss)),
			MaterialCode: cell(cells, cols.material),
			Weight:       parseDecimal(cell(cells, cols.weight)),
		})
	}

	return doc
}

// itemPattern accepts digits, dots, and spaces only.
var itemPattern = regexp.MustCompile(`^[0-9. ]+$`)

// ParseItemLevel decodes the indentation level from an ITEM value.
// "1" and "1.0" are level 0, "1.1" is level 1, "1.1.1" is level 2.
func ParseItemLevel(item string) (int, error) {
	item = strings.TrimSpace(item)
	if item == "" || !itemPattern.MatchString(item) {
		return 0, fmt.Errorf("item %q does not encode a hierarchy level", item)
	}

	parts := strings.Split(item, ".")
	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			return 0, fmt.Errorf("item %q has an empty segment", item)
		}
		if _, err := strconv.Atoi(p); err != nil {
			return 0, fmt.Errorf("item %q has a non-numeric segment %q", item, p)
		}
	}

	// "1.0", "2.0" are top-level assemblies, same depth as a bare "1".
	if len(parts) == 1 || (len(parts) == 2 && strings.TrimSpace(parts[1]) == "0") {
		return 0, nil
	}
	return strings.Count(item, "."), nil
}

// cell returns the trimmed cell at index idx, or "" when the row is short.
func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// parseDecimal reads a spreadsheet number leniently: comma decimal
// separators are accepted and blanks or garbage come back as 0.
func parseDecimal(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		// Brazilian locale: dot is the thousands separator.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// isRowEmpty reports whether every cell in the row is blank.
func isRowEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
