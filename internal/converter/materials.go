// =============================================================================
// BOM Structure Converter - Material Update Conversion
// =============================================================================
//
// Generates the raw-material (MP20) update file:
//
//   EMP;COD;MAP;PES;PER
//   001;G12060010;123456;0,80;0
//
// One line per unique fabricated part that carries a material code. Z part
// codes are skipped, rows without a usable material code are irrelevant to
// this import and skipped silently.
//
// The MAP column accepts exactly three shapes, so the raw cell value is
// reduced to one of them: 6 digits, Z + 5 digits, or Z + 6 digits. The PES
// column holds the weight in kg, except for Z20 materials (hoses), where
// it holds the length in meters taken from the last "mm" figure in the
// description.
//
// =============================================================================

package converter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/olsenbrasil/bom-csv-conversion/internal/bom"
	"github.com/olsenbrasil/bom-csv-conversion/internal/csvwriter"
	"github.com/olsenbrasil/bom-csv-conversion/internal/xlsxreader"
)

// materialHeader is the column set of the material import file.
var materialHeader = []string{"EMP", "COD", "MAP", "PES", "PER"}

// hosePrefix marks material codes measured in meters instead of kg.
const hosePrefix = "Z20"

func (c *Converter) runMaterials(doc *xlsxreader.Document, result *Result) error {
	normalizer := bom.NewCodeNormalizer(c.cfg.SpecialPrefixes)

	comps := components(doc, normalizer)
	records := make([][]string, 0, len(comps))
	for _, comp := range comps {
		if strings.HasPrefix(comp.Code, "Z") {
			continue
		}

		materialCode := FormatMaterialCode(comp.Row.MaterialCode)
		if materialCode == "" {
			continue
		}

		var pes string
		if strings.HasPrefix(materialCode, hosePrefix) {
			meters, ok := ExtractMeters(comp.Row.Description)
			if !ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("line %d: no length in mm found for hose material of %s, defaulting to 1,00 m",
						comp.Row.Line, comp.Code))
			}
			pes = meters
		} else {
			pes = formatKg(comp.Row.Weight)
		}

		records = append(records, []string{
			c.cfg.CompanyCode, comp.Code, materialCode, pes, "0",
		})
	}

	sort.Slice(records, func(i, j int) bool { return records[i][1] < records[j][1] })

	outputFile := filepath.Join(c.outputDir(), fmt.Sprintf("ATUALIZAÇÃO DE MATÉRIA PRIMA %s.csv", c.displayAssembly()))
	if err := csvwriter.WriteFile(outputFile, materialHeader, records, csvwriter.DefaultGenerateOptions()); err != nil {
		return err
	}

	result.OutputFile = outputFile
	result.Stats.Records = len(records)
	return nil
}

// digitsPattern picks individual digits out of a material cell.
var digitsPattern = regexp.MustCompile(`\d`)

// FormatMaterialCode reduces a raw material cell to one of the accepted
// shapes: 6 digits, Z + 5 digits, or Z + 6 digits. Text after " - " is a
// free-form description and is cut off first. Returns "" when no accepted
// shape can be formed.
func FormatMaterialCode(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if cut, _, found := strings.Cut(s, " - "); found {
		s = strings.TrimSpace(cut)
	}
	if s == "" {
		return ""
	}

	digits := strings.Join(digitsPattern.FindAllString(s, -1), "")
	if strings.HasPrefix(s, "Z") {
		if len(digits) >= 6 {
			return "Z" + digits[len(digits)-6:]
		}
		if len(digits) >= 5 {
			return "Z" + digits[len(digits)-5:]
		}
		return ""
	}
	if len(digits) >= 6 {
		return digits[len(digits)-6:]
	}
	return ""
}

// mmPattern matches a number immediately before "mm".
var mmPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*mm`)

// ExtractMeters takes the last "mm" figure in a description and converts
// it to meters with a comma decimal and two places: "... 5920mm" gives
// "5,92". When no figure is found it returns "1,00" and false.
func ExtractMeters(description string) (string, bool) {
	matches := mmPattern.FindAllStringSubmatch(description, -1)
	if len(matches) == 0 {
		return "1,00", false
	}

	last := strings.Replace(matches[len(matches)-1][1], ",", ".", 1)
	mm, err := strconv.ParseFloat(last, 64)
	if err != nil {
		return "1,00", false
	}
	return formatKg(mm / 1000.0), true
}

// formatKg renders a value with a comma decimal and two places.
func formatKg(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}
