// =============================================================================
// BOM Structure Converter - Parts Registration Conversion
// =============================================================================
//
// Generates the registration file for fabricated parts and assemblies:
//
//   <code>;<description>;3;4;107;108;16;3;S;<weight>
//
// No header, sorted by code, one line per unique code. Z codes are raw
// materials and are not registered here. Weights keep the dot as decimal
// separator, trimmed to two places, because that is what the registration
// import expects.
//
// =============================================================================

package converter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olsenbrasil/bom-csv-conversion/internal/bom"
	"github.com/olsenbrasil/bom-csv-conversion/internal/csvwriter"
	"github.com/olsenbrasil/bom-csv-conversion/internal/xlsxreader"
)

// registrationProps are the fixed property columns of the import layout.
var registrationProps = []string{"3", "4", "107", "108", "16", "3", "S"}

// maxRegistrationFieldLen is the widest value the registration import
// accepts for code and description fields.
const maxRegistrationFieldLen = 100

func (c *Converter) runParts(doc *xlsxreader.Document, result *Result) error {
	normalizer := bom.NewCodeNormalizer(c.cfg.SpecialPrefixes)

	comps := components(doc, normalizer)
	records := make([][]string, 0, len(comps))
	for _, comp := range comps {
		if strings.HasPrefix(comp.Code, "Z") {
			continue
		}

		desc := sanitizeField(comp.Row.Description)
		rec := make([]string, 0, len(registrationProps)+3)
		rec = append(rec, comp.Code, desc)
		rec = append(rec, registrationProps...)
		rec = append(rec, formatWeight(comp.Row.Weight))
		records = append(records, rec)

		if len(comp.Code) > maxRegistrationFieldLen || len(desc) > maxRegistrationFieldLen {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("line %d: code or description of %s exceeds %d characters",
					comp.Row.Line, comp.Code, maxRegistrationFieldLen))
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i][0] < records[j][0] })

	outputFile := filepath.Join(c.outputDir(), fmt.Sprintf("CADASTRO DE PEÇAS %s.csv", c.displayAssembly()))
	opts := csvwriter.GenerateOptions{Delimiter: ';', IncludeBOM: false}
	if err := csvwriter.WriteFile(outputFile, nil, records, opts); err != nil {
		return err
	}

	result.OutputFile = outputFile
	result.Stats.Records = len(records)
	return nil
}

// formatWeight renders a weight with a dot decimal separator and at most
// two places: 1.2 -> "1.2", 0 -> "0".
func formatWeight(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
