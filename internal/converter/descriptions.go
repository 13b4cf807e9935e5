// =============================================================================
// BOM Structure Converter - Description Update Conversion
// =============================================================================
//
// Generates the description update file:
//
//   <code>;<description>
//
// No header, sorted by code, one line per unique code. Z codes stay in:
// their descriptions are maintained through the same import. Blank or
// over-long descriptions do not block the run, they come back as warnings
// so the whole file can still be reviewed at once.
//
// =============================================================================

package converter

import (
	"fmt"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/olsenbrasil/bom-csv-conversion/internal/bom"
	"github.com/olsenbrasil/bom-csv-conversion/internal/csvwriter"
	"github.com/olsenbrasil/bom-csv-conversion/internal/xlsxreader"
)

// maxDescriptionLen is the character budget of the description field in
// the update import.
const maxDescriptionLen = 80

func (c *Converter) runDescriptions(doc *xlsxreader.Document, result *Result) error {
	normalizer := bom.NewCodeNormalizer(c.cfg.SpecialPrefixes)

	comps := components(doc, normalizer)
	records := make([][]string, 0, len(comps))
	for _, comp := range comps {
		desc := sanitizeField(comp.Row.Description)
		records = append(records, []string{comp.Code, desc})

		switch {
		case desc == "":
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("line %d: empty description for %s", comp.Row.Line, comp.Code))
		case utf8.RuneCountInString(desc) > maxDescriptionLen:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("line %d: description of %s is %d characters, limit is %d",
					comp.Row.Line, comp.Code, utf8.RuneCountInString(desc), maxDescriptionLen))
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i][0] < records[j][0] })

	outputFile := filepath.Join(c.outputDir(), fmt.Sprintf("ATUALIZAÇÃO DE DESCRIÇÕES %s.csv", c.displayAssembly()))
	if err := csvwriter.WriteFile(outputFile, nil, records, csvwriter.DefaultGenerateOptions()); err != nil {
		return err
	}

	result.OutputFile = outputFile
	result.Stats.Records = len(records)
	return nil
}
