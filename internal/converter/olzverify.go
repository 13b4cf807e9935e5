// =============================================================================
// BOM Structure Converter - OLZ Verification
// =============================================================================
//
// Compares the Z codes present in the export against the registered-codes
// reference sheet and lists the ones that are not registered yet. When
// everything is registered no file is written.
//
//   Codigo;Descricao;Desenho_Original;Status
//   Z03G12060099;CHAPA 1/4;OL-Z03-G12-06-0099;NÃO CADASTRADO
//
// =============================================================================

package converter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olsenbrasil/bom-csv-conversion/internal/bom"
	"github.com/olsenbrasil/bom-csv-conversion/internal/csvreader"
	"github.com/olsenbrasil/bom-csv-conversion/internal/csvwriter"
	"github.com/olsenbrasil/bom-csv-conversion/internal/xlsxreader"
)

// olzHeader is the column set of the missing-codes file.
var olzHeader = []string{"Codigo", "Descricao", "Desenho_Original", "Status"}

// olzStatusMissing marks a code absent from the reference sheet.
const olzStatusMissing = "NÃO CADASTRADO"

func (c *Converter) runVerifyOLZ(doc *xlsxreader.Document, result *Result) error {
	normalizer := bom.NewCodeNormalizer(c.cfg.SpecialPrefixes)

	registered, err := loadReferenceCodes(c.req.ReferenceFile)
	if err != nil {
		return err
	}

	comps := components(doc, normalizer)
	var missing []component
	for _, comp := range comps {
		if !strings.HasPrefix(comp.Code, "Z") {
			continue
		}
		if !registered[strings.ToUpper(comp.Code)] {
			missing = append(missing, comp)
		}
	}

	if len(missing) == 0 {
		result.Warnings = append(result.Warnings,
			"all Z codes in the export are registered, no file written")
		return nil
	}

	sort.Slice(missing, func(i, j int) bool { return missing[i].Code < missing[j].Code })

	records := make([][]string, 0, len(missing))
	for _, comp := range missing {
		records = append(records, []string{
			comp.Code,
			sanitizeField(comp.Row.Description),
			comp.Row.RawCode,
			olzStatusMissing,
		})
	}

	outputFile := filepath.Join(c.outputDir(), fmt.Sprintf("OLZ FALTANTES %s.csv", c.displayAssembly()))
	if err := csvwriter.WriteFile(outputFile, olzHeader, records, csvwriter.DefaultGenerateOptions()); err != nil {
		return err
	}

	result.OutputFile = outputFile
	result.Stats.Records = len(records)
	return nil
}

// loadReferenceCodes reads the registered-codes sheet. The code column is
// any column whose name contains "cod"; when none matches the first column
// is used.
func loadReferenceCodes(path string) (map[string]bool, error) {
	data, err := csvreader.ReadFile(path, csvreader.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to read reference sheet: %w", err)
	}

	codeCol := data.Headers[0]
	for _, h := range data.Headers {
		if strings.Contains(strings.ToLower(h), "cod") {
			codeCol = h
			break
		}
	}

	values, err := data.Column(codeCol)
	if err != nil {
		return nil, err
	}

	codes := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			codes[strings.ToUpper(v)] = true
		}
	}
	return codes, nil
}
