// =============================================================================
// BOM Structure Converter - Conversion Orchestrator
// =============================================================================
//
// This module drives a single conversion run end to end: request validation,
// reading the XLSX export, running the selected conversion, and writing the
// output files. Each run is identified by a UUID so log lines from parallel
// runs can be told apart.
//
// CONVERSION TYPES:
//   structure     - parent/child relationships for the structure import
//   parts         - parts and assemblies registration file
//   descriptions  - description update file
//   materials     - raw-material (MP20) update file
//   verify-olz    - Z codes present in the export but absent from the
//                   registered-codes reference sheet
//
// All conversions share the component scan: rows marked with "^" are
// skipped, codes are normalized, and only the first occurrence of each
// code is kept.
//
// =============================================================================

package converter

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olsenbrasil/bom-csv-conversion/internal/bom"
	"github.com/olsenbrasil/bom-csv-conversion/internal/config"
	"github.com/olsenbrasil/bom-csv-conversion/internal/validation"
	"github.com/olsenbrasil/bom-csv-conversion/internal/xlsxreader"
	"github.com/olsenbrasil/bom-csv-conversion/pkg/utils"
)

// Result is the outcome of one conversion run.
type Result struct {
	// RunID identifies the run in logs.
	RunID uuid.UUID

	// InputFile is the processed export.
	InputFile string

	// OutputFile is the generated CSV. Empty when the run failed, and
	// also for a verify-olz run that found nothing missing.
	OutputFile string

	// ReportFile is the exclusions report. Only the structure
	// conversion writes one.
	ReportFile string

	// Success tells whether the run produced its outputs.
	Success bool

	// Error is set when Success is false.
	Error error

	// Warnings are non-fatal findings: flagged Z codes, oversized
	// descriptions, dropped duplicates.
	Warnings []string

	// Stats summarizes the run.
	Stats Stats
}

// Stats contains counters for one run.
type Stats struct {
	// RowsRead is the number of data rows decoded from the export.
	RowsRead int

	// RowsExcluded counts rows dropped before output: unparseable
	// items, "^" markers, empty codes.
	RowsExcluded int

	// Records is the number of output lines written.
	Records int

	// Duplicates is the number of repeated relationships or codes
	// collapsed into their first occurrence.
	Duplicates int

	// ProcessingTime is the wall time of the run.
	ProcessingTime time.Duration
}

// Converter runs one conversion request.
type Converter struct {
	req    validation.Request
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a converter for the request.
func New(req validation.Request, cfg *config.Config, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{req: req, cfg: cfg, logger: logger}
}

// Run executes the conversion and never panics on bad input: every failure
// comes back inside the Result.
func (c *Converter) Run() Result {
	start := time.Now()
	result := Result{
		RunID:     uuid.New(),
		InputFile: c.req.InputFile,
	}
	logger := c.logger.With("run_id", result.RunID.String(), "input", c.req.InputFile, "type", c.req.Type)

	fail := func(err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(start)
		logger.Error("conversion failed", "error", err)
		return result
	}

	if err := validation.New().ValidateRequest(&c.req); err != nil {
		return fail(err)
	}

	logger.Info("starting conversion", "assembly", c.req.Assembly)

	doc, err := xlsxreader.ReadFile(c.req.InputFile)
	if err != nil {
		return fail(fmt.Errorf("failed to read export: %w", err))
	}
	result.Stats.RowsRead = len(doc.Rows)
	result.Stats.RowsExcluded = len(doc.Exclusions)

	switch c.req.Type {
	case validation.TypeStructure:
		err = c.runStructure(doc, &result)
	case validation.TypeParts:
		err = c.runParts(doc, &result)
	case validation.TypeDescriptions:
		err = c.runDescriptions(doc, &result)
	case validation.TypeMaterials:
		err = c.runMaterials(doc, &result)
	case validation.TypeVerifyOLZ:
		err = c.runVerifyOLZ(doc, &result)
	default:
		err = fmt.Errorf("unknown conversion type %q", c.req.Type)
	}
	if err != nil {
		return fail(err)
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(start)
	logger.Info("conversion finished",
		"output", result.OutputFile,
		"records", result.Stats.Records,
		"warnings", len(result.Warnings),
		"elapsed", result.Stats.ProcessingTime)
	return result
}

// engineOptions maps the configuration onto the conversion engine.
func (c *Converter) engineOptions() bom.Options {
	return bom.Options{
		DescriptionWidthLimit: c.cfg.DescriptionWidthLimit,
		SpecialPrefixes:       c.cfg.SpecialPrefixes,
	}
}

// outputDir resolves where the run's files go. The structure conversion
// uses its own folder instead.
func (c *Converter) outputDir() string {
	if c.cfg.OutputDir != "" {
		return c.cfg.OutputDir
	}
	return filepath.Dir(c.req.InputFile)
}

// displayAssembly renders the assembly code for file names. Underscores
// stand in for spaces on the command line.
func (c *Converter) displayAssembly() string {
	return strings.ReplaceAll(c.req.Assembly, "_", " ")
}

// component is one unique code from the export.
type component struct {
	Code string
	Row  xlsxreader.Row
}

// components scans the export the way every conversion does: "^" rows are
// skipped, codes are normalized, and only the first row of each code is
// kept.
func components(doc *xlsxreader.Document, normalizer *bom.CodeNormalizer) []component {
	var comps []component
	seen := make(map[string]bool)

	for _, row := range doc.Rows {
		if normalizer.IsExcluded(row.RawCode) {
			continue
		}
		code := normalizer.Normalize(row.RawCode)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		comps = append(comps, component{Code: code, Row: row})
	}
	return comps
}

// sanitizeField keeps a free-text value on one CSV field: line breaks and
// tabs become spaces, semicolons become commas, runs of spaces collapse.
func sanitizeField(text string) string {
	replacer := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ", ";", ",")
	s := replacer.Replace(text)
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}

// rowsExcludedByMarker returns the rows dropped by the "^" marker or by
// normalizing down to nothing.
func rowsExcludedByMarker(doc *xlsxreader.Document, normalizer *bom.CodeNormalizer) []xlsxreader.Row {
	var excluded []xlsxreader.Row
	for _, row := range doc.Rows {
		if normalizer.IsExcluded(row.RawCode) || normalizer.Normalize(row.RawCode) == "" {
			excluded = append(excluded, row)
		}
	}
	return excluded
}

// InputsFromDir expands a directory argument into the .xlsx files inside
// it. A file argument comes back unchanged.
func InputsFromDir(path string) ([]string, error) {
	if utils.FileExists(path) {
		return []string{path}, nil
	}
	files, err := utils.FindExcelFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .xlsx files found in %s", path)
	}
	return files, nil
}
