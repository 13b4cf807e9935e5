// =============================================================================
// BOM Structure Converter - Conversion Engine
// =============================================================================
//
// The engine orchestrates validator, builder, and deduplicator over an
// already-materialized row slice and assembles the structured result handed
// to external collaborators (CSV writer, report generator, CLI).
//
// PROPAGATION POLICY:
//   Validation findings are collected, never surfaced mid-pass. The engine
//   returns either a complete failure (any blank description, all offending
//   codes reported together) or a complete success-with-warnings result.
//   Partial output on invalid input is disallowed: a partial BOM import is
//   worse than no import.
//
// =============================================================================

package bom

// Options configures a conversion engine.
type Options struct {
	// DescriptionWidthLimit is the weighted-width budget for descriptions.
	// Zero means DefaultWidthLimit.
	DescriptionWidthLimit float64

	// SpecialPrefixes overrides the raw-material/special 3-character prefix
	// set. Empty means DefaultSpecialPrefixes.
	SpecialPrefixes []string
}

// Engine runs the full convert pipeline. Engines are cheap; construct one
// per conversion run.
type Engine struct {
	normalizer *CodeNormalizer
	validator  *RowValidator
}

// NewEngine creates an engine from the given options.
func NewEngine(opts Options) *Engine {
	return &Engine{
		normalizer: NewCodeNormalizer(opts.SpecialPrefixes),
		validator:  NewRowValidator(opts.DescriptionWidthLimit),
	}
}

// Normalizer exposes the engine's code normalizer so callers can reuse the
// exact same cleaning rules on related inputs.
func (e *Engine) Normalizer() *CodeNormalizer {
	return e.normalizer
}

// Convert runs validation, hierarchy reconstruction, and deduplication over
// the rows and returns a fresh ConversionResult. The engine performs no I/O
// and running Convert twice on the same rows yields an identical result.
func (e *Engine) Convert(rows []RawRow) *ConversionResult {
	result := &ConversionResult{}

	missing := newOrderedSet()
	oversized := newOrderedSet()
	excluded := newOrderedSet()
	special := newOrderedSet()

	// First pass: validation and classification over every row, so a fatal
	// outcome reports the complete offending set rather than failing on the
	// first hit.
	for _, row := range rows {
		if e.normalizer.IsExcluded(row.RawCode) {
			excluded.Add(row.RawCode)
			continue
		}

		cleanCode := e.normalizer.Normalize(row.RawCode)
		if cleanCode == "" {
			excluded.Add(row.RawCode)
			continue
		}
		if e.normalizer.IsRawMaterialOrSpecial(cleanCode) {
			special.Add(cleanCode)
		}

		if outcome := e.validator.Validate(row); !outcome.OK {
			switch outcome.Reason {
			case ReasonMissingDescription:
				missing.Add(cleanCode)
			case ReasonOversizedDescription:
				oversized.Add(cleanCode)
			}
		}
	}

	result.MissingDescriptions = missing.Values()
	result.OversizedDescriptions = oversized.Values()
	result.ExcludedCodes = excluded.Values()
	result.SpecialCodes = special.Values()

	// Fatal: abort without producing relationships.
	if result.Failed() {
		return result
	}

	builder := NewHierarchyBuilder(e.normalizer)
	deduped := Dedupe(builder.Build(rows))

	result.Relationships = deduped.Relationships
	result.DuplicateCount = deduped.DroppedCount
	result.DuplicateSamples = deduped.Samples

	return result
}
