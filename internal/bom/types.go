// =============================================================================
// BOM Structure Converter - Core Types
// =============================================================================
//
// This package contains the hierarchy reconstruction engine: the code that
// turns a flat, indentation-encoded BOM export into explicit parent-child
// relationship records ready for ERP import.
//
// The package is pure: it performs no I/O, holds no state between runs, and
// every conversion constructs its own engine instance, so concurrent
// conversions are safe as long as each gets its own row slice.
//
// =============================================================================

package bom

// RawRow is a single decoded row of the BOM export. Rows are produced by an
// external reader (see internal/xlsxreader) and consumed read-only here.
type RawRow struct {
	// Level is the indentation depth of the row. Level 0 rows are roots of
	// the exported structure and never appear as children.
	Level int

	// RawCode is the component code exactly as it appears in the export,
	// before any cleaning. The ignore marker check runs against this value.
	RawCode string

	// Description is the component description used for validation.
	Description string

	// Quantity is the per-parent quantity of this component occurrence.
	Quantity float64

	// LossPercent is the scrap percentage carried onto the relationship.
	LossPercent float64
}

// Relationship is one normalized parent-child link. Identity for
// deduplication is the (Parent, Child) pair, compared case-insensitively.
type Relationship struct {
	Parent      string
	Child       string
	Quantity    float64
	LossPercent float64
}

// ConversionResult is the complete outcome of one engine run. It is either a
// full failure (MissingDescriptions non-empty, no relationships) or a full
// success with warnings; there is no partial mode.
type ConversionResult struct {
	// Relationships in first-seen order, already deduplicated.
	Relationships []Relationship

	// MissingDescriptions lists the codes of every row with a blank
	// description. Non-empty means the run was aborted.
	MissingDescriptions []string

	// OversizedDescriptions lists codes whose description exceeds the
	// configured width budget. These rows are still emitted.
	OversizedDescriptions []string

	// ExcludedCodes lists codes dropped from the hierarchy entirely:
	// codes containing the ignore marker and codes that cleaned to empty.
	ExcludedCodes []string

	// SpecialCodes lists clean codes classified as raw-material/special.
	// Advisory only; these rows remain in the hierarchy.
	SpecialCodes []string

	// DuplicateCount is the number of dropped duplicate relationships.
	DuplicateCount int

	// DuplicateSamples holds up to a handful of the dropped duplicates for
	// the report.
	DuplicateSamples []Relationship
}

// Failed reports whether the run was aborted on missing descriptions.
func (r *ConversionResult) Failed() bool {
	return len(r.MissingDescriptions) > 0
}

// orderedSet keeps first-seen insertion order while deduplicating with a
// case-insensitive key. The original casing of the first occurrence is what
// gets stored, so lookups are normalized but output is not.
type orderedSet struct {
	seen  map[string]struct{}
	order []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) Add(value string) {
	key := foldKey(value)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, value)
}

func (s *orderedSet) Values() []string {
	return s.order
}
