// =============================================================================
// BOM Structure Converter - Row Validator
// =============================================================================
//
// Description checks for the destination ERP. The importer renders
// descriptions in a fixed-width column, and exact character count is a poor
// proxy for rendered width, so descriptions are measured with a rough
// proportional-width model instead of true font metrics: most characters
// count 1.0, a few visually wide ones count 1.4, and a few narrow ones 0.8.
//
// =============================================================================

package bom

import "strings"

// ValidationReason identifies why a row failed or warned.
type ValidationReason string

const (
	// ReasonMissingDescription is fatal for the whole run. The engine
	// aborts and reports every offending code together so the user can
	// fix them in a single pass.
	ReasonMissingDescription ValidationReason = "missing_description"

	// ReasonOversizedDescription is a non-fatal warning; the row is still
	// emitted.
	ReasonOversizedDescription ValidationReason = "oversized_description"
)

// ValidationOutcome is the result of validating a single row.
type ValidationOutcome struct {
	OK     bool
	Reason ValidationReason
}

// DefaultWidthLimit is the description width budget in weighted character
// units.
const DefaultWidthLimit = 80.0

const (
	wideChars   = "MWG@#$%&"
	narrowChars = "ijltfr.,;:'|()[]"

	wideWeight   = 1.4
	narrowWeight = 0.8
)

// RowValidator checks parsed rows against the description rules.
type RowValidator struct {
	widthLimit float64
}

// NewRowValidator creates a validator with the given weighted-width budget.
// A non-positive limit falls back to DefaultWidthLimit.
func NewRowValidator(widthLimit float64) *RowValidator {
	if widthLimit <= 0 {
		widthLimit = DefaultWidthLimit
	}
	return &RowValidator{widthLimit: widthLimit}
}

// Validate applies the rules in order: blank description first, width budget
// second. Rows passing both come back OK.
func (v *RowValidator) Validate(row RawRow) ValidationOutcome {
	if strings.TrimSpace(row.Description) == "" {
		return ValidationOutcome{OK: false, Reason: ReasonMissingDescription}
	}
	if weightedWidth(row.Description) > v.widthLimit {
		return ValidationOutcome{OK: false, Reason: ReasonOversizedDescription}
	}
	return ValidationOutcome{OK: true}
}

// weightedWidth computes the proportional-width estimate of a description.
func weightedWidth(s string) float64 {
	var width float64
	for _, r := range s {
		switch {
		case strings.ContainsRune(wideChars, r):
			width += wideWeight
		case strings.ContainsRune(narrowChars, r):
			width += narrowWeight
		default:
			width += 1.0
		}
	}
	return width
}
