// =============================================================================
// BOM Structure Converter - Code Normalizer
// =============================================================================
//
// Component codes arrive from the CAD export with drawing-office formatting:
// spaces, hyphens, and an "OL" house prefix that the destination ERP does not
// use. The normalizer cleans codes into their ERP form and classifies them.
//
// CLEANING RULES (order matters):
//   1. Strip every space and hyphen.
//   2. Uppercase the stripped form and check its suffix. Codes ending in
//      "M", "E1" or "E2" belong to a retained-suffix class and keep their
//      "OL" substrings.
//   3. Any other code has every case-insensitive "OL" occurrence removed.
//
// The normalizer only classifies; it never decides output routing. Callers
// choose whether excluded or special codes are dropped or reported.
//
// =============================================================================

package bom

import (
	"strings"
	"unicode"
)

// IgnoreMarker flags a row that must be excluded from processing entirely.
// The check runs against the raw, pre-clean code.
const IgnoreMarker = "^"

// retainedSuffixes are checked on the whitespace/hyphen-stripped, uppercased
// form. A matching code keeps its "OL" substrings.
var retainedSuffixes = []string{"M", "E1", "E2"}

// DefaultSpecialPrefixes are the raw-material/virtual-part code families
// observed in the source data: Z03 raw stock and Z20 hoses.
var DefaultSpecialPrefixes = []string{"Z03", "Z20"}

// CodeNormalizer cleans and classifies raw component codes.
type CodeNormalizer struct {
	// specialPrefixes is the uppercased 3-character prefix set used by
	// IsRawMaterialOrSpecial.
	specialPrefixes map[string]struct{}
}

// NewCodeNormalizer creates a normalizer with the given special-prefix set.
// An empty slice falls back to DefaultSpecialPrefixes.
func NewCodeNormalizer(specialPrefixes []string) *CodeNormalizer {
	if len(specialPrefixes) == 0 {
		specialPrefixes = DefaultSpecialPrefixes
	}
	set := make(map[string]struct{}, len(specialPrefixes))
	for _, p := range specialPrefixes {
		set[strings.ToUpper(p)] = struct{}{}
	}
	return &CodeNormalizer{specialPrefixes: set}
}

// Normalize returns the clean form of a raw component code. Empty input
// yields an empty clean code, which callers must treat as invalid. The
// original casing of the surviving characters is preserved; only lookups
// are case-insensitive.
func (n *CodeNormalizer) Normalize(rawCode string) string {
	stripped := stripSpacesAndHyphens(rawCode)
	if stripped == "" {
		return ""
	}

	upper := strings.ToUpper(stripped)
	for _, suffix := range retainedSuffixes {
		if strings.HasSuffix(upper, suffix) {
			return stripped
		}
	}

	return removeOL(stripped)
}

// IsExcluded reports whether the original, pre-clean code carries the
// ignore marker.
func (n *CodeNormalizer) IsExcluded(rawCode string) bool {
	return strings.Contains(rawCode, IgnoreMarker)
}

// IsRawMaterialOrSpecial reports whether the clean code's first three
// characters match one of the configured special prefixes. The check is
// case-insensitive and advisory: routing stays with the caller.
func (n *CodeNormalizer) IsRawMaterialOrSpecial(cleanCode string) bool {
	if len(cleanCode) < 3 {
		return false
	}
	_, ok := n.specialPrefixes[strings.ToUpper(cleanCode[:3])]
	return ok
}

// stripSpacesAndHyphens removes every whitespace and hyphen character.
func stripSpacesAndHyphens(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// removeOL deletes every non-overlapping "OL" occurrence from s, matching
// case-insensitively but keeping the original casing of everything that
// survives. Single left-to-right pass, same semantics as strings.ReplaceAll
// on the uppercased form.
func removeOL(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if i+1 < len(s) && (s[i] == 'O' || s[i] == 'o') && (s[i+1] == 'L' || s[i+1] == 'l') {
			i += 2
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// foldKey is the case-insensitive lookup key for a code. Output always uses
// the original casing; only map keys are folded.
func foldKey(code string) string {
	return strings.ToUpper(code)
}
