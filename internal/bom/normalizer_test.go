package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := NewCodeNormalizer(nil)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips spaces and hyphens then OL",
			input:    "OL-ABC 123",
			expected: "ABC123",
		},
		{
			name:     "retained M suffix keeps OL",
			input:    "OL-ABC123M",
			expected: "OLABC123M",
		},
		{
			name:     "retained E1 suffix keeps OL",
			input:    "OL-ABC123E1",
			expected: "OLABC123E1",
		},
		{
			name:     "retained E2 suffix keeps OL",
			input:    "ol abc123e2",
			expected: "olabc123e2",
		},
		{
			name:     "suffix check is case-insensitive",
			input:    "OL-ABC123m",
			expected: "OLABC123m",
		},
		{
			name:     "drawing number with OL prefix",
			input:    "OLG12-06-1001",
			expected: "G12061001",
		},
		{
			name:     "OLZ raw material code",
			input:    "OLZ-03-058-032",
			expected: "Z03058032",
		},
		{
			name:     "OL occurrences removed anywhere",
			input:    "AB-OL-12OL",
			expected: "AB12",
		},
		{
			name:     "lowercase ol removed",
			input:    "ol-abc 123",
			expected: "abc123",
		},
		{
			name:     "no OL present",
			input:    "X15-02-2001",
			expected: "X15022001",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "  - ",
			expected: "",
		},
		{
			name:     "suffix evaluated after stripping",
			input:    "OL-ABC123 M",
			expected: "OLABC123M",
		},
		{
			name:     "original casing preserved",
			input:    "Ol-aBc 123",
			expected: "aBc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestIsExcluded(t *testing.T) {
	n := NewCodeNormalizer(nil)

	assert.True(t, n.IsExcluded("OLG12-06^1001"))
	assert.True(t, n.IsExcluded("^"))
	assert.False(t, n.IsExcluded("OLG12-06-1001"))
	assert.False(t, n.IsExcluded(""))
}

func TestIsRawMaterialOrSpecial(t *testing.T) {
	tests := []struct {
		name     string
		prefixes []string
		code     string
		expected bool
	}{
		{
			name:     "default Z03 raw stock",
			code:     "Z03058032",
			expected: true,
		},
		{
			name:     "default Z20 hose",
			code:     "Z20001122",
			expected: true,
		},
		{
			name:     "case-insensitive match",
			code:     "z03058032",
			expected: true,
		},
		{
			name:     "ordinary part",
			code:     "G12061001",
			expected: false,
		},
		{
			name:     "Z family not in the set",
			code:     "Z99000001",
			expected: false,
		},
		{
			name:     "too short",
			code:     "Z0",
			expected: false,
		},
		{
			name:     "custom prefix set",
			prefixes: []string{"V10"},
			code:     "V10200300",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewCodeNormalizer(tt.prefixes)
			assert.Equal(t, tt.expected, n.IsRawMaterialOrSpecial(tt.code))
		})
	}
}
