package csvwriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olsenbrasil/bom-csv-conversion/internal/bom"
)

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "0"},
		{2, "2"},
		{2.5, "2,5"},
		{0.125, "0,125"},
		{1234.56, "1234,56"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDecimal(tt.value))
		})
	}
}

func TestWriteStructureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	rels := []bom.Relationship{
		{Parent: "G1", Child: "X1", Quantity: 2, LossPercent: 5},
		{Parent: "X1", Child: "Y1", Quantity: 0.5, LossPercent: 0},
	}
	require.NoError(t, WriteStructureFile(path, "001", rels))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// UTF-8 BOM so Excel opens the file without an import wizard.
	require.GreaterOrEqual(t, len(data), 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])

	want := "EMP;MTG;COD;QTD;PER\n" +
		"001;G1;X1;2;5\n" +
		"001;X1;Y1;0,5;0\n"
	assert.Equal(t, want, string(data[3:]))
}

func TestWriteFileNoBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.csv")

	opts := GenerateOptions{Delimiter: ';', IncludeBOM: false}
	require.NoError(t, WriteFile(path, []string{"A", "B"}, [][]string{{"1", "2"}}, opts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A;B\n1;2\n", string(data))
}

func TestWriteFileBadPath(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.csv"), nil, nil, DefaultGenerateOptions())
	assert.Error(t, err)
}
