package converter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/olsenbrasil/bom-csv-conversion/internal/config"
	"github.com/olsenbrasil/bom-csv-conversion/internal/validation"
)

var exportHeader = []interface{}{
	"ITEM", "QTD", "DESCRIÇÃO", "N° DESENHO", "CODIGO MP20", "", "", "PESO", "PERDA",
}

// writeExport builds an export workbook with the standard column layout.
func writeExport(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	all := append([][]interface{}{exportHeader}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	return cfg
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.TrimPrefix(string(data), "\xef\xbb\xbf")
}

func TestRunStructure(t *testing.T) {
	input := writeExport(t, [][]interface{}{
		{"1.0", 1, "MAIN ASSEMBLY", "OLG1", "", "", "", "12,5", 0},
		{"1.1", 2, "BRACKET", "OL-G2", "123456 - CHAPA", "", "", "0,8", 5},
		{"1.1.1", 4, "PIN", "OLG3", "", "", "", "0,1", 0},
		{"1.2", 1, "", "^OLG9", "", "", "", "", ""},
		{"1.3", 2, "CHAPA 1/4", "OL-Z03G5", "", "", "", "", ""},
	})
	cfg := testConfig(t)

	result := New(validation.Request{
		InputFile: input,
		Assembly:  "G1",
		Type:      validation.TypeStructure,
	}, cfg, nil).Run()

	require.NoError(t, result.Error)
	require.True(t, result.Success)

	outDir := filepath.Join(cfg.OutputDir, "ESTRUTURA G1")
	assert.Equal(t, filepath.Join(outDir, "ESTRUTURA_G1.csv"), result.OutputFile)
	assert.Equal(t, filepath.Join(outDir, "RELATORIO_REMOVIDOS_G1.csv"), result.ReportFile)
	assert.FileExists(t, filepath.Join(outDir, "export.xlsx"))

	want := "EMP;MTG;COD;QTD;PER\n" +
		"001;G1;G2;2;5\n" +
		"001;G2;G3;4;0\n" +
		"001;G1;Z03G5;2;0\n"
	assert.Equal(t, want, readOutput(t, result.OutputFile))

	assert.Equal(t, 3, result.Stats.Records)
	assert.Equal(t, 5, result.Stats.RowsRead)
	assert.Equal(t, 1, result.Stats.RowsExcluded)

	reportText := readOutput(t, result.ReportFile)
	assert.Contains(t, reportText, "Marcado para remocao (^);5;1.2;1;^OLG9;")
	assert.Contains(t, reportText, "Codigo Z (verificar)")
}

func TestRunStructureMissingDescriptionsAbort(t *testing.T) {
	input := writeExport(t, [][]interface{}{
		{"1.0", 1, "MAIN", "OLG1", "", "", "", "", ""},
		{"1.1", 1, "", "OLG2", "", "", "", "", ""},
		{"1.2", 1, "", "OLG3", "", "", "", "", ""},
	})
	cfg := testConfig(t)

	result := New(validation.Request{
		InputFile: input,
		Assembly:  "G1",
		Type:      validation.TypeStructure,
	}, cfg, nil).Run()

	require.False(t, result.Success)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "G2")
	assert.Contains(t, result.Error.Error(), "G3")
	assert.Empty(t, result.OutputFile)
}

func TestRunStructureInvalidRequest(t *testing.T) {
	cfg := testConfig(t)

	result := New(validation.Request{
		InputFile: filepath.Join(t.TempDir(), "absent.xlsx"),
		Assembly:  "G1",
		Type:      validation.TypeStructure,
	}, cfg, nil).Run()

	require.False(t, result.Success)
	assert.Error(t, result.Error)
}

func TestRunParts(t *testing.T) {
	input := writeExport(t, [][]interface{}{
		{"1.0", 1, "MAIN; ASSEMBLY", "OLG1", "", "", "", "12,5", 0},
		{"1.1", 2, "BRACKET", "OL-G2", "", "", "", "0,8", 0},
		{"1.2", 1, "CHAPA", "OLZ03G5", "", "", "", "", ""},
		{"2.1", 1, "BRACKET AGAIN", "OLG2", "", "", "", "0,8", 0},
	})
	cfg := testConfig(t)

	result := New(validation.Request{
		InputFile: input,
		Assembly:  "G1_A",
		Type:      validation.TypeParts,
	}, cfg, nil).Run()

	require.NoError(t, result.Error)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "CADASTRO DE PEÇAS G1 A.csv"), result.OutputFile)

	// Z codes dropped, duplicates collapsed, sorted by code, no header,
	// semicolons in descriptions turned into commas, dot-decimal weight.
	want := "G1;MAIN, ASSEMBLY;3;4;107;108;16;3;S;12.5\n" +
		"G2;BRACKET;3;4;107;108;16;3;S;0.8\n"
	assert.Equal(t, want, readOutput(t, result.OutputFile))
	assert.Equal(t, 2, result.Stats.Records)
}

func TestRunDescriptions(t *testing.T) {
	longDesc := strings.Repeat("A", 85)
	input := writeExport(t, [][]interface{}{
		{"1.0", 1, "MAIN", "OLG1", "", "", "", "", ""},
		{"1.1", 1, longDesc, "OLG2", "", "", "", "", ""},
		{"1.2", 1, "CHAPA 1/4", "OLZ03G5", "", "", "", "", ""},
		{"1.3", 1, "", "OLG4", "", "", "", "", ""},
	})
	cfg := testConfig(t)

	result := New(validation.Request{
		InputFile: input,
		Assembly:  "G1",
		Type:      validation.TypeDescriptions,
	}, cfg, nil).Run()

	require.NoError(t, result.Error)

	// Z codes stay in this conversion.
	want := "G1;MAIN\n" +
		"G2;" + longDesc + "\n" +
		"G4;\n" +
		"Z03G5;CHAPA 1/4\n"
	assert.Equal(t, want, readOutput(t, result.OutputFile))

	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "85 characters")
	assert.Contains(t, result.Warnings[1], "empty description")
}

func TestRunMaterials(t *testing.T) {
	input := writeExport(t, [][]interface{}{
		{"1.0", 1, "MAIN", "OLG1", "", "", "", "12,5", 0},
		{"1.1", 1, "BRACKET", "OLG2", "123456 - CHAPA 1/4", "", "", "0,8", 0},
		{"1.2", 1, "MANGUEIRA 3/4 5920mm", "OLG3", "Z20011 - MANGUEIRA", "", "", "", ""},
		{"1.3", 1, "SEM MAP", "OLG4", "", "", "", "1,0", 0},
		{"1.4", 1, "CHAPA", "OLZ03G5", "654321", "", "", "", ""},
	})
	cfg := testConfig(t)

	result := New(validation.Request{
		InputFile: input,
		Assembly:  "G1",
		Type:      validation.TypeMaterials,
	}, cfg, nil).Run()

	require.NoError(t, result.Error)

	// G1 has no material, G4 has no material, Z03G5 is a Z part: all
	// skipped. The hose takes its length from the description.
	want := "EMP;COD;MAP;PES;PER\n" +
		"001;G2;123456;0,80;0\n" +
		"001;G3;Z20011;5,92;0\n"
	assert.Equal(t, want, readOutput(t, result.OutputFile))
}

func TestRunVerifyOLZ(t *testing.T) {
	input := writeExport(t, [][]interface{}{
		{"1.0", 1, "MAIN", "OLG1", "", "", "", "", ""},
		{"1.1", 1, "CHAPA", "OL-Z03G5", "", "", "", "", ""},
		{"1.2", 1, "PERFIL", "OL-Z03G6", "", "", "", "", ""},
	})
	cfg := testConfig(t)

	reference := filepath.Join(t.TempDir(), "registered.csv")
	require.NoError(t, os.WriteFile(reference, []byte("COD;DESCRICAO\nZ03G5;CHAPA\n"), 0o644))

	result := New(validation.Request{
		InputFile:     input,
		Assembly:      "G1",
		Type:          validation.TypeVerifyOLZ,
		ReferenceFile: reference,
	}, cfg, nil).Run()

	require.NoError(t, result.Error)

	want := "Codigo;Descricao;Desenho_Original;Status\n" +
		"Z03G6;PERFIL;OL-Z03G6;NÃO CADASTRADO\n"
	assert.Equal(t, want, readOutput(t, result.OutputFile))
}

func TestRunVerifyOLZAllRegistered(t *testing.T) {
	input := writeExport(t, [][]interface{}{
		{"1.0", 1, "MAIN", "OLG1", "", "", "", "", ""},
		{"1.1", 1, "CHAPA", "OL-Z03G5", "", "", "", "", ""},
	})
	cfg := testConfig(t)

	reference := filepath.Join(t.TempDir(), "registered.csv")
	require.NoError(t, os.WriteFile(reference, []byte("COD\nZ03G5\n"), 0o644))

	result := New(validation.Request{
		InputFile:     input,
		Assembly:      "G1",
		Type:          validation.TypeVerifyOLZ,
		ReferenceFile: reference,
	}, cfg, nil).Run()

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Empty(t, result.OutputFile)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "all Z codes")
}

func TestInputsFromDir(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xlsx")
	b := filepath.Join(dir, "b.xlsx")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("x"), 0o644))

	files, err := InputsFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)

	files, err = InputsFromDir(a)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)

	_, err = InputsFromDir(t.TempDir())
	assert.Error(t, err)
}
