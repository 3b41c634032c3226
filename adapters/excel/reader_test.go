package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, cells map[string]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for ref, v := range cells {
		require.NoError(t, f.SetCellValue(sheet, ref, v))
	}
	path := filepath.Join(t.TempDir(), "abundance.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadAbundance_Xlsx(t *testing.T) {
	path := writeWorkbook(t, map[string]any{
		"A1": "plot_a", "B1": "plot_b",
		"A2": 10, "B2": 3,
		"A3": 1, "B3": 0,
		"A4": 1,
	})

	samples, err := NewDataReader(path).ReadAbundance(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, []int{10, 1, 1}, samples["plot_a"])
	// Zero counts pass through untouched; the domain layer drops them.
	assert.Equal(t, []int{3, 0}, samples["plot_b"])
}

func TestReadAbundance_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abundance.csv")
	data := "site,\n4,7\n2,1\n,5\n1,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	samples, err := NewDataReader(path).ReadAbundance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2, 1}, samples["site"])
	// Unlabelled columns get a positional fallback name.
	assert.Equal(t, []int{7, 1, 5}, samples["sample_2"])
}

func TestReadAbundance_NonNumericCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abundance.csv")
	require.NoError(t, os.WriteFile(path, []byte("site\n4\nmany\n"), 0o644))

	_, err := NewDataReader(path).ReadAbundance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")
}

func TestReadAbundance_MissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "absent.xlsx")).ReadAbundance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadAbundance_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abundance.csv")
	require.NoError(t, os.WriteFile(path, []byte("site\n"), 0o644))

	_, err := NewDataReader(path).ReadAbundance(context.Background())
	require.Error(t, err)
}
