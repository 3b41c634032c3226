// Package excel reads abundance vectors from spreadsheet workbooks: one
// sample per column, a label header in row 1, one count per row below it.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading abundance workbooks in xlsx or csv form.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader dispatching on the file extension.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadAbundance reads every sample column into a label -> counts map.
// Blank cells are skipped; zero counts pass through and are filtered by the
// domain layer; anything non-numeric is a hard error.
func (r *DataReader) ReadAbundance(ctx context.Context) (map[string][]int, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("abundance file not found: %s", r.filePath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	default:
		return r.readExcel()
	}
}

func (r *DataReader) readExcel() (map[string][]int, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return parseRows(rows)
}

func (r *DataReader) readCSV() (map[string][]int, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return parseRows(rows)
}

func parseRows(rows [][]string) (map[string][]int, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("abundance file needs a header row and at least one data row")
	}

	header := rows[0]
	out := make(map[string][]int, len(header))
	for col, label := range header {
		label = strings.TrimSpace(label)
		if label == "" {
			label = fmt.Sprintf("sample_%d", col+1)
		}
		counts := make([]int, 0, len(rows)-1)
		for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
			row := rows[rowIdx]
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			c, err := strconv.Atoi(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: count %q is not an integer", rowIdx+1, label, cell)
			}
			counts = append(counts, c)
		}
		if len(counts) > 0 {
			out[label] = counts
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("abundance file holds no sample columns")
	}
	return out, nil
}
