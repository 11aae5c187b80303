// Package stream turns a recorded sensor series into the flat test stream a
// suppression run consumes: reading one numeric column and selecting test chunks.
package stream

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultColumn is the value column of the exported sensor series.
const DefaultColumn = "_value"

// LoadCSV reads the named numeric column of a CSV file with a header row.
// Empty cells are skipped; any other non-numeric cell is an error.
func LoadCSV(path, column string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening series: %w", err)
	}
	defer func() { _ = f.Close() }()
	values, err := ReadCSV(f, column)
	if err != nil {
		return nil, fmt.Errorf("reading series %s: %w", path, err)
	}
	return values, nil
}

// ReadCSV reads the named numeric column from r.
func ReadCSV(r io.Reader, column string) ([]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	col := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("column %q not found in header %v", column, header)
	}

	var values []float64
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", line, err)
		}
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing %q: %w", line, cell, err)
		}
		values = append(values, v)
	}
	return values, nil
}
