package sheet

import (
	"encoding/csv"
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readCSV treats every present field as text. A leading byte order mark
// (UTF-8 or UTF-16) is honoured and stripped.
func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	t := &Table{Headers: records[0]}
	for _, rec := range records[1:] {
		cells := make([]Cell, len(rec))
		for i, v := range rec {
			cells[i] = Text(v)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

func writeCSV(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output CSV: %w", err)
	}
	defer f.Close()

	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Headers)
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, c := range row {
			rec[i] = c.Value
		}
		records = append(records, rec)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return f.Close()
}
