// Package sheet reads and writes the translation spreadsheet. A sheet has a
// header row naming at least the key and english_string columns; the output
// adds (or overwrites) portuguese_string.
package sheet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/valpere/htmlbr/internal"
)

const (
	KeyColumn    = "key"
	SourceColumn = "english_string"
	TargetColumn = "portuguese_string"

	// SheetName is the worksheet written to xlsx output.
	SheetName = "translations"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellBool
	CellOther
)

type Cell struct {
	Value string
	Kind  CellKind
}

func Text(v string) Cell { return Cell{Value: v, Kind: CellText} }

// Textual reports whether the cell held a string, possibly empty.
func (c Cell) Textual() bool { return c.Kind == CellText }

// Table is a header row plus data rows. Rows may be ragged; missing cells
// read as CellEmpty.
type Table struct {
	Headers []string
	Rows    [][]Cell
}

// Column returns the index of the first header equal to name, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

func (t *Table) cell(row, col int) Cell {
	if col < 0 || col >= len(t.Rows[row]) {
		return Cell{}
	}
	return t.Rows[row][col]
}

// Requests builds one request per data row. A missing key or english_string
// column is an ErrInputValidation.
func (t *Table) Requests() ([]internal.TranslationRequest, error) {
	keyIdx := t.Column(KeyColumn)
	if keyIdx < 0 {
		return nil, fmt.Errorf("%w: missing column %q", internal.ErrInputValidation, KeyColumn)
	}
	srcIdx := t.Column(SourceColumn)
	if srcIdx < 0 {
		return nil, fmt.Errorf("%w: missing column %q", internal.ErrInputValidation, SourceColumn)
	}

	reqs := make([]internal.TranslationRequest, len(t.Rows))
	for i := range t.Rows {
		src := t.cell(i, srcIdx)
		reqs[i] = internal.TranslationRequest{
			Key:        t.cell(i, keyIdx).Value,
			SourceText: src.Value,
			NonTextual: !src.Textual(),
		}
	}
	return reqs, nil
}

// WithResult returns a copy of the table with the portuguese_string column
// filled from result. result must have one entry per row.
func (t *Table) WithResult(result internal.BatchResult) (*Table, error) {
	if len(result) != len(t.Rows) {
		return nil, fmt.Errorf("result has %d rows, table has %d", len(result), len(t.Rows))
	}

	out := &Table{Headers: append([]string(nil), t.Headers...)}
	col := out.Column(TargetColumn)
	if col < 0 {
		out.Headers = append(out.Headers, TargetColumn)
		col = len(out.Headers) - 1
	}

	out.Rows = make([][]Cell, len(t.Rows))
	for i, row := range t.Rows {
		width := max(len(row), col+1)
		cells := make([]Cell, width)
		copy(cells, row)
		cells[col] = Text(internal.Project(result[i].Outcome))
		out.Rows[i] = cells
	}
	return out, nil
}

// FromResult rebuilds a three-column table from a stored batch.
func FromResult(result internal.BatchResult) *Table {
	t := &Table{Headers: []string{KeyColumn, SourceColumn}}
	for _, r := range result {
		src := Text(r.Request.SourceText)
		if r.Request.NonTextual {
			src = Cell{Value: r.Request.SourceText, Kind: CellOther}
		}
		t.Rows = append(t.Rows, []Cell{Text(r.Request.Key), src})
	}
	return t
}

// SampleTable is the two-row example of the expected input format.
func SampleTable() *Table {
	return &Table{
		Headers: []string{KeyColumn, SourceColumn},
		Rows: [][]Cell{
			{Text("welcome_message"), Text("<p><strong>Welcome to Element X!</strong> Please complete the survey.</p>")},
			{Text("instruction_1"), Text(`<span>Contact us at <a href="mailto:help@mercer.com">help@mercer.com</a> for support.</span>`)},
		},
	}
}

// Read loads a .xlsx (first worksheet) or .csv file.
func Read(path string) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q (want .xlsx or .csv)", internal.ErrInputValidation, ext)
	}
}

// Write saves t with result projected into portuguese_string.
func Write(path string, t *Table, result internal.BatchResult) error {
	out, err := t.WithResult(result)
	if err != nil {
		return err
	}
	return Save(path, out)
}

// WriteSample saves SampleTable to path.
func WriteSample(path string) error {
	return Save(path, SampleTable())
}

// CheckOutput reports an ErrInputValidation when path cannot be written as a
// sheet: the extension is not .xlsx or .csv, or its directory cannot be
// created.
func CheckOutput(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".csv":
	default:
		return fmt.Errorf("%w: unsupported output type %q (want .xlsx or .csv)", internal.ErrInputValidation, ext)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: failed to create output directory: %v", internal.ErrInputValidation, err)
	}
	return nil
}

// Save writes t as-is, choosing the format from the file extension.
func Save(path string, t *Table) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return writeXLSX(path, t)
	case ".csv":
		return writeCSV(path, t)
	default:
		return fmt.Errorf("unsupported output type %q (want .xlsx or .csv)", ext)
	}
}

// FileSink writes the finished batch next to its source table.
type FileSink struct {
	path  string
	table *Table
}

func NewFileSink(path string, t *Table) *FileSink {
	return &FileSink{path: path, table: t}
}

func (s *FileSink) Consume(_ context.Context, result internal.BatchResult) error {
	if err := Write(s.path, s.table, result); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}
