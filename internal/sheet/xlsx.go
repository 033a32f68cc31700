package sheet

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}
	name := sheets[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	t := &Table{Headers: rows[0]}
	for r, row := range rows[1:] {
		cells := make([]Cell, len(row))
		for c, value := range row {
			axis, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, axis)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell %s: %w", axis, err)
			}
			cells[c] = Cell{Value: value, Kind: kindOf(typ, value)}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// kindOf maps an excelize cell type. String cells and formulas with a cached
// string result (t="str") are textual; an untyped cell holding a value is a
// number.
func kindOf(typ excelize.CellType, value string) CellKind {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return CellText
	case excelize.CellTypeBool:
		return CellBool
	case excelize.CellTypeNumber:
		return CellNumber
	case excelize.CellTypeUnset:
		if value == "" {
			return CellEmpty
		}
		return CellNumber
	default:
		return CellOther
	}
}

func writeXLSX(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	for c, h := range t.Headers {
		if err := setCell(f, c, 1, Text(h)); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		for c, cell := range row {
			if err := setCell(f, c, r+2, cell); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, cell Cell) error {
	axis, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}

	switch cell.Kind {
	case CellEmpty:
		return nil
	case CellNumber:
		if n, err := strconv.ParseFloat(cell.Value, 64); err == nil {
			return f.SetCellValue(SheetName, axis, n)
		}
	case CellBool:
		return f.SetCellBool(SheetName, axis, cell.Value == "1" || cell.Value == "TRUE")
	}
	return f.SetCellStr(SheetName, axis, cell.Value)
}
