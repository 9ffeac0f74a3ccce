package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/haccpkit/haccp/pkg/errors"
)

const (
	xlsxHeaderColor = "#4472C4"
	xlsxColumnWidth = 15
)

// WriteXLSX writes each table to its own sheet of a new workbook at path.
// The first table's sheet is active.
func WriteXLSX(path string, tables ...NamedTable) error {
	if len(tables) == 0 {
		return &errors.ValidationError{Field: "tables", Message: "nothing to export"}
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{xlsxHeaderColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return errors.WrapResource("style", "xlsx", path, err)
	}

	for _, nt := range tables {
		if _, err := f.NewSheet(nt.Name); err != nil {
			return errors.WrapResource("create sheet", "xlsx", nt.Name, err)
		}
		if err := writeSheet(f, nt, headerStyle); err != nil {
			return errors.WrapResource("write sheet", "xlsx", nt.Name, err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.WrapResource("delete sheet", "xlsx", "Sheet1", err)
	}
	index, err := f.GetSheetIndex(tables[0].Name)
	if err != nil {
		return errors.WrapResource("activate sheet", "xlsx", tables[0].Name, err)
	}
	f.SetActiveSheet(index)
	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, nt NamedTable, headerStyle int) error {
	columns := nt.Table.Columns()
	if err := f.SetSheetRow(nt.Name, "A1", &columns); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(nt.Name, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range nt.Table.Rows() {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(nt.Name, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(nt.Name, "A", lastCol, xlsxColumnWidth); err != nil {
		return err
	}
	return f.SetPanes(nt.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
