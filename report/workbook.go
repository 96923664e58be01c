package report

import (
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/cellular-semantics/braincellkg/errors"
)

// excelize sheet names are capped at 31 characters
const maxSheetName = 31

// Workbook is a Sink that consolidates every table into one XLSX file: one
// sheet per table plus a README sheet describing them. The file is written on
// Close.
type Workbook struct {
	path   string
	file   *excelize.File
	sheets []Table
	closed bool
}

// NewWorkbook creates a workbook sink that will save to path on Close.
func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path, file: excelize.NewFile()}
}

// Write adds one table as a sheet.
func (w *Workbook) Write(table Table) error {
	if w.closed {
		return errors.WrapInvalid(errors.ErrSinkClosed, "Workbook", "Write", "write "+table.Name)
	}

	sheet := sheetName(table.Name)
	if _, err := w.file.NewSheet(sheet); err != nil {
		return errors.WrapFatal(err, "Workbook", "Write", "create sheet "+sheet)
	}
	if err := w.writeRow(sheet, 1, table.Header); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := w.writeRow(sheet, i+2, row); err != nil {
			return err
		}
	}

	w.sheets = append(w.sheets, table)
	return nil
}

// Close writes the README sheet, drops the default empty sheet and saves the
// file.
func (w *Workbook) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	const readme = "README"
	if _, err := w.file.NewSheet(readme); err != nil {
		return errors.WrapFatal(err, "Workbook", "Close", "create README sheet")
	}
	if err := w.writeRow(readme, 1, []string{"sheet", "rows", "description"}); err != nil {
		return err
	}
	for i, table := range w.sheets {
		row := []string{sheetName(table.Name), strconv.Itoa(len(table.Rows)), table.Description}
		if err := w.writeRow(readme, i+2, row); err != nil {
			return err
		}
	}
	if idx, err := w.file.GetSheetIndex(readme); err == nil {
		w.file.SetActiveSheet(idx)
	}

	// excelize seeds every new file with "Sheet1"; drop it so only report
	// sheets remain.
	if err := w.file.DeleteSheet("Sheet1"); err != nil {
		return errors.WrapFatal(err, "Workbook", "Close", "drop default sheet")
	}

	if err := w.file.SaveAs(w.path); err != nil {
		return errors.WrapFatal(err, "Workbook", "Close", "save "+w.path)
	}
	return w.file.Close()
}

func (w *Workbook) writeRow(sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return errors.WrapFatal(err, "Workbook", "writeRow", "address row")
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := w.file.SetSheetRow(sheet, cell, &row); err != nil {
		return errors.WrapFatal(err, "Workbook", "writeRow", "write row to "+sheet)
	}
	return nil
}

func sheetName(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	return name
}
