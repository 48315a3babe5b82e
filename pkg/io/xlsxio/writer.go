// Package xlsxio writes frames as Excel workbooks.
package xlsxio

import (
	"fmt"
	"os"
	"path/filepath"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
	"github.com/xuri/excelize/v2"
)

// Sheet is the worksheet frames are written to.
const Sheet = "Sheet1"

// WriteAll writes f to a single-sheet workbook with a header row. Numeric
// cells keep their type; nulls are left blank.
func WriteAll(path string, f *j.Frame) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	for c, name := range f.Schema().Names() {
		if err := setCell(wb, c, 0, name); err != nil {
			return err
		}
	}
	for c, col := range f.Columns() {
		for r := 0; r < f.Rows(); r++ {
			if col.IsNull(r) {
				continue
			}
			if err := setCell(wb, c, r+1, value(col, r)); err != nil {
				return err
			}
		}
	}
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx save: %w", err)
	}
	return nil
}

func setCell(wb *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	return wb.SetCellValue(Sheet, cell, v)
}

func value(col j.Column, r int) any {
	switch c := col.(type) {
	case *j.FloatColumn:
		v, _ := c.Get(r)
		return v
	case *j.IntColumn:
		v, _ := c.Get(r)
		return v
	case *j.BoolColumn:
		v, _ := c.Get(r)
		return v
	case *j.TimeColumn:
		v, _ := c.Get(r)
		return v
	}
	s, _ := j.Format(col, r)
	return s
}
