package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is one named worksheet of a workbook.
type Sheet struct {
	Name string
	Data Dataset
}

// XLSXExporter renders datasets as worksheets of one workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render writes each sheet with a bold header row. The first sheet is active.
func (e *XLSXExporter) Render(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one sheet")
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, sheet := range sheets {
		if len(sheet.Data.Headers) == 0 {
			return nil, fmt.Errorf("sheet %q requires at least one header", sheet.Name)
		}
		idx, err := f.NewSheet(sheet.Name)
		if err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheet.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		for col, header := range sheet.Data.Headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
				return nil, fmt.Errorf("write header: %w", err)
			}
		}
		last, _ := excelize.CoordinatesToCellName(len(sheet.Data.Headers), 1)
		if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}
		for r, row := range sheet.Data.Rows {
			for col, header := range sheet.Data.Headers {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				if err := f.SetCellValue(sheet.Name, cell, row[header]); err != nil {
					return nil, fmt.Errorf("write row: %w", err)
				}
			}
		}
		lastCol, _ := excelize.ColumnNumberToName(len(sheet.Data.Headers))
		_ = f.SetColWidth(sheet.Name, "A", lastCol, 18)
	}
	if sheets[0].Name != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
