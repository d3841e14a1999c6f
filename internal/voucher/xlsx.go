package voucher

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Vale de Salida"

// ExportXLSX renders a voucher as a downloadable workbook using the same
// layout mapping as the sheet write, so both outputs stay in step.
func ExportXLSX(v Voucher, layout Layout) (*bytes.Buffer, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("unable to create voucher sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	cells := map[string]interface{}{
		"A1": "VALE DE SALIDA",
		layout.HeaderCells.VoucherNumber: v.RequestID,
		layout.HeaderCells.Date:          v.Date.Format("02/01/2006"),
		layout.HeaderCells.Requester:     v.Requester,
		layout.HeaderCells.Handler:       v.Handler,
	}
	for cell, value := range cells {
		if err := f.SetCellValue(exportSheet, cell, value); err != nil {
			return nil, fmt.Errorf("unable to set cell %s: %w", cell, err)
		}
	}

	headerRow := layout.ItemsStartRow - 1
	if headerRow < 1 {
		headerRow = 1
	}
	columnTitles := map[string]string{
		layout.ItemColumns.Seq:         "N°",
		layout.ItemColumns.Code:        "CODIGO",
		layout.ItemColumns.Description: "DESCRIPCION",
		layout.ItemColumns.Unit:        "UNIDAD",
		layout.ItemColumns.Quantity:    "CANTIDAD",
	}
	for col, title := range columnTitles {
		if col == "" {
			continue
		}
		cell := fmt.Sprintf("%s%d", col, headerRow)
		if err := f.SetCellValue(exportSheet, cell, title); err != nil {
			return nil, fmt.Errorf("unable to set cell %s: %w", cell, err)
		}
	}

	for i, item := range v.Items {
		row := layout.ItemsStartRow + i
		values := []struct {
			col   string
			value interface{}
		}{
			{layout.ItemColumns.Seq, i + 1},
			{layout.ItemColumns.Code, item.Code},
			{layout.ItemColumns.Description, item.Description},
			{layout.ItemColumns.Unit, item.Unit},
			{layout.ItemColumns.Quantity, item.Quantity},
		}
		for _, cv := range values {
			if cv.col == "" {
				continue
			}
			cell := fmt.Sprintf("%s%d", cv.col, row)
			if err := f.SetCellValue(exportSheet, cell, cv.value); err != nil {
				return nil, fmt.Errorf("unable to set cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("unable to serialize voucher workbook: %w", err)
	}

	return buf, nil
}
