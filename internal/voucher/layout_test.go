package voucher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLayoutRoundTrip(t *testing.T) {
	raw := []byte(`{
		"version": "v2",
		"header_cells": {"voucher_number": "F2", "date": "F3", "requester": "B5", "handler": "B6"},
		"item_columns": {"seq": "A", "code": "B", "description": "C", "unit": "E", "quantity": "F"},
		"items_start_row": 10,
		"max_item_rows": 20,
		"clear_ranges": ["F2:F3", "B5:B6", "A10:F29"]
	}`)

	layout, err := ParseLayout(raw)

	assert.NoError(t, err)
	assert.Equal(t, "v2", layout.Version)
	assert.Equal(t, 10, layout.ItemsStartRow)
	assert.Equal(t, "F2", layout.HeaderCells.VoucherNumber)
}

func TestParseLayoutRejectsBadJSON(t *testing.T) {
	_, err := ParseLayout([]byte(`{not json`))
	assert.Error(t, err)
}

func TestLayoutValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Layout)
	}{
		{"missing version", func(l *Layout) { l.Version = "" }},
		{"zero start row", func(l *Layout) { l.ItemsStartRow = 0 }},
		{"zero max rows", func(l *Layout) { l.MaxItemRows = 0 }},
		{"missing header cell", func(l *Layout) { l.HeaderCells.Handler = "" }},
		{"missing quantity column", func(l *Layout) { l.ItemColumns.Quantity = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := DefaultLayout()
			tt.mutate(&layout)
			assert.Error(t, layout.Validate())
		})
	}

	assert.NoError(t, DefaultLayout().Validate())
}

func TestExportXLSXProducesWorkbook(t *testing.T) {
	buf, err := ExportXLSX(sampleVoucher(2), DefaultLayout())

	assert.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
