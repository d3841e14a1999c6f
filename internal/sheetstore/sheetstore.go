package sheetstore

import (
	"context"
	"strconv"
)

// RangeUpdate is one cell range write within a table. Range is A1 notation
// without the table prefix ("B4:D4").
type RangeUpdate struct {
	Range  string
	Values [][]string
}

// RowStore is the row-oriented tabular store the request/catalog/voucher
// code depends on. Implementations own all physical row addressing; callers
// never see sheet coordinates outside the 1-based indexes they got from
// ReadAll.
type RowStore interface {
	ReadAll(ctx context.Context, table string) ([][]string, error)
	AppendRows(ctx context.Context, table string, rows [][]string) error
	UpdateCell(ctx context.Context, table string, rowIndex, colIndex int, value string) error
	ClearRange(ctx context.Context, table string, a1Range string) error
	BatchUpdate(ctx context.Context, table string, updates []RangeUpdate) error
}

// CellRef converts 1-based row/column indexes to A1 notation.
func CellRef(rowIndex, colIndex int) string {
	return ColumnName(colIndex) + strconv.Itoa(rowIndex)
}

// ColumnName converts a 1-based column index to its sheet letter ("A",
// "Z", "AA", ...).
func ColumnName(colIndex int) string {
	name := ""
	for colIndex > 0 {
		colIndex--
		name = string(rune('A'+colIndex%26)) + name
		colIndex /= 26
	}
	return name
}
