package voucher

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/sheetstore"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/apperrors"

	"go.uber.org/zap"
)

// Voucher is the exit record written when a request group is attended.
type Voucher struct {
	RequestID string
	Date      time.Time
	Requester string
	Handler   string
	Items     []Item
}

type Item struct {
	Code        string
	Description string
	Unit        string
	Quantity    int
}

type Writer struct {
	store  sheetstore.RowStore
	table  string
	layout Layout
	log    *zap.Logger
}

func NewWriter(store sheetstore.RowStore, table string, layout Layout, log *zap.Logger) *Writer {
	return &Writer{store: store, table: table, layout: layout, log: log}
}

// Write clears the previous voucher's data region and writes the new one in
// a single batch. It performs no status mutation; callers flip statuses only
// after Write returns nil.
func (w *Writer) Write(ctx context.Context, v Voucher) error {
	updates, err := BuildRangeUpdates(v, w.layout)
	if err != nil {
		return err
	}

	for _, clearRange := range w.layout.ClearRanges {
		if err := w.store.ClearRange(ctx, w.table, clearRange); err != nil {
			return apperrors.External("unable to clear voucher region", err)
		}
	}

	if err := w.store.BatchUpdate(ctx, w.table, updates); err != nil {
		return apperrors.External("unable to write voucher", err)
	}

	w.log.Info("voucher written",
		zap.String("request_id", v.RequestID),
		zap.String("layout_version", w.layout.Version),
		zap.Int("items", len(v.Items)))

	return nil
}

// BuildRangeUpdates computes the full write-set for a voucher against a
// layout. It is pure: validation failures surface here, before any cell is
// touched.
func BuildRangeUpdates(v Voucher, layout Layout) ([]sheetstore.RangeUpdate, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if len(v.Items) == 0 {
		return nil, apperrors.Validation("voucher has no line items")
	}
	if len(v.Items) > layout.MaxItemRows {
		return nil, apperrors.Validation(fmt.Sprintf(
			"voucher has %d items, layout %s holds at most %d",
			len(v.Items), layout.Version, layout.MaxItemRows))
	}

	updates := []sheetstore.RangeUpdate{
		{Range: layout.HeaderCells.VoucherNumber, Values: [][]string{{v.RequestID}}},
		{Range: layout.HeaderCells.Date, Values: [][]string{{v.Date.Format("02/01/2006")}}},
		{Range: layout.HeaderCells.Requester, Values: [][]string{{v.Requester}}},
		{Range: layout.HeaderCells.Handler, Values: [][]string{{v.Handler}}},
	}

	for i, item := range v.Items {
		row := layout.ItemsStartRow + i
		if col := layout.ItemColumns.Seq; col != "" {
			updates = append(updates, cellUpdate(col, row, strconv.Itoa(i+1)))
		}
		if col := layout.ItemColumns.Code; col != "" {
			updates = append(updates, cellUpdate(col, row, item.Code))
		}
		updates = append(updates, cellUpdate(layout.ItemColumns.Description, row, item.Description))
		if col := layout.ItemColumns.Unit; col != "" {
			updates = append(updates, cellUpdate(col, row, item.Unit))
		}
		updates = append(updates, cellUpdate(layout.ItemColumns.Quantity, row, strconv.Itoa(item.Quantity)))
	}

	return updates, nil
}

func cellUpdate(col string, row int, value string) sheetstore.RangeUpdate {
	return sheetstore.RangeUpdate{
		Range:  fmt.Sprintf("%s%d", col, row),
		Values: [][]string{{value}},
	}
}
