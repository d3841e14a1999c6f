package voucher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/sheetstore"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRowStore struct {
	cleared  []string
	batches  [][]sheetstore.RangeUpdate
	clearErr error
	batchErr error
}

func (f *fakeRowStore) ReadAll(ctx context.Context, table string) ([][]string, error) {
	return nil, nil
}

func (f *fakeRowStore) AppendRows(ctx context.Context, table string, rows [][]string) error {
	return nil
}

func (f *fakeRowStore) UpdateCell(ctx context.Context, table string, rowIndex, colIndex int, value string) error {
	return nil
}

func (f *fakeRowStore) ClearRange(ctx context.Context, table string, a1Range string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = append(f.cleared, a1Range)
	return nil
}

func (f *fakeRowStore) BatchUpdate(ctx context.Context, table string, updates []sheetstore.RangeUpdate) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.batches = append(f.batches, updates)
	return nil
}

func sampleVoucher(items int) Voucher {
	v := Voucher{
		RequestID: "20240501120000",
		Date:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local),
		Requester: "JUAN PEREZ",
		Handler:   "MARIA LOPEZ",
	}
	for i := 0; i < items; i++ {
		v.Items = append(v.Items, Item{
			Code:        "EPP001",
			Description: "CASCO",
			Unit:        "UND",
			Quantity:    2,
		})
	}
	return v
}

func TestBuildRangeUpdatesHeaderAndItems(t *testing.T) {
	layout := DefaultLayout()
	updates, err := BuildRangeUpdates(sampleVoucher(2), layout)

	assert.NoError(t, err)

	byRange := make(map[string][][]string)
	for _, u := range updates {
		byRange[u.Range] = u.Values
	}

	// Header fields land on the top-left cell of their merged regions.
	assert.Equal(t, [][]string{{"20240501120000"}}, byRange[layout.HeaderCells.VoucherNumber])
	assert.Equal(t, [][]string{{"01/05/2024"}}, byRange[layout.HeaderCells.Date])
	assert.Equal(t, [][]string{{"JUAN PEREZ"}}, byRange[layout.HeaderCells.Requester])
	assert.Equal(t, [][]string{{"MARIA LOPEZ"}}, byRange[layout.HeaderCells.Handler])

	// Item rows start at the configured row, one row per line item.
	assert.Equal(t, [][]string{{"1"}}, byRange["A8"])
	assert.Equal(t, [][]string{{"CASCO"}}, byRange["C8"])
	assert.Equal(t, [][]string{{"2"}}, byRange["E8"])
	assert.Equal(t, [][]string{{"2"}}, byRange["A9"])
	assert.Equal(t, [][]string{{"CASCO"}}, byRange["C9"])
}

func TestBuildRangeUpdatesRejectsOverflow(t *testing.T) {
	layout := DefaultLayout()
	layout.MaxItemRows = 1

	_, err := BuildRangeUpdates(sampleVoucher(2), layout)

	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestBuildRangeUpdatesRejectsEmptyVoucher(t *testing.T) {
	_, err := BuildRangeUpdates(sampleVoucher(0), DefaultLayout())

	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestWriterClearsBeforeWriting(t *testing.T) {
	store := &fakeRowStore{}
	writer := NewWriter(store, "ValeSalida", DefaultLayout(), zap.NewNop())

	err := writer.Write(context.Background(), sampleVoucher(1))

	assert.NoError(t, err)
	assert.Equal(t, DefaultLayout().ClearRanges, store.cleared)
	assert.Len(t, store.batches, 1)
}

func TestWriterValidationFailureTouchesNothing(t *testing.T) {
	store := &fakeRowStore{}
	layout := DefaultLayout()
	layout.MaxItemRows = 1
	writer := NewWriter(store, "ValeSalida", layout, zap.NewNop())

	err := writer.Write(context.Background(), sampleVoucher(3))

	assert.Error(t, err)
	assert.Empty(t, store.cleared)
	assert.Empty(t, store.batches)
}

func TestWriterWrapsStoreFailures(t *testing.T) {
	store := &fakeRowStore{batchErr: errors.New("api down")}
	writer := NewWriter(store, "ValeSalida", DefaultLayout(), zap.NewNop())

	err := writer.Write(context.Background(), sampleVoucher(1))

	assert.True(t, apperrors.IsKind(err, apperrors.KindExternal))
}
