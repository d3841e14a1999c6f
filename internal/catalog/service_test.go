package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/sheetstore"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

type fakeRowStore struct {
	rows    [][]string
	readErr error
}

func (f *fakeRowStore) ReadAll(ctx context.Context, table string) ([][]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.rows, nil
}

func (f *fakeRowStore) AppendRows(ctx context.Context, table string, rows [][]string) error {
	return errors.New("catalog is read-only")
}

func (f *fakeRowStore) UpdateCell(ctx context.Context, table string, rowIndex, colIndex int, value string) error {
	return errors.New("catalog is read-only")
}

func (f *fakeRowStore) ClearRange(ctx context.Context, table string, a1Range string) error {
	return errors.New("catalog is read-only")
}

func (f *fakeRowStore) BatchUpdate(ctx context.Context, table string, updates []sheetstore.RangeUpdate) error {
	return errors.New("catalog is read-only")
}

func catalogRows() [][]string {
	return [][]string{
		{"CODIGO", "CATEGORIA", "DESCRIPCION", "UNIDAD", "STOCK", "ACTIVO"},
		{"EPP001", "EPP", "CASCO", "UND", "15", "SI"},
		{"EPP002", "EPP", "GUANTES", "PAR", "40", ""},
		{"EPP003", "epp", "LENTES", "UND", "8", "NO"},
		{"CON001", "CONSUMABLE", "TRAPO INDUSTRIAL", "KG", "100", "SI"},
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	service := NewService(&fakeRowStore{rows: catalogRows()}, "Catalogo")

	item, err := service.Lookup(context.Background(), "epp", "casco")

	assert.NoError(t, err)
	assert.NotNil(t, item)
	assert.Equal(t, "EPP001", item.Code)
	assert.Equal(t, "UND", item.Unit)
	assert.Equal(t, 15, item.Stock)
}

func TestLookupMissReturnsNilWithoutError(t *testing.T) {
	service := NewService(&fakeRowStore{rows: catalogRows()}, "Catalogo")

	item, err := service.Lookup(context.Background(), "EPP", "ARNES")

	assert.NoError(t, err)
	assert.Nil(t, item)
}

func TestListActiveFiltersCategoryAndFlag(t *testing.T) {
	service := NewService(&fakeRowStore{rows: catalogRows()}, "Catalogo")

	items, err := service.ListActive(context.Background(), "epp")

	assert.NoError(t, err)
	assert.Len(t, items, 2)

	codes := []string{items[0].Code, items[1].Code}
	// Blank ACTIVO counts as active; explicit NO is excluded.
	assert.Contains(t, codes, "EPP001")
	assert.Contains(t, codes, "EPP002")
	assert.NotContains(t, codes, "EPP003")
}

func TestListActiveEmptySheet(t *testing.T) {
	service := NewService(&fakeRowStore{rows: [][]string{{"CODIGO", "CATEGORIA"}}}, "Catalogo")

	items, err := service.ListActive(context.Background(), "EPP")

	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalogReadFailureIsExternal(t *testing.T) {
	service := NewService(&fakeRowStore{readErr: errors.New("timeout")}, "Catalogo")

	_, err := service.Lookup(context.Background(), "EPP", "CASCO")

	assert.True(t, apperrors.IsKind(err, apperrors.KindExternal))
}

func TestMapHeadersHandlesEnglishAndSpanish(t *testing.T) {
	headerMap := MapHeaders([]string{"Code", "categoria", "DESCRIPCION", "unit", "Cantidad", "active", "IGNORED"})

	assert.Equal(t, map[int]string{
		0: "code",
		1: "category",
		2: "description",
		3: "unit",
		4: "stock",
		5: "active",
	}, headerMap)
}
