package requests

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/sheetstore"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/apperrors"
)

// Column order of the requests table. Row 1 is the header; data rows follow
// this layout. Physical row numbers never leave this package's repository.
const (
	colRequestID = iota + 1
	colSeq
	colSubmittedAt
	colRequester
	colCategory
	colCatalogCode
	colDescription
	colUnit
	colQuantity
	colStatus
	colHandledBy

	columnCount = colHandledBy
)

const submittedAtFormat = "2006-01-02 15:04:05"

type RequestRepository interface {
	AppendLineItems(ctx context.Context, items []LineItem) error
	ListLineItems(ctx context.Context) ([]LineItem, error)
	FindByRequestID(ctx context.Context, requestID string) ([]LineItem, error)
	// UpdateStatuses transitions every line item of the group from `from`
	// to `to` in one batch, stamping handledBy. It fails with a not-found
	// kind when the group does not exist and a conflict kind when any item
	// has already left `from`.
	UpdateStatuses(ctx context.Context, requestID string, from, to Status, handledBy string) error
}

// sheetRequestRepository persists line items as rows of one sheet tab.
type sheetRequestRepository struct {
	store sheetstore.RowStore
	table string
}

func NewRepository(store sheetstore.RowStore, table string) RequestRepository {
	return &sheetRequestRepository{store: store, table: table}
}

func (r *sheetRequestRepository) AppendLineItems(ctx context.Context, items []LineItem) error {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, encodeRow(item))
	}

	// One append call for the whole batch keeps the group write a single
	// API request.
	if err := r.store.AppendRows(ctx, r.table, rows); err != nil {
		return apperrors.External("unable to persist request items", err)
	}

	return nil
}

func (r *sheetRequestRepository) ListLineItems(ctx context.Context) ([]LineItem, error) {
	items, _, err := r.readItems(ctx)
	return items, err
}

func (r *sheetRequestRepository) FindByRequestID(ctx context.Context, requestID string) ([]LineItem, error) {
	items, _, err := r.readItems(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]LineItem, 0)
	for _, item := range items {
		if item.RequestID == requestID {
			matches = append(matches, item)
		}
	}

	return matches, nil
}

func (r *sheetRequestRepository) UpdateStatuses(ctx context.Context, requestID string, from, to Status, handledBy string) error {
	items, rowIndexes, err := r.readItems(ctx)
	if err != nil {
		return err
	}

	updates := make([]sheetstore.RangeUpdate, 0)
	for i, item := range items {
		if item.RequestID != requestID {
			continue
		}
		if item.Status != from {
			return apperrors.Conflict("request group is no longer " + string(from))
		}
		row := rowIndexes[i]
		updates = append(updates, sheetstore.RangeUpdate{
			Range: sheetstore.CellRef(row, colStatus) + ":" + sheetstore.CellRef(row, colHandledBy),
			Values: [][]string{{
				string(to),
				handledBy,
			}},
		})
	}

	if len(updates) == 0 {
		return apperrors.NotFound("request group not found")
	}

	if err := r.store.BatchUpdate(ctx, r.table, updates); err != nil {
		return apperrors.External("unable to update request statuses", err)
	}

	return nil
}

// readItems returns the parsed line items alongside their physical 1-based
// row numbers; the indexes stay internal to this repository.
func (r *sheetRequestRepository) readItems(ctx context.Context) ([]LineItem, []int, error) {
	rows, err := r.store.ReadAll(ctx, r.table)
	if err != nil {
		return nil, nil, apperrors.External("unable to read requests", err)
	}

	items := make([]LineItem, 0, len(rows))
	rowIndexes := make([]int, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			// Header row.
			continue
		}
		item, ok := decodeRow(row)
		if !ok {
			continue
		}
		items = append(items, item)
		rowIndexes = append(rowIndexes, i+1)
	}

	return items, rowIndexes, nil
}

func encodeRow(item LineItem) []string {
	row := make([]string, columnCount)
	row[colRequestID-1] = item.RequestID
	row[colSeq-1] = strconv.Itoa(item.Seq)
	row[colSubmittedAt-1] = item.SubmittedAt.Format(submittedAtFormat)
	row[colRequester-1] = item.Requester
	row[colCategory-1] = item.Category
	row[colCatalogCode-1] = item.CatalogCode
	row[colDescription-1] = item.Description
	row[colUnit-1] = item.Unit
	row[colQuantity-1] = strconv.Itoa(item.Quantity)
	row[colStatus-1] = string(item.Status)
	row[colHandledBy-1] = item.HandledBy
	return row
}

func decodeRow(row []string) (LineItem, bool) {
	cell := func(col int) string {
		if col-1 < len(row) {
			return strings.TrimSpace(row[col-1])
		}
		return ""
	}

	item := LineItem{
		RequestID:   cell(colRequestID),
		Requester:   cell(colRequester),
		Category:    cell(colCategory),
		CatalogCode: cell(colCatalogCode),
		Description: cell(colDescription),
		Unit:        cell(colUnit),
		HandledBy:   cell(colHandledBy),
	}
	if item.RequestID == "" {
		return LineItem{}, false
	}

	item.Seq, _ = strconv.Atoi(cell(colSeq))
	item.Quantity, _ = strconv.Atoi(cell(colQuantity))

	if t, err := time.Parse(submittedAtFormat, cell(colSubmittedAt)); err == nil {
		item.SubmittedAt = t
	}

	status := Status(strings.ToUpper(cell(colStatus)))
	if !status.IsValid() {
		status = StatusPending
	}
	item.Status = status

	return item, true
}
