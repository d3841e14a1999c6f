package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/sheetstore"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/apperrors"
)

type Service struct {
	store sheetstore.RowStore
	table string
}

func NewService(store sheetstore.RowStore, table string) *Service {
	return &Service{store: store, table: table}
}

// Lookup finds the catalog item matching category and description,
// case-insensitively. A miss returns (nil, nil): submissions proceed with
// blank resolved fields.
func (s *Service) Lookup(ctx context.Context, category, description string) (*Item, error) {
	items, err := s.readItems(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if strings.EqualFold(items[i].Category, category) &&
			strings.EqualFold(items[i].Description, description) {
			return &items[i], nil
		}
	}

	return nil, nil
}

// ListActive returns the active items in a category, matched
// case-insensitively. Records without an explicit active flag count as
// active.
func (s *Service) ListActive(ctx context.Context, category string) ([]Item, error) {
	items, err := s.readItems(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]Item, 0)
	for _, item := range items {
		if item.Active && strings.EqualFold(item.Category, category) {
			result = append(result, item)
		}
	}

	return result, nil
}

func (s *Service) readItems(ctx context.Context) ([]Item, error) {
	rows, err := s.store.ReadAll(ctx, s.table)
	if err != nil {
		return nil, apperrors.External("unable to read catalog", err)
	}

	if len(rows) < 2 {
		return []Item{}, nil
	}

	headerMap := MapHeaders(rows[0])

	items := make([]Item, 0, len(rows)-1)
	for _, row := range rows[1:] {
		item := Item{Active: true}
		empty := true

		for col, cell := range row {
			field, mapped := headerMap[col]
			if !mapped {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				empty = false
			}

			switch field {
			case "code":
				item.Code = cell
			case "category":
				item.Category = cell
			case "description":
				item.Description = cell
			case "unit":
				item.Unit = cell
			case "stock":
				if qty, err := strconv.Atoi(cell); err == nil {
					item.Stock = qty
				}
			case "active":
				item.Active = parseActive(cell)
			}
		}

		if !empty {
			items = append(items, item)
		}
	}

	return items, nil
}

// parseActive treats a blank flag as active.
func parseActive(cell string) bool {
	switch normalize(cell) {
	case "", "SI", "YES", "TRUE", "1", "X":
		return true
	default:
		return false
	}
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
