package voucher

import (
	"encoding/json"
	"fmt"
)

// Layout maps the voucher's logical fields onto a sheet template. The
// template itself (merged cells, borders, static labels) lives in the
// spreadsheet; the layout only knows where the data goes, so a template
// change is a layout version bump, not a code change.
type Layout struct {
	Version string `json:"version"`

	// HeaderCells maps a header field to the top-left cell of its merged
	// region. Writing the top-left cell is what fills a merged region.
	HeaderCells HeaderCells `json:"header_cells"`

	// ItemColumns are the column letters of the item table.
	ItemColumns ItemColumns `json:"item_columns"`

	// ItemsStartRow is the first row of the item table.
	ItemsStartRow int `json:"items_start_row"`

	// MaxItemRows bounds the item table so writes never spill into the
	// template's footer.
	MaxItemRows int `json:"max_item_rows"`

	// ClearRanges are the data regions wiped before each write. They must
	// cover only previously written data, never static template cells.
	ClearRanges []string `json:"clear_ranges"`
}

type HeaderCells struct {
	VoucherNumber string `json:"voucher_number"`
	Date          string `json:"date"`
	Requester     string `json:"requester"`
	Handler       string `json:"handler"`
}

type ItemColumns struct {
	Seq         string `json:"seq"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Quantity    string `json:"quantity"`
}

// DefaultLayout is the fallback when no layout is configured. Nothing in the
// writer assumes these addresses; they are data.
func DefaultLayout() Layout {
	return Layout{
		Version: "v1",
		HeaderCells: HeaderCells{
			VoucherNumber: "E2",
			Date:          "E3",
			Requester:     "B4",
			Handler:       "B5",
		},
		ItemColumns: ItemColumns{
			Seq:         "A",
			Code:        "B",
			Description: "C",
			Unit:        "D",
			Quantity:    "E",
		},
		ItemsStartRow: 8,
		MaxItemRows:   25,
		ClearRanges:   []string{"E2:E3", "B4:B5", "A8:E32"},
	}
}

// ParseLayout decodes a layout override and validates it.
func ParseLayout(raw []byte) (Layout, error) {
	var layout Layout
	if err := json.Unmarshal(raw, &layout); err != nil {
		return Layout{}, fmt.Errorf("invalid voucher layout JSON: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

func (l Layout) Validate() error {
	if l.Version == "" {
		return fmt.Errorf("voucher layout: version is required")
	}
	if l.ItemsStartRow < 1 {
		return fmt.Errorf("voucher layout %s: items_start_row must be >= 1", l.Version)
	}
	if l.MaxItemRows < 1 {
		return fmt.Errorf("voucher layout %s: max_item_rows must be >= 1", l.Version)
	}
	if l.HeaderCells.VoucherNumber == "" || l.HeaderCells.Date == "" ||
		l.HeaderCells.Requester == "" || l.HeaderCells.Handler == "" {
		return fmt.Errorf("voucher layout %s: all header cells are required", l.Version)
	}
	if l.ItemColumns.Description == "" || l.ItemColumns.Quantity == "" {
		return fmt.Errorf("voucher layout %s: description and quantity columns are required", l.Version)
	}
	return nil
}
