package sheetstore

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore implements RowStore over one Google spreadsheet; table names
// are tab names.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsService builds an authenticated Sheets client from raw
// service-account credentials JSON.
func NewSheetsService(ctx context.Context, credentialsJSON []byte) (*sheets.Service, error) {
	credentials, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to load google credentials: %w", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	service, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets client: %w", err)
	}

	return service, nil
}

func NewSheetsStore(service *sheets.Service, spreadsheetID string) *SheetsStore {
	return &SheetsStore{
		service:       service,
		spreadsheetID: spreadsheetID,
	}
}

func (s *SheetsStore) ReadAll(ctx context.Context, table string) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, table).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read table %s: %w", table, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, toString(cell))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (s *SheetsStore) AppendRows(ctx context.Context, table string, rows [][]string) error {
	valueRange := &sheets.ValueRange{Values: toInterfaceRows(rows)}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, table, valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("unable to append to table %s: %w", table, err)
	}

	return nil
}

func (s *SheetsStore) UpdateCell(ctx context.Context, table string, rowIndex, colIndex int, value string) error {
	cellRange := fmt.Sprintf("%s!%s", table, CellRef(rowIndex, colIndex))
	valueRange := &sheets.ValueRange{Values: [][]interface{}{{value}}}

	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, cellRange, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("unable to update cell %s: %w", cellRange, err)
	}

	return nil
}

func (s *SheetsStore) ClearRange(ctx context.Context, table string, a1Range string) error {
	fullRange := fmt.Sprintf("%s!%s", table, a1Range)

	_, err := s.service.Spreadsheets.Values.
		Clear(s.spreadsheetID, fullRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("unable to clear range %s: %w", fullRange, err)
	}

	return nil
}

func (s *SheetsStore) BatchUpdate(ctx context.Context, table string, updates []RangeUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, update := range updates {
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!%s", table, update.Range),
			Values: toInterfaceRows(update.Values),
		})
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}

	_, err := s.service.Spreadsheets.Values.
		BatchUpdate(s.spreadsheetID, req).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("unable to batch update table %s: %w", table, err)
	}

	return nil
}

func toInterfaceRows(rows [][]string) [][]interface{} {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		values = append(values, cells)
	}
	return values
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
