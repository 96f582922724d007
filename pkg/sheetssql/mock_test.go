package sheetssql

import (
	"context"
	"strings"
)

type appendCall struct {
	sheetRange string
	values     [][]interface{}
}

// mockSheetsClient keeps tables in memory, keyed by tab title
type mockSheetsClient struct {
	tables  map[string][][]interface{}
	appends []appendCall
	updates []appendCall
	created []string
	getErr  error
}

func newMockSheetsClient() *mockSheetsClient {
	return &mockSheetsClient{tables: make(map[string][][]interface{})}
}

func (m *mockSheetsClient) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	name, _, _ := strings.Cut(sheetRange, "!")
	return m.tables[name], nil
}

func (m *mockSheetsClient) AppendRows(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error {
	m.appends = append(m.appends, appendCall{sheetRange: sheetRange, values: values})
	m.tables[sheetRange] = append(m.tables[sheetRange], values...)
	return nil
}

func (m *mockSheetsClient) UpdateRows(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error {
	m.updates = append(m.updates, appendCall{sheetRange: sheetRange, values: values})
	return nil
}

func (m *mockSheetsClient) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	titles := make([]string, 0, len(m.tables))
	for title := range m.tables {
		titles = append(titles, title)
	}
	return titles, nil
}

func (m *mockSheetsClient) CreateSheet(ctx context.Context, spreadsheetID, sheetTitle string) (int64, error) {
	m.created = append(m.created, sheetTitle)
	m.tables[sheetTitle] = nil
	return int64(len(m.created)), nil
}
