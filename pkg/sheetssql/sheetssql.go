package sheetssql

import (
	"context"
	"fmt"
)

// SheetsClient defines the sheet operations the database needs
type SheetsClient interface {
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
	AppendRows(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error
	UpdateRows(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	CreateSheet(ctx context.Context, spreadsheetID, sheetTitle string) (int64, error)
}

// Column defines a column with name and type
type Column struct {
	Name string
	Type string // e.g., "text", "int", "bool", "uuid", "list", "millis"
}

// TableSchema defines the structure of a table
type TableSchema struct {
	Name    string
	Columns []Column
}

// Schema defines the database schema
type Schema struct {
	Tables []TableSchema
}

// DB is a spreadsheet used as a database. Each table is a tab whose first row holds column
// names and whose second row holds column types.
type DB struct {
	client        SheetsClient
	spreadsheetID string
	schema        *Schema
}

// headerRows is the number of rows above the data in every table
const headerRows = 2

// NewDB creates a new Sheets SQL database connection and ensures schema exists
func NewDB(ctx context.Context, client SheetsClient, spreadsheetID string, schema *Schema) (*DB, error) {
	db := &DB{
		client:        client,
		spreadsheetID: spreadsheetID,
		schema:        schema,
	}

	if err := db.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// SpreadsheetID returns the database spreadsheet ID
func (db *DB) SpreadsheetID() string {
	return db.spreadsheetID
}

// InsertRows appends rows to the specified table
func (db *DB) InsertRows(ctx context.Context, tableName string, rows [][]interface{}) error {
	return db.client.AppendRows(ctx, db.spreadsheetID, tableName, rows)
}
