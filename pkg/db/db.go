// Package db stores consultation requests in a Google Sheets spreadsheet through sheetssql.
package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/consult-hub/pkg/core/gateway"
	"github.com/jakechorley/consult-hub/pkg/core/model"
	"github.com/jakechorley/consult-hub/pkg/sheetssql"
)

const keyColumn = "id"

// DB is a remote store backed by a spreadsheet. Writes are serialized so that an append
// and a row lookup never interleave.
type DB struct {
	ssql   *sheetssql.DB
	logger *zap.Logger

	writeMu sync.Mutex
}

// Schema returns the spreadsheet schema of the consultation store
func Schema() (*sheetssql.Schema, error) {
	return sheetssql.SchemaFromModels(ConsultationRow{})
}

// Open ensures the schema exists in the spreadsheet and returns the store
func Open(ctx context.Context, client sheetssql.SheetsClient, spreadsheetID string, logger *zap.Logger) (*DB, error) {
	schema, err := Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}

	ssql, err := sheetssql.NewDB(ctx, client, spreadsheetID, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet database: %w", err)
	}

	return NewDB(ssql, logger), nil
}

// NewDB creates a new database instance
func NewDB(ssql *sheetssql.DB, logger *zap.Logger) *DB {
	return &DB{
		ssql:   ssql,
		logger: logger,
	}
}

// FetchAll returns every request in sheet order
func (db *DB) FetchAll(ctx context.Context) ([]model.ConsultationRequest, error) {
	rows, err := sheetssql.GetTableAs[ConsultationRow](ctx, db.ssql)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrRemoteUnavailable, err)
	}

	requests := make([]model.ConsultationRequest, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		r := row.toRequest()
		if r.ID == "" {
			skipped++
			continue
		}
		requests = append(requests, r)
	}
	if skipped > 0 {
		db.logger.Warn("Skipped rows without id", zap.Int("count", skipped))
	}

	return requests, nil
}

// Upsert appends (ADD) or rewrites (UPDATE) the row of request. Adding an id that already
// exists or updating one that does not is logged and reported as not dispatched.
func (db *DB) Upsert(ctx context.Context, action gateway.Action, request model.ConsultationRequest) bool {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	logger := db.logger.With(zap.String("action", string(action)), zap.String("id", request.ID))
	row := rowFromRequest(request)

	switch action {
	case gateway.ActionAdd:
		_, err := sheetssql.FindRow[ConsultationRow](ctx, db.ssql, keyColumn, request.ID)
		if err == nil {
			logger.Warn("Request already exists, not adding")
			return false
		}
		if !errors.Is(err, sheetssql.ErrRowNotFound) {
			logger.Error("Failed to look up request", zap.Error(err))
			return false
		}
		if err := sheetssql.InsertModel(ctx, db.ssql, row); err != nil {
			logger.Error("Failed to insert request", zap.Error(err))
			return false
		}

	case gateway.ActionUpdate:
		if err := sheetssql.UpdateModel(ctx, db.ssql, keyColumn, row); err != nil {
			logger.Error("Failed to update request", zap.Error(err))
			return false
		}

	default:
		logger.Error("Unknown action")
		return false
	}

	logger.Debug("Request written")
	return true
}

var _ gateway.Gateway = (*DB)(nil)
