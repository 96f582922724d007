package gateway

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jakechorley/consult-hub/pkg/core/model"
)

// Action is the kind of write sent to the remote store
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionUpdate Action = "UPDATE"
)

// ErrRemoteUnavailable is wrapped by every FetchAll failure
var ErrRemoteUnavailable = errors.New("remote store unavailable")

// Gateway is the remote, eventually consistent store of consultation requests.
//
// Upsert is fire-and-forget. It reports whether the write was dispatched without a
// local or transport error, never whether the remote store applied it.
type Gateway interface {
	FetchAll(ctx context.Context) ([]model.ConsultationRequest, error)
	Upsert(ctx context.Context, action Action, request model.ConsultationRequest) bool
}

// SnapshotSaver persists the last fetched collection
type SnapshotSaver interface {
	Save(ctx context.Context, snapshot []model.ConsultationRequest) error
}

type snapshotGateway struct {
	Gateway
	saver  SnapshotSaver
	logger *zap.Logger
}

// WithSnapshots persists every successful FetchAll result to saver.
// A failed save is logged and does not fail the fetch.
func WithSnapshots(inner Gateway, saver SnapshotSaver, logger *zap.Logger) Gateway {
	return &snapshotGateway{Gateway: inner, saver: saver, logger: logger}
}

func (g *snapshotGateway) FetchAll(ctx context.Context) ([]model.ConsultationRequest, error) {
	requests, err := g.Gateway.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := g.saver.Save(ctx, requests); err != nil {
		g.logger.Warn("Failed to save snapshot", zap.Error(err), zap.Int("count", len(requests)))
	}

	return requests, nil
}
