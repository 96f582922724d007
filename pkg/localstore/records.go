package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/consult-hub/pkg/core/model"
)

// Keys used in the KV store
const (
	KeyRequests = "consultation_requests"
	keyLastName = "last_%s_name"
)

// RecordStore is the last-known copy of the collection plus per-role identity.
// It is a fallback for when the remote store cannot be reached, not a cache with
// any coherency guarantees.
type RecordStore struct {
	kv     KV
	logger *zap.Logger
}

// NewRecordStore wraps a KV backend
func NewRecordStore(kv KV, logger *zap.Logger) *RecordStore {
	return &RecordStore{kv: kv, logger: logger}
}

// Save replaces the stored snapshot
func (s *RecordStore) Save(ctx context.Context, snapshot []model.ConsultationRequest) error {
	if snapshot == nil {
		snapshot = []model.ConsultationRequest{}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.kv.Put(ctx, KeyRequests, data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadLastKnown returns the stored snapshot, or an empty list when there is none
// or it cannot be read
func (s *RecordStore) LoadLastKnown(ctx context.Context) []model.ConsultationRequest {
	data, ok, err := s.kv.Get(ctx, KeyRequests)
	if err != nil {
		s.logger.Warn("Failed to read stored snapshot", zap.Error(err))
		return []model.ConsultationRequest{}
	}
	if !ok {
		return []model.ConsultationRequest{}
	}

	var snapshot []model.ConsultationRequest
	if err := json.Unmarshal(data, &snapshot); err != nil {
		s.logger.Warn("Discarding malformed stored snapshot", zap.Error(err))
		return []model.ConsultationRequest{}
	}
	if snapshot == nil {
		return []model.ConsultationRequest{}
	}

	return snapshot
}

// LastName returns the display name last used for role, or "" if none
func (s *RecordStore) LastName(ctx context.Context, role model.Role) string {
	data, ok, err := s.kv.Get(ctx, lastNameKey(role))
	if err != nil {
		s.logger.Warn("Failed to read last used name", zap.String("role", string(role)), zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return string(data)
}

// SaveLastName remembers the display name used for role
func (s *RecordStore) SaveLastName(ctx context.Context, role model.Role, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if err := s.kv.Put(ctx, lastNameKey(role), []byte(name)); err != nil {
		return fmt.Errorf("failed to save last used name: %w", err)
	}
	return nil
}

func lastNameKey(role model.Role) string {
	return fmt.Sprintf(keyLastName, strings.ToLower(string(role)))
}
