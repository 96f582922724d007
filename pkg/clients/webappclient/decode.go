package webappclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jakechorley/consult-hub/pkg/core/model"
)

// The sheet macro returns rows as loosely typed JSON: cells may come back as strings,
// numbers, booleans or null depending on what the spreadsheet inferred. The flex types
// below accept all of those.

type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}

	// Numbers and booleans keep their literal text
	*s = flexString(string(data))
	return nil
}

type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var raw flexString
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(string(raw))) {
	case "true", "1", "yes", "y", "완료":
		*b = true
	default:
		*b = false
	}
	return nil
}

type flexMillis int64

// localeLayouts covers what a browser's toLocaleString produces for the sheet's locales
var localeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006. 1. 2. PM 3:04:05",
	"1/2/2006, 3:04:05 PM",
}

func (m *flexMillis) UnmarshalJSON(data []byte) error {
	var raw flexString
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = flexMillis(parseMillis(string(raw)))
	return nil
}

// parseMillis returns 0 for anything it cannot read as a timestamp
func parseMillis(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}

	normalized := strings.NewReplacer("오전", "AM", "오후", "PM").Replace(s)
	for _, layout := range localeLayouts {
		if t, err := time.ParseInLocation(layout, normalized, time.Local); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

type flexSlots []string

func (s *flexSlots) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []flexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if v := strings.TrimSpace(string(item)); v != "" {
				out = append(out, v)
			}
		}
		*s = out
		return nil
	}

	var joined flexString
	if err := joined.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = splitSlots(string(joined))
	return nil
}

func splitSlots(joined string) []string {
	out := []string{}
	for _, part := range strings.Split(joined, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// wireRecord is one row as returned by the remote endpoint
type wireRecord struct {
	ID                     flexString `json:"id"`
	StudentName            flexString `json:"studentName"`
	StudentClass           flexString `json:"studentClass"`
	Subject                flexString `json:"subject"`
	AssignedInstructorName flexString `json:"assignedInstructorName"`
	RequesterName          flexString `json:"requesterName"`
	Reason                 flexString `json:"reason"`
	AvailableTimeSlots     flexSlots  `json:"availableTimeSlots"`
	ProposedDay            flexString `json:"proposedDay"`
	ProposedTime           flexString `json:"proposedTime"`
	InstructorNotes        flexString `json:"instructorNotes"`
	IsDeliveryConfirmed    flexBool   `json:"isDeliveryConfirmed"`
	Status                 flexString `json:"status"`
	CreatedAt              flexMillis `json:"createdAt"`
	CompletedAt            flexMillis `json:"completedAt"`
}

func (w wireRecord) toModel() model.ConsultationRequest {
	status, ok := model.ParseStatus(string(w.Status))
	if !ok {
		status = model.StatusPending
	}

	slots := []string(w.AvailableTimeSlots)
	if slots == nil {
		slots = []string{}
	}

	rec := model.ConsultationRequest{
		ID:                     strings.TrimSpace(string(w.ID)),
		StudentName:            string(w.StudentName),
		StudentClass:           string(w.StudentClass),
		Subject:                string(w.Subject),
		AssignedInstructorName: string(w.AssignedInstructorName),
		RequesterName:          string(w.RequesterName),
		Reason:                 string(w.Reason),
		AvailableTimeSlots:     slots,
		ProposedDay:            string(w.ProposedDay),
		ProposedTime:           string(w.ProposedTime),
		InstructorNotes:        string(w.InstructorNotes),
		IsDeliveryConfirmed:    bool(w.IsDeliveryConfirmed),
		Status:                 status,
		CreatedAt:              int64(w.CreatedAt),
	}
	if w.CompletedAt > 0 {
		completedAt := int64(w.CompletedAt)
		rec.CompletedAt = &completedAt
	}
	return rec
}

// decodeRecords parses a fetch payload.
// Invalid JSON is an error; valid JSON that is not an array decodes to an empty list.
// Elements that are not records, or have no id, are reported in skipped.
func decodeRecords(payload []byte) (records []model.ConsultationRequest, skipped int, err error) {
	if !json.Valid(payload) {
		return nil, 0, fmt.Errorf("payload is not valid JSON")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return []model.ConsultationRequest{}, 0, nil
	}

	records = make([]model.ConsultationRequest, 0, len(items))
	for _, item := range items {
		var w wireRecord
		if err := json.Unmarshal(item, &w); err != nil {
			skipped++
			continue
		}
		rec := w.toModel()
		if rec.ID == "" {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}
