package model

import "strings"

// Role identifies which kind of teacher is acting on a request
type Role string

const (
	RoleHomeroom   Role = "HOMEROOM"
	RoleInstructor Role = "INSTRUCTOR"
)

func (r Role) IsValid() bool {
	return r == RoleHomeroom || r == RoleInstructor
}

// ParseRole accepts the role name in any case
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// Status is the lifecycle state of a consultation request
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// IsTerminal reports whether no further transitions are allowed
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// Label returns the label the spreadsheet uses for the status
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "대기중"
	case StatusInProgress:
		return "진행중"
	case StatusCompleted:
		return "완료"
	default:
		return string(s)
	}
}

// ParseStatus accepts either the enum name or the spreadsheet label
func ParseStatus(s string) (Status, bool) {
	switch strings.TrimSpace(s) {
	case "PENDING", "대기중", "대기":
		return StatusPending, true
	case "IN_PROGRESS", "진행중":
		return StatusInProgress, true
	case "COMPLETED", "완료":
		return StatusCompleted, true
	}
	return "", false
}

// ConsultationRequest is a single student consultation and its lifecycle.
// Timestamps are unix milliseconds.
type ConsultationRequest struct {
	ID                     string   `json:"id"`
	StudentName            string   `json:"studentName"`
	StudentClass           string   `json:"studentClass"`
	Subject                string   `json:"subject"`
	AssignedInstructorName string   `json:"assignedInstructorName"`
	RequesterName          string   `json:"requesterName"`
	Reason                 string   `json:"reason"`
	AvailableTimeSlots     []string `json:"availableTimeSlots"`
	ProposedDay            string   `json:"proposedDay,omitempty"`
	ProposedTime           string   `json:"proposedTime,omitempty"`
	InstructorNotes        string   `json:"instructorNotes,omitempty"`
	IsDeliveryConfirmed    bool     `json:"isDeliveryConfirmed"`
	Status                 Status   `json:"status"`
	CreatedAt              int64    `json:"createdAt"`
	CompletedAt            *int64   `json:"completedAt,omitempty"`
}

// HasProposedSlot reports whether the instructor has offered a day and time
func (r ConsultationRequest) HasProposedSlot() bool {
	return r.ProposedDay != "" && r.ProposedTime != ""
}

// Clone returns a copy that shares no slices or pointers with r
func (r ConsultationRequest) Clone() ConsultationRequest {
	out := r
	if r.AvailableTimeSlots != nil {
		out.AvailableTimeSlots = append([]string(nil), r.AvailableTimeSlots...)
	}
	if r.CompletedAt != nil {
		completedAt := *r.CompletedAt
		out.CompletedAt = &completedAt
	}
	return out
}

// CloneAll copies a collection of requests
func CloneAll(requests []ConsultationRequest) []ConsultationRequest {
	out := make([]ConsultationRequest, len(requests))
	for i, r := range requests {
		out[i] = r.Clone()
	}
	return out
}

// Subjects offered on the request form
var Subjects = []string{
	"국어", "수학", "영어", "과학", "사회", "역사", "제2외국어", "예체능",
}
