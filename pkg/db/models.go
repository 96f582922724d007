package db

import (
	"strings"

	"github.com/jakechorley/consult-hub/pkg/core/model"
)

// ConsultationRow is one request in the consultation_row table
type ConsultationRow struct {
	ID                  string `ssql_header:"id" ssql_type:"uuid"`
	CreatedAt           int64  `ssql_header:"created_at" ssql_type:"millis"`
	StudentName         string `ssql_header:"student_name" ssql_type:"text"`
	StudentClass        string `ssql_header:"student_class" ssql_type:"text"`
	Subject             string `ssql_header:"subject" ssql_type:"text"`
	Instructor          string `ssql_header:"instructor" ssql_type:"text"`
	Requester           string `ssql_header:"requester" ssql_type:"text"`
	Reason              string `ssql_header:"reason" ssql_type:"text"`
	TimeSlots           string `ssql_header:"time_slots" ssql_type:"list"`
	ProposedDay         string `ssql_header:"proposed_day" ssql_type:"text"`
	ProposedTime        string `ssql_header:"proposed_time" ssql_type:"text"`
	InstructorNotes     string `ssql_header:"instructor_notes" ssql_type:"text"`
	IsDeliveryConfirmed bool   `ssql_header:"delivery_confirmed" ssql_type:"bool"`
	Status              string `ssql_header:"status" ssql_type:"text"`
	// 0 when not completed
	CompletedAt int64 `ssql_header:"completed_at" ssql_type:"millis"`
}

const slotSeparator = ", "

func rowFromRequest(r model.ConsultationRequest) ConsultationRow {
	row := ConsultationRow{
		ID:                  r.ID,
		CreatedAt:           r.CreatedAt,
		StudentName:         r.StudentName,
		StudentClass:        r.StudentClass,
		Subject:             r.Subject,
		Instructor:          r.AssignedInstructorName,
		Requester:           r.RequesterName,
		Reason:              r.Reason,
		TimeSlots:           strings.Join(r.AvailableTimeSlots, slotSeparator),
		ProposedDay:         r.ProposedDay,
		ProposedTime:        r.ProposedTime,
		InstructorNotes:     r.InstructorNotes,
		IsDeliveryConfirmed: r.IsDeliveryConfirmed,
		Status:              string(r.Status),
	}
	if r.CompletedAt != nil {
		row.CompletedAt = *r.CompletedAt
	}
	return row
}

// toRequest converts a row back. Unknown statuses read as PENDING.
func (row ConsultationRow) toRequest() model.ConsultationRequest {
	status, ok := model.ParseStatus(row.Status)
	if !ok {
		status = model.StatusPending
	}

	slots := []string{}
	for _, s := range strings.Split(row.TimeSlots, ",") {
		if s = strings.TrimSpace(s); s != "" {
			slots = append(slots, s)
		}
	}

	r := model.ConsultationRequest{
		ID:                     strings.TrimSpace(row.ID),
		StudentName:            row.StudentName,
		StudentClass:           row.StudentClass,
		Subject:                row.Subject,
		AssignedInstructorName: row.Instructor,
		RequesterName:          row.Requester,
		Reason:                 row.Reason,
		AvailableTimeSlots:     slots,
		ProposedDay:            row.ProposedDay,
		ProposedTime:           row.ProposedTime,
		InstructorNotes:        row.InstructorNotes,
		IsDeliveryConfirmed:    row.IsDeliveryConfirmed,
		Status:                 status,
		CreatedAt:              row.CreatedAt,
	}
	if row.CompletedAt > 0 {
		completedAt := row.CompletedAt
		r.CompletedAt = &completedAt
	}
	return r
}
