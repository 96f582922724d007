package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/jakechorley/consult-hub/pkg/core/model"
)

// Policy holds the deployment-dependent completion rules
type Policy struct {
	// RequireProposedSlot rejects completion until a day and time were proposed
	RequireProposedSlot bool
}

// Patch is one allowed mutation of a request. The set of patches is closed.
type Patch interface {
	// Actor is the only role allowed to apply the patch
	Actor() model.Role
	// Name is a short label used in logs
	Name() string
	apply(rec *model.ConsultationRequest, policy Policy, now time.Time) error
}

// Accept moves a pending request into progress
type Accept struct{}

// ProposeTime offers a day and time back to the requester
type ProposeTime struct {
	Day  string
	Time string
}

// SetNotes writes the instructor's notes. With Append the text is added after existing notes.
type SetNotes struct {
	Notes  string
	Append bool
}

// ConfirmDelivery records that the proposed slot was passed on to the student
type ConfirmDelivery struct{}

// Complete closes the request. Non-empty Notes replace the current notes first.
type Complete struct {
	Notes string
}

func (Accept) Actor() model.Role          { return model.RoleInstructor }
func (ProposeTime) Actor() model.Role     { return model.RoleInstructor }
func (SetNotes) Actor() model.Role        { return model.RoleInstructor }
func (ConfirmDelivery) Actor() model.Role { return model.RoleHomeroom }
func (Complete) Actor() model.Role        { return model.RoleInstructor }

func (Accept) Name() string          { return "accept" }
func (ProposeTime) Name() string     { return "propose_time" }
func (SetNotes) Name() string        { return "set_notes" }
func (ConfirmDelivery) Name() string { return "confirm_delivery" }
func (Complete) Name() string        { return "complete" }

func (Accept) apply(rec *model.ConsultationRequest, _ Policy, _ time.Time) error {
	if rec.Status != model.StatusPending {
		return fmt.Errorf("%w: cannot accept a request in status %s", ErrInvalidTransition, rec.Status)
	}
	rec.Status = model.StatusInProgress
	return nil
}

func (p ProposeTime) apply(rec *model.ConsultationRequest, _ Policy, _ time.Time) error {
	day := strings.TrimSpace(p.Day)
	at := strings.TrimSpace(p.Time)
	if day == "" || at == "" {
		return invalid("proposedDay/proposedTime", "must be supplied together")
	}
	if _, err := model.ParseDay(day); err != nil {
		return invalid("proposedDay", err.Error())
	}

	rec.ProposedDay = day
	rec.ProposedTime = at
	return nil
}

func (p SetNotes) apply(rec *model.ConsultationRequest, _ Policy, _ time.Time) error {
	notes := strings.TrimSpace(p.Notes)
	if notes == "" {
		return invalid("instructorNotes", "must not be empty")
	}

	if p.Append && rec.InstructorNotes != "" {
		rec.InstructorNotes = rec.InstructorNotes + "\n\n" + notes
	} else {
		rec.InstructorNotes = notes
	}
	return nil
}

func (ConfirmDelivery) apply(rec *model.ConsultationRequest, _ Policy, _ time.Time) error {
	if rec.ProposedDay == "" {
		return invalid("proposedDay", "must be set before confirming delivery")
	}
	if rec.IsDeliveryConfirmed {
		return fmt.Errorf("%w: delivery already confirmed", ErrInvalidTransition)
	}
	rec.IsDeliveryConfirmed = true
	return nil
}

func (p Complete) apply(rec *model.ConsultationRequest, policy Policy, now time.Time) error {
	if notes := strings.TrimSpace(p.Notes); notes != "" {
		rec.InstructorNotes = notes
	}
	if strings.TrimSpace(rec.InstructorNotes) == "" {
		return invalid("instructorNotes", "are required before completion")
	}
	if policy.RequireProposedSlot && !rec.HasProposedSlot() {
		return invalid("proposedDay/proposedTime", "are required before completion")
	}

	rec.Status = model.StatusCompleted
	if rec.CompletedAt == nil {
		completedAt := now.UnixMilli()
		rec.CompletedAt = &completedAt
	}
	return nil
}

// Apply returns a copy of rec with the patch applied. rec itself is never modified.
func Apply(rec model.ConsultationRequest, actor model.Role, p Patch, policy Policy, now time.Time) (model.ConsultationRequest, error) {
	if p == nil {
		return rec, fmt.Errorf("%w: no patch given", ErrInvalidTransition)
	}
	if actor != p.Actor() {
		return rec, fmt.Errorf("%w: %s cannot %s", ErrForbidden, actor, p.Name())
	}
	if rec.Status.IsTerminal() {
		return rec, fmt.Errorf("%w: %s", ErrTerminal, rec.ID)
	}

	out := rec.Clone()
	if err := p.apply(&out, policy, now); err != nil {
		return rec, err
	}
	return out, nil
}
