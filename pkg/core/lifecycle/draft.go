package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/consult-hub/pkg/core/model"
)

// Draft is what a homeroom teacher submits to open a request
type Draft struct {
	StudentName            string   `validate:"required"`
	StudentClass           string   `validate:"required"`
	Subject                string   `validate:"required"`
	AssignedInstructorName string   `validate:"required"`
	RequesterName          string   `validate:"required"`
	Reason                 string
	AvailableTimeSlots     []string `validate:"min=1,dive,timeslot"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		_, err := model.ParseTimeSlot(fl.Field().String())
		return err == nil
	})
}

// jsonNames maps Draft fields to the record field names users see
var jsonNames = map[string]string{
	"StudentName":            "studentName",
	"StudentClass":           "studentClass",
	"Subject":                "subject",
	"AssignedInstructorName": "assignedInstructorName",
	"RequesterName":          "requesterName",
	"AvailableTimeSlots":     "availableTimeSlots",
}

// normalize trims text fields and drops blank or duplicate slots
func (d Draft) normalize() Draft {
	out := Draft{
		StudentName:            strings.TrimSpace(d.StudentName),
		StudentClass:           strings.TrimSpace(d.StudentClass),
		Subject:                strings.TrimSpace(d.Subject),
		AssignedInstructorName: strings.TrimSpace(d.AssignedInstructorName),
		RequesterName:          strings.TrimSpace(d.RequesterName),
		Reason:                 strings.TrimSpace(d.Reason),
		AvailableTimeSlots:     []string{},
	}

	seen := make(map[string]bool)
	for _, slot := range d.AvailableTimeSlots {
		slot = strings.TrimSpace(slot)
		if slot == "" || seen[slot] {
			continue
		}
		seen[slot] = true
		out.AvailableTimeSlots = append(out.AvailableTimeSlots, slot)
	}

	return out
}

// Validate checks the draft and returns a *ValidationError for the first problem found
func (d Draft) Validate() error {
	return validateDraft(d.normalize())
}

func validateDraft(d Draft) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fe := fieldErrs[0]
	structField, _, _ := strings.Cut(fe.StructField(), "[")
	field := jsonNames[structField]
	if field == "" {
		field = structField
	}

	switch fe.Tag() {
	case "required":
		return invalid(field, "is required")
	case "min":
		return invalid(field, "must contain at least one slot")
	case "timeslot":
		return invalid(field, fmt.Sprintf("contains invalid slot %q", fe.Value()))
	default:
		return invalid(field, "failed "+fe.Tag()+" check")
	}
}

// NewRequest validates a draft and builds the PENDING record it opens
func NewRequest(d Draft, id string, now time.Time) (model.ConsultationRequest, error) {
	d = d.normalize()
	if err := validateDraft(d); err != nil {
		return model.ConsultationRequest{}, err
	}
	if id == "" {
		return model.ConsultationRequest{}, invalid("id", "is required")
	}

	return model.ConsultationRequest{
		ID:                     id,
		StudentName:            d.StudentName,
		StudentClass:           d.StudentClass,
		Subject:                d.Subject,
		AssignedInstructorName: d.AssignedInstructorName,
		RequesterName:          d.RequesterName,
		Reason:                 d.Reason,
		AvailableTimeSlots:     d.AvailableTimeSlots,
		Status:                 model.StatusPending,
		CreatedAt:              now.UnixMilli(),
	}, nil
}
