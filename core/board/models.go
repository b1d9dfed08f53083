package board

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kazadi/ratiba/core"
	"github.com/kazadi/ratiba/core/calendar"
)

type Board struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type Class struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	Name      string    `json:"name"`
	Term      string    `json:"term"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Assignment is the authoritative record; the calendar core holds a mirror
// under the same ID.
type Assignment struct {
	ID        string    `json:"id"`
	ClassID   string    `json:"class_id"`
	Name      string    `json:"name"`
	DueDate   time.Time `json:"due_date"` // UTC
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OfficeHours is the authoritative record; the calendar core holds a mirror
// under the same ID.
type OfficeHours struct {
	ID        string    `json:"id"`
	ClassID   string    `json:"class_id"`
	StartTime time.Time `json:"start_time"` // UTC
	Duration  int       `json:"duration"`   // minutes
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewBoard struct {
	Name string `json:"name" validate:"required"`
}

func (nb *NewBoard) Validate(validate *validator.Validate) error {
	nb.Name = core.CleanString(nb.Name)
	return validate.Struct(nb)
}

type UpdateBoard struct {
	Name string `json:"name" validate:"required"`
}

func (ub *UpdateBoard) Validate(validate *validator.Validate) error {
	ub.Name = core.CleanString(ub.Name)
	return validate.Struct(ub)
}

type NewClass struct {
	Name string `json:"name" validate:"required"`
	Term string `json:"term"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Term = core.CleanString(nc.Term)
	return validate.Struct(nc)
}

type UpdateClass struct {
	Name string `json:"name" validate:"required"`
	Term string `json:"term"`
}

func (uc *UpdateClass) Validate(validate *validator.Validate) error {
	uc.Name = core.CleanString(uc.Name)
	uc.Term = core.CleanString(uc.Term)
	return validate.Struct(uc)
}

type NewAssignment struct {
	Name    string `json:"name" validate:"required"`
	DueDate string `json:"due_date" validate:"required"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Name = core.CleanString(na.Name)
	if err := validate.Struct(na); err != nil {
		return err
	}
	return validateTimestamp("due_date", na.DueDate)
}

type UpdateAssignment struct {
	Name    string `json:"name" validate:"required"`
	DueDate string `json:"due_date" validate:"required"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.Name = core.CleanString(ua.Name)
	if err := validate.Struct(ua); err != nil {
		return err
	}
	return validateTimestamp("due_date", ua.DueDate)
}

type NewOfficeHours struct {
	StartTime string `json:"start_time" validate:"required"`
	Duration  int    `json:"duration" validate:"min=0"`
}

func (no *NewOfficeHours) Validate(validate *validator.Validate) error {
	if err := validate.Struct(no); err != nil {
		return err
	}
	return validateTimestamp("start_time", no.StartTime)
}

type UpdateOfficeHours struct {
	StartTime string `json:"start_time" validate:"required"`
	Duration  int    `json:"duration" validate:"min=0"`
}

func (uo *UpdateOfficeHours) Validate(validate *validator.Validate) error {
	if err := validate.Struct(uo); err != nil {
		return err
	}
	return validateTimestamp("start_time", uo.StartTime)
}

func validateTimestamp(field, val string) error {
	if _, err := calendar.ParseTimestamp(val); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: field, Error: "invalid timestamp"})
	}
	return nil
}
