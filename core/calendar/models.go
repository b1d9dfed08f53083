package calendar

import (
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kazadi/ratiba/core"
)

type Calendar struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Assignment is a mirror of the authoritative record owned by the board
// service; both stores share the same ID.
type Assignment struct {
	ID      string    `json:"id"`
	ClassID string    `json:"class_id"`
	Name    string    `json:"name"`
	DueDate time.Time `json:"due_date"` // UTC
}

// OfficeHours is a mirror of the authoritative record owned by the board
// service; both stores share the same ID.
type OfficeHours struct {
	ID        string    `json:"id"`
	ClassID   string    `json:"class_id"`
	StartTime time.Time `json:"start_time"` // UTC
	Duration  int       `json:"duration"`   // minutes
}

// DayBucket indexes the entity references placed on one calendar day.
// Ref slices are kept sorted and deduplicated (set semantics).
type DayBucket struct {
	ID             string    `json:"id"` // <calendarID>_<dayKey>
	CalendarID     string    `json:"calendar_id"`
	Date           time.Time `json:"date"` // UTC midnight of the day key
	AssignmentRefs []string  `json:"assignment_refs"`
	OfficeHourRefs []string  `json:"office_hour_refs"`
}

// DayRefs is what a presentation layer gets for one day; IDs only,
// resolved into full records via GetAssignment/GetOfficeHours.
type DayRefs struct {
	Assignments []string `json:"assignments"`
	OfficeHours []string `json:"office_hours"`
}

// NewAssignment contains information needed to create an Assignment mirror.
// ID carries the board service's identifier; a fresh one is generated only
// when the caller supplies none.
type NewAssignment struct {
	ID      string `json:"id"`
	ClassID string `json:"class_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	DueDate string `json:"due_date" validate:"required"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.ClassID = core.CleanString(na.ClassID)
	na.Name = core.CleanString(na.Name)
	if err := validate.Struct(na); err != nil {
		return err
	}
	return validateTimestamp("due_date", na.DueDate)
}

// UpdateAssignment fully replaces the mirror record with the given ID;
// records are never merged field by field.
type UpdateAssignment struct {
	ClassID string `json:"class_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	DueDate string `json:"due_date" validate:"required"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.ClassID = core.CleanString(ua.ClassID)
	ua.Name = core.CleanString(ua.Name)
	if err := validate.Struct(ua); err != nil {
		return err
	}
	return validateTimestamp("due_date", ua.DueDate)
}

// NewOfficeHours contains information needed to create an OfficeHours mirror.
type NewOfficeHours struct {
	ID        string `json:"id"`
	ClassID   string `json:"class_id" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	Duration  int    `json:"duration" validate:"min=0"`
}

func (no *NewOfficeHours) Validate(validate *validator.Validate) error {
	no.ClassID = core.CleanString(no.ClassID)
	if err := validate.Struct(no); err != nil {
		return err
	}
	return validateTimestamp("start_time", no.StartTime)
}

// UpdateOfficeHours fully replaces the mirror record with the given ID.
type UpdateOfficeHours struct {
	ClassID   string `json:"class_id" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	Duration  int    `json:"duration" validate:"min=0"`
}

func (uo *UpdateOfficeHours) Validate(validate *validator.Validate) error {
	uo.ClassID = core.CleanString(uo.ClassID)
	if err := validate.Struct(uo); err != nil {
		return err
	}
	return validateTimestamp("start_time", uo.StartTime)
}

func validateTimestamp(field, val string) error {
	if _, err := ParseTimestamp(val); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: field, Error: "invalid timestamp"})
	}
	return nil
}

// AddRef inserts id into a sorted ref set; adding an existing id is a no-op.
func AddRef(refs []string, id string) []string {
	i := sort.SearchStrings(refs, id)
	if i < len(refs) && refs[i] == id {
		return refs
	}
	refs = append(refs, "")
	copy(refs[i+1:], refs[i:])
	refs[i] = id
	return refs
}

// RemoveRef deletes id from a sorted ref set; a missing id is a no-op.
func RemoveRef(refs []string, id string) []string {
	i := sort.SearchStrings(refs, id)
	if i < len(refs) && refs[i] == id {
		return append(refs[:i], refs[i+1:]...)
	}
	return refs
}

// HasRef reports whether a sorted ref set contains id.
func HasRef(refs []string, id string) bool {
	i := sort.SearchStrings(refs, id)
	return i < len(refs) && refs[i] == id
}
