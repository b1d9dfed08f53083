package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kazadi/ratiba/core"
)

var (
	// errors
	ErrCalendarNotFound    = errors.New("no calendar exists for this owner")
	ErrCalendarExists      = errors.New("a calendar already exists for this owner")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrOfficeHoursNotFound = errors.New("office hours not found")
	ErrBucketNotFound      = errors.New("day bucket not found")

	errEmptyClassID = "this field is required"
	errEmptyName    = "this field is required"
)

type (
	Repository interface {
		CreateCalendar(ctx context.Context, cal Calendar) (Calendar, error)
		GetCalendarByOwner(ctx context.Context, owner string) (Calendar, error)

		UpdateOrCreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignment(ctx context.Context, id string) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error

		UpdateOrCreateOfficeHours(ctx context.Context, oh OfficeHours) (OfficeHours, error)
		GetOfficeHours(ctx context.Context, id string) (OfficeHours, error)
		DeleteOfficeHours(ctx context.Context, id string) error

		GetBucket(ctx context.Context, calendarID, dayKey string) (DayBucket, error)
		// AddAssignmentRef upserts the bucket for (calendarID, dayKey) and adds
		// the reference to its set; creates the bucket when absent.
		AddAssignmentRef(ctx context.Context, calendarID, dayKey, assignmentID string) (DayBucket, error)
		// RemoveAssignmentRef pulls the reference from every bucket on this calendar.
		RemoveAssignmentRef(ctx context.Context, calendarID, assignmentID string) error
		// PurgeAssignmentRef pulls the reference from every bucket on every calendar.
		PurgeAssignmentRef(ctx context.Context, assignmentID string) error

		AddOfficeHourRef(ctx context.Context, calendarID, dayKey, officeHoursID string) (DayBucket, error)
		RemoveOfficeHourRef(ctx context.Context, calendarID, officeHoursID string) error
		PurgeOfficeHourRef(ctx context.Context, officeHoursID string) error
	}

	// Service maintains per-owner calendars and the day-index over
	// assignment/office-hours mirrors. It decides where in the index an
	// entity ends up, never when; the board service owns the dates.
	Service struct {
		repo  Repository
		locks *keyedMutex
	}
)

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		locks: newKeyedMutex(),
	}
}

// CreateCalendar creates the single calendar of an owner.
func (svc *Service) CreateCalendar(ctx context.Context, owner string) (Calendar, error) {
	key := "calendar:" + owner
	svc.locks.lock(key)
	defer svc.locks.unlock(key)

	if _, err := svc.repo.GetCalendarByOwner(ctx, owner); err == nil {
		return Calendar{}, ErrCalendarExists
	} else if err != ErrCalendarNotFound {
		return Calendar{}, err
	}
	cal := Calendar{
		ID:        uuid.New().String(),
		Owner:     owner,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateCalendar(ctx, cal)
}

func (svc *Service) GetCalendarByOwner(ctx context.Context, owner string) (Calendar, error) {
	return svc.repo.GetCalendarByOwner(ctx, owner)
}

// Mirror records

func (svc *Service) CreateAssignment(ctx context.Context, na NewAssignment) (Assignment, error) {
	due, err := svc.cleanAssignmentFields(&na.ClassID, &na.Name, na.DueDate)
	if err != nil {
		return Assignment{}, err
	}
	a := Assignment{ID: na.ID, ClassID: na.ClassID, Name: na.Name, DueDate: due}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	svc.locks.lock(a.ID)
	defer svc.locks.unlock(a.ID)
	return svc.repo.UpdateOrCreateAssignment(ctx, a)
}

func (svc *Service) UpdateAssignment(ctx context.Context, id string, ua UpdateAssignment) (Assignment, error) {
	due, err := svc.cleanAssignmentFields(&ua.ClassID, &ua.Name, ua.DueDate)
	if err != nil {
		return Assignment{}, err
	}
	a := Assignment{ID: id, ClassID: ua.ClassID, Name: ua.Name, DueDate: due}

	svc.locks.lock(id)
	defer svc.locks.unlock(id)
	return svc.repo.UpdateOrCreateAssignment(ctx, a)
}

func (svc *Service) GetAssignment(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignment(ctx, id)
}

// DeleteAssignment removes the mirror record and sweeps its reference out
// of every bucket on every calendar. The index does not trust that an
// entity belongs to exactly one calendar; the cross-calendar sweep is a
// deliberate safety net, and its failures are best-effort silent.
func (svc *Service) DeleteAssignment(ctx context.Context, id string) error {
	svc.locks.lock(id)
	defer svc.locks.unlock(id)

	if err := svc.repo.DeleteAssignment(ctx, id); err != nil {
		return err
	}
	_ = svc.repo.PurgeAssignmentRef(ctx, id)
	return nil
}

func (svc *Service) CreateOfficeHours(ctx context.Context, no NewOfficeHours) (OfficeHours, error) {
	start, err := svc.cleanOfficeHoursFields(&no.ClassID, no.StartTime, no.Duration)
	if err != nil {
		return OfficeHours{}, err
	}
	oh := OfficeHours{ID: no.ID, ClassID: no.ClassID, StartTime: start, Duration: no.Duration}
	if oh.ID == "" {
		oh.ID = uuid.New().String()
	}

	svc.locks.lock(oh.ID)
	defer svc.locks.unlock(oh.ID)
	return svc.repo.UpdateOrCreateOfficeHours(ctx, oh)
}

func (svc *Service) UpdateOfficeHours(ctx context.Context, id string, uo UpdateOfficeHours) (OfficeHours, error) {
	start, err := svc.cleanOfficeHoursFields(&uo.ClassID, uo.StartTime, uo.Duration)
	if err != nil {
		return OfficeHours{}, err
	}
	oh := OfficeHours{ID: id, ClassID: uo.ClassID, StartTime: start, Duration: uo.Duration}

	svc.locks.lock(id)
	defer svc.locks.unlock(id)
	return svc.repo.UpdateOrCreateOfficeHours(ctx, oh)
}

func (svc *Service) GetOfficeHours(ctx context.Context, id string) (OfficeHours, error) {
	return svc.repo.GetOfficeHours(ctx, id)
}

// DeleteOfficeHours removes the mirror record and sweeps its reference out
// of every bucket on every calendar; see DeleteAssignment.
func (svc *Service) DeleteOfficeHours(ctx context.Context, id string) error {
	svc.locks.lock(id)
	defer svc.locks.unlock(id)

	if err := svc.repo.DeleteOfficeHours(ctx, id); err != nil {
		return err
	}
	_ = svc.repo.PurgeOfficeHourRef(ctx, id)
	return nil
}

// Index maintenance

// AssignAssignment places the assignment on its owner's calendar, on the
// day derived from its due date. The same operation serves first placement
// and moves: the reference is first removed from every bucket it may
// occupy on this calendar, then added to the target bucket. Re-assigning
// with an unchanged date collapses to a no-op through set semantics.
func (svc *Service) AssignAssignment(ctx context.Context, owner, assignmentID string) (DayBucket, error) {
	svc.locks.lock(assignmentID)
	defer svc.locks.unlock(assignmentID)

	cal, err := svc.repo.GetCalendarByOwner(ctx, owner)
	if err != nil {
		return DayBucket{}, err
	}
	a, err := svc.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return DayBucket{}, err
	}

	// the old-bucket removal must commit before the add, so a reference
	// never lives in two buckets at once
	if err := svc.repo.RemoveAssignmentRef(ctx, cal.ID, a.ID); err != nil {
		return DayBucket{}, err
	}
	return svc.repo.AddAssignmentRef(ctx, cal.ID, DayKey(a.DueDate), a.ID)
}

// UnassignAssignment takes the assignment off its owner's calendar. A
// missing calendar or mirror record leaves nothing to remove; both are
// success no-ops, so the operation is idempotent.
func (svc *Service) UnassignAssignment(ctx context.Context, owner, assignmentID string) error {
	svc.locks.lock(assignmentID)
	defer svc.locks.unlock(assignmentID)

	cal, err := svc.repo.GetCalendarByOwner(ctx, owner)
	if err != nil {
		if err == ErrCalendarNotFound {
			return nil
		}
		return err
	}
	if _, err := svc.repo.GetAssignment(ctx, assignmentID); err != nil {
		if err == ErrAssignmentNotFound {
			return nil
		}
		return err
	}
	return svc.repo.RemoveAssignmentRef(ctx, cal.ID, assignmentID)
}

// AssignOfficeHours places the office hours on the day of their start time;
// see AssignAssignment.
func (svc *Service) AssignOfficeHours(ctx context.Context, owner, officeHoursID string) (DayBucket, error) {
	svc.locks.lock(officeHoursID)
	defer svc.locks.unlock(officeHoursID)

	cal, err := svc.repo.GetCalendarByOwner(ctx, owner)
	if err != nil {
		return DayBucket{}, err
	}
	oh, err := svc.repo.GetOfficeHours(ctx, officeHoursID)
	if err != nil {
		return DayBucket{}, err
	}

	if err := svc.repo.RemoveOfficeHourRef(ctx, cal.ID, oh.ID); err != nil {
		return DayBucket{}, err
	}
	return svc.repo.AddOfficeHourRef(ctx, cal.ID, DayKey(oh.StartTime), oh.ID)
}

// UnassignOfficeHours takes the office hours off its owner's calendar;
// see UnassignAssignment.
func (svc *Service) UnassignOfficeHours(ctx context.Context, owner, officeHoursID string) error {
	svc.locks.lock(officeHoursID)
	defer svc.locks.unlock(officeHoursID)

	cal, err := svc.repo.GetCalendarByOwner(ctx, owner)
	if err != nil {
		if err == ErrCalendarNotFound {
			return nil
		}
		return err
	}
	if _, err := svc.repo.GetOfficeHours(ctx, officeHoursID); err != nil {
		if err == ErrOfficeHoursNotFound {
			return nil
		}
		return err
	}
	return svc.repo.RemoveOfficeHourRef(ctx, cal.ID, officeHoursID)
}

// ReferencesOnDay returns the entity IDs indexed for one calendar day.
// A day with no bucket yields empty lists, not an error.
func (svc *Service) ReferencesOnDay(ctx context.Context, calendarID, dayKey string) (DayRefs, error) {
	refs := DayRefs{
		Assignments: []string{},
		OfficeHours: []string{},
	}
	bkt, err := svc.repo.GetBucket(ctx, calendarID, dayKey)
	if err != nil {
		if err == ErrBucketNotFound {
			return refs, nil
		}
		return refs, err
	}
	refs.Assignments = append(refs.Assignments, bkt.AssignmentRefs...)
	refs.OfficeHours = append(refs.OfficeHours, bkt.OfficeHourRefs...)
	return refs, nil
}

func (svc *Service) cleanAssignmentFields(classID, name *string, dueDate string) (time.Time, error) {
	*classID = core.CleanString(*classID)
	*name = core.CleanString(*name)
	if *classID == "" {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: "class_id", Error: errEmptyClassID})
	}
	if *name == "" {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: "name", Error: errEmptyName})
	}
	due, err := ParseTimestamp(dueDate)
	if err != nil {
		return time.Time{}, core.NewValidationError(err, core.FieldError{Field: "due_date", Error: "invalid timestamp"})
	}
	return due, nil
}

func (svc *Service) cleanOfficeHoursFields(classID *string, startTime string, duration int) (time.Time, error) {
	*classID = core.CleanString(*classID)
	if *classID == "" {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: "class_id", Error: errEmptyClassID})
	}
	if duration < 0 {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: "duration", Error: "must not be negative"})
	}
	start, err := ParseTimestamp(startTime)
	if err != nil {
		return time.Time{}, core.NewValidationError(err, core.FieldError{Field: "start_time", Error: "invalid timestamp"})
	}
	return start, nil
}
