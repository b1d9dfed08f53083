package board

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kazadi/ratiba/core/calendar"
)

var (
	// errors; an entity outside the caller's ownership chain reports
	// not-found rather than forbidden, so nothing leaks about other
	// users' boards
	ErrBoardNotFound       = errors.New("board not found")
	ErrClassNotFound       = errors.New("class not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrOfficeHoursNotFound = errors.New("office hours not found")
)

type (
	Repository interface {
		CreateBoard(ctx context.Context, b Board) (Board, error)
		QueryBoardsByOwner(ctx context.Context, owner string) ([]Board, error)
		GetBoardByID(ctx context.Context, id string) (Board, error)
		UpdateBoard(ctx context.Context, b Board) (Board, error)
		DeleteBoard(ctx context.Context, id string) error

		CreateClass(ctx context.Context, c Class) (Class, error)
		QueryClassesByBoard(ctx context.Context, boardID string) ([]Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		UpdateClass(ctx context.Context, c Class) (Class, error)
		DeleteClass(ctx context.Context, id string) error

		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		QueryAssignmentsByClass(ctx context.Context, classID string) ([]Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error

		CreateOfficeHours(ctx context.Context, oh OfficeHours) (OfficeHours, error)
		QueryOfficeHoursByClass(ctx context.Context, classID string) ([]OfficeHours, error)
		GetOfficeHoursByID(ctx context.Context, id string) (OfficeHours, error)
		UpdateOfficeHours(ctx context.Context, oh OfficeHours) (OfficeHours, error)
		DeleteOfficeHours(ctx context.Context, id string) error
	}

	// Service is the authoritative store for boards, classes, assignments
	// and office hours. Every mutation of an assignment or office-hours
	// record is pushed into the calendar core under the record's own ID,
	// then re-assigned, so the day-index follows due-date changes.
	Service struct {
		repo Repository
		cal  *calendar.Service
	}
)

func NewService(repo Repository, calSvc *calendar.Service) *Service {
	return &Service{
		repo: repo,
		cal:  calSvc,
	}
}

// Boards

func (svc *Service) CreateBoard(ctx context.Context, owner string, nb NewBoard) (Board, error) {
	now := time.Now().UTC()
	b := Board{
		ID:        uuid.New().String(),
		Owner:     owner,
		Name:      nb.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateBoard(ctx, b)
}

func (svc *Service) QueryBoards(ctx context.Context, owner string) ([]Board, error) {
	return svc.repo.QueryBoardsByOwner(ctx, owner)
}

func (svc *Service) GetBoard(ctx context.Context, owner, id string) (Board, error) {
	b, err := svc.repo.GetBoardByID(ctx, id)
	if err != nil {
		return Board{}, err
	}
	if b.Owner != owner {
		return Board{}, ErrBoardNotFound
	}
	return b, nil
}

func (svc *Service) UpdateBoard(ctx context.Context, owner, id string, ub UpdateBoard) (Board, error) {
	b, err := svc.GetBoard(ctx, owner, id)
	if err != nil {
		return Board{}, err
	}
	b.Name = ub.Name
	b.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateBoard(ctx, b)
}

// DeleteBoard deletes the board and everything under it; assignments and
// office hours go through the calendar core so the day-index is purged too.
func (svc *Service) DeleteBoard(ctx context.Context, owner, id string) error {
	b, err := svc.GetBoard(ctx, owner, id)
	if err != nil {
		return err
	}
	classes, err := svc.repo.QueryClassesByBoard(ctx, b.ID)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	for _, c := range classes {
		if err := svc.deleteClass(ctx, c.ID); err != nil {
			return err
		}
	}
	return svc.repo.DeleteBoard(ctx, b.ID)
}

// Classes

func (svc *Service) CreateClass(ctx context.Context, owner, boardID string, nc NewClass) (Class, error) {
	b, err := svc.GetBoard(ctx, owner, boardID)
	if err != nil {
		return Class{}, err
	}
	now := time.Now().UTC()
	c := Class{
		ID:        uuid.New().String(),
		BoardID:   b.ID,
		Name:      nc.Name,
		Term:      nc.Term,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateClass(ctx, c)
}

func (svc *Service) QueryClasses(ctx context.Context, owner, boardID string) ([]Class, error) {
	b, err := svc.GetBoard(ctx, owner, boardID)
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryClassesByBoard(ctx, b.ID)
}

func (svc *Service) GetClass(ctx context.Context, owner, id string) (Class, error) {
	c, err := svc.repo.GetClassByID(ctx, id)
	if err != nil {
		return Class{}, err
	}
	if _, err := svc.GetBoard(ctx, owner, c.BoardID); err != nil {
		return Class{}, ErrClassNotFound
	}
	return c, nil
}

func (svc *Service) UpdateClass(ctx context.Context, owner, id string, uc UpdateClass) (Class, error) {
	c, err := svc.GetClass(ctx, owner, id)
	if err != nil {
		return Class{}, err
	}
	c.Name = uc.Name
	c.Term = uc.Term
	c.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClass(ctx, c)
}

func (svc *Service) DeleteClass(ctx context.Context, owner, id string) error {
	c, err := svc.GetClass(ctx, owner, id)
	if err != nil {
		return err
	}
	return svc.deleteClass(ctx, c.ID)
}

func (svc *Service) deleteClass(ctx context.Context, classID string) error {
	assignments, err := svc.repo.QueryAssignmentsByClass(ctx, classID)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	for _, a := range assignments {
		if err := svc.deleteAssignment(ctx, a.ID); err != nil {
			return err
		}
	}

	officeHours, err := svc.repo.QueryOfficeHoursByClass(ctx, classID)
	if err != nil {
		return errors.Wrap(err, "querying office hours")
	}
	for _, oh := range officeHours {
		if err := svc.deleteOfficeHours(ctx, oh.ID); err != nil {
			return err
		}
	}
	return svc.repo.DeleteClass(ctx, classID)
}

// Assignments

func (svc *Service) CreateAssignment(ctx context.Context, owner, classID string, na NewAssignment) (Assignment, error) {
	c, err := svc.GetClass(ctx, owner, classID)
	if err != nil {
		return Assignment{}, err
	}
	due, err := calendar.ParseTimestamp(na.DueDate)
	if err != nil {
		return Assignment{}, err
	}
	now := time.Now().UTC()
	a := Assignment{
		ID:        uuid.New().String(),
		ClassID:   c.ID,
		Name:      na.Name,
		DueDate:   due,
		CreatedAt: now,
		UpdatedAt: now,
	}
	a, err = svc.repo.CreateAssignment(ctx, a)
	if err != nil {
		return Assignment{}, err
	}
	if err := svc.pushAssignmentMirror(ctx, owner, a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

func (svc *Service) QueryAssignments(ctx context.Context, owner, classID string) ([]Assignment, error) {
	c, err := svc.GetClass(ctx, owner, classID)
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryAssignmentsByClass(ctx, c.ID)
}

func (svc *Service) GetAssignment(ctx context.Context, owner, id string) (Assignment, error) {
	a, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	if _, err := svc.GetClass(ctx, owner, a.ClassID); err != nil {
		return Assignment{}, ErrAssignmentNotFound
	}
	return a, nil
}

func (svc *Service) UpdateAssignment(ctx context.Context, owner, id string, ua UpdateAssignment) (Assignment, error) {
	a, err := svc.GetAssignment(ctx, owner, id)
	if err != nil {
		return Assignment{}, err
	}
	due, err := calendar.ParseTimestamp(ua.DueDate)
	if err != nil {
		return Assignment{}, err
	}
	a.Name = ua.Name
	a.DueDate = due
	a.UpdatedAt = time.Now().UTC()
	a, err = svc.repo.UpdateAssignment(ctx, a)
	if err != nil {
		return Assignment{}, err
	}
	// mirror follows; re-assigning moves the index reference to the new day
	if err := svc.pushAssignmentMirror(ctx, owner, a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

func (svc *Service) DeleteAssignment(ctx context.Context, owner, id string) error {
	a, err := svc.GetAssignment(ctx, owner, id)
	if err != nil {
		return err
	}
	return svc.deleteAssignment(ctx, a.ID)
}

func (svc *Service) deleteAssignment(ctx context.Context, id string) error {
	if err := svc.repo.DeleteAssignment(ctx, id); err != nil {
		return err
	}
	if err := svc.cal.DeleteAssignment(ctx, id); err != nil && err != calendar.ErrAssignmentNotFound {
		return errors.Wrap(err, "deleting assignment mirror")
	}
	return nil
}

// pushAssignmentMirror upserts the calendar mirror under the record's own
// ID and re-assigns it. Owners without a calendar simply don't get the
// record indexed.
func (svc *Service) pushAssignmentMirror(ctx context.Context, owner string, a Assignment) error {
	_, err := svc.cal.UpdateAssignment(ctx, a.ID, calendar.UpdateAssignment{
		ClassID: a.ClassID,
		Name:    a.Name,
		DueDate: a.DueDate.Format(time.RFC3339),
	})
	if err != nil {
		return errors.Wrap(err, "upserting assignment mirror")
	}
	if _, err := svc.cal.AssignAssignment(ctx, owner, a.ID); err != nil {
		if err == calendar.ErrCalendarNotFound {
			return nil
		}
		return errors.Wrap(err, "assigning assignment")
	}
	return nil
}

// Office hours

func (svc *Service) CreateOfficeHours(ctx context.Context, owner, classID string, no NewOfficeHours) (OfficeHours, error) {
	c, err := svc.GetClass(ctx, owner, classID)
	if err != nil {
		return OfficeHours{}, err
	}
	start, err := calendar.ParseTimestamp(no.StartTime)
	if err != nil {
		return OfficeHours{}, err
	}
	now := time.Now().UTC()
	oh := OfficeHours{
		ID:        uuid.New().String(),
		ClassID:   c.ID,
		StartTime: start,
		Duration:  no.Duration,
		CreatedAt: now,
		UpdatedAt: now,
	}
	oh, err = svc.repo.CreateOfficeHours(ctx, oh)
	if err != nil {
		return OfficeHours{}, err
	}
	if err := svc.pushOfficeHoursMirror(ctx, owner, oh); err != nil {
		return OfficeHours{}, err
	}
	return oh, nil
}

func (svc *Service) QueryOfficeHours(ctx context.Context, owner, classID string) ([]OfficeHours, error) {
	c, err := svc.GetClass(ctx, owner, classID)
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryOfficeHoursByClass(ctx, c.ID)
}

func (svc *Service) GetOfficeHours(ctx context.Context, owner, id string) (OfficeHours, error) {
	oh, err := svc.repo.GetOfficeHoursByID(ctx, id)
	if err != nil {
		return OfficeHours{}, err
	}
	if _, err := svc.GetClass(ctx, owner, oh.ClassID); err != nil {
		return OfficeHours{}, ErrOfficeHoursNotFound
	}
	return oh, nil
}

func (svc *Service) UpdateOfficeHours(ctx context.Context, owner, id string, uo UpdateOfficeHours) (OfficeHours, error) {
	oh, err := svc.GetOfficeHours(ctx, owner, id)
	if err != nil {
		return OfficeHours{}, err
	}
	start, err := calendar.ParseTimestamp(uo.StartTime)
	if err != nil {
		return OfficeHours{}, err
	}
	oh.StartTime = start
	oh.Duration = uo.Duration
	oh.UpdatedAt = time.Now().UTC()
	oh, err = svc.repo.UpdateOfficeHours(ctx, oh)
	if err != nil {
		return OfficeHours{}, err
	}
	if err := svc.pushOfficeHoursMirror(ctx, owner, oh); err != nil {
		return OfficeHours{}, err
	}
	return oh, nil
}

func (svc *Service) DeleteOfficeHours(ctx context.Context, owner, id string) error {
	oh, err := svc.GetOfficeHours(ctx, owner, id)
	if err != nil {
		return err
	}
	return svc.deleteOfficeHours(ctx, oh.ID)
}

func (svc *Service) deleteOfficeHours(ctx context.Context, id string) error {
	if err := svc.repo.DeleteOfficeHours(ctx, id); err != nil {
		return err
	}
	if err := svc.cal.DeleteOfficeHours(ctx, id); err != nil && err != calendar.ErrOfficeHoursNotFound {
		return errors.Wrap(err, "deleting office hours mirror")
	}
	return nil
}

func (svc *Service) pushOfficeHoursMirror(ctx context.Context, owner string, oh OfficeHours) error {
	_, err := svc.cal.UpdateOfficeHours(ctx, oh.ID, calendar.UpdateOfficeHours{
		ClassID:   oh.ClassID,
		StartTime: oh.StartTime.Format(time.RFC3339),
		Duration:  oh.Duration,
	})
	if err != nil {
		return errors.Wrap(err, "upserting office hours mirror")
	}
	if _, err := svc.cal.AssignOfficeHours(ctx, owner, oh.ID); err != nil {
		if err == calendar.ErrCalendarNotFound {
			return nil
		}
		return errors.Wrap(err, "assigning office hours")
	}
	return nil
}
