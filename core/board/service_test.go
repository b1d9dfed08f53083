package board_test

import (
	"context"
	"testing"

	"github.com/kazadi/ratiba/core/board"
	"github.com/kazadi/ratiba/core/calendar"
	inmemdb "github.com/kazadi/ratiba/storage/database/inmem"
)

type boardFixture struct {
	svc    *board.Service
	calSvc *calendar.Service
}

func newBoardFixture(t *testing.T) *boardFixture {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	calSvc := calendar.NewService(inmemdb.NewCalendarRepository(db))
	return &boardFixture{
		svc:    board.NewService(inmemdb.NewBoardRepository(db), calSvc),
		calSvc: calSvc,
	}
}

// newClass sets up a calendar, board and class for owner and returns the class.
func (f *boardFixture) newClass(t *testing.T, ctx context.Context, owner string) board.Class {
	if _, err := f.calSvc.CreateCalendar(ctx, owner); err != nil {
		t.Fatalf("CreateCalendar() failed: %v", err)
	}
	b, err := f.svc.CreateBoard(ctx, owner, board.NewBoard{Name: "Fall 2025"})
	if err != nil {
		t.Fatalf("CreateBoard() failed: %v", err)
	}
	c, err := f.svc.CreateClass(ctx, owner, b.ID, board.NewClass{Name: "Algorithms", Term: "Fall"})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return c
}

func (f *boardFixture) dayRefs(t *testing.T, ctx context.Context, owner, day string) calendar.DayRefs {
	cal, err := f.calSvc.GetCalendarByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("GetCalendarByOwner() failed: %v", err)
	}
	refs, err := f.calSvc.ReferencesOnDay(ctx, cal.ID, day)
	if err != nil {
		t.Fatalf("ReferencesOnDay() failed: %v", err)
	}
	return refs
}

func TestService_BoardOwnership(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateBoard(ctx, "u1", board.NewBoard{Name: "Fall 2025"})
	if err != nil {
		t.Fatalf("CreateBoard() failed: %v", err)
	}

	// another owner sees not-found, not forbidden
	if _, err = f.svc.GetBoard(ctx, "u2", b.ID); err != board.ErrBoardNotFound {
		t.Errorf("GetBoard() error = %v, want ErrBoardNotFound", err)
	}

	boards, err := f.svc.QueryBoards(ctx, "u1")
	if err != nil {
		t.Fatalf("QueryBoards() failed: %v", err)
	}
	if len(boards) != 1 || boards[0].ID != b.ID {
		t.Errorf("QueryBoards() = %+v", boards)
	}

	upd, err := f.svc.UpdateBoard(ctx, "u1", b.ID, board.UpdateBoard{Name: "Spring 2026"})
	if err != nil {
		t.Fatalf("UpdateBoard() failed: %v", err)
	}
	if upd.Name != "Spring 2026" {
		t.Errorf("UpdateBoard() name = %v", upd.Name)
	}
}

func TestService_CreateAssignment_indexesDueDay(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()
	c := f.newClass(t, ctx, "u1")

	a, err := f.svc.CreateAssignment(ctx, "u1", c.ID, board.NewAssignment{Name: "Essay", DueDate: "2025-11-12T15:00:00Z"})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}

	// the mirror lives under the same ID
	mirror, err := f.calSvc.GetAssignment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAssignment() mirror failed: %v", err)
	}
	if mirror.ClassID != c.ID || mirror.Name != "Essay" {
		t.Errorf("mirror = %+v", mirror)
	}

	refs := f.dayRefs(t, ctx, "u1", "2025-11-12")
	if len(refs.Assignments) != 1 || refs.Assignments[0] != a.ID {
		t.Errorf("day refs = %v, want [%v]", refs.Assignments, a.ID)
	}
}

func TestService_UpdateAssignment_movesIndexRef(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()
	c := f.newClass(t, ctx, "u1")

	a, err := f.svc.CreateAssignment(ctx, "u1", c.ID, board.NewAssignment{Name: "Essay", DueDate: "2025-11-12T15:00:00Z"})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}

	if _, err = f.svc.UpdateAssignment(ctx, "u1", a.ID, board.UpdateAssignment{Name: "Essay", DueDate: "2025-11-19T15:00:00Z"}); err != nil {
		t.Fatalf("UpdateAssignment() failed: %v", err)
	}

	if refs := f.dayRefs(t, ctx, "u1", "2025-11-12"); len(refs.Assignments) != 0 {
		t.Errorf("old day still references %v", refs.Assignments)
	}
	refs := f.dayRefs(t, ctx, "u1", "2025-11-19")
	if len(refs.Assignments) != 1 || refs.Assignments[0] != a.ID {
		t.Errorf("new day refs = %v, want [%v]", refs.Assignments, a.ID)
	}
}

func TestService_CreateAssignment_withoutCalendar(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()

	// no calendar for this owner; creation still succeeds, just unindexed
	b, err := f.svc.CreateBoard(ctx, "u1", board.NewBoard{Name: "Fall 2025"})
	if err != nil {
		t.Fatalf("CreateBoard() failed: %v", err)
	}
	c, err := f.svc.CreateClass(ctx, "u1", b.ID, board.NewClass{Name: "Algorithms"})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	a, err := f.svc.CreateAssignment(ctx, "u1", c.ID, board.NewAssignment{Name: "Essay", DueDate: "2025-11-12T15:00:00Z"})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	if _, err = f.calSvc.GetAssignment(ctx, a.ID); err != nil {
		t.Errorf("GetAssignment() mirror failed: %v", err)
	}
}

func TestService_DeleteClass_cascades(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()
	c := f.newClass(t, ctx, "u1")

	a, err := f.svc.CreateAssignment(ctx, "u1", c.ID, board.NewAssignment{Name: "Essay", DueDate: "2025-11-12T15:00:00Z"})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	oh, err := f.svc.CreateOfficeHours(ctx, "u1", c.ID, board.NewOfficeHours{StartTime: "2025-11-12T16:00:00Z", Duration: 60})
	if err != nil {
		t.Fatalf("CreateOfficeHours() failed: %v", err)
	}

	if err = f.svc.DeleteClass(ctx, "u1", c.ID); err != nil {
		t.Fatalf("DeleteClass() failed: %v", err)
	}

	if _, err = f.svc.GetAssignment(ctx, "u1", a.ID); err != board.ErrAssignmentNotFound {
		t.Errorf("GetAssignment() error = %v, want ErrAssignmentNotFound", err)
	}
	if _, err = f.calSvc.GetAssignment(ctx, a.ID); err != calendar.ErrAssignmentNotFound {
		t.Errorf("mirror GetAssignment() error = %v, want ErrAssignmentNotFound", err)
	}
	if _, err = f.calSvc.GetOfficeHours(ctx, oh.ID); err != calendar.ErrOfficeHoursNotFound {
		t.Errorf("mirror GetOfficeHours() error = %v, want ErrOfficeHoursNotFound", err)
	}

	refs := f.dayRefs(t, ctx, "u1", "2025-11-12")
	if len(refs.Assignments) != 0 || len(refs.OfficeHours) != 0 {
		t.Errorf("day still references %+v", refs)
	}
}

func TestService_DeleteBoard_cascades(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()
	c := f.newClass(t, ctx, "u1")

	a, err := f.svc.CreateAssignment(ctx, "u1", c.ID, board.NewAssignment{Name: "Essay", DueDate: "2025-11-12T15:00:00Z"})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}

	if err = f.svc.DeleteBoard(ctx, "u1", c.BoardID); err != nil {
		t.Fatalf("DeleteBoard() failed: %v", err)
	}

	if _, err = f.svc.GetBoard(ctx, "u1", c.BoardID); err != board.ErrBoardNotFound {
		t.Errorf("GetBoard() error = %v, want ErrBoardNotFound", err)
	}
	if _, err = f.svc.GetClass(ctx, "u1", c.ID); err != board.ErrClassNotFound {
		t.Errorf("GetClass() error = %v, want ErrClassNotFound", err)
	}
	if _, err = f.calSvc.GetAssignment(ctx, a.ID); err != calendar.ErrAssignmentNotFound {
		t.Errorf("mirror GetAssignment() error = %v, want ErrAssignmentNotFound", err)
	}
	if refs := f.dayRefs(t, ctx, "u1", "2025-11-12"); len(refs.Assignments) != 0 {
		t.Errorf("day still references %v", refs.Assignments)
	}
}

func TestService_OfficeHours_indexesStartDay(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()
	c := f.newClass(t, ctx, "u1")

	oh, err := f.svc.CreateOfficeHours(ctx, "u1", c.ID, board.NewOfficeHours{StartTime: "2025-11-12T16:00:00Z", Duration: 45})
	if err != nil {
		t.Fatalf("CreateOfficeHours() failed: %v", err)
	}
	refs := f.dayRefs(t, ctx, "u1", "2025-11-12")
	if len(refs.OfficeHours) != 1 || refs.OfficeHours[0] != oh.ID {
		t.Errorf("day refs = %v, want [%v]", refs.OfficeHours, oh.ID)
	}

	// moving the slot follows the new start day
	if _, err = f.svc.UpdateOfficeHours(ctx, "u1", oh.ID, board.UpdateOfficeHours{StartTime: "2025-11-13T16:00:00Z", Duration: 45}); err != nil {
		t.Fatalf("UpdateOfficeHours() failed: %v", err)
	}
	if refs := f.dayRefs(t, ctx, "u1", "2025-11-12"); len(refs.OfficeHours) != 0 {
		t.Errorf("old day still references %v", refs.OfficeHours)
	}
	if refs := f.dayRefs(t, ctx, "u1", "2025-11-13"); len(refs.OfficeHours) != 1 {
		t.Errorf("new day refs = %v, want one", refs.OfficeHours)
	}
}
