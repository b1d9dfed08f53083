package calendar_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/kazadi/ratiba/core"
	"github.com/kazadi/ratiba/core/calendar"
	inmemdb "github.com/kazadi/ratiba/storage/database/inmem"
)

func newTestService(t *testing.T) *calendar.Service {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	return calendar.NewService(inmemdb.NewCalendarRepository(db))
}

func TestService_CreateCalendar(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cal, err := svc.CreateCalendar(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateCalendar() failed: %v", err)
	}
	if cal.ID == "" || cal.Owner != "u1" {
		t.Errorf("CreateCalendar() = %+v", cal)
	}

	// one calendar per owner
	if _, err = svc.CreateCalendar(ctx, "u1"); err != calendar.ErrCalendarExists {
		t.Errorf("CreateCalendar() error = %v, want ErrCalendarExists", err)
	}

	got, err := svc.GetCalendarByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("GetCalendarByOwner() failed: %v", err)
	}
	if got.ID != cal.ID {
		t.Errorf("GetCalendarByOwner() = %+v, want %+v", got, cal)
	}

	if _, err = svc.GetCalendarByOwner(ctx, "nobody"); err != calendar.ErrCalendarNotFound {
		t.Errorf("GetCalendarByOwner() error = %v, want ErrCalendarNotFound", err)
	}
}

func TestService_CreateAssignment_validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		na   calendar.NewAssignment
	}{
		{name: "missing class", na: calendar.NewAssignment{Name: "Essay", DueDate: "2025-11-12"}},
		{name: "missing name", na: calendar.NewAssignment{ClassID: "c1", DueDate: "2025-11-12"}},
		{name: "bad due date", na: calendar.NewAssignment{ClassID: "c1", Name: "Essay", DueDate: "soon"}},
		{name: "blank class", na: calendar.NewAssignment{ClassID: "   ", Name: "Essay", DueDate: "2025-11-12"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAssignment(ctx, tt.na)
			if err == nil {
				t.Fatal("CreateAssignment() expected error")
			}
			if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
				t.Errorf("CreateAssignment() error = %T, want *core.ValidationError", err)
			}
			// a failed upsert must not leave a record behind
			if tt.na.ID != "" {
				if _, err := svc.GetAssignment(ctx, tt.na.ID); err != calendar.ErrAssignmentNotFound {
					t.Errorf("GetAssignment() after failed create = %v", err)
				}
			}
		})
	}
}

func TestService_CreateAssignment_keepsSharedID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateAssignment(ctx, calendar.NewAssignment{ID: "a1", ClassID: "c1", Name: "Essay", DueDate: "2025-11-12"})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	if a.ID != "a1" {
		t.Errorf("CreateAssignment() ID = %v, want a1", a.ID)
	}

	// no ID: one is generated
	b, err := svc.CreateAssignment(ctx, calendar.NewAssignment{ClassID: "c1", Name: "Quiz", DueDate: "2025-11-13"})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	if b.ID == "" {
		t.Error("CreateAssignment() did not generate an ID")
	}
}

func TestService_AssignAssignment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cal, err := svc.CreateCalendar(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateCalendar() failed: %v", err)
	}

	// assigning an unknown entity fails
	if _, err = svc.AssignAssignment(ctx, "u1", "ghost"); err != calendar.ErrAssignmentNotFound {
		t.Errorf("AssignAssignment() error = %v, want ErrAssignmentNotFound", err)
	}

	if _, err = svc.CreateAssignment(ctx, calendar.NewAssignment{ID: "a1", ClassID: "c1", Name: "Essay", DueDate: "2025-11-12"}); err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}

	// assigning without a calendar fails
	if _, err = svc.AssignAssignment(ctx, "nobody", "a1"); err != calendar.ErrCalendarNotFound {
		t.Errorf("AssignAssignment() error = %v, want ErrCalendarNotFound", err)
	}

	bkt, err := svc.AssignAssignment(ctx, "u1", "a1")
	if err != nil {
		t.Fatalf("AssignAssignment() failed: %v", err)
	}
	if want := calendar.BucketID(cal.ID, "2025-11-12"); bkt.ID != want {
		t.Errorf("bucket ID = %v, want %v", bkt.ID, want)
	}
	if !calendar.HasRef(bkt.AssignmentRefs, "a1") {
		t.Errorf("bucket refs = %v, want a1", bkt.AssignmentRefs)
	}

	// re-assigning with an unchanged date is a no-op (set semantics)
	bkt, err = svc.AssignAssignment(ctx, "u1", "a1")
	if err != nil {
		t.Fatalf("AssignAssignment() failed: %v", err)
	}
	if len(bkt.AssignmentRefs) != 1 {
		t.Errorf("bucket refs = %v, want exactly one", bkt.AssignmentRefs)
	}
}

func TestService_AssignAssignment_move(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cal, err := svc.CreateCalendar(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateCalendar() failed: %v", err)
	}
	if _, err = svc.CreateAssignment(ctx, calendar.NewAssignment{ID: "a1", ClassID: "c1", Name: "Essay", DueDate: "2025-11-12"}); err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	if _, err = svc.AssignAssignment(ctx, "u1", "a1"); err != nil {
		t.Fatalf("AssignAssignment() failed: %v", err)
	}

	// due date changes, then re-assigning moves the reference
	if _, err = svc.UpdateAssignment(ctx, "a1", calendar.UpdateAssignment{ClassID: "c1", Name: "Essay", DueDate: "2025-11-19"}); err != nil {
		t.Fatalf("UpdateAssignment() failed: %v", err)
	}
	bkt, err := svc.AssignAssignment(ctx, "u1", "a1")
	if err != nil {
		t.Fatalf("AssignAssignment() failed: %v", err)
	}
	if want := calendar.BucketID(cal.ID, "2025-11-19"); bkt.ID != want {
		t.Errorf("bucket ID = %v, want %v", bkt.ID, want)
	}

	oldRefs, err := svc.ReferencesOnDay(ctx, cal.ID, "2025-11-12")
	if err != nil {
		t.Fatalf("ReferencesOnDay() failed: %v", err)
	}
	if len(oldRefs.Assignments) != 0 {
		t.Errorf("old day still references %v", oldRefs.Assignments)
	}
	newRefs, err := svc.ReferencesOnDay(ctx, cal.ID, "2025-11-19")
	if err != nil {
		t.Fatalf("ReferencesOnDay() failed: %v", err)
	}
	if len(newRefs.Assignments) != 1 || newRefs.Assignments[0] != "a1" {
		t.Errorf("new day references = %v, want [a1]", newRefs.Assignments)
	}
}

func TestService_UnassignAssignment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cal, err := svc.CreateCalendar(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateCalendar() failed: %v", err)
	}
	if _, err = svc.CreateAssignment(ctx, calendar.NewAssignment{ID: "a1", ClassID: "c1", Name: "Essay", DueDate: "2025-11-12"}); err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	if _, err = svc.AssignAssignment(ctx, "u1", "a1"); err != nil {
		t.Fatalf("AssignAssignment() failed: %v", err)
	}

	if err = svc.UnassignAssignment(ctx, "u1", "a1"); err != nil {
		t.Fatalf("UnassignAssignment() failed: %v", err)
	}
	refs, err := svc.ReferencesOnDay(ctx, cal.ID, "2025-11-12")
	if err != nil {
		t.Fatalf("ReferencesOnDay() failed: %v", err)
	}
	if len(refs.Assignments) != 0 {
		t.Errorf("day still references %v", refs.Assignments)
	}

	// repeating is a success no-op
	if err = svc.UnassignAssignment(ctx, "u1", "a1"); err != nil {
		t.Errorf("UnassignAssignment() repeat failed: %v", err)
	}
	// so is unassigning when the owner has no calendar
	if err = svc.UnassignAssignment(ctx, "nobody", "a1"); err != nil {
		t.Errorf("UnassignAssignment() without calendar failed: %v", err)
	}
	// and when the entity does not exist
	if err = svc.UnassignAssignment(ctx, "u1", "ghost"); err != nil {
		t.Errorf("UnassignAssignment() unknown entity failed: %v", err)
	}
}

func TestService_DeleteAssignment_purgesAllCalendars(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cal1, err := svc.CreateCalendar(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateCalendar() failed: %v", err)
	}
	cal2, err := svc.CreateCalendar(ctx, "u2")
	if err != nil {
		t.Fatalf("CreateCalendar() failed: %v", err)
	}
	if _, err = svc.CreateAssignment(ctx, calendar.NewAssignment{ID: "a1", ClassID: "c1", Name: "Essay", DueDate: "2025-11-12"}); err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	if _, err = svc.AssignAssignment(ctx, "u1", "a1"); err != nil {
		t.Fatalf("AssignAssignment() failed: %v", err)
	}
	if _, err = svc.AssignAssignment(ctx, "u2", "a1"); err != nil {
		t.Fatalf("AssignAssignment() failed: %v", err)
	}

	if err = svc.DeleteAssignment(ctx, "a1"); err != nil {
		t.Fatalf("DeleteAssignment() failed: %v", err)
	}
	if _, err = svc.GetAssignment(ctx, "a1"); err != calendar.ErrAssignmentNotFound {
		t.Errorf("GetAssignment() error = %v, want ErrAssignmentNotFound", err)
	}
	for _, calID := range []string{cal1.ID, cal2.ID} {
		refs, err := svc.ReferencesOnDay(ctx, calID, "2025-11-12")
		if err != nil {
			t.Fatalf("ReferencesOnDay() failed: %v", err)
		}
		if len(refs.Assignments) != 0 {
			t.Errorf("calendar %s still references %v", calID, refs.Assignments)
		}
	}

	// deleting again reports the missing record
	if err = svc.DeleteAssignment(ctx, "a1"); err != calendar.ErrAssignmentNotFound {
		t.Errorf("DeleteAssignment() error = %v, want ErrAssignmentNotFound", err)
	}
}

func TestService_OfficeHoursLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cal, err := svc.CreateCalendar(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateCalendar() failed: %v", err)
	}

	oh, err := svc.CreateOfficeHours(ctx, calendar.NewOfficeHours{ID: "oh1", ClassID: "c1", StartTime: "2025-11-12T15:00:00Z", Duration: 60})
	if err != nil {
		t.Fatalf("CreateOfficeHours() failed: %v", err)
	}
	if oh.Duration != 60 {
		t.Errorf("CreateOfficeHours() duration = %d", oh.Duration)
	}

	// negative duration is rejected before any mutation
	if _, err = svc.CreateOfficeHours(ctx, calendar.NewOfficeHours{ClassID: "c1", StartTime: "2025-11-12T15:00:00Z", Duration: -30}); err == nil {
		t.Error("CreateOfficeHours() expected error for negative duration")
	}

	bkt, err := svc.AssignOfficeHours(ctx, "u1", "oh1")
	if err != nil {
		t.Fatalf("AssignOfficeHours() failed: %v", err)
	}
	if want := calendar.BucketID(cal.ID, "2025-11-12"); bkt.ID != want {
		t.Errorf("bucket ID = %v, want %v", bkt.ID, want)
	}

	// office hours and assignments live in separate ref sets
	refs, err := svc.ReferencesOnDay(ctx, cal.ID, "2025-11-12")
	if err != nil {
		t.Fatalf("ReferencesOnDay() failed: %v", err)
	}
	if len(refs.OfficeHours) != 1 || refs.OfficeHours[0] != "oh1" {
		t.Errorf("office hour refs = %v, want [oh1]", refs.OfficeHours)
	}
	if len(refs.Assignments) != 0 {
		t.Errorf("assignment refs = %v, want none", refs.Assignments)
	}

	if err = svc.DeleteOfficeHours(ctx, "oh1"); err != nil {
		t.Fatalf("DeleteOfficeHours() failed: %v", err)
	}
	refs, err = svc.ReferencesOnDay(ctx, cal.ID, "2025-11-12")
	if err != nil {
		t.Fatalf("ReferencesOnDay() failed: %v", err)
	}
	if len(refs.OfficeHours) != 0 {
		t.Errorf("office hour refs = %v, want none", refs.OfficeHours)
	}
}

func TestService_ReferencesOnDay_emptyDay(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cal, err := svc.CreateCalendar(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateCalendar() failed: %v", err)
	}

	// a day with no bucket yields empty lists, not an error
	refs, err := svc.ReferencesOnDay(ctx, cal.ID, "2030-01-01")
	if err != nil {
		t.Fatalf("ReferencesOnDay() failed: %v", err)
	}
	if refs.Assignments == nil || refs.OfficeHours == nil {
		t.Errorf("ReferencesOnDay() = %+v, want non-nil empty lists", refs)
	}
	if len(refs.Assignments) != 0 || len(refs.OfficeHours) != 0 {
		t.Errorf("ReferencesOnDay() = %+v, want empty lists", refs)
	}
}

func TestService_concurrentAssigns(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cal, err := svc.CreateCalendar(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateCalendar() failed: %v", err)
	}
	if _, err = svc.CreateAssignment(ctx, calendar.NewAssignment{ID: "a1", ClassID: "c1", Name: "Essay", DueDate: "2025-11-12"}); err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}

	// concurrent assigns for the same entity must never leave it in two buckets
	days := []string{"2025-11-12", "2025-11-19"}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			due := days[i%len(days)]
			if _, err := svc.UpdateAssignment(ctx, "a1", calendar.UpdateAssignment{ClassID: "c1", Name: "Essay", DueDate: due}); err != nil {
				t.Errorf("UpdateAssignment() failed: %v", err)
				return
			}
			if _, err := svc.AssignAssignment(ctx, "u1", "a1"); err != nil {
				t.Errorf("AssignAssignment() failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	var total int
	for _, day := range days {
		refs, err := svc.ReferencesOnDay(ctx, cal.ID, day)
		if err != nil {
			t.Fatalf("ReferencesOnDay() failed: %v", err)
		}
		total += len(refs.Assignments)
	}
	if total != 1 {
		t.Errorf("a1 indexed in %d buckets, want exactly 1", total)
	}
}
