package inmemdb

import (
	"context"

	"github.com/kazadi/ratiba/core/calendar"
)

type calendarRepository struct {
	db *calendarTables
}

var _ calendar.Repository = (*calendarRepository)(nil)

func NewCalendarRepository(db *DB) calendar.Repository {
	return &calendarRepository{db: db.calendar}
}

// Calendars

func (repo *calendarRepository) CreateCalendar(_ context.Context, cal calendar.Calendar) (calendar.Calendar, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, c := range repo.db.calendars {
		if c.Owner == cal.Owner {
			return calendar.Calendar{}, calendar.ErrCalendarExists
		}
	}
	repo.db.calendars[cal.ID] = &cal
	return cal, nil
}

func (repo *calendarRepository) GetCalendarByOwner(_ context.Context, owner string) (calendar.Calendar, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, c := range repo.db.calendars {
		if c.Owner == owner {
			return *c, nil
		}
	}
	return calendar.Calendar{}, calendar.ErrCalendarNotFound
}

// Mirror records

func (repo *calendarRepository) UpdateOrCreateAssignment(_ context.Context, a calendar.Assignment) (calendar.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// full replacement, never a merge
	repo.db.assignments[a.ID] = &a
	return a, nil
}

func (repo *calendarRepository) GetAssignment(_ context.Context, id string) (calendar.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return calendar.Assignment{}, calendar.ErrAssignmentNotFound
}

func (repo *calendarRepository) DeleteAssignment(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assignments[id]; !ok {
		return calendar.ErrAssignmentNotFound
	}
	delete(repo.db.assignments, id)
	return nil
}

func (repo *calendarRepository) UpdateOrCreateOfficeHours(_ context.Context, oh calendar.OfficeHours) (calendar.OfficeHours, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.officeHours[oh.ID] = &oh
	return oh, nil
}

func (repo *calendarRepository) GetOfficeHours(_ context.Context, id string) (calendar.OfficeHours, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if oh, ok := repo.db.officeHours[id]; ok {
		return *oh, nil
	}
	return calendar.OfficeHours{}, calendar.ErrOfficeHoursNotFound
}

func (repo *calendarRepository) DeleteOfficeHours(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.officeHours[id]; !ok {
		return calendar.ErrOfficeHoursNotFound
	}
	delete(repo.db.officeHours, id)
	return nil
}

// Day buckets

func (repo *calendarRepository) GetBucket(_ context.Context, calendarID, dayKey string) (calendar.DayBucket, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if bkt, ok := repo.db.buckets[calendar.BucketID(calendarID, dayKey)]; ok {
		return *bkt, nil
	}
	return calendar.DayBucket{}, calendar.ErrBucketNotFound
}

func (repo *calendarRepository) AddAssignmentRef(_ context.Context, calendarID, dayKey, assignmentID string) (calendar.DayBucket, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	bkt, err := repo.getOrCreateBucket(calendarID, dayKey)
	if err != nil {
		return calendar.DayBucket{}, err
	}
	bkt.AssignmentRefs = calendar.AddRef(bkt.AssignmentRefs, assignmentID)
	return *bkt, nil
}

func (repo *calendarRepository) RemoveAssignmentRef(_ context.Context, calendarID, assignmentID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, bkt := range repo.db.buckets {
		if bkt.CalendarID == calendarID {
			bkt.AssignmentRefs = calendar.RemoveRef(bkt.AssignmentRefs, assignmentID)
		}
	}
	return nil
}

func (repo *calendarRepository) PurgeAssignmentRef(_ context.Context, assignmentID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, bkt := range repo.db.buckets {
		bkt.AssignmentRefs = calendar.RemoveRef(bkt.AssignmentRefs, assignmentID)
	}
	return nil
}

func (repo *calendarRepository) AddOfficeHourRef(_ context.Context, calendarID, dayKey, officeHoursID string) (calendar.DayBucket, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	bkt, err := repo.getOrCreateBucket(calendarID, dayKey)
	if err != nil {
		return calendar.DayBucket{}, err
	}
	bkt.OfficeHourRefs = calendar.AddRef(bkt.OfficeHourRefs, officeHoursID)
	return *bkt, nil
}

func (repo *calendarRepository) RemoveOfficeHourRef(_ context.Context, calendarID, officeHoursID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, bkt := range repo.db.buckets {
		if bkt.CalendarID == calendarID {
			bkt.OfficeHourRefs = calendar.RemoveRef(bkt.OfficeHourRefs, officeHoursID)
		}
	}
	return nil
}

func (repo *calendarRepository) PurgeOfficeHourRef(_ context.Context, officeHoursID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, bkt := range repo.db.buckets {
		bkt.OfficeHourRefs = calendar.RemoveRef(bkt.OfficeHourRefs, officeHoursID)
	}
	return nil
}

// getOrCreateBucket must be called with the write lock held.
func (repo *calendarRepository) getOrCreateBucket(calendarID, dayKey string) (*calendar.DayBucket, error) {
	id := calendar.BucketID(calendarID, dayKey)
	if bkt, ok := repo.db.buckets[id]; ok {
		return bkt, nil
	}
	date, err := calendar.ParseDayKey(dayKey)
	if err != nil {
		return nil, err
	}
	bkt := &calendar.DayBucket{
		ID:             id,
		CalendarID:     calendarID,
		Date:           date,
		AssignmentRefs: []string{},
		OfficeHourRefs: []string{},
	}
	repo.db.buckets[id] = bkt
	return bkt, nil
}
