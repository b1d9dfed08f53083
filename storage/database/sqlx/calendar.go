package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kazadi/ratiba/core/calendar"
)

type calRow struct {
	ID        string    `db:"id"`
	Owner     string    `db:"owner"`
	CreatedAt time.Time `db:"created_at"`
}

type calAssignmentRow struct {
	ID      string    `db:"id"`
	ClassID string    `db:"class_id"`
	Name    string    `db:"name"`
	DueDate time.Time `db:"due_date"`
}

type calOfficeHoursRow struct {
	ID        string    `db:"id"`
	ClassID   string    `db:"class_id"`
	StartTime time.Time `db:"start_time"`
	Duration  int       `db:"duration"`
}

type bucketRow struct {
	ID             string         `db:"id"`
	CalendarID     string         `db:"calendar_id"`
	Date           time.Time      `db:"date"`
	AssignmentRefs pq.StringArray `db:"assignment_refs"`
	OfficeHourRefs pq.StringArray `db:"office_hour_refs"`
}

func (row bucketRow) toBucket() calendar.DayBucket {
	return calendar.DayBucket{
		ID:             row.ID,
		CalendarID:     row.CalendarID,
		Date:           row.Date,
		AssignmentRefs: row.AssignmentRefs,
		OfficeHourRefs: row.OfficeHourRefs,
	}
}

const bucketColumns = `id, calendar_id, date, assignment_refs, office_hour_refs`

type calendarRepository struct {
	db *sqlx.DB
}

var _ calendar.Repository = (*calendarRepository)(nil)

func NewCalendarRepository(db *sqlx.DB) calendar.Repository {
	return &calendarRepository{db: db}
}

// Calendars

func (repo *calendarRepository) CreateCalendar(ctx context.Context, cal calendar.Calendar) (calendar.Calendar, error) {
	query := `INSERT INTO calendar (id, owner, created_at) VALUES (:id, :owner, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, calRow(cal)); err != nil {
		if isUniqueViolation(err) {
			return calendar.Calendar{}, calendar.ErrCalendarExists
		}
		return calendar.Calendar{}, err
	}
	return cal, nil
}

func (repo *calendarRepository) GetCalendarByOwner(ctx context.Context, owner string) (calendar.Calendar, error) {
	var row calRow
	query := `SELECT id, owner, created_at FROM calendar WHERE owner = $1`
	if err := repo.db.GetContext(ctx, &row, query, owner); err != nil {
		return calendar.Calendar{}, trapNoRowsErr(err, calendar.ErrCalendarNotFound)
	}
	return calendar.Calendar(row), nil
}

// Mirror records

func (repo *calendarRepository) UpdateOrCreateAssignment(ctx context.Context, a calendar.Assignment) (calendar.Assignment, error) {
	query := `INSERT INTO calendar_assignment (id, class_id, name, due_date)
		VALUES (:id, :class_id, :name, :due_date)
		ON CONFLICT (id) DO UPDATE
		SET class_id = EXCLUDED.class_id, name = EXCLUDED.name, due_date = EXCLUDED.due_date`
	if _, err := repo.db.NamedExecContext(ctx, query, calAssignmentRow(a)); err != nil {
		return calendar.Assignment{}, err
	}
	return a, nil
}

func (repo *calendarRepository) GetAssignment(ctx context.Context, id string) (calendar.Assignment, error) {
	var row calAssignmentRow
	query := `SELECT id, class_id, name, due_date FROM calendar_assignment WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return calendar.Assignment{}, trapNoRowsErr(err, calendar.ErrAssignmentNotFound)
	}
	return calendar.Assignment(row), nil
}

func (repo *calendarRepository) DeleteAssignment(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM calendar_assignment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return calendar.ErrAssignmentNotFound
	}
	return nil
}

func (repo *calendarRepository) UpdateOrCreateOfficeHours(ctx context.Context, oh calendar.OfficeHours) (calendar.OfficeHours, error) {
	query := `INSERT INTO calendar_office_hours (id, class_id, start_time, duration)
		VALUES (:id, :class_id, :start_time, :duration)
		ON CONFLICT (id) DO UPDATE
		SET class_id = EXCLUDED.class_id, start_time = EXCLUDED.start_time, duration = EXCLUDED.duration`
	if _, err := repo.db.NamedExecContext(ctx, query, calOfficeHoursRow(oh)); err != nil {
		return calendar.OfficeHours{}, err
	}
	return oh, nil
}

func (repo *calendarRepository) GetOfficeHours(ctx context.Context, id string) (calendar.OfficeHours, error) {
	var row calOfficeHoursRow
	query := `SELECT id, class_id, start_time, duration FROM calendar_office_hours WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return calendar.OfficeHours{}, trapNoRowsErr(err, calendar.ErrOfficeHoursNotFound)
	}
	return calendar.OfficeHours(row), nil
}

func (repo *calendarRepository) DeleteOfficeHours(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM calendar_office_hours WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return calendar.ErrOfficeHoursNotFound
	}
	return nil
}

// Day buckets

func (repo *calendarRepository) GetBucket(ctx context.Context, calendarID, dayKey string) (calendar.DayBucket, error) {
	var row bucketRow
	query := `SELECT ` + bucketColumns + ` FROM day_bucket WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, calendar.BucketID(calendarID, dayKey)); err != nil {
		return calendar.DayBucket{}, trapNoRowsErr(err, calendar.ErrBucketNotFound)
	}
	return row.toBucket(), nil
}

// addRef upserts the bucket row and appends ref to the given array column,
// skipping the append when the ref is already present.
func (repo *calendarRepository) addRef(ctx context.Context, column, calendarID, dayKey, ref string) (calendar.DayBucket, error) {
	date, err := calendar.ParseDayKey(dayKey)
	if err != nil {
		return calendar.DayBucket{}, err
	}

	query := `INSERT INTO day_bucket (id, calendar_id, date, ` + column + `)
		VALUES ($1, $2, $3, ARRAY[$4])
		ON CONFLICT (id) DO UPDATE
		SET ` + column + ` = (
			CASE WHEN $4 = ANY (day_bucket.` + column + `) THEN day_bucket.` + column + `
				ELSE array_append(day_bucket.` + column + `, $4) END
		)
		RETURNING ` + bucketColumns

	var row bucketRow
	if err = repo.db.GetContext(ctx, &row, query, calendar.BucketID(calendarID, dayKey), calendarID, date, ref); err != nil {
		return calendar.DayBucket{}, err
	}
	return row.toBucket(), nil
}

func (repo *calendarRepository) AddAssignmentRef(ctx context.Context, calendarID, dayKey, assignmentID string) (calendar.DayBucket, error) {
	return repo.addRef(ctx, "assignment_refs", calendarID, dayKey, assignmentID)
}

func (repo *calendarRepository) RemoveAssignmentRef(ctx context.Context, calendarID, assignmentID string) error {
	query := `UPDATE day_bucket SET assignment_refs = array_remove(assignment_refs, $2) WHERE calendar_id = $1`
	_, err := repo.db.ExecContext(ctx, query, calendarID, assignmentID)
	return err
}

func (repo *calendarRepository) PurgeAssignmentRef(ctx context.Context, assignmentID string) error {
	query := `UPDATE day_bucket SET assignment_refs = array_remove(assignment_refs, $1)`
	_, err := repo.db.ExecContext(ctx, query, assignmentID)
	return err
}

func (repo *calendarRepository) AddOfficeHourRef(ctx context.Context, calendarID, dayKey, officeHoursID string) (calendar.DayBucket, error) {
	return repo.addRef(ctx, "office_hour_refs", calendarID, dayKey, officeHoursID)
}

func (repo *calendarRepository) RemoveOfficeHourRef(ctx context.Context, calendarID, officeHoursID string) error {
	query := `UPDATE day_bucket SET office_hour_refs = array_remove(office_hour_refs, $2) WHERE calendar_id = $1`
	_, err := repo.db.ExecContext(ctx, query, calendarID, officeHoursID)
	return err
}

func (repo *calendarRepository) PurgeOfficeHourRef(ctx context.Context, officeHoursID string) error {
	query := `UPDATE day_bucket SET office_hour_refs = array_remove(office_hour_refs, $1)`
	_, err := repo.db.ExecContext(ctx, query, officeHoursID)
	return err
}
