package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kazadi/ratiba/core/board"
)

type boardRow struct {
	ID        string    `db:"id"`
	Owner     string    `db:"owner"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row boardRow) toBoard() board.Board {
	return board.Board(row)
}

type classRow struct {
	ID        string    `db:"id"`
	BoardID   string    `db:"board_id"`
	Name      string    `db:"name"`
	Term      string    `db:"term"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row classRow) toClass() board.Class {
	return board.Class(row)
}

type assignmentRow struct {
	ID        string    `db:"id"`
	ClassID   string    `db:"class_id"`
	Name      string    `db:"name"`
	DueDate   time.Time `db:"due_date"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row assignmentRow) toAssignment() board.Assignment {
	return board.Assignment(row)
}

type officeHoursRow struct {
	ID        string    `db:"id"`
	ClassID   string    `db:"class_id"`
	StartTime time.Time `db:"start_time"`
	Duration  int       `db:"duration"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row officeHoursRow) toOfficeHours() board.OfficeHours {
	return board.OfficeHours(row)
}

type boardRepository struct {
	db *sqlx.DB
}

var _ board.Repository = (*boardRepository)(nil)

func NewBoardRepository(db *sqlx.DB) board.Repository {
	return &boardRepository{db: db}
}

// Boards

func (repo *boardRepository) CreateBoard(ctx context.Context, b board.Board) (board.Board, error) {
	query := `INSERT INTO board (id, owner, name, created_at, updated_at)
		VALUES (:id, :owner, :name, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, boardRow(b)); err != nil {
		return board.Board{}, err
	}
	return b, nil
}

func (repo *boardRepository) QueryBoardsByOwner(ctx context.Context, owner string) ([]board.Board, error) {
	var rows []boardRow
	query := `SELECT id, owner, name, created_at, updated_at FROM board WHERE owner = $1`
	if err := repo.db.SelectContext(ctx, &rows, query, owner); err != nil {
		return nil, err
	}
	boards := make([]board.Board, 0, len(rows))
	for _, row := range rows {
		boards = append(boards, row.toBoard())
	}
	return boards, nil
}

func (repo *boardRepository) GetBoardByID(ctx context.Context, id string) (board.Board, error) {
	var row boardRow
	query := `SELECT id, owner, name, created_at, updated_at FROM board WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return board.Board{}, trapNoRowsErr(err, board.ErrBoardNotFound)
	}
	return row.toBoard(), nil
}

func (repo *boardRepository) UpdateBoard(ctx context.Context, b board.Board) (board.Board, error) {
	query := `UPDATE board SET name = :name, updated_at = :updated_at WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, boardRow(b))
	if err != nil {
		return board.Board{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return board.Board{}, board.ErrBoardNotFound
	}
	return b, nil
}

func (repo *boardRepository) DeleteBoard(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM board WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return board.ErrBoardNotFound
	}
	return nil
}

// Classes

func (repo *boardRepository) CreateClass(ctx context.Context, c board.Class) (board.Class, error) {
	query := `INSERT INTO class (id, board_id, name, term, created_at, updated_at)
		VALUES (:id, :board_id, :name, :term, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, classRow(c)); err != nil {
		return board.Class{}, err
	}
	return c, nil
}

func (repo *boardRepository) QueryClassesByBoard(ctx context.Context, boardID string) ([]board.Class, error) {
	var rows []classRow
	query := `SELECT id, board_id, name, term, created_at, updated_at FROM class WHERE board_id = $1`
	if err := repo.db.SelectContext(ctx, &rows, query, boardID); err != nil {
		return nil, err
	}
	classes := make([]board.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, row.toClass())
	}
	return classes, nil
}

func (repo *boardRepository) GetClassByID(ctx context.Context, id string) (board.Class, error) {
	var row classRow
	query := `SELECT id, board_id, name, term, created_at, updated_at FROM class WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return board.Class{}, trapNoRowsErr(err, board.ErrClassNotFound)
	}
	return row.toClass(), nil
}

func (repo *boardRepository) UpdateClass(ctx context.Context, c board.Class) (board.Class, error) {
	query := `UPDATE class SET name = :name, term = :term, updated_at = :updated_at WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, classRow(c))
	if err != nil {
		return board.Class{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return board.Class{}, board.ErrClassNotFound
	}
	return c, nil
}

func (repo *boardRepository) DeleteClass(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM class WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return board.ErrClassNotFound
	}
	return nil
}

// Assignments

func (repo *boardRepository) CreateAssignment(ctx context.Context, a board.Assignment) (board.Assignment, error) {
	query := `INSERT INTO assignment (id, class_id, name, due_date, created_at, updated_at)
		VALUES (:id, :class_id, :name, :due_date, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, assignmentRow(a)); err != nil {
		return board.Assignment{}, err
	}
	return a, nil
}

func (repo *boardRepository) QueryAssignmentsByClass(ctx context.Context, classID string) ([]board.Assignment, error) {
	var rows []assignmentRow
	query := `SELECT id, class_id, name, due_date, created_at, updated_at FROM assignment WHERE class_id = $1`
	if err := repo.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, err
	}
	assignments := make([]board.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toAssignment())
	}
	return assignments, nil
}

func (repo *boardRepository) GetAssignmentByID(ctx context.Context, id string) (board.Assignment, error) {
	var row assignmentRow
	query := `SELECT id, class_id, name, due_date, created_at, updated_at FROM assignment WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return board.Assignment{}, trapNoRowsErr(err, board.ErrAssignmentNotFound)
	}
	return row.toAssignment(), nil
}

func (repo *boardRepository) UpdateAssignment(ctx context.Context, a board.Assignment) (board.Assignment, error) {
	query := `UPDATE assignment SET name = :name, due_date = :due_date, updated_at = :updated_at WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, assignmentRow(a))
	if err != nil {
		return board.Assignment{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return board.Assignment{}, board.ErrAssignmentNotFound
	}
	return a, nil
}

func (repo *boardRepository) DeleteAssignment(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM assignment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return board.ErrAssignmentNotFound
	}
	return nil
}

// Office hours

func (repo *boardRepository) CreateOfficeHours(ctx context.Context, oh board.OfficeHours) (board.OfficeHours, error) {
	query := `INSERT INTO office_hours (id, class_id, start_time, duration, created_at, updated_at)
		VALUES (:id, :class_id, :start_time, :duration, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, officeHoursRow(oh)); err != nil {
		return board.OfficeHours{}, err
	}
	return oh, nil
}

func (repo *boardRepository) QueryOfficeHoursByClass(ctx context.Context, classID string) ([]board.OfficeHours, error) {
	var rows []officeHoursRow
	query := `SELECT id, class_id, start_time, duration, created_at, updated_at FROM office_hours WHERE class_id = $1`
	if err := repo.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, err
	}
	officeHours := make([]board.OfficeHours, 0, len(rows))
	for _, row := range rows {
		officeHours = append(officeHours, row.toOfficeHours())
	}
	return officeHours, nil
}

func (repo *boardRepository) GetOfficeHoursByID(ctx context.Context, id string) (board.OfficeHours, error) {
	var row officeHoursRow
	query := `SELECT id, class_id, start_time, duration, created_at, updated_at FROM office_hours WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return board.OfficeHours{}, trapNoRowsErr(err, board.ErrOfficeHoursNotFound)
	}
	return row.toOfficeHours(), nil
}

func (repo *boardRepository) UpdateOfficeHours(ctx context.Context, oh board.OfficeHours) (board.OfficeHours, error) {
	query := `UPDATE office_hours SET start_time = :start_time, duration = :duration, updated_at = :updated_at WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, officeHoursRow(oh))
	if err != nil {
		return board.OfficeHours{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return board.OfficeHours{}, board.ErrOfficeHoursNotFound
	}
	return oh, nil
}

func (repo *boardRepository) DeleteOfficeHours(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM office_hours WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return board.ErrOfficeHoursNotFound
	}
	return nil
}
