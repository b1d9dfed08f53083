package inmemdb

import (
	"context"

	"github.com/kazadi/ratiba/core/board"
)

type boardRepository struct {
	db *boardTables
}

var _ board.Repository = (*boardRepository)(nil)

func NewBoardRepository(db *DB) board.Repository {
	return &boardRepository{db: db.board}
}

// Boards

func (repo *boardRepository) CreateBoard(_ context.Context, b board.Board) (board.Board, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.boards[b.ID] = &b
	return b, nil
}

func (repo *boardRepository) QueryBoardsByOwner(_ context.Context, owner string) ([]board.Board, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	boards := make([]board.Board, 0)
	for _, b := range repo.db.boards {
		if b.Owner == owner {
			boards = append(boards, *b)
		}
	}
	return boards, nil
}

func (repo *boardRepository) GetBoardByID(_ context.Context, id string) (board.Board, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if b, ok := repo.db.boards[id]; ok {
		return *b, nil
	}
	return board.Board{}, board.ErrBoardNotFound
}

func (repo *boardRepository) UpdateBoard(_ context.Context, b board.Board) (board.Board, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.boards[b.ID]; !ok {
		return board.Board{}, board.ErrBoardNotFound
	}
	repo.db.boards[b.ID] = &b
	return b, nil
}

func (repo *boardRepository) DeleteBoard(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.boards[id]; !ok {
		return board.ErrBoardNotFound
	}
	delete(repo.db.boards, id)
	return nil
}

// Classes

func (repo *boardRepository) CreateClass(_ context.Context, c board.Class) (board.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.classes[c.ID] = &c
	return c, nil
}

func (repo *boardRepository) QueryClassesByBoard(_ context.Context, boardID string) ([]board.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]board.Class, 0)
	for _, c := range repo.db.classes {
		if c.BoardID == boardID {
			classes = append(classes, *c)
		}
	}
	return classes, nil
}

func (repo *boardRepository) GetClassByID(_ context.Context, id string) (board.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.classes[id]; ok {
		return *c, nil
	}
	return board.Class{}, board.ErrClassNotFound
}

func (repo *boardRepository) UpdateClass(_ context.Context, c board.Class) (board.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.classes[c.ID]; !ok {
		return board.Class{}, board.ErrClassNotFound
	}
	repo.db.classes[c.ID] = &c
	return c, nil
}

func (repo *boardRepository) DeleteClass(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.classes[id]; !ok {
		return board.ErrClassNotFound
	}
	delete(repo.db.classes, id)
	return nil
}

// Assignments

func (repo *boardRepository) CreateAssignment(_ context.Context, a board.Assignment) (board.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.assignments[a.ID] = &a
	return a, nil
}

func (repo *boardRepository) QueryAssignmentsByClass(_ context.Context, classID string) ([]board.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	assignments := make([]board.Assignment, 0)
	for _, a := range repo.db.assignments {
		if a.ClassID == classID {
			assignments = append(assignments, *a)
		}
	}
	return assignments, nil
}

func (repo *boardRepository) GetAssignmentByID(_ context.Context, id string) (board.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return board.Assignment{}, board.ErrAssignmentNotFound
}

func (repo *boardRepository) UpdateAssignment(_ context.Context, a board.Assignment) (board.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assignments[a.ID]; !ok {
		return board.Assignment{}, board.ErrAssignmentNotFound
	}
	repo.db.assignments[a.ID] = &a
	return a, nil
}

func (repo *boardRepository) DeleteAssignment(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assignments[id]; !ok {
		return board.ErrAssignmentNotFound
	}
	delete(repo.db.assignments, id)
	return nil
}

// Office hours

func (repo *boardRepository) CreateOfficeHours(_ context.Context, oh board.OfficeHours) (board.OfficeHours, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.officeHours[oh.ID] = &oh
	return oh, nil
}

func (repo *boardRepository) QueryOfficeHoursByClass(_ context.Context, classID string) ([]board.OfficeHours, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	officeHours := make([]board.OfficeHours, 0)
	for _, oh := range repo.db.officeHours {
		if oh.ClassID == classID {
			officeHours = append(officeHours, *oh)
		}
	}
	return officeHours, nil
}

func (repo *boardRepository) GetOfficeHoursByID(_ context.Context, id string) (board.OfficeHours, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if oh, ok := repo.db.officeHours[id]; ok {
		return *oh, nil
	}
	return board.OfficeHours{}, board.ErrOfficeHoursNotFound
}

func (repo *boardRepository) UpdateOfficeHours(_ context.Context, oh board.OfficeHours) (board.OfficeHours, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.officeHours[oh.ID]; !ok {
		return board.OfficeHours{}, board.ErrOfficeHoursNotFound
	}
	repo.db.officeHours[oh.ID] = &oh
	return oh, nil
}

func (repo *boardRepository) DeleteOfficeHours(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.officeHours[id]; !ok {
		return board.ErrOfficeHoursNotFound
	}
	delete(repo.db.officeHours, id)
	return nil
}
