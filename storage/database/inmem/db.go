package inmemdb

import (
	"sync"

	"github.com/kazadi/ratiba/core/board"
	"github.com/kazadi/ratiba/core/calendar"
	"github.com/kazadi/ratiba/core/user"
)

type (
	DB struct {
		user     *userTable
		board    *boardTables
		calendar *calendarTables
	}

	userTable struct {
		table map[string]*user.User
		mutex sync.RWMutex
	}

	boardTables struct {
		boards      map[string]*board.Board
		classes     map[string]*board.Class
		assignments map[string]*board.Assignment
		officeHours map[string]*board.OfficeHours
		mutex       sync.RWMutex
	}

	calendarTables struct {
		calendars   map[string]*calendar.Calendar // keyed by ID
		assignments map[string]*calendar.Assignment
		officeHours map[string]*calendar.OfficeHours
		buckets     map[string]*calendar.DayBucket // keyed by composite bucket ID
		mutex       sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		board: &boardTables{
			boards:      make(map[string]*board.Board),
			classes:     make(map[string]*board.Class),
			assignments: make(map[string]*board.Assignment),
			officeHours: make(map[string]*board.OfficeHours),
		},
		calendar: &calendarTables{
			calendars:   make(map[string]*calendar.Calendar),
			assignments: make(map[string]*calendar.Assignment),
			officeHours: make(map[string]*calendar.OfficeHours),
			buckets:     make(map[string]*calendar.DayBucket),
		},
	}
	return db, nil
}
