package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/kazadi/ratiba/apps/api/echo"
	"github.com/kazadi/ratiba/core"
	"github.com/kazadi/ratiba/core/board"
	"github.com/kazadi/ratiba/core/calendar"
	"github.com/kazadi/ratiba/core/user"
	emailsvc "github.com/kazadi/ratiba/services/email"
	logsvc "github.com/kazadi/ratiba/services/logger"
	"github.com/kazadi/ratiba/storage/database"
	inmemdb "github.com/kazadi/ratiba/storage/database/inmem"
	sqlxrepos "github.com/kazadi/ratiba/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up repositories
	userRepo, boardRepo, calRepo, closeDB, err := setUpRepos(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = closeDB(); err != nil {
			logger.Error("failed to close DB", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger, conf)
	}
	usrSvc := user.NewService(userRepo, mailSvc, conf)
	calSvc := calendar.NewService(calRepo)
	boardSvc := board.NewService(boardRepo, calSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			UserSvc:     usrSvc,
			BoardSvc:    boardSvc,
			CalendarSvc: calSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpRepos(conf *core.Config) (user.Repository, board.Repository, calendar.Repository, func() error, error) {
	if conf.Database.Engine == "" {
		db, err := inmemdb.Open()
		if err != nil {
			return nil, nil, nil, nil, err
		}
		noop := func() error { return nil }
		return inmemdb.NewUserRepository(db), inmemdb.NewBoardRepository(db), inmemdb.NewCalendarRepository(db), noop, nil
	}

	db, err := setUpDB(conf)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	sdb := sqlxrepos.Wrap(db)
	return sqlxrepos.NewUserRepository(sdb), sqlxrepos.NewBoardRepository(sdb), sqlxrepos.NewCalendarRepository(sdb), db.Close, nil
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
