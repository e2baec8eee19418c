package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // dev-only debug mux
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/fractal-nyc/attendabot/api/echo"
	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/briefing"
	"github.com/fractal-nyc/attendabot/core/cohort"
	"github.com/fractal-nyc/attendabot/core/curriculum"
	"github.com/fractal-nyc/attendabot/core/feature"
	"github.com/fractal-nyc/attendabot/core/message"
	"github.com/fractal-nyc/attendabot/core/user"
	emailsvc "github.com/fractal-nyc/attendabot/services/email"
	logsvc "github.com/fractal-nyc/attendabot/services/logger"
	"github.com/fractal-nyc/attendabot/services/logstream"
	summarysvc "github.com/fractal-nyc/attendabot/services/summary"
	"github.com/fractal-nyc/attendabot/storage/database"
	"github.com/fractal-nyc/attendabot/storage/database/sqlxrepos"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers; every record is teed into the ring buffer backing the
	// dashboard's live log stream
	logStream := logstream.NewRing(0)

	rollbar := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	rollbar.Enable(!conf.Debug)
	logger := &logstream.TeeLogger{Next: rollbar, Ring: logStream}

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	var summarizer briefing.Summarizer
	if conf.OpenAI.APIKey == "" {
		summarizer = summarysvc.NewConsoleService()
	} else {
		summarizer = summarysvc.NewOpenAIService(conf)
	}

	table, err := curriculum.LoadTable(conf.Bot.CurriculumPath)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading curriculum table: %v", err), err)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, conf)
	cohortSvc := cohort.NewService(sqlxrepos.NewCohortRepository(db))
	msgSvc := message.NewService(sqlxrepos.NewMessageRepository(db))
	featSvc := feature.NewService(sqlxrepos.NewFeatureRepository(db))
	briefSvc := briefing.NewService(cohortSvc, msgSvc, summarizer, mailSvc, table, conf, logger)

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
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
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
			CohortSvc:   cohortSvc,
			MessageSvc:  msgSvc,
			FeatureSvc:  featSvc,
			BriefingSvc: briefSvc,
			LogStream:   logStream,
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

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
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
