package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fractal-nyc/attendabot/bot"
	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/cohort"
	"github.com/fractal-nyc/attendabot/core/curriculum"
	"github.com/fractal-nyc/attendabot/core/message"
	discordsvc "github.com/fractal-nyc/attendabot/services/discord"
	logsvc "github.com/fractal-nyc/attendabot/services/logger"
	"github.com/fractal-nyc/attendabot/storage/database"
	"github.com/fractal-nyc/attendabot/storage/database/sqlxrepos"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "BOT : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()
	if err = database.Migrate(db); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}

	cohortSvc := cohort.NewService(sqlxrepos.NewCohortRepository(db))
	msgSvc := message.NewService(sqlxrepos.NewMessageRepository(db))

	table, err := curriculum.LoadTable(conf.Bot.CurriculumPath)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading curriculum table: %v", err), err)
	}

	discord, err := discordsvc.NewService(conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up discord session: %v", err), err)
	}
	if err = discord.Open(); err != nil {
		logger.Fatal(fmt.Sprintf("opening discord gateway: %v", err), err)
	}
	defer func() {
		if err = discord.Close(); err != nil {
			logger.Error("closing discord session", err)
		}
	}()

	// =========================================================================
	// Start Scheduler

	logger.Info(fmt.Sprintf("Bot initializing : version %q", conf.Build))
	defer logger.Info("Bot stopped")

	b, err := bot.New(discord, cohortSvc, msgSvc, table, conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up bot: %v", err), err)
	}

	runner, err := bot.NewRunner(b, conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("scheduling jobs: %v", err), err)
	}
	runner.Start()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	runner.Stop()
}
