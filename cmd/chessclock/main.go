// Package main is the entry point of the application
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tecu23/chessclock/pkg/config"
	"github.com/tecu23/chessclock/pkg/events"
	"github.com/tecu23/chessclock/pkg/game"
	"github.com/tecu23/chessclock/pkg/timesource"
)

// application encapsulates global dependencies
type application struct {
	Logger    *zap.Logger
	Config    *config.Config
	Publisher *events.Publisher
	Session   *game.Session
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Initialize logger
	logger := initLogger(cfg)
	defer logger.Sync()

	tc, err := cfg.TimeControl()
	if err != nil {
		logger.Fatal("resolving time control", zap.Error(err))
	}

	if cfg.SavePolicy != "" {
		if err := config.SaveTimeControl(cfg.SavePolicy, tc); err != nil {
			logger.Fatal("saving policy", zap.Error(err))
		}
		logger.Info("policy saved", zap.String("path", cfg.SavePolicy))
		return
	}

	// Initialize event publisher
	publisher := events.NewPublisher()

	session, err := game.NewSession(tc, timesource.System{}, publisher, logger)
	if err != nil {
		logger.Fatal("creating session", zap.Error(err))
	}

	app := &application{
		Logger:    logger,
		Config:    cfg,
		Publisher: publisher,
		Session:   session,
	}

	if err := app.run(); err != nil {
		logger.Fatal("error running", zap.Error(err))
	}
}

// initLogger builds the application logger. Headless mode logs to stderr so
// stdout stays a clean JSON stream; the terminal UI owns the screen, so it
// only logs when a log file is configured.
func initLogger(cfg *config.Config) *zap.Logger {
	if !cfg.Headless && cfg.LogFile == "" {
		return zap.NewNop()
	}

	var zcfg zap.Config
	if cfg.Debug {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	if cfg.LogFile != "" {
		zcfg.OutputPaths = []string{cfg.LogFile}
		zcfg.ErrorOutputPaths = []string{cfg.LogFile}
	}

	logger, err := zcfg.Build()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	return logger
}
