package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tecu23/chessclock/internal/tui"
	"github.com/tecu23/chessclock/pkg/events"
	"github.com/tecu23/chessclock/pkg/headless"
)

// run drives the session with the configured front-end until it finishes or
// a shutdown signal arrives
func (app *application) run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if app.Config.Debug {
		app.Publisher.SubscribeAll(func(e events.Event) {
			if e.Type == events.EventClockTick {
				return
			}
			app.Logger.Debug("event", zap.String("type", string(e.Type)))
		})
	}

	go app.Session.Run(ctx, app.Config.TickInterval)

	app.Logger.Info("Starting clock",
		zap.Bool("headless", app.Config.Headless),
		zap.Stringer("rule_set", app.Session.Clock.TimeControl().RuleSet),
	)

	var err error
	if app.Config.Headless {
		err = headless.NewDriver(app.Session, os.Stdin, os.Stdout, app.Logger.Named("headless")).Run(ctx)
	} else {
		err = app.runTUI(ctx)
	}

	app.Shutdown()
	return err
}

func (app *application) runTUI(ctx context.Context) error {
	p := tea.NewProgram(
		tui.NewModel(app.Session, app.Config.TickInterval),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	tui.ForwardFlags(p, app.Publisher)

	_, err := p.Run()
	if ctx.Err() != nil {
		// interrupted by a signal rather than a quit key
		return nil
	}
	return err
}

// Shutdown pauses the clock so the final state is logged
func (app *application) Shutdown() {
	app.Session.Pause()

	state := app.Session.State("shutdown")
	app.Logger.Info("Clock stopped",
		zap.Int64("left_ms", state.Left.TimeMs),
		zap.Int64("right_ms", state.Right.TimeMs),
	)
}
