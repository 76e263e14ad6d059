package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/asyncjobs/internal/scheduler"
)

// App encapsulates the demo binary's dependencies, configuration, and
// lifecycle: a logger, the resolved Config, the scenario's Scheduler once
// built, and the optional status HTTP server.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	sched  *scheduler.Scheduler
	srv    *healthcheckServer
}

// NewApp constructs an App with its own isolated logger. The scenario's
// Scheduler is built lazily inside Run, since it must be freshly
// constructed for every run (a Scheduler cannot be meaningfully re-run
// once its jobs are done).
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.", "scenario", cfg.Scenario)
	return &App{outW: outW, logger: logger, config: cfg}
}

// Scheduler returns the scenario's Scheduler, for tests that need direct
// access after Run.
func (a *App) Scheduler() *scheduler.Scheduler { return a.sched }

func (a *App) buildScheduler() error {
	build, ok := scenarios[a.config.Scenario]
	if !ok {
		return fmt.Errorf("app: unknown scenario %q", a.config.Scenario)
	}
	a.sched = build(a.config, a.logger)
	return nil
}
