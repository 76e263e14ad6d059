package app

import (
	"context"
	"fmt"
)

// Run builds the configured scenario's Scheduler, starts the optional
// status server, runs the scenario to completion, and logs its outcome.
// It mirrors the teacher's own App.Run shape (internal/app/run.go in
// burstgridgo): start ambient services, do the work, report.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("App.Run method started.", "scenario", a.config.Scenario)

	if err := a.buildScheduler(); err != nil {
		return err
	}

	a.startHealthcheckServer(a.config.HealthcheckPort)
	defer func() {
		if err := a.closeHealthcheckServer(context.Background()); err != nil {
			a.logger.Warn("App.Run: health check server close failed", "error", err)
		}
	}()

	a.logger.Info("🚀 Starting scheduler run", "scenario", a.config.Scenario)
	ok, err := a.sched.Run(ctx)
	a.logger.Info("🏁 Scheduler run finished", "ok", ok, "why", a.sched.Why())

	if err != nil {
		return fmt.Errorf("scenario %q failed critically: %w", a.config.Scenario, err)
	}
	if !ok {
		a.logger.Warn("Scenario finished unsuccessfully (non-critical).", "scenario", a.config.Scenario, "why", a.sched.Why())
	}
	return nil
}
