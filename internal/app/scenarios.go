package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/specialistvlad/asyncjobs/internal/job"
	"github.com/specialistvlad/asyncjobs/internal/scheduler"
	"github.com/specialistvlad/asyncjobs/internal/sequence"
)

// scenario builds a fresh *scheduler.Scheduler demonstrating one of the
// concrete end-to-end scenarios from spec.md §8. Each is reconstructed
// from scratch per invocation since a Scheduler cannot be meaningfully
// re-run once its jobs are done.
type scenario func(cfg *Config, logger *slog.Logger) *scheduler.Scheduler

var scenarios = map[string]scenario{
	"fan-out":      fanOutScenario,
	"linear":       linearScenario,
	"forever":      foreverScenario,
	"timeout":      timeoutScenario,
	"non-critical": nonCriticalScenario,
	"critical":     criticalScenario,
	"jobs-window":  jobsWindowScenario,
	"nested":       nestedScenario,
}

func sleepJob(label string, d time.Duration, logger *slog.Logger) *job.Job {
	return job.New(func(ctx context.Context) (any, error) {
		logger.Debug("scenario: job starting", "label", label)
		select {
		case <-time.After(d):
			logger.Debug("scenario: job done", "label", label)
			return d, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, job.Config{Label: label})
}

func schedulerConfig(cfg *Config) scheduler.Config {
	c := scheduler.DefaultConfig()
	if cfg.JobsWindow > 0 {
		c.JobsWindow = cfg.JobsWindow
	}
	if cfg.Timeout > 0 {
		c.Timeout = cfg.Timeout
	}
	return c
}

// fanOutScenario: three independent jobs with no shared requirement.
func fanOutScenario(cfg *Config, logger *slog.Logger) *scheduler.Scheduler {
	s := scheduler.New(schedulerConfig(cfg))
	s.Update(
		sleepJob("fan-100ms", 100*time.Millisecond, logger),
		sleepJob("fan-200ms", 200*time.Millisecond, logger),
		sleepJob("fan-250ms", 250*time.Millisecond, logger),
	)
	return s
}

// linearScenario: b1 -> b2, plus a free b3 running concurrently.
func linearScenario(cfg *Config, logger *slog.Logger) *scheduler.Scheduler {
	s := scheduler.New(schedulerConfig(cfg))
	b1 := sleepJob("b1", 100*time.Millisecond, logger)
	b2 := sleepJob("b2", 200*time.Millisecond, logger)
	b3 := sleepJob("b3", 250*time.Millisecond, logger)
	s.Update(sequence.New(b1, b2), b3)
	return s
}

// foreverScenario: a monitoring job plus three timed workers, one of which
// requires another.
func foreverScenario(cfg *Config, logger *slog.Logger) *scheduler.Scheduler {
	s := scheduler.New(schedulerConfig(cfg))
	monitor := job.New(func(ctx context.Context) (any, error) {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				logger.Info("scenario: monitor tick")
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}, job.Config{Label: "monitor", Forever: true})
	c1 := sleepJob("c1", 80*time.Millisecond, logger)
	c2 := sleepJob("c2", 80*time.Millisecond, logger)
	c3 := sleepJob("c3", 80*time.Millisecond, logger)
	c3.Requires(false, c1)
	s.Update(monitor, c1, c2, c3)
	return s
}

// timeoutScenario: a lone forever job outlives a short global deadline.
func timeoutScenario(cfg *Config, logger *slog.Logger) *scheduler.Scheduler {
	c := schedulerConfig(cfg)
	if c.Timeout == 0 {
		c.Timeout = 250 * time.Millisecond
	}
	s := scheduler.New(c)
	monitor := job.New(func(ctx context.Context) (any, error) {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				logger.Info("scenario: timeout-monitor tick")
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}, job.Config{Label: "monitor", Forever: true})
	s.Add(monitor)
	return s
}

// nonCriticalScenario: e1 -> e2 (raises, non-critical) -> e3, chain survives.
func nonCriticalScenario(cfg *Config, logger *slog.Logger) *scheduler.Scheduler {
	s := scheduler.New(schedulerConfig(cfg))
	boom := errors.New("e2 raised")
	critFalse := false
	e1 := sleepJob("e1", 200*time.Millisecond, logger)
	e2 := job.New(func(ctx context.Context) (any, error) {
		time.Sleep(200 * time.Millisecond)
		return nil, boom
	}, job.Config{Label: "e2", Critical: &critFalse})
	e3 := sleepJob("e3", 300*time.Millisecond, logger)
	s.Update(sequence.New(e1, e2, e3))
	return s
}

// criticalScenario: same shape as nonCriticalScenario but e2 is critical,
// so e3 never starts.
func criticalScenario(cfg *Config, logger *slog.Logger) *scheduler.Scheduler {
	s := scheduler.New(schedulerConfig(cfg))
	boom := errors.New("e2 raised critically")
	critTrue := true
	e1 := sleepJob("e1", 200*time.Millisecond, logger)
	e2 := job.New(func(ctx context.Context) (any, error) {
		time.Sleep(200 * time.Millisecond)
		return nil, boom
	}, job.Config{Label: "e2", Critical: &critTrue})
	e3 := sleepJob("e3", 300*time.Millisecond, logger)
	s.Update(sequence.New(e1, e2, e3))
	return s
}

// jobsWindowScenario: eight jobs, no dependencies, window of four so the
// run takes two waves.
func jobsWindowScenario(cfg *Config, logger *slog.Logger) *scheduler.Scheduler {
	c := schedulerConfig(cfg)
	if c.JobsWindow == 0 {
		c.JobsWindow = 4
	}
	s := scheduler.New(c)
	for i := 0; i < 8; i++ {
		s.Add(sleepJob("worker", 500*time.Millisecond, logger))
	}
	return s
}

// nestedScenario: an outer non-critical scheduler containing a nested
// critical scheduler whose inner job raises, plus a sibling job that still
// completes.
func nestedScenario(cfg *Config, logger *slog.Logger) *scheduler.Scheduler {
	outerCfg := schedulerConfig(cfg)
	outerCfg.Critical = false
	outer := scheduler.New(outerCfg)

	innerCfg := scheduler.DefaultConfig()
	innerCfg.Critical = true
	innerCfg.Label = "nested"
	nested := scheduler.NewNested(innerCfg)

	boom := errors.New("nested job raised critically")
	critTrue := true
	innerJob := job.New(func(ctx context.Context) (any, error) {
		time.Sleep(150 * time.Millisecond)
		return nil, boom
	}, job.Config{Label: "inner", Critical: &critTrue})
	nested.Add(innerJob)

	sibling := sleepJob("sibling", 80*time.Millisecond, logger)
	outer.Update(nested, sibling)
	return outer
}
