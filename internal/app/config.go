package app

import (
	"errors"
	"time"
)

// Config holds everything an App instance needs to run one scheduler
// scenario to completion.
type Config struct {
	// Scenario names one of the registered demo scenarios (see
	// scenarios.go). Required.
	Scenario string

	// JobsWindow and Timeout override the scenario's own defaults when
	// positive; zero defers to the scenario.
	JobsWindow int
	Timeout    time.Duration

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg and returns a copy, mirroring the
// validate-then-copy shape the teacher's own app.NewConfig uses.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Scenario == "" {
		return nil, errors.New("Scenario is a required configuration field and cannot be empty")
	}
	if _, ok := scenarios[cfg.Scenario]; !ok {
		return nil, errors.New("Scenario is not recognized: " + cfg.Scenario)
	}
	return &cfg, nil
}
