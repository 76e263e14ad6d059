// Package cli parses the demo binary's command-line arguments into an
// app.Config, the way the teacher's own internal/cli package parses
// burstgridgo's flags with the standard library flag package rather than a
// third-party CLI framework (none appears anywhere in the retrieved
// corpus).
package cli

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/specialistvlad/asyncjobs/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func scenarioNames() []string {
	names := []string{
		"fan-out", "linear", "forever", "timeout",
		"non-critical", "critical", "jobs-window", "nested",
	}
	sort.Strings(names)
	return names
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating if the program should exit cleanly, or
// an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("asyncjobs-demo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprintf(output, `
asyncjobs-demo - run one of the dependency-driven scheduler scenarios.

Usage:
  asyncjobs-demo [options] [SCENARIO]

Arguments:
  SCENARIO
    One of: %s

Options:
`, strings.Join(scenarioNames(), ", "))
		flagSet.PrintDefaults()
	}

	scenarioFlag := flagSet.String("scenario", "", "Scenario to run (shorthand: the first positional argument).")
	jobsWindowFlag := flagSet.Int("jobs-window", 0, "Cap on simultaneously-running jobs. 0 is unbounded.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Global scheduler deadline. 0 is unbounded.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health/status server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	// flag.FlagSet stops at the first positional argument, so parsing is
	// resumed after each one: options may follow the scenario name too.
	var positional []string
	for {
		if err := flagSet.Parse(args); err != nil {
			if err == flag.ErrHelp {
				return nil, true, nil
			}
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		if flagSet.NArg() == 0 {
			break
		}
		positional = append(positional, flagSet.Arg(0))
		args = flagSet.Args()[1:]
	}

	scenario := *scenarioFlag
	if scenario == "" && len(positional) > 0 {
		scenario = positional[0]
	}
	if scenario == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *timeoutFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid timeout: must not be negative"}
	}

	config, err := app.NewConfig(app.Config{
		Scenario:        scenario,
		JobsWindow:      *jobsWindowFlag,
		Timeout:         time.Duration(*timeoutFlag),
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
