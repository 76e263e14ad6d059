// Command asyncjobs-demo is the synchronous entry-point wrapper spec.md
// §1 keeps out of the core's scope: it parses flags, builds an App for the
// chosen scenario, and runs it, translating a critical failure into a
// non-zero exit code.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/asyncjobs/internal/app"
	"github.com/specialistvlad/asyncjobs/internal/cli"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and
// error handling, the way the teacher's own cmd/cli/main.go separates it
// from main() itself.
func run(outW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	a := app.NewApp(outW, cfg)
	return a.Run(context.Background())
}
