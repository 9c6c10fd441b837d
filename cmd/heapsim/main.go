/*
Command-line garbage collection simulator.

Usage:

	$ heapsim [<flags>] <subcommand> [<args> ...]

Use 'heapsim help' to see more details.
*/
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/comalice/heapsim"
	"github.com/comalice/heapsim/internal/logging"
)

//nolint:gochecknoglobals
var (
	app = kingpin.New("heapsim", "Simulate garbage collectors over a generational heap.")

	debugLogging = app.Flag("debug", "Log every collector phase.").Bool()
	noColor      = app.Flag("no-color", "Disable colored output.").Bool()
)

func newLogger() (logging.Logger, error) {
	return logging.New(*debugLogging) //nolint:wrapcheck
}

func main() {
	app.Version(heapsim.Version)
	app.HelpFlag.Short('h')
	app.PreAction(func(*kingpin.ParseContext) error {
		color.NoColor = color.NoColor || *noColor
		return nil
	})

	if _, err := app.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
