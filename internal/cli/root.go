// Package cli implements the expense command tree on top of tracker.Tracker.
package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"expense-cli/internal/logging"
	"expense-cli/internal/tracker"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Options holds the dependencies shared by all commands.
type Options struct {
	// DataFile is the default for the --file flag.
	DataFile string
	Logger   zerolog.Logger
	// Now is the clock handed to the tracker; nil means time.Now.
	Now func() time.Time
}

type app struct {
	opts Options
	file string
}

func (a *app) tracker() *tracker.Tracker {
	opts := []tracker.Option{tracker.WithLogger(logging.Component(a.opts.Logger, "tracker"))}
	if a.opts.Now != nil {
		opts = append(opts, tracker.WithClock(a.opts.Now))
	}
	return tracker.New(a.file, opts...)
}

// NewRootCmd builds the expense command and its subcommands.
func NewRootCmd(opts Options) *cobra.Command {
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "expense",
		Short:         "Expense Tracker - Manage your finances",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&a.file, "file", opts.DataFile, "Path to the expenses data file")

	root.AddCommand(
		newAddCmd(a),
		newDeleteCmd(a),
		newUpdateCmd(a),
		newListCmd(a),
		newSummaryCmd(a),
		newExportCmd(a),
	)
	return root
}

// unexpectedError marks failures that are not caused by user input.
type unexpectedError struct {
	err error
}

func (e *unexpectedError) Error() string { return e.err.Error() }
func (e *unexpectedError) Unwrap() error { return e.err }

func unexpected(err error) error {
	if err == nil || errors.Is(err, tracker.ErrInvalidAmount) || errors.Is(err, tracker.ErrInvalidDate) {
		return err
	}
	return &unexpectedError{err: err}
}

// Report prints err the way the command line shows failures.
func Report(w io.Writer, err error) {
	var ue *unexpectedError
	switch {
	case errors.Is(err, tracker.ErrInvalidAmount):
		fmt.Fprintln(w, "Error: Amount must be positive.")
	case errors.Is(err, tracker.ErrInvalidDate):
		fmt.Fprintf(w, "Error: %v\n", err)
	case errors.As(err, &ue):
		fmt.Fprintf(w, "Unexpected error: %v\n", ue.err)
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
