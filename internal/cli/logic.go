package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/idelchi/dirsize/internal/dirsize"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// progressPrinter returns a callback that overwrites a single status line on w.
func progressPrinter(w io.Writer) func(dirsize.Record) {
	return func(r dirsize.Record) {
		fmt.Fprintf(w, "\r\033[2KSearching… %s\r", r.Line())
	}
}

// progressLogger returns a callback that writes one line per record to w.
func progressLogger(w io.Writer) func(dirsize.Record) {
	return func(r dirsize.Record) {
		fmt.Fprintln(w, r.Line())
	}
}

func logic(cmd *cobra.Command, options Options) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	params, err := options.Params.Validate()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sessionOptions := dirsize.Options{
		Workers: options.Workers,
		Debug:   options.Debug,
	}

	if options.Debug {
		sessionOptions.Diagnose = func(path string, err error) {
			fmt.Fprintf(errOut, "[debug]: can't determine the size of %q: %v\n", path, err)
		}
	}

	session := dirsize.NewSession(sessionOptions)

	if options.TUI {
		return runTUI(ctx, session, params)
	}

	enableProgress := options.Output == "table" &&
		!options.Debug &&
		isTerminal(errOut)

	// Without a terminal to redraw, every record is logged on its own line.
	progressHook := progressLogger(errOut)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(errOut, "\033[?25l")
		defer fmt.Fprint(errOut, "\033[?25h")

		progressHook = progressPrinter(errOut)
	}

	result, err := session.Run(ctx, params, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(errOut, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	if result.Cancelled {
		fmt.Fprintln(errOut, "Scan cancelled, reporting partial results")
	}

	switch options.Output {
	case "json":
		return PrintJSON(result, out)
	case "paths":
		return PrintPaths(result, out)
	case "table":
		return PrintTable(result, filesystemUsage(params.Root), out)
	default:
		return fmt.Errorf("unknown output format: %s", options.Output)
	}
}
