package cli

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/idelchi/dirsize/internal/dirsize"
	"github.com/idelchi/dirsize/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Options holds the parsed command line.
type Options struct {
	// Params are the scan inputs.
	Params dirsize.Params
	// Workers is the number of size computation goroutines.
	Workers int
	// Output represents output format (table, json or paths).
	Output string
	// TUI indicates whether to run the interactive terminal UI.
	TUI bool
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Version indicates whether to show version and exit.
	Version bool
	// Integration indicates whether to output integration script.
	Integration bool
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"table", "json", "paths"}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var (
		options    Options
		minSizeStr string
		sortStr    string
	)

	cmd := &cobra.Command{
		Use:   "dirsize [flags] [path]",
		Short: "Find the directories of a tree that exceed a size threshold",
		Long: heredoc.Doc(`
			dirsize finds the directories of a tree whose cumulative size meets a threshold.

			Starting at path (default: current directory), each directory is measured.
			Directories at or above --min-size are reported and their subdirectories are
			examined in turn, up to --max-depth levels below path. Directories below the
			threshold are not descended into.

			The report is sorted by size, path or the order the directories were found.
			Press Ctrl+C to stop a scan early; the directories found so far are reported.

			The '--init' flag prints a zsh function, 'dsz', which pipes the result
			to 'fzf' and changes into the selected directory.
		`),
		Example: heredoc.Doc(`
			dirsize --min-size 1GB --max-depth 2 ~/projects
			dirsize --sort path -o json /var
			dirsize --tui .
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Version {
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			if options.Integration {
				rendered, err := integration.Render(cmd.Root().Name())
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return nil
			}

			if !slices.Contains(allowedOutputs, options.Output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
			}

			if options.Params.MaxDepth < 0 {
				return errors.New("max-depth cannot be negative")
			}

			if options.Workers < 0 {
				return errors.New("workers cannot be negative")
			}

			size, err := parseMinSize(minSizeStr)
			if err != nil {
				return err
			}

			options.Params.MinSize = size

			if options.Params.Sort, err = dirsize.ParseSortKey(sortStr); err != nil {
				return err
			}

			options.Params.Root = "."
			if len(args) > 0 {
				options.Params.Root = args[0]
			}

			return logic(cmd, options)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.StringVar(&minSizeStr, "min-size", fmt.Sprint(dirsize.DefaultMinSize),
		"Minimum directory size, in bytes or with a unit (e.g., 500MB, 1GiB)")
	flags.IntVarP(&options.Params.MaxDepth, "max-depth", "d", dirsize.DefaultMaxDepth,
		"Subdirectory levels to examine below path (0=path only)")
	flags.StringVarP(&sortStr, "sort", "s", "size", "Sort order: size, path or structure")
	flags.StringVarP(&options.Output, "output", "o", "table", "Output format: table, json or paths")
	flags.BoolVar(&options.TUI, "tui", false, "Run the interactive terminal UI")
	flags.IntVar(&options.Workers, "workers", 0, "Goroutines per size computation (0=default)")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&options.Version, "version", "v", false, "Show version and exit")
	flags.BoolVarP(&options.Integration, "init", "i", false, "Output init script for shell usage")

	return cmd
}

// parseMinSize accepts plain byte counts as well as humanized sizes.
func parseMinSize(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid min-size: %w", err)
	}

	if size > math.MaxInt64 {
		return 0, fmt.Errorf("invalid min-size: %q is too large", s)
	}

	return int64(size), nil
}
