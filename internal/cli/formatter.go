package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/idelchi/dirsize/internal/dirsize"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs the scan result in JSON format.
func PrintJSON(result *dirsize.Result, writer io.Writer) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintPaths outputs only the directory paths, one per line, in report order.
func PrintPaths(result *dirsize.Result, writer io.Writer) error {
	for _, r := range dirsize.Sorted(result.Records, result.Params.Sort) {
		if _, err := fmt.Fprintln(writer, r.Path); err != nil {
			return err
		}
	}

	return nil
}

// PrintTable outputs the sorted report followed by a summary.
// usage may be nil.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(result *dirsize.Result, usage *disk.UsageStat, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "\n%s\n", result.Report()); err != nil {
		return err
	}

	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	params := result.Params

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Directories:\t%d\n", len(result.Records))
	fmt.Fprintf(w, "Threshold:\t%s (%d bytes)\n", dirsize.ReadableSize(params.MinSize), params.MinSize)
	fmt.Fprintf(w, "Max depth:\t%d\n", params.MaxDepth)

	if usage != nil {
		fmt.Fprintf(w, "Filesystem:\t%s of %s used (%.1f%%)\n",
			humanize.IBytes(usage.Used), humanize.IBytes(usage.Total), usage.UsedPercent)
	}

	if n := len(result.Diagnostics); n > 0 {
		fmt.Fprintf(w, "Unreadable:\t%d\n", n)
	}

	if result.Cancelled {
		fmt.Fprintf(w, "Status:\tcancelled\n")
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", result.Elapsed)

	return w.Flush()
}
