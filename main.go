// Command dirsize finds the directories of a tree that exceed a size threshold.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dirsize/internal/cli"
)

//nolint:gochecknoglobals // Set at build time
var version = "unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
