// PosterCut: poster tiling planner
//
// Works out how to enlarge a page into a poster printed across ordinary
// sheets, and writes assembly plans, tile labels, spreadsheets and CAD
// outlines for it.
//
// Build:
//   go build -o postercut ./cmd/postercut
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o postercut.exe ./cmd/postercut
//   GOOS=darwin  GOARCH=arm64 go build -o postercut-darwin ./cmd/postercut

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/piwi3910/PosterCut/internal/cli"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var verbose bool

	cli.SetVersion(Version)
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := cli.LogInfo
		if verbose {
			level = cli.LogDebug
		}
		c.SetLogLevel(level)

		// Layout searches and batches fan out over GOMAXPROCS workers.
		// Set only fails on an invalid GOMAXPROCS, where the runtime default stays.
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			c.Logger.Debugf(format, args...)
		}))

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
