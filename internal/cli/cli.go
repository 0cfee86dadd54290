// Package cli implements the postercut command-line interface.
//
// The commands plan how a source page is enlarged into a poster printed on
// several sheets, compare alternative settings, plan batches of jobs from
// CSV, Excel or job files, and manage the saved configuration, templates
// and paper profiles kept under ~/.postercut.
//
// All commands support --verbose (-v) for debug logging. The logger travels
// in the command context.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/piwi3910/PosterCut/internal/project"
)

const appName = "postercut"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	version = v
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger    *log.Logger
	ConfigDir string // Holds config.json, papers.json and templates.json

	out io.Writer
}

// New creates a CLI that logs to w and prints results to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		ConfigDir: project.DefaultConfigDir(),
		out:       os.Stdout,
	}
}

// SetOutput redirects result output, which defaults to stdout.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "PosterCut splits a page into printable poster tiles",
		Long: `PosterCut enlarges a source page (a PDF page, a DXF drawing or a plain
size) into a poster and works out how to print it on ordinary sheets:
how many sheets, how they overlap for gluing, and which part of the source
lands on each sheet.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return project.InstallCustomPapers(c.paths().Papers)
		},
	}

	root.PersistentFlags().StringVar(&c.ConfigDir, "config-dir", c.ConfigDir, "directory holding config, templates and paper profiles")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.papersCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.profilesCommand())

	return root
}

func (c *CLI) paths() project.Paths {
	return project.PathsIn(c.ConfigDir)
}

func (c *CLI) loadConfig() (model.AppConfig, error) {
	return project.LoadAppConfig(c.paths().Config)
}
