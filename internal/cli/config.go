package cli

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/piwi3910/PosterCut/internal/project"
)

// configSetters maps the keys accepted by 'config set' to their parsers.
var configSetters = map[string]func(*model.AppConfig, string) error{
	"paper": func(cfg *model.AppConfig, v string) error {
		if _, ok := model.GetPaper(v); !ok {
			return fmt.Errorf("unknown paper %q", v)
		}
		cfg.DefaultPaper = v
		return nil
	},
	"borders": func(cfg *model.AppConfig, v string) error {
		b, err := parseBorders(v)
		if err != nil {
			return err
		}
		cfg.DefaultBorders = b
		return nil
	},
	"overlap": func(cfg *model.AppConfig, v string) error {
		f, err := parseNonNegative(v)
		if err != nil {
			return err
		}
		cfg.DefaultOverlap = f
		return nil
	},
	"strategy": func(cfg *model.AppConfig, v string) error {
		s, err := model.ParseStrategy(v)
		if err != nil {
			return err
		}
		cfg.DefaultStrategy = s
		return nil
	},
	"rotate": func(cfg *model.AppConfig, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%q is not true or false", v)
		}
		cfg.DefaultAllowRotate = b
		return nil
	},
	"price": func(cfg *model.AppConfig, v string) error {
		f, err := parseNonNegative(v)
		if err != nil {
			return err
		}
		cfg.PricePerSheet = f
		return nil
	},
	"output-dir": func(cfg *model.AppConfig, v string) error {
		cfg.OutputDir = v
		return nil
	},
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for k := range configSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseNonNegative(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", v)
	}
	if !nonNegative(f) {
		return 0, fmt.Errorf("%q must be a finite number, not negative", v)
	}
	return f, nil
}

// nonNegative rejects NaN and infinities along with negatives.
func nonNegative(f float64) bool {
	return f >= 0 && !math.IsInf(f, 1)
}

// configCommand shows and edits the saved defaults.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the saved defaults",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the saved defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			c.printConfig(cfg)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one default",
		Long: fmt.Sprintf(`Change one default.

Keys: %s.`, strings.Join(configKeys(), ", ")),
		Example: `  postercut config set paper A3
  postercut config set borders 5,10
  postercut config set rotate false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			setter, ok := configSetters[key]
			if !ok {
				return fmt.Errorf("unknown key %q (want one of %s)", args[0], strings.Join(configKeys(), ", "))
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := setter(&cfg, args[1]); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			if err := project.SaveAppConfig(c.paths().Config, cfg); err != nil {
				return err
			}
			c.printSuccess("Set %s to %s", key, args[1])
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Back up config, templates and paper profiles to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := c.paths()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := project.LoadTemplates(paths.Templates)
			if err != nil {
				return err
			}
			papers, err := project.LoadCustomPapers(paths.Papers)
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, store, papers); err != nil {
				return err
			}
			c.printFile(args[0])
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Restore a backup written by 'config export'",
		Long: `Restore a backup written by 'config export'.

The backup replaces the current config, templates and paper profiles.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			paths := c.paths()
			if err := project.SaveAppConfig(paths.Config, backup.Config); err != nil {
				return err
			}
			if err := project.SaveTemplates(paths.Templates, backup.Templates); err != nil {
				return err
			}
			if err := project.SaveCustomPapers(paths.Papers, backup.Papers); err != nil {
				return err
			}
			model.CustomPapers = backup.Papers
			c.printSuccess("Restored %d templates and %d paper sizes from %s",
				len(backup.Templates.Templates), len(backup.Papers), args[0])
			return nil
		},
	}

	cmd.AddCommand(show, set, exportCmd, importCmd)
	return cmd
}

func (c *CLI) printConfig(cfg model.AppConfig) {
	b := cfg.DefaultBorders
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = "(next to the input)"
	}

	c.printTitle("Defaults")
	c.printKeyValue("paper", cfg.DefaultPaper)
	c.printKeyValue("borders", fmt.Sprintf("%g,%g,%g,%g", b.Top, b.Right, b.Bottom, b.Left))
	c.printKeyValue("overlap", fmt.Sprintf("%g mm", cfg.DefaultOverlap))
	c.printKeyValue("strategy", string(cfg.DefaultStrategy))
	c.printKeyValue("rotate", strconv.FormatBool(cfg.DefaultAllowRotate))
	c.printKeyValue("price", fmt.Sprintf("%.2f", cfg.PricePerSheet))
	c.printKeyValue("output-dir", outDir)

	if len(cfg.RecentFiles) > 0 {
		c.printNewline()
		c.printTitle("Recent files")
		for _, f := range cfg.RecentFiles {
			c.printDetail("%s", f)
		}
	}

	paths := c.paths()
	c.printNewline()
	c.printTitle("Files")
	c.printKeyValue("config", paths.Config)
	c.printKeyValue("templates", paths.Templates)
	c.printKeyValue("papers", paths.Papers)
}
