package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PosterCut/internal/engine"
	"github.com/piwi3910/PosterCut/internal/export"
	"github.com/piwi3910/PosterCut/internal/importer"
	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/piwi3910/PosterCut/internal/project"
)

// layoutCommand plans a single poster.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		req       requestFlags
		out       outputFlags
		jobFile   string
		showTiles bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Plan how to print one poster",
		Long: `Plan how to print one poster.

Give the poster size as one of --size, --fit, --mult or --pages and the
source page as --source WxH or --input FILE (PDF or DXF). The output sheet
comes from the saved configuration unless --paper, --sheet, --border or
--overlap say otherwise. --job reads the whole request from a JSON, YAML
or TOML job file holding a single job.`,
		Example: `  postercut layout --source 210x297 --mult 4
  postercut layout -i flyer.pdf --pages 6 --paper A3 --pdf assembly.pdf
  postercut layout --job concert.yaml --json -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobFile != "" {
				return c.runLayoutJob(cmd.Context(), jobFile, out, showTiles)
			}
			return c.runLayout(cmd, &req, out, showTiles)
		},
	}

	req.registerGoal(cmd)
	req.registerSource(cmd)
	req.registerSheet(cmd)
	out.register(cmd)
	cmd.Flags().StringVar(&jobFile, "job", "", "read the request from a job file")
	cmd.Flags().BoolVar(&showTiles, "tiles", false, "list every tile")
	cmd.MarkFlagsMutuallyExclusive("job", "source")
	cmd.MarkFlagsMutuallyExclusive("job", "input")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, req *requestFlags, out outputFlags, showTiles bool) error {
	settings, goal, err := c.request(cmd, req)
	if err != nil {
		return err
	}
	source, title, err := req.sourceSize()
	if err != nil {
		return err
	}
	if req.input != "" {
		c.rememberFile(req.input)
	}
	return c.planAndWrite(cmd.Context(), title, settings, goal, source, out, showTiles)
}

func (c *CLI) runLayoutJob(ctx context.Context, path string, out outputFlags, showTiles bool) error {
	p, err := project.LoadProject(path)
	if err != nil {
		return fmt.Errorf("load job file: %w", err)
	}
	if len(p.Jobs) != 1 {
		return fmt.Errorf("%s holds %d jobs, use 'postercut batch' for more than one", filepath.Base(path), len(p.Jobs))
	}
	if err := importer.ResolveSources(p.Jobs, filepath.Dir(path)); err != nil {
		return err
	}
	job := p.Jobs[0]
	return c.planAndWrite(ctx, job.Label, p.SettingsFor(job), job.Goal, job.Source, out, showTiles)
}

func (c *CLI) planAndWrite(ctx context.Context, title string, settings model.LayoutSettings, goal model.Goal, source model.Size, out outputFlags, showTiles bool) error {
	logger := loggerFromContext(ctx)
	clock := startTimer(logger)

	plan, err := engine.New(settings).WithLogger(logger).Plan(goal, source)
	if err != nil {
		return fmt.Errorf("plan %s: %w", title, err)
	}
	clock.stop("Planned " + title)

	if !out.jsonToStdout() {
		c.printPlan(title, plan, settings.PricePerSheet)
		if showTiles {
			c.printTiles(plan)
		}
	}
	return c.writeOutputs(out, plan, export.Options{Title: title, PricePerSheet: settings.PricePerSheet})
}

// printPlan prints the headline figures of a plan.
func (c *CLI) printPlan(title string, plan model.Plan, price float64) {
	est := model.CalculatePrintEstimate(plan.Layout, price)

	c.printSuccess("%s: %s sheets of %s", title, styleCount.Render(fmt.Sprint(plan.SheetCount())), plan.Paper.Name)
	c.printKeyValue("Goal", plan.Goal.String())
	c.printKeyValue("Source", plan.Source.String())
	c.printKeyValue("Poster", plan.Poster.String())
	c.printKeyValue("Scale", fmt.Sprintf("%.3f (%.2fx area)", plan.Scale, plan.Multiplier()))
	c.printKeyValue("Layout", joinStats(
		fmt.Sprintf("%d x %d", plan.Layout.Rows, plan.Layout.Cols),
		plan.Layout.Strategy.String(),
		string(plan.Orientation),
	))
	c.printKeyValue("Efficiency", fmt.Sprintf("%.1f%%", est.Efficiency))
	c.printKeyValue("Glue seams", fmt.Sprintf("%.0f mm", est.GlueLength))
	if price > 0 {
		c.printKeyValue("Estimated cost", fmt.Sprintf("%.2f", est.EstimatedCost))
	}
}

// printTiles lists where every tile sits on the poster.
func (c *CLI) printTiles(plan model.Plan) {
	rows := make([][]string, 0, plan.SheetCount())
	for _, m := range engine.MapTiles(plan) {
		rows = append(rows, []string{
			fmt.Sprint(m.Tile.Index + 1),
			m.Tile.Label(),
			fmt.Sprintf("%.1f, %.1f", m.Tile.Rect.X, m.Tile.Rect.Y),
			fmt.Sprintf("%.1f x %.1f", m.Tile.Rect.Width, m.Tile.Rect.Height),
			fmt.Sprintf("%.1f, %.1f  %.1f x %.1f", m.Source.X, m.Source.Y, m.Source.Width, m.Source.Height),
		})
	}
	c.printNewline()
	c.printTable([]string{"Sheet", "Tile", "Position", "Extent", "Source clip"}, rows, nil)
}

// rememberFile records path in the recent files list. Failures only log.
func (c *CLI) rememberFile(path string) {
	cfg, err := c.loadConfig()
	if err != nil {
		c.Logger.Warn("cannot read config", "err", err)
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cfg.AddRecentFile(path)
	if err := project.SaveAppConfig(c.paths().Config, cfg); err != nil {
		c.Logger.Warn("cannot save config", "err", err)
	}
}
