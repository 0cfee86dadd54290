package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PosterCut/internal/engine"
	"github.com/piwi3910/PosterCut/internal/model"
)

// compareCommand plans one request under alternative settings.
func (c *CLI) compareCommand() *cobra.Command {
	var req requestFlags

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare layouts under alternative settings",
		Long: `Compare layouts under alternative settings.

The request is planned with the current settings and with variations of
them (each layout strategy alone, portrait only, half the overlap, no
borders) so the cheapest option is easy to spot.`,
		Example: `  postercut compare --source 210x297 --mult 4`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompare(cmd, &req)
		},
	}

	req.registerGoal(cmd)
	req.registerSource(cmd)
	req.registerSheet(cmd)
	return cmd
}

func (c *CLI) runCompare(cmd *cobra.Command, req *requestFlags) error {
	settings, goal, err := c.request(cmd, req)
	if err != nil {
		return err
	}
	source, title, err := req.sourceSize()
	if err != nil {
		return err
	}

	clock := startTimer(loggerFromContext(cmd.Context()))
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(settings), goal, source)
	clock.stop(fmt.Sprintf("Compared %d scenarios", len(results)))

	best := bestScenario(goal, results)
	rows := make([][]string, len(results))
	for i, r := range results {
		if r.Err != nil {
			rows[i] = []string{r.Scenario.Name, "-", "-", "-", "-", r.Err.Error()}
			continue
		}
		rows[i] = []string{
			r.Scenario.Name,
			fmt.Sprint(r.SheetsUsed),
			fmt.Sprintf("%.0f x %.0f", r.Plan.Poster.Width, r.Plan.Poster.Height),
			fmt.Sprintf("%d x %d %s", r.Plan.Layout.Rows, r.Plan.Layout.Cols, r.Plan.Layout.Strategy),
			string(r.Plan.Orientation),
			fmt.Sprintf("%.1f%%", r.Efficiency),
		}
	}

	c.printTitle(fmt.Sprintf("%s: %s", title, goal))
	var highlight map[int]bool
	if best >= 0 {
		highlight = map[int]bool{best: true}
	}
	c.printTable([]string{"Scenario", "Sheets", "Poster (mm)", "Layout", "Sheet", "Efficiency"}, rows, highlight)
	if best >= 0 {
		c.printSuccess("Best: %s", results[best].Scenario.Name)
	}
	return nil
}

// bestScenario picks the index of the cheapest successful result: fewest
// sheets, or for a sheet budget the largest poster. Earlier scenarios win
// ties. It returns -1 when every scenario failed.
func bestScenario(goal model.Goal, results []engine.ComparisonResult) int {
	best := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := results[best]
		if goal.Kind == model.GoalMaxForSheetBudget {
			if r.Plan.Poster.Area() > b.Plan.Poster.Area()+model.Epsilon {
				best = i
			}
			continue
		}
		if r.SheetsUsed < b.SheetsUsed {
			best = i
		}
	}
	return best
}
