package engine

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/PosterCut/internal/model"
)

// Optimizer resolves goals and lays out posters for one set of output settings.
type Optimizer struct {
	Settings model.LayoutSettings
	Logger   *log.Logger
}

func New(settings model.LayoutSettings) *Optimizer {
	return &Optimizer{Settings: settings}
}

// WithLogger attaches a logger for debug output about layout decisions.
func (o *Optimizer) WithLogger(l *log.Logger) *Optimizer {
	o.Logger = l
	return o
}

func (o *Optimizer) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// Plan resolves the goal against the source page and lays out the poster.
// With AllowRotate the sheets are also tried in landscape, and landscape is
// kept only when it is strictly better: fewer sheets for size goals, a
// larger poster for a sheet budget.
func (o *Optimizer) Plan(goal model.Goal, source model.Size) (model.Plan, error) {
	paper, err := o.Settings.PaperSize()
	if err != nil {
		return model.Plan{}, err
	}
	sheet, err := o.Settings.SheetSpec()
	if err != nil {
		return model.Plan{}, err
	}

	portrait, err := o.plan(goal, source, paper, o.Settings.Borders, sheet, model.Portrait)
	if err != nil {
		return model.Plan{}, err
	}
	if !o.Settings.AllowRotate {
		return portrait, nil
	}

	landscape, err := o.plan(goal, source, paper, o.Settings.Borders.Rotate(), sheet.Rotate(), model.Landscape)
	if err != nil {
		return model.Plan{}, err
	}
	if landscapeWins(goal, portrait, landscape) {
		o.logger().Debug("landscape sheets win",
			"portrait", portrait.SheetCount(), "landscape", landscape.SheetCount())
		return landscape, nil
	}
	return portrait, nil
}

func (o *Optimizer) plan(goal model.Goal, source model.Size, paper model.PaperSize, borders model.Insets, sheet model.SheetSpec, orient model.Orientation) (model.Plan, error) {
	poster, err := Resolve(goal, source, sheet)
	if err != nil {
		return model.Plan{}, err
	}
	layout, err := o.layout(poster, sheet)
	if err != nil {
		return model.Plan{}, err
	}
	o.logger().Debug("planned",
		"orientation", orient,
		"poster", poster.String(),
		"strategy", layout.Strategy,
		"rows", layout.Rows,
		"cols", layout.Cols,
		"sheets", layout.SheetCount())

	return model.Plan{
		Goal:        goal,
		Source:      source,
		Poster:      poster,
		Scale:       poster.Width / source.Width,
		Paper:       paper,
		Borders:     borders,
		Orientation: orient,
		Layout:      layout,
	}, nil
}

func (o *Optimizer) layout(poster model.Size, sheet model.SheetSpec) (model.Layout, error) {
	switch o.Settings.Strategy {
	case model.StrategyGrid:
		return LayoutGrid(poster, sheet)
	case model.StrategyComplex:
		return LayoutComplex(poster, sheet)
	default:
		return SelectLayout(poster, sheet)
	}
}

// landscapeWins compares two plans for the same goal.
func landscapeWins(goal model.Goal, portrait, landscape model.Plan) bool {
	if goal.Kind == model.GoalMaxForSheetBudget {
		pa, la := portrait.Poster.Area(), landscape.Poster.Area()
		if la > pa*(1+model.Epsilon) {
			return true
		}
		if la < pa*(1-model.Epsilon) {
			return false
		}
	}
	return landscape.SheetCount() < portrait.SheetCount()
}

// JobResult is the outcome of planning one job of a batch.
type JobResult struct {
	Job  model.Job
	Plan model.Plan
	Err  error
}

// PlanProject plans every job of a project concurrently. Results come back
// in job order; a failing job records its error and does not stop the rest.
// Cancelling ctx stops jobs that have not started yet.
func PlanProject(ctx context.Context, p model.Project, logger *log.Logger) ([]JobResult, error) {
	results := make([]JobResult, len(p.Jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, job := range p.Jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			opt := New(p.SettingsFor(job)).WithLogger(logger)
			plan, err := opt.Plan(job.Goal, job.Source)
			if err != nil {
				err = fmt.Errorf("job %q: %w", job.Label, err)
			}
			results[i] = JobResult{Job: job, Plan: plan, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
