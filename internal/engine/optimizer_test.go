package engine

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTestSettings() model.LayoutSettings {
	// A4 with 20 mm borders: 170 x 257 printable, 10 mm overlap.
	return model.DefaultSettings()
}

func TestSelectLayout_TieReturnsGrid(t *testing.T) {
	poster := model.NewSize(420, 594)
	grid, err := LayoutGrid(poster, testSheet)
	require.NoError(t, err)

	selected, err := SelectLayout(poster, testSheet)
	require.NoError(t, err)
	assert.Equal(t, grid, selected)
}

func TestSelectLayout_PicksFewerSheets(t *testing.T) {
	poster := model.NewSize(385, 270)
	selected, err := SelectLayout(poster, testSheet)
	require.NoError(t, err)
	assert.Equal(t, model.StrategyComplex, selected.Strategy)
	assert.Equal(t, 2, selected.SheetCount())
}

func TestSelectLayout_IsMinimumOfBoth(t *testing.T) {
	for w := 100.0; w < 1200; w += 97.3 {
		for h := 100.0; h < 1200; h += 131.1 {
			poster := model.NewSize(w, h)
			grid, err := LayoutGrid(poster, testSheet)
			require.NoError(t, err)
			cx, err := LayoutComplex(poster, testSheet)
			require.NoError(t, err)
			selected, err := SelectLayout(poster, testSheet)
			require.NoError(t, err)

			assert.Equal(t, min(grid.SheetCount(), cx.SheetCount()), selected.SheetCount())
			if grid.SheetCount() == cx.SheetCount() {
				assert.Equal(t, grid.Tiles, selected.Tiles)
			}
		}
	}
}

func TestSelectLayout_DegenerateSheet(t *testing.T) {
	_, err := SelectLayout(model.NewSize(500, 500), model.NewSheetSpec(200, 280, 200))
	assert.ErrorIs(t, err, model.ErrDegenerateSheet)
}

func TestOptimizer_PlanPrefersLandscapeWhenCheaper(t *testing.T) {
	opt := New(defaultTestSettings())

	plan, err := opt.Plan(model.AreaMultiple(4), a4())
	require.NoError(t, err)

	// Portrait 170x257 needs 3x3; landscape 257x170 needs 2 columns x 4 rows.
	assert.Equal(t, model.Landscape, plan.Orientation)
	assert.Equal(t, 8, plan.SheetCount())
	assert.InDelta(t, 2.0, plan.Scale, tol)
	assert.InDelta(t, 4.0, plan.Multiplier(), tol)
	assert.Equal(t, model.NewSize(297, 210), plan.PageSize())
	assert.Equal(t, 257.0, plan.Layout.Sheet.PrintableWidth)
}

func TestOptimizer_PlanPortraitOnly(t *testing.T) {
	s := defaultTestSettings()
	s.AllowRotate = false

	plan, err := New(s).Plan(model.AreaMultiple(4), a4())
	require.NoError(t, err)
	assert.Equal(t, model.Portrait, plan.Orientation)
	assert.Equal(t, 9, plan.SheetCount())
	assert.Equal(t, "A4", plan.Paper.Name)
}

func TestOptimizer_PlanStrategies(t *testing.T) {
	s := defaultTestSettings()
	s.AllowRotate = false
	s.SheetSize = &model.Size{Width: 200, Height: 280}
	s.Borders = model.Insets{}

	s.Strategy = model.StrategyGrid
	grid, err := New(s).Plan(model.FixedSize(model.NewSize(385, 270)), a4())
	require.NoError(t, err)
	assert.Equal(t, 3, grid.SheetCount())

	s.Strategy = model.StrategyComplex
	cx, err := New(s).Plan(model.FixedSize(model.NewSize(385, 270)), a4())
	require.NoError(t, err)
	assert.Equal(t, 2, cx.SheetCount())

	s.Strategy = model.StrategyAuto
	auto, err := New(s).Plan(model.FixedSize(model.NewSize(385, 270)), a4())
	require.NoError(t, err)
	assert.Equal(t, 2, auto.SheetCount())
}

func TestOptimizer_PlanBudgetRespectsLimit(t *testing.T) {
	for _, strategy := range []model.Strategy{model.StrategyGrid, model.StrategyComplex, model.StrategyAuto} {
		s := defaultTestSettings()
		s.Strategy = strategy
		for n := 1; n <= 12; n++ {
			plan, err := New(s).Plan(model.MaxForSheetBudget(n), a4())
			require.NoError(t, err)
			assert.LessOrEqual(t, plan.SheetCount(), n, "strategy %s budget %d", strategy, n)
			assert.InDelta(t, a4().AspectRatio(), plan.Poster.AspectRatio(), 1e-9)
		}
	}
}

func TestOptimizer_PlanBudgetPicksLargerPoster(t *testing.T) {
	s := defaultTestSettings()
	s.AllowRotate = false
	portrait, err := New(s).Plan(model.MaxForSheetBudget(6), a4())
	require.NoError(t, err)

	s.AllowRotate = true
	best, err := New(s).Plan(model.MaxForSheetBudget(6), a4())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, best.Poster.Area(), portrait.Poster.Area())
}

func TestOptimizer_PlanErrors(t *testing.T) {
	s := defaultTestSettings()
	_, err := New(s).Plan(model.FixedSize(model.NewSize(0, 100)), a4())
	assert.ErrorIs(t, err, model.ErrInvalidGoal)

	s.Overlap = 170
	_, err = New(s).Plan(model.AreaMultiple(2), a4())
	assert.ErrorIs(t, err, model.ErrDegenerateSheet)

	s = defaultTestSettings()
	s.Paper = "Napkin"
	_, err = New(s).Plan(model.AreaMultiple(2), a4())
	assert.Error(t, err)
}

func TestOptimizer_LogsDecisions(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	_, err := New(defaultTestSettings()).WithLogger(logger).Plan(model.AreaMultiple(4), a4())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "landscape sheets win")
}

func TestPlanProject(t *testing.T) {
	p := model.NewProject()
	p.Jobs = []model.Job{
		model.NewJob("four", a4(), model.AreaMultiple(4)),
		model.NewJob("broken", a4(), model.AreaMultiple(-1)),
		model.NewJob("budget", model.NewSize(148, 210), model.MaxForSheetBudget(3)),
	}
	p.Jobs[2].Paper = "A3"

	results, err := PlanProject(context.Background(), p, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "four", results[0].Job.Label)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 8, results[0].Plan.SheetCount())

	assert.ErrorIs(t, results[1].Err, model.ErrInvalidGoal)
	assert.Contains(t, results[1].Err.Error(), "broken")

	assert.NoError(t, results[2].Err)
	assert.Equal(t, "A3", results[2].Plan.Paper.Name)
	assert.LessOrEqual(t, results[2].Plan.SheetCount(), 3)
}

func TestPlanProject_Cancelled(t *testing.T) {
	p := model.NewProject()
	p.Jobs = []model.Job{model.NewJob("a", a4(), model.AreaMultiple(2))}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PlanProject(ctx, p, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapTiles(t *testing.T) {
	s := defaultTestSettings()
	s.AllowRotate = false
	s.Strategy = model.StrategyGrid
	plan, err := New(s).Plan(model.AreaMultiple(4), a4())
	require.NoError(t, err)

	maps := MapTiles(plan)
	require.Len(t, maps, plan.SheetCount())

	first := maps[0]
	assert.Equal(t, model.NewRect(0, 0, 85, 128.5), first.Source)
	assert.Equal(t, model.NewRect(20, 20, 170, 257), first.Target)
	assert.Equal(t, model.NewSize(210, 297), first.Page)

	// The bottom-right tile hangs past the poster and is clipped.
	last := maps[len(maps)-1]
	assert.Equal(t, 2, last.Tile.Row)
	assert.Equal(t, 2, last.Tile.Col)
	assert.InDelta(t, 160.0, last.Source.X, tol)
	assert.InDelta(t, 247.0, last.Source.Y, tol)
	assert.InDelta(t, 50.0, last.Source.Width, tol)
	assert.InDelta(t, 50.0, last.Source.Height, tol)
	assert.InDelta(t, 20.0, last.Target.X, tol)
	assert.InDelta(t, 100.0, last.Target.Width, tol)
	assert.InDelta(t, 100.0, last.Target.Height, tol)

	// Source clips stay on the source page.
	page := model.NewRect(0, 0, a4().Width, a4().Height)
	for _, m := range maps {
		assert.True(t, page.Contains(m.Source), "tile %s", m.Tile.Label())
	}
}

func TestMapTiles_EmptyPlan(t *testing.T) {
	assert.Nil(t, MapTiles(model.Plan{}))
}

func TestCompareScenarios(t *testing.T) {
	base := defaultTestSettings()
	scenarios := BuildDefaultScenarios(base)

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	assert.Equal(t, []string{
		"Current Settings", "Grid Only", "Complex Only", "Portrait Only", "Overlap 5.0mm (half)", "No Borders",
	}, names)

	results := CompareScenarios(scenarios, model.AreaMultiple(4), a4())
	require.Len(t, results, len(scenarios))
	for i, r := range results {
		assert.Equal(t, scenarios[i].Name, r.Scenario.Name)
		assert.NoError(t, r.Err)
		assert.Positive(t, r.SheetsUsed)
		assert.Equal(t, r.SheetsUsed, r.Estimate.Sheets)
	}
	assert.Equal(t, 8, results[0].SheetsUsed)
	assert.Equal(t, 9, results[3].SheetsUsed)
}

func TestCompareScenarios_RecordsErrors(t *testing.T) {
	bad := defaultTestSettings()
	bad.Paper = "Napkin"
	results := CompareScenarios([]ComparisonScenario{{Name: "bad", Settings: bad}}, model.AreaMultiple(2), a4())
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestBuildDefaultScenarios_GridBase(t *testing.T) {
	base := defaultTestSettings()
	base.Strategy = model.StrategyGrid
	base.AllowRotate = false
	base.Overlap = 0
	base.Borders = model.Insets{}

	scenarios := BuildDefaultScenarios(base)
	require.Len(t, scenarios, 3)
	assert.Equal(t, "Complex Only", scenarios[1].Name)
	assert.Equal(t, "Allow Landscape", scenarios[2].Name)
	assert.True(t, scenarios[2].Settings.AllowRotate)
}
