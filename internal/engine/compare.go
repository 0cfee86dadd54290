package engine

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/PosterCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.LayoutSettings
}

// ComparisonResult holds the plan and computed statistics for a single
// scenario. Err is set when the scenario could not be planned.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Plan       model.Plan
	SheetsUsed int
	WastedArea float64
	Efficiency float64
	Estimate   model.PrintEstimate
	Err        error
}

// CompareScenarios plans the same goal under each scenario and returns the
// results in scenario order. Scenarios are planned concurrently.
func CompareScenarios(scenarios []ComparisonScenario, goal model.Goal, source model.Size) []ComparisonResult {
	results := make([]ComparisonResult, len(scenarios))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, scenario := range scenarios {
		g.Go(func() error {
			res := ComparisonResult{Scenario: scenario}
			plan, err := New(scenario.Settings).Plan(goal, source)
			if err != nil {
				res.Err = err
				results[i] = res
				return nil
			}
			res.Plan = plan
			res.SheetsUsed = plan.SheetCount()
			res.WastedArea = plan.Layout.WastedArea()
			res.Efficiency = plan.Layout.Efficiency()
			res.Estimate = model.CalculatePrintEstimate(plan.Layout, scenario.Settings.PricePerSheet)
			results[i] = res
			return nil
		})
	}
	_ = g.Wait() // scenarios report through results[i].Err

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(baseSettings model.LayoutSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	// Scenario: each layouter on its own
	if baseSettings.Strategy != model.StrategyGrid {
		grid := baseSettings
		grid.Strategy = model.StrategyGrid
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Grid Only",
			Settings: grid,
		})
	}
	if baseSettings.Strategy != model.StrategyComplex {
		cx := baseSettings
		cx.Strategy = model.StrategyComplex
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Complex Only",
			Settings: cx,
		})
	}

	// Scenario: flip sheet rotation
	rot := baseSettings
	rot.AllowRotate = !baseSettings.AllowRotate
	name := "Portrait Only"
	if rot.AllowRotate {
		name = "Allow Landscape"
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     name,
		Settings: rot,
	})

	// Scenario: narrower glue strip
	if baseSettings.Overlap > 1.0 {
		narrow := baseSettings
		narrow.Overlap = baseSettings.Overlap * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Overlap %.1fmm (half)", narrow.Overlap),
			Settings: narrow,
		})
	}

	// Scenario: borderless printing
	if baseSettings.Borders != (model.Insets{}) {
		borderless := baseSettings
		borderless.Borders = model.Insets{}
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Borders",
			Settings: borderless,
		})
	}

	return scenarios
}
