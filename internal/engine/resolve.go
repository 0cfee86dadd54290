package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/PosterCut/internal/model"
)

const (
	// maxDoublings bounds the search for an upper scale in MaxForSheetBudget.
	maxDoublings = 1024
	// bisectIterations is enough to drive the bracket down to adjacent floats.
	bisectIterations = 200
)

// Resolve turns a goal into a concrete poster size for the given source
// page. The sheet is only consulted by MaxForSheetBudget.
func Resolve(goal model.Goal, source model.Size, sheet model.SheetSpec) (model.Size, error) {
	if err := goal.Validate(); err != nil {
		return model.Size{}, err
	}
	if !source.Valid() {
		return model.Size{}, fmt.Errorf("%w: source page must have positive dimensions, got %.2f x %.2f",
			model.ErrInvalidGoal, source.Width, source.Height)
	}

	switch goal.Kind {
	case model.GoalFixedSize:
		return goal.Size, nil
	case model.GoalFitWithin:
		return source.FitWithin(goal.Size), nil
	case model.GoalAreaMultiple:
		return source.Scale(math.Sqrt(goal.Factor)), nil
	case model.GoalMaxForSheetBudget:
		if err := sheet.Validate(); err != nil {
			return model.Size{}, err
		}
		return source.Scale(maxScaleForBudget(source, sheet, goal.Sheets)), nil
	}
	// Validate rejects every other kind.
	return model.Size{}, fmt.Errorf("%w: unknown goal kind %q", model.ErrInvalidGoal, goal.Kind)
}

// maxScaleForBudget finds the largest s such that a grid over s*source needs
// at most budget sheets. The grid count is a non-decreasing step function of
// s, so the bracket [lo, hi] with count(lo) <= budget < count(hi) is bisected
// and the result snapped onto the step edge the bracket converged to.
func maxScaleForBudget(source model.Size, sheet model.SheetSpec, budget int) float64 {
	limit := float64(budget)
	fits := func(s float64) bool {
		return gridSheets(source.Scale(s), sheet) <= limit
	}

	lo, hi := 0.0, 1.0
	for i := 0; fits(hi) && i < maxDoublings; i++ {
		lo = hi
		hi *= 2
	}

	for i := 0; i < bisectIterations; i++ {
		mid := lo + (hi-lo)/2
		if mid <= lo || mid >= hi {
			break
		}
		if fits(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}

	// lo sits just below the step edge. The edge itself is where the first
	// axis of lo's grid becomes exactly full.
	cols := axisCount(lo*source.Width, sheet.PitchW())
	rows := axisCount(lo*source.Height, sheet.PitchH())
	return math.Min(
		float64(cols)*sheet.PitchW()/source.Width,
		float64(rows)*sheet.PitchH()/source.Height,
	)
}

// gridSheets is the grid sheet count as a float so that huge trial scales
// during the doubling phase cannot overflow an int.
func gridSheets(poster model.Size, sheet model.SheetSpec) float64 {
	return axisCountF(poster.Width, sheet.PitchW()) * axisCountF(poster.Height, sheet.PitchH())
}

// GridSheetCount returns the number of sheets LayoutGrid would emit,
// without building the tiles.
func GridSheetCount(poster model.Size, sheet model.SheetSpec) (int, error) {
	if err := sheet.Validate(); err != nil {
		return 0, err
	}
	if !poster.Valid() {
		return 0, fmt.Errorf("%w: %.2f x %.2f", model.ErrInvalidSize, poster.Width, poster.Height)
	}
	return axisCount(poster.Width, sheet.PitchW()) * axisCount(poster.Height, sheet.PitchH()), nil
}
