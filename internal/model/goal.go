package model

import (
	"fmt"
	"strings"
)

// GoalKind selects how the poster size is derived from the source page.
type GoalKind string

const (
	GoalFixedSize         GoalKind = "size"  // Exact poster size
	GoalFitWithin         GoalKind = "fit"   // Largest source-aspect size inside a bound
	GoalAreaMultiple      GoalKind = "mult"  // N times the source page area
	GoalMaxForSheetBudget GoalKind = "pages" // Largest poster printable on N sheets
)

func (k GoalKind) String() string {
	switch k {
	case GoalFixedSize:
		return "Fixed size"
	case GoalFitWithin:
		return "Fit within"
	case GoalAreaMultiple:
		return "Area multiple"
	case GoalMaxForSheetBudget:
		return "Sheet budget"
	default:
		return "Unknown"
	}
}

// ParseGoalKind accepts the short names used in job files and CSV imports.
func ParseGoalKind(s string) (GoalKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "size", "fixed", "fixedsize":
		return GoalFixedSize, nil
	case "fit", "fitwithin":
		return GoalFitWithin, nil
	case "mult", "multiple", "area", "areamultiple":
		return GoalAreaMultiple, nil
	case "pages", "sheets", "npages", "budget":
		return GoalMaxForSheetBudget, nil
	}
	return "", fmt.Errorf("%w: unknown goal mode %q", ErrInvalidGoal, s)
}

// Goal is a tagged union of the ways a user can ask for a poster size.
// Only the fields belonging to Kind are meaningful.
type Goal struct {
	Kind   GoalKind `json:"kind" yaml:"kind" toml:"kind"`
	Size   Size     `json:"size,omitzero" yaml:"size,omitempty" toml:"size,omitempty"`
	Factor float64  `json:"factor,omitempty" yaml:"factor,omitempty" toml:"factor,omitempty"`
	Sheets int      `json:"sheets,omitempty" yaml:"sheets,omitempty" toml:"sheets,omitempty"`
}

// FixedSize asks for a poster of exactly the given size.
func FixedSize(size Size) Goal {
	return Goal{Kind: GoalFixedSize, Size: size}
}

// FitWithin asks for the largest poster with the source aspect ratio that
// fits inside bounds.
func FitWithin(bounds Size) Goal {
	return Goal{Kind: GoalFitWithin, Size: bounds}
}

// AreaMultiple asks for a poster whose area is factor times the source area.
func AreaMultiple(factor float64) Goal {
	return Goal{Kind: GoalAreaMultiple, Factor: factor}
}

// MaxForSheetBudget asks for the largest poster a grid of at most sheets
// sheets can print.
func MaxForSheetBudget(sheets int) Goal {
	return Goal{Kind: GoalMaxForSheetBudget, Sheets: sheets}
}

// Validate checks the parameter of the selected variant.
func (g Goal) Validate() error {
	switch g.Kind {
	case GoalFixedSize, GoalFitWithin:
		if !g.Size.Valid() {
			return fmt.Errorf("%w: %s needs positive dimensions, got %.2f x %.2f",
				ErrInvalidGoal, g.Kind, g.Size.Width, g.Size.Height)
		}
	case GoalAreaMultiple:
		if !positive(g.Factor) {
			return fmt.Errorf("%w: area factor must be a positive number, got %g", ErrInvalidGoal, g.Factor)
		}
	case GoalMaxForSheetBudget:
		if g.Sheets < 1 {
			return fmt.Errorf("%w: sheet budget must be at least 1, got %d", ErrInvalidGoal, g.Sheets)
		}
	default:
		return fmt.Errorf("%w: unknown goal kind %q", ErrInvalidGoal, g.Kind)
	}
	return nil
}

func (g Goal) String() string {
	switch g.Kind {
	case GoalFixedSize:
		return fmt.Sprintf("size %.1f x %.1f mm", g.Size.Width, g.Size.Height)
	case GoalFitWithin:
		return fmt.Sprintf("fit within %.1f x %.1f mm", g.Size.Width, g.Size.Height)
	case GoalAreaMultiple:
		return fmt.Sprintf("%g x source area", g.Factor)
	case GoalMaxForSheetBudget:
		return fmt.Sprintf("at most %d sheets", g.Sheets)
	default:
		return string(g.Kind)
	}
}
