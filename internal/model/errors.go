package model

import "errors"

var (
	// ErrInvalidGoal is returned when a goal parameter is non-positive or
	// otherwise out of domain, or the source page size is unusable.
	ErrInvalidGoal = errors.New("invalid goal")

	// ErrDegenerateSheet is returned when the overlap leaves no positive
	// pitch along an axis of the sheet.
	ErrDegenerateSheet = errors.New("degenerate sheet")

	// ErrInvalidSize is returned when a poster size handed to a layouter
	// has a non-positive dimension.
	ErrInvalidSize = errors.New("invalid poster size")

	// ErrInfeasible marks a complex-layout candidate whose tiles would not
	// fit on the sheet. It never leaves the engine package.
	ErrInfeasible = errors.New("candidate does not fit sheet")
)
