package model

import (
	"math"
	"testing"
)

// twoByOne is a 2 column, 1 row grid of 100x100 sheets with 10 mm overlap
// covering a 180x100 poster exactly.
func twoByOne() Layout {
	return Layout{
		Poster: NewSize(180, 100),
		Sheet:  NewSheetSpec(100, 100, 10),
		Rows:   1,
		Cols:   2,
		Tiles: []Tile{
			{Index: 0, Row: 0, Col: 0, Rect: NewRect(0, 0, 100, 100)},
			{Index: 1, Row: 0, Col: 1, Rect: NewRect(80, 0, 100, 100)},
		},
	}
}

func TestCalculatePrintEstimateBasic(t *testing.T) {
	est := CalculatePrintEstimate(twoByOne(), 0.25)

	if est.Sheets != 2 {
		t.Errorf("expected 2 sheets, got %d", est.Sheets)
	}
	if math.Abs(est.PaperArea-20000) > 1e-9 {
		t.Errorf("expected paper area 20000, got %f", est.PaperArea)
	}
	if math.Abs(est.PosterArea-18000) > 1e-9 {
		t.Errorf("expected poster area 18000, got %f", est.PosterArea)
	}
	// One vertical seam 20 mm wide (the tiles overlap 80..100) and 100 mm long.
	if math.Abs(est.GlueLength-100) > 1e-9 {
		t.Errorf("expected glue length 100, got %f", est.GlueLength)
	}
	if math.Abs(est.OverlapArea-2000) > 1e-9 {
		t.Errorf("expected overlap area 2000, got %f", est.OverlapArea)
	}
	if math.Abs(est.Efficiency-90) > 1e-9 {
		t.Errorf("expected efficiency 90%%, got %f", est.Efficiency)
	}
	if math.Abs(est.EstimatedCost-0.5) > 1e-9 {
		t.Errorf("expected cost 0.50, got %f", est.EstimatedCost)
	}
}

func TestCalculatePrintEstimateEmptyLayout(t *testing.T) {
	est := CalculatePrintEstimate(Layout{}, 1)
	if est.Sheets != 0 || est.Efficiency != 0 || est.EstimatedCost != 0 {
		t.Errorf("expected zero estimate, got %+v", est)
	}
}

func TestCalculatePrintEstimateSkipsDiagonalNeighbours(t *testing.T) {
	l := Layout{
		Poster: NewSize(180, 180),
		Sheet:  NewSheetSpec(100, 100, 10),
		Rows:   2,
		Cols:   2,
		Tiles: []Tile{
			{Index: 0, Row: 0, Col: 0, Rect: NewRect(0, 0, 100, 100)},
			{Index: 1, Row: 0, Col: 1, Rect: NewRect(80, 0, 100, 100)},
			{Index: 2, Row: 1, Col: 0, Rect: NewRect(0, 80, 100, 100)},
			{Index: 3, Row: 1, Col: 1, Rect: NewRect(80, 80, 100, 100)},
		},
	}
	est := CalculatePrintEstimate(l, 0)
	// Four seams of 100 mm each; the diagonal pairs share only a corner patch.
	if math.Abs(est.GlueLength-400) > 1e-9 {
		t.Errorf("expected glue length 400, got %f", est.GlueLength)
	}
	if est.PaperSquareMetres() <= 0 {
		t.Error("expected positive paper square metres")
	}
}
