package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutGrid_A4TimesFour(t *testing.T) {
	poster, err := Resolve(model.AreaMultiple(4), a4(), testSheet)
	require.NoError(t, err)

	layout, err := LayoutGrid(poster, testSheet)
	require.NoError(t, err)

	// ceil(594/270) = 3 rows, ceil(420/190) = 3 columns.
	assert.Equal(t, 3, layout.Rows)
	assert.Equal(t, 3, layout.Cols)
	assert.Equal(t, 9, layout.SheetCount())
	assert.Equal(t, model.StrategyGrid, layout.Strategy)

	center, ok := layout.TileAt(1, 1)
	require.True(t, ok)
	assert.Equal(t, 4, center.Index)
	assert.InDelta(t, 190.0, center.Rect.X, tol)
	assert.InDelta(t, 270.0, center.Rect.Y, tol)
	assert.Equal(t, 200.0, center.Rect.Width)
	assert.Equal(t, 280.0, center.Rect.Height)

	assertCovers(t, layout)
}

func TestLayoutGrid_RowMajorOrder(t *testing.T) {
	layout, err := LayoutGrid(model.NewSize(500, 500), testSheet)
	require.NoError(t, err)

	for i, tile := range layout.Tiles {
		assert.Equal(t, i, tile.Index)
		assert.Equal(t, i/layout.Cols, tile.Row)
		assert.Equal(t, i%layout.Cols, tile.Col)
	}
}

func TestLayoutGrid_ExactFitDoesNotSpill(t *testing.T) {
	// 2 pitches in each direction, computed the way a caller would.
	poster := model.NewSize(2*testSheet.PitchW(), 2*testSheet.PitchH())
	layout, err := LayoutGrid(poster, testSheet)
	require.NoError(t, err)
	assert.Equal(t, 2, layout.Rows)
	assert.Equal(t, 2, layout.Cols)

	// Floating noise on a value like 0.1*3 must not add a column.
	noisy := model.NewSheetSpec(0.1*3+0.05, 1, 0.05)
	layout, err = LayoutGrid(model.NewSize(0.9, 1), noisy)
	require.NoError(t, err)
	assert.Equal(t, 3, layout.Cols)
}

func TestLayoutGrid_WasteFromOverhang(t *testing.T) {
	layout, err := LayoutGrid(model.NewSize(200, 280), model.NewSheetSpec(200, 280, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, layout.SheetCount())
	assert.Zero(t, layout.WastedArea())

	layout, err = LayoutGrid(model.NewSize(300, 280), model.NewSheetSpec(200, 280, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, layout.SheetCount())
	assert.InDelta(t, 100.0*280.0, layout.WastedArea(), tol)
}

func TestLayoutGrid_Deterministic(t *testing.T) {
	poster := model.NewSize(1234.5, 987.6)
	first, err := LayoutGrid(poster, testSheet)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := LayoutGrid(poster, testSheet)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLayoutGrid_DegenerateSheet(t *testing.T) {
	tests := []struct {
		name  string
		sheet model.SheetSpec
	}{
		{"overlap equals width", model.NewSheetSpec(200, 280, 200)},
		{"overlap exceeds width", model.NewSheetSpec(200, 280, 300)},
		{"NaN overlap", model.NewSheetSpec(200, 280, math.NaN())},
		{"infinite overlap", model.NewSheetSpec(200, 280, math.Inf(1))},
		{"negative infinite overlap", model.NewSheetSpec(200, 280, math.Inf(-1))},
		{"NaN width", model.NewSheetSpec(math.NaN(), 280, 10)},
		{"infinite height", model.NewSheetSpec(200, math.Inf(1), 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := LayoutGrid(model.NewSize(500, 500), tt.sheet)
			if !errors.Is(err, model.ErrDegenerateSheet) {
				t.Errorf("expected ErrDegenerateSheet, got %v (rows %d, cols %d)", err, layout.Rows, layout.Cols)
			}
		})
	}
}

func TestLayoutGrid_InvalidPoster(t *testing.T) {
	_, err := LayoutGrid(model.NewSize(0, 500), testSheet)
	assert.ErrorIs(t, err, model.ErrInvalidSize)
}

func TestGridSheetCountMatchesLayout(t *testing.T) {
	for _, poster := range []model.Size{{Width: 10, Height: 10}, {Width: 420, Height: 594}, {Width: 1900, Height: 2700}, {Width: 1901, Height: 2701}} {
		layout, err := LayoutGrid(poster, testSheet)
		require.NoError(t, err)
		count, err := GridSheetCount(poster, testSheet)
		require.NoError(t, err)
		assert.Equal(t, layout.SheetCount(), count, "poster %v", poster)
	}
}
