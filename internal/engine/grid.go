package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/PosterCut/internal/model"
)

// LayoutGrid tiles the poster with a uniform grid of full sheets. Tile (r, c)
// starts at (c*pitchW, r*pitchH), so neighbours share an overlap-wide strip
// and the last row and column may hang past the poster edge.
func LayoutGrid(poster model.Size, sheet model.SheetSpec) (model.Layout, error) {
	if err := sheet.Validate(); err != nil {
		return model.Layout{}, err
	}
	if !poster.Valid() {
		return model.Layout{}, fmt.Errorf("%w: %.2f x %.2f", model.ErrInvalidSize, poster.Width, poster.Height)
	}

	pitchW, pitchH := sheet.PitchW(), sheet.PitchH()
	cols := axisCount(poster.Width, pitchW)
	rows := axisCount(poster.Height, pitchH)

	tiles := make([]model.Tile, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			tiles = append(tiles, model.Tile{
				Index: len(tiles),
				Row:   r,
				Col:   c,
				Rect:  model.NewRect(float64(c)*pitchW, float64(r)*pitchH, sheet.PrintableWidth, sheet.PrintableHeight),
			})
		}
	}

	return model.Layout{
		Strategy: model.StrategyGrid,
		Poster:   poster,
		Sheet:    sheet,
		Rows:     rows,
		Cols:     cols,
		Tiles:    tiles,
	}, nil
}

// axisCount is ceil(length / step), tolerant of floating-point noise so
// that an exact fit does not spill onto an extra sheet. It is at least 1.
func axisCount(length, step float64) int {
	return int(axisCountF(length, step))
}

func axisCountF(length, step float64) float64 {
	n := math.Ceil(length/step - model.Epsilon)
	if n < 1 {
		return 1
	}
	return n
}
