package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

// assertCovers checks that the row-major tiles of a layout leave no gap on
// the poster and that neighbours share exactly one overlap strip.
func assertCovers(t *testing.T, l model.Layout) {
	t.Helper()
	require.Equal(t, l.Rows*l.Cols, l.SheetCount(), "tile count must match rows x cols")

	for r := 0; r < l.Rows; r++ {
		first, ok := l.TileAt(r, 0)
		require.True(t, ok)
		assert.LessOrEqual(t, first.Rect.X, tol, "row %d must start at the left edge", r)

		for c := 1; c < l.Cols; c++ {
			prev, _ := l.TileAt(r, c-1)
			cur, ok := l.TileAt(r, c)
			require.True(t, ok)
			assert.InDelta(t, l.Sheet.Overlap, prev.Rect.Right()-cur.Rect.X, tol,
				"horizontal overlap between %s and %s", prev.Label(), cur.Label())
		}
		last, _ := l.TileAt(r, l.Cols-1)
		assert.GreaterOrEqual(t, last.Rect.Right(), l.Poster.Width-tol, "row %d must reach the right edge", r)
	}

	for c := 0; c < l.Cols; c++ {
		first, _ := l.TileAt(0, c)
		assert.LessOrEqual(t, first.Rect.Y, tol)
		for r := 1; r < l.Rows; r++ {
			prev, _ := l.TileAt(r-1, c)
			cur, _ := l.TileAt(r, c)
			assert.InDelta(t, l.Sheet.Overlap, prev.Rect.Bottom()-cur.Rect.Y, tol,
				"vertical overlap between %s and %s", prev.Label(), cur.Label())
		}
		last, _ := l.TileAt(l.Rows-1, c)
		assert.GreaterOrEqual(t, last.Rect.Bottom(), l.Poster.Height-tol, "column %d must reach the bottom edge", c)
	}

	assert.InEpsilon(t, l.Poster.Area(), l.CoveredArea(), 1e-9, "tiles must cover the whole poster")
}

// assertFitsSheet checks every tile against the printable area.
func assertFitsSheet(t *testing.T, l model.Layout) {
	t.Helper()
	for _, tile := range l.Tiles {
		assert.LessOrEqual(t, tile.Rect.Width, l.Sheet.PrintableWidth+tol, "tile %s too wide", tile.Label())
		assert.LessOrEqual(t, tile.Rect.Height, l.Sheet.PrintableHeight+tol, "tile %s too high", tile.Label())
	}
}

func a4() model.Size {
	return model.NewSize(210, 297)
}

func nearly(a, b float64) bool {
	return math.Abs(a-b) <= tol
}
