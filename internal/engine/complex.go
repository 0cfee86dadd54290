package engine

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/PosterCut/internal/model"
)

// LayoutComplex looks for a tiling with fewer sheets than the grid by
// splitting each axis into n cells of free length instead of fixed pitches.
//
// For each axis, counts from ceil(L/printable) up to the grid count are
// considered. A count is realised by either an equal split (every cell L/n)
// or a balanced split (edge cells longer by overlap/2 so every tile has the
// same extent). Tiles are their cells grown by overlap/2 across every
// interior edge and never across a poster edge, so neighbours share an
// overlap-wide strip and no tile leaves the poster. A candidate whose tiles
// exceed the sheet is rejected.
//
// Horizontal bands and vertical bands give the same uniform candidates, so
// the search runs over (rows, cols) pairs directly. When no pair beats the
// grid, the grid layout is returned unchanged.
func LayoutComplex(poster model.Size, sheet model.SheetSpec) (model.Layout, error) {
	return complexLayouter{workers: runtime.GOMAXPROCS(0)}.layout(poster, sheet)
}

// complexLayouter carries the evaluation parallelism; one worker evaluates
// candidates in order.
type complexLayouter struct {
	workers int
}

// candidate is one (rows, cols) pair under evaluation.
type candidate struct {
	rows, cols int
	rowPlan    axisPlan
	colPlan    axisPlan
	err        error
}

func (c candidate) sheets() int {
	return c.rows * c.cols
}

// equalSplit reports whether both axes use the equal split.
func (c candidate) equalSplit() bool {
	return c.rowPlan.split == model.SplitEqual && c.colPlan.split == model.SplitEqual
}

func (cl complexLayouter) layout(poster model.Size, sheet model.SheetSpec) (model.Layout, error) {
	grid, err := LayoutGrid(poster, sheet)
	if err != nil {
		return model.Layout{}, err
	}

	minRows := axisCount(poster.Height, sheet.PrintableHeight)
	minCols := axisCount(poster.Width, sheet.PrintableWidth)

	var cands []candidate
	for r := minRows; r <= grid.Rows; r++ {
		for c := minCols; c <= grid.Cols; c++ {
			if r*c < grid.SheetCount() {
				cands = append(cands, candidate{rows: r, cols: c})
			}
		}
	}
	if len(cands) == 0 {
		return grid, nil
	}

	cache := newSplitCache()
	evaluate := func(i int) {
		c := &cands[i]
		c.rowPlan, c.err = cache.best(c.rows, poster.Height, sheet.PrintableHeight, sheet.Overlap)
		if c.err != nil {
			return
		}
		c.colPlan, c.err = cache.best(c.cols, poster.Width, sheet.PrintableWidth, sheet.Overlap)
	}

	if cl.workers <= 1 {
		for i := range cands {
			evaluate(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(cl.workers)
		for i := range cands {
			g.Go(func() error {
				evaluate(i)
				return nil
			})
		}
		_ = g.Wait() // evaluate reports through cands[i].err
	}

	best := -1
	for i, c := range cands {
		if c.err != nil {
			continue
		}
		if best < 0 || better(c, cands[best]) {
			best = i
		}
	}
	if best < 0 {
		return grid, nil
	}

	return buildComplex(poster, sheet, cands[best]), nil
}

// better orders candidates: fewer sheets, then equal splits, then fewer rows.
func better(a, b candidate) bool {
	if a.sheets() != b.sheets() {
		return a.sheets() < b.sheets()
	}
	if a.equalSplit() != b.equalSplit() {
		return a.equalSplit()
	}
	return a.rows < b.rows
}

func buildComplex(poster model.Size, sheet model.SheetSpec, c candidate) model.Layout {
	tiles := make([]model.Tile, 0, c.sheets())
	for r := 0; r < c.rows; r++ {
		for col := 0; col < c.cols; col++ {
			tiles = append(tiles, model.Tile{
				Index: len(tiles),
				Row:   r,
				Col:   col,
				Rect: model.NewRect(
					c.colPlan.starts[col], c.rowPlan.starts[r],
					c.colPlan.extents[col], c.rowPlan.extents[r],
				),
			})
		}
	}
	return model.Layout{
		Strategy: model.StrategyComplex,
		Poster:   poster,
		Sheet:    sheet,
		Rows:     c.rows,
		Cols:     c.cols,
		RowSplit: c.rowPlan.split,
		ColSplit: c.colPlan.split,
		Tiles:    tiles,
	}
}

// axisPlan is one way of cutting a poster axis into n overlapping tiles.
type axisPlan struct {
	n       int
	split   model.Split
	starts  []float64
	extents []float64
}

// splitKey identifies one per-axis feasibility question.
type splitKey struct {
	n         int
	length    float64
	printable float64
	overlap   float64
	split     model.Split
}

type splitEntry struct {
	plan axisPlan
	err  error
}

// splitCache memoises axis splits for a single LayoutComplex call. Pairs
// share their row and column questions, so each is answered once.
type splitCache struct {
	mu      sync.Mutex
	entries map[splitKey]splitEntry
}

func newSplitCache() *splitCache {
	return &splitCache{entries: make(map[splitKey]splitEntry)}
}

// best returns the equal split of n cells if it fits, else the balanced one.
func (sc *splitCache) best(n int, length, printable, overlap float64) (axisPlan, error) {
	plan, err := sc.get(splitKey{n: n, length: length, printable: printable, overlap: overlap, split: model.SplitEqual})
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, model.ErrInfeasible) {
		return axisPlan{}, err
	}
	return sc.get(splitKey{n: n, length: length, printable: printable, overlap: overlap, split: model.SplitBalanced})
}

func (sc *splitCache) get(key splitKey) (axisPlan, error) {
	sc.mu.Lock()
	e, ok := sc.entries[key]
	sc.mu.Unlock()
	if ok {
		return e.plan, e.err
	}

	plan, err := splitAxis(key)

	sc.mu.Lock()
	sc.entries[key] = splitEntry{plan: plan, err: err}
	sc.mu.Unlock()
	return plan, err
}

// splitAxis cuts [0, length] into key.n tiles. It returns ErrInfeasible when
// a tile would exceed the printable length or the overlap would push a tile
// past the poster edge.
func splitAxis(key splitKey) (axisPlan, error) {
	n := key.n
	if n < 1 {
		return axisPlan{}, fmt.Errorf("%w: %d tiles", model.ErrInfeasible, n)
	}
	half := key.overlap / 2
	plan := axisPlan{
		n:       n,
		split:   key.split,
		starts:  make([]float64, n),
		extents: make([]float64, n),
	}

	switch key.split {
	case model.SplitEqual:
		cell := key.length / float64(n)
		if n > 1 && cell < half {
			return axisPlan{}, fmt.Errorf("%w: %d cells of %.3f cannot carry a %.3f overlap",
				model.ErrInfeasible, n, cell, key.overlap)
		}
		for i := 0; i < n; i++ {
			lo := float64(i) * cell
			hi := float64(i+1) * cell
			if i > 0 {
				lo -= half
			}
			if i < n-1 {
				hi += half
			} else {
				hi = key.length
			}
			plan.starts[i] = lo
			plan.extents[i] = hi - lo
		}
	case model.SplitBalanced:
		extent := (key.length + float64(n-1)*key.overlap) / float64(n)
		step := extent - key.overlap
		if n > 1 && step <= 0 {
			return axisPlan{}, fmt.Errorf("%w: %d tiles of %.3f do not advance past a %.3f overlap",
				model.ErrInfeasible, n, extent, key.overlap)
		}
		for i := 0; i < n; i++ {
			plan.starts[i] = float64(i) * step
			plan.extents[i] = extent
		}
		plan.extents[n-1] = key.length - plan.starts[n-1]
	default:
		return axisPlan{}, fmt.Errorf("unknown split %q", key.split)
	}

	for i, ext := range plan.extents {
		if ext > key.printable+model.Epsilon {
			return axisPlan{}, fmt.Errorf("%w: tile %d of %d is %.3f long, sheet allows %.3f",
				model.ErrInfeasible, i+1, n, ext, key.printable)
		}
	}
	return plan, nil
}
