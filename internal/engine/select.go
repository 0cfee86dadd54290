package engine

import "github.com/piwi3910/PosterCut/internal/model"

// SelectLayout runs both layouters and returns the one with fewer sheets.
// On a tie the grid wins since it is simpler to print and assemble.
func SelectLayout(poster model.Size, sheet model.SheetSpec) (model.Layout, error) {
	grid, err := LayoutGrid(poster, sheet)
	if err != nil {
		return model.Layout{}, err
	}
	complexLayout, err := LayoutComplex(poster, sheet)
	if err != nil {
		return model.Layout{}, err
	}
	if complexLayout.SheetCount() < grid.SheetCount() {
		return complexLayout, nil
	}
	return grid, nil
}
