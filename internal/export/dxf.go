package export

import (
	"fmt"

	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// DXF layer names.
const (
	LayerPoster  = "POSTER"
	LayerTiles   = "TILES"
	LayerOverlap = "OVERLAP"
	LayerLabels  = "LABELS"
)

// ExportDXF writes the poster outline, the visible part of every tile and
// the glue strips as closed polylines on separate layers, with the tile
// number as text. DXF has its y axis pointing up, so poster coordinates are
// flipped about the poster height.
func ExportDXF(path string, plan model.Plan) error {
	if plan.SheetCount() == 0 {
		return fmt.Errorf("export dxf: %w", ErrEmptyPlan)
	}

	d := dxf.NewDrawing()
	for _, l := range []struct {
		name string
		cl   color.ColorNumber
	}{
		{LayerPoster, color.White},
		{LayerTiles, color.Cyan},
		{LayerOverlap, color.Red},
		{LayerLabels, color.Yellow},
	} {
		if _, err := d.AddLayer(l.name, l.cl, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("export dxf: layer %s: %w", l.name, err)
		}
	}

	height := plan.Poster.Height
	poster := plan.Layout.PosterRect()
	rect := func(r model.Rect) error {
		_, err := d.LwPolyline(true,
			[]float64{r.X, height - r.Y},
			[]float64{r.Right(), height - r.Y},
			[]float64{r.Right(), height - r.Bottom()},
			[]float64{r.X, height - r.Bottom()},
		)
		return err
	}

	if err := d.ChangeLayer(LayerPoster); err != nil {
		return fmt.Errorf("export dxf: %w", err)
	}
	if err := rect(poster); err != nil {
		return fmt.Errorf("export dxf: poster outline: %w", err)
	}

	if err := d.ChangeLayer(LayerTiles); err != nil {
		return fmt.Errorf("export dxf: %w", err)
	}
	for _, t := range plan.Layout.Tiles {
		clip, ok := t.Rect.Intersect(poster)
		if !ok {
			continue
		}
		if err := rect(clip); err != nil {
			return fmt.Errorf("export dxf: tile %s: %w", t.Label(), err)
		}
	}

	if err := d.ChangeLayer(LayerOverlap); err != nil {
		return fmt.Errorf("export dxf: %w", err)
	}
	for _, s := range uniqueStrips(plan.Layout) {
		if err := rect(s); err != nil {
			return fmt.Errorf("export dxf: overlap strip: %w", err)
		}
	}

	if err := d.ChangeLayer(LayerLabels); err != nil {
		return fmt.Errorf("export dxf: %w", err)
	}
	for _, t := range plan.Layout.Tiles {
		clip, ok := t.Rect.Intersect(poster)
		if !ok {
			continue
		}
		textH := min(clip.Width, clip.Height) / 8
		x := clip.X + clip.Width/2 - textH/2
		y := height - (clip.Y + clip.Height/2) - textH/2
		if _, err := d.Text(fmt.Sprintf("%d", t.Index+1), x, y, 0, textH); err != nil {
			return fmt.Errorf("export dxf: label %s: %w", t.Label(), err)
		}
	}

	return d.SaveAs(path)
}

// uniqueStrips returns every glue strip once, walking each tile's right and
// bottom neighbour only.
func uniqueStrips(layout model.Layout) []model.Rect {
	poster := layout.PosterRect()
	var strips []model.Rect
	for _, t := range layout.Tiles {
		for _, d := range [][2]int{{0, 1}, {1, 0}} {
			n, ok := layout.TileAt(t.Row+d[0], t.Col+d[1])
			if !ok {
				continue
			}
			shared, ok := t.Rect.Intersect(n.Rect)
			if !ok {
				continue
			}
			if s, ok := shared.Intersect(poster); ok {
				strips = append(strips, s)
			}
		}
	}
	return strips
}
