package engine

import "github.com/piwi3910/PosterCut/internal/model"

// MapTiles tells a renderer, for every tile of the plan, which rectangle of
// the source page to draw and where it lands on the output page. Tile parts
// hanging past the poster edge are clipped away, and the placement is
// shifted by the page borders so content starts at the printable area.
func MapTiles(plan model.Plan) []model.TileMapping {
	if !plan.Poster.Valid() || !plan.Source.Valid() {
		return nil
	}
	page := plan.PageSize()
	poster := plan.Layout.PosterRect()
	sx := plan.Source.Width / plan.Poster.Width
	sy := plan.Source.Height / plan.Poster.Height

	mappings := make([]model.TileMapping, 0, len(plan.Layout.Tiles))
	for _, t := range plan.Layout.Tiles {
		clip, ok := t.Rect.Intersect(poster)
		if !ok {
			continue
		}
		mappings = append(mappings, model.TileMapping{
			Tile: t,
			Source: model.Rect{
				X:      clip.X * sx,
				Y:      clip.Y * sy,
				Width:  clip.Width * sx,
				Height: clip.Height * sy,
			},
			Target: clip.Translate(plan.Borders.Left-t.Rect.X, plan.Borders.Top-t.Rect.Y),
			Page:   page,
		})
	}
	return mappings
}
