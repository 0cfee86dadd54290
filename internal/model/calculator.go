package model

// PrintEstimate holds the paper and assembly figures for one layout.
type PrintEstimate struct {
	Sheets        int     `json:"sheets"`         // Physical sheets to print
	PaperArea     float64 `json:"paper_area"`     // Printable area of all sheets (sq mm)
	PosterArea    float64 `json:"poster_area"`    // Poster area (sq mm)
	OverlapArea   float64 `json:"overlap_area"`   // Area printed twice for gluing (sq mm)
	WastedArea    float64 `json:"wasted_area"`    // Printable area past the poster edge (sq mm)
	Efficiency    float64 `json:"efficiency"`     // Poster area / paper area, percent
	GlueLength    float64 `json:"glue_length"`    // Total length of glued seams (mm)
	PricePerSheet float64 `json:"price_per_sheet"` // Price used for estimation
	EstimatedCost float64 `json:"estimated_cost"` // Sheets x price
}

// sqmmPerSqm is the number of square millimetres in a square metre.
const sqmmPerSqm = 1e6

// PaperSquareMetres returns PaperArea in square metres.
func (e PrintEstimate) PaperSquareMetres() float64 {
	return e.PaperArea / sqmmPerSqm
}

// CalculatePrintEstimate computes paper use, glue seams and cost for a
// layout. Seams are counted once per pair of neighbouring tiles, along the
// part of the shared edge that lies on the poster.
func CalculatePrintEstimate(layout Layout, pricePerSheet float64) PrintEstimate {
	sheets := layout.SheetCount()
	paper := layout.PaperArea()
	poster := layout.Poster.Area()
	posterRect := layout.PosterRect()

	var glue, overlap float64
	for i := range layout.Tiles {
		for j := i + 1; j < len(layout.Tiles); j++ {
			a, b := layout.Tiles[i], layout.Tiles[j]
			if !adjacent(a, b) {
				continue
			}
			shared, ok := a.Rect.Intersect(b.Rect)
			if !ok {
				continue
			}
			onPoster, ok := shared.Intersect(posterRect)
			if !ok {
				continue
			}
			overlap += onPoster.Area()
			if a.Row == b.Row {
				glue += onPoster.Height
			} else {
				glue += onPoster.Width
			}
		}
	}

	est := PrintEstimate{
		Sheets:        sheets,
		PaperArea:     paper,
		PosterArea:    poster,
		OverlapArea:   overlap,
		WastedArea:    layout.WastedArea(),
		GlueLength:    glue,
		PricePerSheet: pricePerSheet,
		EstimatedCost: float64(sheets) * pricePerSheet,
	}
	if paper > 0 {
		est.Efficiency = poster / paper * 100.0
	}
	return est
}

// adjacent reports whether two tiles are direct row or column neighbours.
func adjacent(a, b Tile) bool {
	dr := a.Row - b.Row
	dc := a.Col - b.Col
	return (dr == 0 && (dc == 1 || dc == -1)) || (dc == 0 && (dr == 1 || dr == -1))
}
