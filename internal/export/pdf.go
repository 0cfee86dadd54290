// Package export writes poster plans to assembly documents, tile labels,
// spreadsheets, CAD drawings and JSON.
package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PosterCut/internal/model"
)

// ErrEmptyPlan is returned when a plan has no tiles to export.
var ErrEmptyPlan = errors.New("plan has no tiles")

// Options carries the job context printed next to a plan.
type Options struct {
	Title         string  // Job label shown in headers
	PricePerSheet float64 // Used for the print estimate
}

func (o Options) title() string {
	if o.Title == "" {
		return "Poster"
	}
	return o.Title
}

// tileColor is an RGB fill for a tile.
type tileColor struct {
	R, G, B int
}

// tileColors cycles so that neighbouring tiles stay distinguishable.
var tileColors = []tileColor{
	{R: 200, G: 230, B: 201}, // green
	{R: 187, G: 222, B: 251}, // blue
	{R: 255, G: 224, B: 178}, // orange
	{R: 225, G: 190, B: 231}, // purple
	{R: 178, G: 235, B: 242}, // cyan
	{R: 255, G: 205, B: 210}, // red
}

// colorFor keeps a checkerboard so row and column neighbours never share a
// colour.
func colorFor(t model.Tile) tileColor {
	return tileColors[(t.Row*2+t.Col)%len(tileColors)]
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes the assembly plan: an overview of the poster with every
// tile numbered, one page per tile showing where it sits and which strips
// are glued under its neighbours, and a summary page with the estimate.
func ExportPDF(path string, plan model.Plan, opts Options) error {
	if plan.SheetCount() == 0 {
		return fmt.Errorf("export pdf: %w", ErrEmptyPlan)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(opts.title(), false)

	pdf.AddPage()
	renderOverviewPage(pdf, plan, opts)

	for _, tile := range plan.Layout.Tiles {
		pdf.AddPage()
		renderTilePage(pdf, plan, tile)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, plan, opts)

	return pdf.OutputFileAndClose(path)
}

// canvas maps poster millimetres onto a box of the current page.
type canvas struct {
	scale, offsetX, offsetY float64
	w, h                    float64
}

func fitCanvas(poster model.Size, x, y, maxW, maxH float64) canvas {
	scale := math.Min(maxW/poster.Width, maxH/poster.Height)
	c := canvas{scale: scale, w: poster.Width * scale, h: poster.Height * scale}
	c.offsetX = x + (maxW-c.w)/2
	c.offsetY = y
	return c
}

func (c canvas) rect(r model.Rect) (x, y, w, h float64) {
	return c.offsetX + r.X*c.scale, c.offsetY + r.Y*c.scale, r.Width * c.scale, r.Height * c.scale
}

func renderOverviewPage(pdf *fpdf.Fpdf, plan model.Plan, opts Options) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s: %.0f x %.0f mm poster", opts.title(), plan.Poster.Width, plan.Poster.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("%d sheets of %s %s | %d x %d %s layout | Overlap: %.1f mm | Scale: %.3f",
		plan.SheetCount(), plan.Paper.Name, plan.Orientation, plan.Layout.Rows, plan.Layout.Cols,
		plan.Layout.Strategy, plan.Layout.Sheet.Overlap, plan.Scale)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	c := fitCanvas(plan.Poster, marginLeft, drawAreaTop, drawWidth, drawHeight)

	// Tiles are clipped to the poster so overhang does not hide the outline.
	poster := plan.Layout.PosterRect()
	for _, t := range plan.Layout.Tiles {
		clip, ok := t.Rect.Intersect(poster)
		if !ok {
			continue
		}
		col := colorFor(t)
		x, y, w, h := c.rect(clip)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(120, 120, 120)
		pdf.SetLineWidth(0.2)
		pdf.Rect(x, y, w, h, "FD")
	}

	for _, t := range plan.Layout.Tiles {
		for _, strip := range overlapStrips(plan.Layout, t) {
			x, y, w, h := c.rect(strip)
			pdf.SetDrawColor(200, 0, 0)
			pdf.SetLineWidth(0.15)
			pdf.SetDashPattern([]float64{1, 1}, 0)
			pdf.Rect(x, y, w, h, "D")
			pdf.SetDashPattern([]float64{}, 0)
		}
	}

	for _, t := range plan.Layout.Tiles {
		clip, ok := t.Rect.Intersect(poster)
		if !ok {
			continue
		}
		x, y, w, h := c.rect(clip)
		label := fmt.Sprintf("%d", t.Index+1)
		pdf.SetFont("Helvetica", "B", labelFontSize(w, h)+4)
		pdf.SetTextColor(0, 0, 0)
		lw := pdf.GetStringWidth(label)
		if lw < w-2 && h > 8 {
			pdf.SetXY(x+(w-lw)/2, y+h/2-4)
			pdf.CellFormat(lw, 5, label, "", 0, "C", false, 0, "")
		}
		if h > 16 {
			pdf.SetFont("Helvetica", "", labelFontSize(w, h))
			pos := t.Label()
			pw := pdf.GetStringWidth(pos)
			if pw < w-2 {
				pdf.SetXY(x+(w-pw)/2, y+h/2+1)
				pdf.CellFormat(pw, 4, pos, "", 0, "C", false, 0, "")
			}
		}
	}

	// Poster outline on top.
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.6)
	pdf.Rect(c.offsetX, c.offsetY, c.w, c.h, "D")

	drawDimensionAnnotations(pdf, plan.Poster, c)
}

// renderTilePage draws a miniature of the poster with one tile highlighted,
// followed by the numbers needed to place it.
func renderTilePage(pdf *fpdf.Fpdf, plan model.Plan, tile model.Tile) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Sheet %d of %d: %s", tile.Index+1, plan.SheetCount(), tile.Label())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	drawW := (pageWidth - marginLeft - marginRight) * 0.55
	drawH := pageHeight - drawAreaTop - marginBottom - statsHeight
	c := fitCanvas(plan.Poster, marginLeft, drawAreaTop, drawW, drawH)

	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.4)
	pdf.Rect(c.offsetX, c.offsetY, c.w, c.h, "FD")

	pdf.SetDrawColor(190, 190, 190)
	pdf.SetLineWidth(0.1)
	for _, t := range plan.Layout.Tiles {
		x, y, w, h := c.rect(t.Rect)
		pdf.Rect(x, y, w, h, "D")
	}

	col := colorFor(tile)
	x, y, w, h := c.rect(tile.Rect)
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.5)
	pdf.Rect(x, y, w, h, "FD")

	for _, strip := range overlapStrips(plan.Layout, tile) {
		sx, sy, sw, sh := c.rect(strip)
		pdf.SetFillColor(255, 200, 200)
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.2)
		pdf.Rect(sx, sy, sw, sh, "FD")
		drawHatchPattern(pdf, sx, sy, sw, sh)
	}

	drawDimensionAnnotations(pdf, plan.Poster, c)

	visible, _ := tile.Rect.Intersect(plan.Layout.PosterRect())
	infoX := marginLeft + drawW + 10
	infoY := drawAreaTop
	items := []struct {
		label string
		value string
	}{
		{"Row / Column", fmt.Sprintf("%d / %d", tile.Row+1, tile.Col+1)},
		{"Position", fmt.Sprintf("%.1f, %.1f mm", tile.Rect.X, tile.Rect.Y)},
		{"Tile extent", fmt.Sprintf("%.1f x %.1f mm", tile.Rect.Width, tile.Rect.Height)},
		{"Printed part", fmt.Sprintf("%.1f x %.1f mm", visible.Width, visible.Height)},
		{"Paper", fmt.Sprintf("%s %s", plan.Paper.Name, plan.Orientation)},
		{"Overlap", fmt.Sprintf("%.1f mm", plan.Layout.Sheet.Overlap)},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(infoX, infoY)
		pdf.CellFormat(35, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		infoY += 7
	}

	infoY += 4
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(infoX, infoY)
	pdf.CellFormat(80, 6, "Glue under neighbours:", "", 0, "L", false, 0, "")
	infoY += 7
	pdf.SetFont("Helvetica", "", 9)
	neighbours := neighbourLabels(plan.Layout, tile)
	if len(neighbours) == 0 {
		pdf.SetXY(infoX+5, infoY)
		pdf.CellFormat(80, 5, "none (single sheet)", "", 0, "L", false, 0, "")
	}
	for _, n := range neighbours {
		pdf.SetXY(infoX+5, infoY)
		pdf.CellFormat(80, 5, "- "+n, "", 0, "L", false, 0, "")
		infoY += 5
	}

	pdf.SetTextColor(0, 0, 0)
}

// overlapStrips returns the parts of a tile that are printed again by its
// direct neighbours, clipped to the poster.
func overlapStrips(layout model.Layout, tile model.Tile) []model.Rect {
	poster := layout.PosterRect()
	var strips []model.Rect
	for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		n, ok := layout.TileAt(tile.Row+d[0], tile.Col+d[1])
		if !ok {
			continue
		}
		shared, ok := tile.Rect.Intersect(n.Rect)
		if !ok {
			continue
		}
		if onPoster, ok := shared.Intersect(poster); ok {
			strips = append(strips, onPoster)
		}
	}
	return strips
}

func neighbourLabels(layout model.Layout, tile model.Tile) []string {
	var out []string
	for _, d := range []struct {
		dr, dc int
		side   string
	}{{-1, 0, "top"}, {0, 1, "right"}, {1, 0, "bottom"}, {0, -1, "left"}} {
		if n, ok := layout.TileAt(tile.Row+d.dr, tile.Col+d.dc); ok {
			out = append(out, fmt.Sprintf("%s: sheet %d (%s)", d.side, n.Index+1, n.Label()))
		}
	}
	return out
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark glue strips.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.1)

	spacing := 2.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations labels the poster width below and its height to
// the left of the canvas.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, poster model.Size, c canvas) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", poster.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(c.offsetX+(c.w-wLabelW)/2, c.offsetY+c.h+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f mm", poster.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, c.offsetX-3, c.offsetY+c.h/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(c.offsetX-3-hLabelW/2, c.offsetY+c.h/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

func renderSummaryPage(pdf *fpdf.Fpdf, plan model.Plan, opts Options) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Print Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	est := model.CalculatePrintEstimate(plan.Layout, opts.PricePerSheet)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Poster", "", 0, "L", false, 0, "")
	y += 9

	y = renderKeyValues(pdf, y, []keyValue{
		{"Goal", plan.Goal.String()},
		{"Source", fmt.Sprintf("%.1f x %.1f mm", plan.Source.Width, plan.Source.Height)},
		{"Poster", fmt.Sprintf("%.1f x %.1f mm", plan.Poster.Width, plan.Poster.Height)},
		{"Area multiple", fmt.Sprintf("%.2f", plan.Multiplier())},
		{"Layout", fmt.Sprintf("%s, %d x %d", plan.Layout.Strategy, plan.Layout.Rows, plan.Layout.Cols)},
	})
	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Print Estimate", "", 0, "L", false, 0, "")
	y += 9

	y = renderKeyValues(pdf, y, []keyValue{
		{"Sheets", fmt.Sprintf("%d x %s", est.Sheets, plan.Paper.Name)},
		{"Paper used", fmt.Sprintf("%.3f sq m", est.PaperSquareMetres())},
		{"Efficiency", fmt.Sprintf("%.1f%%", est.Efficiency)},
		{"Overlap area", fmt.Sprintf("%.0f sq mm", est.OverlapArea)},
		{"Wasted area", fmt.Sprintf("%.0f sq mm", est.WastedArea)},
		{"Glue seams", fmt.Sprintf("%.0f mm", est.GlueLength)},
		{"Estimated cost", fmt.Sprintf("%.2f (%.2f per sheet)", est.EstimatedCost, est.PricePerSheet)},
	})
	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Tiles", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 25, 50, 50, 50}
	headers := []string{"Sheet", "Tile", "Position", "Extent", "Printed part"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	poster := plan.Layout.PosterRect()
	for i, t := range plan.Layout.Tiles {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		visible, _ := t.Rect.Intersect(poster)
		row := []string{
			fmt.Sprintf("%d", t.Index+1),
			t.Label(),
			fmt.Sprintf("%.1f, %.1f", t.Rect.X, t.Rect.Y),
			fmt.Sprintf("%.1f x %.1f", t.Rect.Width, t.Rect.Height),
			fmt.Sprintf("%.1f x %.1f", visible.Width, visible.Height),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PosterCut", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

type keyValue struct {
	label string
	value string
}

func renderKeyValues(pdf *fpdf.Fpdf, y float64, items []keyValue) float64 {
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	return y
}

// labelFontSize returns a font size that suits a rectangle of the given size.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
