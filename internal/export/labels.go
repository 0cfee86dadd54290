package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PosterCut/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each tile label's QR code.
type LabelInfo struct {
	Job    string  `json:"job"`
	Tile   string  `json:"tile"`
	Sheet  int     `json:"sheet"` // 1-based print order
	Of     int     `json:"of"`
	Row    int     `json:"row"` // 1-based
	Col    int     `json:"col"` // 1-based
	X      float64 `json:"x_mm"`
	Y      float64 `json:"y_mm"`
	Width  float64 `json:"width_mm"`
	Height float64 `json:"height_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels writes one label per tile, to be stuck on the back of each
// printed sheet. A label shows the tile position and carries a QR code with
// the tile metadata as JSON.
func ExportLabels(path string, plan model.Plan, opts Options) error {
	labels := CollectLabelInfos(plan, opts)
	if len(labels) == 0 {
		return fmt.Errorf("export labels: %w", ErrEmptyPlan)
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("render label %s: %w", label.Tile, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", info.Sheet)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 5, fmt.Sprintf("%d / %d  %s", info.Sheet, info.Of, info.Tile), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+6)
	pdf.CellFormat(textW, 3.5, truncate(pdf, info.Job, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+10)
	pdf.CellFormat(textW, 3, fmt.Sprintf("@ (%.0f, %.0f) mm", info.X, info.Y), "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+labelPadding+13.5)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%.0f x %.0f mm", info.Width, info.Height), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// CollectLabelInfos lists the label data for every tile in print order.
func CollectLabelInfos(plan model.Plan, opts Options) []LabelInfo {
	tiles := plan.Layout.Tiles
	if len(tiles) == 0 {
		return nil
	}
	labels := make([]LabelInfo, 0, len(tiles))
	for _, t := range tiles {
		labels = append(labels, LabelInfo{
			Job:    opts.title(),
			Tile:   t.Label(),
			Sheet:  t.Index + 1,
			Of:     len(tiles),
			Row:    t.Row + 1,
			Col:    t.Col + 1,
			X:      t.Rect.X,
			Y:      t.Rect.Y,
			Width:  t.Rect.Width,
			Height: t.Rect.Height,
		})
	}
	return labels
}
