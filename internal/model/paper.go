package model

import "strings"

// PaperSize is a named output medium in mm, portrait orientation.
type PaperSize struct {
	Name        string  `json:"name" yaml:"name" toml:"name"`
	Description string  `json:"description" yaml:"description" toml:"description"`
	Width       float64 `json:"width" yaml:"width" toml:"width"`
	Height      float64 `json:"height" yaml:"height" toml:"height"`
	IsBuiltIn   bool    `json:"-" yaml:"-" toml:"-"`
}

// Size returns the paper dimensions.
func (p PaperSize) Size() Size {
	return Size{Width: p.Width, Height: p.Height}
}

// Sheet derives the sheet spec for this paper after removing the borders
// that the printer cannot reach.
func (p PaperSize) Sheet(borders Insets, overlap float64) SheetSpec {
	return SheetSpec{
		PrintableWidth:  p.Width - borders.Horizontal(),
		PrintableHeight: p.Height - borders.Vertical(),
		Overlap:         overlap,
	}
}

// PaperSizes are the built-in media.
var PaperSizes = []PaperSize{
	{Name: "A0", Description: "84.1 cm x 118.9 cm", Width: 841, Height: 1189, IsBuiltIn: true},
	{Name: "A1", Description: "59.4 cm x 84.1 cm", Width: 594, Height: 841, IsBuiltIn: true},
	{Name: "A2", Description: "42.0 cm x 59.4 cm", Width: 420, Height: 594, IsBuiltIn: true},
	{Name: "A3", Description: "29.7 cm x 42.0 cm", Width: 297, Height: 420, IsBuiltIn: true},
	{Name: "A4", Description: "21.0 cm x 29.7 cm", Width: 210, Height: 297, IsBuiltIn: true},
	{Name: "A5", Description: "14.8 cm x 21.0 cm", Width: 148, Height: 210, IsBuiltIn: true},
	{Name: "Letter", Description: "8.5 in x 11 in", Width: 215.9, Height: 279.4, IsBuiltIn: true},
	{Name: "Legal", Description: "8.5 in x 14 in", Width: 215.9, Height: 355.6, IsBuiltIn: true},
	{Name: "Tabloid", Description: "11 in x 17 in", Width: 279.4, Height: 431.8, IsBuiltIn: true},
}

// CustomPapers holds user-defined media loaded from disk.
var CustomPapers []PaperSize

// AllPapers returns built-in papers followed by custom ones.
func AllPapers() []PaperSize {
	all := make([]PaperSize, 0, len(PaperSizes)+len(CustomPapers))
	all = append(all, PaperSizes...)
	all = append(all, CustomPapers...)
	return all
}

// GetPaper looks up a paper by name, ignoring case.
func GetPaper(name string) (PaperSize, bool) {
	for _, p := range AllPapers() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return PaperSize{}, false
}

// GetPaperNames returns the names of all papers.
func GetPaperNames() []string {
	all := AllPapers()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}

// FindPaperBySize returns the paper matching w x h in either orientation.
func FindPaperBySize(w, h float64) (PaperSize, bool) {
	const tol = 0.5
	for _, p := range AllPapers() {
		if (near(p.Width, w, tol) && near(p.Height, h, tol)) || (near(p.Width, h, tol) && near(p.Height, w, tol)) {
			return p, true
		}
	}
	return PaperSize{}, false
}

func near(a, b, tol float64) bool {
	d := a - b
	return d <= tol && d >= -tol
}

// PointsPerInch and MMPerInch relate PDF user space units to mm.
const (
	PointsPerInch = 72.0
	MMPerInch     = 25.4
)

// MMToPt converts millimetres to PDF points.
func MMToPt(mm float64) float64 {
	return mm * PointsPerInch / MMPerInch
}

// PtToMM converts PDF points to millimetres.
func PtToMM(pt float64) float64 {
	return pt * MMPerInch / PointsPerInch
}
