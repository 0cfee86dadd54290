package model

import (
	"fmt"
	"math"
	"sort"
)

// Epsilon absorbs floating-point noise in layout arithmetic. All lengths are
// in mm, so anything below it is far beyond print precision.
const Epsilon = 1e-9

// Size is a width and height in mm.
type Size struct {
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
}

func NewSize(w, h float64) Size {
	return Size{Width: w, Height: h}
}

// Valid reports whether both dimensions are positive and finite.
func (s Size) Valid() bool {
	return positive(s.Width) && positive(s.Height)
}

// positive reports whether v is a finite number above zero. NaN fails.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func (s Size) Area() float64 {
	return s.Width * s.Height
}

// Scale multiplies both dimensions by f.
func (s Size) Scale(f float64) Size {
	return Size{Width: s.Width * f, Height: s.Height * f}
}

// Rotate swaps width and height.
func (s Size) Rotate() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// AspectRatio returns width / height.
func (s Size) AspectRatio() float64 {
	if s.Height == 0 {
		return 0
	}
	return s.Width / s.Height
}

// FitWithin returns the largest size with the aspect ratio of s that fits
// inside bounds. The width is tried first; if that overflows the height,
// the height becomes the binding dimension.
func (s Size) FitWithin(bounds Size) Size {
	w := bounds.Width
	h := w * s.Height / s.Width
	if h > bounds.Height {
		h = bounds.Height
		w = h * s.Width / s.Height
	}
	return Size{Width: w, Height: h}
}

func (s Size) String() string {
	return fmt.Sprintf("%.1f x %.1f mm", s.Width, s.Height)
}

// Insets holds a per-edge distance in mm, used for page borders.
type Insets struct {
	Top    float64 `json:"top" yaml:"top" toml:"top"`
	Right  float64 `json:"right" yaml:"right" toml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom" toml:"bottom"`
	Left   float64 `json:"left" yaml:"left" toml:"left"`
}

// UniformInsets returns insets of v on every edge.
func UniformInsets(v float64) Insets {
	return Insets{Top: v, Right: v, Bottom: v, Left: v}
}

// Horizontal returns Left + Right.
func (i Insets) Horizontal() float64 {
	return i.Left + i.Right
}

// Vertical returns Top + Bottom.
func (i Insets) Vertical() float64 {
	return i.Top + i.Bottom
}

// Rotate turns the insets a quarter clockwise, matching a page that is
// rotated from portrait into landscape.
func (i Insets) Rotate() Insets {
	return Insets{Top: i.Left, Right: i.Top, Bottom: i.Right, Left: i.Bottom}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner
// of the poster.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }
func (r Rect) Area() float64   { return r.Width * r.Height }

func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Intersect returns the overlapping region of r and o. The boolean is false
// when they do not overlap with a positive area.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.Right(), o.Right())
	y1 := math.Min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Contains reports whether o lies entirely within r, up to Epsilon.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X-Epsilon && o.Y >= r.Y-Epsilon &&
		o.Right() <= r.Right()+Epsilon && o.Bottom() <= r.Bottom()+Epsilon
}

// Inset shrinks r by the given insets.
func (r Rect) Inset(in Insets) Rect {
	return Rect{
		X:      r.X + in.Left,
		Y:      r.Y + in.Top,
		Width:  r.Width - in.Horizontal(),
		Height: r.Height - in.Vertical(),
	}
}

// Expand grows r by the given insets.
func (r Rect) Expand(in Insets) Rect {
	return Rect{
		X:      r.X - in.Left,
		Y:      r.Y - in.Top,
		Width:  r.Width + in.Horizontal(),
		Height: r.Height + in.Vertical(),
	}
}

// Translate shifts r by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Scale multiplies position and size by f.
func (r Rect) Scale(f float64) Rect {
	return Rect{X: r.X * f, Y: r.Y * f, Width: r.Width * f, Height: r.Height * f}
}

// SheetSpec describes the printable area of one output sheet and the glue
// overlap shared by neighbouring tiles.
type SheetSpec struct {
	PrintableWidth  float64 `json:"printable_width" yaml:"printable_width" toml:"printable_width"`
	PrintableHeight float64 `json:"printable_height" yaml:"printable_height" toml:"printable_height"`
	Overlap         float64 `json:"overlap" yaml:"overlap" toml:"overlap"`
}

func NewSheetSpec(w, h, overlap float64) SheetSpec {
	return SheetSpec{PrintableWidth: w, PrintableHeight: h, Overlap: overlap}
}

// PitchW is the horizontal advance of one grid tile.
func (s SheetSpec) PitchW() float64 {
	return s.PrintableWidth - s.Overlap
}

// PitchH is the vertical advance of one grid tile.
func (s SheetSpec) PitchH() float64 {
	return s.PrintableHeight - s.Overlap
}

// Printable returns the printable area as a Size.
func (s SheetSpec) Printable() Size {
	return Size{Width: s.PrintableWidth, Height: s.PrintableHeight}
}

// Rotate swaps the printable dimensions; the overlap is unchanged.
func (s SheetSpec) Rotate() SheetSpec {
	return SheetSpec{PrintableWidth: s.PrintableHeight, PrintableHeight: s.PrintableWidth, Overlap: s.Overlap}
}

// Validate returns ErrDegenerateSheet when either pitch is not positive or
// any dimension is not a finite number.
func (s SheetSpec) Validate() error {
	if !s.Printable().Valid() {
		return fmt.Errorf("%w: printable area %.2f x %.2f", ErrDegenerateSheet, s.PrintableWidth, s.PrintableHeight)
	}
	if !(s.Overlap >= 0) || math.IsInf(s.Overlap, 0) {
		return fmt.Errorf("%w: overlap %.2f", ErrDegenerateSheet, s.Overlap)
	}
	if s.PitchW() <= 0 {
		return fmt.Errorf("%w: overlap %.2f leaves no horizontal pitch on a %.2f mm wide sheet",
			ErrDegenerateSheet, s.Overlap, s.PrintableWidth)
	}
	if s.PitchH() <= 0 {
		return fmt.Errorf("%w: overlap %.2f leaves no vertical pitch on a %.2f mm high sheet",
			ErrDegenerateSheet, s.Overlap, s.PrintableHeight)
	}
	return nil
}

func (s SheetSpec) String() string {
	return fmt.Sprintf("%.1f x %.1f mm, overlap %.1f mm", s.PrintableWidth, s.PrintableHeight, s.Overlap)
}

// Split describes how an axis of a complex layout was divided.
type Split string

const (
	SplitEqual    Split = "equal"    // Every cell has the same length
	SplitBalanced Split = "balanced" // Every tile has the same length
)

// Tile is the part of the poster printed on one sheet.
type Tile struct {
	Index int  `json:"index"`
	Row   int  `json:"row"`
	Col   int  `json:"col"`
	Rect  Rect `json:"rect"`
}

// Label returns a human readable position such as "R2C3" (1-based).
func (t Tile) Label() string {
	return fmt.Sprintf("R%dC%d", t.Row+1, t.Col+1)
}

// Layout is an ordered, row-major set of tiles covering a poster.
type Layout struct {
	Strategy Strategy  `json:"strategy"`
	Poster   Size      `json:"poster"`
	Sheet    SheetSpec `json:"sheet"`
	Rows     int       `json:"rows"`
	Cols     int       `json:"cols"`
	RowSplit Split     `json:"row_split,omitempty"`
	ColSplit Split     `json:"col_split,omitempty"`
	Tiles    []Tile    `json:"tiles"`
}

// SheetCount returns the number of sheets the layout prints.
func (l Layout) SheetCount() int {
	return len(l.Tiles)
}

// PosterRect returns the poster bounds in poster coordinates.
func (l Layout) PosterRect() Rect {
	return Rect{Width: l.Poster.Width, Height: l.Poster.Height}
}

// WastedArea sums the tile area that falls outside the poster bounds.
func (l Layout) WastedArea() float64 {
	poster := l.PosterRect()
	var waste float64
	for _, t := range l.Tiles {
		inside := 0.0
		if clip, ok := t.Rect.Intersect(poster); ok {
			inside = clip.Area()
		}
		waste += t.Rect.Area() - inside
	}
	if waste < Epsilon {
		return 0
	}
	return waste
}

// CoveredArea returns the part of the poster that at least one tile
// prints. Overlapping tiles count once, so a complete layout covers
// exactly the poster area.
func (l Layout) CoveredArea() float64 {
	poster := l.PosterRect()
	clips := make([]Rect, 0, len(l.Tiles))
	xs := []float64{0, poster.Width}
	ys := []float64{0, poster.Height}
	for _, t := range l.Tiles {
		clip, ok := t.Rect.Intersect(poster)
		if !ok || clip.Area() < Epsilon {
			continue
		}
		clips = append(clips, clip)
		xs = append(xs, clip.X, clip.Right())
		ys = append(ys, clip.Y, clip.Bottom())
	}
	if len(clips) == 0 {
		return 0
	}
	sort.Float64s(xs)
	sort.Float64s(ys)

	// Sweep the cells between consecutive tile edges; a cell is covered
	// when any clipped tile contains its centre.
	var covered float64
	for i := 1; i < len(xs); i++ {
		w := xs[i] - xs[i-1]
		if w < Epsilon {
			continue
		}
		cx := xs[i-1] + w/2
		for j := 1; j < len(ys); j++ {
			h := ys[j] - ys[j-1]
			if h < Epsilon {
				continue
			}
			cy := ys[j-1] + h/2
			for _, c := range clips {
				if cx > c.X && cx < c.Right() && cy > c.Y && cy < c.Bottom() {
					covered += w * h
					break
				}
			}
		}
	}
	return covered
}

// PaperArea returns the total printable area of all sheets.
func (l Layout) PaperArea() float64 {
	return float64(l.SheetCount()) * l.Sheet.PrintableWidth * l.Sheet.PrintableHeight
}

// Efficiency returns the poster area as a percentage of the printable
// paper area used.
func (l Layout) Efficiency() float64 {
	paper := l.PaperArea()
	if paper == 0 {
		return 0
	}
	return l.Poster.Area() / paper * 100.0
}

// TileAt returns the tile at the given row and column.
func (l Layout) TileAt(row, col int) (Tile, bool) {
	for _, t := range l.Tiles {
		if t.Row == row && t.Col == col {
			return t, true
		}
	}
	return Tile{}, false
}
