package model

import (
	"errors"
	"math"
	"testing"
)

func TestSizeFitWithinKeepsAspect(t *testing.T) {
	src := NewSize(210, 297)

	// Width binds: a wide box is limited by its height.
	got := src.FitWithin(NewSize(1000, 594))
	if math.Abs(got.Height-594) > 1e-9 {
		t.Errorf("expected height 594, got %f", got.Height)
	}
	if math.Abs(got.Width-420) > 1e-9 {
		t.Errorf("expected width 420, got %f", got.Width)
	}

	// Height binds: a tall box is limited by its width.
	got = src.FitWithin(NewSize(420, 5000))
	if math.Abs(got.Width-420) > 1e-9 || math.Abs(got.Height-594) > 1e-9 {
		t.Errorf("expected 420x594, got %v", got)
	}
}

func TestSizeValid(t *testing.T) {
	if !NewSize(1, 1).Valid() {
		t.Error("1x1 should be valid")
	}
	if NewSize(0, 100).Valid() {
		t.Error("zero width should be invalid")
	}
	if NewSize(100, -1).Valid() {
		t.Error("negative height should be invalid")
	}
	if NewSize(math.Inf(1), 1).Valid() {
		t.Error("infinite width should be invalid")
	}
	if NewSize(100, math.NaN()).Valid() {
		t.Error("NaN height should be invalid")
	}
}

func TestRectIntersect(t *testing.T) {
	a := NewRect(0, 0, 100, 100)
	b := NewRect(50, 80, 100, 100)
	got, ok := a.Intersect(b)
	if !ok {
		t.Fatal("expected overlap")
	}
	if got != NewRect(50, 80, 50, 20) {
		t.Errorf("unexpected intersection %+v", got)
	}

	// Touching edges do not overlap.
	if _, ok := a.Intersect(NewRect(100, 0, 10, 10)); ok {
		t.Error("touching rects should not intersect")
	}
}

func TestRectInsetExpandRoundTrip(t *testing.T) {
	r := NewRect(10, 20, 100, 200)
	in := Insets{Top: 1, Right: 2, Bottom: 3, Left: 4}
	if got := r.Inset(in).Expand(in); got != r {
		t.Errorf("expected %+v, got %+v", r, got)
	}
	if !r.Contains(r.Inset(in)) {
		t.Error("inset rect should be contained in the original")
	}
}

func TestInsetsRotateClockwise(t *testing.T) {
	in := Insets{Top: 1, Right: 2, Bottom: 3, Left: 4}
	got := in.Rotate()
	want := Insets{Top: 4, Right: 1, Bottom: 2, Left: 3}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if in.Rotate().Rotate().Rotate().Rotate() != in {
		t.Error("four rotations should be the identity")
	}
}

func TestSheetSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    SheetSpec
		wantErr bool
	}{
		{"normal", NewSheetSpec(200, 280, 10), false},
		{"no overlap", NewSheetSpec(200, 280, 0), false},
		{"overlap equals width", NewSheetSpec(200, 280, 200), true},
		{"overlap exceeds height", NewSheetSpec(300, 280, 290), true},
		{"negative overlap", NewSheetSpec(200, 280, -1), true},
		{"NaN overlap", NewSheetSpec(200, 280, math.NaN()), true},
		{"infinite overlap", NewSheetSpec(200, 280, math.Inf(1)), true},
		{"NaN printable width", NewSheetSpec(math.NaN(), 280, 10), true},
		{"infinite printable height", NewSheetSpec(200, math.Inf(1), 10), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrDegenerateSheet) {
					t.Errorf("expected ErrDegenerateSheet, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLayoutWastedArea(t *testing.T) {
	l := Layout{
		Poster: NewSize(150, 100),
		Sheet:  NewSheetSpec(100, 100, 0),
		Tiles: []Tile{
			{Index: 0, Row: 0, Col: 0, Rect: NewRect(0, 0, 100, 100)},
			{Index: 1, Row: 0, Col: 1, Rect: NewRect(100, 0, 100, 100)},
		},
	}
	if got := l.WastedArea(); math.Abs(got-5000) > 1e-9 {
		t.Errorf("expected waste 5000, got %f", got)
	}
	if l.SheetCount() != 2 {
		t.Errorf("expected 2 sheets, got %d", l.SheetCount())
	}
	if math.Abs(l.Efficiency()-75) > 1e-9 {
		t.Errorf("expected efficiency 75%%, got %f", l.Efficiency())
	}
	if _, ok := l.TileAt(0, 1); !ok {
		t.Error("expected tile at row 0 col 1")
	}
	if _, ok := l.TileAt(1, 0); ok {
		t.Error("did not expect tile at row 1 col 0")
	}
}

func TestLayoutCoveredArea(t *testing.T) {
	// Two overlapping tiles spill past the right edge of a 150x100 poster.
	full := Layout{
		Poster: NewSize(150, 100),
		Sheet:  NewSheetSpec(100, 100, 20),
		Tiles: []Tile{
			{Index: 0, Row: 0, Col: 0, Rect: NewRect(0, 0, 100, 100)},
			{Index: 1, Row: 0, Col: 1, Rect: NewRect(80, 0, 100, 100)},
		},
	}
	if got := full.CoveredArea(); math.Abs(got-15000) > 1e-9 {
		t.Errorf("expected the whole poster (15000) covered, got %f", got)
	}

	// Dropping the second tile leaves a 50x100 strip uncovered.
	partial := full
	partial.Tiles = full.Tiles[:1]
	if got := partial.CoveredArea(); math.Abs(got-10000) > 1e-9 {
		t.Errorf("expected 10000 covered, got %f", got)
	}

	// A tile entirely outside the poster adds nothing.
	outside := full
	outside.Tiles = []Tile{{Rect: NewRect(200, 0, 50, 50)}}
	if got := outside.CoveredArea(); got != 0 {
		t.Errorf("expected nothing covered, got %f", got)
	}

	// Diagonal overlap counts the shared 50x50 square once.
	diag := Layout{
		Poster: NewSize(300, 300),
		Tiles: []Tile{
			{Rect: NewRect(0, 0, 100, 100)},
			{Rect: NewRect(50, 50, 100, 100)},
		},
	}
	if got := diag.CoveredArea(); math.Abs(got-17500) > 1e-9 {
		t.Errorf("expected 17500 covered, got %f", got)
	}
}

func TestTileLabel(t *testing.T) {
	tile := Tile{Row: 1, Col: 2}
	if tile.Label() != "R2C3" {
		t.Errorf("expected R2C3, got %s", tile.Label())
	}
}

func TestGoalValidate(t *testing.T) {
	tests := []struct {
		name    string
		goal    Goal
		wantErr bool
	}{
		{"fixed size", FixedSize(NewSize(500, 700)), false},
		{"fixed zero width", FixedSize(NewSize(0, 100)), true},
		{"fit within", FitWithin(NewSize(500, 700)), false},
		{"fit negative", FitWithin(NewSize(500, -1)), true},
		{"area multiple", AreaMultiple(4), false},
		{"area zero", AreaMultiple(0), true},
		{"area NaN", AreaMultiple(math.NaN()), true},
		{"area infinite", AreaMultiple(math.Inf(1)), true},
		{"fixed NaN width", FixedSize(NewSize(math.NaN(), 100)), true},
		{"budget one", MaxForSheetBudget(1), false},
		{"budget zero", MaxForSheetBudget(0), true},
		{"unknown kind", Goal{Kind: "bogus"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.goal.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidGoal) {
				t.Errorf("expected ErrInvalidGoal, got %v", err)
			}
		})
	}
}

func TestParseGoalKind(t *testing.T) {
	cases := map[string]GoalKind{
		"size":  GoalFixedSize,
		"FIT":   GoalFitWithin,
		"mult":  GoalAreaMultiple,
		"pages": GoalMaxForSheetBudget,
	}
	for in, want := range cases {
		got, err := ParseGoalKind(in)
		if err != nil || got != want {
			t.Errorf("ParseGoalKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseGoalKind("poster"); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("expected ErrInvalidGoal for unknown mode, got %v", err)
	}
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{"": StrategyAuto, "simple": StrategyGrid, "Complex": StrategyComplex} {
		got, err := ParseStrategy(in)
		if err != nil || got != want {
			t.Errorf("ParseStrategy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseStrategy("genetic"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestSettingsSheetSpec(t *testing.T) {
	s := DefaultSettings()
	spec, err := s.SheetSpec()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A4 minus 20 mm on every edge.
	if spec.PrintableWidth != 170 || spec.PrintableHeight != 257 {
		t.Errorf("expected 170x257, got %.1fx%.1f", spec.PrintableWidth, spec.PrintableHeight)
	}
	if spec.Overlap != s.Overlap {
		t.Errorf("expected overlap %.1f, got %.1f", s.Overlap, spec.Overlap)
	}

	s.SheetSize = &Size{Width: 300, Height: 400}
	s.Borders = Insets{}
	spec, err = s.SheetSpec()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.PrintableWidth != 300 || spec.PrintableHeight != 400 {
		t.Errorf("sheet size override ignored: %+v", spec)
	}
}

func TestSettingsSheetSpecErrors(t *testing.T) {
	s := DefaultSettings()
	s.Paper = "B7"
	if _, err := s.SheetSpec(); err == nil {
		t.Error("expected error for unknown paper")
	}

	s = DefaultSettings()
	s.Borders = UniformInsets(120)
	if _, err := s.SheetSpec(); !errors.Is(err, ErrDegenerateSheet) {
		t.Errorf("expected ErrDegenerateSheet for oversized borders, got %v", err)
	}

	s = DefaultSettings()
	s.Borders = UniformInsets(math.NaN())
	if _, err := s.SheetSpec(); !errors.Is(err, ErrDegenerateSheet) {
		t.Errorf("expected ErrDegenerateSheet for NaN borders, got %v", err)
	}

	s = DefaultSettings()
	s.Overlap = math.NaN()
	if _, err := s.SheetSpec(); !errors.Is(err, ErrDegenerateSheet) {
		t.Errorf("expected ErrDegenerateSheet for NaN overlap, got %v", err)
	}
}

func TestProjectSettingsForJobPaper(t *testing.T) {
	p := NewProject()
	p.Settings.SheetSize = &Size{Width: 100, Height: 100}
	job := NewJob("poster", NewSize(210, 297), AreaMultiple(2))
	job.Paper = "A3"

	s := p.SettingsFor(job)
	if s.Paper != "A3" || s.SheetSize != nil {
		t.Errorf("job paper should override project sheet, got %+v", s)
	}
	if p.Settings.SheetSize == nil {
		t.Error("project settings must not be modified")
	}
}

func TestPlanMultiplierAndPageSize(t *testing.T) {
	a4, _ := GetPaper("A4")
	p := Plan{
		Source:      NewSize(210, 297),
		Poster:      NewSize(420, 594),
		Paper:       a4,
		Orientation: Landscape,
	}
	if math.Abs(p.Multiplier()-4) > 1e-9 {
		t.Errorf("expected multiplier 4, got %f", p.Multiplier())
	}
	if p.PageSize() != NewSize(297, 210) {
		t.Errorf("expected landscape A4, got %v", p.PageSize())
	}
}

func TestGetPaper(t *testing.T) {
	p, ok := GetPaper("a3")
	if !ok {
		t.Fatal("expected A3 to be found case-insensitively")
	}
	if p.Width != 297 || p.Height != 420 {
		t.Errorf("unexpected A3 size %v", p.Size())
	}
	if _, ok := GetPaper("A9"); ok {
		t.Error("did not expect A9")
	}
}

func TestCustomPapersIncluded(t *testing.T) {
	CustomPapers = []PaperSize{{Name: "Plotter", Width: 610, Height: 1000}}
	defer func() { CustomPapers = nil }()

	if len(AllPapers()) != len(PaperSizes)+1 {
		t.Errorf("expected %d papers, got %d", len(PaperSizes)+1, len(AllPapers()))
	}
	if _, ok := GetPaper("plotter"); !ok {
		t.Error("expected custom paper lookup to succeed")
	}
	names := GetPaperNames()
	if names[len(names)-1] != "Plotter" {
		t.Errorf("expected custom paper last, got %v", names)
	}
}

func TestFindPaperBySize(t *testing.T) {
	p, ok := FindPaperBySize(297, 210)
	if !ok || p.Name != "A4" {
		t.Errorf("expected landscape A4 match, got %v %v", p.Name, ok)
	}
	if _, ok := FindPaperBySize(123, 456); ok {
		t.Error("did not expect a match for 123x456")
	}
}

func TestPointConversion(t *testing.T) {
	if math.Abs(MMToPt(25.4)-72) > 1e-9 {
		t.Errorf("25.4 mm should be 72 pt, got %f", MMToPt(25.4))
	}
	if math.Abs(PtToMM(595.28)-210.0) > 0.01 {
		t.Errorf("595.28 pt should be about 210 mm, got %f", PtToMM(595.28))
	}
}
