package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Strategy selects which layouter produces the tiling.
type Strategy string

const (
	StrategyAuto    Strategy = "auto"    // Run both layouters, keep the cheaper one (ties go to grid)
	StrategyGrid    Strategy = "grid"    // Uniform grid, simple to assemble
	StrategyComplex Strategy = "complex" // Non-uniform split, may save sheets
)

func (s Strategy) String() string {
	switch s {
	case StrategyGrid:
		return "Grid"
	case StrategyComplex:
		return "Complex"
	default:
		return "Auto"
	}
}

// ParseStrategy accepts "auto", "grid"/"simple" and "complex".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return StrategyAuto, nil
	case "grid", "simple":
		return StrategyGrid, nil
	case "complex", "optimal":
		return StrategyComplex, nil
	}
	return "", fmt.Errorf("unknown layout strategy %q", s)
}

// Orientation of the output sheets.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// LayoutSettings holds the output medium and layouter configuration.
type LayoutSettings struct {
	Paper       string   `json:"paper" yaml:"paper" toml:"paper"`                                           // Paper name, see PaperSizes
	SheetSize   *Size    `json:"sheet_size,omitempty" yaml:"sheet_size,omitempty" toml:"sheet_size,omitempty"` // Overrides Paper when set
	Borders     Insets   `json:"borders" yaml:"borders" toml:"borders"`                                     // Unprintable margin per page edge in mm
	Overlap     float64  `json:"overlap" yaml:"overlap" toml:"overlap"`                                     // Glue overlap between tiles in mm
	Strategy    Strategy `json:"strategy" yaml:"strategy" toml:"strategy"`                                  // auto, grid or complex
	AllowRotate bool     `json:"allow_rotate" yaml:"allow_rotate" toml:"allow_rotate"`                      // Also try landscape sheets

	PricePerSheet float64 `json:"price_per_sheet" yaml:"price_per_sheet" toml:"price_per_sheet"` // For print estimates
}

func DefaultSettings() LayoutSettings {
	return LayoutSettings{
		Paper:         "A4",
		Borders:       UniformInsets(20.0),
		Overlap:       10.0,
		Strategy:      StrategyAuto,
		AllowRotate:   true,
		PricePerSheet: 0.10,
	}
}

// PaperSize resolves the output medium. A SheetSize override wins over the
// named paper.
func (s LayoutSettings) PaperSize() (PaperSize, error) {
	if s.SheetSize != nil {
		if !s.SheetSize.Valid() {
			return PaperSize{}, fmt.Errorf("%w: sheet size %.2f x %.2f", ErrDegenerateSheet, s.SheetSize.Width, s.SheetSize.Height)
		}
		return PaperSize{Name: "Custom", Width: s.SheetSize.Width, Height: s.SheetSize.Height}, nil
	}
	p, ok := GetPaper(s.Paper)
	if !ok {
		return PaperSize{}, fmt.Errorf("unknown paper %q", s.Paper)
	}
	return p, nil
}

// SheetSpec derives the portrait sheet spec from paper, borders and overlap.
func (s LayoutSettings) SheetSpec() (SheetSpec, error) {
	p, err := s.PaperSize()
	if err != nil {
		return SheetSpec{}, err
	}
	spec := p.Sheet(s.Borders, s.Overlap)
	if !spec.Printable().Valid() {
		return SheetSpec{}, fmt.Errorf("%w: borders leave no printable area on %s", ErrDegenerateSheet, p.Name)
	}
	if err := spec.Validate(); err != nil {
		return SheetSpec{}, err
	}
	return spec, nil
}

// Job is one poster request: a source page and a goal.
type Job struct {
	ID     string `json:"id" yaml:"id" toml:"id"`
	Label  string `json:"label" yaml:"label" toml:"label"`
	Source Size   `json:"source" yaml:"source" toml:"source"`                               // Source page size in mm
	File   string `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`       // Optional source document
	Page   int    `json:"page,omitempty" yaml:"page,omitempty" toml:"page,omitempty"`       // 1-based page in File
	Goal   Goal   `json:"goal" yaml:"goal" toml:"goal"`
	Paper  string `json:"paper,omitempty" yaml:"paper,omitempty" toml:"paper,omitempty"`    // Overrides the project paper
}

func NewJob(label string, source Size, goal Goal) Job {
	return Job{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Source: source,
		Goal:   goal,
	}
}

// Plan is the resolved poster together with its chosen layout.
type Plan struct {
	Goal        Goal        `json:"goal"`
	Source      Size        `json:"source"`
	Poster      Size        `json:"poster"`
	Scale       float64     `json:"scale"` // Poster width / source width; a FixedSize goal may scale the height differently
	Paper       PaperSize   `json:"paper"`
	Borders     Insets      `json:"borders"`
	Orientation Orientation `json:"orientation"`
	Layout      Layout      `json:"layout"`
}

// SheetCount returns the number of sheets to print.
func (p Plan) SheetCount() int {
	return p.Layout.SheetCount()
}

// Multiplier returns the poster area as a multiple of the source area.
func (p Plan) Multiplier() float64 {
	if p.Source.Area() == 0 {
		return 0
	}
	return p.Poster.Area() / p.Source.Area()
}

// PageSize returns the physical output page size in the plan's orientation.
func (p Plan) PageSize() Size {
	if p.Orientation == Landscape {
		return p.Paper.Size().Rotate()
	}
	return p.Paper.Size()
}

// TileMapping tells a renderer which part of the source page goes where on
// one output page.
type TileMapping struct {
	Tile   Tile `json:"tile"`
	Source Rect `json:"source"` // Clip on the source page, mm from its top-left
	Target Rect `json:"target"` // Placement on the output page, mm from its top-left
	Page   Size `json:"page"`   // Output page size
}

// Project groups jobs that share output settings, for batch runs and job files.
type Project struct {
	Name     string         `json:"name" yaml:"name" toml:"name"`
	Settings LayoutSettings `json:"settings" yaml:"settings" toml:"settings"`
	Jobs     []Job          `json:"jobs" yaml:"jobs" toml:"jobs"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Settings: DefaultSettings(),
		Jobs:     []Job{},
	}
}

// SettingsFor returns the project settings with the job's paper override
// applied.
func (p Project) SettingsFor(j Job) LayoutSettings {
	s := p.Settings
	if j.Paper != "" {
		s.Paper = j.Paper
		s.SheetSize = nil
	}
	return s
}
