package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PosterCut/internal/importer"
	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/piwi3910/PosterCut/internal/project"
)

// goalFlags lists the mutually exclusive ways to ask for a poster size.
var goalFlags = []string{"size", "fit", "mult", "pages"}

// sheetFlags are registered by registerSheet.
var sheetFlags = []string{"paper", "sheet", "border", "overlap", "strategy", "no-rotate", "price", "template"}

// requestFlags collects a poster request from the command line: the goal,
// the source page and the output sheet.
type requestFlags struct {
	size  string
	fit   string
	mult  float64
	pages int

	source string
	input  string
	page   int

	paper    string
	sheet    string
	border   string
	overlap  float64
	strategy string
	noRotate bool
	price    float64
	template string
}

func (r *requestFlags) registerGoal(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&r.size, "size", "", "poster of exactly WxH mm")
	f.StringVar(&r.fit, "fit", "", "largest poster that fits inside WxH mm")
	f.Float64Var(&r.mult, "mult", 0, "poster of N times the source area")
	f.IntVar(&r.pages, "pages", 0, "largest poster printable on N sheets")
	cmd.MarkFlagsMutuallyExclusive(goalFlags...)
}

func (r *requestFlags) registerSource(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&r.source, "source", "", "source page size WxH in mm")
	f.StringVarP(&r.input, "input", "i", "", "measure the source from a PDF or DXF file")
	f.IntVar(&r.page, "page", 1, "page of the input PDF (1-based)")
	cmd.MarkFlagsMutuallyExclusive("source", "input")
}

func (r *requestFlags) registerSheet(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&r.paper, "paper", "", "output paper name (see 'postercut papers')")
	f.StringVar(&r.sheet, "sheet", "", "custom output sheet WxH in mm, overrides --paper")
	f.StringVar(&r.border, "border", "", "unprintable border in mm: ALL, V,H or T,R,B,L")
	f.Float64Var(&r.overlap, "overlap", 0, "glue overlap between tiles in mm")
	f.StringVarP(&r.strategy, "strategy", "s", "", "layout strategy: auto, grid or complex")
	f.BoolVar(&r.noRotate, "no-rotate", false, "only use portrait sheets")
	f.Float64Var(&r.price, "price", 0, "price per sheet for the estimate")
	f.StringVarP(&r.template, "template", "t", "", "start from a saved template (ID or name)")
}

// goal returns the goal given on the command line. ok is false when no goal
// flag was set.
func (r *requestFlags) goal(cmd *cobra.Command) (g model.Goal, ok bool, err error) {
	f := cmd.Flags()
	switch {
	case f.Changed("size"):
		g, err = importer.ParseGoal("size", r.size)
	case f.Changed("fit"):
		g, err = importer.ParseGoal("fit", r.fit)
	case f.Changed("mult"):
		g = model.AreaMultiple(r.mult)
		err = g.Validate()
	case f.Changed("pages"):
		g = model.MaxForSheetBudget(r.pages)
		err = g.Validate()
	default:
		return model.Goal{}, false, nil
	}
	return g, err == nil, err
}

// settings layers the command line over the template (when given) or the
// saved configuration. The returned template is nil without --template.
func (c *CLI) settings(cmd *cobra.Command, r *requestFlags) (model.LayoutSettings, *model.JobTemplate, error) {
	s := model.DefaultSettings()
	var tmpl *model.JobTemplate

	if r.template != "" {
		store, err := project.LoadTemplates(c.paths().Templates)
		if err != nil {
			return s, nil, fmt.Errorf("load templates: %w", err)
		}
		tmpl = store.FindByID(r.template)
		if tmpl == nil {
			tmpl = store.FindByName(r.template)
		}
		if tmpl == nil {
			if len(store.Templates) == 0 {
				return s, nil, fmt.Errorf("no template %q, none are saved", r.template)
			}
			return s, nil, fmt.Errorf("no template %q (saved: %s)", r.template, strings.Join(store.Names(), ", "))
		}
		s = tmpl.Settings
	} else {
		cfg, err := c.loadConfig()
		if err != nil {
			return s, nil, fmt.Errorf("load config: %w", err)
		}
		cfg.ApplyToSettings(&s)
	}

	f := cmd.Flags()
	if f.Changed("paper") {
		s.Paper = r.paper
		s.SheetSize = nil
	}
	if f.Changed("sheet") {
		size, err := importer.ParseSize(r.sheet)
		if err != nil {
			return s, nil, fmt.Errorf("--sheet: %w", err)
		}
		s.SheetSize = &size
	}
	if f.Changed("border") {
		b, err := parseBorders(r.border)
		if err != nil {
			return s, nil, fmt.Errorf("--border: %w", err)
		}
		s.Borders = b
	}
	if f.Changed("overlap") {
		if !nonNegative(r.overlap) {
			return s, nil, fmt.Errorf("--overlap must be a number of mm, not negative, got %g", r.overlap)
		}
		s.Overlap = r.overlap
	}
	if f.Changed("strategy") {
		st, err := model.ParseStrategy(r.strategy)
		if err != nil {
			return s, nil, err
		}
		s.Strategy = st
	}
	if r.noRotate {
		s.AllowRotate = false
	}
	if f.Changed("price") {
		if !nonNegative(r.price) {
			return s, nil, fmt.Errorf("--price must be a non-negative number, got %g", r.price)
		}
		s.PricePerSheet = r.price
	}
	if _, err := s.PaperSize(); err != nil {
		return s, nil, err
	}
	return s, tmpl, nil
}

// request resolves settings and goal together. A goal flag wins over the
// template's goal.
func (c *CLI) request(cmd *cobra.Command, r *requestFlags) (model.LayoutSettings, model.Goal, error) {
	s, tmpl, err := c.settings(cmd, r)
	if err != nil {
		return s, model.Goal{}, err
	}
	g, ok, err := r.goal(cmd)
	if err != nil {
		return s, model.Goal{}, err
	}
	if !ok {
		if tmpl == nil {
			return s, model.Goal{}, fmt.Errorf("%w: give one of --%s", model.ErrInvalidGoal, strings.Join(goalFlags, ", --"))
		}
		g = tmpl.Goal
	}
	return s, g, nil
}

// sourceSize returns the source page and a title for it: the input file
// name, or "Poster" for a plain size.
func (r *requestFlags) sourceSize() (model.Size, string, error) {
	switch {
	case r.input != "":
		size, err := importer.SourceFromFile(r.input, r.page)
		if err != nil {
			return model.Size{}, "", fmt.Errorf("measure %s: %w", r.input, err)
		}
		name := filepath.Base(r.input)
		return size, strings.TrimSuffix(name, filepath.Ext(name)), nil
	case r.source != "":
		size, err := importer.ParseSize(r.source)
		if err != nil {
			return model.Size{}, "", fmt.Errorf("--source: %w", err)
		}
		return size, "Poster", nil
	}
	return model.Size{}, "", errors.New("give the source page with --source WxH or --input FILE")
}

// parseBorders reads one value for every edge, two for vertical and
// horizontal, or four for top, right, bottom and left.
func parseBorders(s string) (model.Insets, error) {
	parts := strings.Split(s, ",")
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(p), "mm")), 64)
		if err != nil {
			return model.Insets{}, fmt.Errorf("%q is not a number", p)
		}
		if !nonNegative(v) {
			return model.Insets{}, fmt.Errorf("%q must be a finite number, not negative", p)
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return model.UniformInsets(vals[0]), nil
	case 2:
		return model.Insets{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 4:
		return model.Insets{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	}
	return model.Insets{}, fmt.Errorf("want 1, 2 or 4 values, got %d", len(vals))
}
