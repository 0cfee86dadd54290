package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PosterCut/internal/engine"
	"github.com/piwi3910/PosterCut/internal/export"
	"github.com/piwi3910/PosterCut/internal/importer"
	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/piwi3910/PosterCut/internal/project"
)

// Batch export formats.
const (
	formatPDF    = "pdf"
	formatLabels = "labels"
	formatXLSX   = "xlsx"
	formatDXF    = "dxf"
	formatJSON   = "json"
)

// batchCommand plans every job of a CSV, Excel or job file.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		req     requestFlags
		outDir  string
		formats string
		save    string
	)

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Plan every job of a CSV, Excel or job file",
		Long: `Plan every job of a CSV, Excel or job file.

CSV and Excel rows hold a label, the source width and height (or a PDF/DXF
file and page), the goal mode and value, and an optional paper. Job files
(.json, .yaml, .toml) carry their own settings and refuse the sheet
flags; for CSV and Excel the settings come from the configuration and the
sheet flags.

Jobs are planned concurrently. A failing job is reported and does not
stop the others.`,
		Example: `  postercut batch posters.csv --out-dir plans --formats pdf,labels
  postercut batch posters.xlsx --save posters.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd, &req, args[0], outDir, parseFormats(formats), save)
		},
	}

	req.registerSheet(cmd)
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "write exports for every job into this directory")
	cmd.Flags().StringVarP(&formats, "formats", "f", formatPDF, "comma-separated exports: pdf, labels, xlsx, dxf, json")
	cmd.Flags().StringVar(&save, "save", "", "also save the imported jobs as a job file")
	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, req *requestFlags, path, outDir string, formats []string, save string) error {
	p, err := c.loadBatch(cmd, req, path)
	if err != nil {
		return err
	}
	if len(p.Jobs) == 0 {
		return fmt.Errorf("%s holds no jobs", filepath.Base(path))
	}
	if err := importer.ResolveSources(p.Jobs, filepath.Dir(path)); err != nil {
		return err
	}
	for _, f := range formats {
		if !validFormat(f) {
			return fmt.Errorf("unknown export format %q", f)
		}
	}

	if save != "" {
		if err := project.SaveProject(save, p); err != nil {
			return fmt.Errorf("save %s: %w", save, err)
		}
		c.printFile(save)
	}

	logger := loggerFromContext(cmd.Context())
	clock := startTimer(logger)
	results, err := engine.PlanProject(cmd.Context(), p, logger)
	if err != nil {
		return err
	}
	clock.stop(fmt.Sprintf("Planned %d jobs", len(results)))

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return err
		}
	}

	stems := batchStems(p.Jobs)
	failed := 0
	totalSheets := 0
	for i, r := range results {
		if r.Err != nil {
			failed++
			c.printError("%v", r.Err)
			continue
		}
		totalSheets += r.Plan.SheetCount()
		c.printSuccess("%s: %d sheets of %s, poster %s", r.Job.Label, r.Plan.SheetCount(), r.Plan.Paper.Name, r.Plan.Poster)
		if outDir == "" {
			continue
		}
		opts := export.Options{Title: r.Job.Label, PricePerSheet: p.SettingsFor(r.Job).PricePerSheet}
		if err := c.writeOutputs(batchOutputs(outDir, stems[i], formats), r.Plan, opts); err != nil {
			return err
		}
	}

	c.printNewline()
	c.printInfo("%d of %d jobs planned, %d sheets in total", len(results)-failed, len(results), totalSheets)
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(results))
	}
	return nil
}

// loadBatch reads a job file as is, or imports a CSV/Excel sheet into a
// project using the configured settings.
func (c *CLI) loadBatch(cmd *cobra.Command, req *requestFlags, path string) (model.Project, error) {
	if _, err := project.FormatFromPath(path); err == nil {
		for _, name := range sheetFlags {
			if cmd.Flags().Changed(name) {
				return model.Project{}, fmt.Errorf("--%s does not apply to job files, %s carries its own settings",
					name, filepath.Base(path))
			}
		}
		p, err := project.LoadProject(path)
		if err != nil {
			return model.Project{}, fmt.Errorf("load job file: %w", err)
		}
		return p, nil
	}

	settings, _, err := c.settings(cmd, req)
	if err != nil {
		return model.Project{}, err
	}
	res := importer.ImportFile(path)
	for _, w := range res.Warnings {
		c.printWarning("%s", w)
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			c.printError("%s", e)
		}
		return model.Project{}, fmt.Errorf("%s: %d rows could not be imported", filepath.Base(path), len(res.Errors))
	}

	p := model.NewProject()
	p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p.Settings = settings
	p.Jobs = res.Jobs
	return p, nil
}

// parseFormats splits a comma-separated format list.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	return parts
}

func validFormat(f string) bool {
	switch f {
	case formatPDF, formatLabels, formatXLSX, formatDXF, formatJSON:
		return true
	}
	return false
}

// batchOutputs names the export files of one job after its stem.
func batchOutputs(dir, stem string, formats []string) outputFlags {
	base := filepath.Join(dir, stem)
	var o outputFlags
	for _, f := range formats {
		switch f {
		case formatPDF:
			o.pdf = base + ".pdf"
		case formatLabels:
			o.labels = base + ".labels.pdf"
		case formatXLSX:
			o.xlsx = base + ".xlsx"
		case formatDXF:
			o.dxf = base + ".dxf"
		case formatJSON:
			o.json = base + ".json"
		}
	}
	return o
}

// batchStems returns one distinct file stem per job, in job order. Later
// jobs whose label repeats an earlier one get their ID appended.
func batchStems(jobs []model.Job) []string {
	stems := make([]string, len(jobs))
	used := make(map[string]bool, len(jobs))
	for i, job := range jobs {
		stem := fileStem(job)
		if used[stem] && job.ID != "" {
			stem += "-" + job.ID
		}
		for n := 2; used[stem]; n++ {
			stem = fmt.Sprintf("%s-%d", fileStem(job), n)
		}
		used[stem] = true
		stems[i] = stem
	}
	return stems
}

// fileStem turns a job label into a safe file name, falling back to the
// job ID.
func fileStem(job model.Job) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			return unicode.ToLower(r)
		case unicode.IsSpace(r), r == '.':
			return '-'
		}
		return -1
	}, strings.TrimSpace(job.Label))
	stem = strings.Trim(stem, "-")
	if stem == "" {
		return job.ID
	}
	return stem
}
