package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PosterCut/internal/export"
	"github.com/piwi3910/PosterCut/internal/model"
)

// outputFlags names the files a planned poster is written to.
type outputFlags struct {
	pdf    string
	labels string
	xlsx   string
	dxf    string
	json   string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.pdf, "pdf", "", "write the assembly plan PDF")
	f.StringVar(&o.labels, "labels", "", "write QR tile labels (PDF, Avery 5160)")
	f.StringVar(&o.xlsx, "xlsx", "", "write the tile table as an Excel workbook")
	f.StringVar(&o.dxf, "dxf", "", "write poster and tile outlines as DXF")
	f.StringVar(&o.json, "json", "", "write the plan and tile mappings as JSON ('-' for stdout)")
}

// jsonToStdout reports whether the plan JSON goes to stdout, in which case
// nothing else may be printed there.
func (o outputFlags) jsonToStdout() bool {
	return o.json == "-"
}

// writeOutputs runs every requested exporter and reports the files written.
func (c *CLI) writeOutputs(o outputFlags, plan model.Plan, opts export.Options) error {
	quiet := o.jsonToStdout()
	if quiet {
		if err := export.WriteJSON(c.out, plan, opts); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		o.json = ""
	}

	writers := []struct {
		path  string
		write func(string) error
	}{
		{o.pdf, func(p string) error { return export.ExportPDF(p, plan, opts) }},
		{o.labels, func(p string) error { return export.ExportLabels(p, plan, opts) }},
		{o.xlsx, func(p string) error { return export.ExportXLSX(p, plan, opts) }},
		{o.dxf, func(p string) error { return export.ExportDXF(p, plan) }},
		{o.json, func(p string) error { return export.ExportJSON(p, plan, opts) }},
	}
	for _, w := range writers {
		if w.path == "" {
			continue
		}
		if err := w.write(w.path); err != nil {
			return fmt.Errorf("write %s: %w", w.path, err)
		}
		if !quiet {
			c.printFile(w.path)
		}
	}
	return nil
}
