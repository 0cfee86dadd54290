package export

import (
	"fmt"
	"math"

	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	tilesSheet   = "Tiles"
	summarySheet = "Summary"
)

var tileHeaders = []any{
	"Sheet", "Tile", "Row", "Col",
	"X (mm)", "Y (mm)", "Width (mm)", "Height (mm)",
	"Printed width (mm)", "Printed height (mm)",
}

// ExportXLSX writes a workbook with one row per tile and a summary sheet
// holding the poster and print estimate figures.
func ExportXLSX(path string, plan model.Plan, opts Options) (err error) {
	if plan.SheetCount() == 0 {
		return fmt.Errorf("export xlsx: %w", ErrEmptyPlan)
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), tilesSheet); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	if err := writeTileRows(f, plan); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	if err := writeSummaryRows(f, plan, opts); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}

	return f.SaveAs(path)
}

func writeTileRows(f *excelize.File, plan model.Plan) error {
	if err := f.SetSheetRow(tilesSheet, "A1", &tileHeaders); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(tileHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(tilesSheet, "A1", last, bold); err != nil {
		return err
	}

	poster := plan.Layout.PosterRect()
	for i, t := range plan.Layout.Tiles {
		visible, _ := t.Rect.Intersect(poster)
		row := []any{
			t.Index + 1, t.Label(), t.Row + 1, t.Col + 1,
			round2(t.Rect.X), round2(t.Rect.Y), round2(t.Rect.Width), round2(t.Rect.Height),
			round2(visible.Width), round2(visible.Height),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(tilesSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(tilesSheet, "A", "J", 14)
}

func writeSummaryRows(f *excelize.File, plan model.Plan, opts Options) error {
	est := model.CalculatePrintEstimate(plan.Layout, opts.PricePerSheet)
	rows := [][]any{
		{"Job", opts.title()},
		{"Goal", plan.Goal.String()},
		{"Source width (mm)", round2(plan.Source.Width)},
		{"Source height (mm)", round2(plan.Source.Height)},
		{"Poster width (mm)", round2(plan.Poster.Width)},
		{"Poster height (mm)", round2(plan.Poster.Height)},
		{"Scale", plan.Scale},
		{"Paper", plan.Paper.Name},
		{"Orientation", string(plan.Orientation)},
		{"Strategy", plan.Layout.Strategy.String()},
		{"Rows", plan.Layout.Rows},
		{"Columns", plan.Layout.Cols},
		{"Sheets", est.Sheets},
		{"Efficiency (%)", round2(est.Efficiency)},
		{"Overlap area (sq mm)", round2(est.OverlapArea)},
		{"Wasted area (sq mm)", round2(est.WastedArea)},
		{"Glue length (mm)", round2(est.GlueLength)},
		{"Price per sheet", est.PricePerSheet},
		{"Estimated cost", round2(est.EstimatedCost)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 24)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
