package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/PosterCut/internal/engine"
	"github.com/piwi3910/PosterCut/internal/model"
)

// PlanDocument is the JSON form of a plan handed to renderers: the plan
// itself, its print estimate and the source-to-page mapping of every tile.
type PlanDocument struct {
	Job      string              `json:"job"`
	Plan     model.Plan          `json:"plan"`
	Estimate model.PrintEstimate `json:"estimate"`
	Mappings []model.TileMapping `json:"mappings"`
}

// NewPlanDocument assembles the document for a plan.
func NewPlanDocument(plan model.Plan, opts Options) PlanDocument {
	mappings := engine.MapTiles(plan)
	if mappings == nil {
		mappings = []model.TileMapping{}
	}
	return PlanDocument{
		Job:      opts.title(),
		Plan:     plan,
		Estimate: model.CalculatePrintEstimate(plan.Layout, opts.PricePerSheet),
		Mappings: mappings,
	}
}

// WriteJSON writes the plan document as indented JSON.
func WriteJSON(w io.Writer, plan model.Plan, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewPlanDocument(plan, opts))
}

// ExportJSON writes the plan document to path.
func ExportJSON(path string, plan model.Plan, opts Options) error {
	if plan.SheetCount() == 0 {
		return fmt.Errorf("export json: %w", ErrEmptyPlan)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	if err := WriteJSON(f, plan, opts); err != nil {
		f.Close()
		return fmt.Errorf("export json: %w", err)
	}
	return f.Close()
}
