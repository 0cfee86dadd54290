package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	plan := buildTestPlan(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, plan, Options{Title: "Concert", PricePerSheet: 0.1}))
	assert.Contains(t, buf.String(), "\n  \"job\": \"Concert\"")

	var doc PlanDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Concert", doc.Job)
	assert.Equal(t, plan.SheetCount(), doc.Estimate.Sheets)
	assert.Len(t, doc.Mappings, plan.SheetCount())
	assert.Equal(t, plan.Layout.Tiles, doc.Plan.Layout.Tiles)
	assert.Equal(t, model.NewRect(20, 20, 170, 257), doc.Mappings[0].Target)
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, ExportJSON(path, buildSingleTilePlan(t), Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc PlanDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Poster", doc.Job)
	assert.Len(t, doc.Mappings, 1)
}

func TestExportJSON_EmptyPlan(t *testing.T) {
	err := ExportJSON(filepath.Join(t.TempDir(), "plan.json"), model.Plan{}, Options{})
	assert.ErrorIs(t, err, ErrEmptyPlan)
}

func TestNewPlanDocument_EmptyMappings(t *testing.T) {
	doc := NewPlanDocument(model.Plan{}, Options{})
	assert.NotNil(t, doc.Mappings)
	assert.Empty(t, doc.Mappings)
}
