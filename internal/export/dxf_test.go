package export

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/PosterCut/internal/importer"
	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

func TestExportDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.dxf")
	plan := buildTestPlan(t)
	require.NoError(t, ExportDXF(path, plan))

	d, err := dxf.Open(path)
	require.NoError(t, err)

	var polylines, texts int
	for _, e := range d.Entities() {
		switch e.(type) {
		case *entity.LwPolyline:
			polylines++
		case *entity.Text:
			texts++
		}
	}
	// Poster outline, nine tiles, twelve glue strips.
	assert.Equal(t, 1+9+12, polylines)
	assert.Equal(t, 9, texts)
}

func TestExportDXF_ExtentsMatchPoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.dxf")
	plan := buildTestPlan(t)
	require.NoError(t, ExportDXF(path, plan))

	// Tiles are clipped, so nothing reaches past the poster outline.
	size, err := importer.SourceFromDXF(path)
	require.NoError(t, err)
	assert.InDelta(t, plan.Poster.Width, size.Width, 1e-6)
	assert.InDelta(t, plan.Poster.Height, size.Height, 1e-6)
}

func TestExportDXF_EmptyPlan(t *testing.T) {
	err := ExportDXF(filepath.Join(t.TempDir(), "plan.dxf"), model.Plan{})
	assert.ErrorIs(t, err, ErrEmptyPlan)
}

func TestUniqueStrips(t *testing.T) {
	plan := buildTestPlan(t)
	strips := uniqueStrips(plan.Layout)
	require.Len(t, strips, 12)

	// Each strip appears twice among the per-tile strips.
	total := 0
	for _, tile := range plan.Layout.Tiles {
		total += len(overlapStrips(plan.Layout, tile))
	}
	assert.Equal(t, 2*len(strips), total)

	assert.Empty(t, uniqueStrips(buildSingleTilePlan(t).Layout))
}
