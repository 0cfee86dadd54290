package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PosterCut/internal/model"
)

func sampleProject() model.Project {
	p := model.NewProject()
	p.Name = "Festival"
	p.Settings.Paper = "A3"
	p.Settings.Overlap = 12
	p.Jobs = []model.Job{
		model.NewJob("main stage", model.NewSize(210, 297), model.AreaMultiple(4)),
		model.NewJob("side stage", model.NewSize(148, 210), model.MaxForSheetBudget(6)),
		model.NewJob("banner", model.NewSize(297, 105), model.FixedSize(model.NewSize(1200, 424))),
	}
	p.Jobs[1].Paper = "A4"
	return p
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"jobs.json", FormatJSON},
		{"jobs.YAML", FormatYAML},
		{"jobs.yml", FormatYAML},
		{"dir/jobs.toml", FormatTOML},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatFromPath("jobs.ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSaveAndLoadProject_AllFormats(t *testing.T) {
	for _, name := range []string{"jobs.json", "jobs.yaml", "jobs.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := sampleProject()

			require.NoError(t, SaveProject(path, want))
			got, err := LoadProject(path)
			require.NoError(t, err)

			assert.Equal(t, want.Name, got.Name)
			assert.Equal(t, want.Settings, got.Settings)
			assert.Equal(t, want.Jobs, got.Jobs)
		})
	}
}

func TestDecodeProject_Defaults(t *testing.T) {
	data := []byte(`
jobs:
  - source: {width: 210, height: 297}
    goal: {kind: pages, sheets: 4}
`)
	p, err := DecodeProject(data, FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, model.DefaultSettings(), p.Settings)
	require.Len(t, p.Jobs, 1)
	assert.NotEmpty(t, p.Jobs[0].ID)
	assert.Equal(t, "job 1", p.Jobs[0].Label)
	assert.Equal(t, model.MaxForSheetBudget(4), p.Jobs[0].Goal)
}

func TestDecodeProject_TOML(t *testing.T) {
	data := []byte(`
name = "Shop window"

[settings]
paper = "Letter"
overlap = 5
strategy = "complex"

[[jobs]]
label = "sale"
file = "sale.pdf"
page = 2
goal = { kind = "fit", size = { width = 1000, height = 700 } }
`)
	p, err := DecodeProject(data, FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, "Shop window", p.Name)
	assert.Equal(t, "Letter", p.Settings.Paper)
	assert.Equal(t, 5.0, p.Settings.Overlap)
	assert.Equal(t, model.StrategyComplex, p.Settings.Strategy)
	assert.Equal(t, model.UniformInsets(20), p.Settings.Borders, "untouched settings keep defaults")
	require.Len(t, p.Jobs, 1)
	assert.Equal(t, "sale.pdf", p.Jobs[0].File)
	assert.Equal(t, 2, p.Jobs[0].Page)
	assert.Equal(t, model.FitWithin(model.NewSize(1000, 700)), p.Jobs[0].Goal)
}

func TestDecodeProject_RejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatJSON, `{"name":"x","colour":"red"}`},
		{FormatYAML, "name: x\ncolour: red\n"},
		{FormatTOML, "name = \"x\"\ncolour = \"red\"\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			_, err := DecodeProject([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestDecodeProject_JobWithoutSource(t *testing.T) {
	_, err := DecodeProject([]byte(`{"jobs":[{"label":"empty","goal":{"kind":"mult","factor":2}}]}`), FormatJSON)
	assert.ErrorIs(t, err, model.ErrInvalidSize)
}

func TestLoadProject_Errors(t *testing.T) {
	_, err := LoadProject(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "jobs.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	_, err = LoadProject(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
