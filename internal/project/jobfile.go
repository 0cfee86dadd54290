package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/piwi3910/PosterCut/internal/yamlutil"
)

// ErrUnsupportedFormat is returned for job files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported job file format")

// Format is a job file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// LoadProject reads a job file. Settings missing from the file keep the
// defaults of model.NewProject, and jobs without an ID get one.
func LoadProject(path string) (model.Project, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return model.Project{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, err
	}
	p, err := DecodeProject(data, format)
	if err != nil {
		return model.Project{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// DecodeProject parses a job file body in the given format.
func DecodeProject(data []byte, format Format) (model.Project, error) {
	p := model.NewProject()
	p.Name = ""

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return model.Project{}, err
		}
	case FormatYAML:
		if err := yamlutil.Decode(data, &p); err != nil {
			return model.Project{}, err
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &p)
		if err != nil {
			return model.Project{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return model.Project{}, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	default:
		return model.Project{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if p.Jobs == nil {
		p.Jobs = []model.Job{}
	}
	for i := range p.Jobs {
		j := &p.Jobs[i]
		if j.ID == "" {
			j.ID = uuid.New().String()[:8]
		}
		if j.Label == "" {
			j.Label = fmt.Sprintf("job %d", i+1)
		}
		if !j.Source.Valid() && j.File == "" {
			return model.Project{}, fmt.Errorf("%w: job %q has neither a source size nor a file", model.ErrInvalidSize, j.Label)
		}
	}
	return p, nil
}

// SaveProject writes p in the format implied by the path extension.
func SaveProject(path string, p model.Project) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := EncodeProject(p, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EncodeProject serialises p in the given format.
func EncodeProject(p model.Project, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(p, "", "  ")
	case FormatYAML:
		return yamlutil.Encode(p)
	case FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.Indent = ""
		if err := enc.Encode(p); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
