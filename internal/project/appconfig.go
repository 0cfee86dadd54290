package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/PosterCut/internal/model"
)

// DefaultConfigDir returns the directory for application configuration,
// ~/.postercut on every platform.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".postercut")
}

// File names inside the config directory.
const (
	configFile    = "config.json"
	papersFile    = "papers.json"
	templatesFile = "templates.json"
)

// Paths locates the files kept in one config directory.
type Paths struct {
	Config    string
	Papers    string
	Templates string
}

// PathsIn returns the config, paper and template file paths under dir.
func PathsIn(dir string) Paths {
	return Paths{
		Config:    filepath.Join(dir, configFile),
		Papers:    filepath.Join(dir, papersFile),
		Templates: filepath.Join(dir, templatesFile),
	}
}

// writeJSONFile stores v as indented JSON, creating parent directories.
func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// readJSONFile decodes path into v. found is false, with no error, when the
// file does not exist; v is left untouched then.
func readJSONFile(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// SaveAppConfig writes cfg as JSON, creating parent directories as needed.
func SaveAppConfig(path string, cfg model.AppConfig) error {
	return writeJSONFile(path, cfg)
}

// LoadAppConfig reads the config at path. A missing file yields
// DefaultAppConfig and no error. Keys absent from the file keep their
// default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	cfg := model.DefaultAppConfig()
	if _, err := readJSONFile(path, &cfg); err != nil {
		return model.AppConfig{}, err
	}
	if cfg.RecentFiles == nil {
		cfg.RecentFiles = []string{}
	}
	return cfg, nil
}
