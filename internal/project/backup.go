package project

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/PosterCut/internal/model"
)

const backupVersion = "1.0.0"

// BackupData bundles everything PosterCut keeps in its config directory.
type BackupData struct {
	Version   string              `json:"version"`
	CreatedAt string              `json:"created_at"`
	Config    model.AppConfig     `json:"config"`
	Templates model.TemplateStore `json:"templates"`
	Papers    []model.PaperSize   `json:"papers"`
}

// ExportAllData writes config, templates and custom papers to one JSON file.
func ExportAllData(exportPath string, cfg model.AppConfig, templates model.TemplateStore, papers []model.PaperSize) error {
	if papers == nil {
		papers = []model.PaperSize{}
	}
	backup := BackupData{
		Version:   backupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    cfg,
		Templates: templates,
		Papers:    papers,
	}
	if err := writeJSONFile(exportPath, backup); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// ImportAllData reads a backup file. Applying it is up to the caller.
func ImportAllData(importPath string) (BackupData, error) {
	var backup BackupData
	found, err := readJSONFile(importPath, &backup)
	if err != nil {
		return BackupData{}, fmt.Errorf("read backup: %w", err)
	}
	if !found {
		return BackupData{}, fmt.Errorf("read backup: %s: %w", importPath, os.ErrNotExist)
	}
	if backup.Version == "" {
		return BackupData{}, errors.New("invalid backup file: missing version field")
	}
	if backup.Config.RecentFiles == nil {
		backup.Config.RecentFiles = []string{}
	}
	if backup.Templates.Templates == nil {
		backup.Templates = model.NewTemplateStore()
	}
	if backup.Papers == nil {
		backup.Papers = []model.PaperSize{}
	}
	return backup, nil
}
