package project

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/piwi3910/PosterCut/internal/model"
)

// SaveCustomPapers writes the user's paper sizes to a JSON file.
func SaveCustomPapers(path string, papers []model.PaperSize) error {
	if papers == nil {
		papers = []model.PaperSize{}
	}
	return writeJSONFile(path, papers)
}

// LoadCustomPapers reads custom paper sizes. A missing file is not an error.
func LoadCustomPapers(path string) ([]model.PaperSize, error) {
	var papers []model.PaperSize
	if _, err := readJSONFile(path, &papers); err != nil {
		return nil, err
	}
	if papers == nil {
		papers = []model.PaperSize{}
	}
	for i := range papers {
		papers[i].IsBuiltIn = false
	}
	return papers, nil
}

// InstallCustomPapers loads the papers at path into model.CustomPapers so
// GetPaper can find them by name.
func InstallCustomPapers(path string) error {
	papers, err := LoadCustomPapers(path)
	if err != nil {
		return err
	}
	model.CustomPapers = papers
	return nil
}

// ValidatePaper checks a user-supplied paper before it is stored.
func ValidatePaper(p model.PaperSize) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("paper has no name")
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: paper %q is %.1f x %.1f mm", model.ErrInvalidSize, p.Name, p.Width, p.Height)
	}
	for _, b := range model.PaperSizes {
		if strings.EqualFold(b.Name, p.Name) {
			return fmt.Errorf("paper %q would shadow a built-in size", p.Name)
		}
	}
	return nil
}

// AddCustomPaper validates p and stores it, replacing a custom paper of the
// same name.
func AddCustomPaper(papers []model.PaperSize, p model.PaperSize) ([]model.PaperSize, error) {
	if err := ValidatePaper(p); err != nil {
		return papers, err
	}
	p.IsBuiltIn = false
	for i := range papers {
		if strings.EqualFold(papers[i].Name, p.Name) {
			papers[i] = p
			return papers, nil
		}
	}
	return append(papers, p), nil
}

// RemoveCustomPaper drops the named paper. It reports whether it was found.
func RemoveCustomPaper(papers []model.PaperSize, name string) ([]model.PaperSize, bool) {
	for i := range papers {
		if strings.EqualFold(papers[i].Name, name) {
			return append(papers[:i], papers[i+1:]...), true
		}
	}
	return papers, false
}

// ExportPaper writes one paper to a JSON file for sharing.
func ExportPaper(path string, p model.PaperSize) error {
	p.IsBuiltIn = false
	return writeJSONFile(path, p)
}

// ImportPaper reads one paper from a JSON file.
func ImportPaper(path string) (model.PaperSize, error) {
	var p model.PaperSize
	found, err := readJSONFile(path, &p)
	if err != nil {
		return model.PaperSize{}, err
	}
	if !found {
		return model.PaperSize{}, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	if p.Name == "" {
		return model.PaperSize{}, errors.New("imported paper has no name")
	}
	return p, nil
}
