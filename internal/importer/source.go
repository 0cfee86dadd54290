package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/PosterCut/internal/model"
)

// ErrUnsupportedSource is returned for source documents that are neither
// PDF nor DXF.
var ErrUnsupportedSource = errors.New("unsupported source document")

// SourceFromFile measures a source document by extension. page is 1-based
// and only used for PDFs; zero selects the first page.
func SourceFromFile(path string, page int) (model.Size, error) {
	if page == 0 {
		page = 1
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		info, err := SourceFromPDF(path, page)
		if err != nil {
			return model.Size{}, err
		}
		return info.Size, nil
	case ".dxf":
		return SourceFromDXF(path)
	}
	return model.Size{}, fmt.Errorf("%w: %s", ErrUnsupportedSource, filepath.Base(path))
}

// ResolveSources measures the document of every job that names a file and
// has no explicit source size. Relative paths are taken from baseDir.
func ResolveSources(jobs []model.Job, baseDir string) error {
	for i := range jobs {
		j := &jobs[i]
		if j.File == "" || j.Source.Valid() {
			continue
		}
		path := j.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		size, err := SourceFromFile(path, j.Page)
		if err != nil {
			return fmt.Errorf("job %q: %w", j.Label, err)
		}
		j.Source = size
	}
	return nil
}
