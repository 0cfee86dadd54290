package project

import "github.com/piwi3910/PosterCut/internal/model"

// SaveTemplates writes the template store to a JSON file.
func SaveTemplates(path string, store model.TemplateStore) error {
	return writeJSONFile(path, store)
}

// LoadTemplates reads a template store. A missing file yields an empty store.
func LoadTemplates(path string) (model.TemplateStore, error) {
	store := model.NewTemplateStore()
	if _, err := readJSONFile(path, &store); err != nil {
		return model.TemplateStore{}, err
	}
	if store.Templates == nil {
		store.Templates = []model.JobTemplate{}
	}
	return store, nil
}
