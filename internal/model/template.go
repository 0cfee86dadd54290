package model

import (
	"time"

	"github.com/google/uuid"
)

// JobTemplate is a reusable poster setup: a goal and the output settings,
// without a source page.
type JobTemplate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	Goal        Goal           `json:"goal"`
	Settings    LayoutSettings `json:"settings"`
}

// NewJobTemplate creates a template from a goal and settings.
func NewJobTemplate(name, description string, goal Goal, settings LayoutSettings) JobTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	if settings.SheetSize != nil {
		sz := *settings.SheetSize
		settings.SheetSize = &sz
	}
	return JobTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Goal:        goal,
		Settings:    settings,
	}
}

// ToProject creates a single-job project for the given source page.
// The job gets a fresh ID so it is independent of the template.
func (t JobTemplate) ToProject(label string, source Size) Project {
	return Project{
		Name:     t.Name,
		Settings: t.Settings,
		Jobs:     []Job{NewJob(label, source, t.Goal)},
	}
}

// TemplateStore holds a collection of job templates.
type TemplateStore struct {
	Templates []JobTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []JobTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t JobTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *JobTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *JobTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}
