package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new layouts
	DefaultPaper       string   `json:"default_paper"`
	DefaultBorders     Insets   `json:"default_borders"`
	DefaultOverlap     float64  `json:"default_overlap"`
	DefaultStrategy    Strategy `json:"default_strategy"`
	DefaultAllowRotate bool     `json:"default_allow_rotate"`
	PricePerSheet      float64  `json:"price_per_sheet"`

	// Application preferences
	OutputDir   string   `json:"output_dir"` // empty = next to the input
	RecentFiles []string `json:"recent_files"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultPaper:       defaults.Paper,
		DefaultBorders:     defaults.Borders,
		DefaultOverlap:     defaults.Overlap,
		DefaultStrategy:    defaults.Strategy,
		DefaultAllowRotate: defaults.AllowRotate,
		PricePerSheet:      defaults.PricePerSheet,
		RecentFiles:        []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a LayoutSettings struct.
func (c AppConfig) ApplyToSettings(s *LayoutSettings) {
	s.Paper = c.DefaultPaper
	s.SheetSize = nil
	s.Borders = c.DefaultBorders
	s.Overlap = c.DefaultOverlap
	s.Strategy = c.DefaultStrategy
	s.AllowRotate = c.DefaultAllowRotate
	s.PricePerSheet = c.PricePerSheet
}

// maxRecentFiles bounds the recent files list.
const maxRecentFiles = 10

// AddRecentFile moves path to the front of the recent list.
func (c *AppConfig) AddRecentFile(path string) {
	files := []string{path}
	for _, f := range c.RecentFiles {
		if f != path {
			files = append(files, f)
		}
	}
	if len(files) > maxRecentFiles {
		files = files[:maxRecentFiles]
	}
	c.RecentFiles = files
}
