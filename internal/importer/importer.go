// Package importer reads batch job lists from CSV and Excel files and
// measures source pages from PDF and DXF documents.
// CSV import detects the delimiter and maps columns by header name,
// ignoring case.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PosterCut/internal/model"
)

// ImportResult holds the jobs read from a batch file along with per-row
// problems. Rows with errors are skipped; warnings do not drop the row.
type ImportResult struct {
	Jobs     []model.Job
	Errors   []string
	Warnings []string
}

// ColumnMapping maps job fields to column indices; -1 means absent.
type ColumnMapping struct {
	Label  int
	Width  int
	Height int
	Mode   int
	Value  int
	Paper  int
	File   int
	Page   int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":  {"label", "name", "job", "title", "poster", "description"},
	"width":  {"width", "w", "source width", "src width", "src_w"},
	"height": {"height", "h", "source height", "src height", "src_h"},
	"mode":   {"mode", "goal", "kind", "type"},
	"value":  {"value", "target", "factor", "size", "pages", "sheets"},
	"paper":  {"paper", "medium", "sheet", "format"},
	"file":   {"file", "path", "source", "pdf", "document"},
	"page":   {"page", "pg", "page number"},
}

// DetectCSVDelimiter returns the most likely delimiter among comma,
// semicolon, tab and pipe: the one giving the most rows with the same
// multi-column width as the first row.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}
		cols := len(records[0])
		if cols < 2 {
			continue
		}
		score := 0
		for _, row := range records {
			if len(row) == cols {
				score++
			}
		}
		if weighted := score*10 + cols; weighted > bestScore {
			best, bestScore = delim, weighted
		}
	}
	return best
}

// DetectColumns maps a header row to job fields. Without a recognisable
// header it returns the positional layout
// label, width, height, mode, value, paper, file, page and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	m := ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"label": &m.Label, "width": &m.Width, "height": &m.Height, "mode": &m.Mode,
		"value": &m.Value, "paper": &m.Paper, "file": &m.File, "page": &m.Page,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if *slots[role] == -1 {
						*slots[role] = i
					}
				}
			}
		}
	}
	if !isHeader {
		return ColumnMapping{0, 1, 2, 3, 4, 5, 6, 7}, false
	}
	return m, true
}

// ParseSize parses "WxH" in mm. The separator may be x, X, * or ×, with
// optional spaces and an optional "mm" suffix.
func ParseSize(s string) (model.Size, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.TrimSuffix(norm, "mm")
	norm = strings.NewReplacer("×", "x", "*", "x", " ", "").Replace(norm)
	parts := strings.Split(norm, "x")
	if len(parts) != 2 {
		return model.Size{}, fmt.Errorf("%w: %q is not WIDTHxHEIGHT", model.ErrInvalidSize, s)
	}
	w, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return model.Size{}, fmt.Errorf("%w: bad width in %q", model.ErrInvalidSize, s)
	}
	h, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return model.Size{}, fmt.Errorf("%w: bad height in %q", model.ErrInvalidSize, s)
	}
	size := model.NewSize(w, h)
	if !size.Valid() {
		return model.Size{}, fmt.Errorf("%w: %q must be positive", model.ErrInvalidSize, s)
	}
	return size, nil
}

// ParseGoal builds a goal from a mode name and its textual parameter:
// "WxH" for size and fit, a number for mult, a whole number for pages.
func ParseGoal(mode, value string) (model.Goal, error) {
	kind, err := model.ParseGoalKind(mode)
	if err != nil {
		return model.Goal{}, err
	}
	value = strings.TrimSpace(value)

	var g model.Goal
	switch kind {
	case model.GoalFixedSize, model.GoalFitWithin:
		size, err := ParseSize(value)
		if err != nil {
			return model.Goal{}, fmt.Errorf("%w: %v", model.ErrInvalidGoal, err)
		}
		g = model.Goal{Kind: kind, Size: size}
	case model.GoalAreaMultiple:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return model.Goal{}, fmt.Errorf("%w: factor %q is not a number", model.ErrInvalidGoal, value)
		}
		g = model.AreaMultiple(f)
	case model.GoalMaxForSheetBudget:
		n, err := strconv.Atoi(value)
		if err != nil {
			return model.Goal{}, fmt.Errorf("%w: sheet count %q is not a whole number", model.ErrInvalidGoal, value)
		}
		g = model.MaxForSheetBudget(n)
	}
	return g, g.Validate()
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow turns one row into a job, returning an error message or a
// warning when something is off.
func parseRow(row []string, m ColumnMapping, rowLabel string, jobCount int) (model.Job, string, string) {
	job := model.Job{
		ID:    uuid.New().String()[:8],
		Label: getCell(row, m.Label),
		File:  getCell(row, m.File),
		Paper: getCell(row, m.Paper),
	}
	if job.Label == "" {
		job.Label = fmt.Sprintf("Job %d", jobCount+1)
	}

	widthStr, heightStr := getCell(row, m.Width), getCell(row, m.Height)
	if widthStr != "" || heightStr != "" {
		w, errW := strconv.ParseFloat(widthStr, 64)
		h, errH := strconv.ParseFloat(heightStr, 64)
		if errW != nil || errH != nil {
			return model.Job{}, fmt.Sprintf("%s: Invalid source size '%s' x '%s'", rowLabel, widthStr, heightStr), ""
		}
		job.Source = model.NewSize(w, h)
		if !job.Source.Valid() {
			return model.Job{}, fmt.Sprintf("%s: Source width and height must be positive", rowLabel), ""
		}
	} else if job.File == "" {
		return model.Job{}, fmt.Sprintf("%s: Missing source size or file", rowLabel), ""
	}

	mode := getCell(row, m.Mode)
	if mode == "" {
		return model.Job{}, fmt.Sprintf("%s: Missing mode", rowLabel), ""
	}
	goal, err := ParseGoal(mode, getCell(row, m.Value))
	if err != nil {
		return model.Job{}, fmt.Sprintf("%s: %v", rowLabel, err), ""
	}
	job.Goal = goal

	var warning string
	if pageStr := getCell(row, m.Page); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			warning = fmt.Sprintf("%s: Invalid page '%s', using page 1", rowLabel, pageStr)
			page = 1
		}
		job.Page = page
	}
	if job.Paper != "" {
		if _, ok := model.GetPaper(job.Paper); !ok {
			warning = fmt.Sprintf("%s: Unknown paper '%s', using the project paper", rowLabel, job.Paper)
			job.Paper = ""
		}
	}
	return job, "", warning
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports jobs from a CSV file with any of the supported delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports jobs from CSV data with a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(r, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportExcel imports jobs from the first sheet of an .xlsx workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}
	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Mode == -1 {
			missing = append(missing, "Mode")
		}
		if mapping.Value == -1 {
			missing = append(missing, "Value")
		}
		if (mapping.Width == -1 || mapping.Height == -1) && mapping.File == -1 {
			missing = append(missing, "Width/Height or File")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognised header still has a non-numeric width column.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		job, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Jobs))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Jobs = append(result.Jobs, job)
	}
	return result
}

// ImportFile dispatches on the file extension: .csv, .tsv, .txt or .xlsx.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xlsm"):
		return ImportExcel(path)
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".tsv"), strings.HasSuffix(lower, ".txt"):
		return ImportCSV(path)
	}
	return ImportResult{Errors: []string{fmt.Sprintf("Unsupported batch file: %s", path)}}
}
