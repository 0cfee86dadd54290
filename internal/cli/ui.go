package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ANSI 256 colours used by the terminal report.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleCount   = lipgloss.NewStyle().Foreground(colorAccent) // sheet counts in plan summaries
	styleFaint   = lipgloss.NewStyle().Foreground(colorFaint)
	styleText    = lipgloss.NewStyle().Foreground(colorText)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(16)
	styleHeader  = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	styleBestRow = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
)

// Status line markers.
var (
	markOK   = lipgloss.NewStyle().Foreground(colorOK).Render("✓")
	markFail = lipgloss.NewStyle().Foreground(colorFail).Render("✗")
	markWarn = lipgloss.NewStyle().Foreground(colorWarn).Render("!")
	markInfo = lipgloss.NewStyle().Foreground(colorMuted).Render("›")
	markFile = styleFaint.Render("→")
)

func (c *CLI) status(mark, format string, args ...any) {
	fmt.Fprintln(c.out, mark+" "+fmt.Sprintf(format, args...))
}

func (c *CLI) printSuccess(format string, args ...any) { c.status(markOK, format, args...) }
func (c *CLI) printError(format string, args ...any)   { c.status(markFail, format, args...) }
func (c *CLI) printInfo(format string, args ...any)    { c.status(markInfo, format, args...) }

// printWarning colours the whole message, not just the marker, so skipped
// import rows stand out in a long batch.
func (c *CLI) printWarning(format string, args ...any) {
	fmt.Fprintln(c.out, markWarn+" "+lipgloss.NewStyle().Foreground(colorWarn).Render(fmt.Sprintf(format, args...)))
}

func (c *CLI) printDetail(format string, args ...any) {
	fmt.Fprintln(c.out, "  "+styleFaint.Render(fmt.Sprintf(format, args...)))
}

// printFile reports an export written to disk.
func (c *CLI) printFile(path string) {
	fmt.Fprintln(c.out, "  "+markFile+" "+styleText.Render(path))
}

func (c *CLI) printKeyValue(key, value string) {
	fmt.Fprintln(c.out, styleKey.Render(key)+" "+styleText.Render(value))
}

func (c *CLI) printTitle(title string) {
	fmt.Fprintln(c.out, styleTitle.Render(title))
}

func (c *CLI) printNewline() {
	fmt.Fprintln(c.out)
}

// printTable draws a rounded table. Row indexes in best are highlighted,
// which compare uses for the winning scenario.
func (c *CLI) printTable(headers []string, rows [][]string, best map[int]bool) {
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleFaint).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader.Padding(0, 1)
			case best[row]:
				return styleBestRow.Padding(0, 1)
			}
			return cell
		})
	fmt.Fprintln(c.out, t.Render())
}

// joinStats joins the non-empty plan figures with a faint dot.
func joinStats(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, styleFaint.Render(" · "))
}
