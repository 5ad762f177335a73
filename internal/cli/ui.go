package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/procdeck/pkg/diagram"
	"github.com/matzehuels/procdeck/pkg/pipeline"
)

// Terminal palette. Green and red match the oval fills of a page.
var (
	ovalGreen = lipgloss.Color("35")
	ovalRed   = lipgloss.Color("167")
	accent    = lipgloss.Color("36")
	amber     = lipgloss.Color("220")
	bright    = lipgloss.Color("255")
	muted     = lipgloss.Color("240")
	subtle    = lipgloss.Color("245")
)

var (
	policyIDStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	countStyle    = lipgloss.NewStyle().Foreground(accent)
	mutedStyle    = lipgloss.NewStyle().Foreground(muted)
	pathStyle     = lipgloss.NewStyle().Foreground(bright)
	warnStyle     = lipgloss.NewStyle().Foreground(amber)

	roleStyles = map[diagram.Role]lipgloss.Style{
		diagram.Skip:      mutedStyle,
		diagram.Primary:   lipgloss.NewStyle().Foreground(ovalGreen),
		diagram.Secondary: lipgloss.NewStyle().Foreground(ovalRed),
		diagram.Label:     pathStyle,
	}
)

// status prints one line prefixed by a colored marker.
func status(marker string, color lipgloss.Color, msg string) {
	fmt.Println(lipgloss.NewStyle().Foreground(color).Render(marker) + " " + msg)
}

func printSuccess(format string, args ...any) {
	status("✓", ovalGreen, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	status("✗", ovalRed, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status("!", amber, warnStyle.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status("›", subtle, fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + mutedStyle.Render("→") + " " + pathStyle.Render(path))
}

// printReport lists the built pages with their counts, then the policies
// that failed with their reason.
func printReport(r pipeline.Report) {
	for _, p := range r.Pages {
		printSuccess("%s %s", policyIDStyle.Render(p.Policy), p.Title)
		printStats(p.Shapes, p.Verbs, p.Duration)
	}
	for _, f := range r.Failures {
		var title string
		if p, ok := diagram.Lookup(f.Policy); ok {
			title = p.Title
		}
		printError("%s %s", policyIDStyle.Render(f.Policy), title)
		printDetail("%v", f.Err)
	}
}

func printStats(shapes, verbs int, d time.Duration) {
	fields := []string{
		countStyle.Render(strconv.Itoa(shapes)) + mutedStyle.Render(" shapes"),
		countStyle.Render(strconv.Itoa(verbs)) + mutedStyle.Render(" verbs"),
		mutedStyle.Render(d.Round(time.Millisecond).String()),
	}
	fmt.Println("  " + strings.Join(fields, mutedStyle.Render(" · ")))
}

// fixedColumns precede the per-column roles in the policy table.
var fixedColumns = []string{"Policy", "Title", "Layout", "Rows"}

// policyTable renders one row per policy with the role of each table
// column. A trailing * marks columns that are not searched for verbs.
func policyTable(policies []diagram.Policy) string {
	headers := withColumnHeaders(fixedColumns)

	rows := make([][]string, len(policies))
	for i, p := range policies {
		rows[i] = append(rows[i], p.ID, p.Title, p.Layout.String(), rowSelection(p))
		for col := range diagram.Columns {
			cell := p.Role(col).String()
			if !p.ScansVerbs(col) {
				cell += "*"
			}
			rows[i] = append(rows[i], cell)
		}
	}

	header := lipgloss.NewStyle().Foreground(subtle).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			cell := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return cell.Inherit(header)
			case row < 0 || row >= len(policies) || col < len(fixedColumns):
				return cell
			}
			return cell.Inherit(roleStyles[policies[row].Role(col-len(fixedColumns))])
		}).
		Render()
}

func withColumnHeaders(fixed []string) []string {
	out := append([]string(nil), fixed...)
	for col := range diagram.Columns {
		out = append(out, strconv.Itoa(col))
	}
	return out
}

func rowSelection(p diagram.Policy) string {
	if p.SingleRow {
		return fmt.Sprintf("row %d", p.FirstRow)
	}
	return fmt.Sprintf("rows %d..", p.FirstRow)
}
