package pretty

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	tablePadding    = 2
	minPatternWidth = 10
	ellipsis        = "..."
)

// RuleRow is one row of the per-rule table.
type RuleRow struct {
	Index   int
	Name    string
	Pattern string
	Count   int
}

// FormatRuleTable renders rows as an aligned table fitted to width.
// The pattern column is truncated first when the table is too wide.
func (s *Styles) FormatRuleTable(rows []RuleRow, width int) string {
	if len(rows) == 0 {
		return ""
	}
	if width <= 0 {
		width = DefaultTermWidth
	}

	headers := [4]string{"#", "RULE", "PATTERN", "COUNT"}
	cells := make([][4]string, len(rows))
	widths := [4]int{}
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}

	for i, row := range rows {
		cells[i] = [4]string{
			strconv.Itoa(row.Index + 1),
			row.Name,
			row.Pattern,
			strconv.Itoa(row.Count),
		}
		for col, cell := range cells[i] {
			widths[col] = max(widths[col], lipgloss.Width(cell))
		}
	}

	total := widths[0] + widths[1] + widths[2] + widths[3] + tablePadding*3
	if over := total - width; over > 0 {
		widths[2] = max(minPatternWidth, widths[2]-over)
	}

	var builder strings.Builder

	builder.WriteString(s.TableHeader.Render(s.formatRow(headers, widths)))
	builder.WriteString("\n")
	builder.WriteString(s.TableSeparator.Render(strings.Repeat("-", widths[0]+widths[1]+widths[2]+widths[3]+tablePadding*3)))
	builder.WriteString("\n")

	for _, cell := range cells {
		builder.WriteString(s.formatRow(cell, widths))
		builder.WriteString("\n")
	}

	return builder.String()
}

func (s *Styles) formatRow(cells [4]string, widths [4]int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		cell = truncate(cell, widths[i])
		pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		if i == 0 || i == 3 {
			parts[i] = pad + cell
		} else {
			parts[i] = cell + pad
		}
	}
	return strings.TrimRight(strings.Join(parts, strings.Repeat(" ", tablePadding)), " ")
}

func truncate(text string, width int) string {
	if lipgloss.Width(text) <= width {
		return text
	}
	runes := []rune(text)
	keep := max(0, width-len(ellipsis))
	if keep > len(runes) {
		keep = len(runes)
	}
	return string(runes[:keep]) + ellipsis
}
