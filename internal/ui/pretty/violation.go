package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gomdrules/pkg/lint"
)

// DocumentLabel replaces the line prefix of whole-document violations.
const DocumentLabel = "Document"

// FormatLocation returns "Line <n>" or DocumentLabel.
func FormatLocation(v lint.Violation) string {
	if v.IsWholeDocument() {
		return DocumentLabel
	}
	return fmt.Sprintf("Line %d", v.Line)
}

// FormatViolation formats one occurrence as
// "Line <n>: <rule name> - <message>". The message part is omitted when the
// rule has no suggestion.
func (s *Styles) FormatViolation(v lint.Violation) string {
	var builder strings.Builder

	builder.WriteString("  ")
	builder.WriteString(s.Location.Render(FormatLocation(v) + ":"))
	builder.WriteString(" ")
	builder.WriteString(s.RuleName.Render(v.Rule.Name()))

	if msg := v.Message(); msg != "" {
		builder.WriteString(" - ")
		builder.WriteString(s.Message.Render(msg))
	}

	if v.Count > 1 {
		builder.WriteString(s.Count.Render(fmt.Sprintf(" (x%d)", v.Count)))
	}

	builder.WriteString("\n")
	return builder.String()
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "      "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, count int) string {
	header := s.FilePath.Render(path)
	switch {
	case count == 1:
		header += s.Dim.Render(" (1 violation)")
	case count > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d violations)", count))
	}
	return header
}
