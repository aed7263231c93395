package lint

// Line is one line of scanned text, without its terminator.
type Line struct {
	// Number is the 1-based line number.
	Number int

	// Text is the line content, excluding "\n" or "\r\n".
	Text string
}

// SplitLines splits content into numbered lines.
// It handles both LF and CRLF line endings. A trailing line without a
// newline is included; a final newline does not produce an empty line.
func SplitLines(content []byte) []Line {
	if len(content) == 0 {
		return []Line{}
	}

	var lines []Line
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}

		lineEnd := idx
		if idx > lineStart && content[idx-1] == '\r' {
			lineEnd = idx - 1
		}

		lines = append(lines, Line{
			Number: len(lines) + 1,
			Text:   string(content[lineStart:lineEnd]),
		})
		lineStart = idx + 1
	}

	if lineStart < len(content) {
		lines = append(lines, Line{
			Number: len(lines) + 1,
			Text:   string(content[lineStart:]),
		})
	}

	return lines
}
