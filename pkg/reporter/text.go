package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gomdrules/internal/ui/pretty"
	"github.com/yaklabco/gomdrules/pkg/lint"
	"github.com/yaklabco/gomdrules/pkg/runner"
)

// TextReporter formats results as styled terminal output: a header per file,
// then one "Line <n>: <rule> - <message>" line per occurrence.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Failure.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if len(file.Violations) == 0 {
			continue
		}

		occurrences := lint.Expand(file.Violations)
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(occurrences)))

		var lines []lint.Line
		if r.opts.ShowContext {
			lines = lint.SplitLines(file.Content)
		}

		for _, v := range occurrences {
			fmt.Fprint(r.bw, r.styles.FormatViolation(v))
			if !v.IsWholeDocument() && v.Line <= len(lines) {
				fmt.Fprint(r.bw, r.styles.FormatSourceContext(lines[v.Line-1].Text, v.Column))
			}
			total++
		}

		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}
