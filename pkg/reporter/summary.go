package reporter

import (
	"bufio"
	"context"
	"fmt"
	"sort"

	"github.com/yaklabco/gomdrules/internal/ui/pretty"
	"github.com/yaklabco/gomdrules/pkg/runner"
)

// SummaryReporter prints per-rule totals instead of individual violations.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	width  int
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		width:  pretty.TerminalWidth(opts.Writer),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || result.Stats.ViolationsTotal == 0 {
		fmt.Fprintln(r.bw, r.styles.Success.Render("No violations found"))
		return 0, nil
	}

	rows := ruleRows(result)

	fmt.Fprintln(r.bw, r.styles.Bold.Render("Rules Summary"))
	fmt.Fprint(r.bw, r.styles.FormatRuleTable(rows, r.width))

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	}

	return result.Stats.ViolationsTotal, nil
}

// ruleRows totals occurrences per rule index. Rules with no matches are
// omitted; rows are sorted by count, then by rule order.
func ruleRows(result *runner.Result) []pretty.RuleRow {
	counts := make(map[int]int)
	for _, file := range result.Files {
		for _, v := range file.Violations {
			counts[v.RuleIndex] += v.Count
		}
	}

	rows := make([]pretty.RuleRow, 0, len(counts))
	for idx, count := range counts {
		row := pretty.RuleRow{Index: idx, Count: count}
		if idx < len(result.Rules) {
			row.Name = result.Rules[idx].Name()
			row.Pattern = result.Rules[idx].Pattern()
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Index < rows[j].Index
	})

	return rows
}
