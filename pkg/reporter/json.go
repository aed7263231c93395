package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gomdrules/pkg/runner"
)

// jsonSchemaVersion is bumped when the JSON layout changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Mode    string           `json:"mode"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path       string          `json:"path"`
	Violations []JSONViolation `json:"violations"`
	Skipped    string          `json:"skipped,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// JSONViolation represents one rule matching at one location.
// Line is -1 for whole-document violations.
type JSONViolation struct {
	Rule          string `json:"rule"`
	RuleIndex     int    `json:"ruleIndex"`
	Line          int    `json:"line"`
	Column        int    `json:"column,omitempty"`
	Count         int    `json:"count"`
	Message       string `json:"message,omitempty"`
	Suggestion    string `json:"suggestion,omitempty"`
	Justification string `json:"justification,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesSkipped    int            `json:"filesSkipped"`
	FilesErrored    int            `json:"filesErrored"`
	TotalViolations int            `json:"totalViolations"`
	ByRule          map[string]int `json:"byRule"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalViolations, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			ByRule: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	output.Mode = string(result.Mode)
	output.Files = make([]JSONFileResult, 0, len(result.Files))

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:       r.opts.displayPath(file.Path),
			Violations: make([]JSONViolation, 0, len(file.Violations)),
			Skipped:    file.SkipReason,
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		for _, v := range file.Violations {
			fileResult.Violations = append(fileResult.Violations, JSONViolation{
				Rule:          v.Rule.Name(),
				RuleIndex:     v.RuleIndex,
				Line:          v.Line,
				Column:        v.Column,
				Count:         v.Count,
				Message:       v.Message(),
				Suggestion:    v.Rule.Suggestion(),
				Justification: v.Rule.Justification(),
			})
		}

		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary.FilesChecked = stats.FilesProcessed
	output.Summary.FilesWithIssues = stats.FilesWithIssues
	output.Summary.FilesSkipped = stats.FilesSkipped
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.TotalViolations = stats.ViolationsTotal
	for name, count := range stats.ViolationsByRule {
		output.Summary.ByRule[name] = count
	}

	return output
}
