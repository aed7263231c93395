package runner

import (
	"github.com/yaklabco/gomdrules/pkg/config"
	"github.com/yaklabco/gomdrules/pkg/fsutil"
	"github.com/yaklabco/gomdrules/pkg/lint"
)

// SkipBinary is the skip reason recorded for files with binary content.
const SkipBinary = "binary content"

// FileOutcome is the scan result for a single file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Violations are the findings for this file, line-major.
	Violations []lint.Violation

	// Content is the scanned text, kept for source context in reports.
	Content []byte

	// Info fingerprints the file as read, for change detection in watch mode.
	Info *fsutil.FileInfo

	// Skipped is true if the file was read but not scanned.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// Error is set if the file could not be processed.
	Error error
}

// Total returns the number of occurrences found in this file.
func (o FileOutcome) Total() int {
	return lint.Total(o.Violations)
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully scanned.
	FilesProcessed int

	// FilesSkipped is the number of files read but not scanned.
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FilesWithIssues is the number of files with at least one violation.
	FilesWithIssues int

	// ViolationsTotal is the sum of violation counts across all files.
	ViolationsTotal int

	// ViolationsByRule maps rule names to occurrence counts.
	ViolationsByRule map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Rules are the rules the run was scanned with, in set order.
	Rules []*lint.Rule

	// Mode is the scan mode used.
	Mode config.ScanMode

	// Files contains the outcome for each processed file, in discovery order.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasIssues reports whether any violations were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.ViolationsTotal > 0
}

// HasErrors reports whether any file could not be processed.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

func newStats() Stats {
	return Stats{
		ViolationsByRule: make(map[string]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
		return
	case outcome.Skipped:
		r.Stats.FilesSkipped++
		return
	}

	r.Stats.FilesProcessed++

	if len(outcome.Violations) > 0 {
		r.Stats.FilesWithIssues++
	}

	for _, v := range outcome.Violations {
		r.Stats.ViolationsTotal += v.Count
		r.Stats.ViolationsByRule[v.Rule.Name()] += v.Count
	}
}
