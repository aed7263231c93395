package runner

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-enry/go-enry/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gomdrules/pkg/fsutil"
	"github.com/yaklabco/gomdrules/pkg/lint"
)

// Runner scans many files with the rules of one RuleSet.
type Runner struct {
	// RuleSet supplies the rules. It should already be loaded.
	RuleSet *lint.RuleSet
}

// New creates a new Runner over rs.
func New(rs *lint.RuleSet) *Runner {
	return &Runner{RuleSet: rs}
}

// Run discovers files under opts.Paths and scans them concurrently.
// Files are reported in discovery order. A file that cannot be read is
// recorded on its FileOutcome and does not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(ctx, opts, files)
}

// RunFiles scans an explicit list of files, skipping discovery.
func (r *Runner) RunFiles(ctx context.Context, opts Options, files []string) (*Result, error) {
	scanner := lint.NewScanner(r.RuleSet, opts.Mode)

	result := &Result{
		Rules: scanner.Rules,
		Mode:  scanner.Mode,
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	outcomes := make([]FileOutcome, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			outcomes[i] = scanFile(groupCtx, scanner, path)
			return nil
		})
	}

	waitErr := group.Wait()

	for _, outcome := range outcomes {
		if outcome.Path == "" {
			// Never started because the run was cancelled.
			continue
		}
		result.accumulate(outcome)
	}

	if waitErr != nil {
		return result, fmt.Errorf("run cancelled: %w", waitErr)
	}
	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func scanFile(ctx context.Context, scanner *lint.Scanner, path string) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Info = info

	if enry.IsBinary(content) {
		outcome.Skipped = true
		outcome.SkipReason = SkipBinary
		return outcome
	}

	violations, err := scanner.Scan(ctx, content)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Violations = violations
	outcome.Content = content

	return outcome
}
