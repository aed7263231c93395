package runner_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrules/pkg/config"
	"github.com/yaklabco/gomdrules/pkg/fsutil"
	"github.com/yaklabco/gomdrules/pkg/lint"
	"github.com/yaklabco/gomdrules/pkg/runner"
)

func newRunner(t *testing.T) *runner.Runner {
	t.Helper()
	rs := lint.NewRuleSet("")
	require.NoError(t, rs.Load(context.Background()))
	return runner.New(rs)
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.md":      "TODO: one\nclean\n",
		"b.md":      "a != b != c\n",
		"c.md":      "nothing to see\n",
		"d.md":      "x == y\nTODO\n",
		"skip.txt":  "TODO",
		"raw/e.md":  "\x00\x01\x02TODO",
		"docs/f.md": "see config.JSON\n",
	})

	for _, jobs := range []int{0, 1, 3} {
		result, err := newRunner(t).Run(context.Background(), runner.Options{
			WorkingDir: dir,
			Jobs:       jobs,
		})
		require.NoError(t, err)

		paths := make([]string, len(result.Files))
		for i, f := range result.Files {
			paths[i] = f.Path
		}
		assert.Equal(t, absAll(dir, "a.md", "b.md", "c.md", "d.md", "docs/f.md", "raw/e.md"), paths, "jobs=%d", jobs)

		stats := result.Stats
		assert.Equal(t, 6, stats.FilesDiscovered)
		assert.Equal(t, 5, stats.FilesProcessed)
		assert.Equal(t, 1, stats.FilesSkipped)
		assert.Equal(t, 0, stats.FilesErrored)
		assert.Equal(t, 4, stats.FilesWithIssues)
		assert.Equal(t, 6, stats.ViolationsTotal)
		assert.Equal(t, map[string]int{
			"No TODO":          2,
			"Strict Equality":  3,
			"File Name Casing": 1,
		}, stats.ViolationsByRule)

		assert.True(t, result.Files[5].Skipped)
		assert.Equal(t, runner.SkipBinary, result.Files[5].SkipReason)
		assert.Equal(t, 2, result.Files[1].Total())
		assert.True(t, result.HasIssues())
		assert.False(t, result.HasErrors())
		assert.Len(t, result.Rules, 5)
		assert.Equal(t, config.ModeLine, result.Mode)
	}
}

func TestRunner_DocumentMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.md": "TODO\nTODO\na == b\n"})

	result, err := newRunner(t).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Mode:       config.ModeDocument,
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	violations := result.Files[0].Violations
	require.Len(t, violations, 2)
	for _, v := range violations {
		assert.True(t, v.IsWholeDocument())
	}
	assert.Equal(t, 2, violations[0].Count)
	assert.Equal(t, 3, result.Stats.ViolationsTotal)
}

func TestRunner_RunFiles_ReadError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"ok.md": "TODO\n"})
	missing := filepath.Join(dir, "gone.md")

	result, err := newRunner(t).RunFiles(context.Background(), runner.Options{},
		[]string{filepath.Join(dir, "ok.md"), missing})
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.NoError(t, result.Files[0].Error)
	assert.True(t, errors.Is(result.Files[1].Error, fsutil.ErrNotFound))
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.True(t, result.HasErrors())
}

func TestRunner_Empty(t *testing.T) {
	t.Parallel()

	result, err := newRunner(t).Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasIssues())
}

func TestRunner_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.md": "TODO"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t).RunFiles(ctx, runner.Options{}, []string{filepath.Join(dir, "a.md")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"vendor/**"}
	cfg.Include = []string{"docs/**"}
	cfg.Jobs = 3
	cfg.Mode = config.ModeDocument

	opts := runner.OptionsFromConfig(cfg, []string{"docs"})
	assert.Equal(t, []string{"docs"}, opts.Paths)
	assert.Equal(t, cfg.Ignore, opts.ExcludeGlobs)
	assert.Equal(t, cfg.Include, opts.IncludeGlobs)
	assert.Equal(t, 3, opts.Jobs)
	assert.Equal(t, config.ModeDocument, opts.Mode)

	assert.Equal(t, config.ModeLine, runner.OptionsFromConfig(nil, nil).Mode)

}
