package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrules/pkg/config"
	"github.com/yaklabco/gomdrules/pkg/fsutil"
	"github.com/yaklabco/gomdrules/pkg/runner"
)

func parseLintFlags(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	flags := &lintFlags{}
	cmd := &cobra.Command{Use: "lint"}
	addLintFlags(cmd, flags)
	require.NoError(t, cmd.Flags().Parse(args))

	return flags.cliConfig(cmd)
}

func TestLintFlags_CLIConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want *config.Config
	}{
		{
			name: "no flags leaves every layer unmasked",
			args: nil,
			want: &config.Config{},
		},
		{
			name: "scalars",
			args: []string{"--format", "sarif", "--mode", "document", "--jobs", "3", "--compact", "--follow-symlinks"},
			want: &config.Config{
				Format:         config.FormatSARIF,
				Mode:           config.ModeDocument,
				Jobs:           3,
				Compact:        true,
				FollowSymlinks: true,
			},
		},
		{
			name: "slices",
			args: []string{
				"--ignore", "vendor/**,build/**",
				"--include", "docs/**",
				"--ext", "md,.rst",
				"--language", "Markdown",
			},
			want: &config.Config{
				Ignore:     []string{"vendor/**", "build/**"},
				Include:    []string{"docs/**"},
				Extensions: []string{".md", ".rst"},
				Languages:  []string{"Markdown"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseLintFlags(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLintFlags_CLIConfigInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "format", args: []string{"--format", "xml"}},
		{name: "mode", args: []string{"--mode", "paragraph"}},
		{name: "jobs", args: []string{"--jobs", "-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseLintFlags(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitInvalidUsage, ExitCode(err))
		})
	}
}

func TestNormalizeExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{".md", ".txt"}, normalizeExtensions([]string{"md", "", ".txt"}))
	assert.Empty(t, normalizeExtensions(nil))
}

func TestWatchState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	unchanged := filepath.Join(dir, "unchanged.md")
	edited := filepath.Join(dir, "edited.md")
	added := filepath.Join(dir, "added.md")
	for _, path := range []string{unchanged, edited, added} {
		require.NoError(t, os.WriteFile(path, []byte("same\n"), 0o600))
	}

	infoFor := func(path string) *fsutil.FileInfo {
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		return info
	}

	state := newWatchState(&runner.Result{
		Files: []runner.FileOutcome{
			{Path: unchanged, Info: infoFor(unchanged)},
			{Path: edited, Info: infoFor(edited)},
			{Path: filepath.Join(dir, "unreadable.md")},
		},
	})
	assert.Len(t, state.infos, 2)

	require.NoError(t, os.WriteFile(edited, []byte("different content\n"), 0o600))

	got := state.modified(ctx, []string{unchanged, edited, added})
	assert.Equal(t, []string{edited, added}, got)

	state.forget(edited)
	assert.Len(t, state.infos, 1)
}
