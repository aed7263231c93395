package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrules/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies slices", func(t *testing.T) {
		original := config.NewConfig()
		original.Ignore = []string{"vendor/**"}
		original.Languages = []string{"Markdown"}
		original.Compact = true

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)
		assert.Equal(t, original, clone)

		clone.Ignore[0] = "changed"
		clone.Extensions[0] = ".txt"
		assert.Equal(t, "vendor/**", original.Ignore[0])
		assert.Equal(t, ".md", original.Extensions[0])
	})
}

func TestToYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	original := config.NewConfig()
	original.Mode = config.ModeDocument
	original.Ignore = []string{"vendor/**"}
	original.Jobs = 4

	data, err := original.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "mode: document")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, original.Mode, parsed.Mode)
	assert.Equal(t, original.Ignore, parsed.Ignore)
	assert.Equal(t, original.Jobs, parsed.Jobs)
	assert.Equal(t, original.Extensions, parsed.Extensions)
}

func TestFromYAML_IgnoresRules(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte("format: json\nrules:\n  - name: No Foo\n    regex: Foo\n"))
	require.NoError(t, err)
	assert.Equal(t, config.FormatJSON, cfg.Format)
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.ModeLine, cfg.Mode)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.Equal(t, []string{".md", ".markdown"}, cfg.Extensions)
	assert.Zero(t, cfg.Jobs)
}

func TestValidity(t *testing.T) {
	t.Parallel()

	assert.True(t, config.ModeLine.IsValid())
	assert.True(t, config.ModeDocument.IsValid())
	assert.False(t, config.ScanMode("paragraph").IsValid())

	for _, f := range []config.OutputFormat{config.FormatText, config.FormatJSON, config.FormatSARIF, config.FormatSummary} {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, config.OutputFormat("xml").IsValid())
}
