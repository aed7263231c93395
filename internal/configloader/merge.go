package configloader

import (
	"slices"

	"github.com/yaklabco/gomdrules/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Compact, FollowSymlinks: true in override wins; they cannot be unset
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Mode != "" {
		result.Mode = override.Mode
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Compact {
		result.Compact = true
	}
	if override.FollowSymlinks {
		result.FollowSymlinks = true
	}

	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}
	if override.Include != nil {
		result.Include = slices.Clone(override.Include)
	}
	if override.Languages != nil {
		result.Languages = slices.Clone(override.Languages)
	}

	return result
}
