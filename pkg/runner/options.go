// Package runner provides multi-file scanning orchestration.
package runner

import "github.com/yaklabco/gomdrules/pkg/config"

// Options controls multi-file scanning behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) to scan.
	// Defaults to config.DefaultExtensions(). Ignored when Languages is set.
	Extensions []string

	// IncludeGlobs are doublestar patterns a file must match, relative to
	// WorkingDir. Empty means "include everything that matches Extensions".
	IncludeGlobs []string

	// ExcludeGlobs are doublestar patterns used to skip files or directories.
	ExcludeGlobs []string

	// Languages restricts discovery to files whose extension maps to one of
	// these languages (e.g. "Markdown", "reStructuredText"). Case-insensitive.
	Languages []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Mode selects line or whole-document scanning.
	Mode config.ScanMode
}

// OptionsFromConfig builds runner options from a resolved configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Options{
		Paths:          paths,
		Extensions:     cfg.Extensions,
		IncludeGlobs:   cfg.Include,
		ExcludeGlobs:   cfg.Ignore,
		Languages:      cfg.Languages,
		Jobs:           cfg.Jobs,
		Mode:           cfg.Mode,
		FollowSymlinks: cfg.FollowSymlinks,
	}
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
