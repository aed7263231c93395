// Package config defines core configuration types for gomdrules.
// These types are pure data structures with no dependency on the loaders.
package config

// OutputFormat specifies the output format for violations.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF, FormatSummary:
		return true
	default:
		return false
	}
}

// ScanMode selects how text is fed to the rules.
type ScanMode string

const (
	// ModeLine evaluates every rule against each line separately.
	ModeLine ScanMode = "line"

	// ModeDocument evaluates every rule once against the whole file.
	ModeDocument ScanMode = "document"
)

// IsValid returns true if the mode is known.
func (m ScanMode) IsValid() bool {
	return m == ModeLine || m == ModeDocument
}

// Config is the resolved tool configuration for a run.
type Config struct {
	// Mode selects line or whole-document scanning.
	Mode ScanMode `yaml:"mode,omitempty" json:"mode,omitempty"`

	// Extensions lists the file extensions (with leading dot) to scan.
	Extensions []string `yaml:"extensions,omitempty" json:"extensions,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty" json:"ignore,omitempty"`

	// Jobs is the number of parallel workers; 0 means auto.
	Jobs int `yaml:"jobs,omitempty" json:"jobs,omitempty"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"format,omitempty" json:"format,omitempty"`

	// CLI-level options (not persisted to config files).

	// Include contains glob patterns files must match to be scanned.
	Include []string `yaml:"-" json:"-"`

	// Languages restricts discovery to files of these enry languages.
	Languages []string `yaml:"-" json:"-"`

	// Compact requests minified machine-readable output.
	Compact bool `yaml:"-" json:"-"`

	// FollowSymlinks makes discovery descend into symlinked directories.
	FollowSymlinks bool `yaml:"-" json:"-"`
}

// DefaultExtensions returns the default documentation file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Mode:       ModeLine,
		Extensions: DefaultExtensions(),
		Format:     FormatText,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}
