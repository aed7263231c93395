package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldLocator    = "locator"

	// Configuration fields.
	FieldMode       = "mode"
	FieldFormat     = "format"
	FieldJobs       = "jobs"
	FieldExtensions = "extensions"
	FieldLoadedFrom = "loaded_from"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesSkipped    = "files_skipped"
	FieldFilesWithIssues = "files_with_issues"
	FieldViolations      = "violations"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule fields.
	FieldName  = "name"
	FieldRules = "rules"
	FieldKind  = "kind"

	// Watch fields.
	FieldEvent = "event"
)
