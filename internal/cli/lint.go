package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdrules/internal/configloader"
	"github.com/yaklabco/gomdrules/internal/logging"
	"github.com/yaklabco/gomdrules/internal/watch"
	"github.com/yaklabco/gomdrules/pkg/config"
	"github.com/yaklabco/gomdrules/pkg/fsutil"
	"github.com/yaklabco/gomdrules/pkg/lint"
	"github.com/yaklabco/gomdrules/pkg/reporter"
	"github.com/yaklabco/gomdrules/pkg/runner"
)

type lintFlags struct {
	format     string
	mode       string
	ignore     []string
	include    []string
	extensions []string
	languages  []string
	jobs       int
	compact    bool
	noContext  bool
	symlinks   bool
	watch      bool
}

func newLintCommand(info BuildInfo) *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check documentation files against the active rules",
		Long:  lintLongDescription + environmentHelp(),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags, info)
		},
	}

	addLintFlags(cmd, flags)

	return cmd
}

const lintLongDescription = `Check documentation files against the built-in rules and any rules
from the configuration document.

By default, checks all .md and .markdown files under the current directory.
Specify paths to check specific files or directories.

Examples:
  gomdrules lint                        # Check the current directory
  gomdrules lint docs/ README.md        # Check specific paths
  gomdrules lint --mode document        # Evaluate each file as a whole
  gomdrules lint --format sarif > out   # SARIF for code scanning
  gomdrules lint --language reStructuredText
  gomdrules lint --watch docs/          # Re-check files as they change`

// environmentHelp lists the GOMDRULES_* overrides for the lint help text.
func environmentHelp() string {
	var builder strings.Builder
	builder.WriteString("\n\nEnvironment:\n")
	for _, envVar := range configloader.ListEnvVars() {
		fmt.Fprintf(&builder, "  %-22s %s\n", envVar[0], envVar[1])
	}
	return builder.String()
}

func addLintFlags(cmd *cobra.Command, flags *lintFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif, summary")
	cmd.Flags().StringVar(&flags.mode, "mode", "line", "scan mode: line or document")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns files must match")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to scan (default .md,.markdown)")
	cmd.Flags().StringSliceVar(&flags.languages, "language", nil, "scan files of these languages instead of by extension")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.symlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-check files when they change")
}

// cliConfig builds the flag layer of the configuration. Only flags the user
// set are copied so that file and environment values are not masked.
func (f *lintFlags) cliConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("format") {
		format, err := reporter.ParseFormat(f.format)
		if err != nil {
			return nil, &usageError{err: err}
		}
		cfg.Format = config.OutputFormat(format)
	}
	if changed("mode") {
		mode := config.ScanMode(f.mode)
		if !mode.IsValid() {
			return nil, &usageError{err: fmt.Errorf("invalid mode %q: must be line or document", f.mode)}
		}
		cfg.Mode = mode
	}
	if changed("jobs") {
		if f.jobs < 0 {
			return nil, &usageError{err: fmt.Errorf("invalid jobs %d: must be >= 0", f.jobs)}
		}
		cfg.Jobs = f.jobs
	}
	if changed("ignore") {
		cfg.Ignore = f.ignore
	}
	if changed("ext") {
		cfg.Extensions = normalizeExtensions(f.extensions)
	}

	cfg.Include = f.include
	cfg.Languages = f.languages
	cfg.Compact = f.compact
	cfg.FollowSymlinks = f.symlinks

	return cfg, nil
}

// normalizeExtensions adds the leading dot users often leave off.
func normalizeExtensions(exts []string) []string {
	result := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext == "" {
			continue
		}
		if ext[0] != '.' {
			ext = "." + ext
		}
		result = append(result, ext)
	}
	return result
}

// lintSession holds everything a lint run needs after configuration is resolved.
type lintSession struct {
	cfg      *config.Config
	runner   *runner.Runner
	runOpts  runner.Options
	reporter reporter.Reporter
}

func runLint(cmd *cobra.Command, args []string, flags *lintFlags, info BuildInfo) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := newLintSession(ctx, cmd, args, flags, info)
	if err != nil {
		return err
	}

	result, err := session.check(ctx)
	if err != nil {
		return err
	}

	if flags.watch {
		return session.watch(ctx, result)
	}

	return outcomeError(result)
}

func newLintSession(
	ctx context.Context,
	cmd *cobra.Command,
	args []string,
	flags *lintFlags,
	info BuildInfo,
) (*lintSession, error) {
	logger := logging.FromContext(ctx)

	cliCfg, err := flags.cliConfig(cmd)
	if err != nil {
		return nil, err
	}

	loadResult, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return nil, err
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldLocator, loadResult.Locator,
		logging.FieldLoadedFrom, loadResult.LoadedFrom,
		logging.FieldMode, cfg.Mode,
		logging.FieldFormat, cfg.Format,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldExtensions, cfg.Extensions,
	)

	ruleSet, err := loadRules(ctx, loadResult.Locator)
	if err != nil {
		return nil, err
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      reporter.Format(cfg.Format),
		Color:       colorMode,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Compact:     cfg.Compact,
		WorkingDir:  loadResult.WorkingDir,
		ToolVersion: info.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("create reporter: %w", err)
	}

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = loadResult.WorkingDir

	return &lintSession{
		cfg:      cfg,
		runner:   runner.New(ruleSet),
		runOpts:  runOpts,
		reporter: rep,
	}, nil
}

// loadConfig resolves the configuration for the current directory, honoring
// the persistent --config flag.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*configloader.LoadResult, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logging.FromContext(ctx).Warn(warning)
	}

	return loadResult, nil
}

// loadRules builds the active rule set: built-ins plus the rules of the
// document at locator.
func loadRules(ctx context.Context, locator string) (*lint.RuleSet, error) {
	ruleSet := lint.NewRuleSet(locator)
	if err := ruleSet.Load(ctx); err != nil {
		return nil, errors.Join(errors.New("failed to load rules"), err)
	}
	logging.FromContext(ctx).Debug("rules loaded", logging.FieldRules, ruleSet.Len())
	return ruleSet, nil
}

// check runs a full discovery and scan and reports it.
func (s *lintSession) check(ctx context.Context) (*runner.Result, error) {
	logging.FromContext(ctx).Debug("starting lint run",
		logging.FieldPaths, s.runOpts.Paths,
		logging.FieldWorkingDir, s.runOpts.WorkingDir,
		logging.FieldJobs, s.runOpts.Jobs,
	)

	result, err := s.runner.Run(ctx, s.runOpts)
	if err != nil {
		return nil, errors.Join(errors.New("lint run failed"), err)
	}

	if err := s.report(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *lintSession) report(ctx context.Context, result *runner.Result) error {
	logging.FromContext(ctx).Debug("lint run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
		logging.FieldViolations, result.Stats.ViolationsTotal,
	)

	if _, err := s.reporter.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}

// watch re-checks changed files until ctx is cancelled.
func (s *lintSession) watch(ctx context.Context, initial *runner.Result) error {
	logger := logging.FromContext(ctx)

	paths := s.runOpts.Paths
	if len(paths) == 0 {
		paths = []string{s.runOpts.WorkingDir}
	}

	// Language filtering is decided by discovery, so every event passes
	// through when languages are selected.
	extensions := s.cfg.Extensions
	if len(s.cfg.Languages) > 0 {
		extensions = nil
	}

	watcher, err := watch.New(watch.Options{
		Paths:      paths,
		Extensions: extensions,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Debug("close watcher", logging.FieldError, closeErr)
		}
	}()

	state := newWatchState(initial)
	logger.Info("watching for changes", logging.FieldPaths, paths)

	return watcher.Run(ctx, func(ctx context.Context, changed []string) error {
		return s.recheck(ctx, state, changed)
	})
}

// recheck scans the changed files that still pass discovery filters and whose
// content differs from the last scan.
func (s *lintSession) recheck(ctx context.Context, state *watchState, changed []string) error {
	logger := logging.FromContext(ctx)

	existing := make([]string, 0, len(changed))
	for _, path := range changed {
		if _, err := os.Stat(path); err != nil {
			state.forget(path)
			continue
		}
		existing = append(existing, path)
	}
	if len(existing) == 0 {
		return nil
	}

	opts := s.runOpts
	opts.Paths = existing
	candidates, err := runner.Discover(ctx, opts)
	if err != nil {
		return fmt.Errorf("discover changed files: %w", err)
	}

	files := state.modified(ctx, candidates)
	if len(files) == 0 {
		return nil
	}
	logger.Debug("re-checking", logging.FieldFiles, files)

	result, err := s.runner.RunFiles(ctx, opts, files)
	if err != nil {
		return fmt.Errorf("re-check: %w", err)
	}
	state.update(result)

	return s.report(ctx, result)
}

// watchState remembers the fingerprint of every file as last scanned.
type watchState struct {
	infos map[string]*fsutil.FileInfo
}

func newWatchState(result *runner.Result) *watchState {
	state := &watchState{infos: make(map[string]*fsutil.FileInfo)}
	state.update(result)
	return state
}

func (w *watchState) update(result *runner.Result) {
	if result == nil {
		return
	}
	for _, outcome := range result.Files {
		if outcome.Info != nil {
			w.infos[outcome.Path] = outcome.Info
		}
	}
}

func (w *watchState) forget(path string) {
	delete(w.infos, path)
}

// modified filters paths down to files that are new or changed.
func (w *watchState) modified(ctx context.Context, paths []string) []string {
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		info, ok := w.infos[path]
		if !ok {
			result = append(result, path)
			continue
		}
		changed, err := fsutil.CheckModified(ctx, info)
		if err != nil || changed {
			result = append(result, path)
		}
	}
	return result
}

// outcomeError converts a finished run into the command's error result.
func outcomeError(result *runner.Result) error {
	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrLintIssuesFound
	}
	if result.HasErrors() {
		for _, outcome := range result.Files {
			if outcome.Error != nil {
				return fmt.Errorf("%d files could not be read: %w", result.Stats.FilesErrored, outcome.Error)
			}
		}
	}
	return nil
}
