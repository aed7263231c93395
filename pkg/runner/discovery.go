package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-enry/go-enry/v2"
)

// Discover finds documentation files matching opts under the working directory.
// It returns a deterministically sorted list of absolute file paths.
// Paths named explicitly as files bypass the hidden and vendor checks but
// still honour extensions and globs.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	filter := newFileFilter(workDir, opts)

	seen := make(map[string]struct{})
	var files []string

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if filter.matchesFile(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := filter.walk(ctx, absPath, make(map[string]struct{}))
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	sort.Strings(files)

	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

type fileFilter struct {
	workDir        string
	extensions     []string
	languages      []string
	include        []string
	exclude        []string
	followSymlinks bool
}

func newFileFilter(workDir string, opts Options) *fileFilter {
	return &fileFilter{
		workDir:        workDir,
		extensions:     opts.effectiveExtensions(),
		languages:      opts.Languages,
		include:        opts.IncludeGlobs,
		exclude:        opts.ExcludeGlobs,
		followSymlinks: opts.FollowSymlinks,
	}
}

func (f *fileFilter) rel(path string) string {
	relPath, err := filepath.Rel(f.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(relPath)
}

// walk recursively collects matching files under root. The walk runs over
// root's resolved target, but reported paths keep root as their prefix, so a
// symlinked directory yields paths through the link. visited holds the
// resolved directories already walked so symlink cycles terminate.
func (f *fileFilter) walk(ctx context.Context, root string, visited map[string]struct{}) ([]string, error) {
	target, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	if _, ok := visited[target]; ok {
		return nil, nil
	}
	visited[target] = struct{}{}

	var files []string

	err = filepath.WalkDir(target, func(walked string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		path := root
		if walked != target {
			path = filepath.Join(root, strings.TrimPrefix(walked, target+string(filepath.Separator)))
		}
		relPath := f.rel(path)

		if entry.IsDir() {
			if walked == target {
				return nil
			}
			if strings.HasPrefix(entry.Name(), ".") || f.skipDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(walked)
			if statErr != nil {
				// Broken symlink.
				return nil //nolint:nilerr // Intentionally skip broken symlinks
			}
			if info.IsDir() {
				if !f.followSymlinks || f.skipDir(relPath) {
					return nil
				}
				subFiles, err := f.walk(ctx, path, visited)
				if err != nil {
					return err
				}
				files = append(files, subFiles...)
				return nil
			}
		}

		if enry.IsVendor(relPath) {
			return nil
		}

		if f.matchesFile(path) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// skipDir reports whether a directory is vendored or excluded.
func (f *fileFilter) skipDir(relDir string) bool {
	if enry.IsVendor(relDir + "/") {
		return true
	}
	return matchAny(f.exclude, relDir) || matchAny(f.exclude, relDir+"/")
}

// matchesFile checks if a file path matches the inclusion criteria.
func (f *fileFilter) matchesFile(path string) bool {
	relPath := f.rel(path)

	if !f.matchesType(path) {
		return false
	}

	if matchAny(f.exclude, relPath) {
		return false
	}

	if len(f.include) > 0 && !matchAny(f.include, relPath) {
		return false
	}

	return true
}

// matchesType applies the language filter when set, else the extension filter.
func (f *fileFilter) matchesType(path string) bool {
	if len(f.languages) > 0 {
		lang, _ := enry.GetLanguageByExtension(path)
		if lang == "" {
			return false
		}
		for _, want := range f.languages {
			if strings.EqualFold(want, lang) {
				return true
			}
		}
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range f.extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// matchAny reports whether relPath matches any doublestar pattern. Patterns
// without a slash also match against the base name, so "*.draft.md" applies
// at any depth.
func matchAny(patterns []string, relPath string) bool {
	base := relPath
	if idx := strings.LastIndex(strings.TrimSuffix(relPath, "/"), "/"); idx >= 0 {
		base = relPath[idx+1:]
	}

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}
