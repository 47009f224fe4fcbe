package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover finds Markdown files for opts. Paths may be files, directories or
// doublestar globs relative to the working directory. The result holds
// absolute paths, sorted and free of duplicates.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		opts:       opts,
		seen:       make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}
		if err := d.add(inputPath); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	ctx        context.Context //nolint:containedctx // Scoped to one Discover call
	workDir    string
	extensions []string
	opts       Options
	seen       map[string]struct{}
	files      []string
}

func (d *discoverer) add(inputPath string) error {
	if isGlob(inputPath) {
		return d.glob(inputPath)
	}

	absPath := inputPath
	if !filepath.IsAbs(inputPath) {
		absPath = filepath.Join(d.workDir, inputPath)
	}
	absPath = filepath.Clean(absPath)

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", inputPath, err)
	}
	if info.IsDir() {
		return d.walk(absPath)
	}
	if d.matches(absPath) {
		d.keep(absPath)
	}
	return nil
}

// glob expands a pattern against the working directory.
func (d *discoverer) glob(pattern string) error {
	base, rel := d.workDir, filepath.ToSlash(pattern)
	if filepath.IsAbs(pattern) {
		base, rel = doublestar.SplitPattern(rel)
	}
	if !doublestar.ValidatePattern(rel) {
		return fmt.Errorf("%w: %s", doublestar.ErrBadPattern, pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(base), rel, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("glob %s: %w", pattern, err)
	}
	for _, match := range matches {
		if err := d.ctx.Err(); err != nil {
			return fmt.Errorf("discovery cancelled: %w", err)
		}
		absPath := filepath.Join(base, filepath.FromSlash(match))
		if d.matches(absPath) {
			d.keep(absPath)
		}
	}
	return nil
}

func (d *discoverer) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := d.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if matchAny(d.rel(path), d.opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped
			}
			info, err := os.Stat(realPath)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks {
					return nil
				}
				return d.walk(realPath)
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if d.matches(path) {
			d.keep(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (d *discoverer) keep(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

// matches applies the extension, exclude and include filters.
func (d *discoverer) matches(path string) bool {
	if !hasExtension(path, d.extensions) {
		return false
	}
	rel := d.rel(path)
	if matchAny(rel, d.opts.ExcludeGlobs) {
		return false
	}
	if len(d.opts.IncludeGlobs) > 0 && !matchAny(rel, d.opts.IncludeGlobs) {
		return false
	}
	return true
}

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

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func isGlob(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// matchAny matches a relative path against doublestar patterns. A pattern
// without a separator also matches the base name, so "*.md" applies at any
// depth, and "dir/**" matches dir itself.
func matchAny(relPath string, patterns []string) bool {
	path := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, filepath.Base(path)); ok {
				return true
			}
		}
	}
	return false
}
