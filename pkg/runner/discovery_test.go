package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdparse/pkg/runner"
)

// writeTree creates files under dir, each holding a heading.
func writeTree(t *testing.T, dir string, files ...string) {
	t.Helper()

	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# "+f+"\n"), 0o600))
	}
}

func abs(dir string, files ...string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, filepath.Join(dir, f))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	tree := []string{
		"readme.md",
		"docs/guide.md",
		"docs/api.markdown",
		"docs/deep/nested.md",
		"vendor/lib.md",
		".hidden/secret.md",
		"src/main.go",
		"notes.txt",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "directory",
			opts: runner.Options{Paths: []string{"."}},
			want: []string{"docs/api.markdown", "docs/deep/nested.md", "docs/guide.md", "readme.md", "vendor/lib.md"},
		},
		{
			name: "defaults to working directory",
			opts: runner.Options{},
			want: []string{"docs/api.markdown", "docs/deep/nested.md", "docs/guide.md", "readme.md", "vendor/lib.md"},
		},
		{
			name: "single file",
			opts: runner.Options{Paths: []string{"readme.md"}},
			want: []string{"readme.md"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".markdown"}},
			want: []string{"docs/api.markdown"},
		},
		{
			name: "exclude directory",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**"}},
			want: []string{"docs/api.markdown", "docs/deep/nested.md", "docs/guide.md", "readme.md"},
		},
		{
			name: "exclude base name",
			opts: runner.Options{ExcludeGlobs: []string{"guide.md"}},
			want: []string{"docs/api.markdown", "docs/deep/nested.md", "readme.md", "vendor/lib.md"},
		},
		{
			name: "include globs",
			opts: runner.Options{IncludeGlobs: []string{"docs/**/*.md"}},
			want: []string{"docs/deep/nested.md", "docs/guide.md"},
		},
		{
			name: "glob path",
			opts: runner.Options{Paths: []string{"docs/**/*.md"}},
			want: []string{"docs/deep/nested.md", "docs/guide.md"},
		},
		{
			name: "duplicates collapse",
			opts: runner.Options{Paths: []string{"readme.md", ".", "*.md"}},
			want: []string{"docs/api.markdown", "docs/deep/nested.md", "docs/guide.md", "readme.md", "vendor/lib.md"},
		},
		{
			name: "non-markdown file is skipped",
			opts: runner.Options{Paths: []string{"notes.txt"}},
			want: []string{},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeTree(t, dir, tree...)

			opts := testCase.opts
			opts.WorkingDir = dir
			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			if len(testCase.want) == 0 {
				assert.Empty(t, files)
				return
			}
			assert.Equal(t, abs(dir, testCase.want...), files)
		})
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"missing"},
		WorkingDir: dir,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"[bad"},
		WorkingDir: dir,
	})
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Discover(ctx, runner.Options{WorkingDir: dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outside := t.TempDir()
	writeTree(t, outside, "linked.md")
	writeTree(t, dir, "own.md")
	if err := os.Symlink(outside, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "own.md"), files)

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	realOutside, err := filepath.EvalSymlinks(outside)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "own.md"), filepath.Join(realOutside, "linked.md")}, files)
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{".md", ".markdown"}, runner.DefaultExtensions())
}
