package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdparse/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))

	result, err := Load(context.Background(), isolated(tmpDir))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".gomdparse.yml"), `
extensions: [frontmatter, include]
include:
  max_depth: 2
jobs: 3
`)
	nested := filepath.Join(root, "docs", "guide")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), isolated(nested))
	require.NoError(t, err)

	cfg := result.Config
	assert.True(t, cfg.HasExtension(config.ExtInclude))
	assert.Equal(t, 2, cfg.Include.MaxDepth)
	assert.Equal(t, config.DefaultIncludeConcurrency, cfg.Include.Concurrency)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, []string{filepath.Join(root, ".gomdparse.yml")}, result.LoadedFrom)
}

func TestLoad_ExplicitConfigWinsOverProject(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".gomdparse.yml"), "jobs: 3\nlog_level: debug\n")
	custom := filepath.Join(root, "custom.yml")
	writeFile(t, custom, "jobs: 5\n")

	opts := isolated(root)
	opts.ExplicitPath = custom

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Config.Jobs)
	assert.Equal(t, "debug", result.Config.LogLevel)
	assert.Len(t, result.LoadedFrom, 2)
	assert.Equal(t, custom, result.Paths.Explicit)
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	t.Parallel()

	opts := isolated(t.TempDir())
	opts.ExplicitPath = filepath.Join(opts.WorkingDir, "nope.yml")

	_, err := Load(context.Background(), opts)
	require.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".gomdparse.yml"), "output:\n  format: yaml\n  color: always\n")

	opts := isolated(root)
	opts.CLIConfig = &config.Config{Output: config.OutputConfig{Format: config.FormatJSON}}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, config.FormatJSON, result.Config.Output.Format)
	assert.Equal(t, config.ColorAlways, result.Config.Output.Color)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		sentinel error
		contains string
	}{
		{
			name:     "unknown extension",
			content:  "extensions: [includ]\n",
			sentinel: config.ErrUnknownExtension,
			contains: `did you mean "include"?`,
		},
		{
			name:     "bad format",
			content:  "output:\n  format: sarif\n",
			contains: "output.format",
		},
		{
			name:     "negative depth",
			content:  "include:\n  max_depth: -1\n",
			contains: "must not be negative",
		},
		{
			name:     "unknown key",
			content:  "flavor: gfm\n",
			contains: "field flavor not found",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
			path := filepath.Join(root, ".gomdparse.yml")
			writeFile(t, path, testCase.content)

			_, err := Load(context.Background(), isolated(root))
			require.Error(t, err)
			if testCase.sentinel != nil {
				require.ErrorIs(t, err, testCase.sentinel)
			}
			assert.Contains(t, err.Error(), testCase.contains)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_Env(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".gomdparse.yml"), "jobs: 3\n")

	t.Setenv("GOMDPARSE_JOBS", "6")
	t.Setenv("GOMDPARSE_EXTENSIONS", "include, frontmatter")
	t.Setenv("GOMDPARSE_DETECT_LANGUAGE", "false")
	t.Setenv("GOMDPARSE_CHECK_DEPTH", "0")

	opts := isolated(root)
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, 6, cfg.Jobs)
	assert.Equal(t, []string{"include", "frontmatter"}, cfg.Extensions)
	assert.False(t, cfg.LanguageDetection())
	assert.Equal(t, 0, cfg.CheckDepth())
}

func TestLoadFromEnv_InvalidValue(t *testing.T) {
	t.Setenv("GOMDPARSE_JOBS", "many")

	err := LoadFromEnv(config.NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOMDPARSE_JOBS")
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		marker func(t *testing.T, repo string)
	}{
		{
			name: "git directory",
			marker: func(t *testing.T, repo string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
			},
		},
		{
			name: "git worktree file",
			marker: func(t *testing.T, repo string) {
				t.Helper()
				writeFile(t, filepath.Join(repo, ".git"), "gitdir: /elsewhere/.git/worktrees/repo\n")
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			outer := t.TempDir()
			writeFile(t, filepath.Join(outer, ".gomdparse.yml"), "jobs: 1\n")
			repo := filepath.Join(outer, "repo")
			require.NoError(t, os.MkdirAll(filepath.Join(repo, "docs"), 0o755))
			testCase.marker(t, repo)

			path, err := FindProjectConfig(context.Background(), filepath.Join(repo, "docs"))
			require.NoError(t, err)
			assert.Empty(t, path)
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	depth := 0
	detect := false
	base := config.NewConfig()
	base.Files.Ignore = []string{"vendor/**"}

	merged := MergeAll(base, &config.Config{
		Extensions:     []string{config.ExtInclude},
		DetectLanguage: &detect,
		Check:          config.CheckConfig{Depth: &depth},
		Output:         config.OutputConfig{Stats: true},
	}, &config.Config{Jobs: 2})

	assert.Equal(t, []string{config.ExtInclude}, merged.Extensions)
	assert.False(t, merged.LanguageDetection())
	assert.Equal(t, 0, merged.CheckDepth())
	assert.True(t, merged.Output.Stats)
	assert.Equal(t, config.FormatText, merged.Output.Format)
	assert.Equal(t, []string{"vendor/**"}, merged.Files.Ignore)
	assert.Equal(t, 2, merged.Jobs)

	// Inputs are untouched.
	assert.Equal(t, []string{config.ExtFrontMatter}, base.Extensions)
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ProjectConfigName)
	require.NoError(t, WriteConfig(ctx, path, []byte("jobs: 1\n"), false))
	require.NoError(t, os.Chmod(path, 0o600))

	err := WriteConfig(ctx, path, []byte("jobs: 2\n"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	require.NoError(t, WriteConfig(ctx, path, []byte("jobs: 2\n"), true))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jobs: 2\n", string(content))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
}
