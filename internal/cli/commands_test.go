package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdparse/internal/cli"
)

// execute runs the CLI with an empty explicit config so that config files
// around the test do not leak in.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("# empty\n"), 0o644))

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgFile, "--no-color"}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func writeMarkdown(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestParse_Stdin(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "# Title\n\nSome *text*.\n", "parse", "-")
	require.NoError(t, err)

	assert.Contains(t, out, "<stdin>")
	assert.Contains(t, out, "Heading h1")
	assert.Contains(t, out, "Emphasis")
	assert.Contains(t, out, "1 file parsed")
}

func TestParse_JSON(t *testing.T) {
	t.Parallel()

	dir := writeMarkdown(t, map[string]string{"a.md": "- one\n- two\n"})

	out, err := execute(t, "", "parse", "--format", "json", dir)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	files, ok := decoded["files"].([]any)
	require.True(t, ok)
	assert.Len(t, files, 1)
}

func TestParse_Quiet(t *testing.T) {
	t.Parallel()

	dir := writeMarkdown(t, map[string]string{"a.md": "text\n", "b.markdown": "> quote\n"})

	out, err := execute(t, "", "parse", "--quiet", dir)
	require.NoError(t, err)

	assert.NotContains(t, out, "Paragraph")
	assert.Contains(t, out, "2 files parsed")
}

func TestParse_IncludeFailureIsProblem(t *testing.T) {
	t.Parallel()

	dir := writeMarkdown(t, map[string]string{"a.md": "!include missing.md\n"})

	out, err := execute(t, "", "parse", "--ext", "include", dir)
	require.ErrorIs(t, err, cli.ErrProblemsFound)
	assert.Equal(t, cli.ExitProblems, cli.ExitCode(err))
	assert.Contains(t, out, "a.md:1:")
}

func TestParse_UnknownExtension(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "", "parse", "--ext", "includ", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "include"?`)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestParse_StdinMustBeAlone(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "", "parse", "-", "other.md")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestCheck(t *testing.T) {
	t.Parallel()

	dir := writeMarkdown(t, map[string]string{
		"a.md": "# Title\n\n- item\n\n```go\ncode\n```\n",
	})

	out, err := execute(t, "", "check", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "Heading")
	assert.Contains(t, out, "1 file parsed")
}

func TestLines(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "a\n\n  b\n", "lines", "-")
	require.NoError(t, err)

	rows := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, rows, 3)
	assert.Contains(t, rows[0], "text")
	assert.Contains(t, rows[1], "empty")
	assert.Contains(t, rows[2], "··b")
}

func TestLines_YAML(t *testing.T) {
	t.Parallel()

	dir := writeMarkdown(t, map[string]string{"a.md": "<!-- a\nb -->\n"})

	out, err := execute(t, "", "lines", "--format", "yaml", filepath.Join(dir, "a.md"))
	require.NoError(t, err)
	assert.Contains(t, out, "kind: comment")
	assert.Contains(t, out, "end_row: 2")
}

func TestLines_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "", "lines", filepath.Join(t.TempDir(), "nope.md"))
	require.Error(t, err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))
}

func TestConfig_Show(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "extensions:")
	assert.Contains(t, out, "max_depth: 4")
	assert.Contains(t, out, "color: never")
}

func TestConfig_Init(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "out.yml")

	_, err := execute(t, "", "config", "init", "--output", target)
	require.NoError(t, err)
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# gomdparse configuration")

	_, err = execute(t, "", "config", "init", "--output", target)
	require.Error(t, err)

	_, err = execute(t, "", "config", "init", "--full", "--force", "--output", target)
	require.NoError(t, err)
}

func TestConfig_Env(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "config", "env")
	require.NoError(t, err)
	assert.Contains(t, out, "GOMDPARSE_JOBS")
	assert.Contains(t, out, "GOMDPARSE_EXTENSIONS")
}

func TestHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name:    "root",
			args:    []string{"--help"},
			want:    []string{"Usage:\n  gomdparse [command]", "Commands:", "  parse ", "Flags:", "--no-color", "GOMDPARSE_*"},
			notWant: []string{"Global Flags:"},
		},
		{
			name:    "subcommand",
			args:    []string{"check", "--help"},
			want:    []string{"Usage:\n  gomdparse check [paths...]", "--depth int", "Global Flags:", "--no-color"},
			notWant: []string{"GOMDPARSE_*"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, "", testCase.args...)
			require.NoError(t, err)
			for _, want := range testCase.want {
				assert.Contains(t, out, want)
			}
			for _, notWant := range testCase.notWant {
				assert.NotContains(t, out, notWant)
			}
			assert.NotContains(t, out, "\x1b[")
		})
	}
}
