package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdparse/internal/cli"
	"github.com/yaklabco/gomdparse/internal/configloader"
	"github.com/yaklabco/gomdparse/pkg/config"
	"github.com/yaklabco/gomdparse/pkg/fsutil"
	"github.com/yaklabco/gomdparse/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test-version", Commit: "test-commit", Date: "test-date"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "gomdparse", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"debug", "config", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing global flag %q", name)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	tests := [][]string{
		{"parse"},
		{"lines"},
		{"check"},
		{"config"},
		{"config", "init"},
		{"config", "path"},
		{"config", "env"},
		{"version"},
	}
	for _, path := range tests {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "find %v", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestRunFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"parse", "check"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		for _, flag := range []string{"format", "ext", "jobs", "ignore", "glob", "stats", "include-base"} {
			assert.NotNil(t, sub.Flags().Lookup(flag), "%s is missing --%s", name, flag)
		}
	}

	check, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)
	depth := check.Flags().Lookup("depth")
	require.NotNil(t, depth)
	assert.Equal(t, "1", depth.DefValue)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "test-version")
	assert.Contains(t, stdout.String(), "test-commit")
	assert.Contains(t, stdout.String(), "extensions=frontmatter,include")
}

func TestVersionCommand_Short(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"version", "--short"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "test-version\n", stdout.String())
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *runner.Result
		want   int
	}{
		{name: "nil", want: cli.ExitSuccess},
		{name: "clean", result: &runner.Result{}, want: cli.ExitSuccess},
		{
			name:   "failed file",
			result: &runner.Result{Stats: runner.Stats{FilesErrored: 1}},
			want:   cli.ExitProblems,
		},
		{
			name:   "mismatches win",
			result: &runner.Result{Stats: runner.Stats{ErrorBlocks: 1, FilesWithMismatches: 1}},
			want:   cli.ExitMismatches,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, cli.ExitCodeFromResult(testCase.result))
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", want: cli.ExitSuccess},
		{name: "problems", err: fmt.Errorf("wrapped: %w", cli.ErrProblemsFound), want: cli.ExitProblems},
		{name: "mismatches", err: cli.ErrMismatches, want: cli.ExitMismatches},
		{name: "missing config", err: configloader.ErrConfigNotFound, want: cli.ExitConfigError},
		{
			name: "validation",
			err:  fmt.Errorf("load: %w", &configloader.ValidationError{Field: "jobs", Message: "bad"}),
			want: cli.ExitConfigError,
		},
		{name: "unknown extension", err: config.ErrUnknownExtension, want: cli.ExitConfigError},
		{name: "missing file", err: fsutil.ErrNotFound, want: cli.ExitIOError},
		{name: "other", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, cli.ExitCode(testCase.err))
		})
	}
}

func TestIsSignal(t *testing.T) {
	t.Parallel()

	assert.True(t, cli.IsSignal(cli.ErrMismatches))
	assert.True(t, cli.IsSignal(fmt.Errorf("x: %w", cli.ErrProblemsFound)))
	assert.False(t, cli.IsSignal(errors.New("boom")))
}
