package runner_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdparse/internal/logging"
	"github.com/yaklabco/gomdparse/pkg/block"
	"github.com/yaklabco/gomdparse/pkg/ext/include"
	"github.com/yaklabco/gomdparse/pkg/parser"
	"github.com/yaklabco/gomdparse/pkg/runner"
)

func quietLogger() *log.Logger {
	return logging.NewWithWriter(io.Discard, "error")
}

func plainFactory() (*parser.Parser, error) {
	return parser.New(parser.WithLogger(quietLogger()), parser.WithLanguageDetection(false))
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "b.md", "a.md", "sub/c.md")

	r := runner.New(plainFactory, quietLogger())
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 2})
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, abs(dir, "a.md", "b.md", "sub/c.md"), []string{
		result.Files[0].Path, result.Files[1].Path, result.Files[2].Path,
	})
	for _, outcome := range result.Files {
		require.NoError(t, outcome.Error)
		require.NotNil(t, outcome.Document)
		assert.Len(t, outcome.Document.Blocks(block.TypeSectionHeader), 1)
		assert.Equal(t, outcome.Path, outcome.Document.Source)
		assert.Nil(t, outcome.Conformance)
	}

	assert.Equal(t, runner.Stats{
		FilesDiscovered: 3,
		FilesProcessed:  3,
		BlocksTotal:     3,
	}, result.Stats)
	assert.False(t, result.HasErrors())
	assert.False(t, result.HasMismatches())
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	r := runner.New(plainFactory, quietLogger())
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Zero(t, result.Stats.FilesDiscovered)
}

func TestRunner_Run_SerialMatchesParallel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var names []string
	for i := range 20 {
		names = append(names, fmt.Sprintf("doc%02d.md", i))
	}
	writeTree(t, dir, names...)

	r := runner.New(plainFactory, quietLogger())
	serial, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 1})
	require.NoError(t, err)
	parallel, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 8})
	require.NoError(t, err)

	require.Len(t, parallel.Files, len(serial.Files))
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
	}
	assert.Equal(t, serial.Stats, parallel.Stats)
}

func TestRunner_Run_Check(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md")

	r := runner.New(plainFactory, quietLogger())
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Check: true})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	require.NotNil(t, result.Files[0].Conformance)
	assert.True(t, result.Files[0].Conformance.OK())
	assert.False(t, result.HasMismatches())
}

func TestRunner_Run_ErrorBlocks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("!include missing.md\n"), 0o600))

	factory := func() (*parser.Parser, error) {
		return parser.New(
			parser.WithLogger(quietLogger()),
			parser.WithExtensions(include.New(include.Options{})),
		)
	}
	result, err := runner.New(factory, quietLogger()).Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.ErrorBlocks)
	assert.True(t, result.HasErrors())
}

func TestRunner_Run_FactoryError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md", "b.md")

	errBoom := errors.New("boom")
	factory := func() (*parser.Parser, error) { return nil, errBoom }

	result, err := runner.New(factory, quietLogger()).Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.FilesErrored)
	for _, outcome := range result.Files {
		assert.ErrorIs(t, outcome.Error, errBoom)
	}
	assert.True(t, result.HasErrors())
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(plainFactory, quietLogger()).Run(ctx, runner.Options{WorkingDir: dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResult_Nil(t *testing.T) {
	t.Parallel()

	var result *runner.Result
	assert.False(t, result.HasErrors())
	assert.False(t, result.HasMismatches())
}

func TestRunner_RunText(t *testing.T) {
	t.Parallel()

	r := runner.New(plainFactory, quietLogger())
	result, err := r.RunText(context.Background(), runner.Options{Check: true}, "<stdin>", "# Title\n\ntext\n")
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	outcome := result.Files[0]
	assert.Equal(t, "<stdin>", outcome.Path)
	require.NotNil(t, outcome.Document)
	assert.Equal(t, "<stdin>", outcome.Document.Source)
	require.NotNil(t, outcome.Conformance)
	assert.True(t, outcome.Conformance.OK())
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.Equal(t, 1, result.Stats.FilesDiscovered)
}
