// Package reporter writes parse and conformance results.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/gomdparse/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes the result and returns the number of problems found:
	// failed files, error blocks and conformance mismatches.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatYAML:
		return NewYAMLReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// problems counts what Report returns.
func problems(result *runner.Result) int {
	if result == nil {
		return 0
	}
	return result.Stats.FilesErrored + result.Stats.ErrorBlocks + result.Stats.Mismatches
}

func displayPath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}
