package reporter

import (
	"io"
	"os"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	Format Format

	// Color controls colorized text output: "auto", "always" or "never".
	Color string

	// Inlines includes inline nodes in the tree.
	Inlines bool

	// Blank includes blank-line blocks in the tree.
	Blank bool

	// Tree prints each document's tree. Without it only problems and the
	// summary are reported.
	Tree bool

	// Stats adds a table of block counts to text output.
	Stats bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Compact uses minified JSON.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		Inlines:     true,
		Tree:        true,
		ShowSummary: true,
	}
}
