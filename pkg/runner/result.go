package runner

import (
	"github.com/yaklabco/gomdparse/pkg/conformance"
	"github.com/yaklabco/gomdparse/pkg/parser"
)

// FileOutcome is the result of parsing one file.
type FileOutcome struct {
	Path string

	// Document is nil when Error is set.
	Document *parser.Document

	// Conformance is set when the run was asked to check.
	Conformance *conformance.Result

	Error error
}

// Stats summarizes a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int

	// BlocksTotal counts blocks of every parsed document.
	BlocksTotal int

	// ErrorBlocks counts error marker blocks, such as failed includes.
	ErrorBlocks int

	// FilesWithMismatches counts files whose outline differs from goldmark.
	FilesWithMismatches int
	Mismatches          int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome
	Stats Stats
}

// HasErrors reports whether any file failed to parse or holds error blocks.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.ErrorBlocks > 0
}

// HasMismatches reports whether any checked file disagreed with goldmark.
func (r *Result) HasMismatches() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesWithMismatches > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	r.Stats.FilesProcessed++

	if outcome.Document != nil {
		for _, n := range outcome.Document.Stats() {
			r.Stats.BlocksTotal += n
		}
		r.Stats.ErrorBlocks += len(outcome.Document.Errors())
	}
	if outcome.Conformance != nil && !outcome.Conformance.OK() {
		r.Stats.FilesWithMismatches++
		r.Stats.Mismatches += len(outcome.Conformance.Mismatches)
	}
}
