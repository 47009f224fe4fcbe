// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldSource     = "source"

	// Configuration fields.
	FieldFormat   = "format"
	FieldJobs     = "jobs"
	FieldConfig   = "config"
	FieldExtended = "extended"

	// Parsing fields.
	FieldBlock    = "block"
	FieldBy       = "by"
	FieldLine     = "line"
	FieldReplayed = "replayed"
	FieldRounds   = "rounds"
	FieldLinks    = "links"
	FieldDepth    = "depth"
	FieldTarget   = "target"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesFailed     = "files_failed"
	FieldBlocksTotal     = "blocks_total"
	FieldMismatches      = "mismatches"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
	FieldGo      = "go"
	FieldExts    = "extensions"
)
