// Package runner parses many Markdown files concurrently.
package runner

// Options controls discovery and parsing of a set of files.
type Options struct {
	// Paths are files, directories or doublestar globs. Defaults to ".".
	Paths []string

	// WorkingDir resolves relative Paths. Defaults to the process working
	// directory.
	WorkingDir string

	// Extensions are the lowercase file extensions treated as Markdown.
	Extensions []string

	// IncludeGlobs, when set, restrict discovered files to those matching
	// one of the patterns, relative to WorkingDir.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files and directories.
	ExcludeGlobs []string

	// FollowSymlinks walks into symlinked directories.
	FollowSymlinks bool

	// Jobs is the number of workers; 0 or less means runtime.NumCPU().
	Jobs int

	// Check also compares every document against goldmark.
	Check bool

	// CheckDepth is passed to the conformance checker.
	CheckDepth int
}

// DefaultExtensions returns the default set of Markdown file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
