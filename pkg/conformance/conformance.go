// Package conformance cross-checks parse trees against goldmark, a
// CommonMark reference implementation.
package conformance

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gomdparse/internal/logging"
	"github.com/yaklabco/gomdparse/pkg/fsutil"
	"github.com/yaklabco/gomdparse/pkg/mdast"
	"github.com/yaklabco/gomdparse/pkg/parser"
)

// DefaultDepth compares top-level blocks only.
const DefaultDepth = 1

// ErrCheck wraps failures to produce either outline.
var ErrCheck = errors.New("conformance check failed")

// Result is the outcome of checking one document.
type Result struct {
	Path string

	// Reference is the goldmark outline, Outline this parser's.
	Reference []Entry
	Outline   []Entry

	Mismatches []Mismatch
}

// OK reports whether the outlines agree.
func (r *Result) OK() bool {
	return len(r.Mismatches) == 0
}

// Diff renders the mismatches, or "" when there are none.
func (r *Result) Diff() string {
	return formatDiff(r.Path, r.Mismatches)
}

// Checker compares this parser's block structure with goldmark's.
type Checker struct {
	md     goldmark.Markdown
	parser *parser.Parser
	depth  int
	logger *log.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithDepth sets how many levels of nesting are compared; 0 compares all.
func WithDepth(depth int) Option {
	return func(c *Checker) {
		c.depth = max(depth, 0)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// New creates a Checker with a plain CommonMark parser on both sides.
// Extensions are left out since goldmark has no counterpart for them.
func New(opts ...Option) (*Checker, error) {
	checker := &Checker{
		md:    goldmark.New(),
		depth: DefaultDepth,
	}
	for _, opt := range opts {
		opt(checker)
	}
	if checker.logger == nil {
		checker.logger = logging.Default()
	}

	p, err := parser.New(
		parser.WithLogger(checker.logger),
		parser.WithLanguageDetection(false),
	)
	if err != nil {
		return nil, fmt.Errorf("create parser: %w", err)
	}
	checker.parser = p
	return checker, nil
}

// Check parses text with both parsers and diffs the outlines.
func (c *Checker) Check(ctx context.Context, path, input string) (*Result, error) {
	doc, err := c.parser.Parse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCheck, path, err)
	}
	source := []byte(input)
	reference := c.md.Parser().Parse(text.NewReader(source), gmparser.WithContext(gmparser.NewContext()))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCheck, path, err)
	}

	result := &Result{
		Path:      path,
		Reference: outlineReference(reference, source, c.depth),
		Outline:   outlineTree(mdast.FromDocument(doc), c.depth),
	}
	result.Mismatches = diffOutlines(result.Reference, result.Outline)
	if !result.OK() {
		c.logger.Debug("outline mismatch",
			logging.FieldPath, path,
			logging.FieldMismatches, len(result.Mismatches),
		)
	}
	return result, nil
}

// CheckFile reads path and checks its contents.
func (c *Checker) CheckFile(ctx context.Context, path string) (*Result, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCheck, err)
	}
	return c.Check(ctx, path, string(content))
}
