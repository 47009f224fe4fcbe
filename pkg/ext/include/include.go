// Package include adds an "!include <path>" directive to the parser. Each
// directive is its own block; after block parsing a processing step fetches
// the targets and grafts their parsed blocks in as the directive's children.
// Failures become error blocks.
package include

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"sync"

	"github.com/yaklabco/gomdparse/internal/logging"
	"github.com/yaklabco/gomdparse/pkg/block"
	"github.com/yaklabco/gomdparse/pkg/fsutil"
	"github.com/yaklabco/gomdparse/pkg/lines"
	"github.com/yaklabco/gomdparse/pkg/parser"
)

// Type is the block type of include directives.
const Type block.Type = "include"

// Name is the extension name used in configuration.
const Name = "include"

// Defaults.
const (
	DefaultMaxDepth    = 4
	DefaultConcurrency = 4
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrCircular indicates a file includes itself, directly or not.
	ErrCircular = errors.New("circular include")

	// ErrTooDeep indicates the nesting limit was reached.
	ErrTooDeep = errors.New("include depth exceeded")
)

//nolint:gochecknoglobals // Compiled once, read-only
var directivePattern = regexp.MustCompile(`^!include[ \t]+(\S(?:.*\S)?)[ \t]*$`)

// Resolver fetches include targets.
type Resolver interface {
	// Resolve returns a canonical name for target, as included from the
	// source named from, together with its text.
	Resolve(ctx context.Context, from, target string) (string, string, error)
}

// FileResolver reads targets from the file system. Relative targets are
// taken relative to the including file, or to BaseDir at the top level.
type FileResolver struct {
	BaseDir string
}

// Resolve reads the target file.
func (r FileResolver) Resolve(ctx context.Context, from, target string) (string, string, error) {
	path := target
	if !filepath.IsAbs(path) {
		dir := r.BaseDir
		if from != "" {
			dir = filepath.Dir(from)
		}
		path = filepath.Join(dir, path)
	}
	path = filepath.Clean(path)
	logging.FromContext(ctx).Debug("reading include", logging.FieldTarget, target, logging.FieldPath, path)

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return path, "", err
	}
	return path, string(content), nil
}

// Directive is stored in the block's Attrs.Ext.
type Directive struct {
	// Target is the path as written.
	Target string

	// Resolved is the canonical name the resolver returned.
	Resolved string

	// Done is set once the directive has been processed.
	Done bool

	// Depth is the include nesting level of the directive, 0 in the document.
	Depth int

	// chain holds the canonical names of the files above the one holding
	// the directive.
	chain []string
}

// Options configures the extension.
type Options struct {
	Resolver    Resolver
	MaxDepth    int
	Concurrency int
}

// Extension registers the include block type and its processing step.
type Extension struct {
	opts Options
}

// New returns the include extension. Zero options take their defaults and a
// nil Resolver reads files relative to the working directory.
func New(opts Options) *Extension {
	if opts.Resolver == nil {
		opts.Resolver = FileResolver{}
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Extension{opts: opts}
}

// Name returns the extension name.
func (*Extension) Name() string {
	return Name
}

// Extend registers the directive ahead of paragraphs.
func (e *Extension) Extend(p *parser.Parser) error {
	p.EnsureRounds(e.opts.MaxDepth + 2)
	return p.Blocks().Register(block.Trait{
		Type:           Type,
		New:            func() block.Handler { return &handler{} },
		ProcessingStep: e.step,
	}, block.Before(block.TypeParagraph))
}

type handler struct{}

func (*handler) Reset() {}

func (*handler) Start(ctx *block.Context, line lines.Line) (block.Decision, bool) {
	if line.Indent >= 4 {
		return block.Decision{}, false
	}
	m := directivePattern.FindStringSubmatch(line.Content)
	if m == nil {
		return block.Decision{}, false
	}
	ctx.Block.Attrs.Ext = &Directive{Target: m[1]}
	return block.LastDecision(0), true
}

func (*handler) Continue(*block.Context, lines.Line) block.Decision {
	return block.EndDecision()
}

// pending is one directive awaiting its target.
type pending struct {
	block     *block.Block
	directive *Directive
	from      string

	// seen holds the canonical names of the including files.
	seen []string

	name string
	text string
	err  error
}

// step resolves every unprocessed directive in the tree.
func (e *Extension) step(ctx context.Context, root *block.Block, env *block.Env) (bool, error) {
	var work []*pending
	block.Walk(root, func(b *block.Block) bool {
		if b.Type != Type {
			return true
		}
		d, ok := b.Attrs.Ext.(*Directive)
		if ok && !d.Done {
			from := b.Source
			if from == "" {
				from = env.Source
			}
			seen := slices.Clone(d.chain)
			if from != "" {
				seen = append(seen, filepath.Clean(from))
			}
			work = append(work, &pending{block: b, directive: d, from: from, seen: seen})
		}
		return true
	})
	if len(work) == 0 {
		return false, nil
	}

	e.fetch(ctx, work)
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("include cancelled: %w", err)
	}

	for _, item := range work {
		e.graft(item, env)
	}
	return true, nil
}

// fetch resolves the targets concurrently, bounded by the concurrency limit.
func (e *Extension) fetch(ctx context.Context, work []*pending) {
	sem := make(chan struct{}, e.opts.Concurrency)
	var wg sync.WaitGroup

	for _, item := range work {
		if item.directive.Depth >= e.opts.MaxDepth {
			item.err = fmt.Errorf("%w: %s (limit %d)", ErrTooDeep, item.directive.Target, e.opts.MaxDepth)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				item.err = ctx.Err()
				return
			}
			defer func() { <-sem }()

			resolveCtx := logging.With(ctx, logging.FieldDepth, item.directive.Depth)
			item.name, item.text, item.err = e.opts.Resolver.Resolve(resolveCtx, item.from, item.directive.Target)
			if item.err == nil && slices.Contains(item.seen, item.name) {
				item.err = fmt.Errorf("%w: %s", ErrCircular, item.name)
			}
		}()
	}
	wg.Wait()
}

// graft parses a fetched target into the directive's children, or attaches
// an error block.
func (e *Extension) graft(item *pending, env *block.Env) {
	b := item.block
	d := item.directive
	d.Done = true
	d.Resolved = item.name

	if item.err == nil {
		var children []*block.Block
		children, item.err = parseIncluded(item.name, item.text, env)
		if item.err == nil {
			chain := append(slices.Clone(item.seen), item.name)
			for _, child := range children {
				block.Walk(child, func(nested *block.Block) bool {
					if nd, ok := nested.Attrs.Ext.(*Directive); ok && nested.Type == Type {
						nd.Depth = d.Depth + 1
						nd.chain = chain
					}
					return true
				})
			}
			b.Children = children
			return
		}
	}

	if env.Logger != nil {
		env.Logger.Warn("include failed",
			logging.FieldTarget, d.Target,
			logging.FieldDepth, d.Depth,
			logging.FieldError, item.err,
		)
	}
	b.Children = []*block.Block{{
		Type:   block.TypeError,
		Start:  b.Start,
		Extent: b.Extent,
		Source: b.Source,
		Attrs:  block.Attrs{Error: fmt.Sprintf("include %s: %v", d.Target, item.err)},
	}}
}

// parseIncluded runs a block engine over text with the document's registry.
func parseIncluded(name, text string, env *block.Env) ([]*block.Block, error) {
	sub := *env
	sub.Source = name

	engine := block.NewEngine(&sub)
	for _, line := range lines.Classify(text).All() {
		if err := engine.Feed(line); err != nil {
			return nil, err
		}
	}
	return engine.Close()
}
