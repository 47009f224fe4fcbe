// Package parser is the composition root of the Markdown engine. A Parser
// owns the block and inline registries, applies extensions to them, and runs
// the full pipeline from raw text to a Document.
package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdparse/internal/logging"
	"github.com/yaklabco/gomdparse/pkg/block"
	"github.com/yaklabco/gomdparse/pkg/fsutil"
	"github.com/yaklabco/gomdparse/pkg/inline"
	"github.com/yaklabco/gomdparse/pkg/lines"
	"github.com/yaklabco/gomdparse/pkg/linkdef"
)

// DefaultMaxRounds bounds the structural processing rounds of one parse.
const DefaultMaxRounds = 8

// ErrExtension indicates an extension failed to register itself.
var ErrExtension = errors.New("extension failed")

// Extension adds block or inline traits to a Parser.
type Extension interface {
	// Name identifies the extension in configuration and errors.
	Name() string

	// Extend registers the extension's traits.
	Extend(p *Parser) error
}

// Option configures a Parser.
type Option func(*options)

type options struct {
	extensions     []Extension
	logger         *log.Logger
	detectLanguage bool
	maxRounds      int
}

// WithExtensions adds extensions, applied in the given order.
func WithExtensions(exts ...Extension) Option {
	return func(o *options) {
		o.extensions = append(o.extensions, exts...)
	}
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLanguageDetection enables content-based language detection for fenced
// code blocks without an info string.
func WithLanguageDetection(enabled bool) Option {
	return func(o *options) {
		o.detectLanguage = enabled
	}
}

// WithMaxRounds bounds the structural processing rounds.
func WithMaxRounds(n int) Option {
	return func(o *options) {
		o.maxRounds = n
	}
}

// Parser turns Markdown text into Documents. A Parser is not safe for
// concurrent use; independent Parsers may run concurrently.
type Parser struct {
	blocks  *block.Registry
	inlines *inline.Registry
	pool    *block.Pool
	engine  *inline.Engine
	logger  *log.Logger

	detectLanguage bool
	maxRounds      int
	extensions     []string
}

// New creates a Parser with the built-in block and inline types plus the
// given extensions.
func New(opts ...Option) (*Parser, error) {
	o := options{maxRounds: DefaultMaxRounds}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Default()
	}

	p := &Parser{
		blocks:         block.NewRegistry(),
		inlines:        inline.NewRegistry(),
		pool:           block.NewPool(),
		logger:         o.logger,
		detectLanguage: o.detectLanguage,
		maxRounds:      max(o.maxRounds, 1),
	}

	if err := block.RegisterDefaults(p.blocks); err != nil {
		return nil, fmt.Errorf("register block defaults: %w", err)
	}
	if err := inline.RegisterDefaults(p.inlines); err != nil {
		return nil, fmt.Errorf("register inline defaults: %w", err)
	}

	for _, ext := range o.extensions {
		if err := ext.Extend(p); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrExtension, ext.Name(), err)
		}
		p.extensions = append(p.extensions, ext.Name())
	}

	if err := p.blocks.Validate(); err != nil {
		return nil, fmt.Errorf("validate block registry: %w", err)
	}

	p.engine = inline.NewEngine(p.inlines)
	return p, nil
}

// Blocks returns the block registry for extensions.
func (p *Parser) Blocks() *block.Registry {
	return p.blocks
}

// Inlines returns the inline registry for extensions.
func (p *Parser) Inlines() *inline.Registry {
	return p.inlines
}

// Extensions returns the names of the applied extensions.
func (p *Parser) Extensions() []string {
	return p.extensions
}

// EnsureRounds raises the structural round limit to at least n.
func (p *Parser) EnsureRounds(n int) {
	p.maxRounds = max(p.maxRounds, n)
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Document, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return p.parse(ctx, string(content), path)
}

// Parse parses text into a Document.
func (p *Parser) Parse(ctx context.Context, text string) (*Document, error) {
	return p.parse(ctx, text, "")
}

func (p *Parser) parse(ctx context.Context, text, source string) (*Document, error) {
	logger := p.logger
	if source != "" {
		logger = logger.With(logging.FieldSource, source)
	}
	env := &block.Env{
		Registry:       p.blocks,
		Pool:           p.pool,
		Logger:         logger,
		DetectLanguage: p.detectLanguage,
		Source:         source,
	}
	ctx = logging.WithLogger(ctx, logger)

	set := lines.Classify(text)

	root, err := p.parseBlocks(ctx, set, env)
	if err != nil {
		return nil, wrapSource(source, err)
	}

	rounds, err := p.runSteps(ctx, root, env)
	if err != nil {
		return nil, wrapSource(source, err)
	}

	block.GroupLists(root)

	doc := &Document{
		Root:       root,
		Lines:      set,
		Links:      linkdef.NewTable(),
		Singletons: make(map[block.Type]*block.Block),
		Source:     source,
		Rounds:     rounds,
	}
	p.collect(doc, logger)

	if err := p.resolveInlines(ctx, doc); err != nil {
		return nil, wrapSource(source, err)
	}

	logger.Debug("parsed document",
		logging.FieldRounds, rounds,
		logging.FieldLinks, doc.Links.Len(),
	)
	return doc, nil
}

// parseBlocks runs the block engine over every logical line.
func (p *Parser) parseBlocks(ctx context.Context, set *lines.Set, env *block.Env) (*block.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	engine := block.NewEngine(env)
	for _, line := range set.All() {
		if err := engine.Feed(line); err != nil {
			return nil, err
		}
	}
	children, err := engine.Close()
	if err != nil {
		return nil, err
	}

	return &block.Block{
		Type:     block.TypeDocument,
		Start:    0,
		Extent:   set.Rows(),
		Children: children,
	}, nil
}

// runSteps runs the registered processing steps in rounds until a round
// changes nothing. It returns the number of rounds run.
func (p *Parser) runSteps(ctx context.Context, root *block.Block, env *block.Env) (int, error) {
	steps := p.blocks.Steps()
	if len(steps) == 0 {
		return 0, nil
	}

	rounds := 0
	for rounds < p.maxRounds {
		if err := ctx.Err(); err != nil {
			return rounds, fmt.Errorf("parse cancelled: %w", err)
		}
		rounds++

		changed := false
		for _, step := range steps {
			stepChanged, err := step(ctx, root, env)
			if err != nil {
				return rounds, fmt.Errorf("processing step: %w", err)
			}
			changed = changed || stepChanged
		}
		if !changed {
			break
		}
	}
	return rounds, nil
}

// collect records singletons and builds the link table in document order.
func (p *Parser) collect(doc *Document, logger *log.Logger) {
	block.Walk(doc.Root, func(b *block.Block) bool {
		trait, ok := p.blocks.Get(b.Type)
		if ok && trait.IsSingleton {
			if _, seen := doc.Singletons[b.Type]; seen {
				logger.Debug("duplicate singleton ignored", logging.FieldBlock, b.Type, logging.FieldLine, b.Start)
			} else {
				doc.Singletons[b.Type] = b
			}
		}
		if b.Type == block.TypeLinkDefinition && b.Attrs.LinkDef != nil {
			doc.Links.Add(*b.Attrs.LinkDef, b.Start)
		}
		return true
	})
}

// resolveInlines runs the inline engine on every block whose type asks for it.
func (p *Parser) resolveInlines(ctx context.Context, doc *Document) error {
	var walkErr error
	block.Walk(doc.Root, func(b *block.Block) bool {
		if walkErr != nil {
			return false
		}
		trait, ok := p.blocks.Get(b.Type)
		if !ok || !trait.InlineProcessing {
			return true
		}
		if err := ctx.Err(); err != nil {
			walkErr = fmt.Errorf("parse cancelled: %w", err)
			return false
		}
		content, err := p.engine.Process(b.Content, doc.Links)
		if err != nil {
			walkErr = fmt.Errorf("inline processing at line %d: %w", b.Start+1, err)
			return false
		}
		b.Inlines = content
		return true
	})
	return walkErr
}

func wrapSource(source string, err error) error {
	if source == "" {
		return err
	}
	return fmt.Errorf("%s: %w", source, err)
}
