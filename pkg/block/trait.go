package block

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdparse/pkg/lines"
)

// DecisionKind is a handler's verdict on one line.
type DecisionKind uint8

// Decision kinds.
const (
	// Accept takes the line into the block.
	Accept DecisionKind = iota
	// Soft takes the line unless an interrupter starts on it.
	Soft
	// End finishes the block before the line.
	End
	// Last takes the line and finishes the block.
	Last
	// Reject rewinds the block to its last checkpoint.
	Reject
)

// String returns the name of the decision kind.
func (k DecisionKind) String() string {
	switch k {
	case Accept:
		return "accept"
	case Soft:
		return "soft"
	case End:
		return "end"
	case Last:
		return "last"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Decision is returned by handlers for every line offered to them.
type Decision struct {
	Kind DecisionKind

	// Consumed is the number of columns of block prefix taken from the line.
	Consumed int

	// Tentative lines may later be rejected; a non-tentative Accept moves
	// the block's checkpoint past the line.
	Tentative bool
}

// Decision constructors.
func accept(consumed int) Decision    { return Decision{Kind: Accept, Consumed: consumed} }
func tentative(consumed int) Decision { return Decision{Kind: Accept, Consumed: consumed, Tentative: true} }
func soft(consumed int) Decision      { return Decision{Kind: Soft, Consumed: consumed, Tentative: true} }
func last(consumed int) Decision      { return Decision{Kind: Last, Consumed: consumed} }
func end() Decision                   { return Decision{Kind: End} }
func reject() Decision                { return Decision{Kind: Reject} }

// AcceptDecision returns an Accept for extension handlers.
func AcceptDecision(consumed int, isTentative bool) Decision {
	return Decision{Kind: Accept, Consumed: consumed, Tentative: isTentative}
}

// LastDecision returns a Last for extension handlers.
func LastDecision(consumed int) Decision { return last(consumed) }

// EndDecision returns an End for extension handlers.
func EndDecision() Decision { return end() }

// RejectDecision returns a Reject for extension handlers.
func RejectDecision() Decision { return reject() }

// Context is passed to every handler call.
type Context struct {
	// Block is the block being built.
	Block *Block

	// Env is the parse environment.
	Env *Env

	// Interrupting is set while an interrupter's Start is evaluated against
	// the soft continuation of Interrupted.
	Interrupting bool
	Interrupted  Type

	// Lazy is set for a paragraph continuation line that lacks the prefixes
	// of the enclosing containers.
	Lazy bool

	// DocumentStart is set for the first line of the top-level document.
	DocumentStart bool

	// Depth is the container nesting level, 0 at the document.
	Depth int
}

// Handler is the automaton instance of one block type. Handlers are pooled
// and Reset before every use.
type Handler interface {
	Reset()

	// Start reports whether the block starts on line.
	Start(ctx *Context, line lines.Line) (Decision, bool)

	// Continue decides whether line continues the block.
	Continue(ctx *Context, line lines.Line) Decision
}

// LineAcceptor lets a handler rewrite or drop the content line derived from
// an accepted line. The line passed in already has the consumed prefix removed.
type LineAcceptor interface {
	AcceptLine(ctx *Context, line lines.Line) (lines.Line, bool)
}

// Finalizer runs once the block is complete.
type Finalizer interface {
	Finalize(ctx *Context)
}

// EOFHandler decides what happens to an open block at the end of input.
// Handlers without it End.
type EOFHandler interface {
	EOF(ctx *Context) Decision
}

// Step is a structural processing step. It may graft blocks into the tree
// and reports whether it changed anything; steps run in rounds until none do.
type Step func(ctx context.Context, root *Block, env *Env) (bool, error)

// Trait describes a block type.
type Trait struct {
	Type Type

	// New constructs a handler; nil for aggregate types that never start.
	New func() Handler

	AllowSoftContinuations bool
	AllowCommentLines      bool
	IsInterrupter          bool
	CanSelfInterrupt       bool
	IsSingleton            bool
	HasContent             bool
	InlineProcessing       bool

	// Container types feed the remainder of their lines to a nested engine.
	Container bool

	// PostprocessContentLine rewrites each content line before it is stored.
	PostprocessContentLine func(lines.Line) lines.Line

	// ProcessingStep runs after block parsing.
	ProcessingStep Step
}

// Env is shared by every engine of one parse.
type Env struct {
	Registry *Registry
	Pool     *Pool
	Logger   *log.Logger

	// DetectLanguage enables content-based language detection for fenced
	// code without an info string.
	DetectLanguage bool

	// Source names the text being parsed, used for diagnostics.
	Source string
}
