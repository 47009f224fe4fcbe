package block

import (
	"fmt"

	"github.com/yaklabco/gomdparse/internal/logging"
	"github.com/yaklabco/gomdparse/pkg/lines"
)

// entry records one line taken by an open block.
type entry struct {
	// line is the line as offered to the engine.
	line lines.Line

	// sliced is the line with the block prefix removed.
	sliced lines.Line

	lazy    bool
	comment bool

	hasContent bool
	content    lines.Line
}

// state is an open block together with its handler.
type state struct {
	trait   *Trait
	handler Handler
	block   *Block

	// typeIdx is the try-order position the block started from.
	typeIdx int

	entries []entry

	// checkpoint is the number of committed entries.
	checkpoint int

	// nested receives the remainder of container lines.
	nested *Engine
}

// Engine consumes the lines of one container scope. Containers own a nested
// Engine, so a document is parsed by a tree of engines sharing one Env.
type Engine struct {
	env    *Env
	depth  int
	order  []*Trait
	blocks []*Block
	active *state
}

// NewEngine returns a top-level engine.
func NewEngine(env *Env) *Engine {
	return newEngine(env, 0)
}

func newEngine(env *Env, depth int) *Engine {
	return &Engine{env: env, depth: depth, order: env.Registry.Order()}
}

// Feed offers the next line to the engine.
func (e *Engine) Feed(line lines.Line) error {
	return e.feed(line, false)
}

// Close finishes every open block and returns the finished top-level blocks.
func (e *Engine) Close() ([]*Block, error) {
	for e.active != nil {
		st := e.active
		decision := end()
		if h, ok := st.handler.(EOFHandler); ok {
			decision = h.EOF(e.context(st.block, false))
		}
		if decision.Kind == Reject {
			if err := e.reject(nil, false); err != nil {
				return nil, err
			}
			continue
		}
		if err := e.finish(); err != nil {
			return nil, err
		}
	}
	return e.blocks, nil
}

func (e *Engine) feed(line lines.Line, lazy bool) error {
	if line.IsComment() {
		if e.absorbsComments() {
			e.absorbComment(line)
			return nil
		}
		for _, row := range line.Unfold() {
			if err := e.feed(row, lazy); err != nil {
				return err
			}
		}
		return nil
	}

	switch {
	case e.active == nil:
		return e.start(line, 0, lazy)
	case lazy:
		return e.feedLazy(line)
	default:
		return e.continueActive(line)
	}
}

// feedChild feeds a container remainder. Blank lines before the first block
// of the scope carry nothing and are dropped.
func (e *Engine) feedChild(line lines.Line, lazy bool) error {
	if line.IsBlank() && e.active == nil && len(e.blocks) == 0 {
		return nil
	}
	return e.feed(line, lazy)
}

func (e *Engine) start(line lines.Line, from int, lazy bool) error {
	for i := from; i < len(e.order); i++ {
		trait := e.order[i]
		if trait.New == nil {
			continue
		}

		handler := e.env.Pool.Acquire(trait)
		blk := &Block{Type: trait.Type, Start: line.Index, Source: e.env.Source}
		ctx := e.context(blk, lazy)
		ctx.DocumentStart = e.depth == 0 && len(e.blocks) == 0 && line.Index == 0

		decision, ok := handler.Start(ctx, line)
		if !ok {
			e.env.Pool.Release(trait.Type, handler)
			continue
		}

		st := &state{trait: trait, handler: handler, block: blk, typeIdx: i}
		if trait.Container {
			st.nested = newEngine(e.env, e.depth+1)
		}
		e.active = st
		return e.apply(st, line, decision, lazy)
	}

	return &StructuralError{Line: line.Index, Reason: "no block type matched"}
}

// apply carries out a Start decision.
func (e *Engine) apply(st *state, line lines.Line, decision Decision, lazy bool) error {
	switch decision.Kind {
	case Accept, Soft:
		return e.take(st, line, decision, lazy)
	case Last:
		if err := e.take(st, line, decision, lazy); err != nil {
			return err
		}
		return e.finish()
	default:
		return &StructuralError{
			Type:   st.trait.Type,
			Line:   line.Index,
			Reason: "start returned " + decision.Kind.String(),
		}
	}
}

func (e *Engine) continueActive(line lines.Line) error {
	st := e.active
	decision := st.handler.Continue(e.context(st.block, false), line)

	switch decision.Kind {
	case Accept:
		return e.take(st, line, decision, false)

	case Last:
		if err := e.take(st, line, decision, false); err != nil {
			return err
		}
		return e.finish()

	case End:
		if err := e.finish(); err != nil {
			return err
		}
		return e.start(line, 0, false)

	case Soft:
		started, err := e.interrupt(line)
		if started || err != nil {
			return err
		}
		if !st.trait.Container {
			return e.take(st, line, decision, false)
		}
		if st.nested.acceptsLazy(line) {
			return e.takeLazy(st, line)
		}
		if err := e.finish(); err != nil {
			return err
		}
		return e.start(line, 0, false)

	case Reject:
		return e.reject(&line, false)

	default:
		return fmt.Errorf("%w: unknown decision %d", ErrStructuralImpossibility, decision.Kind)
	}
}

// interrupt tries the interrupter types on a soft continuation line. When one
// starts, the active block is finished first.
func (e *Engine) interrupt(line lines.Line) (bool, error) {
	active := e.active
	for i, trait := range e.order {
		if !trait.IsInterrupter || trait.New == nil {
			continue
		}
		if trait.Type == active.trait.Type && !trait.CanSelfInterrupt {
			continue
		}

		handler := e.env.Pool.Acquire(trait)
		blk := &Block{Type: trait.Type, Start: line.Index, Source: e.env.Source, Interrupter: true}
		ctx := e.context(blk, false)
		ctx.Interrupting = true
		ctx.Interrupted = active.trait.Type

		decision, ok := handler.Start(ctx, line)
		if !ok {
			e.env.Pool.Release(trait.Type, handler)
			continue
		}

		e.debug("block interrupted", logging.FieldBlock, active.trait.Type, logging.FieldBy, trait.Type, logging.FieldLine, line.Index)
		if err := e.finish(); err != nil {
			return true, err
		}

		st := &state{trait: trait, handler: handler, block: blk, typeIdx: i}
		if trait.Container {
			st.nested = newEngine(e.env, e.depth+1)
		}
		e.active = st
		return true, e.apply(st, line, decision, false)
	}
	return false, nil
}

// take records a line in the open block.
func (e *Engine) take(st *state, line lines.Line, decision Decision, lazy bool) error {
	ent := entry{line: line, sliced: lines.Slice(line, decision.Consumed), lazy: lazy}

	switch {
	case st.trait.Container:
		if err := st.nested.feedChild(ent.sliced, lazy); err != nil {
			return err
		}
	case st.trait.HasContent:
		content, ok := e.contentLine(st, ent.sliced, lazy)
		if ok {
			if n := len(st.block.Content); n > 0 && content.Index <= st.block.Content[n-1].Index {
				return fmt.Errorf("%w: %s at line %d", ErrContentOrdering, st.trait.Type, content.Index+1)
			}
			ent.hasContent = true
			ent.content = content
			st.block.Content = append(st.block.Content, content)
		}
	}

	st.entries = append(st.entries, ent)
	if !decision.Tentative {
		st.checkpoint = len(st.entries)
	}
	return nil
}

func (e *Engine) contentLine(st *state, line lines.Line, lazy bool) (lines.Line, bool) {
	if acceptor, ok := st.handler.(LineAcceptor); ok {
		var keep bool
		line, keep = acceptor.AcceptLine(e.context(st.block, lazy), line)
		if !keep {
			return lines.Line{}, false
		}
	}
	if st.trait.PostprocessContentLine != nil {
		line = st.trait.PostprocessContentLine(line)
	}
	return line, true
}

// acceptsLazy reports whether the innermost open block would take line as a
// lazy continuation.
func (e *Engine) acceptsLazy(line lines.Line) bool {
	st := e.active
	if st == nil || line.IsBlank() {
		return false
	}
	if st.nested != nil {
		return st.nested.acceptsLazy(line)
	}
	if !st.trait.AllowSoftContinuations {
		return false
	}
	return st.handler.Continue(e.context(st.block, true), line).Kind == Soft
}

// takeLazy passes a lazy line down the chain of open containers.
func (e *Engine) takeLazy(st *state, line lines.Line) error {
	committed := st.checkpoint == len(st.entries)
	st.entries = append(st.entries, entry{line: line, sliced: line, lazy: true})
	if committed {
		st.checkpoint = len(st.entries)
	}
	return st.nested.feed(line, true)
}

func (e *Engine) feedLazy(line lines.Line) error {
	st := e.active
	if st.nested != nil {
		return e.takeLazy(st, line)
	}
	decision := st.handler.Continue(e.context(st.block, true), line)
	if decision.Kind == Soft || decision.Kind == Accept {
		return e.take(st, line, decision, true)
	}
	return e.continueActive(line)
}

// absorbsComments reports whether every open block down the chain allows
// comment lines.
func (e *Engine) absorbsComments() bool {
	if e.active == nil {
		return false
	}
	for st := e.active; st != nil; {
		if !st.trait.AllowCommentLines {
			return false
		}
		if st.nested == nil {
			break
		}
		st = st.nested.active
	}
	return true
}

// absorbComment extends the open blocks over a comment line without adding
// content.
func (e *Engine) absorbComment(line lines.Line) {
	st := e.active
	committed := st.checkpoint == len(st.entries)
	st.entries = append(st.entries, entry{line: line, sliced: line, comment: true})
	if committed {
		st.checkpoint = len(st.entries)
	}
	if st.nested != nil && st.nested.active != nil {
		st.nested.absorbComment(line)
	}
}

// reject rewinds the open block. Without a checkpoint the block is dropped and
// its lines are offered to the types after it; otherwise the block is cut back
// to its checkpoint and the remaining lines are replayed from the top.
func (e *Engine) reject(current *lines.Line, lazy bool) error {
	st := e.active
	replay := append([]entry(nil), st.entries[st.checkpoint:]...)
	if current != nil {
		replay = append(replay, entry{line: *current, lazy: lazy})
	}

	if st.checkpoint == 0 {
		if st.block.Interrupter {
			return &StructuralError{Type: st.trait.Type, Line: st.block.Start, Reason: "interrupting block rejected"}
		}
		e.debug("block abandoned", logging.FieldBlock, st.trait.Type, logging.FieldLine, st.block.Start)
		e.active = nil
		e.discard(st)
		if len(replay) == 0 {
			return nil
		}
		first := replay[0]
		if err := e.start(first.line, st.typeIdx+1, first.lazy); err != nil {
			return err
		}
		return e.replay(replay[1:])
	}

	e.debug("block rewound", logging.FieldBlock, st.trait.Type, logging.FieldLine, st.block.Start,
		logging.FieldReplayed, len(replay))
	if err := e.truncate(st, st.checkpoint); err != nil {
		return err
	}
	if err := e.finish(); err != nil {
		return err
	}
	return e.replay(replay)
}

func (e *Engine) replay(entries []entry) error {
	for _, ent := range entries {
		if err := e.feed(ent.line, ent.lazy); err != nil {
			return err
		}
	}
	return nil
}

// truncate cuts an open block back to its first n entries. Containers rebuild
// their nested engine from the kept entries. An absorbed comment goes only as
// far down as it went the first time: an empty nested scope never sees it.
func (e *Engine) truncate(st *state, n int) error {
	st.entries = st.entries[:n]

	if st.nested != nil {
		st.nested.discardAll()
		st.nested = newEngine(e.env, e.depth+1)
		for _, ent := range st.entries {
			if ent.comment {
				if st.nested.active != nil {
					st.nested.absorbComment(ent.line)
				}
				continue
			}
			if err := st.nested.feedChild(ent.sliced, ent.lazy); err != nil {
				return err
			}
		}
		return nil
	}

	st.block.Content = st.block.Content[:0]
	for _, ent := range st.entries {
		if ent.hasContent {
			st.block.Content = append(st.block.Content, ent.content)
		}
	}
	return nil
}

// finish completes the open block and appends it to the scope.
func (e *Engine) finish() error {
	st := e.active
	e.active = nil

	if st.nested != nil {
		children, err := st.nested.Close()
		if err != nil {
			return err
		}
		st.block.Children = children
	}

	lastEntry := st.entries[len(st.entries)-1]
	st.block.Extent = lastEntry.line.End() - st.block.Start + 1

	if finalizer, ok := st.handler.(Finalizer); ok {
		finalizer.Finalize(e.context(st.block, false))
	}

	e.blocks = append(e.blocks, st.block)
	e.env.Pool.Release(st.trait.Type, st.handler)
	return nil
}

func (e *Engine) discard(st *state) {
	if st.nested != nil {
		st.nested.discardAll()
	}
	e.env.Pool.Release(st.trait.Type, st.handler)
}

func (e *Engine) discardAll() {
	if e.active != nil {
		e.discard(e.active)
		e.active = nil
	}
}

func (e *Engine) context(blk *Block, lazy bool) *Context {
	return &Context{Block: blk, Env: e.env, Lazy: lazy, Depth: e.depth}
}

func (e *Engine) debug(msg string, keyvals ...any) {
	if e.env.Logger != nil {
		e.env.Logger.Debug(msg, keyvals...)
	}
}
