package inline

import (
	"strings"

	"github.com/yaklabco/gomdparse/pkg/cursor"
	"github.com/yaklabco/gomdparse/pkg/linkdef"
	"github.com/yaklabco/gomdparse/pkg/lines"
)

// LinkResolver looks up reference labels.
type LinkResolver interface {
	Lookup(label string) (linkdef.Entry, bool)
}

// Engine turns content lines into inline content.
type Engine struct {
	registry *Registry
}

// NewEngine returns an engine dispatching through r.
func NewEngine(r *Registry) *Engine {
	return &Engine{registry: r}
}

// Process scans the content lines of one block.
func (e *Engine) Process(ls []lines.Line, links LinkResolver) (*Content, error) {
	p := &scan{
		registry: e.registry,
		cur:      cursor.New(ls),
		state:    &State{Links: links, Content: &Content{}},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.state.Content, nil
}

// scan is the state of one Process call.
type scan struct {
	registry *Registry
	cur      *cursor.Cursor
	state    *State

	// text is where the pending text segment starts.
	text cursor.Pos

	// open holds the item indexes of open nestable delimiters.
	open []int
}

func (p *scan) items() []Item {
	return p.state.Content.Items
}

func (p *scan) run() error {
	cur := p.cur
	for !cur.AtEOF() {
		at := cur.Position()
		r := cur.Peek()

		if r == cursor.LineBreak {
			p.lineBreak(at)
			continue
		}

		closed, err := p.closeSpan(at, r)
		if err != nil {
			return err
		}
		if closed || p.dispatch(at, r) {
			continue
		}

		cur.Restore(at)
		cur.Pop()
	}

	p.flush(cur.Position(), true)
	for _, idx := range p.open {
		p.items()[idx].Delim.Active = false
	}
	p.open = nil

	pairEmphasis(p.items(), 0, len(p.items()))
	return nil
}

// dispatch tries the candidates registered for r.
func (p *scan) dispatch(at cursor.Pos, r rune) bool {
	for _, cand := range p.registry.Dispatch(r) {
		p.cur.Restore(at)

		if cand.Element != nil {
			elem, ok := cand.Element.Parse(p.state, p.cur)
			if !ok {
				continue
			}
			p.flush(at, false)
			p.addElement(elem, at)
			return true
		}

		delim, ok := cand.Delimiter.ParseDelimiter(p.state, p.cur)
		if !ok {
			continue
		}
		p.flush(at, false)
		if delim.Name == "" {
			delim.Name = cand.Delimiter.Name
		}
		delim.Category = cand.Delimiter.Category
		delim.Partner, delim.Follower = -1, -1
		idx := p.add(Item{Kind: KindDelimiter, Text: p.cur.Slice(at, p.cur.Position()), Delim: delim, Start: at, End: p.cur.Position()})
		if delim.Category == Nestable && delim.Opener {
			p.open = append(p.open, idx)
		}
		p.text = p.cur.Position()
		return true
	}
	return false
}

// closeSpan handles the closing character of the innermost open nestable
// delimiter.
func (p *scan) closeSpan(at cursor.Pos, r rune) (bool, error) {
	if len(p.open) == 0 {
		return false, nil
	}
	openIdx := p.open[len(p.open)-1]
	opener := p.items()[openIdx].Delim

	trait, err := p.registry.Delimiter(opener.Name)
	if err != nil {
		return false, err
	}
	if r != trait.CloseChar {
		return false, nil
	}

	if trait.ParseCloser != nil {
		if !trait.ParseCloser(p.state, p.cur, opener) {
			p.cur.Restore(at)
			return false, nil
		}
	} else {
		p.cur.Pop()
	}
	closeEnd := p.cur.Position()
	p.open = p.open[:len(p.open)-1]
	p.flush(at, false)

	if opener.Active {
		followers, err := p.registry.Followers(opener.Name)
		if err != nil {
			return false, err
		}
		span := Span{Opener: opener, Text: p.cur.Slice(p.items()[openIdx].End, at)}
		for _, follower := range followers {
			p.cur.Restore(closeEnd)
			elem, ok := follower.Parse(p.state, p.cur, span)
			if !ok {
				continue
			}
			p.resolveSpan(openIdx, r, at, closeEnd, elem)
			return true, nil
		}
	}

	opener.Active = false
	p.cur.Restore(closeEnd)
	p.add(Item{Kind: KindText, Text: p.cur.Slice(at, closeEnd), Start: at, End: closeEnd})
	p.text = closeEnd
	return true, nil
}

func (p *scan) resolveSpan(openIdx int, closeChar rune, at, closeEnd cursor.Pos, elem Element) {
	opener := p.items()[openIdx].Delim
	closer := &Delimiter{
		Name:     opener.Name,
		Category: Nestable,
		Char:     byte(closeChar),
		Length:   1,
		Active:   true,
		Partner:  openIdx,
		Follower: -1,
	}
	closeIdx := p.add(Item{Kind: KindDelimiter, Text: p.cur.Slice(at, closeEnd), Delim: closer, Start: at, End: closeEnd})

	followIdx := p.add(Item{Kind: KindElement, Elem: &elem, Start: closeEnd, End: p.cur.Position()})
	opener.Partner = closeIdx
	opener.Follower = followIdx
	closer.Follower = followIdx
	p.text = p.cur.Position()

	items := p.items()
	pairEmphasis(items, openIdx+1, closeIdx)
	for i := openIdx + 1; i < closeIdx; i++ {
		if d := items[i].Delim; d != nil && d.Category == Emphasis {
			d.retired = true
		}
	}

	if opener.Name == NameLink {
		for _, idx := range p.open {
			if d := items[idx].Delim; d.Name == NameLink {
				d.Active = false
			}
		}
	}
}

// lineBreak ends a line. Trailing spaces of the pending text are dropped;
// two or more of them make a hard break.
func (p *scan) lineBreak(at cursor.Pos) {
	pending := p.cur.Slice(p.text, at)
	trimmed := strings.TrimRight(pending, " \t")
	spaces := strings.Count(pending[len(trimmed):], " ")

	end := cursor.Pos{Line: at.Line, Char: at.Char - (len(pending) - len(trimmed))}
	if p.text.Line != at.Line {
		end = at
	}
	p.flush(end, false)

	name := NameSoftBreak
	if spaces >= 2 {
		name = NameHardBreak
	}
	p.cur.Pop()
	p.addElement(Element{Name: name}, end)
}

// flush emits the pending text up to to.
func (p *scan) flush(to cursor.Pos, final bool) {
	if !p.text.Before(to) {
		p.text = to
		return
	}
	text := p.cur.Slice(p.text, to)
	if final {
		trimmed := strings.TrimRight(text, " \t")
		to.Char -= len(text) - len(trimmed)
		text = trimmed
	}
	if text != "" {
		p.add(Item{Kind: KindText, Text: text, Start: p.text, End: to})
	}
	p.text = to
}

func (p *scan) addElement(elem Element, at cursor.Pos) {
	end := p.cur.Position()
	if elem.Name == NameLiteral {
		p.add(Item{Kind: KindText, Text: elem.Text, Start: at, End: end})
	} else {
		p.add(Item{Kind: KindElement, Elem: &elem, Start: at, End: end})
	}
	p.text = end
}

func (p *scan) add(item Item) int {
	c := p.state.Content
	c.Items = append(c.Items, item)
	return len(c.Items) - 1
}
