// Package inline resolves the inline content of leaf blocks.
//
// The Engine scans a block's content lines as one character stream. A
// dispatch table built from the registered traits maps each start character
// to candidate elements and delimiters. Elements such as code spans are
// resolved on the spot; delimiters are recorded and paired afterwards.
// Pairing never moves or removes items: it only marks delimiters with the
// tags they open and close, so item indexes and positions stay stable.
package inline

import (
	"errors"

	"github.com/yaklabco/gomdparse/pkg/cursor"
)

var (
	// ErrMissingTraits indicates a delimiter was referenced but never registered.
	ErrMissingTraits = errors.New("missing inline traits")

	// ErrDuplicateTrait indicates an inline trait name was registered twice.
	ErrDuplicateTrait = errors.New("inline trait already registered")
)

// Kind discriminates the items of inline content.
type Kind uint8

// Item kinds.
const (
	KindText Kind = iota
	KindElement
	KindDelimiter
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindElement:
		return "element"
	case KindDelimiter:
		return "delimiter"
	default:
		return "unknown"
	}
}

// Built-in element and delimiter names.
const (
	NameLiteral   = "literal"
	NameEscape    = "escape"
	NameEntity    = "entity"
	NameCode      = "code"
	NameAutolink  = "autolink"
	NameHTML      = "html"
	NameSoftBreak = "softbreak"
	NameHardBreak = "hardbreak"
	NameEmphasis  = "emphasis"
	NameLink      = "link"
	NameImage     = "image"
)

// Item is one entry of inline content. Positions are relative to the
// content lines of the owning block; End is exclusive.
type Item struct {
	Kind Kind

	// Text is the literal text of text items and the raw source of
	// delimiters.
	Text string

	Elem  *Element
	Delim *Delimiter

	Start cursor.Pos
	End   cursor.Pos
}

// Reference tells how a link or image found its destination.
type Reference uint8

// Reference kinds.
const (
	RefInline Reference = iota
	RefFull
	RefCollapsed
	RefShortcut
)

// Element is a resolved inline element.
type Element struct {
	Name string

	// Text is the decoded value: code span content, escaped character,
	// decoded entity, raw HTML or autolink text.
	Text string

	Destination string
	Title       string

	// Label is the reference label of reference links and images.
	Label     string
	Reference Reference
}

// Category tells how a delimiter is resolved.
type Category uint8

// Delimiter categories.
const (
	// Emphasis delimiters are paired after scanning by the emphasis algorithm.
	Emphasis Category = iota
	// Nestable delimiters open a span closed by a designated character.
	Nestable
)

// TagKind is the kind of span produced by emphasis pairing.
type TagKind uint8

// Tag kinds.
const (
	TagEmphasis TagKind = iota + 1
	TagStrong
)

// Tag is one span opened or closed at a delimiter. Partner is the item index
// of the delimiter at the other end.
type Tag struct {
	Kind    TagKind
	Partner int
}

// Delimiter is a delimiter item.
type Delimiter struct {
	Name     string
	Category Category

	// Char is the delimiter character; Length the original run length.
	Char   byte
	Length int

	// Remaining is the number of characters not yet used by pairing. They
	// render literally.
	Remaining int

	CanOpen  bool
	CanClose bool
	Active   bool

	// Opens lists the spans starting here, outermost first; Closes the spans
	// ending here, innermost first.
	Opens  []Tag
	Closes []Tag

	// Opener is set on the opening side of a nestable span.
	Opener bool

	// Partner is the item index of the other side of a resolved nestable
	// span, or -1.
	Partner int

	// Follower is the item index of the element attached after the closer of
	// a resolved span, or -1.
	Follower int

	closeOff bool
	retired  bool
}

// Resolved reports whether a nestable delimiter became part of a span.
func (d *Delimiter) Resolved() bool {
	return d.Partner >= 0
}

// Content is the inline content of one block.
type Content struct {
	Items []Item
}

// Len returns the number of items.
func (c *Content) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}
