package inline

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/gomdparse/pkg/cursor"
)

// State is visible to trait parse functions.
type State struct {
	// Links resolves reference labels; it may be nil.
	Links LinkResolver

	// Content holds the items produced so far.
	Content *Content
}

// ElementParser parses an element at the cursor. On failure the engine
// restores the cursor. An element named NameLiteral becomes text.
type ElementParser func(st *State, cur *cursor.Cursor) (Element, bool)

// DelimiterParser parses a delimiter at the cursor.
type DelimiterParser func(st *State, cur *cursor.Cursor) (*Delimiter, bool)

// CloserParser consumes the closing character of an open nestable delimiter.
type CloserParser func(st *State, cur *cursor.Cursor, opener *Delimiter) bool

// Span describes a closed nestable span offered to followers.
type Span struct {
	Opener *Delimiter

	// Text is the raw source between opener and closer.
	Text string
}

// FollowerParser parses the element attached right after a closed span.
type FollowerParser func(st *State, cur *cursor.Cursor, span Span) (Element, bool)

// ElementTrait registers an element type.
type ElementTrait struct {
	Name       string
	StartChars string

	// Priority orders candidates sharing a start character; lower first.
	Priority int
	Parse    ElementParser
}

// DelimiterTrait registers a delimiter type.
type DelimiterTrait struct {
	Name       string
	StartChars string
	Priority   int
	Category   Category

	// CloseChar ends spans of nestable delimiters.
	CloseChar rune

	ParseDelimiter DelimiterParser

	// ParseCloser is optional; without it the closing character is popped.
	ParseCloser CloserParser
}

// FollowerTrait registers an element that may follow the closer of the named
// nestable delimiters.
type FollowerTrait struct {
	Name        string
	StartDelims []string
	Parse       FollowerParser
}

// Candidate is an element or delimiter trait offered for a start character.
type Candidate struct {
	Element   *ElementTrait
	Delimiter *DelimiterTrait
}

// Name returns the trait name.
func (c Candidate) Name() string {
	if c.Element != nil {
		return c.Element.Name
	}
	return c.Delimiter.Name
}

func (c Candidate) priority() int {
	if c.Element != nil {
		return c.Element.Priority
	}
	return c.Delimiter.Priority
}

// Registry holds inline traits and the start-character dispatch table.
type Registry struct {
	mu         sync.RWMutex
	names      map[string]struct{}
	delimiters map[string]*DelimiterTrait
	followers  map[string][]*FollowerTrait
	dispatch   map[rune][]Candidate
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names:      make(map[string]struct{}),
		delimiters: make(map[string]*DelimiterTrait),
		followers:  make(map[string][]*FollowerTrait),
		dispatch:   make(map[rune][]Candidate),
	}
}

// RegisterElement adds an element trait.
func (r *Registry) RegisterElement(trait ElementTrait) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.claim(trait.Name); err != nil {
		return err
	}
	stored := trait
	r.index(trait.StartChars, Candidate{Element: &stored})
	return nil
}

// RegisterDelimiter adds a delimiter trait.
func (r *Registry) RegisterDelimiter(trait DelimiterTrait) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.claim(trait.Name); err != nil {
		return err
	}
	stored := trait
	r.delimiters[trait.Name] = &stored
	r.index(trait.StartChars, Candidate{Delimiter: &stored})
	return nil
}

// RegisterFollower adds a follower. Every delimiter it follows must already
// be registered.
func (r *Registry) RegisterFollower(trait FollowerTrait) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range trait.StartDelims {
		if _, ok := r.delimiters[name]; !ok {
			return fmt.Errorf("%w: follower %q of delimiter %q", ErrMissingTraits, trait.Name, name)
		}
	}
	if err := r.claim(trait.Name); err != nil {
		return err
	}
	stored := trait
	for _, name := range trait.StartDelims {
		r.followers[name] = append(r.followers[name], &stored)
	}
	return nil
}

// Dispatch returns the candidates for start character c in priority order.
func (r *Registry) Dispatch(c rune) []Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dispatch[c]
}

// Delimiter returns the trait of a delimiter name.
func (r *Registry) Delimiter(name string) (*DelimiterTrait, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trait, ok := r.delimiters[name]
	if !ok {
		return nil, fmt.Errorf("%w: delimiter %q", ErrMissingTraits, name)
	}
	return trait, nil
}

// Followers returns the followers of a delimiter name.
func (r *Registry) Followers(name string) ([]*FollowerTrait, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.delimiters[name]; !ok {
		return nil, fmt.Errorf("%w: delimiter %q", ErrMissingTraits, name)
	}
	return r.followers[name], nil
}

// Names returns every registered trait name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.names))
	for name := range r.names {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (r *Registry) claim(name string) error {
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTrait, name)
	}
	r.names[name] = struct{}{}
	return nil
}

func (r *Registry) index(chars string, cand Candidate) {
	for _, c := range chars {
		list := append(r.dispatch[c], cand)
		slices.SortStableFunc(list, func(a, b Candidate) int {
			return cmp.Compare(a.priority(), b.priority())
		})
		r.dispatch[c] = list
	}
}
