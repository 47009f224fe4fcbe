package inline

import (
	"unicode"

	"github.com/yaklabco/gomdparse/pkg/cursor"
)

// parseEmphasis reads a whole run of '*' or '_' and records which sides it
// may open or close from the characters around the run.
func parseEmphasis(_ *State, cur *cursor.Cursor) (*Delimiter, bool) {
	char := cur.Peek()
	if char != '*' && char != '_' {
		return nil, false
	}
	before := cur.PeekN(-1)
	n := cur.Skip(string(char))
	after := cur.Peek()

	left, right := flanking(before, after)
	d := &Delimiter{
		Name:      NameEmphasis,
		Char:      byte(char),
		Length:    n,
		Remaining: n,
		Active:    true,
	}
	if char == '*' {
		d.CanOpen, d.CanClose = left, right
	} else {
		d.CanOpen = left && (!right || isPunct(before))
		d.CanClose = right && (!left || isPunct(after))
	}
	return d, true
}

// flanking reports whether a run between before and after is left-flanking
// and right-flanking.
func flanking(before, after rune) (bool, bool) {
	left := !isSpace(after) && (!isPunct(after) || isSpace(before) || isPunct(before))
	right := !isSpace(before) && (!isPunct(before) || isSpace(after) || isPunct(after))
	return left, right
}

func isSpace(r rune) bool {
	return r == cursor.EOF || r == cursor.LineBreak || unicode.IsSpace(r)
}

func isPunct(r rune) bool {
	return r >= 0 && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}

// pairEmphasis pairs the emphasis delimiters of items[lo:hi]. Openers are
// searched no further back than lo.
func pairEmphasis(items []Item, lo, hi int) {
	for c := lo; c < hi; c++ {
		closer := pairable(items, c)
		if closer == nil || !closer.CanClose || closer.closeOff {
			continue
		}

		for closer.Remaining > 0 {
			o := findOpener(items, lo, c, closer)
			if o < 0 {
				closer.closeOff = true
				break
			}
			opener := items[o].Delim

			for k := o + 1; k < c; k++ {
				if d := items[k].Delim; d != nil && d.Category == Emphasis {
					d.Active = false
				}
			}

			strength := min(2, opener.Remaining, closer.Remaining)
			kind := TagEmphasis
			if strength == 2 {
				kind = TagStrong
			}
			opener.Remaining -= strength
			closer.Remaining -= strength
			opener.Opens = append([]Tag{{Kind: kind, Partner: c}}, opener.Opens...)
			closer.Closes = append(closer.Closes, Tag{Kind: kind, Partner: o})
		}
	}
}

func findOpener(items []Item, lo, c int, closer *Delimiter) int {
	for j := c - 1; j >= lo; j-- {
		opener := pairable(items, j)
		if opener == nil || !opener.CanOpen || opener.Char != closer.Char {
			continue
		}
		if !lengthsCompatible(opener, closer) {
			continue
		}
		return j
	}
	return -1
}

// lengthsCompatible applies the rule of three: when either side can both
// open and close, the run lengths may not sum to a multiple of 3 unless both
// are multiples of 3.
func lengthsCompatible(opener, closer *Delimiter) bool {
	both := (opener.CanOpen && opener.CanClose) || (closer.CanOpen && closer.CanClose)
	if !both || (opener.Length+closer.Length)%3 != 0 {
		return true
	}
	return opener.Length%3 == 0 && closer.Length%3 == 0
}

// pairable returns the delimiter of items[i] if it can still take part in
// emphasis pairing.
func pairable(items []Item, i int) *Delimiter {
	d := items[i].Delim
	if d == nil || d.Category != Emphasis || !d.Active || d.retired || d.Remaining == 0 {
		return nil
	}
	return d
}
