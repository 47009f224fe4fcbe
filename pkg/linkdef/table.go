package linkdef

import (
	"sort"
)

// Entry is a definition stored in the table together with the row of the
// block that defined it.
type Entry struct {
	Definition
	Line int
}

// Table maps normalized labels to their first definition.
type Table struct {
	entries map[string]Entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Entry)}
}

// Add stores def unless its label is already defined. It reports whether the
// definition was stored.
func (t *Table) Add(def Definition, line int) bool {
	key := def.Normalized()
	if key == "" {
		return false
	}
	if _, exists := t.entries[key]; exists {
		return false
	}
	t.entries[key] = Entry{Definition: def, Line: line}
	return true
}

// Lookup finds the definition for a raw label.
func (t *Table) Lookup(label string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	entry, ok := t.entries[NormalizeLabel(label)]
	return entry, ok
}

// Len returns the number of definitions.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Labels returns the normalized labels in sorted order.
func (t *Table) Labels() []string {
	if t == nil {
		return nil
	}
	labels := make([]string, 0, len(t.entries))
	for label := range t.entries {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Entries returns the stored definitions in source order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.entries))
	for _, entry := range t.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Normalized() < out[j].Normalized()
	})
	return out
}
