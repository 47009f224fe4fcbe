package config

import (
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"
)

// ErrUnknownExtension is returned for extension names that do not exist.
var ErrUnknownExtension = errors.New("unknown extension")

// Suggest returns the candidate closest to name, or "" when nothing is
// close enough.
func Suggest(name string, candidates []string) string {
	if name == "" {
		return ""
	}
	matches := fuzzy.Find(name, candidates)
	if len(matches) > 0 {
		return matches[0].Str
	}
	// Typos rarely keep every character in order; try the reverse direction
	// so that a longer misspelling still finds a shorter name.
	for _, candidate := range candidates {
		if len(fuzzy.Find(candidate, []string{name})) > 0 {
			return candidate
		}
	}
	return ""
}

// CheckExtensions verifies that every name is a known extension.
func CheckExtensions(names []string) error {
	known := KnownExtensions()
	for _, name := range names {
		if contains(known, name) {
			continue
		}
		if suggestion := Suggest(name, known); suggestion != "" {
			return fmt.Errorf("%w %q; did you mean %q?", ErrUnknownExtension, name, suggestion)
		}
		return fmt.Errorf("%w %q; known extensions: %v", ErrUnknownExtension, name, known)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
