// Package langdetect resolves the language of fenced code blocks, either from
// the fence info string or, when that is empty, from the code itself.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/gomdparse/pkg/lines"
)

// Text is returned when no language could be determined.
const Text = "text"

// sampleLimit bounds how much code is handed to the classifier.
const sampleLimit = 16 * 1024

// classifierCandidates restricts the enry classifier to languages that show
// up in documentation.
//
//nolint:gochecknoglobals // Read-only candidate list
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// pattern is a cheap content check tried before the classifier.
type pattern struct {
	lang  string
	match func(content, trimmed []byte) bool
}

//nolint:gochecknoglobals // Read-only pattern table, order matters
var patterns = []pattern{
	{"go", func(_, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("package "))
	}},
	{"python", func(content, _ []byte) bool {
		text := string(content)
		if strings.Contains(text, "def ") && strings.Contains(text, "):") {
			return true
		}
		return strings.Contains(text, "__name__") || strings.Contains(text, "__main__")
	}},
	{"html", func(_, trimmed []byte) bool {
		lower := bytes.ToLower(trimmed)
		return bytes.Contains(lower, []byte("<!doctype html")) || bytes.Contains(lower, []byte("<html"))
	}},
	{"json", func(_, trimmed []byte) bool {
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`"`))
	}},
	{"dockerfile", func(content, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("FROM ")) ||
			(bytes.Contains(content, []byte("WORKDIR ")) && bytes.Contains(content, []byte("COPY ")))
	}},
	{"sql", func(_, trimmed []byte) bool {
		upper := bytes.ToUpper(trimmed)
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if bytes.HasPrefix(upper, []byte(kw)) {
				return true
			}
		}
		return false
	}},
	{"rust", func(content, _ []byte) bool {
		return bytes.Contains(content, []byte("fn main()")) || bytes.Contains(content, []byte("println!"))
	}},
	{"javascript", func(content, _ []byte) bool {
		return bytes.Contains(content, []byte("=>")) || bytes.Contains(content, []byte("console.log"))
	}},
	{"yaml", func(content, _ []byte) bool {
		return yamlKeys(content) >= 2
	}},
}

// Detect returns the language of code content, or Text when unsure.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Text
	}
	if len(content) > sampleLimit {
		content = content[:sampleLimit]
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	trimmed := bytes.TrimSpace(content)
	for _, p := range patterns {
		if p.match(content, trimmed) {
			return p.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return Text
}

// DetectLines runs Detect over the content of code block lines.
func DetectLines(ls []lines.Line) string {
	var buf bytes.Buffer
	for _, line := range ls {
		buf.WriteString(line.Text())
		buf.WriteByte('\n')
		if buf.Len() > sampleLimit {
			break
		}
	}
	return Detect(buf.Bytes())
}

// FromInfo returns the language named by a fence info string: its first word,
// mapped to a canonical name when enry knows the alias.
func FromInfo(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	word := strings.TrimPrefix(fields[0], "language-")
	if lang, ok := enry.GetLanguageByAlias(word); ok {
		return normalize(lang)
	}
	return word
}

func yamlKeys(content []byte) int {
	count := 0
	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "({") && line[0] != '"' {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count
}

// normalize converts enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
