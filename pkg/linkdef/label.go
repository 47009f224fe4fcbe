// Package linkdef parses link reference definitions and keeps the table of
// definitions used to resolve reference-style links and images.
package linkdef

import (
	"html"
	"strings"

	"golang.org/x/text/cases"
)

// MaxLabelLength is the longest label accepted inside brackets.
const MaxLabelLength = 999

// NormalizeLabel trims the label, collapses internal whitespace to a single
// space and applies Unicode case folding, so that labels differing only in
// case or spacing compare equal.
func NormalizeLabel(label string) string {
	return cases.Fold().String(strings.Join(strings.Fields(label), " "))
}

// IsASCIIPunct reports whether b is an ASCII punctuation character.
func IsASCIIPunct(b byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", b) >= 0
}

// Unescape removes backslash escapes before ASCII punctuation and decodes
// entity and numeric character references.
func Unescape(s string) string {
	if !strings.ContainsAny(s, "\\&") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && IsASCIIPunct(s[i+1]):
			if s[i+1] == '&' {
				sb.WriteString("&amp;")
			} else {
				sb.WriteByte(s[i+1])
			}
			i++
		case s[i] == '&' && ReferenceLength(s[i:]) == 0:
			sb.WriteString("&amp;")
		default:
			sb.WriteByte(s[i])
		}
	}
	return html.UnescapeString(sb.String())
}

// ReferenceLength returns the byte length of the character reference at the
// start of s, or 0 if there is none.
func ReferenceLength(s string) int {
	if len(s) < 3 || s[0] != '&' {
		return 0
	}
	end := strings.IndexByte(s, ';')
	if end < 2 || end > 33 {
		return 0
	}
	body := s[1:end]
	if body[0] == '#' {
		digits := body[1:]
		if digits != "" && (digits[0] == 'x' || digits[0] == 'X') {
			digits = digits[1:]
			if digits == "" || len(digits) > 6 || strings.Trim(digits, "0123456789abcdefABCDEF") != "" {
				return 0
			}
			return end + 1
		}
		if digits == "" || len(digits) > 7 || strings.Trim(digits, "0123456789") != "" {
			return 0
		}
		return end + 1
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return 0
		}
	}
	ref := s[:end+1]
	decoded := html.UnescapeString(ref)
	if decoded == ref || (strings.HasSuffix(decoded, ";") && body != "semi") {
		return 0
	}
	return end + 1
}
