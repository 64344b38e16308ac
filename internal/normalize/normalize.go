// Package normalize provides utilities for normalizing and sanitizing text.
package normalize

import "strings"

// Text lowercases a string and collapses every run of non-alphanumeric
// characters into a single space. It is the canonical form used for
// catalog search blobs and for substring checks against model prose.
//
// Note: characters outside [a-z0-9] are treated as separators, so accented
// letters do not survive normalization. Callers comparing titles must
// tolerate that.
func Text(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// Truncate caps a string at max runes, trimming trailing whitespace from
// the cut. A non-positive max returns the empty string.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimRight(string(runes[:max]), " \t\n")
}

// SanitizeString removes null bytes, which can cause issues in databases
// and JSON parsing. Some upstream record sources include null terminators
// in strings.
func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 { // null byte
			return -1 // drop it
		}
		return r
	}, s)
}
