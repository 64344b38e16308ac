// Package intent classifies what shape of recommendation the user is
// asking for.
package intent

import (
	"strings"

	"github.com/bookatlas/atlas-server/internal/normalize"
)

// Substrings and prefixes that signal the user wants exactly one pick.
// Checked against normalized text, in order; first match wins.
var (
	singleSubstrings = []string{
		"top rec", "top recommendation",
		"just one", "only one", "one book",
		"one recommendation", "one rec",
		"single recommendation", "single rec",
	}
	singlePrefixes = []string{"give me a book", "recommend a book"}
)

// WantsSingle reports whether the user is asking for exactly one
// recommendation rather than a short list.
//
// This is a fixed text heuristic, not a model call: it runs in constant
// time with no external dependency, and empty text always means false.
func WantsSingle(userText string) bool {
	q := normalize.Text(userText)
	if q == "" {
		return false
	}
	for _, sub := range singleSubstrings {
		if strings.Contains(q, sub) {
			return true
		}
	}
	for _, prefix := range singlePrefixes {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return false
}
