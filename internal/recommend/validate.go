package recommend

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bookatlas/atlas-server/internal/domain"
	"github.com/bookatlas/atlas-server/internal/intent"
	"github.com/bookatlas/atlas-server/internal/normalize"
)

var (
	headingRe  = regexp.MustCompile(`(?m)^\s*#{1,6}\s*`)
	bulletRe   = regexp.MustCompile(`(?m)^\s*[-*•]\s+`)
	numberedRe = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
)

// SanitizeMarkdown strips list/heading markup the model was told not to
// produce and caps the prose length. The chat UI renders plain prose
// only.
func SanitizeMarkdown(md string) string {
	text := strings.TrimSpace(md)
	if text == "" {
		return ""
	}

	text = headingRe.ReplaceAllString(text, "")
	text = bulletRe.ReplaceAllString(text, "")
	text = numberedRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(newlinesRe.ReplaceAllString(text, "\n\n"))

	return normalize.Truncate(text, maxMarkdownLen)
}

// Validate repairs a parsed model payload into a well-formed envelope.
// It accepts anything, including nil and garbage maps, and never fails:
// invalid recommendations are dropped, prose is sanitized, and when the
// model's free text does not mention its own picks the prose is
// replaced with deterministic synthesized copy.
func Validate(parsed map[string]any, byID map[string]*domain.Book, userText, build string) *Envelope {
	wantsSingle := intent.WantsSingle(userText)

	markdown := SanitizeMarkdown(stringField(parsed, "assistant_markdown"))
	recs, _ := parsed["recommendations"].([]any)
	fups, _ := parsed["follow_up_questions"].([]any)

	cleanRecs := []Recommendation{}
	seen := map[string]bool{}
	for _, raw := range recs {
		r, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		bid, ok := r["book_id"].(string)
		if !ok || byID[bid] == nil || seen[bid] {
			continue
		}
		seen[bid] = true
		reason := strings.TrimSpace(stringField(r, "reason"))
		cleanRecs = append(cleanRecs, Recommendation{
			BookID: bid,
			Reason: normalize.Truncate(reason, maxReasonLen),
		})
	}

	if wantsSingle && len(cleanRecs) > 1 {
		cleanRecs = cleanRecs[:1]
	}
	if !wantsSingle && len(cleanRecs) > maxRecsMulti {
		cleanRecs = cleanRecs[:maxRecsMulti]
	}

	// The first two raw entries are considered even if invalid; a
	// non-string in slot one still consumes a slot.
	cleanFups := []string{}
	for i, raw := range fups {
		if i >= maxFollowUps {
			break
		}
		if q, ok := raw.(string); ok && strings.TrimSpace(q) != "" {
			cleanFups = append(cleanFups, normalize.Truncate(strings.TrimSpace(q), maxFollowUpLen))
		}
	}

	if len(cleanRecs) == 0 {
		if markdown == "" {
			markdown = ApologyMarkdown
		}
		env := NewEnvelope(markdown, build)
		env.FollowUpQuestions = cleanFups
		return env
	}

	if markdown != "" {
		if !mentionsAllTitles(markdown, byID, cleanRecs) {
			if synced := buildSyncedMarkdown(byID, cleanRecs); synced != "" {
				markdown = synced
			}
		}
	} else if synced := buildSyncedMarkdown(byID, cleanRecs); synced != "" {
		markdown = synced
	}

	if markdown == "" {
		markdown = GenericPromptMarkdown
	}

	env := NewEnvelope(markdown, build)
	env.Recommendations = cleanRecs
	env.FollowUpQuestions = cleanFups
	return env
}

// mentionsAllTitles checks that the prose names every recommended book.
// The comparison runs over normalized text, so it is word-boundary
// tolerant but can spuriously miss titles whose distinguishing
// characters are non-ASCII.
func mentionsAllTitles(markdown string, byID map[string]*domain.Book, recs []Recommendation) bool {
	mdNorm := normalize.Text(markdown)
	for _, r := range recs {
		book := byID[r.BookID]
		if book == nil {
			continue
		}
		title := normalize.Text(book.Title)
		if title != "" && !strings.Contains(mdNorm, title) {
			return false
		}
	}
	return true
}

// buildSyncedMarkdown synthesizes prose that provably matches the
// recommendation list. Returns "" when the books lack the title/author
// data needed to phrase anything useful.
func buildSyncedMarkdown(byID map[string]*domain.Book, recs []Recommendation) string {
	if len(recs) == 0 {
		return ""
	}

	titleAuthor := func(bid string) (string, string) {
		book := byID[bid]
		if book == nil {
			return "", ""
		}
		return strings.TrimSpace(book.Title), strings.TrimSpace(book.Author)
	}

	if len(recs) == 1 {
		title, author := titleAuthor(recs[0].BookID)
		if title == "" || author == "" {
			return ""
		}
		if reason := strings.TrimSpace(recs[0].Reason); reason != "" {
			return SanitizeMarkdown(fmt.Sprintf("I recommend **%s** by %s. %s", title, author, reason))
		}
		return SanitizeMarkdown(fmt.Sprintf("I recommend **%s** by %s.", title, author))
	}

	items := recs
	if len(items) > maxRecsMulti {
		items = items[:maxRecsMulti]
	}
	t1, a1 := titleAuthor(items[0].BookID)

	if len(items) == 2 {
		t2, a2 := titleAuthor(items[1].BookID)
		if t1 != "" && a1 != "" && t2 != "" && a2 != "" {
			return SanitizeMarkdown(fmt.Sprintf("Two good picks: **%s** by %s and **%s** by %s.", t1, a1, t2, a2))
		}
		if t1 != "" && a1 != "" {
			return SanitizeMarkdown(fmt.Sprintf("My top pick is **%s** by %s.", t1, a1))
		}
		return ""
	}

	t2, a2 := titleAuthor(items[1].BookID)
	t3, a3 := titleAuthor(items[2].BookID)
	if t1 != "" && a1 != "" && t2 != "" && a2 != "" && t3 != "" && a3 != "" {
		return SanitizeMarkdown(fmt.Sprintf("Three picks: **%s** by %s, **%s** by %s, and **%s** by %s.", t1, a1, t2, a2, t3, a3))
	}
	if t1 != "" && a1 != "" {
		return SanitizeMarkdown(fmt.Sprintf("My top pick is **%s** by %s.", t1, a1))
	}
	return ""
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
