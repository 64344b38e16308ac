// Package search provides full-text catalog search using Bleve.
//
// The index lives in memory and is rebuilt whenever the catalog cache
// hands out a new snapshot, so search results can never reference a
// book the chat side no longer knows about.
package search

import (
	"regexp"
	"strings"

	"github.com/bookatlas/atlas-server/internal/domain"
)

// SearchDocument is the document structure for the Bleve index.
//
// Geography is denormalized into flat code and name lists so a query
// like "japan" matches books set there without any join at query time.
type SearchDocument struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Summary    string   `json:"summary"`
	Year       string   `json:"year"`
	Tags       []string `json:"tags,omitempty"`
	Categories []string `json:"categories,omitempty"`

	// CountryCodes holds every ISO2 code from the book's any bucket;
	// CountryNames their display names.
	CountryCodes []string `json:"country_codes,omitempty"`
	CountryNames []string `json:"country_names,omitempty"`

	// Blob is the book's normalized search blob, a catch-all field for
	// free-text matching.
	Blob string `json:"blob"`

	PageCount int `json:"page_count,omitempty"`
}

// FromBook builds the search document for an indexed catalog book.
// Tags and categories are indexed as slugs so "Slow Burn", "slow_burn"
// and "slow-burn" all hit the same term.
func FromBook(b *domain.Book) *SearchDocument {
	doc := &SearchDocument{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Summary:    b.BestSummary(),
		Year:       b.Year,
		Tags:       slugList(b.Tags),
		Categories: slugList(b.Categories),
		Blob:       b.SearchBlob,
		PageCount:  b.PageCount,
	}

	seen := map[string]bool{}
	for _, group := range [][]domain.Place{
		b.Places.Override, b.Places.Setting, b.Places.AuthorCountry, b.Places.AuthorOrigin,
	} {
		for _, p := range group {
			if seen[p.ISO2] {
				continue
			}
			seen[p.ISO2] = true
			doc.CountryCodes = append(doc.CountryCodes, p.ISO2)
			doc.CountryNames = append(doc.CountryNames, p.Name)
		}
	}
	return doc
}

var (
	wordSeparatorRe   = regexp.MustCompile(`[\s_/]+`)
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	multipleDashRe    = regexp.MustCompile(`-+`)
)

// tagSlug canonicalizes one tag or category for keyword matching:
// lowercase, dashes for separators, everything else stripped.
func tagSlug(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonAlphanumericRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func slugList(values []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range values {
		slug := tagSlug(v)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, slug)
	}
	return out
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *SearchDocument) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":            d.ID,
		"title":         d.Title,
		"author":        d.Author,
		"summary":       d.Summary,
		"year":          d.Year,
		"tags":          d.Tags,
		"categories":    d.Categories,
		"country_codes": d.CountryCodes,
		"country_names": d.CountryNames,
		"blob":          d.Blob,
		"page_count":    d.PageCount,
	}
}
