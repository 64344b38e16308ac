// Package domain contains the core business entities for the Atlas book catalog.
package domain

// Place is one resolved geography annotation on a book: an ISO 3166-1
// alpha-2 code plus its display name.
type Place struct {
	ISO2 string `json:"iso2"`
	Name string `json:"name"`
}

// Places groups a book's resolved geography by role. Each slice is
// ordered first-seen with duplicates removed.
type Places struct {
	Override      []Place `json:"override"`
	Setting       []Place `json:"setting"`
	AuthorCountry []Place `json:"author_country"`
	AuthorOrigin  []Place `json:"author_origin"`
}

// ISO2Sets holds the semantic country buckets derived from Places.
// Author is the union of author_country and author_origin; Any is the
// union of all roles and always contains every other bucket.
type ISO2Sets struct {
	Override map[string]bool `json:"override"`
	Setting  map[string]bool `json:"setting"`
	Author   map[string]bool `json:"author"`
	Any      map[string]bool `json:"any"`
}

// Book represents one catalog entry.
//
// Display and classification fields come straight from the stored
// document, coerced to safe defaults when absent or mistyped. The raw
// geography fields keep whatever shape the document carried (string,
// list, map, or nil); Places, Sets and SearchBlob are derived from them
// once at index time and are never persisted.
type Book struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Year        string   `json:"year"`
	PageCount   int      `json:"page_count"`
	CoverURL    string   `json:"cover_url"`
	BookshopURL string   `json:"bookshop_url"`
	Tags        []string `json:"tags"`
	Categories  []string `json:"categories"`

	CountryOverride any `json:"country_override,omitempty"`
	SettingCountry  any `json:"setting_country,omitempty"`
	AuthorCountry   any `json:"author_country,omitempty"`
	AuthorOrigin    any `json:"author_origin,omitempty"`

	Places     Places   `json:"-"`
	Sets       ISO2Sets `json:"-"`
	SearchBlob string   `json:"-"`
}

// InCountry reports whether the book is associated with the given ISO2
// code in any geography role.
func (b *Book) InCountry(iso2 string) bool {
	return b.Sets.Any[iso2]
}

// BestSummary returns the summary, falling back to the description when
// the summary is empty.
func (b *Book) BestSummary() string {
	if b.Summary != "" {
		return b.Summary
	}
	return b.Description
}
