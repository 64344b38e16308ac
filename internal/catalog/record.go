// Package catalog loads book documents from the store, annotates them
// with normalized geography and a search blob, and caches the indexed
// result behind a TTL.
package catalog

import (
	"fmt"
	"strings"

	"github.com/bookatlas/atlas-server/internal/domain"
	"github.com/bookatlas/atlas-server/internal/geo"
	"github.com/bookatlas/atlas-server/internal/normalize"
)

// ParseRecord builds a fully indexed Book from a raw stored document.
// All coercion policy lives here: absent or mistyped fields degrade to
// empty strings, empty lists or zero instead of failing, so one bad
// document can never poison an index run.
func ParseRecord(id string, fields map[string]any) *domain.Book {
	if fields == nil {
		fields = map[string]any{}
	}

	b := &domain.Book{
		ID:          id,
		Title:       coerceString(fields["title"]),
		Author:      coerceString(fields["author"]),
		Summary:     coerceString(fields["summary"]),
		Description: coerceString(fields["description"]),
		Year:        coerceString(fields["year"]),
		PageCount:   coerceInt(fields["page_count"]),
		CoverURL:    coerceString(fields["cover_url"]),
		BookshopURL: coerceString(fields["bookshop_url"]),
		Tags:        coerceStringList(fields["tags"]),
		Categories:  coerceStringList(fields["categories"]),

		CountryOverride: fields["country_override"],
		SettingCountry:  fields["setting_country"],
		AuthorCountry:   fields["author_country"],
		AuthorOrigin:    fields["author_origin"],
	}

	b.Places = buildPlaces(b)
	b.Sets = buildSets(b.Places)
	b.SearchBlob = buildSearchBlob(b)
	return b
}

func buildPlaces(b *domain.Book) domain.Places {
	build := func(value any) []domain.Place {
		var out []domain.Place
		for _, iso2 := range geo.ExtractCandidates(value) {
			name := geo.CountryName(iso2)
			if name == "" {
				name = iso2
			}
			out = append(out, domain.Place{ISO2: iso2, Name: name})
		}
		return out
	}

	return domain.Places{
		Override:      build(b.CountryOverride),
		Setting:       build(b.SettingCountry),
		AuthorCountry: build(b.AuthorCountry),
		AuthorOrigin:  build(b.AuthorOrigin),
	}
}

func buildSets(places domain.Places) domain.ISO2Sets {
	asSet := func(groups ...[]domain.Place) map[string]bool {
		out := map[string]bool{}
		for _, group := range groups {
			for _, p := range group {
				out[strings.ToUpper(p.ISO2)] = true
			}
		}
		return out
	}

	sets := domain.ISO2Sets{
		Override: asSet(places.Override),
		Setting:  asSet(places.Setting),
		Author:   asSet(places.AuthorCountry, places.AuthorOrigin),
	}
	sets.Any = asSet(places.Override, places.Setting, places.AuthorCountry, places.AuthorOrigin)
	return sets
}

func buildSearchBlob(b *domain.Book) string {
	parts := make([]string, 0, 16)
	for _, v := range []string{b.Title, b.Author, b.Summary, b.Description, b.Year} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	for _, list := range [][]string{b.Tags, b.Categories} {
		for _, v := range list {
			if strings.TrimSpace(v) != "" {
				parts = append(parts, v)
			}
		}
	}
	for _, field := range []any{b.CountryOverride, b.SettingCountry, b.AuthorCountry, b.AuthorOrigin} {
		for _, iso2 := range geo.ExtractCandidates(field) {
			parts = append(parts, iso2)
			if name := geo.CountryName(iso2); name != "" && name != iso2 {
				parts = append(parts, name)
			}
		}
	}
	return normalize.Text(strings.Join(parts, " "))
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case bool:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func coerceInt(v any) int {
	switch n := v.(type) {
	case int:
		if n > 0 {
			return n
		}
	case int64:
		if n > 0 {
			return int(n)
		}
	case float64:
		if n > 0 {
			return int(n)
		}
	}
	return 0
}

func coerceStringList(v any) []string {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{}
	}
}
