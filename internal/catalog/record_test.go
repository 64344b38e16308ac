package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordDefaults(t *testing.T) {
	b := ParseRecord("b1", nil)

	assert.Equal(t, "b1", b.ID)
	assert.Equal(t, "", b.Title)
	assert.Equal(t, "", b.Author)
	assert.Equal(t, 0, b.PageCount)
	assert.Empty(t, b.Tags)
	assert.Empty(t, b.Categories)
	assert.Empty(t, b.Sets.Any)
	assert.Equal(t, "", b.SearchBlob)
}

func TestParseRecordCoercion(t *testing.T) {
	b := ParseRecord("b2", map[string]any{
		"title":      "  The Shadow King  ",
		"author":     "Maaza Mengiste",
		"year":       float64(2019),
		"page_count": "not a number",
		"tags":       "not a list",
		"categories": []any{"Historical", 7},
	})

	assert.Equal(t, "The Shadow King", b.Title)
	assert.Equal(t, "2019", b.Year)
	assert.Equal(t, 0, b.PageCount)
	assert.Empty(t, b.Tags)
	assert.Equal(t, []string{"Historical", "7"}, b.Categories)
}

func TestParseRecordGeography(t *testing.T) {
	b := ParseRecord("b3", map[string]any{
		"title":            "Half of a Yellow Sun",
		"author":           "Chimamanda Ngozi Adichie",
		"country_override": "NG",
		"setting_country":  []any{"Nigeria", "NG"},
		"author_country":   "Nigeria",
		"author_origin":    "USA",
	})

	require.Len(t, b.Places.Override, 1)
	assert.Equal(t, "NG", b.Places.Override[0].ISO2)
	assert.Equal(t, "Nigeria", b.Places.Override[0].Name)

	// Duplicates in a single field collapse, first seen wins.
	require.Len(t, b.Places.Setting, 1)

	assert.True(t, b.Sets.Override["NG"])
	assert.True(t, b.Sets.Setting["NG"])
	assert.True(t, b.Sets.Author["NG"])
	assert.True(t, b.Sets.Author["US"])
	assert.True(t, b.Sets.Any["NG"])
	assert.True(t, b.Sets.Any["US"])
}

// The any bucket always contains every code from every other bucket.
func TestParseRecordAnyIsSuperset(t *testing.T) {
	records := []map[string]any{
		{"country_override": "FR", "setting_country": "Japan", "author_country": "BRA"},
		{"setting_country": []any{"IN", "PK"}, "author_origin": "Kenya"},
		{"country_override": map[string]any{"iso2": "DE"}},
		{},
	}
	for _, fields := range records {
		b := ParseRecord("x", fields)
		for _, bucket := range []map[string]bool{b.Sets.Override, b.Sets.Setting, b.Sets.Author} {
			for iso2 := range bucket {
				assert.True(t, b.Sets.Any[iso2], "any bucket missing %s", iso2)
			}
		}
	}
}

func TestParseRecordSearchBlob(t *testing.T) {
	b := ParseRecord("b4", map[string]any{
		"title":           "Kafka on the Shore",
		"author":          "Haruki Murakami",
		"year":            "2002",
		"tags":            []any{"Magical Realism", "  "},
		"setting_country": "Japan",
	})

	assert.Contains(t, b.SearchBlob, "kafka on the shore")
	assert.Contains(t, b.SearchBlob, "haruki murakami")
	assert.Contains(t, b.SearchBlob, "2002")
	assert.Contains(t, b.SearchBlob, "magical realism")
	// Geography contributes both the code and the display name.
	assert.Contains(t, b.SearchBlob, "jp")
	assert.Contains(t, b.SearchBlob, "japan")
}
