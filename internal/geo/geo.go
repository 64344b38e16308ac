// Package geo normalizes heterogeneous country representations into ISO
// 3166-1 alpha-2 codes and canonical display names.
//
// Catalog records arrive with geography in whatever shape the editor who
// entered them used: bare codes, full names, comma-separated lists, or
// nested objects. Everything funnels through ToISO2/ExtractCandidates so
// downstream code only ever sees uppercase alpha-2 codes.
package geo

import (
	"fmt"
	"sort"
	"strings"
)

// normalizeName canonicalizes a free-text country name for table lookup:
// lowercased, with underscores, hyphens and punctuation treated as spaces.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
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

func isAlpha(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return len(s) > 0
}

// ToISO2 interprets a single value as a country and returns its alpha-2
// code, or "" if the value does not resolve.
//
// A bare 2-letter string is uppercased and passed through without
// validation against the country table; callers must tolerate garbage
// 2-letter input surviving. 3-letter strings resolve via the alpha-3
// table, everything else via free-text name lookup.
func ToISO2(value any) string {
	if value == nil {
		return ""
	}
	raw := strings.TrimSpace(stringify(value))
	if raw == "" {
		return ""
	}

	t := strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(raw))

	if len(t) == 2 && isAlpha(t) {
		return strings.ToUpper(t)
	}

	if len(t) == 3 && isAlpha(t) {
		if iso2, ok := alpha3ToAlpha2[strings.ToUpper(t)]; ok {
			return iso2
		}
	}

	key := normalizeName(raw)
	if iso2, ok := nameToAlpha2[key]; ok {
		return iso2
	}
	if iso2, ok := countryAliases[key]; ok {
		return iso2
	}
	return ""
}

// ExtractCandidates normalizes an arbitrarily shaped geography field into
// an ordered, deduplicated list of alpha-2 codes.
//
// Four input shapes are handled: a map (well-known keys probed first, then
// remaining string or string-list values in sorted key order), a list
// (per-element ToISO2), a string (split on , ; | / per segment), and any
// other scalar (direct ToISO2).
func ExtractCandidates(value any) []string {
	var out []string
	add := func(v any) {
		if iso2 := ToISO2(v); iso2 != "" {
			out = append(out, iso2)
		}
	}

	switch v := value.(type) {
	case map[string]any:
		for _, key := range []string{"iso2", "code", "country", "value", "name"} {
			if inner, ok := v[key]; ok {
				add(inner)
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch inner := v[k].(type) {
			case string:
				add(inner)
			case []any:
				for _, item := range inner {
					add(item)
				}
			case []string:
				for _, item := range inner {
					add(item)
				}
			}
		}
	case []any:
		for _, item := range v {
			add(item)
		}
	case []string:
		for _, item := range v {
			add(item)
		}
	case string:
		for _, part := range strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ';' || r == '|' || r == '/'
		}) {
			if part = strings.TrimSpace(part); part != "" {
				add(part)
			}
		}
	default:
		add(v)
	}

	seen := make(map[string]struct{}, len(out))
	uniq := out[:0]
	for _, iso2 := range out {
		if _, ok := seen[iso2]; ok {
			continue
		}
		seen[iso2] = struct{}{}
		uniq = append(uniq, iso2)
	}
	return uniq
}

// CountryName returns the canonical display name for an alpha-2 code.
// Unknown but well-formed codes echo back unchanged so callers never
// block on name resolution; malformed input returns "".
func CountryName(iso2 string) string {
	code := strings.ToUpper(strings.TrimSpace(iso2))
	if len(code) != 2 || !isAlpha(code) {
		return ""
	}
	if name, ok := alpha2ToName[code]; ok {
		return name
	}
	return code
}

// stringify renders scalar values the way loosely typed catalog fields
// require: strings pass through, everything else via fmt.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
