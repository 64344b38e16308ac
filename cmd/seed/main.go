// Package main provides a tool to load book records into the catalog database.
//
// The input is a JSON array of book objects. Records are validated,
// assigned IDs when missing, and parsed once through the catalog
// indexer so geography problems surface at seed time rather than at
// serving time.
//
// Usage:
//
//	go run ./cmd/seed --file books.json
//	DATA_PATH=~/Atlas/data go run ./cmd/seed --file books.json --dry-run
package main

import (
	"context"
	"encoding/json/v2"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bookatlas/atlas-server/internal/catalog"
	"github.com/bookatlas/atlas-server/internal/id"
	"github.com/bookatlas/atlas-server/internal/store"
	"github.com/bookatlas/atlas-server/internal/validation"
)

var (
	file   = flag.String("file", "", "Path to a JSON file holding an array of book records")
	dbPath = flag.String("db", "", "Path to the Badger database (default: $DATA_PATH/db or ~/Atlas/data/db)")
	dryRun = flag.Bool("dry-run", false, "Validate and report without writing")
)

// seedRecord is the accepted input shape. The geography fields are
// deliberately loose: the catalog parser accepts strings, lists and
// maps, so the seeder does too.
type seedRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title" validate:"required"`
	Author      string   `json:"author" validate:"required"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Year        string   `json:"year"`
	PageCount   int      `json:"page_count" validate:"gte=0"`
	CoverURL    string   `json:"cover_url" validate:"omitempty,url"`
	BookshopURL string   `json:"bookshop_url" validate:"omitempty,url"`
	Tags        []string `json:"tags" validate:"max=64"`
	Categories  []string `json:"categories" validate:"max=64"`

	CountryOverride any `json:"country_override"`
	SettingCountry  any `json:"setting_country"`
	AuthorCountry   any `json:"author_country"`
	AuthorOrigin    any `json:"author_origin"`
}

// fields converts the record to the loosely typed document stored in
// Badger. Empty optional fields are omitted so the stored shape matches
// hand-curated data.
func (r seedRecord) fields() map[string]any {
	fields := map[string]any{
		"title":  r.Title,
		"author": r.Author,
	}

	setIf := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	setIf("summary", r.Summary)
	setIf("description", r.Description)
	setIf("year", r.Year)
	setIf("cover_url", r.CoverURL)
	setIf("bookshop_url", r.BookshopURL)

	if r.PageCount > 0 {
		fields["page_count"] = r.PageCount
	}
	if len(r.Tags) > 0 {
		fields["tags"] = r.Tags
	}
	if len(r.Categories) > 0 {
		fields["categories"] = r.Categories
	}

	if r.CountryOverride != nil {
		fields["country_override"] = r.CountryOverride
	}
	if r.SettingCountry != nil {
		fields["setting_country"] = r.SettingCountry
	}
	if r.AuthorCountry != nil {
		fields["author_country"] = r.AuthorCountry
	}
	if r.AuthorOrigin != nil {
		fields["author_origin"] = r.AuthorOrigin
	}

	return fields
}

func main() {
	flag.Parse()

	if *file == "" {
		log.Fatal("--file is required")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	var records []seedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Fatalf("Failed to parse %s: %v", *file, err)
	}
	fmt.Printf("Loaded %d records from %s\n", len(records), *file)

	validate := validation.New()

	path := *dbPath
	if path == "" {
		base := os.Getenv("DATA_PATH")
		if base == "" {
			base = os.ExpandEnv("$HOME/Atlas/data")
		}
		path = filepath.Join(base, "db")
	}

	var s *store.Store
	if !*dryRun {
		fmt.Printf("Opening database at: %s\n", path)
		s, err = store.New(path, nil)
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		defer s.Close()
	}

	ctx := context.Background()
	written := 0
	skipped := 0
	countriesSeen := map[string]bool{}

	for i, rec := range records {
		if err := validate.Validate(rec); err != nil {
			log.Printf("Record %d (%q) failed validation: %v", i, rec.Title, err)
			skipped++
			continue
		}

		bookID := rec.ID
		if bookID == "" {
			bookID = id.MustGenerate("book")
		}

		doc := &store.Document{ID: bookID, Fields: rec.fields()}

		// Dry-run the catalog parse so unresolvable geography is visible
		// before anything hits the database.
		book := catalog.ParseRecord(doc.ID, doc.Fields)
		if len(book.Sets.Any) == 0 {
			log.Printf("Record %d (%q): no resolvable countries", i, rec.Title)
		}
		for iso2 := range book.Sets.Any {
			countriesSeen[iso2] = true
		}

		if !*dryRun {
			if err := s.PutBook(ctx, doc); err != nil {
				log.Printf("Failed to write %q: %v", rec.Title, err)
				skipped++
				continue
			}
		}
		written++
	}

	verb := "Wrote"
	if *dryRun {
		verb = "Validated"
	}
	fmt.Printf("\n%s %d records (%d skipped), %d distinct countries\n", verb, written, skipped, len(countriesSeen))

	if !*dryRun {
		if total, err := s.CountBooks(ctx); err == nil {
			fmt.Printf("Catalog now holds %d books\n", total)
		}
	}
}
