package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for catalog books.
//
// Priorities:
//  1. Full-text search on title/author with English stemming
//  2. Exact keyword matching for tags, categories and country codes
//  3. A catch-all blob field for anything the structured fields miss
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Title - primary search target
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Author - searchable, important for book search
	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = en.AnalyzerName
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	// Summary - searchable but not stored (too large)
	summaryFieldMapping := bleve.NewTextFieldMapping()
	summaryFieldMapping.Analyzer = en.AnalyzerName
	summaryFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("summary", summaryFieldMapping)

	// Year - exact matching, kept as text since source data is freeform
	yearFieldMapping := bleve.NewTextFieldMapping()
	yearFieldMapping.Analyzer = keyword.Name
	yearFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("year", yearFieldMapping)

	// ID - stored but not analyzed
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Tags and categories - keyword analyzer keeps compound values intact
	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = keyword.Name
	tagsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	categoriesFieldMapping := bleve.NewTextFieldMapping()
	categoriesFieldMapping.Analyzer = keyword.Name
	categoriesFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("categories", categoriesFieldMapping)

	// Country codes - exact ISO2 filtering
	codesFieldMapping := bleve.NewTextFieldMapping()
	codesFieldMapping.Analyzer = keyword.Name
	codesFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("country_codes", codesFieldMapping)

	// Country names - full-text so "ivory coast" works
	namesFieldMapping := bleve.NewTextFieldMapping()
	namesFieldMapping.Analyzer = simple.Name
	namesFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("country_names", namesFieldMapping)

	// Blob - catch-all, already normalized, never stored
	blobFieldMapping := bleve.NewTextFieldMapping()
	blobFieldMapping.Analyzer = simple.Name
	blobFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("blob", blobFieldMapping)

	// Page count - range queries
	pageCountFieldMapping := bleve.NewNumericFieldMapping()
	pageCountFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("page_count", pageCountFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
