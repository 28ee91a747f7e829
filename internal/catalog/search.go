package catalog

import (
	"fmt"
	"log"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// SearchResult represents a full-text search hit.
type SearchResult struct {
	Slug     string
	Path     string
	Category string
	Title    string
	Score    float64
}

// SearchIndex provides full-text search over prompt templates.
type SearchIndex struct {
	index bleve.Index
	path  string
}

// NewSearchIndex creates or opens the search index next to the catalog
// database. A corrupted index is deleted and recreated.
func NewSearchIndex(dbPath string) (*SearchIndex, error) {
	indexPath := dbPath + ".bleve"

	index, err := bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create search index: %w", err)
		}
		log.Println("📚 Search index created")
	} else if err != nil {
		log.Printf("⚠️  Search index appears corrupted (error: %v), recreating...", err)

		if index != nil {
			index.Close()
		}
		if err := os.RemoveAll(indexPath); err != nil {
			log.Printf("⚠️  Failed to remove corrupted index directory: %v", err)
		}

		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to recreate search index: %w", err)
		}
		log.Println("✅ Search index recreated (corrupted index was deleted)")
	}

	return &SearchIndex{
		index: index,
		path:  indexPath,
	}, nil
}

// NewMemorySearchIndex creates an in-memory search index, used in tests.
func NewMemorySearchIndex() (*SearchIndex, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory search index: %w", err)
	}
	return &SearchIndex{index: index}, nil
}

// buildIndexMapping creates the index mapping for prompt documents.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	promptMapping := bleve.NewDocumentMapping()

	// Exact-match fields
	for _, field := range []string{"slug", "library_id", "path", "category"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = true
		fm.Index = true
		promptMapping.AddFieldMappingsAt(field, fm)
	}

	// Searchable text fields
	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name
	titleField.Store = true
	titleField.Index = true
	promptMapping.AddFieldMappingsAt("title", titleField)

	for _, field := range []string{"description", "usage_notes", "tags", "body"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = false
		fm.Index = true
		promptMapping.AddFieldMappingsAt(field, fm)
	}

	indexMapping.DefaultMapping = promptMapping

	return indexMapping
}

// IndexPrompt indexes a single prompt document.
func (s *SearchIndex) IndexPrompt(libraryID string, p *Prompt) error {
	doc := map[string]interface{}{
		"slug":        p.ID,
		"library_id":  libraryID,
		"path":        p.Path,
		"category":    string(p.Category),
		"title":       p.Title,
		"description": p.Description,
		"usage_notes": p.UsageNotes,
		"tags":        p.Tags,
		"body":        p.Body,
	}

	return s.index.Index(docID(libraryID, p.Path), doc)
}

// DeletePrompt removes a prompt document from the index.
func (s *SearchIndex) DeletePrompt(libraryID, path string) error {
	return s.index.Delete(docID(libraryID, path))
}

// docID builds a stable document id from library and path.
func docID(libraryID, path string) string {
	return libraryID + ":" + path
}

// Search performs a full-text search and returns the top k results,
// optionally filtered by category.
func (s *SearchIndex) Search(query, libraryID string, category Category, k int) ([]SearchResult, error) {
	q := bleve.NewMatchQuery(query)

	libQuery := bleve.NewTermQuery(libraryID)
	libQuery.SetField("library_id")

	combinedQuery := bleve.NewConjunctionQuery(q, libQuery)

	if category != "" {
		catQuery := bleve.NewTermQuery(string(category))
		catQuery.SetField("category")
		combinedQuery = bleve.NewConjunctionQuery(combinedQuery, catQuery)
	}

	searchRequest := bleve.NewSearchRequest(combinedQuery)
	searchRequest.Size = k
	searchRequest.Fields = []string{"slug", "path", "category", "title"}

	searchResult, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		result := SearchResult{Score: hit.Score}
		if slug, ok := hit.Fields["slug"].(string); ok {
			result.Slug = slug
		}
		if path, ok := hit.Fields["path"].(string); ok {
			result.Path = path
		}
		if cat, ok := hit.Fields["category"].(string); ok {
			result.Category = cat
		}
		if title, ok := hit.Fields["title"].(string); ok {
			result.Title = title
		}
		results = append(results, result)
	}

	return results, nil
}

// Close closes the search index.
func (s *SearchIndex) Close() error {
	return s.index.Close()
}
