package catalog

import (
	"testing"
)

func newTestSearchIndex(t *testing.T) *SearchIndex {
	t.Helper()

	idx, err := NewMemorySearchIndex()
	if err != nil {
		t.Fatalf("NewMemorySearchIndex failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestSearchIndexBasic(t *testing.T) {
	idx := newTestSearchIndex(t)
	lib := "test-library"

	prompts := []*Prompt{
		{ID: "MARKET_RESEARCH", Category: CategoryBusiness, Path: "business/MARKET_RESEARCH.md",
			Title: "Market Research", Description: "Size a market before committing", Body: "Research the market landscape."},
		{ID: "PRD", Category: CategoryIdeation, Path: "ideation/PRD.md",
			Title: "PRD Writer", Description: "Turn an idea into a product requirements document", Body: "Write a PRD."},
		{ID: "SUMMARIZE", Category: CategoryUtility, Path: "utility/SUMMARIZE.md",
			Title: "Summarizer", Description: "Condense long text", Body: "Summarize the input."},
	}
	for _, p := range prompts {
		if err := idx.IndexPrompt(lib, p); err != nil {
			t.Fatalf("IndexPrompt failed: %v", err)
		}
	}

	results, err := idx.Search("market", lib, "", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Slug != "MARKET_RESEARCH" {
		t.Errorf("Expected MARKET_RESEARCH, got %s", results[0].Slug)
	}
	if results[0].Title != "Market Research" || results[0].Category != "business" {
		t.Errorf("Unexpected hit fields: %+v", results[0])
	}
	if results[0].Score <= 0 {
		t.Errorf("Expected positive score, got %f", results[0].Score)
	}
}

func TestSearchCategoryFilter(t *testing.T) {
	idx := newTestSearchIndex(t)
	lib := "test-library"

	if err := idx.IndexPrompt(lib, &Prompt{ID: "B_PLAN", Category: CategoryBusiness,
		Path: "business/B_PLAN.md", Title: "Plan", Body: "Write a plan."}); err != nil {
		t.Fatalf("IndexPrompt failed: %v", err)
	}
	if err := idx.IndexPrompt(lib, &Prompt{ID: "P_PLAN", Category: CategoryPersonal,
		Path: "personal/P_PLAN.md", Title: "Plan", Body: "Write a plan."}); err != nil {
		t.Fatalf("IndexPrompt failed: %v", err)
	}

	results, err := idx.Search("plan", lib, "", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	results, err = idx.Search("plan", lib, CategoryPersonal, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "P_PLAN" {
		t.Errorf("Expected only P_PLAN, got %+v", results)
	}
}

func TestSearchLibraryIsolation(t *testing.T) {
	idx := newTestSearchIndex(t)

	if err := idx.IndexPrompt("lib-a", &Prompt{ID: "A", Category: CategoryUtility,
		Path: "utility/A.md", Title: "Shared words", Body: "isolation test"}); err != nil {
		t.Fatalf("IndexPrompt failed: %v", err)
	}
	if err := idx.IndexPrompt("lib-b", &Prompt{ID: "B", Category: CategoryUtility,
		Path: "utility/B.md", Title: "Shared words", Body: "isolation test"}); err != nil {
		t.Fatalf("IndexPrompt failed: %v", err)
	}

	results, err := idx.Search("isolation", "lib-a", "", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "A" {
		t.Errorf("Expected only lib-a hit, got %+v", results)
	}
}

func TestSearchDelete(t *testing.T) {
	idx := newTestSearchIndex(t)
	lib := "test-library"

	p := &Prompt{ID: "GONE", Category: CategoryUtility, Path: "utility/GONE.md",
		Title: "Disposable", Body: "ephemeral content"}
	if err := idx.IndexPrompt(lib, p); err != nil {
		t.Fatalf("IndexPrompt failed: %v", err)
	}
	if err := idx.DeletePrompt(lib, p.Path); err != nil {
		t.Fatalf("DeletePrompt failed: %v", err)
	}

	results, err := idx.Search("ephemeral", lib, "", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results after delete, got %d", len(results))
	}
}
