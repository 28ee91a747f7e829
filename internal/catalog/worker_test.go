package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestScanAndIndex(t *testing.T) {
	root := writeLibrary(t, map[string]string{
		"business/MARKET_RESEARCH.md": "---\ntitle: Market Research\ndescription: Size a market\ntags: [business]\n---\nResearch the market.\n",
		"ideation/PRD.md":             "# PRD Writer\n\nTurn an idea into a PRD.\n",
	})

	db := newTestDB(t)
	idx := newTestSearchIndex(t)
	ctx := context.Background()
	lib := "test-library"

	scanner, err := NewScanner(ctx, db, lib, root)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}

	result, err := scanner.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if result.TotalDiscovered != 2 {
		t.Errorf("Expected 2 discovered, got %d", result.TotalDiscovered)
	}
	if len(result.FilesNeedingIndex) != 2 {
		t.Errorf("Expected 2 needing index, got %d", len(result.FilesNeedingIndex))
	}

	worker := NewIndexingWorker(db, idx, lib, root)
	if err := worker.RunIndexingBatch(ctx, 0); err != nil {
		t.Fatalf("RunIndexingBatch failed: %v", err)
	}

	// Metadata landed in the database
	rec, err := db.GetPromptBySlug(ctx, lib, "MARKET_RESEARCH")
	if err != nil {
		t.Fatalf("GetPromptBySlug failed: %v", err)
	}
	if rec.Title != "Market Research" || rec.IndexStatus != StatusIndexed {
		t.Errorf("Unexpected record: %+v", rec)
	}

	// And the prompt is searchable
	hits, err := idx.Search("market", lib, "", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 || hits[0].Slug != "MARKET_RESEARCH" {
		t.Errorf("Unexpected hits: %+v", hits)
	}

	// A second scan finds nothing new to index
	result, err = scanner.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.FilesNeedingIndex) != 0 {
		t.Errorf("Expected nothing to index on rescan, got %d", len(result.FilesNeedingIndex))
	}
}

func TestScanDetectsDeletion(t *testing.T) {
	root := writeLibrary(t, map[string]string{
		"utility/KEEP.md":   "Keep me.\n",
		"utility/REMOVE.md": "Remove me.\n",
	})

	db := newTestDB(t)
	idx := newTestSearchIndex(t)
	ctx := context.Background()
	lib := "test-library"

	scanner, err := NewScanner(ctx, db, lib, root)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}
	if _, err := scanner.Scan(ctx); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	worker := NewIndexingWorker(db, idx, lib, root)
	if err := worker.RunIndexingBatch(ctx, 0); err != nil {
		t.Fatalf("RunIndexingBatch failed: %v", err)
	}

	if err := os.Remove(filepath.Join(root, "utility", "REMOVE.md")); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}

	result, err := scanner.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if result.FilesDeleted != 1 {
		t.Errorf("Expected 1 deletion, got %d", result.FilesDeleted)
	}

	active, err := db.GetActivePrompts(ctx, lib)
	if err != nil {
		t.Fatalf("GetActivePrompts failed: %v", err)
	}
	if len(active) != 1 || active[0].Slug != "KEEP" {
		t.Errorf("Unexpected active prompts: %+v", active)
	}
}

func TestWorkerHandlesVanishedFile(t *testing.T) {
	root := writeLibrary(t, map[string]string{
		"personal/GHOST.md": "Now you see me.\n",
	})

	db := newTestDB(t)
	idx := newTestSearchIndex(t)
	ctx := context.Background()
	lib := "test-library"

	scanner, err := NewScanner(ctx, db, lib, root)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}
	if _, err := scanner.Scan(ctx); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	// File disappears between scan and index
	if err := os.Remove(filepath.Join(root, "personal", "GHOST.md")); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}

	worker := NewIndexingWorker(db, idx, lib, root)
	if err := worker.RunIndexingBatch(ctx, 0); err != nil {
		t.Fatalf("RunIndexingBatch failed: %v", err)
	}

	active, err := db.GetActivePrompts(ctx, lib)
	if err != nil {
		t.Fatalf("GetActivePrompts failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("Expected vanished file marked deleted, got %+v", active)
	}
}
