package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadEmptyRoot(t *testing.T) {
	root := writeLibrary(t, nil)

	cat, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cat.Len() != 0 {
		t.Errorf("Expected empty catalog, got %d prompts", cat.Len())
	}
	// All six categories are present even when empty
	for _, c := range Categories {
		if prompts := cat.ByCategory(c); len(prompts) != 0 {
			t.Errorf("Expected category %s to be empty, got %d", c, len(prompts))
		}
	}
}

func TestLoadMissingRoot(t *testing.T) {
	if _, err := Load("/nonexistent/promptdex-library"); err == nil {
		t.Fatal("Expected error for missing root")
	}
}

func TestLoadBuildsCatalog(t *testing.T) {
	root := writeLibrary(t, map[string]string{
		"critical/AI_CTO.md": "---\ntitle: AI CTO\ndescription: Technical advisor\n---\nAct as a CTO.\n",
		"ideation/PRD.md":    "# PRD Writer\n\nTurn an idea into a PRD.\n",
		"utility/SUM.txt":    "Summarize the input.\n",
	})

	cat, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cat.Len() != 3 {
		t.Fatalf("Expected 3 prompts, got %d", cat.Len())
	}

	p, err := cat.Get("AI_CTO")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.Title != "AI CTO" || p.Description != "Technical advisor" {
		t.Errorf("Unexpected metadata: %+v", p)
	}
	if p.Hash == "" {
		t.Error("Expected content hash to be set")
	}
	if p.Body == "" {
		t.Error("Expected body to be loaded")
	}
}

func TestLoadIdempotent(t *testing.T) {
	root := writeLibrary(t, map[string]string{
		"critical/A.md": "# A\n",
		"business/B.md": "# B\n",
		"ideation/C.md": "# C\n",
		"utility/D.md":  "# D\n",
		"personal/E.md": "# E\n",
	})

	first, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ids1, ids2 := first.IDs(), second.IDs()
	if !reflect.DeepEqual(ids1, ids2) {
		t.Errorf("Loads differ: %v vs %v", ids1, ids2)
	}

	all1, all2 := first.All(), second.All()
	for i := range all1 {
		if all1[i].ID != all2[i].ID || all1[i].Hash != all2[i].Hash {
			t.Errorf("Load order or content differs at %d: %s vs %s", i, all1[i].ID, all2[i].ID)
		}
	}
}

func TestLoadSkipsUnreadableFile(t *testing.T) {
	root := writeLibrary(t, map[string]string{
		"critical/AI_CTO.md": "# AI CTO\n\nAct as a CTO.\n",
	})

	// A dangling symlink stats fine at walk time but cannot be read
	broken := filepath.Join(root, "critical", "BROKEN.md")
	if err := os.Symlink(filepath.Join(root, "nonexistent"), broken); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	cat, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// The readable prompt still loads
	if cat.Len() != 1 {
		t.Fatalf("Expected 1 prompt, got %d", cat.Len())
	}
	if !cat.Has("AI_CTO") {
		t.Errorf("Expected AI_CTO to survive, got %v", cat.IDs())
	}

	// And the unreadable one is reported per-file, not fatally
	if len(cat.Errors) == 0 {
		t.Fatal("Expected a per-file error for the unreadable entry")
	}
	var reported bool
	for _, e := range cat.Errors {
		if e.Path == "critical/BROKEN.md" {
			reported = true
		}
	}
	if !reported {
		t.Errorf("Expected error for critical/BROKEN.md, got %v", cat.Errors)
	}
}

func TestLoadDuplicateSlug(t *testing.T) {
	root := writeLibrary(t, map[string]string{
		"business/PLAN.md": "# Business plan\n",
		"personal/PLAN.md": "# Personal plan\n",
	})

	cat, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// One survives, the clash is a warning
	if cat.Len() != 1 {
		t.Errorf("Expected 1 prompt after duplicate skip, got %d", cat.Len())
	}
	if len(cat.Warnings) == 0 {
		t.Error("Expected a duplicate-slug warning")
	}

	// Deterministic winner: the lexicographically first path
	p, err := cat.Get("PLAN")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.Path != "business/PLAN.md" {
		t.Errorf("Expected business/PLAN.md to win, got %s", p.Path)
	}
}
