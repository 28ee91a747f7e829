package render

import (
	"strings"
	"testing"

	"github.com/promptdex/promptdex/internal/catalog"
	"github.com/promptdex/promptdex/internal/chain"
)

func testCatalog() *catalog.Catalog {
	cat := &catalog.Catalog{Registry: catalog.NewRegistry()}
	cat.Register(&catalog.Prompt{
		ID:             "AI_CTO",
		Title:          "AI CTO",
		Category:       catalog.CategoryCritical,
		Description:    "Technical advisor",
		OutputArtifact: "REVIEW.md",
		Path:           "critical/AI_CTO.md",
	})
	cat.Register(&catalog.Prompt{
		ID:          "PRD",
		Title:       "PRD Writer",
		Category:    catalog.CategoryIdeation,
		Description: "Turn an idea into a PRD | with structure",
		Path:        "ideation/PRD.md",
	})
	return cat
}

func TestMarkdownIncludesAllCategories(t *testing.T) {
	var b strings.Builder
	if err := Markdown(&b, testCatalog(), nil); err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	out := b.String()

	// Every category heading appears, populated or not
	for _, heading := range []string{
		"Critical Thinking & Decision Making",
		"Business & Strategy",
		"Ideation & Product",
		"Automation & Workflows",
		"Personal Development",
		"Utilities",
	} {
		if !strings.Contains(out, "## "+heading) {
			t.Errorf("Missing category heading %q", heading)
		}
	}

	// Empty categories carry the placeholder
	if !strings.Contains(out, "_No prompts in this category._") {
		t.Error("Missing empty-category placeholder")
	}
}

func TestMarkdownTableContent(t *testing.T) {
	var b strings.Builder
	if err := Markdown(&b, testCatalog(), nil); err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	out := b.String()

	if !strings.Contains(out, "[AI CTO](critical/AI_CTO.md)") {
		t.Error("Expected prompt link in table")
	}
	if !strings.Contains(out, "REVIEW.md") {
		t.Error("Expected output artifact in table")
	}
	// Pipes in descriptions are escaped so the table stays intact
	if !strings.Contains(out, `PRD \| with structure`) {
		t.Error("Expected escaped pipe in description cell")
	}
}

func TestMarkdownChainsSection(t *testing.T) {
	chains := []chain.Chain{
		{Name: "idea-to-design", Description: "From idea to design", Prompts: []string{"IDEA_ANALYSIS", "PRD", "HLD"}},
	}

	var b strings.Builder
	if err := Markdown(&b, testCatalog(), chains); err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	out := b.String()

	if !strings.Contains(out, "## Suggested Chains") {
		t.Error("Missing chains section")
	}
	if !strings.Contains(out, "IDEA_ANALYSIS → PRD → HLD") {
		t.Error("Expected arrow-joined prompt sequence")
	}

	// No chains, no section
	b.Reset()
	if err := Markdown(&b, testCatalog(), nil); err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	if strings.Contains(b.String(), "Suggested Chains") {
		t.Error("Chains section should be omitted when empty")
	}
}
