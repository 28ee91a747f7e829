package render

import (
	"strings"
	"testing"

	"github.com/promptdex/promptdex/internal/catalog"
)

func TestPromptRaw(t *testing.T) {
	p := &catalog.Prompt{
		ID:          "AI_CTO",
		Title:       "AI CTO",
		Category:    catalog.CategoryCritical,
		Description: "Technical advisor",
		Path:        "critical/AI_CTO.md",
		Body:        "You are a pragmatic CTO.\n\nReview the proposal below.\n",
	}

	var b strings.Builder
	if err := Prompt(&b, p, true); err != nil {
		t.Fatalf("Prompt failed: %v", err)
	}

	// Raw output is the body and nothing else, ready to pipe
	if b.String() != p.Body {
		t.Errorf("Expected raw output to equal the body, got %q", b.String())
	}
}

func TestPromptStyled(t *testing.T) {
	p := &catalog.Prompt{
		ID:          "AI_CTO",
		Title:       "AI CTO",
		Category:    catalog.CategoryCritical,
		Description: "Technical advisor",
		Path:        "critical/AI_CTO.md",
		Body:        "You are a pragmatic CTO.\n",
	}

	var b strings.Builder
	if err := Prompt(&b, p, false); err != nil {
		t.Fatalf("Prompt failed: %v", err)
	}
	out := b.String()

	for _, want := range []string{"AI CTO", "AI_CTO", "critical", "Technical advisor", p.Body} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}
