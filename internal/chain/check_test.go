package chain

import (
	"strings"
	"testing"
)

// stubChecker is a PromptChecker backed by a set of known ids.
type stubChecker map[string]bool

func (s stubChecker) Has(id string) bool { return s[id] }

func TestCheckAllResolved(t *testing.T) {
	chains := []Chain{
		{Name: "a", Prompts: []string{"X", "Y"}},
		{Name: "b", Prompts: []string{"Y"}},
	}
	known := stubChecker{"X": true, "Y": true}

	if issues := Check(chains, known); len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
}

func TestCheckReportsMissing(t *testing.T) {
	chains := []Chain{
		{Name: "a", Prompts: []string{"X", "MISSING"}},
		{Name: "b", Prompts: []string{"ALSO_MISSING"}},
	}
	known := stubChecker{"X": true}

	issues := Check(chains, known)
	if len(issues) != 2 {
		t.Fatalf("Expected 2 issues, got %d", len(issues))
	}
	if issues[0].Chain != "a" || issues[0].PromptID != "MISSING" {
		t.Errorf("Unexpected first issue: %+v", issues[0])
	}
	if issues[1].Chain != "b" || issues[1].PromptID != "ALSO_MISSING" {
		t.Errorf("Unexpected second issue: %+v", issues[1])
	}

	// Issues render with both chain and prompt named
	s := issues[0].String()
	if !strings.Contains(s, "a") || !strings.Contains(s, "MISSING") {
		t.Errorf("Unexpected issue string: %q", s)
	}
}

func TestCheckEmptyChains(t *testing.T) {
	if issues := Check(nil, stubChecker{}); issues != nil {
		t.Errorf("Expected nil issues, got %v", issues)
	}
}
