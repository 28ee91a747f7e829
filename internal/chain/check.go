package chain

import "fmt"

// PromptChecker reports whether a prompt id exists in the catalog.
// *catalog.Registry satisfies this.
type PromptChecker interface {
	Has(id string) bool
}

// Issue is one advisory finding from a chain check.
type Issue struct {
	Chain    string
	PromptID string
}

func (i Issue) String() string {
	return fmt.Sprintf("chain %q references unknown prompt %q", i.Chain, i.PromptID)
}

// Check verifies that every prompt a chain references exists.
// Findings are advisory: returned for reporting, never an error.
func Check(chains []Chain, prompts PromptChecker) []Issue {
	var issues []Issue
	for _, c := range chains {
		for _, id := range c.Prompts {
			if !prompts.Has(id) {
				issues = append(issues, Issue{Chain: c.Name, PromptID: id})
			}
		}
	}
	return issues
}
