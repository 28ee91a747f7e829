// Package render emits the catalog as human-readable output: a Markdown
// table of contents or a styled terminal listing. Rendering has no side
// effects beyond writing to the given writer.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/promptdex/promptdex/internal/catalog"
	"github.com/promptdex/promptdex/internal/chain"
)

// categoryHeadings are the display titles for the Markdown index.
var categoryHeadings = map[catalog.Category]string{
	catalog.CategoryCritical:   "Critical Thinking & Decision Making",
	catalog.CategoryBusiness:   "Business & Strategy",
	catalog.CategoryIdeation:   "Ideation & Product",
	catalog.CategoryAutomation: "Automation & Workflows",
	catalog.CategoryPersonal:   "Personal Development",
	catalog.CategoryUtility:    "Utilities",
}

// Markdown writes the catalog as a Markdown table of contents.
// Every category appears, empty ones included.
func Markdown(w io.Writer, cat *catalog.Catalog, chains []chain.Chain) error {
	var b strings.Builder

	b.WriteString("# Prompt Library\n\n")
	fmt.Fprintf(&b, "%d prompts across %d categories.\n\n", cat.Len(), len(catalog.Categories))

	for _, c := range catalog.Categories {
		fmt.Fprintf(&b, "## %s\n\n", categoryHeadings[c])

		prompts := cat.ByCategory(c)
		if len(prompts) == 0 {
			b.WriteString("_No prompts in this category._\n\n")
			continue
		}

		b.WriteString("| Prompt | Description | Output |\n")
		b.WriteString("|--------|-------------|--------|\n")
		for _, p := range prompts {
			fmt.Fprintf(&b, "| [%s](%s) | %s | %s |\n",
				p.Title, p.Path, mdCell(p.Description), mdCell(p.OutputArtifact))
		}
		b.WriteString("\n")
	}

	if len(chains) > 0 {
		b.WriteString("## Suggested Chains\n\n")
		b.WriteString("Use these prompts in succession, feeding each output into the next.\n\n")
		for _, c := range chains {
			fmt.Fprintf(&b, "- **%s**: %s", c.Name, strings.Join(c.Prompts, " → "))
			if c.Description != "" {
				fmt.Fprintf(&b, " — %s", c.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// mdCell escapes a value for use inside a Markdown table cell.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	return s
}
