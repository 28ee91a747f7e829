package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	units "github.com/docker/go-units"

	"github.com/promptdex/promptdex/internal/catalog"
	"github.com/promptdex/promptdex/internal/chain"
)

// Color palette
var (
	colorHeading = lipgloss.Color("#5FAFFF") // Blue
	colorAccent  = lipgloss.Color("#AF87FF") // Purple
	colorWarning = lipgloss.Color("#FFAF00") // Yellow
	colorMuted   = lipgloss.Color("#888888")
)

var (
	styleHeading = lipgloss.NewStyle().Foreground(colorHeading).Bold(true)
	styleID      = lipgloss.NewStyle().Foreground(colorAccent)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
)

// Terminal writes a styled catalog listing. Categories without prompts
// still render, so an empty library shows all six headings.
func Terminal(w io.Writer, cat *catalog.Catalog) error {
	var b strings.Builder

	for _, c := range catalog.Categories {
		prompts := cat.ByCategory(c)
		fmt.Fprintf(&b, "%s %s\n",
			styleHeading.Render(string(c)),
			styleMuted.Render(fmt.Sprintf("(%d)", len(prompts))))

		for _, p := range prompts {
			fmt.Fprintf(&b, "  %s  %s %s\n",
				styleID.Render(padRight(p.ID, 24)),
				p.Title,
				styleMuted.Render(units.HumanSize(float64(p.SizeBytes))))
			if p.Description != "" {
				fmt.Fprintf(&b, "  %s\n", styleMuted.Render("  "+p.Description))
			}
		}
		b.WriteString("\n")
	}

	for _, warning := range cat.Warnings {
		fmt.Fprintf(&b, "%s %s\n", styleWarning.Render("⚠"), warning)
	}
	for _, err := range cat.Errors {
		fmt.Fprintf(&b, "%s %s\n", styleWarning.Render("⚠"), err.Error())
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Prompt writes a single prompt with its metadata header.
func Prompt(w io.Writer, p *catalog.Prompt, raw bool) error {
	if raw {
		_, err := io.WriteString(w, p.Body)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", styleHeading.Render(p.Title))
	fmt.Fprintf(&b, "%s %s · %s\n", styleID.Render(p.ID), styleMuted.Render(string(p.Category)), styleMuted.Render(p.Path))
	if p.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Description)
	}
	if p.UsageNotes != "" {
		fmt.Fprintf(&b, "\n%s %s\n", styleHeading.Render("Usage:"), p.UsageNotes)
	}
	if p.OutputArtifact != "" {
		fmt.Fprintf(&b, "%s %s\n", styleHeading.Render("Produces:"), p.OutputArtifact)
	}
	fmt.Fprintf(&b, "\n---\n%s\n", p.Body)

	_, err := io.WriteString(w, b.String())
	return err
}

// Chains writes the chain list with advisory issues, if any.
func Chains(w io.Writer, chains []chain.Chain, issues []chain.Issue) error {
	var b strings.Builder

	for _, c := range chains {
		fmt.Fprintf(&b, "%s  %s\n", styleHeading.Render(c.Name), styleMuted.Render(c.Description))
		fmt.Fprintf(&b, "  %s\n", styleID.Render(strings.Join(c.Prompts, " → ")))
	}

	for _, issue := range issues {
		fmt.Fprintf(&b, "%s %s\n", styleWarning.Render("⚠"), issue)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// SearchResults writes scored search hits.
func SearchResults(w io.Writer, results []catalog.SearchResult) error {
	var b strings.Builder

	if len(results) == 0 {
		b.WriteString(styleMuted.Render("no matches") + "\n")
	}
	for _, r := range results {
		fmt.Fprintf(&b, "%s  %s %s %s\n",
			styleID.Render(padRight(r.Slug, 24)),
			r.Title,
			styleMuted.Render(r.Category),
			styleMuted.Render(fmt.Sprintf("(%.2f)", r.Score)))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Stats writes per-category counts and sizes.
func Stats(w io.Writer, cat *catalog.Catalog) error {
	var b strings.Builder

	var totalCount int
	var totalSize int64
	for _, c := range catalog.Categories {
		prompts := cat.ByCategory(c)
		var size int64
		for _, p := range prompts {
			size += p.SizeBytes
		}
		totalCount += len(prompts)
		totalSize += size
		fmt.Fprintf(&b, "%s %d prompts, %s\n",
			styleHeading.Render(padRight(string(c), 12)),
			len(prompts),
			units.HumanSize(float64(size)))
	}
	fmt.Fprintf(&b, "%s %d prompts, %s\n",
		styleHeading.Render(padRight("total", 12)), totalCount, units.HumanSize(float64(totalSize)))

	_, err := io.WriteString(w, b.String())
	return err
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
