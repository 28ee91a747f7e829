package catalog

import (
	"strings"
	"testing"
)

func TestParsePromptFrontMatter(t *testing.T) {
	content := []byte(`---
title: Idea Analysis
description: Stress-test a raw idea before investing in it
usage: Paste the idea after the prompt
output: ANALYSIS.md
tags:
  - ideation
  - analysis
---
# Idea Analysis

You are a rigorous analyst...
`)

	p, err := ParsePrompt("ideation/IDEA_ANALYSIS.md", CategoryIdeation, content)
	if err != nil {
		t.Fatalf("ParsePrompt failed: %v", err)
	}

	if p.ID != "IDEA_ANALYSIS" {
		t.Errorf("Expected id IDEA_ANALYSIS, got %s", p.ID)
	}
	if p.Title != "Idea Analysis" {
		t.Errorf("Expected title from front matter, got %q", p.Title)
	}
	if p.Description != "Stress-test a raw idea before investing in it" {
		t.Errorf("Unexpected description: %q", p.Description)
	}
	if p.UsageNotes != "Paste the idea after the prompt" {
		t.Errorf("Unexpected usage notes: %q", p.UsageNotes)
	}
	if p.OutputArtifact != "ANALYSIS.md" {
		t.Errorf("Unexpected output artifact: %q", p.OutputArtifact)
	}
	if len(p.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(p.Tags))
	}
	if p.Category != CategoryIdeation {
		t.Errorf("Expected category ideation, got %s", p.Category)
	}
	// Body must not contain the front matter block
	if strings.Contains(p.Body, "title:") {
		t.Errorf("Body still contains front matter: %q", p.Body)
	}
	if !strings.Contains(p.Body, "rigorous analyst") {
		t.Errorf("Body lost prompt text: %q", p.Body)
	}
}

func TestParsePromptTitleFallback(t *testing.T) {
	// No front matter: title comes from the first heading
	p, err := ParsePrompt("critical/AI_CTO.md", CategoryCritical, []byte("# AI CTO\n\nAct as a technical advisor.\n"))
	if err != nil {
		t.Fatalf("ParsePrompt failed: %v", err)
	}
	if p.Title != "AI CTO" {
		t.Errorf("Expected heading fallback title, got %q", p.Title)
	}
	if p.Description != "Act as a technical advisor." {
		t.Errorf("Expected first-paragraph description, got %q", p.Description)
	}

	// No heading either: title falls back to the slug
	p, err = ParsePrompt("utility/SUMMARIZE.txt", CategoryUtility, []byte("Summarize the following text.\n"))
	if err != nil {
		t.Fatalf("ParsePrompt failed: %v", err)
	}
	if p.Title != "SUMMARIZE" {
		t.Errorf("Expected slug fallback title, got %q", p.Title)
	}
}

func TestParsePromptUnterminatedFrontMatter(t *testing.T) {
	content := []byte("---\ntitle: Broken\nNo closing delimiter here\n")

	p, err := ParsePrompt("personal/NOTES.md", CategoryPersonal, content)
	if err != nil {
		t.Fatalf("ParsePrompt failed: %v", err)
	}

	// The whole file is treated as body
	if !strings.Contains(p.Body, "No closing delimiter") {
		t.Errorf("Expected unterminated block kept as body, got %q", p.Body)
	}
	if p.Title != "NOTES" {
		t.Errorf("Expected slug title, got %q", p.Title)
	}
}

func TestParsePromptInvalidYAML(t *testing.T) {
	content := []byte("---\ntitle: [unclosed\n---\nbody\n")

	if _, err := ParsePrompt("utility/BAD.md", CategoryUtility, content); err == nil {
		t.Fatal("Expected error for invalid front matter yaml")
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"critical/AI_CTO.md":   "AI_CTO",
		"ideation/PRD.xml":     "PRD",
		"utility/notes.txt":    "notes",
		"business/sub/PLAN.md": "PLAN",
	}
	for path, want := range cases {
		if got := Slug(path); got != want {
			t.Errorf("Slug(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestIsPromptFile(t *testing.T) {
	if !IsPromptFile("a/b.md") || !IsPromptFile("a/B.XML") || !IsPromptFile("c.txt") {
		t.Error("Expected md/xml/txt to be prompt files")
	}
	if IsPromptFile("a/b.json") || IsPromptFile("Makefile") {
		t.Error("Expected non-prompt extensions to be rejected")
	}
}
