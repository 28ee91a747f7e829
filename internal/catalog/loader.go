package catalog

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatter is the optional YAML block at the top of a prompt file.
type frontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Usage       string   `yaml:"usage"`
	Output      string   `yaml:"output"`
	Tags        []string `yaml:"tags"`
}

// PromptExtensions are the file extensions treated as prompt templates.
var PromptExtensions = map[string]bool{
	".md":  true,
	".xml": true,
	".txt": true,
}

// IsPromptFile reports whether a path looks like a prompt template.
func IsPromptFile(path string) bool {
	return PromptExtensions[strings.ToLower(filepath.Ext(path))]
}

// Slug derives the prompt id from a file path: the base name without its
// extension. "critical/AI_CTO.md" -> "AI_CTO".
func Slug(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParsePrompt builds a Prompt record from raw file content.
// Front-matter is optional; a missing title falls back to the first
// markdown heading, then to the slug itself.
func ParsePrompt(relPath string, category Category, content []byte) (*Prompt, error) {
	fm, body, err := splitFrontMatter(string(content))
	if err != nil {
		return nil, fmt.Errorf("invalid front-matter: %w", err)
	}

	p := &Prompt{
		ID:             Slug(relPath),
		Category:       category,
		Path:           filepath.ToSlash(relPath),
		Title:          fm.Title,
		Description:    fm.Description,
		UsageNotes:     fm.Usage,
		OutputArtifact: fm.Output,
		Tags:           fm.Tags,
		Body:           body,
	}

	if p.Title == "" {
		p.Title = firstHeading(body)
	}
	if p.Title == "" {
		p.Title = p.ID
	}
	if p.Description == "" {
		p.Description = firstParagraph(body)
	}

	return p, nil
}

// splitFrontMatter separates an optional leading "---" YAML block from the
// prompt body. Content without a front-matter block is returned unchanged.
func splitFrontMatter(content string) (frontMatter, string, error) {
	var fm frontMatter

	if !strings.HasPrefix(content, "---\n") && !strings.HasPrefix(content, "---\r\n") {
		return fm, content, nil
	}

	rest := content[strings.Index(content, "\n")+1:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		// Unterminated block: treat the whole file as body
		return fm, content, nil
	}

	block := rest[:end]
	body := rest[end+len("\n---"):]
	// Drop the newline following the closing delimiter
	if i := strings.Index(body, "\n"); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}

	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return frontMatter{}, "", err
	}

	return fm, body, nil
}

// firstHeading returns the text of the first markdown heading in body.
func firstHeading(body string) string {
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}

// firstParagraph returns the first non-heading, non-empty line of body,
// used as a description fallback.
func firstParagraph(body string) string {
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "<") {
			continue
		}
		return line
	}
	return ""
}
