package library

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/promptdex/promptdex/internal/catalog"
	"github.com/promptdex/promptdex/internal/chain"
)

//go:embed builtin
var builtinFS embed.FS

// Scaffold initializes a prompt library at root: the six category
// directories, the built-in starter prompts, and a default chains.yaml.
// Existing files are preserved to keep user customizations.
func Scaffold(root string) error {
	for _, c := range catalog.Categories {
		if err := os.MkdirAll(filepath.Join(root, string(c)), 0755); err != nil {
			return fmt.Errorf("failed to create category directory %s: %w", c, err)
		}
	}

	if err := installStarterPrompts(root); err != nil {
		return err
	}

	if err := chain.WriteDefault(root); err != nil {
		return err
	}

	return nil
}

// installStarterPrompts writes the embedded starter prompts into root.
func installStarterPrompts(root string) error {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		return fmt.Errorf("failed to open embedded prompts: %w", err)
	}

	return fs.WalkDir(sub, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}

		destPath := filepath.Join(root, path)

		if d.IsDir() {
			return os.MkdirAll(destPath, 0755)
		}

		// Preserve existing files (user customizations)
		if _, err := os.Stat(destPath); err == nil {
			return nil
		}

		content, err := fs.ReadFile(sub, path)
		if err != nil {
			return fmt.Errorf("failed to read embedded prompt %s: %w", path, err)
		}

		return os.WriteFile(destPath, content, 0644)
	})
}

// StarterPromptIDs returns the slugs of the embedded starter prompts.
func StarterPromptIDs() ([]string, error) {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		return nil, err
	}

	var ids []string
	err = fs.WalkDir(sub, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ids = append(ids, catalog.Slug(path))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}
