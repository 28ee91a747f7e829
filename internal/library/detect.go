// Package library locates prompt libraries on disk and scaffolds new
// ones with the built-in starter prompts.
package library

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/promptdex/promptdex/internal/catalog"
	"github.com/promptdex/promptdex/internal/chain"
)

// Detect reports whether a directory looks like a prompt library:
// either it has a chains.yaml manifest or at least one of the six
// category directories.
func Detect(root string) bool {
	if _, err := os.Stat(filepath.Join(root, chain.ManifestFileName)); err == nil {
		return true
	}
	for _, c := range catalog.Categories {
		info, err := os.Stat(filepath.Join(root, string(c)))
		if err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// FindRoot resolves the library root. An explicit path wins; otherwise
// the search walks up from the working directory looking for a library
// marker, falling back to the working directory itself.
func FindRoot(explicit string) (string, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", fmt.Errorf("failed to resolve library path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("library path is not a valid directory: %s", abs)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := cwd
	for {
		if Detect(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return cwd, nil
}
