package catalog

import (
	"bufio"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gitignore "github.com/sabhiram/go-gitignore"
)

// FileInfo contains metadata about a discovered prompt file.
type FileInfo struct {
	Path       string // Relative to the library root
	Category   Category
	Hash       string
	SizeBytes  int64
	MtimeUnix  int64
	NeedsIndex bool
}

// WalkResult contains the results of a library walk.
type WalkResult struct {
	Files    []FileInfo
	Errors   []WalkError
	Warnings []Warning
}

// DefaultIgnorePatterns are common directories and files to skip.
var DefaultIgnorePatterns = []string{
	".git",
	".promptdex",
	"node_modules",
	".idea",
	".vscode",
	".DS_Store",
	"README.md",
	"chains.yaml",
}

// IgnoreFileName is the per-library ignore file, gitignore syntax.
const IgnoreFileName = ".promptignore"

// WalkerConfig configures the file walker behavior.
type WalkerConfig struct {
	// MaxConcurrency limits parallel file hashing. Default: 4
	MaxConcurrency int
	// ExistingFiles is a map of path -> record for fast-path optimization.
	// If provided, the walker skips hashing files whose size and mtime
	// are unchanged.
	ExistingFiles map[string]PromptRecord
}

// Walker walks a library root and discovers prompt template files.
// Files outside the six category directories are ignored with a warning.
type Walker struct {
	root          string
	config        WalkerConfig
	ignoreMatcher gitignore.IgnoreParser
}

// NewWalker creates a walker with default configuration.
func NewWalker(root string) (*Walker, error) {
	return NewWalkerWithConfig(root, WalkerConfig{})
}

// NewWalkerWithConfig creates a walker with custom configuration.
func NewWalkerWithConfig(root string, config WalkerConfig) (*Walker, error) {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}

	w := &Walker{
		root:   root,
		config: config,
	}

	allPatterns := make([]string, 0, len(DefaultIgnorePatterns)+10)
	allPatterns = append(allPatterns, DefaultIgnorePatterns...)

	// .promptignore and .gitignore both apply, in that order
	for _, name := range []string{IgnoreFileName, ".gitignore"} {
		if lines, err := readIgnoreLines(filepath.Join(root, name)); err == nil {
			allPatterns = append(allPatterns, lines...)
		}
	}

	w.ignoreMatcher = gitignore.CompileIgnoreLines(allPatterns...)

	return w, nil
}

// IgnoreMatcher exposes the compiled ignore patterns, for the watcher.
func (w *Walker) IgnoreMatcher() gitignore.IgnoreParser {
	return w.ignoreMatcher
}

// readIgnoreLines reads patterns from a gitignore-style file.
func readIgnoreLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// CategoryOf maps a relative path to the category it belongs to, based on
// its top-level directory. Returns false for files outside any category.
func CategoryOf(relPath string) (Category, bool) {
	parts := strings.SplitN(filepath.ToSlash(relPath), "/", 2)
	if len(parts) < 2 {
		// Top-level file, not inside a category directory
		return "", false
	}
	return ParseCategory(parts[0])
}

// Walk discovers all prompt files in the library.
func (w *Walker) Walk() WalkResult {
	pathChan := make(chan string, 100)
	resultChan := make(chan FileInfo, 100)
	errorChan := make(chan WalkError, 100)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < w.config.MaxConcurrency; i++ {
		wg.Add(1)
		go w.fileProcessor(ctx, pathChan, resultChan, errorChan, &wg)
	}

	var files []FileInfo
	var errors []WalkError
	var warnings []Warning
	collectDone := make(chan struct{})
	go func(results <-chan FileInfo, errs <-chan WalkError) {
		defer close(collectDone)
		// Drain both channels fully; stopping at the first close would
		// drop buffered entries from the other
		for results != nil || errs != nil {
			select {
			case info, ok := <-results:
				if !ok {
					results = nil
					continue
				}
				files = append(files, info)
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				errors = append(errors, err)
			}
		}
	}(resultChan, errorChan)

	walkErr := filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			errorChan <- WalkError{Path: path, Err: err}
			return nil // Continue walking
		}

		relPath, err := filepath.Rel(w.root, path)
		if err != nil {
			errorChan <- WalkError{Path: path, Err: err}
			return nil
		}

		if relPath == "." {
			return nil
		}

		if w.ignoreMatcher.MatchesPath(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			// Only descend into category directories
			if depth := strings.Count(filepath.ToSlash(relPath), "/"); depth == 0 {
				if _, ok := ParseCategory(d.Name()); !ok {
					warnings = append(warnings, Warning{
						Path:    relPath,
						Message: "not a category directory, skipped",
					})
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !IsPromptFile(path) {
			return nil
		}

		if _, ok := CategoryOf(relPath); !ok {
			warnings = append(warnings, Warning{
				Path:    relPath,
				Message: "prompt file outside a category directory, skipped",
			})
			return nil
		}

		select {
		case pathChan <- path:
		case <-ctx.Done():
			return ctx.Err()
		}

		return nil
	})

	close(pathChan)
	wg.Wait()
	close(resultChan)
	close(errorChan)
	<-collectDone

	if walkErr != nil && walkErr != context.Canceled {
		errors = append(errors, WalkError{Path: w.root, Err: walkErr})
	}

	return WalkResult{
		Files:    files,
		Errors:   errors,
		Warnings: warnings,
	}
}

// fileProcessor hashes discovered files from the channel.
func (w *Walker) fileProcessor(ctx context.Context, pathChan <-chan string, resultChan chan<- FileInfo, errorChan chan<- WalkError, wg *sync.WaitGroup) {
	defer wg.Done()

	for path := range pathChan {
		select {
		case <-ctx.Done():
			return
		default:
		}

		relPath, err := filepath.Rel(w.root, path)
		if err != nil {
			errorChan <- WalkError{Path: path, Err: err}
			continue
		}

		category, _ := CategoryOf(relPath)

		info, err := w.getFileInfo(path, relPath, category)
		if err != nil {
			errorChan <- WalkError{Path: relPath, Err: err}
			continue
		}

		resultChan <- *info
	}
}

// getFileInfo reads file metadata and computes the content hash, reusing
// the stored hash when size and mtime are unchanged.
func (w *Walker) getFileInfo(fullPath, relPath string, category Category) (*FileInfo, error) {
	stat, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	size := stat.Size()
	mtime := stat.ModTime().Unix()
	relPath = filepath.ToSlash(relPath)

	if existing, ok := w.config.ExistingFiles[relPath]; ok {
		if existing.SizeBytes == size && existing.MtimeUnix == mtime {
			return &FileInfo{
				Path:      relPath,
				Category:  category,
				Hash:      existing.Hash,
				SizeBytes: size,
				MtimeUnix: mtime,
			}, nil
		}
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return nil, fmt.Errorf("failed to hash file: %w", err)
	}

	return &FileInfo{
		Path:       relPath,
		Category:   category,
		Hash:       fmt.Sprintf("%x", hasher.Sum(nil)),
		SizeBytes:  size,
		MtimeUnix:  mtime,
		NeedsIndex: true,
	}, nil
}
