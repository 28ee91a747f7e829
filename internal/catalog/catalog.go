// Package catalog builds and maintains the index over a prompt library:
// a directory tree of prompt template files grouped into six fixed
// category directories.
package catalog

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Catalog is the in-memory index over a prompt library.
type Catalog struct {
	Root string
	*Registry
	Errors   []WalkError
	Warnings []Warning
}

// Load walks a library root and builds the catalog in one pass.
// Unreadable files are reported in Errors and skipped; only an
// inaccessible root is fatal. Loading the same tree twice yields
// identical catalogs.
func Load(root string) (*Catalog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access library root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library root is not a directory: %s", root)
	}

	walker, err := NewWalker(root)
	if err != nil {
		return nil, fmt.Errorf("failed to create walker: %w", err)
	}

	result := walker.Walk()

	// Hashing is concurrent, so walk order is not stable. Sort by path
	// so repeated loads register prompts (and resolve duplicate slugs)
	// identically.
	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Path < result.Files[j].Path })

	cat := &Catalog{
		Root:     root,
		Registry: NewRegistry(),
		Errors:   result.Errors,
		Warnings: result.Warnings,
	}

	for _, f := range result.Files {
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f.Path)))
		if err != nil {
			cat.Errors = append(cat.Errors, WalkError{Path: f.Path, Err: err})
			continue
		}

		p, err := ParsePrompt(f.Path, f.Category, content)
		if err != nil {
			cat.Errors = append(cat.Errors, WalkError{Path: f.Path, Err: err})
			continue
		}
		p.Hash = f.Hash
		p.SizeBytes = f.SizeBytes
		p.MtimeUnix = f.MtimeUnix

		cat.Register(p)
	}

	cat.Warnings = append(cat.Warnings, cat.Registry.Warnings()...)

	return cat, nil
}

// Scanner reconciles the filesystem with the catalog database.
type Scanner struct {
	db        *DB
	libraryID string
	root      string
}

// NewScanner creates a scanner for a registered library.
func NewScanner(ctx context.Context, db *DB, libraryID, root string) (*Scanner, error) {
	return &Scanner{
		db:        db,
		libraryID: libraryID,
		root:      root,
	}, nil
}

// ScanResult contains the results of a library scan.
type ScanResult struct {
	FilesNeedingIndex []FileInfo
	WalkErrors        []WalkError
	Warnings          []Warning
	TotalDiscovered   int
	FilesDeleted      int
}

// Scan discovers prompt files and updates the database. Returns files
// that need indexing and any per-file errors encountered.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	log.Printf("🔍 Scanning library: %s", s.root)

	// Existing records enable the walker's hash fast path
	existing, err := s.db.GetAllPrompts(ctx, s.libraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing prompts: %w", err)
	}
	existingMap := make(map[string]PromptRecord, len(existing))
	for _, p := range existing {
		existingMap[p.Path] = p
	}

	walker, err := NewWalkerWithConfig(s.root, WalkerConfig{ExistingFiles: existingMap})
	if err != nil {
		return nil, fmt.Errorf("failed to create walker: %w", err)
	}

	walkResult := walker.Walk()

	log.Printf("📁 Discovered %d prompt files", len(walkResult.Files))
	if len(walkResult.Errors) > 0 {
		log.Printf("⚠️  Encountered %d errors during walk", len(walkResult.Errors))
		for _, err := range walkResult.Errors {
			log.Printf("  - %s: %v", err.Path, err.Err)
		}
	}

	discoveredPaths := make(map[string]bool)
	var needsIndexing []FileInfo

	for _, file := range walkResult.Files {
		discoveredPaths[file.Path] = true

		needsIndex, err := s.db.UpsertFile(ctx, s.libraryID, file)
		if err != nil {
			log.Printf("⚠️  Failed to upsert prompt %s: %v", file.Path, err)
			walkResult.Errors = append(walkResult.Errors, WalkError{
				Path: file.Path,
				Err:  fmt.Errorf("database upsert failed: %w", err),
			})
			continue
		}

		if needsIndex {
			file.NeedsIndex = true
			needsIndexing = append(needsIndexing, file)
		}
	}

	// Mark prompts whose files are gone
	deletedCount := 0
	for _, rec := range existing {
		if !discoveredPaths[rec.Path] && !rec.Deleted {
			if err := s.db.MarkDeleted(ctx, s.libraryID, rec.Path); err != nil {
				log.Printf("⚠️  Failed to mark prompt as deleted %s: %v", rec.Path, err)
				walkResult.Errors = append(walkResult.Errors, WalkError{
					Path: rec.Path,
					Err:  fmt.Errorf("failed to mark deleted: %w", err),
				})
				continue
			}
			log.Printf("🗑️  Prompt removed: %s", rec.Path)
			deletedCount++
		}
	}

	log.Printf("✅ Scan complete: %d prompts need indexing, %d removed", len(needsIndexing), deletedCount)

	return &ScanResult{
		FilesNeedingIndex: needsIndexing,
		WalkErrors:        walkResult.Errors,
		Warnings:          walkResult.Warnings,
		TotalDiscovered:   len(walkResult.Files),
		FilesDeleted:      deletedCount,
	}, nil
}

// FromRecords rebuilds an in-memory catalog from database records,
// without touching prompt files. Bodies are not populated.
func FromRecords(root string, records []PromptRecord) *Catalog {
	cat := &Catalog{
		Root:     root,
		Registry: NewRegistry(),
	}

	for _, rec := range records {
		if rec.Deleted {
			continue
		}
		category, ok := ParseCategory(rec.Category)
		if !ok {
			cat.Warnings = append(cat.Warnings, Warning{
				Path:    rec.Path,
				Message: fmt.Sprintf("unknown category %q in database, skipped", rec.Category),
			})
			continue
		}
		cat.Register(&Prompt{
			ID:             rec.Slug,
			Title:          rec.Title,
			Category:       category,
			Description:    rec.Description,
			UsageNotes:     rec.UsageNotes,
			OutputArtifact: rec.OutputArtifact,
			Tags:           rec.Tags,
			Path:           rec.Path,
			Hash:           rec.Hash,
			SizeBytes:      rec.SizeBytes,
			MtimeUnix:      rec.MtimeUnix,
		})
	}

	cat.Warnings = append(cat.Warnings, cat.Registry.Warnings()...)

	return cat
}
