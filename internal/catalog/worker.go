package catalog

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// IndexingWorker processes pending prompt files in the background:
// parse metadata, store it, and feed the search index.
type IndexingWorker struct {
	db        *DB
	search    *SearchIndex
	libraryID string
	root      string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	batchSize    int
	tickInterval time.Duration
}

// NewIndexingWorker creates a new background indexing worker.
func NewIndexingWorker(db *DB, search *SearchIndex, libraryID, root string) *IndexingWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &IndexingWorker{
		db:           db,
		search:       search,
		libraryID:    libraryID,
		root:         root,
		ctx:          ctx,
		cancel:       cancel,
		batchSize:    20,              // Process up to 20 files per tick
		tickInterval: 5 * time.Second, // Check for work every 5 seconds
	}
}

// Start begins the background indexing loop.
func (w *IndexingWorker) Start() {
	w.wg.Add(1)
	go w.indexingLoop()
}

// Stop stops the background indexing worker.
func (w *IndexingWorker) Stop() {
	w.cancel()
	w.wg.Wait()
}

// indexingLoop continuously processes pending prompt files.
func (w *IndexingWorker) indexingLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	log.Printf("🔄 Background indexing worker started (batch size: %d, interval: %v)", w.batchSize, w.tickInterval)

	for {
		select {
		case <-w.ctx.Done():
			log.Println("🛑 Background indexing worker stopped")
			return

		case <-ticker.C:
			w.processBatch()
		}
	}
}

// processBatch processes a batch of pending prompt files.
func (w *IndexingWorker) processBatch() {
	files, err := w.db.GetPromptsNeedingIndex(w.ctx, w.libraryID)
	if err != nil {
		log.Printf("⚠️  Failed to get pending prompts: %v", err)
		return
	}

	if len(files) == 0 {
		return // Nothing to do
	}

	if len(files) > w.batchSize {
		files = files[:w.batchSize]
	}

	log.Printf("📦 Processing batch of %d prompts", len(files))

	for _, file := range files {
		if err := w.processFile(file); err != nil {
			log.Printf("❌ Failed to index %s: %v", file.Path, err)
		}
	}
}

// RunIndexingBatch synchronously indexes up to maxFiles pending prompts.
// maxFiles <= 0 means no limit.
func (w *IndexingWorker) RunIndexingBatch(ctx context.Context, maxFiles int) error {
	files, err := w.db.GetPromptsNeedingIndex(ctx, w.libraryID)
	if err != nil {
		return fmt.Errorf("failed to get pending prompts: %w", err)
	}

	if maxFiles > 0 && len(files) > maxFiles {
		files = files[:maxFiles]
	}

	for _, file := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := w.processFile(file); err != nil {
			log.Printf("❌ Failed to index %s: %v", file.Path, err)
		}
	}

	return nil
}

// processFile indexes a single prompt file: parse, store metadata, index.
func (w *IndexingWorker) processFile(rec PromptRecord) error {
	if err := w.db.MarkIndexing(w.ctx, w.libraryID, rec.Path); err != nil {
		return fmt.Errorf("failed to mark as indexing: %w", err)
	}

	fullPath := filepath.Join(w.root, filepath.FromSlash(rec.Path))
	content, err := os.ReadFile(fullPath)
	if err != nil {
		// File may have been deleted between scan and index
		if os.IsNotExist(err) {
			w.db.MarkDeleted(w.ctx, w.libraryID, rec.Path)
			w.search.DeletePrompt(w.libraryID, rec.Path)
			return nil
		}
		w.db.MarkFailed(w.ctx, w.libraryID, rec.Path, err.Error())
		return fmt.Errorf("failed to read prompt file: %w", err)
	}

	category, ok := ParseCategory(rec.Category)
	if !ok {
		w.db.MarkFailed(w.ctx, w.libraryID, rec.Path, "unknown category "+rec.Category)
		return fmt.Errorf("unknown category: %s", rec.Category)
	}

	p, err := ParsePrompt(rec.Path, category, content)
	if err != nil {
		w.db.MarkFailed(w.ctx, w.libraryID, rec.Path, err.Error())
		return fmt.Errorf("failed to parse prompt: %w", err)
	}

	if err := w.db.UpdateMetadata(w.ctx, w.libraryID, p); err != nil {
		w.db.MarkFailed(w.ctx, w.libraryID, rec.Path, err.Error())
		return err
	}

	if err := w.search.IndexPrompt(w.libraryID, p); err != nil {
		w.db.MarkFailed(w.ctx, w.libraryID, rec.Path, err.Error())
		return fmt.Errorf("failed to index prompt: %w", err)
	}

	if err := w.db.MarkIndexed(w.ctx, w.libraryID, rec.Path); err != nil {
		return fmt.Errorf("failed to mark as indexed: %w", err)
	}

	return nil
}
