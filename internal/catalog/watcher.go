package catalog

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// LibraryWatcher watches a prompt library for edits and triggers
// re-indexing through a debounced callback.
type LibraryWatcher struct {
	root              string
	watcher           *fsnotify.Watcher
	onChange          func([]string) // Callback with changed file paths
	onStructureChange func()         // Callback for create/delete/rename
	debounceTime      time.Duration
	mu                sync.Mutex
	pendingEvents     map[string]bool
	structuralChange  bool
	ignoreMatcher     interface{ MatchesPath(string) bool }
	ctx               context.Context
	cancel            context.CancelFunc
	wg                sync.WaitGroup
}

// NewLibraryWatcher creates a new library watcher.
func NewLibraryWatcher(root string, ignoreMatcher interface{ MatchesPath(string) bool }) (*LibraryWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &LibraryWatcher{
		root:          root,
		watcher:       watcher,
		debounceTime:  500 * time.Millisecond,
		pendingEvents: make(map[string]bool),
		ignoreMatcher: ignoreMatcher,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// OnChange sets the callback for file changes. The callback receives
// changed file paths relative to the library root.
func (lw *LibraryWatcher) OnChange(callback func([]string)) {
	lw.onChange = callback
}

// OnStructureChange sets the callback for structural changes.
func (lw *LibraryWatcher) OnStructureChange(callback func()) {
	lw.onStructureChange = callback
}

// Start begins watching the library.
func (lw *LibraryWatcher) Start() error {
	err := filepath.WalkDir(lw.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Continue walking
		}

		relPath, err := filepath.Rel(lw.root, path)
		if err != nil {
			return nil
		}

		if relPath != "." && lw.ignoreMatcher != nil && lw.ignoreMatcher.MatchesPath(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if err := lw.watcher.Add(path); err != nil {
				log.Printf("⚠️  Failed to watch %s: %v", path, err)
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to walk library: %w", err)
	}

	lw.wg.Add(2)
	go lw.eventLoop()
	go lw.debounceLoop()

	return nil
}

// Stop stops the library watcher.
func (lw *LibraryWatcher) Stop() error {
	lw.cancel()
	lw.wg.Wait()
	return lw.watcher.Close()
}

// eventLoop processes filesystem events.
func (lw *LibraryWatcher) eventLoop() {
	defer lw.wg.Done()

	for {
		select {
		case <-lw.ctx.Done():
			return

		case event, ok := <-lw.watcher.Events:
			if !ok {
				return
			}
			lw.handleEvent(event)

		case err, ok := <-lw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  Watcher error: %v", err)
		}
	}
}

// handleEvent processes a single filesystem event.
func (lw *LibraryWatcher) handleEvent(event fsnotify.Event) {
	relPath, err := filepath.Rel(lw.root, event.Name)
	if err != nil {
		return
	}

	if lw.ignoreMatcher != nil && lw.ignoreMatcher.MatchesPath(relPath) {
		return
	}

	// Only prompt files matter, except deletions where the extension
	// check still applies to the removed name
	if !IsPromptFile(event.Name) && !event.Has(fsnotify.Remove) {
		// New category (or nested) directories need watching
		if event.Has(fsnotify.Create) {
			info, err := os.Stat(event.Name)
			if err == nil && info.IsDir() {
				if err := lw.watcher.Add(event.Name); err != nil {
					log.Printf("⚠️  Failed to watch new directory %s: %v", event.Name, err)
				}
			}
		}
		return
	}

	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		lw.mu.Lock()
		lw.pendingEvents[filepath.ToSlash(relPath)] = true
		if event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			lw.structuralChange = true
		}
		lw.mu.Unlock()
	}
}

// debounceLoop collects pending events and fires callbacks after the
// debounce period.
func (lw *LibraryWatcher) debounceLoop() {
	defer lw.wg.Done()

	ticker := time.NewTicker(lw.debounceTime)
	defer ticker.Stop()

	for {
		select {
		case <-lw.ctx.Done():
			return

		case <-ticker.C:
			lw.processPendingEvents()
		}
	}
}

// processPendingEvents fires callbacks for all pending change events.
func (lw *LibraryWatcher) processPendingEvents() {
	lw.mu.Lock()
	if len(lw.pendingEvents) == 0 {
		lw.mu.Unlock()
		return
	}

	paths := make([]string, 0, len(lw.pendingEvents))
	for path := range lw.pendingEvents {
		paths = append(paths, path)
	}
	hadStructuralChange := lw.structuralChange
	lw.pendingEvents = make(map[string]bool)
	lw.structuralChange = false
	lw.mu.Unlock()

	if lw.onChange != nil {
		log.Printf("📝 Watcher detected %d changed files", len(paths))
		lw.onChange(paths)
	}

	if hadStructuralChange && lw.onStructureChange != nil {
		lw.onStructureChange()
	}
}
