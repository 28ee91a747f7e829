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

// deletedRetention is how long tombstoned prompt rows are kept before
// the safety scan purges them.
const deletedRetention = 7 * 24 * time.Hour

// Manager orchestrates the catalog system:
// - Git integration for change detection
// - File watching for real-time updates
// - Scheduled safety scans
// - Background indexing worker
type Manager struct {
	db      *DB
	scanner *Scanner
	worker  *IndexingWorker
	watcher *LibraryWatcher
	search  *SearchIndex

	libraryID string
	root      string
	gitInfo   GitInfo

	config ManagerConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex

	started bool
}

// ManagerConfig configures the manager behavior.
type ManagerConfig struct {
	// Database path
	DBPath string

	// Library identification
	LibraryID string
	Root      string

	// File watching
	EnableWatcher bool

	// Safety scan interval (periodic full scan as backup)
	SafetyScanInterval time.Duration

	// Indexing worker config
	WorkerBatchSize    int
	WorkerTickInterval time.Duration
}

// NewManager creates a new catalog manager.
func NewManager(ctx context.Context, config ManagerConfig) (*Manager, error) {
	if config.DBPath == "" {
		return nil, fmt.Errorf("DBPath is required")
	}
	if config.LibraryID == "" {
		return nil, fmt.Errorf("LibraryID is required")
	}
	if config.Root == "" {
		return nil, fmt.Errorf("Root is required")
	}

	if config.SafetyScanInterval == 0 {
		config.SafetyScanInterval = 10 * time.Minute
	}
	if config.WorkerBatchSize == 0 {
		config.WorkerBatchSize = 20
	}
	if config.WorkerTickInterval == 0 {
		config.WorkerTickInterval = 5 * time.Second
	}

	gitInfo := DetectGit(ctx, config.Root)
	log.Printf("🔍 Library: %s (git: %v)", config.Root, gitInfo.IsGit)

	db, err := NewDB(ctx, config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	if err := db.UpsertLibrary(ctx, config.LibraryID, config.Root, gitInfo.IsGit, gitInfo.GitRoot); err != nil {
		log.Printf("⚠️  Failed to store library info: %v", err)
	}

	scanner, err := NewScanner(ctx, db, config.LibraryID, config.Root)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	search, err := NewSearchIndex(config.DBPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	worker := NewIndexingWorker(db, search, config.LibraryID, config.Root)
	worker.batchSize = config.WorkerBatchSize
	worker.tickInterval = config.WorkerTickInterval

	mgrCtx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		db:        db,
		scanner:   scanner,
		worker:    worker,
		search:    search,
		libraryID: config.LibraryID,
		root:      config.Root,
		gitInfo:   gitInfo,
		config:    config,
		ctx:       mgrCtx,
		cancel:    cancel,
	}

	if config.EnableWatcher {
		walker, err := NewWalker(config.Root)
		if err == nil {
			watcher, err := NewLibraryWatcher(config.Root, walker.IgnoreMatcher())
			if err != nil {
				log.Printf("⚠️  Failed to create library watcher: %v", err)
			} else {
				m.watcher = watcher
				watcher.OnChange(m.handleFileChanges)
				watcher.OnStructureChange(m.handleStructureChange)
			}
		}
	}

	return m, nil
}

// Start begins all background processes: watcher, safety scans, worker.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return fmt.Errorf("manager already started")
	}

	log.Println("🚀 Starting catalog manager")

	// Reset any stuck files from previous crashes
	count, err := m.db.ResetStuckIndexing(m.ctx, m.libraryID, 1*time.Hour)
	if err != nil {
		log.Printf("⚠️  Failed to reset stuck prompts: %v", err)
	} else if count > 0 {
		log.Printf("🔄 Reset %d stuck prompts from previous run", count)
	}

	if m.watcher != nil {
		if err := m.watcher.Start(); err != nil {
			log.Printf("⚠️  Failed to start library watcher: %v", err)
		} else {
			log.Println("👀 Library watcher started")
		}
	}

	m.wg.Add(1)
	go m.safetyScanLoop()

	m.worker.Start()

	m.started = true
	log.Println("✅ Catalog manager started")

	return nil
}

// Stop stops all background processes and closes the indexes.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		// Close resources even if never started
		if m.search != nil {
			m.search.Close()
		}
		m.db.Close()
		return nil
	}

	log.Println("🛑 Stopping catalog manager")

	if m.watcher != nil {
		m.watcher.Stop()
	}

	m.worker.Stop()

	m.cancel()
	m.wg.Wait()

	if m.search != nil {
		m.search.Close()
	}
	m.db.Close()

	m.started = false
	log.Println("✅ Catalog manager stopped")

	return nil
}

// Rebuild performs a full scan and indexes every pending prompt.
func (m *Manager) Rebuild(ctx context.Context) (*ScanResult, error) {
	log.Println("🔨 Rebuilding catalog")

	result, err := m.discoverFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover prompt files: %w", err)
	}

	log.Printf("📊 Discovery complete: %d prompts discovered, %d need indexing",
		result.TotalDiscovered, len(result.FilesNeedingIndex))

	if err := m.worker.RunIndexingBatch(ctx, 0); err != nil {
		return result, fmt.Errorf("failed to index prompts: %w", err)
	}

	log.Println("✅ Catalog rebuild complete")
	return result, nil
}

// Refresh performs a quick freshness check and indexes up to maxFiles
// pending prompts. Called before read commands so output is current.
func (m *Manager) Refresh(ctx context.Context, maxFiles int) error {
	// A fresh database has nothing for git change detection to diff
	// against, so the first refresh always does a full scan.
	if count, err := m.db.CountPrompts(ctx, m.libraryID); err == nil && count == 0 {
		if _, err := m.discoverFiles(ctx); err != nil {
			return fmt.Errorf("failed to discover prompt files: %w", err)
		}
		return m.worker.RunIndexingBatch(ctx, maxFiles)
	}

	changed, err := m.detectChanges(ctx)
	if err != nil {
		log.Printf("⚠️  Change detection failed: %v", err)
	} else if len(changed) > 0 {
		log.Printf("📝 Detected %d changed prompts", len(changed))
	}

	return m.worker.RunIndexingBatch(ctx, maxFiles)
}

// Catalog returns the current in-memory catalog built from the database.
func (m *Manager) Catalog(ctx context.Context) (*Catalog, error) {
	records, err := m.db.GetActivePrompts(ctx, m.libraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog records: %w", err)
	}
	return FromRecords(m.root, records), nil
}

// Search finds the top k prompts matching a full-text query.
func (m *Manager) Search(ctx context.Context, query string, category Category, k int) ([]SearchResult, error) {
	if k <= 0 {
		k = 10
	}
	return m.search.Search(query, m.libraryID, category, k)
}

// GetPrompt returns a prompt record with its body read from disk.
func (m *Manager) GetPrompt(ctx context.Context, slug string) (*Prompt, error) {
	rec, err := m.db.GetPromptBySlug(ctx, m.libraryID, slug)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(m.root, filepath.FromSlash(rec.Path)))
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", rec.Path, err)
	}

	category, _ := ParseCategory(rec.Category)
	p, err := ParsePrompt(rec.Path, category, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt %s: %w", rec.Path, err)
	}
	p.Hash = rec.Hash
	p.SizeBytes = rec.SizeBytes
	p.MtimeUnix = rec.MtimeUnix

	return p, nil
}

// DB returns the database for direct access.
func (m *Manager) DB() *DB {
	return m.db
}

// LibraryID returns the registered library id.
func (m *Manager) LibraryID() string {
	return m.libraryID
}

// discoverFiles discovers all prompt files in the library.
func (m *Manager) discoverFiles(ctx context.Context) (*ScanResult, error) {
	// git ls-files offers no advantage over the walker here: the walker
	// already needs to stat and hash every candidate, and libraries are
	// small. Git is used for fast change detection instead.
	return m.scanner.Scan(ctx)
}

// detectChanges detects prompt changes using git when available.
func (m *Manager) detectChanges(ctx context.Context) ([]string, error) {
	if m.gitInfo.IsGit {
		return m.detectGitChanges(ctx)
	}
	return m.detectWalkChanges(ctx)
}

// detectGitChanges uses git status --porcelain for change detection.
func (m *Manager) detectGitChanges(ctx context.Context) ([]string, error) {
	changes, err := GetGitChanges(ctx, m.gitInfo.GitRoot)
	if err != nil {
		return nil, err
	}

	var changedPaths []string
	for _, change := range changes {
		changedPaths = append(changedPaths, change.Path)

		if change.Status == "D" {
			m.db.MarkDeleted(ctx, m.libraryID, change.Path)
		}
	}

	// A scan picks up adds and modifications with the hash fast path
	if len(changedPaths) > 0 {
		m.scanner.Scan(ctx)
	}

	return changedPaths, nil
}

// detectWalkChanges runs a scan with the fast-path optimization.
func (m *Manager) detectWalkChanges(ctx context.Context) ([]string, error) {
	result, err := m.scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	var changedPaths []string
	for _, file := range result.FilesNeedingIndex {
		changedPaths = append(changedPaths, file.Path)
	}

	return changedPaths, nil
}

// handleFileChanges is called by the library watcher when files change.
func (m *Manager) handleFileChanges(paths []string) {
	for _, path := range paths {
		fullPath := filepath.Join(m.root, filepath.FromSlash(path))
		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			m.db.MarkDeleted(m.ctx, m.libraryID, path)
			m.search.DeletePrompt(m.libraryID, path)
			continue
		}
		// Existing files are picked up by the scan below
	}

	go func() {
		if _, err := m.detectChanges(m.ctx); err != nil {
			log.Printf("⚠️  Change scan failed: %v", err)
		}
	}()
}

// handleStructureChange is called by the watcher after creates, deletes,
// or renames. A full reconcile scan catches what the per-file path
// misses, such as a renamed category subdirectory taking its prompts
// along.
func (m *Manager) handleStructureChange() {
	go func() {
		if _, err := m.scanner.Scan(m.ctx); err != nil {
			log.Printf("⚠️  Structure scan failed: %v", err)
			return
		}
		if err := m.worker.RunIndexingBatch(m.ctx, 0); err != nil {
			log.Printf("⚠️  Indexing after structure change failed: %v", err)
		}
	}()
}

// safetyScanLoop runs periodic full scans as a safety net.
func (m *Manager) safetyScanLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.SafetyScanInterval)
	defer ticker.Stop()

	log.Printf("🔄 Safety scan loop started (interval: %v)", m.config.SafetyScanInterval)

	for {
		select {
		case <-m.ctx.Done():
			return

		case <-ticker.C:
			log.Println("🔍 Running safety scan")
			if _, err := m.detectChanges(m.ctx); err != nil {
				log.Printf("⚠️  Safety scan failed: %v", err)
			}
			if err := m.db.CleanupDeleted(m.ctx, m.libraryID, deletedRetention); err != nil {
				log.Printf("⚠️  Cleanup of deleted prompts failed: %v", err)
			}
		}
	}
}
