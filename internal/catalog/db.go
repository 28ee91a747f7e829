package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// IndexStatus represents the indexing state of a prompt file.
type IndexStatus string

const (
	StatusPending  IndexStatus = "pending"  // Needs indexing
	StatusIndexing IndexStatus = "indexing" // Currently being indexed
	StatusIndexed  IndexStatus = "indexed"  // Successfully indexed
	StatusFailed   IndexStatus = "failed"   // Indexing failed
)

// PromptRecord represents a prompt file entry in the database.
type PromptRecord struct {
	PromptPK       int64
	LibraryID      string
	Path           string
	Slug           string
	Category       string
	Title          string
	Description    string
	UsageNotes     string
	OutputArtifact string
	Tags           []string
	Hash           string
	SizeBytes      int64
	MtimeUnix      int64
	Deleted        bool
	IndexStatus    IndexStatus
	IndexedAt      int64
	IndexError     string
}

// DB provides database operations for the prompt catalog.
type DB struct {
	db *sql.DB
}

// NewDB creates a new database connection and initializes the schema.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	// WAL mode allows the watcher and worker to read while a scan writes
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	d := &DB{db: db}
	if err := d.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// initSchema creates the database tables if they don't exist.
func (d *DB) initSchema(ctx context.Context) error {
	schema := `
	-- Registered prompt libraries
	CREATE TABLE IF NOT EXISTS libraries (
		library_id TEXT PRIMARY KEY,
		root_path  TEXT NOT NULL,
		is_git     INTEGER NOT NULL,
		git_root   TEXT,
		created_at INTEGER NOT NULL
	);

	-- Prompt file tracking
	CREATE TABLE IF NOT EXISTS prompts (
		prompt_pk       INTEGER PRIMARY KEY AUTOINCREMENT,
		library_id      TEXT NOT NULL,
		path            TEXT NOT NULL,
		slug            TEXT NOT NULL,
		category        TEXT NOT NULL,
		title           TEXT NOT NULL DEFAULT '',
		description     TEXT NOT NULL DEFAULT '',
		usage_notes     TEXT NOT NULL DEFAULT '',
		output_artifact TEXT NOT NULL DEFAULT '',
		tags            TEXT NOT NULL DEFAULT '',
		hash            TEXT NOT NULL,
		size_bytes      INTEGER NOT NULL,
		mtime_unix      INTEGER NOT NULL,
		deleted         INTEGER NOT NULL DEFAULT 0,
		index_status    TEXT NOT NULL DEFAULT 'pending',
		indexed_at      INTEGER,
		index_error     TEXT,
		UNIQUE (library_id, path),
		FOREIGN KEY (library_id) REFERENCES libraries(library_id)
	);

	CREATE INDEX IF NOT EXISTS idx_prompts_library ON prompts(library_id);
	CREATE INDEX IF NOT EXISTS idx_prompts_slug ON prompts(slug);
	CREATE INDEX IF NOT EXISTS idx_prompts_category ON prompts(category);
	CREATE INDEX IF NOT EXISTS idx_prompts_status ON prompts(index_status);
	CREATE INDEX IF NOT EXISTS idx_prompts_deleted ON prompts(deleted);
	`

	_, err := d.db.ExecContext(ctx, schema)
	return err
}

// UpsertFile inserts or updates a prompt file record from walk metadata.
// Returns true if the file is new or the hash changed (needs indexing).
// Sets index_status to 'pending' when indexing is needed.
func (d *DB) UpsertFile(ctx context.Context, libraryID string, f FileInfo) (bool, error) {
	var existingHash string
	var existingStatus string
	checkQuery := `SELECT hash, index_status FROM prompts WHERE library_id = ? AND path = ?`
	err := d.db.QueryRowContext(ctx, checkQuery, libraryID, f.Path).Scan(&existingHash, &existingStatus)

	needsIndexing := false
	newStatus := existingStatus

	if err == sql.ErrNoRows {
		needsIndexing = true
		newStatus = string(StatusPending)
	} else if err != nil {
		return false, fmt.Errorf("failed to check existing prompt: %w", err)
	} else if existingHash != f.Hash {
		needsIndexing = true
		newStatus = string(StatusPending)
	} else if existingStatus == string(StatusFailed) {
		// Previous indexing failed - retry
		needsIndexing = true
		newStatus = string(StatusPending)
	}

	query := `
		INSERT INTO prompts (library_id, path, slug, category, hash, size_bytes, mtime_unix, deleted, index_status, indexed_at, index_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, NULL, NULL)
		ON CONFLICT(library_id, path) DO UPDATE SET
			slug = excluded.slug,
			category = excluded.category,
			hash = excluded.hash,
			size_bytes = excluded.size_bytes,
			mtime_unix = excluded.mtime_unix,
			deleted = 0,
			index_status = ?,
			indexed_at = CASE WHEN ? = 'pending' THEN NULL ELSE indexed_at END,
			index_error = CASE WHEN ? = 'pending' THEN NULL ELSE index_error END
	`

	_, err = d.db.ExecContext(ctx, query, libraryID, f.Path, Slug(f.Path), string(f.Category),
		f.Hash, f.SizeBytes, f.MtimeUnix, newStatus, newStatus, newStatus, newStatus)
	if err != nil {
		return false, fmt.Errorf("failed to upsert prompt: %w", err)
	}

	return needsIndexing, nil
}

// UpdateMetadata stores the metadata parsed from a prompt file.
func (d *DB) UpdateMetadata(ctx context.Context, libraryID string, p *Prompt) error {
	query := `
		UPDATE prompts
		SET title = ?, description = ?, usage_notes = ?, output_artifact = ?, tags = ?
		WHERE library_id = ? AND path = ?
	`
	_, err := d.db.ExecContext(ctx, query, p.Title, p.Description, p.UsageNotes,
		p.OutputArtifact, strings.Join(p.Tags, ","), libraryID, p.Path)
	if err != nil {
		return fmt.Errorf("failed to update prompt metadata: %w", err)
	}
	return nil
}

// MarkDeleted marks a prompt file as deleted.
func (d *DB) MarkDeleted(ctx context.Context, libraryID, path string) error {
	query := `UPDATE prompts SET deleted = 1 WHERE library_id = ? AND path = ?`
	_, err := d.db.ExecContext(ctx, query, libraryID, path)
	return err
}

const promptColumns = `prompt_pk, library_id, path, slug, category, title, description,
	usage_notes, output_artifact, tags, hash, size_bytes, mtime_unix, deleted,
	index_status, indexed_at, index_error`

// scanPrompt scans one row into a PromptRecord.
func scanPrompt(rows interface{ Scan(...any) error }) (PromptRecord, error) {
	var p PromptRecord
	var tags string
	var deleted int
	var indexedAt sql.NullInt64
	var indexError sql.NullString
	err := rows.Scan(&p.PromptPK, &p.LibraryID, &p.Path, &p.Slug, &p.Category, &p.Title,
		&p.Description, &p.UsageNotes, &p.OutputArtifact, &tags, &p.Hash, &p.SizeBytes,
		&p.MtimeUnix, &deleted, &p.IndexStatus, &indexedAt, &indexError)
	if err != nil {
		return p, err
	}
	if tags != "" {
		p.Tags = strings.Split(tags, ",")
	}
	p.Deleted = deleted == 1
	if indexedAt.Valid {
		p.IndexedAt = indexedAt.Int64
	}
	if indexError.Valid {
		p.IndexError = indexError.String
	}
	return p, nil
}

// queryPrompts runs a prompt query and scans all rows.
func (d *DB) queryPrompts(ctx context.Context, query string, args ...any) ([]PromptRecord, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query prompts: %w", err)
	}
	defer rows.Close()

	var prompts []PromptRecord
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prompts: %w", err)
	}

	return prompts, nil
}

// GetAllPrompts returns all prompt records (including deleted) for a library.
func (d *DB) GetAllPrompts(ctx context.Context, libraryID string) ([]PromptRecord, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts WHERE library_id = ? ORDER BY path`
	return d.queryPrompts(ctx, query, libraryID)
}

// GetActivePrompts returns all non-deleted prompt records for a library.
func (d *DB) GetActivePrompts(ctx context.Context, libraryID string) ([]PromptRecord, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts WHERE library_id = ? AND deleted = 0 ORDER BY category, slug`
	return d.queryPrompts(ctx, query, libraryID)
}

// CountPrompts returns the number of non-deleted prompts for a library.
func (d *DB) CountPrompts(ctx context.Context, libraryID string) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prompts WHERE library_id = ? AND deleted = 0`, libraryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count prompts: %w", err)
	}
	return count, nil
}

// GetPromptsNeedingIndex returns all prompts with status='pending'.
func (d *DB) GetPromptsNeedingIndex(ctx context.Context, libraryID string) ([]PromptRecord, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts WHERE library_id = ? AND deleted = 0 AND index_status = ? ORDER BY path`
	return d.queryPrompts(ctx, query, libraryID, string(StatusPending))
}

// GetPromptBySlug returns a single non-deleted prompt by its slug.
func (d *DB) GetPromptBySlug(ctx context.Context, libraryID, slug string) (*PromptRecord, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts WHERE library_id = ? AND slug = ? AND deleted = 0`
	p, err := scanPrompt(d.db.QueryRowContext(ctx, query, libraryID, slug))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("prompt not found: %s", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prompt: %w", err)
	}
	return &p, nil
}

// MarkIndexing marks a prompt as currently being indexed.
func (d *DB) MarkIndexing(ctx context.Context, libraryID, path string) error {
	query := `UPDATE prompts SET index_status = ? WHERE library_id = ? AND path = ?`
	_, err := d.db.ExecContext(ctx, query, string(StatusIndexing), libraryID, path)
	if err != nil {
		return fmt.Errorf("failed to mark prompt as indexing: %w", err)
	}
	return nil
}

// MarkIndexed marks a prompt as successfully indexed.
func (d *DB) MarkIndexed(ctx context.Context, libraryID, path string) error {
	now := time.Now().Unix()
	query := `UPDATE prompts SET index_status = ?, indexed_at = ?, index_error = NULL WHERE library_id = ? AND path = ?`
	_, err := d.db.ExecContext(ctx, query, string(StatusIndexed), now, libraryID, path)
	if err != nil {
		return fmt.Errorf("failed to mark prompt as indexed: %w", err)
	}
	return nil
}

// MarkFailed marks a prompt as failed to index with an error message.
func (d *DB) MarkFailed(ctx context.Context, libraryID, path, errorMsg string) error {
	query := `UPDATE prompts SET index_status = ?, index_error = ? WHERE library_id = ? AND path = ?`
	_, err := d.db.ExecContext(ctx, query, string(StatusFailed), errorMsg, libraryID, path)
	if err != nil {
		return fmt.Errorf("failed to mark prompt as failed: %w", err)
	}
	return nil
}

// ResetStuckIndexing resets prompts stuck in 'indexing' state back to
// 'pending'. Recovers from crashes mid-index.
func (d *DB) ResetStuckIndexing(ctx context.Context, libraryID string, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan).Unix()
	query := `UPDATE prompts SET index_status = ? WHERE library_id = ? AND index_status = ? AND mtime_unix < ?`
	result, err := d.db.ExecContext(ctx, query, string(StatusPending), libraryID, string(StatusIndexing), cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to reset stuck indexing: %w", err)
	}
	affected, _ := result.RowsAffected()
	return int(affected), nil
}

// CleanupDeleted removes deleted prompt rows older than the specified duration.
func (d *DB) CleanupDeleted(ctx context.Context, libraryID string, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).Unix()
	query := `DELETE FROM prompts WHERE library_id = ? AND deleted = 1 AND mtime_unix < ?`
	_, err := d.db.ExecContext(ctx, query, libraryID, cutoff)
	return err
}

// LibraryRecord represents a registered prompt library.
type LibraryRecord struct {
	LibraryID string
	RootPath  string
	IsGit     bool
	GitRoot   string
	CreatedAt int64
}

// UpsertLibrary inserts or updates a library record.
func (d *DB) UpsertLibrary(ctx context.Context, libraryID, rootPath string, isGit bool, gitRoot string) error {
	now := time.Now().Unix()
	query := `
		INSERT INTO libraries (library_id, root_path, is_git, git_root, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(library_id) DO UPDATE SET
			root_path = excluded.root_path,
			is_git = excluded.is_git,
			git_root = excluded.git_root
	`
	isGitInt := 0
	if isGit {
		isGitInt = 1
	}
	_, err := d.db.ExecContext(ctx, query, libraryID, rootPath, isGitInt, gitRoot, now)
	return err
}

// GetLibrary retrieves a library record.
func (d *DB) GetLibrary(ctx context.Context, libraryID string) (*LibraryRecord, error) {
	query := `SELECT library_id, root_path, is_git, git_root, created_at FROM libraries WHERE library_id = ?`
	var r LibraryRecord
	var isGitInt int
	var gitRoot sql.NullString
	err := d.db.QueryRowContext(ctx, query, libraryID).Scan(&r.LibraryID, &r.RootPath, &isGitInt, &gitRoot, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.IsGit = isGitInt == 1
	if gitRoot.Valid {
		r.GitRoot = gitRoot.String
	}
	return &r, nil
}
