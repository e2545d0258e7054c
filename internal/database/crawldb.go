package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/linkscout/internal/model"
)

// timeFormat is how timestamps are stored. Storing RFC 3339 text keeps the
// rows readable with any sqlite3 client.
const timeFormat = time.RFC3339Nano

// CrawlDB provides SQLite-based storage for crawl runs and their
// external-link observations.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB in the given directory.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "linkscout.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single pooled connection avoids
	// SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per crawl run
	CREATE TABLE IF NOT EXISTS crawl_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed TEXT NOT NULL,
		base_host TEXT NOT NULL,
		state TEXT NOT NULL,
		pages_visited INTEGER NOT NULL,
		urls_discovered INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_seed ON crawl_sessions(seed);
	CREATE INDEX IF NOT EXISTS idx_sessions_host ON crawl_sessions(base_host);

	-- One row per external-link observation, in discovery order
	CREATE TABLE IF NOT EXISTS external_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL REFERENCES crawl_sessions(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		source_url TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_links_session ON external_links(session_id, position);
	CREATE INDEX IF NOT EXISTS idx_links_url ON external_links(url);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SessionRecord summarizes a stored crawl run.
type SessionRecord struct {
	ID             int64
	Seed           string
	BaseHost       string
	State          model.RunState
	PagesVisited   int
	URLsDiscovered int
	StartedAt      time.Time
	FinishedAt     time.Time
	ExternalCount  int
	Error          string
}

// SaveResult stores a finished crawl run and its observations.
// The whole save is one transaction: either the session and every
// observation land together, or nothing does.
func (cdb *CrawlDB) SaveResult(ctx context.Context, result *model.CrawlResult) (int64, error) {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.ExecContext(ctx, `
		INSERT INTO crawl_sessions (seed, base_host, state, pages_visited, urls_discovered, started_at, finished_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Seed,
		result.BaseHost,
		string(result.State),
		result.PagesVisited,
		result.URLsDiscovered,
		result.StartedAt.UTC().Format(timeFormat),
		result.FinishedAt.UTC().Format(timeFormat),
		result.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}

	sessionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read session id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO external_links (session_id, position, url, source_url)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer stmt.Close()

	for i, link := range result.ExternalLinks {
		if _, err := stmt.ExecContext(ctx, sessionID, i, link.URL, link.Source); err != nil {
			return 0, fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	return sessionID, nil
}

// GetResult reconstructs a stored crawl run by session ID.
// Returns nil without error if the session does not exist.
func (cdb *CrawlDB) GetResult(ctx context.Context, sessionID int64) (*model.CrawlResult, error) {
	row := cdb.db.QueryRowContext(ctx, `
		SELECT seed, base_host, state, pages_visited, urls_discovered, started_at, finished_at, error
		FROM crawl_sessions WHERE id = ?`, sessionID)

	var (
		result     model.CrawlResult
		state      string
		startedAt  string
		finishedAt string
	)
	err := row.Scan(
		&result.Seed,
		&result.BaseHost,
		&state,
		&result.PagesVisited,
		&result.URLsDiscovered,
		&startedAt,
		&finishedAt,
		&result.Error,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	result.State = model.RunState(state)
	result.StartedAt = parseTimestamp(startedAt)
	result.FinishedAt = parseTimestamp(finishedAt)

	result.ExternalLinks, err = cdb.ExternalLinks(ctx, sessionID, "")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// LatestSessionID returns the most recent session ID for the given seed,
// or zero if the seed has never been crawled.
func (cdb *CrawlDB) LatestSessionID(ctx context.Context, seed string) (int64, error) {
	var id int64
	err := cdb.db.QueryRowContext(ctx, `
		SELECT id FROM crawl_sessions WHERE seed = ?
		ORDER BY id DESC LIMIT 1`, seed).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query latest session: %w", err)
	}
	return id, nil
}

// ListSessions returns all stored crawl runs, newest first.
func (cdb *CrawlDB) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := cdb.db.QueryContext(ctx, `
		SELECT s.id, s.seed, s.base_host, s.state, s.pages_visited, s.urls_discovered,
		       s.started_at, s.finished_at, s.error,
		       (SELECT COUNT(*) FROM external_links l WHERE l.session_id = s.id)
		FROM crawl_sessions s
		ORDER BY s.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var (
			rec        SessionRecord
			state      string
			startedAt  string
			finishedAt string
		)
		if err := rows.Scan(
			&rec.ID, &rec.Seed, &rec.BaseHost, &state,
			&rec.PagesVisited, &rec.URLsDiscovered,
			&startedAt, &finishedAt, &rec.Error,
			&rec.ExternalCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		rec.State = model.RunState(state)
		rec.StartedAt = parseTimestamp(startedAt)
		rec.FinishedAt = parseTimestamp(finishedAt)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ExternalLinks returns a stored run's observations in discovery order,
// optionally restricted to URLs containing keyword.
//
// The keyword filter uses instr() rather than LIKE because LIKE is
// case-insensitive for ASCII in SQLite, and the filter contract is a
// case-sensitive substring match.
func (cdb *CrawlDB) ExternalLinks(ctx context.Context, sessionID int64, keyword string) ([]model.ExternalLink, error) {
	query := `
		SELECT url, source_url FROM external_links
		WHERE session_id = ?`
	args := []any{sessionID}

	if keyword != "" {
		query += ` AND instr(url, ?) > 0`
		args = append(args, keyword)
	}
	query += ` ORDER BY position`

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	links := make([]model.ExternalLink, 0)
	for rows.Next() {
		var link model.ExternalLink
		if err := rows.Scan(&link.URL, &link.Source); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

// parseTimestamp parses a stored timestamp, returning the zero time when the
// value cannot be parsed rather than failing the whole query.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
