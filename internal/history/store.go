// Package history persists validation run outcomes for later inspection.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/phpdoctor/phpdoctor/internal/envcheck"
)

// Run is one recorded validation pass.
type Run struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Status     string    `json:"status"`
	Breaking   int       `json:"breaking"`
	Advisory   int       `json:"advisory"`
	PHPVersion string    `json:"php_version,omitempty"`
}

// Store is a SQLite-backed record of validation runs.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the history database path under the data directory.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "history.db")
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// WAL mode must be set via PRAGMA for modernc.org/sqlite
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status TEXT NOT NULL,
		breaking INTEGER NOT NULL DEFAULT 0,
		advisory INTEGER NOT NULL DEFAULT 0,
		php_version TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	return nil
}

// Record stores the outcome of a validation pass.
func (s *Store) Record(result *envcheck.Result) error {
	status := "passed"
	if result.TriggeredBreaking {
		status = "failed"
	} else if result.Failed {
		status = "passed_with_warnings"
	}

	version := ""
	if result.PHP != nil {
		version = result.PHP.Version
	}

	_, err := s.db.Exec(`
		INSERT INTO runs (timestamp, status, breaking, advisory, php_version)
		VALUES (?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		status,
		len(result.Errors()),
		len(result.Warnings()),
		version,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, timestamp, status, breaking, advisory, php_version
		FROM runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.Status, &r.Breaking, &r.Advisory, &r.PHPVersion); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			r.Timestamp = parsed
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Prune deletes runs older than the retention window, keeping the table
// from growing without bound in watch mode.
func (s *Store) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention).Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM runs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}
