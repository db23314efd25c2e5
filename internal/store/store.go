// Package store persists named reforms in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"policyexplorer/internal/logging"
	"policyexplorer/internal/reform"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no reform has the requested id.
var ErrNotFound = errors.New("reform not found")

// Reform is a saved submission.
type Reform struct {
	ID         string
	Name       string
	Country    string
	Submission *reform.Submission
	// EditsBaseline is set when any edit targets the baseline policy.
	EditsBaseline bool
	CreatedAt     time.Time
}

// Store is the saved-reform database.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "store.Open")
	defer timer.Stop()

	logging.Store("Opening reform store at %s", path)

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.StoreError("Failed to create directory %s: %v", dir, err)
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logging.StoreError("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			logging.StoreDebug("%s failed: %v", pragma, err)
		}
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		logging.StoreError("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	const schema = `
CREATE TABLE IF NOT EXISTS reforms (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	country    TEXT NOT NULL,
	submission TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reforms_country ON reforms(country, created_at);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return runMigrations(s.db)
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Save stores a copy of sub under name and returns its id.
func (s *Store) Save(ctx context.Context, name, country string, sub *reform.Submission) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("reform name is required")
	}
	if sub == nil {
		sub = reform.NewSubmission()
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("encode submission: %w", err)
	}

	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reforms (id, name, country, submission, edits_baseline, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, country, string(body), sub.EditsBaseline(), time.Now().UTC().UnixNano())
	if err != nil {
		logging.StoreError("Failed to save reform %q: %v", name, err)
		return "", fmt.Errorf("failed to save reform: %w", err)
	}
	logging.Store("Saved reform %s (%s, %d edits)", id, name, sub.Len())
	return id, nil
}

// List returns the reforms saved for country, newest first. An empty
// country lists every reform.
func (s *Store) List(ctx context.Context, country string) ([]Reform, error) {
	query := `SELECT id, name, country, submission, edits_baseline, created_at FROM reforms`
	var args []any
	if country != "" {
		query += ` WHERE country = ?`
		args = append(args, country)
	}
	query += ` ORDER BY created_at DESC, id`

	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reforms: %w", err)
	}
	defer rows.Close()

	var out []Reform
	for rows.Next() {
		r, err := scanReform(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reforms: %w", err)
	}
	logging.StoreDebug("Listed %d reforms for %q", len(out), country)
	return out, nil
}

// Get returns the reform with id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Reform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, country, submission, edits_baseline, created_at FROM reforms WHERE id = ?`, id)
	r, err := scanReform(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Reform{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// Delete removes the reform with id, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `DELETE FROM reforms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reform: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete reform: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	logging.Store("Deleted reform %s", id)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReform(sc scanner) (Reform, error) {
	var (
		r       Reform
		body    string
		created int64
	)
	if err := sc.Scan(&r.ID, &r.Name, &r.Country, &body, &r.EditsBaseline, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reform{}, err
		}
		return Reform{}, fmt.Errorf("failed to read reform: %w", err)
	}
	r.Submission = reform.NewSubmission()
	if err := json.Unmarshal([]byte(body), r.Submission); err != nil {
		return Reform{}, fmt.Errorf("reform %s: decode submission: %w", r.ID, err)
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	return r, nil
}
