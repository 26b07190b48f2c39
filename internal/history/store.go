package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const entryColumns = "id, request_id, url, outcome, status_code, detail, is_collection, title, item_count, declared_count, platform, saved_count, created_at"

// Store persists submission history in SQLite.
type Store struct {
	db         *sql.DB
	path       string
	maxEntries int
}

// Open connects to (or creates) the history database at path and applies
// pending migrations. maxEntries bounds the table size; zero keeps everything.
func Open(path string, maxEntries int) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if maxEntries < 0 {
		maxEntries = 0
	}
	store := &Store{db: db, path: path, maxEntries: maxEntries}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Record inserts entry and prunes the oldest rows beyond the configured cap.
// The assigned ID is returned.
func (s *Store) Record(ctx context.Context, entry Entry) (int64, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO submissions (
            request_id, url, outcome, status_code, detail, is_collection,
            title, item_count, declared_count, platform, saved_count, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID,
		entry.URL,
		entry.Outcome,
		entry.StatusCode,
		nullableString(entry.Detail),
		boolToInt(entry.IsCollection),
		nullableString(entry.Title),
		entry.ItemCount,
		entry.DeclaredCount,
		nullableString(entry.Platform),
		entry.SavedCount,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	if s.maxEntries > 0 {
		if _, err := s.Prune(ctx, s.maxEntries); err != nil {
			return id, err
		}
	}
	return id, nil
}

// MarkSaved records how many items of a submission were written to disk.
func (s *Store) MarkSaved(ctx context.Context, requestID string, saved int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE submissions SET saved_count = ? WHERE request_id = ?`, saved, requestID)
	if err != nil {
		return fmt.Errorf("mark saved: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM submissions ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Prune deletes all but the newest keep rows and reports how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM submissions WHERE id NOT IN (
            SELECT id FROM submissions ORDER BY created_at DESC, id DESC LIMIT ?
        )`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune submissions: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

// Clear removes every recorded submission.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM submissions`)
	if err != nil {
		return 0, fmt.Errorf("clear submissions: %w", err)
	}
	return res.RowsAffected()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry        Entry
		detail       sql.NullString
		isCollection int
		title        sql.NullString
		platform     sql.NullString
		createdRaw   string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RequestID,
		&entry.URL,
		&entry.Outcome,
		&entry.StatusCode,
		&detail,
		&isCollection,
		&title,
		&entry.ItemCount,
		&entry.DeclaredCount,
		&platform,
		&entry.SavedCount,
		&createdRaw,
	); err != nil {
		return Entry{}, fmt.Errorf("scan submission: %w", err)
	}
	entry.Detail = detail.String
	entry.IsCollection = isCollection != 0
	entry.Title = title.String
	entry.Platform = platform.String
	if ts, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = ts
	}
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
