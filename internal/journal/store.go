package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"rollclean/internal/config"
)

// Store records rolls that finished processing so interrupted runs can be
// resumed without touching already-renamed files.
type Store struct {
	db   *sql.DB
	path string
}

// Record describes one completed roll.
type Record struct {
	ID          int64
	Path        string
	OrderID     string
	RollNumber  string
	Mode        string
	Destination string
	ImageCount  int
	RunID       string
	CompletedAt time.Time
}

// Open initializes or connects to the journal database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.JournalPath
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// MarkCompleted records a roll as fully processed. Reprocessing the same
// path replaces the earlier entry.
func (s *Store) MarkCompleted(ctx context.Context, rec Record) error {
	if rec.Path == "" {
		return errors.New("record path is empty")
	}
	completedAt := rec.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO completed_rolls (
            path, order_id, roll_number, mode, destination, image_count, run_id, completed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            order_id = excluded.order_id, roll_number = excluded.roll_number,
            mode = excluded.mode, destination = excluded.destination,
            image_count = excluded.image_count, run_id = excluded.run_id,
            completed_at = excluded.completed_at`,
		rec.Path,
		rec.OrderID,
		rec.RollNumber,
		rec.Mode,
		nullableString(rec.Destination),
		rec.ImageCount,
		rec.RunID,
		completedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

// Completed reports whether a roll directory was already processed.
func (s *Store) Completed(ctx context.Context, path string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM completed_rolls WHERE path = ?`,
		path,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check completed: %w", err)
	}
	return count > 0, nil
}

// List returns all journal records ordered by completion time.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, path, order_id, roll_number, mode, destination, image_count, run_id, completed_at
         FROM completed_rolls ORDER BY completed_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear removes all journal entries.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM completed_rolls`)
	if err != nil {
		return 0, fmt.Errorf("clear journal: %w", err)
	}
	return res.RowsAffected()
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (Record, error) {
	var (
		rec          Record
		destination  sql.NullString
		completedRaw string
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.Path,
		&rec.OrderID,
		&rec.RollNumber,
		&rec.Mode,
		&destination,
		&rec.ImageCount,
		&rec.RunID,
		&completedRaw,
	); err != nil {
		return Record{}, fmt.Errorf("scan record: %w", err)
	}
	rec.Destination = destination.String
	if completed, err := time.Parse(time.RFC3339Nano, completedRaw); err == nil {
		rec.CompletedAt = completed
	}
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
