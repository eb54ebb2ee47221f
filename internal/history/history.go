// Package history keeps completed focus and relax blocks in a local SQLite
// database so that daily totals survive restarts.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/alexander-akhmetov/pomodoro/internal/timer"
)

// timeFormat sorts lexically in UTC.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Block is one finished focus or relax block.
type Block struct {
	ID          string
	RunID       string
	Phase       timer.Phase
	Round       int
	Duration    time.Duration
	CompletedAt time.Time
}

// Stats aggregates blocks completed within a time range.
type Stats struct {
	FocusBlocks int
	FocusTime   time.Duration
	RelaxBlocks int
	RelaxTime   time.Duration
}

// Store is a history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies
// pending migrations.
func Open(path string) (*Store, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a completed block. Empty ID and zero CompletedAt are filled in.
func (s *Store) Record(ctx context.Context, b Block) (Block, error) {
	if b.Phase != timer.PhaseFocus && b.Phase != timer.PhaseRelax {
		return b, fmt.Errorf("record %s: only focus and relax blocks are kept", b.Phase)
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CompletedAt.IsZero() {
		b.CompletedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blocks (id, run_id, phase, round, duration_seconds, completed_at) VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.RunID, b.Phase.String(), b.Round, int64(b.Duration/time.Second),
		b.CompletedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return b, fmt.Errorf("insert block: %w", err)
	}
	return b, nil
}

// Recorder returns an observer that records completed blocks from a
// controller. Failures are passed to onErr, which may be nil.
func (s *Store) Recorder(ctx context.Context, runID string, onErr func(error)) func(timer.Event) {
	return func(e timer.Event) {
		if e.Kind != timer.EventComplete {
			return
		}
		_, err := s.Record(ctx, Block{
			RunID:    runID,
			Phase:    e.Phase,
			Round:    e.Position + 1,
			Duration: time.Duration(e.Duration) * time.Second,
		})
		if err != nil && onErr != nil {
			onErr(err)
		}
	}
}

// Since aggregates blocks completed at or after t.
func (s *Store) Since(ctx context.Context, t time.Time) (Stats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT phase, COUNT(1), COALESCE(SUM(duration_seconds), 0) FROM blocks WHERE completed_at >= ? GROUP BY phase`,
		t.UTC().Format(timeFormat),
	)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var st Stats
	for rows.Next() {
		var (
			phase   string
			count   int
			seconds int64
		)
		if err := rows.Scan(&phase, &count, &seconds); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		switch phase {
		case timer.PhaseFocus.String():
			st.FocusBlocks = count
			st.FocusTime = time.Duration(seconds) * time.Second
		case timer.PhaseRelax.String():
			st.RelaxBlocks = count
			st.RelaxTime = time.Duration(seconds) * time.Second
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("read stats: %w", err)
	}
	return st, nil
}

// Today aggregates blocks completed since local midnight.
func (s *Store) Today(ctx context.Context) (Stats, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.Since(ctx, midnight)
}

// Recent returns up to limit blocks, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Block, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, phase, round, duration_seconds, completed_at FROM blocks ORDER BY completed_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer rows.Close()

	var blocks []Block
	for rows.Next() {
		var (
			b         Block
			phase     string
			seconds   int64
			completed string
		)
		if err := rows.Scan(&b.ID, &b.RunID, &phase, &b.Round, &seconds, &completed); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		b.Phase = timer.PhaseRelax
		if phase == timer.PhaseFocus.String() {
			b.Phase = timer.PhaseFocus
		}
		b.Duration = time.Duration(seconds) * time.Second
		b.CompletedAt, err = time.Parse(timeFormat, completed)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at %q: %w", completed, err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read blocks: %w", err)
	}
	return blocks, nil
}

func openSQLite(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		name := filepath.Base(file)
		var count int
		if err := db.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE name = ?`, name).Scan(&count); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`,
			name, time.Now().UTC().Format(time.RFC3339Nano),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
	}
	return nil
}
