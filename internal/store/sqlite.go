package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore keeps transcripts in a local database file, for single-machine
// setups without Postgres.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens or creates the database file at path and migrates it.
func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLiteStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate transcripts: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transcripts (
			id TEXT PRIMARY KEY,
			app TEXT NOT NULL,
			mode TEXT NOT NULL,
			sources TEXT NOT NULL DEFAULT '[]',
			system_prompt TEXT NOT NULL,
			user_prompt TEXT NOT NULL,
			response TEXT NOT NULL,
			failed INTEGER NOT NULL DEFAULT 0,
			cached INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS transcripts_app_created_idx ON transcripts (app, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveTranscript(ctx context.Context, t Transcript) (Transcript, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	sources, err := json.Marshal(nonNil(t.Sources))
	if err != nil {
		return Transcript{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transcripts(id, app, mode, sources, system_prompt, user_prompt, response, failed, cached, created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)`,
		t.ID.String(), t.App, t.Mode, string(sources), t.System, t.User, t.Response, t.Failed, t.Cached, t.CreatedAt.UnixNano())
	if err != nil {
		return Transcript{}, fmt.Errorf("failed to save transcript %s: %w", t.ID, err)
	}
	return t, nil
}

func (s *SQLiteStore) ListTranscripts(ctx context.Context, app string, limit int) ([]Transcript, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, app, mode, sources, system_prompt, user_prompt, response, failed, cached, created_at
		FROM transcripts
		WHERE app = ?
		ORDER BY created_at DESC
		LIMIT ?`, app, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Transcript{}
	for rows.Next() {
		var (
			t         Transcript
			id        string
			sources   string
			createdAt int64
		)
		if err := rows.Scan(&id, &t.App, &t.Mode, &sources, &t.System, &t.User,
			&t.Response, &t.Failed, &t.Cached, &createdAt); err != nil {
			return nil, err
		}
		if t.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("transcript id %q: %w", id, err)
		}
		if err := json.Unmarshal([]byte(sources), &t.Sources); err != nil {
			return nil, fmt.Errorf("transcript %s sources: %w", id, err)
		}
		t.CreatedAt = time.Unix(0, createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
