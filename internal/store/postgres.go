package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

const defaultListLimit = 50

type PostgresStore struct {
	db *sql.DB
}

// NewPostgres opens dsn and creates the transcripts table if missing.
func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate transcripts: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transcripts (
			id UUID PRIMARY KEY,
			app TEXT NOT NULL,
			mode TEXT NOT NULL,
			sources TEXT[] NOT NULL DEFAULT '{}',
			system_prompt TEXT NOT NULL,
			user_prompt TEXT NOT NULL,
			response TEXT NOT NULL,
			failed BOOLEAN NOT NULL DEFAULT false,
			cached BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ DEFAULT now()
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

func (s *PostgresStore) SaveTranscript(ctx context.Context, t Transcript) (Transcript, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transcripts(id, app, mode, sources, system_prompt, user_prompt, response, failed, cached, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		t.ID, t.App, t.Mode, pq.Array(nonNil(t.Sources)), t.System, t.User, t.Response, t.Failed, t.Cached, t.CreatedAt)
	if err != nil {
		return Transcript{}, fmt.Errorf("failed to save transcript %s: %w", t.ID, err)
	}
	return t, nil
}

func (s *PostgresStore) ListTranscripts(ctx context.Context, app string, limit int) ([]Transcript, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, app, mode, sources, system_prompt, user_prompt, response, failed, cached, created_at
		FROM transcripts
		WHERE app = $1
		ORDER BY created_at DESC
		LIMIT $2`, app, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Transcript{}
	for rows.Next() {
		var t Transcript
		if err := rows.Scan(&t.ID, &t.App, &t.Mode, pq.Array(&t.Sources), &t.System, &t.User,
			&t.Response, &t.Failed, &t.Cached, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
