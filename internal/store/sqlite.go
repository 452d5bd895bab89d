package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite implements Store on a sqlx pool.
//
// Every write is a single statement so concurrent requests cannot observe a
// window between a lookup and its matching update.
type SQLite struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSQLite(db *sqlx.DB) *SQLite {
	return &SQLite{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Migrate brings the schema up to date from the embedded migration files.
func Migrate(db *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *SQLite) Create(ctx context.Context, code, originalURL string) (Link, error) {
	createdAt := s.now()
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO links (code, original_url, clicks, created_at)
		 VALUES (?, ?, 0, ?)
		 ON CONFLICT(code) DO NOTHING
		 RETURNING id`,
		code, originalURL, createdAt).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Link{}, ErrCodeTaken
	}
	if err != nil {
		return Link{}, fmt.Errorf("insert link: %w", err)
	}
	return Link{
		ID:          id,
		Code:        code,
		OriginalURL: originalURL,
		CreatedAt:   createdAt,
	}, nil
}

func (s *SQLite) Get(ctx context.Context, code string) (Link, error) {
	var l Link
	err := s.db.GetContext(ctx, &l,
		`SELECT id, code, original_url, clicks, last_clicked, created_at
		 FROM links WHERE code = ?`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return Link{}, ErrNotFound
	}
	if err != nil {
		return Link{}, fmt.Errorf("select link: %w", err)
	}
	return l, nil
}

func (s *SQLite) List(ctx context.Context) ([]Link, error) {
	links := []Link{}
	err := s.db.SelectContext(ctx, &links,
		`SELECT id, code, original_url, clicks, last_clicked, created_at
		 FROM links ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

func (s *SQLite) RecordClick(ctx context.Context, code string) (string, error) {
	var target string
	err := s.db.QueryRowContext(ctx,
		`UPDATE links SET clicks = clicks + 1, last_clicked = ?
		 WHERE code = ?
		 RETURNING original_url`,
		s.now(), code).Scan(&target)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("record click: %w", err)
	}
	return target, nil
}

func (s *SQLite) Delete(ctx context.Context, code string) (string, error) {
	var deleted string
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM links WHERE code = ? RETURNING code`, code).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete link: %w", err)
	}
	return deleted, nil
}
