// Package store persists links and their click counters.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no link exists for a code.
	ErrNotFound = errors.New("link not found")
	// ErrCodeTaken is returned when a create collides with an existing code.
	ErrCodeTaken = errors.New("short code already exists")
)

// Link is one code -> destination mapping with its click stats.
type Link struct {
	ID          int64      `db:"id" json:"-"`
	Code        string     `db:"code" json:"code"`
	OriginalURL string     `db:"original_url" json:"original_url"`
	Clicks      int64      `db:"clicks" json:"clicks"`
	LastClicked *time.Time `db:"last_clicked" json:"last_clicked"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type Store interface {
	// Create inserts a new link with zero clicks. ErrCodeTaken if the code exists.
	Create(ctx context.Context, code, originalURL string) (Link, error)
	// Get returns the full link row, including last_clicked.
	Get(ctx context.Context, code string) (Link, error)
	// List returns all links, most recently created first.
	List(ctx context.Context) ([]Link, error)
	// RecordClick atomically increments the click counter, stamps
	// last_clicked and returns the destination URL in one statement.
	RecordClick(ctx context.Context, code string) (string, error)
	// Delete removes the link permanently, returning the deleted code.
	Delete(ctx context.Context, code string) (string, error)
}
