package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each test gets its own named in-memory database; shared cache keeps it
// alive across the pool's connections.
func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlx.Connect("sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return NewSQLite(db)
}

// fixedClock makes the store return t0, t0+1s, t0+2s, ... on successive writes.
func fixedClock(t0 time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		ts := t0.Add(time.Duration(n) * time.Second)
		n++
		return ts
	}
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "abc123", "https://example.com/page")
	require.NoError(t, err)
	assert.Equal(t, "abc123", created.Code)
	assert.Equal(t, "https://example.com/page", created.OriginalURL)
	assert.EqualValues(t, 0, created.Clicks)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, created.Code, got.Code)
	assert.Equal(t, created.OriginalURL, got.OriginalURL)
	assert.EqualValues(t, 0, got.Clicks)
	assert.Nil(t, got.LastClicked, "last_clicked must be null until the first redirect")
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
}

func TestCreateDuplicateCode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "dup", "https://one.example.com")
	require.NoError(t, err)

	_, err = s.Create(ctx, "dup", "https://two.example.com")
	assert.ErrorIs(t, err, ErrCodeTaken)

	// First mapping is untouched
	got, err := s.Get(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "https://one.example.com", got.OriginalURL)
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordClick(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = fixedClock(t0)

	_, err := s.Create(ctx, "clicky", "https://example.com")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		target, err := s.RecordClick(ctx, "clicky")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", target)
	}

	got, err := s.Get(ctx, "clicky")
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Clicks)
	require.NotNil(t, got.LastClicked)
	// Create consumed t0, the three clicks consumed t0+1s..t0+3s.
	assert.True(t, got.LastClicked.Equal(t0.Add(3*time.Second)))
}

func TestRecordClickMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.RecordClick(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteThenGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "gone", "https://example.com")
	require.NoError(t, err)

	deleted, err := s.Delete(ctx, "gone")
	require.NoError(t, err)
	assert.Equal(t, "gone", deleted)

	_, err = s.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.now = fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	for _, code := range []string{"aaa", "bbb", "ccc"} {
		_, err := s.Create(ctx, code, "https://example.com/"+code)
		require.NoError(t, err)
	}

	links, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, links, 3)
	// Most recent first
	assert.Equal(t, "ccc", links[0].Code)
	assert.Equal(t, "bbb", links[1].Code)
	assert.Equal(t, "aaa", links[2].Code)
}

func TestListEmpty(t *testing.T) {
	s := newTestStore(t)

	links, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, links)
}
