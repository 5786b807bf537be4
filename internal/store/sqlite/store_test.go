package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/corkboardapp/corkboard-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestUser(t *testing.T, s *Store, id string) {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		Email:       id + "@example.com",
		DisplayName: id,
		LastLoginAt: now,
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("insert test user %s: %v", id, err)
	}
}

func insertTestBook(t *testing.T, s *Store, userID, id, title string) {
	t.Helper()
	now := time.Now()
	book := &domain.Book{
		UserID:    userID,
		Title:     title,
		Author:    "Test Author",
		Status:    domain.StatusTBR,
		DateAdded: domain.Today(),
	}
	book.ID = id
	book.CreatedAt = now
	book.UpdatedAt = now
	if err := s.CreateBook(context.Background(), book); err != nil {
		t.Fatalf("insert test book %s: %v", id, err)
	}
}

func insertTestShelf(t *testing.T, s *Store, userID, id, name string) *domain.Shelf {
	t.Helper()
	now := time.Now()
	shelf := &domain.Shelf{
		OwnerID: userID,
		Name:    name,
	}
	shelf.ID = id
	shelf.CreatedAt = now
	shelf.UpdatedAt = now
	if err := s.CreateShelf(context.Background(), shelf); err != nil {
		t.Fatalf("insert test shelf %s: %v", id, err)
	}
	return shelf
}

func insertTestPosition(t *testing.T, s *Store, userID, id, bookID, shelfID string) *domain.BookPosition {
	t.Helper()
	now := time.Now()
	pos := &domain.BookPosition{
		UserID:  userID,
		BookID:  bookID,
		ShelfID: shelfID,
	}
	pos.ID = id
	pos.CreatedAt = now
	pos.UpdatedAt = now
	if err := s.CreatePosition(context.Background(), pos); err != nil {
		t.Fatalf("insert test position %s: %v", id, err)
	}
	return pos
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	tables := []string{"users", "sessions", "books", "shelves", "book_positions"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	if err := s2.Close(); err != nil {
		t.Fatalf("close re-opened store: %v", err)
	}
}
