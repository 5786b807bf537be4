package client

import (
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkboardapp/corkboard-server/internal/domain"
)

func respondData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.MarshalWrite(w, map[string]any{"v": 1, "success": true, "data": data})
}

func respondFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.MarshalWrite(w, map[string]any{"v": 1, "success": false, "error": message})
}

func fixtureShelves() []domain.Shelf {
	return []domain.Shelf{
		{Record: domain.Record{ID: "shelf_tbr"}, Name: "To Be Read", Rank: 0, IsDefault: true},
		{Record: domain.Record{ID: "shelf_reading"}, Name: "Currently Reading", Rank: 1, IsDefault: true},
		{Record: domain.Record{ID: "shelf_done"}, Name: "Completed", Rank: 2, IsDefault: true},
	}
}

func fixtureBooks() []domain.Book {
	return []domain.Book{
		{Record: domain.Record{ID: "book_dune"}, Title: "Dune", Author: "Frank Herbert", Status: domain.StatusTBR, DateAdded: "2026-01-10"},
		{Record: domain.Record{ID: "book_hyperion"}, Title: "Hyperion", Author: "Dan Simmons", Status: domain.StatusTBR, DateAdded: "2026-01-11"},
	}
}

func fixturePositions() []domain.BookPosition {
	return []domain.BookPosition{
		{Record: domain.Record{ID: "pos_dune"}, BookID: "book_dune", ShelfID: "shelf_tbr", Rank: 0},
		{Record: domain.Record{ID: "pos_hyperion"}, BookID: "book_hyperion", ShelfID: "shelf_tbr", Rank: 1},
	}
}

// registerHydration wires the board and book listing endpoints with the
// standard fixtures so Load succeeds.
func registerHydration(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/board", func(w http.ResponseWriter, r *http.Request) {
		shelves := fixtureShelves()
		positions := fixturePositions()
		board := domain.Board{}
		for _, shelf := range shelves {
			bs := domain.BoardShelf{Shelf: shelf}
			for _, pos := range positions {
				if pos.ShelfID == shelf.ID {
					bs.Positions = append(bs.Positions, pos)
				}
			}
			board.Shelves = append(board.Shelves, bs)
		}
		respondData(w, board)
	})
	mux.HandleFunc("GET /api/v1/books", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, map[string]any{"books": fixtureBooks()})
	})
}

func newTestBoard(t *testing.T, mux *http.ServeMux) *Board {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := New(srv.URL, logger, WithToken("test-token"))
	board := NewBoard(api, logger)
	require.NoError(t, board.Load(context.Background()))
	return board
}

func TestBoardLoad(t *testing.T) {
	mux := http.NewServeMux()
	registerHydration(mux)
	board := newTestBoard(t, mux)

	shelves := board.Shelves()
	require.Len(t, shelves, 3)
	assert.Equal(t, "To Be Read", shelves[0].Name)
	assert.Equal(t, "Currently Reading", shelves[1].Name)

	onTBR := board.BooksOnShelf("shelf_tbr")
	require.Len(t, onTBR, 2)
	assert.Equal(t, "Dune", onTBR[0].Title)
	assert.Equal(t, "Hyperion", onTBR[1].Title)
	assert.Empty(t, board.BooksOnShelf("shelf_reading"))

	stats := board.Stats()
	assert.Equal(t, 2, stats.TotalBooks)
	assert.Equal(t, 3, stats.TotalShelves)
	assert.Equal(t, 2, stats.ByStatus[domain.StatusTBR])
}

func TestMoveBook_ReconcilesServerResponse(t *testing.T) {
	mux := http.NewServeMux()
	registerHydration(mux)
	mux.HandleFunc("POST /api/v1/books/move", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			BookID    string `json:"book_id"`
			ToShelfID string `json:"to_shelf_id"`
		}
		require.NoError(t, json.UnmarshalRead(r.Body, &req))
		assert.Equal(t, "book_dune", req.BookID)
		assert.Equal(t, "shelf_reading", req.ToShelfID)

		book := fixtureBooks()[0]
		book.Status = domain.StatusReading
		book.DateStarted = "2026-02-01"
		respondData(w, map[string]any{
			"position": domain.BookPosition{Record: domain.Record{ID: "pos_dune"}, BookID: "book_dune", ShelfID: "shelf_reading", Rank: 0},
			"book":     book,
		})
	})
	board := newTestBoard(t, mux)

	require.NoError(t, board.MoveBook(context.Background(), "book_dune", "shelf_reading", 0))

	onReading := board.BooksOnShelf("shelf_reading")
	require.Len(t, onReading, 1)
	assert.Equal(t, "Dune", onReading[0].Title)
	assert.Equal(t, domain.StatusReading, onReading[0].Status)
	assert.Equal(t, "2026-02-01", onReading[0].DateStarted)

	// The source shelf closes the gap.
	onTBR := board.BooksOnShelf("shelf_tbr")
	require.Len(t, onTBR, 1)
	assert.Equal(t, "Hyperion", onTBR[0].Title)
}

func TestMoveBook_RestoresStateOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	registerHydration(mux)
	mux.HandleFunc("POST /api/v1/books/move", func(w http.ResponseWriter, r *http.Request) {
		respondFailure(w, http.StatusConflict, "shelf was deleted")
	})
	board := newTestBoard(t, mux)

	board.mu.Lock()
	before := board.snapshotLocked()
	board.mu.Unlock()

	err := board.MoveBook(context.Background(), "book_dune", "shelf_reading", 0)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	board.mu.Lock()
	defer board.mu.Unlock()
	assert.Equal(t, before.books, board.books)
	assert.Equal(t, before.shelves, board.shelves)
	assert.Equal(t, before.positions, board.positions)
}

func TestMoveBook_UnknownBook(t *testing.T) {
	mux := http.NewServeMux()
	registerHydration(mux)
	board := newTestBoard(t, mux)

	err := board.MoveBook(context.Background(), "book_missing", "shelf_reading", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in local mirror")
}

func TestAddBook_ReplacesTemporaryEntities(t *testing.T) {
	mux := http.NewServeMux()
	registerHydration(mux)
	mux.HandleFunc("POST /api/v1/books", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.UnmarshalRead(r.Body, &req))
		assert.Equal(t, "Solaris", req["title"])
		assert.Equal(t, "shelf_reading", req["shelf_id"])

		respondData(w, domain.Book{
			Record:      domain.Record{ID: "book_solaris"},
			Title:       "Solaris",
			Author:      "Stanislaw Lem",
			Status:      domain.StatusReading,
			DateAdded:   "2026-02-01",
			DateStarted: "2026-02-01",
		})
	})
	board := newTestBoard(t, mux)

	book, err := board.AddBook(context.Background(), AddBookParams{
		Title:   "Solaris",
		Author:  "Stanislaw Lem",
		ShelfID: "shelf_reading",
	})
	require.NoError(t, err)
	assert.Equal(t, "book_solaris", book.ID)

	board.mu.Lock()
	defer board.mu.Unlock()
	for _, b := range board.books {
		assert.False(t, strings.HasPrefix(b.ID, "temp_"), "book %q kept a temporary ID", b.Title)
	}
	for _, pos := range board.positions {
		assert.False(t, strings.HasPrefix(pos.BookID, "temp_"), "position still references a temporary book ID")
	}

	var onReading []string
	for _, pos := range board.positions {
		if pos.ShelfID == "shelf_reading" {
			onReading = append(onReading, pos.BookID)
		}
	}
	assert.Equal(t, []string{"book_solaris"}, onReading)
}

func TestAddBook_RestoresStateOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	registerHydration(mux)
	mux.HandleFunc("POST /api/v1/books", func(w http.ResponseWriter, r *http.Request) {
		respondFailure(w, http.StatusBadRequest, "title is required")
	})
	board := newTestBoard(t, mux)

	board.mu.Lock()
	before := board.snapshotLocked()
	board.mu.Unlock()

	_, err := board.AddBook(context.Background(), AddBookParams{Title: "Solaris", ShelfID: "shelf_tbr"})
	require.Error(t, err)

	board.mu.Lock()
	defer board.mu.Unlock()
	assert.Equal(t, before.books, board.books)
	assert.Equal(t, before.positions, board.positions)
}

func TestUpdateBook_ReconcilesServerResponse(t *testing.T) {
	mux := http.NewServeMux()
	registerHydration(mux)
	mux.HandleFunc("PATCH /api/v1/books/book_dune", func(w http.ResponseWriter, r *http.Request) {
		book := fixtureBooks()[0]
		book.Rating = 5
		book.PersonalNotes = "The spice must flow."
		respondData(w, book)
	})
	board := newTestBoard(t, mux)

	rating := 5
	notes := "The spice must flow."
	require.NoError(t, board.UpdateBook(context.Background(), "book_dune", UpdateBookParams{
		Rating:        &rating,
		PersonalNotes: &notes,
	}))

	books := board.Books()
	require.Len(t, books, 2)
	assert.Equal(t, 5, books[0].Rating)
	assert.Equal(t, "The spice must flow.", books[0].PersonalNotes)
}

func TestDeleteBook_RemovesPositionAndRenumbers(t *testing.T) {
	mux := http.NewServeMux()
	registerHydration(mux)
	mux.HandleFunc("DELETE /api/v1/books/book_dune", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, map[string]any{"message": "deleted"})
	})
	board := newTestBoard(t, mux)

	require.NoError(t, board.DeleteBook(context.Background(), "book_dune"))

	onTBR := board.BooksOnShelf("shelf_tbr")
	require.Len(t, onTBR, 1)
	assert.Equal(t, "Hyperion", onTBR[0].Title)

	board.mu.Lock()
	defer board.mu.Unlock()
	require.Len(t, board.positions, 1)
	assert.Equal(t, 0, board.positions[0].Rank)
}

func TestCreateShelf_ReplacesTemporaryShelf(t *testing.T) {
	mux := http.NewServeMux()
	registerHydration(mux)
	mux.HandleFunc("POST /api/v1/shelves", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, domain.Shelf{Record: domain.Record{ID: "shelf_favorites"}, Name: "Favorites", Rank: 3})
	})
	board := newTestBoard(t, mux)

	shelf, err := board.CreateShelf(context.Background(), "Favorites", "", "#ff9900")
	require.NoError(t, err)
	assert.Equal(t, "shelf_favorites", shelf.ID)

	shelves := board.Shelves()
	require.Len(t, shelves, 4)
	assert.Equal(t, "Favorites", shelves[3].Name)
	for _, s := range shelves {
		assert.False(t, strings.HasPrefix(s.ID, "temp_"))
	}
}

func TestDeleteShelf_DropsItsPositions(t *testing.T) {
	mux := http.NewServeMux()
	registerHydration(mux)
	mux.HandleFunc("DELETE /api/v1/shelves/shelf_tbr", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, map[string]any{"message": "deleted"})
	})
	board := newTestBoard(t, mux)

	require.NoError(t, board.DeleteShelf(context.Background(), "shelf_tbr"))

	assert.Len(t, board.Shelves(), 2)
	board.mu.Lock()
	defer board.mu.Unlock()
	assert.Empty(t, board.positions)
}

func TestReorderShelves_UsesServerOrder(t *testing.T) {
	reversed := []domain.Shelf{
		{Record: domain.Record{ID: "shelf_done"}, Name: "Completed", Rank: 0, IsDefault: true},
		{Record: domain.Record{ID: "shelf_reading"}, Name: "Currently Reading", Rank: 1, IsDefault: true},
		{Record: domain.Record{ID: "shelf_tbr"}, Name: "To Be Read", Rank: 2, IsDefault: true},
	}

	mux := http.NewServeMux()
	registerHydration(mux)
	mux.HandleFunc("PUT /api/v1/shelves/reorder", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, map[string]any{"shelves": reversed})
	})
	board := newTestBoard(t, mux)

	require.NoError(t, board.ReorderShelves(context.Background(), []string{"shelf_done", "shelf_reading", "shelf_tbr"}))

	shelves := board.Shelves()
	require.Len(t, shelves, 3)
	assert.Equal(t, "Completed", shelves[0].Name)
	assert.Equal(t, "To Be Read", shelves[2].Name)
}

func TestReorderShelves_RestoresOrderOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	registerHydration(mux)
	mux.HandleFunc("PUT /api/v1/shelves/reorder", func(w http.ResponseWriter, r *http.Request) {
		respondFailure(w, http.StatusBadRequest, "unknown shelf in list")
	})
	board := newTestBoard(t, mux)

	err := board.ReorderShelves(context.Background(), []string{"shelf_done", "shelf_reading", "shelf_tbr"})
	require.Error(t, err)

	shelves := board.Shelves()
	require.Len(t, shelves, 3)
	assert.Equal(t, "To Be Read", shelves[0].Name)
	assert.Equal(t, "Completed", shelves[2].Name)
}
