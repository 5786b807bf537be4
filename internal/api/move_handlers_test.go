package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// moveBook moves a book through the API and returns the decoded result.
func (ts *testServer) moveBook(t *testing.T, token string, body map[string]any) MoveBookResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/books/move", "Authorization: Bearer "+token, body)
	require.Equal(t, http.StatusOK, resp.Code, "Move failed: %s", resp.Body.String())

	var envelope testEnvelope[MoveBookResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	return envelope.Data
}

func TestMoveBook_ToReadingStampsDateStarted(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	shelves := ts.shelvesByName(t, token)

	book := ts.createBook(t, token, map[string]any{
		"title":    "A Memory Called Empire",
		"shelf_id": shelves["To Be Read"].ID,
	})

	result := ts.moveBook(t, token, map[string]any{
		"book_id":     book.ID,
		"to_shelf_id": shelves["Currently Reading"].ID,
		"index":       0,
	})

	assert.Equal(t, shelves["Currently Reading"].ID, result.Position.ShelfID)
	require.NotNil(t, result.Book, "status change should return the updated book")
	assert.Equal(t, "reading", result.Book.Status)
	assert.NotEmpty(t, result.Book.DateStarted)
}

func TestMoveBook_ToCompletedStampsDateCompleted(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	shelves := ts.shelvesByName(t, token)

	book := ts.createBook(t, token, map[string]any{
		"title":    "The Fifth Season",
		"shelf_id": shelves["Currently Reading"].ID,
	})

	result := ts.moveBook(t, token, map[string]any{
		"book_id":     book.ID,
		"to_shelf_id": shelves["Completed"].ID,
		"index":       0,
	})

	require.NotNil(t, result.Book)
	assert.Equal(t, "completed", result.Book.Status)
	assert.NotEmpty(t, result.Book.DateCompleted)
	// DateStarted from the reading shelf survives completion.
	assert.NotEmpty(t, result.Book.DateStarted)
}

func TestMoveBook_SameShelfReorderLeavesBookAlone(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	shelves := ts.shelvesByName(t, token)
	tbr := shelves["To Be Read"].ID

	first := ts.createBook(t, token, map[string]any{"title": "First", "shelf_id": tbr})
	ts.createBook(t, token, map[string]any{"title": "Second", "shelf_id": tbr})

	result := ts.moveBook(t, token, map[string]any{
		"book_id":     first.ID,
		"to_shelf_id": tbr,
		"index":       1,
	})

	assert.Nil(t, result.Book, "reorder within a shelf must not touch the book")
	assert.Equal(t, 1, result.Position.Rank)
}

func TestMoveBook_ToCustomShelfKeepsStatus(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	shelves := ts.shelvesByName(t, token)

	resp := ts.api.Post("/api/v1/shelves", "Authorization: Bearer "+token, map[string]any{
		"name": "Favorites",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var created testEnvelope[ShelfResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &created)
	require.NoError(t, err)

	book := ts.createBook(t, token, map[string]any{
		"title":    "Annihilation",
		"shelf_id": shelves["Currently Reading"].ID,
	})

	result := ts.moveBook(t, token, map[string]any{
		"book_id":     book.ID,
		"to_shelf_id": created.Data.ID,
		"index":       0,
	})

	assert.Nil(t, result.Book, "custom shelves imply no status change")

	resp = ts.api.Get("/api/v1/books/"+book.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var fetched testEnvelope[BookResponse]
	err = json.Unmarshal(resp.Body.Bytes(), &fetched)
	require.NoError(t, err)
	assert.Equal(t, "reading", fetched.Data.Status)
}

func TestMoveBook_UnknownDestination(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	shelves := ts.shelvesByName(t, token)

	book := ts.createBook(t, token, map[string]any{
		"title":    "Lost",
		"shelf_id": shelves["To Be Read"].ID,
	})

	resp := ts.api.Post("/api/v1/books/move", "Authorization: Bearer "+token, map[string]any{
		"book_id":     book.ID,
		"to_shelf_id": "shelf_doesnotexist",
		"index":       0,
	})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMoveBook_ScopedToOwner(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken, _ := ts.registerTestUser(t, "owner@example.com")
	otherToken, _ := ts.registerTestUser(t, "other@example.com")

	ownerShelves := ts.shelvesByName(t, ownerToken)
	otherShelves := ts.shelvesByName(t, otherToken)

	book := ts.createBook(t, ownerToken, map[string]any{
		"title":    "Not Yours",
		"shelf_id": ownerShelves["To Be Read"].ID,
	})

	resp := ts.api.Post("/api/v1/books/move", "Authorization: Bearer "+otherToken, map[string]any{
		"book_id":     book.ID,
		"to_shelf_id": otherShelves["Completed"].ID,
		"index":       0,
	})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
