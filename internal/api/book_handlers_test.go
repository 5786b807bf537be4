package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shelvesByName fetches the user's shelves keyed by name.
func (ts *testServer) shelvesByName(t *testing.T, token string) map[string]ShelfResponse {
	t.Helper()

	resp := ts.api.Get("/api/v1/shelves", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListShelvesResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	byName := make(map[string]ShelfResponse, len(envelope.Data.Shelves))
	for _, shelf := range envelope.Data.Shelves {
		byName[shelf.Name] = shelf
	}
	return byName
}

// createBook adds a book through the API and returns its response.
func (ts *testServer) createBook(t *testing.T, token string, body map[string]any) BookResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/books", "Authorization: Bearer "+token, body)
	require.Equal(t, http.StatusOK, resp.Code, "Create book failed: %s", resp.Body.String())

	var envelope testEnvelope[BookResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	return envelope.Data
}

func TestCreateBook_Unshelved(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	book := ts.createBook(t, token, map[string]any{
		"title":  "The Dispossessed",
		"author": "Ursula K. Le Guin",
		"isbn":   "9780060512750",
	})

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "tbr", book.Status)
	assert.NotEmpty(t, book.DateAdded)
	assert.Empty(t, book.DateStarted)
}

func TestCreateBook_OnShelfDerivesStatus(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	shelves := ts.shelvesByName(t, token)

	book := ts.createBook(t, token, map[string]any{
		"title":    "Piranesi",
		"author":   "Susanna Clarke",
		"shelf_id": shelves["Currently Reading"].ID,
	})

	assert.Equal(t, "reading", book.Status)
	assert.NotEmpty(t, book.DateStarted)
}

func TestCreateBook_UnknownShelf(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/books", "Authorization: Bearer "+token, map[string]any{
		"title":    "Orphaned",
		"shelf_id": "shelf_doesnotexist",
	})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListBooks_FilterByStatus(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	shelves := ts.shelvesByName(t, token)

	ts.createBook(t, token, map[string]any{"title": "Unshelved One"})
	ts.createBook(t, token, map[string]any{"title": "Unshelved Two"})
	ts.createBook(t, token, map[string]any{
		"title":    "In Progress",
		"shelf_id": shelves["Currently Reading"].ID,
	})

	resp := ts.api.Get("/api/v1/books?status=reading", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListBooksResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.Books, 1)
	assert.Equal(t, "In Progress", envelope.Data.Books[0].Title)
}

func TestUpdateBook(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	book := ts.createBook(t, token, map[string]any{"title": "Draft Title"})

	resp := ts.api.Patch("/api/v1/books/"+book.ID, "Authorization: Bearer "+token, map[string]any{
		"title":  "Final Title",
		"rating": 4,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[BookResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Equal(t, "Final Title", envelope.Data.Title)
	assert.Equal(t, 4, envelope.Data.Rating)
	// Untouched fields survive a partial update.
	assert.Equal(t, book.DateAdded, envelope.Data.DateAdded)
}

func TestUpdateBook_InvalidStatus(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	book := ts.createBook(t, token, map[string]any{"title": "Statusless"})

	resp := ts.api.Patch("/api/v1/books/"+book.ID, "Authorization: Bearer "+token, map[string]any{
		"status": "devoured",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeleteBook(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	book := ts.createBook(t, token, map[string]any{"title": "Ephemeral"})

	resp := ts.api.Delete("/api/v1/books/"+book.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/books/"+book.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetBook_ScopedToOwner(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken, _ := ts.registerTestUser(t, "owner@example.com")
	otherToken, _ := ts.registerTestUser(t, "other@example.com")

	book := ts.createBook(t, ownerToken, map[string]any{"title": "Private"})

	resp := ts.api.Get("/api/v1/books/"+book.ID, "Authorization: Bearer "+otherToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListBooks_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/books")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
