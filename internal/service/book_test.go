package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

func TestBookService_CreateBookUnshelved(t *testing.T) {
	svc := setupServices(t)
	userID, _ := boardSetup(t, svc)

	book, err := svc.book.CreateBook(context.Background(), userID, CreateBookRequest{
		Title:  "A Wizard of Earthsea",
		Author: "Ursula K. Le Guin",
		ISBN:   "9780547773742",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusTBR, book.Status)
	assert.Equal(t, domain.Today(), book.DateAdded)

	_, err = svc.store.GetPositionByBook(context.Background(), userID, book.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "unshelved book has no position")
}

func TestBookService_CreateBookOnShelfDerivesStatus(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	book, err := svc.book.CreateBook(context.Background(), userID, CreateBookRequest{
		Title:   "Solaris",
		ShelfID: shelves["Currently Reading"].ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusReading, book.Status)
	assert.Equal(t, domain.Today(), book.DateStarted)

	pos, err := svc.store.GetPositionByBook(context.Background(), userID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, shelves["Currently Reading"].ID, pos.ShelfID)
	assert.Equal(t, 0, pos.Rank)
}

func TestBookService_CreateBook_UnknownShelf(t *testing.T) {
	svc := setupServices(t)
	userID, _ := boardSetup(t, svc)

	_, err := svc.book.CreateBook(context.Background(), userID, CreateBookRequest{
		Title:   "Orphan",
		ShelfID: "shelf-missing",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The bad shelf must not leave a half-created book behind.
	books, err := svc.book.ListBooks(context.Background(), userID, store.BookFilter{})
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestBookService_UpdateBook(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	book := addBook(t, svc, userID, "Draft Title", shelves["To Be Read"].ID)

	updated, err := svc.book.UpdateBook(context.Background(), userID, book.ID, UpdateBookRequest{
		Title:  strPtr("Final Title"),
		Rating: intPtr(4),
		Status: strPtr("dnf"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Final Title", updated.Title)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, domain.StatusDNF, updated.Status)
	// Manual status edits do not derive dates; only moves do.
	assert.Empty(t, updated.DateStarted)
}

func TestBookService_UpdateBook_InvalidStatus(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	book := addBook(t, svc, userID, "Any", shelves["To Be Read"].ID)

	_, err := svc.book.UpdateBook(context.Background(), userID, book.ID, UpdateBookRequest{
		Status: strPtr("reading-ish"),
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid status")
}

func TestBookService_ListBooksFilters(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	addBook(t, svc, userID, "Queued", shelves["To Be Read"].ID)
	addBook(t, svc, userID, "Active", shelves["Currently Reading"].ID)

	reading, err := svc.book.ListBooks(context.Background(), userID, store.BookFilter{
		Status: domain.StatusReading,
	})
	require.NoError(t, err)
	require.Len(t, reading, 1)
	assert.Equal(t, "Active", reading[0].Title)

	onShelf, err := svc.book.ListBooks(context.Background(), userID, store.BookFilter{
		ShelfID: shelves["To Be Read"].ID,
	})
	require.NoError(t, err)
	require.Len(t, onShelf, 1)
	assert.Equal(t, "Queued", onShelf[0].Title)
}

func TestBookService_DeleteBook(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	book := addBook(t, svc, userID, "Short Lived", shelves["To Be Read"].ID)

	require.NoError(t, svc.book.DeleteBook(context.Background(), userID, book.ID))

	_, err := svc.book.GetBook(context.Background(), userID, book.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func intPtr(i int) *int { return &i }
