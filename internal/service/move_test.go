package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

// boardSetup registers a user and returns their default shelves keyed by name.
func boardSetup(t *testing.T, svc *testServices) (userID string, shelves map[string]*domain.Shelf) {
	t.Helper()

	resp := registerUser(t, svc, "mover@example.com")
	userID = resp.User.ID

	list, err := svc.shelf.ListShelves(context.Background(), userID, false)
	require.NoError(t, err)

	shelves = make(map[string]*domain.Shelf, len(list))
	for _, shelf := range list {
		shelves[shelf.Name] = shelf
	}
	return userID, shelves
}

// addBook creates a book placed on the given shelf.
func addBook(t *testing.T, svc *testServices, userID, title, shelfID string) *domain.Book {
	t.Helper()

	book, err := svc.book.CreateBook(context.Background(), userID, CreateBookRequest{
		Title:   title,
		Author:  "Author",
		ShelfID: shelfID,
	})
	require.NoError(t, err)
	return book
}

func TestMoveService_ToReadingStampsDateStarted(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	book := addBook(t, svc, userID, "The Dispossessed", shelves["To Be Read"].ID)
	require.Equal(t, domain.StatusTBR, book.Status)
	require.Empty(t, book.DateStarted)

	result, err := svc.move.Move(context.Background(), userID, MoveRequest{
		BookID:    book.ID,
		ToShelfID: shelves["Currently Reading"].ID,
		Index:     0,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Book, "status changed, book must be in the result")
	assert.Equal(t, domain.StatusReading, result.Book.Status)
	assert.Equal(t, domain.Today(), result.Book.DateStarted)
	assert.Equal(t, shelves["Currently Reading"].ID, result.Position.ShelfID)
	assert.Equal(t, 0, result.Position.Rank)

	// The change is persisted, not just reported.
	stored, err := svc.book.GetBook(context.Background(), userID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReading, stored.Status)
	assert.Equal(t, domain.Today(), stored.DateStarted)
}

func TestMoveService_ToReadingKeepsExistingDateStarted(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	book := addBook(t, svc, userID, "Annihilation", shelves["To Be Read"].ID)

	_, err := svc.book.UpdateBook(context.Background(), userID, book.ID, UpdateBookRequest{
		DateStarted: strPtr("2024-01-15"),
	})
	require.NoError(t, err)

	result, err := svc.move.Move(context.Background(), userID, MoveRequest{
		BookID:    book.ID,
		ToShelfID: shelves["Currently Reading"].ID,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Book)
	assert.Equal(t, "2024-01-15", result.Book.DateStarted, "a pre-existing start date survives the move")
}

func TestMoveService_ToCompletedStampsDateCompleted(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	book := addBook(t, svc, userID, "Piranesi", shelves["Currently Reading"].ID)

	result, err := svc.move.Move(context.Background(), userID, MoveRequest{
		BookID:    book.ID,
		ToShelfID: shelves["Completed"].ID,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Book)
	assert.Equal(t, domain.StatusCompleted, result.Book.Status)
	assert.Equal(t, domain.Today(), result.Book.DateCompleted)
}

func TestMoveService_LeavingCompletedClearsDateCompleted(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	book := addBook(t, svc, userID, "Middlemarch", shelves["Completed"].ID)
	require.Equal(t, domain.Today(), book.DateCompleted)

	result, err := svc.move.Move(context.Background(), userID, MoveRequest{
		BookID:    book.ID,
		ToShelfID: shelves["To Be Read"].ID,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Book)
	assert.Equal(t, domain.StatusTBR, result.Book.Status)
	assert.Empty(t, result.Book.DateCompleted, "completion date belongs to completed books only")
}

func TestMoveService_SameShelfReorderLeavesBookAlone(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	tbr := shelves["To Be Read"].ID
	first := addBook(t, svc, userID, "First", tbr)
	second := addBook(t, svc, userID, "Second", tbr)

	result, err := svc.move.Move(context.Background(), userID, MoveRequest{
		BookID:    second.ID,
		ToShelfID: tbr,
		Index:     0,
	})
	require.NoError(t, err)

	assert.Nil(t, result.Book, "no status change, book omitted from result")
	assert.Equal(t, 0, result.Position.Rank)

	firstPos, err := svc.store.GetPositionByBook(context.Background(), userID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, firstPos.Rank)
}

func TestMoveService_CustomShelfKeepsStatus(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	custom, err := svc.shelf.CreateShelf(context.Background(), userID, CreateShelfRequest{
		Name: "Summer Reading",
	})
	require.NoError(t, err)

	book := addBook(t, svc, userID, "The Odyssey", shelves["Currently Reading"].ID)

	result, err := svc.move.Move(context.Background(), userID, MoveRequest{
		BookID:    book.ID,
		ToShelfID: custom.ID,
	})
	require.NoError(t, err)

	assert.Nil(t, result.Book, "shelves outside the named set leave the book alone")

	stored, err := svc.book.GetBook(context.Background(), userID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReading, stored.Status)
}

func TestMoveService_ForeignBookNotFound(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	book := addBook(t, svc, userID, "Private", shelves["To Be Read"].ID)

	intruder := registerUser(t, svc, "intruder@example.com")
	intruderShelves, err := svc.shelf.ListShelves(context.Background(), intruder.User.ID, false)
	require.NoError(t, err)

	_, err = svc.move.Move(context.Background(), intruder.User.ID, MoveRequest{
		BookID:    book.ID,
		ToShelfID: intruderShelves[0].ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMoveService_UnknownDestinationShelf(t *testing.T) {
	svc := setupServices(t)
	userID, shelves := boardSetup(t, svc)

	book := addBook(t, svc, userID, "Lost", shelves["To Be Read"].ID)

	_, err := svc.move.Move(context.Background(), userID, MoveRequest{
		BookID:    book.ID,
		ToShelfID: "shelf-does-not-exist",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func strPtr(s string) *string { return &s }
