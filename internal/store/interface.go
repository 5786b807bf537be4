// Package store defines the persistence interface for the CorkBoard server.
package store

import (
	"context"

	"github.com/corkboardapp/corkboard-server/internal/domain"
)

// BookFilter narrows ListBooks results. Zero value means no filtering.
type BookFilter struct {
	// Status filters by lifecycle status when non-empty.
	Status domain.BookStatus
	// ShelfID filters to books positioned on the given shelf when non-empty.
	ShelfID string
}

// Move describes the persistent effect of moving a book between shelves (or
// within one). The position row is relocated to ToShelfID at Index, both
// affected shelves are renumbered densely, and Book, when non-nil, is written
// in the same transaction.
type Move struct {
	UserID     string
	PositionID string
	ToShelfID  string
	// Index is the insertion point in the destination shelf. Values past the
	// end clamp to appending.
	Index int
	// Book carries the derived status and date changes, nil when the move
	// changes nothing on the book row.
	Book *domain.Book
}

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int, error)

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, userID, id string) (*domain.Book, error)
	ListBooks(ctx context.Context, userID string, filter BookFilter) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, userID, id string) error

	// Shelves
	CreateShelf(ctx context.Context, shelf *domain.Shelf) error
	GetShelf(ctx context.Context, userID, id string) (*domain.Shelf, error)
	ListShelves(ctx context.Context, userID string, includeArchived bool) ([]*domain.Shelf, error)
	UpdateShelf(ctx context.Context, shelf *domain.Shelf) error
	DeleteShelf(ctx context.Context, userID, id string) error
	ReorderShelves(ctx context.Context, userID string, shelfIDs []string) error

	// Positions
	CreatePosition(ctx context.Context, pos *domain.BookPosition) error
	GetPositionByBook(ctx context.Context, userID, bookID string) (*domain.BookPosition, error)
	ListShelfPositions(ctx context.Context, userID, shelfID string) ([]*domain.BookPosition, error)
	ApplyMove(ctx context.Context, move Move) (*domain.BookPosition, error)

	// Board
	GetBoard(ctx context.Context, userID string, includeArchived bool) (*domain.Board, error)
}
