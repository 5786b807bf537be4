package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/sse"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

// MoveService moves books between shelves, deriving book status and reading
// dates from the destination shelf.
type MoveService struct {
	store      store.Store
	sseManager *sse.Manager
	logger     *slog.Logger
}

// NewMoveService creates a new move service.
func NewMoveService(store store.Store, sseManager *sse.Manager, logger *slog.Logger) *MoveService {
	return &MoveService{
		store:      store,
		sseManager: sseManager,
		logger:     logger,
	}
}

// MoveRequest describes a drag-and-drop of a book onto a shelf.
// FromShelfID is informational; the server trusts the stored position.
type MoveRequest struct {
	BookID      string `json:"book_id" validate:"required"`
	ToShelfID   string `json:"to_shelf_id" validate:"required"`
	FromShelfID string `json:"from_shelf_id"`
	Index       int    `json:"index" validate:"min=0"`
}

// MoveResult is the outcome of a move. Book is nil when the move did not
// change the book's status or dates.
type MoveResult struct {
	Position *domain.BookPosition `json:"position"`
	Book     *domain.Book         `json:"book,omitempty"`
}

// Move relocates a book's position to the destination shelf at the given
// index and derives the book's status from the shelf it landed on. The
// position change, the renumbering of both shelves, and any book change
// commit in one transaction.
func (s *MoveService) Move(ctx context.Context, userID string, req MoveRequest) (*MoveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	pos, err := s.store.GetPositionByBook(ctx, userID, req.BookID)
	if err != nil {
		return nil, err
	}

	shelf, err := s.store.GetShelf(ctx, userID, req.ToShelfID)
	if err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, userID, req.BookID)
	if err != nil {
		return nil, err
	}

	fromShelfID := pos.ShelfID

	// The destination shelf's name decides the book's new status. Shelves
	// outside the named set leave the book alone.
	var movedBook *domain.Book
	if status, ok := domain.StatusForShelfName(shelf.Name); ok {
		if book.ApplyStatus(status, domain.Today()) {
			book.Touch()
			movedBook = book
		}
	}

	updated, err := s.store.ApplyMove(ctx, store.Move{
		UserID:     userID,
		PositionID: pos.ID,
		ToShelfID:  req.ToShelfID,
		Index:      req.Index,
		Book:       movedBook,
	})
	if err != nil {
		return nil, fmt.Errorf("apply move: %w", err)
	}

	s.logger.Info("book moved",
		"book_id", req.BookID,
		"user_id", userID,
		"from_shelf_id", fromShelfID,
		"to_shelf_id", req.ToShelfID,
		"index", updated.Rank,
	)

	s.sseManager.Emit(sse.NewBookMovedEvent(userID, sse.BookMovedEventData{
		Book:        movedBook,
		BookID:      req.BookID,
		PositionID:  updated.ID,
		FromShelfID: fromShelfID,
		ToShelfID:   req.ToShelfID,
		Index:       updated.Rank,
	}))

	return &MoveResult{
		Position: updated,
		Book:     movedBook,
	}, nil
}
