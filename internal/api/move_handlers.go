package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corkboardapp/corkboard-server/internal/service"
)

func (s *Server) registerMoveRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "moveBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/move",
		Summary:     "Move book",
		Description: "Moves a book to a shelf position. Landing on a lifecycle shelf updates the book's status and reading dates in the same transaction.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMoveBook)
}

// MoveBookRequest is the request body for moving a book.
type MoveBookRequest struct {
	BookID      string `json:"book_id" validate:"required" doc:"Book to move"`
	ToShelfID   string `json:"to_shelf_id" validate:"required" doc:"Destination shelf"`
	FromShelfID string `json:"from_shelf_id,omitempty" doc:"Shelf the client moved the book from, informational"`
	Index       int    `json:"index" validate:"min=0" doc:"Desired position within the destination shelf, 0-based. Clamped to the shelf length."`
}

// MoveBookInput wraps the move request for Huma.
type MoveBookInput struct {
	Authorization string `header:"Authorization"`
	Body          MoveBookRequest
}

// MoveBookResponse contains the result of a move. Book is only present when
// the move changed it.
type MoveBookResponse struct {
	Position PositionResponse `json:"position" doc:"Updated position"`
	Book     *BookResponse    `json:"book,omitempty" doc:"Updated book, when the move changed its status"`
}

// MoveBookOutput wraps the move response for Huma.
type MoveBookOutput struct {
	Body MoveBookResponse
}

func (s *Server) handleMoveBook(ctx context.Context, input *MoveBookInput) (*MoveBookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Move.Move(ctx, userID, service.MoveRequest{
		BookID:      input.Body.BookID,
		ToShelfID:   input.Body.ToShelfID,
		FromShelfID: input.Body.FromShelfID,
		Index:       input.Body.Index,
	})
	if err != nil {
		return nil, err
	}

	resp := MoveBookResponse{Position: mapPositionResponse(result.Position)}
	if result.Book != nil {
		book := mapBookResponse(result.Book)
		resp.Book = &book
	}

	return &MoveBookOutput{Body: resp}, nil
}
