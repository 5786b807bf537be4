package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/service"
)

func (s *Server) registerShelfRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listShelves",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves",
		Summary:     "List shelves",
		Description: "Returns the user's shelves in rank order",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListShelves)

	huma.Register(s.api, huma.Operation{
		OperationID: "createShelf",
		Method:      http.MethodPost,
		Path:        "/api/v1/shelves",
		Summary:     "Create shelf",
		Description: "Creates a custom shelf at the end of the board",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderShelves",
		Method:      http.MethodPut,
		Path:        "/api/v1/shelves/reorder",
		Summary:     "Reorder shelves",
		Description: "Reorders the board columns to match the given shelf ID list",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReorderShelves)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShelf",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves/{id}",
		Summary:     "Get shelf",
		Description: "Returns a single shelf by ID",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateShelf",
		Method:      http.MethodPatch,
		Path:        "/api/v1/shelves/{id}",
		Summary:     "Update shelf",
		Description: "Updates shelf fields. Default shelves cannot be renamed.",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteShelf",
		Method:      http.MethodDelete,
		Path:        "/api/v1/shelves/{id}",
		Summary:     "Delete shelf",
		Description: "Deletes a custom shelf. Default shelves cannot be deleted.",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBoard",
		Method:      http.MethodGet,
		Path:        "/api/v1/board",
		Summary:     "Get board",
		Description: "Returns all shelves with their book positions in rank order",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBoard)
}

// === DTOs ===

// ShelfResponse contains shelf data in API responses.
type ShelfResponse struct {
	ID          string    `json:"id" doc:"Shelf ID"`
	Name        string    `json:"name" doc:"Shelf name"`
	Description string    `json:"description,omitempty" doc:"Shelf description"`
	Color       string    `json:"color,omitempty" doc:"Display color (#RRGGBB)"`
	Icon        string    `json:"icon,omitempty" doc:"Display icon name"`
	Rank        int       `json:"rank" doc:"Position on the board, 0-based"`
	IsDefault   bool      `json:"is_default" doc:"Whether this is a starter shelf"`
	IsArchived  bool      `json:"is_archived" doc:"Whether the shelf is hidden from the board"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// ListShelvesInput contains parameters for listing shelves.
type ListShelvesInput struct {
	Authorization   string `header:"Authorization"`
	IncludeArchived bool   `query:"include_archived" doc:"Include archived shelves"`
}

// ListShelvesResponse contains a list of shelves.
type ListShelvesResponse struct {
	Shelves []ShelfResponse `json:"shelves" doc:"Shelves in rank order"`
}

// ListShelvesOutput wraps the list shelves response for Huma.
type ListShelvesOutput struct {
	Body ListShelvesResponse
}

// CreateShelfRequest is the request body for creating a shelf.
type CreateShelfRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100" doc:"Shelf name"`
	Description string `json:"description,omitempty" validate:"max=500" doc:"Shelf description"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color (#RRGGBB)"`
	Icon        string `json:"icon,omitempty" validate:"max=50" doc:"Display icon name"`
}

// CreateShelfInput wraps the create shelf request for Huma.
type CreateShelfInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateShelfRequest
}

// ShelfOutput wraps the shelf response for Huma.
type ShelfOutput struct {
	Body ShelfResponse
}

// GetShelfInput contains parameters for getting a shelf.
type GetShelfInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shelf ID"`
}

// UpdateShelfRequest is the request body for updating a shelf. Absent fields
// are left unchanged.
type UpdateShelfRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"New shelf name"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500" doc:"New shelf description"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"New display color"`
	Icon        *string `json:"icon,omitempty" validate:"omitempty,max=50" doc:"New display icon"`
	IsArchived  *bool   `json:"is_archived,omitempty" doc:"Archive or restore the shelf"`
}

// UpdateShelfInput wraps the update shelf request for Huma.
type UpdateShelfInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shelf ID"`
	Body          UpdateShelfRequest
}

// DeleteShelfInput contains parameters for deleting a shelf.
type DeleteShelfInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shelf ID"`
}

// ReorderShelvesRequest is the request body for reordering shelves.
type ReorderShelvesRequest struct {
	ShelfIDs []string `json:"shelf_ids" validate:"required,min=1" doc:"Shelf IDs in the desired order"`
}

// ReorderShelvesInput wraps the reorder request for Huma.
type ReorderShelvesInput struct {
	Authorization string `header:"Authorization"`
	Body          ReorderShelvesRequest
}

// GetBoardInput contains parameters for the board view.
type GetBoardInput struct {
	Authorization   string `header:"Authorization"`
	IncludeArchived bool   `query:"include_archived" doc:"Include archived shelves"`
}

// PositionResponse contains a book position in API responses.
type PositionResponse struct {
	ID      string `json:"id" doc:"Position ID"`
	BookID  string `json:"book_id" doc:"Book pinned at this position"`
	ShelfID string `json:"shelf_id" doc:"Shelf the book is pinned to"`
	Rank    int    `json:"rank" doc:"Position within the shelf, 0-based"`
}

// BoardShelfResponse contains a shelf with its positions.
type BoardShelfResponse struct {
	ShelfResponse
	Positions []PositionResponse `json:"positions" doc:"Positions in rank order"`
}

// BoardResponse contains the full board view.
type BoardResponse struct {
	Shelves []BoardShelfResponse `json:"shelves" doc:"Shelves in rank order"`
}

// BoardOutput wraps the board response for Huma.
type BoardOutput struct {
	Body BoardResponse
}

// === Handlers ===

func (s *Server) handleListShelves(ctx context.Context, input *ListShelvesInput) (*ListShelvesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	shelves, err := s.services.Shelf.ListShelves(ctx, userID, input.IncludeArchived)
	if err != nil {
		return nil, err
	}

	resp := make([]ShelfResponse, len(shelves))
	for i, shelf := range shelves {
		resp[i] = mapShelfResponse(shelf)
	}

	return &ListShelvesOutput{Body: ListShelvesResponse{Shelves: resp}}, nil
}

func (s *Server) handleCreateShelf(ctx context.Context, input *CreateShelfInput) (*ShelfOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	shelf, err := s.services.Shelf.CreateShelf(ctx, userID, service.CreateShelfRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Color:       input.Body.Color,
		Icon:        input.Body.Icon,
	})
	if err != nil {
		return nil, err
	}

	return &ShelfOutput{Body: mapShelfResponse(shelf)}, nil
}

func (s *Server) handleGetShelf(ctx context.Context, input *GetShelfInput) (*ShelfOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	shelf, err := s.services.Shelf.GetShelf(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ShelfOutput{Body: mapShelfResponse(shelf)}, nil
}

func (s *Server) handleUpdateShelf(ctx context.Context, input *UpdateShelfInput) (*ShelfOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	shelf, err := s.services.Shelf.UpdateShelf(ctx, userID, input.ID, service.UpdateShelfRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Color:       input.Body.Color,
		Icon:        input.Body.Icon,
		IsArchived:  input.Body.IsArchived,
	})
	if err != nil {
		return nil, err
	}

	return &ShelfOutput{Body: mapShelfResponse(shelf)}, nil
}

func (s *Server) handleDeleteShelf(ctx context.Context, input *DeleteShelfInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shelf.DeleteShelf(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Shelf deleted"}}, nil
}

func (s *Server) handleReorderShelves(ctx context.Context, input *ReorderShelvesInput) (*ListShelvesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shelf.ReorderShelves(ctx, userID, input.Body.ShelfIDs); err != nil {
		return nil, err
	}

	shelves, err := s.services.Shelf.ListShelves(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	resp := make([]ShelfResponse, len(shelves))
	for i, shelf := range shelves {
		resp[i] = mapShelfResponse(shelf)
	}

	return &ListShelvesOutput{Body: ListShelvesResponse{Shelves: resp}}, nil
}

func (s *Server) handleGetBoard(ctx context.Context, input *GetBoardInput) (*BoardOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	board, err := s.services.Shelf.GetBoard(ctx, userID, input.IncludeArchived)
	if err != nil {
		return nil, err
	}

	shelves := make([]BoardShelfResponse, len(board.Shelves))
	for i, bs := range board.Shelves {
		positions := make([]PositionResponse, len(bs.Positions))
		for j, pos := range bs.Positions {
			positions[j] = mapPositionResponse(&pos)
		}
		shelves[i] = BoardShelfResponse{
			ShelfResponse: mapShelfResponse(&bs.Shelf),
			Positions:     positions,
		}
	}

	return &BoardOutput{Body: BoardResponse{Shelves: shelves}}, nil
}

// === Helpers ===

func mapShelfResponse(shelf *domain.Shelf) ShelfResponse {
	return ShelfResponse{
		ID:          shelf.ID,
		Name:        shelf.Name,
		Description: shelf.Description,
		Color:       shelf.Color,
		Icon:        shelf.Icon,
		Rank:        shelf.Rank,
		IsDefault:   shelf.IsDefault,
		IsArchived:  shelf.IsArchived,
		CreatedAt:   shelf.CreatedAt,
		UpdatedAt:   shelf.UpdatedAt,
	}
}

func mapPositionResponse(pos *domain.BookPosition) PositionResponse {
	return PositionResponse{
		ID:      pos.ID,
		BookID:  pos.BookID,
		ShelfID: pos.ShelfID,
		Rank:    pos.Rank,
	}
}
