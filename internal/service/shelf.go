package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	domainerrors "github.com/corkboardapp/corkboard-server/internal/errors"
	"github.com/corkboardapp/corkboard-server/internal/id"
	"github.com/corkboardapp/corkboard-server/internal/sse"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

// ShelfService orchestrates shelf operations with ownership enforcement
// and SSE events.
type ShelfService struct {
	store      store.Store
	sseManager *sse.Manager
	logger     *slog.Logger
}

// NewShelfService creates a new shelf service.
func NewShelfService(store store.Store, sseManager *sse.Manager, logger *slog.Logger) *ShelfService {
	return &ShelfService{
		store:      store,
		sseManager: sseManager,
		logger:     logger,
	}
}

// CreateShelfRequest contains new shelf data.
type CreateShelfRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Icon        string `json:"icon" validate:"max=50"`
}

// UpdateShelfRequest contains shelf fields to change. Nil pointers leave
// the current value untouched.
type UpdateShelfRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Icon        *string `json:"icon" validate:"omitempty,max=50"`
	IsArchived  *bool   `json:"is_archived"`
}

// CreateShelf creates a new shelf at the end of the user's board.
func (s *ShelfService) CreateShelf(ctx context.Context, ownerID string, req CreateShelfRequest) (*domain.Shelf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	shelfID, err := id.Generate("shelf")
	if err != nil {
		return nil, fmt.Errorf("generate shelf ID: %w", err)
	}

	shelf := &domain.Shelf{
		Record: domain.Record{
			ID: shelfID,
		},
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	}
	shelf.InitTimestamps()

	if err := s.store.CreateShelf(ctx, shelf); err != nil {
		return nil, fmt.Errorf("create shelf: %w", err)
	}

	s.logger.Info("shelf created",
		"shelf_id", shelfID,
		"owner_id", ownerID,
		"name", req.Name,
	)

	s.sseManager.Emit(sse.NewShelfCreatedEvent(ownerID, shelf))

	return shelf, nil
}

// GetShelf retrieves one of the user's shelves by ID.
func (s *ShelfService) GetShelf(ctx context.Context, userID, shelfID string) (*domain.Shelf, error) {
	return s.store.GetShelf(ctx, userID, shelfID)
}

// ListShelves returns the user's shelves in board order. Archived shelves
// are excluded unless requested.
func (s *ShelfService) ListShelves(ctx context.Context, userID string, includeArchived bool) ([]*domain.Shelf, error) {
	return s.store.ListShelves(ctx, userID, includeArchived)
}

// GetBoard returns the user's shelves with their positioned books.
func (s *ShelfService) GetBoard(ctx context.Context, userID string, includeArchived bool) (*domain.Board, error) {
	return s.store.GetBoard(ctx, userID, includeArchived)
}

// UpdateShelf updates shelf metadata. Default shelves keep their names
// because book status is derived from them.
func (s *ShelfService) UpdateShelf(ctx context.Context, userID, shelfID string, req UpdateShelfRequest) (*domain.Shelf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	shelf, err := s.store.GetShelf(ctx, userID, shelfID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != shelf.Name {
		if shelf.IsDefault {
			return nil, domainerrors.Validation("default shelves cannot be renamed")
		}
		shelf.Name = *req.Name
	}
	if req.Description != nil {
		shelf.Description = *req.Description
	}
	if req.Color != nil {
		shelf.Color = *req.Color
	}
	if req.Icon != nil {
		shelf.Icon = *req.Icon
	}
	if req.IsArchived != nil {
		shelf.IsArchived = *req.IsArchived
	}
	shelf.Touch()

	if err := s.store.UpdateShelf(ctx, shelf); err != nil {
		return nil, fmt.Errorf("update shelf: %w", err)
	}

	s.logger.Info("shelf updated",
		"shelf_id", shelfID,
		"user_id", userID,
	)

	s.sseManager.Emit(sse.NewShelfUpdatedEvent(userID, shelf))

	return shelf, nil
}

// DeleteShelf deletes a shelf. Its positions are removed with it; the
// books themselves stay in the library. Default shelves cannot be deleted.
func (s *ShelfService) DeleteShelf(ctx context.Context, userID, shelfID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	shelf, err := s.store.GetShelf(ctx, userID, shelfID)
	if err != nil {
		return err
	}

	if shelf.IsDefault {
		return domainerrors.Validation("default shelves cannot be deleted")
	}

	if err := s.store.DeleteShelf(ctx, userID, shelfID); err != nil {
		return fmt.Errorf("delete shelf: %w", err)
	}

	s.logger.Info("shelf deleted",
		"shelf_id", shelfID,
		"user_id", userID,
	)

	s.sseManager.Emit(sse.NewShelfDeletedEvent(userID, shelfID))

	return nil
}

// ReorderShelves applies a new board ordering. The ID list must name every
// shelf exactly once; the store rejects partial orderings.
func (s *ShelfService) ReorderShelves(ctx context.Context, userID string, shelfIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(shelfIDs) == 0 {
		return domainerrors.Validation("shelf_ids cannot be empty")
	}

	seen := make(map[string]bool, len(shelfIDs))
	for _, shelfID := range shelfIDs {
		if seen[shelfID] {
			return domainerrors.Validationf("duplicate shelf ID: %s", shelfID)
		}
		seen[shelfID] = true
	}

	if err := s.store.ReorderShelves(ctx, userID, shelfIDs); err != nil {
		return fmt.Errorf("reorder shelves: %w", err)
	}

	s.logger.Info("shelves reordered",
		"user_id", userID,
		"count", len(shelfIDs),
	)

	s.sseManager.Emit(sse.NewShelvesReorderedEvent(userID, shelfIDs))

	return nil
}

// SeedDefaults creates the standard starter shelves for a new user.
func (s *ShelfService) SeedDefaults(ctx context.Context, userID string) error {
	for _, name := range domain.DefaultShelfNames {
		shelfID, err := id.Generate("shelf")
		if err != nil {
			return fmt.Errorf("generate shelf ID: %w", err)
		}

		shelf := &domain.Shelf{
			Record: domain.Record{
				ID: shelfID,
			},
			OwnerID:   userID,
			Name:      name,
			IsDefault: true,
		}
		shelf.InitTimestamps()

		if err := s.store.CreateShelf(ctx, shelf); err != nil {
			return fmt.Errorf("create default shelf %q: %w", name, err)
		}
	}

	s.logger.Info("seeded default shelves",
		"user_id", userID,
		"count", len(domain.DefaultShelfNames),
	)

	return nil
}
