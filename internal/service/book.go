// Package service provides the business logic layer for books, shelves,
// moves, and authentication.
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

// BookService manages the user's library with ownership enforcement and
// SSE events.
type BookService struct {
	store      store.Store
	sseManager *sse.Manager
	logger     *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store store.Store, sseManager *sse.Manager, logger *slog.Logger) *BookService {
	return &BookService{
		store:      store,
		sseManager: sseManager,
		logger:     logger,
	}
}

// CreateBookRequest contains new book data. ShelfID, when set, places the
// book at the end of that shelf and derives its status from the shelf name.
type CreateBookRequest struct {
	Title             string `json:"title" validate:"required,max=500"`
	Subtitle          string `json:"subtitle" validate:"max=500"`
	Author            string `json:"author" validate:"max=500"`
	ISBN              string `json:"isbn" validate:"max=20"`
	Publisher         string `json:"publisher" validate:"max=200"`
	PublishedDate     string `json:"published_date" validate:"max=10"`
	PageCount         int    `json:"page_count" validate:"min=0"`
	Language          string `json:"language" validate:"max=10"`
	CoverURL          string `json:"cover_url" validate:"omitempty,url"`
	CoverThumbnailURL string `json:"cover_thumbnail_url" validate:"omitempty,url"`
	Description       string `json:"description"`
	GoogleBooksID     string `json:"google_books_id" validate:"max=50"`
	OpenLibraryID     string `json:"open_library_id" validate:"max=50"`
	PersonalNotes     string `json:"personal_notes"`
	Rating            int    `json:"rating" validate:"min=0,max=5"`
	ShelfID           string `json:"shelf_id"`
}

// UpdateBookRequest contains book fields to change. Nil pointers leave the
// current value untouched. Status and date edits here are taken literally;
// derivation from shelf placement only happens on moves.
type UpdateBookRequest struct {
	Title             *string `json:"title" validate:"omitempty,min=1,max=500"`
	Subtitle          *string `json:"subtitle" validate:"omitempty,max=500"`
	Author            *string `json:"author" validate:"omitempty,max=500"`
	ISBN              *string `json:"isbn" validate:"omitempty,max=20"`
	Publisher         *string `json:"publisher" validate:"omitempty,max=200"`
	PublishedDate     *string `json:"published_date" validate:"omitempty,max=10"`
	PageCount         *int    `json:"page_count" validate:"omitempty,min=0"`
	Language          *string `json:"language" validate:"omitempty,max=10"`
	CoverURL          *string `json:"cover_url" validate:"omitempty,url"`
	CoverThumbnailURL *string `json:"cover_thumbnail_url" validate:"omitempty,url"`
	Description       *string `json:"description"`
	PersonalNotes     *string `json:"personal_notes"`
	Rating            *int    `json:"rating" validate:"omitempty,min=0,max=5"`
	Status            *string `json:"status"`
	DateStarted       *string `json:"date_started" validate:"omitempty,datetime=2006-01-02"`
	DateCompleted     *string `json:"date_completed" validate:"omitempty,datetime=2006-01-02"`
}

// CreateBook adds a book to the user's library, optionally placing it on
// a shelf.
func (s *BookService) CreateBook(ctx context.Context, userID string, req CreateBookRequest) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	// Resolve the shelf before creating anything so a bad shelf ID does not
	// leave an unshelved book behind.
	var shelf *domain.Shelf
	if req.ShelfID != "" {
		var err error
		shelf, err = s.store.GetShelf(ctx, userID, req.ShelfID)
		if err != nil {
			return nil, err
		}
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		Record: domain.Record{
			ID: bookID,
		},
		UserID:            userID,
		Title:             req.Title,
		Subtitle:          req.Subtitle,
		Author:            req.Author,
		ISBN:              req.ISBN,
		Publisher:         req.Publisher,
		PublishedDate:     req.PublishedDate,
		PageCount:         req.PageCount,
		Language:          req.Language,
		CoverURL:          req.CoverURL,
		CoverThumbnailURL: req.CoverThumbnailURL,
		Description:       req.Description,
		GoogleBooksID:     req.GoogleBooksID,
		OpenLibraryID:     req.OpenLibraryID,
		PersonalNotes:     req.PersonalNotes,
		Rating:            req.Rating,
		Status:            domain.StatusTBR,
		DateAdded:         domain.Today(),
	}
	book.InitTimestamps()

	if shelf != nil {
		if status, ok := shelf.Status(); ok {
			book.ApplyStatus(status, domain.Today())
		}
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	if shelf != nil {
		posID, err := id.Generate("pos")
		if err != nil {
			return nil, fmt.Errorf("generate position ID: %w", err)
		}

		pos := &domain.BookPosition{
			UserID:  userID,
			BookID:  bookID,
			ShelfID: shelf.ID,
		}
		pos.ID = posID
		pos.InitTimestamps()

		if err := s.store.CreatePosition(ctx, pos); err != nil {
			return nil, fmt.Errorf("create position: %w", err)
		}
	}

	s.logger.Info("book created",
		"book_id", bookID,
		"user_id", userID,
		"title", req.Title,
	)

	s.sseManager.Emit(sse.NewBookCreatedEvent(userID, book))

	return book, nil
}

// GetBook retrieves one of the user's books by ID.
func (s *BookService) GetBook(ctx context.Context, userID, bookID string) (*domain.Book, error) {
	return s.store.GetBook(ctx, userID, bookID)
}

// ListBooks returns the user's library, optionally filtered by status or
// shelf placement.
func (s *BookService) ListBooks(ctx context.Context, userID string, filter store.BookFilter) ([]*domain.Book, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domainerrors.Validationf("invalid status: %s", filter.Status)
	}
	return s.store.ListBooks(ctx, userID, filter)
}

// UpdateBook updates book fields.
func (s *BookService) UpdateBook(ctx context.Context, userID, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	book, err := s.store.GetBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		status := domain.BookStatus(*req.Status)
		if !status.Valid() {
			return nil, domainerrors.Validationf("invalid status: %s", *req.Status)
		}
		book.Status = status
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Subtitle != nil {
		book.Subtitle = *req.Subtitle
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.PublishedDate != nil {
		book.PublishedDate = *req.PublishedDate
	}
	if req.PageCount != nil {
		book.PageCount = *req.PageCount
	}
	if req.Language != nil {
		book.Language = *req.Language
	}
	if req.CoverURL != nil {
		book.CoverURL = *req.CoverURL
	}
	if req.CoverThumbnailURL != nil {
		book.CoverThumbnailURL = *req.CoverThumbnailURL
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.PersonalNotes != nil {
		book.PersonalNotes = *req.PersonalNotes
	}
	if req.Rating != nil {
		book.Rating = *req.Rating
	}
	if req.DateStarted != nil {
		book.DateStarted = *req.DateStarted
	}
	if req.DateCompleted != nil {
		book.DateCompleted = *req.DateCompleted
	}
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.logger.Info("book updated",
		"book_id", bookID,
		"user_id", userID,
	)

	s.sseManager.Emit(sse.NewBookUpdatedEvent(userID, book))

	return book, nil
}

// DeleteBook removes a book from the user's library. Its shelf position
// goes with it.
func (s *BookService) DeleteBook(ctx context.Context, userID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, userID, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.Info("book deleted",
		"book_id", bookID,
		"user_id", userID,
	)

	s.sseManager.Emit(sse.NewBookDeletedEvent(userID, bookID))

	return nil
}
