package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/service"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the user's books, optionally filtered by status or shelf",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Add book",
		Description: "Adds a book to the library, optionally placing it on a shelf",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a single book by ID",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Updates book fields. Status edits here are taken literally; reading dates derive from moves only.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book from the library along with its board position",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)
}

// === DTOs ===

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID                string    `json:"id" doc:"Book ID"`
	Title             string    `json:"title" doc:"Book title"`
	Subtitle          string    `json:"subtitle,omitempty" doc:"Book subtitle"`
	Author            string    `json:"author,omitempty" doc:"Author name"`
	ISBN              string    `json:"isbn,omitempty" doc:"ISBN-13 or ISBN-10"`
	Publisher         string    `json:"publisher,omitempty" doc:"Publisher name"`
	PublishedDate     string    `json:"published_date,omitempty" doc:"Publication date, possibly partial"`
	PageCount         int       `json:"page_count,omitempty" doc:"Number of pages"`
	Language          string    `json:"language,omitempty" doc:"ISO 639-1 language code"`
	CoverURL          string    `json:"cover_url,omitempty" doc:"Cover image URL"`
	CoverThumbnailURL string    `json:"cover_thumbnail_url,omitempty" doc:"Cover thumbnail URL"`
	Description       string    `json:"description,omitempty" doc:"Description in Markdown"`
	GoogleBooksID     string    `json:"google_books_id,omitempty" doc:"Google Books volume ID"`
	OpenLibraryID     string    `json:"open_library_id,omitempty" doc:"Open Library ID"`
	Status            string    `json:"status" doc:"Reading status: tbr, reading, completed, dnf, or archived"`
	Rating            int       `json:"rating,omitempty" doc:"Personal rating 1-5, 0 when unrated"`
	PersonalNotes     string    `json:"personal_notes,omitempty" doc:"Private notes"`
	DateAdded         string    `json:"date_added" doc:"Date the book was added"`
	DateStarted       string    `json:"date_started,omitempty" doc:"Date reading started"`
	DateCompleted     string    `json:"date_completed,omitempty" doc:"Date reading finished"`
	CreatedAt         time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt         time.Time `json:"updated_at" doc:"Last update time"`
}

// BookOutput wraps the book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// ListBooksInput contains parameters for listing books.
type ListBooksInput struct {
	Authorization string `header:"Authorization"`
	Status        string `query:"status" doc:"Filter by reading status"`
	ShelfID       string `query:"shelf_id" doc:"Filter by shelf"`
}

// ListBooksResponse contains a list of books.
type ListBooksResponse struct {
	Books []BookResponse `json:"books" doc:"Books, most recently added first"`
}

// ListBooksOutput wraps the list books response for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// CreateBookRequest is the request body for adding a book.
type CreateBookRequest struct {
	Title             string `json:"title" validate:"required,max=500" doc:"Book title"`
	Subtitle          string `json:"subtitle,omitempty" validate:"max=500" doc:"Book subtitle"`
	Author            string `json:"author,omitempty" validate:"max=500" doc:"Author name"`
	ISBN              string `json:"isbn,omitempty" validate:"max=20" doc:"ISBN-13 or ISBN-10"`
	Publisher         string `json:"publisher,omitempty" validate:"max=200" doc:"Publisher name"`
	PublishedDate     string `json:"published_date,omitempty" validate:"max=10" doc:"Publication date, possibly partial"`
	PageCount         int    `json:"page_count,omitempty" validate:"min=0" doc:"Number of pages"`
	Language          string `json:"language,omitempty" validate:"max=10" doc:"ISO 639-1 language code"`
	CoverURL          string `json:"cover_url,omitempty" validate:"omitempty,url" doc:"Cover image URL"`
	CoverThumbnailURL string `json:"cover_thumbnail_url,omitempty" validate:"omitempty,url" doc:"Cover thumbnail URL"`
	Description       string `json:"description,omitempty" doc:"Description in Markdown"`
	GoogleBooksID     string `json:"google_books_id,omitempty" validate:"max=50" doc:"Google Books volume ID"`
	OpenLibraryID     string `json:"open_library_id,omitempty" validate:"max=50" doc:"Open Library ID"`
	PersonalNotes     string `json:"personal_notes,omitempty" doc:"Private notes"`
	Rating            int    `json:"rating,omitempty" validate:"min=0,max=5" doc:"Personal rating 1-5"`
	ShelfID           string `json:"shelf_id,omitempty" doc:"Shelf to place the book on"`
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateBookRequest
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// UpdateBookRequest is the request body for updating a book. Absent fields
// are left unchanged.
type UpdateBookRequest struct {
	Title             *string `json:"title,omitempty" validate:"omitempty,min=1,max=500" doc:"New title"`
	Subtitle          *string `json:"subtitle,omitempty" validate:"omitempty,max=500" doc:"New subtitle"`
	Author            *string `json:"author,omitempty" validate:"omitempty,max=500" doc:"New author"`
	ISBN              *string `json:"isbn,omitempty" validate:"omitempty,max=20" doc:"New ISBN"`
	Publisher         *string `json:"publisher,omitempty" validate:"omitempty,max=200" doc:"New publisher"`
	PublishedDate     *string `json:"published_date,omitempty" validate:"omitempty,max=10" doc:"New publication date"`
	PageCount         *int    `json:"page_count,omitempty" validate:"omitempty,min=0" doc:"New page count"`
	Language          *string `json:"language,omitempty" validate:"omitempty,max=10" doc:"New language code"`
	CoverURL          *string `json:"cover_url,omitempty" validate:"omitempty,url" doc:"New cover URL"`
	CoverThumbnailURL *string `json:"cover_thumbnail_url,omitempty" validate:"omitempty,url" doc:"New thumbnail URL"`
	Description       *string `json:"description,omitempty" doc:"New description"`
	PersonalNotes     *string `json:"personal_notes,omitempty" doc:"New private notes"`
	Rating            *int    `json:"rating,omitempty" validate:"omitempty,min=0,max=5" doc:"New rating"`
	Status            *string `json:"status,omitempty" doc:"New reading status, applied literally"`
	DateStarted       *string `json:"date_started,omitempty" validate:"omitempty,datetime=2006-01-02" doc:"New start date"`
	DateCompleted     *string `json:"date_completed,omitempty" validate:"omitempty,datetime=2006-01-02" doc:"New completion date"`
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          UpdateBookRequest
}

// DeleteBookInput contains parameters for deleting a book.
type DeleteBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Book.ListBooks(ctx, userID, store.BookFilter{
		Status:  domain.BookStatus(input.Status),
		ShelfID: input.ShelfID,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]BookResponse, len(books))
	for i, book := range books {
		resp[i] = mapBookResponse(book)
	}

	return &ListBooksOutput{Body: ListBooksResponse{Books: resp}}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.CreateBook(ctx, userID, service.CreateBookRequest{
		Title:             input.Body.Title,
		Subtitle:          input.Body.Subtitle,
		Author:            input.Body.Author,
		ISBN:              input.Body.ISBN,
		Publisher:         input.Body.Publisher,
		PublishedDate:     input.Body.PublishedDate,
		PageCount:         input.Body.PageCount,
		Language:          input.Body.Language,
		CoverURL:          input.Body.CoverURL,
		CoverThumbnailURL: input.Body.CoverThumbnailURL,
		Description:       input.Body.Description,
		GoogleBooksID:     input.Body.GoogleBooksID,
		OpenLibraryID:     input.Body.OpenLibraryID,
		PersonalNotes:     input.Body.PersonalNotes,
		Rating:            input.Body.Rating,
		ShelfID:           input.Body.ShelfID,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.GetBook(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.UpdateBook(ctx, userID, input.ID, service.UpdateBookRequest{
		Title:             input.Body.Title,
		Subtitle:          input.Body.Subtitle,
		Author:            input.Body.Author,
		ISBN:              input.Body.ISBN,
		Publisher:         input.Body.Publisher,
		PublishedDate:     input.Body.PublishedDate,
		PageCount:         input.Body.PageCount,
		Language:          input.Body.Language,
		CoverURL:          input.Body.CoverURL,
		CoverThumbnailURL: input.Body.CoverThumbnailURL,
		Description:       input.Body.Description,
		PersonalNotes:     input.Body.PersonalNotes,
		Rating:            input.Body.Rating,
		Status:            input.Body.Status,
		DateStarted:       input.Body.DateStarted,
		DateCompleted:     input.Body.DateCompleted,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Book.DeleteBook(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

// === Helpers ===

func mapBookResponse(book *domain.Book) BookResponse {
	return BookResponse{
		ID:                book.ID,
		Title:             book.Title,
		Subtitle:          book.Subtitle,
		Author:            book.Author,
		ISBN:              book.ISBN,
		Publisher:         book.Publisher,
		PublishedDate:     book.PublishedDate,
		PageCount:         book.PageCount,
		Language:          book.Language,
		CoverURL:          book.CoverURL,
		CoverThumbnailURL: book.CoverThumbnailURL,
		Description:       book.Description,
		GoogleBooksID:     book.GoogleBooksID,
		OpenLibraryID:     book.OpenLibraryID,
		Status:            string(book.Status),
		Rating:            book.Rating,
		PersonalNotes:     book.PersonalNotes,
		DateAdded:         book.DateAdded,
		DateStarted:       book.DateStarted,
		DateCompleted:     book.DateCompleted,
		CreatedAt:         book.CreatedAt,
		UpdatedAt:         book.UpdatedAt,
	}
}
