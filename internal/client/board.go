package client

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	domainerrors "github.com/corkboardapp/corkboard-server/internal/errors"
)

// Board is an optimistic local mirror of the user's shelves, books, and
// positions. Every mutation applies its predicted outcome to the mirror
// first (using the same status-derivation rules the server applies), then
// issues the HTTP call and either reconciles the authoritative response or
// restores the pre-mutation snapshot exactly.
//
// Mutations are serialized by a mutex. If callers issue overlapping
// operations from multiple goroutines, each holds its own independent
// snapshot; rolling one back restores the state as of that operation's
// start, so overlapping edits to the same entity resolve last-writer-wins.
// That is a documented limitation, matching a UI driving one action at a
// time.
type Board struct {
	mu        sync.Mutex
	api       *Client
	logger    *slog.Logger
	books     []domain.Book
	shelves   []domain.Shelf
	positions []domain.BookPosition
}

// NewBoard creates an empty board mirror backed by api. Call Load to
// hydrate it.
func NewBoard(api *Client, logger *slog.Logger) *Board {
	return &Board{
		api:    api,
		logger: logger,
	}
}

// snapshot is a full copy of the mirror. Entities are value types, so
// cloning the slices detaches the copy from future mutations.
type snapshot struct {
	books     []domain.Book
	shelves   []domain.Shelf
	positions []domain.BookPosition
}

func (b *Board) snapshotLocked() snapshot {
	return snapshot{
		books:     slices.Clone(b.books),
		shelves:   slices.Clone(b.shelves),
		positions: slices.Clone(b.positions),
	}
}

func (b *Board) restoreLocked(s snapshot) {
	b.books = s.books
	b.shelves = s.shelves
	b.positions = s.positions
}

// Load hydrates the mirror from the server, replacing any local state.
func (b *Board) Load(ctx context.Context) error {
	board, err := b.api.fetchBoard(ctx)
	if err != nil {
		return err
	}
	books, err := b.api.fetchBooks(ctx)
	if err != nil {
		return err
	}

	shelves := make([]domain.Shelf, 0, len(board.Shelves))
	positions := make([]domain.BookPosition, 0)
	for _, bs := range board.Shelves {
		shelves = append(shelves, bs.Shelf)
		positions = append(positions, bs.Positions...)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.books = books
	b.shelves = shelves
	b.positions = positions
	return nil
}

// === Reads ===

// Shelves returns the shelves in rank order.
func (b *Board) Shelves() []domain.Shelf {
	b.mu.Lock()
	defer b.mu.Unlock()
	shelves := slices.Clone(b.shelves)
	sort.SliceStable(shelves, func(i, j int) bool { return shelves[i].Rank < shelves[j].Rank })
	return shelves
}

// Books returns all books in the mirror.
func (b *Board) Books() []domain.Book {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.books)
}

// BooksOnShelf returns the books pinned to a shelf in rank order.
func (b *Board) BooksOnShelf(shelfID string) []domain.Book {
	b.mu.Lock()
	defer b.mu.Unlock()

	var onShelf []domain.BookPosition
	for _, pos := range b.positions {
		if pos.ShelfID == shelfID {
			onShelf = append(onShelf, pos)
		}
	}
	sort.SliceStable(onShelf, func(i, j int) bool { return onShelf[i].Rank < onShelf[j].Rank })

	books := make([]domain.Book, 0, len(onShelf))
	for _, pos := range onShelf {
		if i := b.bookIndexLocked(pos.BookID); i >= 0 {
			books = append(books, b.books[i])
		}
	}
	return books
}

// Stats summarizes the mirror's library.
type Stats struct {
	TotalBooks   int
	TotalShelves int
	ByStatus     map[domain.BookStatus]int
}

// Stats returns counts over the local mirror.
func (b *Board) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := Stats{
		TotalBooks:   len(b.books),
		TotalShelves: len(b.shelves),
		ByStatus:     make(map[domain.BookStatus]int),
	}
	for _, book := range b.books {
		stats.ByStatus[book.Status]++
	}
	return stats
}

// === Mutations ===

// MoveBook moves a book to a shelf position. The mirror reflects the move
// immediately, including the predicted status and date changes; the server
// response then overwrites the prediction with authoritative values.
func (b *Board) MoveBook(ctx context.Context, bookID, toShelfID string, index int) error {
	b.mu.Lock()
	snap := b.snapshotLocked()
	fromShelfID, err := b.applyMoveLocked(bookID, toShelfID, index)
	b.mu.Unlock()
	if err != nil {
		return err
	}

	result, err := b.api.moveBook(ctx, bookID, fromShelfID, toShelfID, index)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.restoreLocked(snap)
		return err
	}

	if i := b.positionIndexByBookLocked(bookID); i >= 0 {
		b.positions[i] = result.Position
	}
	if result.Book != nil {
		if i := b.bookIndexLocked(result.Book.ID); i >= 0 {
			b.books[i] = *result.Book
		}
	}
	return nil
}

// AddBookParams contains fields for a new book.
type AddBookParams struct {
	Title         string
	Subtitle      string
	Author        string
	ISBN          string
	Publisher     string
	PublishedDate string
	Description   string
	CoverURL      string
	GoogleBooksID string
	ShelfID       string
}

// AddBook adds a book, optionally placing it on a shelf. The mirror gains a
// temporary entry immediately; the server's book replaces it on success.
// The created position keeps its temporary ID until the next Load, since
// the create response carries only the book.
func (b *Board) AddBook(ctx context.Context, params AddBookParams) (*domain.Book, error) {
	tempID := "temp_" + uuid.NewString()

	b.mu.Lock()
	snap := b.snapshotLocked()
	b.applyAddLocked(tempID, params)
	b.mu.Unlock()

	fields := map[string]any{"title": params.Title}
	setIfNotEmpty(fields, "subtitle", params.Subtitle)
	setIfNotEmpty(fields, "author", params.Author)
	setIfNotEmpty(fields, "isbn", params.ISBN)
	setIfNotEmpty(fields, "publisher", params.Publisher)
	setIfNotEmpty(fields, "published_date", params.PublishedDate)
	setIfNotEmpty(fields, "description", params.Description)
	setIfNotEmpty(fields, "cover_url", params.CoverURL)
	setIfNotEmpty(fields, "google_books_id", params.GoogleBooksID)
	setIfNotEmpty(fields, "shelf_id", params.ShelfID)

	book, err := b.api.createBook(ctx, fields)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.restoreLocked(snap)
		return nil, err
	}

	// Re-key the temporary entry to the server's identity.
	if i := b.bookIndexLocked(tempID); i >= 0 {
		b.books[i] = *book
	}
	for i := range b.positions {
		if b.positions[i].BookID == tempID {
			b.positions[i].BookID = book.ID
		}
	}
	return book, nil
}

// UpdateBookParams contains book fields to change. Nil pointers leave the
// current value untouched.
type UpdateBookParams struct {
	Title         *string
	Author        *string
	Description   *string
	PersonalNotes *string
	Rating        *int
	Status        *string
	DateStarted   *string
	DateCompleted *string
}

// UpdateBook patches a book. Edits apply literally, matching the server.
func (b *Board) UpdateBook(ctx context.Context, bookID string, params UpdateBookParams) error {
	b.mu.Lock()
	snap := b.snapshotLocked()
	i := b.bookIndexLocked(bookID)
	if i < 0 {
		b.mu.Unlock()
		return domainerrors.NotFoundf("book %s not in local mirror", bookID)
	}
	applyBookPatch(&b.books[i], params)
	b.mu.Unlock()

	fields := make(map[string]any)
	setIfNotNil(fields, "title", params.Title)
	setIfNotNil(fields, "author", params.Author)
	setIfNotNil(fields, "description", params.Description)
	setIfNotNil(fields, "personal_notes", params.PersonalNotes)
	if params.Rating != nil {
		fields["rating"] = *params.Rating
	}
	setIfNotNil(fields, "status", params.Status)
	setIfNotNil(fields, "date_started", params.DateStarted)
	setIfNotNil(fields, "date_completed", params.DateCompleted)

	book, err := b.api.updateBook(ctx, bookID, fields)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.restoreLocked(snap)
		return err
	}
	if i := b.bookIndexLocked(bookID); i >= 0 {
		b.books[i] = *book
	}
	return nil
}

// DeleteBook removes a book and its position from the mirror and the server.
func (b *Board) DeleteBook(ctx context.Context, bookID string) error {
	b.mu.Lock()
	snap := b.snapshotLocked()
	b.applyDeleteBookLocked(bookID)
	b.mu.Unlock()

	err := b.api.deleteBook(ctx, bookID)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.restoreLocked(snap)
		return err
	}
	return nil
}

// CreateShelf appends a shelf to the board.
func (b *Board) CreateShelf(ctx context.Context, name, description, color string) (*domain.Shelf, error) {
	tempID := "temp_" + uuid.NewString()

	b.mu.Lock()
	snap := b.snapshotLocked()
	rank := 0
	for _, shelf := range b.shelves {
		if shelf.Rank >= rank {
			rank = shelf.Rank + 1
		}
	}
	b.shelves = append(b.shelves, domain.Shelf{
		Record:      domain.Record{ID: tempID},
		Name:        name,
		Description: description,
		Color:       color,
		Rank:        rank,
	})
	b.mu.Unlock()

	fields := map[string]any{"name": name}
	setIfNotEmpty(fields, "description", description)
	setIfNotEmpty(fields, "color", color)

	shelf, err := b.api.createShelf(ctx, fields)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.restoreLocked(snap)
		return nil, err
	}
	if i := b.shelfIndexLocked(tempID); i >= 0 {
		b.shelves[i] = *shelf
	}
	return shelf, nil
}

// UpdateShelfParams contains shelf fields to change.
type UpdateShelfParams struct {
	Name        *string
	Description *string
	Color       *string
	IsArchived  *bool
}

// UpdateShelf patches a shelf.
func (b *Board) UpdateShelf(ctx context.Context, shelfID string, params UpdateShelfParams) error {
	b.mu.Lock()
	snap := b.snapshotLocked()
	i := b.shelfIndexLocked(shelfID)
	if i < 0 {
		b.mu.Unlock()
		return domainerrors.NotFoundf("shelf %s not in local mirror", shelfID)
	}
	if params.Name != nil {
		b.shelves[i].Name = *params.Name
	}
	if params.Description != nil {
		b.shelves[i].Description = *params.Description
	}
	if params.Color != nil {
		b.shelves[i].Color = *params.Color
	}
	if params.IsArchived != nil {
		b.shelves[i].IsArchived = *params.IsArchived
	}
	b.mu.Unlock()

	fields := make(map[string]any)
	setIfNotNil(fields, "name", params.Name)
	setIfNotNil(fields, "description", params.Description)
	setIfNotNil(fields, "color", params.Color)
	if params.IsArchived != nil {
		fields["is_archived"] = *params.IsArchived
	}

	shelf, err := b.api.updateShelf(ctx, shelfID, fields)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.restoreLocked(snap)
		return err
	}
	if i := b.shelfIndexLocked(shelfID); i >= 0 {
		b.shelves[i] = *shelf
	}
	return nil
}

// DeleteShelf removes a shelf and its positions.
func (b *Board) DeleteShelf(ctx context.Context, shelfID string) error {
	b.mu.Lock()
	snap := b.snapshotLocked()
	if i := b.shelfIndexLocked(shelfID); i >= 0 {
		b.shelves = slices.Delete(b.shelves, i, i+1)
	}
	kept := b.positions[:0:0]
	for _, pos := range b.positions {
		if pos.ShelfID != shelfID {
			kept = append(kept, pos)
		}
	}
	b.positions = kept
	b.mu.Unlock()

	err := b.api.deleteShelf(ctx, shelfID)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.restoreLocked(snap)
		return err
	}
	return nil
}

// ReorderShelves reorders the board columns to match shelfIDs.
func (b *Board) ReorderShelves(ctx context.Context, shelfIDs []string) error {
	b.mu.Lock()
	snap := b.snapshotLocked()
	for rank, id := range shelfIDs {
		if i := b.shelfIndexLocked(id); i >= 0 {
			b.shelves[i].Rank = rank
		}
	}
	b.mu.Unlock()

	shelves, err := b.api.reorderShelves(ctx, shelfIDs)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.restoreLocked(snap)
		return err
	}
	b.shelves = shelves
	return nil
}

// === Internal mutation helpers ===

// applyMoveLocked applies the predicted move to the mirror and returns the
// source shelf ID. The caller holds the lock.
func (b *Board) applyMoveLocked(bookID, toShelfID string, index int) (string, error) {
	posIdx := b.positionIndexByBookLocked(bookID)
	if posIdx < 0 {
		return "", domainerrors.NotFoundf("book %s has no position in local mirror", bookID)
	}
	shelfIdx := b.shelfIndexLocked(toShelfID)
	if shelfIdx < 0 {
		return "", domainerrors.NotFoundf("shelf %s not in local mirror", toShelfID)
	}

	fromShelfID := b.positions[posIdx].ShelfID

	// Order the destination's remaining positions, clamp the index, and
	// renumber both shelves densely.
	var dest []int
	for i := range b.positions {
		if b.positions[i].ShelfID == toShelfID && b.positions[i].BookID != bookID {
			dest = append(dest, i)
		}
	}
	sort.SliceStable(dest, func(i, j int) bool {
		return b.positions[dest[i]].Rank < b.positions[dest[j]].Rank
	})
	if index > len(dest) {
		index = len(dest)
	}

	b.positions[posIdx].ShelfID = toShelfID
	rank := 0
	for i, di := range dest {
		if i == index {
			b.positions[posIdx].Rank = rank
			rank++
		}
		b.positions[di].Rank = rank
		rank++
	}
	if index >= len(dest) {
		b.positions[posIdx].Rank = rank
	}

	if fromShelfID != toShelfID {
		b.renumberShelfLocked(fromShelfID)
	}

	// Same derivation rule as the server: lifecycle shelves imply a status.
	if status, ok := domain.StatusForShelfName(b.shelves[shelfIdx].Name); ok {
		if i := b.bookIndexLocked(bookID); i >= 0 {
			b.books[i].ApplyStatus(status, domain.Today())
		}
	}

	return fromShelfID, nil
}

func (b *Board) applyAddLocked(tempID string, params AddBookParams) {
	book := domain.Book{
		Record:        domain.Record{ID: tempID},
		Title:         params.Title,
		Subtitle:      params.Subtitle,
		Author:        params.Author,
		ISBN:          params.ISBN,
		Publisher:     params.Publisher,
		PublishedDate: params.PublishedDate,
		Description:   params.Description,
		CoverURL:      params.CoverURL,
		GoogleBooksID: params.GoogleBooksID,
		Status:        domain.StatusTBR,
		DateAdded:     domain.Today(),
	}

	if params.ShelfID != "" {
		if i := b.shelfIndexLocked(params.ShelfID); i >= 0 {
			if status, ok := domain.StatusForShelfName(b.shelves[i].Name); ok {
				book.ApplyStatus(status, domain.Today())
			}
			count := 0
			for _, pos := range b.positions {
				if pos.ShelfID == params.ShelfID {
					count++
				}
			}
			b.positions = append(b.positions, domain.BookPosition{
				Record:  domain.Record{ID: "temp_" + uuid.NewString()},
				BookID:  tempID,
				ShelfID: params.ShelfID,
				Rank:    count,
			})
		}
	}

	b.books = append(b.books, book)
}

func (b *Board) applyDeleteBookLocked(bookID string) {
	if i := b.bookIndexLocked(bookID); i >= 0 {
		b.books = slices.Delete(b.books, i, i+1)
	}
	if i := b.positionIndexByBookLocked(bookID); i >= 0 {
		shelfID := b.positions[i].ShelfID
		b.positions = slices.Delete(b.positions, i, i+1)
		b.renumberShelfLocked(shelfID)
	}
}

// renumberShelfLocked reassigns dense ranks 0..n-1 within a shelf,
// preserving the current order.
func (b *Board) renumberShelfLocked(shelfID string) {
	var idx []int
	for i := range b.positions {
		if b.positions[i].ShelfID == shelfID {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return b.positions[idx[i]].Rank < b.positions[idx[j]].Rank
	})
	for rank, i := range idx {
		b.positions[i].Rank = rank
	}
}

func (b *Board) bookIndexLocked(bookID string) int {
	for i := range b.books {
		if b.books[i].ID == bookID {
			return i
		}
	}
	return -1
}

func (b *Board) shelfIndexLocked(shelfID string) int {
	for i := range b.shelves {
		if b.shelves[i].ID == shelfID {
			return i
		}
	}
	return -1
}

func (b *Board) positionIndexByBookLocked(bookID string) int {
	for i := range b.positions {
		if b.positions[i].BookID == bookID {
			return i
		}
	}
	return -1
}

func applyBookPatch(book *domain.Book, params UpdateBookParams) {
	if params.Title != nil {
		book.Title = *params.Title
	}
	if params.Author != nil {
		book.Author = *params.Author
	}
	if params.Description != nil {
		book.Description = *params.Description
	}
	if params.PersonalNotes != nil {
		book.PersonalNotes = *params.PersonalNotes
	}
	if params.Rating != nil {
		book.Rating = *params.Rating
	}
	if params.Status != nil {
		book.Status = domain.BookStatus(*params.Status)
	}
	if params.DateStarted != nil {
		book.DateStarted = *params.DateStarted
	}
	if params.DateCompleted != nil {
		book.DateCompleted = *params.DateCompleted
	}
}

func setIfNotEmpty(fields map[string]any, key, value string) {
	if value != "" {
		fields[key] = value
	}
}

func setIfNotNil(fields map[string]any, key string, value *string) {
	if value != nil {
		fields[key] = *value
	}
}
