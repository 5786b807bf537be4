package sqlite

import (
	"context"
	"database/sql"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, user_id, title, subtitle, author,
	isbn, publisher, published_date, page_count, language,
	cover_url, cover_thumbnail_url, description, google_books_id, open_library_id,
	status, rating, personal_notes, date_added, date_started, date_completed`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt     string
		updatedAt     string
		subtitle      sql.NullString
		isbn          sql.NullString
		publisher     sql.NullString
		publishedDate sql.NullString
		pageCount     sql.NullInt64
		language      sql.NullString
		coverURL      sql.NullString
		coverThumbURL sql.NullString
		description   sql.NullString
		googleBooksID sql.NullString
		openLibraryID sql.NullString
		status        string
		rating        sql.NullInt64
		personalNotes sql.NullString
		dateStarted   sql.NullString
		dateCompleted sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.UserID,
		&b.Title,
		&subtitle,
		&b.Author,
		&isbn,
		&publisher,
		&publishedDate,
		&pageCount,
		&language,
		&coverURL,
		&coverThumbURL,
		&description,
		&googleBooksID,
		&openLibraryID,
		&status,
		&rating,
		&personalNotes,
		&b.DateAdded,
		&dateStarted,
		&dateCompleted,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	// Optional string fields.
	if subtitle.Valid {
		b.Subtitle = subtitle.String
	}
	if isbn.Valid {
		b.ISBN = isbn.String
	}
	if publisher.Valid {
		b.Publisher = publisher.String
	}
	if publishedDate.Valid {
		b.PublishedDate = publishedDate.String
	}
	if pageCount.Valid {
		b.PageCount = int(pageCount.Int64)
	}
	if language.Valid {
		b.Language = language.String
	}
	if coverURL.Valid {
		b.CoverURL = coverURL.String
	}
	if coverThumbURL.Valid {
		b.CoverThumbnailURL = coverThumbURL.String
	}
	if description.Valid {
		b.Description = description.String
	}
	if googleBooksID.Valid {
		b.GoogleBooksID = googleBooksID.String
	}
	if openLibraryID.Valid {
		b.OpenLibraryID = openLibraryID.String
	}
	if personalNotes.Valid {
		b.PersonalNotes = personalNotes.String
	}
	if dateStarted.Valid {
		b.DateStarted = dateStarted.String
	}
	if dateCompleted.Valid {
		b.DateCompleted = dateCompleted.String
	}

	b.Status = domain.BookStatus(status)
	if rating.Valid {
		b.Rating = int(rating.Int64)
	}

	return &b, nil
}

// nullRating maps an unrated book (0) to NULL so the CHECK constraint holds.
func nullRating(rating int) sql.NullInt64 {
	if rating == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(rating), Valid: true}
}

// CreateBook inserts a new book.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, updated_at, user_id, title, subtitle, author,
			isbn, publisher, published_date, page_count, language,
			cover_url, cover_thumbnail_url, description, google_books_id, open_library_id,
			status, rating, personal_notes, date_added, date_started, date_completed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.UserID,
		book.Title,
		nullString(book.Subtitle),
		book.Author,
		nullString(book.ISBN),
		nullString(book.Publisher),
		nullString(book.PublishedDate),
		nullInt64OrNull(book.PageCount),
		nullString(book.Language),
		nullString(book.CoverURL),
		nullString(book.CoverThumbnailURL),
		nullString(book.Description),
		nullString(book.GoogleBooksID),
		nullString(book.OpenLibraryID),
		string(book.Status),
		nullRating(book.Rating),
		nullString(book.PersonalNotes),
		book.DateAdded,
		nullString(book.DateStarted),
		nullString(book.DateCompleted),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBook retrieves a book by ID, scoped to its owner.
// Returns store.ErrNotFound when missing or owned by another user.
func (s *Store) GetBook(ctx context.Context, userID, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ? AND user_id = ?`, id, userID)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns a user's books, optionally filtered by status or shelf.
// Ordered by date added, newest first.
func (s *Store) ListBooks(ctx context.Context, userID string, filter store.BookFilter) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE user_id = ?`
	args := []any{userID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.ShelfID != "" {
		query += ` AND id IN (SELECT book_id FROM book_positions WHERE shelf_id = ?)`
		args = append(args, filter.ShelfID)
	}
	query += ` ORDER BY date_added DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// UpdateBook writes the mutable book fields, scoped to the owner.
// Returns store.ErrNotFound if the book does not exist for that user.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			updated_at = ?, title = ?, subtitle = ?, author = ?,
			isbn = ?, publisher = ?, published_date = ?, page_count = ?, language = ?,
			cover_url = ?, cover_thumbnail_url = ?, description = ?,
			google_books_id = ?, open_library_id = ?,
			status = ?, rating = ?, personal_notes = ?,
			date_added = ?, date_started = ?, date_completed = ?
		WHERE id = ? AND user_id = ?`,
		formatTime(book.UpdatedAt),
		book.Title,
		nullString(book.Subtitle),
		book.Author,
		nullString(book.ISBN),
		nullString(book.Publisher),
		nullString(book.PublishedDate),
		nullInt64OrNull(book.PageCount),
		nullString(book.Language),
		nullString(book.CoverURL),
		nullString(book.CoverThumbnailURL),
		nullString(book.Description),
		nullString(book.GoogleBooksID),
		nullString(book.OpenLibraryID),
		string(book.Status),
		nullRating(book.Rating),
		nullString(book.PersonalNotes),
		book.DateAdded,
		nullString(book.DateStarted),
		nullString(book.DateCompleted),
		book.ID,
		book.UserID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteBook removes a book and, via cascade, its position.
// Returns store.ErrNotFound if the book does not exist for that user.
func (s *Store) DeleteBook(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM books WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
