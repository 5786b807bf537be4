package domain

// Book is a single title in a user's library. Every book belongs to exactly
// one user; there is no shared catalog table.
type Book struct {
	Record
	UserID            string     `json:"user_id"`
	Title             string     `json:"title"`
	Subtitle          string     `json:"subtitle,omitempty"`
	Author            string     `json:"author"`
	ISBN              string     `json:"isbn,omitempty"`
	Publisher         string     `json:"publisher,omitempty"`
	PublishedDate     string     `json:"published_date,omitempty"` // DateFormat, may be partial ("2006" or "2006-01")
	PageCount         int        `json:"page_count,omitempty"`
	Language          string     `json:"language,omitempty"`
	CoverURL          string     `json:"cover_url,omitempty"`
	CoverThumbnailURL string     `json:"cover_thumbnail_url,omitempty"`
	Description       string     `json:"description,omitempty"`
	GoogleBooksID     string     `json:"google_books_id,omitempty"`
	OpenLibraryID     string     `json:"open_library_id,omitempty"`
	Status            BookStatus `json:"status"`
	Rating            int        `json:"rating,omitempty"` // 1-5, 0 = unrated
	PersonalNotes     string     `json:"personal_notes,omitempty"`
	DateAdded         string     `json:"date_added"`               // DateFormat
	DateStarted       string     `json:"date_started,omitempty"`   // DateFormat
	DateCompleted     string     `json:"date_completed,omitempty"` // DateFormat
}

// ApplyStatus transitions the book to next and derives the reading dates:
// entering "reading" stamps DateStarted unless one is already set, entering
// "completed" stamps DateCompleted, and leaving "completed" clears it.
// Returns false without touching the book when the status is unchanged.
func (b *Book) ApplyStatus(next BookStatus, today string) bool {
	if next == b.Status {
		return false
	}
	prev := b.Status
	b.Status = next

	if next == StatusReading && b.DateStarted == "" {
		b.DateStarted = today
	}
	if next == StatusCompleted {
		b.DateCompleted = today
	} else if prev == StatusCompleted {
		b.DateCompleted = ""
	}

	b.Touch()
	return true
}
