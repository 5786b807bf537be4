package domain

// Shelf is a named, ordered list a user pins books to. Shelves themselves
// carry a rank so the board renders them in a stable order.
type Shelf struct {
	Record
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"` // #RRGGBB
	Icon        string `json:"icon,omitempty"`
	Rank        int    `json:"rank"`
	IsDefault   bool   `json:"is_default"`
	IsArchived  bool   `json:"is_archived"`
}

// Status returns the book status this shelf implies, if it is one of the
// well-known lifecycle shelves.
func (s *Shelf) Status() (BookStatus, bool) {
	return StatusForShelfName(s.Name)
}

// BookPosition pins one book to one shelf at a rank. A book occupies exactly
// one position per user at a time; moving it updates this row rather than
// creating another.
type BookPosition struct {
	Record
	UserID        string `json:"user_id"`
	BookID        string `json:"book_id"`
	ShelfID       string `json:"shelf_id"`
	Rank          int    `json:"rank"`
	MasterRank    *int   `json:"master_rank,omitempty"`
	YearCompleted *int   `json:"year_completed,omitempty"`
}

// BoardShelf is a shelf together with its positions in rank order.
type BoardShelf struct {
	Shelf
	Positions []BookPosition `json:"positions"`
}

// Board is everything needed to render a user's shelves: shelves in rank
// order, each with its positions in rank order.
type Board struct {
	Shelves []BoardShelf `json:"shelves"`
}
