package domain

// BookStatus tracks where a book is in its reading lifecycle.
type BookStatus string

const (
	// StatusTBR means the book is on the to-be-read pile.
	StatusTBR BookStatus = "tbr"
	// StatusReading means the book is currently being read.
	StatusReading BookStatus = "reading"
	// StatusCompleted means the book was finished.
	StatusCompleted BookStatus = "completed"
	// StatusDNF means the book was abandoned (did not finish).
	StatusDNF BookStatus = "dnf"
	// StatusArchived means the book was shelved away from active tracking.
	StatusArchived BookStatus = "archived"
)

// Valid reports whether s is a known status value.
func (s BookStatus) Valid() bool {
	switch s {
	case StatusTBR, StatusReading, StatusCompleted, StatusDNF, StatusArchived:
		return true
	}
	return false
}

// shelfStatuses maps the well-known shelf names to the status a book takes on
// when it lands there. Custom shelves carry no status semantics.
var shelfStatuses = map[string]BookStatus{
	"Currently Reading": StatusReading,
	"To Be Read":        StatusTBR,
	"Completed":         StatusCompleted,
	"Did Not Finish":    StatusDNF,
	"Archived":          StatusArchived,
}

// StatusForShelfName returns the status implied by a shelf name, if any.
// The match is exact; renamed or custom shelves imply no status change.
func StatusForShelfName(name string) (BookStatus, bool) {
	status, ok := shelfStatuses[name]
	return status, ok
}

// DefaultShelfNames lists the shelves seeded for every new user, in rank order.
var DefaultShelfNames = []string{
	"To Be Read",
	"Currently Reading",
	"Completed",
	"Did Not Finish",
}
