// Package domain holds the core types for the CorkBoard library: books,
// shelves, and the positions that pin books to shelves in order.
package domain

import "time"

// Record provides common identity and timestamp fields for stored entities.
type Record struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity changes.
func (r *Record) Touch() {
	r.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (r *Record) InitTimestamps() {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
}

// DateFormat is the layout for calendar-date fields (date_added and friends).
// These are dates, not instants; no time zone is attached.
const DateFormat = "2006-01-02"

// Today returns the current calendar date in DateFormat.
func Today() string {
	return time.Now().Format(DateFormat)
}
