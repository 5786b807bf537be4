// Package sse implements Server-Sent Events for real-time board updates.
package sse

import (
	"time"

	"github.com/corkboardapp/corkboard-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventBookCreated represents a book creation event.
	EventBookCreated EventType = "book.created"
	// EventBookUpdated represents a book update event.
	EventBookUpdated EventType = "book.updated"
	// EventBookDeleted represents a book deletion event.
	EventBookDeleted EventType = "book.deleted"
	// EventBookMoved represents a book being moved between or within shelves.
	EventBookMoved EventType = "book.moved"

	// EventShelfCreated represents a shelf creation event.
	EventShelfCreated EventType = "shelf.created"
	// EventShelfUpdated represents a shelf update event.
	EventShelfUpdated EventType = "shelf.updated"
	// EventShelfDeleted represents a shelf deletion event.
	EventShelfDeleted EventType = "shelf.deleted"
	// EventShelvesReordered represents a change to shelf ordering.
	EventShelvesReordered EventType = "shelf.reordered"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// Board events are private to their owner. Every event carries the
	// owning user's ID and is only delivered to that user's connections.
	UserID string `json:"-"`
}

// BookEventData is the data payload for book created/updated events.
type BookEventData struct {
	Book *domain.Book `json:"book"`
}

// BookDeletedEventData is the data payload for book delete events.
type BookDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	BookID    string    `json:"book_id"`
}

// BookMovedEventData is the data payload for move events. Book is only
// present when the move changed the book's status or dates.
type BookMovedEventData struct {
	Book        *domain.Book `json:"book,omitempty"`
	BookID      string       `json:"book_id"`
	PositionID  string       `json:"position_id"`
	FromShelfID string       `json:"from_shelf_id"`
	ToShelfID   string       `json:"to_shelf_id"`
	Index       int          `json:"index"`
}

// ShelfEventData is the data payload for shelf created/updated events.
type ShelfEventData struct {
	Shelf *domain.Shelf `json:"shelf"`
}

// ShelfDeletedEventData is the data payload for shelf delete events.
type ShelfDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	ShelfID   string    `json:"shelf_id"`
}

// ShelvesReorderedEventData carries the new shelf ordering.
type ShelvesReorderedEventData struct {
	ShelfIDs []string `json:"shelf_ids"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewBookCreatedEvent creates a book created event for a user's board.
func NewBookCreatedEvent(userID string, book *domain.Book) Event {
	return Event{
		Type:      EventBookCreated,
		Timestamp: time.Now(),
		UserID:    userID,
		Data:      BookEventData{Book: book},
	}
}

// NewBookUpdatedEvent creates a book updated event for a user's board.
func NewBookUpdatedEvent(userID string, book *domain.Book) Event {
	return Event{
		Type:      EventBookUpdated,
		Timestamp: time.Now(),
		UserID:    userID,
		Data:      BookEventData{Book: book},
	}
}

// NewBookDeletedEvent creates a book deleted event for a user's board.
func NewBookDeletedEvent(userID, bookID string) Event {
	return Event{
		Type:      EventBookDeleted,
		Timestamp: time.Now(),
		UserID:    userID,
		Data: BookDeletedEventData{
			BookID:    bookID,
			DeletedAt: time.Now(),
		},
	}
}

// NewBookMovedEvent creates a move event for a user's board.
func NewBookMovedEvent(userID string, data BookMovedEventData) Event {
	return Event{
		Type:      EventBookMoved,
		Timestamp: time.Now(),
		UserID:    userID,
		Data:      data,
	}
}

// NewShelfCreatedEvent creates a shelf created event for a user's board.
func NewShelfCreatedEvent(userID string, shelf *domain.Shelf) Event {
	return Event{
		Type:      EventShelfCreated,
		Timestamp: time.Now(),
		UserID:    userID,
		Data:      ShelfEventData{Shelf: shelf},
	}
}

// NewShelfUpdatedEvent creates a shelf updated event for a user's board.
func NewShelfUpdatedEvent(userID string, shelf *domain.Shelf) Event {
	return Event{
		Type:      EventShelfUpdated,
		Timestamp: time.Now(),
		UserID:    userID,
		Data:      ShelfEventData{Shelf: shelf},
	}
}

// NewShelfDeletedEvent creates a shelf deleted event for a user's board.
func NewShelfDeletedEvent(userID, shelfID string) Event {
	return Event{
		Type:      EventShelfDeleted,
		Timestamp: time.Now(),
		UserID:    userID,
		Data: ShelfDeletedEventData{
			ShelfID:   shelfID,
			DeletedAt: time.Now(),
		},
	}
}

// NewShelvesReorderedEvent creates a reorder event for a user's board.
func NewShelvesReorderedEvent(userID string, shelfIDs []string) Event {
	return Event{
		Type:      EventShelvesReordered,
		Timestamp: time.Now(),
		UserID:    userID,
		Data:      ShelvesReorderedEventData{ShelfIDs: shelfIDs},
	}
}

// NewHeartbeatEvent creates a keepalive event delivered to all clients.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
	}
}
