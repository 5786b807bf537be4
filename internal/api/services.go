package api

import (
	"github.com/corkboardapp/corkboard-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	Shelf   *service.ShelfService
	Book    *service.BookService
	Move    *service.MoveService
	Search  *service.SearchService
}
