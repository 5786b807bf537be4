package providers

import (
	"github.com/samber/do/v2"

	"github.com/corkboardapp/corkboard-server/internal/auth"
	"github.com/corkboardapp/corkboard-server/internal/config"
	"github.com/corkboardapp/corkboard-server/internal/logger"
	"github.com/corkboardapp/corkboard-server/internal/metadata/googlebooks"
	"github.com/corkboardapp/corkboard-server/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideShelfService provides the shelf service.
func ProvideShelfService(i do.Injector) (*service.ShelfService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShelfService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	shelfService := do.MustInvoke[*service.ShelfService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, shelfService, log.Logger), nil
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideMoveService provides the move engine.
func ProvideMoveService(i do.Injector) (*service.MoveService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMoveService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideCatalogClient provides the Google Books catalog client.
func ProvideCatalogClient(i do.Injector) (*googlebooks.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return googlebooks.NewClient(log.WithComponent("catalog").Logger, cfg.Catalog.GoogleBooksAPIKey, float64(cfg.Catalog.RequestsPerSecond)), nil
}

// ProvideSearchService provides the catalog search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	catalog := do.MustInvoke[*googlebooks.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(catalog, log.Logger), nil
}
