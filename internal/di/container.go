// Package di provides dependency injection configuration for the CorkBoard server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/corkboardapp/corkboard-server/internal/auth"
	"github.com/corkboardapp/corkboard-server/internal/config"
	"github.com/corkboardapp/corkboard-server/internal/di/providers"
	"github.com/corkboardapp/corkboard-server/internal/logger"
	"github.com/corkboardapp/corkboard-server/internal/metadata/googlebooks"
	"github.com/corkboardapp/corkboard-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Catalog layer
	do.Provide(injector, providers.ProvideCatalogClient)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideShelfService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideMoveService)
	do.Provide(injector, providers.ProvideSearchService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*googlebooks.Client](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.ShelfService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.MoveService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
