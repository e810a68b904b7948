// Package di provides dependency injection configuration for the StoRe server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/storeapp/store-server/internal/config"
	"github.com/storeapp/store-server/internal/di/providers"
	"github.com/storeapp/store-server/internal/logger"
	"github.com/storeapp/store-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns the server handle for
// lifecycle management. This triggers lazy initialization of the full graph.
func Bootstrap(injector *do.RootScope) (*providers.HTTPServerHandle, error) {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*service.Catalog](injector)

	return do.Invoke[*providers.HTTPServerHandle](injector)
}
