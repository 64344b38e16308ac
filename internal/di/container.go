// Package di provides dependency injection configuration for the Atlas server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bookatlas/atlas-server/internal/config"
	"github.com/bookatlas/atlas-server/internal/di/providers"
	"github.com/bookatlas/atlas-server/internal/logger"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCatalogCache)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Chat layer
	do.Provide(injector, providers.ProvideOpenAIClient)
	do.Provide(injector, providers.ProvideRequester)
	do.Provide(injector, providers.ProvideRateLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services in dependency order. Invoking the
// HTTP server provider pulls in everything else transitively; the
// earlier invokes exist so a failure is reported against the layer that
// caused it.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
