package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/jam3ahq/jam3a/internal/catalog"
)

// Catalog returns the shared storefront data layer, created on first use
// from the catalog section of the config. When the fallback cache cannot
// be opened the store runs without one and every miss resolves to the
// sample dataset.
func (a *Application) Catalog() *catalog.Store {
	a.catalogOnce.Do(func() {
		cfg := a.appConfig.Catalog
		client := catalog.NewClient(cfg.ApiUrl, time.Duration(cfg.Timeout)*time.Second)
		fallback, err := catalog.OpenFallbackStore(cfg.CachePath)
		if err != nil {
			zap.L().Warn("catalog fallback cache unavailable", zap.Error(err))
		}
		a.catalogStore = catalog.NewStore(client, fallback)
	})
	return a.catalogStore
}
