package app

import (
	"context"

	"go.uber.org/zap"
)

// SchedCatalogRefreshTask rebuilds and publishes the catalog
func (a *Application) SchedCatalogRefreshTask(ctx context.Context) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	b, id, err := a.BuildAndPublish(ctx)
	if err != nil {
		zap.L().Error("catalog refresh failed",
			zap.String("namespace", "app"),
			zap.Error(err),
		)
		return
	}
	zap.L().Info("catalog refreshed",
		zap.String("namespace", "app"),
		zap.String("snapshot", id),
		zap.Int("products", len(b.Catalog.Products)),
	)
}

// SchedRatesUpdateTask refreshes the rate sheet; on failure the existing
// sheet stays in place.
func (a *Application) SchedRatesUpdateTask(ctx context.Context) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	if _, err := a.UpdateRates(ctx); err != nil {
		zap.L().Warn("rate update failed, keeping current sheet",
			zap.String("namespace", "app"),
			zap.Error(err),
		)
	}
}
