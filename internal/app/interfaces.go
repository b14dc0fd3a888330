package app

import (
	"context"

	"github.com/asaskevich/EventBus"
	"github.com/inkchain/storecatalog/internal/catalog"
	"github.com/inkchain/storecatalog/internal/config"
	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/inkchain/storecatalog/internal/rates"
	"github.com/inkchain/storecatalog/internal/store"
	"github.com/robfig/cron/v3"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CatalogProvider provides the catalog accessor surface
type CatalogProvider interface {
	Catalog() *catalog.Service
}

// SnapshotProvider provides published snapshot access
type SnapshotProvider interface {
	Snapshots() *store.SnapshotStore
}

// RateHistoryProvider provides the recorded rate series
type RateHistoryProvider interface {
	RateHistory() *rates.History
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// EventProvider provides the in-process event bus
type EventProvider interface {
	Bus() EventBus.Bus
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	ConfigProvider
	CatalogProvider
	SnapshotProvider
	RateHistoryProvider
	SchedulerProvider
	EventProvider

	// BuildAndPublish rebuilds the catalog and publishes it
	BuildAndPublish(ctx context.Context) (*catalog.Build, string, error)
	// UpdateRates refreshes the rate sheet from the provider
	UpdateRates(ctx context.Context) (domain.RateSheet, error)
}
