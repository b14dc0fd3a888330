package app

import (
	"context"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/inkchain/storecatalog/internal/catalog"
	"github.com/inkchain/storecatalog/internal/config"
	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/inkchain/storecatalog/internal/rates"
	"github.com/inkchain/storecatalog/internal/store"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	TopicCatalogPublished = catalog.TopicPublished
	TopicRatesUpdated     = "rates:updated"
)

type Application struct {
	appConfig *config.AppConfig
	bus       EventBus.Bus
	sched     *cron.Cron
	snapshots *store.SnapshotStore
	history   *rates.History
	pipeline  *catalog.Pipeline
	service   *catalog.Service
	publisher *catalog.Publisher
	updater   *rates.Updater
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider      = (*Application)(nil)
	_ CatalogProvider     = (*Application)(nil)
	_ SnapshotProvider    = (*Application)(nil)
	_ RateHistoryProvider = (*Application)(nil)
	_ SchedulerProvider   = (*Application)(nil)
	_ EventProvider       = (*Application)(nil)
	_ AppContext          = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig, bus: EventBus.New()}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

func (a *Application) Catalog() *catalog.Service {
	return a.service
}

func (a *Application) Pipeline() *catalog.Pipeline {
	return a.pipeline
}

func (a *Application) Snapshots() *store.SnapshotStore {
	return a.snapshots
}

func (a *Application) RateHistory() *rates.History {
	return a.history
}

// Scheduler returns the cron scheduler, nil until background jobs start
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// InitLogger replaces the global zap logger according to cfg
func InitLogger(cfg *config.AppConfig) error {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	if cfg.System.Debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zapConfig.OutputPaths = []string{"stderr"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		filename := cfg.ResolvePath(cfg.Logger.Filename)
		if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
			return errors.Wrap(err, "create log dir")
		}
		lumberJackLogger := &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stderr),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			return errors.Wrap(err, "build logger")
		}
	}

	zap.ReplaceGlobals(logger)
	return nil
}

// Init wires the logger, the snapshot store, the rate history and the
// catalog service. Failing to open the optional stores is logged and the
// application continues without them.
func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	a.snapshots, err = store.Open(cfg.ResolvePath(cfg.Store.Path), cfg.Store.NodeID, cfg.Store.Retention)
	if err != nil {
		zap.L().Warn("snapshot store unavailable",
			zap.String("namespace", "app"),
			zap.Error(err),
		)
	}
	a.history, err = rates.OpenHistory(cfg.ResolvePath(cfg.Rates.HistoryDir))
	if err != nil {
		zap.L().Warn("rate history unavailable",
			zap.String("namespace", "app"),
			zap.Error(err),
		)
	}

	a.pipeline = catalog.NewPipeline(cfg, nil)
	a.service = catalog.NewService(cfg, a.pipeline)
	a.publisher = catalog.NewPublisher(cfg, a.snapshots, a.bus)
	a.updater = &rates.Updater{
		Path: cfg.CatalogPath(cfg.Catalog.RatesFile),
		Provider: &rates.FrankfurterClient{
			URL:       cfg.Rates.ProviderURL,
			Timeout:   cfg.Rates.Timeout,
			UserAgent: cfg.Sheet.UserAgent,
			Attempts:  cfg.Sheet.Attempts,
			Backoff:   cfg.Sheet.Backoff,
		},
		History:   a.history,
		Base:      cfg.Catalog.BaseCurrency,
		Secondary: cfg.Catalog.SecondaryCurrency,
	}

	a.subscribe()
	return nil
}

func (a *Application) subscribe() {
	_ = a.bus.Subscribe(TopicCatalogPublished, func(id string, count int) {
		zap.L().Info("catalog snapshot published",
			zap.String("namespace", "app"),
			zap.String("snapshot", id),
			zap.Int("products", count),
		)
	})
	_ = a.bus.Subscribe(TopicRatesUpdated, func(sheet domain.RateSheet) {
		zap.L().Info("rate sheet updated",
			zap.String("namespace", "app"),
			zap.Float64("rate", sheet.BaseToSecondaryRate),
			zap.String("source", sheet.SourceTag),
		)
	})
}

// WarmStart seeds the catalog cache from the newest snapshot so readers
// have data before the first pipeline run finishes.
func (a *Application) WarmStart() bool {
	if a.snapshots == nil {
		return false
	}
	snap, err := a.snapshots.Latest()
	if err != nil || snap == nil {
		return false
	}
	cat := snap.Catalog
	a.service.Warm(&cat)
	zap.L().Info("catalog warmed from snapshot",
		zap.String("namespace", "app"),
		zap.String("snapshot", snap.ID),
		zap.Int("products", len(cat.Products)),
	)
	return true
}

// BuildAndPublish runs the pipeline, swaps the result into the cache and
// publishes it. It returns the build and the snapshot id.
func (a *Application) BuildAndPublish(ctx context.Context) (*catalog.Build, string, error) {
	b, err := a.service.Refresh(ctx)
	if err != nil {
		return nil, "", err
	}
	id, err := a.Publish(b)
	if err != nil {
		return b, "", err
	}
	return b, id, nil
}

// Publish writes b as the generated document and saves it as a snapshot
func (a *Application) Publish(b *catalog.Build) (string, error) {
	return a.publisher.Publish(b)
}

// UpdateRates refreshes the rate sheet from the provider
func (a *Application) UpdateRates(ctx context.Context) (domain.RateSheet, error) {
	sheet, err := a.updater.Update(ctx)
	if err != nil {
		return domain.RateSheet{}, err
	}
	a.bus.Publish(TopicRatesUpdated, sheet)
	return sheet, nil
}

// RatesUpdater returns the rate sheet updater
func (a *Application) RatesUpdater() *rates.Updater {
	return a.updater
}

// OverrideRateProvider replaces the rate provider (used in tests).
func (a *Application) OverrideRateProvider(p rates.Provider) {
	a.updater.Provider = p
}

// StartBackgroundJobs starts the cron scheduler; jobs stop with Release
func (a *Application) StartBackgroundJobs(ctx context.Context) error {
	return a.initJob(ctx)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.history != nil {
		_ = a.history.Close()
	}
	if a.snapshots != nil {
		_ = a.snapshots.Close()
	}
	_ = zap.L().Sync()
}
