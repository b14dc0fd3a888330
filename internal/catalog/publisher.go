package catalog

import (
	"github.com/inkchain/storecatalog/internal/config"
	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/inkchain/storecatalog/internal/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// TopicPublished is emitted after a catalog has been published
const TopicPublished = "catalog:published"

// Notifier receives publication events
type Notifier interface {
	Publish(topic string, args ...interface{})
}

// Publisher writes a build to the generated document and the snapshot store
type Publisher struct {
	cfg      *config.AppConfig
	store    *store.SnapshotStore
	notifier Notifier
}

// NewPublisher returns a publisher; store and notifier are optional
func NewPublisher(cfg *config.AppConfig, st *store.SnapshotStore, n Notifier) *Publisher {
	return &Publisher{cfg: cfg, store: st, notifier: n}
}

// Publish writes the generated document and saves a snapshot. It returns
// the snapshot id, empty when no store is configured.
func (p *Publisher) Publish(b *Build) (string, error) {
	path := p.cfg.CatalogPath(p.cfg.Catalog.GeneratedFile)
	err := WriteDocument(path, domain.CatalogDocument{
		GeneratedAt: b.Catalog.GeneratedAt,
		Products:    b.Catalog.Products,
	})
	if err != nil {
		return "", errors.Wrap(err, "publish catalog")
	}

	var id string
	if p.store != nil {
		id, err = p.store.Save(&store.Snapshot{
			CreatedAt: b.Catalog.GeneratedAt,
			Catalog:   *b.Catalog,
			Rates:     b.Rates,
			Sources:   b.Statuses,
		})
		if err != nil {
			return "", errors.Wrap(err, "publish catalog")
		}
	}
	zap.L().Info("catalog published",
		zap.String("namespace", "catalog"),
		zap.String("path", path),
		zap.String("snapshot", id),
		zap.Int("products", len(b.Catalog.Products)),
	)
	if p.notifier != nil {
		p.notifier.Publish(TopicPublished, id, len(b.Catalog.Products))
	}
	return id, nil
}
