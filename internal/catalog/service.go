package catalog

import (
	"context"
	"sync/atomic"

	"github.com/inkchain/storecatalog/internal/assets"
	"github.com/inkchain/storecatalog/internal/config"
	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/inkchain/storecatalog/internal/pricing"
	"github.com/inkchain/storecatalog/internal/sources"
)

// Service is the read-only accessor surface handed to presentation code
type Service struct {
	cfg       *config.AppConfig
	pipeline  *Pipeline
	cache     *Cache
	resolver  atomic.Pointer[assets.Resolver]
	lastBuild atomic.Pointer[Build]
}

// NewService wires a cache whose loader runs pipeline
func NewService(cfg *config.AppConfig, pipeline *Pipeline) *Service {
	s := &Service{cfg: cfg, pipeline: pipeline}
	s.cache = NewCache(s.load, domain.StoreInfo{Name: cfg.Catalog.StoreName, Currency: cfg.Catalog.BaseCurrency})
	return s
}

func (s *Service) load(ctx context.Context) (*domain.Catalog, error) {
	b, err := s.pipeline.Run(ctx)
	if err != nil {
		return nil, err
	}
	s.remember(b)
	return b.Catalog, nil
}

func (s *Service) remember(b *Build) {
	s.resolver.Store(b.Resolver)
	s.lastBuild.Store(b)
}

// Refresh rebuilds the catalog and swaps it into the cache
func (s *Service) Refresh(ctx context.Context) (*Build, error) {
	b, err := s.pipeline.Run(ctx)
	if err != nil {
		return nil, err
	}
	s.remember(b)
	s.cache.Store(b.Catalog)
	return b, nil
}

// Warm seeds the cache with a previously published catalog
func (s *Service) Warm(cat *domain.Catalog) {
	s.cache.Store(cat)
}

// LastBuild returns the most recent pipeline result, or nil
func (s *Service) LastBuild() *Build {
	return s.lastBuild.Load()
}

// GetCatalog returns the current catalog; it never fails
func (s *Service) GetCatalog(ctx context.Context) *domain.Catalog {
	return s.cache.Load(ctx)
}

// GetProductByID finds a product by id or sku
func (s *Service) GetProductByID(ctx context.Context, idOrSku string) *domain.ProductRecord {
	return s.GetCatalog(ctx).Product(idOrSku)
}

// GetRates reads the rate sheet from disk on every call so rate updates
// are picked up without a catalog rebuild.
func (s *Service) GetRates() domain.RateSheet {
	sheet, _ := sources.ReadRateSheet(s.cfg.CatalogPath(s.cfg.Catalog.RatesFile),
		s.cfg.Catalog.BaseCurrency, s.cfg.Catalog.SecondaryCurrency, s.cfg.Catalog.FallbackRate)
	return sheet
}

// ResolveDownloadTarget returns the product's delivery target
func (s *Service) ResolveDownloadTarget(p domain.ProductRecord) domain.AssetRef {
	if p.Asset.Href != "" {
		return p.Asset
	}
	r := s.resolver.Load()
	if r == nil {
		r = assets.NewResolver(nil, nil)
	}
	return r.ResolveDownloadTarget(p)
}

// ComputeSecondaryPrice prices a base amount with the current rate sheet
func (s *Service) ComputeSecondaryPrice(priceBase float64) (pricing.Result, error) {
	sheet := s.GetRates()
	return pricing.ComputeSecondaryPrice(priceBase, sheet, sheet.Policy)
}

// Quote returns display prices for a product in the given main currency
func (s *Service) Quote(p domain.ProductRecord, mainCurrency string) pricing.PriceQuote {
	if mainCurrency == "" {
		mainCurrency = s.cfg.Catalog.BaseCurrency
	}
	return pricing.Quote(p, mainCurrency, s.GetRates())
}

// InvalidateCatalogCache forces the next read to rebuild
func (s *Service) InvalidateCatalogCache() {
	s.cache.Invalidate()
}
