// Package catalog assembles the storefront catalog from its sources and
// serves it to readers through an atomically swapped cache.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/inkchain/storecatalog/internal/assets"
	"github.com/inkchain/storecatalog/internal/config"
	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/inkchain/storecatalog/internal/normalize"
	"github.com/inkchain/storecatalog/internal/reconcile"
	"github.com/inkchain/storecatalog/internal/sources"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Build is the outcome of one pipeline run
type Build struct {
	Catalog   *domain.Catalog
	Rates     domain.RateSheet
	Statuses  []domain.SourceStatus
	Issues    []normalize.Issue
	Products  *assets.Index
	Images    *assets.ImageIndex
	Resolver  *assets.Resolver
	SheetURL  string
	URLOrigin string
}

// Pipeline reads every source, reconciles and resolves assets
type Pipeline struct {
	cfg     *config.AppConfig
	fetcher sources.SheetFetcher

	// SheetURL overrides every other sheet URL setting when non-empty
	SheetURL string
	// Offline skips the sheet fetch entirely
	Offline bool
	// ReuseGenerated falls back to the sheet rows of the last generated
	// catalog when the sheet is configured but unreachable
	ReuseGenerated bool
}

// NewPipeline returns a pipeline; a nil fetcher uses the HTTP fetcher
// configured in cfg.Sheet.
func NewPipeline(cfg *config.AppConfig, fetcher sources.SheetFetcher) *Pipeline {
	if fetcher == nil {
		fetcher = &sources.HTTPSheetFetcher{
			Attempts:  cfg.Sheet.Attempts,
			Backoff:   cfg.Sheet.Backoff,
			Timeout:   cfg.Sheet.Timeout,
			UserAgent: cfg.Sheet.UserAgent,
		}
	}
	return &Pipeline{cfg: cfg, fetcher: fetcher, SheetURL: cfg.Sheet.URL}
}

// Run never fails because of a source; it only returns ctx errors.
func (p *Pipeline) Run(ctx context.Context) (*Build, error) {
	cfg := p.cfg
	fallbackStore := domain.StoreInfo{Name: cfg.Catalog.StoreName, Currency: cfg.Catalog.BaseCurrency}

	var (
		override                            sources.OverrideDocument
		overrideStatus, sheetStatus         domain.SourceStatus
		rateStatus, prodStatus, imageStatus domain.SourceStatus
		rows                                []map[string]string
		productFiles, imageFiles            []string
		sheet                               domain.RateSheet
		sheetURL, origin                    string
	)
	overrideReady := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(overrideReady)
		override, overrideStatus = sources.ReadOverride(cfg.CatalogPath(cfg.Catalog.OverrideFile), fallbackStore)
		return nil
	})
	g.Go(func() error {
		sheetURL, origin = sources.ResolveSheetURL(p.SheetURL, cfg.CatalogPath(cfg.Catalog.SheetSidecarFile), sources.OverrideDocument{})
		if origin == sources.URLUnset {
			select {
			case <-overrideReady:
			case <-gctx.Done():
				return gctx.Err()
			}
			sheetURL, origin = sources.ResolveSheetURL("", "", override)
		}
		if p.Offline {
			sheetStatus = domain.SourceStatus{Source: "sheet", Outcome: domain.OutcomeFallback, Detail: "offline mode, sheet skipped"}
			return nil
		}
		rows, sheetStatus = sources.ReadSheet(gctx, p.fetcher, sheetURL)
		return nil
	})
	g.Go(func() error {
		productFiles, prodStatus = sources.ScanTree(cfg.PublicPath(cfg.Assets.ProductsDir), "products")
		return nil
	})
	g.Go(func() error {
		imageFiles, imageStatus = sources.ScanTree(cfg.PublicPath(cfg.Assets.ImagesDir), "images")
		return nil
	})
	g.Go(func() error {
		sheet, rateStatus = sources.ReadRateSheet(cfg.CatalogPath(cfg.Catalog.RatesFile),
			cfg.Catalog.BaseCurrency, cfg.Catalog.SecondaryCurrency, cfg.Catalog.FallbackRate)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	productIdx := assets.BuildIndex(productFiles, "/"+cfg.Assets.ProductsDir)
	imageIdx := assets.NewImageIndex(imageFiles, "/"+cfg.Assets.ImagesDir)

	base, secondary := cfg.Catalog.BaseCurrency, cfg.Catalog.SecondaryCurrency
	fromAssets := normalize.FromAssets(productIdx)
	fromSheet := normalize.FromSheet(rows, base, secondary)
	fromOverride := normalize.FromOverride(override.Products, base, secondary)

	if sheetStatus.Outcome == domain.OutcomeUsed && len(fromSheet.Patches) == 0 && fromSheet.Excluded == 0 {
		sheetStatus.Outcome = domain.OutcomeError
		sheetStatus.Detail = "sheet returned rows but none had an ID"
	}
	if p.ReuseGenerated && sheetStatus.Outcome == domain.OutcomeFallback && sheetURL != "" && !p.Offline {
		if reused := p.generatedSheetRows(); len(reused.Patches) > 0 {
			fromSheet = reused
			sheetStatus.Detail += fmt.Sprintf("; reusing %d rows from the generated catalog", len(reused.Patches))
		}
	}

	merged := reconcile.Reconcile(fromAssets.Patches, fromSheet.Patches, fromOverride.Patches)
	resolver := assets.NewResolver(productIdx, imageIdx)
	products := resolver.Apply(merged)

	var issues []normalize.Issue
	issues = append(issues, fromSheet.Issues...)
	issues = append(issues, fromOverride.Issues...)

	cat := &domain.Catalog{
		Store:       override.Store,
		Products:    products,
		Videos:      override.Videos,
		Posts:       override.Posts,
		GeneratedAt: time.Now().UTC(),
	}
	zap.L().Info("catalog built",
		zap.String("namespace", "catalog"),
		zap.Int("products", len(products)),
		zap.String("sheet", string(sheetStatus.Outcome)),
		zap.String("sheet_url_origin", origin),
		zap.Int("issues", len(issues)),
	)
	return &Build{
		Catalog:   cat,
		Rates:     sheet,
		Statuses:  []domain.SourceStatus{overrideStatus, sheetStatus, rateStatus, prodStatus, imageStatus},
		Issues:    issues,
		Products:  productIdx,
		Images:    imageIdx,
		Resolver:  resolver,
		SheetURL:  sheetURL,
		URLOrigin: origin,
	}, nil
}

// generatedSheetRows reads the previously generated catalog and returns its
// non asset-only records as tabular patches.
func (p *Pipeline) generatedSheetRows() normalize.Result {
	doc, err := ReadDocument(p.cfg.CatalogPath(p.cfg.Catalog.GeneratedFile))
	if err != nil {
		return normalize.Result{}
	}
	var keep []domain.ProductRecord
	for _, r := range doc.Products {
		if r.Source != domain.SourceAsset {
			keep = append(keep, r)
		}
	}
	return normalize.FromRecords(keep, domain.SourceTabular)
}
