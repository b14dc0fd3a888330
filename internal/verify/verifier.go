package verify

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/inkchain/storecatalog/internal/assets"
	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/inkchain/storecatalog/internal/normalize"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Check names used in findings
const (
	CheckSource    = "source"
	CheckRecord    = "record"
	CheckAsset     = "asset"
	CheckCover     = "cover"
	CheckOrphan    = "orphan-image"
	CheckPaymentQR = "payment-qr"
)

// Options configures a Verifier
type Options struct {
	// PublicRoot is the directory public hrefs are resolved against
	PublicRoot     string
	QRFile         string
	AssetsRequired bool
	Workers        int
}

// Input is everything a verification run looks at
type Input struct {
	Products []domain.ProductRecord
	Statuses []domain.SourceStatus
	Issues   []normalize.Issue
	Images   *assets.ImageIndex
}

// Verifier checks a reconciled catalog against the files on disk
type Verifier struct {
	opts Options
}

// New returns a Verifier
func New(opts Options) *Verifier {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Verifier{opts: opts}
}

// Verify runs every check and returns the sorted report
func (v *Verifier) Verify(ctx context.Context, in Input) *Report {
	r := &Report{
		Products: len(in.Products),
		Sources:  in.Statuses,
		Prices:   SummarizePrices(in.Products),
	}
	for _, st := range in.Statuses {
		v.classify(r, st)
	}
	for _, is := range in.Issues {
		r.Add(SeverityWarning, CheckRecord, is.Ref, "%s: %s", is.Source, is.Message)
	}

	v.checkFiles(ctx, r, in.Products)
	checkOrphans(r, in.Products, in.Images)
	r.Sort()
	return r
}

func (v *Verifier) classify(r *Report, st domain.SourceStatus) {
	detail := st.Detail
	if detail == "" {
		detail = string(st.Outcome)
	}
	switch st.Source {
	case "sheet":
		switch st.Outcome {
		case domain.OutcomeUsed:
			r.Add(SeverityInfo, CheckSource, st.Source, "%d rows", st.Rows)
		case domain.OutcomeFallback:
			r.Add(SeverityInfo, CheckSource, st.Source, "%s", detail)
		default:
			r.Add(SeverityError, CheckSource, st.Source, "%s", detail)
		}
	case "override":
		switch st.Outcome {
		case domain.OutcomeUsed:
			r.Add(SeverityInfo, CheckSource, st.Source, "%d products", st.Rows)
		case domain.OutcomeFallback:
			r.Add(SeverityInfo, CheckSource, st.Source, "%s", detail)
		default:
			r.Add(SeverityWarning, CheckSource, st.Source, "%s", detail)
		}
	case "rates":
		switch st.Outcome {
		case domain.OutcomeUsed:
		case domain.OutcomeFallback:
			r.Add(SeverityWarning, CheckSource, st.Source, "%s", detail)
		default:
			r.Add(SeverityError, CheckSource, st.Source, "%s", detail)
		}
	default:
		switch {
		case st.Outcome == domain.OutcomeUsed:
			r.Add(SeverityInfo, CheckSource, st.Source, "%d files", st.Rows)
		case v.opts.AssetsRequired:
			r.Add(SeverityError, CheckSource, st.Source, "%s", detail)
		case st.Outcome == domain.OutcomeFallback:
			r.Add(SeverityInfo, CheckSource, st.Source, "%s", detail)
		default:
			r.Add(SeverityWarning, CheckSource, st.Source, "%s", detail)
		}
	}
}

func (v *Verifier) localPath(href string) string {
	return filepath.Join(v.opts.PublicRoot, filepath.FromSlash(strings.TrimPrefix(href, "/")))
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// checkFiles runs the existence checks on a bounded worker pool
func (v *Verifier) checkFiles(ctx context.Context, r *Report, products []domain.ProductRecord) {
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	add := func(sev Severity, check, subject, format string, args ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		r.Add(sev, check, subject, format, args...)
	}

	pool, err := ants.NewPool(v.opts.Workers)
	if err != nil {
		zap.L().Error("verify worker pool", zap.String("namespace", "verify"), zap.Error(err))
		return
	}
	defer pool.Release()

	submit := func(task func()) {
		if ctx.Err() != nil {
			return
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			task()
		}); err != nil {
			wg.Done()
			zap.L().Warn("verify task rejected", zap.String("namespace", "verify"), zap.Error(err))
		}
	}

	for _, p := range products {
		p := p
		if !(p.Category == domain.CategoryNFT && p.ExternalLink != "") {
			submit(func() {
				href := p.Asset.Href
				switch {
				case href == "":
					add(SeverityWarning, CheckAsset, p.ID, "no delivery file or external link")
				case p.Asset.External || assets.IsExternal(href):
				case !exists(v.localPath(href)):
					add(SeverityWarning, CheckAsset, p.ID, "%s: %s", domain.ErrAssetMissing, href)
				}
			})
		}
		if p.Image != "" && !assets.IsExternal(p.Image) {
			submit(func() {
				if !exists(v.localPath(p.Image)) {
					add(SeverityWarning, CheckCover, p.ID, "%s: %s", domain.ErrAssetMissing, p.Image)
				}
			})
		}
	}
	if v.opts.QRFile != "" {
		submit(func() {
			if !exists(v.localPath(v.opts.QRFile)) {
				add(SeverityWarning, CheckPaymentQR, v.opts.QRFile, "payment QR image not found")
			}
		})
	}
	wg.Wait()
}

func checkOrphans(r *Report, products []domain.ProductRecord, images *assets.ImageIndex) {
	files := images.Files()
	if len(files) == 0 {
		return
	}
	prefix := images.Prefix() + "/"
	refs := make(map[string]bool, len(products)*2)
	for _, p := range products {
		if p.Image == "" || assets.IsExternal(p.Image) {
			continue
		}
		rel := strings.ToLower(strings.TrimPrefix(p.Image, prefix))
		refs[rel] = true
		refs[path.Base(rel)] = true
	}
	for _, f := range files {
		lf := strings.ToLower(f)
		if refs[lf] || refs[path.Base(lf)] {
			continue
		}
		r.Add(SeverityWarning, CheckOrphan, f, "image is not referenced by any product")
	}
}
