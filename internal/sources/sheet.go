package sources

import (
	"context"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SheetFetcher downloads the published spreadsheet export
type SheetFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPSheetFetcher fetches over HTTP with a bounded fixed-backoff retry
type HTTPSheetFetcher struct {
	Attempts  int
	Backoff   time.Duration
	Timeout   time.Duration
	UserAgent string
}

// Fetch returns the response body. Failed attempts are retried after a fixed
// Backoff. Any failure left after the last attempt, an empty body included,
// wraps domain.ErrSourceUnavailable.
func (f *HTTPSheetFetcher) Fetch(ctx context.Context, url string) (string, error) {
	attempts := f.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", errors.Wrapf(domain.ErrSourceUnavailable, "fetch sheet: %s", ctx.Err().Error())
			case <-time.After(f.Backoff):
			}
		}
		body, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		zap.L().Debug("sheet fetch attempt failed",
			zap.String("namespace", "sources"),
			zap.Int("attempt", i+1),
			zap.String("error", err.Error()),
		)
	}
	return "", errors.Wrapf(domain.ErrSourceUnavailable, "fetch sheet: %s", lastErr.Error())
}

func (f *HTTPSheetFetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	var body string
	var code int
	df := gout.GET(url).
		WithContext(ctx).
		SetHeader(gout.H{"User-Agent": f.UserAgent, "Accept": "text/csv, text/plain, */*"})
	if f.Timeout > 0 {
		df = df.SetTimeout(f.Timeout)
	}
	if err := df.BindBody(&body).Code(&code).Do(); err != nil {
		return "", err
	}
	if code < 200 || code > 299 {
		return "", errors.Errorf("http status %d", code)
	}
	if strings.TrimSpace(body) == "" {
		return "", errors.New("empty body")
	}
	return body, nil
}

// ReadSheet fetches and parses the spreadsheet export into header-keyed rows.
// An unset URL or an unreachable sheet yields no rows with OutcomeFallback;
// a body that parses to zero data rows is an OutcomeError.
func ReadSheet(ctx context.Context, fetcher SheetFetcher, url string) ([]map[string]string, domain.SourceStatus) {
	status := domain.SourceStatus{Source: "sheet"}
	if strings.TrimSpace(url) == "" {
		status.Outcome = domain.OutcomeFallback
		status.Detail = "sheet url not configured"
		return nil, status
	}

	body, err := fetcher.Fetch(ctx, url)
	if err != nil {
		status.Outcome = domain.OutcomeFallback
		status.Err = err
		status.Detail = err.Error()
		zap.L().Warn("sheet unavailable, continuing without it",
			zap.String("namespace", "sources"),
			zap.String("error", err.Error()),
		)
		return nil, status
	}

	rows, err := ParseTable(body)
	if err != nil {
		status.Outcome = domain.OutcomeError
		status.Err = err
		status.Detail = err.Error()
		return nil, status
	}
	if len(rows) == 0 {
		status.Outcome = domain.OutcomeError
		status.Err = errors.Wrap(domain.ErrStructuralFailure, "sheet returned a body with no usable rows")
		status.Detail = status.Err.Error()
		return nil, status
	}
	status.Outcome = domain.OutcomeUsed
	status.Rows = len(rows)
	return rows, status
}
