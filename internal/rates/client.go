// Package rates refreshes the rate sheet from an exchange-rate provider and
// keeps a local history of fetched rates.
package rates

import (
	"context"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/guonaihong/gout"
	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/pkg/errors"
)

// ProviderTag is written to the rate sheet's source field
const ProviderTag = "frankfurter"

// Quote is one fetched exchange rate
type Quote struct {
	Base      string    `json:"base"`
	Secondary string    `json:"secondary"`
	Rate      float64   `json:"rate"`
	Date      time.Time `json:"date"`
}

// Provider returns the latest base to secondary rate
type Provider interface {
	Latest(ctx context.Context, base, secondary string) (Quote, error)
}

// FrankfurterClient queries a Frankfurter-compatible /latest endpoint
type FrankfurterClient struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
	Attempts  int
	Backoff   time.Duration
}

type frankfurterResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// Latest fetches the current rate. Transport failures and 5xx responses are
// retried after a fixed Backoff. A missing rate or date is an error.
func (c *FrankfurterClient) Latest(ctx context.Context, base, secondary string) (Quote, error) {
	base, secondary = strings.ToUpper(base), strings.ToUpper(secondary)
	attempts := c.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var resp frankfurterResponse
	var code int
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return Quote{}, errors.Wrapf(domain.ErrSourceUnavailable, "fetch rate: %s", ctx.Err().Error())
			case <-time.After(c.Backoff):
			}
		}
		resp, code, err = c.fetchOnce(ctx, base, secondary)
		if code != 0 && code < 500 {
			break
		}
	}
	if code != 0 && (code < 200 || code > 299) {
		return Quote{}, errors.Wrapf(domain.ErrSourceUnavailable, "fetch rate: http status %d", code)
	}
	if err != nil {
		return Quote{}, errors.Wrapf(domain.ErrSourceUnavailable, "fetch rate: %s", err.Error())
	}

	rate := resp.Rates[secondary]
	if rate <= 0 || resp.Date == "" {
		return Quote{}, errors.Wrap(domain.ErrMalformedDocument, "invalid response from rate provider")
	}
	date, err := dateparse.ParseIn(resp.Date, time.UTC)
	if err != nil {
		return Quote{}, errors.Wrapf(domain.ErrMalformedDocument, "rate date %q", resp.Date)
	}
	return Quote{Base: base, Secondary: secondary, Rate: rate, Date: date.UTC()}, nil
}

func (c *FrankfurterClient) fetchOnce(ctx context.Context, base, secondary string) (frankfurterResponse, int, error) {
	var resp frankfurterResponse
	var code int
	df := gout.GET(c.URL).
		WithContext(ctx).
		SetQuery(gout.H{"from": base, "to": secondary}).
		SetHeader(gout.H{"User-Agent": c.UserAgent, "Accept": "application/json"})
	if c.Timeout > 0 {
		df = df.SetTimeout(c.Timeout)
	}
	err := df.BindJSON(&resp).Code(&code).Do()
	return resp, code, err
}
