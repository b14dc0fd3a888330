package rates

import (
	"context"
	"os"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/inkchain/storecatalog/internal/sources"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DeepMerge returns base with patch applied. Nested objects merge key by
// key; every other value in patch replaces the one in base.
func DeepMerge(base, patch map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		if pm, ok := v.(map[string]interface{}); ok {
			bm, _ := out[k].(map[string]interface{})
			out[k] = DeepMerge(bm, pm)
			continue
		}
		out[k] = v
	}
	return out
}

// Updater writes fetched rates into the rate sheet file
type Updater struct {
	Path      string
	Provider  Provider
	History   *History
	Base      string
	Secondary string
}

// Update fetches the latest rate and merges it into the rate sheet, keeping
// the existing pricing policy. Nothing is written when the fetch fails.
func (u *Updater) Update(ctx context.Context) (domain.RateSheet, error) {
	q, err := u.Provider.Latest(ctx, u.Base, u.Secondary)
	if err != nil {
		return domain.RateSheet{}, err
	}
	sheet, err := WriteQuote(u.Path, q)
	if err != nil {
		return domain.RateSheet{}, err
	}
	if u.History != nil {
		if err := u.History.Record(q); err != nil {
			zap.L().Warn("record rate history",
				zap.String("namespace", "rates"),
				zap.Error(err),
			)
		}
	}
	return sheet, nil
}

// WriteQuote merges q into the rate sheet at path and returns the parsed result
func WriteQuote(path string, q Quote) (domain.RateSheet, error) {
	existing := map[string]interface{}{}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &existing); err != nil || existing == nil {
			zap.L().Warn("existing rate sheet unreadable, rewriting it",
				zap.String("namespace", "rates"),
				zap.String("path", path),
			)
			existing = map[string]interface{}{}
		}
	}

	next := DeepMerge(existing, map[string]interface{}{
		"source":                            ProviderTag,
		domain.RateKey(q.Base, q.Secondary): q.Rate,
		"updatedAt":                         q.Date.UTC().Format("2006-01-02") + "T00:00:00Z",
	})
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return domain.RateSheet{}, errors.Wrap(err, "encode rate sheet")
	}
	if err := sources.WriteFileAtomic(path, data); err != nil {
		return domain.RateSheet{}, err
	}
	return sources.ParseRateSheet(data, q.Base, q.Secondary)
}
