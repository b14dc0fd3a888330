package sources

import (
	"os"
	"strings"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// OverrideDocument is the manually curated catalog file
type OverrideDocument struct {
	Store       domain.StoreInfo         `mapstructure:"store"`
	Products    []map[string]interface{} `mapstructure:"products"`
	Videos      []interface{}            `mapstructure:"videos"`
	Posts       []interface{}            `mapstructure:"posts"`
	SheetCSVURL string                   `mapstructure:"sheetCsvUrl"`
}

// DefaultOverride is the empty-but-valid document used when the file is absent or broken
func DefaultOverride(store domain.StoreInfo) OverrideDocument {
	return OverrideDocument{
		Store:    store,
		Products: []map[string]interface{}{},
		Videos:   []interface{}{},
		Posts:    []interface{}{},
	}
}

// ReadOverride loads the override document. It never fails: a missing file
// yields the default with OutcomeFallback, an unparsable one with OutcomeError.
func ReadOverride(path string, fallback domain.StoreInfo) (OverrideDocument, domain.SourceStatus) {
	status := domain.SourceStatus{Source: "override"}
	data, err := os.ReadFile(path)
	if err != nil {
		status.Outcome = domain.OutcomeFallback
		status.Detail = "override document not found, using defaults"
		if !os.IsNotExist(err) {
			status.Outcome = domain.OutcomeError
			status.Err = errors.Wrap(domain.ErrSourceUnavailable, err.Error())
			status.Detail = status.Err.Error()
			zap.L().Warn("override document unreadable",
				zap.String("namespace", "sources"),
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return DefaultOverride(fallback), status
	}

	doc, err := ParseOverride(data, fallback)
	if err != nil {
		status.Outcome = domain.OutcomeError
		status.Err = err
		status.Detail = err.Error()
		zap.L().Warn("override document malformed, using defaults",
			zap.String("namespace", "sources"),
			zap.String("path", path),
			zap.String("error", err.Error()),
		)
		return DefaultOverride(fallback), status
	}
	status.Outcome = domain.OutcomeUsed
	status.Rows = len(doc.Products)
	return doc, status
}

// ParseOverride decodes override document bytes
func ParseOverride(data []byte, fallback domain.StoreInfo) (OverrideDocument, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return OverrideDocument{}, errors.Wrap(domain.ErrMalformedDocument, err.Error())
	}
	if raw == nil {
		return OverrideDocument{}, errors.Wrap(domain.ErrMalformedDocument, "override document is not an object")
	}

	doc := DefaultOverride(fallback)
	if err := mapstructure.WeakDecode(raw, &doc); err != nil {
		return OverrideDocument{}, errors.Wrap(domain.ErrMalformedDocument, err.Error())
	}
	if doc.SheetCSVURL == "" {
		if store, ok := raw["store"].(map[string]interface{}); ok {
			if v, ok := store["sheetCsvUrl"].(string); ok {
				doc.SheetCSVURL = v
			}
		}
	}
	doc.SheetCSVURL = strings.TrimSpace(doc.SheetCSVURL)
	if strings.TrimSpace(doc.Store.Name) == "" {
		doc.Store.Name = fallback.Name
	}
	if strings.TrimSpace(doc.Store.Currency) == "" {
		doc.Store.Currency = fallback.Currency
	}
	if doc.Products == nil {
		doc.Products = []map[string]interface{}{}
	}
	if doc.Videos == nil {
		doc.Videos = []interface{}{}
	}
	if doc.Posts == nil {
		doc.Posts = []interface{}{}
	}
	return doc, nil
}
