package domain

import "time"

// StoreInfo carries storefront metadata from the override document
type StoreInfo struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// Catalog is the immutable snapshot handed to presentation collaborators
type Catalog struct {
	Store       StoreInfo       `json:"store"`
	Products    []ProductRecord `json:"products"`
	Videos      []interface{}   `json:"videos"`
	Posts       []interface{}   `json:"posts"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// Product returns a copy of the record matching id or sku, or nil
func (c *Catalog) Product(idOrSku string) *ProductRecord {
	if c == nil {
		return nil
	}
	for i := range c.Products {
		if c.Products[i].Matches(idOrSku) {
			p := c.Products[i]
			return &p
		}
	}
	return nil
}

// CatalogDocument is the generated catalog file written for downstream consumers
type CatalogDocument struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Products    []ProductRecord `json:"products"`
}

// Outcome classifies how an optional source read ended
type Outcome string

const (
	OutcomeUsed     Outcome = "used"
	OutcomeFallback Outcome = "fallback"
	OutcomeError    Outcome = "error"
)

// SourceStatus reports the outcome of one source read
type SourceStatus struct {
	Source  string  `json:"source"`
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
	Rows    int     `json:"rows"`
	Err     error   `json:"-"`
}
