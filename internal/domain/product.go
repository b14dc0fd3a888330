package domain

import "strings"

// Category enumerates the product kinds the storefront sells
type Category string

const (
	CategoryPrompt Category = "Prompt"
	CategoryEbook  Category = "Ebook"
	CategoryImage  Category = "Image"
	CategoryVideo  Category = "Video"
	CategoryNFT    Category = "NFT"
	CategoryOther  Category = "Other"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryPrompt,
	CategoryEbook,
	CategoryImage,
	CategoryVideo,
	CategoryNFT,
	CategoryOther,
}

// Source identifies where a product record came from.
// Higher Priority values win during reconciliation.
type Source string

const (
	SourceAsset    Source = "asset"
	SourceTabular  Source = "sheet"
	SourceOverride Source = "override"
)

// Priority returns the merge rank of the source
func (s Source) Priority() int {
	switch s {
	case SourceOverride:
		return 3
	case SourceTabular:
		return 2
	case SourceAsset:
		return 1
	default:
		return 0
	}
}

// AssetRef is the resolved delivery target of a product
type AssetRef struct {
	Href     string `json:"href"`
	External bool   `json:"external"`
}

// ProductRecord is the canonical catalog entry produced by reconciliation.
// Records are built fresh on every run and never mutated after publication.
type ProductRecord struct {
	ID                   string   `json:"id"`
	SKU                  string   `json:"sku"`
	Category             Category `json:"type"`
	Title                string   `json:"title"`
	GroupCategory        string   `json:"category"`
	Tier                 string   `json:"level"`
	PriceBase            float64  `json:"priceBase"`
	PriceSecondaryManual *float64 `json:"priceSecondary,omitempty"`
	Rating               float64  `json:"rating"`
	SalesCount           int      `json:"sales"`
	Includes             []string `json:"includes"`
	Image                string   `json:"image"`
	FileOverride         string   `json:"fileOverride,omitempty"`
	Asset                AssetRef `json:"asset"`
	ExternalLink         string   `json:"nftUrl,omitempty"`
	CheckoutLink         string   `json:"checkoutUrl,omitempty"`
	SortWeight           float64  `json:"sort"`
	Source               Source   `json:"source"`
}

// HasSecondaryPrice reports whether an explicit secondary-currency price was authored
func (p ProductRecord) HasSecondaryPrice() bool {
	return p.PriceSecondaryManual != nil && *p.PriceSecondaryManual > 0
}

// Matches reports whether the record answers to the given id or sku
func (p ProductRecord) Matches(idOrSku string) bool {
	key := NormalizeID(idOrSku)
	if key == "" {
		return false
	}
	return p.ID == key || strings.EqualFold(p.SKU, key)
}

// ProductPatch is a partially populated record as supplied by one source.
// A nil field means the source did not provide it.
type ProductPatch struct {
	ID             string
	SKU            *string
	Category       *Category
	Title          *string
	GroupCategory  *string
	Tier           *string
	PriceBase      *float64
	PriceSecondary *float64
	Rating         *float64
	SalesCount     *int
	Includes       *[]string
	Image          *string
	FileOverride   *string
	ExternalLink   *string
	CheckoutLink   *string
	SortWeight     *float64
	Source         Source
}

// DefaultRating is the rating of records no source rated
const DefaultRating = 5.0

// NormalizeID trims and upper-cases a product identifier
func NormalizeID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
