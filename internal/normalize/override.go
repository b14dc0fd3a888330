package normalize

import (
	"fmt"
	"strings"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/spf13/cast"
)

// FromOverride builds patches from override document product entries.
// Keys are matched case-insensitively; prices are read from price<BASE> /
// price<SECONDARY> or the generic priceBase / priceSecondary keys.
func FromOverride(records []map[string]interface{}, base, secondary string) Result {
	res := Result{Patches: make([]domain.ProductPatch, 0, len(records))}
	src := domain.SourceOverride
	for i, rec := range records {
		fields := lowerKeys(rec)
		ref := fmt.Sprintf("#%d", i+1)

		id := domain.NormalizeID(cast.ToString(fields["id"]))
		sku := strings.TrimSpace(cast.ToString(fields["sku"]))
		if id == "" {
			id = domain.NormalizeID(sku)
		}
		if id == "" {
			res.Skipped++
			res.issue(src, ref, "record has no id or sku, skipped")
			continue
		}
		ref = id

		patch := domain.ProductPatch{ID: id, Source: src}
		if sku != "" {
			patch.SKU = stringPtr(sku)
		}
		if v, ok := fields["type"]; ok && v != nil {
			patch.Category = categoryPtr(Category(cast.ToString(v)))
		}
		patch.Title = optString(fields, "title")
		patch.GroupCategory = optString(fields, "category")
		patch.Tier = optString(fields, "level", "tier")
		patch.Image = optString(fields, "image")
		patch.FileOverride = optString(fields, "file", "fileoverride")
		patch.ExternalLink = optString(fields, "nfturl", "externallink")
		patch.CheckoutLink = optString(fields, "gumroad", "checkouturl")

		if v, ok := pick(fields, "price"+strings.ToLower(base), "pricebase"); ok {
			patch.PriceBase = res.price(src, ref, "price", v)
		}
		if v, ok := pick(fields, "price"+strings.ToLower(secondary), "pricesecondary"); ok {
			patch.PriceSecondary = res.price(src, ref, "secondary price", v)
		}
		if v, ok := pick(fields, "rating"); ok {
			if f, ok := Number(v); ok && f > 0 {
				patch.Rating = float64Ptr(f)
			} else {
				patch.Rating = float64Ptr(domain.DefaultRating)
			}
		}
		if v, ok := pick(fields, "sales"); ok {
			f, _ := Number(v)
			if f < 0 {
				f = 0
			}
			patch.SalesCount = intPtr(int(f))
		}
		if v, ok := pick(fields, "sort"); ok {
			f, _ := Number(v)
			patch.SortWeight = float64Ptr(f)
		}
		if v, ok := pick(fields, "includes"); ok {
			inc := Includes(v, overrideIncludeSep)
			patch.Includes = &inc
		}
		res.Patches = append(res.Patches, patch)
	}
	return res
}

func lowerKeys(rec map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(rec))
	for k, v := range rec {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

func pick(fields map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func optString(fields map[string]interface{}, keys ...string) *string {
	v, ok := pick(fields, keys...)
	if !ok {
		return nil
	}
	return stringPtr(strings.TrimSpace(cast.ToString(v)))
}
