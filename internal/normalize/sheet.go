package normalize

import (
	"fmt"
	"strings"

	"github.com/inkchain/storecatalog/internal/domain"
)

// DefaultTier is the tier given to tabular and asset-only rows without one
const DefaultTier = "All"

// Published reports whether a Status cell keeps the row in the catalog
func Published(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", "published", "true", "yes":
		return true
	}
	return false
}

// FromSheet builds patches from spreadsheet rows. Header names are matched
// case-insensitively; empty cells count as not supplied.
func FromSheet(rows []map[string]string, base, secondary string) Result {
	res := Result{Patches: make([]domain.ProductPatch, 0, len(rows))}
	src := domain.SourceTabular
	for i, row := range rows {
		cells := make(map[string]string, len(row))
		for k, v := range row {
			cells[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
		}
		// header is row 1
		ref := fmt.Sprintf("row %d", i+2)

		id := domain.NormalizeID(cells["id"])
		if id == "" {
			res.Skipped++
			res.issue(src, ref, "row has no ID, skipped")
			continue
		}
		if !Published(cells["status"]) {
			res.Excluded++
			continue
		}
		ref = id

		patch := domain.ProductPatch{ID: id, SKU: stringPtr(id), Source: src}
		typ := cells["type"]
		if typ != "" {
			patch.Category = categoryPtr(Category(typ))
		}
		if v := cells["category"]; v != "" {
			patch.GroupCategory = stringPtr(v)
		} else if typ != "" {
			patch.GroupCategory = stringPtr(typ)
		}
		if v := cells["level"]; v != "" {
			patch.Tier = stringPtr(v)
		} else {
			patch.Tier = stringPtr(DefaultTier)
		}
		patch.Title = nonEmpty(cells["title"])
		patch.Image = nonEmpty(cells["image"])
		patch.FileOverride = nonEmpty(cells["fileoverride"])
		patch.CheckoutLink = nonEmpty(cells["gumroad"])
		patch.ExternalLink = nonEmpty(cells["nfturl"])

		if v := cells["price"+strings.ToLower(base)]; v != "" {
			patch.PriceBase = res.price(src, ref, "price", v)
		}
		if v := cells["price"+strings.ToLower(secondary)]; v != "" {
			patch.PriceSecondary = res.price(src, ref, "secondary price", v)
		}
		if v := cells["includes"]; v != "" {
			inc := Includes(v, sheetIncludeSep)
			patch.Includes = &inc
		}
		if v := cells["sort"]; v != "" {
			f, _ := Number(v)
			patch.SortWeight = float64Ptr(f)
		}
		res.Patches = append(res.Patches, patch)
	}
	return res
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return stringPtr(s)
}
