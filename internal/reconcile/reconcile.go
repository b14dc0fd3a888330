// Package reconcile merges product patches from every source into one
// record per id.
package reconcile

import (
	"sort"

	"github.com/inkchain/storecatalog/internal/domain"
)

// Merge returns a new patch where every field supplied by incoming replaces
// the corresponding field of existing. Neither argument is modified.
func Merge(existing, incoming domain.ProductPatch) domain.ProductPatch {
	out := existing
	if incoming.ID != "" {
		out.ID = incoming.ID
	}
	if incoming.Source.Priority() >= existing.Source.Priority() {
		out.Source = incoming.Source
	}
	if incoming.SKU != nil {
		out.SKU = incoming.SKU
	}
	if incoming.Category != nil {
		out.Category = incoming.Category
	}
	if incoming.Title != nil {
		out.Title = incoming.Title
	}
	if incoming.GroupCategory != nil {
		out.GroupCategory = incoming.GroupCategory
	}
	if incoming.Tier != nil {
		out.Tier = incoming.Tier
	}
	if incoming.PriceBase != nil {
		out.PriceBase = incoming.PriceBase
	}
	if incoming.PriceSecondary != nil {
		out.PriceSecondary = incoming.PriceSecondary
	}
	if incoming.Rating != nil {
		out.Rating = incoming.Rating
	}
	if incoming.SalesCount != nil {
		out.SalesCount = incoming.SalesCount
	}
	if incoming.Includes != nil {
		out.Includes = incoming.Includes
	}
	if incoming.Image != nil {
		out.Image = incoming.Image
	}
	if incoming.FileOverride != nil {
		out.FileOverride = incoming.FileOverride
	}
	if incoming.ExternalLink != nil {
		out.ExternalLink = incoming.ExternalLink
	}
	if incoming.CheckoutLink != nil {
		out.CheckoutLink = incoming.CheckoutLink
	}
	if incoming.SortWeight != nil {
		out.SortWeight = incoming.SortWeight
	}
	return out
}

// Reconcile merges patches by id, lowest-priority source first, and returns
// finalized records ordered by sort weight descending. Ties keep the order
// in which ids were first seen.
func Reconcile(patches ...[]domain.ProductPatch) []domain.ProductRecord {
	var all []domain.ProductPatch
	for _, layer := range patches {
		all = append(all, layer...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Source.Priority() < all[j].Source.Priority()
	})

	merged := make(map[string]domain.ProductPatch, len(all))
	order := make([]string, 0, len(all))
	for _, p := range all {
		id := domain.NormalizeID(p.ID)
		if id == "" {
			continue
		}
		p.ID = id
		if prev, ok := merged[id]; ok {
			merged[id] = Merge(prev, p)
			continue
		}
		merged[id] = p
		order = append(order, id)
	}

	out := make([]domain.ProductRecord, 0, len(order))
	for _, id := range order {
		out = append(out, Finalize(merged[id]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortWeight > out[j].SortWeight
	})
	return out
}

// Finalize applies defaults to a merged patch and builds a fresh record
func Finalize(p domain.ProductPatch) domain.ProductRecord {
	r := domain.ProductRecord{
		ID:       p.ID,
		SKU:      p.ID,
		Category: domain.CategoryPrompt,
		Title:    p.ID,
		Rating:   domain.DefaultRating,
		Includes: []string{},
		Source:   p.Source,
	}
	if p.SKU != nil && *p.SKU != "" {
		r.SKU = *p.SKU
	}
	if p.Category != nil && *p.Category != "" {
		r.Category = *p.Category
	}
	if p.Title != nil && *p.Title != "" {
		r.Title = *p.Title
	}
	if p.GroupCategory != nil {
		r.GroupCategory = *p.GroupCategory
	}
	if p.Tier != nil {
		r.Tier = *p.Tier
	}
	if p.PriceBase != nil {
		r.PriceBase = *p.PriceBase
	}
	if p.PriceSecondary != nil {
		v := *p.PriceSecondary
		r.PriceSecondaryManual = &v
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.SalesCount != nil {
		r.SalesCount = *p.SalesCount
	}
	if p.Includes != nil {
		r.Includes = append(r.Includes, *p.Includes...)
	}
	if p.Image != nil {
		r.Image = *p.Image
	}
	if p.FileOverride != nil {
		r.FileOverride = *p.FileOverride
	}
	if p.ExternalLink != nil {
		r.ExternalLink = *p.ExternalLink
	}
	if p.CheckoutLink != nil {
		r.CheckoutLink = *p.CheckoutLink
	}
	if p.SortWeight != nil {
		r.SortWeight = *p.SortWeight
	}
	return r
}
