package normalize

import (
	"github.com/inkchain/storecatalog/internal/assets"
	"github.com/inkchain/storecatalog/internal/domain"
)

// FromAssets builds one patch per id found in the delivery tree. The first
// candidate's folder supplies the category; the title is the id itself.
func FromAssets(idx *assets.Index) Result {
	ids := idx.IDs()
	res := Result{Patches: make([]domain.ProductPatch, 0, len(ids))}
	for _, id := range ids {
		cands := idx.Candidates(id)
		guess := domain.CategoryPrompt
		if len(cands) > 0 {
			guess = cands[0].CategoryGuess
		}
		res.Patches = append(res.Patches, domain.ProductPatch{
			ID:            id,
			SKU:           stringPtr(id),
			Category:      categoryPtr(guess),
			Title:         stringPtr(id),
			GroupCategory: stringPtr(string(guess)),
			Tier:          stringPtr(DefaultTier),
			Source:        domain.SourceAsset,
		})
	}
	return res
}

// FromRecords turns finalized records back into fully populated patches,
// e.g. to reuse a previously generated catalog as a source layer.
func FromRecords(records []domain.ProductRecord, src domain.Source) Result {
	res := Result{Patches: make([]domain.ProductPatch, 0, len(records))}
	for _, r := range records {
		id := domain.NormalizeID(r.ID)
		if id == "" {
			res.Skipped++
			res.issue(src, "generated", "record has no id, skipped")
			continue
		}
		inc := append([]string{}, r.Includes...)
		p := domain.ProductPatch{
			ID:            id,
			SKU:           nonEmpty(r.SKU),
			Category:      categoryPtr(r.Category),
			Title:         stringPtr(r.Title),
			GroupCategory: stringPtr(r.GroupCategory),
			Tier:          stringPtr(r.Tier),
			PriceBase:     float64Ptr(r.PriceBase),
			Rating:        float64Ptr(r.Rating),
			SalesCount:    intPtr(r.SalesCount),
			Includes:      &inc,
			FileOverride:  nonEmpty(r.FileOverride),
			ExternalLink:  nonEmpty(r.ExternalLink),
			CheckoutLink:  nonEmpty(r.CheckoutLink),
			SortWeight:    float64Ptr(r.SortWeight),
			Source:        src,
		}
		p.Image = nonEmpty(r.Image)
		if r.PriceSecondaryManual != nil {
			p.PriceSecondary = float64Ptr(*r.PriceSecondaryManual)
		}
		res.Patches = append(res.Patches, p)
	}
	return res
}
