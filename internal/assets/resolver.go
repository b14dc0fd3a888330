package assets

import (
	"sort"
	"strings"

	"github.com/inkchain/storecatalog/internal/domain"
)

// extension preference per category, best first
var extPreference = map[domain.Category][]string{
	domain.CategoryPrompt: {".zip", ".pdf", ".md"},
	domain.CategoryEbook:  {".pdf", ".epub", ".zip"},
	domain.CategoryImage:  {".zip", ".png", ".jpg", ".jpeg", ".webp"},
	domain.CategoryVideo:  {".zip", ".mp4", ".mov", ".mkv"},
	domain.CategoryNFT:    {".zip", ".pdf"},
	domain.CategoryOther:  {".zip", ".pdf"},
}

var coverExts = []string{".webp", ".jpg", ".jpeg", ".png"}

// Resolver picks delivery targets and cover images from the indexes
type Resolver struct {
	products *Index
	images   *ImageIndex
}

// NewResolver returns a resolver over the given indexes; either may be nil
func NewResolver(products *Index, images *ImageIndex) *Resolver {
	return &Resolver{products: products, images: images}
}

// IsExternal reports whether href is an absolute http(s) URL
func IsExternal(href string) bool {
	h := strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(h, "http://") || strings.HasPrefix(h, "https://")
}

// ResolveDownloadTarget returns where the product is delivered from
func (r *Resolver) ResolveDownloadTarget(p domain.ProductRecord) domain.AssetRef {
	if p.Category == domain.CategoryNFT && p.ExternalLink != "" {
		return domain.AssetRef{Href: p.ExternalLink, External: true}
	}
	prefix := r.products.Prefix()
	if f := strings.TrimSpace(p.FileOverride); f != "" {
		if IsExternal(f) {
			return domain.AssetRef{Href: f, External: true}
		}
		if strings.HasPrefix(f, prefix+"/") {
			return domain.AssetRef{Href: f}
		}
		return domain.AssetRef{Href: prefix + "/" + strings.TrimLeft(f, "/")}
	}
	if c, ok := r.pick(p); ok {
		return domain.AssetRef{Href: c.Path}
	}
	if dir, ok := categoryFolder[p.Category]; ok {
		return domain.AssetRef{Href: prefix + "/" + dir + "/" + p.ID + ".zip"}
	}
	return domain.AssetRef{Href: prefix + "/" + p.ID + ".zip"}
}

func (r *Resolver) pick(p domain.ProductRecord) (Candidate, bool) {
	cands := r.products.Candidates(p.ID)
	if len(cands) == 0 {
		return Candidate{}, false
	}
	pref, ok := extPreference[p.Category]
	if !ok {
		pref = extPreference[domain.CategoryOther]
	}
	rank := func(ext string) int {
		for i, e := range pref {
			if e == ext {
				return i
			}
		}
		return len(pref)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return rank(cands[i].Ext) < rank(cands[j].Ext)
	})
	return cands[0], true
}

// ResolveCover returns the cover image href, or "" when none is found
func (r *Resolver) ResolveCover(p domain.ProductRecord) string {
	prefix := r.images.Prefix()
	if img := strings.TrimSpace(p.Image); img != "" {
		if IsExternal(img) || strings.HasPrefix(img, prefix+"/") {
			return img
		}
		return prefix + "/" + strings.TrimLeft(img, "/")
	}
	if p.ID == "" {
		return ""
	}
	for _, stem := range []string{p.ID + "-cover", p.ID} {
		for _, ext := range coverExts {
			if rel, ok := r.images.Lookup(stem + ext); ok {
				return prefix + "/" + rel
			}
		}
	}
	return ""
}

// Apply returns copies of products with asset and image resolved
func (r *Resolver) Apply(products []domain.ProductRecord) []domain.ProductRecord {
	out := make([]domain.ProductRecord, len(products))
	for i, p := range products {
		p.Includes = append([]string{}, p.Includes...)
		if p.PriceSecondaryManual != nil {
			v := *p.PriceSecondaryManual
			p.PriceSecondaryManual = &v
		}
		p.Asset = r.ResolveDownloadTarget(p)
		p.Image = r.ResolveCover(p)
		out[i] = p
	}
	return out
}
