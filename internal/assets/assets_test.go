package assets

import (
	"testing"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateID(t *testing.T) {
	assert.Equal(t, "P1", CandidateID("prompts/p1.zip"))
	assert.Equal(t, "E1", CandidateID("ebooks/e1__ultimate-guide.pdf"))
	assert.Equal(t, "ARCHIVE.V2", CandidateID("archive.v2.zip"))
}

func TestGuessCategory(t *testing.T) {
	assert.Equal(t, domain.CategoryEbook, GuessCategory("ebooks/x.pdf"))
	assert.Equal(t, domain.CategoryNFT, GuessCategory("NFTs/x.zip"))
	assert.Equal(t, domain.CategoryPrompt, GuessCategory("misc/x.zip"))
	assert.Equal(t, domain.CategoryPrompt, GuessCategory("x.zip"))
}

func TestBuildIndexOrder(t *testing.T) {
	idx := BuildIndex([]string{"prompts/b.pdf", "prompts/a.zip", "prompts/b.zip"}, "products/")
	assert.Equal(t, []string{"B", "A"}, idx.IDs())
	cands := idx.Candidates("b")
	require.Len(t, cands, 2)
	assert.Equal(t, "/products/prompts/b.pdf", cands[0].Path)
	assert.Equal(t, ".zip", cands[1].Ext)
}

func TestResolvePrefersZipForPrompt(t *testing.T) {
	idx := BuildIndex([]string{"prompts/P1.pdf", "prompts/P1.md", "prompts/P1.zip"}, "/products")
	r := NewResolver(idx, nil)

	ref := r.ResolveDownloadTarget(domain.ProductRecord{ID: "P1", Category: domain.CategoryPrompt})
	assert.Equal(t, domain.AssetRef{Href: "/products/prompts/P1.zip"}, ref)

	ref = r.ResolveDownloadTarget(domain.ProductRecord{ID: "P1", Category: domain.CategoryEbook})
	assert.Equal(t, "/products/prompts/P1.pdf", ref.Href)
}

func TestResolveUnknownExtensionRanksLast(t *testing.T) {
	idx := BuildIndex([]string{"videos/V1.txt", "videos/V1.mkv"}, "/products")
	ref := NewResolver(idx, nil).ResolveDownloadTarget(domain.ProductRecord{ID: "V1", Category: domain.CategoryVideo})
	assert.Equal(t, "/products/videos/V1.mkv", ref.Href)
}

func TestResolveTargets(t *testing.T) {
	r := NewResolver(BuildIndex(nil, "/products"), nil)

	nft := domain.ProductRecord{ID: "N1", Category: domain.CategoryNFT, ExternalLink: "https://opensea.test/n1"}
	assert.Equal(t, domain.AssetRef{Href: "https://opensea.test/n1", External: true}, r.ResolveDownloadTarget(nft))

	nft.ExternalLink = ""
	assert.Equal(t, "/products/nfts/N1.zip", r.ResolveDownloadTarget(nft).Href)

	other := domain.ProductRecord{ID: "O1", Category: domain.CategoryOther}
	assert.Equal(t, "/products/O1.zip", r.ResolveDownloadTarget(other).Href)

	over := domain.ProductRecord{ID: "P9", Category: domain.CategoryPrompt, FileOverride: "special/p9.zip"}
	assert.Equal(t, "/products/special/p9.zip", r.ResolveDownloadTarget(over).Href)

	over.FileOverride = "/products/x.zip"
	assert.Equal(t, "/products/x.zip", r.ResolveDownloadTarget(over).Href)

	over.FileOverride = "HTTPS://cdn.test/p9.zip"
	assert.Equal(t, domain.AssetRef{Href: "HTTPS://cdn.test/p9.zip", External: true}, r.ResolveDownloadTarget(over))
}

func TestResolveCover(t *testing.T) {
	images := NewImageIndex([]string{"P1.JPG", "p1-cover.png", "E1.webp"}, "/images")
	r := NewResolver(nil, images)

	assert.Equal(t, "/images/p1-cover.png", r.ResolveCover(domain.ProductRecord{ID: "P1"}))
	assert.Equal(t, "/images/E1.webp", r.ResolveCover(domain.ProductRecord{ID: "E1"}))
	assert.Equal(t, "", r.ResolveCover(domain.ProductRecord{ID: "ZZ"}))
	assert.Equal(t, "/images/custom/a.png", r.ResolveCover(domain.ProductRecord{ID: "P1", Image: "custom/a.png"}))
	assert.Equal(t, "/images/b.png", r.ResolveCover(domain.ProductRecord{ID: "P1", Image: "/images/b.png"}))
	assert.Equal(t, "https://cdn.test/c.png", r.ResolveCover(domain.ProductRecord{ID: "P1", Image: "https://cdn.test/c.png"}))
}

func TestApplyReturnsCopies(t *testing.T) {
	idx := BuildIndex([]string{"ebooks/E1.pdf"}, "/products")
	in := []domain.ProductRecord{{ID: "E1", Category: domain.CategoryEbook, Includes: []string{"a"}}}
	out := NewResolver(idx, NewImageIndex(nil, "/images")).Apply(in)

	require.Len(t, out, 1)
	assert.Equal(t, "/products/ebooks/E1.pdf", out[0].Asset.Href)
	assert.Empty(t, in[0].Asset.Href)
	out[0].Includes[0] = "changed"
	assert.Equal(t, "a", in[0].Includes[0])
}
