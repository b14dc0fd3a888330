package normalize

import (
	"testing"

	"github.com/inkchain/storecatalog/internal/assets"
	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorySynonyms(t *testing.T) {
	cases := map[string]domain.Category{
		"":        domain.CategoryPrompt,
		"PROMPT":  domain.CategoryPrompt,
		"e-book":  domain.CategoryEbook,
		"Book":    domain.CategoryEbook,
		"photo":   domain.CategoryImage,
		"picture": domain.CategoryImage,
		" clip ":  domain.CategoryVideo,
		"nft":     domain.CategoryNFT,
		"course":  domain.CategoryOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, Category(in), in)
	}
}

func TestNumber(t *testing.T) {
	f, ok := Number("1,290 ")
	assert.True(t, ok)
	assert.Equal(t, 1290.0, f)

	f, ok = Number(42)
	assert.True(t, ok)
	assert.Equal(t, 42.0, f)

	_, ok = Number("abc")
	assert.False(t, ok)
	_, ok = Number("")
	assert.False(t, ok)
	_, ok = Number(nil)
	assert.False(t, ok)
}

func TestIncludes(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Includes("a| b ,c\n", overrideIncludeSep))
	assert.Equal(t, []string{"x, y", "z"}, Includes("x, y; z", sheetIncludeSep))
	assert.Equal(t, []string{"one", "two"}, Includes([]interface{}{"one", "", nil, "two"}, overrideIncludeSep))
	assert.Equal(t, []string{}, Includes(nil, overrideIncludeSep))
}

func TestFromOverride(t *testing.T) {
	res := FromOverride([]map[string]interface{}{
		{"id": " p1 ", "Title": "Prompt Pack", "priceTHB": "1,000", "includes": "a|b"},
		{"sku": "e2", "type": "book", "priceUSD": 4.5, "rating": "oops"},
		{"title": "orphan"},
		{"id": "n3", "priceTHB": -5, "sales": "12"},
	}, "THB", "USD")

	require.Len(t, res.Patches, 3)
	assert.Equal(t, 1, res.Skipped)

	p1 := res.Patches[0]
	assert.Equal(t, "P1", p1.ID)
	assert.Equal(t, domain.SourceOverride, p1.Source)
	assert.Equal(t, "Prompt Pack", *p1.Title)
	assert.Equal(t, 1000.0, *p1.PriceBase)
	assert.Equal(t, []string{"a", "b"}, *p1.Includes)
	assert.Nil(t, p1.Image)
	assert.Nil(t, p1.Category)

	e2 := res.Patches[1]
	assert.Equal(t, "E2", e2.ID)
	assert.Equal(t, "e2", *e2.SKU)
	assert.Equal(t, domain.CategoryEbook, *e2.Category)
	assert.Equal(t, 4.5, *e2.PriceSecondary)
	assert.Equal(t, domain.DefaultRating, *e2.Rating)

	n3 := res.Patches[2]
	assert.Equal(t, 0.0, *n3.PriceBase)
	assert.Equal(t, 12, *n3.SalesCount)

	// one skipped record plus one negative price
	assert.Len(t, res.Issues, 2)
}

func TestFromSheet(t *testing.T) {
	rows := []map[string]string{
		{"ID": "p1", "Title": "", "Type": "Prompt", "PriceTHB": "990", "PriceUSD": "", "Includes": "a;b|c", "Sort": "10", "Gumroad": "https://gum.test/p1"},
		{"Id": "e2", "Type": "ebook", "Category": "Guides", "Level": "Pro", "Status": "draft"},
		{"ID": "", "Title": "nothing"},
		{"id": "v3", "type": "clip", "Status": "YES", "NFTUrl": "", "Image": "v3.png"},
	}
	res := FromSheet(rows, "THB", "USD")

	require.Len(t, res.Patches, 2)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Excluded)
	assert.Len(t, res.Issues, 1)

	p1 := res.Patches[0]
	assert.Equal(t, "P1", p1.ID)
	assert.Nil(t, p1.Title)
	assert.Equal(t, "Prompt", *p1.GroupCategory)
	assert.Equal(t, DefaultTier, *p1.Tier)
	assert.Equal(t, 990.0, *p1.PriceBase)
	assert.Nil(t, p1.PriceSecondary)
	assert.Equal(t, []string{"a", "b", "c"}, *p1.Includes)
	assert.Equal(t, 10.0, *p1.SortWeight)
	assert.Equal(t, "https://gum.test/p1", *p1.CheckoutLink)

	v3 := res.Patches[1]
	assert.Equal(t, domain.CategoryVideo, *v3.Category)
	assert.Equal(t, "v3.png", *v3.Image)
	assert.Nil(t, v3.ExternalLink)
}

func TestFromAssets(t *testing.T) {
	idx := assets.BuildIndex([]string{"ebooks/E1__guide.pdf", "prompts/p2.zip", "ebooks/e1.epub"}, "/products")
	res := FromAssets(idx)

	require.Len(t, res.Patches, 2)
	e1 := res.Patches[0]
	assert.Equal(t, "E1", e1.ID)
	assert.Equal(t, domain.CategoryEbook, *e1.Category)
	assert.Equal(t, "E1", *e1.Title)
	assert.Equal(t, domain.SourceAsset, e1.Source)
	assert.Equal(t, "P2", res.Patches[1].ID)
}

func TestPublished(t *testing.T) {
	for _, s := range []string{"", "published", "TRUE", " yes "} {
		assert.True(t, Published(s), s)
	}
	for _, s := range []string{"draft", "no", "false"} {
		assert.False(t, Published(s), s)
	}
}
