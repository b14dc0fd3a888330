package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoundingMode(t *testing.T) {
	cases := map[string]RoundingMode{
		"ceilToPoint99":    RoundCeilToPoint99,
		"ceil-endswith-99": RoundCeilToPoint99,
		" CEIL-STEP ":      RoundCeilToStep,
		"ceilToStep":       RoundCeilToStep,
		"none":             RoundNone,
		"":                 RoundNone,
		"banker":           RoundNone,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseRoundingMode(in), in)
	}
}

func TestSourcePriority(t *testing.T) {
	assert.Less(t, SourceAsset.Priority(), SourceTabular.Priority())
	assert.Less(t, SourceTabular.Priority(), SourceOverride.Priority())
	assert.Equal(t, 0, Source("unknown").Priority())
}

func TestProductMatchesAndLookup(t *testing.T) {
	c := &Catalog{Products: []ProductRecord{
		{ID: "P1", SKU: "P1"},
		{ID: "E2", SKU: "ink-e2"},
	}}

	assert.True(t, c.Products[0].Matches(" p1 "))
	assert.False(t, c.Products[0].Matches(""))

	got := c.Product("INK-E2")
	if assert.NotNil(t, got) {
		assert.Equal(t, "E2", got.ID)
		got.Title = "mutated"
		assert.Empty(t, c.Products[1].Title)
	}
	assert.Nil(t, c.Product("missing"))

	var nilCatalog *Catalog
	assert.Nil(t, nilCatalog.Product("P1"))
}

func TestHasSecondaryPrice(t *testing.T) {
	zero, price := 0.0, 4.5
	assert.False(t, ProductRecord{}.HasSecondaryPrice())
	assert.False(t, ProductRecord{PriceSecondaryManual: &zero}.HasSecondaryPrice())
	assert.True(t, ProductRecord{PriceSecondaryManual: &price}.HasSecondaryPrice())
}

func TestRateKey(t *testing.T) {
	assert.Equal(t, "THB_USD", RateKey("thb", "Usd"))
}
