package reconcile

import (
	"testing"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }
func num(f float64) *float64 { return &f }

func TestOverrideTitleWins(t *testing.T) {
	sheet := []domain.ProductPatch{{ID: "P1", Title: str("From Sheet"), Source: domain.SourceTabular}}
	override := []domain.ProductPatch{{ID: "p1", Title: str("From Override"), Source: domain.SourceOverride}}

	out := Reconcile(override, sheet)
	require.Len(t, out, 1)
	assert.Equal(t, "From Override", out[0].Title)
	assert.Equal(t, domain.SourceOverride, out[0].Source)
}

func TestPartialFieldsArePreserved(t *testing.T) {
	sheet := []domain.ProductPatch{{ID: "P1", Image: str("p1.png"), PriceBase: num(500), Source: domain.SourceTabular}}
	override := []domain.ProductPatch{{ID: "P1", PriceBase: num(990), Source: domain.SourceOverride}}

	out := Reconcile(sheet, override)
	require.Len(t, out, 1)
	assert.Equal(t, 990.0, out[0].PriceBase)
	assert.Equal(t, "p1.png", out[0].Image)
}

func TestAssetOnlyDefaults(t *testing.T) {
	cat := domain.CategoryEbook
	out := Reconcile([]domain.ProductPatch{{ID: "E1", Category: &cat, Source: domain.SourceAsset}})
	require.Len(t, out, 1)
	r := out[0]
	assert.Equal(t, "E1", r.Title)
	assert.Equal(t, "E1", r.SKU)
	assert.Equal(t, domain.CategoryEbook, r.Category)
	assert.Equal(t, domain.DefaultRating, r.Rating)
	assert.Equal(t, []string{}, r.Includes)
	assert.Nil(t, r.PriceSecondaryManual)
}

func TestStableSortByWeight(t *testing.T) {
	out := Reconcile([]domain.ProductPatch{
		{ID: "A", Source: domain.SourceAsset},
		{ID: "B", SortWeight: num(5), Source: domain.SourceAsset},
		{ID: "C", Source: domain.SourceAsset},
		{ID: "D", SortWeight: num(5), Source: domain.SourceTabular},
	})
	ids := make([]string, len(out))
	for i, r := range out {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"B", "D", "A", "C"}, ids)
}

func TestMergeDoesNotModifyInputs(t *testing.T) {
	existing := domain.ProductPatch{ID: "P1", Title: str("old"), Source: domain.SourceTabular}
	incoming := domain.ProductPatch{ID: "P1", Title: str("new"), Source: domain.SourceOverride}

	merged := Merge(existing, incoming)
	assert.Equal(t, "new", *merged.Title)
	assert.Equal(t, "old", *existing.Title)
	assert.Equal(t, domain.SourceTabular, existing.Source)
}

func TestReconcileIsIdempotent(t *testing.T) {
	layers := [][]domain.ProductPatch{
		{{ID: "P1", Source: domain.SourceAsset}, {ID: "P2", Source: domain.SourceAsset}},
		{{ID: "P2", Title: str("Two"), SortWeight: num(1), Source: domain.SourceTabular}},
		{{ID: "P3", Source: domain.SourceOverride}},
	}
	first := Reconcile(layers...)
	second := Reconcile(layers...)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
	assert.Equal(t, "P2", first[0].ID)
}
