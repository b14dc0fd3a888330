package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheetAt(rate float64, policy domain.PricingPolicy) domain.RateSheet {
	updated := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return domain.RateSheet{
		BaseCurrency:        "THB",
		SecondaryCurrency:   "USD",
		BaseToSecondaryRate: rate,
		SourceTag:           "test",
		UpdatedAt:           &updated,
		Policy:              policy,
	}
}

func TestComputeSecondaryPriceRounding(t *testing.T) {
	cases := []struct {
		name   string
		base   float64
		policy domain.PricingPolicy
		want   float64
	}{
		{"none", 1000, domain.NeutralPolicy(), 28.00},
		{"point99", 1000, domain.PricingPolicy{Rounding: domain.Rounding{Mode: domain.RoundCeilToPoint99}}, 28.99},
		{"point99 above", 1000, domain.PricingPolicy{FlatFee: 0.995, Rounding: domain.Rounding{Mode: domain.RoundCeilToPoint99}}, 29.99},
		{"floor", 10, domain.PricingPolicy{MinSecondary: 1.99}, 1.99},
		{"margin and flat", 1000, domain.PricingPolicy{MarginPct: 0.06, FlatFee: 0.3}, 29.98},
		{"step", 1000, domain.PricingPolicy{MarginPct: 0.06, FlatFee: 0.3, Rounding: domain.Rounding{Mode: domain.RoundCeilToStep, Step: 0.5}}, 30.00},
		{"step default", 1010, domain.PricingPolicy{Rounding: domain.Rounding{Mode: domain.RoundCeilToStep}}, 28.50},
		{"zero", 0, domain.NeutralPolicy(), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sheet := sheetAt(0.028, tc.policy)
			res, err := ComputeSecondaryPrice(tc.base, sheet, tc.policy)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Value)
			assert.True(t, res.IsDerived)
			assert.Equal(t, 0.028, res.RateUsed)
			assert.Equal(t, sheet.UpdatedAt, res.RateTimestamp)
			assert.Equal(t, tc.policy, res.Policy)
		})
	}
}

func TestComputeSecondaryPriceInvalidInput(t *testing.T) {
	policy := domain.NeutralPolicy()
	for _, base := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := ComputeSecondaryPrice(base, sheetAt(0.028, policy), policy)
		assert.True(t, errors.Is(err, domain.ErrInvalidPricingInput))
	}
	for _, rate := range []float64{0, -0.5, math.Inf(1)} {
		_, err := ComputeSecondaryPrice(100, sheetAt(rate, policy), policy)
		assert.True(t, errors.Is(err, domain.ErrInvalidPricingInput))
	}
}

func TestComputeSecondaryPriceDeterministic(t *testing.T) {
	policy := domain.PricingPolicy{MarginPct: 0.06, FlatFee: 0.3, Rounding: domain.Rounding{Mode: domain.RoundCeilToPoint99}}
	sheet := sheetAt(0.0274, policy)
	first, err := ComputeSecondaryPrice(1290, sheet, policy)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := ComputeSecondaryPrice(1290, sheet, policy)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestInverseDirection(t *testing.T) {
	policy := domain.PricingPolicy{MarginPct: 0.1, Rounding: domain.Rounding{Mode: domain.RoundCeilToPoint99}}
	res, err := ApplyPolicyOnSecondary(10, policy)
	require.NoError(t, err)
	assert.Equal(t, 11.99, res.Value)
	assert.False(t, res.IsDerived)
	assert.Zero(t, res.RateUsed)

	thb, err := ConvertSecondaryToBase(28, sheetAt(0.028, policy))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, thb)

	_, err = ConvertSecondaryToBase(28, sheetAt(0, policy))
	assert.True(t, errors.Is(err, domain.ErrInvalidPricingInput))
}

func TestQuoteBaseMain(t *testing.T) {
	sheet := sheetAt(0.028, domain.PricingPolicy{Rounding: domain.Rounding{Mode: domain.RoundCeilToPoint99}})

	q := Quote(domain.ProductRecord{ID: "P1", PriceBase: 1000}, "THB", sheet)
	require.NotNil(t, q.Main)
	require.NotNil(t, q.Secondary)
	assert.Equal(t, 1000.0, q.Main.Value)
	assert.Equal(t, "฿1,000", q.Main.Formatted)
	assert.Equal(t, 28.99, q.Secondary.Value)
	assert.Equal(t, "$28.99", q.Secondary.Formatted)
	assert.True(t, q.Secondary.Approx)
	assert.Equal(t, sheet.UpdatedAt, q.Secondary.RateDate)

	manual := 9.5
	q = Quote(domain.ProductRecord{ID: "P2", PriceBase: 1000, PriceSecondaryManual: &manual}, "THB", sheet)
	assert.Equal(t, 9.5, q.Secondary.Value)
	assert.False(t, q.Secondary.Approx)

	q = Quote(domain.ProductRecord{ID: "P3", PriceSecondaryManual: &manual}, "THB", sheet)
	require.NotNil(t, q.Main)
	assert.Equal(t, 339.0, q.Main.Value)

	q = Quote(domain.ProductRecord{ID: "P4"}, "THB", sheet)
	assert.Nil(t, q.Main)
	assert.Nil(t, q.Secondary)
}

func TestQuoteSecondaryMain(t *testing.T) {
	policy := domain.PricingPolicy{Rounding: domain.Rounding{Mode: domain.RoundCeilToPoint99}, ApplyOnManualSecondary: true}
	sheet := sheetAt(0.028, policy)
	manual := 10.0

	q := Quote(domain.ProductRecord{ID: "P1", PriceSecondaryManual: &manual}, "usd", sheet)
	require.NotNil(t, q.Main)
	assert.Equal(t, 10.99, q.Main.Value)
	require.NotNil(t, q.Secondary)
	assert.Equal(t, "THB", q.Secondary.Currency)
	assert.Equal(t, 393.0, q.Secondary.Value)
	assert.True(t, q.Secondary.Approx)

	q = Quote(domain.ProductRecord{ID: "P2", PriceBase: 1000}, "USD", sheet)
	assert.Equal(t, 28.99, q.Main.Value)
	assert.Equal(t, 1000.0, q.Secondary.Value)
	assert.False(t, q.Secondary.Approx)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "฿1,290", FormatBase(1290, "THB"))
	assert.Equal(t, "$1,234.50", FormatSecondary(1234.5, "usd"))
	assert.Equal(t, "CHF 3.00", FormatSecondary(3, "CHF"))
}
