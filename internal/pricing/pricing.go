// Package pricing derives secondary-currency prices from base prices under
// a commercial policy. All functions are pure and safe for concurrent use.
package pricing

import (
	"math"
	"time"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultStep is used by ceilToStep when the configured step is not positive
const DefaultStep = 0.5

var (
	epsilon = decimal.New(1, -9)
	point99 = decimal.RequireFromString("0.99")
	one99   = decimal.RequireFromString("1.99")
)

// Result is a computed secondary price with the inputs that produced it
type Result struct {
	Value         float64              `json:"value"`
	IsDerived     bool                 `json:"isDerived"`
	RateUsed      float64              `json:"rateUsed"`
	RateTimestamp *time.Time           `json:"rateTimestamp"`
	Policy        domain.PricingPolicy `json:"policy"`
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ComputeSecondaryPrice converts priceBase at the sheet rate and applies
// margin, flat fee, floor and rounding, in that order.
func ComputeSecondaryPrice(priceBase float64, sheet domain.RateSheet, policy domain.PricingPolicy) (Result, error) {
	if priceBase < 0 || !finite(priceBase) {
		return Result{}, errors.Wrapf(domain.ErrInvalidPricingInput, "base price %v", priceBase)
	}
	rate := sheet.BaseToSecondaryRate
	if rate <= 0 || !finite(rate) {
		return Result{}, errors.Wrapf(domain.ErrInvalidPricingInput, "rate %v", rate)
	}
	raw := decimal.NewFromFloat(priceBase).Mul(decimal.NewFromFloat(rate))
	return Result{
		Value:         applyPolicy(raw, policy),
		IsDerived:     true,
		RateUsed:      rate,
		RateTimestamp: sheet.UpdatedAt,
		Policy:        policy,
	}, nil
}

// ApplyPolicyOnSecondary applies the policy to a manually authored
// secondary-currency price. No rate is involved.
func ApplyPolicyOnSecondary(priceSecondary float64, policy domain.PricingPolicy) (Result, error) {
	if priceSecondary < 0 || !finite(priceSecondary) {
		return Result{}, errors.Wrapf(domain.ErrInvalidPricingInput, "secondary price %v", priceSecondary)
	}
	return Result{
		Value:  applyPolicy(decimal.NewFromFloat(priceSecondary), policy),
		Policy: policy,
	}, nil
}

// ConvertSecondaryToBase converts back to the base currency, rounded to a
// whole unit.
func ConvertSecondaryToBase(priceSecondary float64, sheet domain.RateSheet) (float64, error) {
	if priceSecondary < 0 || !finite(priceSecondary) {
		return 0, errors.Wrapf(domain.ErrInvalidPricingInput, "secondary price %v", priceSecondary)
	}
	rate := sheet.BaseToSecondaryRate
	if rate <= 0 || !finite(rate) {
		return 0, errors.Wrapf(domain.ErrInvalidPricingInput, "rate %v", rate)
	}
	v := decimal.NewFromFloat(priceSecondary).Div(decimal.NewFromFloat(rate)).Round(0)
	return v.InexactFloat64(), nil
}

func applyPolicy(v decimal.Decimal, policy domain.PricingPolicy) float64 {
	margin := decimal.NewFromFloat(math.Max(policy.MarginPct, 0))
	flat := decimal.NewFromFloat(math.Max(policy.FlatFee, 0))
	floor := decimal.NewFromFloat(math.Max(policy.MinSecondary, 0))

	priced := v.Mul(decimal.NewFromInt(1).Add(margin)).Add(flat)
	priced = decimal.Max(priced, floor)
	return round(priced, policy.Rounding).Round(2).InexactFloat64()
}

func round(v decimal.Decimal, r domain.Rounding) decimal.Decimal {
	switch r.Mode {
	case domain.RoundCeilToPoint99:
		base := v.Floor()
		if v.LessThanOrEqual(base.Add(point99).Add(epsilon)) {
			return base.Add(point99)
		}
		return base.Add(one99)
	case domain.RoundCeilToStep:
		step := r.Step
		if step <= 0 || !finite(step) {
			step = DefaultStep
		}
		s := decimal.NewFromFloat(step)
		return v.Div(s).Ceil().Mul(s)
	default:
		return v.Round(2)
	}
}
