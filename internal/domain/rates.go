package domain

import (
	"fmt"
	"strings"
	"time"
)

// RoundingMode selects how a policy-adjusted price is rounded
type RoundingMode string

const (
	RoundNone          RoundingMode = "none"
	RoundCeilToPoint99 RoundingMode = "ceilToPoint99"
	RoundCeilToStep    RoundingMode = "ceilToStep"
)

// ParseRoundingMode accepts both the canonical names and the legacy
// rate-sheet spellings. Unknown values map to RoundNone.
func ParseRoundingMode(s string) RoundingMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ceiltopoint99", "ceil-endswith-99", "ceil-99", "ceil99":
		return RoundCeilToPoint99
	case "ceiltostep", "ceil-step", "step":
		return RoundCeilToStep
	default:
		return RoundNone
	}
}

// Rounding is a rounding mode plus its step for RoundCeilToStep
type Rounding struct {
	Mode RoundingMode `json:"mode"`
	Step float64      `json:"step,omitempty"`
}

// PricingPolicy is the commercial policy applied to secondary-currency prices
type PricingPolicy struct {
	MarginPct              float64  `json:"marginPct"`
	FlatFee                float64  `json:"flatFee"`
	MinSecondary           float64  `json:"minSecondary"`
	Rounding               Rounding `json:"round"`
	ApplyOnManualSecondary bool     `json:"applyOnManualSecondary"`
}

// NeutralPolicy applies no surcharge, no floor and plain 2-decimal rounding
func NeutralPolicy() PricingPolicy {
	return PricingPolicy{Rounding: Rounding{Mode: RoundNone}}
}

// RateSheet holds the base to secondary exchange rate and the pricing policy
type RateSheet struct {
	BaseCurrency        string        `json:"baseCurrency"`
	SecondaryCurrency   string        `json:"secondaryCurrency"`
	BaseToSecondaryRate float64       `json:"rate"`
	SourceTag           string        `json:"source"`
	UpdatedAt           *time.Time    `json:"updatedAt"`
	Policy              PricingPolicy `json:"policy"`
}

// RateKey returns the document key holding the rate, e.g. THB_USD
func RateKey(base, secondary string) string {
	return fmt.Sprintf("%s_%s", strings.ToUpper(base), strings.ToUpper(secondary))
}
