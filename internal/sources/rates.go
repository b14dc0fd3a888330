package sources

import (
	"math"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// FallbackSourceTag marks a rate sheet built from the configured default rate
const FallbackSourceTag = "fallback"

// FallbackRateSheet returns the built-in sheet with a neutral policy
func FallbackRateSheet(base, secondary string, rate float64) domain.RateSheet {
	return domain.RateSheet{
		BaseCurrency:        strings.ToUpper(base),
		SecondaryCurrency:   strings.ToUpper(secondary),
		BaseToSecondaryRate: rate,
		SourceTag:           FallbackSourceTag,
		Policy:              domain.NeutralPolicy(),
	}
}

type fxSection struct {
	MarginPct              float64 `mapstructure:"marginPct"`
	FlatFee                float64 `mapstructure:"flatFee"`
	MinSecondary           float64 `mapstructure:"minSecondary"`
	ApplyOnManualSecondary bool    `mapstructure:"applyOnManualSecondary"`
	Round                  struct {
		Mode string  `mapstructure:"mode"`
		Step float64 `mapstructure:"step"`
	} `mapstructure:"round"`
}

// ReadRateSheet loads the rate document. A missing file yields the fallback
// sheet with OutcomeFallback; an unparsable file or a missing/non-positive
// rate yields the fallback sheet with OutcomeError.
func ReadRateSheet(path, base, secondary string, fallbackRate float64) (domain.RateSheet, domain.SourceStatus) {
	status := domain.SourceStatus{Source: "rates"}
	fallback := FallbackRateSheet(base, secondary, fallbackRate)

	data, err := os.ReadFile(path)
	if err != nil {
		status.Outcome = domain.OutcomeFallback
		status.Detail = "rate sheet not found, using fallback rate"
		if !os.IsNotExist(err) {
			status.Outcome = domain.OutcomeError
			status.Err = errors.Wrap(domain.ErrSourceUnavailable, err.Error())
			status.Detail = status.Err.Error()
		}
		return fallback, status
	}

	sheet, err := ParseRateSheet(data, base, secondary)
	if err != nil {
		status.Outcome = domain.OutcomeError
		status.Err = err
		status.Detail = err.Error()
		zap.L().Warn("rate sheet invalid, using fallback rate",
			zap.String("namespace", "sources"),
			zap.String("path", path),
			zap.String("error", err.Error()),
		)
		return fallback, status
	}
	status.Outcome = domain.OutcomeUsed
	status.Rows = 1
	return sheet, status
}

// ParseRateSheet decodes rate document bytes
func ParseRateSheet(data []byte, base, secondary string) (domain.RateSheet, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.RateSheet{}, errors.Wrap(domain.ErrMalformedDocument, err.Error())
	}
	if raw == nil {
		return domain.RateSheet{}, errors.Wrap(domain.ErrMalformedDocument, "rate sheet is not an object")
	}

	key := domain.RateKey(base, secondary)
	rate, err := cast.ToFloat64E(raw[key])
	if err != nil || raw[key] == nil {
		return domain.RateSheet{}, errors.Wrapf(domain.ErrStructuralFailure, "rate %s missing or not numeric", key)
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return domain.RateSheet{}, errors.Wrapf(domain.ErrStructuralFailure, "rate %s must be positive, got %v", key, raw[key])
	}

	sheet := domain.RateSheet{
		BaseCurrency:        strings.ToUpper(base),
		SecondaryCurrency:   strings.ToUpper(secondary),
		BaseToSecondaryRate: rate,
		SourceTag:           cast.ToString(raw["source"]),
		Policy:              domain.NeutralPolicy(),
	}
	if sheet.SourceTag == "" {
		sheet.SourceTag = "file"
	}
	if s := strings.TrimSpace(cast.ToString(raw["updatedAt"])); s != "" {
		if t, err := dateparse.ParseAny(s); err == nil {
			t = t.UTC()
			sheet.UpdatedAt = &t
		}
	}

	policy, err := parsePolicy(raw["fxPolicy"], secondary)
	if err != nil {
		return domain.RateSheet{}, err
	}
	sheet.Policy = policy
	return sheet, nil
}

func parsePolicy(v interface{}, secondary string) (domain.PricingPolicy, error) {
	policy := domain.NeutralPolicy()
	fx, ok := v.(map[string]interface{})
	if !ok {
		return policy, nil
	}
	section, _ := fx[strings.ToLower(secondary)].(map[string]interface{})
	if section == nil {
		section, _ = fx[strings.ToUpper(secondary)].(map[string]interface{})
	}

	fields := map[string]interface{}{}
	for k, val := range section {
		fields[canonicalPolicyKey(k, secondary)] = val
	}
	if _, ok := fields["applyOnManualSecondary"]; !ok {
		if val, ok := fx["applyOnManualSecondary"]; ok {
			fields["applyOnManualSecondary"] = val
		}
	}

	var sec fxSection
	if err := mapstructure.WeakDecode(fields, &sec); err != nil {
		return policy, errors.Wrap(domain.ErrMalformedDocument, err.Error())
	}
	policy.MarginPct = nonNegative(sec.MarginPct)
	policy.FlatFee = nonNegative(sec.FlatFee)
	policy.MinSecondary = nonNegative(sec.MinSecondary)
	policy.ApplyOnManualSecondary = sec.ApplyOnManualSecondary
	policy.Rounding = domain.Rounding{
		Mode: domain.ParseRoundingMode(sec.Round.Mode),
		Step: sec.Round.Step,
	}
	return policy, nil
}

// canonicalPolicyKey maps currency-suffixed keys (flatUSD, minUSD,
// applyOnManualUSD) onto the generic field names.
func canonicalPolicyKey(k, secondary string) string {
	sec := strings.ToLower(secondary)
	switch strings.ToLower(k) {
	case "flat" + sec, "flatfee":
		return "flatFee"
	case "min" + sec, "minsecondary":
		return "minSecondary"
	case "applyonmanual" + sec, "applyonmanualsecondary":
		return "applyOnManualSecondary"
	default:
		return k
	}
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// RateAge returns how long ago the sheet was updated, or false when unknown
func RateAge(sheet domain.RateSheet, now time.Time) (time.Duration, bool) {
	if sheet.UpdatedAt == nil {
		return 0, false
	}
	return now.Sub(*sheet.UpdatedAt), true
}
