package sources

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRateSheetMissingUsesFallback(t *testing.T) {
	sheet, status := ReadRateSheet(filepath.Join(t.TempDir(), "rates.json"), "THB", "USD", 0.028)
	assert.Equal(t, domain.OutcomeFallback, status.Outcome)
	assert.Equal(t, 0.028, sheet.BaseToSecondaryRate)
	assert.Equal(t, FallbackSourceTag, sheet.SourceTag)
	assert.Equal(t, domain.NeutralPolicy(), sheet.Policy)
	assert.Nil(t, sheet.UpdatedAt)
}

func TestReadRateSheetPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	writeFile(t, path, `{
		"THB_USD": "0.0274",
		"source": "frankfurter",
		"updatedAt": "2024-05-01T00:00:00Z",
		"fxPolicy": {
			"usd": {
				"marginPct": 0.06,
				"flatUSD": 0.3,
				"minUSD": "1.99",
				"round": {"mode": "ceil-endswith-99"},
				"applyOnManualUSD": true
			}
		}
	}`)

	sheet, status := ReadRateSheet(path, "THB", "USD", 0.028)
	require.Equal(t, domain.OutcomeUsed, status.Outcome)
	assert.Equal(t, 0.0274, sheet.BaseToSecondaryRate)
	assert.Equal(t, "frankfurter", sheet.SourceTag)
	require.NotNil(t, sheet.UpdatedAt)
	assert.True(t, sheet.UpdatedAt.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.PricingPolicy{
		MarginPct:              0.06,
		FlatFee:                0.3,
		MinSecondary:           1.99,
		Rounding:               domain.Rounding{Mode: domain.RoundCeilToPoint99},
		ApplyOnManualSecondary: true,
	}, sheet.Policy)
}

func TestParseRateSheetGenericApplyFlagAndStep(t *testing.T) {
	sheet, err := ParseRateSheet([]byte(`{
		"THB_USD": 0.03,
		"fxPolicy": {"applyOnManualSecondary": "true", "usd": {"marginPct": -1, "round": {"mode": "ceilToStep", "step": 0.25}}}
	}`), "THB", "USD")
	require.NoError(t, err)
	assert.True(t, sheet.Policy.ApplyOnManualSecondary)
	assert.Equal(t, 0.0, sheet.Policy.MarginPct)
	assert.Equal(t, domain.RoundCeilToStep, sheet.Policy.Rounding.Mode)
	assert.Equal(t, 0.25, sheet.Policy.Rounding.Step)
	assert.Equal(t, "file", sheet.SourceTag)
}

func TestReadRateSheetInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]struct {
		body string
		want error
	}{
		"zero rate":    {`{"THB_USD": 0}`, domain.ErrStructuralFailure},
		"missing rate": {`{"source": "x"}`, domain.ErrStructuralFailure},
		"bad json":     {`{"THB_USD":`, domain.ErrMalformedDocument},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			writeFile(t, path, tc.body)
			sheet, status := ReadRateSheet(path, "THB", "USD", 0.028)
			assert.Equal(t, domain.OutcomeError, status.Outcome)
			assert.True(t, errors.Is(status.Err, tc.want))
			assert.Equal(t, 0.028, sheet.BaseToSecondaryRate)
		})
	}
}
