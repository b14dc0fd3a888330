package pricing

import (
	"strings"
	"time"

	"github.com/inkchain/storecatalog/internal/domain"
	"go.uber.org/zap"
)

// Price is one displayable amount
type Price struct {
	Value     float64    `json:"value"`
	Currency  string     `json:"currency"`
	Formatted string     `json:"formatted"`
	Approx    bool       `json:"approx"`
	RateDate  *time.Time `json:"rateDate,omitempty"`
}

// PriceQuote is the main price in the shopper's chosen currency plus a
// reference price in the other one. Either side may be nil.
type PriceQuote struct {
	Main      *Price `json:"main"`
	Secondary *Price `json:"secondary"`
}

// Quote builds display prices for a product. mainCurrency selects which of
// the sheet's two currencies is shown first. An authored secondary price is
// shown as-is unless the policy applies to manual prices; otherwise the
// secondary price is derived from the base price.
func Quote(p domain.ProductRecord, mainCurrency string, sheet domain.RateSheet) PriceQuote {
	policy := sheet.Policy
	hasBase := p.PriceBase > 0
	hasSec := p.HasSecondaryPrice()
	var manual float64
	if hasSec {
		manual = *p.PriceSecondaryManual
	}

	// secondary amount and whether it was derived
	secondary := func() (float64, bool, bool) {
		switch {
		case hasSec && !policy.ApplyOnManualSecondary:
			return manual, false, true
		case hasBase:
			r, err := ComputeSecondaryPrice(p.PriceBase, sheet, policy)
			if err != nil {
				logQuoteError(p.ID, err)
				return 0, false, false
			}
			return r.Value, true, true
		case hasSec:
			r, err := ApplyPolicyOnSecondary(manual, policy)
			if err != nil {
				logQuoteError(p.ID, err)
				return 0, false, false
			}
			return r.Value, true, true
		}
		return 0, false, false
	}

	if strings.EqualFold(strings.TrimSpace(mainCurrency), sheet.SecondaryCurrency) {
		var q PriceQuote
		v, _, ok := secondary()
		if ok {
			q.Main = &Price{Value: v, Currency: sheet.SecondaryCurrency, Formatted: FormatSecondary(v, sheet.SecondaryCurrency)}
		}
		switch {
		case hasBase:
			q.Secondary = &Price{Value: p.PriceBase, Currency: sheet.BaseCurrency, Formatted: FormatBase(p.PriceBase, sheet.BaseCurrency)}
		case ok:
			if b, err := ConvertSecondaryToBase(v, sheet); err == nil {
				q.Secondary = &Price{
					Value:     b,
					Currency:  sheet.BaseCurrency,
					Formatted: FormatBase(b, sheet.BaseCurrency),
					Approx:    true,
					RateDate:  sheet.UpdatedAt,
				}
			}
		}
		return q
	}

	var q PriceQuote
	switch {
	case hasBase:
		q.Main = &Price{Value: p.PriceBase, Currency: sheet.BaseCurrency, Formatted: FormatBase(p.PriceBase, sheet.BaseCurrency)}
	case hasSec:
		if b, err := ConvertSecondaryToBase(manual, sheet); err == nil {
			q.Main = &Price{Value: b, Currency: sheet.BaseCurrency, Formatted: FormatBase(b, sheet.BaseCurrency)}
		}
	}
	if v, approx, ok := secondary(); ok {
		q.Secondary = &Price{
			Value:     v,
			Currency:  sheet.SecondaryCurrency,
			Formatted: FormatSecondary(v, sheet.SecondaryCurrency),
			Approx:    approx,
			RateDate:  sheet.UpdatedAt,
		}
	}
	return q
}

func logQuoteError(id string, err error) {
	zap.L().Debug("price quote skipped",
		zap.String("namespace", "pricing"),
		zap.String("product", id),
		zap.Error(err),
	)
}
