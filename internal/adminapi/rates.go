package adminapi

import (
	"net/http"
	"time"

	"github.com/inkchain/storecatalog/internal/pricing"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

// registerRateRoutes registers rate sheet and pricing endpoints
func registerRateRoutes(g *echo.Group) {
	g.GET("/rates", getRates)
	g.GET("/rates/history", rateHistory)
	g.GET("/price", priceProbe)
}

func getRates(c echo.Context) error {
	return ok(c, GetAppContext(c).Catalog().GetRates())
}

func rateHistory(c echo.Context) error {
	appCtx := GetAppContext(c)
	h := appCtx.RateHistory()
	if h == nil {
		return fail(c, http.StatusServiceUnavailable, "NO_HISTORY", "Rate history is not available", nil)
	}
	days := cast.ToInt(c.QueryParam("days"))
	if days <= 0 {
		days = 30
	}
	cfg := appCtx.Config()
	to := time.Now().Add(time.Second)
	pts, err := h.Range(cfg.Catalog.BaseCurrency, cfg.Catalog.SecondaryCurrency, to.AddDate(0, 0, -days), to)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "HISTORY_ERROR", "Failed to read rate history", err.Error())
	}
	return ok(c, pts)
}

// priceProbe prices ?base=N into the secondary currency or converts
// ?secondary=N back into the base currency.
func priceProbe(c echo.Context) error {
	svc := GetAppContext(c).Catalog()
	if raw := c.QueryParam("base"); raw != "" {
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_AMOUNT", "base must be a number", nil)
		}
		res, err := svc.ComputeSecondaryPrice(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "PRICING_ERROR", "Unable to price amount", err.Error())
		}
		return ok(c, res)
	}
	if raw := c.QueryParam("secondary"); raw != "" {
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_AMOUNT", "secondary must be a number", nil)
		}
		base, err := pricing.ConvertSecondaryToBase(v, svc.GetRates())
		if err != nil {
			return fail(c, http.StatusBadRequest, "PRICING_ERROR", "Unable to convert amount", err.Error())
		}
		return ok(c, map[string]float64{"base": base})
	}
	return fail(c, http.StatusBadRequest, "MISSING_AMOUNT", "base or secondary is required", nil)
}
