package adminapi

import (
	"net/http"
	"time"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/labstack/echo/v4"
)

type catalogSummary struct {
	Store       domain.StoreInfo        `json:"store"`
	Products    int                     `json:"products"`
	Categories  map[domain.Category]int `json:"categories"`
	Videos      []interface{}           `json:"videos"`
	Posts       []interface{}           `json:"posts"`
	GeneratedAt time.Time               `json:"generatedAt"`
	Sources     []domain.SourceStatus   `json:"sources,omitempty"`
}

// registerCatalogRoutes registers catalog level endpoints
func registerCatalogRoutes(g *echo.Group) {
	g.GET("/catalog", getCatalog)
	g.POST("/catalog/refresh", refreshCatalog)
	g.POST("/catalog/invalidate", invalidateCatalog)
}

func getCatalog(c echo.Context) error {
	svc := GetAppContext(c).Catalog()
	cat := svc.GetCatalog(c.Request().Context())
	sum := catalogSummary{
		Store:       cat.Store,
		Products:    len(cat.Products),
		Categories:  map[domain.Category]int{},
		Videos:      cat.Videos,
		Posts:       cat.Posts,
		GeneratedAt: cat.GeneratedAt,
	}
	for _, p := range cat.Products {
		sum.Categories[p.Category]++
	}
	if b := svc.LastBuild(); b != nil && b.Catalog == cat {
		sum.Sources = b.Statuses
	}
	return ok(c, sum)
}

func refreshCatalog(c echo.Context) error {
	b, id, err := GetAppContext(c).BuildAndPublish(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "REFRESH_FAILED", "Failed to refresh catalog", err.Error())
	}
	return ok(c, map[string]interface{}{
		"snapshot": id,
		"products": len(b.Catalog.Products),
		"sources":  b.Statuses,
	})
}

func invalidateCatalog(c echo.Context) error {
	GetAppContext(c).Catalog().InvalidateCatalogCache()
	return c.NoContent(http.StatusNoContent)
}
