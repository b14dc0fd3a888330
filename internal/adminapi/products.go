package adminapi

import (
	"net/http"
	"strings"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/labstack/echo/v4"
)

// registerProductRoutes registers product lookup endpoints
func registerProductRoutes(g *echo.Group) {
	g.GET("/products", listProducts)
	g.GET("/products/:id", getProduct)
	g.GET("/products/:id/quote", quoteProduct)
	g.GET("/products/:id/download", downloadTarget)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	typ := strings.TrimSpace(c.QueryParam("type"))

	cat := GetAppContext(c).Catalog().GetCatalog(c.Request().Context())
	rows := make([]domain.ProductRecord, 0, len(cat.Products))
	for _, p := range cat.Products {
		if typ != "" && !strings.EqualFold(string(p.Category), typ) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.ID), q) && !strings.Contains(strings.ToLower(p.Title), q) {
			continue
		}
		rows = append(rows, p)
	}

	total := len(rows)
	start, end := pageBounds(page, pageSize, total)
	return paged(c, rows[start:end], total, page, pageSize)
}

func getProduct(c echo.Context) error {
	p := GetAppContext(c).Catalog().GetProductByID(c.Request().Context(), c.Param("id"))
	if p == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func quoteProduct(c echo.Context) error {
	svc := GetAppContext(c).Catalog()
	p := svc.GetProductByID(c.Request().Context(), c.Param("id"))
	if p == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, svc.Quote(*p, c.QueryParam("currency")))
}

func downloadTarget(c echo.Context) error {
	svc := GetAppContext(c).Catalog()
	p := svc.GetProductByID(c.Request().Context(), c.Param("id"))
	if p == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, svc.ResolveDownloadTarget(*p))
}
