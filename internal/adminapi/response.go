package adminapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the error envelope of every failed request
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Paged is a page of list results
type Paged struct {
	Data     interface{} `json:"data"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(200, map[string]interface{}{"data": data})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"error": ErrorBody{Code: code, Message: message, Details: details},
	})
}

func paged(c echo.Context, data interface{}, total, page, pageSize int) error {
	return c.JSON(200, Paged{Data: data, Total: total, Page: page, PageSize: pageSize})
}

// parsePagination reads page and perPage (or the older pageSize) with
// defaults 1 and 20; pages are capped at 500 rows.
func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	size := 20
	raw := c.QueryParam("perPage")
	if raw == "" {
		raw = c.QueryParam("pageSize")
	}
	if ps, err := strconv.Atoi(raw); err == nil && ps > 0 && ps <= 500 {
		size = ps
	}
	return page, size
}

// pageBounds returns the slice bounds of one page over total rows
func pageBounds(page, size, total int) (int, int) {
	if page < 1 || size < 1 || page-1 > total/size {
		return total, total
	}
	start := (page - 1) * size
	end := total
	if total-start > size {
		end = start + size
	}
	return start, end
}
