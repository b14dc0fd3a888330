package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

// registerSnapshotRoutes registers published snapshot endpoints
func registerSnapshotRoutes(g *echo.Group) {
	g.GET("/snapshots", listSnapshots)
	g.GET("/snapshots/:id", getSnapshot)
}

func listSnapshots(c echo.Context) error {
	st := GetAppContext(c).Snapshots()
	if st == nil {
		return fail(c, http.StatusServiceUnavailable, "NO_STORE", "Snapshot store is not available", nil)
	}
	limit := cast.ToInt(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 20
	}
	list, err := st.List(limit)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to list snapshots", err.Error())
	}
	return ok(c, list)
}

func getSnapshot(c echo.Context) error {
	st := GetAppContext(c).Snapshots()
	if st == nil {
		return fail(c, http.StatusServiceUnavailable, "NO_STORE", "Snapshot store is not available", nil)
	}
	snap, err := st.Get(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid snapshot ID", err.Error())
	}
	if snap == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Snapshot not found", nil)
	}
	return ok(c, snap)
}
