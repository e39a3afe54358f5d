// Package adminapi implements the dashboard's JSON API. Every list endpoint
// returns the rows for the current page together with the status tally, so
// one request feeds the table, the tabs and the badges.
package adminapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/storekit/storeadmin/internal/app"
	"github.com/storekit/storeadmin/internal/listview"
)

var current app.AppContext

// Init wires the handlers to the application context and registers all
// admin routes on the webserver.
func Init(a app.AppContext) {
	current = a
	registerAuthRoutes()
	registerOrderRoutes()
	registerUserRoutes()
	registerVoucherRoutes()
	registerProductRoutes()
	registerDashboardRoutes()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(200, map[string]interface{}{
		"code": 0,
		"data": data,
	})
}

func fail(c echo.Context, status int, code, msg string, detail interface{}) error {
	body := map[string]interface{}{
		"code":    1,
		"error":   code,
		"message": msg,
	}
	if detail != nil {
		body["detail"] = detail
	}
	return c.JSON(status, body)
}

func paged(c echo.Context, rows interface{}, tally map[string]int, total int64, page, pageSize int) error {
	return c.JSON(200, map[string]interface{}{
		"code":    0,
		"items":   rows,
		"tally":   tally,
		"total":   total,
		"page":    page,
		"perPage": pageSize,
	})
}

// parsePagination accepts both perPage (front-end) and pageSize (legacy).
func parsePagination(c echo.Context) (page, pageSize int) {
	page = cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize = cast.ToInt(c.QueryParam("perPage"))
	if pageSize == 0 {
		pageSize = cast.ToInt(c.QueryParam("pageSize"))
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 500 {
		pageSize = 500
	}
	return page, pageSize
}

// parseListParams reads the shared list view inputs: tab, query, window.
func parseListParams(c echo.Context) (tab, q string, page, pageSize int) {
	tab = c.QueryParam("tab")
	if tab == "" {
		tab = listview.TabAll
	}
	q = c.QueryParam("q")
	page, pageSize = parsePagination(c)
	return tab, q, page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
