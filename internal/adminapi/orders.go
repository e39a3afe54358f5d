package adminapi

import (
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/storekit/storeadmin/internal/listview"
	"github.com/storekit/storeadmin/internal/store"
	"github.com/storekit/storeadmin/internal/webserver"
)

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/export", exportOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiDELETE("/orders/:id", deleteOrder)
}

func listOrders(c echo.Context) error {
	tab, q, page, pageSize := parseListParams(c)
	source := current.Orders().List()

	// tallies always count the whole collection, not the filtered view
	tally := listview.Orders.Tally(source)
	filtered := listview.Orders.Filter(source, tab, q)
	rows := listview.Paginate(filtered, page, pageSize)
	return paged(c, rows, tally, int64(len(filtered)), page, pageSize)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := current.Orders().Get(id)
	if err != nil {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	}
	return ok(c, order)
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	if err := current.Orders().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete order", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

type orderCsvRow struct {
	ID       int64   `csv:"order_id"`
	Customer string  `csv:"customer"`
	Email    string  `csv:"email"`
	Date     string  `csv:"date"`
	Items    int     `csv:"items"`
	Price    float64 `csv:"price"`
	Status   string  `csv:"status"`
}

// exportOrders streams the current filtered view as CSV, honoring the same
// tab and q parameters as the list endpoint.
func exportOrders(c echo.Context) error {
	tab := c.QueryParam("tab")
	if tab == "" {
		tab = listview.TabAll
	}
	filtered := listview.Orders.Filter(current.Orders().List(), tab, c.QueryParam("q"))

	rows := make([]orderCsvRow, 0, len(filtered))
	for _, o := range filtered {
		rows = append(rows, orderCsvRow{
			ID:       o.ID,
			Customer: o.Customer.Name,
			Email:    o.Customer.Email,
			Date:     o.Date.Format(time.RFC3339),
			Items:    o.Items,
			Price:    o.Price,
			Status:   o.Status,
		})
	}
	data, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export orders", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}
