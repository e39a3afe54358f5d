package adminapi

import (
	"net/http"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/storekit/storeadmin/internal/domain"
	"github.com/storekit/storeadmin/internal/listview"
	"github.com/storekit/storeadmin/internal/store"
	"github.com/storekit/storeadmin/internal/webserver"
)

func registerUserRoutes() {
	webserver.ApiGET("/users", listUsers)
	webserver.ApiGET("/users/export", exportUsers)
	webserver.ApiGET("/users/:id", getUser)
	webserver.ApiPUT("/users/:id", updateUser)
	webserver.ApiDELETE("/users/:id", deleteUser)
}

func listUsers(c echo.Context) error {
	tab, q, page, pageSize := parseListParams(c)
	source := current.Users().List()

	tally := listview.Users.Tally(source)
	filtered := listview.Users.Filter(source, tab, q)
	rows := listview.Paginate(filtered, page, pageSize)
	return paged(c, rows, tally, int64(len(filtered)), page, pageSize)
}

func getUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	user, err := current.Users().Get(id)
	if err != nil {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	}
	return ok(c, user)
}

func updateUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	patch := map[string]interface{}{}
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse user parameters", nil)
	}
	if raw, present := patch["status"]; present {
		status, _ := raw.(string)
		if !validUserStatus(status) {
			return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown user status", status)
		}
	}
	user, err := current.Users().Update(id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
		}
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Failed to apply user update", err.Error())
	}
	return ok(c, user)
}

func deleteUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	if err := current.Users().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete user", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

func validUserStatus(status string) bool {
	for _, s := range domain.UserStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type userCsvRow struct {
	ID          int64   `csv:"user_id"`
	Name        string  `csv:"name"`
	Email       string  `csv:"email"`
	Status      string  `csv:"status"`
	Role        string  `csv:"role"`
	TotalOrders int     `csv:"total_orders"`
	TotalSpent  float64 `csv:"total_spent"`
	Country     string  `csv:"country"`
	City        string  `csv:"city"`
	Company     string  `csv:"company"`
}

func exportUsers(c echo.Context) error {
	tab := c.QueryParam("tab")
	if tab == "" {
		tab = listview.TabAll
	}
	filtered := listview.Users.Filter(current.Users().List(), tab, c.QueryParam("q"))

	rows := make([]userCsvRow, 0, len(filtered))
	for _, u := range filtered {
		rows = append(rows, userCsvRow{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			Status:      u.Status,
			Role:        u.Role,
			TotalOrders: u.TotalOrders,
			TotalSpent:  u.TotalSpent,
			Country:     u.Country,
			City:        u.City,
			Company:     u.Company,
		})
	}
	data, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export users", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="users.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}
