package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/storekit/storeadmin/internal/domain"
	"github.com/storekit/storeadmin/internal/listview"
	"github.com/storekit/storeadmin/internal/store"
	"github.com/storekit/storeadmin/internal/webserver"
)

func registerVoucherRoutes() {
	webserver.ApiGET("/vouchers", listVouchers)
	webserver.ApiGET("/vouchers/:id", getVoucher)
	webserver.ApiPOST("/vouchers", createVoucher)
	webserver.ApiPUT("/vouchers/:id", updateVoucher)
	webserver.ApiDELETE("/vouchers/:id", deleteVoucher)
}

func listVouchers(c echo.Context) error {
	tab, q, page, pageSize := parseListParams(c)
	source := current.Vouchers().List()

	tally := listview.Vouchers.Tally(source)
	filtered := listview.Vouchers.Filter(source, tab, q)
	rows := listview.Paginate(filtered, page, pageSize)
	return paged(c, rows, tally, int64(len(filtered)), page, pageSize)
}

func getVoucher(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid voucher ID", nil)
	}
	voucher, err := current.Vouchers().Get(id)
	if err != nil {
		return fail(c, http.StatusNotFound, "VOUCHER_NOT_FOUND", "Voucher not found", nil)
	}
	return ok(c, voucher)
}

// voucherPayload is the create/update form. Status is never accepted from
// the caller; it is derived from the expiration date.
type voucherPayload struct {
	Code           string  `json:"code" validate:"required,min=2,max=64"`
	Type           string  `json:"type" validate:"required,oneof=percentage fixed"`
	Value          float64 `json:"value" validate:"gte=0"`
	ExpirationDate string  `json:"expirationDate" validate:"required"`
	MaxUsesPerUser int     `json:"maxUsesPerUser" validate:"gte=0"`
}

// normalize validates the form and resolves the expiration date. The date
// field accepts any reasonable format the modal may submit.
func (p *voucherPayload) normalize(c echo.Context) (time.Time, error) {
	p.Code = strings.TrimSpace(p.Code)
	if err := c.Validate(p); err != nil {
		return time.Time{}, errors.New("voucher form is invalid")
	}
	if p.Type == domain.VoucherPercentage && p.Value > 100 {
		return time.Time{}, errors.New("percentage value cannot exceed 100")
	}
	when, err := dateparse.ParseAny(p.ExpirationDate)
	if err != nil {
		return time.Time{}, errors.Errorf("unable to parse expiration date %q", p.ExpirationDate)
	}
	return when, nil
}

func createVoucher(c echo.Context) error {
	var payload voucherPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse voucher parameters", nil)
	}
	expires, err := payload.normalize(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	}

	voucher, err := current.Vouchers().Create(domain.Voucher{
		Code:           payload.Code,
		Type:           payload.Type,
		Value:          payload.Value,
		ExpirationDate: expires,
		MaxUsesPerUser: payload.MaxUsesPerUser,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create voucher", err.Error())
	}
	return ok(c, voucher)
}

func updateVoucher(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid voucher ID", nil)
	}
	var payload voucherPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse voucher parameters", nil)
	}
	expires, err := payload.normalize(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	}

	voucher, err := current.Vouchers().Update(id, map[string]interface{}{
		"code":           payload.Code,
		"type":           payload.Type,
		"value":          payload.Value,
		"expirationDate": expires,
		"maxUsesPerUser": payload.MaxUsesPerUser,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "VOUCHER_NOT_FOUND", "Voucher not found", nil)
		}
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Failed to apply voucher update", err.Error())
	}
	return ok(c, voucher)
}

func deleteVoucher(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid voucher ID", nil)
	}
	if err := current.Vouchers().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "VOUCHER_NOT_FOUND", "Voucher not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete voucher", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
