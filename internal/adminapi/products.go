package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/storekit/storeadmin/internal/domain"
	"github.com/storekit/storeadmin/internal/productapi"
	"github.com/storekit/storeadmin/internal/webserver"
)

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/categories", listCategories)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

// listProducts is the one server-backed list view: filtering and windowing
// are delegated to the remote catalog, the stock tab and tally are local.
func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	q := strings.TrimSpace(c.QueryParam("q"))
	stockStatus := c.QueryParam("stockStatus")
	if stockStatus == "" {
		stockStatus = c.QueryParam("tab")
	}

	result, err := current.Catalog().List(c.Request().Context(), q, stockStatus, page, pageSize)
	if err != nil {
		if errors.Is(err, productapi.ErrSuperseded) {
			// a newer search replaced this one mid-flight; the newer
			// request's response owns the view
			return fail(c, http.StatusConflict, "SUPERSEDED", "Request superseded by a newer search", nil)
		}
		return fail(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, result.Products, result.Tally, int64(result.Total), result.Page, result.PerPage)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	product, err := current.Catalog().Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, productapi.ErrNotFound) {
			return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
		}
		return fail(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, product)
}

type productPayload struct {
	Title                string   `json:"title" validate:"required,min=1,max=200"`
	Description          string   `json:"description"`
	Category             string   `json:"category" validate:"required"`
	Price                float64  `json:"price" validate:"gte=0"`
	Stock                int      `json:"stock" validate:"gte=0"`
	Brand                string   `json:"brand"`
	SKU                  string   `json:"sku"`
	Tags                 []string `json:"tags"`
	Thumbnail            string   `json:"thumbnail"`
	WarrantyInformation  string   `json:"warrantyInformation"`
	ShippingInformation  string   `json:"shippingInformation"`
	ReturnPolicy         string   `json:"returnPolicy"`
	MinimumOrderQuantity int      `json:"minimumOrderQuantity"`
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	payload.Title = strings.TrimSpace(payload.Title)
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Product form is invalid", err.Error())
	}

	// availability is derived from stock on the way out
	created, err := current.Catalog().Add(c.Request().Context(), domain.Product{
		Title:                payload.Title,
		Description:          payload.Description,
		Category:             payload.Category,
		Price:                payload.Price,
		Stock:                payload.Stock,
		Brand:                payload.Brand,
		SKU:                  payload.SKU,
		Tags:                 payload.Tags,
		Thumbnail:            payload.Thumbnail,
		WarrantyInformation:  payload.WarrantyInformation,
		ShippingInformation:  payload.ShippingInformation,
		ReturnPolicy:         payload.ReturnPolicy,
		MinimumOrderQuantity: payload.MinimumOrderQuantity,
	})
	if err != nil {
		return fail(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to create product", err.Error())
	}
	return ok(c, created)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	patch := map[string]interface{}{}
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	delete(patch, "id")

	updated, err := current.Catalog().Update(c.Request().Context(), id, patch)
	if err != nil {
		if errors.Is(err, productapi.ErrNotFound) {
			return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
		}
		return fail(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, updated)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := current.Catalog().Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, productapi.ErrNotFound) {
			return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
		}
		// the optimistic removal was rolled back; the row is still there
		return fail(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id, "isDeleted": true})
}

func listCategories(c echo.Context) error {
	categories, err := current.Catalog().Categories(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, categories)
}
