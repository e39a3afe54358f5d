package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storeadmin/config"
	"github.com/storekit/storeadmin/internal/domain"
	"github.com/storekit/storeadmin/internal/productapi"
)

// fakeCatalog serves a dummyjson-shaped catalog of 25 products.
func fakeCatalog(t *testing.T, failDelete *atomic.Bool) *httptest.Server {
	all := make([]domain.Product, 0, 25)
	for i := 1; i <= 25; i++ {
		stock := 0
		switch {
		case i%3 == 0:
			stock = 50
		case i%3 == 1:
			stock = 5
		}
		all = append(all, domain.Product{
			ID:                 int64(i),
			Title:              "Product " + strconv.Itoa(i),
			Stock:              stock,
			AvailabilityStatus: domain.StockStatusOf(stock),
		})
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			if failDelete != nil && failDelete.Load() {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			id, _ := strconv.ParseInt(r.URL.Path[len("/products/"):], 10, 64)
			_ = json.NewEncoder(w).Encode(productapi.DeleteResult{ID: id, IsDeleted: true, DeletedOn: time.Now()})
		case r.URL.Path == "/products" || r.URL.Path == "/products/search":
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
			items := all
			if skip < len(items) {
				items = items[skip:]
			} else {
				items = nil
			}
			if limit > 0 && limit < len(items) {
				items = items[:limit]
			}
			_ = json.NewEncoder(w).Encode(productapi.ListResult{Products: items, Total: len(all), Skip: skip, Limit: limit})
		default:
			http.NotFound(w, r)
		}
	}))
}

func newService(srv *httptest.Server) *Service {
	return NewService(productapi.NewClient(config.RemoteConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}))
}

func TestListWindowAndTally(t *testing.T) {
	srv := fakeCatalog(t, nil)
	defer srv.Close()
	svc := newService(srv)

	page, err := svc.List(context.Background(), "", "", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	require.Len(t, page.Products, 10)
	assert.Equal(t, int64(11), page.Products[0].ID, "window starts at skip=(page-1)*perPage")

	// tally is computed over the full list, not the window
	assert.Equal(t, 25, page.Tally["All"])
	assert.Equal(t, page.Tally["All"],
		page.Tally[domain.StockIn]+page.Tally[domain.StockLow]+page.Tally[domain.StockOut])
}

func TestListStockStatusTab(t *testing.T) {
	srv := fakeCatalog(t, nil)
	defer srv.Close()
	svc := newService(srv)

	page, err := svc.List(context.Background(), "", domain.StockOut, 1, 25)
	require.NoError(t, err)
	for _, p := range page.Products {
		assert.Equal(t, domain.StockOut, p.AvailabilityStatus)
	}
	assert.NotEmpty(t, page.Products)
}

func TestDeleteCommitsShadow(t *testing.T) {
	srv := fakeCatalog(t, nil)
	defer srv.Close()
	svc := newService(srv)

	require.NoError(t, svc.Delete(context.Background(), 3))

	page, err := svc.List(context.Background(), "", "", 1, 25)
	require.NoError(t, err)
	for _, p := range page.Products {
		assert.NotEqual(t, int64(3), p.ID, "deleted product must not reappear")
	}
	assert.Equal(t, 24, page.Tally["All"])

	// a second delete of the same id is NotFound
	err = svc.Delete(context.Background(), 3)
	assert.True(t, errors.Is(err, productapi.ErrNotFound))

	_, err = svc.Get(context.Background(), 3)
	assert.True(t, errors.Is(err, productapi.ErrNotFound))
}

func TestDeleteRollsBackOnNetworkError(t *testing.T) {
	var failDelete atomic.Bool
	failDelete.Store(true)
	srv := fakeCatalog(t, &failDelete)
	defer srv.Close()
	svc := newService(srv)

	err := svc.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, productapi.IsNetworkError(err))

	// the optimistic shadow was rolled back: the product is still visible
	page, err := svc.List(context.Background(), "", "", 1, 25)
	require.NoError(t, err)
	found := false
	for _, p := range page.Products {
		if p.ID == 5 {
			found = true
		}
	}
	assert.True(t, found, "rolled-back delete must restore the row")

	// once the remote recovers the same delete commits
	failDelete.Store(false)
	require.NoError(t, svc.Delete(context.Background(), 5))
}
