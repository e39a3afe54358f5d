package productapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storeadmin/config"
	"github.com/storekit/storeadmin/internal/domain"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(config.RemoteConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func TestListAndSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			assert.Equal(t, "20", r.URL.Query().Get("skip"))
			_ = json.NewEncoder(w).Encode(ListResult{
				Products: []domain.Product{{ID: 21, Title: "Mouse", Stock: 40, AvailabilityStatus: domain.StockIn}},
				Total:    194, Skip: 20, Limit: 10,
			})
		case "/products/search":
			assert.Equal(t, "phone", r.URL.Query().Get("q"))
			_ = json.NewEncoder(w).Encode(ListResult{
				Products: []domain.Product{{ID: 1, Title: "iPhone 9"}},
				Total:    4,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	c := testClient(srv)

	res, err := c.List(context.Background(), "", 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 194, res.Total)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Mouse", res.Products[0].Title)

	res, err = c.List(context.Background(), "phone", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
}

func TestGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Product with id '999' not found"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).Get(context.Background(), 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAddDerivesAvailability(t *testing.T) {
	var received domain.Product
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/add", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		received.ID = 195
		_ = json.NewEncoder(w).Encode(received)
	}))
	defer srv.Close()

	out, err := testClient(srv).Add(context.Background(), domain.Product{Title: "Desk Lamp", Stock: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(195), out.ID)
	assert.Equal(t, domain.StockLow, received.AvailabilityStatus)
	assert.False(t, received.Meta.CreatedAt.IsZero())
}

func TestDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		_ = json.NewEncoder(w).Encode(DeleteResult{ID: 5, IsDeleted: true, DeletedOn: time.Now()})
	}))
	defer srv.Close()

	res, err := testClient(srv).Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, res.IsDeleted)
}

func TestNetworkErrorOnServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv).List(context.Background(), "", 10, 0)
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["username"] == "emilys" && creds["password"] == "emilyspass" {
			_ = json.NewEncoder(w).Encode(LoginResult{
				AuthUser:     AuthUser{ID: 1, Username: "emilys"},
				AccessToken:  "access-abc",
				RefreshToken: "refresh-def",
			})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer srv.Close()
	c := testClient(srv)

	res, err := c.Login(context.Background(), "emilys", "emilyspass")
	require.NoError(t, err)
	assert.Equal(t, "access-abc", res.AccessToken)
	assert.Equal(t, "refresh-def", res.RefreshToken)

	_, err = c.Login(context.Background(), "emilys", "wrong")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(AuthUser{ID: 1, Username: "emilys"})
	}))
	defer srv.Close()
	c := testClient(srv)

	u, err := c.Me(context.Background(), "access-abc")
	require.NoError(t, err)
	assert.Equal(t, "emilys", u.Username)

	_, err = c.Me(context.Background(), "expired")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestSearcherLatestWins(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "slow" {
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		_ = json.NewEncoder(w).Encode(ListResult{Total: 1, Products: []domain.Product{{ID: 1, Title: r.URL.Query().Get("q")}}})
	}))
	defer srv.Close()

	s := NewSearcher(testClient(srv))

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	started := make(chan struct{})
	go func() {
		defer wg.Done()
		close(started)
		_, slowErr = s.Fetch(context.Background(), "slow", 10, 0)
	}()
	<-started
	time.Sleep(50 * time.Millisecond) // let the slow fetch reach the server

	res, err := s.Fetch(context.Background(), "fast", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "fast", res.Products[0].Title)

	close(release)
	wg.Wait()
	assert.True(t, errors.Is(slowErr, ErrSuperseded), "stale response must not win: %v", slowErr)
}
