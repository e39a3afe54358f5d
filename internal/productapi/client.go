// Package productapi is the client for the remote demo catalog and auth API.
// The demo backend echoes mutations without persisting them, so callers keep
// their own local shadow of the catalog where durability matters.
package productapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"

	"github.com/storekit/storeadmin/config"
	"github.com/storekit/storeadmin/internal/domain"
)

var (
	ErrNotFound     = errors.New("remote: not found")
	ErrUnauthorized = errors.New("remote: unauthorized")
)

// NetworkError covers transport failures and unexpected remote statuses.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("remote: %s: status %d", e.Op, e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err is (or wraps) a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

type ListResult struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

type DeleteResult struct {
	ID        int64     `json:"id"`
	IsDeleted bool      `json:"isDeleted"`
	DeletedOn time.Time `json:"deletedOn"`
}

type AuthUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Image     string `json:"image"`
}

// LoginResult is the flat login response: the token pair plus the user.
type LoginResult struct {
	AuthUser
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Client struct {
	base    string
	timeout time.Duration
}

func NewClient(cfg config.RemoteConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{base: cfg.BaseURL, timeout: timeout}
}

// List fetches a catalog window. A non-empty q switches to the remote
// search endpoint; limit 0 asks for the full list.
func (c *Client) List(ctx context.Context, q string, limit, skip int) (*ListResult, error) {
	url := c.base + "/products"
	query := gout.H{"limit": limit, "skip": skip}
	if q != "" {
		url = c.base + "/products/search"
		query["q"] = q
	}
	var out ListResult
	var code int
	err := gout.GET(url).
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetQuery(query).
		Code(&code).
		BindJSON(&out).
		Do()
	if err := c.check("list products", code, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var out domain.Product
	var code int
	err := gout.GET(fmt.Sprintf("%s/products/%d", c.base, id)).
		WithContext(ctx).
		SetTimeout(c.timeout).
		Code(&code).
		BindJSON(&out).
		Do()
	if err := c.check("get product", code, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Add submits a new product. The availability status is derived locally
// before the call because the demo backend echoes whatever it receives.
func (c *Client) Add(ctx context.Context, draft domain.Product) (*domain.Product, error) {
	draft.DeriveAvailability()
	now := time.Now()
	draft.Meta.CreatedAt = now
	draft.Meta.UpdatedAt = now
	var out domain.Product
	var code int
	err := gout.POST(c.base + "/products/add").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetJSON(draft).
		Code(&code).
		BindJSON(&out).
		Do()
	if err := c.check("add product", code, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id int64, patch map[string]interface{}) (*domain.Product, error) {
	var out domain.Product
	var code int
	err := gout.PUT(fmt.Sprintf("%s/products/%d", c.base, id)).
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetJSON(patch).
		Code(&code).
		BindJSON(&out).
		Do()
	if err := c.check("update product", code, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	var out DeleteResult
	var code int
	err := gout.DELETE(fmt.Sprintf("%s/products/%d", c.base, id)).
		WithContext(ctx).
		SetTimeout(c.timeout).
		Code(&code).
		BindJSON(&out).
		Do()
	if err := c.check("delete product", code, err); err != nil {
		return nil, err
	}
	return &out, nil
}

type categoryInfo struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []categoryInfo
	var code int
	err := gout.GET(c.base + "/products/categories").
		WithContext(ctx).
		SetTimeout(c.timeout).
		Code(&code).
		BindJSON(&out).
		Do()
	if err := c.check("list categories", code, err); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out))
	for _, ci := range out {
		names = append(names, ci.Name)
	}
	return names, nil
}

// Login exchanges credentials for a token pair. Bad credentials surface
// as ErrUnauthorized, never as a NetworkError.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	var code int
	err := gout.POST(c.base + "/auth/login").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetJSON(gout.H{"username": username, "password": password, "expiresInMins": 1440}).
		Code(&code).
		BindJSON(&out).
		Do()
	if err != nil {
		return nil, &NetworkError{Op: "login", Err: err}
	}
	switch {
	case code == http.StatusBadRequest || code == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case code < 200 || code > 299:
		return nil, &NetworkError{Op: "login", Status: code}
	}
	return &out, nil
}

// Me resolves the user behind an access token.
func (c *Client) Me(ctx context.Context, accessToken string) (*AuthUser, error) {
	var out AuthUser
	var code int
	err := gout.GET(c.base + "/auth/me").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetHeader(gout.H{"Authorization": "Bearer " + accessToken}).
		Code(&code).
		BindJSON(&out).
		Do()
	if err != nil {
		return nil, &NetworkError{Op: "me", Err: err}
	}
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, ErrUnauthorized
	case code < 200 || code > 299:
		return nil, &NetworkError{Op: "me", Status: code}
	}
	return &out, nil
}

func (c *Client) check(op string, code int, err error) error {
	switch {
	case err != nil:
		return &NetworkError{Op: op, Err: err}
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code < 200 || code > 299:
		return &NetworkError{Op: op, Status: code}
	}
	return nil
}
