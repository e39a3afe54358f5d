package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/storekit/storeadmin/internal/session"
	"github.com/storekit/storeadmin/internal/webserver"
	"github.com/storekit/storeadmin/pkg/common"
)

func registerAuthRoutes() {
	webserver.PubPOST("/auth/login", login)
	webserver.PubPOST("/auth/signup", signup)
	webserver.ApiPOST("/auth/logout", logout)
	webserver.ApiGET("/auth/me", whoami)
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	user, err := current.Guard().Login(c.Request().Context(), payload.Username, payload.Password)
	switch {
	case errors.Is(err, session.ErrBadCredentials):
		return fail(c, http.StatusUnauthorized, "AUTH_FAILED", "Invalid username or password", nil)
	case err != nil:
		return fail(c, http.StatusBadGateway, "REMOTE_ERROR", "Authentication service unavailable", err.Error())
	}

	access, refresh, _ := current.Tokens().Tokens()
	if current.Config().Session.Mode == "remote" {
		// the remote pair is persisted for catalog calls; the dashboard's
		// own gate token is what the browser presents on /api
		access, err = session.IssueGateToken(current.Config().Web.Secret, user, current.Config().Session.AccessTTL)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue session token", nil)
		}
	}
	return ok(c, map[string]interface{}{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         user,
	})
}

type signupPayload struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Realname string `json:"realname"`
}

func signup(c echo.Context) error {
	if current.Config().Session.Mode == "remote" {
		return fail(c, http.StatusBadRequest, "SIGNUP_DISABLED", "Signup is handled by the remote identity provider", nil)
	}
	var payload signupPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse signup form", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Signup form is invalid", err.Error())
	}
	payload.Username = strings.TrimSpace(payload.Username)

	if _, err := current.Tokens().GetOperator(payload.Username); err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_OPERATOR", "An operator with this username already exists", nil)
	}
	hash, err := session.HashPassword(payload.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create operator", nil)
	}
	op := &session.Operator{
		ID:       common.UUIDint64(),
		Username: payload.Username,
		Realname: payload.Realname,
		Email:    payload.Email,
		Password: hash,
		Level:    "operator",
	}
	if err := current.Tokens().SaveOperator(op); err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create operator", nil)
	}
	return ok(c, map[string]interface{}{"id": op.ID, "username": op.Username})
}

func logout(c echo.Context) error {
	current.Guard().Logout()
	return ok(c, true)
}

func whoami(c echo.Context) error {
	guard := current.Guard()
	if guard.IsLoading() {
		// token restore still in flight; callers render a neutral state
		return ok(c, map[string]interface{}{"user": nil, "isLoading": true})
	}
	user, authed := guard.CurrentUser()
	if !authed {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "No active session", nil)
	}
	return ok(c, map[string]interface{}{"user": user, "isLoading": false})
}
