// Package webserver owns the echo instance, the JWT gate on /api and the
// route registrars used by the admin API handlers.
package webserver

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/storekit/storeadmin/config"
)

type WebServer struct {
	root *echo.Echo
	pub  *echo.Group
	api  *echo.Group
	cfg  *config.AppConfig
}

var server *WebServer

type webValidator struct {
	validate *validator.Validate
}

func (v *webValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Init builds the echo instance. /api/* is gated by the session bearer
// token except for the public auth endpoints registered through Pub*.
func Init(cfg *config.AppConfig) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &webValidator{validate: validator.New()}
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	pub := e.Group("/api")
	api := e.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.Secret),
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"code":    1,
				"error":   "UNAUTHORIZED",
				"message": "Missing or invalid session token",
			})
		},
	}))

	server = &WebServer{root: e, pub: pub, api: api, cfg: cfg}
}

// Start blocks serving HTTP until the listener fails or is shut down.
func Start() error {
	addr := fmt.Sprintf("%s:%d", server.cfg.Web.Host, server.cfg.Web.Port)
	zap.S().Infof("admin webserver listening on %s", addr)
	return server.root.Start(addr)
}

// Echo exposes the underlying instance for tests and shutdown.
func Echo() *echo.Echo { return server.root }

func ApiGET(path string, h echo.HandlerFunc)    { server.api.GET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { server.api.POST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { server.api.PUT(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { server.api.DELETE(path, h) }

// PubPOST registers an endpoint outside the JWT gate (login, signup).
func PubPOST(path string, h echo.HandlerFunc) { server.pub.POST(path, h) }
