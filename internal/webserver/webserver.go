package webserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/jam3ahq/jam3a/internal/app"
)

// WebServer wraps the echo engine serving the Jam3a admin and storefront
// API. Handlers reach the application context through the request context
// values set by the injector middleware.
type WebServer struct {
	root   *echo.Echo
	appCtx app.AppContext
}

var server *WebServer

// Init builds the web server: middleware chain, session store, JWT guard
// on the API group, and the context injector used by the handlers.
func Init(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(appCtx.Config().Web.Secret))))
	e.Use(injectAppContext(appCtx))
	e.Use(requestLogger())

	server = &WebServer{root: e, appCtx: appCtx}
	return server
}

// injectAppContext makes the application context and database handle
// available to every handler via echo context values.
func injectAppContext(appCtx app.AppContext) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("app", appCtx)
			c.Set("db", appCtx.DB())
			return next(c)
		}
	}
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			)
			return err
		}
	}
}

// jwtSkipper exempts the login route and all storefront reads: GET access
// to the catalog is public, every mutation requires a token.
func jwtSkipper(c echo.Context) bool {
	if c.Request().Method == http.MethodGet {
		return true
	}
	path := c.Request().URL.Path
	if strings.HasSuffix(path, "/auth/login") {
		return true
	}
	// joining a deal is a storefront action, not an admin one
	if strings.HasPrefix(path, "/api/v1/deals/") && strings.HasSuffix(path, "/join") {
		return true
	}
	return false
}

func (s *WebServer) apiGroup() *echo.Group {
	g := s.root.Group("/api/v1")
	g.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(s.appCtx.Config().Web.Secret),
		Skipper:    jwtSkipper,
	}))
	return g
}

var apiRoutes *echo.Group

func ensureApiGroup() *echo.Group {
	if apiRoutes == nil {
		apiRoutes = server.apiGroup()
	}
	return apiRoutes
}

// ApiGET registers a GET route under /api/v1.
func ApiGET(path string, h echo.HandlerFunc) {
	ensureApiGroup().GET(path, h)
}

// ApiPOST registers a POST route under /api/v1.
func ApiPOST(path string, h echo.HandlerFunc) {
	ensureApiGroup().POST(path, h)
}

// ApiPUT registers a PUT route under /api/v1.
func ApiPUT(path string, h echo.HandlerFunc) {
	ensureApiGroup().PUT(path, h)
}

// ApiDELETE registers a DELETE route under /api/v1.
func ApiDELETE(path string, h echo.HandlerFunc) {
	ensureApiGroup().DELETE(path, h)
}

// Listen starts the HTTP listener and blocks.
func Listen() error {
	cfg := server.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("web server listening on %s", addr)
	return server.root.Start(addr)
}

// Shutdown stops the server gracefully.
func Shutdown(ctx context.Context) error {
	if server == nil {
		return nil
	}
	return server.root.Shutdown(ctx)
}
