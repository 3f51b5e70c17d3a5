package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"                   // the Echo web framework handles routing
	echomw "github.com/labstack/echo/v4/middleware" // stock middleware: request ids, recovery, CORS
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/store-rating-platform/internal/config"
	"github.com/iliyamo/store-rating-platform/internal/handler"    // handlers that implement the endpoints
	"github.com/iliyamo/store-rating-platform/internal/middleware" // JWT authentication, roles, logging, rate limiting
	"github.com/iliyamo/store-rating-platform/internal/model"
)

// New builds the Echo instance with the shared middleware chain, the
// request validator and the envelope error handler. Routes are added by
// the Register functions.
func New(cfg config.Config, log *logrus.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(cfg.IsProduction())

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echomw.BodyLimit("1M"))
	return e
}

// RegisterRoutes registers routes that do not require authentication:
// the status endpoint at the root and a plain liveness probe.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/", h.Status)
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the /api/auth group. Signup and login are public
// and sit behind the rate limiter; changing a password requires a valid
// token of any role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/signup", a.Signup, limiter)
	g.POST("/login", a.Login, limiter)
	g.PUT("/password", a.UpdatePassword, limiter, middleware.JWTAuth(jwtSecret))
}

// protected returns the per-route chain for a role. Middleware given to
// e.Group would also guard the group's catch-all, turning unknown paths
// into 401s instead of 404s.
func protected(jwtSecret string, roles ...model.Role) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roles...),
	}
}
