package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-rating-platform/internal/handler" // owner handlers
	"github.com/iliyamo/store-rating-platform/internal/model"
)

// RegisterOwner registers STORE_OWNER endpoints under /api/store.
// All routes require a valid JWT and the STORE_OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group("/api/store")
	auth := protected(jwtSecret, model.RoleStoreOwner)
	g.GET("/dashboard", o.Dashboard, auth...)
	g.GET("/ratings", o.Ratings, auth...)
}
