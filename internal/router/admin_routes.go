package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-rating-platform/internal/handler"
	"github.com/iliyamo/store-rating-platform/internal/model"
)

// RegisterAdmin registers the /api/admin group. All routes require a
// valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/api/admin")
	auth := protected(jwtSecret, model.RoleAdmin)

	g.GET("/dashboard", h.Dashboard, auth...)

	// ---- Stores ----
	g.GET("/stores", h.ListStores, auth...)
	g.POST("/stores", h.CreateStore, auth...)

	// ---- Users ----
	g.GET("/users", h.ListUsers, auth...)
	g.POST("/users", h.CreateUser, auth...)
	g.GET("/users/:id", h.GetUser, auth...)
}
