package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-rating-platform/internal/handler"
	"github.com/iliyamo/store-rating-platform/internal/model"
)

// RegisterUser registers user-scoped endpoints under /api/user. All routes
// require a valid JWT and the USER role. Users browse stores and submit
// or revise their own ratings.
func RegisterUser(e *echo.Echo, h *handler.UserHandler, jwtSecret string) {
	g := e.Group("/api/user")
	auth := protected(jwtSecret, model.RoleUser)
	g.GET("/stores", h.ListStores, auth...)
	g.POST("/ratings", h.SubmitRating, auth...)
	// static segment wins over :id in echo's router
	g.GET("/ratings/my", h.MyRatings, auth...)
	g.PUT("/ratings/:id", h.UpdateRating, auth...)
}
