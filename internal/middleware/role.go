package middleware // middleware provides shared request processing for handlers

import (
	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/iliyamo/store-rating-platform/internal/apperr"
	"github.com/iliyamo/store-rating-platform/internal/model"
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles. It assumes JWTAuth
// already ran and stored the claims; without them the request is treated
// as unauthenticated (401), and with a role outside the set it is aborted
// with 403.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	// Build a set of allowed roles for constant-time lookups.
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cl, ok := ClaimsFrom(c)
			if !ok {
				return apperr.Unauthorized("Authentication required")
			}
			if !allowed[cl.Role] {
				return apperr.Forbidden("Access forbidden. Insufficient permissions.")
			}
			return next(c)
		}
	}
}
