package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"strings" // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/store-rating-platform/internal/apperr"
	"github.com/iliyamo/store-rating-platform/internal/utils"
)

// Messages returned when authentication fails.
const (
	MsgNoToken      = "Access denied. No token provided."
	MsgInvalidToken = "Invalid or expired token"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores its claims in the request context. The provided secret must
// match the one used when issuing tokens. Handlers read the caller with
// ClaimsFrom.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return apperr.Unauthorized(MsgNoToken)
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if raw == "" {
				return apperr.Unauthorized(MsgNoToken)
			}

			// Signature, algorithm and expiry are all checked here.
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return apperr.Wrap(apperr.KindUnauthorized, MsgInvalidToken, err)
			}

			SetClaims(c, claims)
			return next(c)
		}
	}
}
