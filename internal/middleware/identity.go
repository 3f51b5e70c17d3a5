package middleware

// identity.go holds the helpers that move the verified token claims
// through the echo context. JWTAuth stores them; handlers, RequireRole and
// the rate limiter read them back.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-rating-platform/internal/utils"
)

const claimsKey = "claims"

// SetClaims stores cl on c.
func SetClaims(c echo.Context, cl *utils.Claims) {
	c.Set(claimsKey, cl)
}

// ClaimsFrom returns the claims stored by JWTAuth, if any.
func ClaimsFrom(c echo.Context) (*utils.Claims, bool) {
	cl, ok := c.Get(claimsKey).(*utils.Claims)
	return cl, ok && cl != nil
}

// userID extracts the caller's id. It returns "guest" when no user is
// authenticated.
func userID(c echo.Context) string {
	if cl, ok := ClaimsFrom(c); ok && cl.ID != "" {
		return cl.ID
	}
	return "guest"
}
