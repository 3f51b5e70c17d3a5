package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/store-rating-platform/internal/apperr"
	"github.com/iliyamo/store-rating-platform/internal/config"
	"github.com/iliyamo/store-rating-platform/internal/model"
	"github.com/iliyamo/store-rating-platform/internal/utils"
)

const secret = "middleware-secret"

func newContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/user/stores", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func ok(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

func token(t *testing.T, role model.Role, storeID *string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, &model.User{ID: "u-1", Email: "a@example.com", Role: role, StoreID: storeID}, time.Hour)
	require.NoError(t, err)
	return tok.Token
}

func TestJWTAuthMissingHeader(t *testing.T) {
	for _, h := range []string{"", "Basic abc", "Bearer "} {
		c, _ := newContext(h)
		err := JWTAuth(secret)(ok)(c)
		var ae *apperr.Error
		require.True(t, errors.As(err, &ae), "header %q", h)
		require.Equal(t, apperr.KindUnauthorized, ae.Kind)
		require.Equal(t, MsgNoToken, ae.Message)
	}
}

func TestJWTAuthInvalidToken(t *testing.T) {
	c, _ := newContext("Bearer not-a-jwt")
	err := JWTAuth(secret)(ok)(c)
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	require.Equal(t, MsgInvalidToken, ae.Message)

	c, _ = newContext("Bearer " + token(t, model.RoleUser, nil))
	err = JWTAuth("other-secret")(ok)(c)
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestJWTAuthStoresClaims(t *testing.T) {
	store := "s-1"
	c, rec := newContext("Bearer " + token(t, model.RoleStoreOwner, &store))
	require.NoError(t, JWTAuth(secret)(ok)(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	cl, found := ClaimsFrom(c)
	require.True(t, found)
	require.Equal(t, "u-1", cl.ID)
	require.Equal(t, model.RoleStoreOwner, cl.Role)
	require.Equal(t, "s-1", *cl.StoreID)
	require.Equal(t, "u-1", userID(c))
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(model.RoleAdmin)

	c, _ := newContext("")
	require.True(t, apperr.Is(mw(ok)(c), apperr.KindUnauthorized))

	c, _ = newContext("")
	SetClaims(c, &utils.Claims{ID: "u-1", Role: model.RoleUser})
	require.True(t, apperr.Is(mw(ok)(c), apperr.KindForbidden))

	c, rec := newContext("")
	SetClaims(c, &utils.Claims{ID: "u-1", Role: model.RoleAdmin})
	require.NoError(t, mw(ok)(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)
	c, rec := newContext("")
	require.NoError(t, mw(ok)(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBuildRateKey(t *testing.T) {
	c, _ := newContext("")
	c.SetPath("/api/auth/login")
	c.Request().RemoteAddr = "10.0.0.7:5555"

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	require.Equal(t, "rl:ip:10.0.0.7:route:GET /api/auth/login", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	require.Equal(t, "rl:user:guest", buildRateKey(cfg, c))

	SetClaims(c, &utils.Claims{ID: "u-9", Role: model.RoleUser})
	require.Equal(t, "rl:user:u-9", buildRateKey(cfg, c))
}

func TestRequestLoggerWritesErrorResponse(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestLogger(log)(func(echo.Context) error { return echo.ErrNotFound })
	require.NoError(t, h(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.WarnLevel, entry.Level)
	require.Equal(t, http.StatusNotFound, entry.Data["status"])
	require.Equal(t, "guest", entry.Data["user_id"])
}
