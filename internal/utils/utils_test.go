package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/store-rating-platform/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	storeID := "5b3c0e2a-8f1e-4f57-9d0c-1a2b3c4d5e6f"
	u := &model.User{ID: "u-1", Email: "owner@example.com", Role: model.RoleStoreOwner, StoreID: &storeID}

	tok, err := NewAccessToken("secret", u, time.Hour)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

	c, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	require.Equal(t, "u-1", c.ID)
	require.Equal(t, "u-1", c.Subject)
	require.Equal(t, model.RoleStoreOwner, c.Role)
	require.NotNil(t, c.StoreID)
	require.Equal(t, storeID, *c.StoreID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret", &model.User{ID: "u-1", Role: model.RoleUser}, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken("other", tok.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	tok, err := NewAccessToken("secret", &model.User{ID: "u-1", Role: model.RoleUser}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", tok.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{ID: "u-1", Role: model.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsUnknownRole(t *testing.T) {
	tok, err := NewAccessToken("secret", &model.User{ID: "u-1", Role: "ROOT"}, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", tok.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("Secret#123", bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, VerifyPassword(hash, "Secret#123"))
	require.False(t, VerifyPassword(hash, "secret#123"))
}
