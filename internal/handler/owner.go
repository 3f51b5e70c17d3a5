package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-rating-platform/internal/apperr"
	"github.com/iliyamo/store-rating-platform/internal/middleware"
)

// MsgNoStore is returned to an owner whose token carries no store.
const MsgNoStore = "No store associated with this account"

// OwnerHandler serves /api/store for STORE_OWNER accounts.
type OwnerHandler struct {
	Stores StoreCatalog
}

func NewOwnerHandler(stores StoreCatalog) *OwnerHandler {
	return &OwnerHandler{Stores: stores}
}

// ownedStoreID reads the store id from the caller's token.
func ownedStoreID(c echo.Context) (string, error) {
	cl, found := middleware.ClaimsFrom(c)
	if !found {
		return "", apperr.Unauthorized(middleware.MsgNoToken)
	}
	if cl.StoreID == nil || *cl.StoreID == "" {
		return "", apperr.NotFound(MsgNoStore)
	}
	return *cl.StoreID, nil
}

// Dashboard returns the owner's store with its statistics.
func (h *OwnerHandler) Dashboard(c echo.Context) error {
	storeID, err := ownedStoreID(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := h.Stores.Dashboard(ctx, storeID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", d)
}

// Ratings lists every rating of the owner's store, newest first.
func (h *OwnerHandler) Ratings(c echo.Context) error {
	storeID, err := ownedStoreID(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ratings, err := h.Stores.Ratings(ctx, storeID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", listOf("ratings", ratings, len(ratings)))
}
