package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-rating-platform/internal/apperr"
	"github.com/iliyamo/store-rating-platform/internal/middleware"
	"github.com/iliyamo/store-rating-platform/internal/service"
)

// UserHandler serves /api/user: browsing stores and managing one's own
// ratings. Every route requires the USER role.
type UserHandler struct {
	Stores  StoreCatalog
	Ratings RatingBook
}

func NewUserHandler(stores StoreCatalog, ratings RatingBook) *UserHandler {
	return &UserHandler{Stores: stores, Ratings: ratings}
}

type submitRatingReq struct {
	StoreID string `json:"storeId" validate:"required,uuid"`
	Rating  *int   `json:"rating" validate:"required,rating"`
}

type updateRatingReq struct {
	Rating *int `json:"rating" validate:"required,rating"`
}

// callerID returns the authenticated user's id.
func callerID(c echo.Context) (string, error) {
	cl, found := middleware.ClaimsFrom(c)
	if !found || cl.ID == "" {
		return "", apperr.Unauthorized(middleware.MsgNoToken)
	}
	return cl.ID, nil
}

// ListStores returns the store catalog with the caller's own ratings.
func (h *UserHandler) ListStores(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	var q storeQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	stores, err := h.Stores.List(ctx, service.StoreFilter{
		Search: strings.TrimSpace(q.Search),
		SortBy: q.SortBy,
		Order:  q.Order,
		UserID: uid,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", listOf("stores", stores, len(stores)))
}

// SubmitRating records the caller's first rating of a store.
func (h *UserHandler) SubmitRating(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	var req submitRatingReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.Ratings.Submit(ctx, uid, req.StoreID, *req.Rating)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "Rating submitted successfully", echo.Map{"rating": r})
}

// UpdateRating changes the value of one of the caller's ratings.
func (h *UserHandler) UpdateRating(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation("Invalid rating ID format")
	}
	var req updateRatingReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.Ratings.Update(ctx, id, uid, *req.Rating)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Rating updated successfully", echo.Map{"rating": r})
}

// MyRatings lists the caller's ratings, newest first.
func (h *UserHandler) MyRatings(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ratings, err := h.Ratings.ListMine(ctx, uid)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", listOf("ratings", ratings, len(ratings)))
}
