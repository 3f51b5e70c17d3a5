package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-rating-platform/internal/apperr"
	"github.com/iliyamo/store-rating-platform/internal/model"
	"github.com/iliyamo/store-rating-platform/internal/repository"
	"github.com/iliyamo/store-rating-platform/internal/service"
)

// AdminHandler serves /api/admin. Every route requires the ADMIN role.
type AdminHandler struct {
	Users  UserAdmin
	Stores StoreCatalog
}

func NewAdminHandler(users UserAdmin, stores StoreCatalog) *AdminHandler {
	return &AdminHandler{Users: users, Stores: stores}
}

type storeQuery struct {
	Search string `query:"search"`
	SortBy string `query:"sortBy" validate:"omitempty,oneof=name rating createdAt"`
	Order  string `query:"order" validate:"omitempty,oneof=asc desc"`
}

type userQuery struct {
	Name    string `query:"name"`
	Email   string `query:"email"`
	Address string `query:"address"`
	Role    string `query:"role" validate:"omitempty,oneof=ADMIN USER STORE_OWNER"`
	SortBy  string `query:"sortBy" validate:"omitempty,oneof=name email role createdAt"`
	Order   string `query:"order" validate:"omitempty,oneof=asc desc"`
}

type addStoreReq struct {
	Name          string `json:"name" validate:"required,min=20,max=60"`
	Email         string `json:"email" validate:"required,email"`
	Address       string `json:"address" validate:"required,max=400"`
	OwnerName     string `json:"ownerName" validate:"required,min=20,max=60,personname"`
	OwnerEmail    string `json:"ownerEmail" validate:"required,email"`
	OwnerPassword string `json:"ownerPassword" validate:"required,min=8,max=16,strongpwd"`
	OwnerAddress  string `json:"ownerAddress" validate:"required,max=400"`
}

type addUserReq struct {
	Name     string `json:"name" validate:"required,min=20,max=60,personname"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=16,strongpwd"`
	Address  string `json:"address" validate:"required,max=400"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

// bindQuery fills dst from the query string only.
func bindQuery(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, dst); err != nil {
		return apperr.BadRequest("Invalid query parameters")
	}
	return nil
}

// Dashboard returns the platform totals.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	counts, err := h.Users.Dashboard(ctx)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", counts)
}

// ListStores returns every store with its aggregate rating.
func (h *AdminHandler) ListStores(c echo.Context) error {
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
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", listOf("stores", stores, len(stores)))
}

// CreateStore adds a store together with its owner account.
func (h *AdminHandler) CreateStore(c echo.Context) error {
	var req addStoreReq
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Address = strings.TrimSpace(req.Address)
	req.OwnerName = strings.TrimSpace(req.OwnerName)
	req.OwnerEmail = strings.ToLower(strings.TrimSpace(req.OwnerEmail))
	req.OwnerAddress = strings.TrimSpace(req.OwnerAddress)
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Stores.Create(ctx, service.CreateStoreInput{
		Name:          req.Name,
		Email:         req.Email,
		Address:       req.Address,
		OwnerName:     req.OwnerName,
		OwnerEmail:    req.OwnerEmail,
		OwnerPassword: req.OwnerPassword,
		OwnerAddress:  req.OwnerAddress,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "Store and owner created successfully", out)
}

// ListUsers returns users matching the query filters.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	var q userQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	q.Role = strings.ToUpper(strings.TrimSpace(q.Role))
	if err := c.Validate(&q); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.Users.List(ctx, repository.UserFilter{
		Name:    q.Name,
		Email:   q.Email,
		Address: q.Address,
		Role:    model.Role(q.Role),
		SortBy:  q.SortBy,
		Order:   q.Order,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", listOf("users", users, len(users)))
}

// CreateUser adds an ADMIN or USER account.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req addUserReq
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Address = strings.TrimSpace(req.Address)
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.Create(ctx, service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "User created successfully", echo.Map{"user": u})
}

// GetUser returns one user with their store statistics and ratings.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation("Invalid user ID format")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", echo.Map{"user": u})
}
