package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-rating-platform/internal/apperr"
	"github.com/iliyamo/store-rating-platform/internal/middleware"
	"github.com/iliyamo/store-rating-platform/internal/service"
)

// AuthHandler serves /api/auth.
type AuthHandler struct {
	Auth Authenticator
}

func NewAuthHandler(a Authenticator) *AuthHandler {
	return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name" validate:"required,min=20,max=60,personname"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=16,strongpwd"`
	Address  string `json:"address" validate:"required,max=400"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type passwordReq struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=16,strongpwd"`
}

// Signup registers a USER account and returns it with a token.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Address = strings.TrimSpace(req.Address)
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Auth.Signup(ctx, service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "User registered successfully", res)
}

// Login verifies credentials and returns the user with a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Login successful", res)
}

// UpdatePassword changes the caller's password.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	cl, found := middleware.ClaimsFrom(c)
	if !found {
		return apperr.Unauthorized(middleware.MsgNoToken)
	}
	var req passwordReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Auth.UpdatePassword(ctx, cl.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Password updated successfully", nil)
}
