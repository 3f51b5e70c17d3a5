// Package handler contains the HTTP handlers of the rating API. Handlers
// bind and validate input, call a service and wrap the result in an
// Envelope; failures are returned as errors and rendered by ErrorHandler.
package handler

import (
	"context"

	"github.com/iliyamo/store-rating-platform/internal/model"
	"github.com/iliyamo/store-rating-platform/internal/repository"
	"github.com/iliyamo/store-rating-platform/internal/service"
)

// Authenticator is implemented by *service.AuthService.
type Authenticator interface {
	Signup(ctx context.Context, in service.SignupInput) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	UpdatePassword(ctx context.Context, userID, current, next string) error
}

// UserAdmin is implemented by *service.UserService.
type UserAdmin interface {
	Dashboard(ctx context.Context) (*service.Counts, error)
	List(ctx context.Context, f repository.UserFilter) ([]service.UserListItem, error)
	Get(ctx context.Context, id string) (*service.UserDetail, error)
	Create(ctx context.Context, in service.CreateUserInput) (*model.User, error)
}

// StoreCatalog is implemented by *service.StoreService.
type StoreCatalog interface {
	List(ctx context.Context, f service.StoreFilter) ([]model.StoreSummary, error)
	Create(ctx context.Context, in service.CreateStoreInput) (*service.CreatedStore, error)
	Dashboard(ctx context.Context, storeID string) (*model.Dashboard, error)
	Ratings(ctx context.Context, storeID string) ([]model.RatingView, error)
}

// RatingBook is implemented by *service.RatingService.
type RatingBook interface {
	Submit(ctx context.Context, userID, storeID string, value int) (*model.Rating, error)
	Update(ctx context.Context, ratingID, userID string, value int) (*model.Rating, error)
	ListMine(ctx context.Context, userID string) ([]model.Rating, error)
}

var (
	_ Authenticator = (*service.AuthService)(nil)
	_ UserAdmin     = (*service.UserService)(nil)
	_ StoreCatalog  = (*service.StoreService)(nil)
	_ RatingBook    = (*service.RatingService)(nil)
)
