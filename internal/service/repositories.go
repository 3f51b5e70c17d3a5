// Package service holds the business rules of the rating platform. Each
// service receives its repositories by constructor injection and returns
// *apperr.Error values whose Kind the HTTP layer maps to a status.
package service

import (
	"context"
	"database/sql"

	"github.com/iliyamo/store-rating-platform/internal/model"
	"github.com/iliyamo/store-rating-platform/internal/queue"
	"github.com/iliyamo/store-rating-platform/internal/repository"
)

// UserRepository is implemented by *repository.UserRepo.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	CreateTx(ctx context.Context, tx *sql.Tx, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, f repository.UserFilter) ([]repository.UserRow, error)
}

// StoreRepository is implemented by *repository.StoreRepo.
type StoreRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, s *model.Store) error
	GetByID(ctx context.Context, id string) (*model.Store, error)
	Count(ctx context.Context) (int, error)
	ListWithRatings(ctx context.Context, search string) ([]repository.StoreWithRatings, error)
}

// RatingRepository is implemented by *repository.RatingRepo.
type RatingRepository interface {
	Create(ctx context.Context, r *model.Rating) error
	GetByID(ctx context.Context, id string) (*model.Rating, error)
	GetByUserAndStore(ctx context.Context, userID, storeID string) (*model.Rating, error)
	UpdateValue(ctx context.Context, id string, value int) error
	Count(ctx context.Context) (int, error)
	ListByUser(ctx context.Context, userID string) ([]model.Rating, error)
	ListByStore(ctx context.Context, storeID string) ([]model.RatingView, error)
}

// EventPublisher is implemented by *queue.Publisher.
type EventPublisher interface {
	PublishRatingEvent(ctx context.Context, ev queue.RatingEvent) error
}

var (
	_ UserRepository   = (*repository.UserRepo)(nil)
	_ StoreRepository  = (*repository.StoreRepo)(nil)
	_ RatingRepository = (*repository.RatingRepo)(nil)
	_ EventPublisher   = (*queue.Publisher)(nil)
)
