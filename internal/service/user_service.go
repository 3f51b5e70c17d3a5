package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/store-rating-platform/internal/apperr"
	"github.com/iliyamo/store-rating-platform/internal/model"
	"github.com/iliyamo/store-rating-platform/internal/repository"
	"github.com/iliyamo/store-rating-platform/internal/utils"
)

// UserService backs the admin console: counts, user listing and
// account creation.
type UserService struct {
	users      UserRepository
	stores     StoreRepository
	ratings    RatingRepository
	bcryptCost int
}

func NewUserService(users UserRepository, stores StoreRepository, ratings RatingRepository, bcryptCost int) *UserService {
	return &UserService{users: users, stores: stores, ratings: ratings, bcryptCost: bcryptCost}
}

// Counts are the admin dashboard totals.
type Counts struct {
	TotalUsers   int `json:"totalUsers"`
	TotalStores  int `json:"totalStores"`
	TotalRatings int `json:"totalRatings"`
}

func (s *UserService) Dashboard(ctx context.Context) (*Counts, error) {
	var (
		c   Counts
		err error
	)
	if c.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if c.TotalStores, err = s.stores.Count(ctx); err != nil {
		return nil, err
	}
	if c.TotalRatings, err = s.ratings.Count(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}

// OwnedStore is the store summary attached to a listed STORE_OWNER.
type OwnedStore struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"averageRating"`
}

// UserListItem is one user in the admin listing.
type UserListItem struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Address   string      `json:"address"`
	Role      model.Role  `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	Store     *OwnedStore `json:"store,omitempty"`
}

// List returns users matching f.
func (s *UserService) List(ctx context.Context, f repository.UserFilter) ([]UserListItem, error) {
	rows, err := s.users.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]UserListItem, 0, len(rows))
	for _, r := range rows {
		item := UserListItem{
			ID:        r.User.ID,
			Name:      r.User.Name,
			Email:     r.User.Email,
			Address:   r.User.Address,
			Role:      r.User.Role,
			CreatedAt: r.User.CreatedAt,
		}
		if r.User.Role == model.RoleStoreOwner && r.User.StoreID != nil && r.StoreName != nil {
			item.Store = &OwnedStore{
				ID:            *r.User.StoreID,
				Name:          *r.StoreName,
				AverageRating: averageOf(r.RatingSum, r.RatingCount),
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// StoreStats is the owned store shown on the admin user detail page.
type StoreStats struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}

// UserDetail is a single user as seen by an admin.
type UserDetail struct {
	*model.User
	Store   *StoreStats    `json:"store,omitempty"`
	Ratings []model.Rating `json:"ratings"`
}

// Get returns user id with their store statistics when they own one.
func (s *UserService) Get(ctx context.Context, id string) (*UserDetail, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	out := &UserDetail{User: u}

	if u.Role == model.RoleStoreOwner && u.StoreID != nil {
		st, err := s.stores.GetByID(ctx, *u.StoreID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if st != nil {
			ratings, err := s.ratings.ListByStore(ctx, st.ID)
			if err != nil {
				return nil, err
			}
			values := make([]int, len(ratings))
			for i, r := range ratings {
				values[i] = r.Value
			}
			out.Store = &StoreStats{
				ID:            st.ID,
				Name:          st.Name,
				Email:         st.Email,
				Address:       st.Address,
				AverageRating: Average(values),
				TotalRatings:  len(values),
			}
		}
	}

	out.Ratings, err = s.ratings.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUserInput is an admin-created account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     model.Role
}

// Create adds an ADMIN or USER account. Store owners are only created
// together with their store.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleAdmin && role != model.RoleUser {
		return nil, apperr.Validation("Role must be ADMIN or USER; store owners are created with their store")
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("User with this email already exists")
	}
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Address:      in.Address,
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User with this email already exists")
		}
		return nil, err
	}
	return u, nil
}
