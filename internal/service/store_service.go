package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/iliyamo/store-rating-platform/internal/apperr"
	"github.com/iliyamo/store-rating-platform/internal/model"
	"github.com/iliyamo/store-rating-platform/internal/repository"
	"github.com/iliyamo/store-rating-platform/internal/utils"
)

// RecentRatingsLimit is the size of the dashboard's recent list.
const RecentRatingsLimit = 10

// TxBeginner is satisfied by *sql.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// StoreService lists stores, creates them with their owner and builds
// the owner dashboard.
type StoreService struct {
	db         TxBeginner
	stores     StoreRepository
	users      UserRepository
	ratings    RatingRepository
	bcryptCost int
}

func NewStoreService(db TxBeginner, stores StoreRepository, users UserRepository, ratings RatingRepository, bcryptCost int) *StoreService {
	return &StoreService{db: db, stores: stores, users: users, ratings: ratings, bcryptCost: bcryptCost}
}

// StoreFilter controls List. UserID, when set, surfaces that user's own
// rating on every store.
type StoreFilter struct {
	Search string
	SortBy string
	Order  string
	UserID string
}

// List returns every store matching f with its aggregates.
func (s *StoreService) List(ctx context.Context, f StoreFilter) ([]model.StoreSummary, error) {
	rows, err := s.stores.ListWithRatings(ctx, f.Search)
	if err != nil {
		return nil, err
	}
	out := make([]model.StoreSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, Summarize(r, f.UserID))
	}
	SortStores(out, f.SortBy, f.Order)
	return out, nil
}

// CreateStoreInput describes a store and the owner account created with it.
type CreateStoreInput struct {
	Name          string
	Email         string
	Address       string
	OwnerName     string
	OwnerEmail    string
	OwnerPassword string
	OwnerAddress  string
}

// CreatedStore is returned by Create.
type CreatedStore struct {
	Store *model.Store `json:"store"`
	Owner *model.User  `json:"owner"`
}

// Create inserts the store and its STORE_OWNER in one transaction.
// Either both rows exist afterwards or neither does.
func (s *StoreService) Create(ctx context.Context, in CreateStoreInput) (*CreatedStore, error) {
	hash, err := utils.HashPassword(in.OwnerPassword, s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	store := &model.Store{Name: in.Name, Email: in.Email, Address: in.Address}
	if err := s.stores.CreateTx(ctx, tx, store); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Store with this email already exists")
		}
		return nil, err
	}

	ownerAddr := in.OwnerAddress
	if ownerAddr == "" {
		ownerAddr = in.Address
	}
	owner := &model.User{
		Name:         in.OwnerName,
		Email:        in.OwnerEmail,
		PasswordHash: hash,
		Role:         model.RoleStoreOwner,
		Address:      ownerAddr,
		StoreID:      &store.ID,
	}
	if err := s.users.CreateTx(ctx, tx, owner); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User with this email already exists")
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal(err)
	}
	committed = true
	return &CreatedStore{Store: store, Owner: owner}, nil
}

// Dashboard builds the owner view of storeID.
func (s *StoreService) Dashboard(ctx context.Context, storeID string) (*model.Dashboard, error) {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Store not found")
		}
		return nil, err
	}
	all, err := s.ratings.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	// repositories return newest first already; keep it explicit
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	values := make([]int, len(all))
	for i, r := range all {
		values[i] = r.Value
	}
	recent := all
	if len(recent) > RecentRatingsLimit {
		recent = recent[:RecentRatingsLimit]
	}
	return &model.Dashboard{
		Store: *store,
		Statistics: model.Statistics{
			AverageRating:      Average(values),
			TotalRatings:       len(values),
			RatingDistribution: Distribution(values),
		},
		RecentRatings: recent,
		AllRatings:    all,
	}, nil
}

// Ratings returns the ratings of storeID, newest first.
func (s *StoreService) Ratings(ctx context.Context, storeID string) ([]model.RatingView, error) {
	if _, err := s.stores.GetByID(ctx, storeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Store not found")
		}
		return nil, err
	}
	return s.ratings.ListByStore(ctx, storeID)
}
