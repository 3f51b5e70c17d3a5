package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/store-rating-platform/internal/model"
	"github.com/iliyamo/store-rating-platform/internal/queue"
	"github.com/iliyamo/store-rating-platform/internal/repository"
)

// memDB is an in-memory stand-in for the three tables.
type memDB struct {
	mu      sync.Mutex
	seq     int
	clock   time.Time
	users   []*model.User
	stores  []*model.Store
	ratings []*model.Rating
}

func newMemDB() *memDB {
	return &memDB{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memDB) next(prefix string) (string, time.Time) {
	m.seq++
	m.clock = m.clock.Add(time.Minute)
	return fmt.Sprintf("%s-%d", prefix, m.seq), m.clock
}

type fakeUsers struct{ m *memDB }
type fakeStores struct{ m *memDB }
type fakeRatings struct{ m *memDB }

func (f fakeUsers) Create(_ context.Context, u *model.User) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, x := range f.m.users {
		if x.Email == email {
			return &repository.DuplicateError{Key: "uq_users_email"}
		}
	}
	u.ID, u.CreatedAt = f.m.next("user")
	u.Email = email
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	cp := *u
	f.m.users = append(f.m.users, &cp)
	return nil
}

func (f fakeUsers) CreateTx(ctx context.Context, _ *sql.Tx, u *model.User) error {
	return f.Create(ctx, u)
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, x := range f.m.users {
		if x.Email == email {
			cp := *x
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, x := range f.m.users {
		if x.ID == id {
			cp := *x
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (f fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, x := range f.m.users {
		if x.ID == id {
			x.PasswordHash = hash
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f fakeUsers) Count(context.Context) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	return len(f.m.users), nil
}

func (f fakeUsers) List(_ context.Context, flt repository.UserFilter) ([]repository.UserRow, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := []repository.UserRow{}
	for _, u := range f.m.users {
		if flt.Role != "" && u.Role != flt.Role {
			continue
		}
		if flt.Name != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(flt.Name)) {
			continue
		}
		row := repository.UserRow{User: *u}
		if u.StoreID != nil {
			for _, s := range f.m.stores {
				if s.ID == *u.StoreID {
					n := s.Name
					row.StoreName = &n
				}
			}
			for _, r := range f.m.ratings {
				if r.StoreID == *u.StoreID {
					row.RatingSum += r.Value
					row.RatingCount++
				}
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (f fakeStores) CreateTx(_ context.Context, _ *sql.Tx, s *model.Store) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, x := range f.m.stores {
		if x.Email == s.Email {
			return &repository.DuplicateError{Key: "uq_stores_email"}
		}
	}
	s.ID, s.CreatedAt = f.m.next("store")
	cp := *s
	f.m.stores = append(f.m.stores, &cp)
	return nil
}

func (f fakeStores) GetByID(_ context.Context, id string) (*model.Store, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, x := range f.m.stores {
		if x.ID == id {
			cp := *x
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeStores) Count(context.Context) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	return len(f.m.stores), nil
}

func (f fakeStores) ListWithRatings(_ context.Context, search string) ([]repository.StoreWithRatings, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	q := strings.ToLower(search)
	out := []repository.StoreWithRatings{}
	for i := len(f.m.stores) - 1; i >= 0; i-- {
		s := f.m.stores[i]
		if q != "" && !strings.Contains(strings.ToLower(s.Name), q) && !strings.Contains(strings.ToLower(s.Address), q) {
			continue
		}
		row := repository.StoreWithRatings{Store: *s}
		for _, r := range f.m.ratings {
			if r.StoreID == s.ID {
				row.Ratings = append(row.Ratings, repository.RatingEntry{ID: r.ID, UserID: r.UserID, Value: r.Value})
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (f fakeRatings) Create(_ context.Context, r *model.Rating) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, x := range f.m.ratings {
		if x.UserID == r.UserID && x.StoreID == r.StoreID {
			return &repository.DuplicateError{Key: "uq_ratings_user_store"}
		}
	}
	r.ID, r.CreatedAt = f.m.next("rating")
	cp := *r
	f.m.ratings = append(f.m.ratings, &cp)
	return nil
}

func (f fakeRatings) withStore(r *model.Rating) *model.Rating {
	cp := *r
	for _, s := range f.m.stores {
		if s.ID == r.StoreID {
			cp.Store = &model.StoreRef{ID: s.ID, Name: s.Name}
		}
	}
	return &cp
}

func (f fakeRatings) GetByID(_ context.Context, id string) (*model.Rating, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, x := range f.m.ratings {
		if x.ID == id {
			return f.withStore(x), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeRatings) GetByUserAndStore(_ context.Context, userID, storeID string) (*model.Rating, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, x := range f.m.ratings {
		if x.UserID == userID && x.StoreID == storeID {
			return f.withStore(x), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeRatings) UpdateValue(_ context.Context, id string, value int) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, x := range f.m.ratings {
		if x.ID == id {
			x.Value = value
		}
	}
	return nil
}

func (f fakeRatings) Count(context.Context) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	return len(f.m.ratings), nil
}

func (f fakeRatings) ListByUser(_ context.Context, userID string) ([]model.Rating, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := []model.Rating{}
	for _, x := range f.m.ratings {
		if x.UserID == userID {
			out = append(out, *f.withStore(x))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeRatings) ListByStore(_ context.Context, storeID string) ([]model.RatingView, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := []model.RatingView{}
	for _, x := range f.m.ratings {
		if x.StoreID != storeID {
			continue
		}
		v := model.RatingView{ID: x.ID, Value: x.Value, UserID: x.UserID, StoreID: x.StoreID, CreatedAt: x.CreatedAt}
		for _, u := range f.m.users {
			if u.ID == x.UserID {
				v.User = model.UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Address: u.Address}
			}
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []queue.RatingEvent
	err    error
}

func (r *recorder) PublishRatingEvent(_ context.Context, ev queue.RatingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

// seedStore adds a store directly, bypassing the service.
func (m *memDB) seedStore(name, address string) *model.Store {
	s := &model.Store{Name: name, Email: strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@example.com", Address: address}
	_ = fakeStores{m}.CreateTx(context.Background(), nil, s)
	return s
}

// seedUser adds an account directly with a throwaway hash.
func (m *memDB) seedUser(name, email string, role model.Role) *model.User {
	u := &model.User{Name: name, Email: email, Role: role, Address: "1 Test Street", PasswordHash: "x"}
	_ = fakeUsers{m}.Create(context.Background(), u)
	return u
}

func fakeNotFound() error { return repository.ErrNotFound }
