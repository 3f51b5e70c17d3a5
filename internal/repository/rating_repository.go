package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/store-rating-platform/internal/model"
)

// RatingRepo reads and writes the `ratings` table.
type RatingRepo struct{ db *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// Create inserts rt and assigns its ID and CreatedAt. A second rating for
// the same (user, store) yields a *DuplicateError from the unique key.
func (r *RatingRepo) Create(ctx context.Context, rt *model.Rating) error {
	rt.ID = uuid.NewString()
	rt.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO ratings (id, rating, user_id, store_id, created_at) VALUES (?,?,?,?,?)",
		rt.ID, rt.Value, rt.UserID, rt.StoreID, rt.CreatedAt)
	return translate(err)
}

const ratingWithStore = `SELECT r.id, r.rating, r.user_id, r.store_id, r.created_at, s.name
						 FROM ratings r JOIN stores s ON s.id = r.store_id`

func scanRatingWithStore(row interface{ Scan(...any) error }) (*model.Rating, error) {
	var (
		rt   model.Rating
		name string
	)
	if err := row.Scan(&rt.ID, &rt.Value, &rt.UserID, &rt.StoreID, &rt.CreatedAt, &name); err != nil {
		return nil, translate(err)
	}
	rt.Store = &model.StoreRef{ID: rt.StoreID, Name: name}
	return &rt, nil
}

// GetByID loads a rating with its store's id and name.
func (r *RatingRepo) GetByID(ctx context.Context, id string) (*model.Rating, error) {
	return scanRatingWithStore(r.db.QueryRowContext(ctx, ratingWithStore+" WHERE r.id = ? LIMIT 1", id))
}

// GetByUserAndStore returns ErrNotFound when userID has not rated storeID.
func (r *RatingRepo) GetByUserAndStore(ctx context.Context, userID, storeID string) (*model.Rating, error) {
	return scanRatingWithStore(r.db.QueryRowContext(ctx,
		ratingWithStore+" WHERE r.user_id = ? AND r.store_id = ? LIMIT 1", userID, storeID))
}

// UpdateValue overwrites the rating value only. Existence is checked by
// the caller; MySQL reports zero affected rows when the value is
// unchanged, so RowsAffected says nothing useful here.
func (r *RatingRepo) UpdateValue(ctx context.Context, id string, value int) error {
	_, err := r.db.ExecContext(ctx, "UPDATE ratings SET rating = ? WHERE id = ?", value, id)
	return translate(err)
}

// Count returns the number of ratings.
func (r *RatingRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ratings").Scan(&n)
	return n, translate(err)
}

// ListByUser returns userID's ratings newest first, each with the rated
// store's id, name and address.
func (r *RatingRepo) ListByUser(ctx context.Context, userID string) ([]model.Rating, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.rating, r.user_id, r.store_id, r.created_at, s.name, s.address
		 FROM ratings r JOIN stores s ON s.id = r.store_id
		 WHERE r.user_id = ?
		 ORDER BY r.created_at DESC, r.id`, userID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := []model.Rating{}
	for rows.Next() {
		var (
			rt            model.Rating
			name, address string
		)
		if err := rows.Scan(&rt.ID, &rt.Value, &rt.UserID, &rt.StoreID, &rt.CreatedAt, &name, &address); err != nil {
			return nil, translate(err)
		}
		rt.Store = &model.StoreRef{ID: rt.StoreID, Name: name, Address: address}
		out = append(out, rt)
	}
	return out, translate(rows.Err())
}

// ListByStore returns storeID's ratings newest first with rater identity.
func (r *RatingRepo) ListByStore(ctx context.Context, storeID string) ([]model.RatingView, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.rating, r.user_id, r.store_id, r.created_at, u.name, u.email, u.address
		 FROM ratings r JOIN users u ON u.id = r.user_id
		 WHERE r.store_id = ?
		 ORDER BY r.created_at DESC, r.id`, storeID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := []model.RatingView{}
	for rows.Next() {
		var v model.RatingView
		if err := rows.Scan(&v.ID, &v.Value, &v.UserID, &v.StoreID, &v.CreatedAt, &v.User.Name, &v.User.Email, &v.User.Address); err != nil {
			return nil, translate(err)
		}
		v.User.ID = v.UserID
		out = append(out, v)
	}
	return out, translate(rows.Err())
}
