package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/store-rating-platform/internal/model"
)

// StoreRepo encapsulates queries over the `stores` table.
type StoreRepo struct{ db *sql.DB }

func NewStoreRepo(db *sql.DB) *StoreRepo { return &StoreRepo{db: db} }

// DB returns the underlying pool so callers can begin transactions.
func (r *StoreRepo) DB() *sql.DB { return r.db }

// CreateTx inserts s within tx, assigning ID and CreatedAt. The caller
// commits or rolls back.
func (r *StoreRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Store) error {
	s.ID = uuid.NewString()
	s.Email = normalizeEmail(s.Email)
	s.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err := tx.ExecContext(ctx,
		"INSERT INTO stores (id, name, email, address, created_at) VALUES (?,?,?,?,?)",
		s.ID, s.Name, s.Email, s.Address, s.CreatedAt)
	return translate(err)
}

// GetByID returns ErrNotFound when no store has id.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*model.Store, error) {
	var s model.Store
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, address, created_at FROM stores WHERE id = ? LIMIT 1", id).
		Scan(&s.ID, &s.Name, &s.Email, &s.Address, &s.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// Count returns the number of stores.
func (r *StoreRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stores").Scan(&n)
	return n, translate(err)
}

// RatingEntry is the minimal rating data needed to aggregate a store.
type RatingEntry struct {
	ID     string
	UserID string
	Value  int
}

// StoreWithRatings is a store together with its complete rating set.
type StoreWithRatings struct {
	Store   model.Store
	Ratings []RatingEntry
}

// ListWithRatings returns every store whose name or address contains
// search (case-insensitive under the table collation), each with all of
// its ratings. Stores come back newest first.
func (r *StoreRepo) ListWithRatings(ctx context.Context, search string) ([]StoreWithRatings, error) {
	q := `SELECT s.id, s.name, s.email, s.address, s.created_at, r.id, r.user_id, r.rating
		  FROM stores s
		  LEFT JOIN ratings r ON r.store_id = s.id`
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		q += " WHERE (s.name LIKE ? OR s.address LIKE ?)"
		p := likePattern(s)
		args = append(args, p, p)
	}
	q += " ORDER BY s.created_at DESC, s.id, r.created_at"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := []StoreWithRatings{}
	for rows.Next() {
		var (
			s        model.Store
			ratingID sql.NullString
			userID   sql.NullString
			value    sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Address, &s.CreatedAt, &ratingID, &userID, &value); err != nil {
			return nil, translate(err)
		}
		// rows of the same store are adjacent because of the ORDER BY
		if n := len(out); n == 0 || out[n-1].Store.ID != s.ID {
			out = append(out, StoreWithRatings{Store: s, Ratings: []RatingEntry{}})
		}
		if ratingID.Valid {
			last := &out[len(out)-1]
			last.Ratings = append(last.Ratings, RatingEntry{ID: ratingID.String, UserID: userID.String, Value: int(value.Int64)})
		}
	}
	return out, translate(rows.Err())
}
