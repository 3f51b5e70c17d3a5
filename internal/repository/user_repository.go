package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/store-rating-platform/internal/model"
)

// UserRepo persists accounts in the `users` table.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// DB exposes the handle so services can open transactions spanning
// several repositories.
func (r *UserRepo) DB() *sql.DB { return r.db }

const userColumns = "id, name, email, password_hash, role, address, store_id, created_at"

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u       model.User
		role    string
		storeID sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Address, &storeID, &u.CreatedAt); err != nil {
		return nil, translate(err)
	}
	u.Role = model.Role(role)
	if storeID.Valid {
		s := storeID.String
		u.StoreID = &s
	}
	return &u, nil
}

// Create inserts u, assigning its ID and CreatedAt. A taken email yields
// a *DuplicateError.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	return r.insert(ctx, r.db, u)
}

// CreateTx is Create inside the caller's transaction.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, u *model.User) error {
	return r.insert(ctx, tx, u)
}

func (r *UserRepo) insert(ctx context.Context, q querier, u *model.User) error {
	u.ID = uuid.NewString()
	u.Email = normalizeEmail(u.Email)
	u.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	_, err := q.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, address, store_id, created_at) VALUES (?,?,?,?,?,?,?,?)",
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.Address, u.StoreID, u.CreatedAt)
	return translate(err)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", normalizeEmail(email)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id))
}

// EmailExists reports whether an account already uses email.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", normalizeEmail(email)).Scan(&exists)
	return exists, translate(err)
}

// UpdatePassword replaces the stored hash. ErrNotFound when no row matched.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of accounts.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, translate(err)
}

// UserFilter narrows the admin user listing. Empty strings are ignored.
type UserFilter struct {
	Name    string
	Email   string
	Address string
	Role    model.Role
	SortBy  string // name | email | role | createdAt
	Order   string // asc | desc
}

var userSortColumns = map[string]string{
	"name":      "u.name",
	"email":     "u.email",
	"role":      "u.role",
	"createdAt": "u.created_at",
}

// UserRow is one line of the admin user listing. For store owners the
// owned store and the raw rating sum/count are included so the caller
// can compute the average.
type UserRow struct {
	User        model.User
	StoreName   *string
	RatingSum   int
	RatingCount int
}

// List returns users matching f, joined with their store's rating totals.
func (r *UserRepo) List(ctx context.Context, f UserFilter) ([]UserRow, error) {
	var (
		where []string
		args  []any
	)
	if s := strings.TrimSpace(f.Name); s != "" {
		where = append(where, "u.name LIKE ?")
		args = append(args, likePattern(s))
	}
	if s := strings.TrimSpace(f.Email); s != "" {
		where = append(where, "u.email LIKE ?")
		args = append(args, likePattern(s))
	}
	if s := strings.TrimSpace(f.Address); s != "" {
		where = append(where, "u.address LIKE ?")
		args = append(args, likePattern(s))
	}
	if f.Role != "" {
		where = append(where, "u.role = ?")
		args = append(args, string(f.Role))
	}

	col, ok := userSortColumns[f.SortBy]
	if !ok {
		col = "u.created_at"
	}

	q := `SELECT u.id, u.name, u.email, u.password_hash, u.role, u.address, u.store_id, u.created_at,
				 s.name, COALESCE(SUM(r.rating), 0), COUNT(r.id)
		  FROM users u
		  LEFT JOIN stores s ON s.id = u.store_id
		  LEFT JOIN ratings r ON r.store_id = s.id`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " GROUP BY u.id, s.id ORDER BY " + col + " " + sortDir(f.Order) + ", u.id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := []UserRow{}
	for rows.Next() {
		var (
			row       UserRow
			role      string
			storeID   sql.NullString
			storeName sql.NullString
		)
		u := &row.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Address, &storeID, &u.CreatedAt,
			&storeName, &row.RatingSum, &row.RatingCount); err != nil {
			return nil, translate(err)
		}
		u.Role = model.Role(role)
		if storeID.Valid {
			s := storeID.String
			u.StoreID = &s
		}
		if storeName.Valid {
			n := storeName.String
			row.StoreName = &n
		}
		out = append(out, row)
	}
	return out, translate(rows.Err())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
