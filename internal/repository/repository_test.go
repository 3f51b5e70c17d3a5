package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/store-rating-platform/internal/apperr"
	"github.com/iliyamo/store-rating-platform/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestTranslate(t *testing.T) {
	require.NoError(t, translate(nil))
	require.ErrorIs(t, translate(sql.ErrNoRows), ErrNotFound)

	err := translate(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'users.uq_users_email'"})
	require.ErrorIs(t, err, ErrDuplicate)
	var de *DuplicateError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "uq_users_email", de.Key)

	other := errors.New("boom")
	err = translate(other)
	require.ErrorIs(t, err, other)
	require.True(t, apperr.Is(err, apperr.KindInternal))
	require.NotNil(t, apperr.StackOf(err))

	require.Equal(t, ErrNotFound, translate(ErrNotFound))
}

func TestQueryFailureCarriesRepositoryStack(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM ratings")).WillReturnError(errors.New("connection reset"))

	_, err := NewRatingRepo(db).Count(context.Background())
	require.EqualError(t, err, "connection reset")
	require.Contains(t, string(apperr.StackOf(err)), "(*RatingRepo).Count")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	require.Equal(t, `%book%`, likePattern("book"))
	require.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}

func TestUserCreateNormalizesAndDefaults(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, name, email, password_hash, role, address, store_id, created_at)")).
		WithArgs(sqlmock.AnyArg(), "Alice Wonderland Smith", "alice@example.com", "hash", "USER", "12 Main Street", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &model.User{Name: "Alice Wonderland Smith", Email: " Alice@Example.COM ", PasswordHash: "hash", Address: "12 Main Street"}
	require.NoError(t, NewUserRepo(db).Create(context.Background(), u))
	require.Len(t, u.ID, 36)
	require.Equal(t, model.RoleUser, u.Role)
	require.False(t, u.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'users.uq_users_email'"})

	err := NewUserRepo(db).Create(context.Background(), &model.User{Email: "a@b.c"})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestUserGetByEmail(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "address", "store_id", "created_at"}).
		AddRow("u-1", "Olivia Owner Henderson", "olivia@example.com", "hash", "STORE_OWNER", "x", "s-1", now)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").WithArgs("olivia@example.com").WillReturnRows(rows)

	u, err := NewUserRepo(db).GetByEmail(context.Background(), "Olivia@example.com")
	require.NoError(t, err)
	require.Equal(t, model.RoleStoreOwner, u.Role)
	require.NotNil(t, u.StoreID)
	require.Equal(t, "s-1", *u.StoreID)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").WillReturnError(sql.ErrNoRows)
	_, err = NewUserRepo(db).GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserUpdatePasswordMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("UPDATE users SET password_hash").WithArgs("h", "gone").WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, NewUserRepo(db).UpdatePassword(context.Background(), "gone", "h"), ErrNotFound)
}

func TestUserListBuildsFilters(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	cols := []string{"id", "name", "email", "password_hash", "role", "address", "store_id", "created_at", "name", "sum", "count"}
	rows := sqlmock.NewRows(cols).
		AddRow("u-1", "Olivia Owner Henderson", "olivia@example.com", "h", "STORE_OWNER", "x", "s-1", now, "Downtown Books", 9, 2).
		AddRow("u-2", "Alice Wonderland Smith", "alice@example.com", "h", "USER", "y", nil, now, nil, 0, 0)
	mock.ExpectQuery(`WHERE u.name LIKE \? AND u.role = \? GROUP BY u.id, s.id ORDER BY u.email ASC, u.id`).
		WithArgs("%ol%", "STORE_OWNER").
		WillReturnRows(rows)

	out, err := NewUserRepo(db).List(context.Background(), UserFilter{Name: "ol", Role: model.RoleStoreOwner, SortBy: "email", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "Downtown Books", *out[0].StoreName)
	require.Equal(t, 9, out[0].RatingSum)
	require.Equal(t, 2, out[0].RatingCount)
	require.Nil(t, out[1].StoreName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListIgnoresUnknownSortColumn(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`ORDER BY u.created_at DESC, u.id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewUserRepo(db).List(context.Background(), UserFilter{SortBy: "password_hash; DROP TABLE users"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreListWithRatingsGroupsRows(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "address", "created_at", "rid", "uid", "rating"}).
		AddRow("s-2", "Uptown Groceries", "up@example.com", "99 High Street", now, "r-1", "u-1", 4).
		AddRow("s-2", "Uptown Groceries", "up@example.com", "99 High Street", now, "r-2", "u-2", 5).
		AddRow("s-1", "Downtown Books", "dt@example.com", "12 Main Street", now.Add(-time.Hour), nil, nil, nil)
	mock.ExpectQuery(`WHERE \(s.name LIKE \? OR s.address LIKE \?\)`).
		WithArgs("%street%", "%street%").
		WillReturnRows(rows)

	out, err := NewStoreRepo(db).ListWithRatings(context.Background(), " street ")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "s-2", out[0].Store.ID)
	require.Len(t, out[0].Ratings, 2)
	require.Equal(t, RatingEntry{ID: "r-2", UserID: "u-2", Value: 5}, out[0].Ratings[1])
	require.Equal(t, "s-1", out[1].Store.ID)
	require.Empty(t, out[1].Ratings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM stores").WithArgs("missing").WillReturnError(sql.ErrNoRows)
	_, err := NewStoreRepo(db).GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRatingCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO ratings").
		WithArgs(sqlmock.AnyArg(), 4, "u-1", "s-1", sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'u-1-s-1' for key 'ratings.uq_ratings_user_store'"})

	err := NewRatingRepo(db).Create(context.Background(), &model.Rating{UserID: "u-1", StoreID: "s-1", Value: 4})
	var de *DuplicateError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "uq_ratings_user_store", de.Key)
}

func TestRatingGetByIDCarriesStore(t *testing.T) {
	db, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "rating", "user_id", "store_id", "created_at", "name"}).
		AddRow("r-1", 3, "u-1", "s-1", time.Now().UTC(), "Downtown Books")
	mock.ExpectQuery(`FROM ratings r JOIN stores s ON s.id = r.store_id WHERE r.id = \?`).WithArgs("r-1").WillReturnRows(rows)

	rt, err := NewRatingRepo(db).GetByID(context.Background(), "r-1")
	require.NoError(t, err)
	require.Equal(t, 3, rt.Value)
	require.Equal(t, &model.StoreRef{ID: "s-1", Name: "Downtown Books"}, rt.Store)
}

func TestRatingListByStore(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "rating", "user_id", "store_id", "created_at", "name", "email", "address"}).
		AddRow("r-2", 5, "u-2", "s-1", now, "Robert Builder Jones", "bob@example.com", "b").
		AddRow("r-1", 4, "u-1", "s-1", now.Add(-time.Minute), "Alice Wonderland Smith", "alice@example.com", "a")
	mock.ExpectQuery(`ORDER BY r.created_at DESC`).WithArgs("s-1").WillReturnRows(rows)

	out, err := NewRatingRepo(db).ListByStore(context.Background(), "s-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "u-2", out[0].User.ID)
	require.Equal(t, "bob@example.com", out[0].User.Email)
}
