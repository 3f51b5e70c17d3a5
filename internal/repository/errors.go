// Package repository contains data access logic separated from HTTP
// handlers and services. Every repository works on an injected *sql.DB
// and, where a write must join a transaction, on a caller-owned *sql.Tx.
//
// The sentinel values below let higher layers distinguish failure
// scenarios without looking at driver error text.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/store-rating-platform/internal/apperr"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique key, such as
// a second account for the same email or a second rating for the same
// (user, store) pair.
var ErrDuplicate = errors.New("duplicate entry")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// DuplicateError names the unique key that rejected a write. It matches
// ErrDuplicate under errors.Is.
type DuplicateError struct {
	Key string
}

func (e *DuplicateError) Error() string {
	if e.Key == "" {
		return ErrDuplicate.Error()
	}
	return ErrDuplicate.Error() + " for key " + e.Key
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// translate converts driver errors into the package sentinels. Anything
// else is marked internal together with the stack of the failing call.
func translate(err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return &DuplicateError{Key: duplicateKey(me.Message)}
	}
	return apperr.Internal(err)
}

// duplicateKey extracts the key name from a message of the form
// "Duplicate entry 'x' for key 'users.uq_users_email'".
func duplicateKey(msg string) string {
	i := strings.LastIndex(msg, "for key '")
	if i < 0 {
		return ""
	}
	key := strings.TrimSuffix(msg[i+len("for key '"):], "'")
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:]
	}
	return key
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// likePattern wraps s for a LIKE substring match, escaping wildcards so
// user input matches literally.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// sortDir maps an order string to SQL, defaulting to DESC.
func sortDir(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}
