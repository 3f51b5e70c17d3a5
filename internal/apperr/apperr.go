// Package apperr defines the tagged error kinds returned by the service
// layer. The HTTP boundary switches on Kind to choose a status code, so
// no caller ever has to inspect message text.
package apperr

import (
	"errors"
	"net/http"
	"runtime/debug"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// String returns a lower-case name for logging.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "internal"
}

// Status maps k to an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error is a message safe to show to clients plus the kind that selects
// its status. Err keeps the underlying cause for logs. Stack is only set
// by Internal.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error of kind k.
func New(k Kind, msg string) *Error { return &Error{Kind: k, Message: msg} }

// Wrap returns an *Error of kind k that keeps err as its cause.
func Wrap(k Kind, msg string, err error) *Error { return &Error{Kind: k, Message: msg, Err: err} }

// Internal marks err as an unexpected failure and records the stack of
// the goroutine that called it. A nil err stays nil, and an err that
// already carries a stack is returned unchanged.
func Internal(err error) error {
	if err == nil || StackOf(err) != nil {
		return err
	}
	return &Error{Kind: KindInternal, Err: err, Stack: debug.Stack()}
}

// StackOf returns the first stack recorded in err's chain, or nil.
func StackOf(err error) []byte {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Stack != nil {
			return e.Stack
		}
		err = errors.Unwrap(err)
	}
	return nil
}

func NotFound(msg string) *Error     { return New(KindNotFound, msg) }
func Conflict(msg string) *Error     { return New(KindConflict, msg) }
func Forbidden(msg string) *Error    { return New(KindForbidden, msg) }
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }
func BadRequest(msg string) *Error   { return New(KindBadRequest, msg) }
func Validation(msg string) *Error   { return New(KindValidation, msg) }

// KindOf reports the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
