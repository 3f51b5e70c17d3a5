package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOfWrapped(t *testing.T) {
	base := Conflict("email already exists")
	err := fmt.Errorf("signup: %w", base)

	require.Equal(t, KindConflict, KindOf(err))
	require.True(t, Is(err, KindConflict))
	require.Equal(t, http.StatusConflict, KindOf(err).Status())
}

func TestKindOfPlainErrorIsInternal(t *testing.T) {
	err := errors.New("boom")
	require.Equal(t, KindInternal, KindOf(err))
	require.Equal(t, http.StatusInternalServerError, KindOf(err).Status())
	require.False(t, Is(nil, KindInternal))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := Wrap(KindInternal, "query failed", cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, "query failed: driver: bad connection", err.Error())
}

func TestStatusTable(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindBadRequest:   http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
	}
	for k, want := range cases {
		require.Equal(t, want, k.Status(), k.String())
	}
}

func failingQuery() error {
	return Internal(errors.New("driver: bad connection"))
}

func TestInternalRecordsCallerStack(t *testing.T) {
	err := failingQuery()

	require.Equal(t, KindInternal, KindOf(err))
	require.Equal(t, "driver: bad connection", err.Error())
	require.Contains(t, string(StackOf(err)), "failingQuery")

	wrapped := fmt.Errorf("list stores: %w", err)
	require.Equal(t, StackOf(err), StackOf(wrapped))
	require.Same(t, err, Internal(err))

	require.Nil(t, Internal(nil))
	require.Nil(t, StackOf(errors.New("plain")))
}
