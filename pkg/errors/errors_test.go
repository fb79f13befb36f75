package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("loading blog: %w", NotFound("Blog not found"))

	require.True(t, errors.Is(err, ErrNotFound))
	require.False(t, errors.Is(err, ErrForbidden))
	require.Equal(t, KindNotFound, KindOf(err))
	require.Equal(t, "Blog not found", Message(err))
}

func TestForeignErrorsAreInternal(t *testing.T) {
	err := errors.New("socket closed")

	require.Equal(t, KindInternal, KindOf(err))
	require.Equal(t, http.StatusInternalServerError, Status(KindOf(err)))
	require.Equal(t, "internal server error", Message(err))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Internal("Failed to save blog", cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "refused")
	require.Equal(t, "Failed to save blog", Message(err))
}

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:         http.StatusBadRequest,
		KindInvalidCredentials: http.StatusBadRequest,
		KindConflict:           http.StatusBadRequest,
		KindUnauthenticated:    http.StatusUnauthorized,
		KindForbidden:          http.StatusForbidden,
		KindNotFound:           http.StatusNotFound,
		KindInternal:           http.StatusInternalServerError,
	}
	for kind, status := range cases {
		require.Equal(t, status, Status(kind), Code(kind))
	}
}
