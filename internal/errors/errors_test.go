package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	require.Error(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		require.Error(t, wrapped)
		assert.Equal(t, "wrapped: base error", wrapped.Error())
		assert.True(t, Is(wrapped, baseErr))
	})

	t.Run("wrap nil error", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "wrapped"))
	})

	t.Run("wrap sentinel keeps kind", func(t *testing.T) {
		wrapped := Wrap(ErrConflict, "authorization already consumed")
		assert.True(t, Is(wrapped, ErrConflict))
		assert.False(t, Is(wrapped, ErrNotFound))
	})
}

func TestAs(t *testing.T) {
	err := Wrap(customError{Msg: "custom"}, "context")

	var target customError
	require.True(t, As(err, &target))
	assert.Equal(t, "custom", target.Msg)
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrForbidden,
		ErrPreconditionFailed,
		ErrLocked,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v should not match %v", a, b)
		}
	}
}
