package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/securevault/internal/errors"
)

func TestHashAuthID(t *testing.T) {
	t.Run("Keccak256_EmptyString", func(t *testing.T) {
		id := HashAuthID("")
		assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", id.String())
	})

	t.Run("Keccak256_Hello", func(t *testing.T) {
		id := HashAuthID("hello")
		assert.Equal(t, "0x1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8", id.String())
	})

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, HashAuthID("test-auth-1"), HashAuthID("test-auth-1"))
		assert.NotEqual(t, HashAuthID("test-auth-1"), HashAuthID("test-auth-2"))
	})
}

func TestParseAuthID(t *testing.T) {
	want := HashAuthID("test-auth-1")

	t.Run("Success_WithPrefix", func(t *testing.T) {
		id, err := ParseAuthID(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, id)
	})

	t.Run("Success_WithoutPrefix", func(t *testing.T) {
		id, err := ParseAuthID(want.String()[2:])
		require.NoError(t, err)
		assert.Equal(t, want, id)
	})

	t.Run("Error_WrongLength", func(t *testing.T) {
		_, err := ParseAuthID("0xdeadbeef")
		assert.ErrorIs(t, err, ErrInvalidAuthID)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Error_NotHex", func(t *testing.T) {
		_, err := ParseAuthID("0x" + string(make([]byte, 64)))
		assert.ErrorIs(t, err, ErrInvalidAuthID)
	})
}

func TestAuthIDFromBytes(t *testing.T) {
	want := HashAuthID("bytes")

	id, err := AuthIDFromBytes(want.Bytes())
	require.NoError(t, err)
	assert.Equal(t, want, id)

	_, err = AuthIDFromBytes([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidAuthID)
}

func TestAuthID_IsZero(t *testing.T) {
	assert.True(t, AuthID{}.IsZero())
	assert.False(t, HashAuthID("x").IsZero())
}

func TestClaim_Validate(t *testing.T) {
	claim := Claim{Recipient: "acct-1", Amount: 1}
	assert.NoError(t, claim.Validate())

	claim.Recipient = ""
	assert.ErrorIs(t, claim.Validate(), ErrInvalidRecipient)

	claim.Recipient = string(make([]byte, MaxRecipientLength+1))
	assert.ErrorIs(t, claim.Validate(), ErrInvalidRecipient)

	claim.Recipient = "acct-1"
	claim.Amount = 0
	assert.NoError(t, claim.Validate())

	claim.Amount = math.MaxInt64 + 1
	assert.ErrorIs(t, claim.Validate(), ErrInvalidAmount)
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, apperrors.Is(ErrAlreadyConsumed, apperrors.ErrConflict))
	assert.True(t, apperrors.Is(ErrInvalidSignature, apperrors.ErrForbidden))
	assert.True(t, apperrors.Is(ErrManagerNotFound, apperrors.ErrNotFound))
}
