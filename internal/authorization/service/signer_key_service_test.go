package service

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerKeyService_GenerateKeyPair(t *testing.T) {
	svc := NewSignerKeyService()

	publicKey, privateKey, err := svc.GenerateKeyPair()
	require.NoError(t, err)
	assert.Len(t, publicKey, ed25519.PublicKeySize)
	assert.Len(t, privateKey, ed25519.PrivateKeySize)
	assert.Equal(t, publicKey, privateKey.Public())

	otherPublic, _, err := svc.GenerateKeyPair()
	require.NoError(t, err)
	assert.NotEqual(t, publicKey, otherPublic)
}

func TestSignerKeyService_SealAndOpen(t *testing.T) {
	ctx := context.Background()
	svc := NewSignerKeyService()

	keeper, err := NewKMSService().OpenKeeper(ctx, generateLocalSecretsURI(t))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper.Close())
	}()

	_, privateKey, err := svc.GenerateKeyPair()
	require.NoError(t, err)

	t.Run("RoundTrip", func(t *testing.T) {
		sealed, err := svc.SealPrivateKey(ctx, keeper, privateKey)
		require.NoError(t, err)
		assert.NotEqual(t, []byte(privateKey), sealed)

		opened, err := svc.OpenPrivateKey(ctx, keeper, sealed)
		require.NoError(t, err)
		assert.Equal(t, privateKey, opened)
	})

	t.Run("Error_SealInvalidKey", func(t *testing.T) {
		sealed, err := svc.SealPrivateKey(ctx, keeper, ed25519.PrivateKey([]byte("short")))
		assert.Error(t, err)
		assert.Nil(t, sealed)
	})

	t.Run("Error_OpenWithOtherKeeper", func(t *testing.T) {
		sealed, err := svc.SealPrivateKey(ctx, keeper, privateKey)
		require.NoError(t, err)

		other, err := NewKMSService().OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, other.Close())
		}()

		opened, err := svc.OpenPrivateKey(ctx, other, sealed)
		assert.Error(t, err)
		assert.Nil(t, opened)
	})

	t.Run("Error_OpenWrongSize", func(t *testing.T) {
		sealed, err := keeper.Encrypt(ctx, []byte("not a private key"))
		require.NoError(t, err)

		opened, err := svc.OpenPrivateKey(ctx, keeper, sealed)
		assert.Error(t, err)
		assert.Nil(t, opened)
	})
}
