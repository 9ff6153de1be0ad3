package commands

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	authorizationService "github.com/allisson/securevault/internal/authorization/service"
)

func localKeyURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func createSignerKeyJSON(t *testing.T, keyURI string) map[string]any {
	t.Helper()
	var out bytes.Buffer
	err := RunCreateSignerKey(
		context.Background(),
		authorizationService.NewSignerKeyService(),
		authorizationService.NewKMSService(),
		slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		&out,
		keyURI,
		"json",
	)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	return decoded
}

func TestRunCreateSignerKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("plain-text", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateSignerKey(
			ctx,
			authorizationService.NewSignerKeyService(),
			authorizationService.NewKMSService(),
			logger,
			&out,
			"",
			"text",
		)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Public key: ")
		assert.Contains(t, out.String(), "Private key: ")
		assert.Contains(t, out.String(), "WARNING")
	})

	t.Run("plain-json", func(t *testing.T) {
		decoded := createSignerKeyJSON(t, "")
		assert.Equal(t, false, decoded["sealed"])

		publicKey, err := hex.DecodeString(decoded["public_key"].(string))
		require.NoError(t, err)
		assert.Len(t, publicKey, ed25519.PublicKeySize)

		privateKey, err := hex.DecodeString(decoded["private_key"].(string))
		require.NoError(t, err)
		assert.Equal(t, publicKey, []byte(ed25519.PrivateKey(privateKey).Public().(ed25519.PublicKey)))
	})

	t.Run("sealed-json", func(t *testing.T) {
		decoded := createSignerKeyJSON(t, localKeyURI(t))
		assert.Equal(t, true, decoded["sealed"])

		_, err := base64.StdEncoding.DecodeString(decoded["private_key"].(string))
		require.NoError(t, err)
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunCreateSignerKey(
			ctx,
			authorizationService.NewSignerKeyService(),
			authorizationService.NewKMSService(),
			logger,
			&bytes.Buffer{},
			"",
			"yaml",
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})

	t.Run("invalid-kms-uri", func(t *testing.T) {
		err := RunCreateSignerKey(
			ctx,
			authorizationService.NewSignerKeyService(),
			authorizationService.NewKMSService(),
			logger,
			&bytes.Buffer{},
			"unknown://key",
			"text",
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})
}

func TestRunSignClaim(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	claimSigner := authorizationService.NewClaimSigner()
	managerID := uuid.Must(uuid.NewV7())
	vaultID := uuid.Must(uuid.NewV7())

	runSignClaim := func(t *testing.T, keyURI string, opts SignClaimOptions) (string, error) {
		t.Helper()
		var out bytes.Buffer
		err := RunSignClaim(
			ctx,
			claimSigner,
			authorizationService.NewSignerKeyService(),
			authorizationService.NewKMSService(),
			logger,
			&out,
			keyURI,
			opts,
		)
		return out.String(), err
	}

	parseSignature := func(t *testing.T, output string) []byte {
		t.Helper()
		for line := range strings.SplitSeq(output, "\n") {
			if value, ok := strings.CutPrefix(line, "Signature: 0x"); ok {
				signature, err := hex.DecodeString(value)
				require.NoError(t, err)
				return signature
			}
		}
		t.Fatalf("no signature in output: %s", output)
		return nil
	}

	t.Run("plain-key-with-label", func(t *testing.T) {
		keys := createSignerKeyJSON(t, "")
		publicKey, err := hex.DecodeString(keys["public_key"].(string))
		require.NoError(t, err)

		output, err := runSignClaim(t, "", SignClaimOptions{
			PrivateKey: keys["private_key"].(string),
			ManagerID:  managerID.String(),
			VaultID:    vaultID.String(),
			Recipient:  "alice",
			Amount:     4,
			AuthLabel:  "withdrawal-1",
		})
		require.NoError(t, err)

		authID := authorizationDomain.HashAuthID("withdrawal-1")
		assert.Contains(t, output, "Auth ID: "+authID.String())

		claim := &authorizationDomain.Claim{VaultID: vaultID, Recipient: "alice", Amount: 4, AuthID: authID}
		claim.Signature = parseSignature(t, output)
		assert.NoError(t, claimSigner.Verify(publicKey, managerID, claim))
	})

	t.Run("sealed-key-with-auth-id", func(t *testing.T) {
		keyURI := localKeyURI(t)
		keys := createSignerKeyJSON(t, keyURI)
		publicKey, err := hex.DecodeString(keys["public_key"].(string))
		require.NoError(t, err)
		authID := authorizationDomain.HashAuthID("explicit")

		output, err := runSignClaim(t, keyURI, SignClaimOptions{
			PrivateKey: keys["private_key"].(string),
			ManagerID:  managerID.String(),
			VaultID:    vaultID.String(),
			Recipient:  "bob",
			Amount:     7,
			AuthID:     authID.String(),
		})
		require.NoError(t, err)

		claim := &authorizationDomain.Claim{VaultID: vaultID, Recipient: "bob", Amount: 7, AuthID: authID}
		claim.Signature = parseSignature(t, output)
		assert.NoError(t, claimSigner.Verify(publicKey, managerID, claim))
	})

	t.Run("validation-errors", func(t *testing.T) {
		keys := createSignerKeyJSON(t, "")
		valid := SignClaimOptions{
			PrivateKey: keys["private_key"].(string),
			ManagerID:  managerID.String(),
			VaultID:    vaultID.String(),
			Recipient:  "alice",
			Amount:     1,
			AuthLabel:  "label",
		}

		tests := []struct {
			name    string
			mutate  func(opts *SignClaimOptions)
			message string
		}{
			{"invalid manager id", func(o *SignClaimOptions) { o.ManagerID = "nope" }, "invalid manager id"},
			{"invalid vault id", func(o *SignClaimOptions) { o.VaultID = "nope" }, "invalid vault id"},
			{"missing auth", func(o *SignClaimOptions) { o.AuthLabel = "" }, "is required"},
			{
				"both auth flags",
				func(o *SignClaimOptions) { o.AuthID = authorizationDomain.HashAuthID("x").String() },
				"mutually exclusive",
			},
			{"bad private key", func(o *SignClaimOptions) { o.PrivateKey = "abcd" }, "private key must be"},
			{"empty recipient", func(o *SignClaimOptions) { o.Recipient = "" }, "recipient"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				opts := valid
				tt.mutate(&opts)
				_, err := runSignClaim(t, "", opts)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.message)
			})
		}
	})
}
