package commands

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	authorizationService "github.com/allisson/securevault/internal/authorization/service"
)

// RunCreateSignerKey generates an ed25519 claim signer key pair.
// With a KMS key URI the private key is sealed by the KMS and printed base64
// encoded; otherwise it is printed as plain hex. The public key is what deploy
// expects in --signer-public-key.
func RunCreateSignerKey(
	ctx context.Context,
	signerKeyService authorizationService.SignerKeyService,
	kmsService authorizationService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	publicKey, privateKey, err := signerKeyService.GenerateKeyPair()
	if err != nil {
		return err
	}

	encodedPrivateKey := hex.EncodeToString(privateKey)
	sealed := kmsKeyURI != ""
	if sealed {
		keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()

		ciphertext, err := signerKeyService.SealPrivateKey(ctx, keeper, privateKey)
		if err != nil {
			return err
		}
		encodedPrivateKey = base64.StdEncoding.EncodeToString(ciphertext)
	}

	logger.Info("signer key created", slog.Bool("sealed", sealed))

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"public_key":  hex.EncodeToString(publicKey),
			"private_key": encodedPrivateKey,
			"sealed":      sealed,
		})
	}

	_, _ = fmt.Fprintf(writer, "Public key: %s\n", hex.EncodeToString(publicKey))
	if sealed {
		_, _ = fmt.Fprintf(writer, "Sealed private key: %s\n", encodedPrivateKey)
	} else {
		_, _ = fmt.Fprintf(writer, "Private key: %s\n", encodedPrivateKey)
		_, _ = fmt.Fprintln(writer, "\nWARNING: The private key is not sealed. Set KMS_KEY_URI to seal it.")
	}
	return nil
}

// SignClaimOptions holds the sign-claim command flags. Exactly one of AuthID
// and AuthLabel must be set.
type SignClaimOptions struct {
	PrivateKey string
	ManagerID  string
	VaultID    string
	Recipient  string
	Amount     uint64
	AuthID     string
	AuthLabel  string
}

// RunSignClaim signs a withdrawal claim and prints the AuthID and signature
// exactly as the withdraw endpoint expects them.
func RunSignClaim(
	ctx context.Context,
	claimSigner authorizationService.ClaimSigner,
	signerKeyService authorizationService.SignerKeyService,
	kmsService authorizationService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
	opts SignClaimOptions,
) error {
	managerID, err := uuid.Parse(opts.ManagerID)
	if err != nil {
		return fmt.Errorf("invalid manager id: %w", err)
	}

	vaultID, err := uuid.Parse(opts.VaultID)
	if err != nil {
		return fmt.Errorf("invalid vault id: %w", err)
	}

	authID, err := resolveAuthID(opts.AuthID, opts.AuthLabel)
	if err != nil {
		return err
	}

	privateKey, err := loadPrivateKey(ctx, signerKeyService, kmsService, logger, kmsKeyURI, opts.PrivateKey)
	if err != nil {
		return err
	}

	claim := &authorizationDomain.Claim{
		VaultID:   vaultID,
		Recipient: opts.Recipient,
		Amount:    opts.Amount,
		AuthID:    authID,
	}
	if err := claim.Validate(); err != nil {
		return err
	}

	signature, err := claimSigner.Sign(privateKey, managerID, claim)
	if err != nil {
		return err
	}

	logger.Info("claim signed",
		slog.String("manager_id", managerID.String()),
		slog.String("auth_id", authID.String()),
	)

	_, _ = fmt.Fprintf(writer, "Auth ID: %s\n", authID.String())
	_, _ = fmt.Fprintf(writer, "Signature: 0x%s\n", hex.EncodeToString(signature))
	return nil
}

func resolveAuthID(authID, authLabel string) (authorizationDomain.AuthID, error) {
	switch {
	case authID != "" && authLabel != "":
		return authorizationDomain.AuthID{}, fmt.Errorf("--auth-id and --auth-label are mutually exclusive")
	case authID != "":
		return authorizationDomain.ParseAuthID(authID)
	case authLabel != "":
		return authorizationDomain.HashAuthID(authLabel), nil
	default:
		return authorizationDomain.AuthID{}, fmt.Errorf("one of --auth-id or --auth-label is required")
	}
}

// loadPrivateKey decodes a hex private key, or opens a base64 sealed one when a
// KMS key URI is configured.
func loadPrivateKey(
	ctx context.Context,
	signerKeyService authorizationService.SignerKeyService,
	kmsService authorizationService.KMSService,
	logger *slog.Logger,
	kmsKeyURI string,
	encoded string,
) (ed25519.PrivateKey, error) {
	if kmsKeyURI == "" {
		raw, err := hex.DecodeString(strings.TrimPrefix(encoded, "0x"))
		if err != nil || len(raw) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("private key must be %d bytes of hex", ed25519.PrivateKeySize)
		}
		return ed25519.PrivateKey(raw), nil
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("sealed private key must be base64: %w", err)
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	return signerKeyService.OpenPrivateKey(ctx, keeper, sealed)
}
