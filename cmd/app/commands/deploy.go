package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"

	deploymentDomain "github.com/allisson/securevault/internal/deployment/domain"
	deploymentUseCase "github.com/allisson/securevault/internal/deployment/usecase"
)

// DeployOptions holds the deploy command flags.
type DeployOptions struct {
	Network         string
	ManagerName     string
	SignerPublicKey string
	RecordPath      string
	Format          string
}

// RunDeploy creates an authorization manager and a vault bound to it, then
// writes the deployment record. The vault admin secret is printed once.
//
// Requirements: Database must be migrated and accessible.
func RunDeploy(
	ctx context.Context,
	useCase deploymentUseCase.DeployUseCase,
	logger *slog.Logger,
	writer io.Writer,
	opts DeployOptions,
) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	var signerPublicKey []byte
	if opts.SignerPublicKey != "" {
		key, err := hex.DecodeString(strings.TrimPrefix(opts.SignerPublicKey, "0x"))
		if err != nil {
			return fmt.Errorf("invalid signer public key: %w", err)
		}
		signerPublicKey = key
	}

	logger.Info("deploying",
		slog.String("network", opts.Network),
		slog.String("manager_name", opts.ManagerName),
	)

	output, err := useCase.Deploy(ctx, &deploymentDomain.DeployInput{
		Network:         opts.Network,
		ManagerName:     opts.ManagerName,
		SignerPublicKey: signerPublicKey,
		RecordPath:      opts.RecordPath,
	})
	if err != nil {
		return fmt.Errorf("failed to deploy: %w", err)
	}

	if opts.Format == "json" {
		return writeJSON(writer, map[string]string{
			"network":              output.Record.Network,
			"authorizationManager": output.Record.AuthorizationManager,
			"vault":                output.Record.Vault,
			"adminSecret":          output.AdminSecret,
			"record":               output.RecordPath,
		})
	}

	_, _ = fmt.Fprintln(writer, "\nDeployment completed successfully!")
	_, _ = fmt.Fprintf(writer, "Network: %s\n", output.Record.Network)
	_, _ = fmt.Fprintf(writer, "Authorization manager: %s\n", output.Record.AuthorizationManager)
	_, _ = fmt.Fprintf(writer, "Vault: %s\n", output.Record.Vault)
	_, _ = fmt.Fprintf(writer, "Vault admin secret: %s\n", output.AdminSecret)
	_, _ = fmt.Fprintf(writer, "Deployment record: %s\n", output.RecordPath)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The admin secret is shown only once. Store it securely.")
	return nil
}
