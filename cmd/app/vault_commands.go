package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/securevault/cmd/app/commands"
	"github.com/allisson/securevault/internal/app"
	"github.com/allisson/securevault/internal/config"
)

func getVaultCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "deploy",
			Usage: "Create an authorization manager and a vault bound to it",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "network",
					Aliases: []string{"n"},
					Usage:   "Network identifier written to the record (defaults to NETWORK_ID)",
				},
				&cli.StringFlag{
					Name:    "manager-name",
					Aliases: []string{"m"},
					Value:   "default",
					Usage:   "Human-readable authorization manager name",
				},
				&cli.StringFlag{
					Name:    "signer-public-key",
					Aliases: []string{"k"},
					Usage:   "Hex ed25519 public key that claim signatures must verify against",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Deployment record path (defaults to DEPLOYMENT_RECORD_PATH)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				deployUseCase, err := container.DeployUseCase()
				if err != nil {
					return err
				}

				network := cmd.String("network")
				if network == "" {
					network = cfg.NetworkID
				}
				output := cmd.String("output")
				if output == "" {
					output = cfg.DeploymentRecordPath
				}

				return commands.RunDeploy(
					ctx,
					deployUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.DeployOptions{
						Network:         network,
						ManagerName:     cmd.String("manager-name"),
						SignerPublicKey: cmd.String("signer-public-key"),
						RecordPath:      output,
						Format:          cmd.String("format"),
					},
				)
			},
		},
		{
			Name:  "create-signer-key",
			Usage: "Generate an ed25519 claim signer key pair",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateSignerKey(
					ctx,
					container.SignerKeyService(),
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.KMSKeyURI,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "sign-claim",
			Usage: "Sign a withdrawal claim with a signer private key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "private-key",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Signer private key as printed by create-signer-key",
				},
				&cli.StringFlag{
					Name:     "manager-id",
					Required: true,
					Usage:    "Authorization manager ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "vault-id",
					Required: true,
					Usage:    "Vault ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "recipient",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Withdrawal recipient",
				},
				&cli.Uint64Flag{
					Name:     "amount",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Withdrawal amount",
				},
				&cli.StringFlag{
					Name:  "auth-id",
					Usage: "Authorization identifier as 0x-prefixed hex",
				},
				&cli.StringFlag{
					Name:  "auth-label",
					Usage: "Derive the authorization identifier as the Keccak-256 hash of this label",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunSignClaim(
					ctx,
					container.ClaimSigner(),
					container.SignerKeyService(),
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.KMSKeyURI,
					commands.SignClaimOptions{
						PrivateKey: cmd.String("private-key"),
						ManagerID:  cmd.String("manager-id"),
						VaultID:    cmd.String("vault-id"),
						Recipient:  cmd.String("recipient"),
						Amount:     cmd.Uint64("amount"),
						AuthID:     cmd.String("auth-id"),
						AuthLabel:  cmd.String("auth-label"),
					},
				)
			},
		},
	}
}
