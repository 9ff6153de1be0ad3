package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/securevault/cmd/app/commands"
	"github.com/allisson/securevault/internal/app"
	"github.com/allisson/securevault/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server and, when enabled, the outbox worker",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "process-outbox",
			Usage: "Process one batch of pending outbox events and exit",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				outboxUseCase, err := container.OutboxUseCase()
				if err != nil {
					return err
				}

				return commands.RunProcessOutbox(ctx, outboxUseCase, container.Logger())
			},
		},
	}
}
