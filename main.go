package main

import (
	"context"
	"embed"
	"io/fs"
	"os"

	"github.com/t0pa/plansync/core/config"
	"github.com/t0pa/plansync/core/database"
	"github.com/t0pa/plansync/core/logger"
	"github.com/t0pa/plansync/core/server"

	"github.com/urfave/cli/v2"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func main() {
	app := &cli.App{
		Name:  "plansync",
		Usage: "group availability and scheduling service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "path to .env file",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:  "pretty-logs",
				Usage: "human-readable log output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the API server and background worker",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					return server.Run(cfg)
				},
			},
			{
				Name:  "migrate",
				Usage: "apply pending schema migrations",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}

					db, err := database.Connect(cfg.Database)
					if err != nil {
						return err
					}
					defer db.Close()

					migrations, err := fs.Sub(migrationFiles, "migrations")
					if err != nil {
						return err
					}
					return database.Migrate(context.Background(), &db, migrations)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("plansync exited", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("env"))
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Server.LogLevel, c.Bool("pretty-logs"))
	return cfg, nil
}
