package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/kbukum/authapi/bootstrap"
	"github.com/kbukum/authapi/credential"
	"github.com/kbukum/authapi/logger"
	"github.com/kbukum/authapi/redis"
	"github.com/kbukum/authapi/storage"
)

func usersCmd() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Inspect the user document",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print id, email and creation time of every user",
				Action: func(c *cli.Context) error {
					cfg, err := configFromFlags(c)
					if err != nil {
						return err
					}
					return withStore(c.Context, cfg, func(ctx context.Context, store credential.Store) error {
						doc, err := store.ReadAll(ctx)
						if err != nil {
							return err
						}
						w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
						fmt.Fprintln(w, "ID\tEMAIL\tCREATED AT")
						for _, u := range doc.Users {
							fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Email, credential.FormatTime(u.CreatedAt))
						}
						return w.Flush()
					})
				},
			},
		},
	}
}

// withStore opens the configured credential store for the duration of fn.
func withStore(ctx context.Context, cfg *AppConfig, fn func(context.Context, credential.Store) error) error {
	app, err := bootstrap.NewApp(cfg, bootstrap.WithLogger(logger.Nop()))
	if err != nil {
		return err
	}

	var redisComp *redis.Component
	if cfg.Storage.Provider == storage.ProviderRedis {
		redisComp = redis.NewComponent(cfg.Redis, app.Logger)
		if err := app.RegisterComponent(redisComp); err != nil {
			return err
		}
	}
	storageComp := newStorageComponent(cfg, redisComp, app.Logger)
	if err := app.RegisterComponent(storageComp); err != nil {
		return err
	}

	return app.RunTask(ctx, func(ctx context.Context) error {
		store, err := credential.Open(storageComp.Storage(), cfg.Store)
		if err != nil {
			return err
		}
		return fn(ctx, store)
	})
}
