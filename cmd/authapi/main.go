// Command authapi serves the authentication API and offers a few admin
// commands for the same configuration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/kbukum/authapi/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		logger.Error("command failed", logger.Fields("error", err.Error()))
		cancel()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  serviceName,
		Usage: "Register, log in and look up users over a small JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config.yml (default: search cmd/authapi, config/ and .)",
				EnvVars: []string{"AUTHAPI_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "path to a .env file loaded before the environment is read",
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			usersCmd(),
			hashPasswordCmd(),
			genSecretCmd(),
			versionCmd(),
		},
	}
}

func configFromFlags(c *cli.Context) (*AppConfig, error) {
	return loadConfig(c.String("config"), c.String("env-file"))
}
