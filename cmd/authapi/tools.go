package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kbukum/authapi/auth/password"
	"github.com/kbukum/authapi/version"
)

func hashPasswordCmd() *cli.Command {
	var cfg password.Config
	return &cli.Command{
		Name:  "hash-password",
		Usage: "Hash the password read from stdin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "algorithm",
				Usage: "bcrypt or argon2id",
				Value: string(password.AlgorithmBcrypt),
			},
			&cli.IntFlag{
				Name:        "cost",
				Usage:       "bcrypt cost",
				Value:       password.DefaultBcryptCost,
				Destination: &cfg.BcryptCost,
			},
		},
		Action: func(c *cli.Context) error {
			cfg.Algorithm = password.Algorithm(c.String("algorithm"))
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}

			sc := bufio.NewScanner(c.App.Reader)
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return err
				}
				return errors.New("missing password from stdin")
			}
			plain := strings.TrimRight(sc.Text(), "\r\n")
			if plain == "" {
				return errors.New("missing password from stdin")
			}

			hash, err := password.NewHasher(cfg).Hash(plain)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, hash)
			return err
		},
	}
}

func genSecretCmd() *cli.Command {
	var size int
	return &cli.Command{
		Name:  "gen-secret",
		Usage: "Print a random hex secret suitable for JWT_SECRET",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "bytes",
				Usage:       "number of random bytes",
				Value:       32,
				Destination: &size,
			},
		},
		Action: func(c *cli.Context) error {
			secret, err := password.GenerateToken(size)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, secret)
			return err
		},
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintln(c.App.Writer, version.Get().String())
			return err
		},
	}
}
