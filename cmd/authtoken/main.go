package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// version is set at build time
var version = "dev"

const (
	serverFlag  = "server"
	ownerFlag   = "owner"
	defaultBase = "http://localhost:9090"
)

func newApp() *cli.App {
	server := &cli.StringFlag{
		Name:    serverFlag,
		Usage:   "base URL of the token service",
		Value:   defaultBase,
		EnvVars: []string{"AUTHTOKEN_CLIENT_SERVER"},
	}

	return &cli.App{
		Name:    "authtoken",
		Usage:   "issue and validate short-lived bearer tokens",
		Version: version,
		Action:  serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the token service (configured through AUTHTOKEN_* variables)",
				Action: serve,
			},
			{
				Name:  "issue",
				Usage: "request a token from a running service",
				Flags: []cli.Flag{
					server,
					&cli.StringFlag{Name: ownerFlag, Usage: "owner of the new token", Required: true},
				},
				Action: issue,
			},
			{
				Name:      "lookup",
				Usage:     "fetch a token from a running service",
				ArgsUsage: "VALUE",
				Flags:     []cli.Flag{server},
				Action:    lookup,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
