package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/layer-3/authtoken"
	"github.com/urfave/cli/v2"
)

var errTokenNotFound = errors.New("token not found")

func issue(c *cli.Context) error {
	client := authtoken.NewHTTPClient(c.String(serverFlag))

	token, err := client.Issue(c.Context, c.String(ownerFlag))
	if err != nil {
		return err
	}

	return printToken(c.App.Writer, token)
}

func lookup(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one token value", 2)
	}

	client := authtoken.NewHTTPClient(c.String(serverFlag))

	token, found, err := client.Lookup(c.Context, c.Args().First())
	if err != nil {
		return err
	}
	if !found {
		return cli.Exit(errTokenNotFound, 1)
	}

	return printToken(c.App.Writer, token)
}

func printToken(w io.Writer, token authtoken.Token) error {
	out, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	_, err = fmt.Fprintln(w, string(out))
	return err
}
