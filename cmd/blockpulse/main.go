package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gabapcia/blockpulse/internal/app"
	"github.com/gabapcia/blockpulse/internal/handlers/cli"
)

func main() {
	build := func(ctx context.Context) (cli.Runtime, error) {
		a, err := app.Bootstrap(ctx)
		if err != nil {
			return nil, err
		}
		return a, nil
	}

	if err := cli.Run(context.Background(), os.Args, build); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
