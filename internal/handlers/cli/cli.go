package cli

import (
	"context"

	"github.com/gabapcia/blockpulse/internal/txfeed"

	"github.com/urfave/cli/v3"
)

// Runtime is a wired server process as needed by the serve and fetch
// commands.
type Runtime interface {
	Feed() txfeed.Service
	Serve(ctx context.Context) error
	Close() error
}

// Builder loads the configuration and wires a Runtime. It is only invoked by
// commands that talk to the upstream, so client-side commands run without
// server configuration.
type Builder func(ctx context.Context) (Runtime, error)

// newApp builds the command tree.
func newApp(build Builder) *cli.Command {
	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "blockpulse",
		Description:           "Live Ethereum transaction feed: serves the latest block's transactions and visualizes them.",
		Usage:                 "blockpulse [command] [flags]",
		Commands: []*cli.Command{
			serveCommand(build),
			fetchCommand(build),
			watchCommand(),
		},
	}
}

// Run initializes and executes the blockpulse CLI application.
//
// It registers all available commands:
//
//   - `serve`: Runs the feed poller, the push channel and the HTTP surface.
//   - `fetch`: Polls the upstream once and prints the batch as JSON.
//   - `watch`: Follows a running server with a headless visualization.
func Run(ctx context.Context, args []string, build Builder) error {
	return newApp(build).Run(ctx, args)
}
