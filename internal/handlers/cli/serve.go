package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabapcia/blockpulse/internal/pkg/logger"

	"github.com/urfave/cli/v3"
)

// serveCommand returns a CLI command that runs the HTTP server, the pull
// endpoint and the push channel.
//
// Usage example:
//
//	blockpulse serve
//
// The process runs until it receives an interrupt (SIGINT or SIGTERM).
func serveCommand(build Builder) *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Description: "Serves the latest block's transactions over HTTP and pushes them to connected clients.",
		Usage:       "Runs the server. Terminates gracefully on Ctrl+C or termination signals.",
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := build(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := rt.Close(); err != nil {
					logger.Warn(ctx, "shutdown", "error", err)
				}
			}()

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return rt.Serve(ctx)
		},
	}
}
