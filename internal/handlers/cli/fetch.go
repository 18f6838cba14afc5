package cli

import (
	"context"
	"encoding/json"

	"github.com/urfave/cli/v3"
)

// fetchCommand returns a CLI command that runs the feed poller once.
//
// Usage example:
//
//	blockpulse fetch
func fetchCommand(build Builder) *cli.Command {
	return &cli.Command{
		Name:        "fetch",
		Description: "Fetches the latest block's transactions once and prints them as JSON.",
		Usage:       "Prints the current batch to stdout.",
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := build(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			txs, err := rt.Feed().FetchLatestTransactions(ctx)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.Root().Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(txs)
		},
	}
}
