package ethereum

import (
	"github.com/gabapcia/blockpulse/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/blockpulse/internal/txfeed"
)

type client struct {
	conn jsonrpc.Client
}

var _ txfeed.Source = (*client)(nil)

// NewClient returns a txfeed.Source backed by a JSON-RPC node connection.
func NewClient(conn jsonrpc.Client) *client {
	return &client{
		conn: conn,
	}
}
