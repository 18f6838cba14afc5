// Package feedclient consumes a blockpulse server: it seeds from the pull
// endpoint and follows the push channel, reconnecting with backoff and
// re-seeding after every reconnect.
package feedclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabapcia/blockpulse/internal/broadcast"
	"github.com/gabapcia/blockpulse/internal/pkg/logger"
	"github.com/gabapcia/blockpulse/internal/pkg/resilience/retry"
	transporthttp "github.com/gabapcia/blockpulse/internal/pkg/transport/http"
	"github.com/gabapcia/blockpulse/internal/pkg/x/chflow"
	"github.com/gabapcia/blockpulse/internal/txfeed"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	transactionsPath = "/api/transactions"
	socketPath       = "/socket"
)

var (
	// ErrInvalidURL is returned by New when the server URL cannot be used.
	ErrInvalidURL = errors.New("invalid feed url")

	// ErrSeedFailed is returned when the pull endpoint cannot be read.
	ErrSeedFailed = errors.New("seed request failed")
)

// State is the connection state reported on the status channel.
type State int

const (
	StateConnecting State = iota
	StateConnected
	StateDisconnected
	StateError
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Client reads transaction batches from a blockpulse server.
type Client interface {
	// Seed fetches the current batch from the pull endpoint.
	Seed(ctx context.Context) ([]txfeed.Transaction, error)

	// Subscribe delivers batches until ctx is done: a seed after every
	// successful connect followed by every pushed batch. The returned
	// channel is closed when the subscription ends.
	Subscribe(ctx context.Context) <-chan []txfeed.Transaction

	// States reports connection state changes. Changes are dropped when
	// nobody keeps up with the channel.
	States() <-chan State
}

type config struct {
	httpClient *retryablehttp.Client
	dialer     *websocket.Dialer
	retry      retry.Retry
	bufferSize int
}

// Option configures a Client.
type Option func(*config)

// WithHTTPClient sets the client used for the pull endpoint.
func WithHTTPClient(c *retryablehttp.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = c
	}
}

// WithDialer sets the WebSocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(cfg *config) {
		cfg.dialer = d
	}
}

// WithReconnect sets the backoff policy used to (re)connect the push channel.
func WithReconnect(r retry.Retry) Option {
	return func(cfg *config) {
		cfg.retry = r
	}
}

// WithBufferSize sets the capacity of the batch channel.
func WithBufferSize(n int) Option {
	return func(cfg *config) {
		cfg.bufferSize = n
	}
}

type client struct {
	pullURL    string
	socketURL  string
	httpClient *retryablehttp.Client
	dialer     *websocket.Dialer
	retry      retry.Retry
	bufferSize int
	states     chan State
}

var _ Client = (*client)(nil)

func (c *client) Seed(ctx context.Context) ([]txfeed.Transaction, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.pullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeedFailed, err)
	}
	defer res.Body.Close()

	if err := transporthttp.ExpectStatus(res, http.StatusOK); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeedFailed, err)
	}

	var txs []txfeed.Transaction
	if err := json.NewDecoder(res.Body).Decode(&txs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeedFailed, err)
	}

	return txs, nil
}

func (c *client) States() <-chan State {
	return c.states
}

func (c *client) setState(s State) {
	chflow.TrySend(c.states, s)
}

func (c *client) Subscribe(ctx context.Context) <-chan []txfeed.Transaction {
	out := make(chan []txfeed.Transaction, c.bufferSize)

	go func() {
		defer close(out)

		for {
			conn, err := c.connect(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Error(ctx, "feed reconnect attempts exhausted", "error", err)
					c.setState(StateError)
				}
				return
			}

			c.setState(StateConnected)
			logger.Info(ctx, "feed connected", "feed.url", c.socketURL)

			err = c.follow(ctx, conn, out)
			c.setState(StateDisconnected)
			if ctx.Err() != nil {
				return
			}

			logger.Warn(ctx, "feed connection lost", "error", err)
		}
	}()

	return out
}

// connect dials the push channel, retrying with backoff.
func (c *client) connect(ctx context.Context) (*websocket.Conn, error) {
	c.setState(StateConnecting)

	var conn *websocket.Conn
	err := c.retry.Execute(ctx, func() error {
		var (
			res *http.Response
			err error
		)
		conn, res, err = c.dialer.DialContext(ctx, c.socketURL, nil)
		if res != nil && res.Body != nil {
			res.Body.Close()
		}
		if err != nil {
			c.setState(StateError)
			logger.Debug(ctx, "feed dial failed", "feed.url", c.socketURL, "error", err)
		}
		return err
	})

	return conn, err
}

// follow seeds once and then relays pushed batches until the connection
// drops or ctx is done.
func (c *client) follow(ctx context.Context, conn *websocket.Conn, out chan<- []txfeed.Transaction) error {
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	if txs, err := c.Seed(ctx); err != nil {
		logger.Warn(ctx, "feed seed failed", "error", err)
	} else if len(txs) > 0 && !chflow.Send(ctx, out, txs) {
		return ctx.Err()
	}

	for {
		var msg broadcast.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		if msg.Event != broadcast.EventTransactions {
			logger.Debug(ctx, "ignoring feed event", "feed.event", msg.Event)
			continue
		}

		if len(msg.Data) == 0 {
			continue
		}

		if !chflow.Send(ctx, out, msg.Data) {
			return ctx.Err()
		}
	}
}

// New creates a client for the server at rawURL (http or https).
//
// Defaults: the shared retryable HTTP transport, websocket.DefaultDialer, a
// reconnect policy retrying until the context ends with 1s to 30s backoff,
// and a batch buffer of 16.
func New(rawURL string, opts ...Option) (*client, error) {
	base, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	var wsScheme string
	switch base.Scheme {
	case "http":
		wsScheme = "ws"
	case "https":
		wsScheme = "wss"
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, base.Scheme)
	}

	if base.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	cfg := config{
		dialer:     websocket.DefaultDialer,
		bufferSize: 16,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.httpClient == nil {
		cfg.httpClient = transporthttp.NewClient()
	}

	if cfg.retry == nil {
		cfg.retry = retry.New(
			retry.WithAttempts(0),
			retry.WithDelay(time.Second),
			retry.WithMaxDelay(30*time.Second),
		)
	}

	pull := *base
	pull.Path = base.Path + transactionsPath

	socket := *base
	socket.Scheme = wsScheme
	socket.Path = base.Path + socketPath

	return &client{
		pullURL:    pull.String(),
		socketURL:  socket.String(),
		httpClient: cfg.httpClient,
		dialer:     cfg.dialer,
		retry:      cfg.retry,
		bufferSize: cfg.bufferSize,
		states:     make(chan State, 8),
	}, nil
}
