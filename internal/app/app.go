// Package app wires the configured upstream source, the optional batch cache,
// the feed poller, the broadcast hub and the HTTP surface together.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/blockpulse/internal/broadcast"
	"github.com/gabapcia/blockpulse/internal/config"
	"github.com/gabapcia/blockpulse/internal/handlers/httpapi"
	"github.com/gabapcia/blockpulse/internal/infra/blockchain/ethereum"
	"github.com/gabapcia/blockpulse/internal/infra/explorer/etherscan"
	"github.com/gabapcia/blockpulse/internal/infra/storage/redis"
	"github.com/gabapcia/blockpulse/internal/pkg/logger"
	"github.com/gabapcia/blockpulse/internal/pkg/telemetry"
	transporthttp "github.com/gabapcia/blockpulse/internal/pkg/transport/http"
	"github.com/gabapcia/blockpulse/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/blockpulse/internal/txfeed"
)

// ErrUnknownUpstream is returned when the configured upstream has no source.
var ErrUnknownUpstream = errors.New("unknown upstream")

// App is a fully wired server process.
type App struct {
	cfg    config.Config
	feed   txfeed.Service
	hub    broadcast.Service
	server *httpapi.Server

	closers []func(context.Context) error
}

// Bootstrap loads the configuration, starts telemetry and the logger, and
// builds the App.
func Bootstrap(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	shutdown := telemetry.ShutdownFunc(telemetry.Noop)
	if cfg.OtelEnabled {
		if shutdown, err = telemetry.Init(ctx, cfg.OtelServiceName); err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel), logger.WithName(cfg.OtelServiceName)); err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}

	a, err := Build(ctx, cfg)
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}

	a.closers = append(a.closers, shutdown, func(context.Context) error {
		// stdout cannot be synced on most terminals
		_ = logger.Sync()
		return nil
	})

	return a, nil
}

// Build wires the App for cfg.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{cfg: cfg}

	source, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	feedOpts := []txfeed.Option{}
	if cfg.CacheEnabled() {
		cache, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}

		a.closers = append(a.closers, func(context.Context) error { return cache.Close() })
		feedOpts = append(feedOpts, txfeed.WithCache(cache, cfg.BatchCacheTTL()))
	}

	a.feed = txfeed.New(source, feedOpts...)
	hub := broadcast.New(a.feed, broadcast.WithInterval(cfg.UpdateInterval))
	a.hub = hub

	serverOpts := []httpapi.Option{httpapi.WithStaticDir(cfg.StaticDir)}
	if cfg.SocketAnyOrigin {
		serverOpts = append(serverOpts, httpapi.WithAnyOrigin())
	}

	a.server, err = httpapi.NewServer(a.feed, hub, serverOpts...)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	logger.Info(ctx, "application wired",
		"upstream", cfg.Upstream,
		"cache.enabled", cfg.CacheEnabled(),
		"broadcast.interval", cfg.UpdateInterval.String(),
	)

	return a, nil
}

func newSource(cfg config.Config) (txfeed.Source, error) {
	httpClient := transporthttp.NewClient(
		transporthttp.WithTimeout(cfg.UpstreamTimeout),
		transporthttp.WithRetryMax(cfg.UpstreamRetryMax),
	)

	switch cfg.Upstream {
	case config.UpstreamEtherscan:
		source, err := etherscan.NewClient(httpClient, cfg.EtherscanAPIURL, cfg.EtherscanAPIKey)
		if err != nil {
			return nil, err
		}
		return source, nil
	case config.UpstreamJSONRPC:
		return ethereum.NewClient(jsonrpc.NewClient(httpClient, cfg.RPCURL)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownUpstream, cfg.Upstream)
	}
}

// Feed is the feed poller.
func (a *App) Feed() txfeed.Service {
	return a.feed
}

// Serve runs the HTTP server until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	defer a.hub.Close()
	return a.server.ListenAndServe(ctx, a.cfg.HTTPAddr())
}

// Close releases the cache connection and flushes telemetry, in reverse
// order of acquisition.
func (a *App) Close() error {
	ctx := context.Background()

	errs := make([]error, 0, len(a.closers))
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil

	return errors.Join(errs...)
}
