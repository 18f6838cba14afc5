package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gabapcia/blockpulse/internal/feedclient"
	"github.com/gabapcia/blockpulse/internal/pkg/logger"
	"github.com/gabapcia/blockpulse/internal/pkg/x/chflow"
	"github.com/gabapcia/blockpulse/internal/visualizer"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// ErrFeedEnded is returned by watch when the subscription closes before
// the command is cancelled, e.g. after reconnect attempts run out.
var ErrFeedEnded = errors.New("feed subscription ended")

// watchCommand returns a CLI command that follows a running server and
// drives a headless visualization session, logging chart updates and a
// periodic scene summary.
//
// Usage example:
//
//	blockpulse watch --url http://localhost:3000 --width 390 --height 844
func watchCommand() *cli.Command {
	return &cli.Command{
		Name:        "watch",
		Description: "Follows a blockpulse server and renders the transaction stream headlessly.",
		Usage:       "Streams transactions from a server into a visualization session.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "Base URL of the blockpulse server",
				Value: "http://localhost:3000",
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "Viewport width in pixels; selects the rendering profile",
				Value: 1280,
			},
			&cli.IntFlag{
				Name:  "height",
				Usage: "Viewport height in pixels",
				Value: 720,
			},
			&cli.IntFlag{
				Name:  "fps",
				Usage: "Frames per second",
				Value: 30,
			},
			&cli.DurationFlag{
				Name:  "report-interval",
				Usage: "How often the scene summary is logged",
				Value: 5 * time.Second,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := logger.Init(logger.WithLevel(c.String("log-level"))); err != nil {
				return err
			}
			defer logger.Sync()

			client, err := feedclient.New(c.String("url"))
			if err != nil {
				return err
			}

			session := visualizer.NewSession(visualizer.Viewport{
				Width:  float64(c.Int("width")),
				Height: float64(c.Int("height")),
			})

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			renderer := newLogRenderer(c.Duration("report-interval"))
			return watch(ctx, client, session, visualizer.NewScheduler(session, renderer, int(c.Int("fps"))))
		},
	}
}

// watch runs the subscription, the status relay and the scheduler until ctx
// is done or one of them fails. A subscription that ends on its own stops
// the others and yields ErrFeedEnded.
func watch(ctx context.Context, client feedclient.Client, session *visualizer.Session, scheduler *visualizer.Scheduler) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer scheduler.Stop()

		for txs := range client.Subscribe(ctx) {
			res := session.HandleBatch(txs)
			for _, p := range res.Points {
				logger.Info(ctx, "block charted",
					"block.height", p.Block,
					"block.total", visualizer.FormatVolume(p.Total),
					"block.bucket", p.Bucket.String(),
				)
			}
			logger.Debug(ctx, "batch received",
				"batch.size", len(txs),
				"batch.added", len(res.Added),
				"batch.evicted", res.Evicted,
			)
		}

		if ctx.Err() != nil {
			return nil
		}
		return ErrFeedEnded
	})

	g.Go(func() error {
		for {
			state, ok := chflow.Receive(ctx, client.States())
			if !ok {
				return nil
			}
			session.SetStatus(connectionStatus(state))
		}
	})

	g.Go(func() error {
		if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	return g.Wait()
}

func connectionStatus(s feedclient.State) visualizer.ConnectionStatus {
	switch s {
	case feedclient.StateConnected:
		return visualizer.StatusConnected
	case feedclient.StateDisconnected:
		return visualizer.StatusDisconnected
	case feedclient.StateError:
		return visualizer.StatusError
	default:
		return visualizer.StatusConnecting
	}
}

// logRenderer logs a scene summary at most once per interval.
type logRenderer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

var _ visualizer.Renderer = (*logRenderer)(nil)

func newLogRenderer(interval time.Duration) *logRenderer {
	return &logRenderer{interval: interval}
}

func (r *logRenderer) Render(ctx context.Context, scene visualizer.Scene) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.Sub(r.last) < r.interval {
		return
	}
	r.last = now

	kv := []any{
		"scene.profile", scene.Profile,
		"scene.status", scene.Status.String(),
		"scene.latest_block", scene.LatestBlock,
		"scene.particles", len(scene.Particles),
		"scene.buffered", scene.Buffered,
		"scene.blocks", len(scene.Points),
		"scene.volume", visualizer.FormatVolume(scene.Volume) + " ETH",
		"scene.volume_bucket", scene.VolumeBucket.String(),
	}
	if scene.Active != nil {
		kv = append(kv, "scene.selected", scene.Active.Hash)
	}

	logger.Info(ctx, "scene", kv...)
}
