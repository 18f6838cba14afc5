// Package broadcast runs one polling loop per connected client: every
// interval it fetches the latest transactions and publishes them on the
// client's push channel.
//
// Ticks within a session never overlap. A fetch that outlives the interval
// delays the next tick and the ticks that fell due meanwhile are dropped.
package broadcast

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gabapcia/blockpulse/internal/pkg/logger"
	"github.com/gabapcia/blockpulse/internal/txfeed"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EventTransactions names the push event carrying a batch.
const EventTransactions = "transactions"

const instrumentationName = "github.com/gabapcia/blockpulse/internal/broadcast"

// ErrHubClosed is returned by Attach after Close.
var ErrHubClosed = errors.New("broadcast hub closed")

// Publisher is a client's push channel.
type Publisher interface {
	Publish(ctx context.Context, event string, txs []txfeed.Transaction) error
}

// Service attaches clients to the periodic feed.
type Service interface {
	// Attach starts the loop for pub. The loop runs until the returned
	// session is closed, ctx is done, the hub is closed or a publish fails.
	Attach(ctx context.Context, pub Publisher) (*Session, error)

	// ActiveSessions returns the number of running loops.
	ActiveSessions() int

	// Close stops every session and waits for the loops to exit.
	Close()
}

// Session is a running client loop.
type Session struct {
	ID        string
	StartedAt time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// Close stops the loop and waits for it to exit. It is safe to call more than once.
func (s *Session) Close() {
	s.cancel()
	<-s.done
}

// Done is closed once the loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

type hub struct {
	feed        txfeed.Service
	interval    time.Duration
	tickTimeout time.Duration

	mu       sync.Mutex
	closed   bool
	sessions map[string]*Session
	wg       sync.WaitGroup

	activeSessions metric.Int64UpDownCounter
	pushes         metric.Int64Counter
}

var _ Service = (*hub)(nil)

func (h *hub) Attach(ctx context.Context, pub Publisher) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	session := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	h.sessions[session.ID] = session
	h.activeSessions.Add(ctx, 1)
	h.wg.Add(1)

	go h.run(ctx, session, pub)

	logger.Info(ctx, "client attached", "session.id", session.ID, "session.count", len(h.sessions))
	return session, nil
}

func (h *hub) ActiveSessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.sessions)
}

func (h *hub) Close() {
	h.mu.Lock()
	h.closed = true
	for _, s := range h.sessions {
		s.cancel()
	}
	h.mu.Unlock()

	h.wg.Wait()
}

func (h *hub) detach(ctx context.Context, s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID)
	remaining := len(h.sessions)
	h.mu.Unlock()

	h.activeSessions.Add(ctx, -1)
	logger.Info(ctx, "client detached",
		"session.id", s.ID,
		"session.duration", time.Since(s.StartedAt).String(),
		"session.count", remaining,
	)
}

func (h *hub) run(ctx context.Context, s *Session, pub Publisher) {
	defer h.wg.Done()
	defer close(s.done)
	defer h.detach(context.WithoutCancel(ctx), s)
	defer s.cancel()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !h.tick(ctx, s, pub) {
				return
			}
		}
	}
}

// tick runs one fetch and publish. It returns false when the session must end.
func (h *hub) tick(ctx context.Context, s *Session, pub Publisher) bool {
	fetchCtx, cancel := context.WithTimeout(ctx, h.tickTimeout)
	txs, err := h.feed.FetchLatestTransactions(fetchCtx)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			return false
		}

		h.pushes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "skipped")))
		logger.Warn(ctx, "skipping tick after fetch failure", "session.id", s.ID, "error", err)
		return true
	}

	if err := pub.Publish(ctx, EventTransactions, txs); err != nil {
		h.pushes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failed")))
		logger.Info(ctx, "push failed, ending session", "session.id", s.ID, "error", err)
		return false
	}

	h.pushes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "sent")))
	logger.Debug(ctx, "pushed batch", "session.id", s.ID, "batch.size", len(txs))
	return true
}

type config struct {
	interval    time.Duration
	tickTimeout time.Duration
}

// Option configures the hub returned by New.
type Option func(*config)

// WithInterval sets the push period. Default: 10 seconds.
func WithInterval(d time.Duration) Option {
	return func(c *config) {
		c.interval = d
	}
}

// WithTickTimeout bounds each fetch. Default: the push period.
func WithTickTimeout(d time.Duration) Option {
	return func(c *config) {
		c.tickTimeout = d
	}
}

// New creates a hub pushing batches from feed.
func New(feed txfeed.Service, opts ...Option) *hub {
	cfg := config{
		interval: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.tickTimeout <= 0 {
		cfg.tickTimeout = cfg.interval
	}

	meter := otel.Meter(instrumentationName)
	activeSessions, _ := meter.Int64UpDownCounter("broadcast.sessions.active",
		metric.WithDescription("Connected push clients."))
	pushes, _ := meter.Int64Counter("broadcast.pushes",
		metric.WithDescription("Push attempts by outcome."))

	return &hub{
		feed:           feed,
		interval:       cfg.interval,
		tickTimeout:    cfg.tickTimeout,
		sessions:       make(map[string]*Session),
		activeSessions: activeSessions,
		pushes:         pushes,
	}
}
