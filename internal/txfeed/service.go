// Package txfeed fetches the latest block from an upstream source and turns
// its transactions into the normalized batch pushed to clients.
package txfeed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gabapcia/blockpulse/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const instrumentationName = "github.com/gabapcia/blockpulse/internal/txfeed"

var (
	// ErrLatestBlockUnavailable wraps failures to read the chain height.
	ErrLatestBlockUnavailable = errors.New("latest block number unavailable")

	// ErrBlockUnavailable wraps failures to read the latest block.
	ErrBlockUnavailable = errors.New("block unavailable")
)

// Service produces the current batch of transactions.
type Service interface {
	// FetchLatestTransactions returns the normalized transactions of the
	// latest block. An empty block yields an empty, non-nil slice.
	FetchLatestTransactions(ctx context.Context) ([]Transaction, error)

	// Stats returns activity counters since startup.
	Stats() Stats
}

type service struct {
	source   Source
	cache    Cache
	cacheTTL time.Duration
	now      func() time.Time

	group singleflight.Group
	stats *statsCollector

	tracer        trace.Tracer
	fetchCount    metric.Int64Counter
	fetchDuration metric.Float64Histogram
	txCount       metric.Int64Counter
}

var _ Service = (*service)(nil)

// FetchLatestTransactions reads the chain height and then that block.
// Concurrent callers share a single upstream round trip.
func (s *service) FetchLatestTransactions(ctx context.Context) ([]Transaction, error) {
	ch := s.group.DoChan("latest", func() (any, error) {
		// Detached so one caller's cancellation does not fail the others.
		return s.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Transaction), nil
	}
}

func (s *service) Stats() Stats {
	return s.stats.snapshot()
}

func (s *service) fetch(ctx context.Context) (txs []Transaction, err error) {
	ctx, span := s.tracer.Start(ctx, "txfeed.FetchLatestTransactions")
	start := s.now()

	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "failure"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.stats.observeFailure()
		}

		attrs := metric.WithAttributes(attribute.String("outcome", outcome))
		s.fetchCount.Add(ctx, 1, attrs)
		s.fetchDuration.Record(ctx, s.now().Sub(start).Seconds(), attrs)
		span.End()
	}()

	height, err := s.source.LatestBlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLatestBlockUnavailable, err)
	}
	span.SetAttributes(attribute.Int64("block.height", int64(height)))

	if cached, err := s.cache.LoadBatch(ctx, height); err == nil {
		logger.Debug(ctx, "serving cached batch", "block.height", height, "batch.size", len(cached))
		s.record(ctx, height, cached)
		return cached, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		logger.Warn(ctx, "batch cache lookup failed", "block.height", height, "error", err)
	}

	block, err := s.source.BlockByNumber(ctx, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBlockUnavailable, strconv.FormatUint(height, 10), err)
	}

	fetchedAt := s.now()
	txs = make([]Transaction, 0, len(block.Transactions))
	for _, raw := range block.Transactions {
		tx, err := normalize(raw, block.Number, fetchedAt)
		if err != nil {
			logger.Warn(ctx, "skipping malformed transaction",
				"block.height", block.Number,
				"tx.hash", raw.Hash,
				"error", err,
			)
			continue
		}
		txs = append(txs, tx)
	}

	if err := s.cache.SaveBatch(ctx, height, txs, s.cacheTTL); err != nil {
		logger.Warn(ctx, "batch cache store failed", "block.height", height, "error", err)
	}

	s.record(ctx, height, txs)
	return txs, nil
}

func (s *service) record(ctx context.Context, height uint64, txs []Transaction) {
	s.stats.observeBatch(height, txs, s.now())
	s.txCount.Add(ctx, int64(len(txs)))

	logger.Debug(ctx, "fetched latest transactions",
		"block.height", height,
		"batch.size", len(txs),
	)
}

type config struct {
	cache    Cache
	cacheTTL time.Duration
	now      func() time.Time
}

// Option configures the service returned by New.
type Option func(*config)

// WithCache stores every batch in c for ttl and serves repeats from it.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(cfg *config) {
		cfg.cache = c
		cfg.cacheTTL = ttl
	}
}

// WithClock replaces time.Now, which stamps fetched transactions.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		cfg.now = now
	}
}

// New creates the poller for source. Instruments come from the global
// OpenTelemetry providers and are no-ops when telemetry is disabled.
func New(source Source, opts ...Option) *service {
	cfg := config{
		cache: nopCache{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	meter := otel.Meter(instrumentationName)
	fetchCount, _ := meter.Int64Counter("txfeed.fetch.count",
		metric.WithDescription("Upstream fetches by outcome."))
	fetchDuration, _ := meter.Float64Histogram("txfeed.fetch.duration",
		metric.WithDescription("Upstream fetch latency."), metric.WithUnit("s"))
	txCount, _ := meter.Int64Counter("txfeed.transactions.count",
		metric.WithDescription("Transactions returned to callers."))

	return &service{
		source:        source,
		cache:         cfg.cache,
		cacheTTL:      cfg.cacheTTL,
		now:           cfg.now,
		stats:         newStatsCollector(),
		tracer:        otel.Tracer(instrumentationName),
		fetchCount:    fetchCount,
		fetchDuration: fetchDuration,
		txCount:       txCount,
	}
}
