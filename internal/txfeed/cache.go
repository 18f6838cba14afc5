package txfeed

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by a Cache that holds no batch for the requested height.
var ErrCacheMiss = errors.New("batch not cached")

// Cache stores normalized batches by block height so that concurrent server
// replicas hit the upstream once per block.
type Cache interface {
	LoadBatch(ctx context.Context, height uint64) ([]Transaction, error)
	SaveBatch(ctx context.Context, height uint64, txs []Transaction, ttl time.Duration) error
}

type nopCache struct{}

var _ Cache = nopCache{}

func (nopCache) LoadBatch(context.Context, uint64) ([]Transaction, error) {
	return nil, ErrCacheMiss
}

func (nopCache) SaveBatch(context.Context, uint64, []Transaction, time.Duration) error {
	return nil
}
