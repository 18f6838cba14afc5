package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/blockpulse/internal/txfeed"

	"github.com/redis/go-redis/v9"
)

const txfeedKeyPrefix = "txfeed"

// txfeedBatchKey is "txfeed:batch:<height>".
func txfeedBatchKey(height uint64) string {
	return fmt.Sprintf("%s:batch:%d", txfeedKeyPrefix, height)
}

var _ txfeed.Cache = (*client)(nil)

// LoadBatch returns the batch cached for height or txfeed.ErrCacheMiss.
func (c *client) LoadBatch(ctx context.Context, height uint64) ([]txfeed.Transaction, error) {
	data, err := c.conn.Get(ctx, txfeedBatchKey(height)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, txfeed.ErrCacheMiss
		}
		return nil, err
	}

	return decodeBatch(data)
}

// SaveBatch caches txs under height for ttl. A zero ttl keeps the key forever.
func (c *client) SaveBatch(ctx context.Context, height uint64, txs []txfeed.Transaction, ttl time.Duration) error {
	data, err := json.Marshal(txs)
	if err != nil {
		return err
	}

	return c.conn.Set(ctx, txfeedBatchKey(height), data, ttl).Err()
}

func decodeBatch(data []byte) ([]txfeed.Transaction, error) {
	txs := make([]txfeed.Transaction, 0)
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("decode cached batch: %w", err)
	}

	return txs, nil
}
