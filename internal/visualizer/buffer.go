package visualizer

import "github.com/gabapcia/blockpulse/internal/txfeed"

// DefaultBufferCapacity bounds the rolling transaction buffer.
const DefaultBufferCapacity = 1000

// Buffer keeps the most recent transactions, newest first, with a hash
// index. The index always holds exactly the hashes in the list.
type Buffer struct {
	capacity int
	items    []txfeed.Transaction
	byHash   map[string]txfeed.Transaction
}

// NewBuffer creates a buffer holding at most capacity transactions.
// A non-positive capacity uses DefaultBufferCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}

	return &Buffer{
		capacity: capacity,
		items:    make([]txfeed.Transaction, 0, capacity),
		byHash:   make(map[string]txfeed.Transaction, capacity),
	}
}

// Add prepends the transactions of batch whose hash is not known yet,
// keeping their batch order, and evicts the oldest entries beyond capacity.
// A batch with more new transactions than the capacity keeps only the first
// capacity of them; the rest are dropped and reported in neither slice.
// added holds exactly the transactions now buffered from batch, evicted only
// entries that were buffered before the call.
func (b *Buffer) Add(batch []txfeed.Transaction) (added, evicted []txfeed.Transaction) {
	for _, tx := range batch {
		if len(added) == b.capacity {
			break
		}

		if _, ok := b.byHash[tx.Hash]; ok {
			continue
		}

		b.byHash[tx.Hash] = tx
		added = append(added, tx)
	}

	if len(added) == 0 {
		return nil, nil
	}

	items := make([]txfeed.Transaction, 0, b.capacity)
	items = append(items, added...)

	keep := min(len(b.items), b.capacity-len(added))
	items = append(items, b.items[:keep]...)

	for _, tx := range b.items[keep:] {
		delete(b.byHash, tx.Hash)
		evicted = append(evicted, tx)
	}

	b.items = items
	return added, evicted
}

// Get looks a transaction up by hash.
func (b *Buffer) Get(hash string) (txfeed.Transaction, bool) {
	tx, ok := b.byHash[hash]
	return tx, ok
}

// Len returns the number of buffered transactions.
func (b *Buffer) Len() int {
	return len(b.items)
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return b.capacity
}

// Items returns a copy of the buffered transactions, newest first.
func (b *Buffer) Items() []txfeed.Transaction {
	out := make([]txfeed.Transaction, len(b.items))
	copy(out, b.items)
	return out
}
