package txfeed

import "context"

// RawTransaction is a transaction as reported by an upstream source. To is
// empty for contract creations and Value is a hex wei quantity.
type RawTransaction struct {
	Hash  string
	From  string
	To    string
	Value string
}

// Block is an upstream block with its full transaction objects.
type Block struct {
	Number       uint64
	Transactions []RawTransaction
}

// Source provides block data from an upstream API.
type Source interface {
	// LatestBlockNumber returns the current chain height.
	LatestBlockNumber(ctx context.Context) (uint64, error)

	// BlockByNumber returns the block at height with full transactions.
	BlockByNumber(ctx context.Context, height uint64) (Block, error)
}
