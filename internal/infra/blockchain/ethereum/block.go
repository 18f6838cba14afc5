// Package ethereum reads blocks from Ethereum-compatible nodes over JSON-RPC
// and exposes them as a txfeed.Source. Its wire types are shared with the
// explorer proxy, which returns the same JSON-RPC payloads.
package ethereum

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gabapcia/blockpulse/internal/pkg/types"
	"github.com/gabapcia/blockpulse/internal/txfeed"
)

// ErrBlockNotFound is returned when the node answers a block query with null.
var ErrBlockNotFound = errors.New("block not found")

type (
	// TransactionResponse is the subset of a JSON-RPC transaction object the feed reads.
	TransactionResponse struct {
		Hash        string  `json:"hash"`
		From        string  `json:"from"`
		To          *string `json:"to"`
		Value       string  `json:"value"`
		BlockNumber string  `json:"blockNumber"`
		Input       string  `json:"input"`
		Gas         string  `json:"gas"`
		GasPrice    string  `json:"gasPrice"`
		Nonce       string  `json:"nonce"`
		Type        string  `json:"type"`
	}

	// BlockResponse is the subset of a JSON-RPC block object the feed reads.
	BlockResponse struct {
		Hash         string                `json:"hash"`
		ParentHash   string                `json:"parentHash"`
		Number       types.Hex             `json:"number"`
		Timestamp    types.Hex             `json:"timestamp"`
		Miner        string                `json:"miner"`
		GasUsed      string                `json:"gasUsed"`
		Transactions []TransactionResponse `json:"transactions"`
	}
)

// ToRawTransaction converts the wire transaction. A null recipient becomes "".
func (t TransactionResponse) ToRawTransaction() txfeed.RawTransaction {
	var to string
	if t.To != nil {
		to = *t.To
	}

	return txfeed.RawTransaction{
		Hash:  t.Hash,
		From:  t.From,
		To:    to,
		Value: t.Value,
	}
}

// ToFeedBlock converts the wire block.
func (b BlockResponse) ToFeedBlock() txfeed.Block {
	transactions := make([]txfeed.RawTransaction, len(b.Transactions))
	for i, t := range b.Transactions {
		transactions[i] = t.ToRawTransaction()
	}

	return txfeed.Block{
		Number:       b.Number.Uint64(),
		Transactions: transactions,
	}
}

// DecodeBlockNumber decodes an eth_blockNumber result.
func DecodeBlockNumber(data json.RawMessage) (uint64, error) {
	var blockNumber types.Hex
	if err := json.Unmarshal(data, &blockNumber); err != nil {
		return 0, err
	}

	return blockNumber.Uint64(), nil
}

// DecodeBlock decodes an eth_getBlockByNumber result with full transactions.
func DecodeBlock(data json.RawMessage) (txfeed.Block, error) {
	if len(data) == 0 || string(data) == "null" {
		return txfeed.Block{}, ErrBlockNotFound
	}

	var blockResponse BlockResponse
	if err := json.Unmarshal(data, &blockResponse); err != nil {
		return txfeed.Block{}, err
	}

	return blockResponse.ToFeedBlock(), nil
}

func (c *client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	data, err := c.conn.Fetch(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}

	return DecodeBlockNumber(data)
}

func (c *client) BlockByNumber(ctx context.Context, height uint64) (txfeed.Block, error) {
	data, err := c.conn.Fetch(ctx, "eth_getBlockByNumber", types.HexFromUint64(height), true)
	if err != nil {
		return txfeed.Block{}, err
	}

	return DecodeBlock(data)
}
