package ethereum

import (
	"encoding/json"
	"errors"
	"testing"

	jsonrpctest "github.com/gabapcia/blockpulse/internal/pkg/transport/jsonrpc/mocks"
	"github.com/gabapcia/blockpulse/internal/pkg/types"
	"github.com/gabapcia/blockpulse/internal/txfeed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const blockFixture = `{
	"hash": "0xblock",
	"number": "0x1312d00",
	"timestamp": "0x65000000",
	"transactions": [
		{"hash": "0x1", "from": "0xa", "to": "0xb", "value": "0x6f05b59d3b20000"},
		{"hash": "0x2", "from": "0xa", "to": null, "value": "0xd02ab486cedc0000"}
	]
}`

func TestBlockResponse_ToFeedBlock(t *testing.T) {
	var resp BlockResponse
	require.NoError(t, json.Unmarshal([]byte(blockFixture), &resp))

	block := resp.ToFeedBlock()

	assert.Equal(t, uint64(20_000_000), block.Number)
	assert.Equal(t, []txfeed.RawTransaction{
		{Hash: "0x1", From: "0xa", To: "0xb", Value: "0x6f05b59d3b20000"},
		{Hash: "0x2", From: "0xa", To: "", Value: "0xd02ab486cedc0000"},
	}, block.Transactions)
}

func TestDecodeBlock(t *testing.T) {
	t.Run("null result", func(t *testing.T) {
		_, err := DecodeBlock(json.RawMessage("null"))
		assert.ErrorIs(t, err, ErrBlockNotFound)
	})

	t.Run("invalid number", func(t *testing.T) {
		_, err := DecodeBlock(json.RawMessage(`{"number": "twelve"}`))
		assert.Error(t, err)
	})

	t.Run("no transactions", func(t *testing.T) {
		block, err := DecodeBlock(json.RawMessage(`{"number": "0x1", "transactions": []}`))
		require.NoError(t, err)
		assert.Equal(t, uint64(1), block.Number)
		assert.Empty(t, block.Transactions)
	})
}

func TestDecodeBlockNumber(t *testing.T) {
	n, err := DecodeBlockNumber(json.RawMessage(`"0x10"`))
	require.NoError(t, err)
	assert.Equal(t, uint64(16), n)

	_, err = DecodeBlockNumber(json.RawMessage(`"Max rate limit reached"`))
	assert.Error(t, err)
}

func TestClient_LatestBlockNumber(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		conn := jsonrpctest.NewClient(t)
		conn.On("Fetch", mock.Anything, "eth_blockNumber", []any(nil)).Return(`"0x1312d00"`, nil).Once()

		n, err := NewClient(conn).LatestBlockNumber(t.Context())
		require.NoError(t, err)
		assert.Equal(t, uint64(20_000_000), n)
	})

	t.Run("transport error", func(t *testing.T) {
		boom := errors.New("boom")

		conn := jsonrpctest.NewClient(t)
		conn.On("Fetch", mock.Anything, "eth_blockNumber", []any(nil)).Return(nil, boom).Once()

		_, err := NewClient(conn).LatestBlockNumber(t.Context())
		assert.ErrorIs(t, err, boom)
	})
}

func TestClient_BlockByNumber(t *testing.T) {
	t.Run("requests full transactions for the hex height", func(t *testing.T) {
		conn := jsonrpctest.NewClient(t)
		conn.On("Fetch", mock.Anything, "eth_getBlockByNumber", []any{types.Hex("0x1312d00"), true}).
			Return(blockFixture, nil).Once()

		block, err := NewClient(conn).BlockByNumber(t.Context(), 20_000_000)
		require.NoError(t, err)
		assert.Len(t, block.Transactions, 2)
	})

	t.Run("missing block", func(t *testing.T) {
		conn := jsonrpctest.NewClient(t)
		conn.On("Fetch", mock.Anything, "eth_getBlockByNumber", mock.Anything).Return("null", nil).Once()

		_, err := NewClient(conn).BlockByNumber(t.Context(), 1)
		assert.ErrorIs(t, err, ErrBlockNotFound)
	})
}
