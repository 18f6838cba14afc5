package txfeed

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWei(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "zero", in: "0x0", want: "0"},
		{name: "one ether", in: "0xde0b6b3a7640000", want: "1"},
		{name: "half ether", in: "0x6f05b59d3b20000", want: "0.5"},
		{name: "one wei", in: "0x1", want: "0.000000000000000001"},
		{name: "beyond 64 bits", in: "0x3635c9adc5dea00000", want: "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWei(tt.in)
			require.NoError(t, err)
			assert.True(t, MustEther(tt.want).Equal(got.Decimal), "got %s", got)
		})
	}

	t.Run("not hex", func(t *testing.T) {
		_, err := ParseWei("1000")
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseWei("")
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestEtherFromWei(t *testing.T) {
	wei, ok := new(big.Int).SetString("15000000000000000000", 10)
	require.True(t, ok)

	assert.Equal(t, "15", EtherFromWei(wei).String())
}

func TestEther_JSON(t *testing.T) {
	t.Run("encodes as a bare number", func(t *testing.T) {
		data, err := json.Marshal(MustEther("15.5"))
		require.NoError(t, err)
		assert.Equal(t, "15.5", string(data))
	})

	t.Run("decodes numbers and strings", func(t *testing.T) {
		var a, b Ether
		require.NoError(t, json.Unmarshal([]byte(`0.25`), &a))
		require.NoError(t, json.Unmarshal([]byte(`"0.25"`), &b))

		assert.True(t, a.Equal(b.Decimal))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var e Ether
		assert.ErrorIs(t, json.Unmarshal([]byte(`"lots"`), &e), ErrInvalidValue)
	})
}

func TestTransaction_JSON(t *testing.T) {
	tx := Transaction{
		Hash:        "0xabc",
		From:        "0xfrom",
		To:          ContractCreation,
		Value:       MustEther("0.5"),
		BlockNumber: 19000000,
		Timestamp:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(tx)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"hash": "0xabc",
		"from": "0xfrom",
		"to": "Contract Creation",
		"value": 0.5,
		"blockNumber": 19000000,
		"timestamp": "2024-01-02T03:04:05Z"
	}`, string(data))
	assert.True(t, tx.IsContractCreation())
}

func TestNormalize(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("regular transfer", func(t *testing.T) {
		tx, err := normalize(RawTransaction{
			Hash:  "0x1",
			From:  "0xa",
			To:    "0xb",
			Value: "0xde0b6b3a7640000",
		}, 42, at)
		require.NoError(t, err)

		assert.Equal(t, "0xb", tx.To)
		assert.Equal(t, uint64(42), tx.BlockNumber)
		assert.Equal(t, at, tx.Timestamp)
		assert.Equal(t, "1", tx.Value.String())
		assert.False(t, tx.IsContractCreation())
	})

	t.Run("null recipient becomes the contract creation sentinel", func(t *testing.T) {
		tx, err := normalize(RawTransaction{Hash: "0x2", From: "0xa", Value: "0x0"}, 42, at)
		require.NoError(t, err)

		assert.Equal(t, ContractCreation, tx.To)
	})

	t.Run("malformed value", func(t *testing.T) {
		_, err := normalize(RawTransaction{Hash: "0x3", Value: "lots"}, 42, at)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestStatsCollector(t *testing.T) {
	c := newStatsCollector()
	at := time.Unix(1700000000, 0)

	batch := []Transaction{
		{Hash: "0x1", From: "0xA", To: "0xB"},
		{Hash: "0x2", From: "0xa", To: ContractCreation},
	}

	c.observeBatch(10, batch, at)
	c.observeBatch(10, batch, at)
	c.observeFailure()

	s := c.snapshot()
	assert.Equal(t, uint64(3), s.Fetches)
	assert.Equal(t, uint64(1), s.Failures)
	assert.Equal(t, uint64(1), s.BlocksSeen)
	assert.Equal(t, uint64(4), s.TransactionsServed)
	assert.Equal(t, uint64(10), s.LastBlock)
	assert.Equal(t, at, s.LastFetchAt)
	assert.Equal(t, uint64(1), s.UniqueSenders)
	assert.Equal(t, uint64(1), s.UniqueRecipients)
}
