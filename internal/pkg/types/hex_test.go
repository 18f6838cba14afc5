package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex_UnmarshalJSON(t *testing.T) {
	t.Run("valid lowercase hex", func(t *testing.T) {
		var h Hex
		require.NoError(t, json.Unmarshal([]byte(`"0x1a"`), &h))
		assert.Equal(t, Hex("0x1a"), h)
	})

	t.Run("valid uppercase prefix", func(t *testing.T) {
		var h Hex
		require.NoError(t, json.Unmarshal([]byte(`"0X2F"`), &h))
		assert.Equal(t, uint64(47), h.Uint64())
	})

	t.Run("missing 0x prefix", func(t *testing.T) {
		var h Hex
		assert.Error(t, json.Unmarshal([]byte(`"1a"`), &h))
	})

	t.Run("invalid hex characters", func(t *testing.T) {
		var h Hex
		assert.Error(t, json.Unmarshal([]byte(`"0xZZZ"`), &h))
	})

	t.Run("explorer error text instead of a quantity", func(t *testing.T) {
		var h Hex
		assert.Error(t, json.Unmarshal([]byte(`"Max rate limit reached"`), &h))
	})

	t.Run("not a string", func(t *testing.T) {
		var h Hex
		assert.Error(t, json.Unmarshal([]byte(`26`), &h))
	})
}

func TestHex_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Hex("0x1a"))
	require.NoError(t, err)
	assert.JSONEq(t, `"0x1a"`, string(data))
}

func TestHexFromUint64(t *testing.T) {
	assert.Equal(t, Hex("0x0"), HexFromUint64(0))
	assert.Equal(t, Hex("0x1312d00"), HexFromUint64(20_000_000))
}

func TestHex_Uint64(t *testing.T) {
	assert.Equal(t, uint64(20_000_000), Hex("0x1312d00").Uint64())
	assert.Equal(t, uint64(0), Hex("").Uint64())
	assert.Equal(t, uint64(0), Hex("0x").Uint64())
	assert.Equal(t, uint64(0), Hex("0xnope").Uint64())
}
