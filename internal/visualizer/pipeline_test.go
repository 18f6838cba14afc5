package visualizer_test

import (
	"testing"

	"github.com/gabapcia/blockpulse/internal/txfeed"
	"github.com/gabapcia/blockpulse/internal/txfeed/mocks"
	"github.com/gabapcia/blockpulse/internal/visualizer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPipeline_LatestBlockToScene(t *testing.T) {
	source := mocks.NewSource(t)
	source.EXPECT().LatestBlockNumber(mock.Anything).Return(uint64(19_000_000), nil).Twice()
	source.EXPECT().BlockByNumber(mock.Anything, uint64(19_000_000)).Return(txfeed.Block{
		Number: 19_000_000,
		Transactions: []txfeed.RawTransaction{
			{Hash: "0xaaa", From: "0x1", To: "0x2", Value: "0x6f05b59d3b20000"},
			{Hash: "0xbbb", From: "0x1", To: "", Value: "0xd02ab486cedc0000"},
		},
	}, nil).Twice()

	feed := txfeed.New(source)
	session := visualizer.NewSession(visualizer.Viewport{Width: 1280, Height: 720}, visualizer.WithSeed(3))

	// The same block delivered twice, as a reconnect seed followed by a push.
	for range 2 {
		txs, err := feed.FetchLatestTransactions(t.Context())
		require.NoError(t, err)
		session.HandleBatch(txs)
	}

	scene := session.Scene()

	require.Len(t, scene.Points, 1)
	assert.Equal(t, "Block 19000000", scene.Points[0].Label)
	assert.True(t, decimal.RequireFromString("15.5").Equal(scene.Points[0].Total))
	assert.True(t, decimal.RequireFromString("15.5").Equal(scene.Volume))

	require.Len(t, scene.Particles, 2)
	assert.NotEqual(t, scene.Particles[0].Bucket, scene.Particles[1].Bucket)
	assert.Equal(t, visualizer.BucketLow, scene.Particles[0].Bucket)
	assert.Equal(t, visualizer.BucketHigh, scene.Particles[1].Bucket)

	assert.Equal(t, uint64(19_000_000), scene.LatestBlock)
	assert.Equal(t, 2, scene.Buffered)

	created, ok := session.Lookup("0xbbb")
	require.True(t, ok)
	assert.True(t, created.IsContractCreation())
}
