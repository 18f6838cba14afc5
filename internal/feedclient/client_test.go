package feedclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gabapcia/blockpulse/internal/broadcast"
	"github.com/gabapcia/blockpulse/internal/pkg/resilience/retry"
	"github.com/gabapcia/blockpulse/internal/txfeed"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	seedBatch = []txfeed.Transaction{
		{Hash: "0xseed", From: "0xa", To: "0xb", Value: txfeed.MustEther("0.5"), BlockNumber: 10},
	}
	pushBatch = []txfeed.Transaction{
		{Hash: "0xpush", From: "0xa", To: txfeed.ContractCreation, Value: txfeed.MustEther("15"), BlockNumber: 11},
	}
)

// fakeServer serves the pull endpoint and a push channel that sends one
// batch per connection. The first connection is dropped right after.
type fakeServer struct {
	connections atomic.Int32
	seeds       atomic.Int32
	upgrader    websocket.Upgrader
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/transactions", func(w http.ResponseWriter, _ *http.Request) {
		f.seeds.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(seedBatch)
	})

	mux.HandleFunc("GET /socket", func(w http.ResponseWriter, r *http.Request) {
		conn, err := f.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		n := f.connections.Add(1)

		_ = conn.WriteJSON(map[string]any{"event": "unknown", "data": []any{}})
		_ = conn.WriteJSON(broadcast.Message{Event: broadcast.EventTransactions, Data: pushBatch})

		if n == 1 {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "restart"),
				time.Now().Add(time.Second))
			return
		}

		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	})

	return mux
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()

	fake := &fakeServer{}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	return fake, server
}

func fastReconnect() Option {
	return WithReconnect(retry.New(
		retry.WithAttempts(0),
		retry.WithDelay(10*time.Millisecond),
		retry.WithMaxDelay(50*time.Millisecond),
	))
}

func receive(t *testing.T, ch <-chan []txfeed.Transaction) []txfeed.Transaction {
	t.Helper()

	select {
	case txs, ok := <-ch:
		require.True(t, ok, "channel closed")
		return txs
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a batch")
		return nil
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "bad scheme", url: "ftp://localhost"},
		{name: "missing host", url: "http://"},
		{name: "unparsable", url: "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.url)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}

	t.Run("derives endpoints", func(t *testing.T) {
		c, err := New("https://pulse.example.com/base/")
		require.NoError(t, err)

		assert.Equal(t, "https://pulse.example.com/base/api/transactions", c.pullURL)
		assert.Equal(t, "wss://pulse.example.com/base/socket", c.socketURL)
	})
}

func TestClient_Seed(t *testing.T) {
	t.Run("decodes the batch", func(t *testing.T) {
		_, server := newFakeServer(t)

		c, err := New(server.URL)
		require.NoError(t, err)

		txs, err := c.Seed(t.Context())
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "0xseed", txs[0].Hash)
		assert.Equal(t, "0.5", txs[0].Value.String())
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Failed to fetch transactions"}`))
		}))
		t.Cleanup(server.Close)

		c, err := New(server.URL)
		require.NoError(t, err)

		_, err = c.Seed(t.Context())
		assert.ErrorIs(t, err, ErrSeedFailed)
		assert.Contains(t, err.Error(), "Failed to fetch transactions")
	})
}

func TestClient_Subscribe(t *testing.T) {
	fake, server := newFakeServer(t)

	c, err := New(server.URL, fastReconnect())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	batches := c.Subscribe(ctx)

	assert.Equal(t, "0xseed", receive(t, batches)[0].Hash)
	assert.Equal(t, "0xpush", receive(t, batches)[0].Hash)

	// The server drops the first connection; the client reconnects and
	// seeds again before relaying pushes.
	assert.Equal(t, "0xseed", receive(t, batches)[0].Hash)
	assert.Equal(t, "0xpush", receive(t, batches)[0].Hash)

	assert.Equal(t, int32(2), fake.connections.Load())
	assert.Equal(t, int32(2), fake.seeds.Load())

	cancel()

	select {
	case _, ok := <-batches:
		for ok {
			_, ok = <-batches
		}
	case <-time.After(5 * time.Second):
		t.Fatal("subscription did not end")
	}

	var states []State
	for len(c.States()) > 0 {
		states = append(states, <-c.States())
	}
	assert.Contains(t, states, StateConnecting)
	assert.Contains(t, states, StateConnected)
}

func TestClient_SubscribeCanceledWhileDialing(t *testing.T) {
	c, err := New("http://127.0.0.1:1", fastReconnect())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()

	batches := c.Subscribe(ctx)

	select {
	case _, ok := <-batches:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("subscription did not end")
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "unknown", State(42).String())
}
