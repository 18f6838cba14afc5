package chflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReceive(t *testing.T) {
	t.Run("successful receive", func(t *testing.T) {
		ch := make(chan int, 1)
		ch <- 42

		value, ok := Receive(t.Context(), ch)
		assert.True(t, ok)
		assert.Equal(t, 42, value)
	})

	t.Run("context canceled before receive", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		value, ok := Receive(ctx, make(chan int))
		assert.False(t, ok)
		assert.Zero(t, value)
	})

	t.Run("closed channel", func(t *testing.T) {
		ch := make(chan int)
		close(ch)

		_, ok := Receive(t.Context(), ch)
		assert.False(t, ok)
	})
}

func TestSend(t *testing.T) {
	t.Run("successful send", func(t *testing.T) {
		ch := make(chan int, 1)

		assert.True(t, Send(t.Context(), ch, 7))
		assert.Equal(t, 7, <-ch)
	})

	t.Run("context deadline while blocked", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		assert.False(t, Send(ctx, make(chan int), 7))
	})
}

func TestTrySend(t *testing.T) {
	ch := make(chan int, 1)

	assert.True(t, TrySend(ch, 1))
	assert.False(t, TrySend(ch, 2))
	assert.Equal(t, 1, <-ch)
}
