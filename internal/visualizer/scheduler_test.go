package visualizer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Run(t *testing.T) {
	t.Run("stop ends the loop", func(t *testing.T) {
		session := NewSession(Viewport{Width: 800, Height: 600}, WithSeed(1))

		var (
			frames    atomic.Int32
			scheduler *Scheduler
		)
		scheduler = NewScheduler(session, RendererFunc(func(context.Context, Scene) {
			if frames.Add(1) == 3 {
				scheduler.Stop()
			}
		}), 1000)

		require.NoError(t, scheduler.Run(t.Context()))
		assert.GreaterOrEqual(t, frames.Load(), int32(3))

		scheduler.Stop()
	})

	t.Run("context cancel ends the loop", func(t *testing.T) {
		session := NewSession(Viewport{Width: 800, Height: 600}, WithSeed(1))
		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()

		err := NewScheduler(session, RendererFunc(func(context.Context, Scene) {}), 500).Run(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("frames advance particles", func(t *testing.T) {
		session := NewSession(Viewport{Width: 800, Height: 600}, WithSeed(1))
		session.HandleBatch(batch(1, 1))
		start := session.Scene().Particles[0].X

		var scheduler *Scheduler
		scheduler = NewScheduler(session, RendererFunc(func(_ context.Context, scene Scene) {
			if scene.Particles[0].X <= start-5 {
				scheduler.Stop()
			}
		}), 1000)

		require.NoError(t, scheduler.Run(t.Context()))
	})

	t.Run("default frame rate", func(t *testing.T) {
		s := NewScheduler(NewSession(Viewport{}), nil, 0)
		assert.Equal(t, time.Second/DefaultFPS, s.interval)
	})
}
