package visualizer

import (
	"context"
	"sync"
	"time"
)

// DefaultFPS is the frame rate used when none is given.
const DefaultFPS = 60

// Renderer draws scenes. Render is called from the scheduler goroutine only.
type Renderer interface {
	Render(ctx context.Context, scene Scene)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, scene Scene)

func (f RendererFunc) Render(ctx context.Context, scene Scene) {
	f(ctx, scene)
}

// Scheduler drives a Session at a fixed frame rate. It is the only caller
// of Session.Frame.
type Scheduler struct {
	session  *Session
	renderer Renderer
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

// NewScheduler creates a scheduler running at fps frames per second.
// A non-positive fps uses DefaultFPS.
func NewScheduler(session *Session, renderer Renderer, fps int) *Scheduler {
	if fps <= 0 {
		fps = DefaultFPS
	}

	return &Scheduler{
		session:  session,
		renderer: renderer,
		interval: time.Second / time.Duration(fps),
		stop:     make(chan struct{}),
	}
}

// Run draws frames until ctx is done or Stop is called. Frames that cannot
// keep up are dropped rather than queued.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case <-ticker.C:
			s.renderer.Render(ctx, s.session.Frame())
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}
