package visualizer

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gabapcia/blockpulse/internal/txfeed"
	"github.com/shopspring/decimal"
)

// ConnectionStatus is the state of the feed subscription shown to the user.
type ConnectionStatus int

const (
	StatusConnecting ConnectionStatus = iota
	StatusConnected
	StatusDisconnected
	StatusError
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusConnecting:
		return "Connecting..."
	case StatusConnected:
		return "Connected"
	case StatusDisconnected:
		return "Disconnected"
	case StatusError:
		return "Connection Error"
	default:
		return "Unknown"
	}
}

type config struct {
	capacity int
	profile  *Profile
	rng      *rand.Rand
}

// Option configures a Session.
type Option func(*config)

// WithBufferCapacity overrides the rolling buffer size.
func WithBufferCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithProfile pins the rendering profile instead of deriving it from the
// viewport width.
func WithProfile(p Profile) Option {
	return func(c *config) {
		c.profile = &p
	}
}

// WithSeed makes particle placement deterministic.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// Session is the whole state of one visualization. It is safe for
// concurrent use: batches arrive from the network while the scheduler
// draws frames.
type Session struct {
	mu sync.Mutex

	viewport    Viewport
	profile     Profile
	pinned      bool
	buffer      *Buffer
	field       *Field
	series      *Series
	active      *txfeed.Transaction
	latestBlock uint64
	status      ConnectionStatus
}

// BatchResult summarizes what a batch changed.
type BatchResult struct {
	Added   []txfeed.Transaction
	Evicted int
	Points  []Point
}

// Scene is an immutable snapshot handed to a Renderer.
type Scene struct {
	Viewport     Viewport
	Profile      string
	Particles    []Particle
	Active       *Detail
	Points       []Point
	Volume       decimal.Decimal
	VolumeBucket Bucket
	LatestBlock  uint64
	Buffered     int
	Status       ConnectionStatus
}

// NewSession creates an empty session for a viewport.
func NewSession(vp Viewport, opts ...Option) *Session {
	cfg := config{capacity: DefaultBufferCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.rng == nil {
		now := uint64(time.Now().UnixNano())
		cfg.rng = rand.New(rand.NewPCG(now, now>>1))
	}

	profile := ProfileFor(vp.Width)
	if cfg.profile != nil {
		profile = *cfg.profile
	}

	return &Session{
		viewport: vp,
		profile:  profile,
		pinned:   cfg.profile != nil,
		buffer:   NewBuffer(cfg.capacity),
		field:    NewField(vp, profile, cfg.rng),
		series:   NewSeries(profile.ChartWindow),
		status:   StatusConnecting,
	}
}

// HandleBatch ingests a batch of transactions. Hashes already buffered are
// ignored, so redelivered batches change nothing but the latest block.
func (s *Session) HandleBatch(txs []txfeed.Transaction) BatchResult {
	if len(txs) == 0 {
		return BatchResult{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.latestBlock = txs[0].BlockNumber

	added, evicted := s.buffer.Add(txs)
	for _, tx := range added {
		s.field.Spawn(tx)
	}

	return BatchResult{
		Added:   added,
		Evicted: len(evicted),
		Points:  s.series.Update(added),
	}
}

// Frame advances the animation one step and returns the resulting scene.
func (s *Session) Frame() Scene {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.field.Step()
	return s.sceneLocked()
}

// Scene returns the current scene without advancing the animation.
func (s *Session) Scene() Scene {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sceneLocked()
}

func (s *Session) sceneLocked() Scene {
	particles := s.field.Particles()

	var active *Detail
	if s.active != nil {
		d := Describe(*s.active, s.profile)
		active = &d

		for i := range particles {
			if particles[i].Tx.Hash == s.active.Hash {
				particles[i].Glow *= activeGlowScale
			}
		}
	}

	volume := s.series.Total()
	return Scene{
		Viewport:     s.viewport,
		Profile:      s.profile.Name,
		Particles:    particles,
		Active:       active,
		Points:       s.series.Points(),
		Volume:       volume,
		VolumeBucket: VolumeThresholds.Classify(volume),
		LatestBlock:  s.latestBlock,
		Buffered:     s.buffer.Len(),
		Status:       s.status,
	}
}

// Pointer selects the transaction under (x, y), if any. A miss keeps the
// current selection.
func (s *Session) Pointer(x, y float64) (Detail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.field.HitTest(x, y)
	if !ok {
		return Detail{}, false
	}

	tx := p.Tx
	s.active = &tx

	return Describe(tx, s.profile), true
}

// Leave handles the pointer leaving the surface. Only profiles with
// HideOnLeave drop the selection.
func (s *Session) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile.HideOnLeave {
		s.active = nil
	}
}

// ClearSelection drops the selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = nil
}

// Selected returns the details of the selected transaction.
func (s *Session) Selected() (Detail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return Detail{}, false
	}
	return Describe(*s.active, s.profile), true
}

// Resize changes the viewport. Unless a profile was pinned, the profile and
// chart window follow the new width.
func (s *Session) Resize(vp Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewport = vp
	if !s.pinned {
		s.profile = ProfileFor(vp.Width)
	}

	s.field.Resize(vp, s.profile)
	s.series.SetWindow(s.profile.ChartWindow)
}

// SetStatus records the connection state.
func (s *Session) SetStatus(status ConnectionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
}

// Lookup finds a buffered transaction by hash.
func (s *Session) Lookup(hash string) (txfeed.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buffer.Get(hash)
}
