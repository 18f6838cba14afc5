package visualizer

import (
	"math"
	"math/rand/v2"

	"github.com/gabapcia/blockpulse/internal/txfeed"
	"github.com/shopspring/decimal"
)

const (
	spawnOffset     = 10
	despawnX        = -50
	fadeDistance    = 30
	hitRadius       = 30
	maxGlow         = 20
	baseGlow        = 5
	minSpeedFactor  = 0.2
	maxSpin         = 0.05
	activeGlowScale = 1.5
)

// Particle is one transaction moving right to left across the surface.
type Particle struct {
	Tx       txfeed.Transaction
	X, Y     float64
	Radius   float64
	Speed    float64
	Glow     float64
	Opacity  float64
	Rotation float64
	Spin     float64
	Bucket   Bucket
}

// GlowSize grows logarithmically with the value, between 5 and 20.
func GlowSize(v decimal.Decimal) float64 {
	if !v.IsPositive() {
		return baseGlow
	}

	f, _ := v.Float64()
	return math.Min(maxGlow, baseGlow+math.Log10(f+1)*5)
}

// Speed slows down as the value grows, never below a fifth of base.
func Speed(v decimal.Decimal, base float64) float64 {
	if !v.IsPositive() {
		return base
	}

	f, _ := v.Float64()
	return base * math.Max(minSpeedFactor, 1-math.Log10(f+1)/4)
}

// fadeIn is the opacity at x: transparent at the right edge, opaque after
// fadeDistance pixels.
func fadeIn(x, width float64) float64 {
	start := width - fadeDistance
	if x <= start {
		return 1
	}
	return math.Max(0, 1-(x-start)/fadeDistance)
}

// Field is the set of live particles, oldest first.
type Field struct {
	viewport  Viewport
	profile   Profile
	rng       *rand.Rand
	particles []*Particle
}

// NewField creates an empty field.
func NewField(vp Viewport, profile Profile, rng *rand.Rand) *Field {
	return &Field{viewport: vp, profile: profile, rng: rng}
}

// Spawn adds a particle for tx just past the right edge at a random height.
// On capped profiles the oldest particles are dropped to make room.
func (f *Field) Spawn(tx txfeed.Transaction) *Particle {
	dot := f.profile.DotSize
	x := f.viewport.Width + spawnOffset

	p := &Particle{
		Tx:       tx,
		X:        x,
		Y:        f.rng.Float64()*math.Max(0, f.viewport.Height-2*dot) + dot,
		Radius:   dot,
		Speed:    Speed(tx.Value.Decimal, f.profile.BaseSpeed),
		Glow:     GlowSize(tx.Value.Decimal),
		Opacity:  fadeIn(x, f.viewport.Width),
		Rotation: f.rng.Float64() * 2 * math.Pi,
		Spin:     (f.rng.Float64()*2 - 1) * maxSpin,
		Bucket:   BucketFor(tx.Value.Decimal),
	}

	f.particles = append(f.particles, p)
	if limit := f.profile.MaxParticles; limit > 0 && len(f.particles) > limit {
		f.particles = append(f.particles[:0:0], f.particles[len(f.particles)-limit:]...)
	}

	return p
}

// Step advances every particle one frame and removes the ones that left
// the surface. It returns how many were removed.
func (f *Field) Step() int {
	kept := f.particles[:0]
	for _, p := range f.particles {
		p.X -= p.Speed
		p.Rotation = math.Mod(p.Rotation+p.Spin, 2*math.Pi)
		p.Opacity = fadeIn(p.X, f.viewport.Width)

		if p.X < despawnX {
			continue
		}
		kept = append(kept, p)
	}

	removed := len(f.particles) - len(kept)
	clear(f.particles[len(kept):])
	f.particles = kept

	return removed
}

// HitTest returns the particle nearest to (x, y) strictly within the hit
// radius.
func (f *Field) HitTest(x, y float64) (*Particle, bool) {
	var (
		nearest *Particle
		best    = float64(hitRadius)
	)

	for _, p := range f.particles {
		if d := math.Hypot(p.X-x, p.Y-y); d < best {
			nearest, best = p, d
		}
	}

	return nearest, nearest != nil
}

// Resize updates the surface size and profile. Live particles keep their
// position.
func (f *Field) Resize(vp Viewport, profile Profile) {
	f.viewport = vp
	f.profile = profile

	if limit := profile.MaxParticles; limit > 0 && len(f.particles) > limit {
		f.particles = append(f.particles[:0:0], f.particles[len(f.particles)-limit:]...)
	}
}

// Len returns the number of live particles.
func (f *Field) Len() int {
	return len(f.particles)
}

// Particles returns a copy of the live particles, oldest first.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	for i, p := range f.particles {
		out[i] = *p
	}
	return out
}
