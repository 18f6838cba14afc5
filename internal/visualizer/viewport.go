package visualizer

// Viewport breakpoints, in CSS pixels.
const (
	SmallBreakpoint  = 480
	MobileBreakpoint = 768
)

// Viewport is the drawing surface size.
type Viewport struct {
	Width  float64
	Height float64
}

// Profile holds the rendering parameters chosen for a viewport width.
type Profile struct {
	Name string

	// DotSize is the particle radius.
	DotSize float64

	// BaseSpeed scales every particle speed.
	BaseSpeed float64

	// ChartWindow is the number of block points kept.
	ChartWindow int

	// MaxParticles caps the particle field; zero means unbounded.
	MaxParticles int

	// TruncateAddresses shortens long hashes and addresses in details.
	TruncateAddresses bool

	// HideOnLeave clears the selection when the pointer leaves the surface.
	HideOnLeave bool
}

// LowPower reports whether the profile caps the particle field.
func (p Profile) LowPower() bool {
	return p.MaxParticles > 0
}

var (
	DesktopProfile = Profile{
		Name:        "desktop",
		DotSize:     6,
		BaseSpeed:   1,
		ChartWindow: 20,
		HideOnLeave: true,
	}

	MobileProfile = Profile{
		Name:         "mobile",
		DotSize:      4,
		BaseSpeed:    0.7,
		ChartWindow:  15,
		MaxParticles: 300,
	}

	SmallProfile = Profile{
		Name:              "small",
		DotSize:           3,
		BaseSpeed:         0.7,
		ChartWindow:       10,
		MaxParticles:      150,
		TruncateAddresses: true,
	}
)

// ProfileFor picks the profile matching a viewport width.
func ProfileFor(width float64) Profile {
	switch {
	case width <= SmallBreakpoint:
		return SmallProfile
	case width <= MobileBreakpoint:
		return MobileProfile
	default:
		return DesktopProfile
	}
}
