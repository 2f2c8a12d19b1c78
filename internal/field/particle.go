package field

import (
	"math"
	"math/rand"
)

const (
	// RecycleMargin is how far past the top and bottom edges a particle lives.
	RecycleMargin = 10.0

	MinSpeed     = 0.5
	MaxSpeed     = 2.0
	MinSize      = 1.0
	MaxSize      = 4.0
	MinOpacity   = 0.3
	MaxOpacity   = 0.7
	MaxSpawnAge  = 1000
	LinkDistance = 100.0
)

// Particle is one animated point.
type Particle struct {
	X, Y    float64
	Speed   float64
	Size    float64
	Opacity float64
	Color   Color
	Age     int
}

// recycle reinitialises every field and parks the particle just above the top edge.
func (p *Particle) recycle(width float64, pal Palette, r *rand.Rand) {
	p.X = r.Float64() * width
	p.Y = -RecycleMargin
	p.Speed = MinSpeed + r.Float64()*(MaxSpeed-MinSpeed)
	p.Size = MinSize + r.Float64()*(MaxSize-MinSize)
	p.Opacity = MinOpacity + r.Float64()*(MaxOpacity-MinOpacity)
	p.Color, _ = pal.pick(r)
	p.Age = 0
}

// spawn is recycle with a random height and phase so a fresh pool is
// spread across the surface and out of step.
func (p *Particle) spawn(width, height float64, pal Palette, r *rand.Rand) {
	p.recycle(width, pal, r)
	p.Y = r.Float64() * height
	p.Age = r.Intn(MaxSpawnAge)
}

// offscreen reports whether the particle fell past the bottom margin.
func (p *Particle) offscreen(height float64) bool {
	return p.Y > height+RecycleMargin
}

// Distance is the Euclidean distance between two particles.
func Distance(a, b Particle) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Linked reports whether network mode joins a and b with a line.
func Linked(a, b Particle) bool {
	return Distance(a, b) < LinkDistance
}

// linkStrength maps a distance inside LinkDistance to (0, 1].
func linkStrength(d float64) float64 {
	return (LinkDistance - d) / LinkDistance
}
