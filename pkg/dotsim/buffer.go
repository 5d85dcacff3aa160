package dotsim

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-dot-field/pkg/geometry"
)

// DotBuffer is a fixed-capacity structure-of-arrays store for dot state.
// One "row" spans the same index across all parallel arrays:
//
//	positions  lng,lat interleaved      2 floats per dot
//	velocities dLng,dLat interleaved    2 floats per dot
//	colors     r,g,b interleaved        3 floats per dot
//	sizes      render radius            1 float per dot
//	trailPts   lng,lat ring, slot 0 = newest   2*maxTrail floats per dot
//	trailLens  valid trail slots        1 int per dot
//
// Capacity is fixed at construction; Count marks the active population.
// Rows at or beyond Count are stale but inert. All per-tick mutation is
// in place: after the initial allocation the buffer performs zero
// allocations during a run.
//
// Trail decoding relies on the explicit trailLens counter, never on a
// (0,0)-sentinel test, so a dot legitimately passing through the origin
// keeps its history intact.
type DotBuffer struct {
	maxDots  int
	maxTrail int
	count    int

	positions  []float64
	velocities []float64
	colors     []float64
	sizes      []float64
	trailPts   []float64
	trailLens  []int

	mask    []bool
	visible int
}

// NewDotBuffer reserves storage for up to maxDots dots, each with up to
// maxTrailLength trail points. It fails only on non-positive capacity.
func NewDotBuffer(maxDots, maxTrailLength int) (*DotBuffer, error) {
	if maxDots <= 0 {
		return nil, fmt.Errorf("dot buffer capacity must be positive, got %d", maxDots)
	}
	if maxTrailLength <= 0 {
		return nil, fmt.Errorf("max trail length must be positive, got %d", maxTrailLength)
	}
	return &DotBuffer{
		maxDots:    maxDots,
		maxTrail:   maxTrailLength,
		positions:  make([]float64, 2*maxDots),
		velocities: make([]float64, 2*maxDots),
		colors:     make([]float64, 3*maxDots),
		sizes:      make([]float64, maxDots),
		trailPts:   make([]float64, 2*maxTrailLength*maxDots),
		trailLens:  make([]int, maxDots),
		mask:       make([]bool, maxDots),
	}, nil
}

// Cap returns the fixed row capacity.
func (b *DotBuffer) Cap() int { return b.maxDots }

// Count returns the active population size.
func (b *DotBuffer) Count() int { return b.count }

// MaxTrailLength returns the per-dot trail capacity.
func (b *DotBuffer) MaxTrailLength() int { return b.maxTrail }

// SetCount reassigns the active population size, typically before the rows
// are overwritten by a regeneration pass. Rows beyond the new count keep
// their old bytes but are never read again.
func (b *DotBuffer) SetCount(n int) {
	if n < 0 || n > b.maxDots {
		panic(fmt.Sprintf("dotsim: count %d out of range [0, %d]", n, b.maxDots))
	}
	b.count = n
	b.visible = 0
}

// checkIndex panics on a row index outside [0, maxDots). Passing a bad
// index is a programming error, not a runtime condition to recover from.
func (b *DotBuffer) checkIndex(i int) {
	if i < 0 || i >= b.maxDots {
		panic(fmt.Sprintf("dotsim: dot index %d out of range [0, %d)", i, b.maxDots))
	}
}

// SetDot writes every field of d into row i. A trail shorter than the
// buffer's trail capacity is zero-padded; a longer one keeps only its
// newest maxTrail points.
func (b *DotBuffer) SetDot(i int, d Dot) {
	b.checkIndex(i)

	b.positions[2*i] = d.Pos.X
	b.positions[2*i+1] = d.Pos.Y
	b.velocities[2*i] = d.Vel.X
	b.velocities[2*i+1] = d.Vel.Y
	b.colors[3*i] = d.Color[0]
	b.colors[3*i+1] = d.Color[1]
	b.colors[3*i+2] = d.Color[2]
	b.sizes[i] = d.Size

	n := len(d.Trail)
	if n > b.maxTrail {
		n = b.maxTrail
	}
	base := 2 * b.maxTrail * i
	for s := 0; s < n; s++ {
		b.trailPts[base+2*s] = d.Trail[s].X
		b.trailPts[base+2*s+1] = d.Trail[s].Y
	}
	for s := n; s < b.maxTrail; s++ {
		b.trailPts[base+2*s] = 0
		b.trailPts[base+2*s+1] = 0
	}
	b.trailLens[i] = n
}

// DotAt reconstructs the full dot value stored in row i. The trail slice
// is freshly allocated; mutating it does not touch the buffer.
func (b *DotBuffer) DotAt(i int) Dot {
	b.checkIndex(i)

	n := b.trailLens[i]
	trail := make([]geometry.Vector2D, n)
	base := 2 * b.maxTrail * i
	for s := 0; s < n; s++ {
		trail[s] = geometry.Vector2D{X: b.trailPts[base+2*s], Y: b.trailPts[base+2*s+1]}
	}

	return Dot{
		Pos:   geometry.Vector2D{X: b.positions[2*i], Y: b.positions[2*i+1]},
		Vel:   geometry.Vector2D{X: b.velocities[2*i], Y: b.velocities[2*i+1]},
		Color: [3]float64{b.colors[3*i], b.colors[3*i+1], b.colors[3*i+2]},
		Size:  b.sizes[i],
		Trail: trail,
	}
}

// Advance applies the boundary reflection rule to row i in place, then
// pushes the new position onto the trail ring, discarding the oldest point
// once the ring is full. The O(maxTrail) shift per dot per tick is fine:
// trail capacity is small and bounded (tens).
func (b *DotBuffer) Advance(i int, bound geometry.Bounds, maxSpeed float64) {
	b.checkIndex(i)

	pos := geometry.Vector2D{X: b.positions[2*i], Y: b.positions[2*i+1]}
	vel := geometry.Vector2D{X: b.velocities[2*i], Y: b.velocities[2*i+1]}

	vel = clampSpeed(vel, maxSpeed)
	pos, vel = Reflect(pos, vel, bound)

	b.positions[2*i] = pos.X
	b.positions[2*i+1] = pos.Y
	b.velocities[2*i] = vel.X
	b.velocities[2*i+1] = vel.Y

	b.pushTrail(i, pos)
}

// pushTrail shifts row i's trail one slot toward the tail and writes p
// into the head slot.
func (b *DotBuffer) pushTrail(i int, p geometry.Vector2D) {
	n := b.trailLens[i]
	if n < b.maxTrail {
		n++
		b.trailLens[i] = n
	}
	base := 2 * b.maxTrail * i
	for s := n - 1; s > 0; s-- {
		b.trailPts[base+2*s] = b.trailPts[base+2*(s-1)]
		b.trailPts[base+2*s+1] = b.trailPts[base+2*(s-1)+1]
	}
	b.trailPts[base] = p.X
	b.trailPts[base+1] = p.Y
}

// ExtractPositions returns x,y,z triples over all active rows in row
// order, padded with a zero third coordinate for the renderer.
func (b *DotBuffer) ExtractPositions() []float64 {
	out := make([]float64, 0, 3*b.count)
	for i := 0; i < b.count; i++ {
		out = append(out, b.positions[2*i], b.positions[2*i+1], 0)
	}
	return out
}

// ExtractColors returns r,g,b,a quadruples over all active rows, alpha
// fixed at full opacity.
func (b *DotBuffer) ExtractColors() []float64 {
	out := make([]float64, 0, 4*b.count)
	for i := 0; i < b.count; i++ {
		out = append(out, b.colors[3*i], b.colors[3*i+1], b.colors[3*i+2], 255)
	}
	return out
}

// ExtractSizes returns the render radius of all active rows.
func (b *DotBuffer) ExtractSizes() []float64 {
	out := make([]float64, b.count)
	copy(out, b.sizes[:b.count])
	return out
}

// ComputeVisibilityMask tests every active row against the margin-expanded
// viewport (inclusive edges), rewrites the mask wholesale and returns the
// visible count. O(count), no allocations.
func (b *DotBuffer) ComputeVisibilityMask(viewport geometry.Bounds, margin float64) int {
	expanded := viewport.Expand(margin)
	visible := 0
	for i := 0; i < b.count; i++ {
		in := expanded.ContainsXY(b.positions[2*i], b.positions[2*i+1])
		b.mask[i] = in
		if in {
			visible++
		}
	}
	b.visible = visible
	return visible
}

// VisibleCount returns the visible-row count of the last mask computation.
func (b *DotBuffer) VisibleCount() int { return b.visible }

// Visible reports the mask bit of row i (last computed mask).
func (b *DotBuffer) Visible(i int) bool {
	b.checkIndex(i)
	return b.mask[i]
}

// ExtractVisiblePositions returns x,y,z triples for masked rows only,
// preserving row order among the visible dots. The visible count from the
// last mask pass sizes the result exactly, so this is a single fill pass.
func (b *DotBuffer) ExtractVisiblePositions() []float64 {
	out := make([]float64, 0, 3*b.visible)
	for i := 0; i < b.count; i++ {
		if b.mask[i] {
			out = append(out, b.positions[2*i], b.positions[2*i+1], 0)
		}
	}
	return out
}

// ExtractVisibleColors returns r,g,b,a quadruples for masked rows only.
func (b *DotBuffer) ExtractVisibleColors() []float64 {
	out := make([]float64, 0, 4*b.visible)
	for i := 0; i < b.count; i++ {
		if b.mask[i] {
			out = append(out, b.colors[3*i], b.colors[3*i+1], b.colors[3*i+2], 255)
		}
	}
	return out
}

// ExtractVisibleSizes returns render radii for masked rows only.
func (b *DotBuffer) ExtractVisibleSizes() []float64 {
	out := make([]float64, 0, b.visible)
	for i := 0; i < b.count; i++ {
		if b.mask[i] {
			out = append(out, b.sizes[i])
		}
	}
	return out
}
