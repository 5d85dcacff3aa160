package dotsim

import (
	"time"

	"github.com/lao-tseu-is-alive/go-dot-field/pkg/geometry"
)

// Dot is the full value view of one entity: a moving point with a color,
// a render radius and a bounded history of past positions.
//
// Trail is ordered newest-first: Trail[0] is the position written by the
// most recent step (the current position), Trail[len-1] the oldest one
// still retained.
type Dot struct {
	Pos   geometry.Vector2D
	Vel   geometry.Vector2D
	Color [3]float64 // RGB, 0..255 per channel
	Size  float64
	Trail []geometry.Vector2D
}

// RenderData is the renderer-ready snapshot produced by the extraction API:
// three index-aligned flat arrays, one entry per exposed dot.
//
//   - Positions: x, y, z triples (z always 0)
//   - Colors:    r, g, b, a quadruples, 0..255, alpha always 255
//   - Sizes:     render radius scalars
//
// The arrays are only valid until the next simulation tick; callers must
// treat them as a snapshot. Empty arrays mean "nothing to draw", never an
// error.
type RenderData struct {
	Positions []float64
	Colors    []float64
	Sizes     []float64
}

func emptyRenderData() RenderData {
	return RenderData{
		Positions: []float64{},
		Colors:    []float64{},
		Sizes:     []float64{},
	}
}

// Metrics is the copied-out observability snapshot of a run. All fields are
// plain values, safe to hold across ticks.
type Metrics struct {
	ActiveDots       int
	VisibleDots      int
	CullingActive    bool
	BulkMode         bool
	LastTickDuration time.Duration
	TickCount        uint64
	SkippedTicks     uint64
}
