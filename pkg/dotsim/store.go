package dotsim

import (
	"github.com/lao-tseu-is-alive/go-dot-field/pkg/geometry"
)

const (
	// CullingThreshold is the population size below which per-dot overhead
	// stops mattering: smaller runs use the object store and skip culling,
	// larger runs use the flat buffer and the visibility mask.
	CullingThreshold = 500

	// CullingEpsilon is the per-edge viewport tolerance in degrees. A
	// viewport whose every edge moved less than this reuses the previous
	// visibility mask.
	CullingEpsilon = 0.001

	// MaxTrailLength caps the configurable per-dot trail capacity.
	MaxTrailLength = 64
)

// population abstracts the two dot stores behind one contract so the
// engine never branches on storage layout outside construction.
type population interface {
	count() int
	get(i int) Dot
	advanceAll(bound geometry.Bounds, maxSpeed float64)
	cull(viewport geometry.Bounds, margin float64) int
	visibleCount() int
	extract(visibleOnly bool) RenderData
}

// bulkStore backs large populations with the flat structure-of-arrays
// buffer. It is the only store that actually filters on cull.
type bulkStore struct {
	buf *DotBuffer
}

func newBulkStore(capacity, trailLength int) (*bulkStore, error) {
	buf, err := NewDotBuffer(capacity, trailLength)
	if err != nil {
		return nil, err
	}
	buf.SetCount(capacity)
	return &bulkStore{buf: buf}, nil
}

func (s *bulkStore) count() int    { return s.buf.Count() }
func (s *bulkStore) get(i int) Dot { return s.buf.DotAt(i) }

func (s *bulkStore) set(i int, d Dot) { s.buf.SetDot(i, d) }

func (s *bulkStore) advanceAll(bound geometry.Bounds, maxSpeed float64) {
	for i := 0; i < s.buf.Count(); i++ {
		s.buf.Advance(i, bound, maxSpeed)
	}
}

func (s *bulkStore) cull(viewport geometry.Bounds, margin float64) int {
	return s.buf.ComputeVisibilityMask(viewport, margin)
}

func (s *bulkStore) visibleCount() int { return s.buf.VisibleCount() }

func (s *bulkStore) extract(visibleOnly bool) RenderData {
	if visibleOnly {
		return RenderData{
			Positions: s.buf.ExtractVisiblePositions(),
			Colors:    s.buf.ExtractVisibleColors(),
			Sizes:     s.buf.ExtractVisibleSizes(),
		}
	}
	return RenderData{
		Positions: s.buf.ExtractPositions(),
		Colors:    s.buf.ExtractColors(),
		Sizes:     s.buf.ExtractSizes(),
	}
}
