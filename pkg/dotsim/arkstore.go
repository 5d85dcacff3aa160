package dotsim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/lao-tseu-is-alive/go-dot-field/pkg/geometry"
)

// ECS components of the object store. One dot is one entity carrying all
// five, so the archetype never fragments.

type dotPosition struct {
	X, Y float64
}

type dotVelocity struct {
	X, Y float64
}

type dotTint struct {
	R, G, B float64
}

type dotSize struct {
	V float64
}

// dotTrail is a fixed-size ring with an explicit length counter, slot 0
// newest. The array sits inline in the archetype table, so trail updates
// touch no heap.
type dotTrail struct {
	Points [MaxTrailLength]geometry.Vector2D
	Len    int
}

// objectStore backs small populations with an ark ECS world. Below the
// culling threshold filtering buys nothing, so cull is a passthrough that
// reports the whole population visible.
type objectStore struct {
	world    *ecs.World
	mapper   *ecs.Map5[dotPosition, dotVelocity, dotTint, dotSize, dotTrail]
	filter   *ecs.Filter5[dotPosition, dotVelocity, dotTint, dotSize, dotTrail]
	posMap   *ecs.Map1[dotPosition]
	velMap   *ecs.Map1[dotVelocity]
	tintMap  *ecs.Map1[dotTint]
	sizeMap  *ecs.Map1[dotSize]
	trailMap *ecs.Map1[dotTrail]
	entities []ecs.Entity // creation order, stable across the run
	trailCap int
}

func newObjectStore(trailLength int) *objectStore {
	if trailLength < 1 {
		trailLength = 1
	}
	if trailLength > MaxTrailLength {
		trailLength = MaxTrailLength
	}
	world := ecs.NewWorld()
	return &objectStore{
		world:    world,
		mapper:   ecs.NewMap5[dotPosition, dotVelocity, dotTint, dotSize, dotTrail](world),
		filter:   ecs.NewFilter5[dotPosition, dotVelocity, dotTint, dotSize, dotTrail](world),
		posMap:   ecs.NewMap1[dotPosition](world),
		velMap:   ecs.NewMap1[dotVelocity](world),
		tintMap:  ecs.NewMap1[dotTint](world),
		sizeMap:  ecs.NewMap1[dotSize](world),
		trailMap: ecs.NewMap1[dotTrail](world),
		trailCap: trailLength,
	}
}

// add spawns one entity from a dot value. The incoming trail is truncated
// to the store's trail capacity.
func (s *objectStore) add(d Dot) {
	pos := dotPosition{X: d.Pos.X, Y: d.Pos.Y}
	vel := dotVelocity{X: d.Vel.X, Y: d.Vel.Y}
	tint := dotTint{R: d.Color[0], G: d.Color[1], B: d.Color[2]}
	size := dotSize{V: d.Size}

	var trail dotTrail
	n := len(d.Trail)
	if n > s.trailCap {
		n = s.trailCap
	}
	copy(trail.Points[:n], d.Trail[:n])
	trail.Len = n

	e := s.mapper.NewEntity(&pos, &vel, &tint, &size, &trail)
	s.entities = append(s.entities, e)
}

func (s *objectStore) count() int { return len(s.entities) }

func (s *objectStore) get(i int) Dot {
	e := s.entities[i]
	pos := s.posMap.Get(e)
	vel := s.velMap.Get(e)
	tint := s.tintMap.Get(e)
	size := s.sizeMap.Get(e)
	trail := s.trailMap.Get(e)

	pts := make([]geometry.Vector2D, trail.Len)
	copy(pts, trail.Points[:trail.Len])

	return Dot{
		Pos:   geometry.Vector2D{X: pos.X, Y: pos.Y},
		Vel:   geometry.Vector2D{X: vel.X, Y: vel.Y},
		Color: [3]float64{tint.R, tint.G, tint.B},
		Size:  size.V,
		Trail: pts,
	}
}

func (s *objectStore) advanceAll(bound geometry.Bounds, maxSpeed float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, _, _, trail := query.Get()

		p := geometry.Vector2D{X: pos.X, Y: pos.Y}
		v := clampSpeed(geometry.Vector2D{X: vel.X, Y: vel.Y}, maxSpeed)
		p, v = Reflect(p, v, bound)

		pos.X, pos.Y = p.X, p.Y
		vel.X, vel.Y = v.X, v.Y

		if trail.Len < s.trailCap {
			trail.Len++
		}
		for slot := trail.Len - 1; slot > 0; slot-- {
			trail.Points[slot] = trail.Points[slot-1]
		}
		trail.Points[0] = p
	}
}

// cull is a passthrough below the threshold: every dot counts as visible
// regardless of the viewport.
func (s *objectStore) cull(viewport geometry.Bounds, margin float64) int {
	return len(s.entities)
}

func (s *objectStore) visibleCount() int { return len(s.entities) }

func (s *objectStore) extract(visibleOnly bool) RenderData {
	n := len(s.entities)
	out := RenderData{
		Positions: make([]float64, 0, 3*n),
		Colors:    make([]float64, 0, 4*n),
		Sizes:     make([]float64, 0, n),
	}
	for _, e := range s.entities {
		pos := s.posMap.Get(e)
		tint := s.tintMap.Get(e)
		size := s.sizeMap.Get(e)
		out.Positions = append(out.Positions, pos.X, pos.Y, 0)
		out.Colors = append(out.Colors, tint.R, tint.G, tint.B, 255)
		out.Sizes = append(out.Sizes, size.V)
	}
	return out
}
