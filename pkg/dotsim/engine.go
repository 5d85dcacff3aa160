package dotsim

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lao-tseu-is-alive/go-dot-field/pkg/geometry"
)

// State is the engine lifecycle state.
type State int

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine owns one dot population and drives it through discrete simulation
// steps. The lifecycle is Stopped -> Start -> Running -> Stop -> Stopped;
// the bound Config never changes while Running, so a new setting always
// means a fresh run over a consistent population.
//
// All public methods are safe for concurrent use. Extraction and stepping
// share one mutex, so a render snapshot never observes a half-advanced
// population. Overlapping Tick calls do not queue: a tick arriving while
// the previous one still runs is counted as skipped and dropped.
type Engine struct {
	mu      sync.Mutex
	ticking atomic.Bool
	skipped atomic.Uint64

	log   *slog.Logger
	world geometry.Bounds

	state State
	cfg   Config
	pop   population
	bulk  bool
	rng   *rand.Rand

	viewport    geometry.Bounds
	hasViewport bool
	maskValid   bool

	lastTick  time.Duration
	tickCount uint64
	perf      *PerfCollector
}

// NewEngine creates a stopped engine over the given world bounds.
// A nil logger falls back to slog.Default().
func NewEngine(world geometry.Bounds, logger *slog.Logger) (*Engine, error) {
	if !world.Valid() {
		return nil, fmt.Errorf("invalid world bounds %s", world)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		log:   logger,
		world: world,
		perf:  NewPerfCollector(60),
	}, nil
}

// Start validates cfg, generates a fresh population and moves the engine
// to Running. Starting a running engine is an error; Stop first.
//
// Populations at or above CullingThreshold land in the flat bulk store
// with real viewport culling; smaller ones use the object store, where
// culling is a passthrough.
func (e *Engine) Start(cfg Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateRunning {
		return fmt.Errorf("engine is already running; stop it before starting a new run")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	e.rng = rand.New(rand.NewPCG(seed, seed<<1|1))

	trailLen := cfg.TrailLength
	if !cfg.EnableTrails {
		trailLen = 1
	}

	e.bulk = cfg.PopulationSize >= CullingThreshold
	if e.bulk {
		store, err := newBulkStore(cfg.PopulationSize, trailLen)
		if err != nil {
			return err
		}
		for i := 0; i < cfg.PopulationSize; i++ {
			store.set(i, e.randomDot(cfg))
		}
		e.pop = store
	} else {
		store := newObjectStore(trailLen)
		for i := 0; i < cfg.PopulationSize; i++ {
			store.add(e.randomDot(cfg))
		}
		e.pop = store
	}

	e.cfg = cfg
	e.state = StateRunning
	e.maskValid = false
	e.lastTick = 0
	e.tickCount = 0
	e.skipped.Store(0)
	e.perf = NewPerfCollector(60)

	e.log.Info("simulation started",
		"population", cfg.PopulationSize,
		"bulk_mode", e.bulk,
		"trails", cfg.EnableTrails,
		"culling", cfg.EnableViewportCulling,
		"seed", seed,
	)
	return nil
}

// randomDot draws one dot uniformly over the world: position anywhere in
// bounds, each velocity component in [-maxSpeed, maxSpeed], a random RGB
// color and a radius in [sizeMin, sizeMax]. The trail starts with the
// initial position as its single point.
func (e *Engine) randomDot(cfg Config) Dot {
	pos := geometry.Vector2D{
		X: e.world.MinLng + e.rng.Float64()*e.world.Width(),
		Y: e.world.MinLat + e.rng.Float64()*e.world.Height(),
	}
	vel := geometry.Vector2D{
		X: (e.rng.Float64()*2 - 1) * cfg.MaxSpeed,
		Y: (e.rng.Float64()*2 - 1) * cfg.MaxSpeed,
	}
	return Dot{
		Pos: pos,
		Vel: vel,
		Color: [3]float64{
			float64(e.rng.IntN(256)),
			float64(e.rng.IntN(256)),
			float64(e.rng.IntN(256)),
		},
		Size:  cfg.SizeMin + e.rng.Float64()*(cfg.SizeMax-cfg.SizeMin),
		Trail: []geometry.Vector2D{pos},
	}
}

// Tick advances every dot by one step and refreshes the visibility mask
// when culling is active. A tick arriving while another is in flight is
// dropped and counted, never queued, so a slow step cannot snowball.
func (e *Engine) Tick() error {
	if !e.ticking.CompareAndSwap(false, true) {
		e.skipped.Add(1)
		return nil
	}
	defer e.ticking.Store(false)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return fmt.Errorf("engine is not running")
	}

	start := time.Now()

	e.pop.advanceAll(e.world, e.cfg.MaxSpeed)
	e.tickCount++

	// Positions moved, so any previous mask is stale.
	if e.cullingWanted() && e.hasViewport {
		e.pop.cull(e.viewport, e.cfg.CullingMargin)
		e.maskValid = true
	} else {
		e.maskValid = false
	}

	e.lastTick = time.Since(start)
	e.perf.Record(e.lastTick)

	if budget := time.Duration(e.cfg.TickIntervalMs) * time.Millisecond; e.lastTick > budget {
		e.log.Warn("slow tick",
			"duration", e.lastTick,
			"budget", budget,
			"tick", e.tickCount,
		)
	}
	return nil
}

// cullingWanted reports whether the current run filters extraction at all.
// Callers must hold e.mu.
func (e *Engine) cullingWanted() bool {
	return e.cfg.EnableViewportCulling && e.bulk
}

// SetViewport records the visible region for culling. A viewport whose
// every edge moved less than CullingEpsilon degrees keeps the previous
// mask, so repeated sub-pixel pans between ticks cost nothing.
func (e *Engine) SetViewport(v geometry.Bounds) error {
	if !v.Valid() {
		return fmt.Errorf("invalid viewport bounds %s", v)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.hasViewport && e.maskValid && v.ApproxEq(e.viewport, CullingEpsilon) {
		return nil
	}

	e.viewport = v
	e.hasViewport = true

	if e.state == StateRunning && e.cullingWanted() {
		e.pop.cull(e.viewport, e.cfg.CullingMargin)
		e.maskValid = true
	} else {
		e.maskValid = false
	}
	return nil
}

// Stop discards the population and returns the engine to Stopped. Stopping
// a stopped engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateStopped {
		return
	}

	e.log.Info("simulation stopped",
		"ticks", e.tickCount,
		"skipped", e.skipped.Load(),
		"perf", e.perf.Stats(),
	)

	e.state = StateStopped
	e.pop = nil
	e.maskValid = false
}

// RenderData extracts the renderer-ready snapshot of the current
// population. When culling is active only dots inside the margin-expanded
// viewport appear; a stopped engine yields empty arrays.
func (e *Engine) RenderData() RenderData {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning || e.pop == nil {
		return emptyRenderData()
	}

	visibleOnly := e.cullingWanted() && e.maskValid
	return e.pop.extract(visibleOnly)
}

// Metrics returns a copied-out observability snapshot.
func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := Metrics{
		BulkMode:         e.bulk,
		LastTickDuration: e.lastTick,
		TickCount:        e.tickCount,
		SkippedTicks:     e.skipped.Load(),
	}
	if e.state != StateRunning || e.pop == nil {
		return m
	}

	m.ActiveDots = e.pop.count()
	m.CullingActive = e.cullingWanted() && e.maskValid
	if m.CullingActive {
		m.VisibleDots = e.pop.visibleCount()
	} else {
		m.VisibleDots = m.ActiveDots
	}
	return m
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Config returns the config bound to the current run. Meaningful while
// Running; after Stop it reports the last run's config.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// World returns the immutable world bounds.
func (e *Engine) World() geometry.Bounds {
	return e.world
}

// PerfStats returns aggregated tick-timing statistics over the rolling
// window.
func (e *Engine) PerfStats() PerfStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.perf.Stats()
}
