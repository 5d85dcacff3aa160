package viewer

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lao-tseu-is-alive/go-dot-field/pkg/dotsim"
	"github.com/lao-tseu-is-alive/go-dot-field/pkg/ui"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 800

	panelWidth = 260

	// Per-frame cap on catch-up ticks. A long GC pause or window drag
	// must not trigger a tick avalanche.
	maxTicksPerFrame = 4

	// Perf stats are flushed to the CSV log once per window of this many
	// ticks.
	perfWindowTicks = 60
)

type Game struct {
	engine *dotsim.Engine
	log    *slog.Logger
	cam    *camera

	// UI Controls
	panel *ui.Panel

	widgetPopulation *ui.Slider
	widgetMaxSpeed   *ui.Slider
	widgetTrailLen   *ui.Slider
	widgetMargin     *ui.Slider
	widgetTrails     *ui.Checkbox
	widgetCulling    *ui.Checkbox
	widgetPaused     *ui.Checkbox

	restartRequested bool

	// Fixed-step tick scheduling
	accumulator time.Duration
	lastUpdate  time.Time

	// Perf history for CSV export
	perfRecords    []dotsim.PerfStatsCSV
	lastPerfWindow uint64

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame starts the engine with cfg and builds the control panel around
// it. The caller owns the window setup and the RunGame loop.
func NewGame(engine *dotsim.Engine, cfg dotsim.Config, logger *slog.Logger) (*Game, error) {
	if err := engine.Start(cfg); err != nil {
		return nil, fmt.Errorf("failed to start engine: %w", err)
	}

	g := &Game{
		engine:     engine,
		log:        logger,
		cam:        newCamera(engine.World(), ScreenWidth, ScreenHeight),
		lastUpdate: time.Now(),
	}

	panel := ui.NewPanel(10, 10, panelWidth, 420, "Dot Field")
	g.widgetPopulation = panel.AddSlider("Population", 0, 100000, float64(cfg.PopulationSize))
	g.widgetMaxSpeed = panel.AddSlider("Max Speed (deg/tick)", 0.0001, 0.02, cfg.MaxSpeed)
	g.widgetTrailLen = panel.AddSlider("Trail Length", 1, dotsim.MaxTrailLength, float64(cfg.TrailLength))
	g.widgetMargin = panel.AddSlider("Culling Margin (deg)", 0, 2, cfg.CullingMargin)
	g.widgetTrails = panel.AddCheckbox("Record Trails", cfg.EnableTrails)
	g.widgetCulling = panel.AddCheckbox("Viewport Culling", cfg.EnableViewportCulling)
	g.widgetPaused = panel.AddCheckbox("Paused", false)
	panel.AddButton("Apply & Restart", func() { g.restartRequested = true })
	g.panel = panel

	return g, nil
}

// configFromWidgets assembles a fresh run config from the panel state,
// keeping whatever the sliders cannot express from the current config.
func (g *Game) configFromWidgets() dotsim.Config {
	cfg := g.engine.Config()
	cfg.PopulationSize = int(g.widgetPopulation.Value)
	cfg.MaxSpeed = g.widgetMaxSpeed.Value
	cfg.TrailLength = int(g.widgetTrailLen.Value)
	cfg.CullingMargin = g.widgetMargin.Value
	cfg.EnableTrails = g.widgetTrails.Value
	cfg.EnableViewportCulling = g.widgetCulling.Value
	return cfg
}

func (g *Game) handleInput() {
	const panSpeed = 6 // pixels per frame

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.cam.pan(-panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.cam.pan(panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.cam.pan(0, -panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.cam.pan(0, panSpeed)
	}

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		if wheelY > 0 {
			g.cam.zoom(0.9)
		} else {
			g.cam.zoom(1.0 / 0.9)
		}
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()
	g.handleInput()

	// The engine config is fixed while running: a changed setting means a
	// full stop/start cycle over a fresh population.
	if g.restartRequested {
		g.restartRequested = false
		cfg := g.configFromWidgets()
		g.engine.Stop()
		if err := g.engine.Start(cfg); err != nil {
			g.log.Error("restart rejected", "err", err)
		}
		g.accumulator = 0
	}

	if err := g.engine.SetViewport(g.cam.viewport()); err != nil {
		g.log.Error("viewport update failed", "err", err)
	}

	// Fixed-step scheduling: accumulate real time and fire whole ticks,
	// dropping the backlog past the per-frame cap.
	now := time.Now()
	dt := now.Sub(g.lastUpdate)
	g.lastUpdate = now
	if dt > 250*time.Millisecond {
		dt = 250 * time.Millisecond
	}

	if !g.widgetPaused.Value {
		g.accumulator += dt
		interval := time.Duration(g.engine.Config().TickIntervalMs) * time.Millisecond
		steps := 0
		for g.accumulator >= interval && steps < maxTicksPerFrame {
			if err := g.engine.Tick(); err != nil {
				g.log.Error("tick failed", "err", err)
				break
			}
			g.accumulator -= interval
			steps++
		}
		if g.accumulator > interval {
			g.accumulator = interval
		}
	}

	g.collectPerf()
	return nil
}

// collectPerf snapshots tick-timing stats once per completed perf window.
func (g *Game) collectPerf() {
	ticks := g.engine.Metrics().TickCount
	window := ticks / perfWindowTicks
	if window > g.lastPerfWindow {
		g.lastPerfWindow = window
		g.perfRecords = append(g.perfRecords, g.engine.PerfStats().ToCSV(ticks))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	rd := g.engine.RenderData()
	n := len(rd.Sizes)
	for i := 0; i < n; i++ {
		sx, sy := g.cam.worldToScreen(rd.Positions[3*i], rd.Positions[3*i+1])
		if sx < -8 || sx > ScreenWidth+8 || sy < -8 || sy > ScreenHeight+8 {
			continue
		}
		clr := color.RGBA{
			R: uint8(rd.Colors[4*i]),
			G: uint8(rd.Colors[4*i+1]),
			B: uint8(rd.Colors[4*i+2]),
			A: uint8(rd.Colors[4*i+3]),
		}
		vector.FillCircle(screen, sx, sy, float32(rd.Sizes[i]), clr, false)
	}

	g.panel.Draw(screen)
	g.drawStats(screen)
}

func (g *Game) drawStats(screen *ebiten.Image) {
	m := g.engine.Metrics()
	stats := g.engine.PerfStats()

	mode := "object"
	if m.BulkMode {
		mode = "bulk"
	}
	culling := "off"
	if m.CullingActive {
		culling = "on"
	}

	msg := fmt.Sprintf(
		"FPS: %.1f  TPS: %.1f\nUpdate: %.2fms\nDraw:   %.2fms\n\n"+
			"Dots:    %d\nVisible: %d\nMode:    %s\nCulling: %s\n\n"+
			"Tick avg: %v\nTick p95: %v\nTicks:    %d\nSkipped:  %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		g.updateAvg, g.drawAvg,
		m.ActiveDots, m.VisibleDots, mode, culling,
		stats.AvgTick.Round(time.Microsecond), stats.P95Tick.Round(time.Microsecond),
		m.TickCount, m.SkippedTicks,
	)
	ebitenutil.DebugPrintAt(screen, msg, ScreenWidth-180, 10)
}

func (g *Game) Layout(w, h int) (int, int) { return ScreenWidth, ScreenHeight }

// Shutdown stops the engine and writes the collected perf history to
// csvPath. An empty path skips the export.
func (g *Game) Shutdown(csvPath string) {
	g.engine.Stop()
	if csvPath == "" || len(g.perfRecords) == 0 {
		return
	}
	if err := dotsim.WritePerfCSV(csvPath, g.perfRecords); err != nil {
		g.log.Error("perf export failed", "path", csvPath, "err", err)
		return
	}
	g.log.Info("perf history written", "path", csvPath, "windows", len(g.perfRecords))
}
