package dotsim

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// PerfCollector tracks tick durations over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []time.Duration
	writeIndex  int
	sampleCount int
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (e.g. 60 for one second at a 16 ms tick).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]time.Duration, windowSize),
	}
}

// Record adds one tick duration to the window, evicting the oldest sample
// once the window is full.
func (p *PerfCollector) Record(d time.Duration) {
	p.samples[p.writeIndex] = d
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated tick-timing statistics over one window.
type PerfStats struct {
	AvgTick        time.Duration
	P95Tick        time.Duration
	MaxTick        time.Duration
	TicksPerSecond float64
	Samples        int
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{}
	}

	xs := make([]float64, p.sampleCount)
	var maxTick time.Duration
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		xs[i] = float64(s)
		if s > maxTick {
			maxTick = s
		}
	}
	sort.Float64s(xs)

	avg := time.Duration(stat.Mean(xs, nil))
	p95 := time.Duration(stat.Quantile(0.95, stat.Empirical, xs, nil))

	var ticksPerSec float64
	if avg > 0 {
		ticksPerSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgTick:        avg,
		P95Tick:        p95,
		MaxTick:        maxTick,
		TicksPerSecond: ticksPerSec,
		Samples:        p.sampleCount,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("p95_tick_us", s.P95Tick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Int("samples", s.Samples),
	)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd   uint64  `csv:"window_end"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	P95TickUS   int64   `csv:"p95_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	Samples     int     `csv:"samples"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct, tagged with the
// tick count at the end of the window.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgTickUS:   s.AvgTick.Microseconds(),
		P95TickUS:   s.P95Tick.Microseconds(),
		MaxTickUS:   s.MaxTick.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		Samples:     s.Samples,
	}
}

// WritePerfCSV writes collected per-window stats to path, header included.
func WritePerfCSV(path string, records []PerfStatsCSV) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create perf csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("failed to write perf csv: %w", err)
	}
	return nil
}
