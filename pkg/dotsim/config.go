package dotsim

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed config.schema.json
var configSchema string

// Config holds every tunable of a simulation run. A config is bound to the
// engine at Start and stays fixed until Stop; there is no mid-run mutation
// path, so a changed setting always means a fresh, consistent run.
type Config struct {
	// Population
	PopulationSize int     `json:"populationSize"`
	MaxSpeed       float64 `json:"maxSpeed"` // degrees per tick, per axis
	TickIntervalMs int     `json:"tickIntervalMs"`

	// Trails
	EnableTrails bool `json:"enableTrails"`
	TrailLength  int  `json:"trailLength"`

	// Render sizing
	SizeMin float64 `json:"sizeMin"`
	SizeMax float64 `json:"sizeMax"`

	// Viewport culling
	EnableViewportCulling bool    `json:"enableViewportCulling"`
	CullingMargin         float64 `json:"cullingMargin"` // degrees

	// Determinism. 0 seeds from the clock.
	Seed uint64 `json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		PopulationSize:        20000,
		MaxSpeed:              0.002,
		TickIntervalMs:        16,
		EnableTrails:          true,
		TrailLength:           12,
		SizeMin:               1.0,
		SizeMax:               4.0,
		EnableViewportCulling: true,
		CullingMargin:         0.25,
		Seed:                  0,
	}
}

// Validate checks the cross-field constraints the schema cannot express.
// A zero population is legal: the engine runs, ticks and extracts empty
// render data.
func (c Config) Validate() error {
	if c.PopulationSize < 0 {
		return fmt.Errorf("populationSize must be >= 0, got %d", c.PopulationSize)
	}
	if c.MaxSpeed <= 0 {
		return fmt.Errorf("maxSpeed must be positive, got %g", c.MaxSpeed)
	}
	if c.TickIntervalMs <= 0 {
		return fmt.Errorf("tickIntervalMs must be positive, got %d", c.TickIntervalMs)
	}
	if c.TrailLength < 1 || c.TrailLength > MaxTrailLength {
		return fmt.Errorf("trailLength must be in [1, %d], got %d", MaxTrailLength, c.TrailLength)
	}
	if c.SizeMin <= 0 {
		return fmt.Errorf("sizeMin must be positive, got %g", c.SizeMin)
	}
	if c.SizeMax < c.SizeMin {
		return fmt.Errorf("sizeMax (%g) must be >= sizeMin (%g)", c.SizeMax, c.SizeMin)
	}
	if c.CullingMargin < 0 {
		return fmt.Errorf("cullingMargin must be >= 0, got %g", c.CullingMargin)
	}
	return nil
}

// LoadConfig reads a JSON config file, validates it against the embedded
// schema and merges it over the defaults, so a partial file only overrides
// the keys it names.
func LoadConfig(configFile string) (Config, error) {
	cfg := DefaultConfig()

	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return cfg, fmt.Errorf("failed to compile config schema: %w", err)
	}

	b, err := os.ReadFile(configFile)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	var v interface{}
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&v); err != nil {
		return cfg, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
