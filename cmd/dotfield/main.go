package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lao-tseu-is-alive/go-dot-field/pkg/dotsim"
	"github.com/lao-tseu-is-alive/go-dot-field/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-dot-field/pkg/viewer"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file (defaults apply when empty)")
	perfCSV := flag.String("perf-csv", "perf.csv", "path for the tick-timing CSV export (empty disables)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := dotsim.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = dotsim.LoadConfig(*configPath)
		if err != nil {
			logger.Error("failed to load config", "path", *configPath, "err", err)
			os.Exit(1)
		}
	}

	world, err := geometry.NewBounds(-180, -90, 180, 90)
	if err != nil {
		logger.Error("invalid world bounds", "err", err)
		os.Exit(1)
	}

	engine, err := dotsim.NewEngine(world, logger)
	if err != nil {
		logger.Error("failed to create engine", "err", err)
		os.Exit(1)
	}

	game, err := viewer.NewGame(engine, cfg, logger)
	if err != nil {
		logger.Error("failed to create viewer", "err", err)
		os.Exit(1)
	}
	ebiten.SetWindowSize(viewer.ScreenWidth, viewer.ScreenHeight)
	ebiten.SetWindowTitle("Dot Field")

	code := 0
	if err := ebiten.RunGame(game); err != nil {
		logger.Error("viewer exited with error", "err", err)
		code = 1
	}
	game.Shutdown(*perfCSV)
	os.Exit(code)
}
