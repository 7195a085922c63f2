package main

import (
	"castlight/internal/config"
	"castlight/internal/game"
	"castlight/internal/logger"
	"castlight/internal/texture"
	"castlight/internal/world"
	"context"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	logger.Init()
	log := logger.Component("main")

	// Load configuration
	cfg := config.MustLoadConfig("config.yaml")

	data, err := world.LoadMap(cfg.Assets.Map)
	if err != nil {
		log.WithError(err).Fatal("failed to load map")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := texture.NewStore()
	if cfg.Graphics.PlaceholderTextures {
		publishPlaceholders(store, data.Grid, cfg.GetPlaceholderSize())
	}

	// Textures stream in while the window is already up
	sources := make([]texture.Source, 0, len(cfg.Assets.Textures))
	for _, t := range cfg.Assets.Textures {
		sources = append(sources, texture.Source{Material: world.MaterialID(t.Material), Path: t.Path})
	}
	results := texture.NewLoader(store, cfg.GetLoadConcurrency()).LoadAsync(ctx, sources)
	go func() {
		loaded := 0
		for res := range results {
			if res.Err == nil {
				loaded++
			}
		}
		log.WithFields(logrus.Fields{"loaded": loaded, "requested": len(sources)}).Info("textures loaded")
	}()

	session, err := game.NewSession(cfg, data, store)
	if err != nil {
		log.WithError(err).Fatal("failed to start session")
	}
	defer session.Close()

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	if err := ebiten.RunGame(session); err != nil {
		log.WithError(err).Error("game exited")
	}
}

// publishPlaceholders gives every material on the map a generated texture so
// the map is visible before, or without, texture files.
func publishPlaceholders(store *texture.Store, grid *world.Grid, size int) {
	seen := make(map[world.MaterialID]bool)
	for _, cell := range grid.Cells() {
		id, _ := grid.At(cell.Col, cell.Row)
		if seen[id] {
			continue
		}
		seen[id] = true
		store.Publish(id, texture.Placeholder(id, size))
	}
}
