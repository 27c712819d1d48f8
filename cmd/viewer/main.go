package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilescene/config"
	"github.com/rs/zerolog/log"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

func main() {
	configPath := flag.String("config", "tilescene.yaml", "config file")
	sceneName := flag.String("scene", "", "scene name in the scenes directory (.xml optional)")
	watch := flag.Bool("watch", true, "reload the scene when it changes on disk")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := config.SetupLogging(cfg.Log, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("setup logging")
	}
	if *sceneName == "" {
		log.Fatal().Msg("-scene is required")
	}

	v, err := NewViewer(cfg, *sceneName, *watch)
	if err != nil {
		log.Fatal().Err(err).Str("scene", *sceneName).Msg("open scene")
	}
	defer v.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("tilescene - " + *sceneName)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal().Err(err).Msg("viewer stopped")
	}
}
