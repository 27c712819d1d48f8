// Package config loads tool settings from YAML and sets up logging.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ScenesDir   string    `yaml:"scenes_dir"`
	TexturesDir string    `yaml:"textures_dir"`
	TileSize    int       `yaml:"tile_size"`
	UndoLimit   int       `yaml:"undo_limit"`
	Log         LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

func Default() Config {
	return Config{
		ScenesDir:   "scenes",
		TexturesDir: "textures",
		TileSize:    16,
		UndoLimit:   100,
		Log:         LogConfig{Level: "info", Console: true},
	}
}

// Load reads path over the defaults. Relative directories are resolved
// against the directory holding the config file.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	base := filepath.Dir(path)
	cfg.ScenesDir = resolve(base, cfg.ScenesDir)
	cfg.TexturesDir = resolve(base, cfg.TexturesDir)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when path does
// not exist.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func resolve(base, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

func (c Config) Validate() error {
	if c.ScenesDir == "" {
		return errors.New("scenes_dir is empty")
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile_size %d must be positive", c.TileSize)
	}
	if c.UndoLimit < 0 {
		return fmt.Errorf("undo_limit %d must not be negative", c.UndoLimit)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// SetupLogging points the global logger at w, through a console writer
// when configured.
func SetupLogging(c LogConfig, w io.Writer) error {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("config: log level: %w", err)
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if c.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return nil
}
