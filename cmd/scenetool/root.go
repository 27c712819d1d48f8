package main

import (
	"os"

	"github.com/milk9111/tilescene/config"
	"github.com/milk9111/tilescene/scene"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfg        = config.Default()
	configPath string
	scenesDir  string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "scenetool",
	Short:         "Inspect and maintain tile scenes",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if scenesDir != "" {
			cfg.ScenesDir = scenesDir
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		return config.SetupLogging(cfg.Log, os.Stderr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "tilescene.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&scenesDir, "scenes", "", "scenes directory, overrides the config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the config")
}

func openScene(name string) (*scene.Scene, error) {
	return scene.Open(cfg.ScenesDir, name, log.Logger)
}
