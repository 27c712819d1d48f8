package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/milk9111/tilescene/scene"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Validate scenes whenever they change on disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := scene.NewWatcher(cfg.ScenesDir)
		if err != nil {
			return err
		}
		defer w.Close()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)

		log.Info().Str("dir", cfg.ScenesDir).Msg("watching scenes")
		errs := w.Errors
		for {
			select {
			case change, ok := <-w.Changes:
				if !ok {
					return nil
				}
				problems := validateScene(change.Scene)
				if len(problems) == 0 {
					log.Info().Str("scene", change.Scene).Bool("script", change.Script).Msg("scene ok")
					continue
				}
				for _, p := range problems {
					log.Warn().Str("scene", change.Scene).Msg(p)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				log.Error().Err(err).Msg("watch error")
			case <-sig:
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
