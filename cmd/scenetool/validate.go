package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/milk9111/tilescene/atlas"
	"github.com/milk9111/tilescene/script"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errInvalid = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate <scene>...",
	Short: "Check scenes load and their atlas names and scripts resolve",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, name := range args {
			problems := validateScene(name)
			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, p)
			}
			if len(problems) > 0 {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d scenes: %w", failed, len(args), errInvalid)
		}
		return nil
	},
}

func validateScene(name string) []string {
	s, err := openScene(name)
	if err != nil {
		return []string{err.Error()}
	}
	var problems []string
	if tex := s.Loader.Texture(); tex != "" {
		sheet, err := atlas.LoadSheet(cfg.TexturesDir, tex)
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			for layer, names := range s.Tilemap.InvalidEntries(sheet) {
				problems = append(problems, fmt.Sprintf("layer %d: unknown atlas entries %v", layer, names))
			}
		}
	}
	if path := s.Loader.ScriptPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := script.Load(path, s.Tilemap, s.Boxes, script.WithLogger(log.Logger)); err != nil {
				problems = append(problems, err.Error())
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			problems = append(problems, err.Error())
		}
	}
	return problems
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
