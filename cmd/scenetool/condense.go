package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var condenseCmd = &cobra.Command{
	Use:   "condense <scene>...",
	Short: "Merge runs of identical tiles and save",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			s, err := openScene(name)
			if err != nil {
				return err
			}
			before := s.Tilemap.TileCount()
			ratio := s.Tilemap.CondenseMap()
			if err := s.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d -> %d tiles (%.2f)\n", s.Name(), before, s.Tilemap.TileCount(), ratio)
		}
		return nil
	},
}

var explodeCmd = &cobra.Command{
	Use:   "explode <scene>...",
	Short: "Split every tile into single cells and save",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			s, err := openScene(name)
			if err != nil {
				return err
			}
			s.Tilemap.ExplodeAll()
			if err := s.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tiles\n", s.Name(), s.Tilemap.TileCount())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(condenseCmd)
	rootCmd.AddCommand(explodeCmd)
}
