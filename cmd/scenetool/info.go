package main

import (
	"fmt"
	"sort"

	"github.com/milk9111/tilescene/physics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// solidLayers selects the layers counted as solid; empty means all of them.
var solidLayers []int

var infoCmd = &cobra.Command{
	Use:   "info <scene>",
	Short: "Print a summary of a scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openScene(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ld := s.Loader
		fmt.Fprintf(out, "scene   %s (%s)\n", ld.Name(), ld.Path())
		fmt.Fprintf(out, "texture %s\n", ld.Texture())
		fmt.Fprintf(out, "script  %s\n", ld.ScriptPath())
		if ld.HasBoundary() {
			fmt.Fprintf(out, "bounds  %v\n", ld.Boundary())
		}
		for i, l := range s.Tilemap.Layers() {
			fmt.Fprintf(out, "layer %d %q: %d tiles, atlas %v\n", i, l.Name(), l.Len(), l.Pool().Names())
		}
		c := s.Tilemap.CenterPoint()
		fmt.Fprintf(out, "center  %.2f,%.2f\n", c.X, c.Y)

		kinds := map[string]int{}
		for _, b := range s.Boxes.Boxes() {
			kinds[b.Kind().String()]++
		}
		names := make([]string, 0, len(kinds))
		for k := range kinds {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(out, "boxes   %-6s %d\n", k, kinds[k])
		}
		for _, g := range s.Boxes.Groups() {
			fmt.Fprintf(out, "group   %s: %d members\n", g.Name(), len(g.Members()))
		}

		opts := physics.Options{TileSize: float64(cfg.TileSize), SolidLayers: solidLayers, Logger: &log.Logger}
		if len(opts.SolidLayers) == 0 {
			for i := range s.Tilemap.Layers() {
				opts.SolidLayers = append(opts.SolidLayers, i)
			}
		}
		if ld.HasBoundary() {
			b := ld.Boundary()
			opts.Boundary = &b
		}
		world := physics.Build(s.Boxes, s.Tilemap, opts)
		fmt.Fprintf(out, "physics %d shapes (%d from boxes)\n", world.ShapeCount(), world.BoxCount())
		return nil
	},
}

func init() {
	infoCmd.Flags().IntSliceVar(&solidLayers, "solid", nil, "solid layer indices for the physics summary (default all)")
	rootCmd.AddCommand(infoCmd)
}
