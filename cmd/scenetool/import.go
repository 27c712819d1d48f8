package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/milk9111/tilescene/scene"
	"github.com/milk9111/tilescene/scenes"
	"github.com/milk9111/tilescene/tmx"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var importTexture string

var importCmd = &cobra.Command{
	Use:   "import <map.tmx> <scene>",
	Short: "Create a scene from a Tiled map",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, name := args[0], args[1]
		res, err := tmx.Import(os.DirFS(filepath.Dir(src)), filepath.Base(src), tmx.WithLogger(log.Logger))
		if err != nil {
			return err
		}
		texture := importTexture
		if texture == "" && len(res.Tilesets) > 0 {
			texture = res.Tilesets[0]
		}
		if err := scenes.Create(scene.ResolvePath(cfg.ScenesDir, name), texture); err != nil {
			return err
		}
		s, err := openScene(name)
		if err != nil {
			return err
		}
		if err := s.Loader.SetBoundary(res.Boundary); err != nil {
			return err
		}
		s.Tilemap, s.Boxes = res.Tilemap, res.Boxes
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d layers, %d tiles, %d boxes\n",
			s.Name(), s.Tilemap.LayerCount(), s.Tilemap.TileCount(), s.Boxes.Len())
		return nil
	},
}

var newTexture string

var newCmd = &cobra.Command{
	Use:   "new <scene>",
	Short: "Create an empty scene from the template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := scene.ResolvePath(cfg.ScenesDir, args[0])
		if err := scenes.Create(path, newTexture); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importTexture, "texture", "", "texture name, defaults to the first tileset")
	newCmd.Flags().StringVar(&newTexture, "texture", "", "tilemap texture name")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(newCmd)
}
