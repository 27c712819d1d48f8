package atlas

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Sheet is a texture atlas described by a YAML file next to its image:
//
//	image: tiles.png
//	tile_w: 16
//	tile_h: 16
//	entries:
//	  grass: {x: 0, y: 0}
//	  wall:  {x: 16, y: 0, w: 16, h: 32}
type Sheet struct {
	Name    string               `yaml:"-"`
	Image   string               `yaml:"image"`
	TileW   int                  `yaml:"tile_w"`
	TileH   int                  `yaml:"tile_h"`
	Entries map[string]EntrySpec `yaml:"entries"`
}

type EntrySpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// LoadSheet reads <dir>/<name>.yaml.
func LoadSheet(dir, name string) (*Sheet, error) {
	path := filepath.Join(dir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("atlas: load %s: %w", path, err)
	}
	sheet, err := ParseSheet(data)
	if err != nil {
		return nil, fmt.Errorf("atlas: unmarshal %s: %w", path, err)
	}
	sheet.Name = name
	if sheet.Image != "" && !filepath.IsAbs(sheet.Image) {
		sheet.Image = filepath.Join(dir, sheet.Image)
	}
	return sheet, nil
}

func ParseSheet(data []byte) (*Sheet, error) {
	var sheet Sheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, err
	}
	if sheet.TileW <= 0 {
		sheet.TileW = 16
	}
	if sheet.TileH <= 0 {
		sheet.TileH = sheet.TileW
	}
	return &sheet, nil
}

func (s *Sheet) CompileList() []string {
	out := make([]string, 0, len(s.Entries))
	for name := range s.Entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Sheet) Entry(name string) (image.Rectangle, bool) {
	e, ok := s.Entries[name]
	if !ok {
		return image.Rectangle{}, false
	}
	w, h := e.W, e.H
	if w <= 0 {
		w = s.TileW
	}
	if h <= 0 {
		h = s.TileH
	}
	return image.Rect(e.X, e.Y, e.X+w, e.Y+h), true
}
