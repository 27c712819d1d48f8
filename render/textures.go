// Package render draws display batches with ebiten.
package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilescene/atlas"
)

// Textures loads atlas sheets and their images from one directory and
// caches both by texture name.
type Textures struct {
	dir    string
	sheets map[string]*atlas.Sheet
	images map[string]*ebiten.Image
}

func NewTextures(dir string) *Textures {
	return &Textures{
		dir:    dir,
		sheets: map[string]*atlas.Sheet{},
		images: map[string]*ebiten.Image{},
	}
}

// Sheet returns the sheet definition for name.
func (t *Textures) Sheet(name string) (*atlas.Sheet, error) {
	if s, ok := t.sheets[name]; ok {
		return s, nil
	}
	s, err := atlas.LoadSheet(t.dir, name)
	if err != nil {
		return nil, err
	}
	t.sheets[name] = s
	return s, nil
}

// Image returns the decoded image behind the sheet called name.
func (t *Textures) Image(name string) (*ebiten.Image, error) {
	if name == "" {
		return nil, fmt.Errorf("render: empty texture name")
	}
	if img, ok := t.images[name]; ok {
		return img, nil
	}
	s, err := t.Sheet(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(t.dir, s.Image))
	if err != nil {
		return nil, fmt.Errorf("render: read %s: %w", s.Image, err)
	}
	im, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("render: decode %s: %w", s.Image, err)
	}
	img := ebiten.NewImageFromImage(im)
	t.images[name] = img
	return img, nil
}

// Register stores an already decoded image under name.
func (t *Textures) Register(name string, img *ebiten.Image) {
	if name == "" || img == nil {
		return
	}
	t.images[name] = img
}
