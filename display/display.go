// Package display turns tilemap snapshots and collision boxes into quad
// batches and hands them to a renderer in depth order.
package display

import (
	"image"
	"sort"

	"github.com/milk9111/tilescene/geom"
)

// Quad is one textured cell. Dst is in tile units; Src is the texture rect.
type Quad struct {
	Dst         geom.Rect
	Src         image.Rectangle
	Rotation    int
	Placeholder bool
	Tag         string
}

// Batch groups quads drawn with one texture. Quads without a texture are
// drawn as solid overlays keyed by Tag.
type Batch struct {
	Texture string
	Layer   int
	Quads   []Quad
}

type Renderer interface {
	Draw(b *Batch)
}

type Drawable interface {
	Draw(r Renderer)
	Depth() int
	Visible() bool
}

// SortByDepth orders ds back to front. Equal depths keep their order.
func SortByDepth(ds []Drawable) {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Depth() < ds[j].Depth()
	})
}

// DrawAll draws every visible drawable back to front. ds is reordered.
func DrawAll(r Renderer, ds []Drawable) {
	SortByDepth(ds)
	for _, d := range ds {
		if d == nil || !d.Visible() {
			continue
		}
		d.Draw(r)
	}
}
