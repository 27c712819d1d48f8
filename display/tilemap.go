package display

import (
	"image"

	"github.com/milk9111/tilescene/atlas"
	"github.com/milk9111/tilescene/geom"
	"github.com/milk9111/tilescene/tilemap"
)

// Tilemap draws the latest snapshot pushed to it, one batch per layer.
type Tilemap struct {
	tex     atlas.Texture
	texture string
	depth   int
	visible bool
	hidden  map[int]bool
	batches []*Batch
}

func NewTilemap(tex atlas.Texture, texture string) *Tilemap {
	return &Tilemap{tex: tex, texture: texture, visible: true, hidden: map[int]bool{}}
}

// Update rebuilds the batches. Every covered cell becomes a quad; atlas
// names the texture does not know become placeholders.
func (t *Tilemap) Update(s tilemap.Snapshot) {
	t.batches = make([]*Batch, 0, len(s.Layers))
	for _, ls := range s.Layers {
		b := &Batch{Texture: t.texture, Layer: ls.Index}
		for _, st := range ls.Tiles {
			src, ok := t.entry(st.Atlas)
			for dy := 0; dy < st.Fill.Y; dy++ {
				for dx := 0; dx < st.Fill.X; dx++ {
					b.Quads = append(b.Quads, Quad{
						Dst:         geom.R(float64(st.Pos.X+dx), float64(st.Pos.Y+dy), 1, 1),
						Src:         src,
						Rotation:    st.Rotation,
						Placeholder: !ok,
						Tag:         st.Atlas,
					})
				}
			}
		}
		t.batches = append(t.batches, b)
	}
}

func (t *Tilemap) entry(name string) (image.Rectangle, bool) {
	if t.tex == nil {
		return image.Rectangle{}, false
	}
	return t.tex.Entry(name)
}

func (t *Tilemap) Draw(r Renderer) {
	for _, b := range t.batches {
		if t.hidden[b.Layer] {
			continue
		}
		r.Draw(b)
	}
}

// Batches returns the batches built by the last Update.
func (t *Tilemap) Batches() []*Batch { return t.batches }

func (t *Tilemap) Depth() int          { return t.depth }
func (t *Tilemap) SetDepth(d int)      { t.depth = d }
func (t *Tilemap) Visible() bool       { return t.visible }
func (t *Tilemap) SetVisible(v bool)   { t.visible = v }
func (t *Tilemap) Texture() string     { return t.texture }
func (t *Tilemap) SetTexture(s string) { t.texture = s }

// SetLayerVisible hides or shows one layer by index.
func (t *Tilemap) SetLayerVisible(layer int, v bool) {
	if v {
		delete(t.hidden, layer)
		return
	}
	t.hidden[layer] = true
}
