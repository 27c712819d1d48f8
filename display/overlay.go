package display

import (
	"github.com/milk9111/tilescene/collision"
)

// Boxes draws collision regions as untextured quads tagged with their kind.
type Boxes struct {
	boxes   *collision.Container
	depth   int
	visible bool
	flags   collision.Flags
}

func NewBoxes(c *collision.Container, depth int) *Boxes {
	return &Boxes{boxes: c, depth: depth, visible: true}
}

// SetFlags makes boxes whose condition is off draw with an "inactive" tag.
func (o *Boxes) SetFlags(f collision.Flags) { o.flags = f }

func (o *Boxes) Draw(r Renderer) {
	b := &Batch{Layer: -1}
	for _, box := range o.boxes.Boxes() {
		if box.Region().Empty() {
			continue
		}
		tag := box.Kind().String()
		if !box.Active(o.flags) {
			tag = "inactive"
		}
		b.Quads = append(b.Quads, Quad{Dst: box.Region(), Tag: tag})
	}
	if len(b.Quads) > 0 {
		r.Draw(b)
	}
}

func (o *Boxes) Depth() int        { return o.depth }
func (o *Boxes) Visible() bool     { return o.visible }
func (o *Boxes) SetVisible(v bool) { o.visible = v }
