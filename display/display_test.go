package display

import (
	"image"
	"testing"

	"github.com/milk9111/tilescene/collision"
	"github.com/milk9111/tilescene/geom"
	"github.com/milk9111/tilescene/tilemap"
)

type sheet map[string]image.Rectangle

func (s sheet) CompileList() []string {
	var out []string
	for k := range s {
		out = append(out, k)
	}
	return out
}

func (s sheet) Entry(name string) (image.Rectangle, bool) {
	r, ok := s[name]
	return r, ok
}

type recordingRenderer struct {
	batches []*Batch
}

func (r *recordingRenderer) Draw(b *Batch) { r.batches = append(r.batches, b) }

func TestTilemapUpdate(t *testing.T) {
	m := tilemap.NewManipulator()
	l := m.NewLayer()
	l.SetTile(geom.Pt(0, 0), geom.Pt(2, 1), "grass", 0)
	l.SetTile(geom.Pt(0, 1), geom.Pt(1, 1), "lava", 3)
	m.NewLayer()

	tex := sheet{"grass": image.Rect(0, 0, 16, 16)}
	d := NewTilemap(tex, "forest")
	m.UpdateDisplay(d)

	batches := d.Batches()
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	quads := batches[0].Quads
	if len(quads) != 3 {
		t.Fatalf("expected 3 quads, got %d", len(quads))
	}
	if quads[1].Dst != geom.R(1, 0, 1, 1) || quads[1].Src != image.Rect(0, 0, 16, 16) || quads[1].Placeholder {
		t.Fatalf("unexpected grass quad %+v", quads[1])
	}
	if !quads[2].Placeholder || quads[2].Rotation != 3 {
		t.Fatalf("lava should be a rotated placeholder, got %+v", quads[2])
	}
	if batches[1].Texture != "forest" || len(batches[1].Quads) != 0 {
		t.Fatalf("unexpected second batch %+v", batches[1])
	}
}

func TestTilemapSnapshotIsolation(t *testing.T) {
	m := tilemap.NewManipulator()
	l := m.NewLayer()
	l.SetTile(geom.Pt(0, 0), geom.Pt(1, 1), "grass", 0)

	d := NewTilemap(nil, "")
	m.UpdateDisplay(d)
	l.SetTile(geom.Pt(5, 5), geom.Pt(1, 1), "grass", 0)

	if n := len(d.Batches()[0].Quads); n != 1 {
		t.Fatalf("display should not see edits before the next update, got %d quads", n)
	}
}

func TestTilemapHiddenLayer(t *testing.T) {
	m := tilemap.NewManipulator()
	m.NewLayer().SetTile(geom.Pt(0, 0), geom.Pt(1, 1), "a", 0)
	m.NewLayer().SetTile(geom.Pt(0, 0), geom.Pt(1, 1), "b", 0)

	d := NewTilemap(nil, "")
	m.UpdateDisplay(d)
	d.SetLayerVisible(0, false)

	var r recordingRenderer
	d.Draw(&r)
	if len(r.batches) != 1 || r.batches[0].Layer != 1 {
		t.Fatalf("expected only layer 1, got %+v", r.batches)
	}
}

type stub struct {
	name    string
	depth   int
	visible bool
	order   *[]string
}

func (s stub) Draw(Renderer) { *s.order = append(*s.order, s.name) }
func (s stub) Depth() int    { return s.depth }
func (s stub) Visible() bool { return s.visible }

func TestDrawAllDepthOrder(t *testing.T) {
	var order []string
	ds := []Drawable{
		stub{"front", 10, true, &order},
		stub{"hidden", 0, false, &order},
		stub{"back", -1, true, &order},
		stub{"mid-a", 5, true, &order},
		stub{"mid-b", 5, true, &order},
	}
	DrawAll(&recordingRenderer{}, ds)

	want := []string{"back", "mid-a", "mid-b", "front"}
	if len(order) != len(want) {
		t.Fatalf("draw order %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("draw order %v, want %v", order, want)
		}
	}
}

type flags map[string]bool

func (f flags) Has(s string) bool { return f[s] }

func TestBoxesOverlay(t *testing.T) {
	c := collision.NewContainer()
	c.AddBox(collision.KindWall).SetRegion(geom.R(0, 0, 2, 1))
	door := c.AddBox(collision.KindDoor)
	door.SetRegion(geom.R(3, 0, 1, 2))
	door.Cond = "unlocked"
	c.AddBox(collision.KindTouch).SetRegion(geom.R(0, 0, 0, 0))

	o := NewBoxes(c, 100)
	var r recordingRenderer
	o.Draw(&r)
	if len(r.batches) != 1 || len(r.batches[0].Quads) != 2 {
		t.Fatalf("expected one batch with 2 quads, got %+v", r.batches)
	}
	if tag := r.batches[0].Quads[1].Tag; tag != "inactive" {
		t.Fatalf("locked door should be inactive, got %q", tag)
	}

	o.SetFlags(flags{"unlocked": true})
	r = recordingRenderer{}
	o.Draw(&r)
	if tag := r.batches[0].Quads[1].Tag; tag != "door" {
		t.Fatalf("unlocked door tag %q", tag)
	}
}
