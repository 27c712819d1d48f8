package atlas

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeTexture map[string]image.Rectangle

func (f fakeTexture) CompileList() []string {
	var out []string
	for k := range f {
		out = append(out, k)
	}
	return out
}

func (f fakeTexture) Entry(name string) (image.Rectangle, bool) {
	r, ok := f[name]
	return r, ok
}

func TestPoolInterns(t *testing.T) {
	p := NewPool()
	a := p.Get("grass")
	b := p.Get("grass")
	if a != b {
		t.Fatalf("expected identical handles for the same name")
	}
	if p.Get("stone") == a {
		t.Fatalf("different names must not share a handle")
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", p.Len())
	}
}

func TestPoolReplace(t *testing.T) {
	p := NewPool()
	h := p.Get("grass")

	if p.Replace("missing", "x") {
		t.Fatalf("Replace should fail for a name that was never interned")
	}
	if !p.Replace("grass", "meadow") {
		t.Fatalf("Replace should succeed")
	}
	if h.Name() != "meadow" {
		t.Fatalf("expected shared handle renamed, got %q", h.Name())
	}
	if p.Get("meadow") != h {
		t.Fatalf("renamed handle should be returned for the new name")
	}
	if _, ok := p.Lookup("grass"); ok {
		t.Fatalf("old name should no longer be interned")
	}
}

func TestPoolReplaceOntoExisting(t *testing.T) {
	p := NewPool()
	old := p.Get("a")
	canon := p.Get("b")
	if !p.Replace("a", "b") {
		t.Fatalf("Replace should succeed")
	}
	if p.Get("b") != canon {
		t.Fatalf("existing handle should stay canonical")
	}
	if old.Name() != "b" {
		t.Fatalf("renamed handle should read the new name")
	}
	if p.Canonical(old) != canon {
		t.Fatalf("Canonical should map the renamed handle to the existing one")
	}
}

func TestInvalidEntries(t *testing.T) {
	p := NewPool()
	p.Get("grass")
	p.Get("lava")
	p.Get("stone")
	tex := fakeTexture{"grass": image.Rect(0, 0, 16, 16), "stone": image.Rect(16, 0, 32, 16)}

	got := p.InvalidEntries(tex)
	if diff := cmp.Diff([]string{"lava"}, got); diff != "" {
		t.Fatalf("invalid entries mismatch (-want +got):\n%s", diff)
	}
}

func TestSheetEntryDefaults(t *testing.T) {
	sheet, err := ParseSheet([]byte(`
image: tiles.png
tile_w: 16
entries:
  grass: {x: 0, y: 0}
  tall: {x: 16, y: 0, h: 32}
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	r, ok := sheet.Entry("grass")
	if !ok || r != image.Rect(0, 0, 16, 16) {
		t.Fatalf("unexpected grass rect %v ok=%v", r, ok)
	}
	r, ok = sheet.Entry("tall")
	if !ok || r != image.Rect(16, 0, 32, 32) {
		t.Fatalf("unexpected tall rect %v ok=%v", r, ok)
	}
	if _, ok := sheet.Entry("nope"); ok {
		t.Fatalf("missing entry should not resolve")
	}
	if diff := cmp.Diff([]string{"grass", "tall"}, sheet.CompileList()); diff != "" {
		t.Fatalf("compile list mismatch:\n%s", diff)
	}
}
