package tilemap

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/tilescene/geom"
)

func one() geom.Point { return geom.Pt(1, 1) }

// cells returns the exploded, sorted form of l without mutating it.
func cells(l *Layer) []TileState {
	c := NewLayer()
	for _, t := range l.tiles {
		c.SetTile(t.pos, t.fill, t.AtlasName(), t.rotation)
	}
	c.Explode()
	out := c.States()
	sort.Slice(out, func(i, j int) bool { return geom.RowMajorLess(out[i].Pos, out[j].Pos) })
	return out
}

func TestCondenseRowExample(t *testing.T) {
	l := NewLayer()
	for x := 0; x < 3; x++ {
		l.SetTile(geom.Pt(x, 0), one(), "grass", 0)
	}

	ratio := l.Condense()

	want := []TileState{{Pos: geom.Pt(0, 0), Fill: geom.Pt(3, 1), Atlas: "grass"}}
	if diff := cmp.Diff(want, l.States()); diff != "" {
		t.Fatalf("condensed layer mismatch (-want +got):\n%s", diff)
	}
	if ratio != 1.0/3.0 {
		t.Fatalf("expected ratio 1/3, got %v", ratio)
	}
}

func TestCondenseUniformRectangle(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{"1x1", 1, 1},
		{"4x1", 4, 1},
		{"1x5", 1, 5},
		{"3x3", 3, 3},
		{"7x2", 7, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l := NewLayer()
			// insert in reverse order so scan order does not depend on insertion
			for y := c.h - 1; y >= 0; y-- {
				for x := c.w - 1; x >= 0; x-- {
					l.SetTile(geom.Pt(x+2, y-1), one(), "stone", 3)
				}
			}
			l.Condense()
			want := []TileState{{Pos: geom.Pt(2, -1), Fill: geom.Pt(c.w, c.h), Rotation: 3, Atlas: "stone"}}
			if diff := cmp.Diff(want, l.States()); diff != "" {
				t.Fatalf("expected a single tile (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCondenseKeepsDifferentTilesApart(t *testing.T) {
	l := NewLayer()
	l.SetTile(geom.Pt(0, 0), one(), "grass", 0)
	l.SetTile(geom.Pt(1, 0), one(), "grass", 1)
	l.SetTile(geom.Pt(2, 0), one(), "stone", 1)
	l.SetTile(geom.Pt(0, 1), one(), "grass", 0)

	if ratio := l.Condense(); ratio != 0.75 {
		t.Fatalf("expected ratio 0.75, got %v", ratio)
	}
	want := []TileState{
		{Pos: geom.Pt(0, 0), Fill: geom.Pt(1, 2), Atlas: "grass"},
		{Pos: geom.Pt(1, 0), Fill: geom.Pt(1, 1), Rotation: 1, Atlas: "grass"},
		{Pos: geom.Pt(2, 0), Fill: geom.Pt(1, 1), Rotation: 1, Atlas: "stone"},
	}
	if diff := cmp.Diff(want, l.States()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCondenseEmptyLayer(t *testing.T) {
	if ratio := NewLayer().Condense(); ratio != 1 {
		t.Fatalf("expected ratio 1 for empty layer, got %v", ratio)
	}
}

func TestCondenseLShapeStaysSplit(t *testing.T) {
	l := NewLayer()
	for _, p := range []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}} {
		l.SetTile(p, one(), "grass", 0)
	}
	l.Condense()
	if l.Len() != 2 {
		t.Fatalf("expected L shape to condense to 2 tiles, got %d", l.Len())
	}
}

func randomLayer(r *rand.Rand, n int) *Layer {
	l := NewLayer()
	names := []string{"grass", "stone", "water"}
	for i := 0; i < n; i++ {
		p := geom.Pt(r.Intn(12), r.Intn(12))
		l.SetTile(p, one(), names[r.Intn(len(names))], r.Intn(2))
	}
	return l
}

func TestCondenseExplodeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		l := randomLayer(r, 80)
		want := cells(l)

		l.Condense()
		l.Explode()

		if diff := cmp.Diff(want, l.States()); diff != "" {
			t.Fatalf("round %d: explode(condense(L)) lost or duplicated cells (-want +got):\n%s", i, diff)
		}
	}
}

func TestCondenseIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 25; i++ {
		l := randomLayer(r, 90)
		l.Condense()
		once := l.States()

		if ratio := l.Condense(); ratio != 1 {
			t.Fatalf("round %d: second condense changed tile count, ratio %v", i, ratio)
		}
		if diff := cmp.Diff(once, l.States()); diff != "" {
			t.Fatalf("round %d: condense not idempotent (-first +second):\n%s", i, diff)
		}
	}
}

func TestCondenseIdempotentOnMixedInput(t *testing.T) {
	// a tall tile beside two stacked cells only merges after the vertical pass
	l := NewLayer()
	l.SetTile(geom.Pt(0, 0), geom.Pt(1, 2), "grass", 0)
	l.SetTile(geom.Pt(1, 0), one(), "grass", 0)
	l.SetTile(geom.Pt(1, 1), one(), "grass", 0)

	l.Condense()
	want := []TileState{{Pos: geom.Pt(0, 0), Fill: geom.Pt(2, 2), Atlas: "grass"}}
	if diff := cmp.Diff(want, l.States()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFindTileInsideCondensedBlock(t *testing.T) {
	l := NewLayer()
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			l.SetTile(geom.Pt(x, y), one(), "grass", 0)
		}
	}
	l.Condense()

	interior := geom.Pt(1, 1)
	if l.FindTile(interior) != nil {
		t.Fatalf("interior cell must not be addressable before explode")
	}
	block := l.TileCovering(interior)
	if block == nil || block.Position() != geom.Pt(0, 0) {
		t.Fatalf("TileCovering should find the condensed block, got %v", block)
	}

	l.ExplodeTile(block)

	if l.FindTile(interior) == nil {
		t.Fatalf("interior cell should be addressable after ExplodeTile")
	}
	if l.Len() != 4 {
		t.Fatalf("expected 4 atomic tiles, got %d", l.Len())
	}
	if block.Fill() != one() {
		t.Fatalf("exploded tile should keep identity with fill 1x1, got %v", block.Fill())
	}
}

func TestSetTileOverwritesInPlace(t *testing.T) {
	l := NewLayer()
	first := l.SetTile(geom.Pt(5, 5), one(), "grass", 0)
	second := l.SetTile(geom.Pt(5, 5), geom.Pt(2, 1), "stone", 6)

	if first != second {
		t.Fatalf("SetTile on an occupied position must keep tile identity")
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 tile, got %d", l.Len())
	}
	if second.AtlasName() != "stone" || second.Rotation() != 2 || second.Fill() != geom.Pt(2, 1) {
		t.Fatalf("unexpected tile state %+v", second.State())
	}
}

func TestRemoveTile(t *testing.T) {
	l := NewLayer()
	tile := l.SetTile(geom.Pt(1, 2), one(), "grass", 0)

	if l.RemoveTile(geom.Pt(9, 9)) {
		t.Fatalf("RemoveTile should report false for an empty position")
	}
	if !l.RemoveTile(geom.Pt(1, 2)) {
		t.Fatalf("RemoveTile should report true for an occupied position")
	}
	if l.FindTile(geom.Pt(1, 2)) != nil || l.Len() != 0 {
		t.Fatalf("tile still present after removal")
	}
	if tile.Layer() != nil {
		t.Fatalf("removed tile should be detached")
	}
}

func TestTilesStayRowMajor(t *testing.T) {
	l := NewLayer()
	for _, p := range []geom.Point{{X: 3, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 0}, {X: 0, Y: 0}, {X: 2, Y: 1}} {
		l.SetTile(p, one(), "grass", 0)
	}
	var got []geom.Point
	for _, tile := range l.Tiles() {
		got = append(got, tile.Position())
	}
	want := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 0, Y: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSetFillClamps(t *testing.T) {
	l := NewLayer()
	tile := l.SetTile(geom.Pt(0, 0), geom.Pt(0, -3), "grass", 0)
	if tile.Fill() != one() {
		t.Fatalf("expected fill clamped to 1x1, got %v", tile.Fill())
	}
}

func TestSetPositionRefusesOccupied(t *testing.T) {
	l := NewLayer()
	a := l.SetTile(geom.Pt(0, 0), one(), "grass", 0)
	l.SetTile(geom.Pt(1, 0), one(), "grass", 0)

	if a.SetPosition(geom.Pt(1, 0)) {
		t.Fatalf("moving onto an occupied position should fail")
	}
	if !a.SetPosition(geom.Pt(4, 4)) {
		t.Fatalf("moving onto a free position should succeed")
	}
	if l.FindTile(geom.Pt(4, 4)) != a || l.FindTile(geom.Pt(0, 0)) != nil {
		t.Fatalf("layer index not updated after move")
	}
}

func TestRenameAtlas(t *testing.T) {
	l := NewLayer()
	a := l.SetTile(geom.Pt(0, 0), one(), "grass", 0)
	b := l.SetTile(geom.Pt(1, 0), one(), "meadow", 0)

	if !l.RenameAtlas("grass", "meadow") {
		t.Fatalf("RenameAtlas should succeed")
	}
	if a.Atlas() != b.Atlas() {
		t.Fatalf("renamed tiles should share the canonical handle")
	}
	l.Condense()
	if l.Len() != 1 {
		t.Fatalf("renamed tiles should condense together, got %d tiles", l.Len())
	}
	if l.RenameAtlas("missing", "x") {
		t.Fatalf("RenameAtlas should fail for unknown names")
	}
}

func TestAdjacencyPredicates(t *testing.T) {
	l := NewLayer()
	a := l.SetTile(geom.Pt(0, 0), geom.Pt(2, 1), "grass", 0)
	b := l.SetTile(geom.Pt(2, 0), one(), "grass", 0)
	c := l.SetTile(geom.Pt(0, 1), geom.Pt(2, 1), "grass", 0)
	d := l.SetTile(geom.Pt(3, 0), one(), "grass", 1)

	if !a.IsAdjacentLeft(b) {
		t.Fatalf("a should be adjacent left of b")
	}
	if b.IsAdjacentLeft(a) {
		t.Fatalf("adjacency is directional")
	}
	if !a.IsAdjacentAbove(c) {
		t.Fatalf("a should be adjacent above c")
	}
	if b.IsAdjacentLeft(d) {
		t.Fatalf("different rotation must not be adjacent")
	}
	if !a.IsCondensed() || b.IsCondensed() {
		t.Fatalf("unexpected IsCondensed results")
	}
}
