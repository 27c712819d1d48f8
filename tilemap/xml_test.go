package tilemap

import (
	"sort"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/tilescene/geom"
)

func parseElement(t *testing.T, src string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(src); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc.Root()
}

func TestLayerLoadXML(t *testing.T) {
	el := parseElement(t, `<layer id="0" name="ground">
		<stone x="4" y="0" r="5"/>
		<grass x="0" y="0" w="4" h="0"/>
		<water x="1" y="2" w="0"/>
	</layer>`)

	l := NewLayer()
	l.LoadXML(el)

	if l.Name() != "ground" {
		t.Fatalf("expected name ground, got %q", l.Name())
	}
	want := []TileState{
		{Pos: geom.Pt(0, 0), Fill: geom.Pt(4, 1), Atlas: "grass"},
		{Pos: geom.Pt(4, 0), Fill: geom.Pt(1, 1), Rotation: 1, Atlas: "stone"},
		{Pos: geom.Pt(1, 2), Fill: geom.Pt(1, 1), Atlas: "water"},
	}
	if diff := cmp.Diff(want, l.States()); diff != "" {
		t.Fatalf("loaded tiles mismatch (-want +got):\n%s", diff)
	}
}

func TestLayerGenerateMinimalForm(t *testing.T) {
	l := NewLayer()
	l.SetTile(geom.Pt(5, 5), geom.Pt(1, 1), "stone", 1)

	doc := etree.NewDocument()
	root := doc.CreateElement("layer")
	l.GenerateXML(root)

	stone := root.SelectElement("stone")
	if stone == nil {
		t.Fatalf("expected a <stone> child")
	}
	got := map[string]string{}
	for _, a := range stone.Attr {
		got[a.Key] = a.Value
	}
	if diff := cmp.Diff(map[string]string{"x": "5", "y": "5", "r": "1"}, got); diff != "" {
		t.Fatalf("attribute mismatch (-want +got):\n%s", diff)
	}
	out, err := doc.WriteToString()
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.Contains(out, `<stone x="5" y="5" r="1"/>`) {
		t.Fatalf("unexpected serialisation %q", out)
	}
}

func TestLayerXMLRoundTrip(t *testing.T) {
	src := `<layer>
		<grass x="0" y="0" w="4" h="2"/>
		<stone x="4" y="0" r="3"/>
		<grass x="-3" y="7" h="3" r="2"/>
	</layer>`
	first := NewLayer()
	first.LoadXML(parseElement(t, src))

	doc := etree.NewDocument()
	root := doc.CreateElement("layer")
	first.GenerateXML(root)

	second := NewLayer()
	second.LoadXML(root)

	a, b := first.States(), second.States()
	for _, s := range [][]TileState{a, b} {
		sort.Slice(s, func(i, j int) bool { return geom.RowMajorLess(s[i].Pos, s[j].Pos) })
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("round trip mismatch (-first +second):\n%s", diff)
	}
}

func TestManipulatorGenerateDenseIDs(t *testing.T) {
	m := NewManipulator()
	m.NewLayer().SetTile(geom.Pt(0, 0), geom.Pt(1, 1), "grass", 0)
	m.NewLayer()
	m.NewLayer().SetTile(geom.Pt(1, 1), geom.Pt(1, 1), "stone", 0)
	m.RemoveLayer(1)

	doc := etree.NewDocument()
	root := doc.CreateElement("tilemap")
	m.Generate(root)

	layers := root.SelectElements("layer")
	if len(layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(layers))
	}
	for i, el := range layers {
		if id := el.SelectAttrValue("id", ""); id != []string{"0", "1"}[i] {
			t.Fatalf("layer %d has id %q", i, id)
		}
	}
	if layers[1].SelectElement("stone") == nil {
		t.Fatalf("second layer should hold the stone tile")
	}
}

func TestLoadTilemapExternalThenInline(t *testing.T) {
	root := parseElement(t, `<tilemap path="external.xml">
		<layer id="0"><water x="9" y="9"/></layer>
	</tilemap>`)

	m := NewManipulator()
	if err := m.LoadTilemapXML(root, "testdata"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if m.LayerCount() != 2 {
		t.Fatalf("expected 2 layers, got %d", m.LayerCount())
	}
	if m.Layer(0).Name() != "ground" || m.Layer(0).Len() != 2 {
		t.Fatalf("external layer should come first, got %q with %d tiles", m.Layer(0).Name(), m.Layer(0).Len())
	}
	if m.Layer(1).FindTile(geom.Pt(9, 9)) == nil {
		t.Fatalf("inline layer should be appended after the external one")
	}
}

func TestLoadTilemapMissingExternal(t *testing.T) {
	root := parseElement(t, `<tilemap path="nope.xml"/>`)
	if err := NewManipulator().LoadTilemapXML(root, t.TempDir()); err == nil {
		t.Fatalf("expected an error for a missing external tilemap")
	}
}
