// Package tilemap holds the editable tile model: tiles, layers and the
// manipulator that orders them, plus their XML form.
package tilemap

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/beevik/etree"
	"github.com/milk9111/tilescene/atlas"
	"github.com/milk9111/tilescene/geom"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrNoLayer = errors.New("tilemap: no such layer")

// maxIncludeDepth bounds chains of tilemap files referencing each other.
const maxIncludeDepth = 8

// Manipulator owns the ordered layers of one tilemap. Layer indices are the
// z-order and stay dense after every insert or remove.
type Manipulator struct {
	layers []*Layer
	log    zerolog.Logger
}

type Option func(*Manipulator)

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manipulator) {
		m.log = logger
	}
}

func NewManipulator(opts ...Option) *Manipulator {
	m := &Manipulator{log: log.Logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manipulator) LayerCount() int { return len(m.layers) }

// Layer returns layer i or nil when out of range.
func (m *Manipulator) Layer(i int) *Layer {
	if i < 0 || i >= len(m.layers) {
		return nil
	}
	return m.layers[i]
}

// Layers returns the layers bottom to top.
func (m *Manipulator) Layers() []*Layer {
	out := make([]*Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

// IndexOf returns the index of l or -1.
func (m *Manipulator) IndexOf(l *Layer) int {
	for i, cur := range m.layers {
		if cur == l {
			return i
		}
	}
	return -1
}

// NewLayer appends an empty layer on top.
func (m *Manipulator) NewLayer() *Layer {
	l := newLayer(m.log)
	m.layers = append(m.layers, l)
	return l
}

// InsertLayer inserts an empty layer at i, clamped to 0..LayerCount.
func (m *Manipulator) InsertLayer(i int) *Layer {
	l := newLayer(m.log)
	m.AttachLayer(i, l)
	return l
}

// AttachLayer inserts an existing layer at i, clamped to 0..LayerCount.
func (m *Manipulator) AttachLayer(i int, l *Layer) {
	i = min(max(i, 0), len(m.layers))
	m.layers = append(m.layers, nil)
	copy(m.layers[i+1:], m.layers[i:])
	m.layers[i] = l
}

// RemoveLayer removes layer i and returns it, or nil when out of range.
func (m *Manipulator) RemoveLayer(i int) *Layer {
	if i < 0 || i >= len(m.layers) {
		return nil
	}
	l := m.layers[i]
	m.layers = append(m.layers[:i], m.layers[i+1:]...)
	return l
}

// MoveLayer moves the layer at from so it ends up at index to.
func (m *Manipulator) MoveLayer(from, to int) bool {
	if from < 0 || from >= len(m.layers) || to < 0 || to >= len(m.layers) {
		return false
	}
	if from == to {
		return true
	}
	l := m.RemoveLayer(from)
	m.AttachLayer(to, l)
	return true
}

// Clear drops every layer.
func (m *Manipulator) Clear() {
	m.layers = nil
}

// LoadTilemapXML builds layers from a <tilemap> element. A path attribute
// names an external tilemap file, resolved against baseDir, whose layers are
// loaded first; inline <layer> children are appended after them.
func (m *Manipulator) LoadTilemapXML(root *etree.Element, baseDir string) error {
	return m.loadTilemap(root, baseDir, 0)
}

func (m *Manipulator) loadTilemap(root *etree.Element, baseDir string, depth int) error {
	if root == nil {
		return nil
	}
	if path := root.SelectAttrValue("path", ""); path != "" {
		if depth >= maxIncludeDepth {
			return fmt.Errorf("tilemap: include depth exceeded at %s", path)
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		doc := etree.NewDocument()
		if err := doc.ReadFromFile(path); err != nil {
			return fmt.Errorf("tilemap: load %s: %w", path, err)
		}
		ext := doc.Root()
		switch {
		case ext == nil:
			return fmt.Errorf("tilemap: %s has no root element", path)
		case ext.Tag == "layer":
			m.NewLayer().LoadXML(ext)
		default:
			if err := m.loadTilemap(ext, filepath.Dir(path), depth+1); err != nil {
				return err
			}
		}
		m.log.Debug().Str("path", path).Int("layers", len(m.layers)).Msg("loaded external tilemap")
	}
	for _, el := range root.SelectElements("layer") {
		m.NewLayer().LoadXML(el)
	}
	return nil
}

// Generate writes one <layer id="N"> per layer under node, N being the
// dense layer index.
func (m *Manipulator) Generate(node *etree.Element) {
	for i, l := range m.layers {
		el := node.CreateElement("layer")
		el.CreateAttr("id", strconv.Itoa(i))
		l.GenerateXML(el)
	}
}

// CondenseMap condenses every layer and returns the aggregate ratio of tile
// counts after and before.
func (m *Manipulator) CondenseMap() float64 {
	before := m.TileCount()
	for _, l := range m.layers {
		l.Condense()
	}
	after := m.TileCount()
	ratio := 1.0
	if before > 0 {
		ratio = float64(after) / float64(before)
	}
	m.log.Info().Int("before", before).Int("after", after).Float64("ratio", ratio).Msg("condensed tilemap")
	return ratio
}

// ExplodeAll explodes every layer.
func (m *Manipulator) ExplodeAll() {
	for _, l := range m.layers {
		l.Explode()
	}
}

// Shift moves every tile on every layer by d.
func (m *Manipulator) Shift(d geom.Point) {
	for _, l := range m.layers {
		l.Shift(d)
	}
}

// TileCount returns the number of stored tiles across layers.
func (m *Manipulator) TileCount() int {
	n := 0
	for _, l := range m.layers {
		n += l.Len()
	}
	return n
}

// CenterPoint returns the unweighted mean tile position across all layers.
func (m *Manipulator) CenterPoint() geom.Vec {
	var sum geom.Vec
	n := 0
	for _, l := range m.layers {
		for _, t := range l.tiles {
			sum.X += float64(t.pos.X)
			sum.Y += float64(t.pos.Y)
			n++
		}
	}
	if n == 0 {
		return geom.Vec{}
	}
	return sum.Scale(1 / float64(n))
}

// InvalidEntries returns, per layer index, the atlas names tex cannot resolve.
// Layers without problems are omitted.
func (m *Manipulator) InvalidEntries(tex atlas.Texture) map[int][]string {
	out := map[int][]string{}
	for i, l := range m.layers {
		if bad := l.InvalidEntries(tex); len(bad) > 0 {
			out[i] = bad
		}
	}
	return out
}
