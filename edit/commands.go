package edit

import (
	"fmt"

	"github.com/milk9111/tilescene/collision"
	"github.com/milk9111/tilescene/geom"
	"github.com/milk9111/tilescene/tilemap"
)

// cellState is what a cell held before a tile command touched it.
type cellState struct {
	pos   geom.Point
	state tilemap.TileState
	had   bool
}

// claim makes cell individually addressable and returns what it held.
func claim(l *tilemap.Layer, cell geom.Point) cellState {
	if t := l.TileCovering(cell); t != nil && t.IsCondensed() {
		l.ExplodeTile(t)
	}
	cs := cellState{pos: cell}
	if t := l.FindTile(cell); t != nil {
		cs.state, cs.had = t.State(), true
	}
	return cs
}

func restore(l *tilemap.Layer, prev []cellState) {
	for i := len(prev) - 1; i >= 0; i-- {
		cs := prev[i]
		if cs.had {
			l.SetTile(cs.pos, cs.state.Fill, cs.state.Atlas, cs.state.Rotation)
		} else {
			l.RemoveTile(cs.pos)
		}
	}
}

// PaintTiles sets single tiles at each cell.
type PaintTiles struct {
	layer    *tilemap.Layer
	cells    []geom.Point
	atlas    string
	rotation int
	prev     []cellState
}

func NewPaintTiles(l *tilemap.Layer, cells []geom.Point, atlasName string, rotation int) *PaintTiles {
	return &PaintTiles{layer: l, cells: cells, atlas: atlasName, rotation: rotation}
}

func (c *PaintTiles) Execute() error {
	if c.atlas == "" {
		return fmt.Errorf("edit: paint: empty atlas name")
	}
	c.prev = c.prev[:0]
	for _, cell := range c.cells {
		c.prev = append(c.prev, claim(c.layer, cell))
		c.layer.SetTile(cell, geom.Pt(1, 1), c.atlas, c.rotation)
	}
	return nil
}

func (c *PaintTiles) Undo() error {
	restore(c.layer, c.prev)
	return nil
}

// EraseTiles removes whatever covers each cell.
type EraseTiles struct {
	layer *tilemap.Layer
	cells []geom.Point
	prev  []cellState
}

func NewEraseTiles(l *tilemap.Layer, cells []geom.Point) *EraseTiles {
	return &EraseTiles{layer: l, cells: cells}
}

func (c *EraseTiles) Execute() error {
	c.prev = c.prev[:0]
	for _, cell := range c.cells {
		cs := claim(c.layer, cell)
		c.prev = append(c.prev, cs)
		if cs.had {
			c.layer.RemoveTile(cell)
		}
	}
	return nil
}

func (c *EraseTiles) Undo() error {
	restore(c.layer, c.prev)
	return nil
}

// AddBox creates a box on Execute and removes it again on Undo. Redo puts
// the same box back.
type AddBox struct {
	boxes  *collision.Container
	kind   collision.Kind
	region geom.Rect
	box    *collision.Box
	group  *collision.WallGroup
}

func NewAddBox(boxes *collision.Container, kind collision.Kind, region geom.Rect) *AddBox {
	return &AddBox{boxes: boxes, kind: kind, region: region}
}

// Box returns the created box, nil before the first Execute.
func (c *AddBox) Box() *collision.Box { return c.box }

func (c *AddBox) Execute() error {
	if c.box == nil {
		c.box = c.boxes.AddBox(c.kind)
		c.box.SetRegion(c.region)
		return nil
	}
	c.boxes.Restore(c.box, c.group)
	return nil
}

func (c *AddBox) Undo() error {
	c.group = c.box.Group()
	if !c.boxes.RemoveBox(c.box) {
		return fmt.Errorf("edit: undo add %v: box not in container", c.box)
	}
	return nil
}

type RemoveBox struct {
	boxes *collision.Container
	box   *collision.Box
	group *collision.WallGroup
}

func NewRemoveBox(boxes *collision.Container, b *collision.Box) *RemoveBox {
	return &RemoveBox{boxes: boxes, box: b}
}

func (c *RemoveBox) Execute() error {
	c.group = c.box.Group()
	if !c.boxes.RemoveBox(c.box) {
		return fmt.Errorf("edit: remove %v: box not in container", c.box)
	}
	return nil
}

func (c *RemoveBox) Undo() error {
	c.boxes.Restore(c.box, c.group)
	return nil
}

type SetBoxRegion struct {
	box    *collision.Box
	region geom.Rect
	prev   geom.Rect
}

func NewSetBoxRegion(b *collision.Box, region geom.Rect) *SetBoxRegion {
	return &SetBoxRegion{box: b, region: region}
}

func (c *SetBoxRegion) Execute() error {
	c.prev = c.box.Region()
	c.box.SetRegion(c.region)
	return nil
}

func (c *SetBoxRegion) Undo() error {
	c.box.SetRegion(c.prev)
	return nil
}

// AddLayer inserts an empty layer at index.
type AddLayer struct {
	m     *tilemap.Manipulator
	index int
	layer *tilemap.Layer
}

func NewAddLayer(m *tilemap.Manipulator, index int) *AddLayer {
	return &AddLayer{m: m, index: index}
}

func (c *AddLayer) Execute() error {
	c.index = min(max(c.index, 0), c.m.LayerCount())
	if c.layer == nil {
		c.layer = c.m.InsertLayer(c.index)
		return nil
	}
	c.m.AttachLayer(c.index, c.layer)
	return nil
}

func (c *AddLayer) Undo() error {
	if c.m.RemoveLayer(c.index) != c.layer {
		return fmt.Errorf("edit: undo add layer %d: %w", c.index, tilemap.ErrNoLayer)
	}
	return nil
}

type RemoveLayer struct {
	m     *tilemap.Manipulator
	index int
	layer *tilemap.Layer
}

func NewRemoveLayer(m *tilemap.Manipulator, index int) *RemoveLayer {
	return &RemoveLayer{m: m, index: index}
}

func (c *RemoveLayer) Execute() error {
	l := c.m.RemoveLayer(c.index)
	if l == nil {
		return fmt.Errorf("edit: remove layer %d: %w", c.index, tilemap.ErrNoLayer)
	}
	c.layer = l
	return nil
}

func (c *RemoveLayer) Undo() error {
	c.m.AttachLayer(c.index, c.layer)
	return nil
}

type MoveLayer struct {
	m        *tilemap.Manipulator
	from, to int
}

func NewMoveLayer(m *tilemap.Manipulator, from, to int) *MoveLayer {
	return &MoveLayer{m: m, from: from, to: to}
}

func (c *MoveLayer) Execute() error {
	if !c.m.MoveLayer(c.from, c.to) {
		return fmt.Errorf("edit: move layer %d to %d: %w", c.from, c.to, tilemap.ErrNoLayer)
	}
	return nil
}

func (c *MoveLayer) Undo() error {
	c.m.MoveLayer(c.to, c.from)
	return nil
}
