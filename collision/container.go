package collision

import (
	"sort"

	"github.com/milk9111/tilescene/geom"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Container owns every box and wall group of one scene. Query results come
// back in insertion order, so the topmost box is the last element.
type Container struct {
	boxes   []*Box
	groups  map[string]*WallGroup
	nextSeq uint64

	idx   *index
	dirty bool

	log zerolog.Logger
}

type Option func(*Container)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Container) {
		c.log = logger
	}
}

func NewContainer(opts ...Option) *Container {
	c := &Container{
		groups: make(map[string]*WallGroup),
		dirty:  true,
		log:    log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddBox appends a new box of the given kind. Door boxes get empty door fields.
func (c *Container) AddBox(kind Kind) *Box {
	b := newBox(kind)
	c.attach(b)
	return b
}

func newBox(kind Kind) *Box {
	b := &Box{kind: kind, region: geom.R(0, 0, 1, 1)}
	if kind == KindDoor {
		b.door = &DoorFields{}
	}
	return b
}

func (c *Container) attach(b *Box) {
	c.nextSeq++
	b.seq = c.nextSeq
	b.owner = c
	c.boxes = append(c.boxes, b)
	c.markDirty()
}

// Restore puts a previously removed box back at its original place in the
// insertion order. It is the inverse of RemoveBox.
func (c *Container) Restore(b *Box, group *WallGroup) {
	if b == nil || b.owner == c {
		return
	}
	i := sort.Search(len(c.boxes), func(i int) bool { return c.boxes[i].seq > b.seq })
	c.boxes = append(c.boxes, nil)
	copy(c.boxes[i+1:], c.boxes[i:])
	c.boxes[i] = b
	b.owner = c
	if group != nil {
		b.SetGroup(c.CreateGroup(group.name))
	}
	c.markDirty()
}

// RemoveBox removes b by identity. Its wall group keeps existing even when
// b was the last member.
func (c *Container) RemoveBox(b *Box) bool {
	for i, cur := range c.boxes {
		if cur != b {
			continue
		}
		c.boxes = append(c.boxes[:i], c.boxes[i+1:]...)
		b.SetGroup(nil)
		b.owner = nil
		c.markDirty()
		return true
	}
	return false
}

// Boxes returns every box in insertion order.
func (c *Container) Boxes() []*Box {
	out := make([]*Box, len(c.boxes))
	copy(out, c.boxes)
	return out
}

func (c *Container) Len() int { return len(c.boxes) }

// Clear removes every box and group.
func (c *Container) Clear() {
	for _, b := range c.boxes {
		b.owner = nil
		b.group = nil
	}
	c.boxes = nil
	c.groups = make(map[string]*WallGroup)
	c.markDirty()
}

// CreateGroup returns the group called name, creating it if needed.
func (c *Container) CreateGroup(name string) *WallGroup {
	if g, ok := c.groups[name]; ok {
		return g
	}
	g := &WallGroup{name: name}
	c.groups[name] = g
	return g
}

// Group returns the group called name or nil.
func (c *Container) Group(name string) *WallGroup {
	return c.groups[name]
}

// Groups returns every group sorted by name.
func (c *Container) Groups() []*WallGroup {
	out := make([]*WallGroup, 0, len(c.groups))
	for _, g := range c.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// CollidePoint returns every box containing p. Min edges are inclusive and
// max edges exclusive.
func (c *Container) CollidePoint(p geom.Vec) []*Box {
	return c.query(geom.R(p.X, p.Y, 0, 0), func(b *Box) bool {
		return b.region.Contains(p)
	})
}

// CollideRect returns every box overlapping r with a non-zero area.
func (c *Container) CollideRect(r geom.Rect) []*Box {
	return c.query(r, func(b *Box) bool {
		return b.region.Intersects(r)
	})
}

// CollidePointKind is CollidePoint restricted to one kind.
func (c *Container) CollidePointKind(p geom.Vec, kind Kind) []*Box {
	var out []*Box
	for _, b := range c.CollidePoint(p) {
		if b.kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Top returns the most recently added box containing p, or nil.
func (c *Container) Top(p geom.Vec) *Box {
	hits := c.CollidePoint(p)
	if len(hits) == 0 {
		return nil
	}
	return hits[len(hits)-1]
}

func (c *Container) query(area geom.Rect, match func(*Box) bool) []*Box {
	if c.dirty {
		c.idx = buildIndex(c.boxes)
		c.dirty = false
	}
	var out []*Box
	for b := range c.idx.candidates(area) {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (c *Container) markDirty() {
	c.dirty = true
}
