// Package physics builds a Chipmunk space from a scene's collision boxes
// and solid tile layers.
package physics

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilescene/collision"
	"github.com/milk9111/tilescene/geom"
	"github.com/milk9111/tilescene/tilemap"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	CollisionTypeWall cp.CollisionType = iota + 1
	CollisionTypeTrigger
	CollisionTypeButton
	CollisionTypeDoor
	CollisionTypeTile
	CollisionTypeBoundary
)

func collisionType(k collision.Kind) cp.CollisionType {
	switch k {
	case collision.KindWall:
		return CollisionTypeWall
	case collision.KindButton:
		return CollisionTypeButton
	case collision.KindDoor:
		return CollisionTypeDoor
	default:
		return CollisionTypeTrigger
	}
}

type Options struct {
	// TileSize is the number of world units per tile. Zero means 1.
	TileSize float64
	// SolidLayers lists the tile layers whose tiles become solid shapes.
	SolidLayers []int
	// Boundary, when set, is closed with static segments.
	Boundary *geom.Rect
	Gravity  geom.Vec
	Logger   *zerolog.Logger
}

// World is a built space plus the mapping back to collision boxes.
type World struct {
	Space *cp.Space

	scale  float64
	shapes map[*cp.Shape]*collision.Box
	// order is each box's position in its container.
	order map[*collision.Box]int
}

// Build adds every box as a static shape, walls solid and the other kinds
// as sensors. Solid layers are condensed on a scratch copy first so each
// uniform block becomes one shape.
func Build(boxes *collision.Container, tm *tilemap.Manipulator, opts Options) *World {
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	scale := opts.TileSize
	if scale <= 0 {
		scale = 1
	}
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: opts.Gravity.X * scale, Y: opts.Gravity.Y * scale})
	w := &World{Space: space, scale: scale, shapes: map[*cp.Shape]*collision.Box{}, order: map[*collision.Box]int{}}

	if boxes != nil {
		for i, b := range boxes.Boxes() {
			w.order[b] = i
			if b.Region().Empty() {
				continue
			}
			shape := w.addRect(b.Region())
			shape.SetCollisionType(collisionType(b.Kind()))
			shape.SetSensor(b.Kind() != collision.KindWall)
			shape.UserData = b
			w.shapes[shape] = b
		}
	}

	tiles := 0
	if tm != nil {
		for _, i := range opts.SolidLayers {
			l := tm.Layer(i)
			if l == nil {
				logger.Warn().Int("layer", i).Msg("solid layer out of range")
				continue
			}
			scratch := tilemap.NewLayer()
			for _, st := range l.States() {
				scratch.SetTile(st.Pos, st.Fill, st.Atlas, st.Rotation)
			}
			scratch.Explode()
			scratch.Condense()
			for _, st := range scratch.States() {
				r := geom.R(float64(st.Pos.X), float64(st.Pos.Y), float64(st.Fill.X), float64(st.Fill.Y))
				shape := w.addRect(r)
				shape.SetCollisionType(CollisionTypeTile)
				shape.SetFriction(0.8)
				tiles++
			}
		}
	}

	if opts.Boundary != nil {
		w.addBoundary(*opts.Boundary)
	}
	logger.Debug().Int("boxes", len(w.shapes)).Int("tiles", tiles).Msg("physics space built")
	return w
}

func (w *World) bb(r geom.Rect) cp.BB {
	return cp.BB{L: r.X * w.scale, B: r.Y * w.scale, R: (r.X + r.Width) * w.scale, T: (r.Y + r.Height) * w.scale}
}

func (w *World) addRect(r geom.Rect) *cp.Shape {
	shape := cp.NewBox2(w.Space.StaticBody, w.bb(r), 0)
	w.Space.AddShape(shape)
	return shape
}

func (w *World) addBoundary(r geom.Rect) {
	bb := w.bb(r)
	corners := []cp.Vector{{X: bb.L, Y: bb.B}, {X: bb.R, Y: bb.B}, {X: bb.R, Y: bb.T}, {X: bb.L, Y: bb.T}}
	for i := range corners {
		seg := cp.NewSegment(w.Space.StaticBody, corners[i], corners[(i+1)%len(corners)], 0)
		seg.SetCollisionType(CollisionTypeBoundary)
		seg.SetFriction(0.8)
		w.Space.AddShape(seg)
	}
}

// Box returns the collision box a shape was built from.
func (w *World) Box(s *cp.Shape) *collision.Box {
	return w.shapes[s]
}

// Query returns the boxes whose shapes overlap r with a non-zero area, in
// container order like collision.Container.CollideRect.
func (w *World) Query(r geom.Rect) []*collision.Box {
	var out []*collision.Box
	w.Space.BBQuery(w.bb(r), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, data interface{}) {
		b, ok := w.shapes[shape]
		if ok && b.Region().Intersects(r) {
			out = append(out, b)
		}
	}, nil)
	sort.Slice(out, func(i, j int) bool { return w.order[out[i]] < w.order[out[j]] })
	return out
}

// BoxCount returns the number of boxes that became shapes.
func (w *World) BoxCount() int { return len(w.shapes) }

// ShapeCount returns the number of shapes attached to the static body.
func (w *World) ShapeCount() int {
	n := 0
	w.Space.EachShape(func(*cp.Shape) { n++ })
	return n
}

func (w *World) Step(dt float64) {
	w.Space.Step(dt)
}
