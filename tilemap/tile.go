package tilemap

import (
	"github.com/milk9111/tilescene/atlas"
	"github.com/milk9111/tilescene/geom"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Tile is one rectangular placement. Position is the top-left cell of the
// Fill.X x Fill.Y block it covers.
type Tile struct {
	pos      geom.Point
	fill     geom.Point
	rotation int
	atlas    *atlas.Handle

	// layer is the owning layer, nil once the tile is removed or absorbed.
	layer *Layer
}

func (t *Tile) Position() geom.Point { return t.pos }
func (t *Tile) Fill() geom.Point     { return t.fill }
func (t *Tile) Rotation() int        { return t.rotation }
func (t *Tile) Atlas() *atlas.Handle { return t.atlas }

// AtlasName returns the current name of the tile's atlas handle.
func (t *Tile) AtlasName() string { return t.atlas.Name() }

// Layer returns the owning layer or nil.
func (t *Tile) Layer() *Layer { return t.layer }

// SetPosition moves the tile. If the tile belongs to a layer and another tile
// already sits at pos, the move is refused and false is returned.
func (t *Tile) SetPosition(pos geom.Point) bool {
	if t.layer != nil {
		return t.layer.moveTile(t, pos)
	}
	t.pos = pos
	return true
}

// SetFill sets the covered extent. Components below 1 are clamped to 1.
func (t *Tile) SetFill(fill geom.Point) {
	if fill.X < 1 || fill.Y < 1 {
		t.logger().Warn().
			Stringer("pos", t.pos).
			Int("w", fill.X).Int("h", fill.Y).
			Msg("tile fill below 1, clamping")
		fill.X = max(fill.X, 1)
		fill.Y = max(fill.Y, 1)
	}
	t.fill = fill
}

// SetRotation stores the rotation in quarter turns, taken mod 4.
func (t *Tile) SetRotation(r int) {
	t.rotation = geom.Mod4(r)
}

// SetAtlas points the tile at a new atlas name interned in the owning layer.
func (t *Tile) SetAtlas(name string) {
	if t.layer != nil {
		t.atlas = t.layer.pool.Get(name)
		return
	}
	t.atlas = atlas.NewPool().Get(name)
}

// IsCondensed reports whether the tile covers more than one cell.
func (t *Tile) IsCondensed() bool {
	return t.fill.X > 1 || t.fill.Y > 1
}

// Bounds returns the covered block in tile units.
func (t *Tile) Bounds() geom.Rect {
	return geom.R(float64(t.pos.X), float64(t.pos.Y), float64(t.fill.X), float64(t.fill.Y))
}

// Covers reports whether cell lies inside the tile's block.
func (t *Tile) Covers(cell geom.Point) bool {
	return cell.X >= t.pos.X && cell.X < t.pos.X+t.fill.X &&
		cell.Y >= t.pos.Y && cell.Y < t.pos.Y+t.fill.Y
}

func (t *Tile) sameLook(other *Tile) bool {
	return t.atlas == other.atlas && t.rotation == other.rotation
}

// IsAdjacentLeft reports whether t sits directly left of other with the same
// row, height, atlas and rotation, so the two can merge horizontally.
func (t *Tile) IsAdjacentLeft(other *Tile) bool {
	return t.sameLook(other) &&
		t.pos.Y == other.pos.Y &&
		t.fill.Y == other.fill.Y &&
		t.pos.X+t.fill.X == other.pos.X
}

// IsAdjacentAbove reports whether t sits directly above other with the same
// column, width, atlas and rotation.
func (t *Tile) IsAdjacentAbove(other *Tile) bool {
	return t.sameLook(other) &&
		t.pos.X == other.pos.X &&
		t.fill.X == other.fill.X &&
		t.pos.Y+t.fill.Y == other.pos.Y
}

// State returns a detached copy of the tile's fields.
func (t *Tile) State() TileState {
	return TileState{Pos: t.pos, Fill: t.fill, Rotation: t.rotation, Atlas: t.atlas.Name()}
}

func (t *Tile) logger() *zerolog.Logger {
	if t.layer != nil {
		return &t.layer.log
	}
	return &log.Logger
}

// TileState is a value copy of a tile, used by snapshots and undo records.
type TileState struct {
	Pos      geom.Point
	Fill     geom.Point
	Rotation int
	Atlas    string
}
