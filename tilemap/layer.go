package tilemap

import (
	"sort"

	"github.com/milk9111/tilescene/atlas"
	"github.com/milk9111/tilescene/geom"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Layer holds the tiles of one z-layer, kept sorted row-major (y, then x).
// At most one tile is stored per exact position; the interior cells of a
// condensed tile are not addressable until the tile is exploded.
type Layer struct {
	name  string
	tiles []*Tile
	index map[geom.Point]*Tile
	pool  *atlas.Pool
	log   zerolog.Logger
}

// NewLayer returns an empty layer logging to the process-wide logger.
func NewLayer() *Layer {
	return newLayer(log.Logger)
}

func newLayer(logger zerolog.Logger) *Layer {
	return &Layer{
		index: make(map[geom.Point]*Tile),
		pool:  atlas.NewPool(),
		log:   logger,
	}
}

func (l *Layer) Name() string        { return l.name }
func (l *Layer) SetName(name string) { l.name = name }
func (l *Layer) Len() int            { return len(l.tiles) }

// Pool returns the layer's atlas handle pool.
func (l *Layer) Pool() *atlas.Pool { return l.pool }

// Tiles returns the tiles in row-major order. The slice is a copy; the tiles
// are not.
func (l *Layer) Tiles() []*Tile {
	out := make([]*Tile, len(l.tiles))
	copy(out, l.tiles)
	return out
}

// SetTile overwrites the tile stored at exactly pos, or inserts a new one.
// It does not look inside condensed tiles; call ExplodeTile first when pos
// lies in the interior of a larger block.
func (l *Layer) SetTile(pos, fill geom.Point, atlasName string, rotation int) *Tile {
	t, ok := l.index[pos]
	if !ok {
		t = &Tile{pos: pos, layer: l}
		l.insertSorted(t)
	}
	t.SetFill(fill)
	t.SetRotation(rotation)
	t.atlas = l.pool.Get(atlasName)
	return t
}

// FindTile returns the tile stored at exactly pos.
func (l *Layer) FindTile(pos geom.Point) *Tile {
	return l.index[pos]
}

// TileCovering returns the tile whose block covers cell, condensed or not.
func (l *Layer) TileCovering(cell geom.Point) *Tile {
	if t, ok := l.index[cell]; ok {
		return t
	}
	// tiles are row-major, so nothing at or past row cell.Y+1 can cover it
	end := sort.Search(len(l.tiles), func(i int) bool {
		return l.tiles[i].pos.Y > cell.Y
	})
	for i := end - 1; i >= 0; i-- {
		if l.tiles[i].Covers(cell) {
			return l.tiles[i]
		}
	}
	return nil
}

// RemoveTile removes the tile stored at exactly pos.
func (l *Layer) RemoveTile(pos geom.Point) bool {
	t, ok := l.index[pos]
	if !ok {
		return false
	}
	i := l.search(pos)
	l.tiles = append(l.tiles[:i], l.tiles[i+1:]...)
	delete(l.index, pos)
	t.layer = nil
	return true
}

// ExplodeTile shrinks a condensed tile to one cell and adds an atomic copy
// for every other cell it covered.
func (l *Layer) ExplodeTile(t *Tile) {
	if t == nil || t.layer != l || !t.IsCondensed() {
		return
	}
	l.explodeTile(t)
	l.resort()
}

// Explode splits every condensed tile into atomic tiles.
func (l *Layer) Explode() {
	exploded := false
	for _, t := range l.Tiles() {
		if t.IsCondensed() {
			l.explodeTile(t)
			exploded = true
		}
	}
	if exploded {
		l.resort()
	}
}

// explodeTile appends the new cells unsorted; callers resort.
func (l *Layer) explodeTile(t *Tile) {
	fill := t.fill
	t.fill = geom.Pt(1, 1)
	for dy := 0; dy < fill.Y; dy++ {
		for dx := 0; dx < fill.X; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			p := t.pos.Add(geom.Pt(dx, dy))
			if existing, ok := l.index[p]; ok {
				l.log.Debug().Stringer("pos", p).Msg("explode overwrote overlapping tile")
				existing.fill = geom.Pt(1, 1)
				existing.rotation = t.rotation
				existing.atlas = t.atlas
				continue
			}
			cell := &Tile{pos: p, fill: geom.Pt(1, 1), rotation: t.rotation, atlas: t.atlas, layer: l}
			l.tiles = append(l.tiles, cell)
			l.index[p] = cell
		}
	}
}

// Condense merges runs of identical tiles: a horizontal pass over the
// row-major order, then a vertical pass over the column-major order. The
// passes repeat until nothing merges, so condensing twice is a no-op. It
// returns the new tile count over the old one.
func (l *Layer) Condense() float64 {
	before := len(l.tiles)
	if before == 0 {
		return 1
	}
	for {
		merged := l.absorbRuns(geom.RowMajorLess, (*Tile).IsAdjacentLeft, func(t, next *Tile) {
			t.fill.X += next.fill.X
		})
		merged += l.absorbRuns(geom.ColumnMajorLess, (*Tile).IsAdjacentAbove, func(t, next *Tile) {
			t.fill.Y += next.fill.Y
		})
		if merged == 0 {
			break
		}
	}
	l.resort()
	return float64(len(l.tiles)) / float64(before)
}

func (l *Layer) absorbRuns(less func(a, b geom.Point) bool, adjacent func(a, b *Tile) bool, grow func(t, next *Tile)) int {
	sort.SliceStable(l.tiles, func(i, j int) bool {
		return less(l.tiles[i].pos, l.tiles[j].pos)
	})
	merged := 0
	for i := 0; i+1 < len(l.tiles); {
		t, next := l.tiles[i], l.tiles[i+1]
		if !adjacent(t, next) {
			i++
			continue
		}
		// re-test the same index so consecutive merges chain
		grow(t, next)
		l.tiles = append(l.tiles[:i+1], l.tiles[i+2:]...)
		delete(l.index, next.pos)
		next.layer = nil
		merged++
	}
	return merged
}

// RenameAtlas renames an atlas entry for every tile on the layer.
func (l *Layer) RenameAtlas(oldName, newName string) bool {
	if !l.pool.Replace(oldName, newName) {
		return false
	}
	canon := l.pool.Get(newName)
	for _, t := range l.tiles {
		if t.atlas != canon && t.atlas.Name() == newName {
			t.atlas = canon
		}
	}
	return true
}

// InvalidEntries lists atlas names used by the layer that tex cannot resolve.
func (l *Layer) InvalidEntries(tex atlas.Texture) []string {
	return l.pool.InvalidEntries(tex)
}

// Shift moves every tile by d.
func (l *Layer) Shift(d geom.Point) {
	if d == (geom.Point{}) {
		return
	}
	l.index = make(map[geom.Point]*Tile, len(l.tiles))
	for _, t := range l.tiles {
		t.pos = t.pos.Add(d)
		l.index[t.pos] = t
	}
}

// States returns value copies of every tile in row-major order.
func (l *Layer) States() []TileState {
	out := make([]TileState, len(l.tiles))
	for i, t := range l.tiles {
		out[i] = t.State()
	}
	return out
}

func (l *Layer) moveTile(t *Tile, pos geom.Point) bool {
	if t.pos == pos {
		return true
	}
	if _, taken := l.index[pos]; taken {
		return false
	}
	i := l.search(t.pos)
	l.tiles = append(l.tiles[:i], l.tiles[i+1:]...)
	delete(l.index, t.pos)
	t.pos = pos
	l.insertSorted(t)
	return true
}

// search returns the index of the first tile not ordered before pos.
func (l *Layer) search(pos geom.Point) int {
	return sort.Search(len(l.tiles), func(i int) bool {
		return !geom.RowMajorLess(l.tiles[i].pos, pos)
	})
}

func (l *Layer) insertSorted(t *Tile) {
	i := l.search(t.pos)
	l.tiles = append(l.tiles, nil)
	copy(l.tiles[i+1:], l.tiles[i:])
	l.tiles[i] = t
	l.index[t.pos] = t
	t.layer = l
}

func (l *Layer) resort() {
	sort.Slice(l.tiles, func(i, j int) bool {
		return geom.RowMajorLess(l.tiles[i].pos, l.tiles[j].pos)
	})
}
