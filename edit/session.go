package edit

import (
	"fmt"

	"github.com/milk9111/tilescene/atlas"
	"github.com/milk9111/tilescene/collision"
	"github.com/milk9111/tilescene/geom"
	"github.com/milk9111/tilescene/scene"
	"github.com/milk9111/tilescene/tilemap"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Mode selects what a click edits.
type Mode int

const (
	ModeTilemap Mode = iota
	ModeCollision
	ModeAtlas
)

func (m Mode) String() string {
	switch m {
	case ModeTilemap:
		return "tilemap"
	case ModeCollision:
		return "collision"
	case ModeAtlas:
		return "atlas"
	default:
		return "unknown"
	}
}

// Brush is the tile painted in tilemap mode.
type Brush struct {
	Atlas    string
	Rotation int
}

// Session edits one open scene. The tilemap is kept exploded while editing
// and condensed only for saving.
type Session struct {
	scene   *scene.Scene
	history *History
	display tilemap.Display
	log     zerolog.Logger

	mode    Mode
	layer   int
	brush   Brush
	boxKind collision.Kind
	dirty   bool
}

type SessionOption func(*Session)

func WithLogger(logger zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.log = logger
	}
}

func WithUndoLimit(limit int) SessionOption {
	return func(s *Session) {
		s.history = NewHistory(limit)
	}
}

// WithDisplay makes the session push a snapshot to d after every change.
func WithDisplay(d tilemap.Display) SessionOption {
	return func(s *Session) {
		s.display = d
	}
}

func NewSession(sc *scene.Scene, opts ...SessionOption) *Session {
	s := &Session{
		scene:   sc,
		history: NewHistory(DefaultLimit),
		log:     log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	sc.Tilemap.ExplodeAll()
	s.refresh()
	return s
}

func (s *Session) Scene() *scene.Scene { return s.scene }
func (s *Session) History() *History   { return s.history }
func (s *Session) Mode() Mode          { return s.mode }
func (s *Session) Brush() Brush        { return s.brush }
func (s *Session) Dirty() bool         { return s.dirty }
func (s *Session) ActiveLayer() int    { return s.layer }

func (s *Session) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.log.Debug().Stringer("from", s.mode).Stringer("to", m).Msg("edit mode changed")
	s.mode = m
}

func (s *Session) SetBrush(b Brush) {
	b.Rotation = geom.Mod4(b.Rotation)
	s.brush = b
}

func (s *Session) SetBoxKind(k collision.Kind) { s.boxKind = k }

// SetLayer selects the layer tile edits apply to.
func (s *Session) SetLayer(i int) error {
	if s.scene.Tilemap.Layer(i) == nil {
		return fmt.Errorf("edit: select layer %d: %w", i, tilemap.ErrNoLayer)
	}
	s.layer = i
	return nil
}

// Click applies the current mode at one cell. In tilemap mode it paints the
// brush or erases; in collision mode it adds a one cell box of the current
// kind or removes the topmost box; in atlas mode it picks the brush from the
// tile under the cell.
func (s *Session) Click(cell geom.Point, erase bool) error {
	return s.Fill(cell, cell, erase)
}

// Fill is Click over the rectangle of cells spanned by a and b.
func (s *Session) Fill(a, b geom.Point, erase bool) error {
	minP := geom.Pt(min(a.X, b.X), min(a.Y, b.Y))
	maxP := geom.Pt(max(a.X, b.X), max(a.Y, b.Y))
	switch s.mode {
	case ModeTilemap:
		l := s.scene.Tilemap.Layer(s.layer)
		if l == nil {
			return fmt.Errorf("edit: paint layer %d: %w", s.layer, tilemap.ErrNoLayer)
		}
		var cells []geom.Point
		for y := minP.Y; y <= maxP.Y; y++ {
			for x := minP.X; x <= maxP.X; x++ {
				cells = append(cells, geom.Pt(x, y))
			}
		}
		if erase {
			return s.Do(NewEraseTiles(l, cells))
		}
		return s.Do(NewPaintTiles(l, cells, s.brush.Atlas, s.brush.Rotation))
	case ModeCollision:
		if erase {
			top := s.scene.Boxes.Top(geom.Vec{X: float64(minP.X) + 0.5, Y: float64(minP.Y) + 0.5})
			if top == nil {
				return nil
			}
			return s.Do(NewRemoveBox(s.scene.Boxes, top))
		}
		region := geom.R(float64(minP.X), float64(minP.Y), float64(maxP.X-minP.X+1), float64(maxP.Y-minP.Y+1))
		return s.Do(NewAddBox(s.scene.Boxes, s.boxKind, region))
	case ModeAtlas:
		l := s.scene.Tilemap.Layer(s.layer)
		if l == nil {
			return nil
		}
		if t := l.TileCovering(minP); t != nil {
			s.SetBrush(Brush{Atlas: t.AtlasName(), Rotation: t.Rotation()})
		}
		return nil
	default:
		return fmt.Errorf("edit: unknown mode %d", s.mode)
	}
}

// Do runs cmd through the history.
func (s *Session) Do(cmd Command) error {
	if err := s.history.Do(cmd); err != nil {
		return err
	}
	s.changed()
	return nil
}

func (s *Session) Undo() (bool, error) {
	ok, err := s.history.Undo()
	if ok {
		s.changed()
	}
	return ok, err
}

func (s *Session) Redo() (bool, error) {
	ok, err := s.history.Redo()
	if ok {
		s.changed()
	}
	return ok, err
}

func (s *Session) changed() {
	s.dirty = true
	if s.layer >= s.scene.Tilemap.LayerCount() {
		s.layer = max(s.scene.Tilemap.LayerCount()-1, 0)
	}
	s.refresh()
}

func (s *Session) refresh() {
	s.scene.Tilemap.UpdateDisplay(s.display)
}

// Save condenses the tilemap, writes the scene and explodes the tilemap
// again so editing can continue.
func (s *Session) Save() error {
	ratio := s.scene.Tilemap.CondenseMap()
	err := s.scene.Save()
	s.scene.Tilemap.ExplodeAll()
	if err != nil {
		return err
	}
	s.dirty = false
	s.log.Info().Str("scene", s.scene.Name()).Float64("ratio", ratio).Msg("session saved")
	return nil
}

// Diagnostics lists atlas names per layer that tex cannot resolve.
func (s *Session) Diagnostics(tex atlas.Texture) map[int][]string {
	return s.scene.Tilemap.InvalidEntries(tex)
}

// Rotate turns the brush a quarter turn clockwise.
func (s *Session) Rotate() {
	s.SetBrush(Brush{Atlas: s.brush.Atlas, Rotation: s.brush.Rotation + 1})
}
