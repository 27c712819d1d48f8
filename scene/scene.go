package scene

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/milk9111/tilescene/collision"
	"github.com/milk9111/tilescene/geom"
	"github.com/milk9111/tilescene/tilemap"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrNoMarker = errors.New("scene: destination marker not found")

// Scene is one opened scene: its document plus the models built from it.
type Scene struct {
	Loader  *Loader
	Tilemap *tilemap.Manipulator
	Boxes   *collision.Container
}

// Open loads the named scene and builds its tilemap and collision boxes.
// Nothing is returned unless every part loads.
func Open(dir, name string, logger zerolog.Logger) (*Scene, error) {
	ld := NewLoader(dir, WithLogger(logger))
	if err := ld.Load(name); err != nil {
		return nil, err
	}
	tm := tilemap.NewManipulator(tilemap.WithLogger(logger))
	if err := tm.LoadTilemapXML(ld.Tilemap(), filepath.Dir(ld.Path())); err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", name, err)
	}
	boxes := collision.NewContainer(collision.WithLogger(logger))
	if err := boxes.LoadXML(ld.CollisionBoxes()); err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", name, err)
	}
	return &Scene{Loader: ld, Tilemap: tm, Boxes: boxes}, nil
}

func (s *Scene) Name() string { return s.Loader.Name() }

// Save writes the current tilemap and boxes back to the scene file.
func (s *Scene) Save() error {
	return s.Loader.Save(s.Tilemap, s.Boxes)
}

// Marker returns the door box called name, used as an arrival point.
func (s *Scene) Marker(name string) *collision.Box {
	for _, b := range s.Boxes.Boxes() {
		if b.Kind() != collision.KindDoor {
			continue
		}
		if b.Name == name || b.Door().Name == name {
			return b
		}
	}
	return nil
}

// Manager holds the active scene. A failed open leaves the active scene in
// place.
type Manager struct {
	dir     string
	current *Scene
	log     zerolog.Logger

	listeners []func(*Scene)
}

type ManagerOption func(*Manager)

func WithManagerLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = logger
	}
}

func NewManager(dir string, opts ...ManagerOption) *Manager {
	m := &Manager{dir: dir, log: log.Logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Dir() string     { return m.dir }
func (m *Manager) Current() *Scene { return m.current }

// OnChange registers fn to run after the active scene changes.
func (m *Manager) OnChange(fn func(*Scene)) {
	m.listeners = append(m.listeners, fn)
}

// Open makes the named scene active.
func (m *Manager) Open(name string) (*Scene, error) {
	s, err := Open(m.dir, name, m.log)
	if err != nil {
		m.log.Error().Err(err).Str("scene", name).Msg("scene did not open, keeping previous")
		return nil, err
	}
	m.activate(s)
	return s, nil
}

// Reload reopens the active scene from disk.
func (m *Manager) Reload() error {
	if m.current == nil {
		return ErrNotLoaded
	}
	_, err := m.Open(m.current.Loader.Path())
	return err
}

// Follow opens the scene a door leads to and returns the spawn position:
// the destination marker's origin plus the door's offset.
func (m *Manager) Follow(door *collision.Box) (*Scene, geom.Vec, error) {
	d := door.Door()
	if d == nil {
		return nil, geom.Vec{}, fmt.Errorf("scene: follow %v: %w", door, collision.ErrDoorDestination)
	}
	s, err := Open(m.dir, d.Scene, m.log)
	if err != nil {
		return nil, geom.Vec{}, err
	}
	marker := s.Marker(d.Marker)
	if marker == nil {
		return nil, geom.Vec{}, fmt.Errorf("scene: follow %s to %s: %w", d.Marker, d.Scene, ErrNoMarker)
	}
	r := marker.Region()
	m.activate(s)
	return s, geom.Vec{X: r.X, Y: r.Y}.Add(d.Offset), nil
}

func (m *Manager) activate(s *Scene) {
	m.current = s
	for _, fn := range m.listeners {
		fn(s)
	}
}
