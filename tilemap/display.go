package tilemap

// Display receives tilemap snapshots. Renderers never read the live model;
// the manipulator pushes a fresh snapshot after each batch of edits.
type Display interface {
	Update(s Snapshot)
}

type Snapshot struct {
	Layers []LayerSnapshot
}

type LayerSnapshot struct {
	Index int
	Name  string
	Tiles []TileState
}

// Snapshot copies the current tiles of every layer.
func (m *Manipulator) Snapshot() Snapshot {
	s := Snapshot{Layers: make([]LayerSnapshot, len(m.layers))}
	for i, l := range m.layers {
		s.Layers[i] = LayerSnapshot{Index: i, Name: l.name, Tiles: l.States()}
	}
	return s
}

// UpdateDisplay pushes a snapshot to d.
func (m *Manipulator) UpdateDisplay(d Display) {
	if d == nil {
		return
	}
	d.Update(m.Snapshot())
}
