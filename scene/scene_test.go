package scene

import (
	"errors"
	"testing"

	"github.com/milk9111/tilescene/collision"
	"github.com/milk9111/tilescene/geom"
	"github.com/rs/zerolog"
)

const caveXML = `<scene>
	<collisionboxes>
		<door x="1" y="6" w="1" h="2" name="west" dest="east" path="forest.xml"/>
	</collisionboxes>
</scene>`

func TestOpenFailsOnBadDoor(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir, "bad.xml", `<scene><collisionboxes><door x="0" y="0" w="1" h="1"/></collisionboxes></scene>`)
	if _, err := Open(dir, "bad", zerolog.Nop()); !errors.Is(err, collision.ErrDoorDestination) {
		t.Fatalf("expected ErrDoorDestination, got %v", err)
	}
}

func TestManagerKeepsPreviousScene(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir, "forest.xml", forestXML)
	writeScene(t, dir, "broken.xml", `<scene><tilemap texture=oops></tilemap></scene>`)

	m := NewManager(dir, WithManagerLogger(zerolog.Nop()))
	changes := 0
	m.OnChange(func(*Scene) { changes++ })

	if _, err := m.Open("forest"); err != nil {
		t.Fatalf("Open forest: %v", err)
	}
	if _, err := m.Open("broken"); err == nil {
		t.Fatalf("expected broken scene to fail")
	}
	if m.Current() == nil || m.Current().Name() != "forest" {
		t.Fatalf("previous scene was not kept")
	}
	if changes != 1 {
		t.Fatalf("expected 1 change notification, got %d", changes)
	}
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if changes != 2 {
		t.Fatalf("reload should notify, got %d", changes)
	}
}

func TestManagerReloadWithoutScene(t *testing.T) {
	m := NewManager(t.TempDir(), WithManagerLogger(zerolog.Nop()))
	if err := m.Reload(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestManagerFollowDoor(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir, "forest.xml", forestXML)
	writeScene(t, dir, "cave.xml", caveXML)

	m := NewManager(dir, WithManagerLogger(zerolog.Nop()))
	forest, err := m.Open("forest")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	door := forest.Marker("east")
	if door == nil {
		t.Fatalf("expected door east in forest")
	}
	door.Door().Offset = geom.Vec{X: 1, Y: 0.5}

	cave, spawn, err := m.Follow(door)
	if err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if m.Current() != cave || cave.Name() != "cave" {
		t.Fatalf("expected cave to be active")
	}
	if want := (geom.Vec{X: 2, Y: 6.5}); spawn != want {
		t.Fatalf("spawn = %v, want %v", spawn, want)
	}
}

func TestManagerFollowMissingMarker(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir, "forest.xml", forestXML)
	writeScene(t, dir, "cave.xml", `<scene/>`)

	m := NewManager(dir, WithManagerLogger(zerolog.Nop()))
	forest, err := m.Open("forest")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, err := m.Follow(forest.Marker("east")); !errors.Is(err, ErrNoMarker) {
		t.Fatalf("expected ErrNoMarker, got %v", err)
	}
	if m.Current() != forest {
		t.Fatalf("failed follow changed the active scene")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path  string
		ok    bool
		scene string
		isScr bool
	}{
		{"/s/forest.xml", true, "forest", false},
		{"/s/forest.tengo", true, "forest", true},
		{"/s/FOREST.XML", true, "FOREST", false},
		{"/s/.scene-1234", false, "", false},
		{"/s/notes.txt", false, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c, ok := classify(tt.path)
			if ok != tt.ok {
				t.Fatalf("classify ok = %v, want %v", ok, tt.ok)
			}
			if ok && (c.Scene != tt.scene || c.Script != tt.isScr) {
				t.Fatalf("unexpected change %+v", c)
			}
		})
	}
}
