package scenes

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/milk9111/tilescene/scene"
)

func TestCreateLoadsAsScene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meadow.xml")
	if err := Create(path, "meadow_tiles"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ld := scene.NewLoader(dir)
	if err := ld.Load("meadow"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ld.Texture() != "meadow_tiles" {
		t.Fatalf("unexpected texture %q", ld.Texture())
	}
	if !ld.HasBoundary() {
		t.Fatalf("template should carry a boundary")
	}
	if ld.Tilemap() == nil || ld.CollisionBoxes() == nil {
		t.Fatalf("template should carry tilemap and collisionboxes")
	}

	if err := Create(path, ""); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}
