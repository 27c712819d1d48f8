package scene

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func nextChange(t *testing.T, w *Watcher, timeout time.Duration) (Change, bool) {
	t.Helper()
	select {
	case c, ok := <-w.Changes:
		if !ok {
			t.Fatalf("changes channel closed early")
		}
		return c, true
	case <-time.After(timeout):
		return Change{}, false
	}
}

func TestWatcherReportsSceneChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	// two quick writes of one scene collapse into one change; the other
	// files are not scene content
	write("forest.xml", "<scene/>")
	write("forest.xml", "<scene><boundary w=\"1\" h=\"1\"/></scene>")
	write("notes.txt", "todo")
	write(".scene-123.xml", "<scene/>")

	c, ok := nextChange(t, w, 2*time.Second)
	if !ok {
		t.Fatalf("no change reported for forest.xml")
	}
	if c.Scene != "forest" || c.Script || c.Path != filepath.Join(dir, "forest.xml") {
		t.Fatalf("unexpected change %+v", c)
	}
	if extra, ok := nextChange(t, w, 3*debounce); ok {
		t.Fatalf("expected a single change, also got %+v", extra)
	}

	write("forest.tengo", "handlers.x = func(s, b) {}")
	c, ok = nextChange(t, w, 2*time.Second)
	if !ok || c.Scene != "forest" || !c.Script {
		t.Fatalf("expected a script change, got %+v (ok=%v)", c, ok)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	write("forest.xml", "<scene/>")

	done := make(chan struct{})
	go func() {
		for range w.Changes {
		}
		for range w.Errors {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("channels were not closed after Close")
	}
}
