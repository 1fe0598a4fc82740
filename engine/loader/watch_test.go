package loader

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desksprite/desksprite/engine/sprite"
)

const watcherDefinition = `
<Shimeji name="cat" width="16" height="16">
  <Animation name="idle" fps="10">
    <frame number="1" file="a.png"/>
  </Animation>
</Shimeji>`

// receiveSprite waits for one emission from the watcher or fails the test.
func receiveSprite(t *testing.T, w *Watcher) *sprite.Data {
	t.Helper()
	select {
	case data, ok := <-w.Sprites:
		if !ok {
			t.Fatal("Sprites channel closed before a definition arrived")
		}
		return data
	case err := <-w.Errors:
		t.Fatalf("watcher error instead of sprite: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no sprite emitted before deadline")
	}
	return nil
}

func TestWatcherEmitsLoadedDefinition(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 2, 2, color.RGBA{R: 255, A: 255})

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "cat.xml")
	if err := os.WriteFile(path, []byte(watcherDefinition), 0o644); err != nil {
		t.Fatalf("failed to write definition: %v", err)
	}

	data := receiveSprite(t, w)
	if data.Name != "cat" {
		t.Errorf("emitted sprite %q, want cat", data.Name)
	}
	if data.Clip("idle") == nil {
		t.Error("emitted sprite missing the idle clip")
	}
}

func TestWatcherIgnoresNonDefinitionFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case data := <-w.Sprites:
		t.Fatalf("emitted %v for a non-definition file", data)
	case err := <-w.Errors:
		t.Fatalf("errored on a non-definition file: %v", err)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherDebouncesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 2, 2, color.RGBA{R: 255, A: 255})

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	// Two writes inside the debounce window; only the first produces an event.
	path := filepath.Join(dir, "cat.xml")
	if err := os.WriteFile(path, []byte(watcherDefinition), 0o644); err != nil {
		t.Fatalf("failed to write definition: %v", err)
	}
	if err := os.WriteFile(path, []byte(watcherDefinition), 0o644); err != nil {
		t.Fatalf("failed to rewrite definition: %v", err)
	}

	receiveSprite(t, w)

	select {
	case data := <-w.Sprites:
		t.Fatalf("second emission %v for writes inside the debounce window", data)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	if _, ok := <-w.Sprites; ok {
		t.Error("Sprites channel still open after Close")
	}
}