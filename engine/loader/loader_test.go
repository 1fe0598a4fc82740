package loader

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/desksprite/desksprite/engine/sprite"
)

// writePNG writes a solid-color test image and returns nothing; failures are
// fatal to the calling test.
func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func writeDefinition(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "sprite.xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write definition: %v", err)
	}
	return path
}

func TestLoadDecodesAndOrdersFrames(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 2, 2, color.RGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(dir, "b.png"), 2, 2, color.RGBA{G: 255, A: 255})

	// Frames declared out of order; the loader sorts by number.
	path := writeDefinition(t, dir, `
<Shimeji name="cat" width="64" height="64">
  <Animation name="idle" fps="12">
    <frame number="2" file="b.png"/>
    <frame number="1" file="a.png"/>
  </Animation>
</Shimeji>`)

	data, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if data.Name != "cat" || data.Width != 64 || data.Height != 64 {
		t.Errorf("definition = %q %dx%d, want cat 64x64", data.Name, data.Width, data.Height)
	}

	clip := data.Clip("idle")
	if clip == nil {
		t.Fatal("idle clip missing")
	}
	if clip.FPS != 12 {
		t.Errorf("fps = %v, want 12", clip.FPS)
	}
	if len(clip.Frames) != 2 {
		t.Fatalf("clip has %d frames, want 2", len(clip.Frames))
	}
	if clip.Frames[0].Pixels[0] != 255 {
		t.Error("first frame is not the red image; frames not sorted by number")
	}
	if clip.Frames[1].Pixels[1] != 255 {
		t.Error("second frame is not the green image; frames not sorted by number")
	}
	if clip.Frames[0].Width != 2 || clip.Frames[0].Height != 2 {
		t.Errorf("frame decoded at %dx%d, want 2x2", clip.Frames[0].Width, clip.Frames[0].Height)
	}
}

func TestLoadDefaultsMissingFPS(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 1, 1, color.RGBA{A: 255})

	path := writeDefinition(t, dir, `
<Shimeji name="cat" width="8" height="8">
  <Animation name="idle">
    <frame number="1" file="a.png"/>
  </Animation>
</Shimeji>`)

	data, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := data.Clip("idle").FPS; got != sprite.DefaultFPS {
		t.Errorf("fps = %v, want default %v", got, sprite.DefaultFPS)
	}
}

func TestLoadMissingName(t *testing.T) {
	dir := t.TempDir()
	path := writeDefinition(t, dir, `
<Shimeji width="8" height="8">
  <Animation name="idle" fps="10">
    <frame number="1" file="a.png"/>
  </Animation>
</Shimeji>`)

	_, err := Load(path)
	var attrErr *MissingAttributeError
	if !errors.As(err, &attrErr) {
		t.Fatalf("Load = %v, want *MissingAttributeError", err)
	}
	if attrErr.Attribute != "name" {
		t.Errorf("missing attribute %q, want name", attrErr.Attribute)
	}
}

func TestLoadNoAnimations(t *testing.T) {
	dir := t.TempDir()
	path := writeDefinition(t, dir, `<Shimeji name="cat" width="8" height="8"></Shimeji>`)

	if _, err := Load(path); err == nil {
		t.Error("Load accepted a definition with no animations")
	}
}

func TestLoadEmptyAnimation(t *testing.T) {
	dir := t.TempDir()
	path := writeDefinition(t, dir, `
<Shimeji name="cat" width="8" height="8">
  <Animation name="idle" fps="10"></Animation>
</Shimeji>`)

	if _, err := Load(path); err == nil {
		t.Error("Load accepted an animation with no frames")
	}
}

func TestLoadMissingImage(t *testing.T) {
	dir := t.TempDir()
	path := writeDefinition(t, dir, `
<Shimeji name="cat" width="8" height="8">
  <Animation name="idle" fps="10">
    <frame number="1" file="nope.png"/>
  </Animation>
</Shimeji>`)

	if _, err := Load(path); err == nil {
		t.Error("Load accepted a missing image file")
	}
}
