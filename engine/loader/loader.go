package loader

import (
	"encoding/xml"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/desksprite/desksprite/engine/sprite"
	"golang.org/x/image/draw"
)

// MissingAttributeError reports a required attribute absent from a sprite
// definition file.
type MissingAttributeError struct {
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("loader: missing required attribute %q", e.Attribute)
}

var (
	decodePoolOnce sync.Once
	decodePoolInst worker.DynamicWorkerPool
)

// decodePool returns the shared frame-decoding pool, created on first use.
// The pool is retained for the process lifetime; idle workers reap themselves
// after the idle timeout between loads.
func decodePool() worker.DynamicWorkerPool {
	decodePoolOnce.Do(func() {
		decodePoolInst = worker.NewDynamicWorkerPool(max(runtime.NumCPU()-1, 1), 256, 1*time.Second)
	})
	return decodePoolInst
}

// spriteXML mirrors the sprite definition file layout:
//
//	<Shimeji name="..." width="64" height="64">
//	  <Animation name="idle" fps="12">
//	    <frame number="1" file="idle-1.png"/>
//	  </Animation>
//	</Shimeji>
type spriteXML struct {
	XMLName    xml.Name       `xml:"Shimeji"`
	Name       string         `xml:"name,attr"`
	Width      uint32         `xml:"width,attr"`
	Height     uint32         `xml:"height,attr"`
	Animations []animationXML `xml:"Animation"`
}

type animationXML struct {
	Name   string     `xml:"name,attr"`
	FPS    float64    `xml:"fps,attr"`
	Frames []frameXML `xml:"frame"`
}

type frameXML struct {
	Number uint32 `xml:"number,attr"`
	File   string `xml:"file,attr"`
}

// Load reads a sprite definition XML and decodes every referenced frame
// image. Frame decoding fans out over a worker pool; results land in frame
// order regardless of completion order. Image paths resolve relative to the
// definition file.
//
// Parameters:
//   - path: the definition file to load
//
// Returns:
//   - *sprite.Data: the immutable, fully decoded definition
//   - error: parse, validation, or image decoding failure
func Load(path string) (*sprite.Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to read %s: %w", path, err)
	}

	var def spriteXML
	if err := xml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("loader: failed to parse %s: %w", path, err)
	}
	if def.Name == "" {
		return nil, &MissingAttributeError{Attribute: "name"}
	}
	if def.Width == 0 {
		return nil, &MissingAttributeError{Attribute: "width"}
	}
	if def.Height == 0 {
		return nil, &MissingAttributeError{Attribute: "height"}
	}
	if len(def.Animations) == 0 {
		return nil, fmt.Errorf("loader: %s declares no animations", path)
	}

	dir := filepath.Dir(path)
	pool := decodePool()

	data := &sprite.Data{
		Name:   def.Name,
		Width:  def.Width,
		Height: def.Height,
		Clips:  make(map[string]*sprite.Clip, len(def.Animations)),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	taskID := 0

	for _, anim := range def.Animations {
		if anim.Name == "" {
			return nil, &MissingAttributeError{Attribute: "name"}
		}
		if len(anim.Frames) == 0 {
			return nil, fmt.Errorf("loader: animation %q in %s has no frames", anim.Name, path)
		}

		frames := make([]frameXML, len(anim.Frames))
		copy(frames, anim.Frames)
		sort.SliceStable(frames, func(a, b int) bool {
			return frames[a].Number < frames[b].Number
		})

		clip := &sprite.Clip{
			Name:   anim.Name,
			FPS:    anim.FPS,
			Frames: make([]sprite.Frame, len(frames)),
		}
		if clip.FPS <= 0 {
			clip.FPS = sprite.DefaultFPS
		}
		data.Clips[anim.Name] = clip

		for i, f := range frames {
			wg.Add(1)
			slot := &clip.Frames[i]
			file := filepath.Join(dir, f.File)
			id := taskID
			taskID++
			pool.SubmitTask(worker.Task{
				ID: id,
				Do: func() (any, error) {
					defer wg.Done()
					frame, err := decodeFrame(file)
					if err != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						mu.Unlock()
						return nil, err
					}
					*slot = frame
					return nil, nil
				},
			})
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return data, nil
}

// decodeFrame reads one PNG and converts it to a straight-alpha RGBA buffer.
func decodeFrame(path string) (sprite.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return sprite.Frame{}, fmt.Errorf("loader: missing image file %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return sprite.Frame{}, fmt.Errorf("loader: failed to decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Rect, img, bounds.Min, draw.Src)

	return sprite.Frame{
		Width:  uint32(rgba.Rect.Dx()),
		Height: uint32(rgba.Rect.Dy()),
		Pixels: rgba.Pix,
	}, nil
}
