package sprite

// DefaultClip is the clip a fresh render unit plays.
const DefaultClip = "idle"

// DefaultFPS is used when a clip declares no playback rate.
const DefaultFPS = 24.0

// Frame is one decoded animation cel: straight-alpha RGBA, row-major.
type Frame struct {
	Width  uint32
	Height uint32
	Pixels []byte
}

// Clip is one named animation: an ordered frame list played at a fixed rate.
type Clip struct {
	Name   string
	FPS    float64
	Frames []Frame
}

// Data is one loaded sprite definition. It is immutable after loading and is
// shared by pointer between the manager and every render unit spawned from
// it; concurrent reads are safe because nothing writes.
type Data struct {
	Name   string
	Width  uint32
	Height uint32
	Clips  map[string]*Clip
}

// Clip returns the named clip, or nil if the definition has no such clip.
//
// Parameters:
//   - name: the clip name to look up
//
// Returns:
//   - *Clip: the clip, or nil when absent
func (d *Data) Clip(name string) *Clip {
	if d == nil {
		return nil
	}
	return d.Clips[name]
}
