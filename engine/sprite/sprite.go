package sprite

import (
	"log/slog"
	"time"

	"github.com/desksprite/desksprite/engine/surface"
	"github.com/desksprite/desksprite/engine/window"
)

// Unit is one on-screen sprite: a window, its surface, and playback state.
// A Unit lives on exactly one bucket worker and is never shared.
type Unit struct {
	win  window.Window
	surf surface.Surface
	data *Data

	activeClip   string
	frame        uint32 // 1-based cursor into the active clip, 0 = not started
	lastRendered time.Time
}

// New creates a render unit for the given window and animation data. The
// window is sized to the definition's native dimensions, cleared to
// transparent, and shown.
//
// Parameters:
//   - win: the overlay window, ownership transfers to the unit
//   - surf: the window's surface, ownership transfers to the unit
//   - data: the shared animation definition
//
// Returns:
//   - *Unit: the unit, ready for Update calls
func New(win window.Window, surf surface.Surface, data *Data) *Unit {
	win.SetInnerSize(int(data.Width), int(data.Height))
	if err := surf.Clear(); err != nil {
		slog.Debug("sprite: initial clear failed", "window", win.ID(), "error", err)
	}
	win.Show()
	return &Unit{
		win:          win,
		surf:         surf,
		data:         data,
		activeClip:   DefaultClip,
		lastRendered: time.Now(),
	}
}

// WindowID returns the id of the unit's window, used for message routing.
func (u *Unit) WindowID() window.ID {
	return u.win.ID()
}

// SetClip switches playback to the named clip and rewinds the cursor. An
// unknown name is accepted; Update simply idles until the clip exists.
//
// Parameters:
//   - name: the clip to play
func (u *Unit) SetClip(name string) {
	if name == u.activeClip {
		return
	}
	u.activeClip = name
	u.frame = 0
}

// Update advances playback by at most one frame. Pacing is checked, not
// scheduled: if less than one frame interval has elapsed since the last
// render this is a no-op, and time owed beyond one interval is not caught up.
func (u *Unit) Update() {
	clip := u.data.Clip(u.activeClip)
	if clip == nil || len(clip.Frames) == 0 {
		return
	}

	fps := clip.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	interval := time.Duration(float64(time.Second) / fps)
	if time.Since(u.lastRendered) < interval {
		return
	}

	// An unset cursor recovers as 1 before advancing, so the first render of
	// a clip shows its second frame (or wraps straight back on a one-framer).
	cur := u.frame
	if cur == 0 {
		cur = 1
	}
	next := cur + 1
	if next > uint32(len(clip.Frames)) {
		next = 1
	}
	u.frame = next

	f := clip.Frames[next-1]
	if err := u.surf.Present(f.Pixels, int(f.Width), int(f.Height)); err != nil {
		slog.Debug("sprite: present failed", "window", u.win.ID(), "error", err)
	}
	u.win.Show()
	u.lastRendered = time.Now()
}

// Resize reconfigures the unit's surface for a new window size.
//
// Parameters:
//   - width: new width in pixels
//   - height: new height in pixels
func (u *Unit) Resize(width, height int) {
	u.surf.Resize(width, height)
}

// Close releases the surface and destroys the window. The unit must not be
// used afterwards.
func (u *Unit) Close() {
	u.surf.Release()
	u.win.Destroy()
}
