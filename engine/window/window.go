package window

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrSpawnFailure indicates the window system could not be brought up at all.
// It is fatal to startup; there is no partial window system.
var ErrSpawnFailure = errors.New("window: system init failed")

// ID uniquely identifies one overlay window for the lifetime of the process.
// IDs are usable as map keys and never reused.
type ID uint64

// Window is one borderless, always-on-top overlay window.
//
// A Window is created on the controlling thread and then handed off, whole,
// to exactly one bucket worker. After the handoff the controlling thread must
// not touch it; mutations requested by the worker are marshalled back onto
// the event thread internally.
type Window interface {
	// ID returns the window's process-unique identifier.
	ID() ID

	// Size returns the current framebuffer size in pixels.
	Size() (width, height int)

	// SetInnerSize requests the window be resized to the given pixel size.
	//
	// Parameters:
	//   - width: requested width in pixels
	//   - height: requested height in pixels
	SetInnerSize(width, height int)

	// Show makes the window visible. No-op if already visible.
	Show()

	// Hide makes the window invisible. No-op if already hidden.
	Hide()

	// Destroy releases the native window. Safe to call more than once.
	Destroy()

	// SurfaceDescriptor returns the platform surface descriptor captured when
	// the window was created, or nil if the window carries no native surface.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: descriptor for creating a presentable surface
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// Factory creates overlay windows on demand. The window system implements it;
// tests substitute fakes.
type Factory interface {
	// CreateWindow creates a new hidden overlay window of the given pixel size.
	// Must be called on the thread running the window system's event loop.
	//
	// Parameters:
	//   - width: initial width in pixels
	//   - height: initial height in pixels
	//   - options: functional options to further configure the window
	//
	// Returns:
	//   - Window: the created window
	//   - error: error if the native window could not be created
	CreateWindow(width, height int, options ...CreateOption) (Window, error)
}
