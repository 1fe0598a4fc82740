package window

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// nextID hands out process-unique window identifiers.
var nextID atomic.Uint64

// System owns the GLFW library state and the event thread's operation queue.
//
// GLFW confines window creation, event polling, and most window mutations to
// the thread that initialized it. The System therefore exposes a small op
// queue: any goroutine may post a closure, and the event thread drains the
// queue inside Wait. PostEmptyEvent is the only GLFW call made off-thread,
// which the GLFW docs explicitly allow.
//
// Reference: https://www.glfw.org/docs/latest/intro_guide.html#thread_safety
type System struct {
	ops chan func()

	onResize func(id ID, width, height int)
	onClose  func(id ID)
}

var _ Factory = &System{}

// NewSystem initializes GLFW. Must be called on a goroutine locked to the
// main OS thread; that same goroutine must pump Wait for the lifetime of the
// system.
//
// Returns:
//   - *System: the initialized window system
//   - error: ErrSpawnFailure-wrapped error if GLFW could not be initialized
func NewSystem() (*System, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawnFailure, err)
	}
	return &System{ops: make(chan func(), 64)}, nil
}

// SetResizeCallback sets the function called when any overlay window's
// framebuffer is resized.
//
// Parameters:
//   - callback: function receiving the window id and new size in pixels
func (s *System) SetResizeCallback(callback func(id ID, width, height int)) {
	s.onResize = callback
}

// SetCloseCallback sets the function called when the platform requests any
// overlay window be closed.
//
// Parameters:
//   - callback: function receiving the window id
func (s *System) SetCloseCallback(callback func(id ID)) {
	s.onClose = callback
}

// CreateWindow creates a hidden overlay window: undecorated, floating above
// normal windows, with a transparent framebuffer, and configured to never
// steal focus. GLFW 3.3 has no mouse-passthrough attribute, so click-through
// is approximated by keeping the window unfocusable and ignoring all input.
func (s *System) CreateWindow(width, height int, options ...CreateOption) (Window, error) {
	cfg := createConfig{title: "desksprite"}
	for _, opt := range options {
		opt(&cfg)
	}

	// Overlay surfaces are presented through wgpu, so no client API context.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Decorated, glfw.False)
	glfw.WindowHint(glfw.Floating, glfw.True)
	glfw.WindowHint(glfw.TransparentFramebuffer, glfw.True)
	glfw.WindowHint(glfw.FocusOnShow, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, cfg.title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create overlay window: %w", err)
	}

	ew := &overlayWindow{
		sys: s,
		win: win,
		id:  ID(nextID.Add(1)),
		// The descriptor only wraps native handles, but extracting them is a
		// platform call, so capture it here on the event thread.
		desc:   wgpuglfw.GetSurfaceDescriptor(win),
		width:  width,
		height: height,
	}

	fbWidth, fbHeight := win.GetFramebufferSize()
	ew.width, ew.height = fbWidth, fbHeight

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		ew.mu.Lock()
		ew.width, ew.height = w, h
		ew.mu.Unlock()
		if s.onResize != nil {
			s.onResize(ew.id, w, h)
		}
	})
	win.SetCloseCallback(func(_ *glfw.Window) {
		if s.onClose != nil {
			s.onClose(ew.id)
		}
	})

	return ew, nil
}

// Post schedules fn to run on the event thread during the next Wait. Safe to
// call from any goroutine. If the queue is full the op is dropped with a log
// entry, which only happens when the event loop has already stopped pumping.
//
// Parameters:
//   - fn: closure to run on the event thread
func (s *System) Post(fn func()) {
	select {
	case s.ops <- fn:
		glfw.PostEmptyEvent()
	default:
		slog.Debug("window: op queue full, dropping posted op")
	}
}

// Wake interrupts a blocking Wait from any goroutine.
func (s *System) Wake() {
	glfw.PostEmptyEvent()
}

// Wait processes platform events for at most the given duration, then drains
// the op queue. Callbacks registered via SetResizeCallback/SetCloseCallback
// fire from inside this call. Must be called on the event thread.
//
// Parameters:
//   - timeout: maximum time to block waiting for events
func (s *System) Wait(timeout time.Duration) {
	glfw.WaitEventsTimeout(timeout.Seconds())
	for {
		select {
		case fn := <-s.ops:
			fn()
		default:
			return
		}
	}
}

// Terminate drains any remaining ops and shuts GLFW down, destroying every
// window that is still alive. Must be called on the event thread, last.
func (s *System) Terminate() {
	for {
		select {
		case fn := <-s.ops:
			fn()
		default:
			glfw.Terminate()
			return
		}
	}
}

// overlayWindow is the GLFW implementation of the Window interface.
type overlayWindow struct {
	sys  *System
	win  *glfw.Window
	id   ID
	desc *wgpu.SurfaceDescriptor

	mu      sync.Mutex
	width   int
	height  int
	visible bool

	destroyOnce sync.Once
}

var _ Window = &overlayWindow{}

func (w *overlayWindow) ID() ID {
	return w.id
}

func (w *overlayWindow) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *overlayWindow) SetInnerSize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	w.sys.Post(func() {
		w.win.SetSize(width, height)
	})
}

func (w *overlayWindow) Show() {
	w.mu.Lock()
	if w.visible {
		w.mu.Unlock()
		return
	}
	w.visible = true
	w.mu.Unlock()
	w.sys.Post(func() {
		w.win.Show()
	})
}

func (w *overlayWindow) Hide() {
	w.mu.Lock()
	if !w.visible {
		w.mu.Unlock()
		return
	}
	w.visible = false
	w.mu.Unlock()
	w.sys.Post(func() {
		w.win.Hide()
	})
}

func (w *overlayWindow) Destroy() {
	w.destroyOnce.Do(func() {
		w.sys.Post(func() {
			w.win.Destroy()
		})
	})
}

func (w *overlayWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return w.desc
}
