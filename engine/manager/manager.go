package manager

import (
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/desksprite/desksprite/engine/bucket"
	"github.com/desksprite/desksprite/engine/sprite"
	"github.com/desksprite/desksprite/engine/surface"
	"github.com/desksprite/desksprite/engine/window"
	"github.com/google/uuid"
)

// UnknownWindowRouteError reports a window event that matched no bucket. The
// caller decides whether that is fatal; the manager never swallows it.
type UnknownWindowRouteError struct {
	WindowID window.ID
}

func (e *UnknownWindowRouteError) Error() string {
	return fmt.Sprintf("manager: no bucket routes window %d", e.WindowID)
}

// Manager distributes sprites across a fixed pool of bucket workers and
// routes window events back to whichever worker owns the window.
//
// All methods are called from the single controlling goroutine that runs the
// event loop; the Manager adds no locking of its own.
type Manager interface {
	// AddSprite queues a sprite for placement. Placement is deferred until
	// AddressPending so window creation happens on the event thread.
	//
	// Parameters:
	//   - data: the loaded animation definition
	AddSprite(data *sprite.Data)

	// PendingCount returns how many sprites await placement.
	PendingCount() int

	// AddressPending places every pending sprite: creates its window, picks
	// the least-loaded bucket from a snapshot taken on entry, and hands the
	// window over. Must be called on the window system's event thread.
	//
	// Parameters:
	//   - windows: the factory used to create one window per sprite
	//
	// Returns:
	//   - error: the first placement failure; unplaced sprites stay queued
	AddressPending(windows window.Factory) error

	// RouteResize forwards a window resize to the owning bucket.
	//
	// Returns:
	//   - error: *UnknownWindowRouteError if no bucket owns the window
	RouteResize(id window.ID, width, height int) error

	// RouteClose removes the sprite in the identified window and drops its
	// route.
	//
	// Returns:
	//   - error: *UnknownWindowRouteError if no bucket owns the window
	RouteClose(id window.ID) error

	// ShouldExit reports whether shutdown has been requested.
	ShouldExit() bool

	// Shutdown raises the shared exit flag. Workers observe it on their next
	// pass; Close performs the actual join.
	Shutdown()

	// Close joins every bucket worker. Idempotent.
	Close()
}

type manager struct {
	exit     *atomic.Bool
	buckets  []*bucket.Bucket
	pending  []pendingSprite
	routes   map[window.ID]*bucket.Bucket
	surfaces surface.Factory
}

// pendingSprite is one queued placement, traced so its log lines correlate.
type pendingSprite struct {
	trace uuid.UUID
	data  *sprite.Data
}

var _ Manager = &manager{}

// New creates a manager with poolSize running bucket workers.
//
// Panics when poolSize is zero or any worker fails to start; there is no
// useful degraded mode with a partial pool.
//
// Parameters:
//   - poolSize: number of bucket workers, must be at least 1
//   - surfaces: factory handed to every bucket for surface creation
//   - options: functional options to further configure the manager
//
// Returns:
//   - Manager: the manager with its pool already running
func New(poolSize int, surfaces surface.Factory, options ...BuilderOption) Manager {
	if poolSize < 1 {
		panic("manager: pool size must be at least 1")
	}

	m := &manager{
		exit:     &atomic.Bool{},
		routes:   make(map[window.ID]*bucket.Bucket),
		surfaces: surfaces,
	}
	for _, opt := range options {
		opt(m)
	}

	for i := 0; i < poolSize; i++ {
		b := bucket.New(i, m.exit, m.surfaces)
		if err := b.Init(); err != nil {
			panic(fmt.Sprintf("manager: failed to start bucket %d: %v", i, err))
		}
		m.buckets = append(m.buckets, b)
	}
	slog.Info("manager: bucket pool started", "size", poolSize)
	return m
}

func (m *manager) AddSprite(data *sprite.Data) {
	p := pendingSprite{trace: uuid.New(), data: data}
	m.pending = append(m.pending, p)
	slog.Debug("manager: sprite queued", "trace", p.trace, "sprite", data.Name)
}

func (m *manager) PendingCount() int {
	return len(m.pending)
}

func (m *manager) AddressPending(windows window.Factory) error {
	if len(m.pending) == 0 {
		return nil
	}

	// Load snapshot: bucket indices ordered by (count, id) once, then cycled.
	// Counts are not re-read mid-drain; a burst of sprites spreads round-robin
	// from the least-loaded bucket onward.
	order := make([]int, len(m.buckets))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ba, bb := m.buckets[order[a]], m.buckets[order[b]]
		if ba.Count() != bb.Count() {
			return ba.Count() < bb.Count()
		}
		return ba.ID() < bb.ID()
	})

	cursor := 0
	for len(m.pending) > 0 {
		p := m.pending[len(m.pending)-1]
		m.pending = m.pending[:len(m.pending)-1]

		b := m.buckets[order[cursor%len(order)]]
		cursor++

		win, err := windows.CreateWindow(int(p.data.Width), int(p.data.Height))
		if err != nil {
			m.pending = append(m.pending, p)
			return fmt.Errorf("manager: window creation failed for sprite %q: %w", p.data.Name, err)
		}
		if err := b.Add(win, p.data); err != nil {
			win.Destroy()
			m.pending = append(m.pending, p)
			return fmt.Errorf("manager: bucket %d rejected sprite %q: %w", b.ID(), p.data.Name, err)
		}
		m.routes[win.ID()] = b
		slog.Info("manager: sprite placed",
			"trace", p.trace, "sprite", p.data.Name, "bucket", b.ID(), "window", win.ID())
	}
	return nil
}

func (m *manager) RouteResize(id window.ID, width, height int) error {
	b, ok := m.routes[id]
	if !ok {
		return &UnknownWindowRouteError{WindowID: id}
	}
	return b.WasResized(id, width, height)
}

func (m *manager) RouteClose(id window.ID) error {
	b, ok := m.routes[id]
	if !ok {
		return &UnknownWindowRouteError{WindowID: id}
	}
	delete(m.routes, id)
	return b.Remove(id)
}

func (m *manager) ShouldExit() bool {
	return m.exit.Load()
}

func (m *manager) Shutdown() {
	m.exit.Store(true)
}

func (m *manager) Close() {
	m.exit.Store(true)
	for _, b := range m.buckets {
		b.JoinThread()
	}
	slog.Info("manager: bucket pool stopped")
}
