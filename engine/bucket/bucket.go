package bucket

import (
	"sync/atomic"

	"github.com/desksprite/desksprite/engine/sprite"
	"github.com/desksprite/desksprite/engine/surface"
	"github.com/desksprite/desksprite/engine/window"
)

// inboxDepth bounds how many commands can queue ahead of a busy worker.
const inboxDepth = 256

// Bucket owns one worker goroutine driving a handful of sprites. The manager
// talks to the worker exclusively through the bucket's inbox; the worker owns
// every window and surface handed to it until removal or shutdown.
//
// A Bucket is operated by a single controlling goroutine (the manager's).
// Only the worker side of the channels is concurrent with it.
type Bucket struct {
	id      int
	running bool
	inbox   chan message
	done    chan struct{}
	exit    *atomic.Bool

	// count tracks sprites optimistically from the control side: incremented
	// when an add is sent, decremented when a remove is sent. The worker's
	// real unit count trails it by whatever is still queued.
	count int

	surfaces surface.Factory
}

// New creates an idle bucket. Call Init to start its worker.
//
// Parameters:
//   - id: the bucket's identity, unique within its manager
//   - exit: the shared shutdown flag polled by the worker
//   - surfaces: factory the worker uses to create a surface per added window
//
// Returns:
//   - *Bucket: the bucket, not yet running
func New(id int, exit *atomic.Bool, surfaces surface.Factory) *Bucket {
	return &Bucket{id: id, exit: exit, surfaces: surfaces}
}

// ID returns the bucket's identity.
func (b *Bucket) ID() int {
	return b.id
}

// IsRunning reports whether the worker has been started and not yet joined.
func (b *Bucket) IsRunning() bool {
	return b.running
}

// Count returns the control-side sprite count used for load balancing.
func (b *Bucket) Count() int {
	return b.count
}

// Equal reports bucket identity, which is the id alone.
//
// Parameters:
//   - other: the bucket to compare against
//
// Returns:
//   - bool: true when both buckets carry the same id
func (b *Bucket) Equal(other *Bucket) bool {
	return other != nil && b.id == other.id
}

// Init starts the bucket's worker goroutine.
//
// Returns:
//   - error: ErrDoubleInit if the worker is already running
func (b *Bucket) Init() error {
	if b.running {
		return ErrDoubleInit
	}
	b.inbox = make(chan message, inboxDepth)
	b.done = make(chan struct{})
	b.running = true
	go runWorker(b.id, b.inbox, b.done, b.exit, b.surfaces)
	return nil
}

// send delivers a message to the worker, degrading to ErrNotRunning if the
// worker exits while the inbox is full.
func (b *Bucket) send(m message) error {
	if !b.running {
		return ErrNotRunning
	}
	select {
	case b.inbox <- m:
		return nil
	case <-b.done:
		return ErrNotRunning
	}
}

// Add transfers a window and its animation data to the worker. On success the
// bucket's count is incremented immediately, before the worker has
// necessarily constructed the unit.
//
// Parameters:
//   - win: the window, ownership transfers on success
//   - data: the shared animation definition
//
// Returns:
//   - error: ErrNotRunning when the worker is stopped or gone
func (b *Bucket) Add(win window.Window, data *sprite.Data) error {
	if err := b.send(addMessage{win: win, data: data}); err != nil {
		return err
	}
	b.count++
	return nil
}

// WasResized notifies the worker that the identified window changed size.
//
// Parameters:
//   - id: the resized window
//   - width: new width in pixels
//   - height: new height in pixels
//
// Returns:
//   - error: ErrNotRunning when the worker is stopped or gone
func (b *Bucket) WasResized(id window.ID, width, height int) error {
	return b.send(resizedMessage{id: id, width: width, height: height})
}

// Remove asks the worker to tear down the identified sprite. The count is
// decremented at send time, mirroring Add's optimism.
//
// Parameters:
//   - id: the window whose sprite should go away
//
// Returns:
//   - error: ErrNotRunning when the worker is stopped or gone
func (b *Bucket) Remove(id window.ID) error {
	if err := b.send(removeMessage{id: id}); err != nil {
		return err
	}
	if b.count > 0 {
		b.count--
	}
	return nil
}

// JoinThread closes the inbox so a blocked worker wakes, then waits for the
// worker to finish. Idempotent; joining a never-started bucket is a no-op.
func (b *Bucket) JoinThread() {
	if b.inbox != nil {
		close(b.inbox)
		b.inbox = nil
	}
	if b.done != nil {
		<-b.done
		b.done = nil
	}
	b.running = false
}

// Close requests shutdown via the shared exit flag and joins the worker.
func (b *Bucket) Close() {
	b.exit.Store(true)
	b.JoinThread()
}
