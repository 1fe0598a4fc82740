package bucket

import (
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/desksprite/desksprite/engine/sprite"
	"github.com/desksprite/desksprite/engine/surface"
)

// runWorker is the body of a bucket's goroutine. The worker blocks on its
// inbox while it has nothing to animate and free-runs through its units
// otherwise, draining queued commands between passes. The exit flag is
// checked at every blocking boundary and once per pass.
//
// The goroutine is locked to an OS thread: surfaces are created and presented
// here, and GPU backends care which thread talks to them.
func runWorker(id int, inbox <-chan message, done chan struct{}, exit *atomic.Bool, surfaces surface.Factory) {
	runtime.LockOSThread()

	var units []*sprite.Unit
	defer func() {
		if r := recover(); r != nil {
			slog.Error("bucket: worker panicked", "bucket", id, "panic", r)
		}
		for i := len(units) - 1; i >= 0; i-- {
			units[i].Close()
		}
		close(done)
	}()

	handle := func(m message) {
		switch msg := m.(type) {
		case addMessage:
			surf, err := surfaces.CreateSurface(msg.win)
			if err != nil {
				slog.Error("bucket: surface creation failed, dropping sprite",
					"bucket", id, "window", msg.win.ID(), "error", err)
				msg.win.Destroy()
				return
			}
			units = append(units, sprite.New(msg.win, surf, msg.data))
			slog.Debug("bucket: sprite added", "bucket", id, "window", msg.win.ID(), "units", len(units))
		case resizedMessage:
			for _, u := range units {
				if u.WindowID() == msg.id {
					u.Resize(msg.width, msg.height)
					return
				}
			}
			slog.Warn("bucket: resize for unknown window", "bucket", id, "window", msg.id)
		case removeMessage:
			for i, u := range units {
				if u.WindowID() == msg.id {
					u.Close()
					units[i] = units[len(units)-1]
					units = units[:len(units)-1]
					slog.Debug("bucket: sprite removed", "bucket", id, "window", msg.id, "units", len(units))
					return
				}
			}
			slog.Warn("bucket: remove for unknown window", "bucket", id, "window", msg.id)
		}
	}

	for !exit.Load() {
		// Nothing to animate: block until a command arrives or the inbox is
		// closed out from under us.
		m, ok := <-inbox
		if !ok {
			return
		}
		if _, isAdd := m.(addMessage); !isAdd {
			slog.Warn("bucket: dropping command for empty bucket", "bucket", id)
			continue
		}
		handle(m)

		for {
			if exit.Load() {
				return
			}
			// Drain everything queued before spending time on rendering.
		drain:
			for {
				select {
				case m, ok := <-inbox:
					if !ok {
						return
					}
					handle(m)
				default:
					break drain
				}
			}
			if len(units) == 0 {
				break
			}
			for _, u := range units {
				u.Update()
				runtime.Gosched()
			}
		}
	}
}
