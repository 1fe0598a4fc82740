package main

import (
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/desksprite/desksprite/config"
	"github.com/desksprite/desksprite/engine/loader"
	"github.com/desksprite/desksprite/engine/manager"
	"github.com/desksprite/desksprite/engine/surface"
	"github.com/desksprite/desksprite/engine/window"
)

func init() {
	// The window system and its event loop live on the main thread.
	runtime.LockOSThread()
}

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	sys, err := window.NewSystem()
	if err != nil {
		slog.Error("failed to start window system", "error", err)
		os.Exit(1)
	}
	defer sys.Terminate()

	dev := surface.NewDevice()
	defer dev.Release()

	mgr := manager.New(cfg.PoolSize, dev)
	defer mgr.Close()

	for _, entry := range cfg.Sprites {
		data, err := loader.Load(entry.File)
		if err != nil {
			slog.Error("failed to load sprite definition", "file", entry.File, "error", err)
			os.Exit(1)
		}
		for i := 0; i < entry.Count; i++ {
			mgr.AddSprite(data)
		}
	}

	var watcher *loader.Watcher
	if cfg.WatchDir != "" {
		watcher, err = loader.NewWatcher(cfg.WatchDir)
		if err != nil {
			slog.Error("failed to watch sprite directory", "dir", cfg.WatchDir, "error", err)
			os.Exit(1)
		}
		defer watcher.Close()
		slog.Info("watching for sprite definitions", "dir", cfg.WatchDir)
	}

	sys.SetResizeCallback(func(id window.ID, width, height int) {
		if err := mgr.RouteResize(id, width, height); err != nil {
			slog.Warn("resize not routed", "window", id, "error", err)
		}
	})
	sys.SetCloseCallback(func(id window.ID) {
		if err := mgr.RouteClose(id); err != nil {
			slog.Warn("close not routed", "window", id, "error", err)
		}
	})

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		slog.Info("shutting down", "signal", sig)
		mgr.Shutdown()
		sys.Wake()
	}()

	for !mgr.ShouldExit() {
		if mgr.PendingCount() > 0 {
			if err := mgr.AddressPending(sys); err != nil {
				slog.Error("sprite placement failed", "error", err)
			}
		}
		if watcher != nil {
			drainWatcher(watcher, mgr)
		}
		sys.Wait(250 * time.Millisecond)
	}
}

// drainWatcher moves everything the watcher has produced so far into the
// manager without blocking the event loop.
func drainWatcher(w *loader.Watcher, mgr manager.Manager) {
	for {
		select {
		case data, ok := <-w.Sprites:
			if !ok {
				return
			}
			slog.Info("hot-adding sprite", "sprite", data.Name)
			mgr.AddSprite(data)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			slog.Warn("sprite watcher error", "error", err)
		default:
			return
		}
	}
}
