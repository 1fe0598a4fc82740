package surface

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/desksprite/desksprite/engine/window"
)

// Surface is one window-sized presentable pixel target. A Surface belongs to
// exactly one render unit and is only touched from that unit's worker.
type Surface interface {
	// Resize reconfigures the surface for a new framebuffer size. Zero
	// dimensions are ignored; minimized windows keep the old configuration.
	//
	// Parameters:
	//   - width: new width in pixels
	//   - height: new height in pixels
	Resize(width, height int)

	// Present uploads one RGBA frame and presents it. The frame is scaled to
	// the surface size if the dimensions differ.
	//
	// Parameters:
	//   - pixels: straight-alpha RGBA row-major pixel data
	//   - width: frame width in pixels
	//   - height: frame height in pixels
	//
	// Returns:
	//   - error: error if the swapchain texture could not be acquired
	Present(pixels []byte, width, height int) error

	// Clear presents a fully transparent frame.
	//
	// Returns:
	//   - error: error if the swapchain texture could not be acquired
	Clear() error

	// Release frees the native surface. The Surface is unusable afterwards.
	Release()
}

// Factory creates surfaces for windows. The Device implements it; tests
// substitute fakes.
type Factory interface {
	// CreateSurface creates a presentable surface for the given window.
	//
	// Parameters:
	//   - win: the window to present into
	//
	// Returns:
	//   - Surface: the configured surface
	//   - error: error if the surface could not be created or configured
	CreateSurface(win window.Window) (Surface, error)
}

// Device owns the shared wgpu instance, adapter, device and queue. One Device
// serves every surface in the process; surfaces created from it may live on
// different worker goroutines, wgpu objects are safe for concurrent use.
type Device struct {
	instance *wgpu.Instance

	once    sync.Once
	initErr error
	adapter *wgpu.Adapter
	device  *wgpu.Device
	queue   *wgpu.Queue
}

var _ Factory = &Device{}

// NewDevice creates the wgpu instance. Adapter and device acquisition is
// deferred to the first CreateSurface call so the adapter can be picked for
// compatibility with a real window surface.
//
// Returns:
//   - *Device: the device wrapper
func NewDevice() *Device {
	return &Device{instance: wgpu.CreateInstance(nil)}
}

// CreateSurface creates and configures a presentable surface for the window.
func (d *Device) CreateSurface(win window.Window) (Surface, error) {
	desc := win.SurfaceDescriptor()
	if desc == nil {
		return nil, fmt.Errorf("surface: window %d carries no native surface", win.ID())
	}

	s := d.instance.CreateSurface(desc)

	d.once.Do(func() {
		adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
			CompatibleSurface: s,
		})
		if err != nil {
			d.initErr = fmt.Errorf("surface: failed to acquire adapter: %w", err)
			return
		}
		device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
			Label:          "desksprite device",
			RequiredLimits: &wgpu.RequiredLimits{Limits: wgpu.DefaultLimits()},
		})
		if err != nil {
			d.initErr = fmt.Errorf("surface: failed to acquire device: %w", err)
			return
		}
		d.adapter = adapter
		d.device = device
		d.queue = device.GetQueue()
	})
	if d.initErr != nil {
		s.Release()
		return nil, d.initErr
	}

	width, height := win.Size()
	ws := &wgpuSurface{
		dev:     d,
		surface: s,
	}
	ws.configure(width, height)
	return ws, nil
}

// Release frees the device-level wgpu objects. Call after every surface has
// been released.
func (d *Device) Release() {
	if d.device != nil {
		d.device.Release()
		d.device = nil
		d.queue = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}
