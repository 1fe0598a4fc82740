package surface

import (
	"image"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/desksprite/desksprite/common"
	"golang.org/x/image/draw"
)

// wgpuSurface presents CPU-side RGBA frames by writing them straight into the
// swapchain texture. No render pass is needed; the surface is configured with
// CopyDst usage and frames arrive pre-rendered.
type wgpuSurface struct {
	dev     *Device
	surface *wgpu.Surface

	mu       sync.Mutex
	width    int
	height   int
	swapBGRA bool
	scratch  []byte
	released bool
}

var _ Surface = &wgpuSurface{}

// configure (re)configures the swapchain. Prefers a plain RGBA format so
// frames upload without conversion; BGRA-only surfaces get a channel repack
// on every present instead.
func (s *wgpuSurface) configure(width, height int) {
	capabilities := s.surface.GetCapabilities(s.dev.adapter)

	format := capabilities.Formats[0]
	for _, f := range capabilities.Formats {
		if f == wgpu.TextureFormatRGBA8Unorm {
			format = f
			break
		}
	}
	s.swapBGRA = format == wgpu.TextureFormatBGRA8Unorm || format == wgpu.TextureFormatBGRA8UnormSrgb

	s.surface.Configure(s.dev.adapter, s.dev.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopyDst,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	s.width, s.height = width, height
}

func (s *wgpuSurface) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released || (width == s.width && height == s.height) {
		return
	}
	s.configure(width, height)
}

func (s *wgpuSurface) Present(pixels []byte, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}

	src := pixels
	if width != s.width || height != s.height {
		src = s.scale(pixels, width, height)
	}

	need := s.width * s.height * common.BytesPerPixel
	if cap(s.scratch) < need {
		s.scratch = make([]byte, need)
	}
	out := s.scratch[:need]
	common.PremultiplyRGBA(out, src[:need])
	if s.swapBGRA {
		common.RepackBGRA(out, out)
	}

	tex, err := s.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	s.dev.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		out,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(s.width * common.BytesPerPixel),
			RowsPerImage: uint32(s.height),
		},
		&wgpu.Extent3D{
			Width:              uint32(s.width),
			Height:             uint32(s.height),
			DepthOrArrayLayers: 1,
		},
	)
	s.dev.queue.Submit()
	s.surface.Present()
	tex.Release()
	return nil
}

func (s *wgpuSurface) Clear() error {
	s.mu.Lock()
	width, height := s.width, s.height
	s.mu.Unlock()
	return s.Present(make([]byte, width*height*common.BytesPerPixel), width, height)
}

func (s *wgpuSurface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	s.surface.Release()
}

// scale resizes a frame to the surface dimensions with nearest-neighbor
// sampling, keeping pixel art crisp.
func (s *wgpuSurface) scale(pixels []byte, width, height int) []byte {
	src := &image.RGBA{
		Pix:    pixels,
		Stride: width * common.BytesPerPixel,
		Rect:   image.Rect(0, 0, width, height),
	}
	dst := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	draw.NearestNeighbor.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
	return dst.Pix
}
