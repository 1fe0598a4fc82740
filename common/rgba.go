package common

import "fmt"

// BytesPerPixel is the size of one RGBA pixel in a decoded frame buffer.
const BytesPerPixel = 4

// Rgba is a single straight-alpha pixel in row-major frame buffers.
type Rgba struct {
	Red   uint8
	Green uint8
	Blue  uint8
	Alpha uint8
}

// NewRgba creates an Rgba pixel from its four channel values.
//
// Parameters:
//   - red, green, blue, alpha: channel values in the 0-255 range
//
// Returns:
//   - Rgba: the assembled pixel
func NewRgba(red, green, blue, alpha uint8) Rgba {
	return Rgba{Red: red, Green: green, Blue: blue, Alpha: alpha}
}

// Premultiplied returns the pixel with its color channels scaled by alpha.
// Compositors that honor window transparency expect premultiplied color,
// so frame buffers are converted once before upload.
//
// Returns:
//   - Rgba: the premultiplied pixel (fully transparent pixels collapse to zero)
func (p Rgba) Premultiplied() Rgba {
	if p.Alpha == 0 {
		return Rgba{}
	}
	if p.Alpha == 0xFF {
		return p
	}
	a := uint16(p.Alpha)
	return Rgba{
		Red:   uint8(uint16(p.Red) * a / 0xFF),
		Green: uint8(uint16(p.Green) * a / 0xFF),
		Blue:  uint8(uint16(p.Blue) * a / 0xFF),
		Alpha: p.Alpha,
	}
}

// String implements fmt.Stringer with fixed-width channels for log alignment.
func (p Rgba) String() string {
	return fmt.Sprintf("(r: %3d, g: %3d, b: %3d, a: %3d)", p.Red, p.Green, p.Blue, p.Alpha)
}

// PremultiplyRGBA scales the color channels of every pixel in an RGBA buffer
// by that pixel's alpha, writing the result into dst. dst and src may alias.
// Trailing bytes that do not form a whole pixel are copied untouched.
//
// Parameters:
//   - dst: destination buffer, must be at least len(src) bytes
//   - src: source RGBA row-major pixel data
func PremultiplyRGBA(dst, src []byte) {
	n := len(src) - len(src)%BytesPerPixel
	for i := 0; i < n; i += BytesPerPixel {
		p := NewRgba(src[i], src[i+1], src[i+2], src[i+3]).Premultiplied()
		dst[i], dst[i+1], dst[i+2], dst[i+3] = p.Red, p.Green, p.Blue, p.Alpha
	}
	copy(dst[n:], src[n:])
}

// RepackBGRA rewrites RGBA pixel data into BGRA channel order, for surfaces
// whose preferred swapchain format stores blue first. dst and src may alias.
//
// Parameters:
//   - dst: destination buffer, must be at least len(src) bytes
//   - src: source RGBA row-major pixel data
func RepackBGRA(dst, src []byte) {
	n := len(src) - len(src)%BytesPerPixel
	for i := 0; i < n; i += BytesPerPixel {
		r, g, b, a := src[i], src[i+1], src[i+2], src[i+3]
		dst[i], dst[i+1], dst[i+2], dst[i+3] = b, g, r, a
	}
	copy(dst[n:], src[n:])
}
