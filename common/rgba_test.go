package common

import (
	"bytes"
	"testing"
)

func TestPremultiplied(t *testing.T) {
	tests := []struct {
		name string
		in   Rgba
		want Rgba
	}{
		{"opaque unchanged", NewRgba(200, 100, 50, 255), NewRgba(200, 100, 50, 255)},
		{"transparent collapses", NewRgba(200, 100, 50, 0), Rgba{}},
		{"half alpha scales", NewRgba(200, 100, 50, 128), NewRgba(100, 50, 25, 128)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Premultiplied(); got != tt.want {
				t.Errorf("Premultiplied() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPremultiplyRGBAInPlace(t *testing.T) {
	buf := []byte{200, 100, 50, 128, 10, 20, 30, 0}
	PremultiplyRGBA(buf, buf)
	want := []byte{100, 50, 25, 128, 0, 0, 0, 0}
	if !bytes.Equal(buf, want) {
		t.Errorf("buffer = %v, want %v", buf, want)
	}
}

func TestRepackBGRA(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	dst := make([]byte, len(src))
	RepackBGRA(dst, src)
	want := []byte{3, 2, 1, 4, 7, 6, 5, 8}
	if !bytes.Equal(dst, want) {
		t.Errorf("dst = %v, want %v", dst, want)
	}

	// Aliased buffers swap correctly too.
	RepackBGRA(src, src)
	if !bytes.Equal(src, want) {
		t.Errorf("in-place = %v, want %v", src, want)
	}
}

func TestPremultiplyRGBATrailingBytes(t *testing.T) {
	buf := []byte{200, 100, 50, 128, 9, 9}
	PremultiplyRGBA(buf, buf)
	if buf[4] != 9 || buf[5] != 9 {
		t.Errorf("trailing bytes modified: %v", buf)
	}
}
