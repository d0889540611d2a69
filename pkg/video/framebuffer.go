// Package video owns the NES output framebuffer, decoupled from the PPU
// itself so headless tooling and the SDL-backed GUI share one pixel sink.
package video

const (
	Width  = 256
	Height = 240
)

// FrameBuffer is a pkg/ppu.Sink that stores one full frame as packed ARGB
// pixels, matching the PaletteManager's output format.
type FrameBuffer struct {
	pixels [Width * Height]uint32
}

// New creates a zeroed framebuffer (every pixel 0x00000000: black, alpha 0).
func New() *FrameBuffer {
	return &FrameBuffer{}
}

// SetPixel implements pkg/ppu.Sink.
func (f *FrameBuffer) SetPixel(x, y int, color uint32) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	f.pixels[y*Width+x] = color
}

// Raw returns the framebuffer as packed 0xAARRGGBB pixels, row-major.
func (f *FrameBuffer) Raw() []uint32 {
	return f.pixels[:]
}

// RGBA returns the framebuffer as interleaved R,G,B,A bytes, the layout an
// SDL streaming texture or PNG encoder expects.
func (f *FrameBuffer) RGBA() []uint8 {
	out := make([]uint8, Width*Height*4)
	for i, pixel := range f.pixels {
		out[i*4+0] = uint8(pixel >> 16) // R
		out[i*4+1] = uint8(pixel >> 8)  // G
		out[i*4+2] = uint8(pixel)       // B
		out[i*4+3] = uint8(pixel >> 24) // A
	}
	return out
}
