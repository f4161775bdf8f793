package video

// Screen dimensions of the Game Boy LCD.
const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// FrameBuffer is one rendered screen's worth of palette indices, one byte
// per pixel. The engine writes it, the video publisher reads it.
type FrameBuffer struct {
	pixels []byte
}

// NewFrameBuffer creates a zeroed 160x144 frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		pixels: make([]byte, FramebufferSize),
	}
}

func (fb *FrameBuffer) GetPixel(x, y uint) byte {
	return fb.pixels[y*FramebufferWidth+x]
}

// SetPixel stores a palette index at the given coordinates.
func (fb *FrameBuffer) SetPixel(x, y uint, index byte) {
	fb.pixels[y*FramebufferWidth+x] = index
}

// Bytes returns the underlying index plane. Callers must not retain it
// across frames; use Snapshot for that.
func (fb *FrameBuffer) Bytes() []byte {
	return fb.pixels
}

// Snapshot returns a copy of the index plane, safe to hand to another
// goroutine while the engine keeps writing the buffer.
func (fb *FrameBuffer) Snapshot() []byte {
	out := make([]byte, len(fb.pixels))
	copy(out, fb.pixels)
	return out
}
