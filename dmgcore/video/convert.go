package video

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrEmptyPalette indicates conversion was attempted with no colors.
	ErrEmptyPalette = errors.New("empty palette")

	// ErrBadFrameSize indicates an index plane of the wrong length.
	ErrBadFrameSize = errors.New("frame buffer size mismatch")
)

// Convert builds a 160x144 8-bit indexed image from a raw index plane and
// the palette active at call time. The pixel bytes are used directly as the
// image's index plane; per-pixel color lookup is deferred to whoever
// materializes the image. Deterministic: same inputs, same image.
func Convert(pix []byte, palette Palette) (*image.Paletted, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	if len(pix) != FramebufferSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBadFrameSize, len(pix), FramebufferSize)
	}

	return &image.Paletted{
		Pix:     pix,
		Stride:  FramebufferWidth,
		Rect:    image.Rect(0, 0, FramebufferWidth, FramebufferHeight),
		Palette: palette.ColorTable(),
	}, nil
}
