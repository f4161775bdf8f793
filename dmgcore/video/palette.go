package video

import "image/color"

// Palette is an ordered table of packed colors referenced by framebuffer
// indices. Each entry carries three significant bytes, low byte blue, then
// green, then red, so a hex literal reads 0xRRGGBB.
type Palette []uint32

// Classic palettes, index 0 = lightest shade.
var (
	// DMGPalette approximates the original hardware's green tones.
	DMGPalette = Palette{0xE0F8D0, 0x88C070, 0x346856, 0x081820}

	// GrayscalePalette maps the four shades to plain grays.
	GrayscalePalette = Palette{0xFFFFFF, 0xAAAAAA, 0x555555, 0x000000}
)

// ColorTable converts the packed entries into an RGBA color table,
// re-emitting the (blue, green, red) storage bytes in (red, green, blue)
// order. Entries are fully opaque.
func (p Palette) ColorTable() color.Palette {
	table := make(color.Palette, len(p))
	for i, packed := range p {
		table[i] = color.RGBA{
			R: uint8(packed >> 16),
			G: uint8(packed >> 8),
			B: uint8(packed),
			A: 0xFF,
		}
	}
	return table
}
