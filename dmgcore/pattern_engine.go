package dmgcore

import (
	"github.com/valeg/go-dmgcore/dmgcore/cart"
	"github.com/valeg/go-dmgcore/dmgcore/input"
	"github.com/valeg/go-dmgcore/dmgcore/video"
)

const (
	patternCount    = 4
	patternTileSize = 8
	stripeWidth     = 4
	animationFrames = 30
	stripeSpeed     = 2
	diagonalSpeed   = 4
)

// PatternEngine is a built-in Engine producing animated test patterns. It
// honors the full lifecycle contract without emulating anything, which
// makes it useful for exercising the adapter, backends and CLI without an
// external engine or ROM.
type PatternEngine struct {
	frame     *video.FrameBuffer
	cartridge *cart.Cartridge

	powered bool
	pattern int
	counter int
}

func NewPatternEngine() *PatternEngine {
	return &PatternEngine{
		frame: video.NewFrameBuffer(),
	}
}

func (e *PatternEngine) PowerOn() {
	e.powered = true
	e.pattern = 0
	e.counter = 0
	e.draw()
}

func (e *PatternEngine) PowerOff() {
	e.powered = false
}

// Reset reinitializes the animation. A soft reset keeps the selected
// pattern (the analog of undefined state surviving), a hard reset restores
// power-on defaults.
func (e *PatternEngine) Reset(kind ResetKind) {
	e.counter = 0
	if kind == ResetHard {
		e.pattern = 0
	}
	e.draw()
}

func (e *PatternEngine) Insert(c *cart.Cartridge) {
	e.cartridge = c
}

func (e *PatternEngine) Eject() *cart.Cartridge {
	c := e.cartridge
	e.cartridge = nil
	return c
}

// SetButton cycles the pattern on an A press; other buttons are ignored.
func (e *PatternEngine) SetButton(b input.Button, pressed bool) {
	if b == input.ButtonA && pressed {
		e.pattern = (e.pattern + 1) % patternCount
		e.draw()
	}
}

func (e *PatternEngine) RunFrame() error {
	e.counter++
	if e.counter%animationFrames == 0 {
		e.draw()
	}
	return nil
}

func (e *PatternEngine) Frame() *video.FrameBuffer {
	return e.frame
}

// Cartridge returns the currently loaded cartridge without ejecting it.
func (e *PatternEngine) Cartridge() *cart.Cartridge {
	return e.cartridge
}

func (e *PatternEngine) draw() {
	offset := e.counter / animationFrames
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			e.frame.SetPixel(uint(x), uint(y), e.shade(x, y, offset))
		}
	}
}

// shade picks the palette index for a pixel. Index 0 is the lightest
// shade, 3 the darkest.
func (e *PatternEngine) shade(x, y, offset int) byte {
	switch e.pattern {
	case 0: // checkerboard
		if ((x/patternTileSize)+(y/patternTileSize))%2 == 0 {
			return 0
		}
		return 3
	case 1: // horizontal gradient
		return byte(x * patternCount / video.FramebufferWidth)
	case 2: // scrolling vertical stripes
		if ((x+offset*stripeSpeed)/stripeWidth)%2 == 0 {
			return 0
		}
		return 2
	default: // scrolling diagonals
		if ((x+y+offset*diagonalSpeed)/patternTileSize)%2 == 0 {
			return 1
		}
		return 2
	}
}

var _ Engine = (*PatternEngine)(nil)
