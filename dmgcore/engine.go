package dmgcore

import (
	"github.com/valeg/go-dmgcore/dmgcore/cart"
	"github.com/valeg/go-dmgcore/dmgcore/input"
	"github.com/valeg/go-dmgcore/dmgcore/video"
)

// PowerState is whether the engine is actively producing frames.
type PowerState uint8

const (
	PowerOff PowerState = iota
	PowerOn
)

func (s PowerState) String() string {
	if s == PowerOn {
		return "on"
	}
	return "off"
}

// ResetKind selects how much engine state a reset reinitializes.
type ResetKind uint8

const (
	// ResetSoft reinitializes only defined registers and memory, leaving
	// undefined state as previously set.
	ResetSoft ResetKind = iota

	// ResetHard fully reinitializes to power-on defaults.
	ResetHard
)

func (k ResetKind) String() string {
	if k == ResetHard {
		return "hard"
	}
	return "soft"
}

// Engine is the external cycle-accurate emulation engine the adapter
// drives. The adapter serializes all calls; implementations need no
// internal locking. Frame index bytes are the engine's contract: every
// index must be valid for whatever palette the host configures.
type Engine interface {
	// PowerOn reinitializes the engine to defined power-on state.
	PowerOn()

	// PowerOff halts production. The loaded cartridge stays in place.
	PowerOff()

	// Reset reinitializes engine state while powered.
	Reset(kind ResetKind)

	// Insert loads a cartridge, replacing any previous one.
	Insert(c *cart.Cartridge)

	// Eject removes and returns the loaded cartridge, or nil.
	Eject() *cart.Cartridge

	// SetButton applies a button transition ahead of the next frame.
	SetButton(b input.Button, pressed bool)

	// RunFrame advances emulation by one frame.
	RunFrame() error

	// Frame returns the engine's current frame buffer. The adapter
	// snapshots it before crossing goroutines.
	Frame() *video.FrameBuffer
}
