// Package backend defines the presentation boundary: a backend observes
// the current displayable image and feeds user input back into the
// adapter's single push entry point.
package backend

import (
	"image"

	"github.com/valeg/go-dmgcore/dmgcore/input"
)

// Backend is a complete presentation platform (rendering + input).
// Backends are responsible for:
// - Rendering the current image to their specific output (terminal, SDL window)
// - Translating platform-specific input events into queue pushes
// - Invoking lifecycle callbacks for quit/pause/reset requests
type Backend interface {
	// Init configures the backend. Required before calling Update.
	Init(config Config) error

	// Update renders the current image. A nil image means no frame has
	// been published yet; backends should render a blank screen.
	Update(img *image.Paletted) error

	// Cleanup releases platform resources when shutting down.
	Cleanup() error
}

// Config holds configuration shared by all backends.
type Config struct {
	Title string
	Scale int

	// Buttons is where translated button transitions are pushed.
	// Any backend thread may push; the emulation goroutine drains.
	Buttons *input.Queue

	// FPS supplies the achieved-frequency diagnostic for overlays.
	FPS func() float64

	Callbacks Callbacks
}

// Callbacks let backends drive the lifecycle without importing the core.
type Callbacks struct {
	OnQuit        func() // window closed, quit key
	OnPauseToggle func() // optional
	OnReset       func() // optional, soft reset
}

// DefaultScale is the window scaling factor graphical backends fall back
// to when none is configured.
const DefaultScale = 4
