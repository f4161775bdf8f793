// Package headless implements the presentation boundary for automated
// runs: no rendering, periodic progress logs, quit after a frame budget.
package headless

import (
	"image"
	"log/slog"
	"os"

	"github.com/valeg/go-dmgcore/dmgcore/backend"
)

// Backend counts presented frames and signals quit once maxFrames is
// reached.
type Backend struct {
	config     backend.Config
	frameCount int
	maxFrames  int
	quitSent   bool
}

func New(maxFrames int) *Backend {
	return &Backend{maxFrames: maxFrames}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config

	// Headless runs are for diagnosis, so log everything.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("Running headless mode", "frames", h.maxFrames)
	return nil
}

func (h *Backend) Update(img *image.Paletted) error {
	if img == nil {
		// Nothing published yet, doesn't count against the budget.
		return nil
	}

	h.frameCount++

	if h.frameCount%60 == 0 {
		fps := 0.0
		if h.config.FPS != nil {
			fps = h.config.FPS()
		}
		slog.Info("Frame progress", "completed", h.frameCount, "total", h.maxFrames, "fps", fps)
	}

	if h.frameCount >= h.maxFrames && !h.quitSent {
		h.quitSent = true
		slog.Info("Headless execution completed", "frames", h.frameCount)
		if h.config.Callbacks.OnQuit != nil {
			h.config.Callbacks.OnQuit()
		}
	}

	return nil
}

func (h *Backend) Cleanup() error {
	return nil
}

var _ backend.Backend = (*Backend)(nil)
