//go:build !sdl2

package sdl2

import (
	"fmt"
	"image"

	"github.com/valeg/go-dmgcore/dmgcore/backend"
)

// Backend stub for when SDL2 is not available.
type Backend struct{}

func New() *Backend {
	return &Backend{}
}

// Init returns an error indicating SDL2 is not available.
func (s *Backend) Init(config backend.Config) error {
	return fmt.Errorf("SDL2 backend not available: rebuild with -tags sdl2")
}

func (s *Backend) Update(img *image.Paletted) error {
	return fmt.Errorf("SDL2 backend not available")
}

func (s *Backend) Cleanup() error {
	return nil
}

var _ backend.Backend = (*Backend)(nil)
