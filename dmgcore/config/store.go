// Package config holds runtime-mutable presentation settings shared
// between the host application and the adapter.
package config

import (
	"sync"

	"github.com/valeg/go-dmgcore/dmgcore/video"
)

// Store supplies the active palette and display options. Reads are
// synchronous and unversioned: a writer racing a frame conversion lands on
// either side of it, which is accepted.
type Store struct {
	mu      sync.RWMutex
	palette video.Palette
	scale   int
	title   string
}

// Option mutates a Store during construction.
type Option func(*Store)

func WithPalette(p video.Palette) Option {
	return func(s *Store) { s.palette = p }
}

func WithScale(scale int) Option {
	return func(s *Store) { s.scale = scale }
}

func WithTitle(title string) Option {
	return func(s *Store) { s.title = title }
}

// New creates a store with the DMG palette and default display options.
func New(opts ...Option) *Store {
	s := &Store{
		palette: video.DMGPalette,
		scale:   4,
		title:   "dmgcore",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Palette returns the active palette.
func (s *Store) Palette() video.Palette {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.palette
}

// SetPalette replaces the active palette. Takes effect on the next frame
// conversion.
func (s *Store) SetPalette(p video.Palette) {
	s.mu.Lock()
	s.palette = p
	s.mu.Unlock()
}

func (s *Store) Scale() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scale
}

func (s *Store) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// NamedPalette resolves a palette by CLI name. Unknown names report false.
func NamedPalette(name string) (video.Palette, bool) {
	switch name {
	case "", "dmg":
		return video.DMGPalette, true
	case "gray", "grey", "grayscale":
		return video.GrayscalePalette, true
	default:
		return nil, false
	}
}
