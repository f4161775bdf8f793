//go:build sdl2

// Package sdl2 renders the current frame in an SDL2 window. Building it
// requires the SDL2 development libraries; default builds get the stub.
package sdl2

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"unsafe"

	"github.com/valeg/go-dmgcore/dmgcore/backend"
	"github.com/valeg/go-dmgcore/dmgcore/input"
	"github.com/valeg/go-dmgcore/dmgcore/video"
	"github.com/veandco/go-sdl2/sdl"
)

// Backend implements the presentation boundary on an SDL2 window.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	config   backend.Config

	// Scratch RGBA plane reused across frames.
	pixels []byte
}

func New() *Backend {
	return &Backend{
		pixels: make([]byte, video.FramebufferSize*4),
	}
}

func (s *Backend) Init(config backend.Config) error {
	s.config = config

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	scale := config.Scale
	if scale <= 0 {
		scale = backend.DefaultScale
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale),
		int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %v", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %v", err)
	}
	s.texture = texture

	s.running = true
	slog.Info("SDL2 backend initialized", "scale", scale)
	return nil
}

func (s *Backend) Update(img *image.Paletted) error {
	if !s.running {
		return nil
	}

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		s.handleEvent(event)
	}
	if !s.running {
		return nil
	}

	if img != nil {
		s.renderImage(img)
	}
	return nil
}

func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

// renderImage materializes the indexed image into the scratch RGBA plane
// and streams it to the texture.
func (s *Backend) renderImage(img *image.Paletted) {
	table := make([]color.RGBA, len(img.Palette))
	for i, c := range img.Palette {
		table[i] = color.RGBAModel.Convert(c).(color.RGBA)
	}

	for i, idx := range img.Pix {
		c := table[idx]
		s.pixels[i*4+0] = c.R
		s.pixels[i*4+1] = c.G
		s.pixels[i*4+2] = c.B
		s.pixels[i*4+3] = c.A
	}

	s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*4)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

func (s *Backend) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		s.quit()

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			s.handleKey(e.Keysym.Sym, true)
		} else if e.Type == sdl.KEYUP {
			s.handleKey(e.Keysym.Sym, false)
		}
	}
}

// buttonMapping maps SDL2 keys to joypad buttons.
var buttonMapping = map[sdl.Keycode]input.Button{
	sdl.K_RETURN:    input.ButtonStart,
	sdl.K_BACKSPACE: input.ButtonSelect,
	sdl.K_z:         input.ButtonA,
	sdl.K_x:         input.ButtonB,
	sdl.K_UP:        input.ButtonUp,
	sdl.K_DOWN:      input.ButtonDown,
	sdl.K_LEFT:      input.ButtonLeft,
	sdl.K_RIGHT:     input.ButtonRight,
}

func (s *Backend) handleKey(key sdl.Keycode, pressed bool) {
	if b, ok := buttonMapping[key]; ok {
		if s.config.Buttons != nil {
			s.config.Buttons.Push(b, pressed)
		}
		return
	}

	if !pressed {
		return
	}
	switch key {
	case sdl.K_ESCAPE, sdl.K_q:
		s.quit()
	case sdl.K_SPACE, sdl.K_p:
		if s.config.Callbacks.OnPauseToggle != nil {
			s.config.Callbacks.OnPauseToggle()
		}
	case sdl.K_r:
		if s.config.Callbacks.OnReset != nil {
			s.config.Callbacks.OnReset()
		}
	}
}

func (s *Backend) quit() {
	s.running = false
	if s.config.Callbacks.OnQuit != nil {
		s.config.Callbacks.OnQuit()
	}
}

var _ backend.Backend = (*Backend)(nil)
