// Package terminal renders the current frame in a terminal using tcell and
// translates keyboard input into button pushes. Terminals only report key
// presses, so releases are synthesized after a short expiry.
package terminal

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valeg/go-dmgcore/dmgcore/backend"
	"github.com/valeg/go-dmgcore/dmgcore/input"
	"github.com/valeg/go-dmgcore/dmgcore/video"
)

// keyTimeout is slightly longer than a typical key repeat interval, so a
// held key stays pressed across repeats.
const keyTimeout = 100 * time.Millisecond

// Backend implements the presentation boundary on a tcell screen.
type Backend struct {
	screen tcell.Screen
	config backend.Config

	mu         sync.Mutex
	keyPressed map[input.Button]time.Time
}

func New() *Backend {
	return &Backend{
		keyPressed: make(map[input.Button]time.Time),
	}
}

func (t *Backend) Init(config backend.Config) error {
	t.config = config

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}

	t.screen = screen
	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.pollEvents()

	slog.Info("Terminal backend initialized")
	return nil
}

// Update draws the image with half-block cells, two pixel rows per line.
func (t *Backend) Update(img *image.Paletted) error {
	t.releaseExpiredKeys()

	if img == nil {
		t.screen.Show()
		return nil
	}

	for y := 0; y < video.FramebufferHeight; y += 2 {
		for x := 0; x < video.FramebufferWidth; x++ {
			top := cellColor(img, x, y)
			bottom := cellColor(img, x, y+1)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}

	t.drawStatus()
	t.screen.Show()
	return nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func cellColor(img *image.Paletted, x, y int) tcell.Color {
	c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (t *Backend) drawStatus() {
	if t.config.FPS == nil {
		return
	}
	status := fmt.Sprintf("%s  %.1f fps  [arrows/wasd: d-pad, z/x: a/b, enter: start, p: pause, q: quit]",
		t.config.Title, t.config.FPS())

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	row := video.FramebufferHeight / 2
	for i, r := range status {
		t.screen.SetContent(i, row, r, nil, style)
	}
}

// pollEvents runs on its own goroutine for the lifetime of the screen.
func (t *Backend) pollEvents() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			t.handleKey(ev)
		}
	}
}

func (t *Backend) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.quit()
		return
	case tcell.KeyUp:
		t.press(input.ButtonUp)
		return
	case tcell.KeyDown:
		t.press(input.ButtonDown)
		return
	case tcell.KeyLeft:
		t.press(input.ButtonLeft)
		return
	case tcell.KeyRight:
		t.press(input.ButtonRight)
		return
	case tcell.KeyEnter:
		t.press(input.ButtonStart)
		return
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		t.press(input.ButtonSelect)
		return
	}

	if ev.Key() != tcell.KeyRune {
		return
	}

	switch ev.Rune() {
	case 'q':
		t.quit()
	case 'p', ' ':
		if t.config.Callbacks.OnPauseToggle != nil {
			t.config.Callbacks.OnPauseToggle()
		}
	case 'r':
		if t.config.Callbacks.OnReset != nil {
			t.config.Callbacks.OnReset()
		}
	case 'w':
		t.press(input.ButtonUp)
	case 's':
		t.press(input.ButtonDown)
	case 'a':
		t.press(input.ButtonLeft)
	case 'd':
		t.press(input.ButtonRight)
	case 'z':
		t.press(input.ButtonA)
	case 'x':
		t.press(input.ButtonB)
	}
}

func (t *Backend) quit() {
	if t.config.Callbacks.OnQuit != nil {
		t.config.Callbacks.OnQuit()
	}
}

// press pushes a press on first sight of a key and refreshes its expiry on
// repeats.
func (t *Backend) press(b input.Button) {
	t.mu.Lock()
	_, held := t.keyPressed[b]
	t.keyPressed[b] = time.Now()
	t.mu.Unlock()

	if !held && t.config.Buttons != nil {
		t.config.Buttons.Push(b, true)
	}
}

// releaseExpiredKeys synthesizes release events for keys that stopped
// repeating.
func (t *Backend) releaseExpiredKeys() {
	now := time.Now()

	t.mu.Lock()
	var released []input.Button
	for b, last := range t.keyPressed {
		if now.Sub(last) > keyTimeout {
			delete(t.keyPressed, b)
			released = append(released, b)
		}
	}
	t.mu.Unlock()

	if t.config.Buttons == nil {
		return
	}
	for _, b := range released {
		t.config.Buttons.Push(b, false)
	}
}

var _ backend.Backend = (*Backend)(nil)
