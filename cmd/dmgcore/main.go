package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/urfave/cli"
	"github.com/valeg/go-dmgcore/dmgcore"
	"github.com/valeg/go-dmgcore/dmgcore/backend"
	"github.com/valeg/go-dmgcore/dmgcore/backend/headless"
	"github.com/valeg/go-dmgcore/dmgcore/backend/sdl2"
	"github.com/valeg/go-dmgcore/dmgcore/backend/terminal"
	"github.com/valeg/go-dmgcore/dmgcore/cart"
	"github.com/valeg/go-dmgcore/dmgcore/config"
	"github.com/valeg/go-dmgcore/dmgcore/timing"
	"github.com/valeg/go-dmgcore/dmgcore/video"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "Host adapter for Game Boy emulation cores"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Presentation backend: terminal or sdl2",
			Value: "terminal",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "palette",
			Usage: "Display palette: dmg or gray",
			Value: "dmg",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scaling factor for graphical backends",
			Value: backend.DefaultScale,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running adapter", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	palette, ok := config.NamedPalette(c.String("palette"))
	if !ok {
		return fmt.Errorf("unknown palette %q", c.String("palette"))
	}

	store := config.New(
		config.WithPalette(palette),
		config.WithScale(c.Int("scale")),
		config.WithTitle("dmgcore"),
	)

	publisher := video.NewPublisher(store)
	defer publisher.Close()
	go logDiagnostics(publisher.Diagnostics())

	limiter := timing.Limiter(timing.NewAdaptiveLimiter())
	if c.Bool("headless") {
		limiter = timing.NewNoOpLimiter()
	}

	// The instruction-level engine is an external collaborator; the
	// built-in pattern engine exercises the full adapter path.
	engine := dmgcore.NewPatternEngine()
	core := dmgcore.NewCore(engine,
		dmgcore.WithSink(publisher),
		dmgcore.WithLimiter(limiter),
	)

	cartridge := loadCartridge(c)

	b, err := selectBackend(c)
	if err != nil {
		return err
	}

	quit := make(chan struct{})
	var quitOnce sync.Once

	cfg := backend.Config{
		Title:   store.Title(),
		Scale:   store.Scale(),
		Buttons: core.Input(),
		FPS:     core.FPS,
		Callbacks: backend.Callbacks{
			OnQuit: func() {
				quitOnce.Do(func() { close(quit) })
			},
			OnPauseToggle: func() {
				if core.Running() {
					core.Pause()
				} else {
					core.Start()
				}
			},
			OnReset: func() {
				core.Reset(dmgcore.ResetSoft)
			},
		},
	}

	if err := b.Init(cfg); err != nil {
		return err
	}
	defer b.Cleanup()

	if cartridge != nil {
		if err := dmgcore.Play(core, cartridge); err != nil {
			return err
		}
	} else {
		core.Power(dmgcore.PowerOn)
	}
	defer core.Power(dmgcore.PowerOff)

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return nil
		case <-ticker.C:
			if err := b.Update(publisher.Image()); err != nil {
				return err
			}
		}
	}
}

// loadCartridge reads the ROM named on the command line. Malformed data is
// not fatal: the adapter runs with no cartridge available.
func loadCartridge(c *cli.Context) *cart.Cartridge {
	romPath := c.String("rom")
	if romPath == "" && c.NArg() > 0 {
		romPath = c.Args().Get(0)
	}
	if romPath == "" {
		return nil
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		slog.Warn("Could not read ROM, continuing without cartridge", "path", romPath, "error", err)
		return nil
	}

	cartridge, err := cart.New(data)
	if err != nil {
		slog.Warn("Invalid ROM, continuing without cartridge", "path", romPath, "error", err)
		return nil
	}

	slog.Info("Loaded cartridge",
		"title", cartridge.Title(),
		"mapper", cartridge.Mapper().String(),
		"battery", cartridge.HasBattery(),
		"clock", cartridge.HasClock(),
		"rumble", cartridge.HasRumble(),
		"size", cartridge.Size())
	return cartridge
}

func selectBackend(c *cli.Context) (backend.Backend, error) {
	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, errors.New("headless mode requires --frames option with a positive value")
		}
		return headless.New(frames), nil
	}

	switch c.String("backend") {
	case "terminal":
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", c.String("backend"))
	}
}

func logDiagnostics(diags <-chan video.Diagnostic) {
	for diag := range diags {
		slog.Warn("Frame conversion failed", "error", diag.Err)
	}
}
