package dmgcore

import (
	"errors"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valeg/go-dmgcore/dmgcore/cart"
	"github.com/valeg/go-dmgcore/dmgcore/input"
	"github.com/valeg/go-dmgcore/dmgcore/timing"
	"github.com/valeg/go-dmgcore/dmgcore/video"
)

// ErrPoweredOn is returned by cartridge operations attempted while the
// engine is producing frames. Exchanging the cartridge is only defined
// while powered off.
var ErrPoweredOn = errors.New("invalid operation while powered on")

// defaultReportInterval is how often the run loop publishes achieved FPS.
const defaultReportInterval = time.Second

// FrameSink receives completed frames from the emulation loop.
// *video.Publisher is the usual implementation.
type FrameSink interface {
	Push(frame *video.FrameBuffer)
}

type nopSink struct{}

func (nopSink) Push(*video.FrameBuffer) {}

// Core mediates between an external emulation engine and the host
// application: it owns the power/reset/cartridge state machine, the input
// mailbox, frame publication and throughput measurement. All engine access
// is serialized under one lock shared by the control surface and the
// emulation goroutine.
type Core struct {
	engine      Engine
	sink        FrameSink
	inputs      *input.Queue
	profiler    *timing.Profiler
	limiter     timing.Limiter
	reportEvery time.Duration

	mu      sync.Mutex
	power   PowerState
	running bool
	stop    chan struct{}
	done    chan struct{}

	wake    chan struct{}
	fpsBits atomic.Uint64
}

// Option configures a Core during construction.
type Option func(*Core)

// WithSink directs completed frames to the given sink.
func WithSink(sink FrameSink) Option {
	return func(c *Core) { c.sink = sink }
}

// WithLimiter sets the frame pacing strategy. Defaults to no pacing.
func WithLimiter(limiter timing.Limiter) Option {
	return func(c *Core) { c.limiter = limiter }
}

// WithReportInterval sets how often achieved FPS is recomputed.
func WithReportInterval(d time.Duration) Option {
	return func(c *Core) { c.reportEvery = d }
}

// NewCore creates a powered-off core around the given engine. The run flag
// starts set, so the first Power(PowerOn) begins producing frames.
func NewCore(engine Engine, opts ...Option) *Core {
	c := &Core{
		engine:      engine,
		sink:        nopSink{},
		inputs:      input.NewQueue(),
		profiler:    timing.NewProfiler(),
		limiter:     timing.NewNoOpLimiter(),
		reportEvery: defaultReportInterval,
		power:       PowerOff,
		running:     true,
		wake:        make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Power switches the engine on or off. Requesting the current state is a
// no-op. Off to on reinitializes the engine and starts the emulation
// goroutine; on to off joins the goroutine and halts the engine. The
// cartridge is never implicitly ejected.
func (c *Core) Power(state PowerState) {
	c.mu.Lock()
	if state == c.power {
		c.mu.Unlock()
		return
	}

	if state == PowerOn {
		c.engine.PowerOn()
		c.power = PowerOn
		c.stop = make(chan struct{})
		c.done = make(chan struct{})
		go c.run(c.stop, c.done)
		c.mu.Unlock()
		slog.Info("Power on")
		return
	}

	c.power = PowerOff
	stop, done := c.stop, c.done
	c.mu.Unlock()

	close(stop)
	<-done

	c.mu.Lock()
	c.engine.PowerOff()
	c.mu.Unlock()
	slog.Info("Power off")
}

// Reset reinitializes the engine while powered on. Soft resets preserve
// undefined register and memory state, hard resets restore power-on
// defaults. While powered off there is nothing to reset.
func (c *Core) Reset(kind ResetKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.power == PowerOff {
		return
	}
	c.engine.Reset(kind)
	slog.Info("Reset", "kind", kind.String())
}

// Insert loads a cartridge into the engine, replacing any previous one.
// Only valid while powered off.
func (c *Core) Insert(cartridge *cart.Cartridge) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.power != PowerOff {
		return ErrPoweredOn
	}
	c.engine.Insert(cartridge)
	if cartridge != nil {
		slog.Info("Cartridge inserted", "title", cartridge.Title(), "mapper", cartridge.Mapper().String())
	}
	return nil
}

// Eject removes and returns the loaded cartridge, or nil if none was
// loaded. Only valid while powered off.
func (c *Core) Eject() (*cart.Cartridge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.power != PowerOff {
		return nil, ErrPoweredOn
	}
	return c.engine.Eject(), nil
}

// Start sets the run flag, resuming frame production from the paused
// point. Independent of power: starting while off only arms the flag.
func (c *Core) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Pause clears the run flag, freezing execution without touching engine
// state.
func (c *Core) Pause() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

// State returns the current power state.
func (c *Core) State() PowerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.power
}

// Running reports the run flag.
func (c *Core) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// PushButton queues a button transition from any goroutine. Touch, gamepad
// and keyboard adapters all feed this single entry point.
func (c *Core) PushButton(b input.Button, pressed bool) {
	c.inputs.Push(b, pressed)
}

// Input exposes the button mailbox for producer adapters.
func (c *Core) Input() *input.Queue {
	return c.inputs
}

// FPS returns the last achieved frame rate diagnostic.
func (c *Core) FPS() float64 {
	return math.Float64frombits(c.fpsBits.Load())
}

// run is the emulation loop. It exits when stop closes; while paused it
// parks until Start wakes it.
func (c *Core) run(stop, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		c.mu.Lock()
		running := c.running
		c.mu.Unlock()

		if !running {
			select {
			case <-stop:
				return
			case <-c.wake:
				c.limiter.Reset()
				continue
			}
		}

		if err := c.step(); err != nil {
			slog.Error("Frame execution failed", "error", err)
		}
		c.limiter.WaitForNextFrame()
	}
}

// step runs one frame: drain queued input into the engine, advance a
// frame, publish it and account for it.
func (c *Core) step() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.inputs.Drain() {
		c.engine.SetButton(e.Button, e.Pressed)
	}

	if err := c.engine.RunFrame(); err != nil {
		return err
	}

	c.sink.Push(c.engine.Frame())
	c.profiler.Tick(1)

	if rate, ok := c.profiler.ReportDelay(c.reportEvery); ok {
		c.fpsBits.Store(math.Float64bits(rate))
		slog.Debug("Achieved frame rate", "fps", rate)
	}
	return nil
}
