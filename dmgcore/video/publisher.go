package video

import (
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// jobBuffer is how many pushed frames may wait for the decode worker.
// Pushes beyond that are dropped rather than blocking the emulation loop.
const jobBuffer = 2

// diagBuffer bounds the diagnostics channel; events beyond it are dropped.
const diagBuffer = 16

// PaletteSource supplies the active palette, read synchronously at each
// conversion. No snapshot guarantee: a palette change racing a conversion
// lands on either side, last read wins.
type PaletteSource interface {
	Palette() Palette
}

// Diagnostic is a recoverable conversion failure. Dropping a single frame
// is not fatal, so these are surfaced as events rather than errors.
type Diagnostic struct {
	Err  error
	Time time.Time
}

// Publisher converts pushed frame buffers into displayable images on a
// dedicated worker goroutine, strictly in arrival order. The newest decoded
// image overwrites the previous one; there is no frame history. The
// publisher owns the worker's lifetime and joins it on Close.
type Publisher struct {
	source PaletteSource

	jobs    chan []byte
	diags   chan Diagnostic
	current atomic.Pointer[image.Paletted]

	// mu serializes Push's send on jobs against Close closing it, so a
	// push racing teardown degrades to a no-op instead of a send on a
	// closed channel.
	mu     sync.Mutex
	closed atomic.Bool
	wg     sync.WaitGroup
}

// NewPublisher creates a publisher and starts its decode worker.
func NewPublisher(source PaletteSource) *Publisher {
	p := &Publisher{
		source: source,
		jobs:   make(chan []byte, jobBuffer),
		diags:  make(chan Diagnostic, diagBuffer),
	}

	p.wg.Add(1)
	go p.run()

	return p
}

// Push hands a frame to the decode worker and returns immediately. The
// index plane is snapshotted so the engine may keep writing the buffer.
// If the worker is backlogged the frame is dropped; if the publisher is
// closed the push has no effect.
func (p *Publisher) Push(frame *FrameBuffer) {
	if p.closed.Load() {
		return
	}
	pix := frame.Snapshot()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed.Load() {
		return
	}

	select {
	case p.jobs <- pix:
	default:
		slog.Debug("Dropping frame, decode worker backlogged")
	}
}

// Image returns the current displayable frame, or nil before the first
// successful conversion. The value is replaced wholesale on each publish,
// so readers never observe a partially written image.
func (p *Publisher) Image() *image.Paletted {
	return p.current.Load()
}

// Diagnostics exposes recoverable conversion failures. The channel is
// buffered; events are dropped when nobody listens.
func (p *Publisher) Diagnostics() <-chan Diagnostic {
	return p.diags
}

// Close tears down the worker and waits for it to exit. A conversion in
// flight at close time is discarded rather than delivered.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed.Load() {
		p.mu.Unlock()
		return
	}
	p.closed.Store(true)
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	close(p.diags)
}

func (p *Publisher) run() {
	defer p.wg.Done()

	for pix := range p.jobs {
		img, err := Convert(pix, p.source.Palette())
		if err != nil {
			p.report(err)
			continue
		}

		// Discard results finishing after teardown began.
		if p.closed.Load() {
			return
		}

		p.current.Store(img)
	}
}

func (p *Publisher) report(err error) {
	select {
	case p.diags <- Diagnostic{Err: err, Time: time.Now()}:
	default:
	}
}
