package timing

import "time"

// Limiter paces the emulation loop to the hardware frame rate.
type Limiter interface {
	// WaitForNextFrame blocks until the next frame is due.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// Game Boy timing constants
const (
	CyclesPerFrame = 70224
	CPUFrequency   = 4194304
)

// TargetFPS is the exact hardware frame rate (~59.7 fps).
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}
