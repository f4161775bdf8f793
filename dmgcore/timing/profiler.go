package timing

import "time"

// Profiler measures achieved throughput (ticks per second) over sampling
// windows. It is not synchronized: it must be owned and mutated by exactly
// one goroutine, normally the emulation loop. Share the reported rates, not
// the profiler.
type Profiler struct {
	anchor time.Time
	count  uint64

	// now is replaceable for tests
	now func() time.Time
}

func NewProfiler() *Profiler {
	p := &Profiler{now: time.Now}
	p.anchor = p.now()
	return p
}

// Tick adds n to the sample counter. Never blocks.
func (p *Profiler) Tick(n uint64) {
	p.count += n
}

// Report returns the rate achieved since the anchor and starts a new
// sampling window (counter to zero, anchor to now). A zero elapsed
// interval reports 0 rather than dividing by zero.
func (p *Profiler) Report() float64 {
	now := p.now()
	elapsed := now.Sub(p.anchor).Seconds()

	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.count) / elapsed
	}

	p.anchor = now
	p.count = 0
	return rate
}

// ReportDelay behaves like Report once at least threshold has elapsed since
// the anchor. Before that it mutates nothing and reports ok=false, so ticks
// keep accumulating against the original anchor.
func (p *Profiler) ReportDelay(threshold time.Duration) (rate float64, ok bool) {
	if p.now().Sub(p.anchor) < threshold {
		return 0, false
	}
	return p.Report(), true
}
