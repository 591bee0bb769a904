package core

import "time"

// maxCatchUp bounds how many ticks a single Advance may report after a stall.
const maxCatchUp = 8

// FixedStep paces simulation ticks at a steady rate independent of the
// frame rate of the caller.
type FixedStep struct {
	tps         int
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
// The first Advance reports one tick immediately.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. Non-positive values fall back to 60.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.tps = tps
	f.step = time.Second / time.Duration(tps)
}

// TPS returns the current tick rate.
func (f *FixedStep) TPS() int { return f.tps }

// Advance accounts for the time elapsed until now and returns how many ticks
// are due, at most maxCatchUp. Excess backlog is dropped.
func (f *FixedStep) Advance(now time.Time) int {
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	n := 0
	for f.accumulator >= f.step && n < maxCatchUp {
		f.accumulator -= f.step
		n++
	}
	if n == maxCatchUp && f.accumulator >= f.step {
		f.accumulator = 0
	}
	return n
}

// Reset discards accumulated time. Like a new FixedStep, the next Advance
// reports one tick immediately.
func (f *FixedStep) Reset() {
	f.accumulator = f.step
	f.last = time.Time{}
}
