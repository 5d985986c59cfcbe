package kernel

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/fifotb/signal"
)

// A Clock toggles a signal with a fixed period. It drives the signal high
// first, so the first rising edge happens when the clock starts.
type Clock struct {
	k       *Kernel
	sig     signal.Signal
	half    uint64
	start   uint64
	toggles uint64
	stopped bool
}

// StartClock starts toggling sig at the current simulated time. It does not
// block.
func (k *Kernel) StartClock(sig signal.Signal, period sim.VTimeInSec) *Clock {
	half := Ticks(period / 2)
	if period <= 0 || half == 0 {
		panic("clock period must be at least two time steps")
	}

	c := &Clock{
		k:     k,
		sig:   sig,
		half:  half,
		start: k.now,
	}

	Trace("ClockStart",
		"Kernel", k.name,
		"Signal", sig.Name(),
		"Period", float64(period*1e9),
		"Time", float64(k.Now()*1e9),
	)

	k.at(c.start, c.tick)

	return c
}

// Signal returns the signal the clock drives.
func (c *Clock) Signal() signal.Signal {
	return c.sig
}

// Toggles returns how many times the clock has toggled.
func (c *Clock) Toggles() uint64 {
	return c.toggles
}

// Stop freezes the clock at its current level.
func (c *Clock) Stop() {
	c.stopped = true
}

func (c *Clock) tick() {
	if c.stopped || c.k.stopped {
		return
	}

	if c.toggles%2 == 0 {
		c.sig.Set(1)
	} else {
		c.sig.Set(0)
	}

	c.toggles++

	c.k.at(c.start+c.toggles*c.half, c.tick)
}
