package tb

import (
	"github.com/sarchlab/fifotb/kernel"
)

// ClockPeriod is the period of all three clock domains.
const ClockPeriod = 1 * kernel.NS

// StartClocks starts the write, read and status-count clocks. They run until
// the scenario ends.
func StartClocks(p *kernel.Process, pins *Pins) []*kernel.Clock {
	k := p.Kernel()

	return []*kernel.Clock{
		k.StartClock(pins.WrClk, ClockPeriod),
		k.StartClock(pins.RdClk, ClockPeriod),
		k.StartClock(pins.DataCountClk, ClockPeriod),
	}
}
