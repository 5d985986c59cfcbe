package tb

import (
	"github.com/sarchlab/fifotb/kernel"
)

// ResetHold is how long ResetDUT keeps the resets asserted.
const ResetHold = 5 * kernel.NS

// ResetDUT asserts every reset line, waits ResetHold and releases them. The
// calling process resumes once the resets are released.
func ResetDUT(p *kernel.Process, pins *Pins) {
	for _, rstn := range pins.Resets() {
		rstn.Set(0)
	}

	p.Wait(kernel.Timer(ResetHold))

	for _, rstn := range pins.Resets() {
		rstn.Set(1)
	}

	kernel.Trace("ResetReleased",
		"Process", p.Name(),
		"Time", float64(p.Now()*1e9),
	)
}
