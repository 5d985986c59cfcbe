package kernel

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
)

// StallError reports a main process that was still suspended when the
// simulated time limit was reached or no more events were pending.
type StallError struct {
	Process string
	At      sim.VTimeInSec
	Waiting string
}

func (e *StallError) Error() string {
	return fmt.Sprintf("process %s stalled at %.6gns waiting on %s",
		e.Process, float64(e.At*1e9), e.Waiting)
}

// PanicError wraps a panic raised inside a process body.
type PanicError struct {
	Process string
	Value   any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("process %s panicked: %v", e.Process, e.Value)
}
