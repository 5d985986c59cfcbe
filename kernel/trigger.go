package kernel

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/fifotb/signal"
)

// A Trigger is a condition a process can wait for.
type Trigger interface {
	fmt.Stringer

	arm(k *Kernel, p *Process)
}

type timer struct {
	d sim.VTimeInSec
}

// Timer fires after d of simulated time, rounded to Resolution. A zero
// duration yields to the other processes that are due at the current time.
func Timer(d sim.VTimeInSec) Trigger {
	if d < 0 {
		panic("timer duration must not be negative")
	}

	return timer{d: d}
}

func (t timer) String() string {
	return fmt.Sprintf("Timer(%.6gns)", float64(t.d*1e9))
}

func (t timer) arm(k *Kernel, p *Process) {
	if Ticks(t.d) == 0 {
		k.makeReady(p)
		return
	}

	k.at(k.now+Ticks(t.d), func() {
		if !k.stopped {
			k.resume(p)
		}
	})
}

type edgeKind int

const (
	anyEdge edgeKind = iota
	risingEdge
	fallingEdge
)

func (kind edgeKind) matches(c signal.Change) bool {
	switch kind {
	case risingEdge:
		return c.Rising()
	case fallingEdge:
		return c.Falling()
	default:
		return true
	}
}

type edge struct {
	kind edgeKind
	sig  signal.Signal
}

// RisingEdge fires when bit 0 of the signal goes from 0 to 1.
func RisingEdge(s signal.Signal) Trigger {
	return edge{kind: risingEdge, sig: s}
}

// FallingEdge fires when bit 0 of the signal goes from 1 to 0.
func FallingEdge(s signal.Signal) Trigger {
	return edge{kind: fallingEdge, sig: s}
}

// Edge fires on any value change of the signal.
func Edge(s signal.Signal) Trigger {
	return edge{kind: anyEdge, sig: s}
}

func (e edge) String() string {
	switch e.kind {
	case risingEdge:
		return fmt.Sprintf("RisingEdge(%s)", e.sig.Name())
	case fallingEdge:
		return fmt.Sprintf("FallingEdge(%s)", e.sig.Name())
	default:
		return fmt.Sprintf("Edge(%s)", e.sig.Name())
	}
}

func (e edge) arm(k *Kernel, p *Process) {
	wl := k.watchListFor(e.sig)
	wl.waiters = append(wl.waiters, waiter{proc: p, kind: e.kind})
}

type waiter struct {
	proc *Process
	kind edgeKind
}

type watchList struct {
	waiters []waiter
}

func (k *Kernel) watchListFor(s signal.Signal) *watchList {
	wl, ok := k.watches[s]
	if ok {
		return wl
	}

	wl = &watchList{}
	k.watches[s] = wl
	s.Watch(func(c signal.Change) {
		k.signalChanged(wl, c)
	})

	return wl
}

func (k *Kernel) signalChanged(wl *watchList, c signal.Change) {
	if k.stopped || len(wl.waiters) == 0 {
		return
	}

	kept := make([]waiter, 0, len(wl.waiters))
	for _, w := range wl.waiters {
		if w.kind.matches(c) {
			k.makeReady(w.proc)
			continue
		}

		kept = append(kept, w)
	}

	wl.waiters = kept
}
