package kernel

import (
	"runtime"

	"github.com/sarchlab/akita/v4/sim"
)

// ProcessFunc is the body of a process. Returning ends the process.
type ProcessFunc func(p *Process) error

// A Process is a cooperatively scheduled task. Its methods must only be called
// from the process's own body.
type Process struct {
	k    *Kernel
	name string

	resume  chan bool
	waiting string
	done    bool
	aborted bool
	err     error
}

// Name returns the name of the process.
func (p *Process) Name() string {
	return p.name
}

// Kernel returns the kernel the process runs on.
func (p *Process) Kernel() *Kernel {
	return p.k
}

// Now returns the current simulated time.
func (p *Process) Now() sim.VTimeInSec {
	return p.k.Now()
}

// Done reports whether the process body has returned.
func (p *Process) Done() bool {
	return p.done
}

// Err returns what the process body returned.
func (p *Process) Err() error {
	return p.err
}

// Wait suspends the process until the trigger fires. If the kernel is torn
// down while the process is suspended, the process exits without returning
// from Wait.
func (p *Process) Wait(t Trigger) {
	p.waiting = t.String()
	t.arm(p.k, p)

	p.k.yield <- struct{}{}

	if !<-p.resume {
		p.aborted = true
		runtime.Goexit()
	}
}

// Spawn starts a child process on the same kernel.
func (p *Process) Spawn(name string, body ProcessFunc) *Process {
	return p.k.Spawn(name, body)
}

func (p *Process) loop(body ProcessFunc) {
	defer p.k.wg.Done()

	if !<-p.resume {
		return
	}

	defer p.finish()

	p.err = body(p)
}

func (p *Process) finish() {
	if p.aborted {
		return
	}

	if r := recover(); r != nil {
		p.err = &PanicError{Process: p.name, Value: r}
	}

	p.done = true
	p.k.exited(p)
	p.k.yield <- struct{}{}
}
