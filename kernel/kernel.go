// Package kernel runs cooperatively scheduled processes on top of an akita
// event-driven engine.
//
// Every process is a goroutine, but only one of them (or the engine itself)
// runs at any moment. A process suspends in Process.Wait and is resumed by an
// engine event once its trigger fires. Everything the kernel does at one
// simulated time happens in a single engine event, in the order it was
// scheduled, so runs are reproducible. Processes woken at the same simulated
// time run in the order their triggers fired.
package kernel

import (
	"fmt"
	"math"
	"sync"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/fifotb/signal"
)

// NS is one nanosecond of simulated time.
const NS sim.VTimeInSec = 1e-9

// DefaultTimeLimit bounds how long a kernel lets simulated time advance.
const DefaultTimeLimit = 2e6 * NS

// Resolution is the grid simulated time is kept on. Times that round to the
// same grid point are the same instant.
const Resolution sim.VTimeInSec = 1e-12

// Ticks converts a duration to grid points.
func Ticks(d sim.VTimeInSec) uint64 {
	return uint64(math.Round(float64(d / Resolution)))
}

func fromTicks(t uint64) sim.VTimeInSec {
	return sim.VTimeInSec(t) * Resolution
}

// A Kernel owns one engine and the processes scheduled on it. It is meant to
// be used for exactly one Run.
type Kernel struct {
	name   string
	engine sim.Engine
	limit  sim.VTimeInSec

	yield chan struct{}
	procs []*Process
	main  *Process
	wg    sync.WaitGroup

	now            uint64
	slots          map[uint64]*slot
	ready          []*Process
	flushScheduled bool
	stopped        bool
	events         uint64

	watches map[signal.Signal]*watchList
}

// Builder creates kernels.
type Builder struct {
	engine sim.Engine
	limit  sim.VTimeInSec
}

// MakeBuilder returns a builder with the default time limit.
func MakeBuilder() Builder {
	return Builder{
		limit: DefaultTimeLimit,
	}
}

// WithEngine sets the engine. A serial engine is created if none is given.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithTimeLimit sets the simulated time after which no further events are
// scheduled.
func (b Builder) WithTimeLimit(limit sim.VTimeInSec) Builder {
	if limit <= 0 {
		panic("time limit must be positive")
	}

	b.limit = limit

	return b
}

// Build creates a kernel.
func (b Builder) Build(name string) *Kernel {
	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	return &Kernel{
		name:    name,
		engine:  engine,
		limit:   b.limit,
		yield:   make(chan struct{}),
		slots:   make(map[uint64]*slot),
		watches: make(map[signal.Signal]*watchList),
	}
}

// Name returns the name of the kernel.
func (k *Kernel) Name() string {
	return k.name
}

// Engine returns the underlying engine.
func (k *Kernel) Engine() sim.Engine {
	return k.engine
}

// Now returns the current simulated time.
func (k *Kernel) Now() sim.VTimeInSec {
	return fromTicks(k.now)
}

// TimeLimit returns the simulated time limit.
func (k *Kernel) TimeLimit() sim.VTimeInSec {
	return k.limit
}

// Events returns the number of actions (clock toggles, wakeups and flushes)
// the kernel has performed so far.
func (k *Kernel) Events() uint64 {
	return k.events
}

// Stopped reports whether the main process has finished or the run is over.
func (k *Kernel) Stopped() bool {
	return k.stopped
}

// Spawn creates a process that starts at the current simulated time, after
// the processes that are already due. It can be called before Run or from a
// running process.
func (k *Kernel) Spawn(name string, body ProcessFunc) *Process {
	p := &Process{
		k:      k,
		name:   name,
		resume: make(chan bool),
	}

	k.procs = append(k.procs, p)
	k.wg.Add(1)

	go p.loop(body)

	k.makeReady(p)

	return p
}

// Run executes body as the main process and drives the engine until body
// returns or simulated time runs out. Any processes still suspended
// afterwards are discarded.
func (k *Kernel) Run(name string, body ProcessFunc) error {
	if k.main != nil {
		panic(fmt.Sprintf("kernel %s already ran %s", k.name, k.main.name))
	}

	k.main = k.Spawn(name, body)

	err := k.engine.Run()

	k.stopped = true
	k.reap()

	if err != nil {
		return fmt.Errorf("kernel %s: engine failed: %w", k.name, err)
	}

	if !k.main.done {
		return &StallError{
			Process: name,
			At:      k.Now(),
			Waiting: k.main.waiting,
		}
	}

	return k.main.err
}

// Handle performs the actions scheduled for the event's time.
func (k *Kernel) Handle(e sim.Event) error {
	s, ok := e.(*slot)
	if !ok {
		panic(fmt.Sprintf("kernel %s cannot handle event of type %T", k.name, e))
	}

	k.now = s.tick

	// Actions may append to the slot they run in.
	for i := 0; i < len(s.actions); i++ {
		k.events++
		s.actions[i]()
	}

	delete(k.slots, s.tick)

	return nil
}

// at schedules fn at grid point t, after everything already scheduled at t.
// It returns false if t is past the time limit.
func (k *Kernel) at(t uint64, fn func()) bool {
	if t > Ticks(k.limit) {
		return false
	}

	s, ok := k.slots[t]
	if !ok {
		s = &slot{EventBase: sim.NewEventBase(fromTicks(t), k), tick: t}
		k.slots[t] = s
		k.engine.Schedule(s)
	}

	s.actions = append(s.actions, fn)

	return true
}

func (k *Kernel) makeReady(p *Process) {
	k.ready = append(k.ready, p)

	if k.flushScheduled {
		return
	}

	k.flushScheduled = true
	k.at(k.now, k.flush)
}

func (k *Kernel) flush() {
	batch := k.ready
	k.ready = nil
	k.flushScheduled = false

	for _, p := range batch {
		if k.stopped {
			return
		}

		k.resume(p)
	}
}

func (k *Kernel) resume(p *Process) {
	if p.done {
		return
	}

	p.waiting = ""
	p.resume <- true
	<-k.yield
}

func (k *Kernel) exited(p *Process) {
	Trace("ProcessExit",
		"Kernel", k.name,
		"Process", p.name,
		"Time", float64(k.Now()*1e9),
		"Err", p.err,
	)

	if p == k.main {
		k.stopped = true
	}
}

func (k *Kernel) reap() {
	for _, p := range k.procs {
		if !p.done {
			p.resume <- false
		}
	}

	k.wg.Wait()
}

// slot is the single engine event of one simulated time.
type slot struct {
	*sim.EventBase

	tick    uint64
	actions []func()
}
