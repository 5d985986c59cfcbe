// Package signal defines the wires that connect the harness to a device under
// test.
package signal

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
)

// HookPosSignalChange marks a change of a signal's value. The hook item is a
// Change.
var HookPosSignalChange = &sim.HookPos{Name: "Signal Change"}

// Change describes one value transition of a signal.
type Change struct {
	Signal Signal
	Old    uint64
	New    uint64
}

// Rising reports whether bit 0 went from low to high.
func (c Change) Rising() bool {
	return c.Old&1 == 0 && c.New&1 == 1
}

// Falling reports whether bit 0 went from high to low.
func (c Change) Falling() bool {
	return c.Old&1 == 1 && c.New&1 == 0
}

// A Watcher is called synchronously every time a signal changes value.
type Watcher func(c Change)

// A Signal is a named, fixed-width wire. Exactly one party drives a signal;
// any number of parties may read and watch it.
type Signal interface {
	sim.Named

	// AcceptHook registers a hook that observes every value change.
	AcceptHook(hook sim.Hook)

	Width() int
	Value() uint64
	Set(v uint64)
	Watch(w Watcher)
}

// Wire is the default Signal implementation.
type Wire struct {
	*sim.HookableBase

	name     string
	width    int
	value    uint64
	watchers []Watcher
}

// NewWire creates a wire with the given width and initial value.
func NewWire(name string, width int, init uint64) *Wire {
	if width <= 0 || width > 64 {
		panic(fmt.Sprintf("signal %s: width %d out of range [1, 64]", name, width))
	}

	w := &Wire{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		width:        width,
	}
	w.value = init & w.mask()

	return w
}

// NewBit creates a single-bit wire.
func NewBit(name string, init uint64) *Wire {
	return NewWire(name, 1, init)
}

// Name returns the name of the wire.
func (w *Wire) Name() string {
	return w.name
}

// Width returns the number of bits the wire carries.
func (w *Wire) Width() int {
	return w.width
}

// Value returns the current value.
func (w *Wire) Value() uint64 {
	return w.value
}

// Set drives a new value. Bits above the width are dropped. Watchers and hooks
// only run when the value actually changes.
func (w *Wire) Set(v uint64) {
	v &= w.mask()
	if v == w.value {
		return
	}

	c := Change{Signal: w, Old: w.value, New: v}
	w.value = v

	w.InvokeHook(sim.HookCtx{
		Domain: w,
		Pos:    HookPosSignalChange,
		Item:   c,
	})

	for _, watcher := range w.watchers {
		watcher(c)
	}
}

// Watch registers a watcher. Watchers run in registration order.
func (w *Wire) Watch(watcher Watcher) {
	w.watchers = append(w.watchers, watcher)
}

func (w *Wire) String() string {
	return fmt.Sprintf("%s=%d", w.name, w.value)
}

func (w *Wire) mask() uint64 {
	if w.width == 64 {
		return ^uint64(0)
	}

	return (uint64(1) << w.width) - 1
}
