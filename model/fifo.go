// Package model provides a behavioral dual-clock FIFO. It stands in for the
// RTL device when no external simulator is attached, so the harness can be
// exercised end to end.
package model

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/fifotb/dut"
	"github.com/sarchlab/fifotb/kernel"
	"github.com/sarchlab/fifotb/signal"
)

type entry struct {
	data      uint64
	visibleAt uint64
}

// FIFO is a behavioral dual-clock FIFO with a Xilinx-style native interface.
//
// Words written on a wr_clk edge become visible to the read side after
// syncStages rd_clk edges. While either wr_rstn or rd_rstn is low the FIFO is
// empty, reports full on the write side and ignores both enables. Outputs
// change on the rising edge of their clock, so anyone sampling after an edge
// sees the post-edge state.
type FIFO struct {
	*dut.Bundle

	depth      int
	fwft       bool
	ackEna     bool
	syncStages uint64
	fault      Fault

	storage sim.Buffer
	rdEdges uint64
	pushed  uint64
	popped  uint64

	wrClk, rdClk, dcClk    *signal.Wire
	wrRstn, rdRstn, dcRstn *signal.Wire

	wrEn, wrData, wrFull, wrAck *signal.Wire
	rdEn, rdData, rdValid       *signal.Wire
	rdEmpty, dataCount          *signal.Wire
}

// Depth returns the capacity in words.
func (f *FIFO) Depth() int {
	return f.depth
}

// Occupancy returns how many words are stored, visible or not.
func (f *FIFO) Occupancy() int {
	return f.storage.Size()
}

// Pushed returns the number of words accepted since construction.
func (f *FIFO) Pushed() uint64 {
	return f.pushed
}

// Popped returns the number of words handed out since construction.
func (f *FIFO) Popped() uint64 {
	return f.popped
}

func (f *FIFO) inReset() bool {
	return f.wrRstn.Value() == 0 || f.rdRstn.Value() == 0
}

func (f *FIFO) resetChanged(_ signal.Change) {
	if !f.inReset() {
		return
	}

	f.storage.Clear()
	f.wrFull.Set(1)
	f.wrAck.Set(0)
	f.rdValid.Set(0)
	f.rdData.Set(0)
	f.setEmpty(true)

	kernel.Trace("FIFOReset",
		"Device", f.Name(),
		"WrRstn", f.wrRstn.Value(),
		"RdRstn", f.rdRstn.Value(),
	)
}

func (f *FIFO) onWrClk(c signal.Change) {
	if !c.Rising() {
		return
	}

	f.wrAck.Set(0)

	if f.inReset() {
		f.wrFull.Set(1)
		return
	}

	if f.wrEn.Value() == 1 && f.storage.CanPush() {
		f.push(f.wrData.Value())
	}

	if f.storage.CanPush() {
		f.wrFull.Set(0)
	} else {
		f.wrFull.Set(1)
	}
}

func (f *FIFO) push(data uint64) {
	f.storage.Push(entry{
		data:      data,
		visibleAt: f.rdEdges + f.syncStages,
	})
	f.pushed++

	if f.ackEna {
		f.wrAck.Set(1)
	}

	kernel.Trace("FIFOPush",
		"Device", f.Name(),
		"Data", data,
		"Occupancy", f.storage.Size(),
	)
}

func (f *FIFO) onRdClk(c signal.Change) {
	if !c.Rising() {
		return
	}

	f.rdEdges++

	if f.inReset() {
		f.rdValid.Set(0)
		f.setEmpty(true)
		return
	}

	popRequested := f.rdEn.Value() == 1 && f.rdEmpty.Value() == 0

	if f.fwft {
		if popRequested {
			f.pop()
		}

		f.present()

		return
	}

	f.rdValid.Set(0)

	if popRequested {
		e := f.pop()
		f.rdData.Set(f.output(e.data))
		f.rdValid.Set(1)
	}

	f.setEmpty(!f.headVisible())
}

// present shows the head word on rd_data in first-word-fall-through mode.
func (f *FIFO) present() {
	if !f.headVisible() {
		f.rdValid.Set(0)
		f.setEmpty(true)

		return
	}

	head := f.storage.Peek().(entry)
	f.rdData.Set(f.output(head.data))
	f.rdValid.Set(1)
	f.setEmpty(false)
}

func (f *FIFO) pop() entry {
	e := f.storage.Pop().(entry)
	f.popped++

	kernel.Trace("FIFOPop",
		"Device", f.Name(),
		"Data", e.data,
		"Occupancy", f.storage.Size(),
	)

	return e
}

func (f *FIFO) headVisible() bool {
	if f.fault == FaultStall {
		return false
	}

	item := f.storage.Peek()
	if item == nil {
		return false
	}

	return item.(entry).visibleAt <= f.rdEdges
}

func (f *FIFO) output(data uint64) uint64 {
	if f.fault == FaultCorruptData {
		return data ^ 1
	}

	return data
}

func (f *FIFO) setEmpty(empty bool) {
	if f.fault == FaultEmptyLow && f.inReset() {
		empty = false
	}

	if empty {
		f.rdEmpty.Set(1)
	} else {
		f.rdEmpty.Set(0)
	}
}

func (f *FIFO) onDataCountClk(c signal.Change) {
	if !c.Rising() {
		return
	}

	if f.dcRstn.Value() == 0 {
		f.dataCount.Set(0)
		return
	}

	f.dataCount.Set(uint64(f.storage.Size()))
}

func (f *FIFO) String() string {
	return fmt.Sprintf("FIFO(%s, depth=%d, fwft=%t, ack=%t)",
		f.Name(), f.depth, f.fwft, f.ackEna)
}
