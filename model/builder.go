package model

import (
	"strings"
	"unicode"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/fifotb/dut"
	"github.com/sarchlab/fifotb/signal"
)

// Builder can create behavioral FIFOs.
type Builder struct {
	depth      int
	dataWidth  int
	fwft       bool
	ackEna     bool
	syncStages int
	fault      Fault
}

// NewBuilder returns a builder for a 16-word, 8-bit, standard-mode FIFO with a
// two-stage synchronizer.
func NewBuilder() Builder {
	return Builder{
		depth:      16,
		dataWidth:  8,
		syncStages: 2,
	}
}

// WithDepth sets the capacity in words.
func (b Builder) WithDepth(depth int) Builder {
	if depth < 1 {
		panic("FIFO depth must be at least 1")
	}

	b.depth = depth

	return b
}

// WithDataWidth sets the width of wr_data and rd_data.
func (b Builder) WithDataWidth(width int) Builder {
	if width < 1 || width > 64 {
		panic("data width must be within [1, 64]")
	}

	b.dataWidth = width

	return b
}

// WithFWFT enables first-word-fall-through mode.
func (b Builder) WithFWFT(fwft bool) Builder {
	b.fwft = fwft
	return b
}

// WithAckEnable makes the FIFO pulse wr_ack for every accepted word.
func (b Builder) WithAckEnable(ackEna bool) Builder {
	b.ackEna = ackEna
	return b
}

// WithSyncStages sets how many rd_clk edges a written word needs before the
// read side sees it.
func (b Builder) WithSyncStages(n int) Builder {
	if n < 0 {
		panic("sync stages must not be negative")
	}

	b.syncStages = n

	return b
}

// WithFault injects a misbehavior.
func (b Builder) WithFault(fault Fault) Builder {
	b.fault = fault
	return b
}

// Build creates a FIFO. All resets start asserted.
func (b Builder) Build(name string) *FIFO {
	f := &FIFO{
		Bundle:     dut.NewBundle(name),
		depth:      b.depth,
		fwft:       b.fwft,
		ackEna:     b.ackEna,
		syncStages: uint64(b.syncStages),
		fault:      b.fault,
		storage:    sim.NewBuffer(componentName(name)+".Storage", b.depth),
	}

	f.wrClk = f.bit(dut.WrClk, 0)
	f.rdClk = f.bit(dut.RdClk, 0)
	f.dcClk = f.bit(dut.DataCountClk, 0)
	f.wrRstn = f.bit(dut.WrRstn, 0)
	f.rdRstn = f.bit(dut.RdRstn, 0)
	f.dcRstn = f.bit(dut.DataCountRstn, 0)

	f.wrEn = f.bit(dut.WrEn, 0)
	f.wrData = f.wire(dut.WrData, b.dataWidth)
	f.wrFull = f.bit(dut.WrFull, 1)
	f.wrAck = f.bit(dut.WrAck, 0)

	f.rdEn = f.bit(dut.RdEn, 0)
	f.rdData = f.wire(dut.RdData, b.dataWidth)
	f.rdValid = f.bit(dut.RdValid, 0)
	f.rdEmpty = f.bit(dut.RdEmpty, 1)
	f.dataCount = f.wire(dut.DataCount, 32)

	f.setEmpty(true)

	f.wrRstn.Watch(f.resetChanged)
	f.rdRstn.Watch(f.resetChanged)
	f.wrClk.Watch(f.onWrClk)
	f.rdClk.Watch(f.onRdClk)
	f.dcClk.Watch(f.onDataCountClk)

	f.SetParam(dut.ParamDepth, uint64(b.depth))
	f.SetParam(dut.ParamFWFT, boolParam(b.fwft))
	f.SetParam(dut.ParamAckEna, boolParam(b.ackEna))
	f.SetParam(dut.ParamDataWidth, uint64(b.dataWidth))

	return f
}

func (f *FIFO) bit(name string, init uint64) *signal.Wire {
	w := signal.NewBit(name, init)
	f.AddSignal(w)

	return w
}

func (f *FIFO) wire(name string, width int) *signal.Wire {
	w := signal.NewWire(name, width, 0)
	f.AddSignal(w)

	return w
}

func boolParam(v bool) uint64 {
	if v {
		return 1
	}

	return 0
}

// componentName turns a device name such as "single_word.DUT" into a name
// akita accepts for its components, "SingleWord.DUT": every dot-separated
// element is CamelCase and starts with a capital letter.
func componentName(name string) string {
	elems := strings.Split(name, ".")

	for i, elem := range elems {
		var sb strings.Builder

		upper := true
		for _, r := range elem {
			if r > unicode.MaxASCII || !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				upper = true
				continue
			}

			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}

			sb.WriteRune(r)
		}

		e := sb.String()
		if e == "" || !unicode.IsUpper(rune(e[0])) {
			// Names must not start with a digit.
			e = "N" + e
		}

		elems[i] = e
	}

	return strings.Join(elems, ".")
}
