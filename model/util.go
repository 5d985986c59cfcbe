package model

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Fault is a deliberate misbehavior of the behavioral FIFO.
type Fault int

const (
	FaultNone Fault = iota
	// FaultCorruptData flips bit 0 of every word on the read side.
	FaultCorruptData
	// FaultEmptyLow drives rd_empty low while the FIFO is held in reset.
	FaultEmptyLow
	// FaultStall never lets a written word reach the read side.
	FaultStall
)

var faultNames = map[Fault]string{
	FaultNone:        "none",
	FaultCorruptData: "corrupt-data",
	FaultEmptyLow:    "empty-low",
	FaultStall:       "stall",
}

func (f Fault) String() string {
	if name, ok := faultNames[f]; ok {
		return name
	}

	return fmt.Sprintf("Fault(%d)", int(f))
}

// ParseFault converts a fault name back to a Fault. The empty string means no
// fault.
func ParseFault(name string) (Fault, error) {
	if name == "" {
		return FaultNone, nil
	}

	for f, n := range faultNames {
		if n == name {
			return f, nil
		}
	}

	return FaultNone, fmt.Errorf("unknown fault %q", name)
}

// StateTable renders the FIFO's counters and pins.
func (f *FIFO) StateTable() string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("State of %s", f.Name()))
	t.AppendHeader(table.Row{"Item", "Value"})

	t.AppendRow(table.Row{"Depth", f.depth})
	t.AppendRow(table.Row{"FWFT", f.fwft})
	t.AppendRow(table.Row{"ACK_ENA", f.ackEna})
	t.AppendRow(table.Row{"Fault", f.fault})
	t.AppendRow(table.Row{"Occupancy", f.storage.Size()})
	t.AppendRow(table.Row{"Pushed", f.pushed})
	t.AppendRow(table.Row{"Popped", f.popped})
	t.AppendSeparator()

	for _, name := range f.SignalNames() {
		s, _ := f.Signal(name)
		t.AppendRow(table.Row{name, s.Value()})
	}

	return t.Render()
}
