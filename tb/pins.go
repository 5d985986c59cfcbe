package tb

import (
	"github.com/sarchlab/fifotb/dut"
	"github.com/sarchlab/fifotb/signal"
)

// Pins are the device signals the scenarios drive and check directly.
type Pins struct {
	WrClk, RdClk, DataCountClk    signal.Signal
	WrRstn, RdRstn, DataCountRstn signal.Signal
	RdEmpty                       signal.Signal
}

// BindPins looks up the clock, reset and empty signals of a device.
func BindPins(dev dut.Device) (*Pins, error) {
	pins := &Pins{}

	for _, b := range []struct {
		name string
		dst  *signal.Signal
	}{
		{dut.WrClk, &pins.WrClk},
		{dut.RdClk, &pins.RdClk},
		{dut.DataCountClk, &pins.DataCountClk},
		{dut.WrRstn, &pins.WrRstn},
		{dut.RdRstn, &pins.RdRstn},
		{dut.DataCountRstn, &pins.DataCountRstn},
		{dut.RdEmpty, &pins.RdEmpty},
	} {
		s, err := dev.Signal(b.name)
		if err != nil {
			return nil, err
		}

		*b.dst = s
	}

	return pins, nil
}

// Resets returns the reset lines in the order they are driven.
func (p *Pins) Resets() []signal.Signal {
	return []signal.Signal{p.RdRstn, p.WrRstn, p.DataCountRstn}
}
