// Package dut defines how the harness sees a device under test: a bundle of
// named signals and static parameters.
package dut

import (
	"fmt"
	"sort"

	"github.com/sarchlab/fifotb/signal"
)

// Clock, reset and status signals every dual-clock FIFO exposes.
const (
	WrClk        = "wr_clk"
	RdClk        = "rd_clk"
	DataCountClk = "data_count_clk"

	WrRstn        = "wr_rstn"
	RdRstn        = "rd_rstn"
	DataCountRstn = "data_count_rstn"

	RdEmpty   = "rd_empty"
	DataCount = "data_count"
)

// Native-interface signals the transaction driver uses.
const (
	WrEn   = "wr_en"
	WrData = "wr_data"
	WrFull = "wr_full"
	WrAck  = "wr_ack"

	RdEn    = "rd_en"
	RdData  = "rd_data"
	RdValid = "rd_valid"
)

// Static configuration parameters.
const (
	ParamDepth     = "FIFO_DEPTH"
	ParamFWFT      = "FWFT"
	ParamAckEna    = "ACK_ENA"
	ParamDataWidth = "DATA_WIDTH"
)

// A Device is a device under test seen through its signals.
type Device interface {
	Name() string

	// Signal looks up a signal by name.
	Signal(name string) (signal.Signal, error)

	// Param looks up a static configuration parameter by name.
	Param(name string) (uint64, error)
}

// LookupError reports a signal or parameter the device does not have.
type LookupError struct {
	Device string
	Kind   string
	Name   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("device %s has no %s named %q", e.Device, e.Kind, e.Name)
}

// Bundle is a name-indexed collection of signals and parameters. Backends
// embed it to implement Device.
type Bundle struct {
	name    string
	signals map[string]signal.Signal
	params  map[string]uint64
}

// NewBundle creates an empty bundle.
func NewBundle(name string) *Bundle {
	return &Bundle{
		name:    name,
		signals: make(map[string]signal.Signal),
		params:  make(map[string]uint64),
	}
}

// Name returns the device name.
func (b *Bundle) Name() string {
	return b.name
}

// AddSignal registers a signal under its own name.
func (b *Bundle) AddSignal(s signal.Signal) {
	if _, ok := b.signals[s.Name()]; ok {
		panic(fmt.Sprintf("device %s: signal %s added twice", b.name, s.Name()))
	}

	b.signals[s.Name()] = s
}

// SetParam sets a static parameter.
func (b *Bundle) SetParam(name string, v uint64) {
	b.params[name] = v
}

// Signal looks up a signal by name.
func (b *Bundle) Signal(name string) (signal.Signal, error) {
	s, ok := b.signals[name]
	if !ok {
		return nil, &LookupError{Device: b.name, Kind: "signal", Name: name}
	}

	return s, nil
}

// Param looks up a parameter by name.
func (b *Bundle) Param(name string) (uint64, error) {
	v, ok := b.params[name]
	if !ok {
		return 0, &LookupError{Device: b.name, Kind: "parameter", Name: name}
	}

	return v, nil
}

// SignalNames lists the registered signals in sorted order.
func (b *Bundle) SignalNames() []string {
	names := make([]string, 0, len(b.signals))
	for name := range b.signals {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
