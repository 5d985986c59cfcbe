package api

import (
	"fmt"

	"github.com/sarchlab/fifotb/dut"
	"github.com/sarchlab/fifotb/signal"
)

// SourceBuilder creates sources bound to a device by bus prefix. With prefix
// "wr" the source drives wr_en and wr_data, and watches wr_clk, wr_rstn,
// wr_full and wr_ack.
type SourceBuilder struct {
	device    dut.Device
	prefix    string
	ackEnable *bool
	pause     func() bool
}

// MakeSourceBuilder returns a builder for the "wr" bus.
func MakeSourceBuilder() SourceBuilder {
	return SourceBuilder{prefix: "wr"}
}

// WithDevice sets the device to bind to.
func (b SourceBuilder) WithDevice(device dut.Device) SourceBuilder {
	b.device = device
	return b
}

// WithPrefix sets the bus prefix.
func (b SourceBuilder) WithPrefix(prefix string) SourceBuilder {
	b.prefix = prefix
	return b
}

// WithAckEnable overrides the device's ACK_ENA parameter.
func (b SourceBuilder) WithAckEnable(ackEnable bool) SourceBuilder {
	b.ackEnable = &ackEnable
	return b
}

// WithPause sets a generator that inserts idle cycles before each word.
func (b SourceBuilder) WithPause(pause func() bool) SourceBuilder {
	b.pause = pause
	return b
}

// Build binds a source. Missing signals or parameters are reported as errors.
func (b SourceBuilder) Build(name string) (*Source, error) {
	if b.device == nil {
		panic("source needs a device")
	}

	s := &Source{name: name, pause: b.pause}
	l := lookup{device: b.device, prefix: b.prefix}

	s.clk = l.signal("clk")
	s.rstn = l.signal("rstn")
	s.en = l.signal("en")
	s.data = l.signal("data")
	s.full = l.signal("full")

	if b.ackEnable != nil {
		s.ackEnable = *b.ackEnable
	} else {
		s.ackEnable = l.flag(dut.ParamAckEna)
	}

	if s.ackEnable {
		s.ack = l.signal("ack")
	}

	if l.err != nil {
		return nil, fmt.Errorf("source %s: %w", name, l.err)
	}

	return s, nil
}

// SinkBuilder creates sinks bound to a device by bus prefix. With prefix "rd"
// the sink drives rd_en, and watches rd_clk, rd_rstn, rd_empty, rd_data and
// rd_valid.
type SinkBuilder struct {
	device dut.Device
	prefix string
	fwft   *bool
	pause  func() bool
}

// MakeSinkBuilder returns a builder for the "rd" bus.
func MakeSinkBuilder() SinkBuilder {
	return SinkBuilder{prefix: "rd"}
}

// WithDevice sets the device to bind to.
func (b SinkBuilder) WithDevice(device dut.Device) SinkBuilder {
	b.device = device
	return b
}

// WithPrefix sets the bus prefix.
func (b SinkBuilder) WithPrefix(prefix string) SinkBuilder {
	b.prefix = prefix
	return b
}

// WithFWFT overrides the device's FWFT parameter.
func (b SinkBuilder) WithFWFT(fwft bool) SinkBuilder {
	b.fwft = &fwft
	return b
}

// WithPause sets a generator that inserts idle cycles before each read.
func (b SinkBuilder) WithPause(pause func() bool) SinkBuilder {
	b.pause = pause
	return b
}

// Build binds a sink.
func (b SinkBuilder) Build(name string) (*Sink, error) {
	if b.device == nil {
		panic("sink needs a device")
	}

	s := &Sink{name: name, pause: b.pause}
	l := lookup{device: b.device, prefix: b.prefix}

	s.clk = l.signal("clk")
	s.rstn = l.signal("rstn")
	s.en = l.signal("en")
	s.data = l.signal("data")
	s.empty = l.signal("empty")

	if b.fwft != nil {
		s.fwft = *b.fwft
	} else {
		s.fwft = l.flag(dut.ParamFWFT)
	}

	if !s.fwft {
		s.valid = l.signal("valid")
	}

	if l.err != nil {
		return nil, fmt.Errorf("sink %s: %w", name, l.err)
	}

	return s, nil
}

// CountMonitorBuilder creates monitors of the data_count output.
type CountMonitorBuilder struct {
	device dut.Device
}

// WithDevice sets the device to bind to.
func (b CountMonitorBuilder) WithDevice(device dut.Device) CountMonitorBuilder {
	b.device = device
	return b
}

// Build binds a monitor to data_count_clk and data_count.
func (b CountMonitorBuilder) Build(name string) (*CountMonitor, error) {
	if b.device == nil {
		panic("monitor needs a device")
	}

	m := &CountMonitor{name: name}
	l := lookup{device: b.device}

	m.clk = l.signal(dut.DataCountClk)
	m.count = l.signal(dut.DataCount)

	if l.err != nil {
		return nil, fmt.Errorf("monitor %s: %w", name, l.err)
	}

	return m, nil
}

// lookup resolves names and keeps the first error.
type lookup struct {
	device dut.Device
	prefix string
	err    error
}

func (l *lookup) signal(name string) signal.Signal {
	if l.err != nil {
		return nil
	}

	if l.prefix != "" {
		name = l.prefix + "_" + name
	}

	s, err := l.device.Signal(name)
	if err != nil {
		l.err = err
		return nil
	}

	return s
}

func (l *lookup) flag(name string) bool {
	if l.err != nil {
		return false
	}

	v, err := l.device.Param(name)
	if err != nil {
		l.err = err
		return false
	}

	return v != 0
}
