// Package api provides the transaction driver of a FIFO's native interface: a
// source that pushes words on the write side, a sink that pops them on the
// read side, and a monitor of the status-count domain.
package api

import (
	"github.com/sarchlab/fifotb/kernel"
	"github.com/sarchlab/fifotb/signal"
)

// Source performs the write-side handshake.
type Source struct {
	name string

	clk, rstn, en, data, full, ack signal.Signal

	ackEnable bool
	pause     func() bool
	written   uint64
}

// Name returns the name of the source.
func (s *Source) Name() string {
	return s.name
}

// AckEnabled reports whether the source waits for wr_ack.
func (s *Source) AckEnabled() bool {
	return s.ackEnable
}

// Written returns the number of words accepted by the device.
func (s *Source) Written() uint64 {
	return s.written
}

// Write pushes the values in order. It returns once the device has accepted
// every value. Without acknowledge, a word is accepted on the first clock
// edge it is presented while the FIFO is not full. With acknowledge, the word
// is held until the device pulses ack.
func (s *Source) Write(p *kernel.Process, values ...uint64) {
	for _, v := range values {
		idle(p, s.clk, s.pause)
		s.waitReady(p)

		s.data.Set(v)
		s.en.Set(1)

		for {
			p.Wait(kernel.RisingEdge(s.clk))

			if !s.ackEnable || s.ack.Value() == 1 {
				break
			}
		}

		s.en.Set(0)
		s.written++

		kernel.Trace("SourceWrite",
			"Source", s.name,
			"Data", v,
			"Time", float64(p.Now()*1e9),
		)
	}
}

func (s *Source) waitReady(p *kernel.Process) {
	for s.rstn.Value() == 0 || s.full.Value() == 1 {
		s.en.Set(0)
		p.Wait(kernel.RisingEdge(s.clk))
	}
}

// Sink performs the read-side handshake.
type Sink struct {
	name string

	clk, rstn, en, data, empty, valid signal.Signal

	fwft  bool
	pause func() bool
	read  uint64
}

// Name returns the name of the sink.
func (s *Sink) Name() string {
	return s.name
}

// FWFT reports whether the sink expects first-word-fall-through output.
func (s *Sink) FWFT() bool {
	return s.fwft
}

// Words returns the number of words the sink has taken out of the device.
func (s *Sink) Words() uint64 {
	return s.read
}

// Read takes n words out of the device in order and returns them.
func (s *Sink) Read(p *kernel.Process, n int) []uint64 {
	out := make([]uint64, 0, n)

	for len(out) < n {
		idle(p, s.clk, s.pause)
		s.waitNotEmpty(p)

		if s.fwft {
			out = append(out, s.data.Value())

			s.en.Set(1)
			p.Wait(kernel.RisingEdge(s.clk))
			s.en.Set(0)
		} else {
			s.en.Set(1)
			p.Wait(kernel.RisingEdge(s.clk))
			s.en.Set(0)

			if s.valid.Value() == 0 {
				continue
			}

			out = append(out, s.data.Value())
		}

		s.read++

		kernel.Trace("SinkRead",
			"Sink", s.name,
			"Data", out[len(out)-1],
			"Time", float64(p.Now()*1e9),
		)
	}

	return out
}

func (s *Sink) waitNotEmpty(p *kernel.Process) {
	for s.rstn.Value() == 0 || s.empty.Value() == 1 {
		s.en.Set(0)
		p.Wait(kernel.RisingEdge(s.clk))
	}
}

// idle waits one clock edge for every true the pause generator returns.
func idle(p *kernel.Process, clk signal.Signal, pause func() bool) {
	if pause == nil {
		return
	}

	for pause() {
		p.Wait(kernel.RisingEdge(clk))
	}
}

// CountMonitor samples data_count on every rising edge of its clock.
type CountMonitor struct {
	name string

	clk, count signal.Signal

	samples uint64
	last    uint64
	peak    uint64
}

// Start spawns the sampling process as a child of p. The process runs until
// the kernel tears down.
func (m *CountMonitor) Start(p *kernel.Process) *kernel.Process {
	return p.Spawn(m.name, m.run)
}

func (m *CountMonitor) run(p *kernel.Process) error {
	for {
		p.Wait(kernel.RisingEdge(m.clk))

		m.samples++
		m.last = m.count.Value()
		if m.last > m.peak {
			m.peak = m.last
		}
	}
}

// Samples returns how many times data_count was sampled.
func (m *CountMonitor) Samples() uint64 {
	return m.samples
}

// Last returns the most recent sample.
func (m *CountMonitor) Last() uint64 {
	return m.last
}

// Peak returns the highest sample seen.
func (m *CountMonitor) Peak() uint64 {
	return m.peak
}
