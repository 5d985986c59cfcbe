package tb

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/fifotb/api"
	"github.com/sarchlab/fifotb/dut"
	"github.com/sarchlab/fifotb/kernel"
)

// Phase is how far a scenario has progressed.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseClocking
	PhaseResetting
	PhaseStimulus
	PhaseDone
)

var phaseNames = [...]string{
	PhaseNotStarted: "NOT_STARTED",
	PhaseClocking:   "CLOCKING",
	PhaseResetting:  "RESETTING",
	PhaseStimulus:   "STIMULUS",
	PhaseDone:       "DONE",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}

	return phaseNames[p]
}

// Env is what a scenario works with: the device, its pins, and the
// statistics the scenario leaves behind.
type Env struct {
	Scenario string
	Device   dut.Device
	Pins     *Pins

	writePause func() bool
	readPause  func() bool

	phase         Phase
	peakOccupancy uint64
}

// NewEnv binds the pins of a device. A missing pin is a ConfigError.
func NewEnv(scenario string, dev dut.Device) (*Env, error) {
	pins, err := BindPins(dev)
	if err != nil {
		return nil, &ConfigError{Scenario: scenario, Err: err}
	}

	return &Env{
		Scenario: scenario,
		Device:   dev,
		Pins:     pins,
	}, nil
}

// Phase returns the phase the scenario reached.
func (e *Env) Phase() Phase {
	return e.phase
}

// PeakOccupancy returns the highest data_count sampled, if the scenario
// monitored it.
func (e *Env) PeakOccupancy() uint64 {
	return e.peakOccupancy
}

func (e *Env) enter(p *kernel.Process, phase Phase) {
	e.phase = phase

	slog.Debug("ScenarioPhase",
		"Scenario", e.Scenario,
		"Phase", phase.String(),
		"Time", float64(p.Now()*1e9),
	)
}

func (e *Env) param(name string) (uint64, error) {
	v, err := e.Device.Param(name)
	if err != nil {
		return 0, &ConfigError{Scenario: e.Scenario, Err: err}
	}

	return v, nil
}

// drivers binds a source on the "wr" bus and a sink on the "rd" bus, with
// FWFT and ACK_ENA taken from the device.
func (e *Env) drivers() (*api.Source, *api.Sink, error) {
	src, err := api.MakeSourceBuilder().
		WithDevice(e.Device).
		WithPause(e.writePause).
		Build(e.Scenario + ".Source")
	if err != nil {
		return nil, nil, &ConfigError{Scenario: e.Scenario, Err: err}
	}

	sink, err := api.MakeSinkBuilder().
		WithDevice(e.Device).
		WithPause(e.readPause).
		Build(e.Scenario + ".Sink")
	if err != nil {
		return nil, nil, &ConfigError{Scenario: e.Scenario, Err: err}
	}

	return src, sink, nil
}

func (e *Env) checkEmpty() error {
	v := e.Pins.RdEmpty.Value()
	if v != 1 {
		return &StatusMismatchError{
			Scenario: e.Scenario,
			Flag:     dut.RdEmpty,
			Expected: 1,
			Actual:   v,
		}
	}

	return nil
}
