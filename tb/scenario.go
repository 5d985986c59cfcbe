package tb

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sarchlab/fifotb/api"
	"github.com/sarchlab/fifotb/dut"
	"github.com/sarchlab/fifotb/kernel"
	"github.com/sarchlab/fifotb/util/valgen"
)

// Rounds is how many values the data scenarios push through, from 255 down
// to 0.
const Rounds = 256

// Idle times of the reset scenarios.
const (
	InResetWait = 10 * kernel.NS
	NoClockWait = 5 * kernel.NS
)

// ScenarioFunc is the body of a scenario. It runs as the main process of a
// fresh kernel.
type ScenarioFunc func(p *kernel.Process, env *Env) error

// A Scenario is one directed test.
type Scenario struct {
	Name        string
	Description string
	Run         ScenarioFunc
}

// Scenarios returns the catalogue in run order.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:        "single_word",
			Description: "write one word and read it back, for every value from 255 down to 0",
			Run:         singleWord,
		},
		{
			Name:        "full_empty",
			Description: "fill the FIFO to FIFO_DEPTH with one value, then drain it, for every value from 255 down to 0",
			Run:         fullEmpty,
		},
		{
			Name:        "in_reset",
			Description: "hold both resets with clocks running; rd_empty must stay 1",
			Run:         inReset,
		},
		{
			Name:        "no_clock",
			Description: "hold both resets with no clocks; rd_empty must stay 1",
			Run:         noClock,
		},
	}
}

// FindScenarios returns the named scenarios in catalogue order. No names
// means all of them.
func FindScenarios(names ...string) ([]Scenario, error) {
	all := Scenarios()
	if len(names) == 0 {
		return all, nil
	}

	known := make(map[string]bool, len(all))
	for _, s := range all {
		known[s.Name] = true
	}

	want := make(map[string]bool, len(names))
	var unknown []string

	for _, n := range names {
		if !known[n] {
			unknown = append(unknown, n)
		}

		want[n] = true
	}

	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown scenario(s): %s", strings.Join(unknown, ", "))
	}

	var found []Scenario

	for _, s := range all {
		if want[s.Name] {
			found = append(found, s)
		}
	}

	return found, nil
}

func singleWord(p *kernel.Process, env *Env) error {
	env.enter(p, PhaseClocking)
	StartClocks(p, env.Pins)

	src, sink, err := env.drivers()
	if err != nil {
		return err
	}

	env.enter(p, PhaseResetting)
	ResetDUT(p, env.Pins)

	env.enter(p, PhaseStimulus)

	next := valgen.MakeDecreasingGen(Rounds - 1)
	for round := 0; round < Rounds; round++ {
		v := next()

		src.Write(p, v)
		got := sink.Read(p, 1)

		if got[0] != v {
			return &DataMismatchError{
				Scenario: env.Scenario,
				Round:    round,
				Index:    0,
				Expected: v,
				Actual:   got[0],
			}
		}
	}

	env.enter(p, PhaseDone)

	return nil
}

func fullEmpty(p *kernel.Process, env *Env) error {
	env.enter(p, PhaseClocking)
	StartClocks(p, env.Pins)

	src, sink, err := env.drivers()
	if err != nil {
		return err
	}

	depth, err := env.param(dut.ParamDepth)
	if err != nil {
		return err
	}

	monitor := env.startMonitor(p)

	env.enter(p, PhaseResetting)
	ResetDUT(p, env.Pins)

	env.enter(p, PhaseStimulus)

	words := make([]uint64, depth)
	next := valgen.MakeDecreasingGen(Rounds - 1)

	for round := 0; round < Rounds; round++ {
		v := next()
		valgen.Fill(words, valgen.MakeConstGen(v))

		src.Write(p, words...)
		got := sink.Read(p, len(words))

		if monitor != nil {
			env.peakOccupancy = monitor.Peak()
		}

		for i, w := range got {
			if w != v {
				return &DataMismatchError{
					Scenario: env.Scenario,
					Round:    round,
					Index:    i,
					Expected: v,
					Actual:   w,
				}
			}
		}

		p.Wait(kernel.RisingEdge(env.Pins.RdClk))
	}

	env.enter(p, PhaseDone)

	return nil
}

// startMonitor samples data_count if the device has it.
func (e *Env) startMonitor(p *kernel.Process) *api.CountMonitor {
	monitor, err := api.CountMonitorBuilder{}.
		WithDevice(e.Device).
		Build(e.Scenario + ".CountMonitor")
	if err != nil {
		slog.Debug("CountMonitorSkipped",
			"Scenario", e.Scenario,
			"Reason", err.Error(),
		)

		return nil
	}

	monitor.Start(p)

	return monitor
}

func inReset(p *kernel.Process, env *Env) error {
	env.enter(p, PhaseClocking)
	StartClocks(p, env.Pins)

	env.Pins.RdRstn.Set(0)
	env.Pins.WrRstn.Set(0)

	env.enter(p, PhaseStimulus)
	p.Wait(kernel.Timer(InResetWait))

	if err := env.checkEmpty(); err != nil {
		return err
	}

	env.enter(p, PhaseDone)

	return nil
}

func noClock(p *kernel.Process, env *Env) error {
	env.Pins.RdRstn.Set(0)
	env.Pins.RdClk.Set(0)
	env.Pins.WrRstn.Set(0)

	env.enter(p, PhaseStimulus)
	p.Wait(kernel.Timer(NoClockWait))

	if err := env.checkEmpty(); err != nil {
		return err
	}

	env.enter(p, PhaseDone)

	return nil
}
