package tb

import (
	"context"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/fifotb/dut"
	"github.com/sarchlab/fifotb/kernel"
	"github.com/sarchlab/fifotb/util/valgen"
)

// DeviceFactory creates a fresh device for one scenario.
type DeviceFactory func(name string) (dut.Device, error)

// Result is the outcome of one scenario.
type Result struct {
	Scenario      string
	Err           error
	Phase         Phase
	SimTime       sim.VTimeInSec
	Events        uint64
	PeakOccupancy uint64

	// DeviceState is the device's own dump after a failure, if it can
	// render one.
	DeviceState string
}

// Passed reports whether the scenario succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

// A Runner runs scenarios, each on its own engine and device.
type Runner struct {
	factory   DeviceFactory
	limit     sim.VTimeInSec
	parallel  int
	pauseSeed uint64
	onEngine  func(scenario string, engine sim.Engine)
}

// RunnerBuilder creates runners.
type RunnerBuilder struct {
	factory   DeviceFactory
	limit     sim.VTimeInSec
	parallel  int
	pauseSeed uint64
	onEngine  func(scenario string, engine sim.Engine)
}

// MakeRunnerBuilder returns a builder that runs one scenario at a time with
// the default time limit.
func MakeRunnerBuilder() RunnerBuilder {
	return RunnerBuilder{
		limit:    kernel.DefaultTimeLimit,
		parallel: 1,
	}
}

// WithDeviceFactory sets how devices are created.
func (b RunnerBuilder) WithDeviceFactory(f DeviceFactory) RunnerBuilder {
	b.factory = f
	return b
}

// WithTimeLimit sets the simulated time a scenario may take before it is
// reported as stalled.
func (b RunnerBuilder) WithTimeLimit(limit sim.VTimeInSec) RunnerBuilder {
	if limit <= 0 {
		panic("time limit must be positive")
	}

	b.limit = limit

	return b
}

// WithParallel sets how many scenarios may run at once.
func (b RunnerBuilder) WithParallel(n int) RunnerBuilder {
	if n < 1 {
		panic("parallelism must be at least 1")
	}

	b.parallel = n

	return b
}

// WithPauseSeed makes the drivers insert idle cycles drawn from a boolean
// cycle with the given seed. Zero disables idle cycles.
func (b RunnerBuilder) WithPauseSeed(seed uint64) RunnerBuilder {
	b.pauseSeed = seed
	return b
}

// WithEngineHook registers a function that sees every scenario's engine
// before the scenario starts.
func (b RunnerBuilder) WithEngineHook(f func(scenario string, engine sim.Engine)) RunnerBuilder {
	b.onEngine = f
	return b
}

// Build creates a runner.
func (b RunnerBuilder) Build() *Runner {
	if b.factory == nil {
		panic("runner needs a device factory")
	}

	return &Runner{
		factory:   b.factory,
		limit:     b.limit,
		parallel:  b.parallel,
		pauseSeed: b.pauseSeed,
		onEngine:  b.onEngine,
	}
}

// Run runs the scenarios and collects their results in the given order. A
// failing scenario never stops the others. Scenarios that have not started
// when ctx is cancelled report the context's error.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) []Result {
	results := make([]Result, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)

	for i, s := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Scenario: s.Name, Err: err}
				return nil
			}

			results[i] = r.RunOne(s)

			return nil
		})
	}

	_ = g.Wait()

	return results
}

// RunOne runs a single scenario on a fresh engine and a fresh device.
func (r *Runner) RunOne(s Scenario) Result {
	res := Result{Scenario: s.Name}

	dev, err := r.factory(s.Name + ".DUT")
	if err != nil {
		res.Err = &ConfigError{Scenario: s.Name, Err: err}
		return res
	}

	env, err := NewEnv(s.Name, dev)
	if err != nil {
		res.Err = err
		return res
	}

	if r.pauseSeed != 0 {
		env.writePause = valgen.NewBoolCycle(r.pauseSeed).Next
		env.readPause = valgen.NewBoolCycle(r.pauseSeed + 1).Next
	}

	k := kernel.MakeBuilder().
		WithTimeLimit(r.limit).
		Build(s.Name + ".Kernel")

	if r.onEngine != nil {
		r.onEngine(s.Name, k.Engine())
	}

	slog.Info("ScenarioStart", "Scenario", s.Name, "Device", dev.Name())

	res.Err = k.Run(s.Name, func(p *kernel.Process) error {
		return s.Run(p, env)
	})
	res.Phase = env.Phase()
	res.SimTime = k.Now()
	res.Events = k.Events()
	res.PeakOccupancy = env.PeakOccupancy()

	if res.Err != nil {
		if st, ok := dev.(interface{ StateTable() string }); ok {
			res.DeviceState = st.StateTable()
		}

		slog.Error("ScenarioFailed",
			"Scenario", s.Name,
			"Phase", res.Phase.String(),
			"Time", float64(res.SimTime*1e9),
			"Err", res.Err,
		)
	} else {
		slog.Info("ScenarioPassed",
			"Scenario", s.Name,
			"Time", float64(res.SimTime*1e9),
			"Events", res.Events,
		)
	}

	return res
}
