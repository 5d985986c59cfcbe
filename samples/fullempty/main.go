package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/fifotb/dut"
	"github.com/sarchlab/fifotb/kernel"
	"github.com/sarchlab/fifotb/model"
	"github.com/sarchlab/fifotb/tb"
)

var depth = 8

func main() {
	monitor := monitoring.NewMonitor()

	runner := tb.MakeRunnerBuilder().
		WithDeviceFactory(func(name string) (dut.Device, error) {
			return model.NewBuilder().
				WithDepth(depth).
				WithFWFT(true).
				WithAckEnable(true).
				Build(name), nil
		}).
		WithTimeLimit(100000 * kernel.NS).
		WithEngineHook(func(_ string, engine sim.Engine) {
			monitor.RegisterEngine(engine)
		}).
		Build()

	monitor.StartServer()

	scenarios, err := tb.FindScenarios("full_empty")
	if err != nil {
		panic(err)
	}

	report := tb.NewReport(runner.Run(context.Background(), scenarios))
	report.WriteReport(os.Stdout)

	fmt.Printf("peak occupancy %d of %d\n", report.Results[0].PeakOccupancy, depth)

	if !report.Passed() {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
