package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/cobra"

	"github.com/sarchlab/fifotb/config"
	"github.com/sarchlab/fifotb/tb"
)

var runFlags struct {
	config    string
	depth     int
	fwft      bool
	ack       bool
	fault     string
	scenarios []string
	parallel  int
	timeoutNS float64
	pauseSeed uint64
	logLevel  string
	report    string
	monitor   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run scenarios against the behavioral FIFO",
	Long: `Run the directed scenarios, each on its own engine and device.

Settings come from the defaults, then the --config file, then the flags.
The exit code is 1 if any scenario fails.`,
	Args: cobra.NoArgs,
	RunE: runScenarios,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.config, "config", "", "YAML configuration file")
	f.IntVar(&runFlags.depth, "depth", 0, "FIFO depth in words")
	f.BoolVar(&runFlags.fwft, "fwft", false, "first-word-fall-through mode")
	f.BoolVar(&runFlags.ack, "ack", false, "enable the write acknowledge")
	f.StringVar(&runFlags.fault, "fault", "", "inject a fault: none, corrupt-data, empty-low, stall")
	f.StringSliceVar(&runFlags.scenarios, "scenario", nil, "scenario to run, repeatable (default all)")
	f.IntVar(&runFlags.parallel, "parallel", 0, "scenarios to run at once")
	f.Float64Var(&runFlags.timeoutNS, "timeout-ns", 0, "simulated time limit per scenario in ns")
	f.Uint64Var(&runFlags.pauseSeed, "pause-seed", 0, "seed of random idle cycles on the buses, 0 for none")
	f.StringVar(&runFlags.logLevel, "log-level", "", "trace, debug, info, warn or error")
	f.StringVar(&runFlags.report, "report", "", "also save the report to this file")
	f.BoolVar(&runFlags.monitor, "monitor", false, "serve the akita monitor while running")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if runFlags.config != "" {
		var err error

		cfg, err = config.Load(runFlags.config)
		if err != nil {
			return config.Config{}, err
		}
	}

	f := cmd.Flags()
	if f.Changed("depth") {
		cfg.Device.Depth = runFlags.depth
	}
	if f.Changed("fwft") {
		cfg.Device.FWFT = runFlags.fwft
	}
	if f.Changed("ack") {
		cfg.Device.AckEnable = runFlags.ack
	}
	if f.Changed("fault") {
		cfg.Device.Fault = runFlags.fault
	}
	if f.Changed("scenario") {
		cfg.Run.Scenarios = runFlags.scenarios
	}
	if f.Changed("parallel") {
		cfg.Run.Parallel = runFlags.parallel
	}
	if f.Changed("timeout-ns") {
		cfg.Run.TimeoutNS = runFlags.timeoutNS
	}
	if f.Changed("pause-seed") {
		cfg.Run.PauseSeed = runFlags.pauseSeed
	}
	if f.Changed("log-level") {
		cfg.Log.Level = runFlags.logLevel
	}
	if f.Changed("report") {
		cfg.Run.Report = runFlags.report
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func runScenarios(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level})))

	scenarios, err := tb.FindScenarios(cfg.Run.Scenarios...)
	if err != nil {
		return err
	}

	builder := cfg.RunnerBuilder()

	if runFlags.monitor {
		monitor := monitoring.NewMonitor()

		// The monitor follows one engine at a time.
		builder = builder.
			WithParallel(1).
			WithEngineHook(func(_ string, engine sim.Engine) {
				monitor.RegisterEngine(engine)
			})

		monitor.StartServer()
	}

	report := tb.NewReport(builder.Build().Run(cmd.Context(), scenarios))
	report.WriteReport(cmd.OutOrStdout())

	if cfg.Run.Report != "" {
		if err := report.SaveReportToFile(cfg.Run.Report); err != nil {
			return err
		}
	}

	if !report.Passed() {
		return fmt.Errorf("%d of %d: %w",
			len(report.Failed()), len(report.Results), errScenariosFailed)
	}

	return nil
}
