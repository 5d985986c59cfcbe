// Package config loads run configurations and builds the devices they
// describe.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/fifotb/kernel"
	"github.com/sarchlab/fifotb/model"
	"github.com/sarchlab/fifotb/tb"
)

// Config is the content of a run configuration file.
type Config struct {
	Device DeviceConfig `yaml:"device"`
	Run    RunConfig    `yaml:"run"`
	Log    LogConfig    `yaml:"log"`
}

// DeviceConfig describes the behavioral FIFO to test.
type DeviceConfig struct {
	Depth      int    `yaml:"depth"`
	FWFT       bool   `yaml:"fwft"`
	AckEnable  bool   `yaml:"ack_enable"`
	DataWidth  int    `yaml:"data_width"`
	SyncStages int    `yaml:"sync_stages"`
	Fault      string `yaml:"fault"`
}

// RunConfig selects and paces the scenarios.
type RunConfig struct {
	// Scenarios to run. Empty means all of them.
	Scenarios []string `yaml:"scenarios"`
	Parallel  int      `yaml:"parallel"`
	TimeoutNS float64  `yaml:"timeout_ns"`
	PauseSeed uint64   `yaml:"pause_seed"`
	// Report is a file the report is saved to, if set.
	Report string `yaml:"report"`
}

// LogConfig sets the verbosity.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Device: DeviceConfig{
			Depth:      16,
			DataWidth:  8,
			SyncStages: 2,
			Fault:      "none",
		},
		Run: RunConfig{
			Parallel:  1,
			TimeoutNS: float64(kernel.DefaultTimeLimit / kernel.NS),
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads a configuration file. Fields missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(bytes.NewReader(data))
}

// Parse decodes a configuration. Unknown fields are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration can be run.
func (c Config) Validate() error {
	if c.Device.Depth < 1 {
		return fmt.Errorf("device.depth must be at least 1, got %d", c.Device.Depth)
	}

	if c.Device.DataWidth < 8 || c.Device.DataWidth > 64 {
		return fmt.Errorf("device.data_width must be within [8, 64], got %d",
			c.Device.DataWidth)
	}

	if c.Device.SyncStages < 0 {
		return fmt.Errorf("device.sync_stages must not be negative")
	}

	if _, err := model.ParseFault(c.Device.Fault); err != nil {
		return fmt.Errorf("device.fault: %w", err)
	}

	if c.Run.Parallel < 1 {
		return fmt.Errorf("run.parallel must be at least 1, got %d", c.Run.Parallel)
	}

	if c.Run.TimeoutNS <= 0 {
		return fmt.Errorf("run.timeout_ns must be positive")
	}

	if _, err := tb.FindScenarios(c.Run.Scenarios...); err != nil {
		return fmt.Errorf("run.scenarios: %w", err)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// TimeLimit returns the per-scenario simulated time limit.
func (c Config) TimeLimit() sim.VTimeInSec {
	return sim.VTimeInSec(c.Run.TimeoutNS) * kernel.NS
}

// RunnerBuilder returns a runner builder for the configured device and
// pacing.
func (c Config) RunnerBuilder() tb.RunnerBuilder {
	return tb.MakeRunnerBuilder().
		WithDeviceFactory(DeviceBuilder{}.WithConfig(c.Device).Factory()).
		WithTimeLimit(c.TimeLimit()).
		WithParallel(c.Run.Parallel).
		WithPauseSeed(c.Run.PauseSeed)
}

// ParseLevel converts a level name to a slog level. "trace" selects the
// per-event simulation traces.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "trace":
		return kernel.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}
