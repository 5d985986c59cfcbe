package config

import (
	"github.com/sarchlab/fifotb/dut"
	"github.com/sarchlab/fifotb/model"
	"github.com/sarchlab/fifotb/tb"
)

// DeviceBuilder can build the behavioral FIFOs a configuration describes.
type DeviceBuilder struct {
	cfg DeviceConfig
}

// WithConfig sets the device configuration.
func (d DeviceBuilder) WithConfig(cfg DeviceConfig) DeviceBuilder {
	d.cfg = cfg
	return d
}

// Build creates a device.
func (d DeviceBuilder) Build(name string) (dut.Device, error) {
	fault, err := model.ParseFault(d.cfg.Fault)
	if err != nil {
		return nil, err
	}

	b := model.NewBuilder().
		WithDepth(d.cfg.Depth).
		WithFWFT(d.cfg.FWFT).
		WithAckEnable(d.cfg.AckEnable).
		WithSyncStages(d.cfg.SyncStages).
		WithFault(fault)

	if d.cfg.DataWidth != 0 {
		b = b.WithDataWidth(d.cfg.DataWidth)
	}

	return b.Build(name), nil
}

// Factory returns a device factory that builds a new device for every
// scenario.
func (d DeviceBuilder) Factory() tb.DeviceFactory {
	return func(name string) (dut.Device, error) {
		return d.Build(name)
	}
}
