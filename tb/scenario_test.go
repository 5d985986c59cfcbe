package tb_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"

	"github.com/sarchlab/fifotb/config"
	"github.com/sarchlab/fifotb/dut"
	"github.com/sarchlab/fifotb/kernel"
	"github.com/sarchlab/fifotb/model"
	"github.com/sarchlab/fifotb/tb"
)

func factory(b model.Builder) tb.DeviceFactory {
	return func(name string) (dut.Device, error) {
		return b.Build(name), nil
	}
}

func runnerFor(b model.Builder) *tb.Runner {
	return tb.MakeRunnerBuilder().
		WithDeviceFactory(factory(b)).
		WithTimeLimit(100000 * kernel.NS).
		WithParallel(4).
		Build()
}

func scenario(name string) tb.Scenario {
	found, err := tb.FindScenarios(name)
	Expect(err).NotTo(HaveOccurred())

	return found[0]
}

var _ = Describe("Scenarios", func() {
	var leakOpt goleak.Option

	BeforeEach(func() {
		leakOpt = goleak.IgnoreCurrent()
	})

	AfterEach(func() {
		goleak.VerifyNone(GinkgoT(), leakOpt)
	})

	DescribeTable("should pass on a correct FIFO",
		func(depth int, fwft, ack bool) {
			b := model.NewBuilder().
				WithDepth(depth).
				WithFWFT(fwft).
				WithAckEnable(ack)

			results := runnerFor(b).Run(ctx(), tb.Scenarios())

			Expect(results).To(HaveLen(4))
			for _, res := range results {
				Expect(res.Err).NotTo(HaveOccurred(), res.Scenario)
				Expect(res.Phase).To(Equal(tb.PhaseDone), res.Scenario)
			}

			Expect(results[1].Scenario).To(Equal("full_empty"))
			Expect(results[1].PeakOccupancy).To(Equal(uint64(depth)))
		},
		Entry("depth 4", 4, false, false),
		Entry("depth 4, ack", 4, false, true),
		Entry("depth 4, fwft", 4, true, false),
		Entry("depth 4, fwft, ack", 4, true, true),
		Entry("depth 8", 8, false, false),
		Entry("depth 8, ack", 8, false, true),
		Entry("depth 8, fwft", 8, true, false),
		Entry("depth 8, fwft, ack", 8, true, true),
		Entry("depth 16", 16, false, false),
		Entry("depth 16, ack", 16, false, true),
		Entry("depth 16, fwft", 16, true, false),
		Entry("depth 16, fwft, ack", 16, true, true),
	)

	It("should pass every scenario on devices from the default config", func() {
		r := tb.MakeRunnerBuilder().
			WithDeviceFactory(config.DeviceBuilder{}.WithConfig(config.Default().Device).Factory()).
			WithTimeLimit(100000 * kernel.NS).
			WithParallel(2).
			Build()

		results := r.Run(ctx(), tb.Scenarios())

		Expect(results).To(HaveLen(4))
		for _, res := range results {
			Expect(res.Err).NotTo(HaveOccurred(), res.Scenario)
			Expect(res.Phase).To(Equal(tb.PhaseDone), res.Scenario)
		}
	})

	It("should pass with idle cycles on both buses", func() {
		r := tb.MakeRunnerBuilder().
			WithDeviceFactory(factory(model.NewBuilder().WithDepth(4))).
			WithTimeLimit(200000 * kernel.NS).
			WithPauseSeed(7).
			Build()

		for _, res := range r.Run(ctx(), tb.Scenarios()) {
			Expect(res.Err).NotTo(HaveOccurred(), res.Scenario)
		}
	})

	It("should detect corrupted data in single_word", func() {
		r := runnerFor(model.NewBuilder().WithFault(model.FaultCorruptData))

		res := r.RunOne(scenario("single_word"))

		var dm *tb.DataMismatchError
		Expect(errors.As(res.Err, &dm)).To(BeTrue())
		Expect(dm.Scenario).To(Equal("single_word"))
		Expect(dm.Round).To(Equal(0))
		Expect(dm.Expected).To(Equal(uint64(255)))
		Expect(dm.Actual).To(Equal(uint64(254)))
		Expect(res.Phase).To(Equal(tb.PhaseStimulus))
		Expect(res.DeviceState).To(ContainSubstring("rd_empty"))
	})

	It("should detect corrupted data in full_empty", func() {
		r := runnerFor(model.NewBuilder().WithDepth(4).WithFault(model.FaultCorruptData))

		res := r.RunOne(scenario("full_empty"))

		var dm *tb.DataMismatchError
		Expect(errors.As(res.Err, &dm)).To(BeTrue())
		Expect(dm.Round).To(Equal(0))
		Expect(dm.Index).To(Equal(0))
	})

	DescribeTable("should detect rd_empty low in reset",
		func(name string) {
			r := runnerFor(model.NewBuilder().WithFault(model.FaultEmptyLow))

			res := r.RunOne(scenario(name))

			var sm *tb.StatusMismatchError
			Expect(errors.As(res.Err, &sm)).To(BeTrue())
			Expect(sm.Flag).To(Equal(dut.RdEmpty))
			Expect(sm.Expected).To(Equal(uint64(1)))
			Expect(sm.Actual).To(Equal(uint64(0)))
		},
		Entry("with clocks", "in_reset"),
		Entry("without clocks", "no_clock"),
	)

	It("should report a stalled read", func() {
		r := tb.MakeRunnerBuilder().
			WithDeviceFactory(factory(model.NewBuilder().WithFault(model.FaultStall))).
			WithTimeLimit(2000 * kernel.NS).
			Build()

		res := r.RunOne(scenario("single_word"))

		var stall *kernel.StallError
		Expect(errors.As(res.Err, &stall)).To(BeTrue())
		Expect(stall.Waiting).To(Equal("RisingEdge(rd_clk)"))
		Expect(res.Passed()).To(BeFalse())
	})

	It("should keep the reset scenarios passing when data is stalled", func() {
		r := tb.MakeRunnerBuilder().
			WithDeviceFactory(factory(model.NewBuilder().WithFault(model.FaultStall))).
			WithTimeLimit(2000 * kernel.NS).
			WithParallel(2).
			Build()

		results := r.Run(ctx(), tb.Scenarios())

		Expect(results[0].Passed()).To(BeFalse())
		Expect(results[1].Passed()).To(BeFalse())
		Expect(results[2].Passed()).To(BeTrue())
		Expect(results[3].Passed()).To(BeTrue())
	})

	It("should reproduce a run exactly", func() {
		r := runnerFor(model.NewBuilder().WithDepth(8).WithFWFT(true))

		first := r.RunOne(scenario("full_empty"))
		second := r.RunOne(scenario("full_empty"))

		Expect(first.Err).NotTo(HaveOccurred())
		Expect(second.SimTime).To(Equal(first.SimTime))
		Expect(second.Events).To(Equal(first.Events))
	})

	It("should leave the clocks off in no_clock", func() {
		r := runnerFor(model.NewBuilder())

		res := r.RunOne(scenario("no_clock"))

		Expect(res.Err).NotTo(HaveOccurred())
		Expect(float64(res.SimTime * 1e9)).To(BeNumerically("~", 5, 1e-6))
	})
})

var _ = Describe("Catalogue", func() {
	It("should list the scenarios in run order", func() {
		var names []string
		for _, s := range tb.Scenarios() {
			names = append(names, s.Name)
			Expect(s.Description).NotTo(BeEmpty())
		}

		Expect(names).To(Equal([]string{
			"single_word", "full_empty", "in_reset", "no_clock",
		}))
	})

	It("should filter by name in catalogue order", func() {
		found, err := tb.FindScenarios("no_clock", "single_word")

		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(HaveLen(2))
		Expect(found[0].Name).To(Equal("single_word"))
		Expect(found[1].Name).To(Equal("no_clock"))
	})

	It("should reject unknown names", func() {
		_, err := tb.FindScenarios("single_word", "overflow")

		Expect(err).To(MatchError(ContainSubstring("overflow")))
	})
})
