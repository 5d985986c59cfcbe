package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/fifotb/dut"
	"github.com/sarchlab/fifotb/model"
	"github.com/sarchlab/fifotb/signal"
)

type pins struct {
	f *model.FIFO
}

func (p pins) sig(name string) signal.Signal {
	s, err := p.f.Signal(name)
	Expect(err).NotTo(HaveOccurred())

	return s
}

func (p pins) val(name string) uint64 {
	return p.sig(name).Value()
}

func (p pins) set(name string, v uint64) {
	p.sig(name).Set(v)
}

func (p pins) tick(clk string, n int) {
	for i := 0; i < n; i++ {
		p.set(clk, 1)
		p.set(clk, 0)
	}
}

func (p pins) release() {
	p.set(dut.WrRstn, 1)
	p.set(dut.RdRstn, 1)
	p.set(dut.DataCountRstn, 1)
	p.tick(dut.WrClk, 1)
}

func (p pins) write(v uint64) {
	p.set(dut.WrData, v)
	p.set(dut.WrEn, 1)
	p.tick(dut.WrClk, 1)
	p.set(dut.WrEn, 0)
}

var _ = Describe("FIFO", func() {
	var p pins

	build := func(b model.Builder) {
		p = pins{f: b.Build("FIFO")}
	}

	BeforeEach(func() {
		build(model.NewBuilder().WithDepth(4))
	})

	It("should start in reset, empty and full", func() {
		Expect(p.val(dut.RdEmpty)).To(Equal(uint64(1)))
		Expect(p.val(dut.WrFull)).To(Equal(uint64(1)))

		depth, err := p.f.Param(dut.ParamDepth)
		Expect(err).NotTo(HaveOccurred())
		Expect(depth).To(Equal(uint64(4)))
	})

	It("should clear full on the first write edge after reset", func() {
		p.release()
		Expect(p.val(dut.WrFull)).To(Equal(uint64(0)))
	})

	It("should delay visibility by the synchronizer stages", func() {
		p.release()
		p.write(7)
		Expect(p.f.Occupancy()).To(Equal(1))

		p.tick(dut.RdClk, 1)
		Expect(p.val(dut.RdEmpty)).To(Equal(uint64(1)))

		p.tick(dut.RdClk, 1)
		Expect(p.val(dut.RdEmpty)).To(Equal(uint64(0)))
		Expect(p.val(dut.RdValid)).To(Equal(uint64(0)))
	})

	It("should hand out a word one edge after rd_en", func() {
		p.release()
		p.write(7)
		p.tick(dut.RdClk, 2)

		p.set(dut.RdEn, 1)
		p.tick(dut.RdClk, 1)
		Expect(p.val(dut.RdValid)).To(Equal(uint64(1)))
		Expect(p.val(dut.RdData)).To(Equal(uint64(7)))
		Expect(p.val(dut.RdEmpty)).To(Equal(uint64(1)))

		p.tick(dut.RdClk, 1)
		Expect(p.val(dut.RdValid)).To(Equal(uint64(0)))
		Expect(p.f.Popped()).To(Equal(uint64(1)))
	})

	It("should ignore rd_en while empty", func() {
		p.release()
		p.set(dut.RdEn, 1)
		p.write(3)
		p.tick(dut.RdClk, 2)
		Expect(p.f.Popped()).To(Equal(uint64(0)))
		Expect(p.val(dut.RdEmpty)).To(Equal(uint64(0)))
	})

	It("should refuse writes when full", func() {
		p.release()
		for v := uint64(1); v <= 4; v++ {
			p.write(v)
		}
		Expect(p.val(dut.WrFull)).To(Equal(uint64(1)))

		p.write(5)
		Expect(p.f.Pushed()).To(Equal(uint64(4)))
		Expect(p.f.Occupancy()).To(Equal(4))
	})

	It("should keep order", func() {
		p.release()
		for v := uint64(1); v <= 3; v++ {
			p.write(v)
		}
		p.tick(dut.RdClk, 2)

		var got []uint64
		p.set(dut.RdEn, 1)
		for i := 0; i < 3; i++ {
			p.tick(dut.RdClk, 1)
			got = append(got, p.val(dut.RdData))
		}

		Expect(got).To(Equal([]uint64{1, 2, 3}))
	})

	It("should flush on reset", func() {
		p.release()
		p.write(1)
		p.write(2)

		p.set(dut.WrRstn, 0)

		Expect(p.f.Occupancy()).To(Equal(0))
		Expect(p.val(dut.RdEmpty)).To(Equal(uint64(1)))
		Expect(p.val(dut.WrFull)).To(Equal(uint64(1)))

		p.write(3)
		Expect(p.f.Pushed()).To(Equal(uint64(2)))
	})

	It("should report the occupancy on the data count clock", func() {
		p.release()
		p.write(1)
		p.write(2)
		p.tick(dut.DataCountClk, 1)
		Expect(p.val(dut.DataCount)).To(Equal(uint64(2)))

		p.set(dut.DataCountRstn, 0)
		p.tick(dut.DataCountClk, 1)
		Expect(p.val(dut.DataCount)).To(Equal(uint64(0)))
	})

	It("should render its state", func() {
		Expect(p.f.StateTable()).To(ContainSubstring("Occupancy"))
		Expect(p.f.StateTable()).To(ContainSubstring(dut.RdEmpty))
	})

	Context("in first-word-fall-through mode", func() {
		BeforeEach(func() {
			build(model.NewBuilder().WithDepth(4).WithFWFT(true))
		})

		It("should show the head before rd_en", func() {
			p.release()
			p.write(9)
			p.write(10)
			p.tick(dut.RdClk, 2)

			Expect(p.val(dut.RdEmpty)).To(Equal(uint64(0)))
			Expect(p.val(dut.RdValid)).To(Equal(uint64(1)))
			Expect(p.val(dut.RdData)).To(Equal(uint64(9)))

			p.set(dut.RdEn, 1)
			p.tick(dut.RdClk, 1)
			Expect(p.val(dut.RdData)).To(Equal(uint64(10)))

			p.tick(dut.RdClk, 1)
			Expect(p.val(dut.RdEmpty)).To(Equal(uint64(1)))
			Expect(p.val(dut.RdValid)).To(Equal(uint64(0)))
			Expect(p.f.Popped()).To(Equal(uint64(2)))
		})
	})

	Context("with write acknowledge", func() {
		BeforeEach(func() {
			build(model.NewBuilder().WithDepth(1).WithAckEnable(true))
		})

		It("should acknowledge only accepted words", func() {
			p.release()
			p.write(1)
			Expect(p.val(dut.WrAck)).To(Equal(uint64(1)))

			p.write(2)
			Expect(p.val(dut.WrAck)).To(Equal(uint64(0)))
			Expect(p.f.Pushed()).To(Equal(uint64(1)))
		})
	})

	Context("with faults", func() {
		It("should corrupt data", func() {
			build(model.NewBuilder().WithFault(model.FaultCorruptData))
			p.release()
			p.write(4)
			p.tick(dut.RdClk, 2)
			p.set(dut.RdEn, 1)
			p.tick(dut.RdClk, 1)
			Expect(p.val(dut.RdData)).To(Equal(uint64(5)))
		})

		It("should drive empty low in reset", func() {
			build(model.NewBuilder().WithFault(model.FaultEmptyLow))
			Expect(p.val(dut.RdEmpty)).To(Equal(uint64(0)))

			p.release()
			p.tick(dut.RdClk, 1)
			Expect(p.val(dut.RdEmpty)).To(Equal(uint64(1)))
		})

		It("should never show written words when stalled", func() {
			build(model.NewBuilder().WithFault(model.FaultStall))
			p.release()
			p.write(4)
			p.tick(dut.RdClk, 10)
			Expect(p.val(dut.RdEmpty)).To(Equal(uint64(1)))
		})
	})
})

var _ = Describe("Builder", func() {
	It("should accept names derived from scenario names", func() {
		var f *model.FIFO

		Expect(func() {
			f = model.NewBuilder().WithDepth(4).Build("full_empty.DUT")
		}).NotTo(Panic())
		Expect(f.Name()).To(Equal("full_empty.DUT"))
		Expect(f.Depth()).To(Equal(4))
	})
})

var _ = Describe("Fault", func() {
	It("should parse its own names", func() {
		for _, f := range []model.Fault{
			model.FaultNone,
			model.FaultCorruptData,
			model.FaultEmptyLow,
			model.FaultStall,
		} {
			parsed, err := model.ParseFault(f.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(f))
		}
	})

	It("should treat empty as none and reject unknown names", func() {
		f, err := model.ParseFault("")
		Expect(err).NotTo(HaveOccurred())
		Expect(f).To(Equal(model.FaultNone))

		_, err = model.ParseFault("melt")
		Expect(err).To(MatchError(ContainSubstring("melt")))
	})
})
