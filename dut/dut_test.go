package dut_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/fifotb/dut"
	"github.com/sarchlab/fifotb/signal"
)

var _ = Describe("Bundle", func() {
	var b *dut.Bundle

	BeforeEach(func() {
		b = dut.NewBundle("FIFO")
		b.AddSignal(signal.NewBit(dut.RdClk, 0))
		b.AddSignal(signal.NewBit(dut.WrClk, 0))
		b.SetParam(dut.ParamDepth, 16)
	})

	It("should look up signals and parameters", func() {
		s, err := b.Signal(dut.RdClk)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Name()).To(Equal(dut.RdClk))

		depth, err := b.Param(dut.ParamDepth)
		Expect(err).NotTo(HaveOccurred())
		Expect(depth).To(Equal(uint64(16)))

		Expect(b.SignalNames()).To(Equal([]string{dut.RdClk, dut.WrClk}))
	})

	It("should report missing names", func() {
		_, err := b.Signal("rd_valid")
		var le *dut.LookupError
		Expect(errors.As(err, &le)).To(BeTrue())
		Expect(le.Kind).To(Equal("signal"))
		Expect(err.Error()).To(ContainSubstring(`"rd_valid"`))

		_, err = b.Param(dut.ParamFWFT)
		Expect(errors.As(err, &le)).To(BeTrue())
		Expect(le.Kind).To(Equal("parameter"))
	})

	It("should refuse duplicate signals", func() {
		Expect(func() { b.AddSignal(signal.NewBit(dut.RdClk, 0)) }).To(Panic())
	})
})
