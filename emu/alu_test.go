package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mipsight/emu"
)

var _ = Describe("ALU", func() {
	var (
		regFile *emu.RegFile
		alu     *emu.ALU
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		alu = emu.NewALU(regFile)
	})

	Describe("Add", func() {
		It("adds two positive registers", func() {
			regFile.WriteReg(1, 10)
			regFile.WriteReg(2, 20)

			Expect(alu.Add(3, 1, 2)).To(Succeed())
			Expect(regFile.ReadReg(3)).To(Equal(uint32(30)))
		})

		It("traps on positive overflow", func() {
			regFile.WriteReg(1, 0x7FFFFFFF)
			regFile.WriteReg(2, 1)

			err := alu.Add(3, 1, 2)

			Expect(err).To(HaveOccurred())
			Expect(err).To(BeAssignableToTypeOf(&emu.TrapError{}))
		})

		It("traps on negative overflow", func() {
			regFile.WriteReg(1, 0x80000000)
			regFile.WriteReg(2, 0xFFFFFFFF)

			Expect(alu.Add(3, 1, 2)).To(HaveOccurred())
		})

		It("does not overflow when signs differ", func() {
			regFile.WriteReg(1, 0x7FFFFFFF)
			regFile.WriteReg(2, 0xFFFFFFFF) // -1

			Expect(alu.Add(3, 1, 2)).To(Succeed())
			Expect(regFile.ReadReg(3)).To(Equal(uint32(0x7FFFFFFE)))
		})
	})

	Describe("Addu", func() {
		It("wraps around without trapping", func() {
			regFile.WriteReg(1, 0x7FFFFFFF)
			regFile.WriteReg(2, 1)

			alu.Addu(3, 1, 2)

			Expect(regFile.ReadReg(3)).To(Equal(uint32(0x80000000)))
		})
	})

	Describe("Addi", func() {
		It("sign-extends a negative immediate", func() {
			regFile.WriteReg(1, 100)

			Expect(alu.Addi(2, 1, -1)).To(Succeed())
			Expect(regFile.ReadReg(2)).To(Equal(uint32(99)))
		})

		It("traps on overflow", func() {
			regFile.WriteReg(1, 0x7FFFFFFF)

			Expect(alu.Addi(2, 1, 1)).To(HaveOccurred())
		})
	})

	DescribeTable("logical operations",
		func(op func(rd, rs, rt uint8), rs, rt, want uint32) {
			regFile.WriteReg(1, rs)
			regFile.WriteReg(2, rt)

			op(3, 1, 2)

			Expect(regFile.ReadReg(3)).To(Equal(want))
		},
		Entry("and", func(rd, rs, rt uint8) { alu.And(rd, rs, rt) }, uint32(0xF0F0), uint32(0xFF00), uint32(0xF000)),
		Entry("or", func(rd, rs, rt uint8) { alu.Or(rd, rs, rt) }, uint32(0xF0F0), uint32(0x0F0F), uint32(0xFFFF)),
		Entry("xor", func(rd, rs, rt uint8) { alu.Xor(rd, rs, rt) }, uint32(0xFF00), uint32(0x0FF0), uint32(0xF0F0)),
		Entry("nor", func(rd, rs, rt uint8) { alu.Nor(rd, rs, rt) }, uint32(0), uint32(0), uint32(0xFFFFFFFF)),
	)

	Describe("Slt / Sltu", func() {
		It("compares signed values", func() {
			regFile.WriteReg(1, 0xFFFFFFFF) // -1
			regFile.WriteReg(2, 1)

			alu.Slt(3, 1, 2)

			Expect(regFile.ReadReg(3)).To(Equal(uint32(1)))
		})

		It("compares unsigned values", func() {
			regFile.WriteReg(1, 0xFFFFFFFF)
			regFile.WriteReg(2, 1)

			alu.Sltu(3, 1, 2)

			Expect(regFile.ReadReg(3)).To(Equal(uint32(0)))
		})
	})

	Describe("Lui", func() {
		It("places the immediate in the high half-word", func() {
			alu.Lui(1, 0x1234)

			Expect(regFile.ReadReg(1)).To(Equal(uint32(0x12340000)))
		})
	})

	Describe("shifts", func() {
		It("Sll shifts left by a constant", func() {
			regFile.WriteReg(2, 1)

			alu.Sll(1, 2, 4)

			Expect(regFile.ReadReg(1)).To(Equal(uint32(16)))
		})

		It("Sra preserves sign", func() {
			regFile.WriteReg(2, 0x80000000)

			alu.Sra(1, 2, 4)

			Expect(regFile.ReadReg(1)).To(Equal(uint32(0xF8000000)))
		})

		It("Srlv shifts by the low 5 bits of rs", func() {
			regFile.WriteReg(1, 0x21) // shift amount 1, high bits ignored
			regFile.WriteReg(2, 0x80000000)

			alu.Srlv(3, 1, 2)

			Expect(regFile.ReadReg(3)).To(Equal(uint32(0x40000000)))
		})
	})

	Describe("Mult / Multu / Div / Divu", func() {
		It("splits a signed product across HI/LO", func() {
			regFile.WriteReg(1, 0xFFFFFFFF) // -1
			regFile.WriteReg(2, 0xFFFFFFFF) // -1

			alu.Mult(1, 2)

			Expect(regFile.LO).To(Equal(uint32(1)))
			Expect(regFile.HI).To(Equal(uint32(0)))
		})

		It("splits an unsigned product across HI/LO", func() {
			regFile.WriteReg(1, 0xFFFFFFFF)
			regFile.WriteReg(2, 2)

			alu.Multu(1, 2)

			Expect(regFile.LO).To(Equal(uint32(0xFFFFFFFE)))
			Expect(regFile.HI).To(Equal(uint32(1)))
		})

		It("computes quotient and remainder for Div", func() {
			regFile.WriteReg(1, 7)
			regFile.WriteReg(2, 2)

			alu.Div(1, 2)

			Expect(regFile.LO).To(Equal(uint32(3)))
			Expect(regFile.HI).To(Equal(uint32(1)))
		})
	})

	Describe("Mfhi / Mflo / Mthi / Mtlo", func() {
		It("round-trips through HI and LO", func() {
			alu.Mthi(0) // rs=0 reads as zero, but exercise the path
			regFile.WriteReg(5, 99)

			alu.Mtlo(5)
			alu.Mflo(6)

			Expect(regFile.ReadReg(6)).To(Equal(uint32(99)))
		})
	})
})
