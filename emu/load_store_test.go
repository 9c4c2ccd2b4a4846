package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mipsight/emu"
)

var _ = Describe("LoadStoreUnit", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.FlatMemory
		lsu     *emu.LoadStoreUnit
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		memory = emu.NewFlatMemory()
		lsu = emu.NewLoadStoreUnit(regFile, memory)
	})

	Describe("Lw / Sw", func() {
		It("round-trips a full word", func() {
			regFile.WriteReg(1, 0x1000)
			regFile.WriteReg(2, 0xDEADBEEF)

			lsu.Sw(2, 1, 0)
			lsu.Lw(3, 1, 0)

			Expect(regFile.ReadReg(3)).To(Equal(uint32(0xDEADBEEF)))
		})

		It("honors a signed immediate offset", func() {
			regFile.WriteReg(1, 0x1004)
			regFile.WriteReg(2, 42)

			lsu.Sw(2, 1, -4)
			lsu.Lw(3, 1, -4)

			Expect(regFile.ReadReg(3)).To(Equal(uint32(42)))
		})
	})

	Describe("Lb / Lbu", func() {
		It("sign-extends a negative byte", func() {
			regFile.WriteReg(1, 0x2000)
			memory.Write(0x2000, 0xFF000000) // byte 0 = 0xFF

			lsu.Lb(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint32(0xFFFFFFFF)))
		})

		It("zero-extends the same byte", func() {
			regFile.WriteReg(1, 0x2000)
			memory.Write(0x2000, 0xFF000000)

			lsu.Lbu(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint32(0xFF)))
		})

		It("addresses the last byte lane of a word", func() {
			regFile.WriteReg(1, 0x2003)
			memory.Write(0x2000, 0x000000AB)

			lsu.Lbu(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint32(0xAB)))
		})
	})

	Describe("Sb", func() {
		It("only overwrites its own lane", func() {
			regFile.WriteReg(1, 0x2000)
			memory.Write(0x2000, 0x11223344)
			regFile.WriteReg(2, 0xAA)

			lsu.Sb(2, 1, 1) // lane 1 -> second-highest byte

			Expect(memory.Read(0x2000)).To(Equal(uint32(0x11AA3344)))
		})
	})

	Describe("Lwl / Lwr at a word-aligned address", func() {
		It("Lwl behaves like Lw at byte offset 0", func() {
			regFile.WriteReg(1, 0x2000)
			memory.Write(0x2000, 0xCAFEBABE)

			lsu.Lwl(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint32(0xCAFEBABE)))
		})

		It("Lwr behaves like Lw at byte offset 3", func() {
			regFile.WriteReg(1, 0x2003)
			memory.Write(0x2000, 0xCAFEBABE)

			lsu.Lwr(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint32(0xCAFEBABE)))
		})
	})

	Describe("Lwl / Lwr at an unaligned address", func() {
		It("merges high bytes from memory with low bytes already in rt", func() {
			regFile.WriteReg(1, 0x2001)
			regFile.WriteReg(2, 0x000000FF)
			memory.Write(0x2000, 0x11223344)

			lsu.Lwl(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint32(0x223344FF)))
		})

		It("merges low bytes from memory with high bytes already in rt", func() {
			regFile.WriteReg(1, 0x2001)
			regFile.WriteReg(2, 0xFF000000)
			memory.Write(0x2000, 0x11223344)

			lsu.Lwr(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint32(0xFF001122)))
		})

		It("Swl/Swr at EA and EA+3 compose an unaligned store that Lwl/Lwr read back", func() {
			regFile.WriteReg(1, 0x2001)
			regFile.WriteReg(2, 0xAABBCCDD)
			memory.Write(0x2000, 0)
			memory.Write(0x2004, 0)

			lsu.Swl(2, 1, 0)
			lsu.Swr(2, 1, 3)

			lsu.Lwl(3, 1, 0)
			lsu.Lwr(3, 1, 3)

			Expect(regFile.ReadReg(3)).To(Equal(uint32(0xAABBCCDD)))
		})
	})
})
