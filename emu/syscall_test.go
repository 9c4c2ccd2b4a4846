package emu_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mipsight/emu"
)

var _ = Describe("DefaultSyscallHandler", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.FlatMemory
		stdout  *bytes.Buffer
		stderr  *bytes.Buffer
		handler *emu.DefaultSyscallHandler
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		memory = emu.NewFlatMemory()
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	})

	newHandler := func(stdin string) *emu.DefaultSyscallHandler {
		return emu.NewDefaultSyscallHandler(regFile, memory, strings.NewReader(stdin), stdout, stderr)
	}

	Describe("print_int", func() {
		It("writes a0 as a decimal integer", func() {
			handler = newHandler("")
			regFile.WriteReg(2, emu.SyscallPrintInt)
			negSeven := int32(-7)
			regFile.WriteReg(4, uint32(negSeven))

			handler.Handle()

			Expect(stdout.String()).To(Equal("-7"))
		})
	})

	Describe("print_string", func() {
		It("stops at the first null byte", func() {
			handler = newHandler("")
			for i, c := range []byte("ok\x00garbage") {
				memory.WriteByte(0x4000+uint32(i), c)
			}
			regFile.WriteReg(2, emu.SyscallPrintString)
			regFile.WriteReg(4, 0x4000)

			handler.Handle()

			Expect(stdout.String()).To(Equal("ok"))
		})
	})

	Describe("read_int", func() {
		It("parses an integer from stdin", func() {
			handler = newHandler("42\n")
			regFile.WriteReg(2, emu.SyscallReadInt)

			handler.Handle()

			Expect(regFile.ReadRegSigned(2)).To(Equal(int32(42)))
		})
	})

	Describe("read_string", func() {
		It("null-terminates at the buffer limit", func() {
			handler = newHandler("hello world\n")
			regFile.WriteReg(2, emu.SyscallReadString)
			regFile.WriteReg(4, 0x5000)
			regFile.WriteReg(5, 6)

			handler.Handle()

			Expect(memory.ReadByte(0x5000 + 5)).To(Equal(byte(0)))
		})
	})

	Describe("exit / exit2", func() {
		It("signals termination with status 0 for exit", func() {
			handler = newHandler("")
			regFile.WriteReg(2, emu.SyscallExit)

			result := handler.Handle()

			Expect(result.Exited).To(BeTrue())
			Expect(result.ExitCode).To(Equal(int32(0)))
		})

		It("carries a0 as the exit status for exit2", func() {
			handler = newHandler("")
			regFile.WriteReg(2, emu.SyscallExit2)
			negThree := int32(-3)
			regFile.WriteReg(4, uint32(negThree))

			result := handler.Handle()

			Expect(result.Exited).To(BeTrue())
			Expect(result.ExitCode).To(Equal(int32(-3)))
		})
	})

	Describe("unrecognized syscall numbers", func() {
		It("terminates the program rather than silently continuing", func() {
			handler = newHandler("")
			regFile.WriteReg(2, 999)

			result := handler.Handle()

			Expect(result.Exited).To(BeTrue())
			Expect(stderr.String()).To(ContainSubstring("999"))
		})
	})
})
