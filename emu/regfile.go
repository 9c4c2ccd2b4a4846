// Package emu provides functional MIPS32 emulation: a register file and
// memory adapter, the execution units that commit architectural state for
// each opcode, and the Simulator that drives them from a decoded stream.
package emu

// RegFile represents the MIPS32 register file: 32 general-purpose
// registers, the HI/LO multiply/divide extension pair, and the PC/NPC
// pair the Simulator's fetch-decode-retire loop advances once per
// retirement.
type RegFile struct {
	// R holds general-purpose registers r0-r31. R[0] is wired to zero;
	// writes to it are silently dropped by WriteReg.
	R [32]uint32

	// HI and LO hold the results of mult/multu/div/divu.
	HI uint32
	LO uint32

	// PC is the address of the instruction currently retiring; NPC is the
	// address that will become PC on the next retirement.
	PC  uint32
	NPC uint32
}

// ReadReg reads a register value. Register 0 always reads as 0.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg == 0 {
		return 0
	}
	return r.R[reg]
}

// WriteReg writes a value to a register. Writes to register 0 are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	if reg == 0 {
		return
	}
	r.R[reg] = value
}

// ReadRegSigned reads a register value reinterpreted as a signed 32-bit
// integer, used by every signed comparison (blez/bgtz/bltz/bgez/slt).
func (r *RegFile) ReadRegSigned(reg uint8) int32 {
	return int32(r.ReadReg(reg))
}
