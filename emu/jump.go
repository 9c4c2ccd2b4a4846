package emu

// JumpUnit implements MIPS32 unconditional jumps. Split out from
// BranchUnit because jumps never compute a taken/not-taken outcome for the
// branch-prediction analytics — they always redirect control flow.
type JumpUnit struct {
	regFile *RegFile
}

// NewJumpUnit creates a new JumpUnit connected to the given register file.
func NewJumpUnit(regFile *RegFile) *JumpUnit {
	return &JumpUnit{regFile: regFile}
}

// J jumps to (PC & 0xF0000000) | (addr << 2).
func (j *JumpUnit) J(addr uint32) {
	j.regFile.NPC = (j.regFile.PC & 0xF0000000) | (addr << 2)
}

// Jal jumps like J and writes the return address PC+4 to GPR 31.
func (j *JumpUnit) Jal(addr uint32) {
	j.regFile.WriteReg(31, j.regFile.PC+4)
	j.J(addr)
}

// Jr jumps to the address held in rs.
func (j *JumpUnit) Jr(rs uint8) {
	j.regFile.NPC = j.regFile.ReadReg(rs)
}

// Jalr jumps to the address held in rs and writes the return address PC+4
// to rd, defaulting rd to GPR 31 when the field decodes to 0.
func (j *JumpUnit) Jalr(rd, rs uint8) {
	target := j.regFile.ReadReg(rs)
	if rd == 0 {
		rd = 31
	}
	j.regFile.WriteReg(rd, j.regFile.PC+4)
	j.regFile.NPC = target
}
