package emu

// BranchUnit implements MIPS32 branch and jump operations. By the time a
// behavior runs, RegFile.PC already holds the address of the instruction
// being retired (Simulator.step sets NPC to PC+4 before dispatching to a
// behavior and moves PC to NPC only after retirement); a taken branch or
// jump only ever needs to
// overwrite NPC, never PC itself.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register
// file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

func (b *BranchUnit) branchTarget(imm int32) uint32 {
	return uint32(int32(b.regFile.PC) + imm<<2)
}

func (b *BranchUnit) takeBranch(imm int32) {
	b.regFile.NPC = b.branchTarget(imm)
}

// Beq branches if rs == rt. Returns the taken outcome for the caller to
// feed into the branch-prediction analytics.
func (b *BranchUnit) Beq(rs, rt uint8, imm int32) bool {
	taken := b.regFile.ReadReg(rs) == b.regFile.ReadReg(rt)
	if taken {
		b.takeBranch(imm)
	}
	return taken
}

// Bne branches if rs != rt.
func (b *BranchUnit) Bne(rs, rt uint8, imm int32) bool {
	taken := b.regFile.ReadReg(rs) != b.regFile.ReadReg(rt)
	if taken {
		b.takeBranch(imm)
	}
	return taken
}

// Blez branches if rs <= 0 (signed).
func (b *BranchUnit) Blez(rs uint8, imm int32) bool {
	taken := b.regFile.ReadRegSigned(rs) <= 0
	if taken {
		b.takeBranch(imm)
	}
	return taken
}

// Bgtz branches if rs > 0 (signed).
func (b *BranchUnit) Bgtz(rs uint8, imm int32) bool {
	taken := b.regFile.ReadRegSigned(rs) > 0
	if taken {
		b.takeBranch(imm)
	}
	return taken
}

// Bltz branches if rs < 0 (signed).
func (b *BranchUnit) Bltz(rs uint8, imm int32) bool {
	taken := b.regFile.ReadRegSigned(rs) < 0
	if taken {
		b.takeBranch(imm)
	}
	return taken
}

// Bgez branches if rs >= 0 (signed).
func (b *BranchUnit) Bgez(rs uint8, imm int32) bool {
	taken := b.regFile.ReadRegSigned(rs) >= 0
	if taken {
		b.takeBranch(imm)
	}
	return taken
}

// Bltzal branches if rs < 0, unconditionally writing the return address
// PC+4 to GPR 31 first.
func (b *BranchUnit) Bltzal(rs uint8, imm int32) bool {
	b.regFile.WriteReg(31, b.regFile.PC+4)
	return b.Bltz(rs, imm)
}

// Bgezal branches if rs >= 0, unconditionally writing the return address
// PC+4 to GPR 31 first.
func (b *BranchUnit) Bgezal(rs uint8, imm int32) bool {
	b.regFile.WriteReg(31, b.regFile.PC+4)
	return b.Bgez(rs, imm)
}
