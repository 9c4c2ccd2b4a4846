package emu

import "fmt"

// TrapError is returned when an opcode's behavior hits a fatal condition:
// signed overflow on add/addi, or execution of break. The driver is
// expected to emit Message to standard error and terminate with failure
// status.
type TrapError struct {
	Message string
}

func (e *TrapError) Error() string { return e.Message }

func overflowTrap(mnemonic string, op1, op2 int32) error {
	return &TrapError{Message: fmt.Sprintf("%s overflow: %d + %d exceeds int32 range", mnemonic, op1, op2)}
}

// signedOverflow reports whether op1+op2 overflows a signed 32-bit
// addition: the textbook test is that both operands share a sign and the
// result's sign differs from theirs.
func signedOverflow(op1, op2, result uint32) bool {
	op1Sign := op1 >> 31
	op2Sign := op2 >> 31
	resultSign := result >> 31
	return op1Sign == op2Sign && op1Sign != resultSign
}

// ALU implements MIPS32 arithmetic, logic, and shift operations. Each
// method reads its operands from and writes its result to the register
// file; add/addi additionally detect signed overflow and return a
// TrapError instead of committing a result.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Add computes rd = rs + rt, trapping on signed overflow.
func (a *ALU) Add(rd, rs, rt uint8) error {
	op1 := a.regFile.ReadReg(rs)
	op2 := a.regFile.ReadReg(rt)
	result := op1 + op2
	if signedOverflow(op1, op2, result) {
		return overflowTrap("add", int32(op1), int32(op2))
	}
	a.regFile.WriteReg(rd, result)
	return nil
}

// Addu computes rd = rs + rt with wraparound, never trapping.
func (a *ALU) Addu(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)+a.regFile.ReadReg(rt))
}

// Addi computes rt = rs + imm, trapping on signed overflow.
func (a *ALU) Addi(rt, rs uint8, imm int32) error {
	op1 := a.regFile.ReadReg(rs)
	op2 := uint32(imm)
	result := op1 + op2
	if signedOverflow(op1, op2, result) {
		return overflowTrap("addi", int32(op1), imm)
	}
	a.regFile.WriteReg(rt, result)
	return nil
}

// Addiu computes rt = rs + imm with wraparound, never trapping.
func (a *ALU) Addiu(rt, rs uint8, imm int32) {
	a.regFile.WriteReg(rt, a.regFile.ReadReg(rs)+uint32(imm))
}

// Sub computes rd = rs - rt.
func (a *ALU) Sub(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)-a.regFile.ReadReg(rt))
}

// Subu computes rd = rs - rt.
func (a *ALU) Subu(rd, rs, rt uint8) {
	a.Sub(rd, rs, rt)
}

// And computes rd = rs & rt.
func (a *ALU) And(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)&a.regFile.ReadReg(rt))
}

// Or computes rd = rs | rt.
func (a *ALU) Or(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)|a.regFile.ReadReg(rt))
}

// Xor computes rd = rs ^ rt.
func (a *ALU) Xor(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)^a.regFile.ReadReg(rt))
}

// Nor computes rd = ^(rs | rt).
func (a *ALU) Nor(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, ^(a.regFile.ReadReg(rs) | a.regFile.ReadReg(rt)))
}

// Slt computes rd = 1 if rs < rt as signed integers, else 0.
func (a *ALU) Slt(rd, rs, rt uint8) {
	if a.regFile.ReadRegSigned(rs) < a.regFile.ReadRegSigned(rt) {
		a.regFile.WriteReg(rd, 1)
	} else {
		a.regFile.WriteReg(rd, 0)
	}
}

// Sltu computes rd = 1 if rs < rt as unsigned integers, else 0.
func (a *ALU) Sltu(rd, rs, rt uint8) {
	if a.regFile.ReadReg(rs) < a.regFile.ReadReg(rt) {
		a.regFile.WriteReg(rd, 1)
	} else {
		a.regFile.WriteReg(rd, 0)
	}
}

// Andi computes rt = rs & imm (zero-extended immediate).
func (a *ALU) Andi(rt, rs uint8, imm int32) {
	a.regFile.WriteReg(rt, a.regFile.ReadReg(rs)&uint32(uint16(imm)))
}

// Ori computes rt = rs | imm (zero-extended immediate).
func (a *ALU) Ori(rt, rs uint8, imm int32) {
	a.regFile.WriteReg(rt, a.regFile.ReadReg(rs)|uint32(uint16(imm)))
}

// Xori computes rt = rs ^ imm (zero-extended immediate).
func (a *ALU) Xori(rt, rs uint8, imm int32) {
	a.regFile.WriteReg(rt, a.regFile.ReadReg(rs)^uint32(uint16(imm)))
}

// Slti computes rt = 1 if rs < imm as signed integers, else 0.
func (a *ALU) Slti(rt, rs uint8, imm int32) {
	if a.regFile.ReadRegSigned(rs) < imm {
		a.regFile.WriteReg(rt, 1)
	} else {
		a.regFile.WriteReg(rt, 0)
	}
}

// Sltiu computes rt = 1 if rs < imm (both compared as unsigned), else 0.
func (a *ALU) Sltiu(rt, rs uint8, imm int32) {
	if a.regFile.ReadReg(rs) < uint32(imm) {
		a.regFile.WriteReg(rt, 1)
	} else {
		a.regFile.WriteReg(rt, 0)
	}
}

// Lui computes rt = imm << 16. The immediate is already sign-extended to
// int32 by the decoder; only its low 16 bits are meaningful here, so the
// shift cannot introduce any spurious sign-extension artifact.
func (a *ALU) Lui(rt uint8, imm int32) {
	a.regFile.WriteReg(rt, uint32(uint16(imm))<<16)
}

// Sll computes rd = rt << shamt.
func (a *ALU) Sll(rd, rt, shamt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rt)<<shamt)
}

// Srl computes rd = rt >> shamt (logical).
func (a *ALU) Srl(rd, rt, shamt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rt)>>shamt)
}

// Sra computes rd = rt >> shamt (arithmetic, sign-preserving).
func (a *ALU) Sra(rd, rt, shamt uint8) {
	a.regFile.WriteReg(rd, uint32(a.regFile.ReadRegSigned(rt)>>shamt))
}

// Sllv computes rd = rt << (rs & 0x1F).
func (a *ALU) Sllv(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rt)<<(a.regFile.ReadReg(rs)&0x1F))
}

// Srlv computes rd = rt >> (rs & 0x1F) (logical).
func (a *ALU) Srlv(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rt)>>(a.regFile.ReadReg(rs)&0x1F))
}

// Srav computes rd = rt >> (rs & 0x1F) (arithmetic).
func (a *ALU) Srav(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, uint32(a.regFile.ReadRegSigned(rt)>>(a.regFile.ReadReg(rs)&0x1F)))
}

// Mult computes the signed 64-bit product of rs and rt, storing the low
// half in LO and the high half in HI.
func (a *ALU) Mult(rs, rt uint8) {
	product := int64(a.regFile.ReadRegSigned(rs)) * int64(a.regFile.ReadRegSigned(rt))
	a.regFile.LO = uint32(product)
	a.regFile.HI = uint32(product >> 32)
}

// Multu computes the unsigned 64-bit product of rs and rt, storing the low
// half in LO and the high half in HI.
func (a *ALU) Multu(rs, rt uint8) {
	product := uint64(a.regFile.ReadReg(rs)) * uint64(a.regFile.ReadReg(rt))
	a.regFile.LO = uint32(product)
	a.regFile.HI = uint32(product >> 32)
}

// Div computes the signed quotient and remainder of rs/rt, storing the
// quotient in LO and the remainder in HI. Division by zero is
// implementation-defined and follows host integer division, which panics;
// callers in the demo driver should not rely on that path being safe.
func (a *ALU) Div(rs, rt uint8) {
	n := a.regFile.ReadRegSigned(rs)
	d := a.regFile.ReadRegSigned(rt)
	a.regFile.LO = uint32(n / d)
	a.regFile.HI = uint32(n % d)
}

// Divu computes the unsigned quotient and remainder of rs/rt, storing the
// quotient in LO and the remainder in HI.
func (a *ALU) Divu(rs, rt uint8) {
	n := a.regFile.ReadReg(rs)
	d := a.regFile.ReadReg(rt)
	a.regFile.LO = n / d
	a.regFile.HI = n % d
}

// Mfhi computes rd = HI.
func (a *ALU) Mfhi(rd uint8) {
	a.regFile.WriteReg(rd, a.regFile.HI)
}

// Mflo computes rd = LO.
func (a *ALU) Mflo(rd uint8) {
	a.regFile.WriteReg(rd, a.regFile.LO)
}

// Mthi sets HI = rs.
func (a *ALU) Mthi(rs uint8) {
	a.regFile.HI = a.regFile.ReadReg(rs)
}

// Mtlo sets LO = rs.
func (a *ALU) Mtlo(rs uint8) {
	a.regFile.LO = a.regFile.ReadReg(rs)
}
