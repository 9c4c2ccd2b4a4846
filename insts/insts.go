// Package insts provides MIPS32 instruction definitions, decoding, and the
// static classification tables the analytics layer reads from.
//
// A decoded instruction is represented as a tagged Instruction value with a
// Form (R, I, or J) and only the fields that form actually carries. Decoding
// a 32-bit word is one concern; classifying the decoded result into one of
// the fourteen groups the hazard and superscalar logic operate on is a
// second, purely static concern with no mutable state.
package insts

// Form identifies which of the three MIPS32 instruction encodings a word
// belongs to.
type Form uint8

const (
	FormR Form = iota
	FormI
	FormJ
)

// Op values, taken from the MIPS32 primary opcode field. ArithLog/Shift/
// DivMult/JumpR/MoveFrom/MoveTo/Trap opcodes all share Op 0 and are
// distinguished by Func instead.
const (
	OpSpecial Op = 0x00
	OpRegimm  Op = 0x01
	OpJ       Op = 0x02
	OpJal     Op = 0x03
	OpBeq     Op = 0x04
	OpBne     Op = 0x05
	OpBlez    Op = 0x06
	OpBgtz    Op = 0x07
	OpAddi    Op = 0x08
	OpAddiu   Op = 0x09
	OpSlti    Op = 0x0A
	OpSltiu   Op = 0x0B
	OpAndi    Op = 0x0C
	OpOri     Op = 0x0D
	OpXori    Op = 0x0E
	OpLui     Op = 0x0F
	OpLb      Op = 0x20
	OpLh      Op = 0x21
	OpLwl     Op = 0x22
	OpLw      Op = 0x23
	OpLbu     Op = 0x24
	OpLhu     Op = 0x25
	OpLwr     Op = 0x26
	OpSb      Op = 0x28
	OpSh      Op = 0x29
	OpSwl     Op = 0x2A
	OpSw      Op = 0x2B
	OpSwr     Op = 0x2E
)

// Op is the 6-bit primary opcode field.
type Op uint8

// Func values for R-type (Op == OpSpecial) instructions.
const (
	FuncSll  Func = 0x00
	FuncSrl  Func = 0x02
	FuncSra  Func = 0x03
	FuncSllv Func = 0x04
	FuncSrlv Func = 0x06
	FuncSrav Func = 0x07
	FuncJr   Func = 0x08
	FuncJalr Func = 0x09
	FuncSysc Func = 0x0C
	FuncBrk  Func = 0x0D
	FuncMfhi Func = 0x10
	FuncMthi Func = 0x11
	FuncMflo Func = 0x12
	FuncMtlo Func = 0x13
	FuncMult Func = 0x18
	FuncMultu Func = 0x19
	FuncDiv  Func = 0x1A
	FuncDivu Func = 0x1B
	FuncAdd  Func = 0x20
	FuncAddu Func = 0x21
	FuncSub  Func = 0x22
	FuncSubu Func = 0x23
	FuncAnd  Func = 0x24
	FuncOr   Func = 0x25
	FuncXor  Func = 0x26
	FuncNor  Func = 0x27
	FuncSlt  Func = 0x2A
	FuncSltu Func = 0x2B
)

// Func is the 6-bit function field, meaningful only when Op == OpSpecial.
type Func uint8

// Regimm rt-field sub-opcodes (Op == OpRegimm).
const (
	RtBltz   uint8 = 0x00
	RtBgez   uint8 = 0x01
	RtBltzal uint8 = 0x10
	RtBgezal uint8 = 0x11
)

// Instruction is a tagged variant describing one decoded instruction. The
// fields actually meaningful depend on Form: R carries Rd/Shamt/Func, I
// carries Imm, J carries Addr.
type Instruction struct {
	Form Form
	Op   Op
	Rs   uint8
	Rt   uint8

	// R-type only.
	Rd    uint8
	Shamt uint8
	Func  Func

	// I-type only. Already sign-extended to int32.
	Imm int32

	// J-type only. 26-bit target field, not yet shifted.
	Addr uint32
}

// IsNop reports whether the instruction is the all-zero word, the only
// pattern the retirement pipeline treats as a NOP.
func (i Instruction) IsNop() bool {
	return i.Form == FormR && i.Op == OpSpecial && i.Rs == 0 && i.Rt == 0 &&
		i.Rd == 0 && i.Shamt == 0 && i.Func == FuncSll
}
