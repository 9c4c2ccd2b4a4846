package insts

// Decoder turns a raw 32-bit MIPS32 word into an Instruction. It carries no
// state and is safe to reuse or construct on every call.
type Decoder struct{}

// NewDecoder returns a ready-to-use Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode splits a 32-bit instruction word into its form-appropriate fields.
func (d *Decoder) Decode(word uint32) Instruction {
	op := Op((word >> 26) & 0x3F)

	switch op {
	case OpJ, OpJal:
		return Instruction{
			Form: FormJ,
			Op:   op,
			Addr: word & 0x03FFFFFF,
		}
	case OpSpecial:
		return Instruction{
			Form:  FormR,
			Op:    op,
			Rs:    uint8((word >> 21) & 0x1F),
			Rt:    uint8((word >> 16) & 0x1F),
			Rd:    uint8((word >> 11) & 0x1F),
			Shamt: uint8((word >> 6) & 0x1F),
			Func:  Func(word & 0x3F),
		}
	default:
		return Instruction{
			Form: FormI,
			Op:   op,
			Rs:   uint8((word >> 21) & 0x1F),
			Rt:   uint8((word >> 16) & 0x1F),
			Imm:  signExtend16(uint16(word & 0xFFFF)),
		}
	}
}

func signExtend16(v uint16) int32 {
	return int32(int16(v))
}
