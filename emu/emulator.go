package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/mipsight/insts"
)

// ErrUnknownInstruction is returned when a fetched word decodes to an
// (op, func) pair absent from every dispatch table.
var ErrUnknownInstruction = fmt.Errorf("unknown instruction")

// RetireEvent describes one instruction as it retires, for analytics
// consumers that need more than the static Instruction Record — in
// particular, whether a branch was actually taken.
type RetireEvent struct {
	Inst  insts.Instruction
	Taken bool
}

// Simulator drives a fetch-decode-execute loop over a functional MIPS32
// machine. It implements the classic delayed-NPC convention: PC names the
// instruction currently retiring, and NPC is computed as PC+4 before
// dispatch and only overwritten by a taken branch or jump.
type Simulator struct {
	regFile *RegFile
	memory  *FlatMemory
	decoder *insts.Decoder

	alu    *ALU
	lsu    *LoadStoreUnit
	branch *BranchUnit
	jump   *JumpUnit

	syscallHandler SyscallHandler
	stdout         io.Writer
	stderr         io.Writer

	instructionCount uint64
	onRetire         func(RetireEvent)
}

// SimulatorOption configures a Simulator at construction time.
type SimulatorOption func(*Simulator)

// WithStdout overrides the writer used by print syscalls.
func WithStdout(w io.Writer) SimulatorOption {
	return func(s *Simulator) { s.stdout = w }
}

// WithStderr overrides the writer used for diagnostics.
func WithStderr(w io.Writer) SimulatorOption {
	return func(s *Simulator) { s.stderr = w }
}

// WithSyscallHandler overrides the default stdio-backed syscall handler.
func WithSyscallHandler(h SyscallHandler) SimulatorOption {
	return func(s *Simulator) { s.syscallHandler = h }
}

// WithStackPointer seeds GPR 29 (sp), following the classic
// RAM_END - 1024 - threadIndex*262144 convention for a single-threaded run
// (threadIndex 0).
func WithStackPointer(sp uint32) SimulatorOption {
	return func(s *Simulator) { s.regFile.WriteReg(29, sp) }
}

// WithOnRetire installs a hook called once per retired instruction, after
// its behavior has committed architectural state but before PC advances.
// The analytics layer subscribes through this hook rather than the
// Simulator importing it, keeping execution semantics independent of the
// analytics it can optionally feed.
func WithOnRetire(f func(RetireEvent)) SimulatorOption {
	return func(s *Simulator) { s.onRetire = f }
}

// NewSimulator creates a Simulator over the given memory, with a zeroed
// register file and a default stdio syscall handler.
func NewSimulator(memory *FlatMemory, opts ...SimulatorOption) *Simulator {
	regFile := &RegFile{}

	s := &Simulator{
		regFile: regFile,
		memory:  memory,
		decoder: insts.NewDecoder(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.alu = NewALU(regFile)
	s.lsu = NewLoadStoreUnit(regFile, memory)
	s.branch = NewBranchUnit(regFile)
	s.jump = NewJumpUnit(regFile)

	if s.syscallHandler == nil {
		s.syscallHandler = NewDefaultSyscallHandler(regFile, memory, os.Stdin, s.stdout, s.stderr)
	}

	return s
}

// RegFile returns the simulator's register file.
func (s *Simulator) RegFile() *RegFile { return s.regFile }

// InstructionCount returns the number of instructions retired so far.
func (s *Simulator) InstructionCount() uint64 { return s.instructionCount }

// Run begins execution at entry and retires instructions until a syscall
// requests program termination or a TrapError aborts the run. It returns
// the program's exit code and, on abnormal termination, the error.
func (s *Simulator) Run(entry uint32) (int32, error) {
	s.regFile.PC = entry
	for {
		exited, exitCode, err := s.step()
		if err != nil {
			fmt.Fprintf(s.stderr, "%v\n", err)
			return -1, err
		}
		if exited {
			return exitCode, nil
		}
	}
}

// step fetches, decodes, and retires exactly one instruction.
func (s *Simulator) step() (exited bool, exitCode int32, err error) {
	word := s.memory.Read(s.regFile.PC &^ 3)
	inst := s.decoder.Decode(word)

	s.regFile.NPC = s.regFile.PC + 4

	taken, exited, exitCode, err := s.dispatch(inst)
	if err != nil {
		return false, 0, err
	}

	s.instructionCount++
	if s.onRetire != nil {
		s.onRetire(RetireEvent{Inst: inst, Taken: taken})
	}

	if exited {
		return true, exitCode, nil
	}

	s.regFile.PC = s.regFile.NPC
	return false, 0, nil
}

func (s *Simulator) dispatch(inst insts.Instruction) (taken, exited bool, exitCode int32, err error) {
	switch inst.Form {
	case insts.FormJ:
		switch inst.Op {
		case insts.OpJ:
			s.jump.J(inst.Addr)
		case insts.OpJal:
			s.jump.Jal(inst.Addr)
		}
		return false, false, 0, nil

	case insts.FormR:
		return s.dispatchR(inst)

	case insts.FormI:
		return s.dispatchI(inst)
	}
	return false, false, 0, ErrUnknownInstruction
}

func (s *Simulator) dispatchR(inst insts.Instruction) (taken, exited bool, exitCode int32, err error) {
	switch inst.Func {
	case insts.FuncSll:
		s.alu.Sll(inst.Rd, inst.Rt, inst.Shamt)
	case insts.FuncSrl:
		s.alu.Srl(inst.Rd, inst.Rt, inst.Shamt)
	case insts.FuncSra:
		s.alu.Sra(inst.Rd, inst.Rt, inst.Shamt)
	case insts.FuncSllv:
		s.alu.Sllv(inst.Rd, inst.Rs, inst.Rt)
	case insts.FuncSrlv:
		s.alu.Srlv(inst.Rd, inst.Rs, inst.Rt)
	case insts.FuncSrav:
		s.alu.Srav(inst.Rd, inst.Rs, inst.Rt)
	case insts.FuncJr:
		s.jump.Jr(inst.Rs)
	case insts.FuncJalr:
		s.jump.Jalr(inst.Rd, inst.Rs)
	case insts.FuncSysc:
		result := s.syscallHandler.Handle()
		return false, result.Exited, result.ExitCode, nil
	case insts.FuncBrk:
		return false, false, 0, &TrapError{Message: fmt.Sprintf("break at PC=0x%08X", s.regFile.PC)}
	case insts.FuncMfhi:
		s.alu.Mfhi(inst.Rd)
	case insts.FuncMthi:
		s.alu.Mthi(inst.Rs)
	case insts.FuncMflo:
		s.alu.Mflo(inst.Rd)
	case insts.FuncMtlo:
		s.alu.Mtlo(inst.Rs)
	case insts.FuncMult:
		s.alu.Mult(inst.Rs, inst.Rt)
	case insts.FuncMultu:
		s.alu.Multu(inst.Rs, inst.Rt)
	case insts.FuncDiv:
		s.alu.Div(inst.Rs, inst.Rt)
	case insts.FuncDivu:
		s.alu.Divu(inst.Rs, inst.Rt)
	case insts.FuncAdd:
		if addErr := s.alu.Add(inst.Rd, inst.Rs, inst.Rt); addErr != nil {
			return false, false, 0, addErr
		}
	case insts.FuncAddu:
		s.alu.Addu(inst.Rd, inst.Rs, inst.Rt)
	case insts.FuncSub:
		s.alu.Sub(inst.Rd, inst.Rs, inst.Rt)
	case insts.FuncSubu:
		s.alu.Subu(inst.Rd, inst.Rs, inst.Rt)
	case insts.FuncAnd:
		s.alu.And(inst.Rd, inst.Rs, inst.Rt)
	case insts.FuncOr:
		s.alu.Or(inst.Rd, inst.Rs, inst.Rt)
	case insts.FuncXor:
		s.alu.Xor(inst.Rd, inst.Rs, inst.Rt)
	case insts.FuncNor:
		s.alu.Nor(inst.Rd, inst.Rs, inst.Rt)
	case insts.FuncSlt:
		s.alu.Slt(inst.Rd, inst.Rs, inst.Rt)
	case insts.FuncSltu:
		s.alu.Sltu(inst.Rd, inst.Rs, inst.Rt)
	default:
		return false, false, 0, ErrUnknownInstruction
	}
	return false, false, 0, nil
}

func (s *Simulator) dispatchI(inst insts.Instruction) (taken, exited bool, exitCode int32, err error) {
	switch inst.Op {
	case insts.OpRegimm:
		switch inst.Rt {
		case insts.RtBltz:
			taken = s.branch.Bltz(inst.Rs, inst.Imm)
		case insts.RtBgez:
			taken = s.branch.Bgez(inst.Rs, inst.Imm)
		case insts.RtBltzal:
			s.branch.Bltzal(inst.Rs, inst.Imm)
		case insts.RtBgezal:
			s.branch.Bgezal(inst.Rs, inst.Imm)
		}
		return taken, false, 0, nil
	case insts.OpBeq:
		return s.branch.Beq(inst.Rs, inst.Rt, inst.Imm), false, 0, nil
	case insts.OpBne:
		return s.branch.Bne(inst.Rs, inst.Rt, inst.Imm), false, 0, nil
	case insts.OpBlez:
		return s.branch.Blez(inst.Rs, inst.Imm), false, 0, nil
	case insts.OpBgtz:
		return s.branch.Bgtz(inst.Rs, inst.Imm), false, 0, nil
	case insts.OpAddi:
		if addErr := s.alu.Addi(inst.Rt, inst.Rs, inst.Imm); addErr != nil {
			return false, false, 0, addErr
		}
	case insts.OpAddiu:
		s.alu.Addiu(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpSlti:
		s.alu.Slti(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpSltiu:
		s.alu.Sltiu(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpAndi:
		s.alu.Andi(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpOri:
		s.alu.Ori(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpXori:
		s.alu.Xori(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpLui:
		s.alu.Lui(inst.Rt, inst.Imm)
	case insts.OpLb:
		s.lsu.Lb(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpLbu:
		s.lsu.Lbu(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpLh:
		s.lsu.Lh(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpLhu:
		s.lsu.Lhu(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpLw:
		s.lsu.Lw(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpLwl:
		s.lsu.Lwl(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpLwr:
		s.lsu.Lwr(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpSb:
		s.lsu.Sb(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpSh:
		s.lsu.Sh(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpSw:
		s.lsu.Sw(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpSwl:
		s.lsu.Swl(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpSwr:
		s.lsu.Swr(inst.Rt, inst.Rs, inst.Imm)
	default:
		return false, false, 0, ErrUnknownInstruction
	}
	return false, false, 0, nil
}
