package insts

// Group identifies one of the fourteen static instruction classes the
// analytics layer reasons about. Classification depends only on Op/Func
// (and, for stores vs loads within LoadStore, on a set lookup), never on
// runtime state.
type Group uint8

const (
	GroupUnknown Group = iota
	GroupArithLog
	GroupDivMult
	GroupShift
	GroupShiftV
	GroupJumpR
	GroupMoveFrom
	GroupMoveTo
	GroupArithLogI
	GroupLoadI
	GroupBranch
	GroupBranchZ
	GroupLoadStore
	GroupJump
	GroupTrap
)

// RegCap is a bit set over the four register-capability slots a group's
// read/write mask can name. Rm stands for the HI/LO pair treated as one
// structural resource.
type RegCap uint8

const (
	CapRs RegCap = 1 << iota
	CapRt
	CapRd
	CapRm
)

func (c RegCap) has(bit RegCap) bool { return c&bit != 0 }

// key is the (op, func) pair the static tables are indexed by. func is
// ignored (zeroed) for every op other than OpSpecial.
type key struct {
	op Op
	fn Func
}

var groupTable = map[key]Group{
	{OpSpecial, FuncSll}:  GroupShift,
	{OpSpecial, FuncSrl}:  GroupShift,
	{OpSpecial, FuncSra}:  GroupShift,
	{OpSpecial, FuncSllv}: GroupShiftV,
	{OpSpecial, FuncSrlv}: GroupShiftV,
	{OpSpecial, FuncSrav}: GroupShiftV,
	{OpSpecial, FuncJr}:   GroupJumpR,
	{OpSpecial, FuncJalr}: GroupJumpR,
	{OpSpecial, FuncSysc}: GroupTrap,
	{OpSpecial, FuncBrk}:  GroupTrap,
	{OpSpecial, FuncMfhi}: GroupMoveFrom,
	{OpSpecial, FuncMflo}: GroupMoveFrom,
	{OpSpecial, FuncMthi}: GroupMoveTo,
	{OpSpecial, FuncMtlo}: GroupMoveTo,
	{OpSpecial, FuncMult}:  GroupDivMult,
	{OpSpecial, FuncMultu}: GroupDivMult,
	{OpSpecial, FuncDiv}:   GroupDivMult,
	{OpSpecial, FuncDivu}:  GroupDivMult,
	{OpSpecial, FuncAdd}:  GroupArithLog,
	{OpSpecial, FuncAddu}: GroupArithLog,
	{OpSpecial, FuncSub}:  GroupArithLog,
	{OpSpecial, FuncSubu}: GroupArithLog,
	{OpSpecial, FuncAnd}:  GroupArithLog,
	{OpSpecial, FuncOr}:   GroupArithLog,
	{OpSpecial, FuncXor}:  GroupArithLog,
	{OpSpecial, FuncNor}:  GroupArithLog,
	{OpSpecial, FuncSlt}:  GroupArithLog,
	{OpSpecial, FuncSltu}: GroupArithLog,

	{OpJ, 0}:   GroupJump,
	{OpJal, 0}: GroupJump,

	{OpRegimm, 0}: GroupBranchZ, // bltz/bgez/bltzal/bgezal, disambiguated via Rt.

	{OpBeq, 0}:  GroupBranch,
	{OpBne, 0}:  GroupBranch,
	{OpBlez, 0}: GroupBranchZ,
	{OpBgtz, 0}: GroupBranchZ,

	{OpAddi, 0}:  GroupArithLogI,
	{OpAddiu, 0}: GroupArithLogI,
	{OpSlti, 0}:  GroupArithLogI,
	{OpSltiu, 0}: GroupArithLogI,
	{OpAndi, 0}:  GroupArithLogI,
	{OpOri, 0}:   GroupArithLogI,
	{OpXori, 0}:  GroupArithLogI,

	{OpLui, 0}: GroupLoadI,

	{OpLb, 0}:  GroupLoadStore,
	{OpLh, 0}:  GroupLoadStore,
	{OpLwl, 0}: GroupLoadStore,
	{OpLw, 0}:  GroupLoadStore,
	{OpLbu, 0}: GroupLoadStore,
	{OpLhu, 0}: GroupLoadStore,
	{OpLwr, 0}: GroupLoadStore,
	{OpSb, 0}:  GroupLoadStore,
	{OpSh, 0}:  GroupLoadStore,
	{OpSwl, 0}: GroupLoadStore,
	{OpSw, 0}:  GroupLoadStore,
	{OpSwr, 0}: GroupLoadStore,
}

// storeOps holds every LoadStore-group opcode that writes memory instead of
// a register. Distinguishing loads from stores within one classification
// group is a per-instruction lookup, not a per-group one, because the two
// halves of the LoadStore group have different read/write masks.
var storeOps = map[Op]bool{
	OpSb: true, OpSh: true, OpSwl: true, OpSw: true, OpSwr: true,
}

// loadInstructions is the plain sign/zero-extending loads, excluding
// lwl/lwr. Only members of this exact set participate in the load-use
// hazard window check.
var loadInstructions = map[Op]bool{
	OpLb: true, OpLbu: true, OpLh: true, OpLhu: true, OpLw: true,
}

// dontWrite lists (op, func) pairs that never commit a register update:
// stores, conditional branches (including regimm), jr, syscall, break.
// J-type instructions (j/jal) are not listed here: the J-type shape has no
// destination-register field at all, and DontWrite reports false for them.
var dontWrite = map[key]bool{
	{OpSpecial, FuncJr}:   true,
	{OpSpecial, FuncSysc}: true,
	{OpSpecial, FuncBrk}:  true,
	{OpSb, 0}:  true,
	{OpSh, 0}:  true,
	{OpSwl, 0}: true,
	{OpSw, 0}:  true,
	{OpSwr, 0}: true,
	{OpBeq, 0}:    true,
	{OpBne, 0}:    true,
	{OpBlez, 0}:   true,
	{OpBgtz, 0}:   true,
	{OpRegimm, 0}: true,
}

// isBranchInstruction reports membership in the set that feeds the three
// branch predictors:
// beq, bne, blez, bgtz, and regimm's bltz/bgez forms (not bltzal/bgezal).
func isBranchInstruction(inst Instruction) bool {
	switch inst.Op {
	case OpBeq, OpBne, OpBlez, OpBgtz:
		return true
	case OpRegimm:
		return inst.Rt == RtBltz || inst.Rt == RtBgez
	default:
		return false
	}
}

func classifyKey(inst Instruction) key {
	if inst.Form == FormR {
		return key{inst.Op, inst.Func}
	}
	return key{inst.Op, 0}
}

// Classify returns the instruction's group. GroupUnknown is returned for
// any (op, func) pair absent from the static table.
func Classify(inst Instruction) Group {
	g, ok := groupTable[classifyKey(inst)]
	if !ok {
		return GroupUnknown
	}
	return g
}

// IsLoadInstruction reports whether inst is one of the plain
// sign/zero-extending loads (lb/lbu/lh/lhu/lw — not lwl/lwr).
func IsLoadInstruction(inst Instruction) bool {
	return inst.Form == FormI && loadInstructions[inst.Op]
}

// IsStore reports whether a LoadStore-group instruction is a store.
func IsStore(inst Instruction) bool {
	return inst.Form == FormI && storeOps[inst.Op]
}

// DontWrite reports whether the instruction commits no register update.
func DontWrite(inst Instruction) bool {
	return dontWrite[classifyKey(inst)]
}

// IsBranchInstruction reports membership in the branch-predictor outcome
// stream.
func IsBranchInstruction(inst Instruction) bool {
	return isBranchInstruction(inst)
}

// ReadWriteCaps returns the read and write register-capability masks for an
// instruction's group. For the LoadStore group the masks differ between
// loads and stores, so they are resolved per instruction rather than purely
// per group.
func ReadWriteCaps(inst Instruction) (read, write RegCap) {
	switch Classify(inst) {
	case GroupArithLog:
		return CapRs | CapRt, CapRd
	case GroupDivMult:
		return CapRs | CapRt, CapRm
	case GroupShift:
		return CapRt, CapRd
	case GroupShiftV:
		return CapRs | CapRt, CapRd
	case GroupJumpR:
		return CapRs, CapRd
	case GroupMoveFrom:
		return CapRm, CapRd
	case GroupMoveTo:
		return CapRs, CapRm
	case GroupArithLogI:
		return CapRs, CapRt
	case GroupLoadI:
		return 0, CapRt
	case GroupBranch:
		return CapRs | CapRt, 0
	case GroupBranchZ:
		return CapRs, 0
	case GroupLoadStore:
		if IsStore(inst) {
			return CapRs | CapRt, 0
		}
		return CapRs, CapRt
	case GroupJump, GroupTrap:
		return 0, 0
	default:
		return 0, 0
	}
}
