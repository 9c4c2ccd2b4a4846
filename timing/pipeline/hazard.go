package pipeline

import "github.com/sarchlab/mipsight/insts"

// depths is the fixed set of pipeline depths the analytics core tracks,
// in the order every per-depth vector is indexed.
var depths = [3]int{5, 7, 13}

func depthIndex(depth int) int {
	for i, d := range depths {
		if d == depth {
			return i
		}
	}
	return -1
}

// hazardDistance is the read-hazard distance table keyed by forwarding state,
// indexed by depth index. The no-forwarding row follows the larger, more-
// developed of the two disagreeing source configurations (see DESIGN.md).
var hazardDistance = map[bool][3]uint64{
	false: {2, 1, 1},
	true:  {1, 2, 3},
}

// loadUseBackPosition is, per depth index, the exact number of retirements
// (counting NOPs) to look back when deciding whether this retirement falls
// inside a load-use hazard window.
var loadUseBackPosition = [3]int{1, 2, 3}

// hazardCategory distinguishes the two hazard buses counted separately.
// jr/jalr and conditional branches feed control; everything else that
// reads a register feeds data.
type hazardCategory int

const (
	categoryData hazardCategory = iota
	categoryControl
)

// hazardSource is one register read by a retiring instruction, tagged with
// which hazard bus it charges against.
type hazardSource struct {
	reg      uint8 // 0-31 GPR, 32 = HI, 33 = LO
	category hazardCategory
}

// readSources returns the registers a retiring instruction actually reads,
// applying the per-group special cases in the read-hazard rule: lui/syscall/
// break read nothing; mfhi/mflo read HI/LO by name; mthi/mtlo and jr/jalr
// read rs (the two jump forms charge it as control); conditional branches
// charge control; stores and ordinary ALU-shaped instructions charge data.
func readSources(inst insts.Instruction) []hazardSource {
	if inst.Form == insts.FormR && inst.Op == insts.OpSpecial {
		switch inst.Func {
		case insts.FuncMfhi:
			return []hazardSource{{32, categoryData}}
		case insts.FuncMflo:
			return []hazardSource{{33, categoryData}}
		case insts.FuncMthi, insts.FuncMtlo:
			return []hazardSource{{inst.Rs, categoryData}}
		case insts.FuncJr, insts.FuncJalr:
			return []hazardSource{{inst.Rs, categoryControl}}
		case insts.FuncSysc, insts.FuncBrk:
			return nil
		}
	}

	if inst.Op == insts.OpLui {
		return nil
	}

	if insts.IsBranchInstruction(inst) || inst.Op == insts.OpRegimm {
		switch inst.Op {
		case insts.OpBeq, insts.OpBne:
			return []hazardSource{{inst.Rs, categoryControl}, {inst.Rt, categoryControl}}
		default: // blez, bgtz, regimm bltz/bgez (and the unscored bltzal/bgezal)
			return []hazardSource{{inst.Rs, categoryControl}}
		}
	}

	read, _ := insts.ReadWriteCaps(inst)
	var sources []hazardSource
	if read&insts.CapRs != 0 {
		sources = append(sources, hazardSource{inst.Rs, categoryData})
	}
	if read&insts.CapRt != 0 {
		sources = append(sources, hazardSource{inst.Rt, categoryData})
	}
	if read&insts.CapRm != 0 {
		// DivMult writing mfhi/mflo aside, the only group reading Rm is
		// MoveFrom, already special-cased above.
		sources = append(sources, hazardSource{32, categoryData}, hazardSource{33, categoryData})
	}
	return sources
}

// writeTargets returns the registers a retiring instruction stamps in the
// write-timestamp table. ok is false when the instruction commits no
// register update.
func writeTargets(inst insts.Instruction) (regs []uint8, ok bool) {
	if insts.DontWrite(inst) {
		return nil, false
	}
	if inst.Form == insts.FormJ {
		return nil, false
	}
	if inst.Form == insts.FormR && inst.Op == insts.OpSpecial {
		switch inst.Func {
		case insts.FuncMult, insts.FuncMultu, insts.FuncDiv, insts.FuncDivu:
			return []uint8{32, 33}, true
		case insts.FuncMthi:
			return []uint8{32}, true
		case insts.FuncMtlo:
			return []uint8{33}, true
		}
	}
	if inst.Form == insts.FormR {
		return []uint8{inst.Rd}, true
	}
	// I-type, not in the don't-write set.
	return []uint8{inst.Rt}, true
}
