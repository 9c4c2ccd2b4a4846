package pipeline

import "github.com/sarchlab/mipsight/insts"

// gprSet is a small fixed-size set over the 32 GPRs, cheap to intersect by
// value since it never holds more than two or three members.
type gprSet struct {
	regs [4]uint8
	n    int
}

func (s *gprSet) add(reg uint8) {
	for i := 0; i < s.n; i++ {
		if s.regs[i] == reg {
			return
		}
	}
	if s.n < len(s.regs) {
		s.regs[s.n] = reg
		s.n++
	}
}

func (s gprSet) intersects(other gprSet) bool {
	for i := 0; i < s.n; i++ {
		for j := 0; j < other.n; j++ {
			if s.regs[i] == other.regs[j] {
				return true
			}
		}
	}
	return false
}

// gprReadWrite resolves an instruction's group read/write capability masks
// down to concrete GPR numbers, dropping HI/LO (handled separately as a
// structural resource) and dropping GPR 0 from write sets since writes to
// it never commit.
func gprReadWrite(inst insts.Instruction) (read, write gprSet) {
	readCap, writeCap := insts.ReadWriteCaps(inst)
	if readCap&insts.CapRs != 0 {
		read.add(inst.Rs)
	}
	if readCap&insts.CapRt != 0 {
		read.add(inst.Rt)
	}
	if writeCap&insts.CapRd != 0 && inst.Rd != 0 {
		write.add(inst.Rd)
	}
	if writeCap&insts.CapRt != 0 && inst.Rt != 0 {
		write.add(inst.Rt)
	}
	return read, write
}

// canIssuePair reports whether two consecutive retirements may issue
// together: they must classify into compatible groups, share no HI/LO
// structural conflict, and have no RAW/WAR/WAW dependency over the GPRs
// they touch.
func canIssuePair(prev, curr insts.Instruction) bool {
	prevGroup := insts.Classify(prev)
	currGroup := insts.Classify(curr)
	if prevGroup == insts.GroupUnknown || currGroup == insts.GroupUnknown {
		return false
	}

	if prevGroup == currGroup &&
		prevGroup != insts.GroupArithLog && prevGroup != insts.GroupArithLogI {
		return false
	}

	prevReadCap, prevWriteCap := insts.ReadWriteCaps(prev)
	currReadCap, currWriteCap := insts.ReadWriteCaps(curr)
	rmConflict := (prevReadCap&insts.CapRm != 0 && currWriteCap&insts.CapRm != 0) ||
		(prevWriteCap&insts.CapRm != 0 && currReadCap&insts.CapRm != 0) ||
		(prevWriteCap&insts.CapRm != 0 && currWriteCap&insts.CapRm != 0)
	if rmConflict {
		return false
	}

	prevRead, prevWrite := gprReadWrite(prev)
	currRead, currWrite := gprReadWrite(curr)

	if prevRead.intersects(currWrite) { // WAR
		return false
	}
	if currRead.intersects(prevWrite) { // RAW
		return false
	}
	if prevWrite.intersects(currWrite) { // WAW
		return false
	}

	return true
}
