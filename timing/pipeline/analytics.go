// Package pipeline implements the microarchitectural analytics core: data
// and control hazard counting across three pipeline depths, three
// independent branch predictors, and a best-effort superscalar pair
// checker, all driven purely from a stream of retired instructions.
package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/mipsight/insts"
)

const windowCapacity = 10

// stallPenalty gives the cycle cost of a single misprediction at a given
// pipeline depth, used only to compute the report's stall-cycle estimate.
var stallPenalty = map[int]uint64{5: 1, 7: 5, 13: 13}

// Analytics is a process-global accumulator: constructed once, mutated
// only from the retirement path, and read once at the end to produce a
// report. It carries no knowledge of how instructions are fetched or
// decoded; emu.Simulator's retire hook is its only input.
type Analytics struct {
	forwarding bool

	writeTimestamp [34]uint64

	window []insts.Instruction // non-NOP, most-recent-first, cap 10

	recentAll    [3]insts.Instruction // all retirements including NOPs, cap 3
	recentAllLen int

	dataHazards    [3]uint64
	controlHazards [3]uint64

	instructionCount uint64
	nopCount         uint64
	branchCount      uint64

	predictors *branchPredictors

	pairLoaded       bool
	superscalarPairs uint64

	out io.Writer
}

// AnalyticsOption configures an Analytics instance at construction time,
// following the functional-options convention used throughout this module.
type AnalyticsOption func(*Analytics)

// WithForwarding selects the hazard-distance table row: true models a
// microarchitecture with operand forwarding present, false without it.
func WithForwarding(enabled bool) AnalyticsOption {
	return func(a *Analytics) { a.forwarding = enabled }
}

// WithReportWriter redirects Report's output; stdout is used if omitted.
func WithReportWriter(w io.Writer) AnalyticsOption {
	return func(a *Analytics) { a.out = w }
}

// NewAnalytics constructs an Analytics instance with all counters zeroed
// and both saturating predictors seeded at their initial stage.
func NewAnalytics(opts ...AnalyticsOption) *Analytics {
	a := &Analytics{
		predictors: newBranchPredictors(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Record processes one retired instruction: read-hazard accounting against
// the write-timestamp table, write-hazard stamping, branch-predictor
// observation, window maintenance, and the superscalar pair check, in that
// order. taken is the branch outcome already resolved by the execution
// layer; it is ignored for non-branches.
func (a *Analytics) Record(inst insts.Instruction, taken bool) {
	a.instructionCount++

	if inst.IsNop() {
		a.nopCount++
		for i := range a.writeTimestamp {
			a.writeTimestamp[i]++
		}
		a.pushRecentAll(inst)
		return
	}

	a.chargeReadHazards(inst)
	a.stampWriteHazards(inst)

	if insts.IsBranchInstruction(inst) {
		a.branchCount++
		a.predictors.observe(taken, a.predictsBackward(inst))
	}

	a.pushRecentAll(inst)
	a.pushWindow(inst)
	a.attemptSuperscalarPair()
}

func (a *Analytics) predictsBackward(inst insts.Instruction) bool {
	return inst.Imm < 0
}

func (a *Analytics) chargeReadHazards(inst insts.Instruction) {
	sources := uniqueSources(readSources(inst))
	if len(sources) == 0 {
		return
	}

	for di := range depths {
		threshold := hazardDistance[a.forwarding][di]
		loadUseActive := a.loadUseWindowActive(di)

		for _, src := range sources {
			distance := a.instructionCount - a.writeTimestamp[src.reg]

			eligible := src.category == categoryControl || !a.forwarding || loadUseActive
			if !eligible || distance > threshold {
				continue
			}

			if src.category == categoryControl {
				a.controlHazards[di]++
			} else {
				a.dataHazards[di]++
			}
		}
	}
}

// uniqueSources collapses readSources' output to one entry per distinct
// register, since an instruction reading the same register through two
// operand slots (e.g. add $2, $1, $1) charges at most one hazard for it,
// and drops GPR 0, which is hardwired to zero and never a real hazard.
func uniqueSources(sources []hazardSource) []hazardSource {
	var out []hazardSource
	for _, s := range sources {
		if s.reg == 0 {
			continue
		}
		seen := false
		for _, o := range out {
			if o.reg == s.reg {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, s)
		}
	}
	return out
}

// loadUseWindowActive reports whether the retirement exactly
// loadUseBackPosition[depthIndex] retirements ago (NOPs included) was a
// load instruction.
func (a *Analytics) loadUseWindowActive(depthIndex int) bool {
	pos := loadUseBackPosition[depthIndex]
	if pos > a.recentAllLen {
		return false
	}
	candidate := a.recentAll[pos-1]
	return insts.IsLoadInstruction(candidate)
}

func (a *Analytics) stampWriteHazards(inst insts.Instruction) {
	regs, ok := writeTargets(inst)
	if !ok {
		return
	}
	for _, r := range regs {
		a.writeTimestamp[r] = a.instructionCount
	}
}

// pushRecentAll maintains the 3-entry, most-recent-first history of every
// retirement (including NOPs) the load-use window check reads from.
func (a *Analytics) pushRecentAll(inst insts.Instruction) {
	a.recentAll[2] = a.recentAll[1]
	a.recentAll[1] = a.recentAll[0]
	a.recentAll[0] = inst
	if a.recentAllLen < len(a.recentAll) {
		a.recentAllLen++
	}
}

func (a *Analytics) pushWindow(inst insts.Instruction) {
	a.window = append([]insts.Instruction{inst}, a.window...)
	if len(a.window) > windowCapacity {
		a.window = a.window[:windowCapacity]
	}
}

// attemptSuperscalarPair runs after each non-NOP retirement: if the window
// holds at least two records and the previous instruction has not already
// been claimed by a pair, try to issue (previous, current) together.
func (a *Analytics) attemptSuperscalarPair() {
	if a.pairLoaded {
		a.pairLoaded = false
		return
	}
	if len(a.window) < 2 {
		return
	}
	curr := a.window[0]
	prev := a.window[1]
	if canIssuePair(prev, curr) {
		a.pairLoaded = true
		a.superscalarPairs++
	}
}

// Report emits the human-readable end-of-run summary to the Analytics'
// configured writer (see WithReportWriter): NOP and instruction counts,
// per-depth hazard totals, branch-prediction accuracy for all three
// predictors, estimated stall cycles, and the superscalar pair count.
func (a *Analytics) Report() {
	w := a.out
	if w == nil {
		w = os.Stdout
	}
	a.writeReport(w)
}

// WriteReport emits the same summary as Report but to an explicit writer,
// useful in tests that want the text without configuring the struct.
func (a *Analytics) WriteReport(w io.Writer) {
	a.writeReport(w)
}

func (a *Analytics) writeReport(w io.Writer) {
	fmt.Fprintf(w, "nop count: %d\n", a.nopCount)
	fmt.Fprintf(w, "instruction count: %d\n", a.instructionCount)

	for di, depth := range depths {
		fmt.Fprintf(w, "depth %2d: data hazards = %d, control hazards = %d\n",
			depth, a.dataHazards[di], a.controlHazards[di])
	}

	fmt.Fprintf(w, "branch count: %d\n", a.branchCount)
	a.reportPredictor(w, "static", a.predictors.staticWrong)
	a.reportPredictor(w, "saturating", a.predictors.saturatingWrong)
	a.reportPredictor(w, "two-level", a.predictors.twoLevelWrong)

	for _, depth := range depths {
		penalty := stallPenalty[depth]
		fmt.Fprintf(w, "depth %2d estimated stall cycles: %d\n",
			depth, a.predictors.twoLevelWrong*penalty)
	}

	fmt.Fprintf(w, "superscalar pairs: %d\n", a.superscalarPairs)
}

func (a *Analytics) reportPredictor(w io.Writer, name string, wrong uint64) {
	pct := 0.0
	if a.branchCount > 0 {
		pct = float64(wrong) / float64(a.branchCount) * 100
	}
	fmt.Fprintf(w, "%s predictor: %d mispredictions (%.2f%%)\n", name, wrong, pct)
}

// DataHazards returns the data-hazard count for the given pipeline depth
// (5, 7, or 13); it panics-free returns 0 for any other depth.
func (a *Analytics) DataHazards(depth int) uint64 {
	di := depthIndex(depth)
	if di < 0 {
		return 0
	}
	return a.dataHazards[di]
}

// ControlHazards returns the control-hazard count for the given pipeline
// depth (5, 7, or 13).
func (a *Analytics) ControlHazards(depth int) uint64 {
	di := depthIndex(depth)
	if di < 0 {
		return 0
	}
	return a.controlHazards[di]
}

// InstructionCount returns the total number of retirements recorded,
// including NOPs.
func (a *Analytics) InstructionCount() uint64 { return a.instructionCount }

// NopCount returns the number of NOP retirements recorded.
func (a *Analytics) NopCount() uint64 { return a.nopCount }

// BranchCount returns the number of retired conditional branches.
func (a *Analytics) BranchCount() uint64 { return a.branchCount }

// StaticMispredictions returns the static predictor's miss count.
func (a *Analytics) StaticMispredictions() uint64 { return a.predictors.staticWrong }

// SaturatingMispredictions returns the 2-bit saturating predictor's miss
// count.
func (a *Analytics) SaturatingMispredictions() uint64 { return a.predictors.saturatingWrong }

// TwoLevelMispredictions returns the two-level adaptive predictor's miss
// count.
func (a *Analytics) TwoLevelMispredictions() uint64 { return a.predictors.twoLevelWrong }

// SuperscalarPairs returns the number of retirements that issued as a pair.
func (a *Analytics) SuperscalarPairs() uint64 { return a.superscalarPairs }

// Window returns a copy of the current sliding retired-instruction window,
// most-recent-first, for tests and diagnostics.
func (a *Analytics) Window() []insts.Instruction {
	out := make([]insts.Instruction, len(a.window))
	copy(out, a.window)
	return out
}
