// Package main provides the entry point for mipsight.
// mipsight is a functional MIPS32 simulator with a microarchitectural
// analytics core layered over instruction retirement.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/mipsight/emu"
	"github.com/sarchlab/mipsight/loader"
	"github.com/sarchlab/mipsight/timing/pipeline"
)

var (
	analytics  = flag.Bool("analytics", false, "Print the microarchitectural analytics report after the run")
	forwarding = flag.Bool("forwarding", true, "Model operand forwarding when tallying data hazards")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: mipsight [options] <program.elf>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%08X\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	memory := emu.NewFlatMemory()
	for _, seg := range prog.Segments {
		for i, b := range seg.Data {
			memory.WriteByte(seg.VirtAddr+uint32(i), b)
		}
		for i := uint32(len(seg.Data)); i < seg.MemSize; i++ {
			memory.WriteByte(seg.VirtAddr+i, 0)
		}
	}

	opts := []emu.SimulatorOption{
		emu.WithStackPointer(prog.InitialSP),
	}

	var a *pipeline.Analytics
	if *analytics {
		a = pipeline.NewAnalytics(
			pipeline.WithForwarding(*forwarding),
			pipeline.WithReportWriter(os.Stdout),
		)
		opts = append(opts, emu.WithOnRetire(func(e emu.RetireEvent) {
			a.Record(e.Inst, e.Taken)
		}))
	}

	sim := emu.NewSimulator(memory, opts...)
	exitCode, runErr := sim.Run(prog.EntryPoint)

	if *verbose {
		fmt.Printf("\nProgram: %s\n", programPath)
		fmt.Printf("Exit code: %d\n", exitCode)
		fmt.Printf("Instructions executed: %d\n", sim.InstructionCount())
	}

	if a != nil {
		fmt.Println()
		a.Report()
	}

	if runErr != nil {
		os.Exit(1)
	}
	os.Exit(int(exitCode))
}
