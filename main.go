// Package main provides the entry point for mipsight.
// mipsight is a functional MIPS32 simulator with a microarchitectural
// analytics core layered over instruction retirement.
//
// For the full CLI, use: go run ./cmd/mipsight
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("mipsight - MIPS32 simulator and microarchitectural analytics core")
	fmt.Println("")
	fmt.Println("Usage: mipsight [options] <program.elf>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -analytics   Print the analytics report after the run")
	fmt.Println("  -forwarding  Model operand forwarding when tallying data hazards (default true)")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/mipsight' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/mipsight' instead.")
	}
}
