// Command autodrive is the structure-aware fuzz-run mutator's CLI: it
// validates and inspects schema files, and drives one offline mutation
// without a host fuzzer attached.
//
// Usage:
//
//	autodrive validate <schema-file>
//	autodrive inspect <schema-file>
//	autodrive mutate-once [options] <schema-file> <input-file>
//	autodrive version
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		cmdValidate(os.Args[2:])
	case "inspect":
		cmdInspect(os.Args[2:])
	case "mutate-once":
		cmdMutateOnce(os.Args[2:])
	case "version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`autodrive — structure-aware fuzz-run mutator

Usage:
  autodrive <command> [options] <args>

Commands:
  validate      Load and resolve a schema file, reporting every error found
  inspect       Print the resolved type and function tables
  mutate-once   Decode, mutate, and re-encode one input buffer offline
  version       Print version information

Run 'autodrive <command> -h' for command-specific help.`)
}
