package main

import (
	"fmt"
	"os"
	"sort"

	flag "github.com/spf13/pflag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/blockberries/autodrive/pkg/ctypes"
	"github.com/blockberries/autodrive/pkg/schema"
)

var titleCaser = cases.Title(language.English)

func cmdInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Println(`Usage: autodrive inspect <schema-file>

Load a schema file and print its resolved type and function tables.

Options:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one schema file")
		fs.Usage()
		os.Exit(1)
	}

	tables, err := schema.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", titleCaser.String("types"))
	names := make([]string, 0, len(tables.Types))
	for name := range tables.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-24s %s\n", titleCaser.String(name), describeValue(tables.Types[name]))
	}

	fmt.Printf("\n%s\n", titleCaser.String("functions"))
	for _, fn := range tables.Functions {
		fmt.Printf("  %-24s returns %s\n", titleCaser.String(fn.Name), describeValue(fn.ReturnType))
		for i, p := range fn.ParameterType {
			fmt.Printf("    param %d: %s\n", i, describeValue(p))
		}
	}

	fmt.Printf("\ndecision_bits_per_iteration: %d\n", tables.DecisionBitsPerIteration)
	fmt.Printf("chaining_variables_size: %d\n", tables.ChainingVariablesSize)
}

// describeValue renders a one-line structural summary of v, for inspect's
// human-facing output; it is not a serialization format.
func describeValue(v ctypes.Value) string {
	switch t := v.(type) {
	case *ctypes.Scalar:
		return fmt.Sprintf("scalar(%d bytes)", len(t.Content))
	case *ctypes.Enum:
		return "enum"
	case *ctypes.Array:
		return fmt.Sprintf("array[%d]", len(t.Elements))
	case *ctypes.Pointer:
		if t.TargetTypeID != "" {
			return fmt.Sprintf("pointer -> %s (unresolved)", t.TargetTypeID)
		}
		return "pointer (resolved)"
	case *ctypes.Struct:
		return fmt.Sprintf("struct{%d fields}", len(t.Fields))
	case *ctypes.Union:
		return fmt.Sprintf("union{%d fields}", len(t.Fields))
	case *ctypes.Typedef:
		return "typedef -> " + describeValue(t.Inner)
	case ctypes.FunctionPointer:
		return "function_pointer"
	case ctypes.OpaquePointer:
		return "opaque_pointer"
	default:
		return "unknown"
	}
}
