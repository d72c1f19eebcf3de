package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/blockberries/autodrive/pkg/schema"
)

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Println(`Usage: autodrive validate <schema-file>...

Load and resolve each schema file, reporting every structural error found.

Options:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no schema files given")
		fs.Usage()
		os.Exit(1)
	}

	hasErrors := false
	for _, path := range fs.Args() {
		if _, err := schema.Load(path); err != nil {
			hasErrors = true
			var schemaErr *schema.SchemaError
			if errors.As(err, &schemaErr) {
				for _, e := range schemaErr.Errors {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, e)
				}
				continue
			}
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		fmt.Printf("Valid: %s\n", path)
	}

	if hasErrors {
		os.Exit(1)
	}
}
