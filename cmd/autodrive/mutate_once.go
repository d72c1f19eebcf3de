package main

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/blockberries/autodrive/pkg/plugin"
	"github.com/blockberries/autodrive/pkg/schema"
)

// cmdMutateOnce drives exactly one Init/Fuzz/Deinit cycle offline, so a
// schema and a seed buffer can be exercised from the shell without a host
// fuzzer attached. runMutateOnce accepts a context purely as ambient Go
// idiom (§5) and checks it once before starting; the context passed here
// is cancelled only when the command returns, and nothing it does blocks.
func cmdMutateOnce(args []string) {
	fs := flag.NewFlagSet("mutate-once", flag.ExitOnError)
	seed := fs.Uint64("seed", 1, "RNG seed")
	maxSize := fs.Int("max-size", 1<<20, "maximum output buffer size")
	outPath := fs.String("out", "", "write the mutated buffer here instead of stdout")
	release := fs.Bool("release", false, "use ReleaseOptions instead of DefaultOptions")

	fs.Usage = func() {
		fmt.Println(`Usage: autodrive mutate-once [options] <schema-file> <input-file>

Decode, mutate, and re-encode one input buffer against a schema, offline.

Options:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly a schema file and an input file")
		fs.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runMutateOnce(ctx, fs.Arg(0), fs.Arg(1), *outPath, *seed, *maxSize, *release); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMutateOnce(ctx context.Context, schemaPath, inputPath, outPath string, seed uint64, maxSize int, release bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Setenv(schema.EnvAPIPath, schemaPath); err != nil {
		return fmt.Errorf("set %s: %w", schema.EnvAPIPath, err)
	}

	opts := plugin.DefaultOptions()
	if release {
		opts = plugin.ReleaseOptions()
	}

	mutator, err := plugin.Init(seed, opts)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer mutator.Deinit()

	in, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}

	out, err := mutator.Fuzz(in, nil, maxSize)
	if err != nil {
		return fmt.Errorf("fuzz: %w", err)
	}
	if out == nil {
		fmt.Fprintln(os.Stderr, "mutation skipped: result exceeds max-size")
		return nil
	}

	if outPath == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(outPath, out, 0o644)
}
