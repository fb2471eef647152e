package main

import (
	"fmt"
	"os"

	"github.com/reviv-lang/reviv"
	"github.com/reviv-lang/reviv/emit"
	"github.com/reviv-lang/reviv/fixture"
	"github.com/reviv-lang/reviv/version"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Please provide a command")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Println(version.Get())
		os.Exit(0)
	case "run":
		if len(os.Args) < 3 {
			fmt.Println("Expected a fixture filepath argument")
			os.Exit(1)
		}
		if !run(os.Args[2], os.Args[3:]) {
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown command %q\n", os.Args[1])
		os.Exit(1)
	}
}

// run loads a fixture.File describing a value graph, serializes it,
// and prints the result — a minimal demo harness standing in for the
// "module load" entry point spec §6 assumes some embedding host
// already provides; this repository's own tests drive the pipeline
// directly instead of through this command.
func run(path string, flags []string) bool {
	f, err := fixture.Load(path)
	if err != nil {
		fmt.Println(err)
		return false
	}
	root, trackers, err := f.Build()
	if err != nil {
		fmt.Println(err)
		return false
	}

	opts := []reviv.Option{reviv.WithFormat(parseFormatFlag(flags))}
	if hasFlag(flags, "--minify") {
		opts = append(opts, reviv.WithMinify(true))
	}
	if hasFlag(flags, "--mangle") {
		opts = append(opts, reviv.WithMangle(true))
	}
	if hasFlag(flags, "--inline") {
		opts = append(opts, reviv.WithInline(true))
	}
	if hasFlag(flags, "--strict") {
		opts = append(opts, reviv.WithStrictEnv(true))
	}

	out, err := reviv.Serialize(root, trackers, opts...)
	if err != nil {
		fmt.Println(err)
		return false
	}
	fmt.Print(out)
	return true
}

func hasFlag(flags []string, name string) bool {
	for _, f := range flags {
		if f == name {
			return true
		}
	}
	return false
}

func parseFormatFlag(flags []string) emit.Format {
	if hasFlag(flags, "--cjs") {
		return emit.FormatCommonJS
	}
	if hasFlag(flags, "--esm") {
		return emit.FormatESM
	}
	return emit.FormatExpression
}
