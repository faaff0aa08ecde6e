// Package main is the entry point for the mdlang tool.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"

	"markdownlang/internal/interpreter"
	"markdownlang/internal/interpreter/runtimevalue"
	"markdownlang/internal/mdl"
)

func main() {
	entryFlag := flag.String("entry", "Main", "Name of the block to execute (case-insensitive).")
	eFlag := flag.String("e", "", "Short alias for --entry. Overrides --entry if set.")
	baseDirFlag := flag.String("base-dir", "", "Directory imports resolve relative to (default: the input file's directory, or cwd for stdin).")
	cFlag := flag.String("C", "", "Short alias for --base-dir.")
	debugFlag := flag.Bool("debug", false, "Enable verbose debug output.")
	dFlag := flag.Bool("D", false, "Short alias for --debug.")

	flag.Parse()

	entry := *entryFlag
	if *eFlag != "" {
		entry = *eFlag
	}
	baseDir := *baseDirFlag
	if *cFlag != "" {
		baseDir = *cFlag
	}
	isDebugMode := *debugFlag || *dFlag

	if isDebugMode {
		fmt.Fprintln(os.Stderr, "DEBUG: mdlang starting")
		fmt.Fprintf(os.Stderr, "DEBUG: entry=%q base-dir=%q\n", entry, baseDir)
	}

	var srcPath string
	var src []byte
	var err error
	if flag.NArg() > 0 {
		srcPath = flag.Arg(0)
		src, err = ioutil.ReadFile(srcPath)
	} else {
		if isDebugMode {
			fmt.Fprintln(os.Stderr, "DEBUG: reading source from stdin")
		}
		src, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	if baseDir == "" {
		if srcPath != "" {
			baseDir = filepath.Dir(srcPath)
		} else {
			baseDir, _ = os.Getwd()
		}
	}

	prog, perrs := mdl.Parse(string(src), 0)
	if len(perrs) > 0 {
		for _, pe := range perrs {
			fmt.Fprintln(os.Stderr, pe.Error())
		}
		os.Exit(1)
	}
	if isDebugMode {
		fmt.Fprintf(os.Stderr, "DEBUG: parsed %d top-level block(s)\n", len(prog.Blocks))
	}

	var args []runtimevalue.Value
	if flag.NArg() > 1 {
		args = coerceArgs(flag.Args()[1:])
	}

	_, diags, runErr := interpreter.Execute(prog, os.Stdout, baseDir, entry, args)

	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d.Message)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}

	if isDebugMode {
		fmt.Fprintln(os.Stderr, "DEBUG: mdlang exiting.")
	}
}

// coerceArgs implements §6's "Argument coercion (CLI and test harness)":
// each string parses as Number if possible, else Boolean on an exact
// true/false match, else String.
func coerceArgs(raw []string) []runtimevalue.Value {
	out := make([]runtimevalue.Value, len(raw))
	for i, s := range raw {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			out[i] = runtimevalue.Number(n)
			continue
		}
		if s == "true" {
			out[i] = runtimevalue.Boolean(true)
			continue
		}
		if s == "false" {
			out[i] = runtimevalue.Boolean(false)
			continue
		}
		out[i] = runtimevalue.String(s)
	}
	return out
}
