// Package main is a lightweight ad hoc test-generation tool: it permutes a
// table of small synthetic sources through the parser and executor,
// reporting any panic, parse error, or runtime error a conforming program
// should never produce.
package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"markdownlang/internal/interpreter"
	"markdownlang/internal/mdl"
)

func main() {
	fmt.Println("Markdownlang Expression Fuzz Probe")
	fmt.Println("===================================")
	fmt.Println()

	results := make(map[string]string)
	for _, src := range seedSources() {
		results[src] = probe(src)
	}

	var sources []string
	for src := range results {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	for _, src := range sources {
		fmt.Printf("Source: %-60q  Result: %s\n", src, results[src])
	}

	if len(os.Args) > 1 {
		fmt.Println("\nAdditional command-line probes:")
		fmt.Println("================================")
		for _, arg := range os.Args[1:] {
			fmt.Printf("Source: %-60q  Result: %s\n", arg, probe(arg))
		}
	}
}

// probe parses and executes src, recovering from any panic so a single bad
// generated case can't take the whole sweep down.
func probe(src string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = fmt.Sprintf("PANIC: %v", r)
		}
	}()

	prog, perrs := mdl.Parse(src, 0)
	if len(perrs) > 0 {
		return fmt.Sprintf("parse error: %s", perrs[0].Error())
	}

	var out bytes.Buffer
	v, diags, err := interpreter.Execute(prog, &out, ".", "Main", nil)
	if err != nil {
		return fmt.Sprintf("runtime error: %v", err)
	}
	return fmt.Sprintf("ok value=%v warnings=%d stdout=%q", v.Kind, len(diags), out.String())
}

// seedSources exercises the additive, multiplicative, logical and equality
// tiers (no comparison or unary seed), both conditional arities, match with
// an otherwise clause, a block invocation with arguments, division by zero,
// an out-of-range argument reference, and the same-fence UB pattern — a
// small permutation of the constructs §8's concrete scenarios already cover
// individually.
func seedSources() []string {
	return []string{
		"# Main\n1. **{1 + 2 * 3}**",
		"# Main\n1. **{(1 + 2) * 3}**",
		"# Main\n1. **{true && false || true}**",
		"# Main\n1. **{1 == 1}**",
		"# Main\n1. x = true ? 1 : 2\n2. **{x}**",
		"# Main\n1. x = false ? 1\n2. **{x == x}**",
		"# Main\n1. x = match 2\n    - 1: \"one\"\n    - otherwise: \"other\"\n2. **{x}**",
		"# Main\n1. [1, 2](#Sum)\n\n## Sum\n1. **{#0 + #1}**",
		"# Main\n1. x = 1\n1. **{x}**",
		"# Main\n1. **{1 / 0}**",
		"# Main\n1. **{#5}**",
	}
}
