// Package interpreter is the top-level entry point for C5-C9: executing an
// already-parsed Program (§6 "Execute API").
package interpreter

import (
	"io"

	"markdownlang/internal/interpreter/diag"
	"markdownlang/internal/interpreter/executor"
	"markdownlang/internal/interpreter/runtimevalue"
	"markdownlang/internal/mdl/block"
)

// Execute runs entryName (case-insensitive) in prog, writing Print/template
// output to w and resolving imports relative to baseDir. It returns the
// entry block's result value, every warning diagnostic raised along the
// way, and the first fatal runtime error encountered, if any.
func Execute(prog *block.Program, w io.Writer, baseDir string, entryName string, args []runtimevalue.Value) (runtimevalue.Value, []diag.Diagnostic, error) {
	var diags []diag.Diagnostic
	ex := executor.New(prog, w, baseDir, &diags)
	v, err := ex.Run(entryName, args)
	return v, diags, err
}
