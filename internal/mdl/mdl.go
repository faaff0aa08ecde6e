// Package mdl is the top-level entry point for C1-C4: parsing a
// markdownlang source document into a Program (§6 "Parse API").
package mdl

import (
	"markdownlang/internal/mdl/block"
	"markdownlang/internal/mdl/parser"
	"markdownlang/internal/mdl/source"
)

// Parse runs the structural parser (C3) and the expression parser (C4) it
// drives, returning the parsed Program or the set of parse errors
// encountered. fileID tags every span in the result for diagnostics.
func Parse(src string, fileID int) (*block.Program, []parser.ParseError) {
	return parser.Parse(src, source.FileID(fileID))
}
