// Package block holds the Block and Program types — the structural
// parser's (C3) output shape, described in §3 "Program"/"Block".
package block

import (
	"markdownlang/internal/mdl/document"
	"markdownlang/internal/mdl/instruction"
	"markdownlang/internal/mdl/source"
)

// Block is a named, nestable unit introduced by a Markdown heading.
//
// Invariants (enforced by the structural parser, C3): every entry of
// Children has Level > Level; Children are topologically contiguous in
// source order; Name is never empty.
type Block struct {
	Name     string // whitespace-normalized heading text, case-sensitive
	Level    int    // 1..=6
	Chain    instruction.Chain
	Children []*Block
	Body     document.Document
	Span     source.Span
}

// Program is the structural parser's top-level output: the sequence of
// top-level blocks plus the source id diagnostics are tagged with.
type Program struct {
	Blocks   []*Block
	SourceID source.FileID
}
