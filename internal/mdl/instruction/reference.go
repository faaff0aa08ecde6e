// Package instruction holds C2: the instruction/expression AST that the
// expression parser (C4) builds from a list item's token stream, plus the
// operator taxonomy, template strings, block references, and fence-group
// chain structure (§3 "Chain") that sits between it and a Block.
package instruction

// BlockReference names the block a BlockInvocation/EvaluatedBlockInvocation
// targets: a local block, an import from another local .md file, or a
// remote URL import (§4.2, always yields ImportNotImplemented at runtime).
type BlockReference interface {
	blockReference()
}

// Local references a block defined in the same program by name.
type Local struct {
	Name string
}

func (Local) blockReference() {}

// LocalImport references a block defined in another file on disk (§4.5
// "Imports"). The executor resolves every import path against its own base
// directory; an import written inside an imported file is not resolved
// against that file's directory.
type LocalImport struct {
	Path  string
	Block string
}

func (LocalImport) blockReference() {}

// RemoteImport references a block across an http(s) URL. Always produces
// ImportNotImplemented — remote module resolution is reserved for later.
type RemoteImport struct {
	URL   string
	Block string
}

func (RemoteImport) blockReference() {}
