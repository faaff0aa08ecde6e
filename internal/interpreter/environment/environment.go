// Package environment implements C6: the scope stack, hoisting, cross-/
// non-lexical variable lookup, and the fence-group read/write log used to
// detect same-fence undefined-behavior conflicts (§3 "Environment", §4.3).
package environment

import (
	"markdownlang/internal/interpreter/diag"
	"markdownlang/internal/interpreter/runtimevalue"
	"markdownlang/internal/mdl/source"
)

// LookupResult classifies a variable-reference lookup outcome (§4.3).
type LookupResult int

const (
	Found LookupResult = iota
	HoistedUnassigned
	NotFound
)

// LookupOutcome is the full result of a Lookup call.
type LookupOutcome struct {
	Result     LookupResult
	Value      runtimevalue.Value
	CrossScope bool // found above the innermost scope
	NonLexical bool // the owning scope's block is neither current nor an ancestor
}

type slot struct {
	value    runtimevalue.Value
	assigned bool
}

// Scope is one block invocation's variable frame: hoisted assignment
// targets (installed unassigned), the positional argument list, the owning
// block's name, and that block's precomputed lexical-ancestor set.
type Scope struct {
	vars      map[string]*slot
	args      []runtimevalue.Value
	blockName string
	ancestors map[string]bool
}

func newScope(blockName string, hoisted []string, args []runtimevalue.Value, ancestors []string) *Scope {
	s := &Scope{
		vars:      make(map[string]*slot, len(hoisted)),
		args:      args,
		blockName: blockName,
		ancestors: make(map[string]bool, len(ancestors)),
	}
	for _, n := range hoisted {
		s.vars[n] = &slot{}
	}
	for _, a := range ancestors {
		s.ancestors[a] = true
	}
	return s
}

// Arg returns the positional argument at index, or ok=false if out of
// range.
func (s *Scope) Arg(index int) (runtimevalue.Value, bool) {
	if index < 0 || index >= len(s.args) {
		return runtimevalue.Value{}, false
	}
	return s.args[index], true
}

// Args returns every positional argument, for SpreadRef.
func (s *Scope) Args() []runtimevalue.Value { return s.args }

// BlockName is the block that owns this scope.
func (s *Scope) BlockName() string { return s.blockName }

type readEntry struct {
	index int
	sp    source.Span
}

// fenceContext tracks, per variable name, the reads (index + span) and
// write indices recorded while one fence group executes (§3 "FenceContext",
// §4.3 "Fence context").
type fenceContext struct {
	reads  map[string][]readEntry
	writes map[string][]int
}

func newFenceContext() *fenceContext {
	return &fenceContext{reads: map[string][]readEntry{}, writes: map[string][]int{}}
}

// Environment is the full scope + fence-context stack threaded through
// evaluation.
type Environment struct {
	scopes []*Scope
	fences []*fenceContext
	fileID source.FileID
}

// New creates an empty Environment tagging diagnostics with fileID.
func New(fileID source.FileID) *Environment {
	return &Environment{fileID: fileID}
}

// PushScope installs a new scope for a block invocation, pre-hoisting every
// name the block's chain assigns anywhere (§4.3 "Scope push").
func (e *Environment) PushScope(blockName string, hoisted []string, args []runtimevalue.Value, ancestors []string) {
	e.scopes = append(e.scopes, newScope(blockName, hoisted, args, ancestors))
}

// PopScope removes the innermost scope. Every PushScope must be paired with
// exactly one PopScope, including on error-return paths (§5 "Scoped
// acquisition").
func (e *Environment) PopScope() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

// Current returns the innermost scope.
func (e *Environment) Current() *Scope {
	return e.scopes[len(e.scopes)-1]
}

// Depth reports how many scopes are currently pushed.
func (e *Environment) Depth() int { return len(e.scopes) }

// Lookup walks the scope stack inward→outward per §4.3.
func (e *Environment) Lookup(name string) LookupOutcome {
	innermost := len(e.scopes) - 1
	for i := innermost; i >= 0; i-- {
		s := e.scopes[i]
		sl, ok := s.vars[name]
		if !ok {
			continue
		}
		crossScope := i != innermost
		nonLexical := false
		if crossScope {
			cur := e.scopes[innermost]
			if s.blockName != cur.blockName && !cur.ancestors[s.blockName] {
				nonLexical = true
			}
		}
		if !sl.assigned {
			return LookupOutcome{Result: HoistedUnassigned, CrossScope: crossScope, NonLexical: nonLexical}
		}
		return LookupOutcome{Result: Found, Value: sl.value, CrossScope: crossScope, NonLexical: nonLexical}
	}
	return LookupOutcome{Result: NotFound}
}

// Assign writes a value into the current (innermost) scope, marking the
// slot assigned. Hoisting guarantees the slot already exists for every name
// the chain ever assigns; a defensive fallback creates it if not.
func (e *Environment) Assign(name string, v runtimevalue.Value) {
	s := e.Current()
	if sl, ok := s.vars[name]; ok {
		sl.value = v
		sl.assigned = true
		return
	}
	s.vars[name] = &slot{value: v, assigned: true}
}

// PushFence starts a new fence group's read/write log.
func (e *Environment) PushFence() {
	e.fences = append(e.fences, newFenceContext())
}

// RecordRead logs a same-scope read of name at instruction index idx,
// spanned at sp. Only same-scope reads participate in UB detection (§4.3).
func (e *Environment) RecordRead(name string, idx int, sp source.Span) {
	if len(e.fences) == 0 {
		return
	}
	f := e.fences[len(e.fences)-1]
	f.reads[name] = append(f.reads[name], readEntry{index: idx, sp: sp})
}

// RecordWrite logs a write of name at instruction index idx.
func (e *Environment) RecordWrite(name string, idx int) {
	if len(e.fences) == 0 {
		return
	}
	f := e.fences[len(e.fences)-1]
	f.writes[name] = append(f.writes[name], idx)
}

// PopFence closes the innermost fence group's log and returns a warning
// diagnostic for every read whose instruction index is not among the
// writes of a name that was written at least once in this group (§4.3,
// §9 "Fence-group UB detection").
func (e *Environment) PopFence() []diag.Diagnostic {
	f := e.fences[len(e.fences)-1]
	e.fences = e.fences[:len(e.fences)-1]

	var out []diag.Diagnostic
	for name, writeIdxs := range f.writes {
		if len(writeIdxs) == 0 {
			continue
		}
		writeSet := make(map[int]bool, len(writeIdxs))
		for _, w := range writeIdxs {
			writeSet[w] = true
		}
		for _, r := range f.reads[name] {
			if !writeSet[r.index] {
				out = append(out, diag.Warningf(e.fileID, r.sp, "reading variable '%s' at the same fence as its assignment", name))
			}
		}
	}
	return out
}
