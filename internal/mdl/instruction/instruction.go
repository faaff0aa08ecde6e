package instruction

import "markdownlang/internal/mdl/source"

// Instruction is either an Assignment or a bare Expression statement — the
// two forms a list item can take (§3 "Instruction").
type Instruction interface {
	Span() source.Span
	instruction()
}

// Assignment is `name = expr`.
type Assignment struct {
	Name string
	Expr Expr
	Sp   source.Span
}

func (a Assignment) Span() source.Span { return a.Sp }
func (Assignment) instruction()        {}

// ExpressionStmt is a bare expression evaluated for its side effects/value.
type ExpressionStmt struct {
	Expr Expr
	Sp   source.Span
}

func (e ExpressionStmt) Span() source.Span { return e.Sp }
func (ExpressionStmt) instruction()        {}

// FenceGroup is a maximal run of instructions sharing one literal list-marker
// index (§3 "Chain", GLOSSARY "Fence group"). Ordering within the group is
// observably unspecified; the environment's FenceContext (C6) is what
// detects same-group read/write conflicts.
type FenceGroup struct {
	Index        int
	Instructions []Instruction
}

// Chain is a block's ordered sequence of fence groups.
type Chain struct {
	Groups []FenceGroup
}

// AssignedNames returns every name appearing as an Assignment target across
// the whole chain, in first-occurrence order — the hoisting scan of §4.3/§4.5
// step 2 ("unique, insertion-ordered scan of all Assignment.variable in
// chain order").
func (c Chain) AssignedNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, g := range c.Groups {
		for _, ins := range g.Instructions {
			if a, ok := ins.(Assignment); ok && !seen[a.Name] {
				seen[a.Name] = true
				names = append(names, a.Name)
			}
		}
	}
	return names
}
