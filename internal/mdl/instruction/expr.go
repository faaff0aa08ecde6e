package instruction

import "markdownlang/internal/mdl/source"

// Expr is the closed tagged union of expression-AST nodes described in
// §3 "Value (AST expression)". Every consumer (evaluator, pattern
// matcher, template scanner) switches exhaustively over these.
type Expr interface {
	Span() source.Span
	expr()
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
	Sp    source.Span
}

func (n NumberLit) Span() source.Span { return n.Sp }
func (NumberLit) expr()               {}

// StringLit is a double-quoted string literal.
type StringLit struct {
	Value string
	Sp    source.Span
}

func (n StringLit) Span() source.Span { return n.Sp }
func (StringLit) expr()               {}

// BoolLit is `true`/`false`.
type BoolLit struct {
	Value bool
	Sp    source.Span
}

func (n BoolLit) Span() source.Span { return n.Sp }
func (BoolLit) expr()               {}

// UnitLit is `_` in expression position (the explicit unit/null literal).
type UnitLit struct {
	Sp source.Span
}

func (n UnitLit) Span() source.Span { return n.Sp }
func (UnitLit) expr()               {}

// VarRef is a bare identifier reference.
type VarRef struct {
	Name string
	Sp   source.Span
}

func (n VarRef) Span() source.Span { return n.Sp }
func (VarRef) expr()               {}

// ArgRef is `#N`, a positional-argument reference.
type ArgRef struct {
	Index int
	Sp    source.Span
}

func (n ArgRef) Span() source.Span { return n.Sp }
func (ArgRef) expr()               {}

// SpreadRef is `#*`, a reference to every positional argument.
type SpreadRef struct {
	Sp source.Span
}

func (n SpreadRef) Span() source.Span { return n.Sp }
func (SpreadRef) expr()               {}

// BlockInvocation is `[args](ref)`: invoke without evaluating a Document
// result.
type BlockInvocation struct {
	Args []Expr
	Ref  BlockReference
	Sp   source.Span
}

func (n BlockInvocation) Span() source.Span { return n.Sp }
func (BlockInvocation) expr()               {}

// EvaluatedBlockInvocation is `![args](ref)`: invoke and, if the result is a
// Document, evaluate it (§4.6).
type EvaluatedBlockInvocation struct {
	Args []Expr
	Ref  BlockReference
	Sp   source.Span
}

func (n EvaluatedBlockInvocation) Span() source.Span { return n.Sp }
func (EvaluatedBlockInvocation) expr()                {}

// Print is `**template**`: render and write a line, producing Unit.
type Print struct {
	Template TemplateString
	Sp       source.Span
}

func (n Print) Span() source.Span { return n.Sp }
func (Print) expr()               {}

// Interpolation is a bare `{expr}` or a template reduced to a String value.
type Interpolation struct {
	Template TemplateString
	Sp       source.Span
}

func (n Interpolation) Span() source.Span { return n.Sp }
func (Interpolation) expr()               {}

// StrikethroughExpr is `~~template~~`: produces a deferred Strikethrough
// value (§4.4, §9).
type StrikethroughExpr struct {
	Template TemplateString
	Sp       source.Span
}

func (n StrikethroughExpr) Span() source.Span { return n.Sp }
func (StrikethroughExpr) expr()               {}

// UnaryExpr is `-x` or `!x`.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
	Sp      source.Span
}

func (n UnaryExpr) Span() source.Span { return n.Sp }
func (UnaryExpr) expr()               {}

// BinaryExpr is any binary operator application.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Sp    source.Span
}

func (n BinaryExpr) Span() source.Span { return n.Sp }
func (BinaryExpr) expr()               {}

// Conditional is the two- or three-operand conditional: `cond ? a : b` or
// `cond ? a` (FalseBranch == nil signals the two-operand form, which yields
// a deferred Strikethrough when the condition is falsy — §4.4).
type Conditional struct {
	Cond        Expr
	TrueBranch  Expr
	FalseBranch Expr // nil for the two-operand form
	Sp          source.Span
}

func (n Conditional) Span() source.Span { return n.Sp }
func (Conditional) expr()               {}

// MatchArm is one `pattern: result` arm of a match expression.
type MatchArm struct {
	Pattern Pattern
	Result  Expr
}

// OtherwiseClause is the optional fallback arm, with an optional capture
// binding for the scrutinee.
type OtherwiseClause struct {
	Binding    string
	HasBinding bool
	Result     Expr
}

// MatchExpr is `match scrutinee` followed by a nested unordered list of
// arms (§4.2 "Match arms").
type MatchExpr struct {
	Scrutinee Expr
	Arms      []MatchArm
	Otherwise *OtherwiseClause
	Sp        source.Span
}

func (n MatchExpr) Span() source.Span { return n.Sp }
func (MatchExpr) expr()               {}
