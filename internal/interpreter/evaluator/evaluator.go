// Package evaluator implements C7: expression evaluation, demand of
// deferred strikethrough values, and template rendering (§4.4).
package evaluator

import (
	"fmt"
	"io"
	"math"
	"strings"

	"markdownlang/internal/interpreter/diag"
	"markdownlang/internal/interpreter/environment"
	"markdownlang/internal/interpreter/mdlerr"
	"markdownlang/internal/interpreter/pattern"
	"markdownlang/internal/interpreter/runtimevalue"
	"markdownlang/internal/mdl/instruction"
	"markdownlang/internal/mdl/source"
)

// MaxDepth is the fixed recursion cap shared by expression evaluation and
// block invocation (§4.4, §5): both raise StackOverflow past this depth.
const MaxDepth = 128

// Invoker is implemented by the executor (C8) so the evaluator can invoke a
// block without importing it back — invoke_block recurses into
// execute_block, which in turn evaluates instructions through an Evaluator,
// so the dependency only runs one way.
type Invoker interface {
	Invoke(ref instruction.BlockReference, args []runtimevalue.Value, evaluateResult bool, depth int) (runtimevalue.Value, error)
}

// Evaluator holds everything a single execute() call threads through
// expression evaluation: the environment, the block invoker, the output
// writer, and the diagnostic sink (§4.4's parameter list).
type Evaluator struct {
	Env      *environment.Environment
	Invoker  Invoker
	Writer   io.Writer
	SourceID source.FileID
	Diags    *[]diag.Diagnostic

	// instrIndex is the fence-group-local index of the instruction whose
	// expression is currently being evaluated (set by the executor before
	// each top-level instruction, §4.3 "Fence context"). It is distinct
	// from recursion depth: nested expression evaluation within the same
	// instruction keeps this value, a new block invocation's own fence
	// context uses its own indices instead.
	instrIndex int
}

// New builds an Evaluator. diags is appended to in place, matching §5's
// "append-only diagnostic sink" requirement.
func New(env *environment.Environment, invoker Invoker, w io.Writer, sourceID source.FileID, diags *[]diag.Diagnostic) *Evaluator {
	return &Evaluator{Env: env, Invoker: invoker, Writer: w, SourceID: sourceID, Diags: diags}
}

// SetInstrIndex records which fence-group instruction is about to run, for
// RecordRead/RecordWrite attribution. The executor calls this immediately
// before evaluating each instruction in a group.
func (e *Evaluator) SetInstrIndex(i int) { e.instrIndex = i }

func (e *Evaluator) warn(sp source.Span, format string, args ...any) {
	*e.Diags = append(*e.Diags, diag.Warningf(e.SourceID, sp, format, args...))
}

func (e *Evaluator) wrapSpan(err error, sp source.Span) error {
	if err == nil {
		return nil
	}
	if ws, ok := err.(mdlerr.WithSpan); ok {
		ws.SetSpan(sp)
	}
	return err
}

// Eval evaluates an expression per §4.4's construct-by-construct rules.
func (e *Evaluator) Eval(expr instruction.Expr, depth int) (runtimevalue.Value, error) {
	if depth > MaxDepth {
		return runtimevalue.Value{}, e.wrapSpan(mdlerr.NewStackOverflow(depth), expr.Span())
	}
	v, err := e.eval(expr, depth)
	if err != nil {
		return runtimevalue.Value{}, e.wrapSpan(err, expr.Span())
	}
	return v, nil
}

func (e *Evaluator) eval(expr instruction.Expr, depth int) (runtimevalue.Value, error) {
	switch n := expr.(type) {
	case instruction.NumberLit:
		return runtimevalue.Number(n.Value), nil
	case instruction.StringLit:
		return runtimevalue.String(n.Value), nil
	case instruction.BoolLit:
		return runtimevalue.Boolean(n.Value), nil
	case instruction.UnitLit:
		return runtimevalue.Unit(), nil
	case instruction.VarRef:
		return e.evalVarRef(n, depth)
	case instruction.ArgRef:
		v, ok := e.Env.Current().Arg(n.Index)
		if !ok {
			return runtimevalue.Value{}, mdlerr.NewArgumentOutOfBounds(n.Index, len(e.Env.Current().Args()))
		}
		return v, nil
	case instruction.SpreadRef:
		return runtimevalue.String(runtimevalue.DisplaySpread(e.Env.Current().Args())), nil
	case instruction.UnaryExpr:
		return e.evalUnary(n, depth)
	case instruction.BinaryExpr:
		return e.evalBinary(n, depth)
	case instruction.Conditional:
		return e.evalConditional(n, depth)
	case instruction.MatchExpr:
		return e.evalMatch(n, depth)
	case instruction.Print:
		s, err := e.RenderTemplate(n.Template, depth)
		if err != nil {
			return runtimevalue.Value{}, err
		}
		if _, err := fmt.Fprintln(e.Writer, s); err != nil {
			return runtimevalue.Value{}, mdlerr.NewIoError(err)
		}
		return runtimevalue.Unit(), nil
	case instruction.Interpolation:
		s, err := e.RenderTemplate(n.Template, depth)
		if err != nil {
			return runtimevalue.Value{}, err
		}
		return runtimevalue.String(s), nil
	case instruction.StrikethroughExpr:
		return e.evalStrikethrough(n, depth)
	case instruction.BlockInvocation:
		return e.evalInvocation(n.Args, n.Ref, false, depth)
	case instruction.EvaluatedBlockInvocation:
		return e.evalInvocation(n.Args, n.Ref, true, depth)
	default:
		return runtimevalue.Value{}, mdlerr.NewCustom(fmt.Sprintf("unhandled expression node %T", n))
	}
}

func (e *Evaluator) evalVarRef(n instruction.VarRef, depth int) (runtimevalue.Value, error) {
	out := e.Env.Lookup(n.Name)
	switch out.Result {
	case environment.NotFound:
		return runtimevalue.Value{}, mdlerr.NewUndefinedVariable(n.Name)
	case environment.HoistedUnassigned:
		e.warn(n.Sp, "reading variable '%s' before it is assigned in this block", n.Name)
		return runtimevalue.Unit(), nil
	default:
		if out.NonLexical {
			e.warn(n.Sp, "reading variable '%s' from a non-lexical scope", n.Name)
		} else if !out.CrossScope {
			e.Env.RecordRead(n.Name, e.instrIndex, n.Sp)
		}
		return out.Value, nil
	}
}

func (e *Evaluator) evalUnary(n instruction.UnaryExpr, depth int) (runtimevalue.Value, error) {
	if n.Op == instruction.Not {
		v, err := e.Eval(n.Operand, depth)
		if err != nil {
			return runtimevalue.Value{}, err
		}
		return runtimevalue.Boolean(v.IsFalsy()), nil
	}
	v, err := e.Eval(n.Operand, depth)
	if err != nil {
		return runtimevalue.Value{}, err
	}
	v, err = e.Demand(v, depth)
	if err != nil {
		return runtimevalue.Value{}, err
	}
	if v.Kind != runtimevalue.KindNumber {
		return runtimevalue.Value{}, mdlerr.NewTypeError("Number", kindName(v.Kind))
	}
	return runtimevalue.Number(-v.Number), nil
}

func (e *Evaluator) evalBinary(n instruction.BinaryExpr, depth int) (runtimevalue.Value, error) {
	left, err := e.Eval(n.Left, depth)
	if err != nil {
		return runtimevalue.Value{}, err
	}
	right, err := e.Eval(n.Right, depth)
	if err != nil {
		return runtimevalue.Value{}, err
	}

	switch n.Op {
	case instruction.Eq:
		return runtimevalue.Boolean(runtimevalue.Equal(left, right)), nil
	case instruction.Neq:
		return runtimevalue.Boolean(!runtimevalue.Equal(left, right)), nil
	case instruction.And:
		return runtimevalue.Boolean(left.IsTruthy() && right.IsTruthy()), nil
	case instruction.Or:
		return runtimevalue.Boolean(left.IsTruthy() || right.IsTruthy()), nil
	}

	left, err = e.Demand(left, depth)
	if err != nil {
		return runtimevalue.Value{}, err
	}
	right, err = e.Demand(right, depth)
	if err != nil {
		return runtimevalue.Value{}, err
	}

	switch n.Op {
	case instruction.Add:
		if left.Kind == runtimevalue.KindNumber && right.Kind == runtimevalue.KindNumber {
			return runtimevalue.Number(left.Number + right.Number), nil
		}
		if left.Kind == runtimevalue.KindString && right.Kind == runtimevalue.KindString {
			return runtimevalue.String(left.String + right.String), nil
		}
		return runtimevalue.Value{}, mdlerr.NewTypeError("Number or String", kindName(left.Kind))
	case instruction.Sub, instruction.Mul, instruction.Div, instruction.Mod:
		if left.Kind != runtimevalue.KindNumber {
			return runtimevalue.Value{}, mdlerr.NewTypeError("Number", kindName(left.Kind))
		}
		if right.Kind != runtimevalue.KindNumber {
			return runtimevalue.Value{}, mdlerr.NewTypeError("Number", kindName(right.Kind))
		}
		return evalArith(n.Op, left.Number, right.Number)
	case instruction.Gt, instruction.Lt, instruction.Gte, instruction.Lte:
		if left.Kind != runtimevalue.KindNumber || right.Kind != runtimevalue.KindNumber {
			return runtimevalue.Value{}, mdlerr.NewTypeError("Number", kindName(left.Kind))
		}
		return runtimevalue.Boolean(compare(n.Op, left.Number, right.Number)), nil
	default:
		return runtimevalue.Value{}, mdlerr.NewCustom(fmt.Sprintf("unhandled binary operator %v", n.Op))
	}
}

func evalArith(op instruction.BinaryOp, a, b float64) (runtimevalue.Value, error) {
	switch op {
	case instruction.Sub:
		return runtimevalue.Number(a - b), nil
	case instruction.Mul:
		return runtimevalue.Number(a * b), nil
	case instruction.Div:
		if b == 0.0 {
			return runtimevalue.Value{}, mdlerr.NewDivisionByZero("/")
		}
		return runtimevalue.Number(a / b), nil
	case instruction.Mod:
		if b == 0.0 {
			return runtimevalue.Value{}, mdlerr.NewDivisionByZero("%")
		}
		return runtimevalue.Number(math.Mod(a, b)), nil
	default:
		return runtimevalue.Value{}, mdlerr.NewCustom("unreachable arithmetic operator")
	}
}

func compare(op instruction.BinaryOp, a, b float64) bool {
	switch op {
	case instruction.Gt:
		return a > b
	case instruction.Lt:
		return a < b
	case instruction.Gte:
		return a >= b
	case instruction.Lte:
		return a <= b
	default:
		return false
	}
}

func kindName(k runtimevalue.Kind) string {
	switch k {
	case runtimevalue.KindNumber:
		return "Number"
	case runtimevalue.KindBoolean:
		return "Boolean"
	case runtimevalue.KindString:
		return "String"
	case runtimevalue.KindUnit:
		return "Unit"
	case runtimevalue.KindDocument:
		return "Document"
	case runtimevalue.KindStrikethrough:
		return "Strikethrough"
	case runtimevalue.KindTable:
		return "Table"
	default:
		return "?"
	}
}

func (e *Evaluator) evalConditional(n instruction.Conditional, depth int) (runtimevalue.Value, error) {
	cond, err := e.Eval(n.Cond, depth)
	if err != nil {
		return runtimevalue.Value{}, err
	}
	if cond.IsTruthy() {
		return e.Eval(n.TrueBranch, depth)
	}
	if n.FalseBranch != nil {
		return e.Eval(n.FalseBranch, depth)
	}
	return runtimevalue.StrikethroughLazy(n.TrueBranch), nil
}

func (e *Evaluator) evalMatch(n instruction.MatchExpr, depth int) (runtimevalue.Value, error) {
	scrutinee, err := e.Eval(n.Scrutinee, depth)
	if err != nil {
		return runtimevalue.Value{}, err
	}
	for _, arm := range n.Arms {
		binds, ok := pattern.Match(arm.Pattern, scrutinee)
		if !ok {
			continue
		}
		for _, b := range binds {
			e.Env.Assign(b.Name, b.Value)
		}
		return e.Eval(arm.Result, depth)
	}
	if n.Otherwise != nil {
		if n.Otherwise.HasBinding {
			e.Env.Assign(n.Otherwise.Binding, scrutinee)
		}
		return e.Eval(n.Otherwise.Result, depth)
	}
	return runtimevalue.Value{}, mdlerr.NewNonExhaustiveMatch()
}

func (e *Evaluator) evalStrikethrough(n instruction.StrikethroughExpr, depth int) (runtimevalue.Value, error) {
	if n.Template.HasBlockInvocation() {
		return runtimevalue.StrikethroughTemplate(n.Template), nil
	}
	v, err := e.evalTemplateToValue(n.Template, depth)
	if err != nil {
		return runtimevalue.Value{}, err
	}
	return runtimevalue.StrikethroughEager(v), nil
}

func (e *Evaluator) evalInvocation(argExprs []instruction.Expr, ref instruction.BlockReference, evaluateResult bool, depth int) (runtimevalue.Value, error) {
	args := make([]runtimevalue.Value, len(argExprs))
	for i, a := range argExprs {
		v, err := e.Eval(a, depth)
		if err != nil {
			return runtimevalue.Value{}, err
		}
		args[i] = v
	}
	return e.Invoker.Invoke(ref, args, evaluateResult, depth+1)
}

// Demand unwraps a strikethrough payload per §4.4/§9: Eager passes its
// value through, Lazy evaluates the captured expression, Template renders
// the captured template to a value. Non-strikethrough values pass through
// unchanged. Demand is idempotent because an evaluated payload never
// re-wraps into another deferred form.
func (e *Evaluator) Demand(v runtimevalue.Value, depth int) (runtimevalue.Value, error) {
	if v.Kind != runtimevalue.KindStrikethrough {
		return v, nil
	}
	switch v.Payload.Kind {
	case runtimevalue.PayloadEager:
		return v.Payload.Eager, nil
	case runtimevalue.PayloadLazy:
		return e.Eval(v.Payload.LazyExpr, depth+1)
	case runtimevalue.PayloadTemplate:
		return e.evalTemplateToValue(v.Payload.Template, depth+1)
	default:
		return v, nil
	}
}

// evalTemplateToValue implements §4.4's "preserve native type for a single
// expression, else concatenate to String" rule, shared between eager
// strikethrough construction and demand of a Template payload.
func (e *Evaluator) evalTemplateToValue(ts instruction.TemplateString, depth int) (runtimevalue.Value, error) {
	if len(ts.Parts) == 1 {
		if ep, ok := ts.Parts[0].(instruction.ExprPart); ok {
			return e.Eval(ep.Expr, depth)
		}
	}
	s, err := e.RenderTemplate(ts, depth)
	if err != nil {
		return runtimevalue.Value{}, err
	}
	return runtimevalue.String(s), nil
}

func (e *Evaluator) RenderTemplate(ts instruction.TemplateString, depth int) (string, error) {
	var sb strings.Builder
	for _, part := range ts.Parts {
		switch p := part.(type) {
		case instruction.LiteralPart:
			sb.WriteString(p.Value)
		case instruction.ExprPart:
			v, err := e.Eval(p.Expr, depth)
			if err != nil {
				return "", err
			}
			sb.WriteString(runtimevalue.Display(v))
		}
	}
	return sb.String(), nil
}
