package parser

import (
	"testing"

	"markdownlang/internal/mdl/instruction"
)

func mustParseExpr(t *testing.T, s string) instruction.Expr {
	t.Helper()
	expr, errs := parseExprFromString(s, 0)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", s, errs)
	}
	return expr
}

func TestParseExprMulBindsTighterThanAdd(t *testing.T) {
	expr := mustParseExpr(t, "1 + 2 * 3")
	bin, ok := expr.(instruction.BinaryExpr)
	if !ok || bin.Op != instruction.Add {
		t.Fatalf("expected top-level Add, got %+v", expr)
	}
	rhs, ok := bin.Right.(instruction.BinaryExpr)
	if !ok || rhs.Op != instruction.Mul {
		t.Fatalf("expected right operand to be Mul, got %+v", bin.Right)
	}
}

func TestParseExprComparisonBindsLooserThanArithmetic(t *testing.T) {
	expr := mustParseExpr(t, "1 + 2 > 2")
	bin, ok := expr.(instruction.BinaryExpr)
	if !ok || bin.Op != instruction.Gt {
		t.Fatalf("expected top-level Gt, got %+v", expr)
	}
	if _, ok := bin.Left.(instruction.BinaryExpr); !ok {
		t.Fatalf("expected left operand to be the Add subexpression, got %+v", bin.Left)
	}
}

func TestParseExprAndBindsTighterThanOr(t *testing.T) {
	expr := mustParseExpr(t, "true || false && false")
	bin, ok := expr.(instruction.BinaryExpr)
	if !ok || bin.Op != instruction.Or {
		t.Fatalf("expected top-level Or, got %+v", expr)
	}
	rhs, ok := bin.Right.(instruction.BinaryExpr)
	if !ok || rhs.Op != instruction.And {
		t.Fatalf("expected right operand to be And, got %+v", bin.Right)
	}
}

func TestParseExprUnaryBindsTighterThanBinary(t *testing.T) {
	expr := mustParseExpr(t, "-1 + 2")
	bin, ok := expr.(instruction.BinaryExpr)
	if !ok || bin.Op != instruction.Add {
		t.Fatalf("expected top-level Add, got %+v", expr)
	}
	if _, ok := bin.Left.(instruction.UnaryExpr); !ok {
		t.Fatalf("expected left operand to be a UnaryExpr, got %+v", bin.Left)
	}
}

func TestParseExprThreeOperandConditionalRightAssociative(t *testing.T) {
	expr := mustParseExpr(t, "true ? 1 : false ? 2 : 3")
	cond, ok := expr.(instruction.Conditional)
	if !ok {
		t.Fatalf("expected a Conditional, got %T", expr)
	}
	if cond.FalseBranch == nil {
		t.Fatalf("expected a three-operand conditional")
	}
	if _, ok := cond.FalseBranch.(instruction.Conditional); !ok {
		t.Fatalf("expected false branch to itself be a Conditional, got %T", cond.FalseBranch)
	}
}

func TestParseExprTwoOperandConditionalHasNilFalseBranch(t *testing.T) {
	expr := mustParseExpr(t, "true ? 1")
	cond, ok := expr.(instruction.Conditional)
	if !ok {
		t.Fatalf("expected a Conditional, got %T", expr)
	}
	if cond.FalseBranch != nil {
		t.Errorf("expected a nil FalseBranch for the two-operand form")
	}
}

func TestParseExprArgRefAndSpreadRef(t *testing.T) {
	expr := mustParseExpr(t, "#0")
	if _, ok := expr.(instruction.ArgRef); !ok {
		t.Fatalf("expected ArgRef, got %T", expr)
	}
	expr = mustParseExpr(t, "#*")
	if _, ok := expr.(instruction.SpreadRef); !ok {
		t.Fatalf("expected SpreadRef, got %T", expr)
	}
}

func TestParseBlockReferenceVariants(t *testing.T) {
	tests := []struct {
		dest string
		want instruction.BlockReference
	}{
		{"#Foo", instruction.Local{Name: "Foo"}},
		{"Foo", instruction.Local{Name: "Foo"}},
		{"lib#Foo", instruction.LocalImport{Path: "lib", Block: "Foo"}},
		{"https://example.com/lib.md#Foo", instruction.RemoteImport{URL: "https://example.com/lib.md", Block: "Foo"}},
	}
	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			got := parseBlockRefString(tt.dest)
			if got != tt.want {
				t.Errorf("parseBlockRefString(%q) = %#v, want %#v", tt.dest, got, tt.want)
			}
		})
	}
}

func TestParseSinglePatternLiterals(t *testing.T) {
	prog, errs := Parse("# M\n1. x = match 1\n    - 1: \"a\"\n    - \"s\": \"b\"\n    - true: \"c\"\n    - _: \"d\"\n    - otherwise: \"e\"\n", 0)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	var match instruction.MatchExpr
	for _, grp := range prog.Blocks[0].Chain.Groups {
		for _, ins := range grp.Instructions {
			if a, ok := ins.(instruction.Assignment); ok {
				if m, ok := a.Expr.(instruction.MatchExpr); ok {
					match = m
				}
			}
		}
	}
	if len(match.Arms) != 4 {
		t.Fatalf("expected 4 match arms, got %d", len(match.Arms))
	}
	if _, ok := match.Arms[0].Pattern.(instruction.NumberPattern); !ok {
		t.Errorf("arm 0: expected NumberPattern, got %T", match.Arms[0].Pattern)
	}
	if _, ok := match.Arms[1].Pattern.(instruction.StringPattern); !ok {
		t.Errorf("arm 1: expected StringPattern, got %T", match.Arms[1].Pattern)
	}
	if _, ok := match.Arms[2].Pattern.(instruction.BoolPattern); !ok {
		t.Errorf("arm 2: expected BoolPattern, got %T", match.Arms[2].Pattern)
	}
	if _, ok := match.Arms[3].Pattern.(instruction.WildcardPattern); !ok {
		t.Errorf("arm 3: expected WildcardPattern, got %T", match.Arms[3].Pattern)
	}
	if match.Otherwise == nil {
		t.Fatalf("expected an otherwise clause")
	}
}
