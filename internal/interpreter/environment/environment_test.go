package environment

import (
	"testing"

	"markdownlang/internal/interpreter/runtimevalue"
	"markdownlang/internal/mdl/source"
)

func TestLookupNotFound(t *testing.T) {
	e := New(0)
	e.PushScope("main", nil, nil, nil)
	defer e.PopScope()

	out := e.Lookup("x")
	if out.Result != NotFound {
		t.Fatalf("Lookup(x) = %v, want NotFound", out.Result)
	}
}

func TestLookupHoistedThenAssigned(t *testing.T) {
	e := New(0)
	e.PushScope("main", []string{"x"}, nil, nil)
	defer e.PopScope()

	out := e.Lookup("x")
	if out.Result != HoistedUnassigned {
		t.Fatalf("Lookup(x) before assignment = %v, want HoistedUnassigned", out.Result)
	}

	e.Assign("x", runtimevalue.Number(5))
	out = e.Lookup("x")
	if out.Result != Found || out.Value.Number != 5 {
		t.Fatalf("Lookup(x) after assignment = %+v, want Found(5)", out)
	}
}

func TestLookupCrossScopeAndLexical(t *testing.T) {
	e := New(0)
	e.PushScope("outer", []string{"y"}, nil, nil)
	e.Assign("y", runtimevalue.Number(1))
	e.PushScope("inner", nil, nil, []string{"outer"})
	defer func() {
		e.PopScope()
		e.PopScope()
	}()

	out := e.Lookup("y")
	if out.Result != Found {
		t.Fatalf("Lookup(y) = %v, want Found", out.Result)
	}
	if !out.CrossScope {
		t.Errorf("expected CrossScope=true")
	}
	if out.NonLexical {
		t.Errorf("expected NonLexical=false: outer is inner's lexical ancestor")
	}
}

func TestLookupNonLexicalCrossScope(t *testing.T) {
	e := New(0)
	e.PushScope("caller", []string{"z"}, nil, nil)
	e.Assign("z", runtimevalue.Number(9))
	// Invoked block's ancestors do not include "caller" — it was invoked,
	// not nested inside caller by heading structure.
	e.PushScope("callee", nil, nil, []string{"root"})
	defer func() {
		e.PopScope()
		e.PopScope()
	}()

	out := e.Lookup("z")
	if out.Result != Found || !out.CrossScope || !out.NonLexical {
		t.Fatalf("Lookup(z) = %+v, want Found/CrossScope/NonLexical", out)
	}
}

func TestArgsAndArg(t *testing.T) {
	e := New(0)
	args := []runtimevalue.Value{runtimevalue.Number(1), runtimevalue.Number(2)}
	e.PushScope("main", nil, args, nil)
	defer e.PopScope()

	if v, ok := e.Current().Arg(1); !ok || v.Number != 2 {
		t.Errorf("Arg(1) = %v,%v, want 2,true", v, ok)
	}
	if _, ok := e.Current().Arg(5); ok {
		t.Errorf("Arg(5) should be out of bounds")
	}
}

func TestFenceNoConflictAcrossGroups(t *testing.T) {
	e := New(0)
	e.PushScope("main", []string{"x"}, nil, nil)
	defer e.PopScope()

	e.PushFence()
	e.RecordWrite("x", 0)
	if warnings := e.PopFence(); len(warnings) != 0 {
		t.Fatalf("group 1: got %d warnings, want 0", len(warnings))
	}

	e.PushFence()
	e.RecordRead("x", 1, source.Span{})
	if warnings := e.PopFence(); len(warnings) != 0 {
		t.Fatalf("group 2: got %d warnings, want 0", len(warnings))
	}
}

func TestFenceSameGroupReadOfOwnWriteConflicts(t *testing.T) {
	e := New(0)
	e.PushScope("main", []string{"x"}, nil, nil)
	defer e.PopScope()

	e.PushFence()
	e.RecordWrite("x", 0)
	e.RecordRead("x", 1, source.Span{Start: 10, End: 11})
	warnings := e.PopFence()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want exactly 1", len(warnings))
	}
	if !warnings[0].Warning {
		t.Errorf("diagnostic should be a warning")
	}
}

func TestFenceReadAtSameIndexAsWriteIsNotUB(t *testing.T) {
	// An instruction that both reads and writes (e.g. `x = x + 1`) logs the
	// read under its own instruction index; that index is also in the
	// write set, so it must not be flagged.
	e := New(0)
	e.PushScope("main", []string{"x"}, nil, nil)
	defer e.PopScope()

	e.PushFence()
	e.RecordRead("x", 0, source.Span{})
	e.RecordWrite("x", 0)
	if warnings := e.PopFence(); len(warnings) != 0 {
		t.Fatalf("got %d warnings, want 0", len(warnings))
	}
}
