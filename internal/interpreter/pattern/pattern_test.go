package pattern

import (
	"testing"

	"markdownlang/internal/interpreter/runtimevalue"
	"markdownlang/internal/mdl/instruction"
)

func TestMatchLiterals(t *testing.T) {
	tests := []struct {
		name string
		pat  instruction.Pattern
		v    runtimevalue.Value
		want bool
	}{
		{"number match", instruction.NumberPattern{Value: 3}, runtimevalue.Number(3), true},
		{"number mismatch", instruction.NumberPattern{Value: 3}, runtimevalue.Number(4), false},
		{"string match", instruction.StringPattern{Value: "hi"}, runtimevalue.String("hi"), true},
		{"bool match", instruction.BoolPattern{Value: true}, runtimevalue.Boolean(true), true},
		{"unit match", instruction.UnitPattern{}, runtimevalue.Unit(), true},
		{"unit mismatch kind", instruction.UnitPattern{}, runtimevalue.Number(0), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, ok := Match(test.pat, test.v)
			if ok != test.want {
				t.Errorf("Match() = %v, want %v", ok, test.want)
			}
		})
	}
}

func TestMatchWildcardAlwaysSucceeds(t *testing.T) {
	_, ok := Match(instruction.WildcardPattern{}, runtimevalue.String("anything"))
	if !ok {
		t.Errorf("wildcard should always match")
	}
}

func TestMatchBindingProducesBinding(t *testing.T) {
	binds, ok := Match(instruction.BindingPattern{Name: "x"}, runtimevalue.Number(7))
	if !ok {
		t.Fatalf("binding pattern should always match")
	}
	if len(binds) != 1 || binds[0].Name != "x" || binds[0].Value.Number != 7 {
		t.Errorf("unexpected bindings: %+v", binds)
	}
}

func TestMatchAlternationKeepsFirstMatchingBindings(t *testing.T) {
	pat := instruction.AlternationPattern{Alternatives: []instruction.Pattern{
		instruction.NumberPattern{Value: 1},
		instruction.BindingPattern{Name: "caught"},
	}}
	binds, ok := Match(pat, runtimevalue.Number(2))
	if !ok {
		t.Fatalf("second alternative should match")
	}
	if len(binds) != 1 || binds[0].Name != "caught" {
		t.Errorf("expected binding from second alternative, got %+v", binds)
	}
}

func TestMatchStrikethroughWithoutInner(t *testing.T) {
	_, ok := Match(instruction.StrikethroughPattern{}, runtimevalue.StrikethroughEager(runtimevalue.Number(1)))
	if !ok {
		t.Errorf("bare strikethrough pattern should match any Strikethrough value")
	}
	_, ok = Match(instruction.StrikethroughPattern{}, runtimevalue.Number(1))
	if ok {
		t.Errorf("strikethrough pattern should not match a non-Strikethrough value")
	}
}

func TestMatchStrikethroughRecursesIntoEagerPayload(t *testing.T) {
	pat := instruction.StrikethroughPattern{Inner: instruction.NumberPattern{Value: 9}, HasInner: true}
	binds, ok := Match(pat, runtimevalue.StrikethroughEager(runtimevalue.Number(9)))
	if !ok || len(binds) != 0 {
		t.Errorf("expected inner match with no bindings, got ok=%v binds=%+v", ok, binds)
	}
}

func TestMatchStrikethroughLazyTreatedAsUnit(t *testing.T) {
	pat := instruction.StrikethroughPattern{Inner: instruction.UnitPattern{}, HasInner: true}
	lazy := runtimevalue.StrikethroughLazy(nil)
	_, ok := Match(pat, lazy)
	if !ok {
		t.Errorf("lazy payload should match an inner Unit pattern")
	}
}
