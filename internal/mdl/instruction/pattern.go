package instruction

// Pattern is the closed tagged union of match-arm patterns (§4.2 "Match
// arms", §4.7 "Pattern Matcher"). The compound/document-structural pattern
// is reserved per Open Question 2: the type exists and the
// matcher (C9) accepts it, but the expression parser has no surface syntax
// for it beyond what's listed here.
type Pattern interface {
	pattern()
}

// NumberPattern matches a Number value within epsilon.
type NumberPattern struct{ Value float64 }

func (NumberPattern) pattern() {}

// StringPattern matches a String value exactly.
type StringPattern struct{ Value string }

func (StringPattern) pattern() {}

// BoolPattern matches a Boolean value exactly.
type BoolPattern struct{ Value bool }

func (BoolPattern) pattern() {}

// UnitPattern matches the Unit value.
type UnitPattern struct{}

func (UnitPattern) pattern() {}

// WildcardPattern (`_`) always matches, binding nothing.
type WildcardPattern struct{}

func (WildcardPattern) pattern() {}

// BindingPattern matches anything and binds it to Name in the current
// scope.
type BindingPattern struct{ Name string }

func (BindingPattern) pattern() {}

// StrikethroughPattern matches only a Strikethrough runtime value; if Inner
// is present it additionally matches the payload (eager payloads recurse,
// lazy/template payloads are treated as Unit — §4.7).
type StrikethroughPattern struct {
	Inner    Pattern
	HasInner bool
}

func (StrikethroughPattern) pattern() {}

// AlternationPattern (`a | b | c`) matches if any alternative matches, in
// order, keeping that alternative's bindings.
type AlternationPattern struct {
	Alternatives []Pattern
}

func (AlternationPattern) pattern() {}

// CompoundPattern reserves positional matching against a Document's block
// nodes (Open Question 2). Matching treats each element positionally
// against the corresponding Document block.
type CompoundPattern struct {
	Elements []Pattern
}

func (CompoundPattern) pattern() {}
