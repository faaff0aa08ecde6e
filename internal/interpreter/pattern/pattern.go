// Package pattern implements C9: matching a match-arm Pattern against a
// runtime Value and, on success, producing the bindings to install in the
// current scope (§4.2 "Match arms", §4.7 "Pattern Matcher").
package pattern

import (
	"math"

	"markdownlang/internal/interpreter/runtimevalue"
	"markdownlang/internal/mdl/document"
	"markdownlang/internal/mdl/instruction"
)

const epsilon = 1e-9

// Binding is one name bound by a successful match.
type Binding struct {
	Name  string
	Value runtimevalue.Value
}

// Match reports whether p matches v, and if so the bindings it produces.
// Alternation tries each alternative in order and keeps the first match's
// bindings; a wildcard or plain binding pattern always succeeds.
func Match(p instruction.Pattern, v runtimevalue.Value) ([]Binding, bool) {
	switch pat := p.(type) {
	case instruction.NumberPattern:
		return nil, v.Kind == runtimevalue.KindNumber && math.Abs(v.Number-pat.Value) < epsilon
	case instruction.StringPattern:
		return nil, v.Kind == runtimevalue.KindString && v.String == pat.Value
	case instruction.BoolPattern:
		return nil, v.Kind == runtimevalue.KindBoolean && v.Boolean == pat.Value
	case instruction.UnitPattern:
		return nil, v.Kind == runtimevalue.KindUnit
	case instruction.WildcardPattern:
		return nil, true
	case instruction.BindingPattern:
		return []Binding{{Name: pat.Name, Value: v}}, true
	case instruction.StrikethroughPattern:
		return matchStrikethrough(pat, v)
	case instruction.AlternationPattern:
		for _, alt := range pat.Alternatives {
			if binds, ok := Match(alt, v); ok {
				return binds, true
			}
		}
		return nil, false
	case instruction.CompoundPattern:
		return matchCompound(pat, v)
	default:
		return nil, false
	}
}

func matchStrikethrough(pat instruction.StrikethroughPattern, v runtimevalue.Value) ([]Binding, bool) {
	if v.Kind != runtimevalue.KindStrikethrough {
		return nil, false
	}
	if !pat.HasInner {
		return nil, true
	}
	switch v.Payload.Kind {
	case runtimevalue.PayloadEager:
		return Match(pat.Inner, v.Payload.Eager)
	default:
		// Lazy/template payloads aren't evaluated by the matcher itself —
		// callers that need the payload's demanded value must demand it
		// before calling Match. Treated as Unit here per §4.7.
		return Match(pat.Inner, runtimevalue.Unit())
	}
}

// matchCompound reserves positional matching of a pattern list against a
// Document's top-level blocks (Open Question 2): each element
// matches the corresponding block, auto-unwrapped the same way a
// chain-less block invocation is (§4.5) — a lone paragraph of text compares
// as a String (never a Number), a lone table as a Table value; anything else
// only matches a wildcard or binding element.
func matchCompound(pat instruction.CompoundPattern, v runtimevalue.Value) ([]Binding, bool) {
	if v.Kind != runtimevalue.KindDocument {
		return nil, false
	}
	blocks := v.Document.Blocks
	if len(blocks) != len(pat.Elements) {
		return nil, false
	}
	var all []Binding
	for i, elem := range pat.Elements {
		sub := document.Document{Blocks: []document.BlockNode{blocks[i]}}
		elemValue := unwrapBlock(sub)
		binds, ok := Match(elem, elemValue)
		if !ok {
			return nil, false
		}
		all = append(all, binds...)
	}
	return all, true
}

func unwrapBlock(sub document.Document) runtimevalue.Value {
	if text, ok := sub.SingleParagraphText(); ok {
		return runtimevalue.String(text)
	}
	if tbl, ok := sub.SingleTable(); ok {
		return runtimevalue.TableValue(toRuntimeTable(tbl))
	}
	return runtimevalue.Doc(sub)
}

func toRuntimeTable(t document.Table) runtimevalue.Table {
	headers := make([]string, len(t.Header))
	for i, c := range t.Header {
		headers[i] = renderCell(c)
	}
	rows := make([][]runtimevalue.Value, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]runtimevalue.Value, len(row))
		for c, cell := range row {
			if n, _, ok := document.CellNumberOrString(cell); ok {
				cells[c] = runtimevalue.Number(n)
			} else {
				cells[c] = runtimevalue.String(renderCell(cell))
			}
		}
		rows[r] = cells
	}
	return runtimevalue.Table{Headers: headers, Rows: rows}
}

func renderCell(c document.TableCell) string {
	_, s, _ := document.CellNumberOrString(c)
	return s
}
