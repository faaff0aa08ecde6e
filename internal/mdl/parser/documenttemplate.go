package parser

import (
	"markdownlang/internal/mdl/document"
	"markdownlang/internal/mdl/instruction"
)

// TemplateFromInlines builds a TemplateString out of already-lowered body
// content (document.InlineNode), for §4.6's document-evaluation rule that a
// Strong run's Text children may themselves contain `{expr}`
// interpolation. This reuses the same `{...}` scanner the structural
// parser uses for instruction-position templates (splitLiteralForInterpolation),
// since body content can embed the identical interpolation syntax.
func TemplateFromInlines(inlines []document.InlineNode) instruction.TemplateString {
	var parts []instruction.TemplatePart
	for _, in := range inlines {
		switch n := in.(type) {
		case document.Text:
			parts = append(parts, splitLiteralForInterpolation(n.Value, 0)...)
		case document.CodeSpan:
			parts = append(parts, instruction.LiteralPart{Value: n.Value})
		case document.SoftBreak, document.HardBreak:
			parts = append(parts, instruction.LiteralPart{Value: " "})
		case document.Strong:
			inner := TemplateFromInlines(n.Inlines)
			parts = append(parts, inner.Parts...)
		case document.Emphasis:
			inner := TemplateFromInlines(n.Inlines)
			parts = append(parts, inner.Parts...)
		}
	}
	return instruction.TemplateString{Parts: parts}
}
