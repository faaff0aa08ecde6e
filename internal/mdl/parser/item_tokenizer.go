package parser

import (
	"strings"

	"github.com/gomarkdown/markdown/ast"

	"markdownlang/internal/mdl/instruction"
	"markdownlang/internal/mdl/source"
)

// tokenizeItem turns one instruction-chain list item's inline event
// substream into the flat token stream §4.2 describes, walking the
// gomarkdown inline AST the same way a pulldown-cmark event consumer would
// walk Start/End events.
func tokenizeItem(item *ast.ListItem, sp *spanner) []token {
	var out []token
	for _, child := range item.Children {
		switch n := child.(type) {
		case *ast.Paragraph:
			out = append(out, tokenizeInlines(n.Children, sp)...)
		case *ast.List:
			out = append(out, tokenizeMatchArms(n, sp))
		default:
			out = append(out, tokenizeInlines(child.GetChildren(), sp)...)
		}
	}
	return mergeTokens(out)
}

// tokenizeInlines walks a sequence of inline AST nodes, producing either
// raw character tokens (for Text) or compound tokens (Bold/Strike/Link/
// Image) per §4.2.
func tokenizeInlines(nodes []ast.Node, sp *spanner) []token {
	var out []token
	for _, n := range nodes {
		switch v := n.(type) {
		case *ast.Text:
			lit := string(v.Literal)
			start, _ := sp.find(lit)
			out = append(out, tokenizeChars(lit, start.Start)...)
		case *ast.Code:
			lit := string(v.Literal)
			start, _ := sp.find(lit)
			out = append(out, tokenizeChars(lit, start.Start)...)
		case *ast.Softbreak, *ast.Hardbreak:
			// whitespace-equivalent at instruction scope; contributes no token
		case *ast.Strong:
			begin := sp.cursor
			tmpl := buildTemplate(v.Children, sp)
			out = append(out, token{Kind: tokBold, Template: tmpl, Sp: source.Span{Start: begin, End: sp.cursor}})
		case *ast.Del:
			begin := sp.cursor
			tmpl := buildTemplate(v.Children, sp)
			out = append(out, token{Kind: tokStrike, Template: tmpl, Sp: source.Span{Start: begin, End: sp.cursor}})
		case *ast.Emph:
			// Emphasis carries no language meaning; recurse through it as if
			// transparent.
			out = append(out, tokenizeInlines(v.Children, sp)...)
		case *ast.Link:
			begin := sp.cursor
			text := tokenizeInlines(v.Children, sp)
			out = append(out, token{Kind: tokLink, LinkText: text, LinkDest: string(v.Destination), Sp: source.Span{Start: begin, End: sp.cursor}})
		case *ast.Image:
			begin := sp.cursor
			text := tokenizeInlines(v.Children, sp)
			out = append(out, token{Kind: tokImage, LinkText: text, LinkDest: string(v.Destination), Sp: source.Span{Start: begin, End: sp.cursor}})
		default:
			out = append(out, tokenizeInlines(n.GetChildren(), sp)...)
		}
	}
	return out
}

// buildTemplate implements §4.2's template-capture rule for Bold/Strike
// content: nested text, code spans, soft/hard breaks, links (block
// invocation parts), images (evaluated-block-invocation parts), and
// `{expr}` interpolations parsed recursively.
func buildTemplate(nodes []ast.Node, sp *spanner) instruction.TemplateString {
	var parts []instruction.TemplatePart
	openBraces := 0
	for _, n := range nodes {
		switch v := n.(type) {
		case *ast.Text:
			lit := string(v.Literal)
			pos, _ := sp.find(lit)
			start := pos.Start
			// A `{` ending one text run and a `}` opening a later one wrap the
			// inline nodes between them (as in `{[5](#F)}`); those nodes are
			// template parts already, so both braces are dropped.
			if openBraces > 0 && strings.HasPrefix(lit, "}") {
				lit, start, openBraces = lit[1:], start+1, openBraces-1
			}
			if strings.HasSuffix(lit, "{") {
				lit, openBraces = lit[:len(lit)-1], openBraces+1
			}
			parts = append(parts, splitLiteralForInterpolation(lit, start)...)
		case *ast.Code:
			lit := string(v.Literal)
			sp.find(lit)
			parts = append(parts, instruction.LiteralPart{Value: lit})
		case *ast.Softbreak:
			parts = append(parts, instruction.LiteralPart{Value: " "})
		case *ast.Hardbreak:
			parts = append(parts, instruction.LiteralPart{Value: "\n"})
		case *ast.Link:
			begin := sp.cursor
			text := tokenizeInlines(v.Children, sp)
			ref := parseBlockRefString(string(v.Destination))
			args := splitArgs(text)
			expr := instruction.BlockInvocation{Args: args, Ref: ref, Sp: source.Span{Start: begin, End: sp.cursor}}
			parts = append(parts, instruction.ExprPart{Expr: expr})
		case *ast.Image:
			begin := sp.cursor
			text := tokenizeInlines(v.Children, sp)
			ref := parseBlockRefString(string(v.Destination))
			args := splitArgs(text)
			expr := instruction.EvaluatedBlockInvocation{Args: args, Ref: ref, Sp: source.Span{Start: begin, End: sp.cursor}}
			parts = append(parts, instruction.ExprPart{Expr: expr})
		case *ast.Strong:
			inner := buildTemplate(v.Children, sp)
			parts = append(parts, inner.Parts...)
		case *ast.Emph:
			inner := buildTemplate(v.Children, sp)
			parts = append(parts, inner.Parts...)
		default:
			inner := buildTemplate(n.GetChildren(), sp)
			parts = append(parts, inner.Parts...)
		}
	}
	return instruction.TemplateString{Parts: parts}
}

// splitLiteralForInterpolation scans a literal text run for `{...}` spans
// and recursively parses their contents as expressions, interleaving
// literal fragments with the resulting ExprParts — §4.2's
// "`{expr}` interpolations parsed recursively" inside a template.
func splitLiteralForInterpolation(lit string, offset int) []instruction.TemplatePart {
	var parts []instruction.TemplatePart
	i := 0
	for i < len(lit) {
		open := strings.IndexByte(lit[i:], '{')
		if open < 0 {
			if i < len(lit) {
				parts = append(parts, instruction.LiteralPart{Value: lit[i:]})
			}
			break
		}
		open += i
		if open > i {
			parts = append(parts, instruction.LiteralPart{Value: lit[i:open]})
		}
		depth := 1
		j := open + 1
		for j < len(lit) && depth > 0 {
			switch lit[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				break
			}
			j++
		}
		inner := lit[open+1 : j]
		expr, _ := parseExprFromString(inner, offset+open+1)
		if expr != nil {
			parts = append(parts, instruction.ExprPart{Expr: expr})
		}
		if j < len(lit) {
			i = j + 1
		} else {
			i = j
		}
	}
	return parts
}

// tokenizeMatchArms turns a bullet list nested inside an instruction-chain
// item into a tokMatchArms compound token, splitting each arm at its first
// top-level colon into pattern/result token groups (§4.2).
func tokenizeMatchArms(list *ast.List, sp *spanner) token {
	begin := sp.cursor
	var arms []rawArm
	for _, child := range list.Children {
		li, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		armBegin := sp.cursor
		var toks []token
		for _, c := range li.Children {
			if p, ok := c.(*ast.Paragraph); ok {
				toks = append(toks, tokenizeInlines(p.Children, sp)...)
			} else {
				toks = append(toks, tokenizeInlines(c.GetChildren(), sp)...)
			}
		}
		toks = mergeTokens(toks)
		arms = append(arms, rawArm{Tokens: toks, Sp: source.Span{Start: armBegin, End: sp.cursor}})
	}
	return token{Kind: tokMatchArms, Arms: arms, Sp: source.Span{Start: begin, End: sp.cursor}}
}

// splitArgs splits a link/image's text token stream on top-level commas
// into per-argument expressions (§4.2 "Arguments").
func splitArgs(toks []token) []instruction.Expr {
	toks = mergeTokens(toks)
	if len(toks) == 0 {
		return nil
	}
	var args []instruction.Expr
	var group []token
	depth := 0
	flush := func() {
		if len(group) == 0 {
			return
		}
		p := newExprParser(group)
		args = append(args, p.parseExpr(0))
		group = nil
	}
	for _, t := range toks {
		switch t.Kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		case tokComma:
			if depth == 0 {
				flush()
				continue
			}
		}
		group = append(group, t)
	}
	flush()
	return args
}
