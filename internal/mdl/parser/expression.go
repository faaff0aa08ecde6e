package parser

import (
	"strings"

	"markdownlang/internal/mdl/instruction"
	"markdownlang/internal/mdl/source"
)

// exprParser is a Pratt parser over a flat token slice, implementing the
// binding-power table of §4.2:
//
//	conditional ?:        2 (right-assoc)
//	logical-or             4/5
//	logical-and            6/7
//	equality == !=         8/9
//	comparison < > <= >=  10/11
//	additive               12/13
//	multiplicative         14/15
//	unary ! -              16
type exprParser struct {
	toks []token
	pos  int
	errs []ParseError
}

func newExprParser(toks []token) *exprParser {
	return &exprParser{toks: toks}
}

func (p *exprParser) peek() token {
	if p.pos >= len(p.toks) {
		if len(p.toks) > 0 {
			return token{Kind: tokEOF, Sp: source.Span{Start: p.toks[len(p.toks)-1].Sp.End, End: p.toks[len(p.toks)-1].Sp.End}}
		}
		return token{Kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *exprParser) advance() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *exprParser) expect(k tokenKind) (token, bool) {
	if p.peek().Kind == k {
		return p.advance(), true
	}
	return token{}, false
}

// binaryInfo returns the BinaryOp and (leftBP, rightBP) binding powers for a
// token kind that acts as a binary operator, or ok=false otherwise.
func binaryInfo(k tokenKind) (op instruction.BinaryOp, lbp, rbp int, ok bool) {
	switch k {
	case tokOrOr:
		return instruction.Or, 4, 5, true
	case tokAndAnd:
		return instruction.And, 6, 7, true
	case tokEqEq:
		return instruction.Eq, 8, 9, true
	case tokNeq:
		return instruction.Neq, 8, 9, true
	case tokGt:
		return instruction.Gt, 10, 11, true
	case tokLt:
		return instruction.Lt, 10, 11, true
	case tokGte:
		return instruction.Gte, 10, 11, true
	case tokLte:
		return instruction.Lte, 10, 11, true
	case tokPlus:
		return instruction.Add, 12, 13, true
	case tokMinus:
		return instruction.Sub, 12, 13, true
	case tokStar:
		return instruction.Mul, 14, 15, true
	case tokSlash:
		return instruction.Div, 14, 15, true
	case tokPercent:
		return instruction.Mod, 14, 15, true
	}
	return 0, 0, 0, false
}

const condBP = 2
const unaryBP = 16

// parseExpr parses an expression with operators binding at or above minBP.
func (p *exprParser) parseExpr(minBP int) instruction.Expr {
	left := p.parsePrefix()
	for {
		t := p.peek()
		if t.Kind == tokQuestion && condBP >= minBP {
			left = p.parseConditional(left)
			continue
		}
		op, lbp, rbp, ok := binaryInfo(t.Kind)
		if !ok || lbp < minBP {
			break
		}
		p.advance()
		right := p.parseExpr(rbp)
		left = instruction.BinaryExpr{Op: op, Left: left, Right: right, Sp: spanUnion(left.Span(), right.Span())}
	}
	return left
}

func (p *exprParser) parseConditional(cond instruction.Expr) instruction.Expr {
	p.advance() // consume '?'
	trueBranch := p.parseExpr(condBP + 1)
	if _, ok := p.expect(tokColon); ok {
		falseBranch := p.parseExpr(condBP)
		return instruction.Conditional{Cond: cond, TrueBranch: trueBranch, FalseBranch: falseBranch, Sp: spanUnion(cond.Span(), falseBranch.Span())}
	}
	return instruction.Conditional{Cond: cond, TrueBranch: trueBranch, FalseBranch: nil, Sp: spanUnion(cond.Span(), trueBranch.Span())}
}

func (p *exprParser) parsePrefix() instruction.Expr {
	t := p.peek()
	switch t.Kind {
	case tokMinus:
		p.advance()
		operand := p.parseExpr(unaryBP)
		return instruction.UnaryExpr{Op: instruction.Neg, Operand: operand, Sp: spanUnion(t.Sp, operand.Span())}
	case tokBang:
		p.advance()
		operand := p.parseExpr(unaryBP)
		return instruction.UnaryExpr{Op: instruction.Not, Operand: operand, Sp: spanUnion(t.Sp, operand.Span())}
	case tokNumber:
		p.advance()
		return instruction.NumberLit{Value: t.Num, Sp: t.Sp}
	case tokString:
		p.advance()
		return instruction.StringLit{Value: t.Str, Sp: t.Sp}
	case tokKeywordTrue:
		p.advance()
		return instruction.BoolLit{Value: true, Sp: t.Sp}
	case tokKeywordFalse:
		p.advance()
		return instruction.BoolLit{Value: false, Sp: t.Sp}
	case tokUnderscore:
		p.advance()
		return instruction.UnitLit{Sp: t.Sp}
	case tokIdent:
		p.advance()
		return instruction.VarRef{Name: t.Ident, Sp: t.Sp}
	case tokArgRef:
		p.advance()
		return instruction.ArgRef{Index: t.ArgIndex, Sp: t.Sp}
	case tokSpreadRef:
		p.advance()
		return instruction.SpreadRef{Sp: t.Sp}
	case tokLParen:
		p.advance()
		inner := p.parseExpr(0)
		end := t.Sp
		if close, ok := p.expect(tokRParen); ok {
			end = close.Sp
		}
		return withSpan(inner, spanUnion(t.Sp, end))
	case tokLBrace:
		p.advance()
		inner := p.parseExpr(0)
		end := t.Sp
		if close, ok := p.expect(tokRBrace); ok {
			end = close.Sp
		}
		sp := spanUnion(t.Sp, end)
		return instruction.Interpolation{Template: instruction.TemplateString{Parts: []instruction.TemplatePart{instruction.ExprPart{Expr: inner}}}, Sp: sp}
	case tokBold:
		p.advance()
		return instruction.Print{Template: t.Template, Sp: t.Sp}
	case tokStrike:
		p.advance()
		return instruction.StrikethroughExpr{Template: t.Template, Sp: t.Sp}
	case tokLink:
		p.advance()
		args := splitArgs(t.LinkText)
		ref := parseBlockRefString(t.LinkDest)
		return instruction.BlockInvocation{Args: args, Ref: ref, Sp: t.Sp}
	case tokImage:
		p.advance()
		args := splitArgs(t.LinkText)
		ref := parseBlockRefString(t.LinkDest)
		return instruction.EvaluatedBlockInvocation{Args: args, Ref: ref, Sp: t.Sp}
	case tokKeywordMatch:
		p.advance()
		return p.parseMatch(t)
	default:
		p.advance()
		return instruction.UnitLit{Sp: t.Sp}
	}
}

func (p *exprParser) parseMatch(matchTok token) instruction.Expr {
	scrutinee := p.parseExpr(condBP + 1)
	armsTok, ok := p.expect(tokMatchArms)
	if !ok {
		return instruction.MatchExpr{Scrutinee: scrutinee, Sp: spanUnion(matchTok.Sp, scrutinee.Span())}
	}
	var arms []instruction.MatchArm
	var otherwise *instruction.OtherwiseClause
	for _, arm := range armsTok.Arms {
		pat, result := splitArmTokens(arm.Tokens)
		if len(pat) > 0 && pat[0].Kind == tokKeywordOtherwise {
			binding := ""
			hasBinding := false
			if len(pat) > 1 && pat[1].Kind == tokIdent {
				binding = pat[1].Ident
				hasBinding = true
			}
			resultExpr := newExprParser(result).parseExpr(0)
			otherwise = &instruction.OtherwiseClause{Binding: binding, HasBinding: hasBinding, Result: resultExpr}
			continue
		}
		pattern := parsePattern(pat)
		resultExpr := newExprParser(result).parseExpr(0)
		arms = append(arms, instruction.MatchArm{Pattern: pattern, Result: resultExpr})
	}
	return instruction.MatchExpr{Scrutinee: scrutinee, Arms: arms, Otherwise: otherwise, Sp: spanUnion(matchTok.Sp, armsTok.Sp)}
}

// splitArmTokens splits an arm's token stream at the first top-level colon
// into (pattern tokens, result tokens) — §4.2's per-arm split rule.
func splitArmTokens(toks []token) (pattern, result []token) {
	depth := 0
	for i, t := range toks {
		switch t.Kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		case tokColon:
			if depth == 0 {
				return toks[:i], toks[i+1:]
			}
		}
	}
	return toks, nil
}

// parsePattern parses a match arm's pattern token group, handling top-level
// `|` alternation and the literal/wildcard/binding forms of §4.2.
func parsePattern(toks []token) instruction.Pattern {
	groups := splitOnTopLevelPipe(toks)
	if len(groups) > 1 {
		var alts []instruction.Pattern
		for _, g := range groups {
			alts = append(alts, parseSinglePattern(g))
		}
		return instruction.AlternationPattern{Alternatives: alts}
	}
	return parseSinglePattern(toks)
}

func splitOnTopLevelPipe(toks []token) [][]token {
	var groups [][]token
	var cur []token
	depth := 0
	for _, t := range toks {
		switch t.Kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		case tokPipe:
			if depth == 0 {
				groups = append(groups, cur)
				cur = nil
				continue
			}
		}
		cur = append(cur, t)
	}
	groups = append(groups, cur)
	return groups
}

func parseSinglePattern(toks []token) instruction.Pattern {
	if len(toks) == 0 {
		return instruction.WildcardPattern{}
	}
	t := toks[0]
	switch t.Kind {
	case tokUnderscore:
		return instruction.WildcardPattern{}
	case tokNumber:
		return instruction.NumberPattern{Value: t.Num}
	case tokString:
		return instruction.StringPattern{Value: t.Str}
	case tokKeywordTrue:
		return instruction.BoolPattern{Value: true}
	case tokKeywordFalse:
		return instruction.BoolPattern{Value: false}
	case tokIdent:
		return instruction.BindingPattern{Name: t.Ident}
	case tokStrike:
		if len(t.Template.Parts) == 0 {
			return instruction.StrikethroughPattern{}
		}
		return instruction.StrikethroughPattern{HasInner: true, Inner: instruction.WildcardPattern{}}
	default:
		return instruction.UnitPattern{}
	}
}

// ParseBlockRefString is the exported form of parseBlockRefString, for
// callers outside this package that need to resolve a raw link/image
// destination (e.g. the executor's document-evaluation inline handling)
// the same way block invocation's own `(ref)` text is resolved.
func ParseBlockRefString(dest string) instruction.BlockReference {
	return parseBlockRefString(dest)
}

// parseBlockRefString implements §4.2 "Block references": `#name` -> Local,
// `path#name` -> RemoteImport if path starts with http(s)://, else
// LocalImport; a bare `name` (no `#`) also denotes Local.
func parseBlockRefString(dest string) instruction.BlockReference {
	idx := strings.IndexByte(dest, '#')
	if idx < 0 {
		return instruction.Local{Name: dest}
	}
	path := dest[:idx]
	name := dest[idx+1:]
	if path == "" {
		return instruction.Local{Name: name}
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return instruction.RemoteImport{URL: path, Block: name}
	}
	return instruction.LocalImport{Path: path, Block: name}
}

func spanUnion(a, b source.Span) source.Span {
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return source.Span{Start: start, End: end}
}

// withSpan rewraps an expression with a new span, used for parenthesized
// groups so the reported span covers the parentheses themselves.
func withSpan(e instruction.Expr, sp source.Span) instruction.Expr {
	switch n := e.(type) {
	case instruction.NumberLit:
		n.Sp = sp
		return n
	case instruction.StringLit:
		n.Sp = sp
		return n
	case instruction.BoolLit:
		n.Sp = sp
		return n
	case instruction.UnitLit:
		n.Sp = sp
		return n
	case instruction.VarRef:
		n.Sp = sp
		return n
	case instruction.ArgRef:
		n.Sp = sp
		return n
	case instruction.SpreadRef:
		n.Sp = sp
		return n
	case instruction.BlockInvocation:
		n.Sp = sp
		return n
	case instruction.EvaluatedBlockInvocation:
		n.Sp = sp
		return n
	case instruction.Print:
		n.Sp = sp
		return n
	case instruction.Interpolation:
		n.Sp = sp
		return n
	case instruction.StrikethroughExpr:
		n.Sp = sp
		return n
	case instruction.UnaryExpr:
		n.Sp = sp
		return n
	case instruction.BinaryExpr:
		n.Sp = sp
		return n
	case instruction.Conditional:
		n.Sp = sp
		return n
	case instruction.MatchExpr:
		n.Sp = sp
		return n
	default:
		return e
	}
}

// parseExprFromString tokenizes and parses a raw string (the contents of a
// `{...}` interpolation span) directly, without going through the gomarkdown
// AST — used recursively by splitLiteralForInterpolation.
func parseExprFromString(s string, offset int) (instruction.Expr, []ParseError) {
	toks := tokenizeChars(s, offset)
	p := newExprParser(toks)
	if len(toks) == 0 {
		return instruction.UnitLit{Sp: source.Span{Start: offset, End: offset}}, nil
	}
	expr := p.parseExpr(0)
	return expr, p.errs
}

// parseInstruction recognizes the assignment form (`Ident, Eq, ...`) versus
// a bare expression (§4.2 "Instruction recognition").
func parseInstruction(toks []token, itemSpan source.Span) instruction.Instruction {
	toks = mergeTokens(toks)
	if len(toks) >= 2 && toks[0].Kind == tokIdent && toks[1].Kind == tokEq {
		p := newExprParser(toks[2:])
		expr := p.parseExpr(0)
		return instruction.Assignment{Name: toks[0].Ident, Expr: expr, Sp: itemSpan}
	}
	p := newExprParser(toks)
	expr := p.parseExpr(0)
	return instruction.ExpressionStmt{Expr: expr, Sp: itemSpan}
}
