package parser

import (
	"markdownlang/internal/mdl/instruction"
	"markdownlang/internal/mdl/source"
)

// tokenKind enumerates every token the C4 tokenizer can produce, including
// the compound tokens inline Markdown collapses into (§4.2).
type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokIdent
	tokKeywordMatch
	tokKeywordTrue
	tokKeywordFalse
	tokKeywordOtherwise
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokEq
	tokEqEq
	tokNeq
	tokGt
	tokLt
	tokGte
	tokLte
	tokAndAnd
	tokOrOr
	tokBang
	tokQuestion
	tokColon
	tokComma
	tokUnderscore
	tokPipe
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokHash
	tokArgRef
	tokSpreadRef
	tokBold
	tokStrike
	tokLink
	tokImage
	tokMatchArms
	tokEOF
)

// rawArm is one raw (unsplit) arm of a nested match-arms unordered list,
// before its tokens are divided into pattern/result at the first top-level
// colon (§4.2 "An unordered list nested in an item").
type rawArm struct {
	Tokens []token
	Sp     source.Span
}

// token is a single tokenizer output. Only the fields relevant to Kind are
// populated; this mirrors a tagged union via a flat struct, which is the
// idiomatic shape for a hand-written tokenizer's token type.
type token struct {
	Kind tokenKind
	Sp   source.Span

	Num      float64
	Str      string
	Ident    string
	ArgIndex int

	Template instruction.TemplateString // tokBold, tokStrike

	LinkText []token // tokLink, tokImage: the link/image text sub-token-stream
	LinkDest string   // tokLink, tokImage

	Arms []rawArm // tokMatchArms
}
