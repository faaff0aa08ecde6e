// Package source holds the tiny shared vocabulary — byte spans and file
// ids — that every later stage (parser, AST, diagnostics) tags its nodes
// with. Keeping it separate avoids an import cycle between the AST packages
// and the parser that builds them.
package source

// Span is a half-open byte range [Start, End) into the originating source
// text, as recovered by the structural/expression parsers' raw-source
// scanning (see internal/mdl/parser/spanner.go).
type Span struct {
	Start int
	End   int
}

// Zero reports whether the span was never set (both parser stages always
// attempt to fill a real span, but defensive callers can check this).
func (s Span) Zero() bool {
	return s.Start == 0 && s.End == 0
}

// FileID is an opaque source identifier threaded through Program, diagnostics
// and imports; the executor assigns a fresh one per imported module.
type FileID int
