package parser

import (
	"strings"

	"markdownlang/internal/mdl/source"
)

// spanner recovers byte spans for gomarkdown AST nodes, which (unlike
// pulldown-cmark's range-stamped events) carry none. It holds a
// monotonically-advancing cursor into the raw source and locates the next
// occurrence of a node's text via a forward strings.Index search, exactly
// generalizing §4.1's "scan backward/forward through the raw
// source around the item's byte offset" trick from ordered-list markers to
// every node the parsers need a span for.
type spanner struct {
	src    string
	cursor int
}

func newSpanner(src string) *spanner {
	return &spanner{src: src}
}

// find advances the cursor to the first occurrence of needle at or after
// the current cursor and returns its span, or (zero, false) if absent in
// the remainder of the source.
func (s *spanner) find(needle string) (source.Span, bool) {
	if needle == "" {
		return source.Span{Start: s.cursor, End: s.cursor}, true
	}
	idx := strings.Index(s.src[s.cursor:], needle)
	if idx < 0 {
		return source.Span{}, false
	}
	start := s.cursor + idx
	end := start + len(needle)
	s.cursor = end
	return source.Span{Start: start, End: end}, true
}

// peek behaves like find but does not advance the cursor, for lookahead
// that must not consume source position (e.g. probing whether a heading
// marker follows before committing to close builders).
func (s *spanner) peek(needle string) (source.Span, bool) {
	if needle == "" {
		return source.Span{Start: s.cursor, End: s.cursor}, true
	}
	idx := strings.Index(s.src[s.cursor:], needle)
	if idx < 0 {
		return source.Span{}, false
	}
	start := s.cursor + idx
	return source.Span{Start: start, End: start + len(needle)}, true
}

// here returns a zero-width span at the current cursor, used when a node
// has no recoverable text of its own (e.g. a HorizontalRule).
func (s *spanner) here() source.Span {
	return source.Span{Start: s.cursor, End: s.cursor}
}

// advanceTo moves the cursor forward to pos without consuming anything,
// used after a caller manually locates a span via raw indexing (e.g. the
// ordered-list marker-index recovery, which must scan backward from an
// item's offset past the cursor).
func (s *spanner) advanceTo(pos int) {
	if pos > s.cursor {
		s.cursor = pos
	}
}

// lineStart returns the offset of the start of the line containing pos.
func (s *spanner) lineStart(pos int) int {
	if pos > len(s.src) {
		pos = len(s.src)
	}
	idx := strings.LastIndexByte(s.src[:pos], '\n')
	if idx < 0 {
		return 0
	}
	return idx + 1
}

// lineEnd returns the offset just past the end of the line containing pos
// (exclusive of the trailing newline, or len(src) at EOF).
func (s *spanner) lineEnd(pos int) int {
	idx := strings.IndexByte(s.src[pos:], '\n')
	if idx < 0 {
		return len(s.src)
	}
	return pos + idx
}
