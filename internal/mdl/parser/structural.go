package parser

import (
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"

	"markdownlang/internal/mdl/block"
	"markdownlang/internal/mdl/document"
	"markdownlang/internal/mdl/instruction"
	"markdownlang/internal/mdl/source"
)

// parserExtensions turns on explicit Tables and Strikethrough (needed by
// the Document/InlineNode model and `~~` tokenization) plus
// NoEmptyLineBeforeBlock (CommonMark is lenient about blank lines before a
// list; markdownlang programs are typically dense nested structures where
// that leniency matters), beyond bare CommonExtensions.
const parserExtensions = gmparser.CommonExtensions | gmparser.Tables | gmparser.Strikethrough | gmparser.NoEmptyLineBeforeBlock

// builder is a partially-built Block on the structural parser's stack
// (§4.1): a name, level, partial chain, partial body, partial children, and
// a span start, closed when a heading of equal-or-lesser level is seen or
// the stream ends.
type builder struct {
	name       string
	level      int
	groups     []instruction.FenceGroup
	bodyBlocks []document.BlockNode
	children   []*block.Block
	spanStart  int
}

func (b *builder) close(end int) *block.Block {
	return &block.Block{
		Name:     b.name,
		Level:    b.level,
		Chain:    instruction.Chain{Groups: b.groups},
		Children: b.children,
		Body:     document.Document{Blocks: b.bodyBlocks},
		Span:     source.Span{Start: b.spanStart, End: end},
	}
}

// Parse implements the §6 "Parse API": `parse(source, file_id) → Program |
// [ParseError]`.
func Parse(src string, fileID source.FileID) (*block.Program, []ParseError) {
	p := gmparser.NewWithExtensions(parserExtensions)
	root := p.Parse([]byte(src))

	var errs []ParseError
	sp := newSpanner(src)

	var stack []*builder
	var top []*block.Block

	closeDownTo := func(level int, end int) {
		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			blk := b.close(end)
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, blk)
			} else {
				top = append(top, blk)
			}
		}
	}

	for _, node := range root.GetChildren() {
		switch n := node.(type) {
		case *ast.Heading:
			text := headingText(n)
			name := normalizeWhitespace(text)
			start, found := sp.find(text)
			if !found {
				start = sp.here()
			}
			closeDownTo(n.Level, start.Start)
			if name == "" {
				errs = append(errs, newError(fileID, start, "heading must have non-empty text"))
			}
			stack = append(stack, &builder{name: name, level: n.Level, spanStart: start.Start})
		case *ast.List:
			if n.ListFlags&ast.ListTypeOrdered != 0 && len(stack) > 0 {
				cur := stack[len(stack)-1]
				groups, itemErrs := parseChain(n, sp, fileID)
				cur.groups = append(cur.groups, groups...)
				errs = append(errs, itemErrs...)
			} else if len(stack) > 0 {
				cur := stack[len(stack)-1]
				cur.bodyBlocks = append(cur.bodyBlocks, convertBlock(n))
			} else {
				errs = append(errs, newError(fileID, sp.here(), "list at top level with no enclosing block is ignored"))
			}
		default:
			if len(stack) > 0 {
				cur := stack[len(stack)-1]
				cur.bodyBlocks = append(cur.bodyBlocks, convertBlock(n))
			}
		}
	}
	closeDownTo(0, len(src))

	return &block.Program{Blocks: top, SourceID: fileID}, errs
}

// headingText concatenates a heading's text-only content (ignoring
// formatting) for the whitespace-normalization step.
func headingText(n ast.Node) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(node ast.Node) {
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Literal)
		case *ast.Code:
			sb.Write(v.Literal)
		default:
			for _, c := range node.GetChildren() {
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// parseChain implements §4.1's ordered-list-as-instruction-chain rule: per
// item, recover the literal marker index from raw source, tokenize+parse
// the item into an Instruction, and fuse consecutive equal indices into one
// FenceGroup.
func parseChain(list *ast.List, sp *spanner, fileID source.FileID) ([]instruction.FenceGroup, []ParseError) {
	var errs []ParseError
	var groups []instruction.FenceGroup
	for _, child := range list.Children {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		contentStart := firstLiteralOffset(item, sp)
		idx := recoverMarkerIndex(sp, contentStart)
		itemBegin := sp.cursor
		toks := tokenizeItem(item, sp)
		itemSpan := source.Span{Start: itemBegin, End: sp.cursor}
		if itemBegin == sp.cursor {
			itemSpan = source.Span{Start: contentStart, End: contentStart}
		}
		ins := parseInstruction(toks, itemSpan)

		if len(groups) > 0 && groups[len(groups)-1].Index == idx {
			groups[len(groups)-1].Instructions = append(groups[len(groups)-1].Instructions, ins)
		} else {
			groups = append(groups, instruction.FenceGroup{Index: idx, Instructions: []instruction.Instruction{ins}})
		}
	}
	return groups, errs
}

// firstLiteralOffset peeks (without consuming) the byte offset of the
// item's first recoverable literal text, used to locate the raw marker
// before the item's own tokenization advances the spanner cursor.
func firstLiteralOffset(n ast.Node, sp *spanner) int {
	var find func(ast.Node) (string, bool)
	find = func(node ast.Node) (string, bool) {
		switch v := node.(type) {
		case *ast.Text:
			if len(v.Literal) > 0 {
				return string(v.Literal), true
			}
		case *ast.Code:
			if len(v.Literal) > 0 {
				return string(v.Literal), true
			}
		}
		for _, c := range node.GetChildren() {
			if s, ok := find(c); ok {
				return s, ok
			}
		}
		return "", false
	}
	if lit, ok := find(n); ok {
		if span, found := sp.peek(lit); found {
			return span.Start
		}
	}
	return sp.cursor
}

// recoverMarkerIndex implements §4.1's raw-source marker recovery: scan
// backward from contentStart to the line start for an integer before `.`
// or `)`; if absent, scan forward through the rest of the line. Default 1.
func recoverMarkerIndex(sp *spanner, contentStart int) int {
	lineStart := sp.lineStart(contentStart)
	if contentStart <= len(sp.src) && lineStart <= contentStart {
		if idx, ok := scanMarkerDigits(sp.src[lineStart:contentStart]); ok {
			return idx
		}
	}
	lineEnd := sp.lineEnd(contentStart)
	if contentStart <= lineEnd && lineEnd <= len(sp.src) {
		if idx, ok := scanMarkerDigits(sp.src[contentStart:lineEnd]); ok {
			return idx
		}
	}
	return 1
}

func scanMarkerDigits(s string) (int, bool) {
	i := 0
	for i < len(s) {
		if s[i] >= '0' && s[i] <= '9' {
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			if j < len(s) && (s[j] == '.' || s[j] == ')') {
				if n, err := strconv.Atoi(s[i:j]); err == nil {
					return n, true
				}
			}
			i = j
		} else {
			i++
		}
	}
	return 0, false
}
