// Package document holds the Markdown document-body AST: the non-instruction
// content of a block (paragraphs, tables, code blocks, lists, and the inline
// nodes inside them). It carries no instruction semantics of its own; C3
// attaches one of these to every Block as its body, and C7/C8 evaluate it
// when a chain-less block is invoked with evaluate_result = true.
package document

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
)

// Alignment mirrors a Markdown table column's alignment marker.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Node is the common interface for every document-body AST node.
type Node interface {
	node()
}

// BlockNode is a block-level document node.
type BlockNode interface {
	Node
	block()
}

// InlineNode is an inline document node.
type InlineNode interface {
	Node
	inline()
}

// Document is an ordered sequence of block nodes — a block's non-instruction
// body, or the evaluated form of one.
type Document struct {
	Blocks []BlockNode
}

func (Document) node() {}

// Equal reports structural equality between two document trees.
func Equal(a, b Node) bool {
	return reflect.DeepEqual(a, b)
}

// Paragraph is a run of inline content.
type Paragraph struct{ Inlines []InlineNode }

func (Paragraph) node()  {}
func (Paragraph) block() {}

// Heading is a heading nested in body content. A bare heading at block
// scope always starts a new Block (C3), so Heading appears only inside
// blockquotes or list items, never as direct block-body content.
type Heading struct {
	Level   int
	Inlines []InlineNode
}

func (Heading) node()  {}
func (Heading) block() {}

// CodeBlock is a fenced or indented code block.
type CodeBlock struct {
	Info    string
	Literal string
}

func (CodeBlock) node()  {}
func (CodeBlock) block() {}

// BlockQuote nests further block content.
type BlockQuote struct{ Blocks []BlockNode }

func (BlockQuote) node()  {}
func (BlockQuote) block() {}

// TableCell is one cell of a Table, header or data row alike.
type TableCell struct{ Inlines []InlineNode }

// Table is a Markdown table with per-column alignment.
type Table struct {
	Alignments []Alignment
	Header     []TableCell
	Rows       [][]TableCell
}

func (Table) node()  {}
func (Table) block() {}

// ListItem is one item of an Unordered/OrderedList body list (not an
// instruction chain item — those are lifted by C3/C4 into Instructions).
type ListItem struct{ Blocks []BlockNode }

// OrderedList is body content: an ordered list that is NOT at block scope
// (block-scope ordered lists are instruction chains, see C3 §4.1).
type OrderedList struct {
	Start int
	Items []ListItem
}

func (OrderedList) node()  {}
func (OrderedList) block() {}

// UnorderedList is body content, unless nested directly inside an
// instruction-chain list item, in which case C4 interprets it as match arms
// instead of constructing this type.
type UnorderedList struct{ Items []ListItem }

func (UnorderedList) node()  {}
func (UnorderedList) block() {}

// HorizontalRule is a thematic break.
type HorizontalRule struct{}

func (HorizontalRule) node()  {}
func (HorizontalRule) block() {}

// Text is a literal run of text.
type Text struct{ Value string }

func (Text) node()   {}
func (Text) inline() {}

// Strong is bold/emphasis-strong inline content (`**...**` at the document
// level, i.e. appearing in body content rather than instruction position).
type Strong struct{ Inlines []InlineNode }

func (Strong) node()   {}
func (Strong) inline() {}

// Emphasis is `*...*`/`_..._` inline content.
type Emphasis struct{ Inlines []InlineNode }

func (Emphasis) node()   {}
func (Emphasis) inline() {}

// Strikethrough is `~~...~~` inline content.
type Strikethrough struct{ Inlines []InlineNode }

func (Strikethrough) node()   {}
func (Strikethrough) inline() {}

// CodeSpan is inline code.
type CodeSpan struct{ Value string }

func (CodeSpan) node()   {}
func (CodeSpan) inline() {}

// Link is `[text](dest)`.
type Link struct {
	Dest    string
	Title   string
	Inlines []InlineNode
}

func (Link) node()   {}
func (Link) inline() {}

// Image is `![text](dest)`.
type Image struct {
	Dest    string
	Title   string
	Inlines []InlineNode
}

func (Image) node()   {}
func (Image) inline() {}

// SoftBreak is a single newline inside a paragraph.
type SoftBreak struct{}

func (SoftBreak) node()   {}
func (SoftBreak) inline() {}

// HardBreak is an explicit line break.
type HardBreak struct{}

func (HardBreak) node()   {}
func (HardBreak) inline() {}

// Render produces the canonical textual form of a Document by lowering it
// into a gomarkdown ast.Node tree and delegating to the html renderer,
// rather than hand-rolling a stringifier.
func (d Document) Render() string {
	root := &ast.Document{}
	root.Children = blocksToAST(d.Blocks)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.Render(root, renderer))
}

func blocksToAST(blocks []BlockNode) []ast.Node {
	out := make([]ast.Node, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, blockToAST(b))
	}
	return out
}

func blockToAST(b BlockNode) ast.Node {
	switch n := b.(type) {
	case Paragraph:
		p := &ast.Paragraph{}
		p.Children = inlinesToAST(n.Inlines)
		return p
	case Heading:
		h := &ast.Heading{Level: n.Level}
		h.Children = inlinesToAST(n.Inlines)
		return h
	case CodeBlock:
		c := &ast.CodeBlock{IsFenced: true}
		c.Literal = []byte(n.Literal)
		c.Info = []byte(n.Info)
		return c
	case BlockQuote:
		q := &ast.BlockQuote{}
		q.Children = blocksToAST(n.Blocks)
		return q
	case Table:
		return tableToAST(n)
	case OrderedList:
		l := &ast.List{ListFlags: ast.ListTypeOrdered, Start: n.Start}
		l.Children = listItemsToAST(n.Items, ast.ListTypeOrdered)
		return l
	case UnorderedList:
		l := &ast.List{}
		l.Children = listItemsToAST(n.Items, 0)
		return l
	case HorizontalRule:
		return &ast.HorizontalRule{}
	default:
		return &ast.Paragraph{}
	}
}

func listItemsToAST(items []ListItem, flags ast.ListType) []ast.Node {
	out := make([]ast.Node, 0, len(items))
	for _, it := range items {
		li := &ast.ListItem{ListFlags: flags}
		li.Children = blocksToAST(it.Blocks)
		out = append(out, li)
	}
	return out
}

func tableToAST(t Table) ast.Node {
	tbl := &ast.Table{}
	head := &ast.TableHeader{}
	headRow := &ast.TableRow{}
	for i, cell := range t.Header {
		c := &ast.TableCell{IsHeader: true, Align: alignToAST(t.alignAt(i))}
		c.Children = inlinesToAST(cell.Inlines)
		headRow.Children = append(headRow.Children, c)
	}
	head.Children = []ast.Node{headRow}
	body := &ast.TableBody{}
	for _, row := range t.Rows {
		r := &ast.TableRow{}
		for i, cell := range row {
			c := &ast.TableCell{Align: alignToAST(t.alignAt(i))}
			c.Children = inlinesToAST(cell.Inlines)
			r.Children = append(r.Children, c)
		}
		body.Children = append(body.Children, r)
	}
	tbl.Children = []ast.Node{head, body}
	return tbl
}

func (t Table) alignAt(i int) Alignment {
	if i < len(t.Alignments) {
		return t.Alignments[i]
	}
	return AlignNone
}

func alignToAST(a Alignment) ast.CellAlignFlags {
	switch a {
	case AlignLeft:
		return ast.TableAlignmentLeft
	case AlignCenter:
		return ast.TableAlignmentCenter
	case AlignRight:
		return ast.TableAlignmentRight
	default:
		return ast.TableAlignmentNone
	}
}

func inlinesToAST(inlines []InlineNode) []ast.Node {
	out := make([]ast.Node, 0, len(inlines))
	for _, in := range inlines {
		out = append(out, inlineToAST(in))
	}
	return out
}

func inlineToAST(in InlineNode) ast.Node {
	switch n := in.(type) {
	case Text:
		t := &ast.Text{}
		t.Literal = []byte(n.Value)
		return t
	case Strong:
		s := &ast.Strong{}
		s.Children = inlinesToAST(n.Inlines)
		return s
	case Emphasis:
		e := &ast.Emph{}
		e.Children = inlinesToAST(n.Inlines)
		return e
	case Strikethrough:
		d := &ast.Del{}
		d.Children = inlinesToAST(n.Inlines)
		return d
	case CodeSpan:
		c := &ast.Code{}
		c.Literal = []byte(n.Value)
		return c
	case Link:
		l := &ast.Link{Destination: []byte(n.Dest), Title: []byte(n.Title)}
		l.Children = inlinesToAST(n.Inlines)
		return l
	case Image:
		im := &ast.Image{Destination: []byte(n.Dest), Title: []byte(n.Title)}
		im.Children = inlinesToAST(n.Inlines)
		return im
	case SoftBreak:
		return &ast.Softbreak{}
	case HardBreak:
		return &ast.Hardbreak{}
	default:
		return &ast.Text{}
	}
}

// SingleParagraphText returns (text, true) when the document is exactly one
// Paragraph containing exactly one Text inline — the §4.5 auto-unwrap rule
// for chain-less block invocation.
func (d Document) SingleParagraphText() (string, bool) {
	if len(d.Blocks) != 1 {
		return "", false
	}
	p, ok := d.Blocks[0].(Paragraph)
	if !ok || len(p.Inlines) != 1 {
		return "", false
	}
	t, ok := p.Inlines[0].(Text)
	if !ok {
		return "", false
	}
	return t.Value, true
}

// SingleTable returns (table, true) when the document is exactly one Table —
// the other §4.5 auto-unwrap rule.
func (d Document) SingleTable() (Table, bool) {
	if len(d.Blocks) != 1 {
		return Table{}, false
	}
	t, ok := d.Blocks[0].(Table)
	return t, ok
}

// CellNumberOrString coerces a rendered table cell's text to a float64 when
// it parses as one, matching §4.5's "cells coerced to Number when parseable,
// else String" rule. Returned as (value, text, isNumber).
func CellNumberOrString(cell TableCell) (float64, string, bool) {
	var sb strings.Builder
	for _, in := range cell.Inlines {
		if t, ok := in.(Text); ok {
			sb.WriteString(t.Value)
		}
	}
	text := sb.String()
	if f, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
		return f, text, true
	}
	return 0, text, false
}
