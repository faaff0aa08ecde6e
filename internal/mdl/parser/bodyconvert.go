package parser

import (
	"github.com/gomarkdown/markdown/ast"

	"markdownlang/internal/mdl/document"
)

// convertBlock lowers a gomarkdown block-level AST node (anything that is
// not a heading or an instruction-chain ordered list) into a
// document.BlockNode, for a Block's non-instruction body content.
func convertBlock(n ast.Node) document.BlockNode {
	switch v := n.(type) {
	case *ast.Paragraph:
		return document.Paragraph{Inlines: convertInlines(v.Children)}
	case *ast.Heading:
		return document.Heading{Level: v.Level, Inlines: convertInlines(v.Children)}
	case *ast.CodeBlock:
		return document.CodeBlock{Info: string(v.Info), Literal: string(v.Literal)}
	case *ast.BlockQuote:
		return document.BlockQuote{Blocks: convertBlocks(v.Children)}
	case *ast.Table:
		return convertTable(v)
	case *ast.List:
		if v.ListFlags&ast.ListTypeOrdered != 0 {
			return document.OrderedList{Start: maxInt(v.Start, 1), Items: convertListItems(v.Children)}
		}
		return document.UnorderedList{Items: convertListItems(v.Children)}
	case *ast.HorizontalRule:
		return document.HorizontalRule{}
	default:
		return document.Paragraph{Inlines: convertInlines(n.GetChildren())}
	}
}

func convertBlocks(nodes []ast.Node) []document.BlockNode {
	out := make([]document.BlockNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, convertBlock(n))
	}
	return out
}

func convertListItems(nodes []ast.Node) []document.ListItem {
	var out []document.ListItem
	for _, n := range nodes {
		li, ok := n.(*ast.ListItem)
		if !ok {
			continue
		}
		out = append(out, document.ListItem{Blocks: convertBlocks(li.Children)})
	}
	return out
}

func convertTable(t *ast.Table) document.BlockNode {
	var aligns []document.Alignment
	var header []document.TableCell
	var rows [][]document.TableCell
	for _, child := range t.Children {
		switch sec := child.(type) {
		case *ast.TableHeader:
			for _, rowNode := range sec.Children {
				row, ok := rowNode.(*ast.TableRow)
				if !ok {
					continue
				}
				for _, cellNode := range row.Children {
					cell, ok := cellNode.(*ast.TableCell)
					if !ok {
						continue
					}
					aligns = append(aligns, convertAlign(cell.Align))
					header = append(header, document.TableCell{Inlines: convertInlines(cell.Children)})
				}
			}
		case *ast.TableBody:
			for _, rowNode := range sec.Children {
				row, ok := rowNode.(*ast.TableRow)
				if !ok {
					continue
				}
				var cells []document.TableCell
				for _, cellNode := range row.Children {
					cell, ok := cellNode.(*ast.TableCell)
					if !ok {
						continue
					}
					cells = append(cells, document.TableCell{Inlines: convertInlines(cell.Children)})
				}
				rows = append(rows, cells)
			}
		}
	}
	return document.Table{Alignments: aligns, Header: header, Rows: rows}
}

func convertAlign(a ast.CellAlignFlags) document.Alignment {
	switch a {
	case ast.TableAlignmentLeft:
		return document.AlignLeft
	case ast.TableAlignmentCenter:
		return document.AlignCenter
	case ast.TableAlignmentRight:
		return document.AlignRight
	default:
		return document.AlignNone
	}
}

func convertInlines(nodes []ast.Node) []document.InlineNode {
	out := make([]document.InlineNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, convertInline(n))
	}
	return out
}

func convertInline(n ast.Node) document.InlineNode {
	switch v := n.(type) {
	case *ast.Text:
		return document.Text{Value: string(v.Literal)}
	case *ast.Strong:
		return document.Strong{Inlines: convertInlines(v.Children)}
	case *ast.Emph:
		return document.Emphasis{Inlines: convertInlines(v.Children)}
	case *ast.Del:
		return document.Strikethrough{Inlines: convertInlines(v.Children)}
	case *ast.Code:
		return document.CodeSpan{Value: string(v.Literal)}
	case *ast.Link:
		return document.Link{Dest: string(v.Destination), Title: string(v.Title), Inlines: convertInlines(v.Children)}
	case *ast.Image:
		return document.Image{Dest: string(v.Destination), Title: string(v.Title), Inlines: convertInlines(v.Children)}
	case *ast.Softbreak:
		return document.SoftBreak{}
	case *ast.Hardbreak:
		return document.HardBreak{}
	default:
		return document.Text{}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
