package document

import "testing"

func TestEqualStructural(t *testing.T) {
	tests := []struct {
		name string
		a, b Node
		want bool
	}{
		{
			name: "identical paragraphs",
			a:    Paragraph{Inlines: []InlineNode{Text{Value: "hi"}}},
			b:    Paragraph{Inlines: []InlineNode{Text{Value: "hi"}}},
			want: true,
		},
		{
			name: "different text",
			a:    Paragraph{Inlines: []InlineNode{Text{Value: "hi"}}},
			b:    Paragraph{Inlines: []InlineNode{Text{Value: "bye"}}},
			want: false,
		},
		{
			name: "nested strong differs from emphasis",
			a:    Strong{Inlines: []InlineNode{Text{Value: "x"}}},
			b:    Emphasis{Inlines: []InlineNode{Text{Value: "x"}}},
			want: false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Equal(test.a, test.b)
			if got != test.want {
				t.Errorf("Equal(%#v, %#v) = %v, want %v", test.a, test.b, got, test.want)
			}
		})
	}
}

func TestSingleParagraphText(t *testing.T) {
	doc := Document{Blocks: []BlockNode{Paragraph{Inlines: []InlineNode{Text{Value: "hello"}}}}}
	text, ok := doc.SingleParagraphText()
	if !ok || text != "hello" {
		t.Errorf("SingleParagraphText() = (%q, %v), want (%q, true)", text, ok, "hello")
	}

	doc2 := Document{Blocks: []BlockNode{HorizontalRule{}}}
	if _, ok := doc2.SingleParagraphText(); ok {
		t.Errorf("SingleParagraphText() on non-paragraph doc should fail")
	}
}

func TestCellNumberOrString(t *testing.T) {
	num, text, isNum := CellNumberOrString(TableCell{Inlines: []InlineNode{Text{Value: "42"}}})
	if !isNum || num != 42 || text != "42" {
		t.Errorf("CellNumberOrString(42) = (%v, %q, %v)", num, text, isNum)
	}
	_, text, isNum = CellNumberOrString(TableCell{Inlines: []InlineNode{Text{Value: "abc"}}})
	if isNum || text != "abc" {
		t.Errorf("CellNumberOrString(abc) = (_, %q, %v), want (_, abc, false)", text, isNum)
	}
}

func TestRenderProducesText(t *testing.T) {
	doc := Document{Blocks: []BlockNode{Paragraph{Inlines: []InlineNode{Text{Value: "hello world"}}}}}
	out := doc.Render()
	if out == "" {
		t.Errorf("Render() returned empty string")
	}
}
