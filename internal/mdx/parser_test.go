package mdx

import (
	"errors"
	"testing"

	"github.com/yuin/goldmark/ast"
)

const buttonDoc = `import { Meta } from "@storybook/addon-docs";
import { Button } from "./button";

<Meta title="Components/Button" component={Button} />

<Title>Button</Title>

Some text with <Badge>new</Badge> inside.

<Canvas>
  <Story name="Primary">
    <Button>Click</Button>
  </Story>
</Canvas>
`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := NewParser().Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func children(n ast.Node) []ast.Node {
	var out []ast.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

func TestParse_TopLevelNodes(t *testing.T) {
	doc := mustParse(t, buttonDoc)
	top := children(doc.Root)
	if len(top) != 5 {
		t.Fatalf("expected 5 top-level nodes, got %d", len(top))
	}

	block, ok := top[0].(*ESM)
	if !ok {
		t.Fatalf("expected ESM first, got %T", top[0])
	}
	if len(block.Program.Imports()) != 2 {
		t.Errorf("expected 2 imports, got %d", len(block.Program.Imports()))
	}

	meta, ok := top[1].(*JSXFlowElement)
	if !ok || meta.Name != "Meta" {
		t.Fatalf("expected Meta flow element, got %T", top[1])
	}
	if a, ok := meta.Attr("title"); !ok || a.Value != "Components/Button" || a.Kind != AttrString {
		t.Errorf("unexpected title attribute %+v", a)
	}
	if a, ok := meta.Attr("component"); !ok || a.Value != "Button" || a.Kind != AttrExpression {
		t.Errorf("unexpected component attribute %+v", a)
	}
	if !meta.SelfClosing {
		t.Error("expected Meta to be self-closing")
	}

	title, ok := top[2].(*ast.Paragraph)
	if !ok {
		t.Fatalf("expected paragraph, got %T", top[2])
	}
	el, ok := title.FirstChild().(*JSXTextElement)
	if !ok || el.Name != "Title" {
		t.Fatalf("expected Title text element, got %T", title.FirstChild())
	}
	if got := InlineText(el, doc.Source); got != "Button" {
		t.Errorf("expected label %q, got %q", "Button", got)
	}

	if _, ok := top[3].(*ast.Paragraph); !ok {
		t.Errorf("expected inline Badge to stay in a paragraph, got %T", top[3])
	}

	canvas, ok := top[4].(*JSXFlowElement)
	if !ok || canvas.Name != "Canvas" {
		t.Fatalf("expected Canvas, got %T", top[4])
	}
	story := canvas.ChildElement("Story")
	if story == nil {
		t.Fatal("expected Story inside Canvas")
	}
	body, ok := story.FirstChild().(*JSXFlowElement)
	if !ok {
		t.Fatalf("expected element body, got %T", story.FirstChild())
	}
	if got := string(body.Span.Value(doc.Source)); got != "<Button>Click</Button>" {
		t.Errorf("expected exact body source, got %q", got)
	}
}

func TestParse_TextInsideNestedElements(t *testing.T) {
	src := "<Canvas>\n  <Story name=\"A\">\n    <Button>Click me</Button>\n  </Story>\n</Canvas>\n"
	doc := mustParse(t, src)

	canvas, ok := doc.Root.FirstChild().(*JSXFlowElement)
	if !ok || canvas.Name != "Canvas" {
		t.Fatalf("expected Canvas, got %T", doc.Root.FirstChild())
	}
	story := canvas.ChildElement("Story")
	if story == nil {
		t.Fatal("expected Story inside Canvas")
	}
	button := story.ChildElement("Button")
	if button == nil {
		t.Fatal("expected Button inside Story")
	}
	label, ok := button.FirstChild().(*ast.Text)
	if !ok {
		t.Fatalf("expected text child, got %T", button.FirstChild())
	}
	if got := string(label.Segment.Value(doc.Source)); got != "Click me" {
		t.Errorf("expected %q, got %q", "Click me", got)
	}
	if got := string(doc.Print()); got != src {
		t.Errorf("expected untouched output, got %q", got)
	}
}

func TestParse_ExpressionChildren(t *testing.T) {
	src := "<Canvas>\n  <Story name=\"Bound\">{Template.bind({})}</Story>\n</Canvas>\n\n{/* note */}\n"
	doc := mustParse(t, src)
	top := children(doc.Root)
	if len(top) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(top))
	}
	story := top[0].(*JSXFlowElement).ChildElement("Story")
	if story == nil {
		t.Fatal("expected Story")
	}
	expr, ok := story.FirstChild().(*FlowExpression)
	if !ok {
		t.Fatalf("expected expression child, got %T", story.FirstChild())
	}
	if got := string(expr.Value.Value(doc.Source)); got != "Template.bind({})" {
		t.Errorf("expected %q, got %q", "Template.bind({})", got)
	}
	if fe, ok := top[1].(*FlowExpression); !ok {
		t.Errorf("expected flow expression, got %T", top[1])
	} else if got := string(fe.Value.Value(doc.Source)); got != "/* note */" {
		t.Errorf("expected comment expression, got %q", got)
	}
}

func TestParse_JSXInsideExpression(t *testing.T) {
	src := "<Story name=\"Cond\">\n  {(args) => args.n < 3 ? <Small {...args} /> : <Large label=\"}\" />}\n</Story>\n"
	doc := mustParse(t, src)
	story, ok := doc.Root.FirstChild().(*JSXFlowElement)
	if !ok {
		t.Fatalf("expected flow element, got %T", doc.Root.FirstChild())
	}
	expr, ok := story.FirstChild().(*FlowExpression)
	if !ok {
		t.Fatalf("expected expression, got %T", story.FirstChild())
	}
	want := `(args) => args.n < 3 ? <Small {...args} /> : <Large label="}" />`
	if got := string(expr.Value.Value(doc.Source)); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParse_AttributeKinds(t *testing.T) {
	doc := mustParse(t, `<Story name='Single' disabled {...rest} args={{ a: 1 }} />`+"\n")
	el := doc.Root.FirstChild().(*JSXFlowElement)
	want := []Attribute{
		{Name: "name", Value: "Single", Kind: AttrString},
		{Name: "disabled", Kind: AttrBoolean},
		{Value: "...rest", Kind: AttrSpread},
		{Name: "args", Value: "{ a: 1 }", Kind: AttrExpression},
	}
	if len(el.Attrs) != len(want) {
		t.Fatalf("expected %d attributes, got %d", len(want), len(el.Attrs))
	}
	for i, a := range want {
		if el.Attrs[i] != a {
			t.Errorf("attribute %d: expected %+v, got %+v", i, a, el.Attrs[i])
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"unclosed story", "# Doc\n\n<Canvas>\n  <Story name=\"x\">\n", 4},
		{"mismatched close", "<Canvas>\n</Story>\n", 2},
		{"bad import", "import { A from 'a'\n\n# x\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Line != tt.line {
				t.Errorf("expected line %d, got %d (%v)", tt.line, pe.Line, err)
			}
		})
	}
}

func TestParse_LowercaseTagsAreNotErrors(t *testing.T) {
	doc := mustParse(t, "Use a <div> wrapper\nwhen needed.\n")
	if _, ok := doc.Root.FirstChild().(*ast.Paragraph); !ok {
		t.Errorf("expected paragraph, got %T", doc.Root.FirstChild())
	}
}
