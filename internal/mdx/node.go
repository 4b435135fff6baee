package mdx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/dgallion1/mdxmigrate/internal/doctree"
	"github.com/dgallion1/mdxmigrate/internal/esm"
)

var (
	KindESM            = ast.NewNodeKind("MDXESM")
	KindJSXFlowElement = ast.NewNodeKind("MDXJSXFlowElement")
	KindJSXTextElement = ast.NewNodeKind("MDXJSXTextElement")
	KindFlowExpression = ast.NewNodeKind("MDXFlowExpression")
)

// ESM is a top-level block of import/export statements.
type ESM struct {
	ast.BaseBlock
	Span    doctree.Span
	Program *esm.Program
	dirty   bool
}

func (n *ESM) Kind() ast.NodeKind { return KindESM }

func (n *ESM) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Span":       fmt.Sprintf("%d-%d", n.Span.Start, n.Span.Stop),
		"Statements": fmt.Sprint(len(n.Program.Body)),
	}, nil)
}

// MarkDirty makes the printer re-serialize the block from Program.
func (n *ESM) MarkDirty() { n.dirty = true }

func (n *ESM) Dirty() bool { return n.dirty }

// AttributeKind says how an attribute value was written.
type AttributeKind int

const (
	AttrString     AttributeKind = iota // name="value"
	AttrExpression                      // name={value}
	AttrBoolean                         // name
	AttrSpread                          // {...value}
)

// Attribute is one JSX attribute. For expressions Value holds the source
// between the braces, trimmed.
type Attribute struct {
	Name  string
	Value string
	Kind  AttributeKind
}

func (a Attribute) String() string {
	switch a.Kind {
	case AttrExpression:
		return a.Name + "={" + a.Value + "}"
	case AttrBoolean:
		return a.Name
	case AttrSpread:
		return "{" + a.Value + "}"
	}
	if strings.Contains(a.Value, `"`) {
		return a.Name + "='" + a.Value + "'"
	}
	return a.Name + `="` + a.Value + `"`
}

// Element holds what flow and text JSX elements have in common.
type Element struct {
	Name        string
	Attrs       []Attribute
	Span        doctree.Span // Whole element, tags included
	Inner       doctree.Span // Between the opening and closing tag
	SelfClosing bool
	dirty       bool
}

// Attr returns the first attribute called name.
func (e *Element) Attr(name string) (Attribute, bool) {
	for _, a := range e.Attrs {
		if a.Name == name && a.Kind != AttrSpread {
			return a, true
		}
	}
	return Attribute{}, false
}

// SetAttrs replaces the attribute list.
func (e *Element) SetAttrs(attrs ...Attribute) {
	e.Attrs = attrs
	e.dirty = true
}

func (e *Element) MarkDirty() { e.dirty = true }

func (e *Element) Dirty() bool { return e.dirty }

func (e *Element) render(src []byte, withChildren bool) []byte {
	var b bytes.Buffer
	b.WriteString("<" + e.Name)
	for _, a := range e.Attrs {
		b.WriteString(" " + a.String())
	}
	if !withChildren {
		b.WriteString(" />")
		return b.Bytes()
	}
	b.WriteString(">")
	b.Write(e.Inner.Value(src))
	b.WriteString("</" + e.Name + ">")
	return b.Bytes()
}

func (e *Element) dumpAttrs() map[string]string {
	kv := map[string]string{
		"Name": e.Name,
		"Span": fmt.Sprintf("%d-%d", e.Span.Start, e.Span.Stop),
	}
	for _, a := range e.Attrs {
		kv["@"+a.Name] = a.Value
	}
	return kv
}

// JSXFlowElement is a JSX element standing as a block of its own.
type JSXFlowElement struct {
	ast.BaseBlock
	Element
}

func (n *JSXFlowElement) Kind() ast.NodeKind { return KindJSXFlowElement }

func (n *JSXFlowElement) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, n.dumpAttrs(), nil)
}

// ClearChildren drops every child; the element prints self-closing.
func (n *JSXFlowElement) ClearChildren() {
	n.RemoveChildren(n)
	n.MarkDirty()
}

// ChildElement returns the first direct child element called name.
func (n *JSXFlowElement) ChildElement(name string) *JSXFlowElement {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if el, ok := c.(*JSXFlowElement); ok && el.Name == name {
			return el
		}
	}
	return nil
}

// JSXTextElement is a JSX element inside a paragraph. Its only child, if
// any, is a text node holding the element's content.
type JSXTextElement struct {
	ast.BaseInline
	Element
}

func (n *JSXTextElement) Kind() ast.NodeKind { return KindJSXTextElement }

func (n *JSXTextElement) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, n.dumpAttrs(), nil)
}

// FlowExpression is a braced script expression. Span covers the braces,
// Value the expression inside them.
type FlowExpression struct {
	ast.BaseBlock
	Span  doctree.Span
	Value doctree.Span
}

func (n *FlowExpression) Kind() ast.NodeKind { return KindFlowExpression }

func (n *FlowExpression) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Value": string(n.Value.Value(source)),
	}, nil)
}

// IsElement reports whether n is a flow or text element called name.
func IsElement(n ast.Node, name string) bool {
	switch el := n.(type) {
	case *JSXFlowElement:
		return el.Name == name
	case *JSXTextElement:
		return el.Name == name
	}
	return false
}

// InlineText returns the concatenated text content of n's descendants.
func InlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.WriteString(InlineText(c, src))
	}
	return strings.TrimSpace(buf.String())
}
