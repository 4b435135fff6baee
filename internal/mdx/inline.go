package mdx

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type jsxTextParser struct{}

var defaultJSXTextParser = &jsxTextParser{}

// NewJSXTextParser returns an InlineParser for JSX elements inside
// paragraphs. An element must close on the line it opens.
func NewJSXTextParser() parser.InlineParser {
	return defaultJSXTextParser
}

func (s *jsxTextParser) Trigger() []byte {
	return []byte{'<'}
}

func (s *jsxTextParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()
	if len(line) < 2 || !(isLetter(line[1]) || line[1] == '>') {
		return nil
	}
	src := block.Source()
	raw, err := scanElement(src, segment.Start, segment.Stop)
	if err != nil {
		return nil
	}
	n := &JSXTextElement{Element: Element{
		Name:        raw.name,
		Attrs:       raw.attrs,
		Span:        raw.span,
		Inner:       raw.inner,
		SelfClosing: raw.selfClosing,
	}}
	if label := trimSpan(src, raw.inner); label.Len() > 0 {
		n.AppendChild(n, ast.NewTextSegment(text.NewSegment(label.Start, label.Stop)))
	}
	block.Advance(raw.span.Stop - segment.Start)
	return n
}
