package mdx

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/mdxmigrate/internal/doctree"
	"github.com/dgallion1/mdxmigrate/internal/esm"
)

var esmStart = regexp.MustCompile(`^(?:import|export)[\s{*]`)

// lineSource returns the source offset of the current line's first
// unconsumed byte.
func lineSource(segment text.Segment, pc parser.Context) int {
	return segment.Start - segment.Padding + pc.BlockOffset()
}

// continueSpan keeps a block open while the reader is still inside stop.
func continueSpan(stop int, reader text.Reader) parser.State {
	line, segment := reader.PeekLine()
	if line == nil || segment.Start >= stop {
		return parser.Close
	}
	newline := 0
	if len(line) > 0 && line[len(line)-1] == '\n' {
		newline = 1
	}
	reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
	return parser.Continue | parser.NoChildren
}

type esmParser struct{}

var defaultESMParser = &esmParser{}

// NewESMParser returns a BlockParser for top-level import/export blocks.
func NewESMParser() parser.BlockParser {
	return defaultESMParser
}

func (b *esmParser) Trigger() []byte {
	return []byte{'i', 'e'}
}

func (b *esmParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	if parent.Kind() != ast.KindDocument || pc.BlockOffset() != 0 {
		return nil, parser.NoChildren
	}
	line, segment := reader.PeekLine()
	if !esmStart.Match(line) {
		return nil, parser.NoChildren
	}
	src := reader.Source()
	start := segment.Start
	node := &ESM{Span: doctree.Span{Start: start, Stop: esmEnd(src, start)}}
	prog, err := esm.Parse(string(node.Span.Value(src)))
	if err != nil {
		offset := start
		if syn, ok := err.(*esm.SyntaxError); ok {
			offset += syn.Offset
		}
		addError(pc, offset, err)
		prog = &esm.Program{}
	}
	node.Program = prog
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (b *esmParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return continueSpan(node.(*ESM).Span.Stop, reader)
}

func (b *esmParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (b *esmParser) CanInterruptParagraph() bool {
	return false
}

func (b *esmParser) CanAcceptIndentedLine() bool {
	return false
}

// esmEnd returns the end of the last non-blank line of the block that
// starts at start.
func esmEnd(src []byte, start int) int {
	stop := start
	for pos := start; pos < len(src); {
		le := lineEnd(src, pos)
		line := bytes.TrimRight(src[pos:le], " \t\r")
		if len(bytes.TrimSpace(line)) == 0 {
			break
		}
		stop = pos + len(line)
		pos = le + 1
	}
	return stop
}

type jsxFlowParser struct{}

var defaultJSXFlowParser = &jsxFlowParser{}

// NewJSXFlowParser returns a BlockParser for JSX elements that stand on
// their own lines.
func NewJSXFlowParser() parser.BlockParser {
	return defaultJSXFlowParser
}

func (b *jsxFlowParser) Trigger() []byte {
	return []byte{'<'}
}

func (b *jsxFlowParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos >= len(line) || line[pos] != '<' {
		return nil, parser.NoChildren
	}
	src := reader.Source()
	start := lineSource(segment, pc)
	raw, err := scanElement(src, start, len(src))
	if err != nil {
		if isComponentTag(src, start) {
			offset := start
			if je, ok := err.(*jsxError); ok {
				offset = je.offset
			}
			addError(pc, offset, err)
		}
		return nil, parser.NoChildren
	}
	if !isFlow(src, raw) {
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - 1)
	return newFlowElement(src, raw), parser.NoChildren
}

func (b *jsxFlowParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return continueSpan(node.(*JSXFlowElement).Span.Stop, reader)
}

func (b *jsxFlowParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (b *jsxFlowParser) CanInterruptParagraph() bool {
	return true
}

func (b *jsxFlowParser) CanAcceptIndentedLine() bool {
	return false
}

func newFlowElement(src []byte, raw *rawElement) *JSXFlowElement {
	n := &JSXFlowElement{Element: Element{
		Name:        raw.name,
		Attrs:       raw.attrs,
		Span:        raw.span,
		Inner:       raw.inner,
		SelfClosing: raw.selfClosing,
	}}
	for _, c := range raw.children {
		switch {
		case c.element != nil:
			n.AppendChild(n, newFlowElement(src, c.element))
		case c.expr != nil:
			n.AppendChild(n, &FlowExpression{Span: c.expr.span, Value: c.expr.value})
		default:
			n.AppendChild(n, ast.NewRawTextSegment(text.NewSegment(c.text.Start, c.text.Stop)))
		}
	}
	return n
}

type expressionParser struct{}

var defaultExpressionParser = &expressionParser{}

// NewExpressionParser returns a BlockParser for braced expressions that
// stand on their own lines.
func NewExpressionParser() parser.BlockParser {
	return defaultExpressionParser
}

func (b *expressionParser) Trigger() []byte {
	return []byte{'{'}
}

func (b *expressionParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos >= len(line) || line[pos] != '{' {
		return nil, parser.NoChildren
	}
	src := reader.Source()
	start := lineSource(segment, pc)
	end, err := skipExpression(src, start, len(src))
	if err != nil {
		addError(pc, start, err)
		return nil, parser.NoChildren
	}
	if !restOfLineBlank(src, end) {
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - 1)
	return &FlowExpression{
		Span:  doctree.Span{Start: start, Stop: end},
		Value: trimSpan(src, doctree.Span{Start: start + 1, Stop: end - 1}),
	}, parser.NoChildren
}

func (b *expressionParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return continueSpan(node.(*FlowExpression).Span.Stop, reader)
}

func (b *expressionParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (b *expressionParser) CanInterruptParagraph() bool {
	return false
}

func (b *expressionParser) CanAcceptIndentedLine() bool {
	return false
}
