package mdx

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
)

type dirtyNode interface {
	Dirty() bool
}

// Print serializes the document body. Bytes belonging to untouched nodes
// are copied from the source; removed, replaced and dirty nodes are
// re-rendered. The result ends with exactly one newline.
func (d *Document) Print() []byte {
	src := d.Source
	var buf bytes.Buffer
	pos := 0
	for _, a := range d.anchors {
		if a.span.Start < pos {
			continue
		}
		var out []byte
		if d.removed[a.node] {
			buf.Write(src[pos:a.span.Start])
			pos = skipBlankLines(src, a.span.Stop)
			continue
		}
		if n, ok := d.replaced[a.node]; ok {
			out = d.render(n)
		} else if dn, ok := a.node.(dirtyNode); ok && dn.Dirty() {
			out = d.render(a.node)
		} else {
			continue
		}
		buf.Write(src[pos:a.span.Start])
		buf.Write(out)
		pos = a.span.Stop
	}
	buf.Write(src[pos:])

	body := bytes.TrimRight(buf.Bytes(), " \t\r\n")
	if len(body) == 0 {
		return nil
	}
	return append(body, '\n')
}

// Bytes returns the frontmatter followed by the printed body.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(d.Frontmatter)
	buf.Write(d.Print())
	return buf.Bytes()
}

func (d *Document) render(n ast.Node) []byte {
	switch n := n.(type) {
	case *ast.Heading:
		return []byte(strings.Repeat("#", n.Level) + " " + InlineText(n, d.Source))
	case *JSXFlowElement:
		return n.render(d.Source, n.HasChildren())
	case *JSXTextElement:
		return n.render(d.Source, n.HasChildren())
	case *ESM:
		return []byte(n.Program.String())
	case *FlowExpression:
		return n.Span.Value(d.Source)
	case *ast.Text:
		return n.Segment.Value(d.Source)
	}
	return nil
}

// skipBlankLines returns the offset after the rest of the line at i and
// any blank lines following it. If non-blank text follows i on the same
// line, i is returned unchanged.
func skipBlankLines(src []byte, i int) int {
	j := i
	for j < len(src) && isWS(src[j]) {
		j++
	}
	switch {
	case j == len(src):
		return j
	case src[j] != '\n':
		return i
	}
	j++
	for {
		k := j
		for k < len(src) && isWS(src[k]) {
			k++
		}
		if k == len(src) {
			return k
		}
		if src[k] != '\n' {
			return j
		}
		j = k + 1
	}
}
