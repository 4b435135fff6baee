package mdx

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark/ast"

	"github.com/dgallion1/mdxmigrate/internal/doctree"
)

// Document is a parsed MDX file: the goldmark tree plus the source it
// indexes into. Frontmatter, when present, is the raw block including its
// delimiters; Source then holds only the body.
type Document struct {
	Source      []byte
	Frontmatter []byte
	Root        ast.Node

	anchors  []anchor
	removed  map[ast.Node]bool
	replaced map[ast.Node]ast.Node
}

// anchor ties a node to the source bytes it was parsed from.
type anchor struct {
	node ast.Node
	span doctree.Span
}

// NewDocument indexes root, which must have been parsed from src.
func NewDocument(src []byte, root ast.Node) *Document {
	d := &Document{
		Source:   src,
		Root:     root,
		removed:  make(map[ast.Node]bool),
		replaced: make(map[ast.Node]ast.Node),
	}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if sp, ok := spanOf(n, src); ok {
				d.anchors = append(d.anchors, anchor{node: n, span: sp})
			}
		}
		return ast.WalkContinue, nil
	})
	sort.SliceStable(d.anchors, func(i, j int) bool {
		a, b := d.anchors[i].span, d.anchors[j].span
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Stop > b.Stop
	})
	return d
}

func spanOf(n ast.Node, src []byte) (doctree.Span, bool) {
	switch n := n.(type) {
	case *ESM:
		return n.Span, true
	case *JSXFlowElement:
		return n.Span, true
	case *JSXTextElement:
		return n.Span, true
	case *FlowExpression:
		return n.Span, true
	case *ast.Paragraph, *ast.TextBlock:
		lines := n.Lines()
		if lines.Len() == 0 {
			return doctree.Span{}, false
		}
		sp := doctree.Span{Start: lines.At(0).Start, Stop: lines.At(lines.Len() - 1).Stop}
		return trimSpan(src, sp), true
	}
	return doctree.Span{}, false
}

// SpanOf returns the source span of n, if n is anchored in the source.
func (d *Document) SpanOf(n ast.Node) (doctree.Span, bool) {
	return spanOf(n, d.Source)
}

type action int

const (
	actContinue action = iota
	actSkip
	actRemove
	actReplace
)

// Outcome tells Rewrite what to do with a visited node.
type Outcome struct {
	act  action
	node ast.Node
}

var (
	// Continue keeps the node and visits its children.
	Continue = Outcome{act: actContinue}
	// SkipChildren keeps the node without visiting its children.
	SkipChildren = Outcome{act: actSkip}
	// Drop removes the node from the tree and the printed output.
	Drop = Outcome{act: actRemove}
)

// Replace swaps the node for n. The replacement is not visited.
func Replace(n ast.Node) Outcome {
	return Outcome{act: actReplace, node: n}
}

// Rewrite visits the tree in document order and applies fn's outcome to
// each node.
func (d *Document) Rewrite(fn func(n ast.Node) Outcome) {
	d.rewrite(d.Root, fn)
}

func (d *Document) rewrite(parent ast.Node, fn func(ast.Node) Outcome) {
	for n := parent.FirstChild(); n != nil; {
		next := n.NextSibling()
		switch out := fn(n); out.act {
		case actContinue:
			d.rewrite(n, fn)
		case actRemove:
			d.Remove(n)
		case actReplace:
			d.Replace(n, out.node)
		}
		n = next
	}
}

// Remove detaches n. Its source and the blank lines after it are left out
// of the printed output.
func (d *Document) Remove(n ast.Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(p, n)
	}
	d.removed[n] = true
}

// Replace puts n where old was. The printer renders n in place of old's
// source.
func (d *Document) Replace(old, n ast.Node) {
	if p := old.Parent(); p != nil {
		p.ReplaceChild(p, old, n)
	}
	d.replaced[old] = n
}

// Walk visits every node in document order.
func (d *Document) Walk(fn func(n ast.Node) bool) {
	_ = ast.Walk(d.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n == d.Root {
			return ast.WalkContinue, nil
		}
		if !fn(n) {
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
}

// Line returns the 1-based line number of a source offset.
func (d *Document) Line(offset int) int {
	if offset > len(d.Source) {
		offset = len(d.Source)
	}
	return bytes.Count(d.Source[:offset], []byte("\n")) + 1
}
