// Package headings rewrites heading alias components into native markdown
// headings and prunes the imports they leave unused.
package headings

import (
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/dgallion1/mdxmigrate/internal/doctree"
	"github.com/dgallion1/mdxmigrate/internal/esm"
	"github.com/dgallion1/mdxmigrate/internal/mdx"
)

// Aliases maps each heading component to the heading level it becomes.
var Aliases = map[string]int{
	"Title":     1,
	"Secondary": 2,
	"Heading3":  2,
	"Heading4":  3,
}

// Stats counts what one Normalize call changed.
type Stats struct {
	Headings     int
	Specifiers   int
	Declarations int
	Blocks       int
}

// Changed reports whether anything was rewritten.
func (s Stats) Changed() bool {
	return s.Headings+s.Specifiers+s.Declarations+s.Blocks > 0
}

// Normalizer applies the heading and import rules. It holds only
// configuration and may be shared.
type Normalizer struct {
	marker string
}

// NewNormalizer returns a Normalizer pruning imports from modules whose
// path contains marker.
func NewNormalizer(marker string) *Normalizer {
	return &Normalizer{marker: marker}
}

func (n *Normalizer) Name() string { return "headings" }

// Normalize rewrites doc in a single pass. Rewritten nodes are not
// descended into.
func (n *Normalizer) Normalize(doc *mdx.Document) Stats {
	var st Stats
	doc.Rewrite(func(node ast.Node) mdx.Outcome {
		switch node := node.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			if h := heading(node); h != nil {
				st.Headings++
				return mdx.Replace(h)
			}
			return mdx.SkipChildren
		case *mdx.ESM:
			n.prune(node.Program, &st)
			node.MarkDirty()
			if len(node.Program.Body) == 0 {
				st.Blocks++
				return mdx.Drop
			}
			return mdx.SkipChildren
		}
		return mdx.Continue
	})
	return st
}

// Transform normalizes doc and returns the file rewritten in place.
func (n *Normalizer) Transform(doc *mdx.Document, path string) ([]doctree.Artifact, []string, error) {
	n.Normalize(doc)
	return []doctree.Artifact{{Path: path, Content: doc.Bytes()}}, nil, nil
}

// heading returns the heading replacing p, or nil when p's first JSX
// element is not a labelled alias. p is a paragraph, or the text block
// goldmark uses in its place inside tight lists.
func heading(p ast.Node) *ast.Heading {
	var el *mdx.JSXTextElement
	for c := p.FirstChild(); c != nil && el == nil; c = c.NextSibling() {
		el, _ = c.(*mdx.JSXTextElement)
	}
	if el == nil {
		return nil
	}
	level, ok := Aliases[el.Name]
	if !ok {
		return nil
	}
	label, ok := el.FirstChild().(*ast.Text)
	if !ok {
		return nil
	}
	h := ast.NewHeading(level)
	h.AppendChild(h, ast.NewTextSegment(label.Segment))
	return h
}

func (n *Normalizer) prune(prog *esm.Program, st *Stats) {
	prog.Filter(func(s esm.Statement) bool {
		d, ok := s.(*esm.ImportDeclaration)
		if !ok || !strings.Contains(d.Source, n.marker) || !d.HasBindings() {
			return true
		}
		kept := d.Specifiers[:0]
		for _, spec := range d.Specifiers {
			if _, alias := Aliases[spec.Imported]; alias {
				st.Specifiers++
				continue
			}
			kept = append(kept, spec)
		}
		d.Specifiers = kept
		if !d.HasBindings() {
			st.Declarations++
			return false
		}
		return true
	})
}
