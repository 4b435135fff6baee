package csf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/dgallion1/mdxmigrate/internal/doctree"
	"github.com/dgallion1/mdxmigrate/internal/mdx"
)

// ExtractMeta reads title and component from the first Meta block.
func ExtractMeta(doc *mdx.Document) (doctree.MetaDescriptor, []string) {
	var (
		meta     doctree.MetaDescriptor
		warnings []string
	)
	doc.Walk(func(n ast.Node) bool {
		el, ok := n.(*mdx.JSXFlowElement)
		if !ok || el.Name != "Meta" {
			return true
		}
		if meta.Present {
			warnings = append(warnings, fmt.Sprintf("line %d: extra Meta block ignored", doc.Line(el.Span.Start)))
			return false
		}
		meta.Present = true
		if a, ok := el.Attr("title"); ok {
			meta.Title = attrText(a)
		}
		if a, ok := el.Attr("component"); ok {
			meta.Component = attrText(a)
		}
		return false
	})

	switch {
	case !meta.Present:
		warnings = append(warnings, "no Meta block; title and component are undefined")
	default:
		if meta.Title == "" {
			warnings = append(warnings, "Meta has no title; emitting undefined")
		}
		if meta.Component == "" {
			warnings = append(warnings, "Meta has no component; emitting undefined")
		}
	}
	return meta, warnings
}

// attrText returns an attribute's value with string-literal expressions
// unquoted.
func attrText(a mdx.Attribute) string {
	if a.Kind != mdx.AttrExpression {
		return a.Value
	}
	v := strings.TrimSpace(a.Value)
	if len(v) >= 2 {
		switch q := v[0]; {
		case q == '"' && v[len(v)-1] == '"':
			if s, err := strconv.Unquote(v); err == nil {
				return s
			}
		case (q == '\'' || q == '`') && v[len(v)-1] == q:
			return v[1 : len(v)-1]
		}
	}
	return v
}
