package csf

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/yuin/goldmark/ast"

	"github.com/dgallion1/mdxmigrate/internal/doctree"
	"github.com/dgallion1/mdxmigrate/internal/mdx"
	"github.com/dgallion1/mdxmigrate/internal/naming"
)

// ErrStoryUnnamed is returned when a canvas holds a Story without a name.
var ErrStoryUnnamed = errors.New("story has no name attribute")

// rewriter carries the state of one document's rewrite pass.
type rewriter struct {
	doc      *mdx.Document
	module   string
	meta     doctree.MetaDescriptor
	stories  []doctree.StoryDescriptor
	exports  map[string]bool
	warnings []string
	err      error
}

func (r *rewriter) warnf(offset int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, fmt.Sprintf("line %d: %s", r.doc.Line(offset), msg))
}

// visit drops ESM and Meta blocks and turns every canvas into a reference
// to its story export.
func (r *rewriter) visit(n ast.Node) mdx.Outcome {
	if r.err != nil {
		return mdx.SkipChildren
	}
	switch el := n.(type) {
	case *mdx.ESM:
		return mdx.Drop
	case *mdx.JSXFlowElement:
		switch el.Name {
		case "Meta":
			return mdx.Drop
		case "Canvas":
			return r.canvas(el)
		case "Story":
			r.warnf(el.Span.Start, "Story outside a Canvas left unchanged")
			return mdx.SkipChildren
		}
	}
	return mdx.Continue
}

func (r *rewriter) canvas(el *mdx.JSXFlowElement) mdx.Outcome {
	story := el.ChildElement("Story")
	if story == nil {
		r.warnf(el.Span.Start, "Canvas without a Story dropped")
		return mdx.Drop
	}
	name, ok := story.Attr("name")
	if !ok || attrText(name) == "" {
		r.err = fmt.Errorf("line %d: %w", r.doc.Line(story.Span.Start), ErrStoryUnnamed)
		return mdx.SkipChildren
	}

	sd := doctree.StoryDescriptor{
		RawName:    attrText(name),
		ExportName: r.uniqueExport(naming.ExportName(attrText(name), r.meta.Component)),
	}
	switch body := story.FirstChild().(type) {
	case *mdx.JSXFlowElement:
		sd.BodyKind = doctree.BodyElement
		sd.Body = body.Span
	case *mdx.FlowExpression:
		sd.BodyKind = doctree.BodyExpression
		sd.Body = body.Value
	default:
		r.warnf(story.Span.Start, "Story %q has no element or expression body; no export emitted", sd.RawName)
	}
	if sd.BodyKind != "" {
		r.stories = append(r.stories, sd)
	}

	el.SetAttrs(mdx.Attribute{Name: "of", Value: r.module + "." + sd.ExportName, Kind: mdx.AttrExpression})
	el.ClearChildren()
	return mdx.SkipChildren
}

// uniqueExport returns name, or name with the lowest numeric suffix that is
// still free.
func (r *rewriter) uniqueExport(name string) string {
	out := name
	for i := 2; r.exports[out]; i++ {
		out = name + strconv.Itoa(i)
	}
	r.exports[out] = true
	return out
}
