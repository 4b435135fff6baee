package csf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/mdxmigrate/internal/doctree"
)

const undefined = "undefined"

// docHeader is the block every regenerated doc starts with.
func (s *Splitter) docHeader(module, base string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "import { Canvas, Meta } from %q;\n", s.opts.BlocksModule)
	fmt.Fprintf(&b, "import { Heading3, Heading4, Secondary, Title } from %q;\n", s.opts.SharedModulePath)
	fmt.Fprintf(&b, "import * as %s from %q;\n", module, "./"+base+".stories")
	for _, line := range s.opts.DocImports {
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "\n<Meta of={%s} />\n", module)
	return b.String()
}

func (s *Splitter) renderDoc(frontmatter []byte, module, base string, body []byte) []byte {
	var buf bytes.Buffer
	buf.Write(frontmatter)
	buf.WriteString(s.docHeader(module, base))
	if len(body) > 0 {
		buf.WriteByte('\n')
		buf.Write(body)
	}
	return buf.Bytes()
}

// renderStories builds the story module. Story bodies are copied from src
// byte for byte.
func (s *Splitter) renderStories(src []byte, meta doctree.MetaDescriptor, imports []doctree.ImportStatement, stories []doctree.StoryDescriptor) []byte {
	component := meta.Component
	if component == "" {
		component = undefined
	}
	title := meta.Title
	if title == "" {
		title = undefined
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "import type { Meta, StoryObj } from %q;\n", s.opts.RendererModule)
	for _, imp := range imports {
		buf.WriteString(imp.String() + "\n")
	}
	fmt.Fprintf(&buf, "\ntype Component = typeof %s;\n", component)
	buf.WriteString("\nconst meta: Meta<Component> = {\n")
	fmt.Fprintf(&buf, "    title: %s,\n", strconv.Quote(title))
	fmt.Fprintf(&buf, "    component: %s,\n", component)
	buf.WriteString("};\n\nexport default meta;\n")

	for _, sd := range stories {
		body := sd.Body.Value(src)
		fmt.Fprintf(&buf, "\nexport const %s: StoryObj<Component> = {\n", sd.ExportName)
		switch sd.BodyKind {
		case doctree.BodyElement:
			fmt.Fprintf(&buf, "    render: () => {\n        return %s;\n    },\n", body)
		case doctree.BodyExpression:
			fmt.Fprintf(&buf, "    render: %s,\n", body)
		}
		buf.WriteString("};\n")
	}
	return buf.Bytes()
}
