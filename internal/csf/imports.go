package csf

import (
	"github.com/yuin/goldmark/ast"

	"github.com/dgallion1/mdxmigrate/internal/doctree"
	"github.com/dgallion1/mdxmigrate/internal/mdx"
)

// HarvestImports collects, in document order, every import declaration the
// story module needs. Declarations binding nothing are left out.
func HarvestImports(doc *mdx.Document, opts Options) []doctree.ImportStatement {
	var out []doctree.ImportStatement
	doc.Walk(func(n ast.Node) bool {
		block, ok := n.(*mdx.ESM)
		if !ok {
			return true
		}
		for _, d := range block.Program.Imports() {
			if opts.excluded(d.Source) {
				continue
			}
			if st := d.Statement(); st.HasBindings() {
				out = append(out, st)
			}
		}
		return false
	})
	return out
}
