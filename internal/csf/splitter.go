package csf

import (
	"path/filepath"

	"github.com/dgallion1/mdxmigrate/internal/doctree"
	"github.com/dgallion1/mdxmigrate/internal/mdx"
	"github.com/dgallion1/mdxmigrate/internal/naming"
)

// Result is everything one split produced.
type Result struct {
	Module      string
	DocPath     string
	Doc         []byte
	StoriesPath string
	Stories     []byte
	Meta        doctree.MetaDescriptor
	Imports     []doctree.ImportStatement
	Exports     []doctree.StoryDescriptor
	Warnings    []string
}

// Artifacts returns the files to write, doc first.
func (r *Result) Artifacts() []doctree.Artifact {
	return []doctree.Artifact{
		{Path: r.DocPath, Content: r.Doc},
		{Path: r.StoriesPath, Content: r.Stories},
	}
}

// Splitter converts MDX1 docs pages. It holds only configuration and may
// be shared.
type Splitter struct {
	opts Options
}

func NewSplitter(opts Options) *Splitter {
	return &Splitter{opts: opts}
}

func (s *Splitter) Name() string { return "csf" }

// Split rewrites doc in place and synthesizes both outputs. path is the
// input file; outputs are placed next to it.
func (s *Splitter) Split(doc *mdx.Document, path string) (*Result, error) {
	base := naming.BaseName(path)
	dir := filepath.Dir(path)
	res := &Result{
		Module:      naming.ModuleIdentifier(path, s.opts.ModuleSuffix),
		DocPath:     filepath.Join(dir, base+".mdx"),
		StoriesPath: filepath.Join(dir, base+".stories.tsx"),
		Imports:     HarvestImports(doc, s.opts),
	}

	meta, warnings := ExtractMeta(doc)
	res.Meta = meta

	rw := &rewriter{
		doc:      doc,
		module:   res.Module,
		meta:     meta,
		exports:  make(map[string]bool),
		warnings: warnings,
	}
	doc.Rewrite(rw.visit)
	if rw.err != nil {
		return nil, rw.err
	}
	res.Exports = rw.stories
	res.Warnings = rw.warnings

	res.Doc = s.renderDoc(doc.Frontmatter, res.Module, base, doc.Print())
	res.Stories = s.renderStories(doc.Source, meta, res.Imports, res.Exports)
	return res, nil
}

// Transform runs Split and returns the files to write.
func (s *Splitter) Transform(doc *mdx.Document, path string) ([]doctree.Artifact, []string, error) {
	res, err := s.Split(doc, path)
	if err != nil {
		return nil, nil, err
	}
	return res.Artifacts(), res.Warnings, nil
}
