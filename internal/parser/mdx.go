package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/adrg/frontmatter"

	"github.com/dgallion1/mdxmigrate/internal/mdx"
)

var defaultMDX = mdx.NewParser()

// MDXParser handles MDX files. A leading YAML frontmatter block is split
// off before parsing and kept verbatim on the document.
type MDXParser struct {
	md *mdx.Parser
}

func NewMDXParser() *MDXParser {
	return &MDXParser{md: defaultMDX}
}

func (p *MDXParser) Parse(r io.Reader, filename string) (*mdx.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	matter, body, err := SplitFrontmatter(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	doc, err := p.md.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	doc.Frontmatter = matter
	return doc, nil
}

// SplitFrontmatter returns the raw frontmatter block, delimiters included,
// and the body after it. Sources without frontmatter come back whole.
func SplitFrontmatter(src []byte) (matter, body []byte, err error) {
	if !bytes.HasPrefix(src, []byte("---")) {
		return nil, src, nil
	}
	var meta map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if len(rest) == len(src) || !bytes.HasSuffix(src, rest) {
		return nil, src, nil
	}
	return src[:len(src)-len(rest)], src[len(src)-len(rest):], nil
}
