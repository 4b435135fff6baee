// Package esm models the embedded-script (ESM) blocks of an MDX document.
//
// Only import declarations are parsed into structure. Every other statement
// and every top-level comment is kept as raw source text so a program can be
// re-serialized without losing anything it does not understand.
package esm

import (
	"fmt"
	"strings"

	"github.com/dgallion1/mdxmigrate/internal/doctree"
)

// Statement is one top-level statement of an ESM block.
type Statement interface {
	String() string
}

// ImportSpecifier is one entry of a named import list.
type ImportSpecifier struct {
	Imported string
	Local    string
	TypeOnly bool
}

func (s ImportSpecifier) String() string {
	out := s.Imported
	if s.Local != "" && s.Local != s.Imported {
		out += " as " + s.Local
	}
	if s.TypeOnly {
		out = "type " + out
	}
	return out
}

// ImportDeclaration is a parsed `import ... from "..."` statement.
type ImportDeclaration struct {
	Source     string
	TypeOnly   bool
	Default    string
	Namespace  string
	Specifiers []ImportSpecifier
}

// HasBindings reports whether the declaration binds any name.
// Side-effect imports (`import "./styles.css"`) have none.
func (d *ImportDeclaration) HasBindings() bool {
	return d.Default != "" || d.Namespace != "" || len(d.Specifiers) > 0
}

// Statement converts the declaration into its harvested form.
func (d *ImportDeclaration) Statement() doctree.ImportStatement {
	st := doctree.ImportStatement{
		Source:    d.Source,
		TypeOnly:  d.TypeOnly,
		Default:   d.Default,
		Namespace: d.Namespace,
	}
	for _, s := range d.Specifiers {
		st.Names = append(st.Names, s.String())
	}
	return st
}

func (d *ImportDeclaration) String() string {
	return d.Statement().String()
}

// Raw is a statement or comment kept verbatim.
type Raw struct {
	Text string
}

func (r *Raw) String() string { return r.Text }

// Program is the ordered statement list of one ESM block.
type Program struct {
	Body []Statement
}

// Imports returns the import declarations in source order.
func (p *Program) Imports() []*ImportDeclaration {
	var out []*ImportDeclaration
	for _, st := range p.Body {
		if d, ok := st.(*ImportDeclaration); ok {
			out = append(out, d)
		}
	}
	return out
}

// Filter keeps only the statements for which keep returns true.
func (p *Program) Filter(keep func(Statement) bool) {
	body := p.Body[:0]
	for _, st := range p.Body {
		if keep(st) {
			body = append(body, st)
		}
	}
	p.Body = body
}

// String re-serializes the program, one statement per line.
func (p *Program) String() string {
	parts := make([]string, 0, len(p.Body))
	for _, st := range p.Body {
		parts = append(parts, st.String())
	}
	return strings.Join(parts, "\n")
}

// SyntaxError reports where an ESM block could not be parsed.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("esm: offset %d: %s", e.Offset, e.Msg)
}
