package doctree

import "strings"

// Span is a half-open byte range [Start, Stop) into a document source.
type Span struct {
	Start int
	Stop  int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.Stop - s.Start }

// Contains reports whether o lies entirely inside s.
func (s Span) Contains(o Span) bool {
	return o.Start >= s.Start && o.Stop <= s.Stop
}

// Value returns the bytes of src covered by the span.
func (s Span) Value(src []byte) []byte { return src[s.Start:s.Stop] }

// ImportStatement is an import declaration harvested from an embedded-script block.
type ImportStatement struct {
	Source    string   // Module specifier, verbatim
	TypeOnly  bool     // import type { ... }
	Default   string   // Default binding, empty if none
	Namespace string   // Namespace binding (* as X), empty if none
	Names     []string // Named specifiers, verbatim ("A", "B as C")
}

// HasBindings reports whether the statement imports anything by name.
func (s ImportStatement) HasBindings() bool {
	return s.Default != "" || s.Namespace != "" || len(s.Names) > 0
}

// String renders the statement as a canonical ESM import declaration.
func (s ImportStatement) String() string {
	var b strings.Builder
	b.WriteString("import ")
	if s.TypeOnly {
		b.WriteString("type ")
	}
	var clauses []string
	if s.Default != "" {
		clauses = append(clauses, s.Default)
	}
	if s.Namespace != "" {
		clauses = append(clauses, "* as "+s.Namespace)
	}
	if len(s.Names) > 0 {
		clauses = append(clauses, "{ "+strings.Join(s.Names, ", ")+" }")
	}
	if len(clauses) > 0 {
		b.WriteString(strings.Join(clauses, ", "))
		b.WriteString(" from ")
	}
	b.WriteString(`"` + s.Source + `";`)
	return b.String()
}

// MetaDescriptor is read from the document's Meta block.
// Empty Title or Component means the attribute was absent.
type MetaDescriptor struct {
	Present   bool
	Title     string
	Component string
}

// BodyKind says how a story's render body was written.
type BodyKind string

const (
	BodyElement    BodyKind = "element"
	BodyExpression BodyKind = "expression"
)

// StoryDescriptor describes one story found inside a canvas block.
type StoryDescriptor struct {
	RawName    string
	ExportName string
	BodyKind   BodyKind
	Body       Span // Exact source range of the render body
}

// Artifact is one file produced by a pipeline.
type Artifact struct {
	Path    string
	Content []byte
}
