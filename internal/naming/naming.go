// Package naming derives TypeScript identifiers from story names and file
// paths.
package naming

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ettle/strcase"
)

// DefaultExport is the export name used when a story is named after the
// component it documents.
const DefaultExport = "Default"

// Pascal converts a free-form label to PascalCase. Apostrophes are dropped
// and any other non-alphanumeric rune separates words.
func Pascal(label string) string {
	var b strings.Builder
	for _, r := range label {
		switch {
		case r == '\'' || r == '’':
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	out := strcase.ToPascal(b.String())
	if out != "" && unicode.IsDigit(rune(out[0])) {
		out = "Story" + out
	}
	return out
}

// BaseName returns the file name without its .mdx extension and without a
// trailing .stories.
func BaseName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, ".stories")
}

// ModuleIdentifier names the namespace a doc imports its story module
// under: the base name without leading digits, PascalCased, plus suffix.
func ModuleIdentifier(path, suffix string) string {
	base := strings.TrimLeftFunc(BaseName(path), unicode.IsDigit)
	return Pascal(base) + suffix
}

// ExportName returns the story export for a raw story name. A story whose
// name matches the component becomes the default story.
func ExportName(raw, component string) string {
	name := Pascal(raw)
	if component != "" && name == component {
		return DefaultExport
	}
	return name
}
