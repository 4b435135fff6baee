package headings

import (
	"testing"

	"github.com/yuin/goldmark/ast"

	"github.com/dgallion1/mdxmigrate/internal/mdx"
)

const marker = "storybook-common"

func normalize(t *testing.T, src string) (*mdx.Document, Stats) {
	t.Helper()
	doc, err := mdx.NewParser().Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	st := NewNormalizer(marker).Normalize(doc)
	return doc, st
}

func TestNormalize_Document(t *testing.T) {
	src := `import { Title, Secondary, Heading4 } from "../storybook-common";
import { Button } from "src/button";

<Title>Button</Title>

Intro with <Secondary>inline</Secondary> text.

<Heading4>Notes</Heading4>

<Heading3></Heading3> is empty.

Plain paragraph.
`
	want := `import { Button } from "src/button";

# Button

## inline

### Notes

<Heading3></Heading3> is empty.

Plain paragraph.
`
	doc, st := normalize(t, src)
	if got := string(doc.Print()); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
	if st.Headings != 3 || st.Specifiers != 3 || st.Declarations != 1 || st.Blocks != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestNormalize_DepthMapping(t *testing.T) {
	tests := []struct {
		src   string
		level int
		label string
	}{
		{"<Title>Button</Title>\n", 1, "Button"},
		{"<Secondary>Usage</Secondary>\n", 2, "Usage"},
		{"<Heading3>Props</Heading3>\n", 2, "Props"},
		{"<Heading4>Notes</Heading4>\n", 3, "Notes"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			doc, _ := normalize(t, tt.src)
			h, ok := doc.Root.FirstChild().(*ast.Heading)
			if !ok {
				t.Fatalf("expected heading, got %T", doc.Root.FirstChild())
			}
			if h.Level != tt.level {
				t.Errorf("expected level %d, got %d", tt.level, h.Level)
			}
			if h.ChildCount() != 1 {
				t.Errorf("expected a single label child, got %d", h.ChildCount())
			}
			if got := mdx.InlineText(h, doc.Source); got != tt.label {
				t.Errorf("expected label %q, got %q", tt.label, got)
			}
		})
	}
}

func TestNormalize_PrunesOnlyAliases(t *testing.T) {
	doc, _ := normalize(t, "import { Title, Badge as B } from \"../storybook-common\";\nimport { Title } from \"./local\";\n\n<B>x</B>\n")
	want := "import { Badge as B } from \"../storybook-common\";\nimport { Title } from \"./local\";\n\n<B>x</B>\n"
	if got := string(doc.Print()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_EmptiedBlockRemoved(t *testing.T) {
	doc, st := normalize(t, "import { Title } from \"../storybook-common\";\n\n<Title>X</Title>\n")
	if got := string(doc.Print()); got != "# X\n" {
		t.Errorf("expected %q, got %q", "# X\n", got)
	}
	if st.Blocks != 1 {
		t.Errorf("expected 1 removed block, got %d", st.Blocks)
	}
}

func TestNormalize_KeepsSideEffectImports(t *testing.T) {
	doc, _ := normalize(t, "import \"../storybook-common/styles.css\";\n\n# Doc\n")
	want := "import \"../storybook-common/styles.css\";\n\n# Doc\n"
	if got := string(doc.Print()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	src := "---\ntitle: x\n---\n"
	body := "import {Title,Secondary} from '../storybook-common'\nimport { A } from 'a'\nexport const x = 1\n\n<Title>T</Title>\n\n<Secondary>S</Secondary>\n\ntext\n"

	first, err := mdx.NewParser().Parse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	first.Frontmatter = []byte(src)
	n := NewNormalizer(marker)
	out1, _, err := n.Transform(first, "doc.mdx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := mdx.NewParser().Parse(out1[0].Content[len(src):])
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	second.Frontmatter = []byte(src)
	out2, _, err := n.Transform(second, "doc.mdx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out1[0].Content) != string(out2[0].Content) {
		t.Errorf("second run changed output:\n%s\n---\n%s", out1[0].Content, out2[0].Content)
	}
	if st := n.Normalize(second); st.Changed() {
		t.Errorf("expected nothing left to rewrite, got %+v", st)
	}
}

func TestNormalize_TightListItem(t *testing.T) {
	src := `import { Heading4, DocInfo } from "../storybook-common";

- <Heading4>In list</Heading4>
- Plain item

<DocInfo />
`
	want := `import { DocInfo } from "../storybook-common";

- ### In list
- Plain item

<DocInfo />
`
	doc, st := normalize(t, src)
	if got := string(doc.Print()); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
	if st.Headings != 1 || st.Specifiers != 1 || st.Declarations != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}
