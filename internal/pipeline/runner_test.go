package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/mdxmigrate/internal/csf"
	"github.com/dgallion1/mdxmigrate/internal/doctree"
	"github.com/dgallion1/mdxmigrate/internal/headings"
	"github.com/dgallion1/mdxmigrate/internal/mdx"
)

const storySource = `import { Button } from "src/button";

<Meta title="Components/Button" component={Button} />

<Canvas>
  <Story name="Primary">
    <Button>Go</Button>
  </Story>
</Canvas>
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunner_IsolatesFailures(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "broken.stories.mdx"), "<Canvas>\n  <Story name=\"x\">\n")
	writeFile(t, filepath.Join(root, "b", "button.stories.mdx"), storySource)

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	r := NewRunner(csf.NewSplitter(csf.DefaultOptions()), log, false)

	report, err := r.Run(context.Background(), root, "**/*.stories.mdx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := report.Summary()
	if s.Total != 2 || s.Failed != 1 || s.Converted != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if !strings.Contains(logs.String(), "Error with") || !strings.Contains(logs.String(), "broken.stories.mdx") {
		t.Errorf("expected failure to be logged with its path, got:\n%s", logs.String())
	}
	if strings.Count(logs.String(), "Converting") != 2 {
		t.Errorf("expected a Converting line per file, got:\n%s", logs.String())
	}

	for _, name := range []string{"button.mdx", "button.stories.tsx"} {
		if _, err := os.Stat(filepath.Join(root, "b", name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "a", "broken.mdx")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no output for the broken file, got %v", err)
	}
}

func TestRunner_UnchangedOnSecondRun(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "doc.mdx")
	writeFile(t, path, "import { Title } from \"../storybook-common\";\n\n<Title>Doc</Title>\n")

	r := NewRunner(headings.NewNormalizer("storybook-common"), quietLogger(), false)
	first, err := r.Run(context.Background(), root, "*.mdx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Files[0].Status != StatusConverted {
		t.Fatalf("expected first run to convert, got %+v", first.Files[0])
	}
	got, _ := os.ReadFile(path)
	if string(got) != "# Doc\n" {
		t.Errorf("expected rewritten file, got %q", got)
	}

	second, err := r.Run(context.Background(), root, "*.mdx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Files[0].Status != StatusUnchanged {
		t.Errorf("expected second run to be unchanged, got %+v", second.Files[0])
	}
}

func TestRunner_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "button.stories.mdx"), storySource)

	r := NewRunner(csf.NewSplitter(csf.DefaultOptions()), quietLogger(), true)
	report, err := r.Run(context.Background(), root, "*.stories.mdx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Files[0].Status != StatusDryRun {
		t.Errorf("expected dry-run status, got %+v", report.Files[0])
	}
	if len(report.Files[0].Outputs) != 2 {
		t.Errorf("expected 2 planned outputs, got %v", report.Files[0].Outputs)
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 1 {
		t.Errorf("expected only the input file, got %d entries", len(entries))
	}
}

type stubTransformer struct {
	calls int
	err   error
}

func (s *stubTransformer) Name() string { return "stub" }

func (s *stubTransformer) Transform(doc *mdx.Document, path string) ([]doctree.Artifact, []string, error) {
	s.calls++
	if s.err != nil {
		return nil, nil, s.err
	}
	return nil, []string{"note"}, nil
}

func TestRunner_TransformErrorIsPerFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mdx"), "# A\n")
	writeFile(t, filepath.Join(root, "b.mdx"), "# B\n")

	stub := &stubTransformer{err: errors.New("boom")}
	report, err := NewRunner(stub, quietLogger(), false).Run(context.Background(), root, "*.mdx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("expected both files attempted, got %d", stub.calls)
	}
	if s := report.Summary(); s.Failed != 2 {
		t.Errorf("expected 2 failures, got %+v", s)
	}
	if !strings.Contains(report.Files[0].Error, "stub: boom") {
		t.Errorf("expected wrapped error, got %q", report.Files[0].Error)
	}
}

type panicTransformer struct{ stubTransformer }

func (p *panicTransformer) Transform(doc *mdx.Document, path string) ([]doctree.Artifact, []string, error) {
	p.calls++
	if strings.HasSuffix(path, "a.mdx") {
		panic("nil node")
	}
	return nil, nil, nil
}

func TestRunner_PanicIsPerFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mdx"), "# A\n")
	writeFile(t, filepath.Join(root, "b.mdx"), "# B\n")

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	tr := &panicTransformer{}
	report, err := NewRunner(tr, log, false).Run(context.Background(), root, "*.mdx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.calls != 2 {
		t.Errorf("expected both files attempted, got %d", tr.calls)
	}
	s := report.Summary()
	if s.Failed != 1 || s.Unchanged != 1 {
		t.Errorf("expected 1 failed and 1 unchanged, got %+v", s)
	}
	if got := report.Files[0]; got.Status != StatusFailed || !strings.Contains(got.Error, "panic: nil node") {
		t.Errorf("unexpected result for a.mdx: %+v", got)
	}
	if !strings.Contains(logs.String(), "Error with") {
		t.Errorf("expected failure to be logged, got:\n%s", logs.String())
	}
}

func TestRunner_StopsWhenCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mdx"), "# A\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubTransformer{}
	report, err := NewRunner(stub, quietLogger(), false).Run(ctx, root, "*.mdx")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stub.calls != 0 || len(report.Files) != 0 {
		t.Errorf("expected no files processed, got %d", len(report.Files))
	}
}

func TestRunner_WarningsRecorded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mdx"), "# A\n")

	report, err := NewRunner(&stubTransformer{}, quietLogger(), false).Run(context.Background(), root, "*.mdx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := report.Files[0]
	if res.Status != StatusUnchanged || len(res.Warnings) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}
