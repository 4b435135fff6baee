package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/dgallion1/mdxmigrate/internal/doctree"
	"github.com/dgallion1/mdxmigrate/internal/mdx"
	"github.com/dgallion1/mdxmigrate/internal/parser"
)

// Transformer turns one parsed document into the files to write.
type Transformer interface {
	Name() string
	Transform(doc *mdx.Document, path string) ([]doctree.Artifact, []string, error)
}

// Runner processes discovered files one at a time. A failing file is
// logged and skipped; it never stops the batch.
type Runner struct {
	transformer Transformer
	log         *slog.Logger
	dryRun      bool
}

func NewRunner(t Transformer, log *slog.Logger, dryRun bool) *Runner {
	return &Runner{transformer: t, log: log, dryRun: dryRun}
}

// Run discovers files under root matching pattern and processes them.
func (r *Runner) Run(ctx context.Context, root, pattern string) (*Report, error) {
	paths, err := Discover(root, pattern)
	if err != nil {
		return nil, err
	}
	r.log.Info("discovered files", "pipeline", r.transformer.Name(), "pattern", pattern, "count", len(paths))
	return r.RunFiles(ctx, paths)
}

// RunFiles processes paths in order. Cancellation is checked between
// files.
func (r *Runner) RunFiles(ctx context.Context, paths []string) (*Report, error) {
	report := NewReport(r.transformer.Name())
	defer report.finish()

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		r.log.Info("Converting", "path", path)
		res := r.Process(path)
		if res.Status == StatusFailed {
			r.log.Error("Error with", "path", path, "error", res.Error)
		}
		report.Add(res)
	}

	s := report.Summary()
	r.log.Info("batch complete",
		"pipeline", report.Pipeline,
		"converted", s.Converted,
		"unchanged", s.Unchanged,
		"dry_run", s.DryRun,
		"failed", s.Failed,
	)
	return report, nil
}

// Process runs parse, transform and write for a single file.
func (r *Runner) Process(path string) (res FileResult) {
	log := r.log.With("path", path)
	res = FileResult{Path: path}
	defer func() {
		if v := recover(); v != nil {
			log.Error("panic during conversion", "panic", v)
			res = FileResult{Path: path, Status: StatusFailed, Error: fmt.Sprintf("panic: %v", v)}
		}
	}()
	fail := func(err error) FileResult {
		res.Status = StatusFailed
		res.Error = err.Error()
		return res
	}

	p, err := parser.ForFile(path)
	if err != nil {
		return fail(err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fail(err)
	}
	doc, err := p.Parse(f, path)
	f.Close()
	if err != nil {
		return fail(fmt.Errorf("parse: %w", err))
	}

	artifacts, warnings, err := r.transformer.Transform(doc, path)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", r.transformer.Name(), err))
	}
	for _, w := range warnings {
		log.Warn("transform warning", "detail", w)
	}
	res.Warnings = warnings

	res.Status = StatusUnchanged
	for _, a := range artifacts {
		changed, err := r.write(a)
		if err != nil {
			return fail(fmt.Errorf("write %s: %w", a.Path, err))
		}
		res.Outputs = append(res.Outputs, a.Path)
		if !changed {
			log.Debug("output unchanged", "output", a.Path)
			continue
		}
		if r.dryRun {
			res.Status = StatusDryRun
		} else {
			res.Status = StatusConverted
		}
	}
	return res
}

// write stores a unless the file already holds the same content. It
// reports whether the file differs.
func (r *Runner) write(a doctree.Artifact) (bool, error) {
	existing, err := os.ReadFile(a.Path)
	switch {
	case err == nil:
		if bytes.Equal(existing, a.Content) {
			return false, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return false, err
	}
	if r.dryRun {
		return true, nil
	}
	return true, os.WriteFile(a.Path, a.Content, 0o644)
}
