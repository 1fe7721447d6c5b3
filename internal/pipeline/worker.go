package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/mgrims/doclens/internal/cleantext"
	"github.com/mgrims/doclens/internal/layout"
	"github.com/mgrims/doclens/internal/outline"
	"github.com/mgrims/doclens/internal/relevance"
	"github.com/mgrims/doclens/internal/sections"
)

// Worker processes one analysis job: every document is scanned, outlined and
// sectioned independently, then the surviving sections are scored together.
type Worker struct {
	builder  *outline.Builder
	analyzer *relevance.Analyzer
	log      *slog.Logger

	maxConcurrentDocs  int
	maxConcurrentPages int
}

func NewWorker(builder *outline.Builder, analyzer *relevance.Analyzer, log *slog.Logger, maxDocs, maxPages int) *Worker {
	if maxDocs <= 0 {
		maxDocs = 1
	}
	return &Worker{
		builder:            builder,
		analyzer:           analyzer,
		log:                log,
		maxConcurrentDocs:  maxDocs,
		maxConcurrentPages: maxPages,
	}
}

// docResult is the per-document outcome inside a batch.
type docResult struct {
	idx      int
	document string
	outline  outline.Outline
	sections []sections.Section
	err      error
}

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	inputs := job.Inputs()

	if len(inputs) == 0 {
		job.SetStatus(StatusEmpty, "done")
		return
	}

	// Phase 1-3 per document, fanned out with bounded concurrency. Results
	// are reassembled in input order so output is deterministic.
	job.SetStatus(StatusScanning, "scanning")
	results := make(chan docResult, len(inputs))
	sem := make(chan struct{}, w.maxConcurrentDocs)

	for i, in := range inputs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			job.AddError(ctx.Err().Error())
			job.SetStatus(StatusFailed, "cancelled")
			return
		}
		go func(i int, in DocumentInput) {
			defer func() { <-sem }()
			r := w.processDocument(ctx, job, in)
			r.idx = i
			results <- r
		}(i, in)
	}

	ordered := make([]docResult, len(inputs))
	for range inputs {
		r := <-results
		ordered[r.idx] = r
		job.IncrProcessed()
	}

	job.SetStatus(StatusSectioning, "sectioning")
	var docs []relevance.DocumentSections
	hadErrors := false
	processed := 0
	for _, r := range ordered {
		do := DocumentOutline{Document: r.document, Outline: r.outline}
		if r.err != nil {
			log.Error("document processing failed", "document", r.document, "error", r.err)
			do.Error = r.err.Error()
			job.AddError(fmt.Sprintf("%s: %s", r.document, r.err))
			hadErrors = true
		} else {
			processed++
			if len(r.sections) > 0 {
				docs = append(docs, relevance.DocumentSections{
					Document: r.document,
					Sections: r.sections,
				})
			}
		}
		job.AddOutline(do)
	}

	if processed == 0 {
		job.SetStatus(StatusFailed, "sectioning")
		return
	}

	// Phase 4: cross-document relevance scoring, when a profile is attached.
	if job.Profile.Persona != "" || job.Profile.JobDescription != "" {
		job.SetStatus(StatusScoring, "scoring")
		result := w.analyzer.Analyze(ctx, job.Profile, docs)
		job.SetResult(&result)
	}

	switch {
	case hadErrors:
		job.SetStatus(StatusPartial, "done")
	case len(docs) == 0:
		job.SetStatus(StatusEmpty, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// processDocument takes one document through scan, outline and section
// extraction, advancing the job's phase as the first document reaches each
// stage. Failures here are isolated to the document.
func (w *Worker) processDocument(ctx context.Context, job *Job, in DocumentInput) docResult {
	r := docResult{document: in.Filename}

	doc, err := w.scan(ctx, in)
	if err != nil {
		r.err = fmt.Errorf("scan: %w", err)
		return r
	}

	var sig cleantext.Signal
	if in.CleanText != "" {
		sig = cleantext.NewFullText(in.CleanText)
	}

	// Build runs candidate classification and level assignment back to back,
	// so the phase markers around it are coarse.
	job.Advance(StatusClassifying, "classifying")
	r.outline = w.builder.Build(doc, sig)
	job.Advance(StatusOutlining, "outlining")
	r.sections = sections.Extract(doc, r.outline)
	return r
}

// OutlineDocument is the synchronous single-document path used by the
// outline endpoint.
func (w *Worker) OutlineDocument(ctx context.Context, in DocumentInput) (outline.Outline, error) {
	doc, err := w.scan(ctx, in)
	if err != nil {
		return outline.Empty(), fmt.Errorf("scan: %w", err)
	}
	var sig cleantext.Signal
	if in.CleanText != "" {
		sig = cleantext.NewFullText(in.CleanText)
	}
	return w.builder.Build(doc, sig), nil
}

func (w *Worker) scan(ctx context.Context, in DocumentInput) (*layout.Document, error) {
	src, err := layout.ForFile(in.Filename)
	if err != nil {
		return nil, err
	}
	if pdfSrc, ok := src.(*layout.PDFSource); ok {
		pdfSrc.MaxConcurrentPages = w.maxConcurrentPages
	}
	return src.Extract(ctx, bytes.NewReader(in.Data), in.Filename)
}
