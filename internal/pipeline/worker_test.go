package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mgrims/doclens/internal/keywords"
	"github.com/mgrims/doclens/internal/outline"
	"github.com/mgrims/doclens/internal/relevance"
)

func testWorker() *Worker {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tables := keywords.Default()
	builder := outline.NewBuilder(tables, outline.DefaultBuilderConfig(), log)
	analyzer := relevance.NewAnalyzer(tables, nil, log)
	return NewWorker(builder, analyzer, log, 2, 2)
}

func manualTxt() []byte {
	return []byte(strings.Join([]string{
		"1. Introduction",
		"This manual explains safe operation of the bench grinder over several pages.",
		"Read every section before first use and keep the manual near the machine.",
		"1.1 Safety Notes",
		"Always disconnect power before changing the wheel or adjusting guards.",
		"2. Maintenance",
		"Inspect the wheel for cracks monthly and replace worn tool rests promptly.",
	}, "\n"))
}

func TestWorker_ProcessCompletes(t *testing.T) {
	w := testWorker()
	job := NewJob(relevance.Profile{
		Persona:        "Maintenance engineer",
		JobDescription: "find safety and maintenance procedures",
	}, []DocumentInput{
		{Filename: "manual.txt", Data: manualTxt()},
	})

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed (errors: %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.DocumentsProcessed != 1 || snap.Progress.DocumentsFailed != 0 {
		t.Errorf("progress %+v", snap.Progress)
	}

	outlines, result := job.Result()
	if len(outlines) != 1 {
		t.Fatalf("expected 1 outline, got %d", len(outlines))
	}
	if len(outlines[0].Outline.Items) == 0 {
		t.Fatal("expected outline items from numbered headings")
	}
	if outlines[0].Outline.Items[0].Page < 1 {
		t.Errorf("outline pages must be 1-based, got %d", outlines[0].Outline.Items[0].Page)
	}
	if result == nil {
		t.Fatal("expected analysis result when a profile is attached")
	}
	if result.DocumentsProcessed != 1 {
		t.Errorf("analysis covered %d documents, want 1", result.DocumentsProcessed)
	}
}

func TestWorker_ProcessNoInputs(t *testing.T) {
	w := testWorker()
	job := NewJob(relevance.Profile{}, nil)

	w.Process(context.Background(), job)

	if got := job.Snapshot().Status; got != StatusEmpty {
		t.Errorf("status = %s, want empty", got)
	}
}

func TestWorker_ProcessPartialOnDocumentError(t *testing.T) {
	w := testWorker()
	job := NewJob(relevance.Profile{Persona: "engineer"}, []DocumentInput{
		{Filename: "manual.txt", Data: manualTxt()},
		{Filename: "photo.png", Data: []byte("not a document")},
	})

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Fatalf("status = %s, want partial", snap.Status)
	}
	if snap.Progress.DocumentsFailed != 1 || len(snap.Progress.Errors) != 1 {
		t.Errorf("progress %+v", snap.Progress)
	}

	outlines, _ := job.Result()
	if len(outlines) != 2 {
		t.Fatalf("expected per-document outlines for both inputs, got %d", len(outlines))
	}
	var failed *DocumentOutline
	for i := range outlines {
		if outlines[i].Document == "photo.png" {
			failed = &outlines[i]
		}
	}
	if failed == nil || failed.Error == "" {
		t.Errorf("failed document missing its error: %+v", outlines)
	}
}

func TestWorker_ProcessAllFailed(t *testing.T) {
	w := testWorker()
	job := NewJob(relevance.Profile{}, []DocumentInput{
		{Filename: "a.xyz", Data: []byte("x")},
		{Filename: "b.xyz", Data: []byte("y")},
	})

	w.Process(context.Background(), job)

	if got := job.Snapshot().Status; got != StatusFailed {
		t.Errorf("status = %s, want failed", got)
	}
}

func TestWorker_ProcessSkipsScoringWithoutProfile(t *testing.T) {
	w := testWorker()
	job := NewJob(relevance.Profile{}, []DocumentInput{
		{Filename: "manual.txt", Data: manualTxt()},
	})

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", snap.Status)
	}
	if _, result := job.Result(); result != nil {
		t.Error("analysis result present despite empty profile")
	}
}

func TestWorker_OutlineDocument(t *testing.T) {
	w := testWorker()

	out, err := w.OutlineDocument(context.Background(), DocumentInput{
		Filename: "manual.txt",
		Data:     manualTxt(),
	})
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	if len(out.Items) == 0 {
		t.Fatal("expected outline items")
	}

	if _, err := w.OutlineDocument(context.Background(), DocumentInput{Filename: "bad.xyz"}); err == nil {
		t.Error("expected error for unsupported input")
	}
}
