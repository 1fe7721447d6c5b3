package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mgrims/doclens/internal/config"
	"github.com/mgrims/doclens/internal/keywords"
	"github.com/mgrims/doclens/internal/outline"
	"github.com/mgrims/doclens/internal/relevance"
)

// Orchestrator manages the analysis pipeline: a bounded job queue drained by
// a fixed worker pool, plus TTL cleanup of finished jobs.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	builder  *outline.Builder
	analyzer *relevance.Analyzer
	log      *slog.Logger
	cfg      config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. embedder may be nil; scoring then
// runs in keyword-only degraded mode.
func NewOrchestrator(cfg config.Config, tables *keywords.Tables, embedder relevance.Embedder, log *slog.Logger) *Orchestrator {
	builderCfg := outline.DefaultBuilderConfig()
	builderCfg.Strategy = outline.Strategy(cfg.LevelStrategy)

	if embedder != nil {
		embedder = &RetryingEmbedder{Inner: embedder, Log: log}
	}

	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		builder:  outline.NewBuilder(tables, builderCfg, log),
		analyzer: relevance.NewAnalyzer(tables, embedder, log),
		log:      log,
		cfg:      cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := o.NewWorker()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// NewWorker builds a worker over the orchestrator's shared read-only state.
// Also used by the synchronous outline endpoint.
func (o *Orchestrator) NewWorker() *Worker {
	return NewWorker(o.builder, o.analyzer, o.log, o.cfg.MaxConcurrentDocs, o.cfg.MaxConcurrentPages)
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
