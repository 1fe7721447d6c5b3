package pipeline

import (
	"sync"
	"time"

	"github.com/mgrims/doclens/internal/outline"
	"github.com/mgrims/doclens/internal/relevance"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusScanning    JobStatus = "scanning"
	StatusClassifying JobStatus = "classifying"
	StatusOutlining   JobStatus = "outlining"
	StatusSectioning  JobStatus = "sectioning"
	StatusScoring     JobStatus = "scoring"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
	StatusPartial     JobStatus = "partial"
	StatusEmpty       JobStatus = "empty"
)

// DocumentInput is one uploaded document awaiting processing. CleanText is
// the optional externally produced clean body text used to cross-validate
// the outline; empty means no cross-validation.
type DocumentInput struct {
	Filename  string
	Data      []byte
	CleanText string
}

// DocumentOutline pairs a processed document with its outline.
type DocumentOutline struct {
	Document string          `json:"document"`
	Outline  outline.Outline `json:"outline"`
	Error    string          `json:"error,omitempty"`
}

// Job tracks the state of one analysis batch.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status  JobStatus         `json:"status"`
	Phase   string            `json:"phase"`
	Profile relevance.Profile `json:"profile"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	inputs   []DocumentInput
	outlines []DocumentOutline
	result   *relevance.AnalysisResult
	errors   []string
}

// Progress tracks per-document processing progress.
type Progress struct {
	TotalDocuments     int      `json:"total_documents"`
	DocumentsProcessed int      `json:"documents_processed"`
	DocumentsFailed    int      `json:"documents_failed"`
	Errors             []string `json:"errors"`
}

// NewJob builds a queued job over the given inputs.
func NewJob(profile relevance.Profile, inputs []DocumentInput) *Job {
	now := time.Now()
	return &Job{
		ID:      generateULID(),
		Status:  StatusQueued,
		Phase:   "queued",
		Profile: profile,
		Progress: Progress{
			TotalDocuments: len(inputs),
		},
		CreatedAt: now,
		UpdatedAt: now,
		inputs:    inputs,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// statusOrder ranks the pipeline phases so progress reports never rewind;
// terminal statuses rank last and block further advancement.
var statusOrder = map[JobStatus]int{
	StatusQueued:      0,
	StatusScanning:    1,
	StatusClassifying: 2,
	StatusOutlining:   3,
	StatusSectioning:  4,
	StatusScoring:     5,
	StatusCompleted:   6,
	StatusFailed:      6,
	StatusPartial:     6,
	StatusEmpty:       6,
}

// Advance moves the job forward to a later phase. Concurrent documents
// report progress at their own pace, so calls for a phase the job has
// already passed are ignored.
func (j *Job) Advance(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if statusOrder[status] <= statusOrder[j.Status] {
		return
	}
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records a document-scoped error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.Progress.DocumentsFailed++
	j.UpdatedAt = time.Now()
}

// IncrProcessed atomically increments the processed-document count.
func (j *Job) IncrProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DocumentsProcessed++
	j.UpdatedAt = time.Now()
}

// Inputs returns the uploaded documents.
func (j *Job) Inputs() []DocumentInput {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inputs
}

// AddOutline records a per-document outline result.
func (j *Job) AddOutline(do DocumentOutline) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outlines = append(j.outlines, do)
	j.UpdatedAt = time.Now()
}

// SetResult attaches the final analysis result.
func (j *Job) SetResult(r *relevance.AnalysisResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = r
	j.UpdatedAt = time.Now()
}

// Result returns the outlines and analysis result, which may be nil while
// the job is still running.
func (j *Job) Result() ([]DocumentOutline, *relevance.AnalysisResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.outlines, j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string            `json:"job_id"`
	Status    JobStatus         `json:"status"`
	Phase     string            `json:"phase"`
	Profile   relevance.Profile `json:"profile"`
	Progress  Progress          `json:"progress"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:      j.ID,
		Status:  j.Status,
		Phase:   j.Phase,
		Profile: j.Profile,
		Progress: Progress{
			TotalDocuments:     j.Progress.TotalDocuments,
			DocumentsProcessed: j.Progress.DocumentsProcessed,
			DocumentsFailed:    j.Progress.DocumentsFailed,
			Errors:             errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
