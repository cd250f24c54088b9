package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/cirgest/internal/bureau"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusDecoding   JobStatus = "decoding"
	StatusExtracting JobStatus = "extracting"
	StatusExporting  JobStatus = "exporting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPartial
}

// File is one uploaded report and the borrower type it was tagged with.
type File struct {
	Name         string              `json:"name"`
	BorrowerType bureau.BorrowerType `json:"borrower_type"`
	SHA256       string              `json:"sha256"`
	Size         int                 `json:"size"`

	data []byte
}

// NewFile wraps uploaded bytes.
func NewFile(name string, bt bureau.BorrowerType, data []byte) File {
	return File{Name: name, BorrowerType: bt, SHA256: ContentHashHex(data), Size: len(data), data: data}
}

// Data returns the raw file bytes.
func (f File) Data() []byte {
	return f.data
}

// Job tracks the state of a batch of uploaded reports.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`
	Files  []File    `json:"files"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	errors   []string
	warnings []string
	batch    *bureau.Batch
	workbook []byte
}

// Progress tracks processing progress.
type Progress struct {
	TotalFiles   int      `json:"total_files"`
	FilesDecoded int      `json:"files_decoded"`
	Documents    int      `json:"documents"`
	Accounts     int      `json:"accounts"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
}

// NewJob creates a queued job for the given files.
func NewJob(files []File) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Phase:     "queued",
		Files:     files,
		Progress:  Progress{TotalFiles: len(files)},
		CreatedAt: now,
		UpdatedAt: now,
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

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs and reports how many were dropped.
func (s *JobStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// AddWarning records a problem that did not stop the file from being used.
func (j *Job) AddWarning(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.warnings = append(j.warnings, msg)
	j.Progress.Warnings = j.warnings
	j.UpdatedAt = time.Now()
}

// IncrFilesDecoded atomically increments files decoded.
func (j *Job) IncrFilesDecoded() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FilesDecoded++
	j.UpdatedAt = time.Now()
}

// SetResult stores the extracted batch and its rendered workbook.
func (j *Job) SetResult(batch bureau.Batch, workbook []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.batch = &batch
	j.workbook = workbook
	j.Progress.Documents = len(batch.Documents)
	j.Progress.Accounts = batch.AccountCount()
	j.UpdatedAt = time.Now()
}

// Result returns the batch and workbook once the job has produced them.
func (j *Job) Result() (bureau.Batch, []byte, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.batch == nil {
		return bureau.Batch{}, nil, false
	}
	return *j.batch, j.workbook, true
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Files     []File    `json:"files"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	warns := append([]string{}, j.Progress.Warnings...)
	files := make([]File, len(j.Files))
	for i, f := range j.Files {
		files[i] = File{Name: f.Name, BorrowerType: f.BorrowerType, SHA256: f.SHA256, Size: f.Size}
	}
	return JobSnapshot{
		ID:     j.ID,
		Status: j.Status,
		Phase:  j.Phase,
		Files:  files,
		Progress: Progress{
			TotalFiles:   j.Progress.TotalFiles,
			FilesDecoded: j.Progress.FilesDecoded,
			Documents:    j.Progress.Documents,
			Accounts:     j.Progress.Accounts,
			Errors:       errs,
			Warnings:     warns,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
