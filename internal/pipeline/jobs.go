package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/steelbid/internal/estimate"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusBatching   JobStatus = "batching"
	StatusExtracting JobStatus = "extracting"
	StatusResolving  JobStatus = "resolving"
	StatusCompleted  JobStatus = "completed"
	StatusPartial    JobStatus = "partial"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions follow.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusPartial || s == StatusFailed
}

// Extraction methods reported with the result.
const (
	MethodText    = "text"
	MethodVision  = "vision"
	MethodChunked = "chunked" // Scan split into page-range attachments
)

// Job tracks the state of a single drawing takeoff.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Name     string    `json:"job_name"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	errors   []string
	members  []estimate.Member
	method   string
	pages    int
	subs     []chan Event
}

// Progress tracks processing progress.
type Progress struct {
	TotalBatches     int      `json:"total_batches"`
	BatchesProcessed int      `json:"batches_processed"`
	MembersFound     int      `json:"members_found"`
	UnknownSections  int      `json:"unknown_sections"`
	Errors           []string `json:"errors"`
}

// NewJob creates a queued job for an upload.
func NewJob(id, name, filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		Name:      name,
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
	now  func() time.Time
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
		now:  time.Now,
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

func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs and returns how many were evicted. Jobs still
// in flight are kept regardless of age.
func (s *JobStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := job.Status.Terminal() && now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// SetStatus updates job status atomically and notifies subscribers. A
// terminal status closes every subscription.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
	if status.Terminal() {
		for _, ch := range j.subs {
			close(ch)
		}
		j.subs = nil
		return
	}
	j.publishLocked(Event{State: status, Status: phase})
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrBatchesProcessed atomically increments batches processed and adds the
// batch's member count.
func (j *Job) IncrBatchesProcessed(members int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.BatchesProcessed++
	j.Progress.MembersFound += members
	j.UpdatedAt = time.Now()
}

// SetTotalBatches records total batch count.
func (j *Job) SetTotalBatches(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalBatches = n
	j.UpdatedAt = time.Now()
}

// SetResult stores the resolved member list.
func (j *Job) SetResult(members []estimate.Member, unknown int, method string, pages int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.members = members
	j.Progress.MembersFound = len(members)
	j.Progress.UnknownSections = unknown
	j.method = method
	j.pages = pages
	j.UpdatedAt = time.Now()
}

// Members returns a copy of the extracted members.
func (j *Job) Members() []estimate.Member {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]estimate.Member, len(j.members))
	copy(out, j.members)
	return out
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// releaseFileData drops the upload once it is no longer needed.
func (j *Job) releaseFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Name      string    `json:"job_name"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Method    string    `json:"method,omitempty"`
	Pages     int       `json:"pages"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	p := j.Progress
	p.Errors = errs
	return JobSnapshot{
		ID:        j.ID,
		Name:      j.Name,
		Status:    j.Status,
		Phase:     j.Phase,
		Filename:  j.Filename,
		Title:     j.Title,
		Method:    j.method,
		Pages:     j.pages,
		Progress:  p,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
