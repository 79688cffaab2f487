package httpapi

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/zonealloc/report"
)

// JobStatus is the lifecycle state of an asynchronous solve.
type JobStatus string

const (
	// JobQueued is set on creation, before a worker picks the job up.
	JobQueued JobStatus = "queued"
	// JobRunning means the search is in progress.
	JobRunning JobStatus = "running"
	// JobSucceeded jobs carry a Result.
	JobSucceeded JobStatus = "succeeded"
	// JobFailed jobs carry Error and Reason.
	JobFailed JobStatus = "failed"
)

// finished reports whether the job reached a terminal state.
func (j *Job) finished() bool {
	return j.Status == JobSucceeded || j.Status == JobFailed
}

// Job is an asynchronous solve request and, once finished, its result.
type Job struct {
	ID         string           `json:"id"`
	Status     JobStatus        `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
	StartedAt  *time.Time       `json:"startedAt,omitempty"`
	FinishedAt *time.Time       `json:"finishedAt,omitempty"`
	Error      string           `json:"error,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	Result     *report.Document `json:"result,omitempty"`
}

// JobStore keeps jobs in memory, keyed by UUID. Finished jobs are dropped
// once older than the TTL, and the oldest finished jobs go first when more
// than limit are held. Unfinished jobs are never evicted.
type JobStore struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	ttl   time.Duration
	limit int
	now   func() time.Time
}

// NewJobStore returns an empty store. ttl <= 0 keeps finished jobs until the
// limit pushes them out; limit <= 0 disables the count bound.
func NewJobStore(ttl time.Duration, limit int) *JobStore {
	return &JobStore{
		jobs:  make(map[string]*Job),
		ttl:   ttl,
		limit: limit,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue evicts expired jobs, registers a new queued job and returns a
// copy of it.
func (s *JobStore) Enqueue() Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	j := &Job{
		ID:        uuid.NewString(),
		Status:    JobQueued,
		CreatedAt: s.now(),
	}
	s.jobs[j.ID] = j

	return *j
}

// evictLocked drops expired finished jobs, then the oldest finished ones
// until there is room for one more.
//
// Complexity: O(n) per expired pass, O(n) per job evicted over the limit.
func (s *JobStore) evictLocked() {
	if s.ttl > 0 {
		cutoff := s.now().Add(-s.ttl)
		for id, j := range s.jobs {
			if j.finished() && j.FinishedAt.Before(cutoff) {
				delete(s.jobs, id)
			}
		}
	}
	for s.limit > 0 && len(s.jobs) >= s.limit {
		var oldest *Job
		for _, j := range s.jobs {
			if j.finished() && (oldest == nil || j.FinishedAt.Before(*oldest.FinishedAt)) {
				oldest = j
			}
		}
		if oldest == nil {
			return
		}
		delete(s.jobs, oldest.ID)
	}
}

// Get returns a copy of the job with id.
func (s *JobStore) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}

	return *j, true
}

// Len returns the number of stored jobs.
func (s *JobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.jobs)
}

// MarkRunning moves a job to running and stamps StartedAt once.
func (s *JobStore) MarkRunning(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		now := s.now()
		j.Status = JobRunning
		if j.StartedAt == nil {
			j.StartedAt = &now
		}
	}
}

// MarkSucceeded stores the result and stamps FinishedAt.
func (s *JobStore) MarkSucceeded(id string, doc report.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		now := s.now()
		j.Status = JobSucceeded
		j.FinishedAt = &now
		j.Result = &doc
		j.Error, j.Reason = "", ""
	}
}

// MarkFailed records the failure and stamps FinishedAt.
func (s *JobStore) MarkFailed(id, reason, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		now := s.now()
		j.Status = JobFailed
		j.FinishedAt = &now
		j.Reason = reason
		j.Error = msg
	}
}
