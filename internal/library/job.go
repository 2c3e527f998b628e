package library

import (
	"context"
	"sync"
	"time"
)

// JobStatus is the state of a batch job.
type JobStatus string

const (
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobCancelled JobStatus = "cancelled"
)

// Job tracks one batch operation. It is safe for concurrent use.
type Job struct {
	ID        string
	Operation Operation
	SourceIDs []string
	StartedAt time.Time

	cancel context.CancelFunc
	done   chan struct{}

	mu         sync.RWMutex
	status     JobStatus
	createdIDs []string
	errMsg     string
	finishedAt time.Time
}

// JobSnapshot is a point-in-time copy of a job for serialization.
type JobSnapshot struct {
	ID         string    `json:"id"`
	Operation  Operation `json:"operation"`
	Status     JobStatus `json:"status"`
	SourceIDs  []string  `json:"sourceIds"`
	CreatedIDs []string  `json:"createdIds"`
	Error      string    `json:"error,omitempty"`
	StartedAt  int64     `json:"startedAt"`
	FinishedAt int64     `json:"finishedAt,omitempty"`
}

func newJob(id string, op Operation, sources []string, now time.Time, cancel context.CancelFunc) *Job {
	return &Job{
		ID:        id,
		Operation: op,
		SourceIDs: sources,
		StartedAt: now,
		cancel:    cancel,
		done:      make(chan struct{}),
		status:    JobRunning,
	}
}

// Done is closed once the job has settled.
func (j *Job) Done() <-chan struct{} { return j.done }

func (j *Job) Status() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// CreatedIDs returns the ids of the items the job added.
func (j *Job) CreatedIDs() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]string{}, j.createdIDs...)
}

func (j *Job) Snapshot() JobSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	s := JobSnapshot{
		ID:         j.ID,
		Operation:  j.Operation,
		Status:     j.status,
		SourceIDs:  append([]string{}, j.SourceIDs...),
		CreatedIDs: append([]string{}, j.createdIDs...),
		Error:      j.errMsg,
		StartedAt:  j.StartedAt.UnixMilli(),
	}
	if !j.finishedAt.IsZero() {
		s.FinishedAt = j.finishedAt.UnixMilli()
	}
	return s
}

func (j *Job) finish(status JobStatus, created []string, errMsg string, at time.Time) {
	j.mu.Lock()
	j.status = status
	j.createdIDs = created
	j.errMsg = errMsg
	j.finishedAt = at
	j.mu.Unlock()
	close(j.done)
}
