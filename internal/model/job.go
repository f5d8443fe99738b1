package model

import (
	"slices"
	"time"
)

// JobStatus represents the lifecycle state of a batch job.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Progress tracks how far a job has advanced through its identifiers.
type Progress struct {
	Current      int    `json:"current"`
	Total        int    `json:"total"`
	Message      string `json:"message"`
	Deduplicated int    `json:"deduplicated"`
}

// Job is the polled state of one batch submission.
type Job struct {
	ID          string           `json:"job_id"`
	Status      JobStatus        `json:"status"`
	Source      string           `json:"source"`
	Progress    Progress         `json:"progress"`
	Leads       []Lead           `json:"results"`
	Skipped     []SkippedProfile `json:"skipped_profiles"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt *time.Time       `json:"completed_at"`
	Error       string           `json:"error,omitempty"`
}

// Clone returns a deep copy safe to hand to readers while the owner keeps mutating.
func (j Job) Clone() Job {
	out := j
	out.Leads = slices.Clone(j.Leads)
	out.Skipped = slices.Clone(j.Skipped)
	if out.Leads == nil {
		out.Leads = []Lead{}
	}
	if out.Skipped == nil {
		out.Skipped = []SkippedProfile{}
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
