package store

import "time"

// Status represents a job lifecycle state.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Valid reports whether s is one of the four job states.
func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusRunning, StatusDone, StatusError:
		return true
	}
	return false
}

// Terminal reports whether no further transitions happen from s.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Status messages written by the producer and the worker loop.
const (
	MessageQueued   = "waiting in queue"
	MessageStarting = "starting"
	MessageDone     = "done"
	MessageFailed   = "job failed"
)

// DefaultProjectName is used when a project is created with a blank name.
const DefaultProjectName = "untitled project"

// MediaTypeVideo marks pipeline outputs.
const MediaTypeVideo = "video"

// Project groups an audio/video input pair with the jobs run against it.
type Project struct {
	ID        int64
	Name      string
	AudioPath string
	VideoPath string
	CreatedAt time.Time
}

// Job is one execution of the pipeline.
type Job struct {
	ID         int64
	Token      string
	ProjectID  int64
	AudioPath  string
	VideoPath  string
	OutputPath string
	Status     Status
	Progress   int
	Message    string
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Media is a file produced by a successful job.
type Media struct {
	ID        int64
	ProjectID int64
	// JobID is zero when the producing job no longer exists.
	JobID     int64
	FilePath  string
	MediaType string
	CreatedAt time.Time
}
