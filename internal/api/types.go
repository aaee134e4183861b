package api

// timestampFormat renders record timestamps in the daemon's local time.
const timestampFormat = "2006-01-02 15:04:05"

// Job is the poll contract for a single job.
type Job struct {
	ID         int64   `json:"id"`
	UUID       string  `json:"uuid"`
	ProjectID  int64   `json:"project_id"`
	AudioPath  string  `json:"audio_path"`
	VideoPath  string  `json:"video_path"`
	OutputPath *string `json:"output_path"`
	Status     string  `json:"status"`
	Progress   int     `json:"progress"`
	Message    *string `json:"message"`
	Error      *string `json:"error"`
	CreatedAt  *string `json:"created_at"`
	UpdatedAt  *string `json:"updated_at"`
}

// Project describes an audio/video input pair.
type Project struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	AudioPath string  `json:"audio_path"`
	VideoPath string  `json:"video_path"`
	CreatedAt *string `json:"created_at"`
}

// Media describes a produced file.
type Media struct {
	ID        int64   `json:"id"`
	ProjectID int64   `json:"project_id"`
	JobID     *int64  `json:"job_id"`
	FilePath  string  `json:"file_path"`
	MediaType string  `json:"media_type"`
	CreatedAt *string `json:"created_at"`
}

// ProjectDetail is a project with its jobs and media, newest first.
type ProjectDetail struct {
	Project Project `json:"project"`
	Jobs    []Job   `json:"jobs"`
	Media   []Media `json:"media"`
}

// ProjectCreated is returned when a project and its first job are created.
type ProjectCreated struct {
	Project Project `json:"project"`
	Job     Job     `json:"job"`
}

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	Name      string `json:"name"`
	AudioPath string `json:"audio_path"`
	VideoPath string `json:"video_path"`
}

// CreateJobRequest is the body of POST /api/jobs.
type CreateJobRequest struct {
	ProjectID int64  `json:"project_id"`
	AudioPath string `json:"audio_path"`
	VideoPath string `json:"video_path"`
}

// ProjectListResponse wraps GET /api/projects.
type ProjectListResponse struct {
	Projects []Project `json:"projects"`
}

// JobListResponse wraps GET /api/jobs.
type JobListResponse struct {
	Jobs []Job `json:"jobs"`
}

// MediaListResponse wraps GET /api/media.
type MediaListResponse struct {
	Media []Media `json:"media"`
}

// StageHealth mirrors readiness reporting for engine adapters.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
	Binary string `json:"binary,omitempty"`
}

// DependencyStatus captures availability of an external engine.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Path        string `json:"path,omitempty"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// CheckResult reports a preflight check.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// WorkflowStatus summarizes worker state.
type WorkflowStatus struct {
	Running     bool           `json:"running"`
	QueueDepth  int            `json:"queue_depth"`
	Pending     []int64        `json:"pending"`
	CurrentJob  *Job           `json:"current_job,omitempty"`
	LastJob     *Job           `json:"last_job,omitempty"`
	LastError   string         `json:"last_error,omitempty"`
	Processed   int            `json:"processed"`
	JobCounts   map[string]int `json:"job_counts"`
	StageHealth []StageHealth  `json:"stage_health"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	DatabasePath string             `json:"database_path"`
	LockFilePath string             `json:"lock_file_path"`
	QueueBackend string             `json:"queue_backend"`
	Workflow     WorkflowStatus     `json:"workflow"`
	Dependencies []DependencyStatus `json:"dependencies"`
	Preflight    []CheckResult      `json:"preflight"`
}

type errorResponse struct {
	Error string `json:"error"`
}
