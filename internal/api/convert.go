package api

import (
	"strings"
	"time"

	"kinetic/internal/deps"
	"kinetic/internal/preflight"
	"kinetic/internal/stage"
	"kinetic/internal/store"
	"kinetic/internal/workflow"
)

// FromJob converts a store job to its wire form.
func FromJob(job *store.Job) Job {
	if job == nil {
		return Job{}
	}
	return Job{
		ID:         job.ID,
		UUID:       job.Token,
		ProjectID:  job.ProjectID,
		AudioPath:  job.AudioPath,
		VideoPath:  job.VideoPath,
		OutputPath: optionalString(job.OutputPath),
		Status:     string(job.Status),
		Progress:   job.Progress,
		Message:    optionalString(job.Message),
		Error:      optionalString(job.Error),
		CreatedAt:  formatTimestamp(job.CreatedAt),
		UpdatedAt:  formatTimestamp(job.UpdatedAt),
	}
}

// FromJobs converts a slice of jobs, never returning nil.
func FromJobs(jobs []*store.Job) []Job {
	out := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, FromJob(job))
	}
	return out
}

// FromProject converts a store project to its wire form.
func FromProject(project *store.Project) Project {
	if project == nil {
		return Project{}
	}
	return Project{
		ID:        project.ID,
		Name:      project.Name,
		AudioPath: project.AudioPath,
		VideoPath: project.VideoPath,
		CreatedAt: formatTimestamp(project.CreatedAt),
	}
}

// FromMedia converts a store media record to its wire form.
func FromMedia(media *store.Media) Media {
	if media == nil {
		return Media{}
	}
	out := Media{
		ID:        media.ID,
		ProjectID: media.ProjectID,
		FilePath:  media.FilePath,
		MediaType: media.MediaType,
		CreatedAt: formatTimestamp(media.CreatedAt),
	}
	if media.JobID != 0 {
		id := media.JobID
		out.JobID = &id
	}
	return out
}

// FromMediaList converts a slice of media records, never returning nil.
func FromMediaList(media []*store.Media) []Media {
	out := make([]Media, 0, len(media))
	for _, m := range media {
		out = append(out, FromMedia(m))
	}
	return out
}

// FromStatusSummary converts workflow diagnostics to their wire form.
func FromStatusSummary(summary workflow.StatusSummary) WorkflowStatus {
	out := WorkflowStatus{
		Running:     summary.Running,
		QueueDepth:  summary.QueueDepth,
		Pending:     append([]int64{}, summary.Pending...),
		LastError:   summary.LastError,
		Processed:   summary.Processed,
		JobCounts:   make(map[string]int, len(summary.JobCounts)),
		StageHealth: FromStageHealth(summary.StageHealth),
	}
	for status, count := range summary.JobCounts {
		out.JobCounts[string(status)] = count
	}
	if summary.CurrentJob != nil {
		job := FromJob(summary.CurrentJob)
		out.CurrentJob = &job
	}
	if summary.LastJob != nil {
		job := FromJob(summary.LastJob)
		out.LastJob = &job
	}
	return out
}

// FromStageHealth converts engine health records.
func FromStageHealth(records []stage.Health) []StageHealth {
	out := make([]StageHealth, 0, len(records))
	for _, h := range records {
		out = append(out, StageHealth{Name: h.Name, Ready: h.Ready, Detail: h.Detail, Binary: h.Binary})
	}
	return out
}

// FromDependencies converts dependency statuses.
func FromDependencies(statuses []deps.Status) []DependencyStatus {
	out := make([]DependencyStatus, 0, len(statuses))
	for _, dep := range statuses {
		out = append(out, DependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Path:        dep.Path,
			Description: dep.Description,
			Optional:    dep.Optional,
			Available:   dep.Available,
			Detail:      dep.Detail,
		})
	}
	return out
}

// FromPreflight converts preflight results.
func FromPreflight(results []preflight.Result) []CheckResult {
	out := make([]CheckResult, 0, len(results))
	for _, r := range results {
		out = append(out, CheckResult{Name: r.Name, Passed: r.Passed, Detail: r.Detail})
	}
	return out
}

func formatTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	value := t.In(time.Local).Format(timestampFormat)
	return &value
}

func optionalString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
